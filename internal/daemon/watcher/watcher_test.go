package watcher

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nuvionclient/presence/internal/config"
	"github.com/nuvionclient/presence/internal/models"
)

func startWatcher(t *testing.T) (*Watcher, string) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv(config.HomeEnv, dir)

	w, err := New()
	require.NoError(t, err)
	require.NoError(t, w.Start())
	t.Cleanup(w.Stop)
	return w, dir
}

func nextEvent(t *testing.T, w *Watcher) Event {
	t.Helper()
	select {
	case ev := <-w.Events():
		return ev
	case <-time.After(3 * time.Second):
		t.Fatal("no watcher event")
		return Event{}
	}
}

func TestSettingsSaveIsReported(t *testing.T) {
	w, dir := startWatcher(t)

	s := models.NewSettings()
	s.Discord.ClientID = "123"
	require.NoError(t, config.SaveSettings(s))

	ev := nextEvent(t, w)
	assert.Equal(t, EventSettingsChanged, ev.Type)
	assert.Equal(t, filepath.Join(dir, config.SettingsFileName), ev.Path)
}

func TestBurstIsDebounced(t *testing.T) {
	w, dir := startWatcher(t)
	path := filepath.Join(dir, config.SettingsFileName)

	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(path, []byte("log_level: debug\n"), 0o644))
	}

	assert.Equal(t, EventSettingsChanged, nextEvent(t, w).Type)
	select {
	case ev := <-w.Events():
		t.Fatalf("unexpected second event %v", ev.Type)
	case <-time.After(3 * debounceDelay):
	}
}

func TestUnrelatedFilesAreIgnored(t *testing.T) {
	w, dir := startWatcher(t)

	require.NoError(t, os.WriteFile(filepath.Join(dir, config.DaemonFileName), []byte("port: 1\n"), 0o644))
	select {
	case ev := <-w.Events():
		t.Fatalf("unexpected event %v for %s", ev.Type, ev.Path)
	case <-time.After(3 * debounceDelay):
	}
}

func TestStopIsIdempotent(t *testing.T) {
	w, _ := startWatcher(t)
	w.Stop()
	w.Stop()
}
