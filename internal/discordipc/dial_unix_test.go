//go:build !windows

package discordipc

import (
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nuvionclient/presence/internal/logging"
)

func TestSocketPathsPreferRuntimeDir(t *testing.T) {
	t.Setenv("XDG_RUNTIME_DIR", "/run/user/1000")
	paths := socketPaths()
	require.NotEmpty(t, paths)
	assert.Equal(t, "/run/user/1000/discord-ipc-0", paths[0])
	assert.Equal(t, "/run/user/1000/discord-ipc-9", paths[9])
	assert.Contains(t, paths, "/run/user/1000/app/com.discordapp.Discord/discord-ipc-0")
	assert.True(t, strings.HasSuffix(paths[len(paths)-1], "snap.discord/discord-ipc-9"))
}

func TestDialDiscordOverUnixSocket(t *testing.T) {
	// t.TempDir can exceed the sun_path limit on macOS.
	dir, err := os.MkdirTemp("", "dipc")
	require.NoError(t, err)
	t.Cleanup(func() { _ = os.RemoveAll(dir) })
	t.Setenv("XDG_RUNTIME_DIR", dir)

	ln, err := net.Listen("unix", filepath.Join(dir, "discord-ipc-0"))
	require.NoError(t, err)
	defer ln.Close()

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		if _, _, err := ReadFrame(conn); err != nil {
			return
		}
		_ = WriteFrame(conn, OpFrame, map[string]any{"cmd": "DISPATCH", "evt": "READY"})
		_, _, _ = ReadFrame(conn)
	}()

	c, err := New("123", WithLogger(logging.Discard))
	require.NoError(t, err)
	require.NoError(t, c.Connect())
	require.NoError(t, c.Disconnect())
}
