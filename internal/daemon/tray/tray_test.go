package tray

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/nuvionclient/presence/internal/models"
)

func TestFormatTooltip(t *testing.T) {
	tests := []struct {
		name string
		p    models.PresenceInfo
		want string
	}{
		{"disconnected", models.PresenceInfo{}, "Nuvion Presence: not connected"},
		{"idle", models.PresenceInfo{Connected: true}, "Nuvion Presence: connected"},
		{"both", models.PresenceInfo{Connected: true, State: "In menus", Details: "Lobby"}, "Nuvion Presence: In menus / Lobby"},
		{"details only", models.PresenceInfo{Connected: true, Details: "Lobby"}, "Nuvion Presence: Lobby"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formatTooltip(tt.p))
		})
	}
}

func TestFormatStatus(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, "Discord: not connected", formatStatus(models.PresenceInfo{}, now))
	assert.Equal(t, "Discord: connected", formatStatus(models.PresenceInfo{Connected: true}, now))

	p := models.PresenceInfo{Connected: true, Since: now.Add(-90*time.Second - 400*time.Millisecond)}
	assert.Equal(t, "Discord: connected for 1m30s", formatStatus(p, now))
}

func TestFormatActivity(t *testing.T) {
	assert.Empty(t, formatActivity(models.PresenceInfo{State: "stale"}))
	assert.Empty(t, formatActivity(models.PresenceInfo{Connected: true}))
	assert.Equal(t, "Playing: Exploring", formatActivity(models.PresenceInfo{Connected: true, State: "Exploring"}))
}

func TestRefreshNeverBlocks(t *testing.T) {
	for i := 0; i < 10; i++ {
		Refresh()
	}
	assert.Len(t, refreshCh, 1)
	<-refreshCh
}
