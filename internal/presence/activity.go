package presence

import "github.com/nuvionclient/presence/internal/discordipc"

// Launcher branding attached to every published activity.
const (
	LargeImageKey  = "nuvion_client_icon"
	LargeImageText = "Nuvion Client"

	WebsiteLabel   = "Website"
	WebsiteURL     = "https://nuvionclient.com/"
	CommunityLabel = "Discord"
	CommunityURL   = "https://discord.gg/tnKvwNt3H4"
)

// NewActivity composes the payload for SetActivity.
func NewActivity(state, details string) *discordipc.Activity {
	return &discordipc.Activity{
		State:   state,
		Details: details,
		Assets: &discordipc.Assets{
			LargeImage: LargeImageKey,
			LargeText:  LargeImageText,
		},
		Buttons: []discordipc.Button{
			{Label: WebsiteLabel, URL: WebsiteURL},
			{Label: CommunityLabel, URL: CommunityURL},
		},
	}
}
