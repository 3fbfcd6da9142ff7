package panel

import (
	"encoding/json"
	"fmt"

	"github.com/bwmarrin/discordgo"
)

const (
	colorBlue    = 0x3498db
	thumbnailURL = "https://example.com/droplet_icon.png"
)

func defaultEmbed() *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "🔧 Droplet Management",
		Description: "Easily manage your DigitalOcean droplet using the buttons below.",
		Color:       colorBlue,
		Thumbnail:   &discordgo.MessageEmbedThumbnail{URL: thumbnailURL},
		Fields: []*discordgo.MessageEmbedField{
			{Name: "🔄 Resize", Value: "Use buttons to resize the droplet.", Inline: false},
			{Name: "⚡ Power", Value: "Power on/off your droplet or reboot it.", Inline: false},
		},
		Footer: &discordgo.MessageEmbedFooter{Text: "Manage your DigitalOcean resources efficiently."},
	}
}

type LayoutStore interface {
	Layout() json.RawMessage
	SetLayout(layout json.RawMessage) error
}

// Display returns the cached panel embed, generating and persisting the default one
// the first time.
func Display(store LayoutStore) (*discordgo.MessageEmbed, error) {
	raw := store.Layout()
	if len(raw) == 0 {
		var err error
		raw, err = json.Marshal(defaultEmbed())
		if err != nil {
			return nil, err
		}
		if err := store.SetLayout(raw); err != nil {
			return nil, err
		}
	}

	var embed discordgo.MessageEmbed
	if err := json.Unmarshal(raw, &embed); err != nil {
		return nil, fmt.Errorf("error decoding cached panel layout: %w", err)
	}
	return &embed, nil
}
