package bot

import (
	"dropletbot/internal/domain"
	"dropletbot/internal/panel"
	"fmt"
	"log"
	"strings"

	"github.com/bwmarrin/discordgo"
)

func (b *Bot) handleMessage(s session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot {
		return
	}

	if b.triggerPhrase != "" && strings.ToLower(m.Content) == b.triggerPhrase {
		if _, err := s.ChannelMessageSend(m.ChannelID, TriggerReply); err != nil {
			log.Printf("Warning: could not answer trigger phrase: %v", err)
		}
	}

	name, args, ok := parseCommand(m.Content, b.config.CommandPrefix)
	if !ok {
		return
	}

	switch name {
	case commandCreateEmbed, commandEmbed:
		b.sendPanel(s, m.ChannelID)
	case commandSetRoles:
		b.reply(s, m.ChannelID, b.setRoles(m.Author.ID, args))
	}
}

func parseCommand(content, prefix string) (string, []string, bool) {
	if prefix == "" || !strings.HasPrefix(content, prefix) {
		return "", nil, false
	}
	fields := strings.Fields(strings.TrimPrefix(content, prefix))
	if len(fields) == 0 {
		return "", nil, false
	}
	return fields[0], fields[1:], true
}

// setRoles replaces the authorized role set. No arguments opens the panel to everyone.
func (b *Bot) setRoles(authorID string, args []string) string {
	if !b.config.IsAdmin(authorID) {
		return panel.DeniedText
	}

	roles := domain.NewRoleSet()
	for _, arg := range args {
		id, err := domain.ParseRoleID(arg)
		if err != nil {
			return fmt.Sprintf("Invalid role ID: %s", arg)
		}
		roles[id] = struct{}{}
	}

	if err := b.container.State.SetAuthorizedRoles(roles); err != nil {
		log.Printf("Error saving authorized roles: %v", err)
		return fmt.Sprintf("Failed to update authorized roles: %v", err)
	}
	return RolesUpdatedReply
}

func (b *Bot) sendPanel(s session, channelID string) {
	embed, err := panel.Display(b.container.State)
	if err != nil {
		log.Printf("Error building panel: %v", err)
		b.reply(s, channelID, "Failed to display the droplet panel.")
		return
	}

	_, err = s.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{
		Embeds:     []*discordgo.MessageEmbed{embed},
		Components: panel.Components(),
	})
	if err != nil {
		log.Printf("Warning: could not send panel: %v", err)
	}
}

func (b *Bot) reply(s session, channelID, content string) {
	if _, err := s.ChannelMessageSend(channelID, content); err != nil {
		log.Printf("Warning: could not send message: %v", err)
	}
}
