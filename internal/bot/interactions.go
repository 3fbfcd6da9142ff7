package bot

import (
	"dropletbot/internal/confirm"
	"dropletbot/internal/domain"
	"dropletbot/internal/panel"
	"errors"
	"log"
	"strings"

	"github.com/bwmarrin/discordgo"
)

const (
	confirmPrefix = "confirm:"
	cancelPrefix  = "cancel:"

	notRequesterReply = "This confirmation belongs to someone else."
)

func (b *Bot) handleInteraction(s session, i *discordgo.InteractionCreate) {
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		if i.ApplicationCommandData().Name == commandCreateEmbed {
			b.respondPanel(s, i.Interaction)
		}

	case discordgo.InteractionMessageComponent:
		customID := i.MessageComponentData().CustomID
		switch {
		case panel.IsButton(customID):
			b.handlePress(s, i.Interaction, customID)
		case strings.HasPrefix(customID, confirmPrefix):
			b.handleConfirm(s, i.Interaction, strings.TrimPrefix(customID, confirmPrefix))
		case strings.HasPrefix(customID, cancelPrefix):
			b.handleCancel(s, i.Interaction, strings.TrimPrefix(customID, cancelPrefix))
		}
	}
}

func actorOf(i *discordgo.Interaction) panel.Actor {
	if i.Member != nil && i.Member.User != nil {
		return panel.Actor{ID: i.Member.User.ID, Roles: domain.RoleSetFromStrings(i.Member.Roles)}
	}
	if i.User != nil {
		return panel.Actor{ID: i.User.ID, Roles: domain.NewRoleSet()}
	}
	return panel.Actor{Roles: domain.NewRoleSet()}
}

func (b *Bot) respondPanel(s session, i *discordgo.Interaction) {
	embed, err := panel.Display(b.container.State)
	if err != nil {
		log.Printf("Error building panel: %v", err)
		b.respondEphemeral(s, i, "Failed to display the droplet panel.", nil)
		return
	}

	err = s.InteractionRespond(i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds:     []*discordgo.MessageEmbed{embed},
			Components: panel.Components(),
		},
	})
	if err != nil {
		log.Printf("Warning: could not respond with panel: %v", err)
	}
}

func (b *Bot) handlePress(s session, i *discordgo.Interaction, customID string) {
	reply, err := b.container.Surface.Press(customID, actorOf(i))
	if err != nil {
		log.Printf("Warning: panel press %q: %v", customID, err)
		return
	}

	var components []discordgo.MessageComponent
	if reply.Pending != nil {
		components = promptComponents(reply.Pending)
	}
	b.respondEphemeral(s, i, reply.Content, components)
}

func promptComponents(w *confirm.Workflow) []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			discordgo.Button{Label: "Confirm", Style: discordgo.SuccessButton, CustomID: confirmPrefix + w.ID},
			discordgo.Button{Label: "Cancel", Style: discordgo.DangerButton, CustomID: cancelPrefix + w.ID},
		}},
	}
}

// handleConfirm acknowledges with a deferred private reply, then sends the result of
// the single remote call as the follow-up.
func (b *Bot) handleConfirm(s session, i *discordgo.Interaction, workflowID string) {
	actor := actorOf(i)
	w, err := b.container.Workflows.Accept(workflowID, actor.ID)
	if err != nil {
		b.rejectAnswer(s, i, err)
		return
	}

	err = s.InteractionRespond(i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Flags: discordgo.MessageFlagsEphemeral},
	})
	if err != nil {
		log.Printf("Warning: could not acknowledge confirmation: %v", err)
	}

	result := b.container.Workflows.Run(b.ctx, w)

	_, err = s.FollowupMessageCreate(i, true, &discordgo.WebhookParams{
		Content: result.Message,
		Flags:   discordgo.MessageFlagsEphemeral,
	})
	if err != nil {
		log.Printf("Warning: could not deliver result for %s: %v", w.Action, err)
	}
}

func (b *Bot) handleCancel(s session, i *discordgo.Interaction, workflowID string) {
	text, err := b.container.Workflows.Cancel(workflowID, actorOf(i).ID)
	if err != nil {
		b.rejectAnswer(s, i, err)
		return
	}
	b.respondEphemeral(s, i, text, nil)
}

// rejectAnswer leaves expired or finished prompts unanswered, so Discord shows its
// own "interaction failed" notice.
func (b *Bot) rejectAnswer(s session, i *discordgo.Interaction, err error) {
	if errors.Is(err, confirm.ErrNotRequester) {
		b.respondEphemeral(s, i, notRequesterReply, nil)
	}
}

func (b *Bot) respondEphemeral(s session, i *discordgo.Interaction, content string, components []discordgo.MessageComponent) {
	err := s.InteractionRespond(i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content:    content,
			Flags:      discordgo.MessageFlagsEphemeral,
			Components: components,
		},
	})
	if err != nil {
		log.Printf("Warning: could not send private reply: %v", err)
	}
}
