// Package bot connects the droplet controls to Discord.
//
// The bot owns no state of its own. Settings live in settings.State, per-press
// confirmations in confirm.Manager, and the panel in panel.Surface; handlers only
// translate Discord events into calls on those and render the replies.
package bot

import (
	"context"
	"dropletbot/internal/app"
	"dropletbot/internal/config"
	"fmt"
	"log"

	"github.com/bwmarrin/discordgo"
)

const (
	TriggerReply      = "Action confirmed! Performing the requested operation..."
	RolesUpdatedReply = "Authorized roles updated successfully."

	commandCreateEmbed = "create_embed"
	commandEmbed       = "embed"
	commandSetRoles    = "set_roles"
)

var slashCommands = []*discordgo.ApplicationCommand{
	{
		Name:        commandCreateEmbed,
		Description: "Create an improved embed for droplet management",
	},
}

// session is the part of *discordgo.Session the handlers use.
type session interface {
	InteractionRespond(interaction *discordgo.Interaction, resp *discordgo.InteractionResponse, options ...discordgo.RequestOption) error
	FollowupMessageCreate(interaction *discordgo.Interaction, wait bool, data *discordgo.WebhookParams, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageSend(channelID string, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

type Bot struct {
	container     *app.Container
	config        *config.Config
	triggerPhrase string
	token         string

	ctx     context.Context
	session *discordgo.Session
}

func New(container *app.Container, cfg *config.Config, secrets *config.Secrets) *Bot {
	return &Bot{
		container:     container,
		config:        cfg,
		triggerPhrase: secrets.TriggerPhrase,
		token:         secrets.DiscordToken,
		ctx:           context.Background(),
	}
}

// Run connects to Discord and blocks until ctx is done.
func (b *Bot) Run(ctx context.Context) error {
	dg, err := discordgo.New("Bot " + b.token)
	if err != nil {
		return fmt.Errorf("error creating Discord session: %w", err)
	}
	dg.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsDirectMessages |
		discordgo.IntentMessageContent

	b.ctx = ctx
	b.session = dg

	dg.AddHandler(b.onReady)
	dg.AddHandler(b.onMessageCreate)
	dg.AddHandler(b.onInteractionCreate)

	if err := dg.Open(); err != nil {
		return fmt.Errorf("error opening Discord connection: %w", err)
	}
	defer dg.Close()

	<-ctx.Done()
	log.Println("Shutting down Discord session...")
	return nil
}

func (b *Bot) onReady(s *discordgo.Session, r *discordgo.Ready) {
	log.Printf("%s has connected to Discord!", r.User.String())

	synced, err := s.ApplicationCommandBulkOverwrite(r.User.ID, b.config.GuildID, slashCommands)
	if err != nil {
		log.Printf("Warning: could not sync slash commands: %v", err)
		return
	}
	log.Printf("Synced %d commands", len(synced))
}

func (b *Bot) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	b.handleMessage(s, m)
}

func (b *Bot) onInteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	b.handleInteraction(s, i)
}
