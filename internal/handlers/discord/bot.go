package discord

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/bwmarrin/discordgo"

	"github.com/KirkDiggler/ranked-arena/internal/models"
	"github.com/KirkDiggler/ranked-arena/internal/notify"
	playerRepo "github.com/KirkDiggler/ranked-arena/internal/repositories/player"
	sessionRepo "github.com/KirkDiggler/ranked-arena/internal/repositories/session"
	"github.com/KirkDiggler/ranked-arena/internal/services/draft"
	"github.com/KirkDiggler/ranked-arena/internal/services/matchmaking"
	"github.com/KirkDiggler/ranked-arena/internal/services/vote"
)

// Bot represents the Discord bot instance
type Bot struct {
	session    *discordgo.Session
	commands   map[string]CommandHandler
	commandIDs map[string]string // Maps command name to command ID

	matchmakingService matchmaking.Service
	draftService       draft.Service
	voteService        vote.Service
	playerRepo         playerRepo.Repository
	sessionRepo        sessionRepo.Repository

	renderer *notify.Renderer
	config   *Config
}

// Config holds the configuration for the bot
type Config struct {
	// Discord bot token
	Token string

	// Application ID for the bot
	ApplicationID string

	// Optional guild ID for development (server-specific commands)
	GuildID string

	// Channel where match and result announcements are posted
	AnnounceChannelID string

	// Service dependencies
	MatchmakingService matchmaking.Service
	DraftService       draft.Service
	VoteService        vote.Service

	// Repository dependencies
	PlayerRepo  playerRepo.Repository
	SessionRepo sessionRepo.Repository
}

// New creates a new Discord bot
func New(cfg *Config) (*Bot, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.Token == "" {
		return nil, errors.New("token cannot be empty")
	}

	if cfg.AnnounceChannelID == "" {
		return nil, errors.New("announce channel ID cannot be empty")
	}

	if cfg.MatchmakingService == nil {
		return nil, errors.New("matchmaking service cannot be nil")
	}

	if cfg.DraftService == nil {
		return nil, errors.New("draft service cannot be nil")
	}

	if cfg.VoteService == nil {
		return nil, errors.New("vote service cannot be nil")
	}

	if cfg.PlayerRepo == nil {
		return nil, errors.New("player repository cannot be nil")
	}

	if cfg.SessionRepo == nil {
		return nil, errors.New("session repository cannot be nil")
	}

	session, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to create Discord session: %w", err)
	}

	bot := &Bot{
		session:            session,
		commands:           make(map[string]CommandHandler),
		commandIDs:         make(map[string]string),
		matchmakingService: cfg.MatchmakingService,
		draftService:       cfg.DraftService,
		voteService:        cfg.VoteService,
		playerRepo:         cfg.PlayerRepo,
		sessionRepo:        cfg.SessionRepo,
		renderer:           notify.NewRenderer(),
		config:             cfg,
	}

	// Register the interaction handler
	session.AddHandler(bot.handleInteraction)

	return bot, nil
}

// Start initializes the Discord connection and registers commands
func (b *Bot) Start() error {
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("failed to open Discord connection: %w", err)
	}

	arenaCmd := NewArenaCommand(b)
	if err := b.RegisterCommand(arenaCmd); err != nil {
		return fmt.Errorf("failed to register arena command: %w", err)
	}

	log.Println("Bot is now running. Press CTRL-C to exit.")
	return nil
}

// Stop gracefully shuts down the Discord connection
func (b *Bot) Stop() error {
	appID := b.config.ApplicationID
	if appID == "" {
		appID = b.session.State.User.ID
	}

	guildID := ""
	if b.config.GuildID != "" {
		guildID = b.config.GuildID
	}

	for cmdName, cmdID := range b.commandIDs {
		if err := b.session.ApplicationCommandDelete(appID, guildID, cmdID); err != nil {
			log.Printf("Failed to delete command %s (ID: %s): %v", cmdName, cmdID, err)
		}
	}

	return b.session.Close()
}

// RegisterCommand registers a command with Discord
func (b *Bot) RegisterCommand(cmd CommandHandler) error {
	appID := b.config.ApplicationID
	if appID == "" {
		// Fall back to session user ID if application ID is not provided
		appID = b.session.State.User.ID
	}

	// If guild ID is provided, register command for that specific guild.
	// Otherwise, register it globally.
	guildID := ""
	if b.config.GuildID != "" {
		guildID = b.config.GuildID
		log.Printf("Registering command %s for guild %s", cmd.GetName(), guildID)
	} else {
		log.Printf("Registering command %s globally", cmd.GetName())
	}

	createdCmd, err := b.session.ApplicationCommandCreate(appID, guildID, cmd.GetCommand())
	if err != nil {
		return fmt.Errorf("failed to create command %s: %w", cmd.GetName(), err)
	}

	b.commands[cmd.GetName()] = cmd
	b.commandIDs[cmd.GetName()] = createdCmd.ID
	log.Printf("Registered command: %s with ID: %s", cmd.GetName(), createdCmd.ID)

	return nil
}

// handleInteraction handles Discord interactions
func (b *Bot) handleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		if h, ok := b.commands[i.ApplicationCommandData().Name]; ok {
			if err := h.Handle(s, i); err != nil {
				log.Printf("Error handling command %s: %v", i.ApplicationCommandData().Name, err)
			}
		}
	case discordgo.InteractionMessageComponent:
		if err := b.handleComponentInteraction(s, i); err != nil {
			log.Printf("Error handling component interaction: %v", err)
		}
	}
}

// handleComponentInteraction handles button clicks and select menus. Every
// draft component carries its session ID in the custom ID, so concurrent
// drafts in one channel never cross wires.
func (b *Bot) handleComponentInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	prefix, sessionID := splitComponentID(i.MessageComponentData().CustomID)
	if sessionID == "" {
		return RespondWithError(s, i, fmt.Sprintf("Unknown component: %s", prefix))
	}

	userID := i.Member.User.ID

	switch prefix {
	case ButtonDraftReady:
		return b.handleDraftReadyButton(s, i, sessionID, userID)
	case ButtonCoinHeads:
		return b.handleCoinflipButton(s, i, sessionID, userID, models.CoinFaceHeads)
	case ButtonCoinTails:
		return b.handleCoinflipButton(s, i, sessionID, userID, models.CoinFaceTails)
	case SelectDraftOption:
		return b.handleDraftSelect(s, i, sessionID, userID)
	default:
		return RespondWithError(s, i, fmt.Sprintf("Unknown component: %s", prefix))
	}
}

// handleDraftReadyButton handles a captain clicking Ready
func (b *Bot) handleDraftReadyButton(s *discordgo.Session, i *discordgo.InteractionCreate, sessionID, userID string) error {
	ctx := context.Background()

	output, err := b.draftService.MarkReady(ctx, &draft.MarkReadyInput{
		SessionID: sessionID,
		CaptainID: userID,
	})
	if err != nil {
		return RespondWithError(s, i, draftErrorMessage(err))
	}

	return b.updateDraftMessage(s, i, output.Session)
}

// handleCoinflipButton handles captain A calling heads or tails
func (b *Bot) handleCoinflipButton(s *discordgo.Session, i *discordgo.InteractionCreate, sessionID, userID string, face models.CoinFace) error {
	ctx := context.Background()

	output, err := b.draftService.ChooseFace(ctx, &draft.ChooseFaceInput{
		SessionID: sessionID,
		CaptainID: userID,
		Face:      face,
	})
	if err != nil {
		return RespondWithError(s, i, draftErrorMessage(err))
	}

	return b.updateDraftMessage(s, i, output.Session)
}

// handleDraftSelect handles a captain picking an option from the dropdown
func (b *Bot) handleDraftSelect(s *discordgo.Session, i *discordgo.InteractionCreate, sessionID, userID string) error {
	ctx := context.Background()

	values := i.MessageComponentData().Values
	if len(values) != 1 {
		return RespondWithError(s, i, "Select exactly one hunter.")
	}

	output, err := b.draftService.SelectOption(ctx, &draft.SelectOptionInput{
		SessionID: sessionID,
		CaptainID: userID,
		Option:    values[0],
	})
	if err != nil {
		return RespondWithError(s, i, draftErrorMessage(err))
	}

	return b.updateDraftMessage(s, i, output.Session)
}

// updateDraftMessage re-renders the draft message the component lives on
func (b *Bot) updateDraftMessage(s *discordgo.Session, i *discordgo.InteractionCreate, sess *models.Session) error {
	embed := renderDraftEmbed(sess)
	components := renderDraftComponents(sess)

	return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Embeds:     []*discordgo.MessageEmbed{embed},
			Components: components,
		},
	})
}

// draftErrorMessage maps draft service errors to player-facing text
func draftErrorMessage(err error) string {
	switch {
	case errors.Is(err, draft.ErrSessionNotFound), errors.Is(err, draft.ErrNoDraft):
		return "That draft is no longer running."
	case errors.Is(err, draft.ErrNotACaptain):
		return "Only the team captains can do that."
	case errors.Is(err, draft.ErrWrongCaptain):
		return "Only captain A calls the coinflip."
	case errors.Is(err, draft.ErrWrongStage):
		return "The draft has moved past that step."
	case errors.Is(err, draft.ErrNotYourTurn):
		return "It is not your turn."
	case errors.Is(err, draft.ErrOptionUnavailable):
		return "That hunter is no longer available."
	default:
		return fmt.Sprintf("Something went wrong: %v", err)
	}
}

// AnnounceMatchFormed posts the roster of a freshly formed session to the
// announce channel. Draft sessions get their live draft message here too.
func (b *Bot) AnnounceMatchFormed(ctx context.Context, event *notify.MatchFormedEvent) error {
	sess := event.Session

	embed := renderMatchEmbed(sess, b.renderer.MatchFormedTitle(sess.Mode))
	if _, err := b.session.ChannelMessageSendEmbed(b.config.AnnounceChannelID, embed); err != nil {
		return fmt.Errorf("failed to announce match %s: %w", sess.ID, err)
	}

	if sess.Mode != models.GameModeDraft || sess.Draft == nil {
		return nil
	}

	_, err := b.session.ChannelMessageSendComplex(b.config.AnnounceChannelID, &discordgo.MessageSend{
		Embeds:     []*discordgo.MessageEmbed{renderDraftEmbed(sess)},
		Components: renderDraftComponents(sess),
	})
	if err != nil {
		return fmt.Errorf("failed to post draft message for %s: %w", sess.ID, err)
	}

	return nil
}

// AnnounceResults posts a finalized session's rating changes
func (b *Bot) AnnounceResults(ctx context.Context, event *notify.ResultsEvent) error {
	embed := renderResultsEmbed(b.renderer.ResultsTitle(event.WinningSide), event.Deltas)
	if _, err := b.session.ChannelMessageSendEmbed(b.config.AnnounceChannelID, embed); err != nil {
		return fmt.Errorf("failed to announce results for %s: %w", event.Session.ID, err)
	}

	return nil
}

// AnnounceSessionClosed posts a notice for a session that ended without a result
func (b *Bot) AnnounceSessionClosed(ctx context.Context, event *notify.SessionClosedEvent) error {
	embed := &discordgo.MessageEmbed{
		Title:       "Match Closed",
		Description: b.renderer.ClosedMessage(event.Reason),
		Color:       colorRed,
		Fields:      renderRosters(event.Session),
	}

	if _, err := b.session.ChannelMessageSendEmbed(b.config.AnnounceChannelID, embed); err != nil {
		return fmt.Errorf("failed to announce closure of %s: %w", event.Session.ID, err)
	}

	return nil
}

// AnnounceQueueDrop pings a player whose queue entry expired
func (b *Bot) AnnounceQueueDrop(ctx context.Context, event *notify.QueueDropEvent) error {
	content := fmt.Sprintf("<@%s> %s", event.PlayerID, b.renderer.QueueDropMessage(event.Mode))
	if _, err := b.session.ChannelMessageSend(b.config.AnnounceChannelID, content); err != nil {
		return fmt.Errorf("failed to announce queue drop for %s: %w", event.PlayerID, err)
	}

	return nil
}
