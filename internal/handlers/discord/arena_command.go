package discord

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/bwmarrin/discordgo"

	"github.com/KirkDiggler/ranked-arena/internal/models"
	playerRepo "github.com/KirkDiggler/ranked-arena/internal/repositories/player"
	sessionRepo "github.com/KirkDiggler/ranked-arena/internal/repositories/session"
	"github.com/KirkDiggler/ranked-arena/internal/services/matchmaking"
	"github.com/KirkDiggler/ranked-arena/internal/services/vote"
)

// Starting rating for a freshly registered player
const (
	initialRating = 1000
	initialSigma  = 300
)

// ArenaCommand handles the /arena command
type ArenaCommand struct {
	BaseCommand
	bot *Bot
}

// NewArenaCommand creates a new arena command handler
func NewArenaCommand(bot *Bot) *ArenaCommand {
	return &ArenaCommand{
		BaseCommand: BaseCommand{
			Name:        "arena",
			Description: "Ranked arena matchmaking commands",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "register",
					Description: "Register your in-game name",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "ign",
							Description: "Your in-game name",
							Required:    true,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "join",
					Description: "Join a matchmaking queue",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "mode",
							Description: "Which queue to join",
							Required:    true,
							Choices: []*discordgo.ApplicationCommandOptionChoice{
								{
									Name:  "Ranked Arena",
									Value: string(models.GameModeRanked),
								},
								{
									Name:  "Draft Arena",
									Value: string(models.GameModeDraft),
								},
							},
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "leave",
					Description: "Leave the matchmaking queue",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "vote",
					Description: "Vote to cancel your current match",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "game",
							Description: "Session ID, defaults to your current match",
							Required:    false,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "profile",
					Description: "Show a player's rating and record",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "ign",
							Description: "In-game name, defaults to your own profile",
							Required:    false,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "queue",
					Description: "Show who is waiting in each queue",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "leaderboard",
					Description: "Show the rating leaderboard",
				},
			},
		},
		bot: bot,
	}
}

// Handle processes a Discord interaction for the arena command
func (c *ArenaCommand) Handle(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	if i.Type != discordgo.InteractionApplicationCommand {
		return nil
	}

	data := i.ApplicationCommandData()
	if data.Name != c.Name {
		return nil
	}

	userID := i.Member.User.ID

	var err error
	switch data.Options[0].Name {
	case "register":
		err = c.handleRegister(s, i, userID, data.Options[0].Options[0].StringValue())
	case "join":
		err = c.handleJoin(s, i, userID, models.GameMode(data.Options[0].Options[0].StringValue()))
	case "leave":
		err = c.handleLeave(s, i, userID)
	case "vote":
		err = c.handleVote(s, i, userID, stringOption(data.Options[0], "game"))
	case "profile":
		err = c.handleProfile(s, i, userID, stringOption(data.Options[0], "ign"))
	case "queue":
		err = c.handleQueue(s, i)
	case "leaderboard":
		err = c.handleLeaderboard(s, i)
	default:
		err = errors.New("unknown subcommand")
	}

	return err
}

// handleRegister handles the register subcommand
func (c *ArenaCommand) handleRegister(s *discordgo.Session, i *discordgo.InteractionCreate, userID, ign string) error {
	ctx := context.Background()

	existing, err := c.bot.playerRepo.GetPlayer(ctx, &playerRepo.GetPlayerInput{
		PlayerID: userID,
	})
	if err != nil && !errors.Is(err, playerRepo.ErrPlayerNotFound) {
		log.Printf("Error looking up player %s: %v", userID, err)
		return RespondWithError(s, i, "Could not look up your profile. Try again in a moment.")
	}

	if existing != nil {
		return RespondWithEphemeralMessage(s, i,
			fmt.Sprintf("You are already registered as **%s** (%.0f).", existing.IGN, existing.Rating))
	}

	// The monitor matches oracle reports by IGN, so two players sharing
	// one would collide
	taken, err := c.bot.playerRepo.GetPlayerByIGN(ctx, &playerRepo.GetPlayerByIGNInput{
		IGN: ign,
	})
	if err != nil && !errors.Is(err, playerRepo.ErrPlayerNotFound) {
		log.Printf("Error looking up IGN %s: %v", ign, err)
		return RespondWithError(s, i, "Could not check that name. Try again in a moment.")
	}
	if taken != nil {
		return RespondWithError(s, i, fmt.Sprintf("The name **%s** is already registered.", ign))
	}

	profile := &models.PlayerProfile{
		ID:     userID,
		IGN:    ign,
		Rating: initialRating,
		Sigma:  initialSigma,
	}

	if err := c.bot.playerRepo.SavePlayer(ctx, &playerRepo.SavePlayerInput{
		Player: profile,
	}); err != nil {
		log.Printf("Error saving player %s: %v", userID, err)
		return RespondWithError(s, i, "Could not save your profile. Try again in a moment.")
	}

	return RespondWithEphemeralMessage(s, i,
		fmt.Sprintf("Registered as **%s** at rating %.0f. Use `/arena join` to queue up.", ign, profile.Rating))
}

// handleJoin handles the join subcommand
func (c *ArenaCommand) handleJoin(s *discordgo.Session, i *discordgo.InteractionCreate, userID string, mode models.GameMode) error {
	ctx := context.Background()

	output, err := c.bot.matchmakingService.Join(ctx, &matchmaking.JoinInput{
		PlayerID: userID,
		Mode:     mode,
	})
	if err != nil {
		switch {
		case errors.Is(err, matchmaking.ErrProfileNotFound):
			return RespondWithError(s, i, "You need to register first: `/arena register`.")
		case errors.Is(err, matchmaking.ErrAlreadyQueued):
			return RespondWithError(s, i, "You are already in the queue.")
		case errors.Is(err, matchmaking.ErrAlreadyInSession):
			return RespondWithError(s, i, "You are in an ongoing match. Finish it or vote to cancel.")
		case errors.Is(err, matchmaking.ErrInvalidMode):
			return RespondWithError(s, i, "Unknown queue mode.")
		default:
			log.Printf("Error joining queue for %s: %v", userID, err)
			return RespondWithError(s, i, "Could not join the queue. Try again in a moment.")
		}
	}

	return RespondWithMessage(s, i,
		fmt.Sprintf("<@%s> joined the **%s** queue.", output.Entry.PlayerID, mode))
}

// handleLeave handles the leave subcommand
func (c *ArenaCommand) handleLeave(s *discordgo.Session, i *discordgo.InteractionCreate, userID string) error {
	ctx := context.Background()

	output, err := c.bot.matchmakingService.Leave(ctx, &matchmaking.LeaveInput{
		PlayerID: userID,
	})
	if err != nil {
		log.Printf("Error leaving queue for %s: %v", userID, err)
		return RespondWithError(s, i, "Could not leave the queue. Try again in a moment.")
	}

	if !output.Removed {
		return RespondWithEphemeralMessage(s, i, "You were not in the queue.")
	}

	return RespondWithMessage(s, i, fmt.Sprintf("<@%s> left the queue.", userID))
}

// handleVote handles the vote subcommand. Without an explicit session ID
// the player's single ongoing pending match is found for them.
func (c *ArenaCommand) handleVote(s *discordgo.Session, i *discordgo.InteractionCreate, userID, sessionID string) error {
	ctx := context.Background()

	if sessionID == "" {
		open, err := c.bot.sessionRepo.ListOpenSessions(ctx, &sessionRepo.ListOpenSessionsInput{})
		if err != nil {
			log.Printf("Error listing sessions for vote by %s: %v", userID, err)
			return RespondWithError(s, i, "Could not find your match. Try again in a moment.")
		}

		for _, sess := range open.Sessions {
			if sess.Status == models.SessionStatusPending && sess.HasParticipant(userID) {
				sessionID = sess.ID
				break
			}
		}

		if sessionID == "" {
			return RespondWithEphemeralMessage(s, i, "You have no match to vote on.")
		}
	}

	output, err := c.bot.voteService.CastVote(ctx, &vote.CastVoteInput{
		SessionID: sessionID,
		PlayerID:  userID,
	})
	if err != nil {
		switch {
		case errors.Is(err, vote.ErrDuplicateVote):
			return RespondWithEphemeralMessage(s, i, "You already voted on this match.")
		case errors.Is(err, vote.ErrSessionAlreadyFinal):
			return RespondWithEphemeralMessage(s, i, "That match already ended.")
		case errors.Is(err, vote.ErrSessionNotFound):
			return RespondWithEphemeralMessage(s, i, "No match with that ID exists.")
		case errors.Is(err, vote.ErrNotAParticipant):
			return RespondWithEphemeralMessage(s, i, "You are not on that match's roster.")
		default:
			log.Printf("Error casting vote for %s on %s: %v", userID, sessionID, err)
			return RespondWithError(s, i, "Could not record your vote. Try again in a moment.")
		}
	}

	if output.Canceled {
		return RespondWithMessage(s, i,
			fmt.Sprintf("Vote recorded (%d/%d). The match is canceled.", output.VoteCount, output.Quorum))
	}

	return RespondWithMessage(s, i,
		fmt.Sprintf("<@%s> voted to cancel (%d/%d).", userID, output.VoteCount, output.Quorum))
}

// handleProfile handles the profile subcommand
func (c *ArenaCommand) handleProfile(s *discordgo.Session, i *discordgo.InteractionCreate, userID, ign string) error {
	ctx := context.Background()

	var profile *models.PlayerProfile
	var err error

	if ign != "" {
		profile, err = c.bot.playerRepo.GetPlayerByIGN(ctx, &playerRepo.GetPlayerByIGNInput{
			IGN: ign,
		})
		if err != nil {
			if errors.Is(err, playerRepo.ErrPlayerNotFound) {
				return RespondWithEphemeralMessage(s, i, fmt.Sprintf("No player named **%s** is registered.", ign))
			}
			log.Printf("Error loading profile for IGN %s: %v", ign, err)
			return RespondWithError(s, i, "Could not load that profile. Try again in a moment.")
		}
	} else {
		profile, err = c.bot.playerRepo.GetPlayer(ctx, &playerRepo.GetPlayerInput{
			PlayerID: userID,
		})
		if err != nil {
			if errors.Is(err, playerRepo.ErrPlayerNotFound) {
				return RespondWithEphemeralMessage(s, i, "You are not registered yet: `/arena register`.")
			}
			log.Printf("Error loading profile for %s: %v", userID, err)
			return RespondWithError(s, i, "Could not load your profile. Try again in a moment.")
		}
	}

	fields := []*discordgo.MessageEmbedField{
		{
			Name:   "Rating",
			Value:  fmt.Sprintf("%.0f ± %.0f", profile.Rating, profile.Sigma),
			Inline: true,
		},
		{
			Name:   "Record",
			Value:  fmt.Sprintf("%d wins / %d losses (%d played)", profile.Wins, profile.Losses, profile.GamesPlayed),
			Inline: true,
		},
	}

	return RespondWithEphemeralEmbed(s, i, profile.IGN, "", fields)
}

// handleQueue handles the queue subcommand
func (c *ArenaCommand) handleQueue(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	ctx := context.Background()

	output, err := c.bot.matchmakingService.QueueStatus(ctx, &matchmaking.QueueStatusInput{})
	if err != nil {
		log.Printf("Error reading queue status: %v", err)
		return RespondWithError(s, i, "Could not read the queues. Try again in a moment.")
	}

	fields := make([]*discordgo.MessageEmbedField, 0, len(models.AllGameModes))
	for _, mode := range models.AllGameModes {
		entries := output.Entries[mode]
		value := "empty"
		if len(entries) > 0 {
			value = fmt.Sprintf("%d waiting", len(entries))
		}
		fields = append(fields, &discordgo.MessageEmbedField{
			Name:   string(mode),
			Value:  value,
			Inline: true,
		})
	}

	return RespondWithEmbed(s, i, "Queue Status", "", fields)
}

// handleLeaderboard handles the leaderboard subcommand
func (c *ArenaCommand) handleLeaderboard(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	ctx := context.Background()

	output, err := c.bot.playerRepo.ListPlayers(ctx, &playerRepo.ListPlayersInput{})
	if err != nil {
		log.Printf("Error listing players: %v", err)
		return RespondWithError(s, i, "Could not load the leaderboard. Try again in a moment.")
	}

	if len(output.Players) == 0 {
		return RespondWithMessage(s, i, "Nobody is registered yet.")
	}

	return RespondWithEmbed(s, i, "Arena Leaderboard", c.bot.renderer.LeaderboardBody(output.Players), nil)
}

// stringOption reads a named optional string argument from a subcommand
func stringOption(sub *discordgo.ApplicationCommandInteractionDataOption, name string) string {
	for _, opt := range sub.Options {
		if opt.Name == name {
			return opt.StringValue()
		}
	}
	return ""
}
