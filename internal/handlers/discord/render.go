package discord

import (
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/KirkDiggler/ranked-arena/internal/models"
	"github.com/KirkDiggler/ranked-arena/internal/services/rating"
)

// Component custom ID prefixes. The session ID rides after the colon so
// a component click can find its session without any channel lookup.
const (
	ButtonDraftReady = "draft_ready"
	ButtonCoinHeads  = "coin_heads"
	ButtonCoinTails  = "coin_tails"

	SelectDraftOption = "draft_select"
)

// componentID joins a prefix and a session ID into a custom ID
func componentID(prefix, sessionID string) string {
	return prefix + ":" + sessionID
}

// splitComponentID breaks a custom ID back into prefix and session ID
func splitComponentID(customID string) (prefix, sessionID string) {
	prefix, sessionID, _ = strings.Cut(customID, ":")
	return prefix, sessionID
}

// renderRosters formats both teams for a session embed
func renderRosters(sess *models.Session) []*discordgo.MessageEmbedField {
	return []*discordgo.MessageEmbedField{
		{
			Name:   "Team A",
			Value:  renderTeam(sess.TeamA),
			Inline: true,
		},
		{
			Name:   "Team B",
			Value:  renderTeam(sess.TeamB),
			Inline: true,
		},
	}
}

func renderTeam(team []models.RosterSlot) string {
	var b strings.Builder
	for _, slot := range team {
		fmt.Fprintf(&b, "**%s** (%.0f)\n", slot.IGN, slot.Rating)
	}
	return b.String()
}

// renderDraftEmbed renders the live draft message for a session
func renderDraftEmbed(sess *models.Session) *discordgo.MessageEmbed {
	d := sess.Draft

	fields := renderRosters(sess)

	var description string
	switch d.Stage {
	case models.DraftStageReadyCheck:
		description = fmt.Sprintf("Captains <@%s> and <@%s>, click Ready to start the draft. (%d/2 ready)",
			d.CaptainA, d.CaptainB, len(d.Ready))

	case models.DraftStageCoinflip:
		description = fmt.Sprintf("Both captains are ready! <@%s>, call the coinflip.", d.CaptainA)

	case models.DraftStageInProgress:
		description = fmt.Sprintf("Coinflip: **%s** (called %s). <@%s>, it is your turn to **%s**.",
			d.CoinflipResult, d.CoinflipChoice, d.CurrentActor, d.CurrentAction)

	case models.DraftStageComplete:
		description = "The draft is complete. Good luck in the arena!"
	}

	if len(d.Banned) > 0 {
		fields = append(fields, &discordgo.MessageEmbedField{
			Name:   "Banned",
			Value:  strings.Join(d.Banned, ", "),
			Inline: false,
		})
	}

	if len(d.PicksA) > 0 || len(d.PicksB) > 0 {
		fields = append(fields,
			&discordgo.MessageEmbedField{
				Name:   "Picks A",
				Value:  renderPicks(d.PicksA),
				Inline: true,
			},
			&discordgo.MessageEmbedField{
				Name:   "Picks B",
				Value:  renderPicks(d.PicksB),
				Inline: true,
			},
		)
	}

	return &discordgo.MessageEmbed{
		Title:       "Captain Draft",
		Description: description,
		Color:       colorBlue,
		Fields:      fields,
		Timestamp:   time.Now().Format(time.RFC3339),
	}
}

func renderPicks(picks []string) string {
	if len(picks) == 0 {
		return "none yet"
	}
	return strings.Join(picks, "\n")
}

// renderDraftComponents builds the interactive controls for the draft's
// current stage
func renderDraftComponents(sess *models.Session) []discordgo.MessageComponent {
	d := sess.Draft

	switch d.Stage {
	case models.DraftStageReadyCheck:
		return []discordgo.MessageComponent{
			discordgo.ActionsRow{
				Components: []discordgo.MessageComponent{
					discordgo.Button{
						Label:    "Ready",
						Style:    discordgo.SuccessButton,
						CustomID: componentID(ButtonDraftReady, sess.ID),
					},
				},
			},
		}

	case models.DraftStageCoinflip:
		return []discordgo.MessageComponent{
			discordgo.ActionsRow{
				Components: []discordgo.MessageComponent{
					discordgo.Button{
						Label:    "Heads",
						Style:    discordgo.PrimaryButton,
						CustomID: componentID(ButtonCoinHeads, sess.ID),
					},
					discordgo.Button{
						Label:    "Tails",
						Style:    discordgo.PrimaryButton,
						CustomID: componentID(ButtonCoinTails, sess.ID),
					},
				},
			},
		}

	case models.DraftStageInProgress:
		options := make([]discordgo.SelectMenuOption, 0, len(d.Available))
		for _, option := range d.Available {
			options = append(options, discordgo.SelectMenuOption{
				Label:       option,
				Value:       option,
				Description: fmt.Sprintf("%s this hunter", d.CurrentAction),
			})
		}

		return []discordgo.MessageComponent{
			discordgo.ActionsRow{
				Components: []discordgo.MessageComponent{
					discordgo.SelectMenu{
						CustomID:    componentID(SelectDraftOption, sess.ID),
						Placeholder: fmt.Sprintf("Select a hunter to %s", d.CurrentAction),
						Options:     options,
					},
				},
			},
		}

	default:
		// Complete drafts carry no controls
		return []discordgo.MessageComponent{}
	}
}

// renderMatchEmbed renders the announcement for a freshly formed session
func renderMatchEmbed(sess *models.Session, title string) *discordgo.MessageEmbed {
	fields := renderRosters(sess)
	fields = append(fields, &discordgo.MessageEmbedField{
		Name:   "Mode",
		Value:  string(sess.Mode),
		Inline: true,
	})

	description := "Your match is ready. Six votes from the roster cancel it."
	if sess.Mode == models.GameModeDraft {
		description = "Your match is ready. Captains, complete the draft below."
	}

	return &discordgo.MessageEmbed{
		Title:       title,
		Description: description,
		Color:       colorGreen,
		Fields:      fields,
		Timestamp:   time.Now().Format(time.RFC3339),
	}
}

// renderResultsEmbed renders the rating changes for a finalized session
func renderResultsEmbed(title string, deltas []rating.PlayerDelta) *discordgo.MessageEmbed {
	var winners, losers strings.Builder
	for _, delta := range deltas {
		line := fmt.Sprintf("**%s**: %+.0f (now %.0f)\n", delta.IGN, delta.Delta, delta.NewRating)
		if delta.Won {
			winners.WriteString(line)
		} else {
			losers.WriteString(line)
		}
	}

	return &discordgo.MessageEmbed{
		Title: title,
		Color: colorGreen,
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:   "Winners",
				Value:  winners.String(),
				Inline: true,
			},
			{
				Name:   "Losers",
				Value:  losers.String(),
				Inline: true,
			},
		},
		Timestamp: time.Now().Format(time.RFC3339),
	}
}
