package notify

import (
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"time"

	"github.com/KirkDiggler/ranked-arena/internal/models"
)

// Renderer builds announcement text with a little variety so repeated
// announcements don't read like a log file
type Renderer struct {
	rand *rand.Rand
}

// NewRenderer creates a renderer seeded from the current time
func NewRenderer() *Renderer {
	source := rand.NewSource(time.Now().UnixNano())
	return &Renderer{
		rand: rand.New(source),
	}
}

// MatchFormedTitle returns a title line for a formed match
func (r *Renderer) MatchFormedTitle(mode models.GameMode) string {
	titles := []string{
		"Match found!",
		"The arena calls!",
		"Lock in, a match has formed!",
	}
	if mode == models.GameModeDraft {
		titles = []string{
			"Draft match found!",
			"Captains, to your stations!",
		}
	}

	return titles[r.rand.Intn(len(titles))]
}

// MatchFormedBody returns the roster section of a match announcement
func (r *Renderer) MatchFormedBody(session *models.Session) string {
	var b strings.Builder

	fmt.Fprintf(&b, "**Team A** (%s)\n", formatTeamSum(session.TeamA))
	for _, slot := range session.TeamA {
		fmt.Fprintf(&b, "  %s (%.0f)\n", slot.IGN, slot.Rating)
	}
	fmt.Fprintf(&b, "**Team B** (%s)\n", formatTeamSum(session.TeamB))
	for _, slot := range session.TeamB {
		fmt.Fprintf(&b, "  %s (%.0f)\n", slot.IGN, slot.Rating)
	}

	return b.String()
}

// ResultsTitle returns a title line for a finalized session
func (r *Renderer) ResultsTitle(winningSide models.TeamSide) string {
	side := "Team A"
	if winningSide == models.TeamSideB {
		side = "Team B"
	}

	titles := []string{
		fmt.Sprintf("%s takes it!", side),
		fmt.Sprintf("Victory for %s!", side),
		fmt.Sprintf("%s wins the match!", side),
	}

	return titles[r.rand.Intn(len(titles))]
}

// ResultLine formats one player's rating change
func (r *Renderer) ResultLine(ign string, delta, newRating float64) string {
	sign := "+"
	if delta < 0 {
		sign = "-"
		delta = -delta
	}

	return fmt.Sprintf("%s %s%.0f (now %.0f)", ign, sign, delta, newRating)
}

// ClosedMessage returns the announcement for a session that ended with
// no result
func (r *Renderer) ClosedMessage(reason models.SessionStatus) string {
	switch {
	case reason == models.SessionStatusCanceled:
		messages := []string{
			"The players have spoken: match canceled. No ratings were harmed.",
			"Match canceled by vote. Back to the queue with you.",
		}
		return messages[r.rand.Intn(len(messages))]

	case reason.TimedOut():
		messages := []string{
			"No result ever showed up. The match timed out and nothing counts.",
			"Match timed out with no outcome. Ratings are untouched.",
		}
		return messages[r.rand.Intn(len(messages))]

	default:
		return "The match is over."
	}
}

// QueueDropMessage returns the notice for an expired queue entry
func (r *Renderer) QueueDropMessage(mode models.GameMode) string {
	messages := []string{
		fmt.Sprintf("Your %s queue spot expired. Rejoin when you're ready.", mode),
		fmt.Sprintf("You sat in the %s queue too long and got dropped.", mode),
	}

	return messages[r.rand.Intn(len(messages))]
}

// LeaderboardBody formats a rating table, highest first
func (r *Renderer) LeaderboardBody(players []*models.PlayerProfile) string {
	ranked := make([]*models.PlayerProfile, len(players))
	copy(ranked, players)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Rating > ranked[j].Rating
	})

	var b strings.Builder
	for i, p := range ranked {
		fmt.Fprintf(&b, "%d. %s: %.0f (%d games)\n", i+1, p.IGN, p.Rating, p.GamesPlayed)
	}

	return b.String()
}

func formatTeamSum(team []models.RosterSlot) string {
	var sum float64
	for _, slot := range team {
		sum += slot.Rating
	}
	return fmt.Sprintf("%.0f total", sum)
}
