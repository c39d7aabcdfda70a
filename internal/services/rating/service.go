package rating

import (
	"context"
	"errors"
	"math"
	"sort"
	"sync"

	"github.com/KirkDiggler/ranked-arena/internal/coin"
	"github.com/KirkDiggler/ranked-arena/internal/models"
	playerRepo "github.com/KirkDiggler/ranked-arena/internal/repositories/player"
	sessionRepo "github.com/KirkDiggler/ranked-arena/internal/repositories/session"
	"github.com/KirkDiggler/ranked-arena/internal/skill"
)

const (
	// sigmaFloorMin is the lowest uncertainty any player can reach
	sigmaFloorMin = 100.0

	// sigmaFloorPerGame lowers the floor from the starting sigma per game
	sigmaFloorPerGame = 3.0

	// decayMin is the smallest decay factor for experienced players
	decayMin = 0.3

	// decayPerGame shrinks the delta per game played
	decayPerGame = 0.02

	// minDeltaMagnitude guarantees every decided match has an effect
	minDeltaMagnitude = 20.0

	// deltaJitterMax is the spread added on top of the minimum magnitude
	deltaJitterMax = 5.0

	// maxDeltaMagnitude caps any single match's effect
	maxDeltaMagnitude = 70.0

	// conflictRetries bounds CAS retries before giving up
	conflictRetries = 3
)

// service implements the Service interface
type service struct {
	sessionRepo sessionRepo.Repository
	playerRepo  playerRepo.Repository
	flipper     coin.Flipper

	// locksMu guards locks; each player gets a mutex so finalize calls
	// that share a player never interleave their read-modify-write
	locksMu sync.Mutex
	locks   map[string]*sync.Mutex
}

// NewService creates a new rating service
func NewService(cfg *Config) (*service, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	if cfg.SessionRepo == nil {
		return nil, ErrNilSessionRepo
	}

	if cfg.PlayerRepo == nil {
		return nil, ErrNilPlayerRepo
	}

	if cfg.Flipper == nil {
		return nil, ErrNilFlipper
	}

	return &service{
		sessionRepo: cfg.SessionRepo,
		playerRepo:  cfg.PlayerRepo,
		flipper:     cfg.Flipper,
		locks:       make(map[string]*sync.Mutex),
	}, nil
}

// Finalize computes and applies the eight rating deltas for a decided session
func (s *service) Finalize(ctx context.Context, input *FinalizeInput) (*FinalizeOutput, error) {
	sess, err := s.sessionRepo.GetSession(ctx, &sessionRepo.GetSessionInput{
		SessionID: input.SessionID,
	})
	if err != nil {
		if errors.Is(err, sessionRepo.ErrSessionNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}

	if err := checkFinalizable(sess); err != nil {
		return nil, err
	}

	playerIDs := make([]string, 0, len(sess.TeamA)+len(sess.TeamB))
	for _, slot := range sess.TeamA {
		playerIDs = append(playerIDs, slot.PlayerID)
	}
	for _, slot := range sess.TeamB {
		playerIDs = append(playerIDs, slot.PlayerID)
	}

	unlock := s.lockPlayers(playerIDs)
	defer unlock()

	// Re-read under the locks; a concurrent finalize may have won
	sess, err = s.sessionRepo.GetSession(ctx, &sessionRepo.GetSessionInput{
		SessionID: input.SessionID,
	})
	if err != nil {
		return nil, err
	}
	if err := checkFinalizable(sess); err != nil {
		return nil, err
	}

	winningSide := sess.Status.WinningSide()

	// Ratings are fetched at finalize time, not from the frozen
	// join-time snapshots
	profilesA, err := s.fetchProfiles(ctx, sess.TeamA)
	if err != nil {
		return nil, err
	}
	profilesB, err := s.fetchProfiles(ctx, sess.TeamB)
	if err != nil {
		return nil, err
	}

	winners, losers := profilesA, profilesB
	if winningSide == models.TeamSideB {
		winners, losers = profilesB, profilesA
	}

	newWinners, newLosers := skill.Rate(ratingsOf(winners), ratingsOf(losers))

	deltas := make([]PlayerDelta, 0, len(winners)+len(losers))
	updated := make([]*models.PlayerProfile, 0, len(winners)+len(losers))
	for i, profile := range winners {
		delta, next := s.applyDelta(profile, newWinners[i], true)
		deltas = append(deltas, delta)
		updated = append(updated, next)
	}
	for i, profile := range losers {
		delta, next := s.applyDelta(profile, newLosers[i], false)
		deltas = append(deltas, delta)
		updated = append(updated, next)
	}

	// All eight writes go out in one batch after all eight deltas are
	// known, so a failure applies nothing
	err = s.playerRepo.SavePlayers(ctx, &playerRepo.SavePlayersInput{
		Players: updated,
	})
	if err != nil {
		return nil, err
	}

	final, err := s.markProcessed(ctx, input.SessionID)
	if err != nil {
		return nil, err
	}

	return &FinalizeOutput{
		WinningSide: winningSide,
		Deltas:      orderBySession(deltas, sess),
		Session:     final,
	}, nil
}

// applyDelta turns a raw skill result into the applied profile update
func (s *service) applyDelta(prior *models.PlayerProfile, raw skill.Rating, won bool) (PlayerDelta, *models.PlayerProfile) {
	games := float64(prior.GamesPlayed)

	// Uncertainty only ever decreases, and never below its floor
	newSigma := prior.Sigma
	if raw.Sigma < prior.Sigma {
		floor := math.Max(sigmaFloorMin, skill.DefaultSigma-sigmaFloorPerGame*games)
		newSigma = math.Max(raw.Sigma, floor)
		if newSigma > prior.Sigma {
			newSigma = prior.Sigma
		}
	}

	decay := math.Max(decayMin, 1-decayPerGame*games)
	delta := (raw.Mu - prior.Rating) * decay

	if math.Abs(delta) < minDeltaMagnitude {
		magnitude := minDeltaMagnitude + s.flipper.Jitter(deltaJitterMax)
		if won {
			delta = magnitude
		} else {
			delta = -magnitude
		}
	}

	if delta > maxDeltaMagnitude {
		delta = maxDeltaMagnitude
	} else if delta < -maxDeltaMagnitude {
		delta = -maxDeltaMagnitude
	}

	next := &models.PlayerProfile{
		ID:          prior.ID,
		IGN:         prior.IGN,
		Rating:      prior.Rating + delta,
		Sigma:       newSigma,
		GamesPlayed: prior.GamesPlayed + 1,
		Wins:        prior.Wins,
		Losses:      prior.Losses,
	}
	if won {
		next.Wins++
	} else {
		next.Losses++
	}

	return PlayerDelta{
		PlayerID:  prior.ID,
		IGN:       prior.IGN,
		Won:       won,
		OldRating: prior.Rating,
		NewRating: next.Rating,
		Delta:     delta,
		OldSigma:  prior.Sigma,
		NewSigma:  newSigma,
	}, next
}

// fetchProfiles loads a roster's current profiles. A missing profile
// falls back to a fresh one so a deleted registration cannot block the
// other seven updates.
func (s *service) fetchProfiles(ctx context.Context, roster []models.RosterSlot) ([]*models.PlayerProfile, error) {
	profiles := make([]*models.PlayerProfile, len(roster))
	for i, slot := range roster {
		profile, err := s.playerRepo.GetPlayer(ctx, &playerRepo.GetPlayerInput{
			PlayerID: slot.PlayerID,
		})
		if err != nil {
			if !errors.Is(err, playerRepo.ErrPlayerNotFound) {
				return nil, err
			}
			profile = &models.PlayerProfile{
				ID:     slot.PlayerID,
				IGN:    slot.IGN,
				Rating: skill.DefaultMu,
				Sigma:  skill.DefaultSigma,
			}
		}
		profiles[i] = profile
	}
	return profiles, nil
}

// markProcessed moves the session to its terminal processed status
func (s *service) markProcessed(ctx context.Context, sessionID string) (*models.Session, error) {
	var updated *models.Session
	var err error

	for attempt := 0; attempt <= conflictRetries; attempt++ {
		updated, err = s.sessionRepo.UpdateSession(ctx, &sessionRepo.UpdateSessionInput{
			SessionID: sessionID,
			Mutate: func(sess *models.Session) error {
				if sess.Status == models.SessionStatusProcessed {
					return ErrAlreadyProcessed
				}
				if !sess.Status.Decided() {
					return ErrNotDecided
				}
				sess.Status = models.SessionStatusProcessed
				return nil
			},
		})
		if !errors.Is(err, sessionRepo.ErrConflict) {
			break
		}
	}

	return updated, err
}

// lockPlayers acquires every player's mutex in sorted order and returns
// the release function. Sorted acquisition keeps two finalizes that share
// players from deadlocking.
func (s *service) lockPlayers(playerIDs []string) func() {
	sorted := make([]string, len(playerIDs))
	copy(sorted, playerIDs)
	sort.Strings(sorted)

	held := make([]*sync.Mutex, 0, len(sorted))
	for _, id := range sorted {
		s.locksMu.Lock()
		mu, ok := s.locks[id]
		if !ok {
			mu = &sync.Mutex{}
			s.locks[id] = mu
		}
		s.locksMu.Unlock()

		mu.Lock()
		held = append(held, mu)
	}

	return func() {
		for i := len(held) - 1; i >= 0; i-- {
			held[i].Unlock()
		}
	}
}

func checkFinalizable(sess *models.Session) error {
	if sess.Status == models.SessionStatusProcessed {
		return ErrAlreadyProcessed
	}
	if !sess.Status.Decided() {
		return ErrNotDecided
	}
	return nil
}

func ratingsOf(profiles []*models.PlayerProfile) []skill.Rating {
	ratings := make([]skill.Rating, len(profiles))
	for i, p := range profiles {
		ratings[i] = skill.Rating{Mu: p.Rating, Sigma: p.Sigma}
	}
	return ratings
}

// orderBySession returns the deltas in roster order, team A first
func orderBySession(deltas []PlayerDelta, sess *models.Session) []PlayerDelta {
	byID := make(map[string]PlayerDelta, len(deltas))
	for _, d := range deltas {
		byID[d.PlayerID] = d
	}

	ordered := make([]PlayerDelta, 0, len(deltas))
	for _, slot := range sess.TeamA {
		ordered = append(ordered, byID[slot.PlayerID])
	}
	for _, slot := range sess.TeamB {
		ordered = append(ordered, byID[slot.PlayerID])
	}
	return ordered
}
