package draft

import (
	"context"
	"errors"
	"time"

	"github.com/KirkDiggler/ranked-arena/internal/coin"
	"github.com/KirkDiggler/ranked-arena/internal/common/clock"
	"github.com/KirkDiggler/ranked-arena/internal/models"
	sessionRepo "github.com/KirkDiggler/ranked-arena/internal/repositories/session"
)

const (
	// DefaultReadyCheckTimeout is how long both captains have to mark ready
	DefaultReadyCheckTimeout = 10 * time.Minute

	// DefaultCoinflipTimeout is how long captain A has to call the coin
	DefaultCoinflipTimeout = 10 * time.Minute

	// DefaultTurnTimeout is how long each ban/pick turn may take
	DefaultTurnTimeout = 5 * time.Minute

	// conflictRetries bounds CAS retries before giving up
	conflictRetries = 3
)

// scriptStep is one turn of the fixed draft script
type scriptStep struct {
	Action     models.DraftAction
	WinnerActs bool
}

// draftScript is the fixed ten-step turn table. The coinflip winner bans
// first and takes steps 0, 2, 3, 6 and 7; the loser gets the consecutive
// picks at 4-5 and 8-9 to compensate for banning second. Kept exactly as
// a table since changing it would alter observable game behavior.
var draftScript = [10]scriptStep{
	{models.DraftActionBan, true},
	{models.DraftActionBan, false},
	{models.DraftActionPick, true},
	{models.DraftActionPick, true},
	{models.DraftActionPick, false},
	{models.DraftActionPick, false},
	{models.DraftActionPick, true},
	{models.DraftActionPick, true},
	{models.DraftActionPick, false},
	{models.DraftActionPick, false},
}

// ScriptLength is the number of turns in the draft script
const ScriptLength = len(draftScript)

// service implements the Service interface
type service struct {
	readyCheckTimeout time.Duration
	coinflipTimeout   time.Duration
	turnTimeout       time.Duration
	sessionRepo       sessionRepo.Repository
	flipper           coin.Flipper
	clock             clock.Clock
}

// NewService creates a new draft service
func NewService(cfg *Config) (*service, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	if cfg.SessionRepo == nil {
		return nil, ErrNilSessionRepo
	}

	if cfg.Flipper == nil {
		return nil, ErrNilFlipper
	}

	if cfg.Clock == nil {
		return nil, ErrNilClock
	}

	svc := &service{
		readyCheckTimeout: cfg.ReadyCheckTimeout,
		coinflipTimeout:   cfg.CoinflipTimeout,
		turnTimeout:       cfg.TurnTimeout,
		sessionRepo:       cfg.SessionRepo,
		flipper:           cfg.Flipper,
		clock:             cfg.Clock,
	}

	if svc.readyCheckTimeout <= 0 {
		svc.readyCheckTimeout = DefaultReadyCheckTimeout
	}
	if svc.coinflipTimeout <= 0 {
		svc.coinflipTimeout = DefaultCoinflipTimeout
	}
	if svc.turnTimeout <= 0 {
		svc.turnTimeout = DefaultTurnTimeout
	}

	return svc, nil
}

// MarkReady records one captain's readiness
func (s *service) MarkReady(ctx context.Context, input *MarkReadyInput) (*MarkReadyOutput, error) {
	var bothReady bool

	updated, err := s.update(ctx, input.SessionID, func(sess *models.Session) error {
		d, err := draftInStage(sess, models.DraftStageReadyCheck)
		if err != nil {
			return err
		}

		if !d.IsCaptain(input.CaptainID) {
			return ErrNotACaptain
		}

		// Marking ready twice has no additional effect
		if !d.IsReady(input.CaptainID) {
			d.Ready = append(d.Ready, input.CaptainID)
			d.LastActionAt = s.clock.Now()
		}

		if len(d.Ready) == 2 {
			d.Stage = models.DraftStageCoinflip
			bothReady = true
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &MarkReadyOutput{
		BothReady: bothReady,
		Session:   updated,
	}, nil
}

// ChooseFace resolves the coinflip. The draw is independent of the call,
// so the call is a fair 50/50 regardless of face.
func (s *service) ChooseFace(ctx context.Context, input *ChooseFaceInput) (*ChooseFaceOutput, error) {
	if !input.Face.Valid() {
		return nil, ErrInvalidFace
	}

	output := &ChooseFaceOutput{}

	updated, err := s.update(ctx, input.SessionID, func(sess *models.Session) error {
		d, err := draftInStage(sess, models.DraftStageCoinflip)
		if err != nil {
			return err
		}

		if !d.IsCaptain(input.CaptainID) {
			return ErrNotACaptain
		}

		// Side A's captain calls the coin by convention
		if input.CaptainID != d.CaptainA {
			return ErrWrongCaptain
		}

		result := s.flipper.Flip()

		d.CoinflipChoice = input.Face
		d.CoinflipResult = result
		if result == input.Face {
			d.CoinflipWinner = models.TeamSideA
		} else {
			d.CoinflipWinner = models.TeamSideB
		}

		d.Stage = models.DraftStageInProgress
		d.TurnIndex = 0
		d.CurrentActor = actorAt(d, 0)
		d.CurrentAction = draftScript[0].Action
		d.LastActionAt = s.clock.Now()

		output.Result = result
		output.WinnerSide = d.CoinflipWinner
		output.FirstActor = d.CurrentActor
		return nil
	})
	if err != nil {
		return nil, err
	}

	output.Session = updated
	return output, nil
}

// SelectOption applies the current turn's ban or pick
func (s *service) SelectOption(ctx context.Context, input *SelectOptionInput) (*SelectOptionOutput, error) {
	output := &SelectOptionOutput{}

	updated, err := s.update(ctx, input.SessionID, func(sess *models.Session) error {
		d, err := draftInStage(sess, models.DraftStageInProgress)
		if err != nil {
			return err
		}

		if !d.IsCaptain(input.CaptainID) {
			return ErrNotACaptain
		}

		if input.CaptainID != d.CurrentActor {
			return ErrNotYourTurn
		}

		if !d.InPool(input.Option) {
			return ErrOptionUnavailable
		}

		action := draftScript[d.TurnIndex].Action
		removeOption(d, input.Option)

		switch action {
		case models.DraftActionBan:
			d.Banned = append(d.Banned, input.Option)
		case models.DraftActionPick:
			if d.SideOfCaptain(input.CaptainID) == models.TeamSideB {
				d.PicksB = append(d.PicksB, input.Option)
			} else {
				d.PicksA = append(d.PicksA, input.Option)
			}
		}

		d.TurnIndex++
		d.LastActionAt = s.clock.Now()

		output.Action = action
		if d.TurnIndex >= ScriptLength {
			d.Stage = models.DraftStageComplete
			d.CurrentActor = ""
			d.CurrentAction = ""
			output.Complete = true
		} else {
			d.CurrentActor = actorAt(d, d.TurnIndex)
			d.CurrentAction = draftScript[d.TurnIndex].Action
			output.NextActor = d.CurrentActor
			output.NextAction = d.CurrentAction
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	output.Session = updated
	return output, nil
}

// SweepTimeouts forces stalled drafts into their timeout status
func (s *service) SweepTimeouts(ctx context.Context, input *SweepTimeoutsInput) (*SweepTimeoutsOutput, error) {
	open, err := s.sessionRepo.ListOpenSessions(ctx, &sessionRepo.ListOpenSessionsInput{})
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	timedOut := make([]*models.Session, 0)

	for _, sess := range open.Sessions {
		if sess.Draft == nil || sess.Status != models.SessionStatusPending {
			continue
		}

		status, expired := s.stageTimeout(sess.Draft, now)
		if !expired {
			continue
		}

		updated, err := s.update(ctx, sess.ID, func(fresh *models.Session) error {
			// Re-check against the fresh record; the draft may have
			// progressed since the scan
			if fresh.Draft == nil || fresh.Status != models.SessionStatusPending {
				return errSkipSweep
			}
			freshStatus, stillExpired := s.stageTimeout(fresh.Draft, now)
			if !stillExpired || freshStatus != status {
				return errSkipSweep
			}
			fresh.Status = status
			return nil
		})
		if errors.Is(err, errSkipSweep) || errors.Is(err, sessionRepo.ErrSessionNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}

		timedOut = append(timedOut, updated)
	}

	return &SweepTimeoutsOutput{TimedOut: timedOut}, nil
}

// errSkipSweep aborts a sweep update that is no longer applicable
const errSkipSweep = Error("sweep no longer applies")

// stageTimeout maps a stalled stage to its timeout status
func (s *service) stageTimeout(d *models.DraftState, now time.Time) (models.SessionStatus, bool) {
	switch d.Stage {
	case models.DraftStageReadyCheck:
		return models.SessionStatusTimedOutReadyCheck, now.Sub(d.LastActionAt) > s.readyCheckTimeout
	case models.DraftStageCoinflip:
		return models.SessionStatusTimedOutCoinflip, now.Sub(d.LastActionAt) > s.coinflipTimeout
	case models.DraftStageInProgress:
		return models.SessionStatusTimedOutDraftTurn, now.Sub(d.LastActionAt) > s.turnTimeout
	}
	return "", false
}

// update wraps the repository's CAS update with bounded conflict retries
func (s *service) update(ctx context.Context, sessionID string, mutate func(*models.Session) error) (*models.Session, error) {
	var updated *models.Session
	var err error

	for attempt := 0; attempt <= conflictRetries; attempt++ {
		updated, err = s.sessionRepo.UpdateSession(ctx, &sessionRepo.UpdateSessionInput{
			SessionID: sessionID,
			Mutate:    mutate,
		})
		if !errors.Is(err, sessionRepo.ErrConflict) {
			break
		}
	}

	if errors.Is(err, sessionRepo.ErrSessionNotFound) {
		return nil, ErrSessionNotFound
	}
	return updated, err
}

// draftInStage validates that the session carries a live draft in the
// expected stage
func draftInStage(sess *models.Session, stage models.DraftStage) (*models.DraftState, error) {
	if sess.Draft == nil {
		return nil, ErrNoDraft
	}

	if sess.Status.Final() || sess.Draft.Stage != stage {
		return nil, ErrWrongStage
	}

	return sess.Draft, nil
}

func actorAt(d *models.DraftState, index int) string {
	if draftScript[index].WinnerActs {
		return d.WinnerCaptain()
	}
	return d.LoserCaptain()
}

func removeOption(d *models.DraftState, option string) {
	for i, o := range d.Available {
		if o == option {
			d.Available = append(d.Available[:i], d.Available[i+1:]...)
			return
		}
	}
}
