package draft

import (
	"time"

	"github.com/KirkDiggler/ranked-arena/internal/coin"
	"github.com/KirkDiggler/ranked-arena/internal/common/clock"
	"github.com/KirkDiggler/ranked-arena/internal/models"
	sessionRepo "github.com/KirkDiggler/ranked-arena/internal/repositories/session"
)

// Config holds configuration for the draft service
type Config struct {
	// ReadyCheckTimeout is how long both captains have to mark ready
	ReadyCheckTimeout time.Duration

	// CoinflipTimeout is how long captain A has to call the coin
	CoinflipTimeout time.Duration

	// TurnTimeout is how long each ban/pick turn may take
	TurnTimeout time.Duration

	// Repository dependencies
	SessionRepo sessionRepo.Repository

	// Service dependencies
	Flipper coin.Flipper
	Clock   clock.Clock
}

// MarkReadyInput contains parameters for a captain's ready mark
type MarkReadyInput struct {
	SessionID string
	CaptainID string
}

// MarkReadyOutput reports the readiness state after the mark
type MarkReadyOutput struct {
	// BothReady is true once the draft advanced to the coinflip
	BothReady bool

	Session *models.Session
}

// ChooseFaceInput contains parameters for the coinflip call
type ChooseFaceInput struct {
	SessionID string
	CaptainID string
	Face      models.CoinFace
}

// ChooseFaceOutput reports the coinflip result
type ChooseFaceOutput struct {
	// Result is the face the engine drew
	Result models.CoinFace

	// WinnerSide is the side whose captain drafts first
	WinnerSide models.TeamSide

	// FirstActor is the captain taking step zero
	FirstActor string

	Session *models.Session
}

// SelectOptionInput contains parameters for a ban or pick
type SelectOptionInput struct {
	SessionID string
	CaptainID string
	Option    string
}

// SelectOptionOutput reports the applied action and the next turn
type SelectOptionOutput struct {
	// Action is the kind that was applied this turn
	Action models.DraftAction

	// Complete is true when the script finished with this action
	Complete bool

	// NextActor and NextAction describe the following turn, empty when
	// the draft completed
	NextActor  string
	NextAction models.DraftAction

	Session *models.Session
}

// SweepTimeoutsInput contains parameters for the timeout sweep
type SweepTimeoutsInput struct {
}

// SweepTimeoutsOutput contains the sessions the sweep closed
type SweepTimeoutsOutput struct {
	TimedOut []*models.Session
}
