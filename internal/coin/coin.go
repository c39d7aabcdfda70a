package coin

import (
	"math/rand"
	"sync"
	"time"

	"github.com/KirkDiggler/ranked-arena/internal/models"
)

//go:generate mockgen -package=mocks -destination=mocks/mock_flipper.go github.com/KirkDiggler/ranked-arena/internal/coin Flipper

// Flipper provides the engine's randomness: the coinflip draw and the
// small jitter added to minimum rating deltas
type Flipper interface {
	// Flip draws a uniformly random coin face
	Flip() models.CoinFace

	// Jitter returns a uniform value in [0, max)
	Jitter(max float64) float64
}

// Config for the flipper
type Config struct {
	// Optional seed for testing
	Seed int64
}

// flipper implements Flipper with a local rand source. One instance is
// shared across services and interaction handlers run on their own
// goroutines, so the source is mutex-guarded.
type flipper struct {
	mu     sync.Mutex
	random *rand.Rand
}

// New creates a new flipper
func New(cfg *Config) Flipper {
	var seed int64
	if cfg != nil && cfg.Seed != 0 {
		seed = cfg.Seed
	} else {
		seed = time.Now().UnixNano()
	}

	source := rand.NewSource(seed)

	return &flipper{
		random: rand.New(source),
	}
}

// Flip draws a fair coin face
func (f *flipper) Flip() models.CoinFace {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.random.Intn(2) == 0 {
		return models.CoinFaceHeads
	}
	return models.CoinFaceTails
}

// Jitter returns a uniform value in [0, max)
func (f *flipper) Jitter(max float64) float64 {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.random.Float64() * max
}
