package platform

import (
	"math"
	"math/rand"
	"sync"
	"time"
)

// LikeEstimator fills in a like count for posts whose source reports
// comments but no likes. Results are heuristic and surface as _estimated.
type LikeEstimator interface {
	EstimateLikes(comments int64) int64
}

// RatioEstimator multiplies the comment count by a factor drawn uniformly
// from [Min, Max).
type RatioEstimator struct {
	Min, Max float64

	mu  sync.Mutex
	rnd *rand.Rand
}

// NewRatioEstimator uses rnd as the random source; nil seeds one from the clock.
func NewRatioEstimator(min, max float64, rnd *rand.Rand) *RatioEstimator {
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if max < min {
		min, max = max, min
	}
	return &RatioEstimator{Min: min, Max: max, rnd: rnd}
}

func (e *RatioEstimator) EstimateLikes(comments int64) int64 {
	if comments <= 0 {
		return 0
	}
	e.mu.Lock()
	r := e.rnd.Float64()
	e.mu.Unlock()
	factor := e.Min + r*(e.Max-e.Min)
	return int64(math.Round(float64(comments) * factor))
}

// NoEstimator never estimates.
type NoEstimator struct{}

func (NoEstimator) EstimateLikes(int64) int64 { return 0 }

// EstimatorByName maps a config value to an estimator; unknown names fall
// back to the ratio estimator.
func EstimatorByName(name string) LikeEstimator {
	switch name {
	case "none", "off", "disabled":
		return NoEstimator{}
	default:
		return NewRatioEstimator(10, 20, nil)
	}
}
