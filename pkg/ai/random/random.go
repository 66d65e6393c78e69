package random

import (
	"math/rand"
	"sync"
	"time"

	"github.com/montplusa/connect-four/pkg/game"
)

// RandomAI はランダムなスカラー評価を返す実装
//
// Scores are uniform in [Min, Max], which by default spans the regression
// targets, so every bucket gets picked now and then.
type RandomAI struct {
	Min, Max float64

	mu  sync.Mutex
	rng *rand.Rand
}

// New は RandomAI を生成する. seed 0 picks one from the clock.
func New(seed int64) *RandomAI {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &RandomAI{Min: 1, Max: 3, rng: rand.New(rand.NewSource(seed))}
}

func (r *RandomAI) Perspective() game.Perspective { return game.NextToMove }

func (r *RandomAI) Evaluate(encoded []float64) (game.Estimate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return game.Scalar(r.Min + r.rng.Float64()*(r.Max-r.Min)), nil
}
