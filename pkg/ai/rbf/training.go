package rbf

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/montplusa/connect-four/pkg/dataset"
	"github.com/montplusa/connect-four/pkg/game"
)

// TrainingConfig specifies parameters for offline training
type TrainingConfig struct {
	Name        string
	Nodes       int     // number of RBF centres
	Sigma       float64 // 0 picks max range / sqrt(2*Nodes)
	UseKMeans   bool    // place centres with k-means instead of sampling inputs
	Normalize   bool
	Iterations  int // perceptron passes
	Eta         float64
	Perspective game.Perspective
	Encoding    game.StoneEncoding
	Seed        int64
}

func DefaultTrainingConfig() TrainingConfig {
	return TrainingConfig{
		Name:       "rbf",
		Nodes:      20,
		UseKMeans:  true,
		Iterations: 100,
		Eta:        0.25,
		Encoding:   game.DefaultConfig().Encoding,
		Seed:       time.Now().UnixNano(),
	}
}

func target(outcome game.Label) []float64 {
	switch outcome {
	case game.LabelWin:
		return []float64{1, 0, 0}
	case game.LabelDraw:
		return []float64{0, 1, 0}
	}
	return []float64{0, 0, 1}
}

// Train builds a model from labelled positions.
func Train(records []dataset.Record, config TrainingConfig) (*RBF, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("no training examples")
	}
	if config.Nodes <= 0 || config.Nodes > len(records) {
		return nil, fmt.Errorf("nodes must be in [1, %d], got %d", len(records), config.Nodes)
	}
	if config.Iterations <= 0 {
		return nil, fmt.Errorf("iterations must be greater than 0")
	}
	rng := rand.New(rand.NewSource(config.Seed))

	inputs := make([][]float64, len(records))
	targets := make([][]float64, len(records))
	for i, r := range records {
		inputs[i] = r.Encode(config.Encoding)
		targets[i] = target(r.OutcomeFor(config.Perspective))
	}

	var centres [][]float64
	if config.UseKMeans {
		centres = KMeans(inputs, config.Nodes, 10, rng)
	} else {
		centres = make([][]float64, config.Nodes)
		for i, idx := range rng.Perm(len(inputs))[:config.Nodes] {
			centres[i] = append([]float64(nil), inputs[idx]...)
		}
	}

	sigma := config.Sigma
	if sigma <= 0 {
		lo, hi := bounds(inputs)
		var d float64
		for j := range lo {
			d = math.Max(d, hi[j]-lo[j])
		}
		sigma = d / math.Sqrt(2*float64(config.Nodes))
		if sigma <= 0 {
			sigma = 1
		}
	}

	weights := make([][]float64, config.Nodes+1)
	for j := range weights {
		weights[j] = []float64{rng.Float64()*0.1 - 0.05, rng.Float64()*0.1 - 0.05, rng.Float64()*0.1 - 0.05}
	}
	r := &RBF{model: Model{
		Name:        config.Name,
		Centres:     centres,
		Sigma:       sigma,
		Normalize:   config.Normalize,
		Weights:     weights,
		Perspective: config.Perspective,
		Encoding:    config.Encoding,
	}}

	log.Info().
		Str("model", config.Name).
		Int("examples", len(records)).
		Int("nodes", config.Nodes).
		Float64("sigma", sigma).
		Bool("kmeans", config.UseKMeans).
		Msg("training")

	hidden := make([][]float64, len(inputs))
	for i, x := range inputs {
		hidden[i] = r.hidden(x)
	}
	start := time.Now()
	var errs int
	for it := 0; it < config.Iterations; it++ {
		errs = r.perceptronPass(hidden, targets, config.Eta)
		if errs == 0 {
			break
		}
	}
	log.Info().Dur("elapsed", time.Since(start)).Int("misfires", errs).Msg("training done")
	return r, nil
}

// perceptronPass is one batch delta-rule update with threshold activations.
// It returns the number of mismatched outputs before the update.
func (r *RBF) perceptronPass(hidden, targets [][]float64, eta float64) int {
	w := r.model.Weights
	delta := make([][]float64, len(w))
	for j := range delta {
		delta[j] = make([]float64, 3)
	}
	var errs int
	for i, h := range hidden {
		out := r.readout(h)
		for k := 0; k < 3; k++ {
			var y float64
			if out[k] > 0 {
				y = 1
			}
			diff := targets[i][k] - y
			if diff == 0 {
				continue
			}
			errs++
			for j, hv := range h {
				delta[j][k] += eta * hv * diff
			}
		}
	}
	for j := range w {
		for k := 0; k < 3; k++ {
			w[j][k] += delta[j][k]
		}
	}
	return errs
}

func bounds(data [][]float64) (lo, hi []float64) {
	lo = append([]float64(nil), data[0]...)
	hi = append([]float64(nil), data[0]...)
	for _, x := range data[1:] {
		for j, v := range x {
			lo[j] = math.Min(lo[j], v)
			hi[j] = math.Max(hi[j], v)
		}
	}
	return lo, hi
}

// KMeans places k centres uniformly inside the bounding box of data and
// refines them for at most maxIter assign/update rounds. A centre that loses
// all its points keeps its position.
func KMeans(data [][]float64, k, maxIter int, rng *rand.Rand) [][]float64 {
	lo, hi := bounds(data)
	centres := make([][]float64, k)
	for i := range centres {
		centres[i] = make([]float64, len(lo))
		for j := range lo {
			centres[i][j] = lo[j] + rng.Float64()*(hi[j]-lo[j])
		}
	}

	assign := make([]int, len(data))
	for it := 0; it < maxIter; it++ {
		changed := it == 0
		for i, x := range data {
			best, bestD := 0, math.Inf(1)
			for c, centre := range centres {
				var d float64
				for j, v := range x {
					diff := v - centre[j]
					d += diff * diff
				}
				if d < bestD {
					best, bestD = c, d
				}
			}
			if assign[i] != best {
				assign[i] = best
				changed = true
			}
		}
		if !changed {
			break
		}
		sums := make([][]float64, k)
		counts := make([]int, k)
		for c := range sums {
			sums[c] = make([]float64, len(lo))
		}
		for i, x := range data {
			c := assign[i]
			counts[c]++
			for j, v := range x {
				sums[c][j] += v
			}
		}
		for c := range centres {
			if counts[c] == 0 {
				continue
			}
			for j := range centres[c] {
				centres[c][j] = sums[c][j] / float64(counts[c])
			}
		}
	}
	return centres
}
