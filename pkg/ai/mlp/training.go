package mlp

import (
	"fmt"
	"time"

	"github.com/patrikeh/go-deep/training"
	"github.com/rs/zerolog/log"

	"github.com/montplusa/connect-four/pkg/dataset"
	"github.com/montplusa/connect-four/pkg/game"
)

// TrainingConfig specifies parameters for offline training
type TrainingConfig struct {
	Iterations   int     // Passes over the training set
	LearningRate float64 // SGD learning rate
	Momentum     float64 // SGD momentum
	Validation   float64 // Fraction of examples held out for validation
	Verbosity    int     // go-deep progress output every N iterations, 0 for none
}

// DefaultTrainingConfig is SGD with momentum, a third held out.
func DefaultTrainingConfig() TrainingConfig {
	return TrainingConfig{
		Iterations:   100,
		LearningRate: 0.1,
		Momentum:     0.9,
		Validation:   1.0 / 3,
	}
}

// Examples converts labelled positions into go-deep examples for this
// network's encoding, head and targets.
func (m *MLP) Examples(records []dataset.Record) training.Examples {
	cfg := m.config
	examples := make(training.Examples, 0, len(records))
	for _, r := range records {
		examples = append(examples, training.Example{
			Input:    r.Encode(cfg.Encoding),
			Response: response(cfg, r.OutcomeFor(cfg.Perspective)),
		})
	}
	return examples
}

func response(cfg NetworkConfig, outcome game.Label) []float64 {
	if cfg.Output == Categorical {
		switch outcome {
		case game.LabelWin:
			return []float64{1, 0, 0}
		case game.LabelDraw:
			return []float64{0, 1, 0}
		}
		return []float64{0, 0, 1}
	}
	switch outcome {
	case game.LabelWin:
		return []float64{cfg.Targets.Win}
	case game.LabelDraw:
		return []float64{cfg.Targets.Draw}
	}
	return []float64{cfg.Targets.Loss}
}

// Train fits the network on examples with SGD.
func (m *MLP) Train(examples training.Examples, config TrainingConfig) error {
	if config.Iterations <= 0 {
		return fmt.Errorf("iterations must be greater than 0")
	}
	if len(examples) == 0 {
		return fmt.Errorf("no training examples")
	}
	for i, ex := range examples {
		if len(ex.Input) != m.config.InputSize || len(ex.Response) != m.config.outputs() {
			return fmt.Errorf("example %d has shape %d->%d, network is %d->%d",
				i, len(ex.Input), len(ex.Response), m.config.InputSize, m.config.outputs())
		}
	}

	examples.Shuffle()
	held := int(float64(len(examples)) * config.Validation)
	if held >= len(examples) {
		held = len(examples) - 1
	}
	validation, train := examples[:held], examples[held:]

	log.Info().
		Str("model", m.config.Name).
		Int("examples", len(train)).
		Int("validation", len(validation)).
		Int("iterations", config.Iterations).
		Float64("lr", config.LearningRate).
		Msg("training")

	start := time.Now()
	verbosity := config.Verbosity
	if verbosity <= 0 {
		// go-deep reports whenever iteration%verbosity == 0
		verbosity = config.Iterations + 1
	}
	trainer := training.NewTrainer(training.NewSGD(config.LearningRate, config.Momentum, 0.0, false), verbosity)

	m.mu.Lock()
	trainer.Train(m.network, train, validation, config.Iterations)
	m.mu.Unlock()

	log.Info().Dur("elapsed", time.Since(start)).Msg("training done")
	return nil
}
