// Package mlp is a multilayer-perceptron evaluator backed by go-deep.
package mlp

import (
	"fmt"
	"sync"

	"github.com/patrikeh/go-deep"

	"github.com/montplusa/connect-four/pkg/game"
)

// MLP implements game.Evaluator.
type MLP struct {
	mu      sync.Mutex // go-deep keeps activations inside the neurons
	network *deep.Neural
	config  NetworkConfig
}

// New builds the network and applies config.Weights when present.
func New(config NetworkConfig) (*MLP, error) {
	if err := config.validate(); err != nil {
		return nil, err
	}
	layout := append(append([]int{}, config.HiddenLayers...), config.outputs())

	mode := deep.ModeRegression
	if config.Output == Categorical {
		mode = deep.ModeMultiClass
	}
	network := deep.NewNeural(&deep.Config{
		Inputs:     config.InputSize,
		Layout:     layout,
		Activation: deep.ActivationSigmoid,
		Mode:       mode,
		Weight:     deep.NewNormal(0.1, 0.0),
		Bias:       true,
	})

	if config.Weights != nil {
		if err := sameShape(network.Dump().Weights, config.Weights); err != nil {
			return nil, err
		}
		network.ApplyWeights(config.Weights)
	}
	config.Weights = nil

	return &MLP{network: network, config: config}, nil
}

// sameShape checks loaded weights against a freshly built network, since
// ApplyWeights indexes without bounds checks of its own.
func sameShape(want, got [][][]float64) error {
	if len(want) != len(got) {
		return fmt.Errorf("weights have %d layers, network has %d", len(got), len(want))
	}
	for l := range want {
		if len(want[l]) != len(got[l]) {
			return fmt.Errorf("layer %d: %d neurons, network has %d", l, len(got[l]), len(want[l]))
		}
		for n := range want[l] {
			if len(want[l][n]) != len(got[l][n]) {
				return fmt.Errorf("layer %d neuron %d: %d weights, network has %d", l, n, len(got[l][n]), len(want[l][n]))
			}
		}
	}
	return nil
}

func (m *MLP) Name() string {
	return fmt.Sprintf("mlp (%s)", m.config.Name)
}

// Config returns the architecture and conventions, without weights.
func (m *MLP) Config() NetworkConfig { return m.config }

func (m *MLP) Perspective() game.Perspective { return m.config.Perspective }

// Evaluate implements game.Evaluator.
func (m *MLP) Evaluate(encoded []float64) (game.Estimate, error) {
	if len(encoded) != m.config.InputSize {
		return nil, fmt.Errorf("mlp %s expects %d inputs, got %d", m.config.Name, m.config.InputSize, len(encoded))
	}
	m.mu.Lock()
	out := m.network.Predict(encoded)
	m.mu.Unlock()

	if m.config.Output == Categorical {
		// the most probable class fires, first on ties
		top := 0
		for k := 1; k < 3; k++ {
			if out[k] > out[top] {
				top = k
			}
		}
		var ind [3]float64
		ind[top] = 1
		return game.OneHot{Win: ind[0], Draw: ind[1], Loss: ind[2]}, nil
	}
	return game.Scalar(out[0]), nil
}
