// Package rbf is a radial-basis-function network with a perceptron read-out.
// Its output is three thresholded indicators, one per outcome.
package rbf

import (
	"encoding/json"
	"fmt"
	"math"
	"os"

	"github.com/pkg/errors"

	"github.com/montplusa/connect-four/pkg/game"
)

// Model is the trained network.
type Model struct {
	Name        string             `json:"name"`
	Centres     [][]float64        `json:"centres"` // one row per RBF node
	Sigma       float64            `json:"sigma"`
	Normalize   bool               `json:"normalize"`
	Weights     [][]float64        `json:"weights"` // len(Centres)+1 rows (bias last) x 3 columns: win, draw, loss
	Perspective game.Perspective   `json:"perspective"`
	Encoding    game.StoneEncoding `json:"encoding"`
}

// RBF implements game.Evaluator.
type RBF struct {
	model Model
}

// New validates m.
func New(m Model) (*RBF, error) {
	if len(m.Centres) == 0 {
		return nil, fmt.Errorf("rbf %s has no centres", m.Name)
	}
	dim := len(m.Centres[0])
	for i, c := range m.Centres {
		if len(c) != dim {
			return nil, fmt.Errorf("centre %d has %d dimensions, want %d", i, len(c), dim)
		}
	}
	if m.Sigma <= 0 {
		return nil, fmt.Errorf("sigma must be positive, got %v", m.Sigma)
	}
	if len(m.Weights) != len(m.Centres)+1 {
		return nil, fmt.Errorf("read-out has %d rows, want %d", len(m.Weights), len(m.Centres)+1)
	}
	for i, w := range m.Weights {
		if len(w) != 3 {
			return nil, fmt.Errorf("read-out row %d has %d outputs, want 3", i, len(w))
		}
	}
	return &RBF{model: m}, nil
}

// Load reads a model file.
func Load(path string) (*RBF, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m Model
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, errors.Wrapf(err, "decode %s", path)
	}
	r, err := New(m)
	if err != nil {
		return nil, errors.WithMessagef(err, "model %s", path)
	}
	return r, nil
}

// Save writes the model as JSON.
func (r *RBF) Save(path string) error {
	data, err := json.MarshalIndent(r.model, "", "  ")
	if err != nil {
		return err
	}
	return errors.Wrapf(os.WriteFile(path, data, 0644), "write %s", path)
}

func (r *RBF) Model() Model                  { return r.model }
func (r *RBF) Perspective() game.Perspective { return r.model.Perspective }

// hidden returns the RBF activations followed by the bias input -1.
func (r *RBF) hidden(x []float64) []float64 {
	m := r.model
	h := make([]float64, len(m.Centres)+1)
	twoSigmaSq := 2 * m.Sigma * m.Sigma
	var sum float64
	for i, c := range m.Centres {
		var d float64
		for j, v := range x {
			diff := v - c[j]
			d += diff * diff
		}
		h[i] = math.Exp(-d / twoSigmaSq)
		sum += h[i]
	}
	if m.Normalize && sum > 0 {
		for i := range m.Centres {
			h[i] /= sum
		}
	}
	h[len(m.Centres)] = -1
	return h
}

func (r *RBF) readout(h []float64) [3]float64 {
	var out [3]float64
	for j, hv := range h {
		for k := 0; k < 3; k++ {
			out[k] += hv * r.model.Weights[j][k]
		}
	}
	return out
}

// Evaluate implements game.Evaluator. Outputs are scaled by their maximum and
// every output at or above half of it fires. When nothing is positive only the
// largest output fires.
func (r *RBF) Evaluate(encoded []float64) (game.Estimate, error) {
	if len(encoded) != len(r.model.Centres[0]) {
		return nil, fmt.Errorf("rbf %s expects %d inputs, got %d", r.model.Name, len(r.model.Centres[0]), len(encoded))
	}
	out := r.readout(r.hidden(encoded))

	top := 0
	for k := 1; k < 3; k++ {
		if out[k] > out[top] {
			top = k
		}
	}
	var ind [3]float64
	if out[top] <= 0 {
		ind[top] = 1
	} else {
		for k := range out {
			if out[k]/out[top] >= 0.5 {
				ind[k] = 1
			}
		}
	}
	return game.OneHot{Win: ind[0], Draw: ind[1], Loss: ind[2]}, nil
}
