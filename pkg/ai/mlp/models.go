package mlp

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/pkg/errors"

	"github.com/montplusa/connect-four/pkg/game"
)

// OutputKind selects the network head.
type OutputKind string

const (
	// Regression: one linear output compared against Targets.
	Regression OutputKind = "regression"
	// Categorical: three softmax outputs ordered win, draw, loss.
	Categorical OutputKind = "categorical"
)

// NetworkConfig defines the network architecture and the conventions the
// weights were trained under.
type NetworkConfig struct {
	Name         string             `json:"name"`
	InputSize    int                `json:"input_size"`
	HiddenLayers []int              `json:"hidden_layers"`
	Output       OutputKind         `json:"output"`
	Perspective  game.Perspective   `json:"perspective"`
	Encoding     game.StoneEncoding `json:"encoding"`
	Targets      game.Targets       `json:"targets"`
	Weights      [][][]float64      `json:"weights,omitempty"`
}

// DefaultNetworkConfig is the classic setup: 42 inputs, one
// hidden layer, regression onto win=1 loss=2 draw=3 for the next player.
func DefaultNetworkConfig() NetworkConfig {
	cfg := game.DefaultConfig()
	return NetworkConfig{
		Name:         "default",
		InputSize:    cfg.Cells(),
		HiddenLayers: []int{40},
		Output:       Regression,
		Perspective:  game.NextToMove,
		Encoding:     cfg.Encoding,
		Targets:      game.DefaultPolicy().Targets,
	}
}

func (c NetworkConfig) outputs() int {
	if c.Output == Categorical {
		return 3
	}
	return 1
}

func (c NetworkConfig) validate() error {
	if c.InputSize <= 0 {
		return fmt.Errorf("input size must be positive, got %d", c.InputSize)
	}
	for i, n := range c.HiddenLayers {
		if n <= 0 {
			return fmt.Errorf("hidden layer %d has %d neurons", i, n)
		}
	}
	switch c.Output {
	case Regression, Categorical:
	default:
		return fmt.Errorf("unknown output kind %q", c.Output)
	}
	return nil
}

// LoadConfig reads a model file written by Save.
func LoadConfig(path string) (NetworkConfig, error) {
	var cfg NetworkConfig
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "decode %s", path)
	}
	return cfg, nil
}

// Load reads a model file and builds the network.
func Load(path string) (*MLP, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}
	if cfg.Weights == nil {
		return nil, errors.Errorf("model %s has no weights", path)
	}
	m, err := New(cfg)
	if err != nil {
		return nil, errors.WithMessagef(err, "model %s", path)
	}
	return m, nil
}

// Save writes the current weights together with the config.
func (m *MLP) Save(path string) error {
	m.mu.Lock()
	cfg := m.config
	cfg.Weights = m.network.Dump().Weights
	m.mu.Unlock()

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrapf(err, "write %s", path)
	}
	return nil
}
