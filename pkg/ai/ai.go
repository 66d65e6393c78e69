// Package ai builds evaluators by kind name for the front-ends.
package ai

import (
	"sort"

	"github.com/pkg/errors"

	"github.com/montplusa/connect-four/pkg/ai/dtree"
	"github.com/montplusa/connect-four/pkg/ai/mlp"
	"github.com/montplusa/connect-four/pkg/ai/random"
	"github.com/montplusa/connect-four/pkg/ai/rbf"
	"github.com/montplusa/connect-four/pkg/game"
)

// Options is what a loader may need beyond the board config.
type Options struct {
	Path    string       // model file, ignored by random
	Seed    int64        // random only, 0 for the clock
	Targets game.Targets // random only, score range
}

// Loaded is an evaluator plus the regression targets it was trained on, if
// it has any.
type Loaded struct {
	game.Evaluator
	Targets *game.Targets
}

type loader func(opts Options, cfg game.Config) (Loaded, error)

var loaders = map[string]loader{
	"mlp":    loadMLP,
	"rbf":    loadRBF,
	"dtree":  loadTree,
	"random": loadRandom,
}

// Kinds lists the accepted kind names.
func Kinds() []string {
	kinds := make([]string, 0, len(loaders))
	for k := range loaders {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}

// New loads an evaluator of the given kind and checks it reads boards of cfg.
func New(kind string, opts Options, cfg game.Config) (Loaded, error) {
	load, ok := loaders[kind]
	if !ok {
		return Loaded{}, errors.Errorf("unknown evaluator %q, want one of %v", kind, Kinds())
	}
	if kind != "random" && opts.Path == "" {
		return Loaded{}, errors.Errorf("evaluator %q needs a model file", kind)
	}
	l, err := load(opts, cfg)
	if err != nil {
		return Loaded{}, errors.WithMessagef(err, "failed to create evaluator %q", kind)
	}
	return l, nil
}

func checkEncoding(got, want game.StoneEncoding) error {
	if got != want {
		return errors.Errorf("model encoding %+v does not match board encoding %+v", got, want)
	}
	return nil
}

func checkInputs(got int, cfg game.Config) error {
	if got != cfg.Cells() {
		return errors.Errorf("model reads %d cells, board has %d", got, cfg.Cells())
	}
	return nil
}

func loadMLP(opts Options, cfg game.Config) (Loaded, error) {
	m, err := mlp.Load(opts.Path)
	if err != nil {
		return Loaded{}, err
	}
	c := m.Config()
	if err := checkInputs(c.InputSize, cfg); err != nil {
		return Loaded{}, err
	}
	if err := checkEncoding(c.Encoding, cfg.Encoding); err != nil {
		return Loaded{}, err
	}
	l := Loaded{Evaluator: m}
	if c.Output == mlp.Regression {
		t := c.Targets
		l.Targets = &t
	}
	return l, nil
}

func loadRBF(opts Options, cfg game.Config) (Loaded, error) {
	r, err := rbf.Load(opts.Path)
	if err != nil {
		return Loaded{}, err
	}
	m := r.Model()
	if err := checkInputs(len(m.Centres[0]), cfg); err != nil {
		return Loaded{}, err
	}
	if err := checkEncoding(m.Encoding, cfg.Encoding); err != nil {
		return Loaded{}, err
	}
	return Loaded{Evaluator: r}, nil
}

func loadTree(opts Options, cfg game.Config) (Loaded, error) {
	t, err := dtree.Load(opts.Path)
	if err != nil {
		return Loaded{}, err
	}
	m := t.Model()
	if m.Width != cfg.Width || m.Height != cfg.Height {
		return Loaded{}, errors.Errorf("tree is for a %dx%d board, not %dx%d", m.Width, m.Height, cfg.Width, cfg.Height)
	}
	if err := checkEncoding(m.Encoding, cfg.Encoding); err != nil {
		return Loaded{}, err
	}
	return Loaded{Evaluator: t}, nil
}

func loadRandom(opts Options, _ game.Config) (Loaded, error) {
	r := random.New(opts.Seed)
	if t := opts.Targets; t != (game.Targets{}) {
		r.Min = min(t.Win, t.Draw, t.Loss)
		r.Max = max(t.Win, t.Draw, t.Loss)
	}
	return Loaded{Evaluator: r}, nil
}
