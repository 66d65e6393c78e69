package ai

import (
	"math/rand"

	"github.com/montplusa/connect-four/pkg/config"
	"github.com/montplusa/connect-four/pkg/game"
)

// NewGame loads the evaluator named in s and starts a game with it. A
// regression model's own targets replace the configured ones.
func NewGame(s *config.Settings) (*game.Game, Loaded, error) {
	opts := Options{Path: s.Model.Path, Seed: s.Model.Seed, Targets: s.Policy.Targets}
	l, err := New(s.Model.Kind, opts, s.Board)
	if err != nil {
		return nil, Loaded{}, err
	}
	policy := s.Policy
	if l.Targets != nil {
		policy.Targets = *l.Targets
	}
	var rng *rand.Rand
	if s.Model.Seed != 0 {
		rng = rand.New(rand.NewSource(s.Model.Seed))
	}
	g, err := game.NewGame(s.Board, game.NewSelector(policy, rng), l)
	if err != nil {
		return nil, Loaded{}, err
	}
	return g, l, nil
}
