package dtree

import (
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/montplusa/connect-four/pkg/dataset"
	"github.com/montplusa/connect-four/pkg/game"
)

// Sample is one training row.
type Sample struct {
	Attrs map[string]string
	Label game.Label
}

var labelOrder = []game.Label{game.LabelWin, game.LabelDraw, game.LabelLoss, game.LabelUnknown}

// Build grows an ID3 tree. Attributes are tried in the given order and the
// first one with the highest information gain wins. Zero gain still splits so
// that parity-like targets can be learnt.
func Build(samples []Sample, attributes []string) (*Node, error) {
	if len(samples) == 0 {
		return nil, fmt.Errorf("no training samples")
	}
	return grow(samples, attributes), nil
}

func grow(samples []Sample, attributes []string) *Node {
	counts := labelCounts(samples)
	if len(counts) == 1 {
		return &Node{Leaf: samples[0].Label}
	}
	best, bestGain := -1, math.Inf(-1)
	base := entropy(counts, len(samples))
	for i, attr := range attributes {
		parts := split(samples, attr)
		if len(parts) < 2 {
			continue
		}
		var rem float64
		for _, p := range parts {
			rem += float64(len(p)) / float64(len(samples)) * entropy(labelCounts(p), len(p))
		}
		if gain := base - rem; gain > bestGain {
			best, bestGain = i, gain
		}
	}
	if best < 0 {
		return &Node{Leaf: majority(counts)}
	}

	attr := attributes[best]
	rest := make([]string, 0, len(attributes)-1)
	rest = append(rest, attributes[:best]...)
	rest = append(rest, attributes[best+1:]...)

	n := &Node{Attribute: attr, Branches: map[string]*Node{}}
	for v, part := range split(samples, attr) {
		n.Branches[v] = grow(part, rest)
	}
	return n
}

func split(samples []Sample, attr string) map[string][]Sample {
	parts := map[string][]Sample{}
	for _, s := range samples {
		v := s.Attrs[attr]
		parts[v] = append(parts[v], s)
	}
	return parts
}

func labelCounts(samples []Sample) map[game.Label]int {
	c := map[game.Label]int{}
	for _, s := range samples {
		c[s.Label]++
	}
	return c
}

func entropy(counts map[game.Label]int, n int) float64 {
	var h float64
	for _, c := range counts {
		p := float64(c) / float64(n)
		h -= p * math.Log2(p)
	}
	return h
}

// majority breaks ties in labelOrder.
func majority(counts map[game.Label]int) game.Label {
	best, bestN := game.LabelUnknown, -1
	for _, l := range labelOrder {
		if counts[l] > bestN {
			best, bestN = l, counts[l]
		}
	}
	return best
}

// TrainingConfig specifies parameters for offline training
type TrainingConfig struct {
	Name        string
	Perspective game.Perspective
	Encoding    game.StoneEncoding
}

func DefaultTrainingConfig() TrainingConfig {
	return TrainingConfig{Name: "dtree", Encoding: game.DefaultConfig().Encoding}
}

// Train builds a tree over the dataset attributes.
func Train(records []dataset.Record, config TrainingConfig) (*Tree, error) {
	samples := make([]Sample, len(records))
	for i, r := range records {
		samples[i] = Sample{Attrs: r.Symbols(), Label: r.OutcomeFor(config.Perspective)}
	}
	log.Info().Str("model", config.Name).Int("examples", len(samples)).Msg("training")
	start := time.Now()
	root, err := Build(samples, dataset.Attributes(dataset.Width, dataset.Height))
	if err != nil {
		return nil, err
	}
	log.Info().Dur("elapsed", time.Since(start)).Int("depth", root.Depth()).Msg("training done")
	return New(Model{
		Name:        config.Name,
		Width:       dataset.Width,
		Height:      dataset.Height,
		Perspective: config.Perspective,
		Encoding:    config.Encoding,
		Root:        root,
	})
}
