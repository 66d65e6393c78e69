// Package dtree is an ID3 decision tree over the UCI cell attributes.
package dtree

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/pkg/errors"

	"github.com/montplusa/connect-four/pkg/dataset"
	"github.com/montplusa/connect-four/pkg/game"
)

// Node is a leaf when Attribute is empty.
type Node struct {
	Attribute string           `json:"attribute,omitempty"`
	Branches  map[string]*Node `json:"branches,omitempty"`
	Leaf      game.Label       `json:"leaf,omitempty"`
}

func (n *Node) IsLeaf() bool { return n.Attribute == "" }

// Depth counts the decisions on the longest path.
func (n *Node) Depth() int {
	if n.IsLeaf() {
		return 0
	}
	d := 0
	for _, b := range n.Branches {
		if bd := b.Depth(); bd > d {
			d = bd
		}
	}
	return d + 1
}

// Classify walks the tree. A missing attribute or branch yields
// game.LabelUnknown.
func (n *Node) Classify(attrs map[string]string) game.Label {
	for !n.IsLeaf() {
		v, ok := attrs[n.Attribute]
		if !ok {
			return game.LabelUnknown
		}
		next, ok := n.Branches[v]
		if !ok || next == nil {
			return game.LabelUnknown
		}
		n = next
	}
	return n.Leaf
}

// Model is a tree plus the board geometry and encoding it reads.
type Model struct {
	Name        string             `json:"name"`
	Width       int                `json:"width"`
	Height      int                `json:"height"`
	Perspective game.Perspective   `json:"perspective"`
	Encoding    game.StoneEncoding `json:"encoding"`
	Root        *Node              `json:"root"`
}

// Tree implements game.Evaluator.
type Tree struct {
	model Model
}

func New(m Model) (*Tree, error) {
	if m.Root == nil {
		return nil, fmt.Errorf("tree %s has no root", m.Name)
	}
	if m.Width <= 0 || m.Height <= 0 {
		return nil, fmt.Errorf("tree %s has board %dx%d", m.Name, m.Width, m.Height)
	}
	return &Tree{model: m}, nil
}

func Load(path string) (*Tree, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m Model
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, errors.Wrapf(err, "decode %s", path)
	}
	t, err := New(m)
	if err != nil {
		return nil, errors.WithMessagef(err, "model %s", path)
	}
	return t, nil
}

func (t *Tree) Save(path string) error {
	data, err := json.MarshalIndent(t.model, "", "  ")
	if err != nil {
		return err
	}
	return errors.Wrapf(os.WriteFile(path, data, 0644), "write %s", path)
}

func (t *Tree) Model() Model                  { return t.model }
func (t *Tree) Perspective() game.Perspective { return t.model.Perspective }

// Evaluate implements game.Evaluator.
func (t *Tree) Evaluate(encoded []float64) (game.Estimate, error) {
	m := t.model
	if len(encoded) != m.Width*m.Height {
		return nil, fmt.Errorf("tree %s expects %d inputs, got %d", m.Name, m.Width*m.Height, len(encoded))
	}
	attrs := make(map[string]string, len(encoded))
	for i, v := range encoded {
		s, ok := m.Encoding.Decode(v)
		if !ok {
			return nil, fmt.Errorf("input %d: %v is not a stone value", i, v)
		}
		attrs[dataset.AttributeName(i/m.Height, i%m.Height)] = dataset.Symbol(s)
	}
	return m.Root.Classify(attrs), nil
}
