package game

import (
	"fmt"
)

// StoneEncoding は Evaluator に渡す各石の数値表現
type StoneEncoding struct {
	Blank float64 `json:"blank"`
	Human float64 `json:"human"`
	AI    float64 `json:"ai"`
}

// Value returns the scalar for s.
func (e StoneEncoding) Value(s Stone) float64 {
	switch s {
	case Human:
		return e.Human
	case AI:
		return e.AI
	default:
		return e.Blank
	}
}

// Decode maps a scalar back to a stone. ok is false when v matches none of
// the three values.
func (e StoneEncoding) Decode(v float64) (s Stone, ok bool) {
	switch v {
	case e.Blank:
		return Blank, true
	case e.Human:
		return Human, true
	case e.AI:
		return AI, true
	}
	return Blank, false
}

// Config は盤面の寸法と勝利条件
//
// A Config is a value: copy it, never share a pointer to it.
type Config struct {
	Width    int           `json:"width"`
	Height   int           `json:"height"`
	Connect  int           `json:"connect"`
	Encoding StoneEncoding `json:"encoding"`
}

// DefaultConfig returns the classic 7x6 connect-four board.
func DefaultConfig() Config {
	return Config{
		Width:   7,
		Height:  6,
		Connect: 4,
		Encoding: StoneEncoding{
			Blank: 0,
			Human: 1,
			AI:    2,
		},
	}
}

// Cells is Width*Height, the length of an encoded board.
func (c Config) Cells() int {
	return c.Width * c.Height
}

// Validate reports the first inconsistency in c.
func (c Config) Validate() error {
	if c.Width < 1 || c.Height < 1 {
		return fmt.Errorf("board must be at least 1x1, got %dx%d", c.Width, c.Height)
	}
	if c.Connect < 2 {
		return fmt.Errorf("connect length must be at least 2, got %d", c.Connect)
	}
	if c.Connect > c.Width && c.Connect > c.Height {
		return fmt.Errorf("connect length %d does not fit a %dx%d board", c.Connect, c.Width, c.Height)
	}
	e := c.Encoding
	if e.Blank == e.Human || e.Blank == e.AI || e.Human == e.AI {
		return fmt.Errorf("stone encoding values must be distinct, got %+v", e)
	}
	return nil
}
