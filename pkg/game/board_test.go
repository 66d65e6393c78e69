package game

import (
	"errors"
	"strings"
	"testing"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name string
		mod  func(*Config)
		ok   bool
	}{
		{"default", func(*Config) {}, true},
		{"zero width", func(c *Config) { c.Width = 0 }, false},
		{"connect one", func(c *Config) { c.Connect = 1 }, false},
		{"connect too long", func(c *Config) { c.Connect = 8; c.Width = 7; c.Height = 6 }, false},
		{"tall narrow", func(c *Config) { c.Width = 1; c.Height = 4 }, true},
		{"same encoding", func(c *Config) { c.Encoding.AI = c.Encoding.Human }, false},
	}
	for _, tt := range tests {
		cfg := DefaultConfig()
		tt.mod(&cfg)
		err := cfg.Validate()
		if (err == nil) != tt.ok {
			t.Errorf("%s: Validate() = %v, want ok=%v", tt.name, err, tt.ok)
		}
	}
}

func TestPlaceStoneHeights(t *testing.T) {
	cfg := DefaultConfig()
	b := NewBoard(cfg)
	seq := []int{3, 3, 0, 6, 3, 3, 3, 3, 1}
	for i, c := range seq {
		before := b.Height(c)
		side := Human
		if i%2 == 1 {
			side = AI
		}
		row, err := b.PlaceStone(c, side)
		if err != nil {
			t.Fatalf("move %d: %v", i, err)
		}
		if row != before {
			t.Fatalf("move %d: landed on row %d, want %d", i, row, before)
		}
		if b.Height(c) != before+1 {
			t.Fatalf("move %d: height %d, want %d", i, b.Height(c), before+1)
		}
		if b.At(c, row) != side {
			t.Fatalf("move %d: cell holds %v, want %v", i, b.At(c, row), side)
		}
	}
	if b.Height(3) != cfg.Height {
		t.Fatalf("column 4 height = %d, want full", b.Height(3))
	}
	if b.IsLegal(3) {
		t.Fatalf("full column reported legal")
	}
	if _, err := b.PlaceStone(3, Human); !errors.Is(err, ErrInvalidColumn) {
		t.Fatalf("place into full column: err = %v", err)
	}
	if b.Height(3) != cfg.Height {
		t.Fatalf("height changed after rejected placement")
	}
}

func TestIsLegal(t *testing.T) {
	b := NewBoard(DefaultConfig())
	for c := -1; c <= 7; c++ {
		want := c >= 0 && c < 7
		if got := b.IsLegal(c); got != want {
			t.Errorf("IsLegal(%d) = %v, want %v", c, got, want)
		}
	}
	drop(t, b, Human, 2, 2, 2, 2, 2, 2)
	if b.IsLegal(2) {
		t.Errorf("IsLegal(2) on full column")
	}
	if got := b.LegalColumns(); len(got) != 6 {
		t.Errorf("LegalColumns() = %v", got)
	}
}

func TestPlaceStoneRejectsBlank(t *testing.T) {
	b := NewBoard(DefaultConfig())
	if _, err := b.PlaceStone(0, Blank); err == nil {
		t.Fatalf("placing a blank stone succeeded")
	}
	if b.Height(0) != 0 {
		t.Fatalf("height changed")
	}
}

func TestEncodeColumnMajor(t *testing.T) {
	cfg := DefaultConfig()
	b := NewBoard(cfg)
	drop(t, b, Human, 0)
	drop(t, b, AI, 0, 1)
	enc := b.Encode()
	if len(enc) != cfg.Width*cfg.Height {
		t.Fatalf("len = %d", len(enc))
	}
	want := map[int]float64{
		0:          cfg.Encoding.Human, // column 0 row 0
		1:          cfg.Encoding.AI,    // column 0 row 1
		cfg.Height: cfg.Encoding.AI,    // column 1 row 0
	}
	for i, v := range enc {
		w, ok := want[i]
		if !ok {
			w = cfg.Encoding.Blank
		}
		if v != w {
			t.Errorf("enc[%d] = %v, want %v", i, v, w)
		}
	}
}

func TestSnapshotIsIndependent(t *testing.T) {
	b := NewBoard(DefaultConfig())
	drop(t, b, Human, 3, 4)
	before := b.Encode()
	snap := b.Snapshot()
	drop(t, snap, AI, 3, 3, 0)
	after := b.Encode()
	for i := range before {
		if before[i] != after[i] {
			t.Fatalf("original changed at %d", i)
		}
	}
	if b.Height(3) != 1 || snap.Height(3) != 3 {
		t.Fatalf("heights: original %d snapshot %d", b.Height(3), snap.Height(3))
	}
}

func TestIsFull(t *testing.T) {
	b := NewBoard(Config{Width: 2, Height: 2, Connect: 2, Encoding: DefaultConfig().Encoding})
	drop(t, b, Human, 0, 1, 0)
	if b.IsFull() {
		t.Fatalf("board with an empty cell reported full")
	}
	drop(t, b, AI, 1)
	if !b.IsFull() {
		t.Fatalf("full board not reported")
	}
}

func TestRender(t *testing.T) {
	b := NewBoard(DefaultConfig())
	drop(t, b, Human, 0)
	drop(t, b, AI, 6)
	out := Render(b)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 8 {
		t.Fatalf("got %d lines:\n%s", len(lines), out)
	}
	if lines[5] != " | x |   |   |   |   |   | o |" {
		t.Errorf("bottom row = %q", lines[5])
	}
	if !strings.HasPrefix(lines[7], "   1   2") {
		t.Errorf("footer = %q", lines[7])
	}
}

func TestPerspectiveText(t *testing.T) {
	for _, p := range []Perspective{NextToMove, JustMoved} {
		text, _ := p.MarshalText()
		var got Perspective
		if err := got.UnmarshalText(text); err != nil || got != p {
			t.Errorf("round trip %v: got %v, %v", p, got, err)
		}
	}
	var p Perspective
	if err := p.UnmarshalText([]byte("sideways")); err == nil {
		t.Errorf("accepted an unknown perspective")
	}
}
