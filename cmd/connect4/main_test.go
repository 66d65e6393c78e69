package main

import (
	"bytes"
	"math/rand"
	"strings"
	"testing"

	"github.com/montplusa/connect-four/pkg/ai/random"
	"github.com/montplusa/connect-four/pkg/game"
)

func newGame(t *testing.T) *game.Game {
	t.Helper()
	sel := game.NewSelector(game.DefaultPolicy(), rand.New(rand.NewSource(1)))
	g, err := game.NewGame(game.DefaultConfig(), sel, random.New(1))
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func TestPlayReprompts(t *testing.T) {
	g := newGame(t)
	var out bytes.Buffer
	if err := play(g, strings.NewReader("abc\n9\n4\nexit\n"), &out, true); err != nil {
		t.Fatal(err)
	}
	s := out.String()
	if strings.Count(s, "try again") != 2 {
		t.Errorf("expected two reprompts:\n%s", s)
	}
	if !strings.Contains(s, "AI plays column") || !strings.Contains(s, "bucket") {
		t.Errorf("missing AI move or diagnostics:\n%s", s)
	}
	if len(g.History()) != 2 {
		t.Errorf("history = %v", g.History())
	}
}

func TestPlayEOF(t *testing.T) {
	g := newGame(t)
	var out bytes.Buffer
	if err := play(g, strings.NewReader(""), &out, false); err != nil {
		t.Fatal(err)
	}
	if g.State() != game.StateInProgress {
		t.Errorf("state = %v", g.State())
	}
}
