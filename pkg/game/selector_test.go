package game

import (
	"errors"
	"math"
	"math/rand"
	"testing"
)

func newTestSelector(seed int64) *Selector {
	return NewSelector(DefaultPolicy(), rand.New(rand.NewSource(seed)))
}

func TestChooseColumnWinSkipsEvaluator(t *testing.T) {
	b := NewBoard(DefaultConfig())
	drop(t, b, AI, 0, 1, 2)
	drop(t, b, Human, 6, 6, 6)
	ev := newStub(b, constant(Scalar(2)))
	d, err := newTestSelector(1).ChooseColumn(b, ev, false, 6)
	if err != nil {
		t.Fatal(err)
	}
	if d.Column != 3 || !d.Forced {
		t.Fatalf("decision = %+v, want forced column 3", d)
	}
	if ev.calls != 0 {
		t.Fatalf("evaluator called %d times", ev.calls)
	}
}

func TestChooseColumnBlocksHumanThree(t *testing.T) {
	b := NewBoard(DefaultConfig())
	drop(t, b, Human, 4, 4, 4)
	drop(t, b, AI, 0, 6)
	ev := newStub(b, constant(Scalar(2)))
	d, err := newTestSelector(1).ChooseColumn(b, ev, false, 4)
	if err != nil {
		t.Fatal(err)
	}
	if d.Column != 4 || !d.Forced || ev.calls != 0 {
		t.Fatalf("decision = %+v, calls = %d", d, ev.calls)
	}
}

func TestChooseColumnBucketPriority(t *testing.T) {
	b := NewBoard(DefaultConfig())
	// default targets seen from the human: win 1, loss 2, draw 3
	ev := newStub(b, func(col int) Estimate {
		switch col {
		case 4:
			return Scalar(2.4) // opponent loses, but not very close
		case 1:
			return Scalar(0.9) // opponent wins
		}
		return Scalar(3) // draw, exact
	})
	for seed := int64(0); seed < 10; seed++ {
		d, err := newTestSelector(seed).ChooseColumn(b, ev, false, -1)
		if err != nil {
			t.Fatal(err)
		}
		if d.Column != 4 || d.Bucket != BucketOpponentLoses {
			t.Fatalf("seed %d: decision = %+v", seed, d)
		}
		if len(d.Candidates) != 7 {
			t.Fatalf("seed %d: %d candidates", seed, len(d.Candidates))
		}
	}
}

func TestChooseColumnClosestInBucket(t *testing.T) {
	b := NewBoard(DefaultConfig())
	ev := newStub(b, func(col int) Estimate {
		switch col {
		case 2:
			return Scalar(2.3)
		case 5:
			return Scalar(2.05)
		case 6:
			return Scalar(1.8)
		}
		return Scalar(3.1)
	})
	d, err := newTestSelector(7).ChooseColumn(b, ev, false, -1)
	if err != nil {
		t.Fatal(err)
	}
	if d.Column != 5 {
		t.Fatalf("column = %d, want 5", d.Column)
	}
	if math.Abs(closenessOf(d, 5)-0.05) > 1e-9 {
		t.Fatalf("closeness = %v", closenessOf(d, 5))
	}
}

func closenessOf(d Decision, col int) float64 {
	for _, c := range d.Candidates {
		if c.Column == col {
			return c.Closeness
		}
	}
	return math.NaN()
}

func TestChooseColumnFallsBackToOpponentWin(t *testing.T) {
	b := NewBoard(DefaultConfig())
	ev := newStub(b, func(col int) Estimate {
		return Scalar(1 + float64(col)/100)
	})
	d, err := newTestSelector(3).ChooseColumn(b, ev, false, -1)
	if err != nil {
		t.Fatal(err)
	}
	if d.Bucket != BucketOpponentWins || d.Column != 0 {
		t.Fatalf("decision = %+v", d)
	}
}

func TestChooseColumnTieBreakFollowsSeed(t *testing.T) {
	b := NewBoard(DefaultConfig())
	seen := map[int]bool{}
	for seed := int64(0); seed < 30; seed++ {
		ev := newStub(b, constant(Scalar(3)))
		d1, err := newTestSelector(seed).ChooseColumn(b, ev, false, -1)
		if err != nil {
			t.Fatal(err)
		}
		d2, err := newTestSelector(seed).ChooseColumn(b, ev, false, -1)
		if err != nil {
			t.Fatal(err)
		}
		if d1.Column != d2.Column {
			t.Fatalf("seed %d: %d then %d", seed, d1.Column, d2.Column)
		}
		// the first column visited wins every tie
		if d1.Column != ev.columns[0] {
			t.Fatalf("seed %d: chose %d, first visited %d", seed, d1.Column, ev.columns[0])
		}
		seen[d1.Column] = true
	}
	if len(seen) < 2 {
		t.Fatalf("tie-break never varied: %v", seen)
	}
}

func TestChooseColumnSkipsMirroredOpening(t *testing.T) {
	b := NewBoard(DefaultConfig())
	drop(t, b, Human, 3)
	ev := newStub(b, constant(Scalar(2)))
	d, err := newTestSelector(1).ChooseColumn(b, ev, true, 3)
	if err != nil {
		t.Fatal(err)
	}
	if d.Column == 3 {
		t.Fatalf("mirrored the opening")
	}
	for _, c := range ev.columns {
		if c == 3 {
			t.Fatalf("column 4 was evaluated on the opening move")
		}
	}
	if ev.calls != 6 {
		t.Fatalf("calls = %d, want 6", ev.calls)
	}

	ev = newStub(b, constant(Scalar(2)))
	if _, err := newTestSelector(1).ChooseColumn(b, ev, false, 3); err != nil {
		t.Fatal(err)
	}
	if ev.calls != 7 {
		t.Fatalf("later move: calls = %d, want 7", ev.calls)
	}
}

func TestChooseColumnMirrorRuleCanBeDisabled(t *testing.T) {
	b := NewBoard(DefaultConfig())
	drop(t, b, Human, 3)
	policy := DefaultPolicy()
	policy.AvoidMirrorOpening = false
	ev := newStub(b, constant(Scalar(2)))
	if _, err := NewSelector(policy, rand.New(rand.NewSource(1))).ChooseColumn(b, ev, true, 3); err != nil {
		t.Fatal(err)
	}
	if ev.calls != 7 {
		t.Fatalf("calls = %d, want 7", ev.calls)
	}
}

func TestChooseColumnPerspective(t *testing.T) {
	b := NewBoard(DefaultConfig())
	answer := func(col int) Estimate {
		if col == 2 {
			return Scalar(1) // "win" for whoever the evaluator speaks for
		}
		return Scalar(3)
	}

	ev := newStub(b, answer)
	ev.perspective = JustMoved
	d, err := newTestSelector(1).ChooseColumn(b, ev, false, -1)
	if err != nil {
		t.Fatal(err)
	}
	if d.Column != 2 || d.Bucket != BucketOpponentLoses {
		t.Fatalf("just-moved: decision = %+v", d)
	}

	ev = newStub(b, answer)
	ev.perspective = NextToMove
	d, err = newTestSelector(1).ChooseColumn(b, ev, false, -1)
	if err != nil {
		t.Fatal(err)
	}
	if d.Column == 2 || d.Bucket != BucketDraw {
		t.Fatalf("next-to-move: decision = %+v", d)
	}
}

func TestChooseColumnOneHot(t *testing.T) {
	b := NewBoard(DefaultConfig())
	ev := newStub(b, func(col int) Estimate {
		switch col {
		case 0:
			return OneHot{Loss: 1}
		case 6:
			return OneHot{Draw: 1}
		}
		return OneHot{Win: 1}
	})
	d, err := newTestSelector(1).ChooseColumn(b, ev, false, -1)
	if err != nil {
		t.Fatal(err)
	}
	if d.Column != 0 || d.Bucket != BucketOpponentLoses || closenessOf(d, 0) != 0 {
		t.Fatalf("decision = %+v", d)
	}
}

func TestChooseColumnUnknownLabel(t *testing.T) {
	b := NewBoard(DefaultConfig())

	ev := newStub(b, func(col int) Estimate {
		if col == 5 {
			return LabelWin
		}
		return LabelUnknown
	})
	d, err := newTestSelector(1).ChooseColumn(b, ev, false, -1)
	if err != nil {
		t.Fatal(err)
	}
	if d.Column == 5 || d.Bucket != BucketDraw {
		t.Fatalf("unknown should beat a known opponent win: %+v", d)
	}

	for seed := int64(0); seed < 10; seed++ {
		ev = newStub(b, func(col int) Estimate {
			if col == 4 {
				return LabelDraw
			}
			if col == 5 {
				return LabelWin
			}
			return LabelUnknown
		})
		d, err = newTestSelector(seed).ChooseColumn(b, ev, false, -1)
		if err != nil {
			t.Fatal(err)
		}
		if d.Column != 4 {
			t.Fatalf("seed %d: known draw should beat unknown: %+v", seed, d)
		}
	}
}

func TestChooseColumnLabelLoss(t *testing.T) {
	b := NewBoard(DefaultConfig())
	ev := newStub(b, func(col int) Estimate {
		if col == 1 {
			return LabelLoss
		}
		return LabelDraw
	})
	d, err := newTestSelector(1).ChooseColumn(b, ev, false, -1)
	if err != nil {
		t.Fatal(err)
	}
	if d.Column != 1 {
		t.Fatalf("decision = %+v", d)
	}
}

func TestChooseColumnEvaluatorFailures(t *testing.T) {
	b := NewBoard(DefaultConfig())
	tests := []struct {
		name string
		ev   *stubEvaluator
	}{
		{"error", func() *stubEvaluator {
			s := newStub(b, constant(Scalar(2)))
			s.err = errors.New("weights missing")
			return s
		}()},
		{"nan", newStub(b, constant(Scalar(math.NaN())))},
		{"bad label", newStub(b, constant(Label("maybe")))},
		{"nil", newStub(b, constant(nil))},
		{"inf indicator", newStub(b, constant(OneHot{Win: math.Inf(1)}))},
		{"no indicator", newStub(b, constant(OneHot{}))},
		{"weak indicators", newStub(b, constant(OneHot{Win: 0.3, Draw: 0.3, Loss: 0.4}))},
		{"negative indicator", newStub(b, constant(OneHot{Win: 1, Loss: -0.5}))},
		{"indicator above one", newStub(b, constant(OneHot{Draw: 2}))},
	}
	for _, tt := range tests {
		before := b.Encode()
		_, err := newTestSelector(1).ChooseColumn(b, tt.ev, false, -1)
		if !errors.Is(err, ErrEvaluatorUnavailable) {
			t.Errorf("%s: err = %v", tt.name, err)
		}
		after := b.Encode()
		for i := range before {
			if before[i] != after[i] {
				t.Fatalf("%s: live board mutated", tt.name)
			}
		}
	}
}

func TestChooseColumnFullBoard(t *testing.T) {
	cfg := DefaultConfig()
	b := NewBoard(cfg)
	for c := 0; c < cfg.Width; c++ {
		for r := 0; r < cfg.Height; r++ {
			side := AI
			if (c+r/2)%2 == 0 {
				side = Human
			}
			drop(t, b, side, c)
		}
	}
	ev := newStub(b, constant(Scalar(2)))
	_, err := newTestSelector(1).ChooseColumn(b, ev, false, 0)
	if !errors.Is(err, ErrNoLegalMove) {
		t.Fatalf("err = %v", err)
	}
	if ev.calls != 0 {
		t.Fatalf("evaluator called on a full board")
	}
}
