package game

import "testing"

// drop places side into each column in order.
func drop(t *testing.T, b *Board, side Stone, cols ...int) {
	t.Helper()
	for _, c := range cols {
		if _, err := b.PlaceStone(c, side); err != nil {
			t.Fatalf("place %v in column %d: %v", side, c, err)
		}
	}
}

// stubEvaluator counts calls and answers per tried column. It recovers the
// column by diffing against base, the board the selector branches from.
type stubEvaluator struct {
	calls       int
	columns     []int
	perspective Perspective
	base        []float64
	height      int
	answer      func(column int) Estimate
	err         error
}

func newStub(b *Board, answer func(column int) Estimate) *stubEvaluator {
	return &stubEvaluator{base: b.Encode(), height: b.Rows(), answer: answer}
}

func (s *stubEvaluator) Perspective() Perspective { return s.perspective }

func (s *stubEvaluator) Evaluate(encoded []float64) (Estimate, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	col := -1
	for i, v := range encoded {
		if v != s.base[i] {
			col = i / s.height
			break
		}
	}
	s.columns = append(s.columns, col)
	return s.answer(col), nil
}

func constant(est Estimate) func(int) Estimate {
	return func(int) Estimate { return est }
}
