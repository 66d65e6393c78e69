package game

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrInvalidColumn is the kind of every rejected turn input.
	ErrInvalidColumn = errors.New("invalid column")
	// ErrNoLegalMove means the selector found nothing to play.
	ErrNoLegalMove = errors.New("no legal move")
	// ErrEvaluatorUnavailable means the predictor failed or returned garbage.
	ErrEvaluatorUnavailable = errors.New("evaluator unavailable")
	// ErrGameOver is returned for placements after a terminal state.
	ErrGameOver = errors.New("game is over")
)

// InvalidColumnError describes a rejected column choice.
type InvalidColumnError struct {
	Input  string
	Column int // 0-based, -1 when Input was not a number
	Reason string
}

func newInvalidColumnError(input string, column int, reason string) error {
	return &InvalidColumnError{Input: input, Column: column, Reason: reason}
}

func (e *InvalidColumnError) Error() string {
	if e.Column < 0 {
		return fmt.Sprintf("invalid column %q: %s", e.Input, e.Reason)
	}
	return fmt.Sprintf("invalid column %d: %s", e.Column+1, e.Reason)
}

func (e *InvalidColumnError) Unwrap() error {
	return ErrInvalidColumn
}
