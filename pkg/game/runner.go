package game

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// Turn は人間の一手とそれに対する AI の応答
type Turn struct {
	Human       Move
	AI          *Move     // nil when the game ended before the AI moved
	Decision    *Decision // nil when the AI did not move
	State       State
	AbortReason string
}

// Game は一局を管理
//
// The human always moves first. Game owns its board; callers only see copies.
type Game struct {
	board     *Board
	selector  *Selector
	evaluator Evaluator
	state     State
	aiMoves   int
	moves     []Move
}

// NewGame starts an empty game.
func NewGame(cfg Config, selector *Selector, evaluator Evaluator) (*Game, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.WithMessage(err, "invalid board config")
	}
	if selector == nil || evaluator == nil {
		return nil, errors.New("game needs a selector and an evaluator")
	}
	return &Game{
		board:     NewBoard(cfg),
		selector:  selector,
		evaluator: evaluator,
		state:     StateInProgress,
	}, nil
}

func (g *Game) State() State { return g.state }

// Board returns a snapshot of the live board.
func (g *Game) Board() *Board { return g.board.Snapshot() }

// History returns the placements so far.
func (g *Game) History() []Move {
	out := make([]Move, len(g.moves))
	copy(out, g.moves)
	return out
}

// PlayHuman は人間の一手を適用し、続けて AI の手を打つ
//
// An illegal column returns an *InvalidColumnError and changes nothing. If
// the selector cannot produce a column the game becomes StateAborted and the
// selector's error is returned together with the turn.
func (g *Game) PlayHuman(column int) (Turn, error) {
	if g.state.Terminal() {
		return Turn{State: g.state}, ErrGameOver
	}
	if !g.board.IsLegal(column) {
		reason := "column is full"
		if column < 0 || column >= g.board.Width() {
			reason = "out of range"
		}
		return Turn{State: g.state}, newInvalidColumnError(strconv.Itoa(column+1), column, reason)
	}

	human := g.place(column, Human)
	turn := Turn{Human: human}
	g.state = settle(g.board)
	if g.state.Terminal() {
		turn.State = g.state
		return turn, nil
	}

	decision, err := g.selector.ChooseColumn(g.board, g.evaluator, g.aiMoves == 0, column)
	if err != nil {
		g.state = StateAborted
		turn.State = g.state
		turn.AbortReason = err.Error()
		log.Warn().Err(err).Int("moves", len(g.moves)).Msg("ai turn aborted")
		return turn, err
	}
	ai := g.place(decision.Column, AI)
	g.aiMoves++
	turn.AI = &ai
	turn.Decision = &decision
	g.state = settle(g.board)
	turn.State = g.state
	return turn, nil
}

func (g *Game) place(column int, side Stone) Move {
	// callers checked legality
	row, err := g.board.PlaceStone(column, side)
	if err != nil {
		panic(err)
	}
	m := Move{Side: side, Column: column, Row: row}
	g.moves = append(g.moves, m)
	return m
}

// ParseColumn は 1 始まりの列入力を検証して 0 始まりの列を返す
func ParseColumn(input string, b *Board) (int, error) {
	s := strings.TrimSpace(input)
	n, err := strconv.Atoi(s)
	if err != nil {
		return -1, newInvalidColumnError(s, -1, "not a number")
	}
	col := n - 1
	if col < 0 || col >= b.Width() {
		return -1, newInvalidColumnError(s, col, "out of range")
	}
	if !b.IsLegal(col) {
		return -1, newInvalidColumnError(s, col, "column is full")
	}
	return col, nil
}
