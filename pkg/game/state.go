package game

// State はゲームの進行状態
type State int

const (
	StateInProgress State = iota
	StateHumanWon
	StateAIWon
	StateDraw
	StateAborted
)

func (s State) String() string {
	switch s {
	case StateInProgress:
		return "in-progress"
	case StateHumanWon:
		return "human-won"
	case StateAIWon:
		return "ai-won"
	case StateDraw:
		return "draw"
	case StateAborted:
		return "aborted"
	}
	return "unknown"
}

// Terminal reports whether no further placements are accepted.
func (s State) Terminal() bool {
	return s != StateInProgress
}

// Move は一手の構造体
type Move struct {
	Side   Stone `json:"side"`
	Column int   `json:"column"`
	Row    int   `json:"row"`
}

// settle returns the state of b after a placement.
func settle(b *Board) State {
	switch FindWinner(b) {
	case Human:
		return StateHumanWon
	case AI:
		return StateAIWon
	}
	if b.IsFull() {
		return StateDraw
	}
	return StateInProgress
}
