package game

import "fmt"

// Perspective は Evaluator の出力が誰から見た結果かを示す
type Perspective int

const (
	// NextToMove: outcome for the player who moves after the hypothetical
	// placement, i.e. the human. This is how the UCI connect-4 data is labelled.
	NextToMove Perspective = iota
	// JustMoved: outcome for the side that made the hypothetical placement.
	JustMoved
)

func (p Perspective) String() string {
	if p == JustMoved {
		return "just-moved"
	}
	return "next-to-move"
}

func (p Perspective) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Perspective) UnmarshalText(text []byte) error {
	switch string(text) {
	case "next-to-move", "":
		*p = NextToMove
	case "just-moved":
		*p = JustMoved
	default:
		return fmt.Errorf("unknown perspective %q", string(text))
	}
	return nil
}

// Evaluator は学習済み予測器のインターフェース
type Evaluator interface {
	// Evaluate は仮の一手を打った後の盤面 (Board.Encode の形式) を評価
	Evaluate(encoded []float64) (Estimate, error)
	// Perspective は Evaluate の結果がどちら視点かを返す
	Perspective() Perspective
}

// Estimate is one of Scalar, OneHot or Label.
type Estimate interface {
	estimate()
}

// Scalar is the raw output of a regression predictor, compared against the
// configured Targets.
type Scalar float64

// OneHot holds one indicator per outcome. Exactly one should be near 1.
type OneHot struct {
	Win  float64
	Draw float64
	Loss float64
}

// Label is a classifier verdict.
type Label string

const (
	LabelWin     Label = "win"
	LabelDraw    Label = "draw"
	LabelLoss    Label = "loss"
	LabelUnknown Label = "unknown" // no training path matched the board
)

func (Scalar) estimate() {}
func (OneHot) estimate() {}
func (Label) estimate()  {}
