package game

// Stone はマスの状態
type Stone uint8

const (
	Blank Stone = iota
	Human
	AI
)

func (s Stone) String() string {
	switch s {
	case Human:
		return "human"
	case AI:
		return "ai"
	default:
		return "blank"
	}
}

// Opponent returns the other side. Blank has no opponent.
func (s Stone) Opponent() Stone {
	switch s {
	case Human:
		return AI
	case AI:
		return Human
	}
	return Blank
}

// Board は盤面と各列の高さを保持
//
// cells is column-major: column c, row r lives at c*Height+r, row 0 at the
// bottom. heights[c] is always the number of stones in column c.
type Board struct {
	cfg     Config
	cells   []Stone
	heights []int
}

// NewBoard returns an empty board. cfg must already be valid.
func NewBoard(cfg Config) *Board {
	return &Board{
		cfg:     cfg,
		cells:   make([]Stone, cfg.Cells()),
		heights: make([]int, cfg.Width),
	}
}

func (b *Board) Config() Config { return b.cfg }
func (b *Board) Width() int     { return b.cfg.Width }
func (b *Board) Rows() int      { return b.cfg.Height }

// Height returns the number of stones in column.
func (b *Board) Height(column int) int {
	return b.heights[column]
}

// At returns the stone at (column, row); out-of-board positions read as Blank.
func (b *Board) At(column, row int) Stone {
	if !b.inside(column, row) {
		return Blank
	}
	return b.cells[column*b.cfg.Height+row]
}

func (b *Board) inside(column, row int) bool {
	return column >= 0 && column < b.cfg.Width && row >= 0 && row < b.cfg.Height
}

// IsLegal reports whether a stone can be dropped into column.
func (b *Board) IsLegal(column int) bool {
	return column >= 0 && column < b.cfg.Width && b.heights[column] < b.cfg.Height
}

// PlaceStone drops side into column and returns the row it landed on.
func (b *Board) PlaceStone(column int, side Stone) (int, error) {
	if side != Human && side != AI {
		return 0, newInvalidColumnError("", column, "only human or ai stones can be placed")
	}
	if column < 0 || column >= b.cfg.Width {
		return 0, newInvalidColumnError("", column, "out of range")
	}
	row := b.heights[column]
	if row >= b.cfg.Height {
		return 0, newInvalidColumnError("", column, "column is full")
	}
	b.cells[column*b.cfg.Height+row] = side
	b.heights[column]++
	return row, nil
}

// Snapshot はディープコピーを返す
func (b *Board) Snapshot() *Board {
	cells := make([]Stone, len(b.cells))
	copy(cells, b.cells)
	heights := make([]int, len(b.heights))
	copy(heights, b.heights)
	return &Board{cfg: b.cfg, cells: cells, heights: heights}
}

// Encode flattens the board column by column (column 0 rows 0..H-1, then
// column 1, ...) using the configured stone encoding. Predictor weights are
// trained against exactly this order.
func (b *Board) Encode() []float64 {
	out := make([]float64, len(b.cells))
	for i, s := range b.cells {
		out[i] = b.cfg.Encoding.Value(s)
	}
	return out
}

// IsFull reports whether every column has reached the top.
func (b *Board) IsFull() bool {
	for _, h := range b.heights {
		if h < b.cfg.Height {
			return false
		}
	}
	return true
}

// LegalColumns は合法手の列を昇順で返す
func (b *Board) LegalColumns() []int {
	cols := make([]int, 0, b.cfg.Width)
	for c := 0; c < b.cfg.Width; c++ {
		if b.IsLegal(c) {
			cols = append(cols, c)
		}
	}
	return cols
}

// StoneCount counts the stones of side on the board.
func (b *Board) StoneCount(side Stone) int {
	n := 0
	for _, s := range b.cells {
		if s == side {
			n++
		}
	}
	return n
}
