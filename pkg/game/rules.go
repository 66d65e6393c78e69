package game

// FindWinner は盤面を走査して勝者を返す
//
// Every occupied cell is tried as the start of a run in each direction. The
// first run of Connect identical stones decides; Blank means no winner yet.
func FindWinner(b *Board) Stone {
	connect := b.cfg.Connect
	for c := 0; c < b.cfg.Width; c++ {
		for r := 0; r < b.heights[c]; r++ {
			stone := b.At(c, r)
			if stone == Blank {
				continue
			}
			for _, d := range Directions {
				if runLength(b, c, r, d, stone, connect) == connect {
					return stone
				}
			}
		}
	}
	return Blank
}

// runLength counts cells equal to stone from (c, r) along d, capped at limit.
func runLength(b *Board, c, r int, d Direction, stone Stone, limit int) int {
	dc, dr := d.Delta()
	n := 0
	for n < limit && b.inside(c, r) && b.At(c, r) == stone {
		n++
		c += dc
		r += dr
	}
	return n
}

// Threat is a window one stone short of a connect: Owner fills (Column, Row)
// and wins.
type Threat struct {
	Owner     Stone
	Column    int
	Row       int
	Direction Direction
}

// Threats returns every actionable threat on b in scan order. A threat is
// actionable only when its empty cell is the lowest open cell of its column.
func Threats(b *Board) []Threat {
	var threats []Threat
	scanWindows(b, func(t Threat) bool {
		threats = append(threats, t)
		return true
	})
	return threats
}

// FindForcedMove は即座に打つべき列を返す
//
// An AI win ends the scan at once. Human threats are collected and the lowest
// column among them is blocked, so the answer does not depend on scan order
// when the human has several.
func FindForcedMove(b *Board) (column int, ok bool) {
	win, block := -1, -1
	scanWindows(b, func(t Threat) bool {
		if t.Owner == AI {
			win = t.Column
			return false
		}
		if block < 0 || t.Column < block {
			block = t.Column
		}
		return true
	})
	if win >= 0 {
		return win, true
	}
	if block >= 0 {
		return block, true
	}
	return -1, false
}

// scanWindows visits every window of Connect cells and reports actionable
// threats to visit until it returns false.
func scanWindows(b *Board, visit func(Threat) bool) {
	connect := b.cfg.Connect
	for c := 0; c < b.cfg.Width; c++ {
		for r := 0; r < b.cfg.Height; r++ {
			for _, d := range Directions {
				t, ok := classifyWindow(b, c, r, d, connect)
				if !ok {
					continue
				}
				if !visit(t) {
					return
				}
			}
		}
	}
}

// classifyWindow inspects the window starting at (c, r) along d. It is a
// threat when exactly one cell is Blank, the rest belong to one side, and the
// blank cell can be played right now.
func classifyWindow(b *Board, c, r int, d Direction, connect int) (Threat, bool) {
	dc, dr := d.Delta()
	endC, endR := c+dc*(connect-1), r+dr*(connect-1)
	if !b.inside(c, r) || !b.inside(endC, endR) {
		return Threat{}, false
	}
	owner := Blank
	gapC, gapR := -1, -1
	for i := 0; i < connect; i++ {
		cc, rr := c+dc*i, r+dr*i
		s := b.At(cc, rr)
		switch {
		case s == Blank:
			if gapC >= 0 {
				return Threat{}, false
			}
			gapC, gapR = cc, rr
		case owner == Blank:
			owner = s
		case s != owner:
			return Threat{}, false
		}
	}
	if gapC < 0 || owner == Blank {
		return Threat{}, false
	}
	// floating gap: cells below it are still empty
	if b.heights[gapC] != gapR {
		return Threat{}, false
	}
	return Threat{Owner: owner, Column: gapC, Row: gapR, Direction: d}, true
}
