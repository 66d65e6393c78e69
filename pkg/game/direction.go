package game

// Direction は連の方向
//
// Only one of each opposite pair is listed; scanning every origin covers the
// other half.
type Direction int

const (
	Vertical Direction = iota
	Horizontal
	DiagonalUp
	DiagonalDown
)

// Directions lists the four scan directions in scan order.
var Directions = [...]Direction{Vertical, Horizontal, DiagonalUp, DiagonalDown}

// Delta returns the column and row step of d.
func (d Direction) Delta() (dc, dr int) {
	switch d {
	case Vertical:
		return 0, 1
	case Horizontal:
		return 1, 0
	case DiagonalUp:
		return 1, 1
	default:
		return 1, -1
	}
}

func (d Direction) String() string {
	switch d {
	case Vertical:
		return "vertical"
	case Horizontal:
		return "horizontal"
	case DiagonalUp:
		return "diagonal-up"
	default:
		return "diagonal-down"
	}
}
