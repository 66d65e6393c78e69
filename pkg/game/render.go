package game

import (
	"strconv"
	"strings"
)

// Render draws b top row first: x for the human, o for the AI.
func Render(b *Board) string {
	var sb strings.Builder
	for r := b.Rows() - 1; r >= 0; r-- {
		sb.WriteString(" |")
		for c := 0; c < b.Width(); c++ {
			sb.WriteByte(' ')
			sb.WriteByte(symbol(b.At(c, r)))
			sb.WriteString(" |")
		}
		sb.WriteByte('\n')
	}
	sb.WriteString(" +")
	sb.WriteString(strings.Repeat("---+", b.Width()))
	sb.WriteByte('\n')
	sb.WriteString("  ")
	for c := 0; c < b.Width(); c++ {
		label := strconv.Itoa(c + 1)
		sb.WriteString(" " + label + strings.Repeat(" ", 3-len(label)))
	}
	sb.WriteByte('\n')
	return sb.String()
}

func symbol(s Stone) byte {
	switch s {
	case Human:
		return 'x'
	case AI:
		return 'o'
	}
	return ' '
}
