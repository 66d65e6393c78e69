// Package dataset reads the UCI connect-4 position file used to train the
// predictors offline.
//
// Each line holds 42 cells, column a..g and row 1..6 from the bottom, as
// b (blank), x (first player, the human here) or o, followed by the
// theoretical outcome for x, who is always the next to move.
package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"

	"github.com/montplusa/connect-four/pkg/game"
)

const (
	Width  = 7
	Height = 6
)

// Record is one labelled position.
type Record struct {
	Cells   []game.Stone // column-major, like game.Board.Encode
	Outcome game.Label
}

// AttributeName returns the UCI name of a cell, e.g. "a1" for column 0 row 0.
func AttributeName(column, row int) string {
	return fmt.Sprintf("%c%d", 'a'+column, row+1)
}

// Attributes returns the UCI attribute names in encoding order.
func Attributes(width, height int) []string {
	names := make([]string, 0, width*height)
	for c := 0; c < width; c++ {
		for r := 0; r < height; r++ {
			names = append(names, AttributeName(c, r))
		}
	}
	return names
}

// Symbol returns the UCI letter of s.
func Symbol(s game.Stone) string {
	switch s {
	case game.Human:
		return "x"
	case game.AI:
		return "o"
	}
	return "b"
}

func parseSymbol(s string) (game.Stone, bool) {
	switch s {
	case "b":
		return game.Blank, true
	case "x":
		return game.Human, true
	case "o":
		return game.AI, true
	}
	return game.Blank, false
}

// Encode converts the cells with enc, matching game.Board.Encode.
func (r Record) Encode(enc game.StoneEncoding) []float64 {
	out := make([]float64, len(r.Cells))
	for i, s := range r.Cells {
		out[i] = enc.Value(s)
	}
	return out
}

// Symbols returns attribute name -> UCI letter.
func (r Record) Symbols() map[string]string {
	names := Attributes(Width, Height)
	m := make(map[string]string, len(names))
	for i, s := range r.Cells {
		m[names[i]] = Symbol(s)
	}
	return m
}

// Read parses every record from r.
func Read(r io.Reader) ([]Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = Width*Height + 1
	cr.ReuseRecord = true

	var records []Record
	for line := 1; ; line++ {
		fields, err := cr.Read()
		if err == io.EOF {
			return records, nil
		}
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", line)
		}
		rec := Record{Cells: make([]game.Stone, Width*Height)}
		for i := 0; i < Width*Height; i++ {
			s, ok := parseSymbol(strings.TrimSpace(fields[i]))
			if !ok {
				return nil, errors.Errorf("line %d: bad cell %q at %s", line, fields[i], AttributeName(i/Height, i%Height))
			}
			rec.Cells[i] = s
		}
		switch outcome := game.Label(strings.TrimSpace(fields[Width*Height])); outcome {
		case game.LabelWin, game.LabelLoss, game.LabelDraw:
			rec.Outcome = outcome
		default:
			return nil, errors.Errorf("line %d: bad outcome %q", line, fields[Width*Height])
		}
		records = append(records, rec)
	}
}

// ReadFile reads a data file from disk.
func ReadFile(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	records, err := Read(f)
	if err != nil {
		return nil, errors.WithMessagef(err, "read %s", path)
	}
	return records, nil
}

// OutcomeFor returns the label as seen from p. Dataset outcomes are for the
// next player to move, so JustMoved swaps win and loss.
func (r Record) OutcomeFor(p game.Perspective) game.Label {
	if p != game.JustMoved {
		return r.Outcome
	}
	switch r.Outcome {
	case game.LabelWin:
		return game.LabelLoss
	case game.LabelLoss:
		return game.LabelWin
	}
	return r.Outcome
}
