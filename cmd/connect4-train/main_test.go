package main

import (
	"bytes"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/montplusa/connect-four/pkg/ai"
	"github.com/montplusa/connect-four/pkg/dataset"
	"github.com/montplusa/connect-four/pkg/game"
)

func TestParseLayers(t *testing.T) {
	got, err := parseLayers("40, 20,")
	if err != nil || !reflect.DeepEqual(got, []int{40, 20}) {
		t.Errorf("parseLayers = %v, %v", got, err)
	}
	for _, bad := range []string{"x", "0", "-3"} {
		if _, err := parseLayers(bad); err == nil {
			t.Errorf("parseLayers(%q) accepted", bad)
		}
	}
}

func records() []dataset.Record {
	var out []dataset.Record
	for i := 0; i < 6; i++ {
		win := make([]game.Stone, 42)
		win[0] = game.Human
		loss := make([]game.Stone, 42)
		loss[41] = game.AI
		out = append(out,
			dataset.Record{Cells: win, Outcome: game.LabelWin},
			dataset.Record{Cells: loss, Outcome: game.LabelLoss})
	}
	return out
}

// Every kind must produce a file the evaluator factory accepts.
func TestTrainWritesLoadableModels(t *testing.T) {
	dir := t.TempDir()
	for _, kind := range []string{"mlp", "rbf", "dtree"} {
		opts := options{
			kind:       kind,
			out:        filepath.Join(dir, kind+".json"),
			name:       kind,
			hidden:     []int{4},
			iterations: 5,
			lr:         0.05,
			nodes:      3,
			seed:       1,
		}
		if err := train(records(), opts); err != nil {
			t.Fatalf("%s: %v", kind, err)
		}
		if _, err := ai.New(kind, ai.Options{Path: opts.out}, game.DefaultConfig()); err != nil {
			t.Errorf("%s: %v", kind, err)
		}
	}
	if err := train(records(), options{kind: "svm"}); err == nil {
		t.Error("unknown kind accepted")
	}
}

func TestTrainMLPSeedReproducible(t *testing.T) {
	dir := t.TempDir()
	var files [2][]byte
	for i := range files {
		opts := options{
			kind:       "mlp",
			out:        filepath.Join(dir, "mlp.json"),
			name:       "mlp",
			hidden:     []int{3},
			iterations: 3,
			lr:         0.05,
			seed:       7,
		}
		if err := train(records(), opts); err != nil {
			t.Fatal(err)
		}
		data, err := os.ReadFile(opts.out)
		if err != nil {
			t.Fatal(err)
		}
		files[i] = data
	}
	if !bytes.Equal(files[0], files[1]) {
		t.Error("same seed produced different networks")
	}
}
