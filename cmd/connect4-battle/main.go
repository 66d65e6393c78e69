package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/montplusa/connect-four/pkg/ai"
	"github.com/montplusa/connect-four/pkg/config"
	"github.com/montplusa/connect-four/pkg/game"
)

// findMaxSequenceNumber returns the highest NNNNN among dir/<prefix>_NNNNN.json,
// 0 when there is none or dir does not exist yet.
func findMaxSequenceNumber(dir, prefix string) (int, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, os.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	maxSeq := 0
	for _, e := range entries {
		digits, ok := strings.CutPrefix(e.Name(), prefix+"_")
		if !ok || e.IsDir() {
			continue
		}
		if digits, ok = strings.CutSuffix(digits, ".json"); !ok || len(digits) != 5 || strings.Trim(digits, "0123456789") != "" {
			continue
		}
		if seq, err := strconv.Atoi(digits); err == nil {
			maxSeq = max(maxSeq, seq)
		}
	}
	return maxSeq, nil
}

// 対戦タスク
type battleTask struct {
	gameIndex int
	seqNum    int
	seed      int64
}

// gameRecord is what gets written per game.
type gameRecord struct {
	Seed   int64       `json:"seed"`
	Kind   string      `json:"kind"`
	State  string      `json:"state"`
	Abort  string      `json:"abort,omitempty"`
	Moves  []game.Move `json:"moves"`
	Render string      `json:"render"`
}

// 対戦結果
type battleResult struct {
	gameIndex int
	state     game.State
	err       error
}

// playOne pits the engine against an opponent that drops stones in random
// legal columns.
func playOne(settings *config.Settings, seed int64) (gameRecord, game.State, error) {
	s := *settings
	model := *settings.Model
	model.Seed = seed
	s.Model = &model

	g, _, err := ai.NewGame(&s)
	if err != nil {
		return gameRecord{}, game.StateAborted, err
	}
	rec := gameRecord{Seed: seed, Kind: model.Kind}
	rng := rand.New(rand.NewSource(seed ^ 0x5eed))
	for !g.State().Terminal() {
		cols := g.Board().LegalColumns()
		turn, err := g.PlayHuman(cols[rng.Intn(len(cols))])
		if err != nil {
			rec.Abort = turn.AbortReason
			break
		}
	}
	rec.State = g.State().String()
	rec.Moves = g.History()
	rec.Render = game.Render(g.Board())
	return rec, g.State(), nil
}

// ワーカー関数
func worker(id int, settings *config.Settings, tasks <-chan battleTask, results chan<- battleResult, outputDir, outputPrefix string, noOutput bool, wg *sync.WaitGroup) {
	defer wg.Done()

	for task := range tasks {
		rec, state, err := playOne(settings, task.seed)
		if err == nil && !noOutput {
			data, merr := json.Marshal(rec)
			if merr != nil {
				log.Error().Err(merr).Msg("encode game")
			} else {
				filename := filepath.Join(outputDir, fmt.Sprintf("%s_%05d.json", outputPrefix, task.seqNum))
				if werr := os.WriteFile(filename, data, 0644); werr != nil {
					log.Error().Err(werr).Str("file", filename).Msg("write game")
				}
			}
		}
		results <- battleResult{gameIndex: task.gameIndex, state: state, err: err}
		log.Debug().Int("game", task.gameIndex).Int("worker", id).Stringer("state", state).Msg("game finished")
	}
}

// runBattles plays games on numWorkers goroutines and counts final states.
func runBattles(settings *config.Settings, games, numWorkers int, baseSeed int64, startSeq int, outputDir, outputPrefix string, noOutput bool) (map[game.State]int, error) {
	if numWorkers < 1 {
		numWorkers = 1
	}
	tasks := make(chan battleTask, games)
	results := make(chan battleResult, games)

	var wg sync.WaitGroup
	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go worker(i, settings, tasks, results, outputDir, outputPrefix, noOutput, &wg)
	}

	go func() {
		for i := 0; i < games; i++ {
			tasks <- battleTask{gameIndex: i, seqNum: startSeq + i, seed: baseSeed + int64(i)}
		}
		close(tasks)
	}()

	counts := map[game.State]int{}
	var firstErr error
	for i := 0; i < games; i++ {
		r := <-results
		if r.err != nil {
			if firstErr == nil {
				firstErr = r.err
			}
			continue
		}
		counts[r.state]++
	}
	wg.Wait()
	return counts, firstErr
}

func main() {
	// コマンドライン引数の解析
	configPath := flag.String("config", config.DefaultPath, "settings file")
	kind := flag.String("model-kind", "", "evaluator kind")
	model := flag.String("model", "", "model file")
	outputDir := flag.String("output", "output", "出力ディレクトリ名")
	outputPrefix := flag.String("output-prefix", "", "出力ファイル名のプレフィックス")
	noOutput := flag.Bool("no-output", false, "出力しない")
	games := flag.Int("games", 1, "実行する試合数")
	numWorkers := flag.Int("workers", runtime.NumCPU(), "ワーカー数")
	seed := flag.Int64("seed", 0, "base seed, 0 for the clock")
	logLevel := flag.String("log-level", "info", "zerolog level")
	flag.Parse()

	if err := config.SetupLogging(os.Stderr, *logLevel, false); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if *numWorkers < 1 {
		fmt.Fprintln(os.Stderr, "-workers must be at least 1")
		os.Exit(1)
	}
	if !*noOutput && *outputPrefix == "" {
		fmt.Fprintln(os.Stderr, "-output-prefix is required unless -no-output is set")
		flag.Usage()
		os.Exit(1)
	}
	settings, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("load settings")
	}
	if *kind != "" {
		settings.Model.Kind = *kind
	}
	if *model != "" {
		settings.Model.Path = *model
	}
	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}

	if !*noOutput {
		if err := os.MkdirAll(*outputDir, 0755); err != nil {
			log.Fatal().Err(err).Msg("create output directory")
		}
	}
	maxSeq, err := findMaxSequenceNumber(*outputDir, *outputPrefix)
	if err != nil {
		log.Warn().Err(err).Msg("scan existing output")
	}

	log.Info().Int("games", *games).Int("workers", *numWorkers).Int("first", maxSeq+1).Msg("self-play")
	counts, err := runBattles(settings, *games, *numWorkers, *seed, maxSeq+1, *outputDir, *outputPrefix, *noOutput)
	if err != nil {
		log.Fatal().Err(err).Msg("battle failed")
	}
	fmt.Printf("AI wins: %d, opponent wins: %d, draws: %d, aborted: %d\n",
		counts[game.StateAIWon], counts[game.StateHumanWon], counts[game.StateDraw], counts[game.StateAborted])
}
