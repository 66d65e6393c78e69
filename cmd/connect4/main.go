package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/montplusa/connect-four/pkg/ai"
	"github.com/montplusa/connect-four/pkg/config"
	"github.com/montplusa/connect-four/pkg/game"
)

func main() {
	// コマンドライン引数の解析
	configPath := flag.String("config", config.DefaultPath, "設定ファイル")
	kind := flag.String("model-kind", "", "evaluator kind: "+strings.Join(ai.Kinds(), ", "))
	model := flag.String("model", "", "model file")
	seed := flag.Int64("seed", 0, "random seed, 0 for the clock")
	verbose := flag.Bool("verbose", false, "print per-column diagnostics")
	logLevel := flag.String("log-level", "info", "zerolog level")
	flag.Parse()

	if err := config.SetupLogging(os.Stderr, *logLevel, *verbose); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
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
	if *seed != 0 {
		settings.Model.Seed = *seed
	}

	g, _, err := ai.NewGame(settings)
	if err != nil {
		log.Fatal().Err(err).Msg("start game")
	}
	log.Info().Str("kind", settings.Model.Kind).Str("model", settings.Model.Path).Msg("game started")

	if err := play(g, os.Stdin, os.Stdout, *verbose); err != nil {
		log.Error().Err(err).Msg("game aborted")
		os.Exit(1)
	}
}

// play runs the prompt loop until the game ends, the input ends or the
// player types exit.
func play(g *game.Game, in io.Reader, out io.Writer, verbose bool) error {
	sc := bufio.NewScanner(in)
	fmt.Fprint(out, game.Render(g.Board()))
	for !g.State().Terminal() {
		fmt.Fprint(out, "your move> ")
		if !sc.Scan() {
			fmt.Fprintln(out)
			return sc.Err()
		}
		line := strings.TrimSpace(sc.Text())
		if line == "exit" || line == "quit" {
			return nil
		}
		col, err := game.ParseColumn(line, g.Board())
		if err != nil {
			fmt.Fprintf(out, "%v, try again\n", err)
			continue
		}
		turn, err := g.PlayHuman(col)
		if turn.Decision != nil {
			if turn.Decision.Forced {
				fmt.Fprintf(out, "forced move in column %d\n", turn.Decision.Column+1)
			} else if verbose {
				printCandidates(out, turn.Decision)
			}
		}
		if err != nil {
			var ice *game.InvalidColumnError
			if errors.As(err, &ice) {
				fmt.Fprintf(out, "%v, try again\n", err)
				continue
			}
			fmt.Fprintf(out, "game aborted: %s\n", turn.AbortReason)
			return err
		}
		if turn.AI != nil {
			fmt.Fprintf(out, "AI plays column %d\n", turn.AI.Column+1)
		}
		fmt.Fprint(out, game.Render(g.Board()))
	}
	switch g.State() {
	case game.StateHumanWon:
		fmt.Fprintln(out, "You win!")
	case game.StateAIWon:
		fmt.Fprintln(out, "AI wins.")
	case game.StateDraw:
		fmt.Fprintln(out, "Draw.")
	}
	return nil
}

func printCandidates(out io.Writer, d *game.Decision) {
	fmt.Fprintln(out, "column  estimate              bucket          closeness")
	for _, c := range d.Candidates {
		mark := " "
		if c.Column == d.Column {
			mark = "*"
		}
		fmt.Fprintf(out, "%s%-6d  %-20v  %-14s  %.4f\n", mark, c.Column+1, c.Estimate, c.Bucket, c.Closeness)
	}
}
