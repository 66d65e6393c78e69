package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/montplusa/connect-four/pkg/ai/dtree"
	"github.com/montplusa/connect-four/pkg/ai/mlp"
	"github.com/montplusa/connect-four/pkg/ai/rbf"
	"github.com/montplusa/connect-four/pkg/config"
	"github.com/montplusa/connect-four/pkg/dataset"
	"github.com/montplusa/connect-four/pkg/game"
)

type options struct {
	kind        string
	out         string
	name        string
	hidden      []int
	categorical bool
	perspective game.Perspective
	iterations  int
	lr          float64
	momentum    float64
	nodes       int
	kmeans      bool
	normalize   bool
	seed        int64
}

func main() {
	// Parse command line flags
	data := flag.String("data", "connect-4.data", "UCI connect-4 data file")
	kind := flag.String("kind", "mlp", "model kind: mlp, rbf or dtree")
	out := flag.String("out", "", "output model file (default <kind>.json)")
	name := flag.String("name", "", "model name (default kind)")
	hidden := flag.String("hidden", "40", "mlp hidden layer sizes, comma separated")
	categorical := flag.Bool("categorical", false, "mlp: three softmax outputs instead of one regression output")
	perspective := flag.String("perspective", "next-to-move", "outcome perspective: next-to-move or just-moved")
	iterations := flag.Int("iterations", 100, "training passes")
	lr := flag.Float64("lr", 0.1, "mlp learning rate / rbf eta")
	momentum := flag.Float64("momentum", 0.9, "mlp momentum")
	nodes := flag.Int("nodes", 20, "rbf centres")
	kmeans := flag.Bool("kmeans", true, "rbf: place centres with k-means")
	normalize := flag.Bool("normalize", false, "rbf: normalise hidden activations")
	limit := flag.Int("limit", 0, "use only the first N records, 0 for all")
	seed := flag.Int64("seed", 0, "random seed for weights, shuffles and centres, 0 for the clock")
	logLevel := flag.String("log-level", "info", "zerolog level")
	flag.Parse()

	if err := config.SetupLogging(os.Stderr, *logLevel, false); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	opts := options{
		kind:        *kind,
		out:         *out,
		name:        *name,
		categorical: *categorical,
		iterations:  *iterations,
		lr:          *lr,
		momentum:    *momentum,
		nodes:       *nodes,
		kmeans:      *kmeans,
		normalize:   *normalize,
		seed:        *seed,
	}
	if opts.out == "" {
		opts.out = opts.kind + ".json"
	}
	if opts.name == "" {
		opts.name = opts.kind
	}
	if opts.seed == 0 {
		opts.seed = time.Now().UnixNano()
	}
	var err error
	if opts.hidden, err = parseLayers(*hidden); err != nil {
		log.Fatal().Err(err).Msg("bad -hidden")
	}
	if err := opts.perspective.UnmarshalText([]byte(*perspective)); err != nil {
		log.Fatal().Err(err).Msg("bad -perspective")
	}

	records, err := dataset.ReadFile(*data)
	if err != nil {
		log.Fatal().Err(err).Msg("read data")
	}
	if *limit > 0 && *limit < len(records) {
		records = records[:*limit]
	}
	log.Info().Int("records", len(records)).Str("kind", opts.kind).Msg("starting training")

	if err := train(records, opts); err != nil {
		log.Fatal().Err(err).Msg("training failed")
	}
	log.Info().Str("out", opts.out).Msg("training complete")
}

func parseLayers(s string) ([]int, error) {
	var layers []int
	for _, f := range strings.Split(s, ",") {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		n, err := strconv.Atoi(f)
		if err != nil || n <= 0 {
			return nil, errors.Errorf("layer size %q", f)
		}
		layers = append(layers, n)
	}
	return layers, nil
}

// train fits a model of opts.kind and writes it to opts.out.
func train(records []dataset.Record, opts options) error {
	enc := game.DefaultConfig().Encoding
	switch opts.kind {
	case "mlp":
		// go-deep draws initial weights and shuffles from the global source
		rand.Seed(opts.seed)
		cfg := mlp.DefaultNetworkConfig()
		cfg.Name = opts.name
		cfg.HiddenLayers = opts.hidden
		cfg.Perspective = opts.perspective
		if opts.categorical {
			cfg.Output = mlp.Categorical
		}
		m, err := mlp.New(cfg)
		if err != nil {
			return err
		}
		tc := mlp.DefaultTrainingConfig()
		tc.Iterations = opts.iterations
		tc.LearningRate = opts.lr
		tc.Momentum = opts.momentum
		if err := m.Train(m.Examples(records), tc); err != nil {
			return err
		}
		return m.Save(opts.out)

	case "rbf":
		tc := rbf.DefaultTrainingConfig()
		tc.Name = opts.name
		tc.Nodes = opts.nodes
		tc.UseKMeans = opts.kmeans
		tc.Normalize = opts.normalize
		tc.Iterations = opts.iterations
		tc.Eta = opts.lr
		tc.Perspective = opts.perspective
		tc.Encoding = enc
		tc.Seed = opts.seed
		r, err := rbf.Train(records, tc)
		if err != nil {
			return err
		}
		return r.Save(opts.out)

	case "dtree":
		tc := dtree.DefaultTrainingConfig()
		tc.Name = opts.name
		tc.Perspective = opts.perspective
		tc.Encoding = enc
		t, err := dtree.Train(records, tc)
		if err != nil {
			return err
		}
		return t.Save(opts.out)
	}
	return errors.Errorf("unknown model kind %q", opts.kind)
}
