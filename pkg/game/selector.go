package game

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// Bucket は予測結果の分類 (人間側から見た結果)
type Bucket int

// Buckets in decreasing order of preference.
const (
	BucketOpponentLoses Bucket = iota
	BucketDraw
	BucketOpponentWins
	numBuckets
)

func (k Bucket) String() string {
	switch k {
	case BucketOpponentLoses:
		return "opponent-loses"
	case BucketDraw:
		return "draw"
	case BucketOpponentWins:
		return "opponent-wins"
	}
	return fmt.Sprintf("bucket(%d)", int(k))
}

// Targets are the raw regression values a predictor was trained with, named
// from the predictor's own Perspective.
type Targets struct {
	Win  float64 `json:"win"`
	Draw float64 `json:"draw"`
	Loss float64 `json:"loss"`
}

// Policy は手選択の設定
type Policy struct {
	Targets Targets `json:"targets"`
	// AvoidMirrorOpening skips the human's column on the AI's first move.
	// Regression predictors tend to copy the opening and lose.
	AvoidMirrorOpening bool `json:"avoid_mirror_opening"`
}

// DefaultPolicy uses the usual regression targets:
// win=1, loss=2, draw=3, seen from the next player to move.
func DefaultPolicy() Policy {
	return Policy{
		Targets:            Targets{Win: 1, Draw: 3, Loss: 2},
		AvoidMirrorOpening: true,
	}
}

// CandidateMove is one evaluated column.
type CandidateMove struct {
	Column    int
	Encoded   []float64
	Estimate  Estimate
	Bucket    Bucket
	Closeness float64
	Unknown   bool
}

// Decision は AI の選択結果
type Decision struct {
	Column     int
	Forced     bool
	Bucket     Bucket
	Candidates []CandidateMove
}

// Selector chooses the AI column. It is not safe for concurrent use because
// it owns its random source.
type Selector struct {
	policy Policy
	rng    *rand.Rand
}

// NewSelector returns a selector. A nil rng is replaced by a time-seeded one;
// tests pass a fixed source to make tie-breaks reproducible.
func NewSelector(policy Policy, rng *rand.Rand) *Selector {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Selector{policy: policy, rng: rng}
}

func (s *Selector) Policy() Policy { return s.policy }

// ChooseColumn picks the AI's next column on b.
//
// A forced move from FindForcedMove wins without consulting ev. Otherwise every
// legal column is tried on a snapshot in shuffled order and the best candidate
// of the most favourable non-empty bucket is played. opening is true before the
// AI's first stone; humanLast is the human's most recent column.
func (s *Selector) ChooseColumn(b *Board, ev Evaluator, opening bool, humanLast int) (Decision, error) {
	if col, ok := FindForcedMove(b); ok {
		log.Debug().Int("column", col).Msg("forced move")
		return Decision{Column: col, Forced: true}, nil
	}

	cols := b.LegalColumns()
	s.rng.Shuffle(len(cols), func(i, j int) { cols[i], cols[j] = cols[j], cols[i] })
	skipMirror := opening && s.policy.AvoidMirrorOpening && len(cols) > 1

	perspective := ev.Perspective()
	var best [numBuckets]*CandidateMove
	var candidates []CandidateMove
	for _, col := range cols {
		if skipMirror && col == humanLast {
			log.Debug().Int("column", col).Msg("skipping mirrored opening")
			continue
		}
		sim := b.Snapshot()
		if _, err := sim.PlaceStone(col, AI); err != nil {
			return Decision{}, err
		}
		encoded := sim.Encode()
		est, err := ev.Evaluate(encoded)
		if err != nil {
			return Decision{}, errors.Wrapf(ErrEvaluatorUnavailable, "column %d: %v", col+1, err)
		}
		cand, err := s.classify(est, perspective)
		if err != nil {
			return Decision{}, errors.Wrapf(ErrEvaluatorUnavailable, "column %d: %v", col+1, err)
		}
		cand.Column = col
		cand.Encoded = encoded
		candidates = append(candidates, cand)
		log.Debug().
			Int("column", col).
			Str("bucket", cand.Bucket.String()).
			Float64("closeness", cand.Closeness).
			Bool("unknown", cand.Unknown).
			Msg("candidate")

		cur := best[cand.Bucket]
		if cur == nil || cand.Closeness < cur.Closeness {
			c := cand
			best[cand.Bucket] = &c
		}
	}

	for k := Bucket(0); k < numBuckets; k++ {
		if best[k] != nil {
			return Decision{Column: best[k].Column, Bucket: k, Candidates: candidates}, nil
		}
	}
	return Decision{Candidates: candidates}, ErrNoLegalMove
}

// bucketOf maps an outcome seen from perspective p onto the human-relative
// bucket set.
func bucketOf(outcome Label, p Perspective) Bucket {
	switch outcome {
	case LabelDraw:
		return BucketDraw
	case LabelWin:
		if p == JustMoved {
			return BucketOpponentLoses
		}
		return BucketOpponentWins
	default:
		if p == JustMoved {
			return BucketOpponentWins
		}
		return BucketOpponentLoses
	}
}

// classify normalizes est into a bucket and a closeness (lower is better).
func (s *Selector) classify(est Estimate, p Perspective) (CandidateMove, error) {
	switch e := est.(type) {
	case Scalar:
		v := float64(e)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return CandidateMove{}, fmt.Errorf("non-finite output %v", v)
		}
		t := s.policy.Targets
		var dist [numBuckets]float64
		dist[bucketOf(LabelWin, p)] = math.Abs(t.Win - v)
		dist[bucketOf(LabelDraw, p)] = math.Abs(t.Draw - v)
		dist[bucketOf(LabelLoss, p)] = math.Abs(t.Loss - v)
		k := nearest(dist)
		return CandidateMove{Estimate: e, Bucket: k, Closeness: dist[k]}, nil

	case OneHot:
		var ind [numBuckets]float64
		ind[bucketOf(LabelWin, p)] = e.Win
		ind[bucketOf(LabelDraw, p)] = e.Draw
		ind[bucketOf(LabelLoss, p)] = e.Loss
		var dist [numBuckets]float64
		fired := false
		for k, v := range ind {
			if math.IsNaN(v) || v < 0 || v > 1 {
				return CandidateMove{}, fmt.Errorf("indicator %v outside [0, 1]", v)
			}
			fired = fired || v >= 0.5
			dist[k] = math.Abs(1 - v)
		}
		if !fired {
			return CandidateMove{}, fmt.Errorf("no indicator set in %+v", e)
		}
		k := nearest(dist)
		return CandidateMove{Estimate: e, Bucket: k, Closeness: dist[k]}, nil

	case Label:
		switch e {
		case LabelWin, LabelDraw, LabelLoss:
			return CandidateMove{Estimate: e, Bucket: bucketOf(e, p)}, nil
		case LabelUnknown:
			// better than a known loss, worse than any known draw
			return CandidateMove{Estimate: e, Bucket: BucketDraw, Closeness: math.Inf(1), Unknown: true}, nil
		}
		return CandidateMove{}, fmt.Errorf("unrecognised label %q", string(e))
	}
	return CandidateMove{}, fmt.Errorf("unsupported estimate %T", est)
}

// nearest returns the bucket with the smallest distance, preferring the more
// favourable bucket on ties.
func nearest(dist [numBuckets]float64) Bucket {
	k := Bucket(0)
	for i := Bucket(1); i < numBuckets; i++ {
		if dist[i] < dist[k] {
			k = i
		}
	}
	return k
}
