// Package discovery turns whitened residuals into root-cause scores:
// ranking one screened candidate, scoring a full panel directly, and
// fanning candidates out across workers.
package discovery

import (
	"context"
	"math/rand"

	"gonum.org/v1/gonum/mat"

	"gorca/domain/anomaly"
	"gorca/internal/causal"
)

// RankOptions configures one candidate-ranking pass.
type RankOptions struct {
	// Thresholds overrides the sweep; when nil it is derived from the
	// sample's Z-scores over Scan.
	Thresholds []float64
	Scan       anomaly.ScanRange
	Shuffles   int
}

func (o RankOptions) withDefaults() RankOptions {
	if o.Scan == (anomaly.ScanRange{}) {
		o.Scan = anomaly.DefaultScanRange()
	}
	if o.Shuffles <= 0 {
		o.Shuffles = causal.DefaultShuffles
	}
	return o
}

// ScoreCandidate scores one screened candidate gene, which by
// construction occupies the LAST column of the reduced problem. Across
// every threshold and every causal ordering, a residual vector votes
// for the candidate only when its largest entry sits at the candidate's
// column; the vote's weight is the dominance gap
// (largest - second largest) / second largest. The best qualifying gap
// across all thresholds is the candidate's score, 0 when no ordering
// ever puts the candidate on top.
func ScoreCandidate(ctx context.Context, obs *mat.Dense, sample []float64, opts RankOptions, rng *rand.Rand) (float64, error) {
	opts = opts.withDefaults()
	_, p := obs.Dims()
	if p < 2 {
		// a single-gene panel has no peers to dominate
		return 0, nil
	}

	z, err := anomaly.Scores(obs, sample)
	if err != nil {
		return 0, err
	}
	thresholds := opts.Thresholds
	if thresholds == nil {
		thresholds = anomaly.SweepThresholds(z, opts.Scan)
	}

	best := 0.0
	for _, threshold := range thresholds {
		orderings := causal.Orderings(z, threshold, opts.Shuffles, rng)
		for _, ordering := range orderings {
			if err := ctx.Err(); err != nil {
				return 0, err
			}
			residuals, err := causal.WhitenedResiduals(obs, sample, ordering)
			if err != nil {
				return 0, err
			}
			gap, argmax := dominanceGap(residuals)
			if argmax == p-1 && gap > best {
				best = gap
			}
		}
	}
	return best, nil
}

// dominanceGap returns (largest - second largest) / second largest and
// the index of the largest entry.
func dominanceGap(residuals []float64) (gap float64, argmax int) {
	largest, second := 0.0, 0.0
	for i, v := range residuals {
		switch {
		case v > largest:
			second = largest
			largest, argmax = v, i
		case v > second:
			second = v
		}
	}
	return (largest - second) / second, argmax
}
