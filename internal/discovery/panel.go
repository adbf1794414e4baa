package discovery

import (
	"context"
	"math/rand"

	"gonum.org/v1/gonum/mat"

	"gorca/domain/anomaly"
	"gorca/internal/causal"
)

// ScorePanel scores every gene of the full panel directly, without
// screening: per ordering, the gene holding the largest residual keeps
// the best dominance gap it ever achieves, across all thresholds.
// Genes that never dominate fall back to their rescaled Z-scores so
// every dominated gene still outranks every untested one. Intended for
// the n > p regime where covariance estimation needs no reduction.
func ScorePanel(ctx context.Context, obs *mat.Dense, sample []float64, opts RankOptions, rng *rand.Rand) ([]float64, error) {
	opts = opts.withDefaults()
	_, p := obs.Dims()

	z, err := anomaly.Scores(obs, sample)
	if err != nil {
		return nil, err
	}
	thresholds := opts.Thresholds
	if thresholds == nil {
		thresholds = anomaly.SweepThresholds(z, opts.Scan)
	}

	scores := make([]float64, p)
	for _, threshold := range thresholds {
		orderings := causal.Orderings(z, threshold, opts.Shuffles, rng)
		for _, ordering := range orderings {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			residuals, err := causal.WhitenedResiduals(obs, sample, ordering)
			if err != nil {
				return nil, err
			}
			gap, argmax := dominanceGap(residuals)
			if gap > scores[argmax] {
				scores[argmax] = gap
			}
		}
	}

	rescaleUnscored(scores, z)
	return scores, nil
}

// rescaleUnscored maps zero-score genes into the band below the weakest
// non-zero score: each untested z is scaled by (min nonzero / 2) / max
// untested z, preserving relative order while keeping every scored gene
// on top. When nothing scored, the raw Z-scores stand in wholesale.
// The original estimator's rescaling is kept literally, including its
// fragility when the minimum non-zero score is tiny.
func rescaleUnscored(scores, z []float64) {
	minNonZero, maxUntestedZ := 0.0, 0.0
	anyScored, anyUnscored := false, false
	for i, s := range scores {
		if s != 0 {
			if !anyScored || s < minNonZero {
				minNonZero = s
			}
			anyScored = true
			continue
		}
		anyUnscored = true
		if z[i] > maxUntestedZ {
			maxUntestedZ = z[i]
		}
	}
	if !anyUnscored {
		return
	}
	if !anyScored {
		copy(scores, z)
		return
	}
	ceiling := minNonZero / 2
	for i, s := range scores {
		if s == 0 {
			scores[i] = z[i] / (maxUntestedZ / ceiling)
		}
	}
}
