package discovery

import (
	"context"
	"math"
	"math/rand"
	"testing"

	"gorca/domain/anomaly"
	"gorca/internal/simkit"
)

func TestDominanceGap(t *testing.T) {
	gap, argmax := dominanceGap([]float64{1, 6, 2})
	if argmax != 1 {
		t.Fatalf("argmax %d, want 1", argmax)
	}
	if math.Abs(gap-2) > 1e-12 {
		t.Fatalf("gap %v, want 2", gap)
	}
}

func TestScoreCandidateDetectsPerturbedLastColumn(t *testing.T) {
	mu := []float64{0, 0, 0, 0, 0}
	variances := []float64{1, 2, 0.5, 1, 1.5}
	obs := simkit.SampleMVN(200, mu, simkit.DiagonalCovariance(variances), 31)

	std := make([]float64, len(variances))
	for i, v := range variances {
		std[i] = math.Sqrt(v)
	}
	sample := simkit.PlantPerturbation(mu, std, 4, 8)

	score, err := ScoreCandidate(context.Background(), obs, sample, RankOptions{}, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatal(err)
	}
	if score <= 0 {
		t.Fatalf("perturbed last column scored %v, want positive", score)
	}
}

func TestScoreCandidateIgnoresOtherDominators(t *testing.T) {
	mu := []float64{0, 0, 0, 0, 0}
	variances := []float64{1, 1, 1, 1, 1}
	obs := simkit.SampleMVN(200, mu, simkit.DiagonalCovariance(variances), 37)

	// perturbation on column 1: the last column never dominates
	sample := simkit.PlantPerturbation(mu, []float64{1, 1, 1, 1, 1}, 1, 8)

	score, err := ScoreCandidate(context.Background(), obs, sample, RankOptions{}, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatal(err)
	}
	if score != 0 {
		t.Fatalf("non-candidate dominance scored %v, want 0", score)
	}
}

func TestScoreCandidateSingleGenePanel(t *testing.T) {
	obs := simkit.SampleMVN(50, []float64{0}, simkit.DiagonalCovariance([]float64{1}), 41)
	score, err := ScoreCandidate(context.Background(), obs, []float64{3}, RankOptions{}, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatal(err)
	}
	if score != 0 {
		t.Fatalf("single-gene panel scored %v, want 0", score)
	}
}

func TestScoreCandidateHonorsCancellation(t *testing.T) {
	mu := make([]float64, 6)
	variances := []float64{1, 1, 1, 1, 1, 1}
	obs := simkit.SampleMVN(100, mu, simkit.DiagonalCovariance(variances), 43)
	sample := simkit.PlantPerturbation(mu, []float64{1, 1, 1, 1, 1, 1}, 5, 8)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := ScoreCandidate(ctx, obs, sample, RankOptions{}, rand.New(rand.NewSource(1)))
	if err == nil {
		t.Fatal("cancelled context not observed")
	}
}

func TestRescaleUnscoredKeepsTestedOnTop(t *testing.T) {
	scores := []float64{0, 4, 0, 9}
	z := []float64{1.2, 100, 0.4, 80}
	rescaleUnscored(scores, z)

	// untested genes land at or below min(non-zero)/2 = 2; the largest
	// untested z maps exactly onto that ceiling
	if scores[0] != 2 || scores[2] > 2 {
		t.Fatalf("untested scores %v not capped at 2", scores)
	}
	// relative order among untested genes preserved
	if scores[0] <= scores[2] {
		t.Fatalf("untested order flipped: %v", scores)
	}
	if scores[1] != 4 || scores[3] != 9 {
		t.Fatalf("tested scores mutated: %v", scores)
	}
}

func TestRescaleUnscoredAllZeroFallsBackToZ(t *testing.T) {
	scores := []float64{0, 0, 0}
	z := []float64{0.3, 1.1, 0.7}
	rescaleUnscored(scores, z)
	for i := range z {
		if scores[i] != z[i] {
			t.Fatalf("want raw z fallback, got %v", scores)
		}
	}
}

func TestRankOptionsDefaults(t *testing.T) {
	opts := RankOptions{}.withDefaults()
	if opts.Scan != anomaly.DefaultScanRange() {
		t.Errorf("scan default not applied: %+v", opts.Scan)
	}
	if opts.Shuffles != 1 {
		t.Errorf("shuffles default %d, want 1", opts.Shuffles)
	}
}
