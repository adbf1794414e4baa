package lasso

import (
	"math"
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/mat"
)

// sparseProblem builds y = 3*x2 - 2*x5 + noise over p standard normal
// predictors.
func sparseProblem(n, p int, noise float64, seed int64) (*mat.Dense, []float64) {
	rng := rand.New(rand.NewSource(seed))
	x := mat.NewDense(n, p, nil)
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		for j := 0; j < p; j++ {
			x.Set(i, j, rng.NormFloat64())
		}
		y[i] = 3*x.At(i, 2) - 2*x.At(i, 5) + noise*rng.NormFloat64()
	}
	return x, y
}

func support(beta []float64) []int {
	var idx []int
	for j, b := range beta {
		if b != 0 {
			idx = append(idx, j)
		}
	}
	return idx
}

func TestFitRecoversPlantedSupport(t *testing.T) {
	x, y := sparseProblem(120, 10, 0.05, 7)

	beta := Fit(x, y, 0.1)
	if beta[2] < 2 || beta[5] > -1 {
		t.Fatalf("planted coefficients not recovered: beta[2]=%v beta[5]=%v", beta[2], beta[5])
	}
	for j, b := range beta {
		if j == 2 || j == 5 {
			continue
		}
		if math.Abs(b) > 0.2 {
			t.Errorf("noise coefficient %d too large: %v", j, b)
		}
	}
}

func TestFitAboveAlphaMaxIsZero(t *testing.T) {
	x, y := sparseProblem(60, 8, 0.1, 3)
	d := newDesign(x, y)
	beta := Fit(x, y, d.alphaMax()*1.01)
	if got := support(beta); len(got) != 0 {
		t.Fatalf("expected empty support above alphaMax, got %v", got)
	}
}

func TestPathMonotoneGrid(t *testing.T) {
	x, y := sparseProblem(80, 12, 0.1, 11)
	path := Path(x, y, 50)

	if len(path.Alphas) != 50 || len(path.Coefs) != 50 {
		t.Fatalf("path length: got %d alphas, %d coefs", len(path.Alphas), len(path.Coefs))
	}
	for k := 1; k < len(path.Alphas); k++ {
		if path.Alphas[k] >= path.Alphas[k-1] {
			t.Fatalf("alphas not strictly decreasing at %d: %v >= %v", k, path.Alphas[k], path.Alphas[k-1])
		}
	}

	// the loosest endpoint carries at least the planted support
	last := path.Coefs[len(path.Coefs)-1]
	if last[2] == 0 || last[5] == 0 {
		t.Errorf("path endpoint misses planted support: %v", support(last))
	}
	counts := path.NonZeroCounts()
	if counts[0] != 0 {
		t.Errorf("tightest path point should have empty support, got %d", counts[0])
	}
}

func TestFitCVSelectsPlantedSupport(t *testing.T) {
	x, y := sparseProblem(150, 10, 0.05, 19)

	beta, alpha := FitCV(x, y, 5, 60)
	if alpha <= 0 {
		t.Fatalf("non-positive selected alpha: %v", alpha)
	}
	got := support(beta)
	hits := 0
	for _, j := range got {
		if j == 2 || j == 5 {
			hits++
		}
	}
	if hits != 2 {
		t.Fatalf("CV support %v misses planted predictors", got)
	}
}

func TestFitCVDeterministic(t *testing.T) {
	x, y := sparseProblem(90, 8, 0.1, 23)
	a, alphaA := FitCV(x, y, 5, 40)
	b, alphaB := FitCV(x, y, 5, 40)
	if alphaA != alphaB {
		t.Fatalf("alpha differs across runs: %v vs %v", alphaA, alphaB)
	}
	for j := range a {
		if a[j] != b[j] {
			t.Fatalf("coefficient %d differs across runs: %v vs %v", j, a[j], b[j])
		}
	}
}
