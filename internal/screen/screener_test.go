package screen

import (
	"errors"
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/mat"

	"gorca/domain/core"
)

func TestParseMethod(t *testing.T) {
	for _, s := range []string{"cv", "largest_support", "nhalf"} {
		if _, err := ParseMethod(s); err != nil {
			t.Errorf("ParseMethod(%q) failed: %v", s, err)
		}
	}
	if _, err := ParseMethod("ridge"); !errors.Is(err, core.ErrInvalidMethod) {
		t.Errorf("want invalid method error, got %v", err)
	}
}

// chainObs samples a 3-gene chain g0 -> g1 -> g2 plus independent noise
// genes, so screening gene 2 should keep gene 1 (its parent) and drop
// the noise genes.
func chainObs(n, noiseGenes int, seed int64) *mat.Dense {
	rng := rand.New(rand.NewSource(seed))
	p := 3 + noiseGenes
	x := mat.NewDense(n, p, nil)
	for i := 0; i < n; i++ {
		g0 := rng.NormFloat64()
		g1 := 1.5*g0 + 0.3*rng.NormFloat64()
		g2 := 2*g1 + 0.3*rng.NormFloat64()
		x.Set(i, 0, g0)
		x.Set(i, 1, g1)
		x.Set(i, 2, g2)
		for j := 3; j < p; j++ {
			x.Set(i, j, rng.NormFloat64())
		}
	}
	return x
}

func sampleOfLength(p int) []float64 {
	s := make([]float64, p)
	for i := range s {
		s[i] = float64(i)
	}
	return s
}

func TestReduceKeepsCandidateLast(t *testing.T) {
	obs := chainObs(100, 5, 41)
	_, p := obs.Dims()
	var s Screener

	for _, method := range []Method{MethodCV, MethodLargestSupport, MethodNHalf} {
		red, err := s.Reduce(method, 2, obs, sampleOfLength(p))
		if err != nil {
			t.Fatalf("%s: %v", method, err)
		}
		if got := red.Selected[len(red.Selected)-1]; got != 2 {
			t.Errorf("%s: candidate not last, selected %v", method, red.Selected)
		}
		_, cols := red.Obs.Dims()
		if cols != len(red.Selected) || len(red.Sample) != len(red.Selected) {
			t.Errorf("%s: inconsistent reduction shapes", method)
		}
		// reduced sample entries must come from the original positions
		for k, j := range red.Selected {
			if red.Sample[k] != float64(j) {
				t.Errorf("%s: sample entry %d not drawn from column %d", method, k, j)
			}
		}
	}
}

func TestReduceCVKeepsTrueParent(t *testing.T) {
	obs := chainObs(150, 8, 43)
	_, p := obs.Dims()
	var s Screener

	red, err := s.Reduce(MethodCV, 2, obs, sampleOfLength(p))
	if err != nil {
		t.Fatal(err)
	}
	found := false
	for _, j := range red.Selected {
		if j == 1 {
			found = true
		}
	}
	if !found {
		t.Errorf("parent gene 1 not selected: %v", red.Selected)
	}
}

// An independent noise gene has no true predictors, so CV selects an
// empty support and the nhalf fallback must kick in.
func TestReduceCVFallsBackToNHalf(t *testing.T) {
	obs := chainObs(100, 5, 61)
	_, p := obs.Dims()
	var s Screener

	red, err := s.Reduce(MethodCV, 4, obs, sampleOfLength(p))
	if err != nil {
		t.Fatal(err)
	}
	if len(red.Selected) < 2 {
		t.Fatalf("fallback support too small: %v", red.Selected)
	}
	if red.Selected[len(red.Selected)-1] != 4 {
		t.Fatalf("candidate not last after fallback: %v", red.Selected)
	}
}

func TestReduceLargestSupportDeterministic(t *testing.T) {
	obs := chainObs(80, 6, 47)
	_, p := obs.Dims()
	var s Screener

	first, err := s.Reduce(MethodLargestSupport, 2, obs, sampleOfLength(p))
	if err != nil {
		t.Fatal(err)
	}
	for run := 0; run < 3; run++ {
		again, err := s.Reduce(MethodLargestSupport, 2, obs, sampleOfLength(p))
		if err != nil {
			t.Fatal(err)
		}
		if len(again.Selected) != len(first.Selected) {
			t.Fatalf("selected count changed across runs: %v vs %v", again.Selected, first.Selected)
		}
		for k := range first.Selected {
			if again.Selected[k] != first.Selected[k] {
				t.Fatalf("selection changed across runs: %v vs %v", again.Selected, first.Selected)
			}
		}
	}
}

func TestReduceValidation(t *testing.T) {
	obs := chainObs(50, 2, 53)
	_, p := obs.Dims()
	var s Screener

	if _, err := s.Reduce(MethodNHalf, 0, obs, sampleOfLength(p-1)); !errors.Is(err, core.ErrDimensionMismatch) {
		t.Errorf("short sample: want dimension mismatch, got %v", err)
	}
	if _, err := s.Reduce(MethodNHalf, p, obs, sampleOfLength(p)); !errors.Is(err, core.ErrDimensionMismatch) {
		t.Errorf("candidate out of range: want dimension mismatch, got %v", err)
	}
	if _, err := s.Reduce(Method("pca"), 0, obs, sampleOfLength(p)); !errors.Is(err, core.ErrInvalidMethod) {
		t.Errorf("unknown method: want invalid method, got %v", err)
	}
}

func TestReduceByPrecision(t *testing.T) {
	obs := chainObs(60, 2, 59)
	_, p := obs.Dims()

	// candidate 2's blanket: genes 1 and 3
	precision := mat.NewSymDense(p, nil)
	for i := 0; i < p; i++ {
		precision.SetSym(i, i, 1)
	}
	precision.SetSym(1, 2, -0.5)
	precision.SetSym(2, 3, 0.25)

	red, err := ReduceByPrecision(precision, 2, obs, sampleOfLength(p))
	if err != nil {
		t.Fatal(err)
	}
	want := []int{1, 3, 2}
	if len(red.Selected) != len(want) {
		t.Fatalf("selected %v, want %v", red.Selected, want)
	}
	for k := range want {
		if red.Selected[k] != want[k] {
			t.Fatalf("selected %v, want %v", red.Selected, want)
		}
	}

	wrong := mat.NewSymDense(p+1, nil)
	if _, err := ReduceByPrecision(wrong, 2, obs, sampleOfLength(p)); !errors.Is(err, core.ErrDimensionMismatch) {
		t.Errorf("wrong precision shape: want dimension mismatch, got %v", err)
	}
}
