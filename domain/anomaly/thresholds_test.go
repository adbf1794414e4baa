package anomaly

import (
	"math"
	"math/rand"
	"testing"
)

func TestScanRangeValidate(t *testing.T) {
	tests := []struct {
		name    string
		scan    ScanRange
		wantErr bool
	}{
		{"default", DefaultScanRange(), false},
		{"zero step", ScanRange{Min: 0.1, Max: 5, Step: 0}, true},
		{"negative step", ScanRange{Min: 0.1, Max: 5, Step: -0.2}, true},
		{"inverted range", ScanRange{Min: 5, Max: 0.1, Step: 0.2}, true},
	}
	for _, test := range tests {
		err := test.scan.Validate()
		if test.wantErr && err == nil {
			t.Errorf("%s: expected error, got none", test.name)
		}
		if !test.wantErr && err != nil {
			t.Errorf("%s: unexpected error %v", test.name, err)
		}
	}
}

func TestSweepThresholdsKnownCase(t *testing.T) {
	// z at-or-below counts change only at 0.1 and 1.1; beyond 3.0 nothing
	// reaches the threshold.
	z := []float64{0.05, 1.0, 3.0}
	got := SweepThresholds(z, DefaultScanRange())

	want := []float64{0.1, 1.1}
	if len(got) != len(want) {
		t.Fatalf("SweepThresholds = %v, want %v", got, want)
	}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-9 {
			t.Errorf("Threshold %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestSweepThresholdsEmptyWhenNothingReaches(t *testing.T) {
	z := []float64{0.01, 0.02}
	if got := SweepThresholds(z, DefaultScanRange()); len(got) != 0 {
		t.Errorf("Expected no thresholds, got %v", got)
	}
}

func atOrBelowCount(z []float64, t float64) int {
	count := 0
	for _, v := range z {
		if v <= t {
			count++
		}
	}
	return count
}

// Every kept threshold must move the partition boundary and the sequence
// must be strictly increasing.
func TestSweepThresholdsNonRedundant(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for trial := 0; trial < 20; trial++ {
		z := make([]float64, 30)
		for i := range z {
			z[i] = rng.Float64() * 6
		}
		kept := SweepThresholds(z, DefaultScanRange())

		for i := 1; i < len(kept); i++ {
			if kept[i] <= kept[i-1] {
				t.Fatalf("trial %d: thresholds not strictly increasing: %v", trial, kept)
			}
			if atOrBelowCount(z, kept[i]) == atOrBelowCount(z, kept[i-1]) {
				t.Fatalf("trial %d: redundant partition at %v vs %v", trial, kept[i], kept[i-1])
			}
		}
		for _, kt := range kept {
			reached := 0
			for _, v := range z {
				if v >= kt {
					reached++
				}
			}
			if reached == 0 {
				t.Fatalf("trial %d: kept threshold %v that nothing reaches", trial, kt)
			}
		}
	}
}
