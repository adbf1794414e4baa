package anomaly

import (
	"gorca/domain/core"
)

// ScanRange bounds the threshold sweep: [Min, Max) walked in Step
// increments.
type ScanRange struct {
	Min  float64
	Max  float64
	Step float64
}

// DefaultScanRange returns the standard sweep bounds.
func DefaultScanRange() ScanRange {
	return ScanRange{Min: 0.1, Max: 5.0, Step: 0.2}
}

// Validate rejects empty or non-advancing ranges.
func (s ScanRange) Validate() error {
	if s.Step <= 0 {
		return core.NewValidationError("scan step", "must be positive")
	}
	if s.Max <= s.Min {
		return core.NewValidationError("scan range", "max must exceed min")
	}
	return nil
}

// SweepThresholds walks the scan range and keeps a threshold only if at
// least one score reaches it and the at-or-below count changed since the
// previously kept threshold. Every kept threshold therefore induces a
// distinct aberrant/normal partition, and the output is strictly
// increasing.
func SweepThresholds(z []float64, scan ScanRange) []float64 {
	var kept []float64
	prevCount := -1
	for i := 0; ; i++ {
		t := scan.Min + float64(i)*scan.Step
		if t >= scan.Max {
			break
		}
		reached, atOrBelow := 0, 0
		for _, v := range z {
			if v >= t {
				reached++
			}
			if v <= t {
				atOrBelow++
			}
		}
		if reached == 0 || atOrBelow == prevCount {
			continue
		}
		prevCount = atOrBelow
		kept = append(kept, t)
	}
	return kept
}
