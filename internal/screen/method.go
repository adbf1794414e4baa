// Package screen shrinks a gene panel to a tractable subset before
// residual computation. The candidate gene is regressed on every other
// gene with the Lasso; the genes carrying non-zero coefficients become
// the reduced panel, with the candidate appended last.
package screen

import (
	"gorca/domain/core"
)

// Method selects the point on the regularization path whose support
// becomes the reduced panel.
type Method string

const (
	// MethodCV picks the cross-validated alpha; falls back to
	// MethodNHalf when the selected support is too small to estimate a
	// covariance from.
	MethodCV Method = "cv"

	// MethodLargestSupport takes the loosest path endpoint, keeping
	// every predictor the path ever admits.
	MethodLargestSupport Method = "largest_support"

	// MethodNHalf takes the path point whose support size is closest to
	// n/2, balancing sparsity against covariance-estimation stability.
	MethodNHalf Method = "nhalf"
)

// ParseMethod validates a method string.
func ParseMethod(s string) (Method, error) {
	switch Method(s) {
	case MethodCV, MethodLargestSupport, MethodNHalf:
		return Method(s), nil
	default:
		return "", core.NewMethodError(s)
	}
}

// String returns the wire form of the method.
func (m Method) String() string {
	return string(m)
}
