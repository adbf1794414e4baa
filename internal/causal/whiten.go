package causal

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"gorca/domain/core"
)

// WhitenedResiduals computes per-gene innovation magnitudes for one
// interventional sample under an assumed causal ordering.
//
// The observational columns and the sample are reordered by the
// ordering, the covariance of the reordered columns is estimated
// (sample covariance when n > p, shrunk otherwise) and floored to
// positive definiteness, and the lower Cholesky factor L of the
// estimate is used to solve L*x = sample - mean by forward
// substitution. Under the assumed order, x[i] is the innovation of the
// i-th gene conditioned on everything placed before it. The result is
// mapped back to original gene order and returned as magnitudes, so the
// output is non-negative, has length p, and aligns with the input panel
// no matter which ordering was assumed.
func WhitenedResiduals(obs *mat.Dense, sample []float64, ordering []int) ([]float64, error) {
	n, p := obs.Dims()
	if len(sample) != p {
		return nil, core.NewDimensionError("interventional sample", len(sample), p)
	}
	if err := ValidateOrdering(ordering, p); err != nil {
		return nil, err
	}

	permObs := mat.NewDense(n, p, nil)
	permSample := make([]float64, p)
	var col []float64
	for k, j := range ordering {
		col = mat.Col(col, j, obs)
		permObs.SetCol(k, col)
		permSample[k] = sample[j]
	}

	mu := ColumnMeans(permObs)
	var sigma *mat.SymDense
	if n > p {
		sigma = SampleCovariance(permObs)
	} else {
		sigma, _ = ShrunkCovariance(permObs)
	}
	EnsurePositiveDefinite(sigma)

	var chol mat.Cholesky
	if !chol.Factorize(sigma) {
		return nil, core.ErrNotPositiveDefinite
	}
	lower := mat.NewTriDense(p, mat.Lower, nil)
	chol.LTo(lower)

	// forward substitution: lower * x = permSample - mu
	x := make([]float64, p)
	for i := 0; i < p; i++ {
		s := permSample[i] - mu[i]
		for j := 0; j < i; j++ {
			s -= lower.At(i, j) * x[j]
		}
		x[i] = s / lower.At(i, i)
	}

	// position k of the ordering holds original gene ordering[k]
	out := make([]float64, p)
	for k, j := range ordering {
		out[j] = math.Abs(x[k])
	}
	return out, nil
}
