package causal

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// eigenFloor is the smallest eigenvalue tolerated before the diagonal is
// lifted to restore positive definiteness.
const eigenFloor = 1e-6

// ColumnMeans computes the per-column mean of x.
func ColumnMeans(x *mat.Dense) []float64 {
	_, p := x.Dims()
	mu := make([]float64, p)
	var col []float64
	for j := 0; j < p; j++ {
		col = mat.Col(col, j, x)
		mu[j] = stat.Mean(col, nil)
	}
	return mu
}

// SampleCovariance estimates the covariance of x's columns with the
// unbiased n-1 divisor.
func SampleCovariance(x *mat.Dense) *mat.SymDense {
	_, p := x.Dims()
	cov := mat.NewSymDense(p, nil)
	stat.CovarianceMatrix(cov, x, nil)
	return cov
}

// ShrunkCovariance estimates covariance in the n <= p regime by
// shrinking off-diagonal sample covariances toward zero (a diagonal
// target with unequal variances). The intensity follows the
// Schafer-Strimmer rule: the ratio of the summed sampling variances of
// the off-diagonal entries to their summed squares, clipped to [0,1].
// Diagonal entries keep the sample variances exactly. Returns the
// estimate and the intensity used.
func ShrunkCovariance(x *mat.Dense) (*mat.SymDense, float64) {
	n, p := x.Dims()
	sample := SampleCovariance(x)
	if n < 3 {
		// too few samples to estimate entry variances; shrink fully
		return shrinkOffDiagonal(sample, 1), 1
	}

	centered := make([][]float64, p)
	for j := 0; j < p; j++ {
		col := mat.Col(nil, j, x)
		floats.AddConst(-stat.Mean(col, nil), col)
		centered[j] = col
	}

	// Var(s_ij) estimated from the centered cross products
	// w_k = c_i[k] * c_j[k]: n/(n-1)^3 * sum_k (w_k - mean(w))^2.
	w := make([]float64, n)
	varScale := float64(n) / math.Pow(float64(n-1), 3)
	var num, den float64
	for i := 0; i < p; i++ {
		for j := i + 1; j < p; j++ {
			for k := 0; k < n; k++ {
				w[k] = centered[i][k] * centered[j][k]
			}
			wBar := stat.Mean(w, nil)
			var sumSq float64
			for _, v := range w {
				d := v - wBar
				sumSq += d * d
			}
			num += varScale * sumSq
			s := sample.At(i, j)
			den += s * s
		}
	}

	intensity := 1.0
	if den > 0 {
		intensity = num / den
	}
	if intensity < 0 {
		intensity = 0
	}
	if intensity > 1 {
		intensity = 1
	}
	return shrinkOffDiagonal(sample, intensity), intensity
}

func shrinkOffDiagonal(sample *mat.SymDense, intensity float64) *mat.SymDense {
	p := sample.SymmetricDim()
	out := mat.NewSymDense(p, nil)
	for i := 0; i < p; i++ {
		out.SetSym(i, i, sample.At(i, i))
		for j := i + 1; j < p; j++ {
			out.SetSym(i, j, (1-intensity)*sample.At(i, j))
		}
	}
	return out
}

// EnsurePositiveDefinite lifts sigma's diagonal by |min eigenvalue| +
// eigenFloor when the smallest eigenvalue falls below eigenFloor.
// Off-diagonal entries are never touched. Reports whether a lift was
// applied.
func EnsurePositiveDefinite(sigma *mat.SymDense) bool {
	p := sigma.SymmetricDim()
	shift := 0.0

	var es mat.EigenSym
	if es.Factorize(sigma, false) {
		minEig := floats.Min(es.Values(nil))
		if minEig >= eigenFloor {
			return false
		}
		shift = math.Abs(minEig) + eigenFloor
	} else {
		// eigendecomposition failed to converge; a bare floor still
		// moves the spectrum strictly positive for near-PSD inputs
		shift = eigenFloor
	}

	for i := 0; i < p; i++ {
		sigma.SetSym(i, i, sigma.At(i, i)+shift)
	}
	return true
}
