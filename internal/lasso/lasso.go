// Package lasso fits L1-regularized least squares by cyclic coordinate
// descent. It exists to screen predictors: callers care about which
// coefficients are non-zero at a given regularization strength, not
// about predictive accuracy.
package lasso

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

const (
	// DefaultPathLength is the number of regularization strengths on a path.
	DefaultPathLength = 100

	// alphaRatio is the smallest path alpha relative to the largest.
	alphaRatio = 1e-3

	tolerance = 1e-4
	maxSweeps = 1000
)

// design holds a centered copy of the regression problem. Centering
// absorbs the intercept so coordinate descent only sees slopes.
type design struct {
	n, p    int
	cols    [][]float64 // centered predictor columns
	y       []float64   // centered response
	colNorm []float64   // per-column sum of squares / n
}

func newDesign(x *mat.Dense, y []float64) design {
	n, p := x.Dims()
	d := design{
		n:       n,
		p:       p,
		cols:    make([][]float64, p),
		y:       append([]float64(nil), y...),
		colNorm: make([]float64, p),
	}
	floats.AddConst(-floats.Sum(d.y)/float64(n), d.y)
	for j := 0; j < p; j++ {
		col := mat.Col(nil, j, x)
		floats.AddConst(-floats.Sum(col)/float64(n), col)
		d.cols[j] = col
		d.colNorm[j] = floats.Dot(col, col) / float64(n)
	}
	return d
}

// alphaMax is the smallest regularization at which every coefficient is
// zero: max_j |x_j . y| / n over the centered problem.
func (d design) alphaMax() float64 {
	maxCorr := 0.0
	for j := 0; j < d.p; j++ {
		if c := math.Abs(floats.Dot(d.cols[j], d.y)) / float64(d.n); c > maxCorr {
			maxCorr = c
		}
	}
	return maxCorr
}

// descend minimizes (1/2n)||y - Xb||^2 + alpha*||b||_1 starting from the
// warm-start coefficients in beta, updating beta and the residual in
// place. Sweeps stop when no coordinate moves more than tolerance times
// the largest absolute coefficient.
func (d design) descend(beta, residual []float64, alpha float64) {
	for sweep := 0; sweep < maxSweeps; sweep++ {
		maxDelta, maxBeta := 0.0, 0.0
		for j := 0; j < d.p; j++ {
			if d.colNorm[j] == 0 {
				continue
			}
			old := beta[j]
			// partial residual correlation with column j
			rho := floats.Dot(d.cols[j], residual)/float64(d.n) + d.colNorm[j]*old
			beta[j] = softThreshold(rho, alpha) / d.colNorm[j]
			if delta := beta[j] - old; delta != 0 {
				floats.AddScaled(residual, -delta, d.cols[j])
				if a := math.Abs(delta); a > maxDelta {
					maxDelta = a
				}
			}
			if a := math.Abs(beta[j]); a > maxBeta {
				maxBeta = a
			}
		}
		if maxBeta == 0 || maxDelta <= tolerance*maxBeta {
			return
		}
	}
}

func softThreshold(v, threshold float64) float64 {
	switch {
	case v > threshold:
		return v - threshold
	case v < -threshold:
		return v + threshold
	default:
		return 0
	}
}

// Fit solves one Lasso problem at a fixed alpha and returns the
// coefficient vector (intercept absorbed by centering).
func Fit(x *mat.Dense, y []float64, alpha float64) []float64 {
	d := newDesign(x, y)
	beta := make([]float64, d.p)
	residual := append([]float64(nil), d.y...)
	d.descend(beta, residual, alpha)
	return beta
}

// PathResult is a full regularization path: Alphas decreasing from
// alphaMax, Coefs[k] the coefficients at Alphas[k].
type PathResult struct {
	Alphas []float64
	Coefs  [][]float64
}

// NonZeroCounts returns the support size at every path point.
func (p PathResult) NonZeroCounts() []int {
	counts := make([]int, len(p.Coefs))
	for k, beta := range p.Coefs {
		for _, b := range beta {
			if b != 0 {
				counts[k]++
			}
		}
	}
	return counts
}

// Path fits the Lasso along a log-spaced grid of length alphas (0 means
// DefaultPathLength), warm-starting each point from the previous one.
func Path(x *mat.Dense, y []float64, length int) PathResult {
	if length <= 0 {
		length = DefaultPathLength
	}
	d := newDesign(x, y)
	return d.path(length)
}

func (d design) path(length int) PathResult {
	out := PathResult{
		Alphas: alphaGrid(d.alphaMax(), length),
		Coefs:  make([][]float64, length),
	}
	beta := make([]float64, d.p)
	residual := append([]float64(nil), d.y...)
	for k, alpha := range out.Alphas {
		d.descend(beta, residual, alpha)
		out.Coefs[k] = append([]float64(nil), beta...)
	}
	return out
}

func alphaGrid(alphaMax float64, length int) []float64 {
	if alphaMax <= 0 {
		alphaMax = 1 // degenerate response; any grid yields all-zero fits
	}
	grid := make([]float64, length)
	logMax := math.Log(alphaMax)
	logMin := math.Log(alphaMax * alphaRatio)
	for k := range grid {
		frac := float64(k) / float64(length-1)
		grid[k] = math.Exp(logMax + frac*(logMin-logMax))
	}
	return grid
}
