package lasso

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// DefaultFolds is the number of cross-validation folds.
const DefaultFolds = 5

// FitCV picks the path alpha with the lowest k-fold mean squared error
// and returns the full-data coefficients at that alpha together with the
// alpha itself. Folds are contiguous row blocks, so the result is
// deterministic for fixed inputs.
func FitCV(x *mat.Dense, y []float64, folds, pathLength int) ([]float64, float64) {
	if folds <= 1 {
		folds = DefaultFolds
	}
	if pathLength <= 0 {
		pathLength = DefaultPathLength
	}
	n, p := x.Dims()
	if folds > n {
		folds = n
	}

	// one shared alpha grid from the full data keeps folds comparable
	grid := alphaGrid(newDesign(x, y).alphaMax(), pathLength)
	mse := make([]float64, len(grid))

	for f := 0; f < folds; f++ {
		lo := f * n / folds
		hi := (f + 1) * n / folds
		trainX, trainY := dropRows(x, y, lo, hi)

		d := newDesign(trainX, trainY)
		beta := make([]float64, p)
		residual := append([]float64(nil), d.y...)

		// held-out rows are centered by the training means
		trainXMean := columnMeans(trainX)
		trainYMean := floats.Sum(trainY) / float64(len(trainY))

		for k, alpha := range grid {
			d.descend(beta, residual, alpha)
			for i := lo; i < hi; i++ {
				pred := trainYMean
				for j := 0; j < p; j++ {
					if beta[j] != 0 {
						pred += beta[j] * (x.At(i, j) - trainXMean[j])
					}
				}
				diff := y[i] - pred
				mse[k] += diff * diff
			}
		}
	}

	best := 0
	for k := range mse {
		if mse[k] < mse[best] {
			best = k
		}
	}
	return Fit(x, y, grid[best]), grid[best]
}

func dropRows(x *mat.Dense, y []float64, lo, hi int) (*mat.Dense, []float64) {
	n, p := x.Dims()
	kept := n - (hi - lo)
	outX := mat.NewDense(kept, p, nil)
	outY := make([]float64, 0, kept)
	row := 0
	for i := 0; i < n; i++ {
		if i >= lo && i < hi {
			continue
		}
		outX.SetRow(row, mat.Row(nil, i, x))
		outY = append(outY, y[i])
		row++
	}
	return outX, outY
}

func columnMeans(x *mat.Dense) []float64 {
	n, p := x.Dims()
	mu := make([]float64, p)
	for j := 0; j < p; j++ {
		sum := 0.0
		for i := 0; i < n; i++ {
			sum += x.At(i, j)
		}
		mu[j] = sum / float64(n)
	}
	return mu
}
