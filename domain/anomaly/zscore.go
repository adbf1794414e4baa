// Package anomaly scores interventional samples against an observational
// baseline. Scores are squared standardized deviations, so larger means
// more aberrant and every score is non-negative.
package anomaly

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"gorca/domain/core"
)

// Moments holds the column-wise mean and sample standard deviation of an
// observational matrix. Callers are responsible for pre-filtering
// constant genes; a zero standard deviation propagates as Inf/NaN scores.
type Moments struct {
	Mean   []float64
	StdDev []float64
}

// ColumnMoments computes per-gene baseline moments. StdDev uses the n-1
// divisor.
func ColumnMoments(obs *mat.Dense) Moments {
	_, p := obs.Dims()
	m := Moments{
		Mean:   make([]float64, p),
		StdDev: make([]float64, p),
	}
	var col []float64
	for j := 0; j < p; j++ {
		col = mat.Col(col, j, obs)
		m.Mean[j] = stat.Mean(col, nil)
		m.StdDev[j] = stat.StdDev(col, nil)
	}
	return m
}

// Scores computes the squared Z-score of one interventional sample
// against the observational baseline: z[i] = ((x[i]-mu[i])/sigma[i])^2.
func Scores(obs *mat.Dense, sample []float64) ([]float64, error) {
	_, p := obs.Dims()
	if len(sample) != p {
		return nil, core.NewDimensionError("interventional sample", len(sample), p)
	}
	return scoreRow(ColumnMoments(obs), sample), nil
}

// ScoreMatrix computes squared Z-scores for every row of an m x p
// interventional matrix, sharing one baseline moment pass.
func ScoreMatrix(obs, inter *mat.Dense) (*mat.Dense, error) {
	_, p := obs.Dims()
	m, pInt := inter.Dims()
	if pInt != p {
		return nil, core.NewShapeError("interventional matrix", m, pInt, m, p)
	}
	moments := ColumnMoments(obs)
	out := mat.NewDense(m, p, nil)
	var row []float64
	for i := 0; i < m; i++ {
		row = mat.Row(row, i, inter)
		out.SetRow(i, scoreRow(moments, row))
	}
	return out, nil
}

func scoreRow(m Moments, sample []float64) []float64 {
	z := make([]float64, len(sample))
	for i, v := range sample {
		d := math.Abs(v-m.Mean[i]) / m.StdDev[i]
		z[i] = d * d
	}
	return z
}
