package screen

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"gorca/domain/core"
	"gorca/domain/expr"
	"gorca/internal/lasso"
)

// Reduction is a screened problem: the observational matrix and the
// interventional sample restricted to the selected genes, with the
// candidate occupying the last column. Selected holds the original
// column indices in the same order.
type Reduction struct {
	Obs      *mat.Dense
	Sample   []float64
	Selected []int
}

// Screener configures the Lasso screening pass.
type Screener struct {
	Folds      int // CV folds; 0 means lasso.DefaultFolds
	PathLength int // path grid size; 0 means lasso.DefaultPathLength
}

// Reduce screens the panel for one candidate gene. The candidate column
// is the Lasso response, every other column a predictor; the selected
// support plus the candidate (last) becomes the reduced panel. MethodCV
// retries once with MethodNHalf when its support is too thin; an empty
// support after that is ErrDegenerateRegression.
func (s Screener) Reduce(method Method, candidate int, obs *mat.Dense, sample []float64) (Reduction, error) {
	n, p := obs.Dims()
	if len(sample) != p {
		return Reduction{}, core.NewDimensionError("interventional sample", len(sample), p)
	}
	if candidate < 0 || candidate >= p {
		return Reduction{}, core.NewDimensionError("candidate index", candidate, p)
	}

	y := mat.Col(nil, candidate, obs)
	predictors, predictorIdx := dropColumn(obs, candidate)

	beta, err := s.selectCoefficients(method, predictors, y, n)
	if err != nil {
		return Reduction{}, err
	}
	if method == MethodCV && nonZeros(beta) <= 1 {
		// a one-gene support cannot anchor a covariance estimate later
		beta, err = s.selectCoefficients(MethodNHalf, predictors, y, n)
		if err != nil {
			return Reduction{}, err
		}
	}
	if nonZeros(beta) == 0 {
		return Reduction{}, core.NewDegenerateRegressionError(candidate)
	}

	selected := make([]int, 0, nonZeros(beta)+1)
	for j, b := range beta {
		if b != 0 {
			selected = append(selected, predictorIdx[j])
		}
	}
	selected = append(selected, candidate)
	return restrict(obs, sample, selected)
}

func (s Screener) selectCoefficients(method Method, x *mat.Dense, y []float64, n int) ([]float64, error) {
	switch method {
	case MethodCV:
		beta, _ := lasso.FitCV(x, y, s.Folds, s.PathLength)
		return beta, nil
	case MethodLargestSupport:
		path := lasso.Path(x, y, s.PathLength)
		return path.Coefs[len(path.Coefs)-1], nil
	case MethodNHalf:
		path := lasso.Path(x, y, s.PathLength)
		counts := path.NonZeroCounts()
		target := float64(n) / 2
		best := 0
		for k, c := range counts {
			if math.Abs(float64(c)-target) < math.Abs(float64(counts[best])-target) {
				best = k
			}
		}
		return path.Coefs[best], nil
	default:
		return nil, core.NewMethodError(string(method))
	}
}

// ReduceByPrecision screens with a known precision matrix instead of a
// regression: the reduced panel is the candidate's Markov blanket (the
// non-zero entries of its precision column), candidate last.
func ReduceByPrecision(precision mat.Matrix, candidate int, obs *mat.Dense, sample []float64) (Reduction, error) {
	_, p := obs.Dims()
	pr, pc := precision.Dims()
	if pr != p || pc != p {
		return Reduction{}, core.NewShapeError("precision matrix", pr, pc, p, p)
	}
	if len(sample) != p {
		return Reduction{}, core.NewDimensionError("interventional sample", len(sample), p)
	}
	if candidate < 0 || candidate >= p {
		return Reduction{}, core.NewDimensionError("candidate index", candidate, p)
	}

	var selected []int
	for i := 0; i < p; i++ {
		if i != candidate && precision.At(i, candidate) != 0 {
			selected = append(selected, i)
		}
	}
	selected = append(selected, candidate)
	return restrict(obs, sample, selected)
}

func restrict(obs *mat.Dense, sample []float64, selected []int) (Reduction, error) {
	n, _ := obs.Dims()
	reducedObs := mat.NewDense(n, len(selected), nil)
	for k, j := range selected {
		reducedObs.SetCol(k, mat.Col(nil, j, obs))
	}
	reducedSample, err := expr.SelectRow(sample, selected)
	if err != nil {
		return Reduction{}, err
	}
	return Reduction{Obs: reducedObs, Sample: reducedSample, Selected: selected}, nil
}

func dropColumn(x *mat.Dense, drop int) (*mat.Dense, []int) {
	n, p := x.Dims()
	out := mat.NewDense(n, p-1, nil)
	idx := make([]int, 0, p-1)
	k := 0
	for j := 0; j < p; j++ {
		if j == drop {
			continue
		}
		out.SetCol(k, mat.Col(nil, j, x))
		idx = append(idx, j)
		k++
	}
	return out, idx
}

func nonZeros(beta []float64) int {
	count := 0
	for _, b := range beta {
		if b != 0 {
			count++
		}
	}
	return count
}
