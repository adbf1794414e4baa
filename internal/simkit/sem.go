package simkit

import (
	randv2 "math/rand/v2"

	"gonum.org/v1/gonum/mat"
)

// SEM is a linear structural equation model X = B*X + e with independent
// unit-variance Gaussian noise. Weights[i][j] != 0 means gene j is a
// direct parent of gene i; the weight matrix is strictly lower
// triangular under a hidden random gene order, so the model is acyclic
// by construction.
type SEM struct {
	Weights *mat.Dense // p x p adjacency weights, row = child
	order   []int      // hidden generative order, upstream first
	rng     *randv2.Rand
}

// NewRandomSEM builds a p-gene SEM. Each feasible edge (an earlier gene
// in the hidden order pointing at a later one) appears with probability
// density and a weight drawn uniformly from [-1, -0.5] or [0.5, 1], so
// no edge is vanishingly weak.
func NewRandomSEM(p int, density float64, seed uint64) *SEM {
	rng := randv2.New(pcg(seed))
	order := rng.Perm(p)

	weights := mat.NewDense(p, p, nil)
	for a := 0; a < p; a++ {
		for b := a + 1; b < p; b++ {
			if rng.Float64() >= density {
				continue
			}
			w := 0.5 + 0.5*rng.Float64()
			if rng.Float64() < 0.5 {
				w = -w
			}
			// order[a] is upstream of order[b]
			weights.Set(order[b], order[a], w)
		}
	}
	return &SEM{Weights: weights, order: order, rng: rng}
}

// Sample draws n observational rows by propagating noise through the
// hidden order.
func (s *SEM) Sample(n int) *mat.Dense {
	p := len(s.order)
	out := mat.NewDense(n, p, nil)
	for i := 0; i < n; i++ {
		for _, g := range s.order {
			v := s.rng.NormFloat64()
			for parent := 0; parent < p; parent++ {
				if w := s.Weights.At(g, parent); w != 0 {
					v += w * out.At(i, parent)
				}
			}
			out.Set(i, g, v)
		}
	}
	return out
}

// SampleIntervened draws one row with gene fixed to the given value
// before propagation, so the shift reaches every downstream gene.
func (s *SEM) SampleIntervened(gene int, value float64) []float64 {
	p := len(s.order)
	row := make([]float64, p)
	for _, g := range s.order {
		if g == gene {
			row[g] = value
			continue
		}
		v := s.rng.NormFloat64()
		for parent := 0; parent < p; parent++ {
			if w := s.Weights.At(g, parent); w != 0 {
				v += w * row[parent]
			}
		}
		row[g] = v
	}
	return row
}

// FeasibleOrdering recovers a topological order from a weight matrix:
// repeatedly emit genes whose remaining rows have no non-zero parent
// entries, then zero out their columns. Genes trapped in (malformed)
// cycles are appended at the end.
func FeasibleOrdering(weights mat.Matrix) []int {
	p, _ := weights.Dims()
	remaining := mat.DenseCopyOf(weights)
	emitted := make([]bool, p)
	var ordering []int

	for {
		var batch []int
		for i := 0; i < p; i++ {
			if emitted[i] {
				continue
			}
			parentless := true
			for j := 0; j < p; j++ {
				if remaining.At(i, j) != 0 {
					parentless = false
					break
				}
			}
			if parentless {
				batch = append(batch, i)
			}
		}
		if len(batch) == 0 {
			break
		}
		for _, g := range batch {
			emitted[g] = true
			ordering = append(ordering, g)
			for i := 0; i < p; i++ {
				remaining.Set(i, g, 0)
			}
		}
	}
	for i := 0; i < p; i++ {
		if !emitted[i] {
			ordering = append(ordering, i)
		}
	}
	return ordering
}
