// Package simkit generates seeded synthetic expression data for tests
// and simulation runs: multivariate-normal baselines, linear SEM panels
// with a hidden causal order, and planted single-gene perturbations.
package simkit

import (
	randv2 "math/rand/v2"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distmv"
)

// pcg returns a seeded PCG source for gonum's samplers.
func pcg(seed uint64) *randv2.PCG {
	return randv2.NewPCG(seed, seed+0x9e3779b97f4a7c15)
}

// SampleMVN draws n rows from N(mu, sigma). Panics on a non-PD sigma,
// which in a simulation is a construction bug, not an input condition.
func SampleMVN(n int, mu []float64, sigma *mat.SymDense, seed uint64) *mat.Dense {
	normal, ok := distmv.NewNormal(mu, sigma, pcg(seed))
	if !ok {
		panic("simkit: covariance is not positive definite")
	}
	p := len(mu)
	out := mat.NewDense(n, p, nil)
	row := make([]float64, p)
	for i := 0; i < n; i++ {
		normal.Rand(row)
		out.SetRow(i, row)
	}
	return out
}

// PlantPerturbation copies the baseline and shifts one gene by the given
// number of standard deviations.
func PlantPerturbation(baseline, std []float64, gene int, sigmas float64) []float64 {
	sample := append([]float64(nil), baseline...)
	sample[gene] += sigmas * std[gene]
	return sample
}

// DiagonalCovariance builds a diagonal covariance from per-gene
// variances.
func DiagonalCovariance(variances []float64) *mat.SymDense {
	p := len(variances)
	sigma := mat.NewSymDense(p, nil)
	for i, v := range variances {
		sigma.SetSym(i, i, v)
	}
	return sigma
}
