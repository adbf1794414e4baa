// Package causal generates candidate causal orderings and computes
// whitened residuals under them. An ordering is a permutation of gene
// indices read as a topological order: earlier entries are assumed
// causally upstream of later ones.
package causal

import (
	"fmt"
	"math/rand"

	"gorca/domain/core"
)

// DefaultShuffles is the number of random re-orderings generated per
// aberrant gene.
const DefaultShuffles = 1

// Partition splits gene indices by score: aberrant (z > threshold) in
// discovery order, normal as the ascending complement.
func Partition(z []float64, threshold float64) (aberrant, normal []int) {
	for i, v := range z {
		if v > threshold {
			aberrant = append(aberrant, i)
		} else {
			normal = append(normal, i)
		}
	}
	return aberrant, normal
}

// Orderings emits len(aberrant) * shuffles orderings. Each places every
// normal gene first, then one target aberrant gene, then the remaining
// aberrant genes: the hypothesis that the target is the most upstream
// aberration, with all normal genes as its potential parents. Both
// groups are reshuffled independently for every emitted ordering.
func Orderings(z []float64, threshold float64, shuffles int, rng *rand.Rand) [][]int {
	if shuffles <= 0 {
		shuffles = DefaultShuffles
	}
	aberrant, normal := Partition(z, threshold)

	shufNormal := append([]int(nil), normal...)
	shufAberrant := append([]int(nil), aberrant...)

	orderings := make([][]int, 0, len(aberrant)*shuffles)
	for _, target := range aberrant {
		for s := 0; s < shuffles; s++ {
			rng.Shuffle(len(shufNormal), func(i, j int) {
				shufNormal[i], shufNormal[j] = shufNormal[j], shufNormal[i]
			})
			rng.Shuffle(len(shufAberrant), func(i, j int) {
				shufAberrant[i], shufAberrant[j] = shufAberrant[j], shufAberrant[i]
			})
			for k, v := range shufAberrant {
				if v == target {
					shufAberrant[0], shufAberrant[k] = shufAberrant[k], shufAberrant[0]
					break
				}
			}
			ordering := make([]int, 0, len(z))
			ordering = append(ordering, shufNormal...)
			ordering = append(ordering, shufAberrant...)
			orderings = append(orderings, ordering)
		}
	}
	return orderings
}

// ValidateOrdering checks that perm is a bijection over {0..p-1}.
func ValidateOrdering(perm []int, p int) error {
	if len(perm) != p {
		return core.NewPermutationError(fmt.Sprintf("length %d, want %d", len(perm), p))
	}
	seen := make([]bool, p)
	for _, v := range perm {
		if v < 0 || v >= p {
			return core.NewPermutationError(fmt.Sprintf("index %d out of range [0,%d)", v, p))
		}
		if seen[v] {
			return core.NewPermutationError(fmt.Sprintf("duplicate index %d", v))
		}
		seen[v] = true
	}
	return nil
}
