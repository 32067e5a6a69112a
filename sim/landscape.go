package sim

import (
	"fmt"
	"math/rand"
)

// Model names accepted by NewLandscape.
const (
	ModelRoulette   = "roulette"
	ModelRNAHoley   = "rna-holey"
	ModelRNAFitness = "rna-fitness"
)

// Landscape assigns viability and fitness to genotypes. Implementations
// memoize per-genotype evaluations: landscapes are quenched, so the first
// evaluation of a genotype fixes its value for the rest of the run.
//
// Implementations are not safe for concurrent use. Concurrent replicates
// each construct their own landscape.
type Landscape interface {
	// Alphabet returns the allele set of the genotype space.
	Alphabet() Alphabet

	// Length returns the number of loci.
	Length() int

	// Ancestor returns the founding viable genotype of this landscape
	// instance, fixed at construction.
	Ancestor() string

	// Viable reports whether the genotype is viable.
	Viable(seq string) bool

	// Fitness returns the genotype's fitness. Inviable genotypes have
	// fitness 0; in holey models every viable genotype has fitness 1.
	Fitness(seq string) float64

	// Stats reports how many distinct genotypes have been evaluated and
	// how many of those were viable.
	Stats() LandscapeStats
}

// LandscapeStats summarizes the genotypes a landscape has evaluated.
type LandscapeStats struct {
	Evaluated int
	Viable    int
}

// LandscapeConfig carries the parameters of all landscape models.
// Fields irrelevant to a model are ignored by its constructor.
type LandscapeConfig struct {
	Model  string
	Length int

	// Roulette: probability that a genotype is viable.
	P float64

	// RNA: maximum base-pair distance from the reference structure.
	Delta int
	// RNA with intrinsic fitness differences: fitness decay exponent.
	// Zero means a holey landscape (all viable genotypes have fitness 1).
	Beta float64
	// RNA: minimum number of base pairs for a fold to count as folded.
	MinPairs int
	// RNA: explicit dot-bracket reference structure. Empty means the
	// reference is the ancestor's own minimum-structure fold.
	Reference string

	// Optional explicit ancestor sequence. Empty means the constructor
	// discovers a viable ancestor using the landscape RNG.
	Ancestor string
}

// NewRNALandscapeFunc constructs the RNA-folding landscapes. It is set by
// sim/rna's init(), breaking the import cycle between sim (interface owner)
// and sim/rna (implementation). Production code imports sim/rna directly;
// sim's own tests use a blank import.
var NewRNALandscapeFunc func(cfg LandscapeConfig, rng *rand.Rand) (Landscape, error)

// NewLandscape constructs the landscape named by cfg.Model. The rng drives
// quenched draws and ancestor discovery and must come from the landscape
// subsystem of a PartitionedRNG.
func NewLandscape(cfg LandscapeConfig, rng *rand.Rand) (Landscape, error) {
	switch cfg.Model {
	case ModelRoulette:
		return NewRouletteLandscape(cfg, rng)
	case ModelRNAHoley, ModelRNAFitness:
		if NewRNALandscapeFunc == nil {
			return nil, fmt.Errorf("model %q requires importing sim/rna", cfg.Model)
		}
		return NewRNALandscapeFunc(cfg, rng)
	default:
		return nil, fmt.Errorf("unknown landscape model %q", cfg.Model)
	}
}

// Neighbors enumerates every single-mutant neighbor of seq: for each locus,
// each of the k-1 alternative alleles, in locus-then-alphabet order.
func Neighbors(seq string, a Alphabet) []string {
	out := make([]string, 0, len(seq)*(len(a)-1))
	for site := 0; site < len(seq); site++ {
		for i := 0; i < len(a); i++ {
			if a[i] == seq[site] {
				continue
			}
			out = append(out, ReplaceAllele(seq, site, a[i]))
		}
	}
	return out
}

// ViableNeighbors returns the single-mutant neighbors of seq that are viable.
func ViableNeighbors(l Landscape, seq string) []string {
	all := Neighbors(seq, l.Alphabet())
	out := make([]string, 0, len(all))
	for _, n := range all {
		if l.Viable(n) {
			out = append(out, n)
		}
	}
	return out
}

// RobustnessMap memoizes mutational robustness per genotype. Robustness of
// a genotype is the fraction of its single-mutant neighbors that are viable.
// One map is shared across both lineages of a divergence run so that the
// run-wide mean matches the set of genotypes the run has visited.
type RobustnessMap struct {
	memo map[string]float64
}

// NewRobustnessMap creates an empty RobustnessMap.
func NewRobustnessMap() *RobustnessMap {
	return &RobustnessMap{memo: make(map[string]float64)}
}

// Of returns the mutational robustness of seq on landscape l, computing and
// memoizing it on first use. Evaluating neighbors on a quenched landscape
// fixes their viability draws, exactly as repeated probing would.
func (m *RobustnessMap) Of(l Landscape, seq string) float64 {
	if nu, ok := m.memo[seq]; ok {
		return nu
	}
	viable := len(ViableNeighbors(l, seq))
	total := l.Length() * (l.Alphabet().Size() - 1)
	nu := float64(viable) / float64(total)
	m.memo[seq] = nu
	return nu
}

// Mean returns the mean robustness over all memoized genotypes, or 0 if
// none have been evaluated.
func (m *RobustnessMap) Mean() float64 {
	if len(m.memo) == 0 {
		return 0
	}
	sum := 0.0
	for _, nu := range m.memo {
		sum += nu
	}
	return sum / float64(len(m.memo))
}

// Len returns the number of genotypes with memoized robustness.
func (m *RobustnessMap) Len() int { return len(m.memo) }
