package sim

import (
	"math/rand"
)

// DivergeRecord is one row of a divergence history: the state of two
// lineages diverging from a common ancestor after a given number of
// attempted substitutions.
type DivergeRecord struct {
	Replicate int
	Step      int
	Seq1      string
	Seq2      string
	D01       int // Hamming distance lineage 1 to ancestor
	D02       int // Hamming distance lineage 2 to ancestor
	D12       int // Hamming distance between the lineages
	II1       int // incompatible introgressions into lineage 1
	II2       int // incompatible introgressions into lineage 2
	Nu1       float64
	Nu2       float64
	W1        float64
	W2        float64
	MeanNu    float64 // mean robustness over all genotypes probed so far
}

// Divergence evolves two lineages from one viable common ancestor and
// tracks the incompatible introgressions between them. Both lineages share
// the landscape and one robustness map, so MeanNu reflects every genotype
// the run has probed.
type Divergence struct {
	land Landscape
	nu   *RobustnessMap
	pop1 *Walker
	pop2 *Walker

	steps int
	d12   int
	ii1   map[int]byte
	ii2   map[int]byte

	history []DivergeRecord
}

// NewDivergence founds two lineages at the landscape's ancestor.
func NewDivergence(land Landscape, regime string, popSize int) (*Divergence, error) {
	nu := NewRobustnessMap()
	pop1, err := NewWalker(land, regime, popSize, nu)
	if err != nil {
		return nil, err
	}
	pop2, err := NewWalker(land, regime, popSize, nu)
	if err != nil {
		return nil, err
	}
	d := &Divergence{
		land: land,
		nu:   nu,
		pop1: pop1,
		pop2: pop2,
	}
	d.record()
	return d, nil
}

// Pop1 returns the first lineage's walker.
func (d *Divergence) Pop1() *Walker { return d.pop1 }

// Pop2 returns the second lineage's walker.
func (d *Divergence) Pop2() *Walker { return d.pop2 }

// Steps returns the number of attempted substitutions across both lineages.
func (d *Divergence) Steps() int { return d.steps }

// D12 returns the Hamming distance between the two residents.
func (d *Divergence) D12() int { return d.d12 }

// History returns the divergence history, one record per step plus the
// founding state at step 0.
func (d *Divergence) History() []DivergeRecord { return d.history }

// Step picks one lineage uniformly at random and attempts a substitution in
// it, then recomputes distances and incompatible introgressions. The
// lineage choice draws from lineageRNG and the substitution itself from
// walkRNG, so divergence runs and single-lineage walks with the same seed
// share substitution trajectories.
func (d *Divergence) Step(lineageRNG, walkRNG *rand.Rand) {
	if lineageRNG.Float64() < 0.5 {
		d.pop1.Step(walkRNG)
	} else {
		d.pop2.Step(walkRNG)
	}
	d.steps++
	d.d12 = HammingDistance(d.pop1.Current(), d.pop2.Current())
	d.ii1 = nil
	d.ii2 = nil
	// A single diverged site cannot carry an incompatibility: introgressing
	// it reconstructs the other (viable) resident.
	if d.d12 > 1 {
		d.ii1 = IncompatibleIntrogressions(d.land, d.pop1.Current(), d.pop2.Current())
		d.ii2 = IncompatibleIntrogressions(d.land, d.pop2.Current(), d.pop1.Current())
	}
	d.record()
}

func (d *Divergence) record() {
	d.history = append(d.history, DivergeRecord{
		Step:   d.steps,
		Seq1:   d.pop1.Current(),
		Seq2:   d.pop2.Current(),
		D01:    d.pop1.Dist(),
		D02:    d.pop2.Dist(),
		D12:    d.d12,
		II1:    len(d.ii1),
		II2:    len(d.ii2),
		Nu1:    d.pop1.Robustness(),
		Nu2:    d.pop2.Robustness(),
		W1:     d.land.Fitness(d.pop1.Current()),
		W2:     d.land.Fitness(d.pop2.Current()),
		MeanNu: d.nu.Mean(),
	})
}

// IncompatibleIntrogressions probes every single-site introgression from
// donor into recipient and returns the incompatible ones as a map from site
// index to the donor allele there. An introgression is incompatible iff the
// introgressed genotype is inviable although both parents are viable.
func IncompatibleIntrogressions(land Landscape, recipient, donor string) map[int]byte {
	out := make(map[int]byte)
	for _, intro := range Introgress(recipient, donor) {
		if land.Viable(intro) {
			continue
		}
		diff := DivergedSites(recipient, intro)
		out[diff.Sites[0]] = diff.B[0]
	}
	return out
}
