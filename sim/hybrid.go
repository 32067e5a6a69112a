package sim

import (
	"fmt"
	"math/rand"
)

// Cross kinds for hybrid sampling between two diverged parents.
const (
	// CrossHybrid draws each diverged site from either parent with equal
	// probability (an F1-equivalent haploid hybrid).
	CrossHybrid = "hybrid"

	// CrossBackcross1 biases diverged sites toward parent 1 (donor allele
	// with probability 1/4).
	CrossBackcross1 = "backcross1"

	// CrossBackcross2 biases diverged sites toward parent 2 (donor allele
	// with probability 3/4).
	CrossBackcross2 = "backcross2"
)

// CrossKinds lists all cross kinds in output order.
var CrossKinds = []string{CrossHybrid, CrossBackcross1, CrossBackcross2}

// HybridRecord summarizes one batch of sampled crosses between the two
// residents of a divergence run.
type HybridRecord struct {
	Replicate      int
	Step           int
	D12            int
	Cross          string
	N              int
	ViableFraction float64
	MeanW          float64
}

// donorProb returns the probability that a diverged site carries the
// parent-2 allele under the given cross kind.
func donorProb(kind string) (float64, error) {
	switch kind {
	case CrossHybrid:
		return 0.5, nil
	case CrossBackcross1:
		return 0.25, nil
	case CrossBackcross2:
		return 0.75, nil
	default:
		return 0, fmt.Errorf("unknown cross kind %q; valid: hybrid, backcross1, backcross2", kind)
	}
}

// SampleCross constructs n recombinant genotypes between p1 and p2 and
// returns the fraction that are viable and their mean fitness. Sites where
// the parents agree are inherited as-is; each diverged site carries the
// parent-2 allele with the kind's probability. Identical parents make every
// cross a viable copy of them.
func SampleCross(land Landscape, p1, p2, kind string, n int, rng *rand.Rand) (HybridRecord, error) {
	prob, err := donorProb(kind)
	if err != nil {
		return HybridRecord{}, err
	}
	if n <= 0 {
		return HybridRecord{}, fmt.Errorf("sample size must be positive, got %d", n)
	}
	diff := DivergedSites(p1, p2)
	rec := HybridRecord{
		D12:   len(diff.Sites),
		Cross: kind,
		N:     n,
	}
	if len(diff.Sites) == 0 {
		rec.ViableFraction = 1
		rec.MeanW = land.Fitness(p1)
		return rec, nil
	}
	viable := 0
	sumW := 0.0
	for i := 0; i < n; i++ {
		b := []byte(p1)
		for j, site := range diff.Sites {
			if rng.Float64() < prob {
				b[site] = diff.B[j]
			}
		}
		cross := string(b)
		if land.Viable(cross) {
			viable++
		}
		sumW += land.Fitness(cross)
	}
	rec.ViableFraction = float64(viable) / float64(n)
	rec.MeanW = sumW / float64(n)
	return rec, nil
}
