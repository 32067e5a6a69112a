package sim

import (
	"math/rand"
)

// DFERecord is one sampled mutation in a distribution of fitness effects:
// a single-site mutant of a focal genotype and its fitness consequence.
type DFERecord struct {
	Replicate  int
	Step       int
	Site       int
	FromAllele string
	ToAllele   string
	WParent    float64
	WMutant    float64
	S          float64 // selection coefficient; 0 when the parent is inviable
	Lethal     bool
}

// SampleDFE samples the distribution of fitness effects of single mutations
// on seq. n positive draws site and replacement allele uniformly with
// replacement; n = 0 enumerates all L*(k-1) single mutants exactly once, in
// locus-then-alphabet order.
func SampleDFE(land Landscape, seq string, n int, rng *rand.Rand) []DFERecord {
	a := land.Alphabet()
	wParent := land.Fitness(seq)
	if n <= 0 {
		out := make([]DFERecord, 0, len(seq)*(a.Size()-1))
		for site := 0; site < len(seq); site++ {
			for i := 0; i < len(a); i++ {
				if a[i] == seq[site] {
					continue
				}
				out = append(out, dfeRecord(land, seq, site, a[i], wParent))
			}
		}
		return out
	}
	out := make([]DFERecord, 0, n)
	for i := 0; i < n; i++ {
		mut := MutateRandom(seq, a, rng)
		diff := DivergedSites(seq, mut)
		out = append(out, dfeRecord(land, seq, diff.Sites[0], diff.B[0], wParent))
	}
	return out
}

func dfeRecord(land Landscape, seq string, site int, to byte, wParent float64) DFERecord {
	mut := ReplaceAllele(seq, site, to)
	wMut := land.Fitness(mut)
	s := 0.0
	if wParent > 0 {
		s = wMut/wParent - 1
	}
	return DFERecord{
		Site:       site,
		FromAllele: string(seq[site]),
		ToAllele:   string(to),
		WParent:    wParent,
		WMutant:    wMut,
		S:          s,
		Lethal:     wMut == 0,
	}
}
