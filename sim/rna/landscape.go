package rna

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/sirupsen/logrus"

	"github.com/dmi-sim/dmi-sim/sim"
)

// Folding is expensive, so ancestor discovery gets a generous but finite
// draw budget.
const maxAncestorDraws = 100000

// DefaultMinPairs is the minimum number of base pairs a fold needs to count
// as a structure; weaker folds are treated as unfolded (open).
const DefaultMinPairs = 3

// Landscape derives viability (and, with beta > 0, graded fitness) from the
// base-pair distance between a genotype's minimum structure and a reference
// structure. Genotypes that fold to the open structure are inviable holes.
type Landscape struct {
	length   int
	delta    int
	beta     float64
	minPairs int
	ref      string
	refPairs map[string]bool
	ancestor string

	// memoized base-pair distance to the reference; -1 marks unfolded
	dist    map[string]int
	nViable int
}

// New builds an RNA-folding landscape. cfg.Beta = 0 gives the holey variant
// (all viable genotypes have fitness 1); cfg.Beta > 0 grades fitness by
// distance to the reference. The rng drives ancestor discovery only:
// folding itself is deterministic.
func New(cfg sim.LandscapeConfig, rng *rand.Rand) (*Landscape, error) {
	if cfg.Length <= MinLoop+1 {
		return nil, fmt.Errorf("length must exceed %d for any base pair to form, got %d", MinLoop+1, cfg.Length)
	}
	if cfg.Delta < 0 {
		return nil, fmt.Errorf("delta must be non-negative, got %d", cfg.Delta)
	}
	if cfg.Beta < 0 {
		return nil, fmt.Errorf("beta must be non-negative, got %f", cfg.Beta)
	}
	minPairs := cfg.MinPairs
	if minPairs <= 0 {
		minPairs = DefaultMinPairs
	}
	l := &Landscape{
		length:   cfg.Length,
		delta:    cfg.Delta,
		beta:     cfg.Beta,
		minPairs: minPairs,
		dist:     make(map[string]int),
	}

	if cfg.Reference != "" {
		if len(cfg.Reference) != cfg.Length {
			return nil, fmt.Errorf("reference structure has length %d, want %d", len(cfg.Reference), cfg.Length)
		}
		pairs, err := PairSet(cfg.Reference)
		if err != nil {
			return nil, fmt.Errorf("reference: %w", err)
		}
		if len(pairs) < minPairs {
			return nil, fmt.Errorf("reference structure has %d pairs, need at least %d", len(pairs), minPairs)
		}
		l.ref = cfg.Reference
		l.refPairs = pairs
	}

	if cfg.Ancestor != "" {
		if err := sim.RNA.Check(cfg.Ancestor, cfg.Length); err != nil {
			return nil, fmt.Errorf("ancestor: %w", err)
		}
		if l.ref == "" {
			if err := l.referenceFrom(cfg.Ancestor); err != nil {
				return nil, err
			}
		}
		if !l.Viable(cfg.Ancestor) {
			return nil, fmt.Errorf("ancestor %q is inviable on this landscape", cfg.Ancestor)
		}
		l.ancestor = cfg.Ancestor
		return l, nil
	}

	if err := l.discoverAncestor(rng); err != nil {
		return nil, err
	}
	return l, nil
}

// referenceFrom sets the reference structure to the ancestor's own fold.
func (l *Landscape) referenceFrom(ancestor string) error {
	s := Fold(ancestor)
	if PairCount(s) < l.minPairs {
		return fmt.Errorf("ancestor %q folds to only %d pairs, need at least %d", ancestor, PairCount(s), l.minPairs)
	}
	pairs, err := PairSet(s)
	if err != nil {
		return err
	}
	l.ref = s
	l.refPairs = pairs
	return nil
}

// discoverAncestor draws random sequences until one is viable. Without an
// explicit reference the first folding sequence defines the reference, so
// its distance is 0 and it is viable by construction.
func (l *Landscape) discoverAncestor(rng *rand.Rand) error {
	for i := 0; i < maxAncestorDraws; i++ {
		seq := sim.RandomSequence(sim.RNA, l.length, rng)
		if l.ref == "" {
			s := Fold(seq)
			if PairCount(s) < l.minPairs {
				continue
			}
			if err := l.referenceFrom(seq); err != nil {
				return err
			}
			l.ancestor = seq
			l.Viable(seq)
			return nil
		}
		if l.Viable(seq) {
			l.ancestor = seq
			return nil
		}
		if i > 0 && i%10000 == 0 {
			logrus.Infof("still searching for a viable RNA ancestor (%d draws)", i)
		}
	}
	return fmt.Errorf("no viable ancestor found after %d draws; relax delta or supply one", maxAncestorDraws)
}

// Alphabet returns the four-base RNA alphabet.
func (l *Landscape) Alphabet() sim.Alphabet { return sim.RNA }

// Length returns the number of bases.
func (l *Landscape) Length() int { return l.length }

// Ancestor returns the founding viable sequence.
func (l *Landscape) Ancestor() string { return l.ancestor }

// Reference returns the reference dot-bracket structure.
func (l *Landscape) Reference() string { return l.ref }

// distance returns the memoized base-pair distance from seq's fold to the
// reference, computing it on first use. -1 marks an unfolded sequence.
func (l *Landscape) distance(seq string) int {
	if d, ok := l.dist[seq]; ok {
		return d
	}
	s := Fold(seq)
	d := -1
	if PairCount(s) >= l.minPairs {
		var err error
		d, err = BasePairDistance(s, l.ref)
		if err != nil {
			// Fold output and the validated reference always parse.
			panic(fmt.Sprintf("rna: %v", err))
		}
	}
	l.dist[seq] = d
	if d >= 0 && d <= l.delta {
		l.nViable++
	}
	return d
}

// Viable reports whether seq folds and its structure is within delta base
// pairs of the reference.
func (l *Landscape) Viable(seq string) bool {
	d := l.distance(seq)
	return d >= 0 && d <= l.delta
}

// Fitness returns 0 for inviable sequences. Viable sequences have fitness 1
// on the holey variant (beta = 0) and (1 - d/(delta+1))^beta otherwise, so
// fitness declines with distance from the reference and a perfect match has
// fitness 1.
func (l *Landscape) Fitness(seq string) float64 {
	d := l.distance(seq)
	if d < 0 || d > l.delta {
		return 0
	}
	if l.beta == 0 {
		return 1
	}
	return math.Pow(1-float64(d)/float64(l.delta+1), l.beta)
}

// Stats reports the sequences folded so far.
func (l *Landscape) Stats() sim.LandscapeStats {
	return sim.LandscapeStats{Evaluated: len(l.dist), Viable: l.nViable}
}
