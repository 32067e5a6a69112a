package sim

import (
	"fmt"
	"math/rand"

	"github.com/sirupsen/logrus"
)

// maxAncestorDraws bounds rejection sampling for a viable founding genotype.
// At p >= 1e-3 the bound is effectively never hit.
const maxAncestorDraws = 100000

// RouletteLandscape is a quenched holey landscape: each genotype is viable
// with probability p, drawn once on first evaluation and memoized for the
// rest of the run. All viable genotypes have fitness 1.
type RouletteLandscape struct {
	length    int
	p         float64
	rng       *rand.Rand
	viability map[string]bool
	nViable   int
	ancestor  string
}

// NewRouletteLandscape builds a Russian-roulette landscape. The rng drives
// the per-genotype viability lotteries and, if cfg.Ancestor is empty, the
// search for a viable founding genotype.
func NewRouletteLandscape(cfg LandscapeConfig, rng *rand.Rand) (*RouletteLandscape, error) {
	if cfg.Length <= 0 {
		return nil, fmt.Errorf("length must be positive, got %d", cfg.Length)
	}
	if cfg.P < 0 || cfg.P > 1 {
		return nil, fmt.Errorf("p must be in [0, 1], got %f", cfg.P)
	}
	l := &RouletteLandscape{
		length:    cfg.Length,
		p:         cfg.P,
		rng:       rng,
		viability: make(map[string]bool),
	}
	if cfg.Ancestor != "" {
		if err := Binary.Check(cfg.Ancestor, cfg.Length); err != nil {
			return nil, fmt.Errorf("ancestor: %w", err)
		}
		l.ancestor = cfg.Ancestor
		l.MakeViable(cfg.Ancestor)
		return l, nil
	}
	l.ancestor = l.randomViable()
	return l, nil
}

// randomViable rejection-samples a viable genotype. If none is found within
// the draw budget (p at or near zero), the last draw is forced viable so the
// landscape still has a founding genotype.
func (l *RouletteLandscape) randomViable() string {
	var seq string
	for i := 0; i < maxAncestorDraws; i++ {
		seq = RandomSequence(Binary, l.length, l.rng)
		if l.Viable(seq) {
			return seq
		}
	}
	logrus.Warnf("no viable genotype found after %d draws (p=%g); forcing ancestor viable", maxAncestorDraws, l.p)
	l.MakeViable(seq)
	return seq
}

// Alphabet returns the binary allele set.
func (l *RouletteLandscape) Alphabet() Alphabet { return Binary }

// Length returns the number of loci.
func (l *RouletteLandscape) Length() int { return l.length }

// P returns the per-genotype viability probability.
func (l *RouletteLandscape) P() float64 { return l.p }

// Ancestor returns the founding viable genotype.
func (l *RouletteLandscape) Ancestor() string { return l.ancestor }

// Viable reports whether seq is viable, drawing and memoizing the lottery
// on first evaluation.
func (l *RouletteLandscape) Viable(seq string) bool {
	if v, ok := l.viability[seq]; ok {
		return v
	}
	v := l.rng.Float64() < l.p
	l.viability[seq] = v
	if v {
		l.nViable++
	}
	return v
}

// MakeViable forces seq to be viable, overriding any memoized draw.
// Used to seed the ancestor of a run.
func (l *RouletteLandscape) MakeViable(seq string) {
	if v, ok := l.viability[seq]; ok {
		if !v {
			l.viability[seq] = true
			l.nViable++
		}
		return
	}
	l.viability[seq] = true
	l.nViable++
}

// Fitness returns 1 for viable genotypes and 0 otherwise.
func (l *RouletteLandscape) Fitness(seq string) float64 {
	if l.Viable(seq) {
		return 1
	}
	return 0
}

// Stats reports the genotypes evaluated so far.
func (l *RouletteLandscape) Stats() LandscapeStats {
	return LandscapeStats{Evaluated: len(l.viability), Viable: l.nViable}
}
