package sim

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/sirupsen/logrus"
)

// Substitution regimes for a weak-mutation walk.
const (
	// RegimeBlind proposes one uniform single-site mutant per step and
	// moves only if the mutant is viable ("blind ant").
	RegimeBlind = "blind"

	// RegimeMyopic resamples mutants with replacement until a viable one
	// is found, then moves ("myopic ant"). One substitution per step.
	RegimeMyopic = "myopic"

	// RegimeFixation proposes one mutant per step and accepts viable
	// mutants with Kimura's fixation probability under selection.
	// Meaningful only on landscapes with intrinsic fitness differences.
	RegimeFixation = "fixation"
)

// maxMyopicDraws bounds mutant resampling in the myopic regime. A genotype
// whose neighbors are all inviable would otherwise spin forever.
const maxMyopicDraws = 1 << 20

// WalkRecord is one row of a walk history: the state of a lineage after a
// given number of attempted substitutions.
type WalkRecord struct {
	Replicate     int
	Step          int
	Seq           string
	Dist          int
	Nu            float64
	W             float64
	Substitutions int
}

// Walker performs a weak-mutation random walk over a Landscape. The
// population is monomorphic: a single resident genotype that moves to a
// mutant genotype when a substitution fixes.
type Walker struct {
	land    Landscape
	nu      *RobustnessMap
	regime  string
	popSize int

	ancestor      string
	current       string
	steps         int
	substitutions int

	history []WalkRecord
}

// NewWalker founds a walk at the landscape's ancestor. The robustness map
// may be shared with another walker on the same landscape; nil allocates a
// private one. popSize is used only by the fixation regime.
func NewWalker(land Landscape, regime string, popSize int, nu *RobustnessMap) (*Walker, error) {
	switch regime {
	case RegimeBlind, RegimeMyopic:
	case RegimeFixation:
		if popSize <= 0 {
			return nil, fmt.Errorf("fixation regime requires a positive population size, got %d", popSize)
		}
	default:
		return nil, fmt.Errorf("unknown regime %q; valid: blind, myopic, fixation", regime)
	}
	if nu == nil {
		nu = NewRobustnessMap()
	}
	anc := land.Ancestor()
	if !land.Viable(anc) {
		return nil, fmt.Errorf("ancestor %q is not viable", anc)
	}
	w := &Walker{
		land:     land,
		nu:       nu,
		regime:   regime,
		popSize:  popSize,
		ancestor: anc,
		current:  anc,
	}
	w.record()
	return w, nil
}

// Current returns the resident genotype.
func (w *Walker) Current() string { return w.current }

// Ancestor returns the founding genotype.
func (w *Walker) Ancestor() string { return w.ancestor }

// Steps returns the number of attempted substitutions so far.
func (w *Walker) Steps() int { return w.steps }

// Substitutions returns the number of accepted substitutions so far.
func (w *Walker) Substitutions() int { return w.substitutions }

// Dist returns the Hamming distance between the resident and the ancestor.
func (w *Walker) Dist() int { return HammingDistance(w.current, w.ancestor) }

// Robustness returns the resident's mutational robustness.
func (w *Walker) Robustness() float64 { return w.nu.Of(w.land, w.current) }

// History returns the walk history, one record per step plus the founding
// state at step 0.
func (w *Walker) History() []WalkRecord { return w.history }

// Step attempts one substitution under the walker's regime and appends the
// resulting state to the history. The resident stays viable throughout.
func (w *Walker) Step(rng *rand.Rand) {
	switch w.regime {
	case RegimeBlind:
		mut := MutateRandom(w.current, w.land.Alphabet(), rng)
		if w.land.Viable(mut) {
			w.current = mut
			w.substitutions++
		}
	case RegimeMyopic:
		w.stepMyopic(rng)
	case RegimeFixation:
		w.stepFixation(rng)
	}
	w.steps++
	w.record()
}

func (w *Walker) stepMyopic(rng *rand.Rand) {
	for i := 0; i < maxMyopicDraws; i++ {
		mut := MutateRandom(w.current, w.land.Alphabet(), rng)
		if w.land.Viable(mut) {
			w.current = mut
			w.substitutions++
			return
		}
	}
	logrus.Warnf("myopic walk found no viable neighbor of %q after %d draws; staying put", w.current, maxMyopicDraws)
}

func (w *Walker) stepFixation(rng *rand.Rand) {
	mut := MutateRandom(w.current, w.land.Alphabet(), rng)
	if !w.land.Viable(mut) {
		return
	}
	s := w.land.Fitness(mut)/w.land.Fitness(w.current) - 1
	if rng.Float64() < FixationProb(s, w.popSize) {
		w.current = mut
		w.substitutions++
	}
}

func (w *Walker) record() {
	w.history = append(w.history, WalkRecord{
		Step:          w.steps,
		Seq:           w.current,
		Dist:          w.Dist(),
		Nu:            w.Robustness(),
		W:             w.land.Fitness(w.current),
		Substitutions: w.substitutions,
	})
}

// FixationProb returns Kimura's probability that a new mutant with selection
// coefficient s fixes in a haploid population of size n:
//
//	u = (1 - e^(-2s)) / (1 - e^(-2ns))
//
// Effectively neutral mutants (|s| below 1e-12) fix with probability 1/n.
func FixationProb(s float64, n int) float64 {
	if math.Abs(s) < 1e-12 {
		return 1 / float64(n)
	}
	u := (1 - math.Exp(-2*s)) / (1 - math.Exp(-2*float64(n)*s))
	if math.IsNaN(u) {
		logrus.Warnf("fixation probability underflow at s=%g, n=%d; treating as neutral", s, n)
		return 1 / float64(n)
	}
	if u < 0 {
		return 0
	}
	return u
}
