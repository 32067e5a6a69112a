// Package experiment loads, validates, and runs experiment specifications:
// a YAML description of one simulation (model, landscape parameters, walk
// regime, sampling cadence, outputs) executed over independent replicates.
package experiment

import (
	"bytes"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/dmi-sim/dmi-sim/sim"
)

// Experiment kinds.
const (
	// KindDiverge runs two lineages from a common ancestor and tracks
	// incompatible introgressions (the main experiment).
	KindDiverge = "diverge"
	// KindWalk runs a single lineage and records its walk history.
	KindWalk = "walk"
	// KindDFE samples the distribution of fitness effects of the resident
	// after an optional walk.
	KindDFE = "dfe"
)

// Spec is the top-level experiment configuration, loaded from YAML via
// Load(path). Zero values take the documented defaults.
type Spec struct {
	Name string `yaml:"name"`
	Kind string `yaml:"kind"`
	Seed int64  `yaml:"seed"`

	Model     string  `yaml:"model"`
	Length    int     `yaml:"length"`
	P         float64 `yaml:"p"`         // roulette: per-genotype viability probability
	Delta     int     `yaml:"delta"`     // rna: max base-pair distance from the reference
	Beta      float64 `yaml:"beta"`      // rna-fitness: fitness decay exponent
	MinPairs  int     `yaml:"min_pairs"` // rna: fewer pairs than this folds open
	Reference string  `yaml:"reference"` // rna: explicit dot-bracket reference
	Ancestor  string  `yaml:"ancestor"`  // explicit founding genotype

	Regime  string `yaml:"regime"`
	PopSize int    `yaml:"popsize"` // fixation regime: population size

	Steps       int `yaml:"steps"`
	Replicates  int `yaml:"replicates"`
	RecordEvery int `yaml:"record_every"`

	Hybrids SamplingSpec `yaml:"hybrids"`
	DFE     SamplingSpec `yaml:"dfe"`

	Output OutputSpec `yaml:"output"`
}

// SamplingSpec schedules periodic sampling during a divergence run.
// Every = 0 disables the sampler.
type SamplingSpec struct {
	Every   int `yaml:"every"`
	Samples int `yaml:"samples"`
}

// OutputSpec selects output destinations.
type OutputSpec struct {
	Dir     string   `yaml:"dir"`
	Formats []string `yaml:"formats"`
}

// Valid value registries.
var (
	validKinds = map[string]bool{
		KindDiverge: true, KindWalk: true, KindDFE: true,
	}
	validModels = map[string]bool{
		sim.ModelRoulette: true, sim.ModelRNAHoley: true, sim.ModelRNAFitness: true,
	}
	validRegimes = map[string]bool{
		sim.RegimeBlind: true, sim.RegimeMyopic: true, sim.RegimeFixation: true,
	}
	validFormats = map[string]bool{
		"csv": true, "xlsx": true, "sqlite": true,
	}
)

// Load reads and parses a YAML experiment spec, applies defaults, and
// validates it. Parsing is strict: unrecognized keys (typos) are rejected.
func Load(path string) (*Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading experiment spec: %w", err)
	}
	var spec Spec
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&spec); err != nil {
		return nil, fmt.Errorf("parsing experiment spec: %w", err)
	}
	spec.ApplyDefaults()
	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("invalid experiment spec: %w", err)
	}
	return &spec, nil
}

// ApplyDefaults fills zero-valued fields with the documented defaults.
func (s *Spec) ApplyDefaults() {
	if s.Kind == "" {
		s.Kind = KindDiverge
	}
	if s.Model == "" {
		s.Model = sim.ModelRoulette
	}
	if s.Length == 0 {
		s.Length = 18
	}
	if s.P == 0 && s.Model == sim.ModelRoulette {
		s.P = 0.5
	}
	if s.Delta == 0 && s.Model != sim.ModelRoulette {
		s.Delta = 2
	}
	if s.Beta == 0 && s.Model == sim.ModelRNAFitness {
		s.Beta = 1
	}
	if s.Regime == "" {
		if s.Model == sim.ModelRNAFitness {
			s.Regime = sim.RegimeFixation
		} else {
			s.Regime = sim.RegimeBlind
		}
	}
	if s.PopSize == 0 {
		s.PopSize = 1000
	}
	if s.Steps == 0 {
		s.Steps = 2000
	}
	if s.Replicates == 0 {
		s.Replicates = 1
	}
	if s.RecordEvery == 0 {
		s.RecordEvery = 1
	}
	if s.Hybrids.Every > 0 && s.Hybrids.Samples == 0 {
		s.Hybrids.Samples = 100
	}
	if s.Output.Dir == "" {
		s.Output.Dir = "out"
	}
	if len(s.Output.Formats) == 0 {
		s.Output.Formats = []string{"csv"}
	}
}

// Validate checks every field, naming the offending path in the error.
func (s *Spec) Validate() error {
	if !validKinds[s.Kind] {
		return fmt.Errorf("kind: unknown %q; valid: diverge, walk, dfe", s.Kind)
	}
	if !validModels[s.Model] {
		return fmt.Errorf("model: unknown %q; valid: roulette, rna-holey, rna-fitness", s.Model)
	}
	if !validRegimes[s.Regime] {
		return fmt.Errorf("regime: unknown %q; valid: blind, myopic, fixation", s.Regime)
	}
	if s.Regime == sim.RegimeFixation && s.Model != sim.ModelRNAFitness {
		return fmt.Errorf("regime: fixation degenerates to the blind ant on holey landscapes; use blind or myopic with model %q", s.Model)
	}
	if s.Length <= 0 {
		return fmt.Errorf("length: must be positive, got %d", s.Length)
	}
	if s.P < 0 || s.P > 1 || math.IsNaN(s.P) {
		return fmt.Errorf("p: must be in [0, 1], got %f", s.P)
	}
	if s.Delta < 0 {
		return fmt.Errorf("delta: must be non-negative, got %d", s.Delta)
	}
	if s.Beta < 0 || math.IsNaN(s.Beta) || math.IsInf(s.Beta, 0) {
		return fmt.Errorf("beta: must be a finite non-negative number, got %f", s.Beta)
	}
	if s.MinPairs < 0 {
		return fmt.Errorf("min_pairs: must be non-negative, got %d", s.MinPairs)
	}
	if s.PopSize <= 0 {
		return fmt.Errorf("popsize: must be positive, got %d", s.PopSize)
	}
	if s.Steps < 0 {
		return fmt.Errorf("steps: must be non-negative, got %d", s.Steps)
	}
	if s.Replicates <= 0 {
		return fmt.Errorf("replicates: must be positive, got %d", s.Replicates)
	}
	if s.RecordEvery <= 0 {
		return fmt.Errorf("record_every: must be positive, got %d", s.RecordEvery)
	}
	if s.Hybrids.Every < 0 {
		return fmt.Errorf("hybrids.every: must be non-negative, got %d", s.Hybrids.Every)
	}
	if s.Hybrids.Every > 0 && s.Hybrids.Samples <= 0 {
		return fmt.Errorf("hybrids.samples: must be positive when hybrids.every is set, got %d", s.Hybrids.Samples)
	}
	if s.DFE.Every < 0 {
		return fmt.Errorf("dfe.every: must be non-negative, got %d", s.DFE.Every)
	}
	if s.DFE.Samples < 0 {
		return fmt.Errorf("dfe.samples: must be non-negative, got %d", s.DFE.Samples)
	}
	for _, f := range s.Output.Formats {
		if !validFormats[f] {
			return fmt.Errorf("output.formats: unknown format %q; valid: csv, xlsx, sqlite", f)
		}
	}
	return nil
}

// LandscapeConfig maps the spec's landscape fields onto a sim config.
func (s *Spec) LandscapeConfig() sim.LandscapeConfig {
	return sim.LandscapeConfig{
		Model:     s.Model,
		Length:    s.Length,
		P:         s.P,
		Delta:     s.Delta,
		Beta:      s.Beta,
		MinPairs:  s.MinPairs,
		Reference: s.Reference,
		Ancestor:  s.Ancestor,
	}
}

// Params returns the landscape parameters relevant to the spec's model, for
// the run metadata sidecar.
func (s *Spec) Params() map[string]string {
	p := map[string]string{
		"length": fmt.Sprintf("%d", s.Length),
	}
	switch s.Model {
	case sim.ModelRoulette:
		p["p"] = fmt.Sprintf("%g", s.P)
	case sim.ModelRNAHoley:
		p["delta"] = fmt.Sprintf("%d", s.Delta)
	case sim.ModelRNAFitness:
		p["delta"] = fmt.Sprintf("%d", s.Delta)
		p["beta"] = fmt.Sprintf("%g", s.Beta)
		p["popsize"] = fmt.Sprintf("%d", s.PopSize)
	}
	if s.Reference != "" {
		p["reference"] = s.Reference
	}
	return p
}
