package cmd

import (
	"github.com/spf13/cobra"

	"github.com/dmi-sim/dmi-sim/sim/experiment"
)

// CLI flags shared by the simulation commands. Explicit flags override both
// preset and YAML-spec values.
var (
	experimentFile string  // Path to a YAML experiment spec
	presetName     string  // Name of a built-in experiment preset
	name           string  // Run name recorded in metadata
	seed           int64   // Master seed; replicate seeds derive from it
	model          string  // Landscape model
	length         int     // Number of loci / bases
	viabilityP     float64 // Roulette: per-genotype viability probability
	delta          int     // RNA: max base-pair distance from the reference
	beta           float64 // RNA-fitness: fitness decay exponent
	minPairs       int     // RNA: folds with fewer pairs count as unfolded
	reference      string  // RNA: explicit dot-bracket reference structure
	ancestor       string  // Explicit founding genotype
	regime         string  // Substitution regime
	popSize        int     // Fixation regime: population size
	steps          int     // Attempted substitutions per replicate
	replicates     int     // Independent replicates
	recordEvery    int     // History thinning interval
	hybridEvery    int     // Steps between hybrid sampling rounds (0 = off)
	hybridSamples  int     // Crosses per hybrid sampling round
	dfeEvery       int     // Steps between DFE sampling rounds (0 = off)
	dfeSamples     int     // Mutants per DFE round (0 = exhaustive)
	outDir         string  // Output directory
	formats        []string // Output formats (csv, xlsx, sqlite)
)

// addSpecFlags registers the experiment flags on a simulation command.
func addSpecFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&experimentFile, "experiment", "", "Path to a YAML experiment spec")
	cmd.Flags().StringVar(&presetName, "preset", "", "Built-in experiment preset name")
	cmd.Flags().StringVar(&name, "name", "", "Run name recorded in metadata")
	cmd.Flags().Int64Var(&seed, "seed", 42, "Master seed for all random draws")
	cmd.Flags().StringVar(&model, "model", "roulette", "Landscape model (roulette, rna-holey, rna-fitness)")
	cmd.Flags().IntVar(&length, "length", 18, "Number of loci (roulette) or bases (rna)")
	cmd.Flags().Float64Var(&viabilityP, "p", 0.5, "Roulette: probability a genotype is viable")
	cmd.Flags().IntVar(&delta, "delta", 2, "RNA: max base-pair distance from the reference structure")
	cmd.Flags().Float64Var(&beta, "beta", 1.0, "RNA-fitness: fitness decay exponent")
	cmd.Flags().IntVar(&minPairs, "min-pairs", 0, "RNA: folds with fewer base pairs count as unfolded (0 = default)")
	cmd.Flags().StringVar(&reference, "reference", "", "RNA: explicit dot-bracket reference structure")
	cmd.Flags().StringVar(&ancestor, "ancestor", "", "Explicit founding genotype")
	cmd.Flags().StringVar(&regime, "regime", "", "Substitution regime (blind, myopic, fixation)")
	cmd.Flags().IntVar(&popSize, "popsize", 1000, "Population size for the fixation regime")
	cmd.Flags().IntVar(&steps, "steps", 2000, "Attempted substitutions per replicate")
	cmd.Flags().IntVar(&replicates, "replicates", 1, "Number of independent replicates")
	cmd.Flags().IntVar(&recordEvery, "record-every", 1, "Record every Nth history row")
	cmd.Flags().IntVar(&hybridEvery, "hybrid-every", 0, "Sample hybrids every N steps (0 = never)")
	cmd.Flags().IntVar(&hybridSamples, "hybrid-samples", 100, "Crosses per hybrid sampling round")
	cmd.Flags().IntVar(&dfeEvery, "dfe-every", 0, "Sample fitness effects every N steps (0 = never)")
	cmd.Flags().IntVar(&dfeSamples, "dfe-samples", 0, "Mutants per DFE round (0 = all single mutants)")
	cmd.Flags().StringVar(&outDir, "out", "out", "Output directory")
	cmd.Flags().StringSliceVar(&formats, "format", []string{"csv"}, "Output formats (csv, xlsx, sqlite)")
}

// buildSpec assembles the experiment spec for a command: preset or YAML file
// as the base, then every explicitly-set flag layered on top.
func buildSpec(cmd *cobra.Command, kind string) (*experiment.Spec, error) {
	var spec *experiment.Spec
	switch {
	case experimentFile != "":
		loaded, err := experiment.Load(experimentFile)
		if err != nil {
			return nil, err
		}
		spec = loaded
	case presetName != "":
		preset, err := Preset(presetName)
		if err != nil {
			return nil, err
		}
		spec = preset
	default:
		spec = &experiment.Spec{}
	}
	spec.Kind = kind

	set := func(flag string, apply func()) {
		if cmd.Flags().Changed(flag) {
			apply()
		}
	}
	set("name", func() { spec.Name = name })
	set("seed", func() { spec.Seed = seed })
	set("model", func() { spec.Model = model })
	set("length", func() { spec.Length = length })
	set("p", func() { spec.P = viabilityP })
	set("delta", func() { spec.Delta = delta })
	set("beta", func() { spec.Beta = beta })
	set("min-pairs", func() { spec.MinPairs = minPairs })
	set("reference", func() { spec.Reference = reference })
	set("ancestor", func() { spec.Ancestor = ancestor })
	set("regime", func() { spec.Regime = regime })
	set("popsize", func() { spec.PopSize = popSize })
	set("steps", func() { spec.Steps = steps })
	set("replicates", func() { spec.Replicates = replicates })
	set("record-every", func() { spec.RecordEvery = recordEvery })
	set("hybrid-every", func() { spec.Hybrids.Every = hybridEvery })
	set("hybrid-samples", func() { spec.Hybrids.Samples = hybridSamples })
	set("dfe-every", func() { spec.DFE.Every = dfeEvery })
	set("dfe-samples", func() { spec.DFE.Samples = dfeSamples })
	set("out", func() { spec.Output.Dir = outDir })
	set("format", func() { spec.Output.Formats = formats })

	spec.ApplyDefaults()
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	return spec, nil
}
