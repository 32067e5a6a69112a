package cmd

import (
	"fmt"
	"sort"

	"github.com/dmi-sim/dmi-sim/sim"
	"github.com/dmi-sim/dmi-sim/sim/experiment"
)

// presets are the experiment configurations used in the accompanying study.
// Preset values are a base layer: explicit CLI flags still override them.
var presets = map[string]experiment.Spec{
	"roulette-weak": {
		Name:       "roulette-weak",
		Model:      sim.ModelRoulette,
		Length:     18,
		P:          0.45,
		Regime:     sim.RegimeBlind,
		Steps:      3000,
		Replicates: 100,
	},
	"roulette-dense": {
		Name:       "roulette-dense",
		Model:      sim.ModelRoulette,
		Length:     18,
		P:          0.8,
		Regime:     sim.RegimeMyopic,
		Steps:      3000,
		Replicates: 100,
	},
	"rna-holey": {
		Name:       "rna-holey",
		Model:      sim.ModelRNAHoley,
		Length:     30,
		Delta:      2,
		Regime:     sim.RegimeBlind,
		Steps:      1000,
		Replicates: 50,
		Hybrids:    experiment.SamplingSpec{Every: 100, Samples: 200},
	},
	"rna-fitness": {
		Name:       "rna-fitness",
		Model:      sim.ModelRNAFitness,
		Length:     30,
		Delta:      4,
		Beta:       1,
		Regime:     sim.RegimeFixation,
		PopSize:    1000,
		Steps:      1000,
		Replicates: 50,
		Hybrids:    experiment.SamplingSpec{Every: 100, Samples: 200},
		DFE:        experiment.SamplingSpec{Every: 250},
	},
}

// Preset returns a copy of the named preset.
func Preset(name string) (*experiment.Spec, error) {
	spec, ok := presets[name]
	if !ok {
		names := make([]string, 0, len(presets))
		for n := range presets {
			names = append(names, n)
		}
		sort.Strings(names)
		return nil, fmt.Errorf("unknown preset %q; available: %v", name, names)
	}
	return &spec, nil
}
