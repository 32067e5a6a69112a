package rna

import (
	"math/rand"

	"github.com/dmi-sim/dmi-sim/sim"
)

func init() {
	sim.NewRNALandscapeFunc = func(cfg sim.LandscapeConfig, rng *rand.Rand) (sim.Landscape, error) {
		if cfg.Model == sim.ModelRNAHoley {
			cfg.Beta = 0
		}
		return New(cfg, rng)
	}
}
