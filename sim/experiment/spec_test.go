package experiment

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmi-sim/dmi-sim/sim"
)

func writeSpec(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "exp.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_AppliesDefaults(t *testing.T) {
	spec, err := Load(writeSpec(t, "name: minimal\n"))
	require.NoError(t, err)
	assert.Equal(t, KindDiverge, spec.Kind)
	assert.Equal(t, sim.ModelRoulette, spec.Model)
	assert.Equal(t, 18, spec.Length)
	assert.Equal(t, 0.5, spec.P)
	assert.Equal(t, sim.RegimeBlind, spec.Regime)
	assert.Equal(t, 2000, spec.Steps)
	assert.Equal(t, 1, spec.Replicates)
	assert.Equal(t, 1, spec.RecordEvery)
	assert.Equal(t, "out", spec.Output.Dir)
	assert.Equal(t, []string{"csv"}, spec.Output.Formats)
}

func TestLoad_RejectsUnknownKeys(t *testing.T) {
	_, err := Load(writeSpec(t, "name: typo\nstepps: 100\n"))
	assert.ErrorContains(t, err, "parsing experiment spec")
}

func TestLoad_FullSpec(t *testing.T) {
	spec, err := Load(writeSpec(t, `
name: rna-deep
kind: diverge
seed: 7
model: rna-fitness
length: 30
delta: 4
beta: 2
regime: fixation
popsize: 500
steps: 1000
replicates: 20
record_every: 10
hybrids:
  every: 100
  samples: 200
dfe:
  every: 250
  samples: 0
output:
  dir: results
  formats: [csv, sqlite]
`))
	require.NoError(t, err)
	assert.Equal(t, int64(7), spec.Seed)
	assert.Equal(t, sim.ModelRNAFitness, spec.Model)
	assert.Equal(t, 2.0, spec.Beta)
	assert.Equal(t, 100, spec.Hybrids.Every)
	assert.Equal(t, 200, spec.Hybrids.Samples)
	assert.Equal(t, 250, spec.DFE.Every)
	assert.Equal(t, "results", spec.Output.Dir)
	assert.Equal(t, []string{"csv", "sqlite"}, spec.Output.Formats)
}

func TestValidate_FieldPaths(t *testing.T) {
	base := func() *Spec {
		s := &Spec{}
		s.ApplyDefaults()
		return s
	}
	cases := []struct {
		name   string
		mutate func(*Spec)
		want   string
	}{
		{"kind", func(s *Spec) { s.Kind = "sweep" }, "kind:"},
		{"model", func(s *Spec) { s.Model = "nk" }, "model:"},
		{"regime", func(s *Spec) { s.Regime = "levy" }, "regime:"},
		{"length", func(s *Spec) { s.Length = -1 }, "length:"},
		{"p", func(s *Spec) { s.P = 1.5 }, "p:"},
		{"delta", func(s *Spec) { s.Delta = -1 }, "delta:"},
		{"beta", func(s *Spec) { s.Beta = -1 }, "beta:"},
		{"popsize", func(s *Spec) { s.PopSize = 0 }, "popsize:"},
		{"steps", func(s *Spec) { s.Steps = -5 }, "steps:"},
		{"replicates", func(s *Spec) { s.Replicates = 0 }, "replicates:"},
		{"record_every", func(s *Spec) { s.RecordEvery = 0 }, "record_every:"},
		{"hybrids.every", func(s *Spec) { s.Hybrids.Every = -1 }, "hybrids.every:"},
		{"hybrids.samples", func(s *Spec) { s.Hybrids = SamplingSpec{Every: 10, Samples: 0} }, "hybrids.samples:"},
		{"dfe.every", func(s *Spec) { s.DFE.Every = -1 }, "dfe.every:"},
		{"dfe.samples", func(s *Spec) { s.DFE.Samples = -1 }, "dfe.samples:"},
		{"output.formats", func(s *Spec) { s.Output.Formats = []string{"parquet"} }, "output.formats:"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			s := base()
			c.mutate(s)
			err := s.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), c.want)
		})
	}
}

func TestValidate_FixationOnHoleyRejected(t *testing.T) {
	s := &Spec{Model: sim.ModelRoulette, Regime: sim.RegimeFixation}
	s.ApplyDefaults()
	err := s.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fixation")
}

func TestApplyDefaults_RNAFitness(t *testing.T) {
	s := &Spec{Model: sim.ModelRNAFitness}
	s.ApplyDefaults()
	assert.Equal(t, 2, s.Delta)
	assert.Equal(t, 1.0, s.Beta)
	assert.Equal(t, sim.RegimeFixation, s.Regime)
	assert.Equal(t, 1000, s.PopSize)
	assert.NoError(t, s.Validate())
}

func TestParams_PerModel(t *testing.T) {
	roulette := &Spec{Model: sim.ModelRoulette, P: 0.45}
	roulette.ApplyDefaults()
	p := roulette.Params()
	assert.Contains(t, p, "p")
	assert.NotContains(t, p, "delta")

	rna := &Spec{Model: sim.ModelRNAFitness, Delta: 3, Beta: 2}
	rna.ApplyDefaults()
	p = rna.Params()
	assert.Equal(t, "3", p["delta"])
	assert.Equal(t, "2", p["beta"])
	assert.NotContains(t, p, "p")
}
