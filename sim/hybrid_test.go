package sim

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmi-sim/dmi-sim/sim/internal/testutil"
)

func TestSampleCross_IdenticalParents(t *testing.T) {
	l, err := NewRouletteLandscape(LandscapeConfig{Length: 10, P: 0.5}, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	rng := rand.New(rand.NewSource(2))
	rec, err := SampleCross(l, l.Ancestor(), l.Ancestor(), CrossHybrid, 50, rng)
	require.NoError(t, err)
	assert.Equal(t, 0, rec.D12)
	assert.Equal(t, 1.0, rec.ViableFraction)
	assert.Equal(t, 1.0, rec.MeanW)
}

func TestSampleCross_FlatLandscapeAllViable(t *testing.T) {
	l, err := NewRouletteLandscape(LandscapeConfig{Length: 10, P: 1, Ancestor: "0000000000"}, rand.New(rand.NewSource(3)))
	require.NoError(t, err)
	rng := rand.New(rand.NewSource(4))
	for _, kind := range CrossKinds {
		rec, err := SampleCross(l, "0000000000", "0011001100", kind, 200, rng)
		require.NoError(t, err)
		assert.Equal(t, 4, rec.D12)
		assert.Equal(t, 1.0, rec.ViableFraction, "cross %s", kind)
		assert.Equal(t, 1.0, rec.MeanW, "cross %s", kind)
	}
}

func TestSampleCross_DonorAlleleFrequency(t *testing.T) {
	// One diverged site, donor allele inviable: the viable fraction is
	// exactly one minus the kind's donor probability.
	l, err := NewRouletteLandscape(LandscapeConfig{Length: 1, P: 0, Ancestor: "0"}, rand.New(rand.NewSource(5)))
	require.NoError(t, err)
	require.False(t, l.Viable("1"))

	want := map[string]float64{CrossHybrid: 0.5, CrossBackcross1: 0.25, CrossBackcross2: 0.75}
	for kind, prob := range want {
		rng := rand.New(rand.NewSource(6))
		rec, err := SampleCross(l, "0", "1", kind, 5000, rng)
		require.NoError(t, err)
		testutil.AssertRate(t, "viable fraction "+kind, 1-prob, rec.ViableFraction, 0.03)
	}
}

func TestSampleCross_UnknownKind(t *testing.T) {
	l, err := NewRouletteLandscape(LandscapeConfig{Length: 4, P: 1}, rand.New(rand.NewSource(7)))
	require.NoError(t, err)
	_, err = SampleCross(l, "0000", "1111", "f2", 10, rand.New(rand.NewSource(8)))
	assert.ErrorContains(t, err, "unknown cross kind")
}

func TestSampleCross_RequiresPositiveN(t *testing.T) {
	l, err := NewRouletteLandscape(LandscapeConfig{Length: 4, P: 1}, rand.New(rand.NewSource(9)))
	require.NoError(t, err)
	_, err = SampleCross(l, "0000", "1111", CrossHybrid, 0, rand.New(rand.NewSource(10)))
	assert.ErrorContains(t, err, "sample size")
}

func TestSampleCross_ViableFractionBounded(t *testing.T) {
	l, err := NewRouletteLandscape(LandscapeConfig{Length: 12, P: 0.3}, rand.New(rand.NewSource(11)))
	require.NoError(t, err)
	rng := rand.New(rand.NewSource(12))
	p1 := l.Ancestor()
	p2 := FlipSites(p1, 0, 3, 7, 9)
	l.MakeViable(p2)
	rec, err := SampleCross(l, p1, p2, CrossHybrid, 300, rng)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, rec.ViableFraction, 0.0)
	assert.LessOrEqual(t, rec.ViableFraction, 1.0)
	assert.InDelta(t, rec.ViableFraction, rec.MeanW, 1e-12, "holey landscape: mean fitness equals viable fraction")
}
