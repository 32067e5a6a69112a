package sim

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSampleDFE_ExhaustiveSize(t *testing.T) {
	l, err := NewRouletteLandscape(LandscapeConfig{Length: 10, P: 0.5}, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	recs := SampleDFE(l, l.Ancestor(), 0, nil)
	assert.Len(t, recs, 10*(Binary.Size()-1))

	seen := make(map[string]bool)
	for _, r := range recs {
		key := fmt.Sprintf("%d:%s>%s", r.Site, r.FromAllele, r.ToAllele)
		assert.False(t, seen[key], "mutant enumerated twice")
		seen[key] = true
	}
}

func TestSampleDFE_LethalMatchesViability(t *testing.T) {
	l, err := NewRouletteLandscape(LandscapeConfig{Length: 12, P: 0.4}, rand.New(rand.NewSource(2)))
	require.NoError(t, err)
	for _, r := range SampleDFE(l, l.Ancestor(), 0, nil) {
		mut := ReplaceAllele(l.Ancestor(), r.Site, r.ToAllele[0])
		assert.Equal(t, !l.Viable(mut), r.Lethal)
		assert.Equal(t, r.WMutant == 0, r.Lethal)
		if r.Lethal {
			assert.Equal(t, -1.0, r.S)
		} else {
			assert.Equal(t, 0.0, r.S, "holey landscape: viable mutants are neutral")
		}
	}
}

func TestSampleDFE_RandomDraws(t *testing.T) {
	l, err := NewRouletteLandscape(LandscapeConfig{Length: 8, P: 0.5}, rand.New(rand.NewSource(3)))
	require.NoError(t, err)
	rng := rand.New(rand.NewSource(4))
	recs := SampleDFE(l, l.Ancestor(), 250, rng)
	assert.Len(t, recs, 250)
	for _, r := range recs {
		assert.NotEqual(t, r.FromAllele, r.ToAllele)
		assert.Equal(t, string(l.Ancestor()[r.Site]), r.FromAllele)
		assert.Equal(t, 1.0, r.WParent)
	}
}

func TestSampleDFE_ParentFitnessRecorded(t *testing.T) {
	l, err := NewRouletteLandscape(LandscapeConfig{Length: 6, P: 1}, rand.New(rand.NewSource(5)))
	require.NoError(t, err)
	for _, r := range SampleDFE(l, l.Ancestor(), 0, nil) {
		assert.Equal(t, 1.0, r.WParent)
		assert.False(t, r.Lethal)
	}
}
