package sim

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNeighbors_Binary(t *testing.T) {
	got := Neighbors("010", Binary)
	assert.Equal(t, []string{"110", "000", "011"}, got)
}

func TestNeighbors_RNACount(t *testing.T) {
	got := Neighbors("AUGC", RNA)
	assert.Len(t, got, 4*3)
	for _, n := range got {
		assert.Equal(t, 1, HammingDistance("AUGC", n))
	}
}

func TestNewLandscape_Roulette(t *testing.T) {
	l, err := NewLandscape(LandscapeConfig{Model: ModelRoulette, Length: 8, P: 0.5}, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	assert.Equal(t, Binary, l.Alphabet())
	assert.Equal(t, 8, l.Length())
}

func TestNewLandscape_UnknownModel(t *testing.T) {
	_, err := NewLandscape(LandscapeConfig{Model: "nk"}, rand.New(rand.NewSource(1)))
	assert.ErrorContains(t, err, "unknown landscape model")
}

func TestRobustnessMap_CountsViableNeighbors(t *testing.T) {
	// p=1 makes every neighbor viable: robustness 1 everywhere.
	l, err := NewRouletteLandscape(LandscapeConfig{Length: 6, P: 1}, rand.New(rand.NewSource(2)))
	require.NoError(t, err)
	nu := NewRobustnessMap()
	assert.Equal(t, 1.0, nu.Of(l, l.Ancestor()))
	assert.Equal(t, 1.0, nu.Mean())
	assert.Equal(t, 1, nu.Len())

	// p=0: every neighbor of the (forced-viable) ancestor is inviable.
	dead, err := NewRouletteLandscape(LandscapeConfig{Length: 6, P: 0}, rand.New(rand.NewSource(3)))
	require.NoError(t, err)
	nuDead := NewRobustnessMap()
	assert.Equal(t, 0.0, nuDead.Of(dead, dead.Ancestor()))
}

func TestRobustnessMap_Memoizes(t *testing.T) {
	l, err := NewRouletteLandscape(LandscapeConfig{Length: 10, P: 0.5}, rand.New(rand.NewSource(4)))
	require.NoError(t, err)
	nu := NewRobustnessMap()
	first := nu.Of(l, l.Ancestor())
	assert.Equal(t, first, nu.Of(l, l.Ancestor()))
	assert.Equal(t, 1, nu.Len())
}

func TestRobustnessMap_MeanEmpty(t *testing.T) {
	assert.Equal(t, 0.0, NewRobustnessMap().Mean())
}

func TestViableNeighbors_SubsetOfNeighbors(t *testing.T) {
	l, err := NewRouletteLandscape(LandscapeConfig{Length: 8, P: 0.4}, rand.New(rand.NewSource(5)))
	require.NoError(t, err)
	vn := ViableNeighbors(l, l.Ancestor())
	for _, n := range vn {
		assert.True(t, l.Viable(n))
		assert.Equal(t, 1, HammingDistance(l.Ancestor(), n))
	}
	assert.LessOrEqual(t, len(vn), l.Length())
}
