package rna

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmi-sim/dmi-sim/sim"
)

func TestCanPair(t *testing.T) {
	pairs := [][2]byte{{'A', 'U'}, {'U', 'A'}, {'G', 'C'}, {'C', 'G'}, {'G', 'U'}, {'U', 'G'}}
	for _, p := range pairs {
		assert.True(t, CanPair(p[0], p[1]), "%c-%c should pair", p[0], p[1])
	}
	nonPairs := [][2]byte{{'A', 'A'}, {'A', 'G'}, {'A', 'C'}, {'C', 'C'}, {'C', 'U'}, {'G', 'G'}, {'U', 'U'}}
	for _, p := range nonPairs {
		assert.False(t, CanPair(p[0], p[1]), "%c-%c should not pair", p[0], p[1])
	}
}

func TestFold_TooShortForPairs(t *testing.T) {
	// No pair can close a loop of fewer than MinLoop unpaired bases.
	assert.Equal(t, "", Fold(""))
	assert.Equal(t, ".", Fold("A"))
	assert.Equal(t, "....", Fold("GAAC"))
	assert.Equal(t, ".....", Fold("AAAAA"))
}

func TestFold_SimpleHairpin(t *testing.T) {
	// GC stem of 3 closing an AAA loop.
	structure := Fold("GGGAAACCC")
	assert.Equal(t, "(((...)))", structure)
	assert.Equal(t, 3, PairCount(structure))
}

func TestFold_NoComplementNoPairs(t *testing.T) {
	assert.Equal(t, OpenStructure(8), Fold("AAAAAAAA"))
	assert.Equal(t, OpenStructure(8), Fold("CCCCCCCC"))
}

func TestFold_StructureIsBalanced(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 50; i++ {
		seq := sim.RandomSequence(sim.RNA, 40, rng)
		structure := Fold(seq)
		require.Len(t, structure, len(seq))
		pairs, err := PairSet(structure)
		require.NoError(t, err, "Fold produced unbalanced structure %q", structure)
		assert.Equal(t, PairCount(structure), len(pairs))
	}
}

func TestFold_PairsAreLegal(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	for i := 0; i < 30; i++ {
		seq := sim.RandomSequence(sim.RNA, 30, rng)
		structure := Fold(seq)
		var stack []int
		for j := 0; j < len(structure); j++ {
			switch structure[j] {
			case '(':
				stack = append(stack, j)
			case ')':
				k := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				assert.True(t, CanPair(seq[k], seq[j]), "illegal pair %c-%c in %q", seq[k], seq[j], seq)
				assert.GreaterOrEqual(t, j-k-1, MinLoop, "loop shorter than %d in %q", MinLoop, structure)
			}
		}
	}
}

func TestFold_Deterministic(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 20; i++ {
		seq := sim.RandomSequence(sim.RNA, 35, rng)
		assert.Equal(t, Fold(seq), Fold(seq))
	}
}

func TestPairSet_Errors(t *testing.T) {
	_, err := PairSet("(()")
	assert.Error(t, err)
	_, err = PairSet("())")
	assert.Error(t, err)
	_, err = PairSet("..x.")
	assert.Error(t, err)
}

func TestBasePairDistance_Identities(t *testing.T) {
	a := "(((...)))."
	b := ".((....))."
	open := OpenStructure(10)

	dAA, err := BasePairDistance(a, a)
	require.NoError(t, err)
	assert.Equal(t, 0, dAA)

	dAB, err := BasePairDistance(a, b)
	require.NoError(t, err)
	dBA, err := BasePairDistance(b, a)
	require.NoError(t, err)
	assert.Equal(t, dAB, dBA, "distance must be symmetric")

	dAOpen, err := BasePairDistance(a, open)
	require.NoError(t, err)
	assert.Equal(t, PairCount(a), dAOpen)

	assert.LessOrEqual(t, dAB, PairCount(a)+PairCount(b))
}

func TestBasePairDistance_DisjointStems(t *testing.T) {
	a := "((....)).."
	b := "..((....))"
	d, err := BasePairDistance(a, b)
	require.NoError(t, err)
	assert.Equal(t, 4, d)
}

func TestBasePairDistance_LengthMismatch(t *testing.T) {
	_, err := BasePairDistance("...", "....")
	assert.Error(t, err)
}
