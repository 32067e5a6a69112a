package sim

import (
	"fmt"
	"hash/fnv"
	"math/rand"
)

// === SimulationKey ===

// SimulationKey uniquely identifies a reproducible simulation run.
// Two runs with the same SimulationKey and identical configuration
// MUST produce bit-for-bit identical results.
type SimulationKey int64

// NewSimulationKey creates a SimulationKey from a seed value.
func NewSimulationKey(seed int64) SimulationKey {
	return SimulationKey(seed)
}

// === Subsystem Constants ===

const (
	// SubsystemWalk is the RNG subsystem for substitution proposals.
	// Uses the master seed directly so --seed alone pins the walk.
	SubsystemWalk = "walk"

	// SubsystemLandscape is the RNG subsystem for quenched landscape draws
	// (Russian-roulette viability lotteries, ancestor discovery).
	SubsystemLandscape = "landscape"

	// SubsystemLineage is the RNG subsystem for choosing which of the two
	// diverging lineages attempts the next substitution.
	SubsystemLineage = "lineage"

	// SubsystemHybrids is the RNG subsystem for hybrid and backcross sampling.
	SubsystemHybrids = "hybrids"

	// SubsystemDFE is the RNG subsystem for distribution-of-fitness-effects sampling.
	SubsystemDFE = "dfe"

	// SubsystemReplicates is the RNG subsystem that derives per-replicate seeds.
	SubsystemReplicates = "replicates"
)

// === PartitionedRNG ===

// PartitionedRNG provides deterministic, isolated RNG instances per subsystem.
//
// Derivation formula:
//   - For SubsystemWalk: uses masterSeed directly
//   - For all other subsystems: masterSeed XOR fnv1a64(subsystemName)
//
// Isolation matters here: probing incompatible introgressions or sampling a
// DFE consumes random draws, and without partitioning those probes would
// perturb the substitution trajectory itself.
//
// Thread-safety: NOT thread-safe. Must be called from a single goroutine.
// Concurrent replicates each own their own PartitionedRNG.
type PartitionedRNG struct {
	key        SimulationKey
	subsystems map[string]*rand.Rand
}

// NewPartitionedRNG creates a PartitionedRNG from a SimulationKey.
func NewPartitionedRNG(key SimulationKey) *PartitionedRNG {
	return &PartitionedRNG{
		key:        key,
		subsystems: make(map[string]*rand.Rand),
	}
}

// ForSubsystem returns a deterministically-seeded RNG for the named subsystem.
// The same subsystem name always returns the same *rand.Rand instance (cached).
// Never returns nil.
func (p *PartitionedRNG) ForSubsystem(name string) *rand.Rand {
	if rng, ok := p.subsystems[name]; ok {
		return rng
	}

	var derivedSeed int64
	if name == SubsystemWalk {
		// The primary subsystem keeps the master seed so that the walk
		// trajectory is pinned by --seed alone.
		derivedSeed = int64(p.key)
	} else {
		// All other subsystems: XOR with hash for isolation.
		derivedSeed = int64(p.key) ^ fnv1a64(name)
	}

	rng := rand.New(rand.NewSource(derivedSeed))
	p.subsystems[name] = rng
	return rng
}

// ReplicateSeed derives the seed for replicate i. Derivation is positional
// and stateless, so replicates can be constructed in any order (or in
// parallel) and still receive identical seeds.
func (p *PartitionedRNG) ReplicateSeed(i int) int64 {
	return int64(p.key) ^ fnv1a64(fmt.Sprintf("%s_%d", SubsystemReplicates, i))
}

// Key returns the SimulationKey used to create this PartitionedRNG.
func (p *PartitionedRNG) Key() SimulationKey {
	return p.key
}

// fnv1a64 computes a 64-bit FNV-1a hash of the input string.
func fnv1a64(s string) int64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return int64(h.Sum64())
}
