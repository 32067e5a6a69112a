// Package sim provides the core population-genetic simulation engine:
// weak-mutation walks over holey fitness landscapes and the accumulation of
// Dobzhansky-Muller incompatibilities between diverging lineages.
//
// # Reading Guide
//
// Start with these three files to understand the model:
//   - sequence.go: genotypes as strings over an alphabet, mutation,
//     Hamming distance, single-site introgressions
//   - landscape.go: the Landscape interface (quenched viability/fitness)
//     and mutational robustness
//   - diverge.go: two lineages diverging from a common ancestor and the
//     incompatible-introgression probe that counts DMIs
//
// # Architecture
//
// The sim package defines the Landscape interface and the Monte Carlo
// drivers; implementations and plumbing live in sub-packages:
//   - sim/rna/: RNA secondary-structure folding and the two RNA landscapes
//   - sim/experiment/: YAML experiment specs and the replicate runner
//   - sim/record/: CSV/XLSX/SQLite output sinks with run metadata
//   - sim/stats/: cross-replicate aggregation and snowball curve fits
//
// The Russian-roulette landscape lives here (roulette.go); the RNA
// landscapes register their constructor via init() through the
// NewRNALandscapeFunc factory variable.
//
// # Determinism
//
// Every random draw flows through a PartitionedRNG (rng.go): one master
// seed, one derived stream per subsystem, so probing introgressions or
// sampling a DFE never perturbs the substitution trajectory. Replicate
// seeds are derived positionally, so parallel execution is bit-reproducible.
package sim
