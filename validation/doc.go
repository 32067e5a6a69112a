// Package validation holds seeded statistical checks that tie the simulator
// to population-genetics theory: blind-ant substitution rates, neighbor
// viability, introgression rates, and incompatibility accumulation. The
// checks run full experiments through the public API and assert on sample
// statistics with generous tolerances, so they double as end-to-end tests.
package validation
