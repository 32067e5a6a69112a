// Package rna implements RNA secondary-structure prediction (Nussinov
// base-pair maximization) and the two RNA-folding fitness landscapes.
package rna

import (
	"fmt"
	"strings"
)

// MinLoop is the minimum number of unpaired bases enclosed by a base pair.
const MinLoop = 3

// CanPair reports whether two bases can form a Watson-Crick or wobble pair.
func CanPair(a, b byte) bool {
	switch {
	case a == 'A' && b == 'U', a == 'U' && b == 'A':
		return true
	case a == 'G' && b == 'C', a == 'C' && b == 'G':
		return true
	case a == 'G' && b == 'U', a == 'U' && b == 'G':
		return true
	}
	return false
}

// OpenStructure returns the structure with no base pairs.
func OpenStructure(length int) string {
	return strings.Repeat(".", length)
}

// Fold predicts the secondary structure of seq by Nussinov base-pair
// maximization and returns it in dot-bracket notation. The traceback is
// deterministic: position j is left unpaired whenever that is optimal, and
// otherwise pairs with the smallest optimal partner.
func Fold(seq string) string {
	n := len(seq)
	if n == 0 {
		return ""
	}
	// table[i][j] = max pairs in seq[i..j]
	table := make([][]int, n)
	for i := range table {
		table[i] = make([]int, n)
	}
	for span := MinLoop + 1; span < n; span++ {
		for i := 0; i+span < n; i++ {
			j := i + span
			best := table[i][j-1]
			for k := i; k <= j-MinLoop-1; k++ {
				if !CanPair(seq[k], seq[j]) {
					continue
				}
				pairs := 1
				if k > i {
					pairs += table[i][k-1]
				}
				if k+1 <= j-1 {
					pairs += table[k+1][j-1]
				}
				if pairs > best {
					best = pairs
				}
			}
			table[i][j] = best
		}
	}

	structure := []byte(OpenStructure(n))
	traceback(seq, table, 0, n-1, structure)
	return string(structure)
}

func traceback(seq string, table [][]int, i, j int, structure []byte) {
	if i >= j {
		return
	}
	if table[i][j] == table[i][j-1] {
		traceback(seq, table, i, j-1, structure)
		return
	}
	for k := i; k <= j-MinLoop-1; k++ {
		if !CanPair(seq[k], seq[j]) {
			continue
		}
		pairs := 1
		if k > i {
			pairs += table[i][k-1]
		}
		if k+1 <= j-1 {
			pairs += table[k+1][j-1]
		}
		if pairs == table[i][j] {
			structure[k] = '('
			structure[j] = ')'
			traceback(seq, table, i, k-1, structure)
			traceback(seq, table, k+1, j-1, structure)
			return
		}
	}
	// The table guarantees some k achieves the optimum when j is paired.
	panic("rna: traceback found no pairing partner")
}

// PairCount returns the number of base pairs in a dot-bracket structure.
func PairCount(structure string) int {
	return strings.Count(structure, "(")
}

// PairSet parses a dot-bracket structure into its set of base pairs, keyed
// by "i-j" with i < j.
func PairSet(structure string) (map[string]bool, error) {
	pairs := make(map[string]bool)
	var stack []int
	for i := 0; i < len(structure); i++ {
		switch structure[i] {
		case '(':
			stack = append(stack, i)
		case ')':
			if len(stack) == 0 {
				return nil, fmt.Errorf("unbalanced structure %q: unmatched ')' at %d", structure, i)
			}
			j := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			pairs[fmt.Sprintf("%d-%d", j, i)] = true
		case '.':
		default:
			return nil, fmt.Errorf("structure %q: invalid symbol %q at %d", structure, structure[i], i)
		}
	}
	if len(stack) != 0 {
		return nil, fmt.Errorf("unbalanced structure %q: %d unmatched '('", structure, len(stack))
	}
	return pairs, nil
}

// BasePairDistance returns the number of base pairs present in exactly one
// of the two structures (the size of the symmetric difference of their pair
// sets). The structures must describe sequences of equal length.
func BasePairDistance(a, b string) (int, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("structure length mismatch %d vs %d", len(a), len(b))
	}
	pa, err := PairSet(a)
	if err != nil {
		return 0, err
	}
	pb, err := PairSet(b)
	if err != nil {
		return 0, err
	}
	d := 0
	for p := range pa {
		if !pb[p] {
			d++
		}
	}
	for p := range pb {
		if !pa[p] {
			d++
		}
	}
	return d, nil
}
