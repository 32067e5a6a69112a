package sim

import (
	"fmt"
	"math/rand"
	"strings"
)

// Alphabet is the ordered set of alleles a locus can carry.
// Sequences are strings whose bytes are all members of the alphabet.
type Alphabet string

const (
	// Binary is the two-allele alphabet of the Russian-roulette model.
	Binary Alphabet = "01"

	// RNA is the four-base alphabet of the RNA-folding models.
	RNA Alphabet = "AUGC"
)

// Size returns the number of alleles in the alphabet.
func (a Alphabet) Size() int { return len(a) }

// Contains reports whether b is an allele of the alphabet.
func (a Alphabet) Contains(b byte) bool {
	return strings.IndexByte(string(a), b) >= 0
}

// Check validates that seq is drawn from the alphabet and has the given
// length. length <= 0 skips the length check.
func (a Alphabet) Check(seq string, length int) error {
	if length > 0 && len(seq) != length {
		return fmt.Errorf("sequence has %d loci, want %d", len(seq), length)
	}
	for i := 0; i < len(seq); i++ {
		if !a.Contains(seq[i]) {
			return fmt.Errorf("locus %d: allele %q not in alphabet %q", i, seq[i], string(a))
		}
	}
	return nil
}

// RandomSequence draws a sequence of the given length with iid uniform alleles.
func RandomSequence(a Alphabet, length int, rng *rand.Rand) string {
	var sb strings.Builder
	sb.Grow(length)
	for i := 0; i < length; i++ {
		sb.WriteByte(a[rng.Intn(len(a))])
	}
	return sb.String()
}

// ReplaceAllele returns seq with the allele at site replaced.
func ReplaceAllele(seq string, site int, allele byte) string {
	b := []byte(seq)
	b[site] = allele
	return string(b)
}

// MutateSite returns seq with the allele at site replaced by a different
// allele chosen uniformly from the rest of the alphabet. For the binary
// alphabet this is a deterministic flip.
func MutateSite(seq string, site int, a Alphabet, rng *rand.Rand) string {
	cur := seq[site]
	// Draw from the k-1 alleles that differ from the current one.
	n := rng.Intn(len(a) - 1)
	for i := 0; i < len(a); i++ {
		if a[i] == cur {
			continue
		}
		if n == 0 {
			return ReplaceAllele(seq, site, a[i])
		}
		n--
	}
	panic("sim: allele not in alphabet")
}

// MutateRandom returns seq mutated at a single uniformly chosen site.
func MutateRandom(seq string, a Alphabet, rng *rand.Rand) string {
	return MutateSite(seq, rng.Intn(len(seq)), a, rng)
}

// FlipSites returns a binary sequence with the given sites flipped.
//
//	FlipSites("00000", 0, 1) == "11000"
func FlipSites(seq string, sites ...int) string {
	b := []byte(seq)
	for _, i := range sites {
		if b[i] == '0' {
			b[i] = '1'
		} else {
			b[i] = '0'
		}
	}
	return string(b)
}

// HammingDistance counts the sites at which two sequences differ.
// The sequences must have equal length.
func HammingDistance(a, b string) int {
	if len(a) != len(b) {
		panic(fmt.Sprintf("sim: sequence length mismatch %d vs %d", len(a), len(b)))
	}
	d := 0
	for i := 0; i < len(a); i++ {
		if a[i] != b[i] {
			d++
		}
	}
	return d
}

// SiteDiff lists the diverged sites between two sequences and the alleles
// each sequence carries there. Sites is in ascending order and the three
// slices are parallel.
type SiteDiff struct {
	Sites []int
	A     []byte
	B     []byte
}

// DivergedSites finds the sites at which two equal-length sequences differ.
//
//	DivergedSites("000000", "011010").Sites == [1 2 4]
func DivergedSites(a, b string) SiteDiff {
	if len(a) != len(b) {
		panic(fmt.Sprintf("sim: sequence length mismatch %d vs %d", len(a), len(b)))
	}
	var d SiteDiff
	for i := 0; i < len(a); i++ {
		if a[i] != b[i] {
			d.Sites = append(d.Sites, i)
			d.A = append(d.A, a[i])
			d.B = append(d.B, b[i])
		}
	}
	return d
}

// Introgress constructs every single-site introgression from a donor
// sequence into a recipient sequence: one genotype per diverged site,
// carrying the donor allele at that site on the recipient background.
// Results are ordered by ascending site index.
//
//	Introgress("00000", "01110") == ["01000" "00100" "00010"]
func Introgress(recipient, donor string) []string {
	diff := DivergedSites(recipient, donor)
	if len(diff.Sites) == 0 {
		return nil
	}
	out := make([]string, 0, len(diff.Sites))
	for i, site := range diff.Sites {
		out = append(out, ReplaceAllele(recipient, site, diff.B[i]))
	}
	return out
}

// Int2Seq converts an integer to a binary sequence of length n,
// most significant bit first. x must be < 2^n.
func Int2Seq(x uint64, n int) string {
	if n < 64 && x >= 1<<uint(n) {
		panic(fmt.Sprintf("sim: %d does not fit in %d loci", x, n))
	}
	b := make([]byte, n)
	for i := n - 1; i >= 0; i-- {
		b[i] = '0' + byte(x&1)
		x >>= 1
	}
	return string(b)
}
