// core/dna/codon.go
package dna

import (
	"fmt"
	"sort"
	"strings"
)

// CodonSet is a membership table over the 64 unambiguous codons.
// Codons containing anything other than A, C, G or T are never members.
type CodonSet struct {
	bits uint64
}

var baseIndex [256]int8

func init() {
	for i := range baseIndex {
		baseIndex[i] = -1
	}
	baseIndex['A'], baseIndex['C'], baseIndex['G'], baseIndex['T'] = 0, 1, 2, 3
	baseIndex['a'], baseIndex['c'], baseIndex['g'], baseIndex['t'] = 0, 1, 2, 3
}

func codonIndex(c []byte) int {
	if len(c) < 3 {
		return -1
	}
	idx := 0
	for _, b := range c[:3] {
		v := baseIndex[b]
		if v < 0 {
			return -1
		}
		idx = idx<<2 | int(v)
	}
	return idx
}

// NewCodonSet builds a set from codon strings such as "ATG". It panics on
// malformed codons; sets are built from literals at init time.
func NewCodonSet(codons ...string) CodonSet {
	var s CodonSet
	for _, c := range codons {
		i := codonIndex([]byte(c))
		if i < 0 || len(c) != 3 {
			panic(fmt.Sprintf("dna: invalid codon %q", c))
		}
		s.bits |= 1 << uint(i)
	}
	return s
}

// Has reports whether the first three bytes of c form a member codon.
func (s CodonSet) Has(c []byte) bool {
	i := codonIndex(c)
	return i >= 0 && s.bits&(1<<uint(i)) != 0
}

// Len is the number of codons in the set.
func (s CodonSet) Len() int {
	n := 0
	for b := s.bits; b != 0; b &= b - 1 {
		n++
	}
	return n
}

func (s CodonSet) String() string {
	const alpha = "ACGT"
	var out []string
	for i := 0; i < 64; i++ {
		if s.bits&(1<<uint(i)) != 0 {
			out = append(out, string([]byte{alpha[i>>4], alpha[(i>>2)&3], alpha[i&3]}))
		}
	}
	sort.Strings(out)
	return strings.Join(out, ",")
}

type codeTable struct {
	starts CodonSet
	stops  CodonSet
}

// Start and stop tables for the genetic codes found in bacterial genomes.
// Start sets are limited to the codons gene callers actually use.
var codes = map[int]codeTable{
	1:  {starts: NewCodonSet("ATG"), stops: NewCodonSet("TAA", "TAG", "TGA")},
	4:  {starts: NewCodonSet("ATG", "GTG", "TTG"), stops: NewCodonSet("TAA", "TAG")},
	11: {starts: NewCodonSet("ATG", "GTG", "TTG"), stops: NewCodonSet("TAA", "TAG", "TGA")},
	25: {starts: NewCodonSet("ATG", "GTG", "TTG"), stops: NewCodonSet("TAA", "TAG")},
}

// Supported reports whether the genetic code has start and stop tables.
func Supported(code int) bool {
	_, ok := codes[code]
	return ok
}

// Starts returns the start codons for a genetic code.
func Starts(code int) (CodonSet, error) {
	t, ok := codes[code]
	if !ok {
		return CodonSet{}, fmt.Errorf("unsupported genetic code %d", code)
	}
	return t.starts, nil
}

// Stops returns the stop codons for a genetic code.
func Stops(code int) (CodonSet, error) {
	t, ok := codes[code]
	if !ok {
		return CodonSet{}, fmt.Errorf("unsupported genetic code %d", code)
	}
	return t.stops, nil
}
