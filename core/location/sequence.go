// core/location/sequence.go
package location

import (
	"fmt"
	"iter"

	"orfset-core/dna"
)

// Pad fills neighborhood slots that fall off the end of a contig.
const Pad = '-'

// StrandSource supplies whole-contig sequence oriented along a strand. For
// the minus strand this is the reverse complement of the contig.
type StrandSource interface {
	Strand(contig string, forward bool) ([]byte, error)
}

// SequenceLocation is a Location bound to sequence. Positions handed in and
// out are relative to the location: 1 is the location's Begin base, counting
// along its strand.
type SequenceLocation struct {
	loc    Location
	strand []byte // the whole contig, oriented along loc.Strand
	off    int    // index in strand of relative position 1
	n      int
}

// Bind attaches sequence to loc. The location must lie inside its contig.
func Bind(loc Location, src StrandSource) (*SequenceLocation, error) {
	seq, err := src.Strand(loc.Contig, loc.Forward())
	if err != nil {
		return nil, err
	}
	if loc.Left() < 1 || loc.Right() > len(seq) {
		return nil, fmt.Errorf("location %s outside contig %s (length %d)", loc, loc.Contig, len(seq))
	}
	off := loc.Begin - 1
	if !loc.Forward() {
		off = len(seq) - loc.Begin
	}
	return &SequenceLocation{loc: loc, strand: seq, off: off, n: loc.Len()}, nil
}

// Location returns the bound location.
func (s *SequenceLocation) Location() Location { return s.loc }

// Len is the location length in bases.
func (s *SequenceLocation) Len() int { return s.n }

// Absolute maps a relative position to a contig coordinate.
func (s *SequenceLocation) Absolute(rel int) int {
	if s.loc.Forward() {
		return s.loc.Begin + rel - 1
	}
	return s.loc.Begin - rel + 1
}

// Relative maps a contig coordinate to a position relative to this location.
// The result is out of [1, Len] when pos is outside the location.
func (s *SequenceLocation) Relative(pos int) int {
	if s.loc.Forward() {
		return pos - s.loc.Begin + 1
	}
	return s.loc.Begin - pos + 1
}

// RealLocation converts a relative interval back to a contig location on the
// same strand.
func (s *SequenceLocation) RealLocation(relBegin, relEnd int) Location {
	return Location{Contig: s.loc.Contig, Begin: s.Absolute(relBegin), End: s.Absolute(relEnd), Strand: s.loc.Strand}
}

// Codon returns the three bases at rel, or nil when the codon does not lie
// wholly inside the location.
func (s *SequenceLocation) Codon(rel int) []byte {
	if rel < 1 || rel+2 > s.n {
		return nil
	}
	i := s.off + rel - 1
	return s.strand[i : i+3]
}

// IsCodon reports whether a codon of set starts at rel.
func (s *SequenceLocation) IsCodon(set dna.CodonSet, rel int) bool {
	c := s.Codon(rel)
	return c != nil && set.Has(c)
}

// Scan yields, in sequence order, every relative position in the given frame
// (1, 2 or 3) where a codon of set begins. Only codons wholly inside the
// location are considered. Any other frame yields nothing.
func (s *SequenceLocation) Scan(set dna.CodonSet, frame int) iter.Seq[int] {
	return func(yield func(int) bool) {
		if frame < 1 || frame > 3 {
			return
		}
		for rel := frame; rel+2 <= s.n; rel += 3 {
			i := s.off + rel - 1
			if set.Has(s.strand[i:i+3]) && !yield(rel) {
				return
			}
		}
	}
}

// Neighborhood returns left+right+1 bases centred on rel. The window reads
// the strand-oriented contig and pads with Pad past either contig end.
func (s *SequenceLocation) Neighborhood(rel, left, right int) []byte {
	out := make([]byte, left+right+1)
	center := s.off + rel - 1
	for j := range out {
		k := center - left + j
		if k >= 0 && k < len(s.strand) {
			out[j] = s.strand[k]
		} else {
			out[j] = Pad
		}
	}
	return out
}

// PositionString names a relative position by contig, strand and contig
// coordinate, e.g. "NC_000913+1234".
func (s *SequenceLocation) PositionString(rel int) string {
	return fmt.Sprintf("%s%c%d", s.loc.Contig, s.loc.Strand, s.Absolute(rel))
}

// ORF extends the location to its enclosing open reading frame in the frame
// of its Begin base. The ORF starts just past the nearest upstream in-frame
// stop (or at the furthest in-frame base before the contig edge) and ends on
// the last base of the first in-frame stop at or after Begin (or at the last
// whole codon before the contig edge).
func (s *SequenceLocation) ORF(stops dna.CodonSet) *SequenceLocation {
	start := s.off
	p := start - 3
	for p >= 0 && !stops.Has(s.strand[p:p+3]) {
		p -= 3
	}
	first := p + 3

	q := start
	for q+3 <= len(s.strand) && !stops.Has(s.strand[q:q+3]) {
		q += 3
	}
	last := q + 2
	if q+3 > len(s.strand) {
		last = q - 1
	}

	var begin, end int
	if s.loc.Forward() {
		begin, end = first+1, last+1
	} else {
		begin, end = len(s.strand)-first, len(s.strand)-last
	}
	loc := Location{Contig: s.loc.Contig, Begin: begin, End: end, Strand: s.loc.Strand}
	return &SequenceLocation{loc: loc, strand: s.strand, off: first, n: last - first + 1}
}
