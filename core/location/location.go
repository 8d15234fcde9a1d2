// core/location/location.go
package location

import "fmt"

// Location is a strand-aware interval on a contig. Begin is the first base
// read on the strand and End the last, both 1-based and inclusive, so a
// minus-strand location has Begin >= End.
type Location struct {
	Contig string
	Begin  int
	End    int
	Strand byte // '+' or '-'
}

// New creates a location from begin to end. A begin greater than end puts the
// location on the minus strand.
func New(contig string, begin, end int) Location {
	strand := byte('+')
	if begin > end {
		strand = '-'
	}
	return Location{Contig: contig, Begin: begin, End: end, Strand: strand}
}

// Forward reports whether the location is on the plus strand.
func (l Location) Forward() bool { return l.Strand != '-' }

// Left is the lowest contig coordinate covered.
func (l Location) Left() int { return min(l.Begin, l.End) }

// Right is the highest contig coordinate covered.
func (l Location) Right() int { return max(l.Begin, l.End) }

func (l Location) Len() int { return l.Right() - l.Left() + 1 }

// Reverse returns the same interval read on the opposite strand.
func (l Location) Reverse() Location {
	s := byte('-')
	if !l.Forward() {
		s = '+'
	}
	return Location{Contig: l.Contig, Begin: l.End, End: l.Begin, Strand: s}
}

// Contains reports whether o lies inside l on the same contig and strand.
func (l Location) Contains(o Location) bool {
	return l.Contig == o.Contig && l.Strand == o.Strand &&
		o.Left() >= l.Left() && o.Right() <= l.Right()
}

func (l Location) String() string {
	return fmt.Sprintf("%s_%d%c%d", l.Contig, l.Begin, l.Strand, l.End)
}
