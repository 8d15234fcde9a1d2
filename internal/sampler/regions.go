package sampler

import (
	"math/rand/v2"

	"go.uber.org/zap"

	"orfset-core/dna"
	"orfset-core/genome"
	"orfset-core/location"
	"orfset-core/sample"
)

// MinRegionWidth is the smallest allowed region width, and the smallest
// trailing partial window kept when a contig does not divide evenly.
const MinRegionWidth = 1000

// Regions partitions each contig into non-overlapping windows of width
// bases and returns every window on both strands, forward first. A contig
// shorter than width is one window; a trailing remainder shorter than
// MinRegionWidth is dropped. A width below 1 yields nil.
func Regions(g *genome.Genome, width int) []location.Location {
	if width < 1 {
		return nil
	}
	out := make([]location.Location, 0, 2*(g.Length()/width+len(g.Contigs)))
	for _, c := range g.Contigs {
		n := len(c.DNA)
		if n == 0 {
			continue
		}
		if n < width {
			out = append(out, location.New(c.ID, 1, n), location.New(c.ID, n, 1))
			continue
		}
		for i := 1; i <= n; i += width {
			end := min(i+width-1, n)
			if end-i+1 < min(width, MinRegionWidth) {
				break
			}
			out = append(out, location.New(c.ID, i, end), location.New(c.ID, end, i))
		}
	}
	return out
}

// RegionCoding builds a coding-ORF training set. It picks K random regions
// per genome and, in each frame, emits one row per pair of consecutive stops,
// positioned on the second stop and labeled by whether the ORF between them
// is an annotated peg.
type RegionCoding struct {
	Base
	K     int
	Width int
	Rand  *rand.Rand
}

func (s *RegionCoding) Genome(g *genome.Genome) error {
	for _, region := range sample.ChooseK(s.Rand, Regions(g, s.Width), s.K) {
		if err := s.Region(g, region); err != nil {
			return err
		}
	}
	return nil
}

// Region scans one region in all three frames.
func (s *RegionCoding) Region(g *genome.Genome, region location.Location) error {
	stops, err := dna.Stops(g.GeneticCode)
	if err != nil {
		return err
	}
	seq, err := location.Bind(region, g)
	if err != nil {
		return err
	}
	s.logger().Debug("Scanning region.", zap.Stringer("region", region))
	for frame := 1; frame <= 3; frame++ {
		prev := 0
		for pos := range seq.Scan(stops, frame) {
			if prev > 0 {
				coding := g.IsCoding(seq.RealLocation(prev+3, pos+2))
				if err := s.emit(seq, pos, coding, seq.PositionString(pos)); err != nil {
					return err
				}
			}
			prev = pos
		}
	}
	s.Counts.Processed++
	return nil
}
