// internal/sampler/sampler.go
package sampler

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"orfset-core/dna"
	"orfset-core/genome"
	"orfset-core/location"
	"orfset/internal/writers"
)

// RowWriter receives labeled rows. writers.Balanced implements it.
type RowWriter interface {
	Submit(label bool, id string, neighborhood []byte) (bool, error)
}

// Window is the neighborhood span around a candidate position.
type Window struct {
	Left  int
	Right int
}

// Width is the number of characters in every neighborhood.
func (w Window) Width() int { return w.Left + w.Right + 1 }

// Strategy processes one genome at a time.
type Strategy interface {
	Genome(g *genome.Genome) error
}

// Base holds what every strategy shares: the window, the row sink, the run
// counters and the logger.
type Base struct {
	Window Window
	Out    RowWriter
	Counts *writers.Counters
	Log    *zap.Logger
}

func (b *Base) logger() *zap.Logger {
	if b.Log == nil {
		return zap.NewNop()
	}
	return b.Log
}

func (b *Base) emit(sl *location.SequenceLocation, pos int, label bool, id string) error {
	_, err := b.Out.Submit(label, id, sl.Neighborhood(pos, b.Window.Left, b.Window.Right))
	return err
}

// Peg writes one row per start codon in frame 1 of the ORF around peg,
// labeling the peg's own start true. A peg whose start is not a start codon
// for the genome's genetic code is logged and skipped.
func (b *Base) Peg(g *genome.Genome, peg genome.Feature) error {
	starts, err := dna.Starts(g.GeneticCode)
	if err != nil {
		return err
	}
	stops, err := dna.Stops(g.GeneticCode)
	if err != nil {
		return err
	}
	pegSeq, err := location.Bind(peg.Location, g)
	if err != nil {
		b.logger().Warn("Peg location is not usable.", zap.String("peg", peg.ID), zap.Error(err))
		return nil
	}
	orf := pegSeq.ORF(stops)
	begin := orf.Relative(peg.Location.Begin)
	if !orf.IsCodon(starts, begin) {
		b.logger().Warn("Peg does not have a recognizable start codon.",
			zap.String("peg", peg.ID), zap.Stringer("location", peg.Location))
		return nil
	}
	for pos := range orf.Scan(starts, 1) {
		if err := b.emit(orf, pos, pos == begin, peg.ID); err != nil {
			return err
		}
	}
	b.Counts.Processed++
	return nil
}

// Run feeds every genome of src to s in order. A genome that fails to load
// aborts the run. ctx is checked between genomes only.
func Run(ctx context.Context, src *genome.Source, s Strategy, log *zap.Logger) error {
	if log == nil {
		log = zap.NewNop()
	}
	log.Info("Genomes found.", zap.Int("count", src.Len()), zap.String("input", src.Path))
	for g, err := range src.All() {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		log.Info("Processing genome.", zap.String("genome", g.String()))
		if err := s.Genome(g); err != nil {
			return fmt.Errorf("genome %s: %w", g.ID, err)
		}
	}
	return nil
}
