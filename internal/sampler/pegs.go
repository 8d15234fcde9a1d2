package sampler

import (
	"math/rand/v2"

	"go.uber.org/zap"

	"orfset-core/genome"
	"orfset-core/sample"
)

// PegStarts builds a start-codon training set from K randomly chosen pegs
// per genome.
type PegStarts struct {
	Base
	K    int
	Rand *rand.Rand
}

func (s *PegStarts) Genome(g *genome.Genome) error {
	for _, peg := range sample.ChooseK(s.Rand, g.Pegs(), s.K) {
		s.logger().Debug("Sampling peg.", zap.String("peg", peg.ID))
		if err := s.Peg(g, peg); err != nil {
			return err
		}
	}
	return nil
}

// AllPegStarts builds a start-codon test set from every peg, in genome order.
// It involves no randomness.
type AllPegStarts struct {
	Base
}

func (s *AllPegStarts) Genome(g *genome.Genome) error {
	for _, peg := range g.Pegs() {
		if err := s.Peg(g, peg); err != nil {
			return err
		}
	}
	return nil
}
