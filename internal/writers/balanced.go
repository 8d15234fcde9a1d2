// internal/writers/balanced.go
package writers

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"math/rand/v2"

	"go.uber.org/zap"

	"orfset/internal/output"
)

// Balanced streams labeled rows to a sink, dropping majority-label rows so
// the emitted true:false ratio stays within the fuzz factor. It keeps only
// running counts, never the rows themselves.
//
// With fuzz F > 0 the invariant after every row is
//
//	majority kept <= F * minority kept + 1
//
// With F == 0 every row is written (pass-through).
type Balanced struct {
	out    *bufio.Writer
	sink   io.Closer
	fuzz   float64
	rng    *rand.Rand
	counts *Counters
	log    *zap.Logger

	kept    [2]int // indexed by label: 0 false, 1 true
	header  bool
	started bool
	closed  bool
	line    []byte
}

// ValidateFuzz checks a fuzz factor: 0 disables balancing, anything else must
// be at least 1 (the ratio is majority over minority).
func ValidateFuzz(f float64) error {
	if math.IsNaN(f) || f < 0 || (f > 0 && f < 1) {
		return fmt.Errorf("fuzz factor must be 0 or at least 1, got %g", f)
	}
	return nil
}

// OpenBalanced begins a writing session on sink. rng drives the acceptance
// test for majority rows; it may be nil when fuzz is 0.
func OpenBalanced(sink io.WriteCloser, fuzz float64, rng *rand.Rand, counts *Counters, log *zap.Logger) (*Balanced, error) {
	if err := ValidateFuzz(fuzz); err != nil {
		return nil, err
	}
	if fuzz > 0 && rng == nil {
		return nil, errors.New("balanced writer needs a random source")
	}
	if counts == nil {
		counts = &Counters{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Balanced{
		out:    bufio.NewWriterSize(sink, 64*1024),
		sink:   sink,
		fuzz:   fuzz,
		rng:    rng,
		counts: counts,
		log:    log,
	}, nil
}

// WriteHeader writes the header line: columns plus the label column. It must
// be called once, before any Submit.
func (w *Balanced) WriteHeader(columns []string) error {
	if w.header || w.started {
		return errors.New("header already written or rows already submitted")
	}
	w.header = true
	_, err := w.out.Write(output.AppendHeader(nil, columns))
	return sinkErr(err)
}

// Submit offers one row. The run counters always count it; the returned bool
// says whether it was written. Only sink errors are returned.
func (w *Balanced) Submit(label bool, id string, neighborhood []byte) (bool, error) {
	w.started = true
	w.counts.add(label)
	if !w.accept(label) {
		return false, nil
	}
	w.line = output.AppendRow(w.line[:0], id, neighborhood, label)
	if _, err := w.out.Write(w.line); err != nil {
		return false, sinkErr(err)
	}
	w.kept[idx(label)]++
	return true, nil
}

func idx(label bool) int {
	if label {
		return 1
	}
	return 0
}

// accept decides whether a row with this label is kept. Rows of the scarcer
// (or tied) label always are. A majority row is refused once keeping it would
// break the fuzz bound; the last record of slack the bound allows is granted
// only with probability min(1, F*minority/majority), which spreads long runs
// of one label instead of cutting them at a fixed count. The prefix bound
// always wins over the probability, which is why the probability uses the
// count after acceptance.
func (w *Balanced) accept(label bool) bool {
	if w.fuzz == 0 {
		return true
	}
	mine, other := w.kept[idx(label)], w.kept[idx(!label)]
	if mine <= other {
		return true
	}
	next := float64(mine + 1)
	if next > w.fuzz*float64(other)+1 {
		return false
	}
	p := math.Min(1, w.fuzz*float64(other)/math.Max(1, next))
	return p >= 1 || w.rng.Float64() < p
}

// Kept returns the number of true and false rows written so far.
func (w *Balanced) Kept() (trueRows, falseRows int) { return w.kept[1], w.kept[0] }

// Close flushes and closes the sink, then logs the run totals. Only the first
// call has any effect. Sink failures from any method come back as *SinkError.
func (w *Balanced) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	ferr := w.out.Flush()
	cerr := w.sink.Close()
	w.log.Info("All done.",
		zap.Int("processed", w.counts.Processed),
		zap.Int("true", w.counts.True),
		zap.Int("false", w.counts.False),
		zap.Int("true_written", w.kept[1]),
		zap.Int("false_written", w.kept[0]),
	)
	if ferr != nil {
		return sinkErr(ferr)
	}
	return sinkErr(cerr)
}

// NopCloser wraps a writer the run does not own, such as stdout.
func NopCloser(w io.Writer) io.WriteCloser { return nopCloser{w} }

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }
