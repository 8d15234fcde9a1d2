package writers

import (
	"bytes"
	"errors"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"orfset/internal/output"
)

func seeded(seed uint64) *rand.Rand { return rand.New(rand.NewPCG(seed, 1)) }

type bufCloser struct {
	bytes.Buffer
	closed int
}

func (b *bufCloser) Close() error { b.closed++; return nil }

type failWriter struct{}

func (failWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }
func (failWriter) Close() error              { return nil }

// mixed returns nFalse false and nTrue true labels in a seeded random order.
func mixed(seed uint64, nFalse, nTrue int) []bool {
	labels := make([]bool, 0, nFalse+nTrue)
	for i := 0; i < nFalse; i++ {
		labels = append(labels, false)
	}
	for i := 0; i < nTrue; i++ {
		labels = append(labels, true)
	}
	seeded(seed).Shuffle(len(labels), func(i, j int) { labels[i], labels[j] = labels[j], labels[i] })
	return labels
}

func TestPassThroughKeepsEveryRowInOrder(t *testing.T) {
	sink := &bufCloser{}
	w, err := OpenBalanced(sink, 0, nil, nil, nil)
	require.NoError(t, err)
	require.NoError(t, w.WriteHeader(output.Header(0, 0)))

	labels := mixed(3, 30, 2)
	for i, l := range labels {
		ok, err := w.Submit(l, "r"+string(rune('A'+i%26)), []byte("A"))
		require.NoError(t, err)
		require.True(t, ok)
	}
	require.NoError(t, w.Close())

	lines := strings.Split(strings.TrimSuffix(sink.String(), "\n"), "\n")
	require.Len(t, lines, 1+len(labels))
	assert.Equal(t, "name\tp.0\ttype", lines[0])
	for i, l := range labels {
		assert.True(t, strings.HasSuffix(lines[i+1], "\t"+output.Label(l)), "row %d", i)
		assert.True(t, strings.HasPrefix(lines[i+1], "r"+string(rune('A'+i%26))+"\t"), "row %d", i)
	}
	tr, fa := w.Kept()
	assert.Equal(t, 2, tr)
	assert.Equal(t, 30, fa)
}

func TestFuzzOneBoundsEveryPrefix(t *testing.T) {
	for seed := uint64(1); seed <= 20; seed++ {
		counts := &Counters{}
		w, err := OpenBalanced(NopCloser(&bytes.Buffer{}), 1.0, seeded(seed), counts, nil)
		require.NoError(t, err)
		for _, l := range mixed(seed, 100, 10) {
			_, err := w.Submit(l, "x", []byte("ACG"))
			require.NoError(t, err)
			tr, fa := w.Kept()
			require.LessOrEqual(t, fa, tr+1, "seed %d", seed)
			require.LessOrEqual(t, tr, fa+1, "seed %d", seed)
		}
		assert.Equal(t, 100, counts.False)
		assert.Equal(t, 10, counts.True)
		tr, fa := w.Kept()
		assert.GreaterOrEqual(t, tr, 5, "true rows are only dropped when they briefly lead")
		assert.GreaterOrEqual(t, fa, tr-1)
	}
}

func TestFuzzTwoBoundsRatio(t *testing.T) {
	for seed := uint64(1); seed <= 20; seed++ {
		w, err := OpenBalanced(NopCloser(&bytes.Buffer{}), 2.0, seeded(seed), nil, nil)
		require.NoError(t, err)
		for _, l := range mixed(seed+100, 500, 40) {
			_, err := w.Submit(l, "x", nil)
			require.NoError(t, err)
			tr, fa := w.Kept()
			require.LessOrEqual(t, fa, 2*tr+1)
		}
		tr, fa := w.Kept()
		assert.GreaterOrEqual(t, tr, 30)
		assert.Greater(t, fa, tr)
	}
}

func TestBurstOfOneLabelIsCut(t *testing.T) {
	w, err := OpenBalanced(NopCloser(&bytes.Buffer{}), 2.0, seeded(5), nil, nil)
	require.NoError(t, err)
	for i := 0; i < 50; i++ {
		_, err := w.Submit(false, "x", nil)
		require.NoError(t, err)
	}
	_, fa := w.Kept()
	assert.Equal(t, 1, fa, "with no true rows only the first false row fits")
}

func TestSeededAcceptanceIsReproducible(t *testing.T) {
	run := func() string {
		var buf bytes.Buffer
		w, err := OpenBalanced(NopCloser(&buf), 3.0, seeded(11), nil, nil)
		require.NoError(t, err)
		for i, l := range mixed(12, 200, 30) {
			_, err := w.Submit(l, string(rune('a'+i%26)), []byte("AC"))
			require.NoError(t, err)
		}
		require.NoError(t, w.Close())
		return buf.String()
	}
	assert.Equal(t, run(), run())
}

func TestHeaderRules(t *testing.T) {
	w, err := OpenBalanced(NopCloser(&bytes.Buffer{}), 0, nil, nil, nil)
	require.NoError(t, err)
	require.NoError(t, w.WriteHeader([]string{"name"}))
	assert.Error(t, w.WriteHeader([]string{"name"}))

	w2, err := OpenBalanced(NopCloser(&bytes.Buffer{}), 0, nil, nil, nil)
	require.NoError(t, err)
	_, err = w2.Submit(true, "x", nil)
	require.NoError(t, err)
	assert.Error(t, w2.WriteHeader([]string{"name"}))
}

func TestOpenRejectsBadFuzz(t *testing.T) {
	for _, f := range []float64{-1, 0.5} {
		_, err := OpenBalanced(NopCloser(&bytes.Buffer{}), f, seeded(1), nil, nil)
		assert.Error(t, err, "fuzz %g", f)
	}
	_, err := OpenBalanced(NopCloser(&bytes.Buffer{}), 2, nil, nil, nil)
	assert.Error(t, err)
}

func TestCloseFlushesOnceAndLogs(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	sink := &bufCloser{}
	counts := &Counters{Processed: 4}
	w, err := OpenBalanced(sink, 0, nil, counts, zap.New(core))
	require.NoError(t, err)
	_, err = w.Submit(true, "p", []byte("ATG"))
	require.NoError(t, err)
	assert.Zero(t, sink.Len(), "rows are buffered until close")

	require.NoError(t, w.Close())
	require.NoError(t, w.Close())
	assert.Equal(t, 1, sink.closed)
	assert.Equal(t, "p\tA\tT\tG\t1\n", sink.String())

	entries := logs.FilterMessage("All done.").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.EqualValues(t, 4, fields["processed"])
	assert.EqualValues(t, 1, fields["true"])
	assert.EqualValues(t, 0, fields["false"])
}

func TestSinkErrorSurfaces(t *testing.T) {
	w, err := OpenBalanced(failWriter{}, 0, nil, nil, nil)
	require.NoError(t, err)
	_, err = w.Submit(true, "p", []byte("ATG"))
	require.NoError(t, err)
	assert.ErrorContains(t, w.Close(), "disk full")
}

func TestSinkErrorType(t *testing.T) {
	w, err := OpenBalanced(failWriter{}, 0, nil, nil, nil)
	require.NoError(t, err)
	require.NoError(t, w.WriteHeader([]string{"name"}))
	err = w.Close()
	var se *SinkError
	require.ErrorAs(t, err, &se)
	assert.False(t, IsBrokenPipe(err))
}
