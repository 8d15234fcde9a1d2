package genome

import (
	"compress/gzip"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"orfset-core/location"
)

const tinyGTO = `{
  "id": "100.1",
  "scientific_name": "Testus minimus",
  "genetic_code": 11,
  "contigs": [
    {"id": "c1", "dna": "atgaaataaatgccctaa"},
    {"id": "c2", "dna": "TTAGGGCATTTATTTCAT"}
  ],
  "features": [
    {"id": "fig|100.1.peg.1", "type": "CDS", "function": "hypothetical", "location": [["c1", 1, "+", 9]]},
    {"id": "fig|100.1.rna.1", "type": "rna", "location": [["c1", 10, "+", 6]]},
    {"id": "fig|100.1.peg.2", "type": "CDS", "location": [["c2", 9, "-", 9]]}
  ]
}`

func writeFile(t *testing.T, dir, name, data string) string {
	t.Helper()
	fn := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(fn, []byte(data), 0o644))
	return fn
}

func writeGz(t *testing.T, dir, name, data string) string {
	t.Helper()
	fn := filepath.Join(dir, name)
	fh, err := os.Create(fn)
	require.NoError(t, err)
	gw := gzip.NewWriter(fh)
	_, err = gw.Write([]byte(data))
	require.NoError(t, err)
	require.NoError(t, gw.Close())
	require.NoError(t, fh.Close())
	return fn
}

func TestDecode(t *testing.T) {
	g, err := Decode(strings.NewReader(tinyGTO))
	require.NoError(t, err)

	assert.Equal(t, "100.1", g.ID)
	assert.Equal(t, "100.1 (Testus minimus)", g.String())
	assert.Equal(t, 11, g.GeneticCode)
	assert.Equal(t, 36, g.Length())
	assert.Equal(t, "ATGAAATAAATGCCCTAA", string(g.Contigs[0].DNA))

	pegs := g.Pegs()
	require.Len(t, pegs, 2)
	assert.Equal(t, location.New("c1", 1, 9), pegs[0].Location)
	assert.Equal(t, location.New("c2", 9, 1), pegs[1].Location)
	assert.Len(t, g.Features, 3)
}

func TestDecodeDefaultsAndErrors(t *testing.T) {
	g, err := Decode(strings.NewReader(`{"id":"1.1","contigs":[{"id":"c","dna":"ACGT"}]}`))
	require.NoError(t, err)
	assert.Equal(t, DefaultGeneticCode, g.GeneticCode)

	_, err = Decode(strings.NewReader(`{"id":"1.1","genetic_code":2}`))
	assert.ErrorContains(t, err, "unsupported genetic code")

	_, err = Decode(strings.NewReader(`{"contigs":[]}`))
	assert.ErrorContains(t, err, "missing id")

	_, err = Decode(strings.NewReader(`{"id":"1.1","features":[{"id":"f","type":"CDS","location":[["zz",1,"+",3]]}]}`))
	assert.ErrorContains(t, err, "unknown contig")

	_, err = Decode(strings.NewReader(`{"id":"1.1","contigs":[{"id":"c","dna":"ACGT"}],"features":[{"id":"f","type":"CDS","location":[["c",1,"+"]]}]}`))
	assert.Error(t, err)
}

func TestStrandCachesReverse(t *testing.T) {
	g, err := Decode(strings.NewReader(tinyGTO))
	require.NoError(t, err)

	fwd, err := g.Strand("c2", true)
	require.NoError(t, err)
	assert.Equal(t, "TTAGGGCATTTATTTCAT", string(fwd))

	rev, err := g.Strand("c2", false)
	require.NoError(t, err)
	assert.Equal(t, "ATGAAATAAATGCCCTAA", string(rev))
	again, _ := g.Strand("c2", false)
	assert.Same(t, &rev[0], &again[0])

	_, err = g.Strand("nope", true)
	assert.Error(t, err)
}

func TestIsCoding(t *testing.T) {
	g, err := Decode(strings.NewReader(tinyGTO))
	require.NoError(t, err)

	assert.True(t, g.IsCoding(location.New("c1", 1, 9)))
	assert.False(t, g.IsCoding(location.New("c1", 4, 9)), "peg starts before the region")
	assert.False(t, g.IsCoding(location.New("c1", 1, 12)), "different stop")
	assert.False(t, g.IsCoding(location.New("c1", 10, 15)), "rna is not coding")
	assert.True(t, g.IsCoding(location.New("c2", 12, 1)))
	assert.False(t, g.IsCoding(location.New("c2", 1, 9)), "wrong strand")
}

func TestOpenDirAndFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.gto", strings.Replace(tinyGTO, "100.1", "200.1", 1))
	writeGz(t, dir, "a.gto.gz", tinyGTO)
	writeFile(t, dir, "notes.txt", "ignore me")

	src, err := Open(dir)
	require.NoError(t, err)
	require.Equal(t, 2, src.Len())

	var ids []string
	for g, err := range src.All() {
		require.NoError(t, err)
		ids = append(ids, g.ID)
	}
	assert.Equal(t, []string{"100.1", "200.1"}, ids)

	single, err := Open(filepath.Join(dir, "b.gto"))
	require.NoError(t, err)
	assert.Equal(t, 1, single.Len())

	_, err = Open(filepath.Join(dir, "missing"))
	assert.Error(t, err)
}

func TestLoadTakesPathsOnly(t *testing.T) {
	// "-" is an ordinary file name, never stdin.
	dir := t.TempDir()
	_, err := Load(filepath.Join(dir, "-"))
	assert.Error(t, err)

	fn := writeFile(t, dir, "-", tinyGTO)
	g, err := Load(fn)
	require.NoError(t, err)
	assert.Equal(t, "100.1", g.ID)
}

func TestAllYieldsLoadErrors(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "bad.gto", "{not json")
	src, err := Open(dir)
	require.NoError(t, err)
	for g, err := range src.All() {
		assert.Nil(t, g)
		assert.ErrorContains(t, err, "bad.gto")
	}
}
