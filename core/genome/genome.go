// Package genome loads annotated genomes (GTO JSON) and answers the
// sequence and annotation queries the samplers need.
package genome

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"orfset-core/dna"
	"orfset-core/location"
)

// DefaultGeneticCode applies when a genome file does not declare one.
const DefaultGeneticCode = 11

// Contig is one sequence record, stored upper-case.
type Contig struct {
	ID  string
	DNA []byte
}

// Feature is an annotated feature. Location spans from the first segment's
// begin to the last segment's end.
type Feature struct {
	ID       string
	Type     string
	Function string
	Location location.Location
}

// IsPeg reports whether the feature is protein-coding.
func (f Feature) IsPeg() bool { return f.Type == "CDS" || f.Type == "peg" }

// Genome is immutable once loaded, apart from the reverse-strand cache.
type Genome struct {
	ID          string
	Name        string
	GeneticCode int
	Contigs     []Contig
	Features    []Feature

	contigs map[string]int
	rev     map[string][]byte
	stops   map[stopKey][]location.Location
}

type stopKey struct {
	contig string
	strand byte
	end    int
}

func (g *Genome) String() string {
	if g.Name == "" {
		return g.ID
	}
	return g.ID + " (" + g.Name + ")"
}

// Length is the total number of bases over all contigs.
func (g *Genome) Length() int {
	n := 0
	for _, c := range g.Contigs {
		n += len(c.DNA)
	}
	return n
}

// Pegs returns the protein-coding features in file order.
func (g *Genome) Pegs() []Feature {
	var out []Feature
	for _, f := range g.Features {
		if f.IsPeg() {
			out = append(out, f)
		}
	}
	return out
}

// Strand returns a contig oriented along a strand. The reverse complement is
// computed once per contig and cached.
func (g *Genome) Strand(contig string, forward bool) ([]byte, error) {
	i, ok := g.contigs[contig]
	if !ok {
		return nil, fmt.Errorf("genome %s has no contig %q", g.ID, contig)
	}
	if forward {
		return g.Contigs[i].DNA, nil
	}
	if r, ok := g.rev[contig]; ok {
		return r, nil
	}
	r := dna.RevComp(g.Contigs[i].DNA)
	g.rev[contig] = r
	return r, nil
}

// IsCoding reports whether loc holds a known peg: a peg on the same contig
// and strand, inside loc, ending on the same base (so sharing its stop codon
// and reading frame).
func (g *Genome) IsCoding(loc location.Location) bool {
	for _, p := range g.stops[stopKey{loc.Contig, loc.Strand, loc.End}] {
		if loc.Contains(p) {
			return true
		}
	}
	return false
}

/* ---------------- GTO decoding ---------------- */

type gtoGenome struct {
	ID             string       `json:"id"`
	ScientificName string       `json:"scientific_name"`
	GeneticCode    int          `json:"genetic_code"`
	Contigs        []gtoContig  `json:"contigs"`
	Features       []gtoFeature `json:"features"`
}

type gtoContig struct {
	ID  string `json:"id"`
	DNA string `json:"dna"`
}

type gtoFeature struct {
	ID       string       `json:"id"`
	Type     string       `json:"type"`
	Function string       `json:"function"`
	Location []gtoSegment `json:"location"`
}

// gtoSegment is the GTO location tuple [contig, begin, strand, length].
type gtoSegment struct {
	Contig string
	Begin  int
	Strand string
	Length int
}

func (s *gtoSegment) UnmarshalJSON(b []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	if len(raw) != 4 {
		return fmt.Errorf("location segment has %d fields, want 4", len(raw))
	}
	if err := json.Unmarshal(raw[0], &s.Contig); err != nil {
		return err
	}
	if err := json.Unmarshal(raw[1], &s.Begin); err != nil {
		return err
	}
	if err := json.Unmarshal(raw[2], &s.Strand); err != nil {
		return err
	}
	return json.Unmarshal(raw[3], &s.Length)
}

func (s gtoSegment) end() int {
	if s.Strand == "-" {
		return s.Begin - s.Length + 1
	}
	return s.Begin + s.Length - 1
}

// Decode reads one GTO document.
func Decode(r io.Reader) (*Genome, error) {
	var doc gtoGenome
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode genome: %w", err)
	}
	if doc.ID == "" {
		return nil, errors.New("decode genome: missing id")
	}
	g := &Genome{
		ID:          doc.ID,
		Name:        doc.ScientificName,
		GeneticCode: doc.GeneticCode,
		contigs:     make(map[string]int, len(doc.Contigs)),
		rev:         map[string][]byte{},
		stops:       map[stopKey][]location.Location{},
	}
	if g.GeneticCode == 0 {
		g.GeneticCode = DefaultGeneticCode
	}
	if !dna.Supported(g.GeneticCode) {
		return nil, fmt.Errorf("genome %s: unsupported genetic code %d", g.ID, g.GeneticCode)
	}
	for _, c := range doc.Contigs {
		g.contigs[c.ID] = len(g.Contigs)
		g.Contigs = append(g.Contigs, Contig{ID: c.ID, DNA: bytes.ToUpper([]byte(c.DNA))})
	}
	for _, f := range doc.Features {
		if len(f.Location) == 0 {
			continue
		}
		first, last := f.Location[0], f.Location[len(f.Location)-1]
		if _, ok := g.contigs[first.Contig]; !ok {
			return nil, fmt.Errorf("genome %s: feature %s on unknown contig %q", g.ID, f.ID, first.Contig)
		}
		loc := location.New(first.Contig, first.Begin, last.end())
		if first.Strand == "-" {
			loc.Strand = '-'
		}
		feat := Feature{ID: f.ID, Type: f.Type, Function: f.Function, Location: loc}
		g.Features = append(g.Features, feat)
		if feat.IsPeg() {
			k := stopKey{loc.Contig, loc.Strand, loc.End}
			g.stops[k] = append(g.stops[k], loc)
		}
	}
	return g, nil
}

// Load reads a genome from a GTO file, gzip-compressed or not.
func Load(path string) (*Genome, error) {
	rc, err := openReader(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	g, err := Decode(rc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return g, nil
}
