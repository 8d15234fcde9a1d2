// core/genome/dir.go
package genome

import (
	"fmt"
	"iter"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Source is an ordered set of genome files, loaded one at a time.
type Source struct {
	Path  string
	files []string
}

func isGenomeFile(name string) bool {
	return strings.HasSuffix(name, ".gto") || strings.HasSuffix(name, ".gto.gz")
}

// Open resolves path to a genome source. A directory contributes every
// *.gto and *.gto.gz file in it, in name order; any other path is taken as a
// single genome file.
func Open(path string) (*Source, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("genome input %s not found or unreadable: %w", path, err)
	}
	if !fi.IsDir() {
		return &Source{Path: path, files: []string{path}}, nil
	}
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("read genome directory %s: %w", path, err)
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && isGenomeFile(e.Name()) {
			files = append(files, filepath.Join(path, e.Name()))
		}
	}
	sort.Strings(files)
	return &Source{Path: path, files: files}, nil
}

// Len is the number of genome files.
func (s *Source) Len() int { return len(s.files) }

// All yields each genome in order. A load error is yielded with a nil genome;
// the caller decides whether to stop.
func (s *Source) All() iter.Seq2[*Genome, error] {
	return func(yield func(*Genome, error) bool) {
		for _, f := range s.files {
			g, err := Load(f)
			if !yield(g, err) {
				return
			}
		}
	}
}
