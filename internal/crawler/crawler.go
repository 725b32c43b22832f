// Package crawler discovers the source files a scan consumes: C
// headers for the comment and macro extractor, gir files for the
// introspection walker.
package crawler

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// Sources is the discovered input set of one project scan.
type Sources struct {
	Headers []string
	Girs    []string
}

// Crawler walks source directories.
type Crawler struct {
	ignored []string
}

func New() *Crawler {
	return &Crawler{
		ignored: []string{".git", "build", "_build", "node_modules"},
	}
}

// Discover walks each root and collects headers and gir files. Results
// are sorted so scans are deterministic.
func (c *Crawler) Discover(roots ...string) (*Sources, error) {
	src := &Sources{}
	for _, root := range roots {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				for _, ign := range c.ignored {
					if d.Name() == ign {
						return filepath.SkipDir
					}
				}
				return nil
			}
			switch {
			case strings.HasSuffix(d.Name(), ".h"):
				src.Headers = append(src.Headers, path)
			case strings.HasSuffix(d.Name(), ".gir"):
				src.Girs = append(src.Girs, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	sort.Strings(src.Headers)
	sort.Strings(src.Girs)
	return src, nil
}

// All returns every discovered file, headers first.
func (s *Sources) All() []string {
	out := make([]string, 0, len(s.Headers)+len(s.Girs))
	out = append(out, s.Headers...)
	out = append(out, s.Girs...)
	return out
}
