package gir

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Parse decodes a GIR document into a node tree. Character data is
// discarded: the scanners only care about element structure and
// attributes.
func Parse(r io.Reader) (*Node, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	dec := xml.NewDecoder(bytes.NewReader(data))
	var root, current *Node

	for {
		offset := dec.InputOffset()
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("malformed gir document: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			node := &Node{
				Space:  t.Name.Space,
				Local:  t.Name.Local,
				Parent: current,
				Line:   lineAt(data, offset),
			}
			for _, a := range t.Attr {
				if a.Name.Space == "xmlns" || a.Name.Local == "xmlns" {
					continue
				}
				node.Attrs = append(node.Attrs, Attr{
					Space: a.Name.Space,
					Local: a.Name.Local,
					Value: a.Value,
				})
			}
			if current != nil {
				current.Children = append(current.Children, node)
			} else {
				root = node
			}
			current = node
		case xml.EndElement:
			if current != nil {
				current = current.Parent
			}
		}
	}

	if root == nil {
		return nil, fmt.Errorf("empty gir document")
	}
	return root, nil
}

// ParseFile parses the GIR document at path.
func ParseFile(path string) (*Node, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	root, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return root, nil
}

func lineAt(data []byte, offset int64) int {
	if offset > int64(len(data)) {
		offset = int64(len(data))
	}
	return bytes.Count(data[:offset], []byte{'\n'}) + 1
}

// FindGirFile locates an included dependency gir ("GLib-2.0.gir") among
// the configured sources first, then in <dir>/gir-1.0 for every search
// directory. Returns "" when not found; the caller decides whether that
// is a warning.
func FindGirFile(name string, sources []string, searchDirs []string) string {
	for _, src := range sources {
		if filepath.Base(src) == name {
			return src
		}
	}
	for _, dir := range searchDirs {
		candidate := filepath.Join(dir, "gir-1.0", name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return ""
}

// DefaultSearchDirs returns the XDG data directories plus the given
// extra data dir, the conventional locations for system gir files.
func DefaultSearchDirs(datadir string) []string {
	var dirs []string
	for _, p := range strings.Split(os.Getenv("XDG_DATA_DIRS"), ":") {
		if p != "" {
			dirs = append(dirs, p)
		}
	}
	if datadir != "" {
		dirs = append(dirs, datadir)
	}
	return dirs
}
