// Package hierarchy maintains the class/interface inheritance graph
// built while caching gir nodes. Keys are dotted gi names; values carry
// the C type name used when rendering hierarchy entries.
package hierarchy

import (
	"sort"

	"girdoc/internal/symbols"
)

// Graph is a directed inheritance graph. It is append-only during a
// build: once a type or edge is recorded it is never retracted.
type Graph struct {
	parent   map[string]string
	children map[string][]string
	ctypes   map[string]string
}

func NewGraph() *Graph {
	return &Graph{
		parent:   map[string]string{},
		children: map[string][]string{},
		ctypes:   map[string]string{},
	}
}

// AddType registers the C type name for a gi name. Recorded for every
// class/interface node seen, whether or not it has a parent.
func (g *Graph) AddType(giName, cType string) {
	if giName == "" {
		return
	}
	g.ctypes[giName] = cType
}

// AddEdge records that child inherits from parent. Both are dotted gi
// names. Re-adding an existing edge is a no-op.
func (g *Graph) AddEdge(parentGI, childGI string) {
	if parentGI == "" || childGI == "" {
		return
	}
	if g.parent[childGI] == parentGI {
		return
	}
	g.parent[childGI] = parentGI
	g.children[parentGI] = append(g.children[parentGI], childGI)
}

// CType returns the C type name registered for a gi name, or "".
func (g *Graph) CType(giName string) string {
	return g.ctypes[giName]
}

// HasType reports whether the gi name names a known class or interface.
func (g *Graph) HasType(giName string) bool {
	_, ok := g.ctypes[giName]
	return ok
}

// Ancestors returns the inheritance chain of giName as qualified
// symbols, root ancestor first, terminal parent last. The type itself
// is not included. A missing parent terminates the walk: a root class
// simply has no ancestors.
func (g *Graph) Ancestors(giName string) []symbols.QualifiedSymbol {
	var chain []string
	seen := map[string]bool{giName: true}
	for cur := g.parent[giName]; cur != ""; cur = g.parent[cur] {
		if seen[cur] {
			break
		}
		seen[cur] = true
		chain = append(chain, cur)
	}

	// chain is child-to-root; the documented order is root first.
	out := make([]symbols.QualifiedSymbol, 0, len(chain))
	for i := len(chain) - 1; i >= 0; i-- {
		out = append(out, g.qualified(chain[i]))
	}
	return out
}

// Children returns the direct subclasses of giName keyed by their C
// type name. The values carry no further nesting.
func (g *Graph) Children(giName string) map[string]symbols.QualifiedSymbol {
	out := map[string]symbols.QualifiedSymbol{}
	for _, child := range g.children[giName] {
		out[g.displayName(child)] = g.qualified(child)
	}
	return out
}

// TypeNames returns every known gi name, sorted. Used by status
// reporting and tests.
func (g *Graph) TypeNames() []string {
	names := make([]string, 0, len(g.ctypes))
	for name := range g.ctypes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (g *Graph) displayName(giName string) string {
	if ctype := g.ctypes[giName]; ctype != "" {
		return ctype
	}
	return giName
}

func (g *Graph) qualified(giName string) symbols.QualifiedSymbol {
	name := g.displayName(giName)
	return symbols.QualifiedSymbol{TypeTokens: []symbols.TypeToken{symbols.LinkToken(name)}}
}
