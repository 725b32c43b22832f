// Package index owns the ProjectIndex: the caches shared by every
// scanning and rendering pass of one top-level build. Subprojects hold
// a reference to their parent's index and overlay their own entries on
// top of it.
package index

import (
	"fmt"
	"log/slog"
	"strings"

	"girdoc/internal/gir"
	"girdoc/internal/hierarchy"
	"girdoc/internal/slogutil"
	"girdoc/internal/translate"
)

// ProjectIndex caches the gir nodes of a project and its transitively
// included dependencies, keyed by unique name, together with the
// inheritance graph and the translation table derived from them.
// All maps are append-only during a build.
type ProjectIndex struct {
	parent *ProjectIndex

	nodes      map[string]*gir.Node
	classNodes map[string]*gir.Node
	parsedGirs map[string]struct{}

	Hierarchy    *hierarchy.Graph
	Translations *translate.Table

	// smartFilters holds the generated GObject boilerplate macro
	// spellings; getTypeFuncs the glib:get-type functions. Both are
	// dropped at symbol creation time.
	smartFilters map[string]struct{}
	getTypeFuncs map[string]struct{}

	sources    []string
	searchDirs []string
	log        *slog.Logger
}

// New creates the index for a top-level build. sources are the
// project's own gir files; searchDirs are consulted for includes.
func New(sources, searchDirs []string, log *slog.Logger) *ProjectIndex {
	if log == nil {
		log = slogutil.NewDiscardLogger()
	}
	return &ProjectIndex{
		nodes:        map[string]*gir.Node{},
		classNodes:   map[string]*gir.Node{},
		parsedGirs:   map[string]struct{}{},
		Hierarchy:    hierarchy.NewGraph(),
		Translations: translate.NewTable(),
		smartFilters: map[string]struct{}{},
		getTypeFuncs: map[string]struct{}{},
		sources:      sources,
		searchDirs:   searchDirs,
		log:          log,
	}
}

// NewSubIndex creates a subproject overlay. Lookups fall through to the
// parent; writes land in the overlay, so a subproject can scan extra
// gir files without polluting its siblings. Hierarchy and translations
// stay shared: both are defined to be common across subprojects.
func NewSubIndex(parent *ProjectIndex, sources []string) *ProjectIndex {
	sub := New(sources, parent.searchDirs, parent.log)
	sub.parent = parent
	sub.Hierarchy = parent.Hierarchy
	sub.Translations = parent.Translations
	return sub
}

// LoadGir parses and caches one gir file plus everything it includes.
// Parsing the same file twice within a build is a no-op.
func (ix *ProjectIndex) LoadGir(path string) (*gir.Node, error) {
	if ix.alreadyParsed(path) {
		return nil, nil
	}
	ix.parsedGirs[path] = struct{}{}

	root, err := gir.ParseFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading gir: %w", err)
	}
	ix.CacheNodes(root)
	return root, nil
}

// CacheNodes walks a parsed gir document, filling the node cache, the
// hierarchy graph, the translation table and the smart filter set, then
// chases the document's includes.
func (ix *ProjectIndex) CacheNodes(root *gir.Node) {
	ns := root.FindChild(gir.KindNamespace)
	var symPrefixes string
	if ns != nil {
		symPrefixes = ns.CAttr("symbol-prefixes")
	}

	ix.walkCache(root, symPrefixes)
	ix.resolveIncludes(root)
}

func (ix *ProjectIndex) walkCache(node *gir.Node, symPrefixes string) {
	for _, child := range node.Children {
		ix.cacheOne(child, symPrefixes)
		ix.walkCache(child, symPrefixes)
	}
}

func (ix *ProjectIndex) cacheOne(node *gir.Node, symPrefixes string) {
	kind := node.Kind()

	// Type references inside parameters also carry c:type; only real
	// declarations belong in the cache.
	if kind == gir.KindType || kind == gir.KindArray {
		return
	}

	if id := node.CAttr("identifier"); id != "" {
		ix.put(id, node)
	}

	if ctype := node.CAttr("type"); ctype != "" {
		ix.put(ctype, node)
		if kind == gir.KindClass || kind == gir.KindInterface {
			ix.cacheClass(node, ctype, symPrefixes)
		}
	}

	switch kind {
	case gir.KindProperty:
		if parent := node.Parent; parent != nil {
			ix.put(parent.TypeName()+":"+node.Attr("name"), node)
		}
	case gir.KindSignal:
		if parent := node.Parent; parent != nil {
			ix.put(parent.TypeName()+"::"+node.Attr("name"), node)
		}
	case gir.KindVirtualMethod:
		if name := ix.vfuncUniqueName(node); name != "" {
			ix.put(name, node)
		}
	}
}

func (ix *ProjectIndex) cacheClass(node *gir.Node, ctype, symPrefixes string) {
	giName := node.GIName()
	ix.classNodes[giName] = node
	ix.Hierarchy.AddType(giName, ctype)

	if parent := node.Attr("parent"); parent != "" {
		if !strings.Contains(parent, ".") {
			parent = node.Namespace() + "." + parent
		}
		ix.Hierarchy.AddEdge(parent, giName)
	}

	// The class page entry shares the class node.
	ix.put(ctype+"::"+ctype, node)

	if getType := node.GlibAttr("get-type"); getType != "" {
		ix.getTypeFuncs[getType] = struct{}{}
	}
	ix.addSmartFilters(symPrefixes, node.CAttr("symbol-prefix"))
}

// vfuncUniqueName composes "<ClassStructCType>::<name>" by locating the
// class struct record linked to the vfunc's class. Returns "" when the
// class struct cannot be resolved; the caller skips the entry.
func (ix *ProjectIndex) vfuncUniqueName(node *gir.Node) string {
	classNode := node.Parent
	if classNode == nil {
		return ""
	}
	structNode := ClassStructFor(classNode)
	if structNode == nil {
		return ""
	}
	return structNode.CAttr("type") + "::" + node.Attr("name")
}

// ClassStructFor returns the record node holding the virtual method
// pointers of a class/interface node, located through the
// glib:is-gtype-struct-for attribute on its siblings.
func ClassStructFor(classNode *gir.Node) *gir.Node {
	ns := classNode.Parent
	if ns == nil {
		return nil
	}
	className := classNode.Attr("name")
	for _, sibling := range ns.Children {
		if sibling.GlibAttr("is-gtype-struct-for") == className {
			return sibling
		}
	}
	return nil
}

// addSmartFilters generates the boilerplate GObject macro spellings for
// one class, e.g. TEST_IS_GREETER, TEST_TYPE_GREETER. These macros are
// never documented.
func (ix *ProjectIndex) addSmartFilters(symPrefixes, symPrefix string) {
	if symPrefixes == "" || symPrefix == "" {
		return
	}
	patterns := []string{
		"%s_IS_%s",
		"%s_TYPE_%s",
		"%s_%s",
		"%s_%s_CLASS",
		"%s_IS_%s_CLASS",
		"%s_%s_GET_CLASS",
		"%s_%s_GET_IFACE",
	}
	for _, p := range patterns {
		ix.smartFilters[strings.ToUpper(fmt.Sprintf(p, symPrefixes, symPrefix))] = struct{}{}
	}
}

func (ix *ProjectIndex) resolveIncludes(root *gir.Node) {
	for _, inc := range root.FindChildren(gir.KindInclude) {
		name := inc.Attr("name")
		version := inc.Attr("version")
		girName := fmt.Sprintf("%s-%s.gir", name, version)

		path := gir.FindGirFile(girName, ix.allSources(), ix.searchDirs)
		if path == "" {
			slogutil.Warn(ix.log, slogutil.CodeMissingGirInclude,
				"couldn't find a gir for include", slog.String("gir", girName))
			continue
		}
		if ix.alreadyParsed(path) {
			continue
		}
		ix.parsedGirs[path] = struct{}{}

		incRoot, err := gir.ParseFile(path)
		if err != nil {
			slogutil.Warn(ix.log, slogutil.CodeParserDiagnostic,
				"failed to parse included gir", slog.String("gir", path), slog.String("error", err.Error()))
			continue
		}
		ix.CacheNodes(incRoot)
	}
}

// Node returns the cached gir node for a unique name, consulting the
// parent index when the overlay has no entry.
func (ix *ProjectIndex) Node(uniqueName string) *gir.Node {
	if n, ok := ix.nodes[uniqueName]; ok {
		return n
	}
	if ix.parent != nil {
		return ix.parent.Node(uniqueName)
	}
	return nil
}

// ClassNode resolves a type reference against the known class and
// interface nodes: first as "<namespace>.<name>", then as given.
func (ix *ProjectIndex) ClassNode(curNS, name string) *gir.Node {
	if n := ix.classNode(curNS + "." + name); n != nil {
		return n
	}
	return ix.classNode(name)
}

func (ix *ProjectIndex) classNode(giName string) *gir.Node {
	if n, ok := ix.classNodes[giName]; ok {
		return n
	}
	if ix.parent != nil {
		return ix.parent.classNode(giName)
	}
	return nil
}

// IsSmartFiltered reports whether a name is GObject boilerplate or a
// get-type function and must not become a documented symbol.
func (ix *ProjectIndex) IsSmartFiltered(name string) bool {
	if _, ok := ix.smartFilters[name]; ok {
		return true
	}
	if _, ok := ix.getTypeFuncs[name]; ok {
		return true
	}
	if ix.parent != nil {
		return ix.parent.IsSmartFiltered(name)
	}
	return false
}

func (ix *ProjectIndex) alreadyParsed(path string) bool {
	if _, ok := ix.parsedGirs[path]; ok {
		return true
	}
	if ix.parent != nil {
		return ix.parent.alreadyParsed(path)
	}
	return false
}

func (ix *ProjectIndex) allSources() []string {
	if ix.parent == nil {
		return ix.sources
	}
	return append(ix.parent.allSources(), ix.sources...)
}

func (ix *ProjectIndex) put(name string, node *gir.Node) {
	if name == "" {
		return
	}
	if _, ok := ix.nodes[name]; ok {
		return
	}
	ix.nodes[name] = node
	ix.Translations.Record(name, node)
}

// RecordedNames returns how many unique names are cached in this index
// (excluding the parent overlay).
func (ix *ProjectIndex) RecordedNames() int { return len(ix.nodes) }
