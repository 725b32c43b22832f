// Package planner decides which documentation page each symbol lands
// on. Placement follows the comment database first, then structural
// hints from the type system, and falls back to a catch-all page.
package planner

import (
	"log/slog"
	"path/filepath"
	"sort"
	"strings"

	"girdoc/internal/comments"
	"girdoc/internal/index"
	"girdoc/internal/slogutil"
	"girdoc/internal/symbols"
)

// DefaultPage collects symbols with no usable placement hint.
const DefaultPage = "Miscellaneous.default_page"

// Plan is the computed page assignment for one project.
type Plan struct {
	// ByName maps each unique name to its page.
	ByName map[string]string
	// Pages maps each page to its symbols, sorted by unique name.
	Pages map[string][]string
}

// PageNames returns the pages of the plan in sorted order.
func (p *Plan) PageNames() []string {
	names := make([]string, 0, len(p.Pages))
	for name := range p.Pages {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Planner assigns symbols to pages.
type Planner struct {
	ix       *index.ProjectIndex
	comments comments.Store
	sink     *symbols.Sink
	log      *slog.Logger

	memo map[string]string
	// byParent indexes symbols under their owner, constructors first.
	byParent map[string][]symbols.Symbol
}

func New(ix *index.ProjectIndex, store comments.Store, sink *symbols.Sink, log *slog.Logger) *Planner {
	if log == nil {
		log = slogutil.NewDiscardLogger()
	}
	return &Planner{
		ix:       ix,
		comments: store,
		sink:     sink,
		log:      log,
		memo:     map[string]string{},
	}
}

// Assign computes the page of every symbol in the sink.
func (p *Planner) Assign() *Plan {
	p.indexParents()

	plan := &Plan{
		ByName: map[string]string{},
		Pages:  map[string][]string{},
	}
	for _, sym := range p.sink.All() {
		page := p.PageFor(sym.Base().UniqueName)
		plan.ByName[sym.Base().UniqueName] = page
		plan.Pages[page] = append(plan.Pages[page], sym.Base().UniqueName)
	}
	for _, names := range plan.Pages {
		sort.Strings(names)
	}
	return plan
}

func (p *Planner) indexParents() {
	p.byParent = map[string][]symbols.Symbol{}
	for _, sym := range p.sink.All() {
		owner := sym.Base().ParentName
		if owner == "" || owner == sym.Base().DisplayName {
			continue
		}
		p.byParent[owner] = append(p.byParent[owner], sym)
	}
	for owner := range p.byParent {
		children := p.byParent[owner]
		sort.SliceStable(children, func(i, j int) bool {
			return constructorRank(children[i]) < constructorRank(children[j])
		})
	}
}

func constructorRank(sym symbols.Symbol) int {
	if sym.Kind() == symbols.KindConstructor {
		return 0
	}
	return 1
}

// PageFor resolves the page of one symbol by unique name.
func (p *Planner) PageFor(uniqueName string) string {
	return p.pageFor(uniqueName, map[string]bool{})
}

func (p *Planner) pageFor(uniqueName string, visiting map[string]bool) string {
	if page, ok := p.memo[uniqueName]; ok {
		return page
	}
	if visiting[uniqueName] {
		return DefaultPage
	}
	visiting[uniqueName] = true

	page := p.resolve(uniqueName, visiting)
	p.memo[uniqueName] = page
	return page
}

func (p *Planner) resolve(uniqueName string, visiting map[string]bool) string {
	sym := p.sink.Get(uniqueName)
	if sym == nil {
		return DefaultPage
	}
	base := sym.Base()

	if c := p.comments.Get(uniqueName); c != nil && c.Filename != "" {
		return pageName(c.Filename)
	}
	if base.Filename != "" {
		return base.Filename
	}

	// A class structure lives on its class's page.
	if st, ok := sym.(*symbols.StructSymbol); ok {
		if node := p.ix.Node(st.UniqueName); node != nil {
			if forClass := node.GlibAttr("is-gtype-struct-for"); forClass != "" {
				if classNode := p.ix.ClassNode(node.Namespace(), forClass); classNode != nil {
					ctype := classNode.TypeName()
					return p.pageFor(ctype+"::"+ctype, visiting)
				}
			}
		}
	}

	switch sym.(type) {
	case *symbols.ClassSymbol, *symbols.InterfaceSymbol, *symbols.StructSymbol:
		if page, ok := p.fromChildren(base, visiting); ok {
			return page
		}
		if page, ok := p.fromNextSibling(base, visiting); ok {
			return page
		}
	default:
		// Members render inside their owner, keep them together.
		if base.ParentName != "" && base.ParentName != base.DisplayName {
			if owner := p.sink.Get(base.ParentName + "::" + base.ParentName); owner != nil {
				return p.pageFor(owner.Base().UniqueName, visiting)
			}
			if owner := p.sink.Get(base.ParentName); owner != nil {
				return p.pageFor(owner.Base().UniqueName, visiting)
			}
		}
	}

	slogutil.Warn(p.log, slogutil.CodeNoPageHint,
		"symbol has no page, add a documentation comment for it",
		slog.String("symbol", uniqueName))
	return DefaultPage
}

// fromChildren takes the page of the first child that resolves to a
// real page, warning when children disagree.
func (p *Planner) fromChildren(base *symbols.BaseSymbol, visiting map[string]bool) (string, bool) {
	var candidates []string
	seen := map[string]bool{}
	for _, child := range p.byParent[base.DisplayName] {
		page := p.pageFor(child.Base().UniqueName, visiting)
		if page == DefaultPage || page == "" || seen[page] {
			continue
		}
		seen[page] = true
		candidates = append(candidates, page)
	}
	if len(candidates) == 0 {
		return "", false
	}
	if len(candidates) > 1 {
		slogutil.Warn(p.log, slogutil.CodeAmbiguousPage,
			"children place the symbol on multiple pages, using the first",
			slog.String("symbol", base.UniqueName),
			slog.String("pages", strings.Join(candidates, ", ")))
	}
	return candidates[0], true
}

// fromNextSibling detects the class-struct-follows-class layout in the
// source document.
func (p *Planner) fromNextSibling(base *symbols.BaseSymbol, visiting map[string]bool) (string, bool) {
	node := p.ix.Node(base.UniqueName)
	if node == nil {
		return "", false
	}
	sibling := node.NextSibling()
	if sibling == nil {
		return "", false
	}
	if sibling.GlibAttr("is-gtype-struct-for") != node.Attr("name") {
		return "", false
	}
	structName := sibling.TypeName()
	if structName == "" {
		return "", false
	}
	if c := p.comments.Get(structName); c != nil && c.Filename != "" {
		return pageName(c.Filename), true
	}
	if st := p.sink.Get(structName); st != nil && st.Base().Filename != "" {
		return st.Base().Filename, true
	}
	return "", false
}

func pageName(filename string) string {
	base := filepath.Base(filename)
	return strings.TrimSuffix(base, filepath.Ext(base)) + ".h"
}
