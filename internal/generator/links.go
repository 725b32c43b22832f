package generator

import (
	"strings"

	"girdoc/internal/planner"
	"girdoc/internal/symbols"
	"girdoc/internal/translate"
)

// LinkResolver turns unique names into per-language page refs and link
// titles. Every ref carries a language path segment right after the
// project segment, so each output language gets its own subtree.
type LinkResolver struct {
	project string
	table   *translate.Table
	plan    *planner.Plan
}

func NewLinkResolver(project string, table *translate.Table, plan *planner.Plan) *LinkResolver {
	return &LinkResolver{project: project, table: table, plan: plan}
}

// Ref returns the page reference of a symbol for one output language.
// A symbol that is not introspectable in a non-C language links into
// the C subtree instead.
func (r *LinkResolver) Ref(uniqueName string, lang translate.Language) string {
	if link, ok := r.table.FundamentalLink(uniqueName, lang); ok {
		return link.Ref
	}
	target := lang
	if lang != translate.C && !r.table.IsIntrospectable(uniqueName, lang) {
		target = translate.C
	}
	page, ok := r.plan.ByName[uniqueName]
	if !ok {
		return ""
	}
	return r.pageRef(page, target) + "#" + anchor(uniqueName)
}

// Title returns the display text of a link to a symbol. Linking a
// non-introspectable symbol from a non-C language names the C symbol
// and flags it.
func (r *LinkResolver) Title(uniqueName string, lang translate.Language) string {
	if link, ok := r.table.FundamentalLink(uniqueName, lang); ok {
		return link.Title
	}
	if lang != translate.C && !r.table.IsIntrospectable(uniqueName, lang) {
		title := r.table.TranslatedName(uniqueName, translate.C)
		if title == "" {
			title = uniqueName
		}
		return title + " (not introspectable)"
	}
	title := r.table.TranslatedName(uniqueName, lang)
	if title == "" {
		title = uniqueName
	}
	return title
}

// Resolve fills in the ref of every link token of a rendered type.
func (r *LinkResolver) Resolve(tokens []symbols.TypeToken, lang translate.Language) []symbols.TypeToken {
	out := make([]symbols.TypeToken, len(tokens))
	for i, tok := range tokens {
		out[i] = tok
		if tok.Link == nil {
			continue
		}
		link := *tok.Link
		if link.Ref == "" {
			link.Ref = r.Ref(link.ID, lang)
		}
		if link.Title == "" {
			link.Title = r.Title(link.ID, lang)
		}
		out[i].Link = &link
	}
	return out
}

// pageRef builds "<project>/<lang>/<page>.md".
func (r *LinkResolver) pageRef(page string, lang translate.Language) string {
	stem := strings.TrimSuffix(page, ".h")
	parts := []string{}
	if r.project != "" {
		parts = append(parts, r.project)
	}
	parts = append(parts, string(lang), stem+".md")
	return strings.Join(parts, "/")
}

// anchor derives a stable fragment identifier from a unique name.
var anchorReplacer = strings.NewReplacer("::", ".", ":", ".", " ", "-")

func anchor(uniqueName string) string {
	return strings.ToLower(anchorReplacer.Replace(uniqueName))
}
