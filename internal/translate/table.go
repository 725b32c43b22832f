// Package translate maintains the per-language translation table: the
// mapping from a symbol's stable unique name to the spelling shown when
// linking to it from C, Python or JavaScript documentation, plus the
// introspectability predicate deciding whether the symbol exists at all
// in a given language.
package translate

import (
	"strings"

	"girdoc/internal/gir"
	"girdoc/internal/symbols"
)

// Language is one documentation output language.
type Language string

const (
	C          Language = "c"
	Python     Language = "python"
	JavaScript Language = "javascript"
)

// OutputLanguages lists every supported language, C first. C is always
// rendered first so later languages can fall back to its pages.
var OutputLanguages = []Language{C, Python, JavaScript}

// ParseLanguage normalizes a user supplied language name.
func ParseLanguage(s string) (Language, bool) {
	switch Language(strings.ToLower(s)) {
	case C:
		return C, true
	case Python:
		return Python, true
	case JavaScript:
		return JavaScript, true
	}
	return "", false
}

// Table records one translated name per language per unique name,
// append-only within a build and shared across subprojects scanning
// overlapping gir files.
type Table struct {
	names             map[Language]map[string]string
	nonIntrospectable map[string]struct{}
	redirects         map[string]string
}

func NewTable() *Table {
	names := map[Language]map[string]string{}
	for _, lang := range OutputLanguages {
		names[lang] = map[string]string{}
	}
	return &Table{
		names:             names,
		nonIntrospectable: map[string]struct{}{},
		redirects:         map[string]string{},
	}
}

// Record registers the translations for a discovered node under its
// unique name. Nodes carrying a c:identifier are callables: Python sees
// the dotted gi name, JavaScript the same with the final component
// behind "prototype.". Nodes carrying a c:type are types: Python and
// JavaScript both see the dotted gi name. Anything else falls back to
// the plain name attribute for every language.
func (t *Table) Record(uniqueName string, node *gir.Node) {
	if uniqueName == "" || node == nil {
		return
	}

	components := node.NameComponents()
	giName := strings.Join(components, ".")

	switch {
	case node.HasCAttr("identifier"):
		t.names[Python][uniqueName] = giName
		jsComponents := append([]string{}, components...)
		if len(jsComponents) > 0 {
			jsComponents[len(jsComponents)-1] = "prototype." + jsComponents[len(jsComponents)-1]
		}
		t.names[JavaScript][uniqueName] = strings.Join(jsComponents, ".")
		t.names[C][uniqueName] = uniqueName
	case node.HasCAttr("type"):
		t.names[Python][uniqueName] = giName
		t.names[JavaScript][uniqueName] = giName
		t.names[C][uniqueName] = uniqueName
	default:
		plain := node.Attr("name")
		for _, lang := range OutputLanguages {
			t.names[lang][uniqueName] = plain
		}
	}

	if node.Attr("introspectable") == "0" {
		t.nonIntrospectable[uniqueName] = struct{}{}
	}
}

// RecordFieldPath registers a field's dotted path built from ancestor
// type and identifier attributes, skipping the namespace root.
func (t *Table) RecordFieldPath(uniqueName string, path []string) {
	dotted := strings.Join(path, ".")
	for _, lang := range OutputLanguages {
		t.names[lang][uniqueName] = dotted
	}
}

// RecordAlias registers a redirect: looking up the alias forwards to
// the aliased type's translation. Aliases of a fundamental adopt the
// fundamental's rendering directly for every non-C language.
func (t *Table) RecordAlias(aliasUnique, aliasedName string) {
	if aliasUnique == "" || aliasedName == "" {
		return
	}
	t.redirects[aliasUnique] = aliasedName
	t.names[C][aliasUnique] = aliasUnique
}

// TranslatedName returns the display name for a unique name in the
// given language, or "" when the name was never recorded.
func (t *Table) TranslatedName(uniqueName string, lang Language) string {
	if fund, ok := Fundamentals[lang][uniqueName]; ok {
		return fund.Title
	}
	if target, ok := t.redirects[uniqueName]; ok && lang != C {
		if fund, ok := Fundamentals[lang][target]; ok {
			return fund.Title
		}
		if name := t.names[lang][target]; name != "" {
			return name
		}
	}
	return t.names[lang][uniqueName]
}

// FundamentalLink returns the pre-registered link for a fundamental
// type in the given language, if any.
func (t *Table) FundamentalLink(name string, lang Language) (symbols.Link, bool) {
	link, ok := Fundamentals[lang][name]
	return link, ok
}

// IsIntrospectable reports whether a name is visible from a language.
// Fundamentals always are. Otherwise the name must have been recorded
// and its origin node must not have been flagged introspectable="0".
// A name never recorded is conservatively not introspectable, which
// keeps links from pointing at undocumented internals.
func (t *Table) IsIntrospectable(uniqueName string, lang Language) bool {
	if _, ok := Fundamentals[lang][uniqueName]; ok {
		return true
	}
	name := uniqueName
	if target, ok := t.redirects[uniqueName]; ok {
		name = target
	}
	if _, ok := t.names[lang][name]; !ok {
		return false
	}
	if _, ok := t.nonIntrospectable[name]; ok {
		return false
	}
	return true
}

// Known reports whether the unique name was ever recorded for lang.
func (t *Table) Known(uniqueName string, lang Language) bool {
	_, ok := t.names[lang][uniqueName]
	return ok
}

// Snapshot returns a copy of the table's contents keyed by language,
// used by the sqlite store.
func (t *Table) Snapshot() map[Language]map[string]string {
	out := map[Language]map[string]string{}
	for lang, names := range t.names {
		cp := make(map[string]string, len(names))
		for k, v := range names {
			cp[k] = v
		}
		out[lang] = cp
	}
	return out
}

// Restore loads persisted translations back into the table.
func (t *Table) Restore(lang Language, uniqueName, name string, introspectable bool) {
	t.names[lang][uniqueName] = name
	if !introspectable {
		t.nonIntrospectable[uniqueName] = struct{}{}
	}
}

// NonIntrospectable reports whether the origin node of uniqueName was
// explicitly flagged introspectable="0".
func (t *Table) NonIntrospectable(uniqueName string) bool {
	_, ok := t.nonIntrospectable[uniqueName]
	return ok
}
