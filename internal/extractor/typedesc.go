package extractor

import (
	"strings"

	"girdoc/internal/gir"
	"girdoc/internal/index"
	"girdoc/internal/symbols"
)

// TypeDesc is the normalized description of one type reference: the
// display tokens, the language-neutral canonical name, the raw C type
// spelling when the gir carries one, and how many array/list wrappers
// were unwrapped.
type TypeDesc struct {
	Tokens  []symbols.TypeToken
	GIName  string
	CName   string
	Nesting int
}

// Void reports whether the description stands for the absence of a
// value (a "none" return type).
func (d TypeDesc) Void() bool { return d.GIName == "none" }

// Describe resolves the type of a parameter, return value, field,
// property or alias node. It never fails: a node with no resolvable
// type yields an empty token list and the neutral canonical name
// "object".
func Describe(node *gir.Node, ix *index.ProjectIndex) TypeDesc {
	if varargs := node.FindChild(gir.KindVarargs); varargs != nil {
		return TypeDesc{
			Tokens: []symbols.TypeToken{symbols.LiteralToken("...")},
			GIName: "valist",
			CName:  "...",
		}
	}

	typeNode := node.FindChild(gir.KindArray)
	if typeNode == nil {
		typeNode = node.FindChild(gir.KindType)
	}
	if typeNode == nil {
		return TypeDesc{GIName: "object"}
	}

	cname := typeNode.CAttr("type")

	// Unwrap array-of and GList-of wrappers, counting nesting depth.
	nesting := 0
	for typeNode.Kind() == gir.KindArray || typeNode.Attr("name") == "GLib.List" {
		inner := typeNode.FindChild(gir.KindArray)
		if inner == nil {
			inner = typeNode.FindChild(gir.KindType)
		}
		if inner == nil {
			break
		}
		typeNode = inner
		nesting++
	}

	giName := typeNode.Attr("name")
	if giName == "" {
		giName = "object"
	}

	curNS := node.Namespace()

	var tokens []symbols.TypeToken
	switch {
	case cname != "":
		tokens = TokensFromCDecl(cname)
	case giName != "none":
		tokens = tokensFromGIType(curNS, giName, ix)
	}

	// A type naming a known class is canonicalized to its namespaced
	// gi name so hierarchy and translation lookups find it.
	if ix != nil && ix.ClassNode(curNS, giName) != nil && !strings.Contains(giName, ".") {
		giName = curNS + "." + giName
	}

	return TypeDesc{Tokens: tokens, GIName: giName, CName: cname, Nesting: nesting}
}

// TokensFromCDecl splits a raw C declarator into display tokens.
// Qualifiers stay in source order, the base type becomes a link, and
// the pointer stars are appended last, so "const char *" renders as
// ["const ", link(char), "*"].
func TokensFromCDecl(cdecl string) []symbols.TypeToken {
	indirection := strings.Count(cdecl, "*")
	qualified := strings.Trim(cdecl, "*")

	var tokens []symbols.TypeToken
	for _, tok := range strings.Fields(qualified) {
		switch tok {
		case "const", "restrict", "volatile":
			tokens = append(tokens, symbols.LiteralToken(tok+" "))
		default:
			tokens = append(tokens, symbols.LinkToken(tok))
		}
	}
	for i := 0; i < indirection; i++ {
		tokens = append(tokens, symbols.LiteralToken("*"))
	}
	return tokens
}

// tokensFromGIType renders a symbolic gir type name. When the name
// resolves to a known class or interface the link targets its C type;
// otherwise the name itself links (it may still resolve at render
// time, e.g. against an external documentation index).
func tokensFromGIType(curNS, name string, ix *index.ProjectIndex) []symbols.TypeToken {
	if name == "none" {
		return nil
	}
	if ix != nil {
		if klass := ix.ClassNode(curNS, name); klass != nil {
			if ctype := klass.CAttr("type"); ctype != "" {
				name = ctype
			}
		}
	}
	return []symbols.TypeToken{symbols.LinkToken(name), symbols.LiteralToken("*")}
}
