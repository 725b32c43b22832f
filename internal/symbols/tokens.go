package symbols

// Link is a symbolic reference to another unique name. Ref and Title are
// filled in at render time by the link resolver for the active language.
type Link struct {
	ID    string
	Title string
	Ref   string
}

// TypeToken is one display token of a type: either a literal (qualifier
// keyword or pointer star) or a link to a named type.
type TypeToken struct {
	Literal string
	Link    *Link
}

// LiteralToken builds a literal token.
func LiteralToken(s string) TypeToken {
	return TypeToken{Literal: s}
}

// LinkToken builds a link token for a type name.
func LinkToken(name string) TypeToken {
	return TypeToken{Link: &Link{ID: name, Title: name}}
}

// TokensText renders tokens as plain text, using link titles for link
// tokens. Used for raw C signatures and for tests.
func TokensText(tokens []TypeToken) string {
	out := ""
	for _, t := range tokens {
		if t.Link != nil {
			out += t.Link.Title
		} else {
			out += t.Literal
		}
	}
	return out
}
