package extractor

import (
	"regexp"
	"strings"
)

// visibilityMarker matches the gtk-doc struct section comments
// /*<public>*/, /*<private>*/ and /*<protected>*/ in any whitespace
// spelling.
var visibilityMarker = regexp.MustCompile(`/\*\s*<\s*(public|private|protected)\s*>\s*\*/`)

type markerEvent struct {
	line   int
	public bool
}

// structVisibility tracks which lines of a struct body are public.
// With no markers every member is public. As soon as a <public> marker
// appears anywhere in the body, members before it are private.
type structVisibility struct {
	events    []markerEvent
	hadPublic bool
}

// parseVisibility scans the source lines of a struct body, 1-based and
// inclusive, for visibility markers.
func parseVisibility(source []byte, startLine, endLine int) *structVisibility {
	v := &structVisibility{}
	lines := strings.Split(string(source), "\n")
	if endLine > len(lines) {
		endLine = len(lines)
	}
	for lineno := startLine; lineno <= endLine; lineno++ {
		for _, m := range visibilityMarker.FindAllStringSubmatch(lines[lineno-1], -1) {
			public := m[1] == "public"
			if public {
				v.hadPublic = true
			}
			v.events = append(v.events, markerEvent{line: lineno, public: public})
		}
	}
	return v
}

// isPublic reports whether a member declared on the given line is part
// of the documented structure.
func (v *structVisibility) isPublic(line int) bool {
	if len(v.events) == 0 {
		return true
	}
	public := !v.hadPublic
	for _, ev := range v.events {
		if ev.line > line {
			break
		}
		public = ev.public
	}
	return public
}
