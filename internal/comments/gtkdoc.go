package comments

import (
	"regexp"
	"strings"
)

var (
	blockStart = regexp.MustCompile(`^\s*/\*\*\s*$`)
	blockEnd   = regexp.MustCompile(`\*/\s*$`)
	nameLine   = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_:-]*):\s*(.*)$`)
	paramLine  = regexp.MustCompile(`^@([A-Za-z_.][A-Za-z0-9_.]*):\s*(.*)$`)
	tagLine    = regexp.MustCompile(`^(Returns|Since|Deprecated|Stability):\s*(.*)$`)
)

// ExtractBlocks parses the gtk-doc comment blocks of one source file.
// Block content beyond the structural lines (name, @params, tags) is
// kept as opaque description text.
func ExtractBlocks(source []byte, filename string) []*Comment {
	var out []*Comment
	lines := strings.Split(string(source), "\n")

	for i := 0; i < len(lines); i++ {
		if !blockStart.MatchString(lines[i]) {
			continue
		}
		startLine := i + 1
		var body []string
		for i++; i < len(lines); i++ {
			if blockEnd.MatchString(lines[i]) {
				break
			}
			body = append(body, stripLeader(lines[i]))
		}
		if c := parseBlock(body, filename, startLine); c != nil {
			out = append(out, c)
		}
	}
	return out
}

// stripLeader removes the leading " * " decoration of a block line.
func stripLeader(line string) string {
	trimmed := strings.TrimLeft(line, " \t")
	trimmed = strings.TrimPrefix(trimmed, "*")
	return strings.TrimPrefix(trimmed, " ")
}

func parseBlock(body []string, filename string, lineno int) *Comment {
	// Skip leading blank lines, the first real line names the symbol.
	idx := 0
	for idx < len(body) && strings.TrimSpace(body[idx]) == "" {
		idx++
	}
	if idx == len(body) {
		return nil
	}

	first := strings.TrimSpace(body[idx])
	var name, title string
	if section, ok := strings.CutPrefix(first, "SECTION:"); ok {
		// Section blocks carry no trailing colon.
		name = strings.TrimSpace(section)
		title = name
	} else {
		m := nameLine.FindStringSubmatch(first)
		if m == nil {
			return nil
		}
		name = m[1]
	}

	c := &Comment{
		Name:     name,
		Filename: filename,
		Lineno:   lineno,
		Title:    title,
		Tags:     map[string]string{},
		Params:   map[string]string{},
	}
	idx++

	var desc []string
	var curParam string
	for ; idx < len(body); idx++ {
		line := body[idx]
		trimmed := strings.TrimSpace(line)

		if after, ok := strings.CutPrefix(trimmed, "@title:"); ok {
			c.Title = strings.TrimSpace(after)
			continue
		}
		if pm := paramLine.FindStringSubmatch(trimmed); pm != nil {
			curParam = pm[1]
			c.Params[curParam] = pm[2]
			c.ParamOrder = append(c.ParamOrder, curParam)
			continue
		}
		if tm := tagLine.FindStringSubmatch(trimmed); tm != nil {
			curParam = ""
			c.Tags[strings.ToLower(tm[1])] = tm[2]
			continue
		}
		if trimmed == "" {
			curParam = ""
			desc = append(desc, "")
			continue
		}
		if curParam != "" {
			// Continuation of the previous @param description.
			c.Params[curParam] += " " + trimmed
			continue
		}
		desc = append(desc, line)
	}

	c.Description = strings.TrimSpace(strings.Join(desc, "\n"))
	return c
}
