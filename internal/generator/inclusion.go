package generator

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"girdoc/internal/slogutil"
	"girdoc/internal/symbols"
)

// Inclusion is one "include this code in the page" directive: a source
// file plus either a symbol whose extent delimits the snippet, or
// explicit 1-based inclusive line ranges, or neither for the whole
// file.
type Inclusion struct {
	Path       string
	SymbolName string
	Ranges     [][2]int
}

// Resolve reads the included snippet. A symbol that cannot be found or
// carries no extent is a warning and an error, the page renders
// without the snippet.
func (inc Inclusion) Resolve(sink *symbols.Sink, log *slog.Logger) (string, error) {
	if log == nil {
		log = slogutil.NewDiscardLogger()
	}

	raw, err := os.ReadFile(inc.Path)
	if err != nil {
		slogutil.Warn(log, slogutil.CodeBadInclusion,
			"included file cannot be read",
			slog.String("file", inc.Path), slog.String("error", err.Error()))
		return "", err
	}
	lines := strings.Split(string(raw), "\n")

	ranges := inc.Ranges
	if inc.SymbolName != "" {
		sym := sink.Get(inc.SymbolName)
		fn, ok := sym.(*symbols.FunctionSymbol)
		if !ok || fn.ExtentStart == 0 {
			slogutil.Warn(log, slogutil.CodeBadInclusion,
				"included symbol not found in file",
				slog.String("file", inc.Path), slog.String("symbol", inc.SymbolName))
			return "", fmt.Errorf("%w: %s", ErrInclusionSymbol, inc.SymbolName)
		}
		ranges = [][2]int{{fn.ExtentStart, fn.ExtentEnd}}
	}
	if len(ranges) == 0 {
		ranges = [][2]int{{1, len(lines)}}
	}

	var out []string
	for _, r := range ranges {
		start, end := r[0], r[1]
		if start < 1 {
			start = 1
		}
		if end > len(lines) {
			end = len(lines)
		}
		if start > end {
			continue
		}
		out = append(out, lines[start-1:end]...)
	}
	return strings.Join(out, "\n"), nil
}

// ErrInclusionSymbol marks an inclusion naming a symbol no scan saw.
var ErrInclusionSymbol = fmt.Errorf("inclusion symbol not found")
