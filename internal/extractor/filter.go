package extractor

import (
	"errors"
	"log/slog"

	"girdoc/internal/index"
	"girdoc/internal/symbols"
)

// ErrNoParserBackend is returned when a source parser cannot be
// constructed for a requested language.
var ErrNoParserBackend = errors.New("extractor: no parser backend available")

// filteringSink applies the creation-time exclusion rules before
// handing a symbol to the get-or-create sink: GObject boilerplate
// macros, get-type functions and disguised private records never
// become documented symbols.
type filteringSink struct {
	ix      *index.ProjectIndex
	sink    *symbols.Sink
	log     *slog.Logger
	dropped map[string]struct{}
	source  string
}

func newFilteringSink(ix *index.ProjectIndex, sink *symbols.Sink, log *slog.Logger) *filteringSink {
	return &filteringSink{
		ix:      ix,
		sink:    sink,
		log:     log,
		dropped: map[string]struct{}{},
	}
}

// setSource records the file currently being scanned; symbols emitted
// until the next call are attributed to it for staleness invalidation.
func (f *filteringSink) setSource(path string) {
	f.source = path
}

// emit registers the symbol unless a filter drops it. Returns the
// canonical instance from the sink, or nil when dropped.
func (f *filteringSink) emit(sym symbols.Symbol) symbols.Symbol {
	if sym.Base().Source == "" {
		sym.Base().Source = f.source
	}
	name := sym.Base().UniqueName
	if _, ok := f.dropped[name]; ok {
		return nil
	}
	if f.ix.IsSmartFiltered(sym.Base().DisplayName) {
		f.log.Debug("dropping boilerplate symbol", slog.String("name", name))
		f.dropped[name] = struct{}{}
		return nil
	}
	if st, ok := sym.(*symbols.StructSymbol); ok {
		if node := f.ix.Node(st.UniqueName); node != nil && node.Attr("disguised") == "1" {
			f.log.Debug("dropping private structure", slog.String("name", name))
			f.dropped[name] = struct{}{}
			return nil
		}
	}
	return f.sink.GetOrCreate(sym)
}
