package symbols

// Sink is the get-or-create symbol store. It is idempotent on unique
// name: creating a symbol that already exists returns the existing
// identity, merging in any newly discovered fields instead of
// duplicating the record. Insertion order is preserved so page layouts
// stay deterministic across runs.
type Sink struct {
	byName map[string]Symbol
	order  []string
}

func NewSink() *Sink {
	return &Sink{byName: map[string]Symbol{}}
}

// GetOrCreate registers sym under its unique name, or merges it into
// the previously registered symbol of the same name. The returned
// Symbol is the canonical identity for that name.
func (s *Sink) GetOrCreate(sym Symbol) Symbol {
	if sym == nil {
		return nil
	}
	name := sym.Base().UniqueName
	if name == "" {
		name = sym.Base().DisplayName
		sym.Base().UniqueName = name
	}
	if existing, ok := s.byName[name]; ok {
		merge(existing, sym)
		return existing
	}
	s.byName[name] = sym
	s.order = append(s.order, name)
	return sym
}

// Remove drops the symbol registered under name, if any.
func (s *Sink) Remove(name string) {
	if _, ok := s.byName[name]; !ok {
		return
	}
	delete(s.byName, name)
	for i, n := range s.order {
		if n == name {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// Get returns the symbol registered under name, or nil.
func (s *Sink) Get(name string) Symbol {
	return s.byName[name]
}

// All returns every registered symbol in insertion order.
func (s *Sink) All() []Symbol {
	out := make([]Symbol, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.byName[name])
	}
	return out
}

// Len returns the number of registered symbols.
func (s *Sink) Len() int { return len(s.order) }

// merge copies newly discovered base fields from src into dst. A later
// pass (introspection data arriving after C scanning) only ever adds
// information, it never retracts what an earlier pass recorded.
func merge(dst, src Symbol) {
	db, sb := dst.Base(), src.Base()
	if db.DisplayName == "" {
		db.DisplayName = sb.DisplayName
	}
	if db.Filename == "" {
		db.Filename = sb.Filename
	}
	if db.Source == "" {
		db.Source = sb.Source
	}
	if db.Lineno == 0 {
		db.Lineno = sb.Lineno
	}
	if db.ParentName == "" {
		db.ParentName = sb.ParentName
	}
	for k, v := range sb.Extra {
		db.SetExtra(k, v)
	}

	// Structural payloads are filled once whichever variant saw them
	// first; an update pass that recomputed them wins only over an
	// empty slot.
	switch d := dst.(type) {
	case *FunctionSymbol:
		if s, ok := src.(*FunctionSymbol); ok {
			if len(d.Parameters) == 0 {
				d.Parameters = s.Parameters
			}
			if len(d.ReturnValue) == 0 {
				d.ReturnValue = s.ReturnValue
			}
			d.Throws = d.Throws || s.Throws
			d.IsMethod = d.IsMethod || s.IsMethod
		}
	case *StructSymbol:
		if s, ok := src.(*StructSymbol); ok {
			if len(d.Members) == 0 {
				d.Members = s.Members
			}
			if d.RawText == "" {
				d.RawText = s.RawText
			}
		}
	case *ClassSymbol:
		if s, ok := src.(*ClassSymbol); ok {
			if len(d.Hierarchy) == 0 {
				d.Hierarchy = s.Hierarchy
			}
			if len(d.Children) == 0 {
				d.Children = s.Children
			}
			if d.ClassStruct == nil {
				d.ClassStruct = s.ClassStruct
			}
		}
	}
}
