// Package comments holds the contract with the host's comment
// database. Comment content is opaque here: prose markup parsing is the
// host's job, this core only needs names, filenames and param maps.
package comments

// Comment is one parsed documentation block keyed by symbol name.
type Comment struct {
	Name        string
	Description string
	Filename    string
	Lineno      int
	Tags        map[string]string
	Params      map[string]string

	// ParamOrder lists the @param names in the order they were written.
	ParamOrder []string

	// Title is the optional page title block for file-level comments.
	Title string
}

// Store is what the scanners and the page planner need from the host's
// comment database.
type Store interface {
	Get(name string) *Comment
	Add(c *Comment)
}

// MemoryStore is the in-process implementation used by the pipeline and
// the tests.
type MemoryStore struct {
	byName map[string]*Comment
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{byName: map[string]*Comment{}}
}

func (s *MemoryStore) Get(name string) *Comment {
	return s.byName[name]
}

func (s *MemoryStore) Add(c *Comment) {
	if c == nil || c.Name == "" {
		return
	}
	s.byName[c.Name] = c
}

// All returns every stored comment. Iteration order is unspecified.
func (s *MemoryStore) All() []*Comment {
	out := make([]*Comment, 0, len(s.byName))
	for _, c := range s.byName {
		out = append(out, c)
	}
	return out
}
