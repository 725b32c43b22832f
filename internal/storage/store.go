package storage

import (
	"context"

	"girdoc/internal/comments"
	"girdoc/internal/symbols"
	"girdoc/internal/translate"
)

// Store is what incremental builds need persisted between runs.
type Store interface {
	SymbolStore
	TranslationStore
	CommentStore
	PageStore
	FileStore
	Close() error
}

// SymbolStore persists the extracted symbols.
type SymbolStore interface {
	// SaveSymbols upserts every symbol of the sink.
	SaveSymbols(ctx context.Context, sink *symbols.Sink) error

	// LoadSymbols rebuilds a sink from the database.
	LoadSymbols(ctx context.Context) (*symbols.Sink, error)

	// FindSymbolsBySource returns the unique names extracted from one
	// scanned file, used to invalidate a stale file's contribution.
	FindSymbolsBySource(ctx context.Context, path string) ([]string, error)

	// DeleteSymbolsBySource drops a stale file's symbols before rescan.
	DeleteSymbolsBySource(ctx context.Context, path string) error
}

// TranslationStore persists the per-language name table.
type TranslationStore interface {
	SaveTranslations(ctx context.Context, table *translate.Table) error
	LoadTranslations(ctx context.Context, table *translate.Table) error
}

// CommentStore persists the parsed documentation blocks.
type CommentStore interface {
	SaveComments(ctx context.Context, store *comments.MemoryStore) error
	LoadComments(ctx context.Context, store *comments.MemoryStore) error
}

// PageStore persists the computed page assignment.
type PageStore interface {
	SavePages(ctx context.Context, byName map[string]string) error
	LoadPages(ctx context.Context) (map[string]string, error)
}

// FileStore tracks scanned source files for staleness detection.
type FileStore interface {
	SaveFileStamp(ctx context.Context, path, hash string, mtime int64) error
	LoadFileStamps(ctx context.Context) (map[string]FileStamp, error)
}

// FileStamp is the identity of a source file at the time it was
// scanned.
type FileStamp struct {
	Hash  string
	Mtime int64
}
