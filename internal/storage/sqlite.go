package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"girdoc/internal/comments"
	"girdoc/internal/symbols"
	"girdoc/internal/translate"
)

// SQLiteStore persists a project build in a single database file.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates or opens the database.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}

	s := &SQLiteStore{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to init schema: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) initSchema() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS symbols (
			unique_name TEXT PRIMARY KEY,
			kind TEXT NOT NULL,
			display_name TEXT,
			parent_name TEXT,
			filename TEXT,
			source TEXT,
			lineno INTEGER,
			payload JSON
		);`,
		`CREATE TABLE IF NOT EXISTS translations (
			unique_name TEXT,
			language TEXT,
			name TEXT,
			introspectable INTEGER,
			PRIMARY KEY (unique_name, language)
		);`,
		`CREATE TABLE IF NOT EXISTS comments (
			name TEXT PRIMARY KEY,
			payload JSON
		);`,
		`CREATE TABLE IF NOT EXISTS pages (
			unique_name TEXT PRIMARY KEY,
			page TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS files (
			path TEXT PRIMARY KEY,
			hash TEXT,
			mtime INTEGER
		);`,
		`CREATE INDEX IF NOT EXISTS idx_symbols_source ON symbols(source);`,
	}
	for _, q := range queries {
		if _, err := s.db.Exec(q); err != nil {
			return err
		}
	}
	return nil
}

// --- SymbolStore ---

func (s *SQLiteStore) SaveSymbols(ctx context.Context, sink *symbols.Sink) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO symbols (unique_name, kind, display_name, parent_name, filename, source, lineno, payload)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(unique_name) DO UPDATE SET
			kind=excluded.kind,
			display_name=excluded.display_name,
			parent_name=excluded.parent_name,
			filename=excluded.filename,
			source=excluded.source,
			lineno=excluded.lineno,
			payload=excluded.payload
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, sym := range sink.All() {
		base := sym.Base()
		payload, err := json.Marshal(sym)
		if err != nil {
			return fmt.Errorf("failed to encode symbol %s: %w", base.UniqueName, err)
		}
		if _, err := stmt.Exec(base.UniqueName, string(sym.Kind()), base.DisplayName,
			base.ParentName, base.Filename, base.Source, base.Lineno, payload); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *SQLiteStore) LoadSymbols(ctx context.Context) (*symbols.Sink, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT kind, payload FROM symbols")
	if err != nil {
		return nil, fmt.Errorf("failed to query symbols: %w", err)
	}
	defer rows.Close()

	sink := symbols.NewSink()
	for rows.Next() {
		var kind string
		var payload []byte
		if err := rows.Scan(&kind, &payload); err != nil {
			return nil, fmt.Errorf("failed to scan symbol: %w", err)
		}
		sym, err := decodeSymbol(symbols.Kind(kind), payload)
		if err != nil {
			return nil, err
		}
		sink.GetOrCreate(sym)
	}
	return sink, rows.Err()
}

func (s *SQLiteStore) FindSymbolsBySource(ctx context.Context, path string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT unique_name FROM symbols WHERE source = ?", path)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func (s *SQLiteStore) DeleteSymbolsBySource(ctx context.Context, path string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM symbols WHERE source = ?", path)
	return err
}

// decodeSymbol rebuilds the concrete symbol type from its kind tag.
func decodeSymbol(kind symbols.Kind, payload []byte) (symbols.Symbol, error) {
	var sym symbols.Symbol
	switch kind {
	case symbols.KindFunction, symbols.KindMethod, symbols.KindConstructor,
		symbols.KindClassMethod, symbols.KindCallback, symbols.KindFunctionMacro:
		sym = &symbols.FunctionSymbol{}
	case symbols.KindField:
		sym = &symbols.FieldSymbol{}
	case symbols.KindStruct:
		sym = &symbols.StructSymbol{}
	case symbols.KindClass:
		sym = &symbols.ClassSymbol{}
	case symbols.KindInterface:
		sym = &symbols.InterfaceSymbol{}
	case symbols.KindEnum:
		sym = &symbols.EnumSymbol{}
	case symbols.KindEnumMember:
		sym = &symbols.EnumMemberSymbol{}
	case symbols.KindAlias:
		sym = &symbols.AliasSymbol{}
	case symbols.KindProperty:
		sym = &symbols.PropertySymbol{}
	case symbols.KindSignal:
		sym = &symbols.SignalSymbol{}
	case symbols.KindVFunction:
		sym = &symbols.VFunctionSymbol{}
	case symbols.KindConstant:
		sym = &symbols.ConstantSymbol{}
	case symbols.KindExportedVariable:
		sym = &symbols.ExportedVariableSymbol{}
	default:
		return nil, fmt.Errorf("unknown symbol kind %q in database", kind)
	}
	if err := json.Unmarshal(payload, sym); err != nil {
		return nil, fmt.Errorf("failed to decode %s symbol: %w", kind, err)
	}
	return sym, nil
}

// --- TranslationStore ---

func (s *SQLiteStore) SaveTranslations(ctx context.Context, table *translate.Table) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO translations (unique_name, language, name, introspectable)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(unique_name, language) DO UPDATE SET
			name=excluded.name,
			introspectable=excluded.introspectable
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for lang, names := range table.Snapshot() {
		for uniqueName, name := range names {
			introspectable := !table.NonIntrospectable(uniqueName)
			if _, err := stmt.Exec(uniqueName, string(lang), name, introspectable); err != nil {
				return err
			}
		}
	}
	return tx.Commit()
}

func (s *SQLiteStore) LoadTranslations(ctx context.Context, table *translate.Table) error {
	rows, err := s.db.QueryContext(ctx, "SELECT unique_name, language, name, introspectable FROM translations")
	if err != nil {
		return fmt.Errorf("failed to query translations: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var uniqueName, lang, name string
		var introspectable bool
		if err := rows.Scan(&uniqueName, &lang, &name, &introspectable); err != nil {
			return fmt.Errorf("failed to scan translation: %w", err)
		}
		table.Restore(translate.Language(lang), uniqueName, name, introspectable)
	}
	return rows.Err()
}

// --- CommentStore ---

func (s *SQLiteStore) SaveComments(ctx context.Context, store *comments.MemoryStore) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO comments (name, payload) VALUES (?, ?)
		ON CONFLICT(name) DO UPDATE SET payload=excluded.payload
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, c := range store.All() {
		payload, err := json.Marshal(c)
		if err != nil {
			return fmt.Errorf("failed to encode comment %s: %w", c.Name, err)
		}
		if _, err := stmt.Exec(c.Name, payload); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *SQLiteStore) LoadComments(ctx context.Context, store *comments.MemoryStore) error {
	rows, err := s.db.QueryContext(ctx, "SELECT payload FROM comments")
	if err != nil {
		return fmt.Errorf("failed to query comments: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return fmt.Errorf("failed to scan comment: %w", err)
		}
		var c comments.Comment
		if err := json.Unmarshal(payload, &c); err != nil {
			return fmt.Errorf("failed to decode comment: %w", err)
		}
		store.Add(&c)
	}
	return rows.Err()
}

// --- PageStore ---

func (s *SQLiteStore) SavePages(ctx context.Context, byName map[string]string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO pages (unique_name, page) VALUES (?, ?)
		ON CONFLICT(unique_name) DO UPDATE SET page=excluded.page
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for uniqueName, page := range byName {
		if _, err := stmt.Exec(uniqueName, page); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *SQLiteStore) LoadPages(ctx context.Context) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT unique_name, page FROM pages")
	if err != nil {
		return nil, fmt.Errorf("failed to query pages: %w", err)
	}
	defer rows.Close()

	pages := map[string]string{}
	for rows.Next() {
		var uniqueName, page string
		if err := rows.Scan(&uniqueName, &page); err != nil {
			return nil, fmt.Errorf("failed to scan page: %w", err)
		}
		pages[uniqueName] = page
	}
	return pages, rows.Err()
}

// --- FileStore ---

func (s *SQLiteStore) SaveFileStamp(ctx context.Context, path, hash string, mtime int64) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO files (path, hash, mtime) VALUES (?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET hash=excluded.hash, mtime=excluded.mtime
	`, path, hash, mtime)
	return err
}

func (s *SQLiteStore) LoadFileStamps(ctx context.Context) (map[string]FileStamp, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT path, hash, mtime FROM files")
	if err != nil {
		return nil, fmt.Errorf("failed to query files: %w", err)
	}
	defer rows.Close()

	stamps := map[string]FileStamp{}
	for rows.Next() {
		var path string
		var stamp FileStamp
		if err := rows.Scan(&path, &stamp.Hash, &stamp.Mtime); err != nil {
			return nil, fmt.Errorf("failed to scan file stamp: %w", err)
		}
		stamps[path] = stamp
	}
	return stamps, rows.Err()
}
