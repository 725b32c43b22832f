package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"girdoc/internal/comments"
	"girdoc/internal/crawler"
	"girdoc/internal/gir"
	"girdoc/internal/git"
	"girdoc/internal/index"
	"girdoc/internal/planner"
	"girdoc/internal/storage"
)

// Update runs an incremental build: only files whose stamp changed
// since the last persisted scan are re-extracted. Unique names are
// derived deterministically, so untouched files keep their cached
// symbols as valid join keys.
func (p *Pipeline) Update(ctx context.Context, store storage.Store) (*ScanResult, error) {
	sources, err := crawler.New().Discover(p.cfg.Project.Sources...)
	if err != nil {
		return nil, fmt.Errorf("source discovery failed: %w", err)
	}

	stale, err := p.staleSet(ctx, store, sources)
	if err != nil {
		return nil, err
	}
	if len(stale) == 0 {
		p.log.Info("no changes detected")
		return nil, nil
	}
	p.log.Info("rescanning stale files", slog.Int("count", len(stale)))

	sink, err := store.LoadSymbols(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load cached symbols: %w", err)
	}
	commentStore := comments.NewMemoryStore()
	if err := store.LoadComments(ctx, commentStore); err != nil {
		return nil, fmt.Errorf("failed to load cached comments: %w", err)
	}

	// The index always covers every gir file: hierarchy edges and
	// translations for untouched classes must stay visible to the
	// rescanned subset.
	searchDirs := append([]string{}, p.cfg.Project.SearchDirs...)
	searchDirs = append(searchDirs, gir.DefaultSearchDirs("")...)
	ix := index.New(sources.Girs, searchDirs, p.log)
	if err := store.LoadTranslations(ctx, ix.Translations); err != nil {
		return nil, fmt.Errorf("failed to load cached translations: %w", err)
	}

	var staleGirs, staleHeaders []string
	for _, path := range stale {
		switch {
		case isGir(path):
			staleGirs = append(staleGirs, path)
		default:
			staleHeaders = append(staleHeaders, path)
		}
	}

	// Drop the stale files' contribution from both the database and the
	// loaded sink before re-adding it. Persist re-saves every sink
	// entry, so a symbol left in memory would resurrect its deleted
	// row even after it disappeared from the source.
	for _, path := range stale {
		names, err := store.FindSymbolsBySource(ctx, path)
		if err != nil {
			return nil, fmt.Errorf("failed to look up symbols of %s: %w", path, err)
		}
		for _, name := range names {
			sink.Remove(name)
		}
		if err := store.DeleteSymbolsBySource(ctx, path); err != nil {
			return nil, fmt.Errorf("failed to invalidate %s: %w", path, err)
		}
	}

	p.parseComments(staleHeaders, commentStore)

	// Cache every gir file, then extract only the stale ones.
	for _, path := range sources.Girs {
		if _, err := ix.LoadGir(path); err != nil {
			p.log.Warn("skipping unparseable gir file",
				slog.String("file", path), slog.String("error", err.Error()))
		}
	}

	result := &ScanResult{
		Sources:  sources,
		Index:    ix,
		Sink:     sink,
		Comments: commentStore,
	}
	if err := p.extract(ctx, result, staleGirs, staleHeaders); err != nil {
		return nil, err
	}

	result.Plan = planner.New(ix, commentStore, sink, p.log).Assign()
	if err := p.Persist(ctx, store, result); err != nil {
		return nil, err
	}
	return result, nil
}

// staleSet compares the current source files against the persisted
// stamps, folding in git's view when the project is a repository.
func (p *Pipeline) staleSet(ctx context.Context, store storage.Store, sources *crawler.Sources) ([]string, error) {
	stamps, err := store.LoadFileStamps(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load file stamps: %w", err)
	}

	staleSet := map[string]struct{}{}
	for _, path := range sources.All() {
		hash, mtime, err := stampFile(path)
		if err != nil {
			continue
		}
		old, ok := stamps[path]
		if !ok || old.Hash != hash || old.Mtime != mtime {
			staleSet[path] = struct{}{}
		}
	}

	for _, root := range p.cfg.Project.Sources {
		if !git.IsRepo(root) {
			continue
		}
		changed, err := git.ChangedSources(root, "HEAD")
		if err != nil {
			p.log.Warn("git change detection failed", slog.String("error", err.Error()))
			continue
		}
		// git reports paths relative to the repository root.
		for _, path := range resolveRepoPaths(root, changed) {
			staleSet[path] = struct{}{}
		}
	}

	// Keep source order for determinism.
	var stale []string
	for _, path := range sources.All() {
		if _, ok := staleSet[path]; ok {
			stale = append(stale, path)
		}
	}
	return stale, nil
}

func isGir(path string) bool {
	return len(path) > 4 && path[len(path)-4:] == ".gir"
}

// resolveRepoPaths anchors repository-relative paths at root so they
// compare equal to the crawler's discovered paths.
func resolveRepoPaths(root string, paths []string) []string {
	resolved := make([]string, 0, len(paths))
	for _, p := range paths {
		if !filepath.IsAbs(p) {
			p = filepath.Join(root, p)
		}
		resolved = append(resolved, p)
	}
	return resolved
}
