// Package pipeline wires the scan stages together: source discovery,
// comment parsing, the two symbol extractors, page planning, rendering
// and persistence.
package pipeline

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"

	"girdoc/internal/comments"
	"girdoc/internal/config"
	"girdoc/internal/crawler"
	"girdoc/internal/extractor"
	"girdoc/internal/generator"
	"girdoc/internal/gir"
	"girdoc/internal/index"
	"girdoc/internal/planner"
	"girdoc/internal/slogutil"
	"girdoc/internal/storage"
	"girdoc/internal/symbols"
)

type Pipeline struct {
	cfg *config.Config
	log *slog.Logger
}

func New(cfg *config.Config, log *slog.Logger) *Pipeline {
	if log == nil {
		log = slogutil.NewDiscardLogger()
	}
	return &Pipeline{cfg: cfg, log: log}
}

// ScanResult is everything one full scan produces.
type ScanResult struct {
	Sources  *crawler.Sources
	Index    *index.ProjectIndex
	Sink     *symbols.Sink
	Comments *comments.MemoryStore
	Plan     *planner.Plan
}

// Scan runs a full build: discover sources, parse comments, extract
// symbols from gir files and headers, then assign pages.
func (p *Pipeline) Scan(ctx context.Context) (*ScanResult, error) {
	sources, err := crawler.New().Discover(p.cfg.Project.Sources...)
	if err != nil {
		return nil, fmt.Errorf("source discovery failed: %w", err)
	}
	p.log.Info("discovered sources",
		slog.Int("headers", len(sources.Headers)),
		slog.Int("girs", len(sources.Girs)))

	store := comments.NewMemoryStore()
	p.parseComments(sources.Headers, store)

	searchDirs := append([]string{}, p.cfg.Project.SearchDirs...)
	searchDirs = append(searchDirs, gir.DefaultSearchDirs("")...)
	ix := index.New(sources.Girs, searchDirs, p.log)

	sink := symbols.NewSink()
	result := &ScanResult{
		Sources:  sources,
		Index:    ix,
		Sink:     sink,
		Comments: store,
	}

	if err := p.extract(ctx, result, sources.Girs, sources.Headers); err != nil {
		return nil, err
	}

	result.Plan = planner.New(ix, store, sink, p.log).Assign()
	return result, nil
}

// extract runs both extractors over the given subset of sources. The
// index still caches every gir file so cross-file lookups work even
// when only part of the project is rescanned.
func (p *Pipeline) extract(ctx context.Context, r *ScanResult, girs, headers []string) error {
	girExtractor := extractor.NewGirExtractor(r.Index, r.Comments, r.Sink, p.log)
	if err := girExtractor.Scan(girs); err != nil {
		p.log.Warn("gir scan finished with errors", slog.String("error", err.Error()))
	}

	cExtractor, err := extractor.NewCExtractor(r.Index, r.Comments, r.Sink, p.log)
	if err != nil {
		slogutil.Warn(p.log, slogutil.CodeToolchainMissing,
			"C parser backend unavailable", slog.String("error", err.Error()))
		return fmt.Errorf("cannot build C extractor: %w", err)
	}
	if err := cExtractor.Scan(ctx, headers); err != nil {
		p.log.Warn("header scan finished with errors", slog.String("error", err.Error()))
	}
	return nil
}

func (p *Pipeline) parseComments(headers []string, store *comments.MemoryStore) {
	for _, path := range headers {
		raw, err := os.ReadFile(path)
		if err != nil {
			slogutil.Warn(p.log, slogutil.CodeParserDiagnostic,
				"skipping unreadable header",
				slog.String("file", path), slog.String("error", err.Error()))
			continue
		}
		for _, c := range comments.ExtractBlocks(raw, path) {
			store.Add(c)
		}
	}
}

// Persist writes the scan result and the source file stamps.
func (p *Pipeline) Persist(ctx context.Context, store storage.Store, r *ScanResult) error {
	if err := store.SaveSymbols(ctx, r.Sink); err != nil {
		return fmt.Errorf("failed to save symbols: %w", err)
	}
	if err := store.SaveTranslations(ctx, r.Index.Translations); err != nil {
		return fmt.Errorf("failed to save translations: %w", err)
	}
	if err := store.SaveComments(ctx, r.Comments); err != nil {
		return fmt.Errorf("failed to save comments: %w", err)
	}
	if r.Plan != nil {
		if err := store.SavePages(ctx, r.Plan.ByName); err != nil {
			return fmt.Errorf("failed to save pages: %w", err)
		}
	}
	for _, path := range r.Sources.All() {
		hash, mtime, err := stampFile(path)
		if err != nil {
			continue
		}
		if err := store.SaveFileStamp(ctx, path, hash, mtime); err != nil {
			return fmt.Errorf("failed to save file stamp: %w", err)
		}
	}
	return nil
}

// Render writes the per-language markdown subtrees and the manifest.
func (p *Pipeline) Render(r *ScanResult) error {
	gen := generator.NewMarkdownGenerator(p.cfg.Project.Name, r.Sink, r.Comments,
		r.Plan, r.Index.Translations, p.log)
	if err := gen.Render(p.cfg.Output.Dir); err != nil {
		return fmt.Errorf("failed to render pages: %w", err)
	}
	manifest := generator.BuildManifest(p.cfg.Project.Name, r.Sink, r.Plan, r.Index.Translations)
	if err := manifest.Save(p.cfg.Output.Dir); err != nil {
		return fmt.Errorf("failed to save manifest: %w", err)
	}
	return nil
}

func stampFile(path string) (string, int64, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", 0, err
	}
	info, err := os.Stat(path)
	if err != nil {
		return "", 0, err
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:]), info.ModTime().Unix(), nil
}
