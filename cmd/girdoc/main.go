package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"girdoc/internal/comments"
	"girdoc/internal/config"
	"girdoc/internal/crawler"
	"girdoc/internal/gir"
	"girdoc/internal/index"
	"girdoc/internal/pipeline"
	"girdoc/internal/planner"
	"girdoc/internal/slogutil"
	"girdoc/internal/storage"
	"girdoc/internal/symbols"
	"girdoc/internal/translate"
)

var (
	rootCmd = &cobra.Command{
		Use:   "girdoc",
		Short: "C and GObject-Introspection API documentation extractor",
	}
	configPath string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "girdoc.yaml", "Path to the project configuration file")

	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(pagesCmd)
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(statusCmd)
}

func loadConfig() *config.Config {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return config.Default()
		}
		log.Fatalf("Failed to load config: %v", err)
	}
	return cfg
}

func initStore(cfg *config.Config) *storage.SQLiteStore {
	store, err := storage.NewSQLiteStore(cfg.Output.Database)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	return store
}

func newPipeline(cfg *config.Config) *pipeline.Pipeline {
	logger := slogutil.NewStderrLogger(slogutil.LevelFromString(cfg.Log.Level))
	return pipeline.New(cfg, logger)
}

var scanCmd = &cobra.Command{
	Use:   "scan [path]",
	Short: "Scan gir files and headers, persist the extracted symbols",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		if len(args) > 0 {
			cfg.Project.Sources = []string{args[0]}
		}

		store := initStore(cfg)
		defer store.Close()

		p := newPipeline(cfg)
		ctx := context.Background()

		fmt.Printf("Scanning %v\n", cfg.Project.Sources)
		start := time.Now()
		result, err := p.Scan(ctx)
		if err != nil {
			log.Fatalf("Scan failed: %v", err)
		}
		fmt.Printf("Scan complete in %v. Found %d symbols.\n", time.Since(start), result.Sink.Len())

		if err := p.Persist(ctx, store, result); err != nil {
			log.Fatalf("Failed to persist scan: %v", err)
		}
		fmt.Printf("Saved to %s\n", cfg.Output.Database)
	},
}

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Incrementally rescan files that changed since the last run",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		store := initStore(cfg)
		defer store.Close()

		p := newPipeline(cfg)
		result, err := p.Update(context.Background(), store)
		if err != nil {
			log.Fatalf("Update failed: %v", err)
		}
		if result == nil {
			fmt.Println("No changes detected.")
			return
		}
		fmt.Printf("Update complete. %d symbols in database.\n", result.Sink.Len())
	},
}

var pagesCmd = &cobra.Command{
	Use:   "pages",
	Short: "Compute and persist the page assignment, print the page tree",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		store := initStore(cfg)
		defer store.Close()

		ctx := context.Background()
		sink, commentStore, table := loadCached(ctx, store)

		logger := slogutil.NewStderrLogger(slogutil.LevelFromString(cfg.Log.Level))
		ix := cachedIndex(cfg, logger, table)
		plan := planner.New(ix, commentStore, sink, logger).Assign()

		if err := store.SavePages(ctx, plan.ByName); err != nil {
			log.Fatalf("Failed to save pages: %v", err)
		}
		for _, page := range plan.PageNames() {
			fmt.Println(page)
			for _, name := range plan.Pages[page] {
				fmt.Printf("  %s\n", name)
			}
		}
	},
}

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Write the per-language markdown subtrees and the manifest",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		store := initStore(cfg)
		defer store.Close()

		ctx := context.Background()
		sink, commentStore, table := loadCached(ctx, store)

		logger := slogutil.NewStderrLogger(slogutil.LevelFromString(cfg.Log.Level))
		ix := cachedIndex(cfg, logger, table)
		plan := planner.New(ix, commentStore, sink, logger).Assign()

		result := &pipeline.ScanResult{Index: ix, Sink: sink, Comments: commentStore, Plan: plan}
		if err := newPipeline(cfg).Render(result); err != nil {
			log.Fatalf("Render failed: %v", err)
		}
		fmt.Printf("Rendered %d pages per language under %s\n", len(plan.Pages), cfg.Output.Dir)
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print symbol counts per kind, page and language",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		store := initStore(cfg)
		defer store.Close()

		ctx := context.Background()
		sink, _, table := loadCached(ctx, store)

		byKind := map[string]int{}
		for _, sym := range sink.All() {
			byKind[string(sym.Kind())]++
		}
		fmt.Printf("%d symbols\n\nBy kind:\n", sink.Len())
		kinds := make([]string, 0, len(byKind))
		for kind := range byKind {
			kinds = append(kinds, kind)
		}
		sort.Strings(kinds)
		for _, kind := range kinds {
			fmt.Printf("  %-18s %d\n", kind, byKind[kind])
		}

		pages, err := store.LoadPages(ctx)
		if err == nil && len(pages) > 0 {
			byPage := map[string]int{}
			for _, page := range pages {
				byPage[page]++
			}
			fmt.Printf("\n%d pages\n", len(byPage))
		}

		fmt.Println("\nIntrospectable symbols:")
		for _, lang := range translate.OutputLanguages {
			count := 0
			for _, sym := range sink.All() {
				if lang == translate.C || table.IsIntrospectable(sym.Base().UniqueName, lang) {
					count++
				}
			}
			fmt.Printf("  %-10s %d\n", lang, count)
		}
	},
}

// loadCached pulls the persisted build back out of the database.
func loadCached(ctx context.Context, store *storage.SQLiteStore) (*symbols.Sink, *comments.MemoryStore, *translate.Table) {
	sink, err := store.LoadSymbols(ctx)
	if err != nil {
		log.Fatalf("Failed to load symbols, run scan first: %v", err)
	}
	commentStore := comments.NewMemoryStore()
	if err := store.LoadComments(ctx, commentStore); err != nil {
		log.Fatalf("Failed to load comments: %v", err)
	}
	table := translate.NewTable()
	if err := store.LoadTranslations(ctx, table); err != nil {
		log.Fatalf("Failed to load translations: %v", err)
	}
	return sink, commentStore, table
}

// cachedIndex rebuilds the node cache from the project's gir files and
// attaches the persisted translation table. Planning and rendering need
// the nodes for structural lookups even when symbols come from the
// database.
func cachedIndex(cfg *config.Config, logger *slog.Logger, table *translate.Table) *index.ProjectIndex {
	sources, err := crawler.New().Discover(cfg.Project.Sources...)
	if err != nil {
		log.Fatalf("Source discovery failed: %v", err)
	}
	searchDirs := append([]string{}, cfg.Project.SearchDirs...)
	searchDirs = append(searchDirs, gir.DefaultSearchDirs("")...)
	ix := index.New(sources.Girs, searchDirs, logger)
	ix.Translations = table
	for _, path := range sources.Girs {
		if _, err := ix.LoadGir(path); err != nil {
			logger.Warn("skipping unparseable gir file",
				slog.String("file", path), slog.String("error", err.Error()))
		}
	}
	return ix
}
