package generator

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "embed"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"girdoc/internal/planner"
	"girdoc/internal/symbols"
	"girdoc/internal/translate"
)

const manifestSchemaVersion = "v1"

//go:embed manifest.schema.json
var manifestSchemaJSON string

var (
	manifestSchemaOnce sync.Once
	manifestSchema     *jsonschema.Schema
	manifestSchemaErr  error
)

// Manifest is the machine-readable sibling of the rendered pages: the
// full per-language page and symbol listing.
type Manifest struct {
	SchemaVersion string             `json:"schema_version"`
	Project       string             `json:"project"`
	GeneratedAt   string             `json:"generated_at,omitempty"`
	Languages     []ManifestLanguage `json:"languages"`
}

type ManifestLanguage struct {
	Language string         `json:"language"`
	Pages    []ManifestPage `json:"pages"`
}

type ManifestPage struct {
	Name    string           `json:"name"`
	Ref     string           `json:"ref"`
	Symbols []ManifestSymbol `json:"symbols"`
}

type ManifestSymbol struct {
	UniqueName     string `json:"unique_name"`
	Kind           string `json:"kind"`
	Title          string `json:"title,omitempty"`
	Anchor         string `json:"anchor,omitempty"`
	Introspectable bool   `json:"introspectable"`
}

// BuildManifest assembles the manifest from the plan and the sink.
func BuildManifest(project string, sink *symbols.Sink, plan *planner.Plan, table *translate.Table) *Manifest {
	links := NewLinkResolver(project, table, plan)
	m := &Manifest{
		SchemaVersion: manifestSchemaVersion,
		Project:       project,
		GeneratedAt:   time.Now().UTC().Format(time.RFC3339),
	}
	for _, lang := range translate.OutputLanguages {
		ml := ManifestLanguage{Language: string(lang), Pages: []ManifestPage{}}
		for _, page := range plan.PageNames() {
			mp := ManifestPage{
				Name: page,
				Ref:  links.pageRef(page, lang),
			}
			for _, name := range plan.Pages[page] {
				sym := sink.Get(name)
				if sym == nil || inlineKinds[sym.Kind()] {
					continue
				}
				introspectable := lang == translate.C || table.IsIntrospectable(name, lang)
				if !introspectable {
					continue
				}
				mp.Symbols = append(mp.Symbols, ManifestSymbol{
					UniqueName:     name,
					Kind:           string(sym.Kind()),
					Title:          links.Title(name, lang),
					Anchor:         anchor(name),
					Introspectable: introspectable,
				})
			}
			if len(mp.Symbols) == 0 {
				continue
			}
			ml.Pages = append(ml.Pages, mp)
		}
		m.Languages = append(m.Languages, ml)
	}
	return m
}

// Validate checks the manifest against the embedded schema.
func (m *Manifest) Validate() error {
	schema, err := compiledManifestSchema()
	if err != nil {
		return fmt.Errorf("compile manifest schema: %w", err)
	}
	raw, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return fmt.Errorf("normalize manifest: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("manifest schema validation failed: %w", err)
	}
	return nil
}

// Save validates and writes the manifest next to the rendered pages.
func (m *Manifest) Save(outputDir string) error {
	if err := m.Validate(); err != nil {
		return err
	}
	raw, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(outputDir, "manifest.json"), raw, 0644)
}

func compiledManifestSchema() (*jsonschema.Schema, error) {
	manifestSchemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("manifest.schema.json", strings.NewReader(manifestSchemaJSON)); err != nil {
			manifestSchemaErr = err
			return
		}
		manifestSchema, manifestSchemaErr = compiler.Compile("manifest.schema.json")
	})
	return manifestSchema, manifestSchemaErr
}
