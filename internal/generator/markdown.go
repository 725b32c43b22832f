package generator

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"girdoc/internal/comments"
	"girdoc/internal/planner"
	"girdoc/internal/slogutil"
	"girdoc/internal/symbols"
	"girdoc/internal/translate"
)

// MarkdownGenerator writes one documentation subtree per output
// language. Pages follow the computed plan; symbol entries are
// filtered by introspectability and renamed through the translation
// table.
type MarkdownGenerator struct {
	project  string
	sink     *symbols.Sink
	comments comments.Store
	plan     *planner.Plan
	table    *translate.Table
	links    *LinkResolver
	log      *slog.Logger
}

func NewMarkdownGenerator(project string, sink *symbols.Sink, store comments.Store, plan *planner.Plan, table *translate.Table, log *slog.Logger) *MarkdownGenerator {
	if log == nil {
		log = slogutil.NewDiscardLogger()
	}
	return &MarkdownGenerator{
		project:  project,
		sink:     sink,
		comments: store,
		plan:     plan,
		table:    table,
		links:    NewLinkResolver(project, table, plan),
		log:      log,
	}
}

// Render writes every page of every language under outputDir.
func (g *MarkdownGenerator) Render(outputDir string) error {
	for _, lang := range translate.OutputLanguages {
		for _, page := range g.plan.PageNames() {
			content := g.renderPage(page, lang)
			if content == "" {
				continue
			}
			path := filepath.Join(outputDir, string(lang), strings.TrimSuffix(page, ".h")+".md")
			if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
				return err
			}
			if err := os.WriteFile(path, []byte(content), 0644); err != nil {
				return err
			}
		}
	}
	return nil
}

// inlineKinds render inside their owner's entry, not as standalone
// page entries.
var inlineKinds = map[symbols.Kind]bool{
	symbols.KindField:      true,
	symbols.KindEnumMember: true,
}

func (g *MarkdownGenerator) renderPage(page string, lang translate.Language) string {
	var entries []symbols.Symbol
	for _, name := range g.plan.Pages[page] {
		sym := g.sink.Get(name)
		if sym == nil || inlineKinds[sym.Kind()] {
			continue
		}
		if lang != translate.C && !g.table.IsIntrospectable(name, lang) {
			continue
		}
		entries = append(entries, sym)
	}
	if len(entries) == 0 {
		return ""
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Base().UniqueName < entries[j].Base().UniqueName
	})

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", g.pageTitle(page))
	for _, sym := range entries {
		g.renderEntry(&b, sym, lang)
	}
	return b.String()
}

func (g *MarkdownGenerator) pageTitle(page string) string {
	if c := g.comments.Get(strings.TrimSuffix(page, ".h")); c != nil && c.Title != "" {
		return c.Title
	}
	return strings.TrimSuffix(page, ".h")
}

func (g *MarkdownGenerator) renderEntry(b *strings.Builder, sym symbols.Symbol, lang translate.Language) {
	base := sym.Base()
	title := g.links.Title(base.UniqueName, lang)
	fmt.Fprintf(b, "## %s {#%s}\n\n", title, anchor(base.UniqueName))

	switch s := sym.(type) {
	case *symbols.ClassSymbol:
		g.renderHierarchy(b, s, lang)
		if s.ClassStruct != nil {
			g.renderStructBody(b, s.ClassStruct, lang)
		}
	case *symbols.InterfaceSymbol:
		if s.Prerequisite != nil {
			fmt.Fprintf(b, "Requires: %s\n\n", g.tokens(s.Prerequisite.TypeTokens, lang))
		}
	case *symbols.FunctionSymbol:
		g.renderCallable(b, s, lang)
	case *symbols.StructSymbol:
		g.renderStructBody(b, s, lang)
	case *symbols.EnumSymbol:
		g.renderEnumBody(b, s, lang)
	case *symbols.AliasSymbol:
		fmt.Fprintf(b, "Alias for %s\n\n", g.tokens(s.Aliased.TypeTokens, lang))
	case *symbols.PropertySymbol:
		fmt.Fprintf(b, "Type: %s\n\n", g.tokens(s.PropType.TypeTokens, lang))
		g.renderFlags(b, s.Flags)
	case *symbols.SignalSymbol:
		g.renderSignal(b, s, lang)
	case *symbols.VFunctionSymbol:
		g.renderVFunc(b, s, lang)
	case *symbols.ConstantSymbol:
		if s.OriginalText != "" {
			fmt.Fprintf(b, "```c\n%s\n```\n\n", s.OriginalText)
		}
	case *symbols.ExportedVariableSymbol:
		if s.OriginalText != "" {
			fmt.Fprintf(b, "```c\n%s\n```\n\n", s.OriginalText)
		}
	}

	if c := g.comments.Get(base.UniqueName); c != nil && c.Description != "" {
		fmt.Fprintf(b, "%s\n\n", c.Description)
	}
}

func (g *MarkdownGenerator) renderHierarchy(b *strings.Builder, s *symbols.ClassSymbol, lang translate.Language) {
	if len(s.Hierarchy) > 0 {
		b.WriteString("Hierarchy:\n\n")
		for depth, ancestor := range s.Hierarchy {
			fmt.Fprintf(b, "%s- %s\n", strings.Repeat("  ", depth), g.tokens(ancestor.TypeTokens, lang))
		}
		fmt.Fprintf(b, "%s- %s\n\n", strings.Repeat("  ", len(s.Hierarchy)), s.DisplayName)
	}
	if len(s.Children) > 0 {
		b.WriteString("Known subclasses:\n\n")
		names := make([]string, 0, len(s.Children))
		for name := range s.Children {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			child := s.Children[name]
			fmt.Fprintf(b, "- %s\n", g.tokens(child.TypeTokens, lang))
		}
		b.WriteString("\n")
	}
}

func (g *MarkdownGenerator) renderCallable(b *strings.Builder, s *symbols.FunctionSymbol, lang translate.Language) {
	if s.Role == symbols.KindFunctionMacro {
		if s.OriginalText != "" {
			fmt.Fprintf(b, "```c\n%s\n```\n\n", s.OriginalText)
		}
		g.renderParamDocs(b, s.Parameters)
		return
	}

	params := s.Parameters
	if lang != translate.C {
		params = s.InParameters()
	}

	var sig []string
	for _, p := range params {
		sig = append(sig, strings.TrimSpace(g.tokens(p.TypeTokens, lang)+" "+p.ArgName))
	}
	ret := "void"
	if len(s.ReturnValue) > 0 && s.ReturnValue[0] != nil {
		ret = g.tokens(s.ReturnValue[0].TypeTokens, lang)
	}
	name := g.links.Title(s.UniqueName, lang)
	fmt.Fprintf(b, "```\n%s %s(%s)\n```\n\n", ret, name, strings.Join(sig, ", "))

	g.renderParamDocs(b, params)
	g.renderReturns(b, s.ReturnValue, lang)
	if s.Throws {
		b.WriteString("May raise an error.\n\n")
	}
}

func (g *MarkdownGenerator) renderParamDocs(b *strings.Builder, params []*symbols.ParameterSymbol) {
	if len(params) == 0 {
		return
	}
	b.WriteString("Parameters:\n\n")
	for _, p := range params {
		fmt.Fprintf(b, "- `%s`\n", p.ArgName)
	}
	b.WriteString("\n")
}

func (g *MarkdownGenerator) renderReturns(b *strings.Builder, retval []*symbols.ReturnItemSymbol, lang translate.Language) {
	// C shows out-parameters in the parameter list; only the primary
	// slot is a return value there.
	if lang == translate.C && len(retval) > 1 {
		retval = retval[:1]
	}
	var rendered []string
	for _, item := range retval {
		if item == nil {
			continue
		}
		text := g.tokens(item.TypeTokens, lang)
		if item.Name != "" {
			text = item.Name + ": " + text
		}
		rendered = append(rendered, text)
	}
	if len(rendered) == 0 {
		return
	}
	b.WriteString("Returns:\n\n")
	for _, text := range rendered {
		fmt.Fprintf(b, "- %s\n", text)
	}
	b.WriteString("\n")
}

func (g *MarkdownGenerator) renderStructBody(b *strings.Builder, s *symbols.StructSymbol, lang translate.Language) {
	if s.RawText != "" && lang == translate.C {
		fmt.Fprintf(b, "```c\n%s\n```\n\n", s.RawText)
	}
	if len(s.Members) == 0 {
		return
	}
	b.WriteString("Members:\n\n")
	for _, m := range s.Members {
		fmt.Fprintf(b, "- `%s` %s\n", m.MemberName, g.tokens(m.QType.TypeTokens, lang))
	}
	b.WriteString("\n")
}

func (g *MarkdownGenerator) renderEnumBody(b *strings.Builder, s *symbols.EnumSymbol, lang translate.Language) {
	if s.RawText != "" && lang == translate.C {
		fmt.Fprintf(b, "```c\n%s\n```\n\n", s.RawText)
	}
	if len(s.Members) == 0 {
		return
	}
	b.WriteString("Members:\n\n")
	for _, m := range s.Members {
		if m.Value != "" {
			fmt.Fprintf(b, "- `%s` = %s\n", m.DisplayName, m.Value)
		} else {
			fmt.Fprintf(b, "- `%s`\n", m.DisplayName)
		}
	}
	b.WriteString("\n")
}

func (g *MarkdownGenerator) renderSignal(b *strings.Builder, s *symbols.SignalSymbol, lang translate.Language) {
	g.renderFlags(b, s.Flags)
	g.renderParamDocs(b, s.Parameters)
	g.renderReturns(b, s.ReturnValue, lang)
}

func (g *MarkdownGenerator) renderVFunc(b *strings.Builder, s *symbols.VFunctionSymbol, lang translate.Language) {
	g.renderParamDocs(b, s.Parameters)
	g.renderReturns(b, s.ReturnValue, lang)
}

func (g *MarkdownGenerator) renderFlags(b *strings.Builder, flags []symbols.Flag) {
	if len(flags) == 0 {
		return
	}
	var parts []string
	for _, f := range flags {
		if f.Link != "" {
			parts = append(parts, fmt.Sprintf("[%s](%s)", f.Nick, f.Link))
		} else {
			parts = append(parts, f.Nick)
		}
	}
	fmt.Fprintf(b, "Flags: %s\n\n", strings.Join(parts, ", "))
}

// tokens renders a token run with link refs resolved for the language.
func (g *MarkdownGenerator) tokens(toks []symbols.TypeToken, lang translate.Language) string {
	var b strings.Builder
	for _, tok := range g.links.Resolve(toks, lang) {
		if tok.Link != nil {
			fmt.Fprintf(&b, "[%s](%s)", tok.Link.Title, tok.Link.Ref)
			continue
		}
		b.WriteString(tok.Literal)
	}
	return b.String()
}
