package extractor

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/c"

	"girdoc/internal/comments"
	"girdoc/internal/index"
	"girdoc/internal/slogutil"
	"girdoc/internal/symbols"
)

// CExtractor walks C headers with tree-sitter and emits symbols into
// the sink. It covers the API surface gir files don't describe:
// macros, extern variables, plain typedefs and the raw text of
// structures and enums.
type CExtractor struct {
	ix       *index.ProjectIndex
	comments comments.Store
	sink     *filteringSink
	log      *slog.Logger
	parser   *sitter.Parser

	// seen deduplicates spellings across the headers of one scan, the
	// same declaration is often reachable through several includes.
	seen map[string]struct{}
}

func NewCExtractor(ix *index.ProjectIndex, store comments.Store, sink *symbols.Sink, log *slog.Logger) (*CExtractor, error) {
	lang := c.GetLanguage()
	if lang == nil {
		return nil, ErrNoParserBackend
	}
	parser := sitter.NewParser()
	parser.SetLanguage(lang)
	if log == nil {
		log = slogutil.NewDiscardLogger()
	}
	return &CExtractor{
		ix:       ix,
		comments: store,
		sink:     newFilteringSink(ix, sink, log),
		log:      log,
		parser:   parser,
		seen:     map[string]struct{}{},
	}, nil
}

// Scan parses and walks each header. A parse failure aborts only that
// file's contribution.
func (e *CExtractor) Scan(ctx context.Context, paths []string) error {
	var firstErr error
	for _, path := range paths {
		source, err := os.ReadFile(path)
		if err != nil {
			slogutil.Warn(e.log, slogutil.CodeParserDiagnostic,
				"skipping unreadable source file",
				slog.String("file", path), slog.String("error", err.Error()))
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		tree, err := e.parser.ParseCtx(ctx, nil, source)
		if err != nil {
			slogutil.Warn(e.log, slogutil.CodeParserDiagnostic,
				"skipping unparseable source file",
				slog.String("file", path), slog.String("error", err.Error()))
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		unit := &translationUnit{source: source, path: path, page: headerPage(path)}
		e.sink.setSource(path)
		e.walk(tree.RootNode(), unit)
		tree.Close()
	}
	return firstErr
}

// headerPage maps a source path to its documentation page name.
func headerPage(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base)) + ".h"
}

type translationUnit struct {
	source []byte
	path   string
	page   string
}

func (e *CExtractor) walk(node *sitter.Node, unit *translationUnit) {
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		switch child.Type() {
		case "function_definition":
			e.createFunction(child, unit)
		case "declaration":
			e.createDeclaration(child, unit)
		case "type_definition":
			e.createTypedef(child, unit)
		case "struct_specifier":
			e.createStruct(child, unit, "")
		case "enum_specifier":
			e.createEnum(child, unit, "")
		case "preproc_def":
			e.createMacro(child, unit)
		case "preproc_function_def":
			e.createFunctionMacro(child, unit)
		case "preproc_ifdef", "preproc_if", "preproc_else", "preproc_elif",
			"linkage_specification", "extern":
			// Include guards and linkage blocks wrap real declarations.
			e.walk(child, unit)
		}
	}
}

// dedup reports whether the spelling was already extracted in this
// scan and records it otherwise.
func (e *CExtractor) dedup(spelling string) bool {
	if spelling == "" {
		return true
	}
	if _, ok := e.seen[spelling]; ok {
		return true
	}
	e.seen[spelling] = struct{}{}
	return false
}

func (e *CExtractor) createDeclaration(node *sitter.Node, unit *translationUnit) {
	declarator := node.ChildByFieldName("declarator")
	if declarator == nil {
		return
	}
	if hasDescendantOfType(declarator, "function_declarator") {
		e.createFunction(node, unit)
		return
	}
	if !hasChildTokenContent(node, "storage_class_specifier", "extern", unit.source) {
		return
	}
	name := declaratorName(declarator, unit.source)
	if e.dedup(name) {
		return
	}
	e.sink.emit(&symbols.ExportedVariableSymbol{
		BaseSymbol: symbols.BaseSymbol{
			UniqueName:  name,
			DisplayName: name,
			Filename:    unit.page,
			Lineno:      int(node.StartPoint().Row) + 1,
		},
		OriginalText: strings.TrimSpace(node.Content(unit.source)),
		TypeQS: symbols.QualifiedSymbol{
			TypeTokens: TokensFromCDecl(declaredType(node, declarator, unit.source)),
		},
	})
}

func (e *CExtractor) createFunction(node *sitter.Node, unit *translationUnit) {
	declarator := node.ChildByFieldName("declarator")
	fnDecl := findDescendantOfType(declarator, "function_declarator")
	if fnDecl == nil {
		return
	}
	name := declaratorName(fnDecl.ChildByFieldName("declarator"), unit.source)
	if e.dedup(name) {
		return
	}

	retText := declaredType(node, declarator, unit.source)
	var retval []*symbols.ReturnItemSymbol
	if retText == "void" {
		retval = append(retval, nil)
	} else {
		retval = append(retval, &symbols.ReturnItemSymbol{
			TypeTokens: TokensFromCDecl(retText),
		})
	}

	e.sink.emit(&symbols.FunctionSymbol{
		BaseSymbol: symbols.BaseSymbol{
			UniqueName:  name,
			DisplayName: name,
			Filename:    unit.page,
			Lineno:      int(node.StartPoint().Row) + 1,
		},
		Role:        symbols.KindFunction,
		Parameters:  e.cParameters(fnDecl, unit),
		ReturnValue: retval,
		ExtentStart: int(node.StartPoint().Row) + 1,
		ExtentEnd:   int(node.EndPoint().Row) + 1,
	})
}

func (e *CExtractor) cParameters(fnDecl *sitter.Node, unit *translationUnit) []*symbols.ParameterSymbol {
	list := fnDecl.ChildByFieldName("parameters")
	if list == nil {
		return nil
	}
	var params []*symbols.ParameterSymbol
	for i := 0; i < int(list.NamedChildCount()); i++ {
		p := list.NamedChild(i)
		switch p.Type() {
		case "parameter_declaration":
			declarator := p.ChildByFieldName("declarator")
			text := declaredType(p, declarator, unit.source)
			if text == "void" && declarator == nil {
				continue
			}
			params = append(params, &symbols.ParameterSymbol{
				ArgName:    declaratorName(declarator, unit.source),
				TypeTokens: TokensFromCDecl(text),
				Direction:  symbols.In,
			})
		case "variadic_parameter":
			params = append(params, &symbols.ParameterSymbol{
				ArgName:    "...",
				TypeTokens: []symbols.TypeToken{symbols.LiteralToken("...")},
				Direction:  symbols.In,
			})
		}
	}
	return params
}

func (e *CExtractor) createTypedef(node *sitter.Node, unit *translationUnit) {
	declarator := node.ChildByFieldName("declarator")
	typ := node.ChildByFieldName("type")
	if declarator == nil || typ == nil {
		return
	}

	if fnDecl := findDescendantOfType(declarator, "function_declarator"); fnDecl != nil {
		e.createCallbackTypedef(node, fnDecl, unit)
		return
	}

	name := declaratorName(declarator, unit.source)
	if e.dedup(name) {
		return
	}

	switch typ.Type() {
	case "struct_specifier":
		if typ.ChildByFieldName("name") == nil && typ.ChildByFieldName("body") != nil {
			e.createStruct(typ, unit, name)
			return
		}
	case "enum_specifier":
		if typ.ChildByFieldName("name") == nil && typ.ChildByFieldName("body") != nil {
			e.createEnum(typ, unit, name)
			return
		}
	}

	e.sink.emit(&symbols.AliasSymbol{
		BaseSymbol: symbols.BaseSymbol{
			UniqueName:  name,
			DisplayName: name,
			Filename:    unit.page,
			Lineno:      int(node.StartPoint().Row) + 1,
		},
		Aliased: symbols.QualifiedSymbol{
			TypeTokens: TokensFromCDecl(declaredType(node, declarator, unit.source)),
		},
	})
}

func (e *CExtractor) createCallbackTypedef(node, fnDecl *sitter.Node, unit *translationUnit) {
	name := declaratorName(fnDecl.ChildByFieldName("declarator"), unit.source)
	if e.dedup(name) {
		return
	}
	retText := declaredType(node, node.ChildByFieldName("declarator"), unit.source)
	var retval []*symbols.ReturnItemSymbol
	if retText == "void" {
		retval = append(retval, nil)
	} else {
		retval = append(retval, &symbols.ReturnItemSymbol{
			TypeTokens: TokensFromCDecl(retText),
		})
	}
	e.sink.emit(&symbols.FunctionSymbol{
		BaseSymbol: symbols.BaseSymbol{
			UniqueName:  name,
			DisplayName: name,
			Filename:    unit.page,
			Lineno:      int(node.StartPoint().Row) + 1,
		},
		Role:        symbols.KindCallback,
		Parameters:  e.cParameters(fnDecl, unit),
		ReturnValue: retval,
	})
}

// createStruct handles a named struct specifier, or an anonymous one
// reached through a typedef, in which case spelling carries the
// typedef name.
func (e *CExtractor) createStruct(node *sitter.Node, unit *translationUnit, spelling string) {
	body := node.ChildByFieldName("body")
	if body == nil {
		return
	}
	anonymous := spelling != ""
	if !anonymous {
		nameNode := node.ChildByFieldName("name")
		if nameNode == nil {
			return
		}
		spelling = nameNode.Content(unit.source)
		if e.dedup(spelling) {
			return
		}
	}

	vis := parseVisibility(unit.source, int(body.StartPoint().Row)+1, int(body.EndPoint().Row)+1)

	var members []*symbols.FieldSymbol
	for i := 0; i < int(body.NamedChildCount()); i++ {
		field := body.NamedChild(i)
		if field.Type() != "field_declaration" {
			continue
		}
		line := int(field.StartPoint().Row) + 1
		if !vis.isPublic(line) {
			continue
		}
		declarator := field.ChildByFieldName("declarator")
		memberName := declaratorName(declarator, unit.source)
		if memberName == "" {
			continue
		}
		member := &symbols.FieldSymbol{
			BaseSymbol: symbols.BaseSymbol{
				UniqueName:  spelling + "." + memberName,
				DisplayName: memberName,
				ParentName:  spelling,
				Filename:    unit.page,
				Lineno:      line,
			},
			MemberName:        memberName,
			QType:             symbols.QualifiedSymbol{TypeTokens: TokensFromCDecl(declaredType(field, declarator, unit.source))},
			IsFunctionPointer: hasDescendantOfType(declarator, "function_declarator"),
		}
		if out := e.sink.emit(member); out != nil {
			if fs, ok := out.(*symbols.FieldSymbol); ok {
				members = append(members, fs)
			}
		}
	}

	e.sink.emit(&symbols.StructSymbol{
		BaseSymbol: symbols.BaseSymbol{
			UniqueName:  spelling,
			DisplayName: spelling,
			Filename:    unit.page,
			Lineno:      int(node.StartPoint().Row) + 1,
		},
		Members:   members,
		RawText:   node.Content(unit.source),
		Anonymous: anonymous,
	})
}

func (e *CExtractor) createEnum(node *sitter.Node, unit *translationUnit, spelling string) {
	body := node.ChildByFieldName("body")
	if body == nil {
		return
	}
	anonymous := spelling != ""
	if !anonymous {
		nameNode := node.ChildByFieldName("name")
		if nameNode == nil {
			return
		}
		spelling = nameNode.Content(unit.source)
		if e.dedup(spelling) {
			return
		}
	}

	var members []*symbols.EnumMemberSymbol
	for i := 0; i < int(body.NamedChildCount()); i++ {
		enumerator := body.NamedChild(i)
		if enumerator.Type() != "enumerator" {
			continue
		}
		nameNode := enumerator.ChildByFieldName("name")
		if nameNode == nil {
			continue
		}
		memberName := nameNode.Content(unit.source)
		value := ""
		if valueNode := enumerator.ChildByFieldName("value"); valueNode != nil {
			value = valueNode.Content(unit.source)
		}
		member := &symbols.EnumMemberSymbol{
			BaseSymbol: symbols.BaseSymbol{
				UniqueName:  memberName,
				DisplayName: memberName,
				ParentName:  spelling,
				Filename:    unit.page,
				Lineno:      int(enumerator.StartPoint().Row) + 1,
			},
			Value: value,
		}
		if out := e.sink.emit(member); out != nil {
			if em, ok := out.(*symbols.EnumMemberSymbol); ok {
				members = append(members, em)
			}
		}
	}

	e.sink.emit(&symbols.EnumSymbol{
		BaseSymbol: symbols.BaseSymbol{
			UniqueName:  spelling,
			DisplayName: spelling,
			Filename:    unit.page,
			Lineno:      int(node.StartPoint().Row) + 1,
		},
		Members:   members,
		RawText:   node.Content(unit.source),
		Anonymous: anonymous,
	})
}

func (e *CExtractor) createMacro(node *sitter.Node, unit *translationUnit) {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return
	}
	name := nameNode.Content(unit.source)
	if e.dedup(name) {
		return
	}
	e.sink.emit(&symbols.ConstantSymbol{
		BaseSymbol: symbols.BaseSymbol{
			UniqueName:  name,
			DisplayName: name,
			Filename:    unit.page,
			Lineno:      int(node.StartPoint().Row) + 1,
		},
		OriginalText: strings.TrimSpace(node.Content(unit.source)),
	})
}

func (e *CExtractor) createFunctionMacro(node *sitter.Node, unit *translationUnit) {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return
	}
	name := nameNode.Content(unit.source)
	if e.dedup(name) {
		return
	}

	var params []*symbols.ParameterSymbol
	if comment := e.comments.Get(name); comment != nil && len(comment.ParamOrder) > 0 {
		// The comment block names the macro's arguments, trust it over
		// the token soup of the definition.
		for _, argName := range comment.ParamOrder {
			params = append(params, &symbols.ParameterSymbol{
				ArgName:   argName,
				Direction: symbols.In,
			})
		}
	} else if list := node.ChildByFieldName("parameters"); list != nil {
		for i := 0; i < int(list.NamedChildCount()); i++ {
			p := list.NamedChild(i)
			if p.Type() != "identifier" {
				continue
			}
			params = append(params, &symbols.ParameterSymbol{
				ArgName:   p.Content(unit.source),
				Direction: symbols.In,
			})
		}
	}

	e.sink.emit(&symbols.FunctionSymbol{
		BaseSymbol: symbols.BaseSymbol{
			UniqueName:  name,
			DisplayName: name,
			Filename:    unit.page,
			Lineno:      int(node.StartPoint().Row) + 1,
		},
		Role:         symbols.KindFunctionMacro,
		Parameters:   params,
		OriginalText: strings.TrimSpace(node.Content(unit.source)),
		ExtentStart:  int(node.StartPoint().Row) + 1,
		ExtentEnd:    int(node.EndPoint().Row) + 1,
	})
}

// declaredType reconstructs the C type spelling of a declaration:
// qualifiers and the type specifier in source order, then one star per
// pointer level of the declarator.
func declaredType(decl, declarator *sitter.Node, source []byte) string {
	var parts []string
	for i := 0; i < int(decl.ChildCount()); i++ {
		child := decl.Child(i)
		switch child.Type() {
		case "type_qualifier", "primitive_type", "type_identifier",
			"sized_type_specifier", "struct_specifier", "enum_specifier",
			"union_specifier":
			parts = append(parts, child.Content(source))
		}
		if declarator != nil && child.StartByte() == declarator.StartByte() {
			break
		}
	}
	text := strings.Join(parts, " ")
	for d := declarator; d != nil; {
		if d.Type() == "pointer_declarator" {
			text += "*"
			d = d.ChildByFieldName("declarator")
			continue
		}
		break
	}
	return text
}

// declaratorName digs the declared identifier out of an arbitrarily
// nested declarator.
func declaratorName(node *sitter.Node, source []byte) string {
	for node != nil {
		switch node.Type() {
		case "identifier", "field_identifier", "type_identifier":
			return node.Content(source)
		case "pointer_declarator", "function_declarator", "array_declarator",
			"parenthesized_declarator", "init_declarator":
			next := node.ChildByFieldName("declarator")
			if next == nil {
				next = node.NamedChild(0)
			}
			node = next
		default:
			return ""
		}
	}
	return ""
}

func findDescendantOfType(node *sitter.Node, nodeType string) *sitter.Node {
	if node == nil {
		return nil
	}
	if node.Type() == nodeType {
		return node
	}
	for i := 0; i < int(node.NamedChildCount()); i++ {
		if found := findDescendantOfType(node.NamedChild(i), nodeType); found != nil {
			return found
		}
	}
	return nil
}

func hasDescendantOfType(node *sitter.Node, nodeType string) bool {
	return findDescendantOfType(node, nodeType) != nil
}

func hasChildTokenContent(node *sitter.Node, nodeType, content string, source []byte) bool {
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child.Type() == nodeType && child.Content(source) == content {
			return true
		}
	}
	return false
}
