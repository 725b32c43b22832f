package extractor

import (
	"log/slog"
	"path/filepath"
	"strings"

	"girdoc/internal/comments"
	"girdoc/internal/gir"
	"girdoc/internal/index"
	"girdoc/internal/slogutil"
	"girdoc/internal/symbols"
)

// ownsChildren declares, per node kind, whether the handler for that
// kind consumes its whole subtree. Kinds not listed are walked into.
// Keeping this as a table makes the traversal order explicit instead of
// toggling a recurse flag mid-walk.
var ownsChildren = map[gir.NodeKind]bool{
	gir.KindFunction:      true,
	gir.KindMethod:        true,
	gir.KindConstructor:   true,
	gir.KindVirtualMethod: true,
	gir.KindProperty:      true,
	gir.KindSignal:        true,
	gir.KindAlias:         true,
	gir.KindCallback:      true,
	gir.KindEnumeration:   true,
	gir.KindBitfield:      true,
	gir.KindConstant:      true,
	gir.KindDoc:           true,
}

// GirExtractor walks gir documents and emits symbols into the sink.
type GirExtractor struct {
	ix       *index.ProjectIndex
	comments comments.Store
	sink     *filteringSink
	log      *slog.Logger
}

func NewGirExtractor(ix *index.ProjectIndex, store comments.Store, sink *symbols.Sink, log *slog.Logger) *GirExtractor {
	if log == nil {
		log = slogutil.NewDiscardLogger()
	}
	return &GirExtractor{
		ix:       ix,
		comments: store,
		sink:     newFilteringSink(ix, sink, log),
		log:      log,
	}
}

// Scan parses and walks each gir file. A parse failure aborts only that
// file's contribution; the rest of the batch proceeds.
func (e *GirExtractor) Scan(paths []string) error {
	var firstErr error
	for _, path := range paths {
		root, err := gir.ParseFile(path)
		if err != nil {
			slogutil.Warn(e.log, slogutil.CodeParserDiagnostic,
				"skipping unparseable gir file",
				slog.String("file", path), slog.String("error", err.Error()))
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		e.sink.setSource(path)
		e.ix.CacheNodes(root)
		e.walk(root)
	}
	e.linkClassStructs()
	return firstErr
}

// linkClassStructs attaches each class's struct symbol after the walk;
// in document order the record usually follows the class it documents.
func (e *GirExtractor) linkClassStructs() {
	for _, sym := range e.sink.sink.All() {
		class, ok := sym.(*symbols.ClassSymbol)
		if !ok || class.ClassStruct != nil {
			continue
		}
		node := e.ix.Node(class.UniqueName)
		if node == nil {
			continue
		}
		structNode := index.ClassStructFor(node)
		if structNode == nil {
			continue
		}
		if st, ok := e.sink.sink.Get(structNode.CAttr("type")).(*symbols.StructSymbol); ok {
			class.ClassStruct = st
		}
	}
}

// walk drives an explicit worklist over the document. Nodes whose kind
// owns its children are handled and not descended into.
func (e *GirExtractor) walk(root *gir.Node) {
	stack := []*gir.Node{root}
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if e.skip(node) {
			continue
		}
		e.dispatch(node)

		if !ownsChildren[node.Kind()] {
			for i := len(node.Children) - 1; i >= 0; i-- {
				stack = append(stack, node.Children[i])
			}
		}
	}
}

// skip implements the node-level exclusion rules: API relocated with
// moved-to, fundamental pseudo classes, and private structures.
func (e *GirExtractor) skip(node *gir.Node) bool {
	if node.Attr("moved-to") != "" {
		return true
	}
	if node.GlibAttr("fundamental") == "1" {
		return true
	}
	if node.Kind() == gir.KindRecord {
		name := node.Attr("name")
		if strings.HasSuffix(name, "Priv") || strings.HasSuffix(name, "Private") {
			return true
		}
	}
	return false
}

func (e *GirExtractor) dispatch(node *gir.Node) {
	switch node.Kind() {
	case gir.KindClass:
		e.createClass(node)
	case gir.KindInterface:
		e.createInterface(node)
	case gir.KindRecord:
		e.createStruct(node)
	case gir.KindFunction, gir.KindMethod, gir.KindConstructor:
		e.createFunction(node)
	case gir.KindVirtualMethod:
		e.createVFunc(node)
	case gir.KindProperty:
		e.createProperty(node)
	case gir.KindSignal:
		e.createSignal(node)
	case gir.KindField:
		e.createField(node)
	case gir.KindEnumeration, gir.KindBitfield:
		e.createEnum(node)
	case gir.KindCallback:
		e.createCallback(node)
	case gir.KindAlias:
		e.createAlias(node)
	case gir.KindConstant:
		e.createConstant(node)
	case gir.KindRepository, gir.KindNamespace, gir.KindInclude, gir.KindPackage,
		gir.KindUnion, gir.KindDoc, gir.KindImplements, gir.KindPrerequisite,
		gir.KindParameters, gir.KindParameter, gir.KindInstanceParameter,
		gir.KindReturnValue, gir.KindType, gir.KindArray, gir.KindVarargs,
		gir.KindMember, gir.KindUnknown:
		// Containers and leaves with no symbol of their own.
	}
}

func (e *GirExtractor) emit(sym symbols.Symbol) symbols.Symbol {
	return e.sink.emit(sym)
}

// pageFilename resolves a symbol's header page through its comment, or
// "" when the symbol is undocumented.
func (e *GirExtractor) pageFilename(uniqueName string) string {
	comment := e.comments.Get(uniqueName)
	if comment == nil || comment.Filename == "" {
		return ""
	}
	base := filepath.Base(comment.Filename)
	return strings.TrimSuffix(base, filepath.Ext(base)) + ".h"
}

func (e *GirExtractor) createClass(node *gir.Node) {
	ctype := node.TypeName()
	if ctype == "" {
		e.malformed(node, "class without a C type")
		return
	}
	giName := node.GIName()
	uniqueName := ctype + "::" + ctype

	sym := &symbols.ClassSymbol{
		BaseSymbol: symbols.BaseSymbol{
			UniqueName:  uniqueName,
			DisplayName: ctype,
			ParentName:  ctype,
			Filename:    e.pageFilename(uniqueName),
			Lineno:      node.Line,
		},
		Hierarchy: e.ix.Hierarchy.Ancestors(giName),
		Children:  e.ix.Hierarchy.Children(giName),
	}

	if structNode := index.ClassStructFor(node); structNode != nil {
		if classStruct, ok := e.sink.sink.Get(structNode.CAttr("type")).(*symbols.StructSymbol); ok {
			sym.ClassStruct = classStruct
		}
		e.inheritVFuncDocs(node, structNode)
	}

	e.emit(sym)
}

func (e *GirExtractor) createInterface(node *gir.Node) {
	ctype := node.TypeName()
	if ctype == "" {
		e.malformed(node, "interface without a C type")
		return
	}
	uniqueName := ctype + "::" + ctype

	sym := &symbols.InterfaceSymbol{
		BaseSymbol: symbols.BaseSymbol{
			UniqueName:  uniqueName,
			DisplayName: ctype,
			ParentName:  ctype,
			Filename:    e.pageFilename(uniqueName),
			Lineno:      node.Line,
		},
	}
	if pre := node.FindChild(gir.KindPrerequisite); pre != nil {
		qs := symbols.QualifiedSymbol{TypeTokens: []symbols.TypeToken{symbols.LinkToken(pre.Attr("name"))}}
		sym.Prerequisite = &qs
	}
	e.emit(sym)
}

func (e *GirExtractor) createStruct(node *gir.Node) {
	unique, display, owner := Names(node)
	if unique == "" {
		return
	}

	var members []*symbols.FieldSymbol
	for _, field := range e.collectFields(node) {
		if member := e.createField(field); member != nil {
			members = append(members, member)
		}
	}

	if forClass := node.GlibAttr("is-gtype-struct-for"); forClass != "" {
		// The class struct documents its class; co-locate it.
		if classNode := e.ix.ClassNode(node.Namespace(), forClass); classNode != nil {
			owner = classNode.TypeName()
		}
	}

	e.emit(&symbols.StructSymbol{
		BaseSymbol: symbols.BaseSymbol{
			UniqueName:  unique,
			DisplayName: display,
			ParentName:  owner,
			Filename:    e.pageFilename(unique),
			Lineno:      node.Line,
		},
		Members: members,
	})
}

// collectFields gathers a record's fields including those nested in
// anonymous unions and records, in document order.
func (e *GirExtractor) collectFields(node *gir.Node) []*gir.Node {
	var out []*gir.Node
	for _, child := range node.Children {
		switch child.Kind() {
		case gir.KindField:
			out = append(out, child)
			// A field may wrap a nested compound.
			out = append(out, e.collectFields(child)...)
		case gir.KindUnion, gir.KindRecord:
			if child.CAttr("type") == "" {
				out = append(out, e.collectFields(child)...)
			}
		}
	}
	return out
}

func (e *GirExtractor) createField(node *gir.Node) *symbols.FieldSymbol {
	unique, display, owner := Names(node)
	if unique == "" {
		return nil
	}

	// Private fields stay out of the documentation.
	if node.Attr("private") == "1" {
		return nil
	}

	tokens, isFunctionPointer := e.fieldType(node)
	if tokens == nil && isFunctionPointer {
		return nil
	}

	inUnion := false
	for p := node.Parent; p != nil; p = p.Parent {
		if p.Kind() == gir.KindUnion {
			inUnion = true
			break
		}
		if p.CAttr("type") != "" {
			break
		}
	}

	e.ix.Translations.RecordFieldPath(unique, fieldPath(node))

	sym := &symbols.FieldSymbol{
		BaseSymbol: symbols.BaseSymbol{
			UniqueName:  unique,
			DisplayName: display,
			ParentName:  owner,
			Filename:    e.pageFilename(unique),
			Lineno:      node.Line,
		},
		MemberName:        display,
		QType:             symbols.QualifiedSymbol{TypeTokens: tokens},
		IsFunctionPointer: isFunctionPointer,
		InUnion:           inUnion,
	}
	if out := e.emit(sym); out != nil {
		field, _ := out.(*symbols.FieldSymbol)
		return field
	}
	return nil
}

// fieldType resolves a field's type tokens. Function pointer fields
// display their callback's return type; array fields their array
// spelling.
func (e *GirExtractor) fieldType(node *gir.Node) ([]symbols.TypeToken, bool) {
	if cb := node.FindChild(gir.KindCallback); cb != nil {
		retNode := cb.FindChild(gir.KindReturnValue)
		if retNode == nil {
			e.malformed(node, "callback field without return value")
			return nil, true
		}
		desc := Describe(retNode, e.ix)
		return desc.Tokens, true
	}
	desc := Describe(node, e.ix)
	return desc.Tokens, false
}

// fieldPath builds the dotted translation path of a field: the plain
// name of the nearest C-typed structure, every intervening named
// struct/union component, then the field itself. Anonymous compounds
// contribute nothing.
func fieldPath(node *gir.Node) []string {
	name := node.Attr("name")
	if name == "" {
		return nil
	}
	var path []string
	for p := node.Parent; p != nil; p = p.Parent {
		switch p.Kind() {
		case gir.KindRecord, gir.KindUnion, gir.KindClass, gir.KindInterface:
			if p.CAttr("type") != "" || p.GlibAttr("type-name") != "" {
				return append([]string{p.Attr("name")}, append(path, name)...)
			}
			if n := p.Attr("name"); n != "" {
				path = append([]string{n}, path...)
			}
		case gir.KindField:
			if n := p.Attr("name"); n != "" {
				path = append([]string{n}, path...)
			}
		}
	}
	return append(path, name)
}

func (e *GirExtractor) createFunction(node *gir.Node) {
	unique, display, owner := Names(node)
	if unique == "" {
		e.malformed(node, "callable without a c:identifier")
		return
	}

	params, retval := e.parametersAndRetval(node)
	sym := &symbols.FunctionSymbol{
		BaseSymbol: symbols.BaseSymbol{
			UniqueName:  unique,
			DisplayName: display,
			ParentName:  owner,
			Filename:    e.pageFilename(unique),
			Lineno:      node.Line,
		},
		Role:        functionRole(node),
		Parameters:  params,
		ReturnValue: retval,
		Throws:      node.HasAttr("throws"),
		IsMethod:    node.Kind() == gir.KindMethod,
	}
	e.emit(sym)
}

func functionRole(node *gir.Node) symbols.Kind {
	switch node.Kind() {
	case gir.KindMethod:
		return symbols.KindMethod
	case gir.KindConstructor:
		return symbols.KindConstructor
	default:
		return symbols.KindFunction
	}
}

func (e *GirExtractor) createVFunc(node *gir.Node) {
	unique, display, owner := Names(node)
	if unique == "" {
		e.malformed(node, "virtual method without a resolvable class struct")
		return
	}

	params, retval := e.parametersAndRetval(node)
	e.emit(&symbols.VFunctionSymbol{
		BaseSymbol: symbols.BaseSymbol{
			UniqueName:  unique,
			DisplayName: display,
			ParentName:  owner,
			Filename:    e.pageFilename(owner + "::" + owner),
			Lineno:      node.Line,
		},
		Parameters:  params,
		ReturnValue: retval,
	})
}

func (e *GirExtractor) createSignal(node *gir.Node) {
	unique, display, owner := Names(node)
	if unique == "" {
		e.malformed(node, "signal outside a class")
		return
	}

	var flags []symbols.Flag
	switch node.Attr("when") {
	case "first":
		flags = append(flags, symbols.RunFirstFlag)
	case "last":
		flags = append(flags, symbols.RunLastFlag)
	case "cleanup":
		flags = append(flags, symbols.RunCleanupFlag)
	}
	if node.Attr("no-hooks") == "1" {
		flags = append(flags, symbols.NoHooksFlag)
	}

	params, retval := e.parametersAndRetval(node)
	e.emit(&symbols.SignalSymbol{
		BaseSymbol: symbols.BaseSymbol{
			UniqueName:  unique,
			DisplayName: display,
			ParentName:  owner,
			Filename:    e.pageFilename(owner + "::" + owner),
			Lineno:      node.Line,
		},
		Parameters:  params,
		ReturnValue: retval,
		Flags:       flags,
	})
}

func (e *GirExtractor) createProperty(node *gir.Node) {
	unique, display, owner := Names(node)
	if unique == "" {
		e.malformed(node, "property outside a class")
		return
	}

	flags := []symbols.Flag{symbols.ReadableFlag}
	if node.Attr("writable") == "1" {
		flags = append(flags, symbols.WritableFlag)
	}
	if node.Attr("construct-only") == "1" {
		flags = append(flags, symbols.ConstructOnlyFlag)
	} else if node.Attr("construct") == "1" {
		flags = append(flags, symbols.ConstructFlag)
	}

	desc := Describe(node, e.ix)
	e.emit(&symbols.PropertySymbol{
		BaseSymbol: symbols.BaseSymbol{
			UniqueName:  unique,
			DisplayName: display,
			ParentName:  owner,
			Filename:    e.pageFilename(owner + "::" + owner),
			Lineno:      node.Line,
		},
		PropType: symbols.QualifiedSymbol{TypeTokens: desc.Tokens},
		Flags:    flags,
	})
}

func (e *GirExtractor) createEnum(node *gir.Node) {
	unique, display, _ := Names(node)
	if unique == "" {
		return
	}

	var members []*symbols.EnumMemberSymbol
	for _, m := range node.FindChildren(gir.KindMember) {
		memberUnique, memberDisplay, _ := Names(m)
		if memberUnique == "" {
			memberUnique = memberDisplay
		}
		member := &symbols.EnumMemberSymbol{
			BaseSymbol: symbols.BaseSymbol{
				UniqueName:  memberUnique,
				DisplayName: memberDisplay,
				ParentName:  unique,
				Lineno:      m.Line,
			},
			Value: m.Attr("value"),
		}
		if out := e.emit(member); out != nil {
			if em, ok := out.(*symbols.EnumMemberSymbol); ok {
				members = append(members, em)
			}
		}
	}

	e.emit(&symbols.EnumSymbol{
		BaseSymbol: symbols.BaseSymbol{
			UniqueName:  unique,
			DisplayName: display,
			Filename:    e.pageFilename(unique),
			Lineno:      node.Line,
		},
		Members: members,
	})
}

func (e *GirExtractor) createCallback(node *gir.Node) {
	unique, display, owner := Names(node)
	if unique == "" {
		return
	}
	params, retval := e.parametersAndRetval(node)
	e.emit(&symbols.FunctionSymbol{
		BaseSymbol: symbols.BaseSymbol{
			UniqueName:  unique,
			DisplayName: display,
			ParentName:  owner,
			Filename:    e.pageFilename(unique),
			Lineno:      node.Line,
		},
		Role:        symbols.KindCallback,
		Parameters:  params,
		ReturnValue: retval,
	})
}

func (e *GirExtractor) createAlias(node *gir.Node) {
	unique, display, _ := Names(node)
	if unique == "" {
		return
	}
	desc := Describe(node, e.ix)
	target := strings.Trim(desc.CName, "* ")
	if target == "" {
		target = desc.GIName
	}
	e.ix.Translations.RecordAlias(unique, target)
	e.emit(&symbols.AliasSymbol{
		BaseSymbol: symbols.BaseSymbol{
			UniqueName:  unique,
			DisplayName: display,
			Filename:    e.pageFilename(unique),
			Lineno:      node.Line,
		},
		Aliased: symbols.QualifiedSymbol{TypeTokens: desc.Tokens},
	})
}

func (e *GirExtractor) createConstant(node *gir.Node) {
	unique, display, _ := Names(node)
	if unique == "" {
		return
	}
	e.emit(&symbols.ConstantSymbol{
		BaseSymbol: symbols.BaseSymbol{
			UniqueName:  unique,
			DisplayName: display,
			Filename:    e.pageFilename(unique),
			Lineno:      node.Line,
		},
		OriginalText: node.Attr("value"),
	})
}

// parametersAndRetval builds the raw parameter list (instance parameter
// included) and the return value list with out-parameters promoted to
// additional return slots, in original parameter order.
func (e *GirExtractor) parametersAndRetval(node *gir.Node) ([]*symbols.ParameterSymbol, []*symbols.ReturnItemSymbol) {
	var params []*symbols.ParameterSymbol
	var outParams []*symbols.ParameterSymbol

	if container := node.FindChild(gir.KindParameters); container != nil {
		if instance := container.FindChild(gir.KindInstanceParameter); instance != nil {
			params = append(params, e.createParameter(instance))
		}
		for _, p := range container.FindChildren(gir.KindParameter) {
			param := e.createParameter(p)
			params = append(params, param)
			if param.Direction != symbols.In {
				outParams = append(outParams, param)
			}
		}
	}

	var retval []*symbols.ReturnItemSymbol
	if retNode := node.FindChild(gir.KindReturnValue); retNode != nil {
		desc := Describe(retNode, e.ix)
		if desc.Void() {
			retval = append(retval, nil)
		} else {
			retval = append(retval, &symbols.ReturnItemSymbol{
				TypeTokens: desc.Tokens,
				GIName:     desc.GIName,
			})
		}
	} else {
		retval = append(retval, nil)
	}

	for _, out := range outParams {
		retval = append(retval, &symbols.ReturnItemSymbol{
			Name:       out.ArgName,
			TypeTokens: out.TypeTokens,
			GIName:     out.GIName,
		})
	}

	return params, retval
}

func (e *GirExtractor) createParameter(node *gir.Node) *symbols.ParameterSymbol {
	desc := Describe(node, e.ix)
	direction := symbols.Direction(node.Attr("direction"))
	if direction == "" {
		direction = symbols.In
	}
	return &symbols.ParameterSymbol{
		ArgName:    node.Attr("name"),
		TypeTokens: desc.Tokens,
		Direction:  direction,
		GIName:     desc.GIName,
	}
}

// inheritVFuncDocs copies vfunc descriptions out of the class struct's
// comment: a gtk-doc block documenting the struct's function pointer
// members doubles as the vfunc documentation.
func (e *GirExtractor) inheritVFuncDocs(classNode, structNode *gir.Node) {
	structComment := e.comments.Get(structNode.CAttr("type"))
	if structComment == nil {
		return
	}
	for _, vfunc := range classNode.FindChildren(gir.KindVirtualMethod) {
		name := vfunc.Attr("name")
		desc, ok := structComment.Params[name]
		if !ok {
			continue
		}
		unique, _, _ := Names(vfunc)
		if unique == "" {
			continue
		}
		if e.comments.Get(unique) == nil {
			e.comments.Add(&comments.Comment{
				Name:        unique,
				Description: desc,
				Filename:    structComment.Filename,
			})
		}
	}
}

func (e *GirExtractor) malformed(node *gir.Node, msg string) {
	slogutil.Warn(e.log, slogutil.CodeMalformedNode, msg,
		slog.String("tag", node.Local),
		slog.String("name", node.Attr("name")),
		slog.Int("line", node.Line))
}
