package extractor

import (
	"strings"

	"girdoc/internal/gir"
	"girdoc/internal/index"
)

// Names computes the canonical (unique, display, owner) triple for a
// gir node. It is a pure function of the node's kind, attributes and
// ancestor chain. Unknown or unhandled kinds yield three empty strings
// and the caller skips the node; that is not an error.
//
// The naming scheme is a wire contract: the host database and the
// generated anchors key off these exact strings.
func Names(node *gir.Node) (unique, display, owner string) {
	switch node.Kind() {
	case gir.KindClass, gir.KindInterface:
		name := node.TypeName()
		return name, name, name

	case gir.KindFunction, gir.KindMethod, gir.KindConstructor:
		name := node.CAttr("identifier")
		if name == "" {
			return "", "", ""
		}
		if parent := node.Parent; parent != nil &&
			(parent.Kind() == gir.KindClass || parent.Kind() == gir.KindInterface) {
			return name, name, parent.TypeName()
		}
		return name, name, ""

	case gir.KindVirtualMethod:
		classNode := node.Parent
		if classNode == nil {
			return "", "", ""
		}
		structNode := index.ClassStructFor(classNode)
		if structNode == nil {
			return "", "", ""
		}
		name := node.Attr("name")
		return structNode.CAttr("type") + "::" + name, name, classNode.TypeName()

	case gir.KindProperty:
		parent := node.Parent
		if parent == nil {
			return "", "", ""
		}
		name := node.Attr("name")
		return parent.TypeName() + ":" + name, name, parent.TypeName()

	case gir.KindSignal:
		parent := node.Parent
		if parent == nil {
			return "", "", ""
		}
		name := node.Attr("name")
		return parent.TypeName() + "::" + name, name, parent.TypeName()

	case gir.KindField:
		return fieldNames(node)

	case gir.KindAlias, gir.KindCallback, gir.KindEnumeration, gir.KindBitfield,
		gir.KindRecord, gir.KindUnion, gir.KindConstant:
		name := node.CAttr("type")
		if name == "" {
			return "", "", ""
		}
		return name, name, ""

	case gir.KindMember:
		name := node.CAttr("identifier")
		return name, node.Attr("name"), ""
	}

	return "", "", ""
}

// fieldNames derives the dotted field path. The unique name starts at
// the nearest ancestor structure that has a C type, with the name of
// every intervening named struct/union field appended; anonymous
// intermediates contribute nothing. The owner of a class struct's
// fields is the class itself, not the struct.
func fieldNames(node *gir.Node) (unique, display, owner string) {
	name := node.Attr("name")
	if name == "" {
		return "", "", ""
	}

	var path []string
	var structure *gir.Node
	for p := node.Parent; p != nil; p = p.Parent {
		switch p.Kind() {
		case gir.KindRecord, gir.KindUnion, gir.KindClass, gir.KindInterface:
			if p.CAttr("type") != "" || p.GlibAttr("type-name") != "" {
				structure = p
			} else if n := p.Attr("name"); n != "" {
				path = append([]string{n}, path...)
			}
		case gir.KindField:
			// A named field wrapping a nested anonymous compound
			// contributes its own name exactly once.
			if n := p.Attr("name"); n != "" {
				path = append([]string{n}, path...)
			}
		}
		if structure != nil {
			break
		}
	}
	if structure == nil {
		return "", "", ""
	}

	structName := structure.TypeName()
	components := append([]string{structName}, append(path, name)...)
	unique = strings.Join(components, ".")

	owner = structName
	if forClass := structure.GlibAttr("is-gtype-struct-for"); forClass != "" {
		// Fields of the GObject class struct document the class.
		if classNode := classByName(structure, forClass); classNode != nil {
			owner = classNode.TypeName()
		}
	}

	return unique, name, owner
}

// classByName finds a class or interface node by gi name among the
// siblings of the given node's namespace.
func classByName(node *gir.Node, name string) *gir.Node {
	var ns *gir.Node
	for p := node.Parent; p != nil; p = p.Parent {
		if p.Kind() == gir.KindNamespace {
			ns = p
			break
		}
	}
	if ns == nil {
		return nil
	}
	for _, c := range ns.Children {
		kind := c.Kind()
		if (kind == gir.KindClass || kind == gir.KindInterface) && c.Attr("name") == name {
			return c
		}
	}
	return nil
}
