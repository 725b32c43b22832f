// Package gir models GObject-Introspection XML documents as a generic
// node tree. Scanners never touch encoding/xml directly: they dispatch
// on the closed NodeKind set and read attributes through the namespace
// aware accessors.
package gir

// GIR namespace URIs.
const (
	CoreNS = "http://www.gtk.org/introspection/core/1.0"
	CNS    = "http://www.gtk.org/introspection/c/1.0"
	GlibNS = "http://www.gtk.org/introspection/glib/1.0"
)

// NodeKind is the closed set of element kinds a scanner dispatches on.
// Anything else maps to KindUnknown and is skipped, not an error.
type NodeKind int

const (
	KindUnknown NodeKind = iota
	KindRepository
	KindInclude
	KindPackage
	KindNamespace
	KindClass
	KindInterface
	KindRecord
	KindUnion
	KindEnumeration
	KindBitfield
	KindCallback
	KindAlias
	KindFunction
	KindMethod
	KindConstructor
	KindVirtualMethod
	KindProperty
	KindSignal
	KindField
	KindConstant
	KindMember
	KindType
	KindArray
	KindVarargs
	KindParameters
	KindParameter
	KindInstanceParameter
	KindReturnValue
	KindDoc
	KindImplements
	KindPrerequisite
)

// Attr is one XML attribute with its namespace URI ("" for plain
// attributes like name or parent).
type Attr struct {
	Space string
	Local string
	Value string
}

// Node is one element of a parsed GIR document. Children are in
// document order; Parent is nil for the repository root.
type Node struct {
	Space    string
	Local    string
	Attrs    []Attr
	Parent   *Node
	Children []*Node
	Line     int
}

// Kind classifies the node.
func (n *Node) Kind() NodeKind {
	switch n.Space {
	case CoreNS:
		switch n.Local {
		case "repository":
			return KindRepository
		case "include":
			return KindInclude
		case "package":
			return KindPackage
		case "namespace":
			return KindNamespace
		case "class":
			return KindClass
		case "interface":
			return KindInterface
		case "record":
			return KindRecord
		case "union":
			return KindUnion
		case "enumeration":
			return KindEnumeration
		case "bitfield":
			return KindBitfield
		case "callback":
			return KindCallback
		case "alias":
			return KindAlias
		case "function":
			return KindFunction
		case "method":
			return KindMethod
		case "constructor":
			return KindConstructor
		case "virtual-method":
			return KindVirtualMethod
		case "property":
			return KindProperty
		case "field":
			return KindField
		case "constant":
			return KindConstant
		case "member":
			return KindMember
		case "type":
			return KindType
		case "array":
			return KindArray
		case "varargs":
			return KindVarargs
		case "parameters":
			return KindParameters
		case "parameter":
			return KindParameter
		case "instance-parameter":
			return KindInstanceParameter
		case "return-value":
			return KindReturnValue
		case "doc", "doc-version", "doc-deprecated", "doc-stability", "source-position":
			return KindDoc
		case "implements":
			return KindImplements
		case "prerequisite":
			return KindPrerequisite
		}
	case GlibNS:
		switch n.Local {
		case "signal":
			return KindSignal
		case "boxed":
			return KindRecord
		}
	}
	return KindUnknown
}

// Attr returns a plain (non namespaced) attribute value, or "".
func (n *Node) Attr(local string) string {
	return n.attr("", local)
}

// CAttr returns an attribute from the C namespace.
func (n *Node) CAttr(local string) string {
	return n.attr(CNS, local)
}

// GlibAttr returns an attribute from the glib namespace.
func (n *Node) GlibAttr(local string) string {
	return n.attr(GlibNS, local)
}

// HasAttr reports whether the plain attribute is present (even empty).
func (n *Node) HasAttr(local string) bool {
	return n.hasAttr("", local)
}

// HasCAttr reports whether the C namespace attribute is present.
func (n *Node) HasCAttr(local string) bool {
	return n.hasAttr(CNS, local)
}

func (n *Node) attr(space, local string) string {
	for _, a := range n.Attrs {
		if a.Space == space && a.Local == local {
			return a.Value
		}
	}
	return ""
}

func (n *Node) hasAttr(space, local string) bool {
	for _, a := range n.Attrs {
		if a.Local == local && a.Space == space {
			return true
		}
	}
	return false
}

// FindChild returns the first direct child of the given kind, or nil.
func (n *Node) FindChild(kind NodeKind) *Node {
	for _, c := range n.Children {
		if c.Kind() == kind {
			return c
		}
	}
	return nil
}

// FindChildren returns all direct children of the given kind.
func (n *Node) FindChildren(kind NodeKind) []*Node {
	var out []*Node
	for _, c := range n.Children {
		if c.Kind() == kind {
			out = append(out, c)
		}
	}
	return out
}

// NextSibling returns the node following n under the same parent, or
// nil. Page assignment peeks at it to spot a class struct declared
// right after its class.
func (n *Node) NextSibling() *Node {
	if n.Parent == nil {
		return nil
	}
	for i, c := range n.Parent.Children {
		if c == n && i+1 < len(n.Parent.Children) {
			return n.Parent.Children[i+1]
		}
	}
	return nil
}

// Namespace walks up to the enclosing namespace element and returns its
// name, or "".
func (n *Node) Namespace() string {
	for p := n.Parent; p != nil; p = p.Parent {
		if p.Kind() == KindNamespace {
			return p.Attr("name")
		}
	}
	return ""
}

// NameComponents returns the dotted-name components of the node: its
// own name attribute preceded by the name of every named ancestor,
// outermost first. Ancestors without a name attribute terminate the
// walk, so the repository root never contributes a component.
func (n *Node) NameComponents() []string {
	var components []string
	if n.HasAttr("name") {
		components = []string{n.Attr("name")}
	}
	for p := n.Parent; p != nil; p = p.Parent {
		if !p.HasAttr("name") {
			break
		}
		components = append([]string{p.Attr("name")}, components...)
	}
	return components
}

// GIName returns the dotted language-neutral name used for hierarchy
// and translation bookkeeping, distinct from the C unique name.
func (n *Node) GIName() string {
	components := n.NameComponents()
	out := ""
	for i, c := range components {
		if i > 0 {
			out += "."
		}
		out += c
	}
	return out
}

// TypeName returns the C type name of a class or interface node,
// falling back to the glib type-name attribute when the c:type is
// absent (some GIR generators omit it on interfaces).
func (n *Node) TypeName() string {
	if name := n.CAttr("type"); name != "" {
		return name
	}
	return n.GlibAttr("type-name")
}
