package symbols

// Kind identifies the concrete variant of a Symbol. The set is closed:
// scanners dispatch on it exhaustively and fall back to skipping unknown
// declarations rather than inventing new kinds.
type Kind string

const (
	KindFunction         Kind = "function"
	KindMethod           Kind = "method"
	KindConstructor      Kind = "constructor"
	KindClassMethod      Kind = "class-method"
	KindCallback         Kind = "callback"
	KindFunctionMacro    Kind = "function-macro"
	KindConstant         Kind = "constant"
	KindExportedVariable Kind = "exported-variable"
	KindStruct           Kind = "struct"
	KindClass            Kind = "class"
	KindInterface        Kind = "interface"
	KindField            Kind = "field"
	KindEnum             Kind = "enum"
	KindEnumMember       Kind = "enum-member"
	KindAlias            Kind = "alias"
	KindProperty         Kind = "property"
	KindSignal           Kind = "signal"
	KindVFunction        Kind = "virtual-method"
)

// Direction of a parameter.
type Direction string

const (
	In    Direction = "in"
	Out   Direction = "out"
	InOut Direction = "inout"
)

// Symbol is implemented by every documented entity. UniqueName is the
// stable join key the host database and the generated anchors rely on;
// recomputing it from the same source node must always yield the same
// string.
type Symbol interface {
	Kind() Kind
	Base() *BaseSymbol
}

// BaseSymbol carries the fields shared by every variant.
type BaseSymbol struct {
	UniqueName  string
	DisplayName string
	Filename    string
	Lineno      int
	ParentName  string
	Language    string

	// Source is the scanned file the symbol came from, the key used to
	// invalidate its contribution when that file changes.
	Source string

	// Extra holds extension attributes attached by later passes, for
	// example the gi name of a callable discovered after C scanning.
	Extra map[string]string
}

func (b *BaseSymbol) Base() *BaseSymbol { return b }

// SetExtra records an extension attribute on the symbol.
func (b *BaseSymbol) SetExtra(key, value string) {
	if b.Extra == nil {
		b.Extra = map[string]string{}
	}
	b.Extra[key] = value
}

// GetExtra returns an extension attribute, or "".
func (b *BaseSymbol) GetExtra(key string) string {
	return b.Extra[key]
}

// QualifiedSymbol is a bare type reference: it never gets a page of its
// own and only exists as a member of another symbol (hierarchy entries,
// field and parameter types).
type QualifiedSymbol struct {
	TypeTokens []TypeToken
}

// ParameterSymbol describes one parameter of a callable.
type ParameterSymbol struct {
	ArgName    string
	TypeTokens []TypeToken
	Direction  Direction
	GIName     string
}

// ReturnItemSymbol describes one slot of a callable's return list.
// Index 0 of a return list is the primary return value; a nil slot there
// means the callable returns void. Subsequent slots are out-parameters
// promoted to additional return values.
type ReturnItemSymbol struct {
	Name       string
	TypeTokens []TypeToken
	GIName     string
}

// FunctionSymbol covers plain functions, methods, constructors, class
// methods, callbacks and function macros; Role tells them apart.
type FunctionSymbol struct {
	BaseSymbol
	Role        Kind
	Parameters  []*ParameterSymbol
	ReturnValue []*ReturnItemSymbol
	Throws      bool
	IsMethod    bool

	// ExtentStart/ExtentEnd delimit the definition in its source file,
	// used by textual inclusion.
	ExtentStart int
	ExtentEnd   int

	// OriginalText is only set for function macros.
	OriginalText string
}

func (s *FunctionSymbol) Kind() Kind {
	if s.Role == "" {
		return KindFunction
	}
	return s.Role
}

// InParameters returns the parameters relevant for non-C renderings:
// the implicit instance parameter of a method is excluded, as are pure
// out-parameters (those are promoted to return values instead).
func (s *FunctionSymbol) InParameters() []*ParameterSymbol {
	var in []*ParameterSymbol
	for i, p := range s.Parameters {
		if s.IsMethod && i == 0 {
			continue
		}
		if p.Direction == Out {
			continue
		}
		in = append(in, p)
	}
	return in
}

// FieldSymbol is a member of a struct, class or interface record.
type FieldSymbol struct {
	BaseSymbol
	MemberName        string
	QType             QualifiedSymbol
	IsFunctionPointer bool
	InUnion           bool
}

func (s *FieldSymbol) Kind() Kind { return KindField }

// StructSymbol is a C structure or a GIR record.
type StructSymbol struct {
	BaseSymbol
	Members   []*FieldSymbol
	RawText   string
	Anonymous bool
}

func (s *StructSymbol) Kind() Kind { return KindStruct }

// ClassSymbol is a GObject class. Hierarchy is ordered root ancestor
// first; Children is keyed by the child's C type name. ClassStruct is
// the record holding the virtual method pointers, when one exists.
type ClassSymbol struct {
	BaseSymbol
	Hierarchy   []QualifiedSymbol
	Children    map[string]QualifiedSymbol
	ClassStruct *StructSymbol
}

func (s *ClassSymbol) Kind() Kind { return KindClass }

// InterfaceSymbol is a GObject interface.
type InterfaceSymbol struct {
	BaseSymbol
	Prerequisite *QualifiedSymbol
}

func (s *InterfaceSymbol) Kind() Kind { return KindInterface }

// EnumMemberSymbol is one value of an enumeration.
type EnumMemberSymbol struct {
	BaseSymbol
	Value string
}

func (s *EnumMemberSymbol) Kind() Kind { return KindEnumMember }

// EnumSymbol is a C enum or GIR enumeration/bitfield.
type EnumSymbol struct {
	BaseSymbol
	Members   []*EnumMemberSymbol
	RawText   string
	Anonymous bool
}

func (s *EnumSymbol) Kind() Kind { return KindEnum }

// AliasSymbol is a typedef to another type.
type AliasSymbol struct {
	BaseSymbol
	Aliased QualifiedSymbol
}

func (s *AliasSymbol) Kind() Kind { return KindAlias }

// PropertySymbol is a GObject property attached to a class.
type PropertySymbol struct {
	BaseSymbol
	PropType QualifiedSymbol
	Flags    []Flag
}

func (s *PropertySymbol) Kind() Kind { return KindProperty }

// SignalSymbol is a GObject signal attached to a class.
type SignalSymbol struct {
	BaseSymbol
	Parameters  []*ParameterSymbol
	ReturnValue []*ReturnItemSymbol
	Flags       []Flag
}

func (s *SignalSymbol) Kind() Kind { return KindSignal }

// VFunctionSymbol is a virtual method attached to a class.
type VFunctionSymbol struct {
	BaseSymbol
	Parameters  []*ParameterSymbol
	ReturnValue []*ReturnItemSymbol
	Flags       []Flag
}

func (s *VFunctionSymbol) Kind() Kind { return KindVFunction }

// ConstantSymbol is an object-like macro or other exported constant.
type ConstantSymbol struct {
	BaseSymbol
	OriginalText string
}

func (s *ConstantSymbol) Kind() Kind { return KindConstant }

// ExportedVariableSymbol is an extern variable declared in a header.
type ExportedVariableSymbol struct {
	BaseSymbol
	OriginalText string
	TypeQS       QualifiedSymbol
}

func (s *ExportedVariableSymbol) Kind() Kind { return KindExportedVariable }
