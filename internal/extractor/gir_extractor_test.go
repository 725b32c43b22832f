package extractor

import (
	"path/filepath"
	"testing"

	"girdoc/internal/comments"
	"girdoc/internal/index"
	"girdoc/internal/symbols"
	"girdoc/internal/translate"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scanFixtureGir(t *testing.T) (*index.ProjectIndex, *symbols.Sink, *comments.MemoryStore) {
	t.Helper()

	girPath := filepath.Join("testdata", "Test-1.0.gir")
	ix := index.New([]string{girPath}, nil, nil)
	sink := symbols.NewSink()
	store := comments.NewMemoryStore()

	e := NewGirExtractor(ix, store, sink, nil)
	require.NoError(t, e.Scan([]string{girPath}))
	return ix, sink, store
}

func TestGirExtractor_Class(t *testing.T) {
	_, sink, _ := scanFixtureGir(t)

	sym := sink.Get("TestGreeter::TestGreeter")
	require.NotNil(t, sym)
	class, ok := sym.(*symbols.ClassSymbol)
	require.True(t, ok)

	assert.Equal(t, "TestGreeter", class.DisplayName)
	assert.Equal(t, "TestGreeter", class.ParentName)
	require.Len(t, class.Hierarchy, 1)
	assert.Empty(t, class.Children)

	require.NotNil(t, class.ClassStruct)
	assert.Equal(t, "TestGreeterClass", class.ClassStruct.UniqueName)
}

func TestGirExtractor_Constructor(t *testing.T) {
	_, sink, _ := scanFixtureGir(t)

	fn, ok := sink.Get("test_greeter_new").(*symbols.FunctionSymbol)
	require.True(t, ok)
	assert.Equal(t, symbols.KindConstructor, fn.Kind())
	assert.Equal(t, "TestGreeter", fn.ParentName)
	assert.False(t, fn.IsMethod)
}

func TestGirExtractor_MethodOutParamPromotion(t *testing.T) {
	_, sink, _ := scanFixtureGir(t)

	fn, ok := sink.Get("test_greeter_greet").(*symbols.FunctionSymbol)
	require.True(t, ok)
	assert.True(t, fn.IsMethod)
	assert.Equal(t, symbols.KindMethod, fn.Kind())

	// Raw parameter list keeps the instance parameter and the
	// out-parameter in declaration order.
	require.Len(t, fn.Parameters, 3)
	assert.Equal(t, "self", fn.Parameters[0].ArgName)
	assert.Equal(t, "name", fn.Parameters[1].ArgName)
	assert.Equal(t, "count", fn.Parameters[2].ArgName)
	assert.Equal(t, symbols.Out, fn.Parameters[2].Direction)

	// The void return stays as a nil slot, the out-parameter is
	// promoted behind it.
	require.Len(t, fn.ReturnValue, 2)
	assert.Nil(t, fn.ReturnValue[0])
	require.NotNil(t, fn.ReturnValue[1])
	assert.Equal(t, "count", fn.ReturnValue[1].Name)

	in := fn.InParameters()
	require.Len(t, in, 1)
	assert.Equal(t, "name", in[0].ArgName)
}

func TestGirExtractor_VirtualMethod(t *testing.T) {
	_, sink, _ := scanFixtureGir(t)

	vf, ok := sink.Get("TestGreeterClass::do_greet").(*symbols.VFunctionSymbol)
	require.True(t, ok)
	assert.Equal(t, "do_greet", vf.DisplayName)
	assert.Equal(t, "TestGreeter", vf.ParentName)
	require.Len(t, vf.ReturnValue, 1)
	assert.Nil(t, vf.ReturnValue[0])
}

func TestGirExtractor_PropertyAndSignal(t *testing.T) {
	_, sink, _ := scanFixtureGir(t)

	prop, ok := sink.Get("TestGreeter:greet-count").(*symbols.PropertySymbol)
	require.True(t, ok)
	assert.Equal(t, "TestGreeter", prop.ParentName)
	assert.Equal(t, []symbols.Flag{symbols.ReadableFlag, symbols.WritableFlag}, prop.Flags)

	sig, ok := sink.Get("TestGreeter::greeted").(*symbols.SignalSymbol)
	require.True(t, ok)
	assert.Equal(t, "TestGreeter", sig.ParentName)
	assert.Equal(t, []symbols.Flag{symbols.RunLastFlag}, sig.Flags)
}

func TestGirExtractor_ClassStructFields(t *testing.T) {
	_, sink, _ := scanFixtureGir(t)

	st, ok := sink.Get("TestGreeterClass").(*symbols.StructSymbol)
	require.True(t, ok)
	// The class struct and its fields document the class.
	assert.Equal(t, "TestGreeter", st.ParentName)
	require.Len(t, st.Members, 2)

	parent, ok := sink.Get("TestGreeterClass.parent_class").(*symbols.FieldSymbol)
	require.True(t, ok)
	assert.Equal(t, "TestGreeter", parent.ParentName)
	assert.False(t, parent.IsFunctionPointer)

	doGreet, ok := sink.Get("TestGreeterClass.do_greet").(*symbols.FieldSymbol)
	require.True(t, ok)
	assert.True(t, doGreet.IsFunctionPointer)
}

func TestGirExtractor_NestedFieldPaths(t *testing.T) {
	ix, sink, _ := scanFixtureGir(t)

	plain, ok := sink.Get("TestSubStruct.plain").(*symbols.FieldSymbol)
	require.True(t, ok)
	assert.False(t, plain.InUnion)

	// Fields inside the anonymous union keep a flat path; the named
	// nested record contributes one path component.
	a, ok := sink.Get("TestSubStruct.a").(*symbols.FieldSymbol)
	require.True(t, ok)
	assert.True(t, a.InUnion)

	b, ok := sink.Get("TestSubStruct.nested.b").(*symbols.FieldSymbol)
	require.True(t, ok)
	assert.Equal(t, "TestSubStruct", b.ParentName)
	assert.Equal(t, "b", b.DisplayName)

	assert.Equal(t, "SubStruct.nested.b",
		ix.Translations.TranslatedName("TestSubStruct.nested.b", translate.Python))
}

func TestGirExtractor_EnumMembers(t *testing.T) {
	_, sink, _ := scanFixtureGir(t)

	enum, ok := sink.Get("TestGreetingKind").(*symbols.EnumSymbol)
	require.True(t, ok)
	require.Len(t, enum.Members, 2)
	assert.Equal(t, "TEST_GREETING_KIND_HELLO", enum.Members[0].UniqueName)
	assert.Equal(t, "hello", enum.Members[0].DisplayName)
	assert.Equal(t, "0", enum.Members[0].Value)
	assert.Equal(t, "TestGreetingKind", enum.Members[0].ParentName)
}

func TestGirExtractor_AliasRedirect(t *testing.T) {
	ix, sink, _ := scanFixtureGir(t)

	_, ok := sink.Get("TestGreeterHandle").(*symbols.AliasSymbol)
	require.True(t, ok)

	// Non-C lookups follow the redirect to the aliased class.
	assert.Equal(t, "Test.Greeter",
		ix.Translations.TranslatedName("TestGreeterHandle", translate.Python))
	assert.Equal(t, "TestGreeterHandle",
		ix.Translations.TranslatedName("TestGreeterHandle", translate.C))
}

func TestGirExtractor_FilteredSymbols(t *testing.T) {
	ix, sink, _ := scanFixtureGir(t)

	assert.Nil(t, sink.Get("test_greeter_get_type"), "get-type functions are boilerplate")
	assert.Nil(t, sink.Get("TestGreeterPrivate"), "private records are hidden")
	assert.Nil(t, sink.Get("test_old_shout"), "relocated API is skipped")

	assert.True(t, ix.IsSmartFiltered("TEST_IS_GREETER"))
	assert.True(t, ix.IsSmartFiltered("TEST_TYPE_GREETER"))
	assert.False(t, ix.IsSmartFiltered("test_greeter_greet"))
}

func TestGirExtractor_Introspectability(t *testing.T) {
	ix, _, _ := scanFixtureGir(t)

	table := ix.Translations
	assert.True(t, table.IsIntrospectable("test_greeter_greet", translate.Python))
	assert.False(t, table.IsIntrospectable("test_greeter_get_type", translate.Python),
		"explicitly flagged introspectable=0")
	assert.False(t, table.IsIntrospectable("never_recorded", translate.Python))
	assert.True(t, table.IsIntrospectable("gint", translate.Python),
		"fundamentals are always visible")

	assert.Equal(t, "Test.Greeter.greet",
		table.TranslatedName("test_greeter_greet", translate.Python))
	assert.Equal(t, "Test.Greeter.prototype.greet",
		table.TranslatedName("test_greeter_greet", translate.JavaScript))
}

func TestGirExtractor_VFuncDocInheritance(t *testing.T) {
	girPath := filepath.Join("testdata", "Test-1.0.gir")
	ix := index.New([]string{girPath}, nil, nil)
	sink := symbols.NewSink()
	store := comments.NewMemoryStore()
	store.Add(&comments.Comment{
		Name:     "TestGreeterClass",
		Filename: "greeter.h",
		Params:   map[string]string{"do_greet": "Emits the greeting."},
	})

	e := NewGirExtractor(ix, store, sink, nil)
	require.NoError(t, e.Scan([]string{girPath}))

	inherited := store.Get("TestGreeterClass::do_greet")
	require.NotNil(t, inherited)
	assert.Equal(t, "Emits the greeting.", inherited.Description)
	assert.Equal(t, "greeter.h", inherited.Filename)
}
