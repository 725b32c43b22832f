package extractor

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"girdoc/internal/comments"
	"girdoc/internal/index"
	"girdoc/internal/symbols"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const utilsHeader = `#ifndef TEST_UTILS_H
#define TEST_UTILS_H

#define TEST_VERSION "1.0"

#define TEST_MAX(a, b) ((a) > (b) ? (a) : (b))

typedef struct _TestPoint TestPoint;

typedef struct {
  int x;
  int y;
} TestRect;

struct _TestPoint {
  /*<private>*/
  int refcount;
  /*<public>*/
  double x;
  double y;
};

typedef enum {
  TEST_OK = 0,
  TEST_FAILED
} TestStatus;

typedef int (*TestCompareFunc) (const void *a, const void *b);

extern int test_debug_level;

int test_point_distance (const TestPoint *a, const TestPoint *b);

void test_log (const char *fmt, ...);

#endif
`

func scanHeader(t *testing.T, store *comments.MemoryStore, content string) (*index.ProjectIndex, *symbols.Sink) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test-utils.h")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	ix := index.New(nil, nil, nil)
	sink := symbols.NewSink()
	if store == nil {
		store = comments.NewMemoryStore()
	}
	e, err := NewCExtractor(ix, store, sink, nil)
	require.NoError(t, err)
	require.NoError(t, e.Scan(context.Background(), []string{path}))
	return ix, sink
}

func TestCExtractor_FunctionDeclaration(t *testing.T) {
	_, sink := scanHeader(t, nil, utilsHeader)

	fn, ok := sink.Get("test_point_distance").(*symbols.FunctionSymbol)
	require.True(t, ok)
	assert.Equal(t, symbols.KindFunction, fn.Kind())
	assert.Equal(t, "test-utils.h", fn.Filename)

	require.Len(t, fn.Parameters, 2)
	assert.Equal(t, "a", fn.Parameters[0].ArgName)
	assert.Equal(t, "b", fn.Parameters[1].ArgName)
	assert.Equal(t, "const TestPoint*", symbols.TokensText(fn.Parameters[0].TypeTokens))

	require.Len(t, fn.ReturnValue, 1)
	require.NotNil(t, fn.ReturnValue[0])
	assert.Equal(t, "int", symbols.TokensText(fn.ReturnValue[0].TypeTokens))
}

func TestCExtractor_VariadicFunction(t *testing.T) {
	_, sink := scanHeader(t, nil, utilsHeader)

	fn, ok := sink.Get("test_log").(*symbols.FunctionSymbol)
	require.True(t, ok)

	// void return becomes the nil slot.
	require.Len(t, fn.ReturnValue, 1)
	assert.Nil(t, fn.ReturnValue[0])

	require.Len(t, fn.Parameters, 2)
	assert.Equal(t, "fmt", fn.Parameters[0].ArgName)
	assert.Equal(t, "...", fn.Parameters[1].ArgName)
}

func TestCExtractor_Macros(t *testing.T) {
	_, sink := scanHeader(t, nil, utilsHeader)

	constant, ok := sink.Get("TEST_VERSION").(*symbols.ConstantSymbol)
	require.True(t, ok)
	assert.Contains(t, constant.OriginalText, `#define TEST_VERSION "1.0"`)

	macro, ok := sink.Get("TEST_MAX").(*symbols.FunctionSymbol)
	require.True(t, ok)
	assert.Equal(t, symbols.KindFunctionMacro, macro.Kind())
	require.Len(t, macro.Parameters, 2)
	assert.Equal(t, "a", macro.Parameters[0].ArgName)
	assert.Equal(t, "b", macro.Parameters[1].ArgName)
	assert.NotZero(t, macro.ExtentStart)
}

func TestCExtractor_FunctionMacroParamsFromComment(t *testing.T) {
	store := comments.NewMemoryStore()
	store.Add(&comments.Comment{
		Name:       "TEST_MAX",
		Params:     map[string]string{"first": "", "second": ""},
		ParamOrder: []string{"first", "second"},
	})
	_, sink := scanHeader(t, store, utilsHeader)

	macro, ok := sink.Get("TEST_MAX").(*symbols.FunctionSymbol)
	require.True(t, ok)
	require.Len(t, macro.Parameters, 2)
	assert.Equal(t, "first", macro.Parameters[0].ArgName)
	assert.Equal(t, "second", macro.Parameters[1].ArgName)
}

func TestCExtractor_StructVisibility(t *testing.T) {
	_, sink := scanHeader(t, nil, utilsHeader)

	st, ok := sink.Get("_TestPoint").(*symbols.StructSymbol)
	require.True(t, ok)
	assert.False(t, st.Anonymous)
	assert.Contains(t, st.RawText, "double x;")

	names := make([]string, 0, len(st.Members))
	for _, m := range st.Members {
		names = append(names, m.MemberName)
	}
	assert.Equal(t, []string{"x", "y"}, names)

	assert.Nil(t, sink.Get("_TestPoint.refcount"))
	field, ok := sink.Get("_TestPoint.x").(*symbols.FieldSymbol)
	require.True(t, ok)
	assert.Equal(t, "_TestPoint", field.ParentName)
}

func TestCExtractor_TypedefDisambiguation(t *testing.T) {
	_, sink := scanHeader(t, nil, utilsHeader)

	// Forward typedef of a named struct stays an alias.
	alias, ok := sink.Get("TestPoint").(*symbols.AliasSymbol)
	require.True(t, ok)
	assert.NotEmpty(t, alias.Aliased.TypeTokens)

	// typedef of an anonymous struct takes the typedef spelling.
	rect, ok := sink.Get("TestRect").(*symbols.StructSymbol)
	require.True(t, ok)
	assert.True(t, rect.Anonymous)
	require.Len(t, rect.Members, 2)

	status, ok := sink.Get("TestStatus").(*symbols.EnumSymbol)
	require.True(t, ok)
	assert.True(t, status.Anonymous)
	require.Len(t, status.Members, 2)
	assert.Equal(t, "TEST_OK", status.Members[0].UniqueName)
	assert.Equal(t, "0", status.Members[0].Value)
	assert.Equal(t, "TEST_FAILED", status.Members[1].UniqueName)

	// Function pointer typedefs become callbacks.
	cb, ok := sink.Get("TestCompareFunc").(*symbols.FunctionSymbol)
	require.True(t, ok)
	assert.Equal(t, symbols.KindCallback, cb.Kind())
	require.Len(t, cb.Parameters, 2)
	assert.Equal(t, "const void*", symbols.TokensText(cb.Parameters[0].TypeTokens))
}

func TestCExtractor_ExternVariable(t *testing.T) {
	_, sink := scanHeader(t, nil, utilsHeader)

	v, ok := sink.Get("test_debug_level").(*symbols.ExportedVariableSymbol)
	require.True(t, ok)
	assert.Contains(t, v.OriginalText, "extern int test_debug_level")
	assert.Equal(t, "int", symbols.TokensText(v.TypeQS.TypeTokens))
}

func TestCExtractor_DedupAcrossHeaders(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "first.h")
	second := filepath.Join(dir, "second.h")
	decl := "int shared_func (int a);\n"
	require.NoError(t, os.WriteFile(first, []byte(decl), 0o644))
	require.NoError(t, os.WriteFile(second, []byte(decl), 0o644))

	sink := symbols.NewSink()
	e, err := NewCExtractor(index.New(nil, nil, nil), comments.NewMemoryStore(), sink, nil)
	require.NoError(t, err)
	require.NoError(t, e.Scan(context.Background(), []string{first, second}))

	fn, ok := sink.Get("shared_func").(*symbols.FunctionSymbol)
	require.True(t, ok)
	assert.Equal(t, "first.h", fn.Filename)
}

func TestCExtractor_SmartFilteredMacros(t *testing.T) {
	girPath := filepath.Join("testdata", "Test-1.0.gir")
	ix := index.New([]string{girPath}, nil, nil)
	sink := symbols.NewSink()
	store := comments.NewMemoryStore()
	require.NoError(t, NewGirExtractor(ix, store, sink, nil).Scan([]string{girPath}))

	header := "#define TEST_TYPE_GREETER (test_greeter_get_type())\n" +
		"#define TEST_GREETER_MAJOR 1\n"
	path := filepath.Join(t.TempDir(), "greeter.h")
	require.NoError(t, os.WriteFile(path, []byte(header), 0o644))

	e, err := NewCExtractor(ix, store, sink, nil)
	require.NoError(t, err)
	require.NoError(t, e.Scan(context.Background(), []string{path}))

	assert.Nil(t, sink.Get("TEST_TYPE_GREETER"), "boilerplate macros stay out")
	assert.NotNil(t, sink.Get("TEST_GREETER_MAJOR"))
}
