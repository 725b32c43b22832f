package gir

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const parseSnippet = `<?xml version="1.0"?>
<repository version="1.2"
    xmlns="http://www.gtk.org/introspection/core/1.0"
    xmlns:c="http://www.gtk.org/introspection/c/1.0"
    xmlns:glib="http://www.gtk.org/introspection/glib/1.0">
  <namespace name="Test" version="1.0">
    <class name="Greeter" c:type="TestGreeter" glib:type-name="TestGreeter">
      <method name="greet" c:identifier="test_greeter_greet"/>
      <glib:signal name="greeted"/>
    </class>
    <record name="GreeterClass" c:type="TestGreeterClass" glib:is-gtype-struct-for="Greeter"/>
  </namespace>
</repository>
`

func TestParse_TreeShape(t *testing.T) {
	root, err := Parse(strings.NewReader(parseSnippet))
	require.NoError(t, err)

	assert.Equal(t, KindRepository, root.Kind())
	assert.Equal(t, "1.2", root.Attr("version"))

	ns := root.FindChild(KindNamespace)
	require.NotNil(t, ns)
	assert.Equal(t, "Test", ns.Attr("name"))

	class := ns.FindChild(KindClass)
	require.NotNil(t, class)
	assert.Equal(t, "TestGreeter", class.CAttr("type"))
	assert.Equal(t, "TestGreeter", class.TypeName())
	assert.Equal(t, "Test.Greeter", class.GIName())
	assert.Equal(t, "Test", class.Namespace())

	method := class.FindChild(KindMethod)
	require.NotNil(t, method)
	assert.Equal(t, "test_greeter_greet", method.CAttr("identifier"))
	assert.True(t, method.HasCAttr("identifier"))
	assert.False(t, method.HasCAttr("type"))
	assert.Equal(t, []string{"Test", "Greeter", "greet"}, method.NameComponents())

	// glib: elements resolve through their own namespace.
	signal := class.FindChild(KindSignal)
	require.NotNil(t, signal)
	assert.Equal(t, "greeted", signal.Attr("name"))
}

func TestParse_LinesAndSiblings(t *testing.T) {
	root, err := Parse(strings.NewReader(parseSnippet))
	require.NoError(t, err)

	ns := root.FindChild(KindNamespace)
	class := ns.FindChild(KindClass)
	record := ns.FindChild(KindRecord)
	require.NotNil(t, record)

	assert.Equal(t, record, class.NextSibling())
	assert.Nil(t, record.NextSibling())
	assert.Equal(t, "Greeter", record.GlibAttr("is-gtype-struct-for"))

	assert.Greater(t, class.Line, ns.Line)
	assert.Greater(t, record.Line, class.Line)
}

func TestParse_Errors(t *testing.T) {
	_, err := Parse(strings.NewReader(""))
	assert.Error(t, err)

	_, err = Parse(strings.NewReader("<repository><unclosed></repository>"))
	assert.Error(t, err)
}

func TestParseFile_Missing(t *testing.T) {
	_, err := ParseFile(filepath.Join(t.TempDir(), "nope.gir"))
	assert.Error(t, err)
}

func TestFindGirFile(t *testing.T) {
	dir := t.TempDir()
	girDir := filepath.Join(dir, "gir-1.0")
	require.NoError(t, os.MkdirAll(girDir, 0o755))
	dep := filepath.Join(girDir, "GLib-2.0.gir")
	require.NoError(t, os.WriteFile(dep, []byte("<repository/>"), 0o644))

	// Sources win over search directories.
	src := filepath.Join(dir, "GLib-2.0.gir")
	require.NoError(t, os.WriteFile(src, []byte("<repository/>"), 0o644))
	assert.Equal(t, src, FindGirFile("GLib-2.0.gir", []string{src}, []string{dir}))

	assert.Equal(t, dep, FindGirFile("GLib-2.0.gir", nil, []string{dir}))
	assert.Empty(t, FindGirFile("Gtk-4.0.gir", nil, []string{dir}))
}
