package hierarchy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGraph_Ancestors(t *testing.T) {
	g := NewGraph()
	g.AddType("GObject.Object", "GObject")
	g.AddType("Test.Widget", "TestWidget")
	g.AddType("Test.Button", "TestButton")
	g.AddEdge("GObject.Object", "Test.Widget")
	g.AddEdge("Test.Widget", "Test.Button")

	chain := g.Ancestors("Test.Button")
	require.Len(t, chain, 2)

	// Root ancestor first.
	assert.Equal(t, "GObject", chain[0].TypeTokens[0].Link.Title)
	assert.Equal(t, "TestWidget", chain[1].TypeTokens[0].Link.Title)

	assert.Empty(t, g.Ancestors("GObject.Object"))
}

func TestGraph_AncestorsUnknownParentKeepsGIName(t *testing.T) {
	g := NewGraph()
	g.AddType("Test.Widget", "TestWidget")
	g.AddEdge("External.Thing", "Test.Widget")

	chain := g.Ancestors("Test.Widget")
	require.Len(t, chain, 1)
	assert.Equal(t, "External.Thing", chain[0].TypeTokens[0].Link.Title)
}

func TestGraph_Children(t *testing.T) {
	g := NewGraph()
	g.AddType("Test.Widget", "TestWidget")
	g.AddType("Test.Button", "TestButton")
	g.AddType("Test.Label", "TestLabel")
	g.AddEdge("Test.Widget", "Test.Button")
	g.AddEdge("Test.Widget", "Test.Label")

	children := g.Children("Test.Widget")
	require.Len(t, children, 2)
	assert.Contains(t, children, "TestButton")
	assert.Contains(t, children, "TestLabel")
	assert.Empty(t, g.Children("Test.Button"))
}

func TestGraph_CycleTerminates(t *testing.T) {
	g := NewGraph()
	g.AddEdge("Test.A", "Test.B")
	g.AddEdge("Test.B", "Test.A")

	chain := g.Ancestors("Test.A")
	assert.Len(t, chain, 1)
}

func TestGraph_TypeNamesSorted(t *testing.T) {
	g := NewGraph()
	g.AddType("Test.B", "TestB")
	g.AddType("Test.A", "TestA")

	assert.Equal(t, []string{"Test.A", "Test.B"}, g.TypeNames())
	assert.True(t, g.HasType("Test.A"))
	assert.False(t, g.HasType("Test.C"))
	assert.Equal(t, "TestA", g.CType("Test.A"))
}
