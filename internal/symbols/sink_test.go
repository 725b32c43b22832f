package symbols

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSink_GetOrCreateIsIdempotent(t *testing.T) {
	sink := NewSink()

	first := sink.GetOrCreate(&FunctionSymbol{
		BaseSymbol: BaseSymbol{UniqueName: "test_greeter_greet"},
	})
	second := sink.GetOrCreate(&FunctionSymbol{
		BaseSymbol: BaseSymbol{UniqueName: "test_greeter_greet"},
	})

	assert.Same(t, first, second)
	assert.Equal(t, 1, sink.Len())
}

func TestSink_MergeFillsMissingFields(t *testing.T) {
	sink := NewSink()

	sink.GetOrCreate(&FunctionSymbol{
		BaseSymbol: BaseSymbol{UniqueName: "test_greeter_greet"},
	})
	merged := sink.GetOrCreate(&FunctionSymbol{
		BaseSymbol: BaseSymbol{
			UniqueName:  "test_greeter_greet",
			DisplayName: "test_greeter_greet",
			Filename:    "greeter.h",
			Lineno:      12,
			ParentName:  "TestGreeter",
		},
		IsMethod:   true,
		Parameters: []*ParameterSymbol{{ArgName: "self"}},
	})

	fn, ok := merged.(*FunctionSymbol)
	require.True(t, ok)
	assert.Equal(t, "greeter.h", fn.Filename)
	assert.Equal(t, 12, fn.Lineno)
	assert.Equal(t, "TestGreeter", fn.ParentName)
	assert.True(t, fn.IsMethod)
	require.Len(t, fn.Parameters, 1)
}

func TestSink_MergeKeepsFirstValues(t *testing.T) {
	sink := NewSink()

	sink.GetOrCreate(&FunctionSymbol{
		BaseSymbol: BaseSymbol{UniqueName: "f", Filename: "a.h", Lineno: 1},
		Parameters: []*ParameterSymbol{{ArgName: "x"}},
	})
	out := sink.GetOrCreate(&FunctionSymbol{
		BaseSymbol: BaseSymbol{UniqueName: "f", Filename: "b.h", Lineno: 2},
		Parameters: []*ParameterSymbol{{ArgName: "y"}, {ArgName: "z"}},
	})

	fn := out.(*FunctionSymbol)
	assert.Equal(t, "a.h", fn.Filename)
	assert.Equal(t, 1, fn.Lineno)
	require.Len(t, fn.Parameters, 1)
	assert.Equal(t, "x", fn.Parameters[0].ArgName)
}

func TestSink_InsertionOrderPreserved(t *testing.T) {
	sink := NewSink()
	sink.GetOrCreate(&ConstantSymbol{BaseSymbol: BaseSymbol{UniqueName: "B"}})
	sink.GetOrCreate(&ConstantSymbol{BaseSymbol: BaseSymbol{UniqueName: "A"}})
	sink.GetOrCreate(&ConstantSymbol{BaseSymbol: BaseSymbol{UniqueName: "B"}})

	all := sink.All()
	require.Len(t, all, 2)
	assert.Equal(t, "B", all[0].Base().UniqueName)
	assert.Equal(t, "A", all[1].Base().UniqueName)
}

func TestSink_Remove(t *testing.T) {
	sink := NewSink()
	sink.GetOrCreate(&ConstantSymbol{BaseSymbol: BaseSymbol{UniqueName: "A"}})
	sink.GetOrCreate(&ConstantSymbol{BaseSymbol: BaseSymbol{UniqueName: "B"}})

	sink.Remove("A")
	sink.Remove("missing")

	assert.Nil(t, sink.Get("A"))
	require.Len(t, sink.All(), 1)
	assert.Equal(t, "B", sink.All()[0].Base().UniqueName)

	// A removed name can be registered again.
	sink.GetOrCreate(&ConstantSymbol{BaseSymbol: BaseSymbol{UniqueName: "A"}})
	assert.NotNil(t, sink.Get("A"))
}

func TestSink_DisplayNameFallback(t *testing.T) {
	sink := NewSink()
	sym := sink.GetOrCreate(&ConstantSymbol{BaseSymbol: BaseSymbol{DisplayName: "ONLY_DISPLAY"}})

	assert.Equal(t, "ONLY_DISPLAY", sym.Base().UniqueName)
	assert.NotNil(t, sink.Get("ONLY_DISPLAY"))
}
