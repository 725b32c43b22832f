package planner

import (
	"testing"

	"girdoc/internal/comments"
	"girdoc/internal/index"
	"girdoc/internal/symbols"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPlanner(sink *symbols.Sink, store *comments.MemoryStore) *Planner {
	if store == nil {
		store = comments.NewMemoryStore()
	}
	return New(index.New(nil, nil, nil), store, sink, nil)
}

func TestPlanner_CommentFilenameWins(t *testing.T) {
	sink := symbols.NewSink()
	sink.GetOrCreate(&symbols.FunctionSymbol{
		BaseSymbol: symbols.BaseSymbol{
			UniqueName: "test_greeter_greet",
			// A stored filename would place it elsewhere; the comment
			// has the final say.
			Filename: "other.h",
		},
	})
	store := comments.NewMemoryStore()
	store.Add(&comments.Comment{
		Name:     "test_greeter_greet",
		Filename: "src/greeter.c",
	})

	plan := newPlanner(sink, store).Assign()
	assert.Equal(t, "greeter.h", plan.ByName["test_greeter_greet"])
}

func TestPlanner_SymbolFilename(t *testing.T) {
	sink := symbols.NewSink()
	sink.GetOrCreate(&symbols.ConstantSymbol{
		BaseSymbol: symbols.BaseSymbol{
			UniqueName: "TEST_VERSION",
			Filename:   "version.h",
		},
	})

	plan := newPlanner(sink, nil).Assign()
	assert.Equal(t, "version.h", plan.ByName["TEST_VERSION"])
}

func TestPlanner_MemberInheritsOwnerPage(t *testing.T) {
	sink := symbols.NewSink()
	sink.GetOrCreate(&symbols.ClassSymbol{
		BaseSymbol: symbols.BaseSymbol{
			UniqueName:  "TestGreeter::TestGreeter",
			DisplayName: "TestGreeter",
			ParentName:  "TestGreeter",
			Filename:    "greeter.h",
		},
	})
	sink.GetOrCreate(&symbols.PropertySymbol{
		BaseSymbol: symbols.BaseSymbol{
			UniqueName:  "TestGreeter:greet-count",
			DisplayName: "greet-count",
			ParentName:  "TestGreeter",
		},
	})

	plan := newPlanner(sink, nil).Assign()
	assert.Equal(t, "greeter.h", plan.ByName["TestGreeter:greet-count"])
}

func TestPlanner_ClassPageFromConstructor(t *testing.T) {
	sink := symbols.NewSink()
	sink.GetOrCreate(&symbols.ClassSymbol{
		BaseSymbol: symbols.BaseSymbol{
			UniqueName:  "TestGreeter::TestGreeter",
			DisplayName: "TestGreeter",
			ParentName:  "TestGreeter",
		},
	})
	sink.GetOrCreate(&symbols.FunctionSymbol{
		BaseSymbol: symbols.BaseSymbol{
			UniqueName:  "test_greeter_shout",
			DisplayName: "test_greeter_shout",
			ParentName:  "TestGreeter",
			Filename:    "shout.h",
		},
		Role: symbols.KindMethod,
	})
	sink.GetOrCreate(&symbols.FunctionSymbol{
		BaseSymbol: symbols.BaseSymbol{
			UniqueName:  "test_greeter_new",
			DisplayName: "test_greeter_new",
			ParentName:  "TestGreeter",
			Filename:    "greeter.h",
		},
		Role: symbols.KindConstructor,
	})

	plan := newPlanner(sink, nil).Assign()

	// The constructor's page wins even though the method was added
	// first.
	assert.Equal(t, "greeter.h", plan.ByName["TestGreeter::TestGreeter"])
}

func TestPlanner_DefaultPageFallback(t *testing.T) {
	sink := symbols.NewSink()
	sink.GetOrCreate(&symbols.ConstantSymbol{
		BaseSymbol: symbols.BaseSymbol{UniqueName: "ORPHAN"},
	})

	plan := newPlanner(sink, nil).Assign()
	assert.Equal(t, DefaultPage, plan.ByName["ORPHAN"])
}

func TestPlanner_PlanShape(t *testing.T) {
	sink := symbols.NewSink()
	sink.GetOrCreate(&symbols.ConstantSymbol{
		BaseSymbol: symbols.BaseSymbol{UniqueName: "B", Filename: "b.h"},
	})
	sink.GetOrCreate(&symbols.ConstantSymbol{
		BaseSymbol: symbols.BaseSymbol{UniqueName: "A2", Filename: "a.h"},
	})
	sink.GetOrCreate(&symbols.ConstantSymbol{
		BaseSymbol: symbols.BaseSymbol{UniqueName: "A1", Filename: "a.h"},
	})

	plan := newPlanner(sink, nil).Assign()

	assert.Equal(t, []string{"a.h", "b.h"}, plan.PageNames())
	require.Contains(t, plan.Pages, "a.h")
	assert.Equal(t, []string{"A1", "A2"}, plan.Pages["a.h"],
		"page entries are sorted for deterministic output")
}
