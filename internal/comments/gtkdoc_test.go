package comments

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const greeterHeader = `#ifndef GREETER_H
#define GREETER_H

/**
 * SECTION:greeter
 * @title: The Greeter
 *
 * Helpers for greeting people politely.
 */

/**
 * test_greeter_greet:
 * @self: the greeter
 * @name: who to greet, must not
 *   be empty
 *
 * Greets @name on stdout.
 *
 * Returns: the number of greetings so far
 * Since: 1.2
 */
void test_greeter_greet (TestGreeter *self, const gchar *name);

/* not a doc block */
int test_internal (void);

/**
 * TestGreeter:greet-count:
 *
 * How many greetings were emitted.
 */
#endif
`

func TestExtractBlocks(t *testing.T) {
	blocks := ExtractBlocks([]byte(greeterHeader), "greeter.h")
	require.Len(t, blocks, 3)

	section := blocks[0]
	assert.Equal(t, "greeter", section.Name)
	assert.Equal(t, "The Greeter", section.Title)
	assert.Equal(t, "Helpers for greeting people politely.", section.Description)

	fn := blocks[1]
	assert.Equal(t, "test_greeter_greet", fn.Name)
	assert.Equal(t, "greeter.h", fn.Filename)
	assert.Equal(t, "Greets @name on stdout.", fn.Description)

	require.Len(t, fn.ParamOrder, 2)
	assert.Equal(t, []string{"self", "name"}, fn.ParamOrder)
	assert.Equal(t, "the greeter", fn.Params["self"])
	assert.Equal(t, "who to greet, must not be empty", fn.Params["name"],
		"continuation lines fold into the parameter")

	assert.Equal(t, "the number of greetings so far", fn.Tags["returns"])
	assert.Equal(t, "1.2", fn.Tags["since"])

	prop := blocks[2]
	assert.Equal(t, "TestGreeter:greet-count", prop.Name)
	assert.Equal(t, "How many greetings were emitted.", prop.Description)
}

func TestExtractBlocks_IgnoresPlainComments(t *testing.T) {
	source := "/* just a note */\nint x;\n/**\n */\n"
	assert.Empty(t, ExtractBlocks([]byte(source), "x.h"))
}
