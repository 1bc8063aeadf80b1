package loader

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_ParseTokenList_PriorityIsLineOrder(t *testing.T) {
	src := `
		kw_if = if
		id = [a-z]+
		ws = "[ \t]+"
	`
	defs, err := ParseTokenList(src)
	require.NoError(t, err)
	require.Len(t, defs, 3)

	assert.Equal(t, "kw_if", defs[0].Name)
	assert.Equal(t, 1, defs[0].ID)
	assert.Equal(t, "id", defs[1].Name)
	assert.Equal(t, 2, defs[1].ID)
	assert.Equal(t, "ws", defs[2].Name)
	assert.Equal(t, `[ \t]+`, defs[2].Pattern)
}

func Test_ParseTokenList_CommentsAndBlankLines(t *testing.T) {
	src := "# leading comment\n\nkw_if = if // trailing\n"
	defs, err := ParseTokenList(src)
	require.NoError(t, err)
	require.Len(t, defs, 1)
	assert.Equal(t, "if", defs[0].Pattern)
}

func Test_ParseTokenList_MissingEqualsErrors(t *testing.T) {
	_, err := ParseTokenList("kw_if if")
	assert.Error(t, err)
}

func Test_ParseTokenList_EmptyErrors(t *testing.T) {
	_, err := ParseTokenList("# nothing here\n")
	assert.Error(t, err)
}
