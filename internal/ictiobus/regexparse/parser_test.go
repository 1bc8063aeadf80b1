package regexparse

import (
	"testing"

	"github.com/dekarrin/ictiobus/internal/ictiobus/regexast"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Parse_SingleChar(t *testing.T) {
	result, err := Parse("a", regexast.NewPositionCounter())
	require.NoError(t, err)
	require.Empty(t, result.Warnings)

	assert.Equal(t, regexast.Leaf, result.Root.Kind)
	assert.Equal(t, byte('a'), result.Root.Symbol)
}

func Test_Parse_Concat(t *testing.T) {
	result, err := Parse("ab", regexast.NewPositionCounter())
	require.NoError(t, err)

	root := result.Root
	assert.Equal(t, regexast.Concat, root.Kind)
	assert.Equal(t, byte('a'), root.Left.Symbol)
	assert.Equal(t, byte('b'), root.Right.Symbol)
}

func Test_Parse_Alternation(t *testing.T) {
	result, err := Parse("a|b", regexast.NewPositionCounter())
	require.NoError(t, err)

	root := result.Root
	assert.Equal(t, regexast.Or, root.Kind)
	assert.Equal(t, byte('a'), root.Left.Symbol)
	assert.Equal(t, byte('b'), root.Right.Symbol)
}

func Test_Parse_Postfixes(t *testing.T) {
	testCases := []struct {
		name string
		src  string
		kind regexast.Kind
	}{
		{name: "star", src: "a*", kind: regexast.Star},
		{name: "plus", src: "a+", kind: regexast.Plus},
		{name: "question", src: "a?", kind: regexast.Question},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result, err := Parse(tc.src, regexast.NewPositionCounter())
			require.NoError(t, err)
			assert.Equal(t, tc.kind, result.Root.Kind)
			assert.Equal(t, byte('a'), result.Root.Left.Symbol)
		})
	}
}

func Test_Parse_GroupingOverridesPrecedence(t *testing.T) {
	result, err := Parse("(a|b)*", regexast.NewPositionCounter())
	require.NoError(t, err)

	root := result.Root
	require.Equal(t, regexast.Star, root.Kind)
	require.Equal(t, regexast.Or, root.Left.Kind)
}

func Test_Parse_KleeneOverLiteral_ABCStarD(t *testing.T) {
	// This is the worked a(b|c)*d example: confirms the parser builds the
	// same shape the followpos computation in regexast expects.
	result, err := Parse("a(b|c)*d", regexast.NewPositionCounter())
	require.NoError(t, err)

	root := result.Root
	require.Equal(t, regexast.Concat, root.Kind) // (a (b|c)*) d
	require.Equal(t, regexast.Concat, root.Left.Kind)
	assert.Equal(t, byte('a'), root.Left.Left.Symbol)
	require.Equal(t, regexast.Star, root.Left.Right.Kind)
	require.Equal(t, regexast.Or, root.Left.Right.Left.Kind)
	assert.Equal(t, byte('d'), root.Right.Symbol)
}

func Test_Parse_Escape(t *testing.T) {
	result, err := Parse(`\*`, regexast.NewPositionCounter())
	require.NoError(t, err)
	assert.Equal(t, regexast.Leaf, result.Root.Kind)
	assert.Equal(t, byte('*'), result.Root.Symbol)
}

func Test_Parse_Dot(t *testing.T) {
	result, err := Parse(".", regexast.NewPositionCounter())
	require.NoError(t, err)
	// the '.' alternation is printable ASCII 32..126 inclusive: 95 bytes,
	// so 94 Or nodes chained together with 95 leaves total.
	regexast.ComputeFunctions(result.Root)
	assert.Equal(t, 95, len(result.Root.First.Elements()))
}

func Test_Parse_CharClass_Literal(t *testing.T) {
	result, err := Parse("[abc]", regexast.NewPositionCounter())
	require.NoError(t, err)
	regexast.ComputeFunctions(result.Root)
	elems := result.Root.First.Elements()
	assert.Len(t, elems, 3)
}

func Test_Parse_CharClass_Range(t *testing.T) {
	result, err := Parse("[a-c]", regexast.NewPositionCounter())
	require.NoError(t, err)

	leafA, ok := regexast.FindLeafByPosition(result.Root, 1)
	require.True(t, ok)
	assert.Equal(t, byte('a'), leafA.Symbol)

	leafB, ok := regexast.FindLeafByPosition(result.Root, 2)
	require.True(t, ok)
	assert.Equal(t, byte('b'), leafB.Symbol)

	leafC, ok := regexast.FindLeafByPosition(result.Root, 3)
	require.True(t, ok)
	assert.Equal(t, byte('c'), leafC.Symbol)
}

func Test_Parse_CharClass_TrailingDashIsLiteral(t *testing.T) {
	result, err := Parse("[a-]", regexast.NewPositionCounter())
	require.NoError(t, err)
	regexast.ComputeFunctions(result.Root)
	assert.Len(t, result.Root.First.Elements(), 2)
}

func Test_Parse_CharClass_NegationWarns(t *testing.T) {
	result, err := Parse("[^abc]", regexast.NewPositionCounter())
	require.NoError(t, err)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "not supported")
}

func Test_Parse_PositionsAreMonotonicAcrossCalls(t *testing.T) {
	counter := regexast.NewPositionCounter()

	first, err := Parse("ab", counter)
	require.NoError(t, err)
	second, err := Parse("cd", counter)
	require.NoError(t, err)

	assert.Equal(t, 1, first.Root.Left.Position)
	assert.Equal(t, 2, first.Root.Right.Position)
	assert.Equal(t, 3, second.Root.Left.Position)
	assert.Equal(t, 4, second.Root.Right.Position)
}

func Test_Parse_Errors(t *testing.T) {
	testCases := []struct {
		name string
		src  string
	}{
		{name: "unclosed group", src: "(a"},
		{name: "unclosed class", src: "[a"},
		{name: "unmatched close paren", src: "a)"},
		{name: "empty alternative", src: "a|"},
		{name: "dangling escape", src: `a\`},
		{name: "leading postfix", src: "*a"},
		{name: "empty class", src: "[]"},
		{name: "inverted range", src: "[z-a]"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse(tc.src, regexast.NewPositionCounter())
			assert.Error(t, err)
		})
	}
}
