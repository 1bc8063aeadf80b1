package loader

import (
	"testing"

	"github.com/dekarrin/ictiobus/internal/ictiobus/grammar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// anbnClassify recognizes "a" and "b" as terminals (token ids 1 and 2) and
// everything else as a nonterminal.
func anbnClassify(name string) (int, bool, bool) {
	switch name {
	case "a":
		return 1, true, true
	case "b":
		return 2, true, true
	default:
		return 0, false, true
	}
}

func Test_ParseGrammar_AnBn(t *testing.T) {
	src := `
		# a balanced a...b grammar
		S -> a S b
		   | ε
	`
	g := grammar.New()
	err := ParseGrammar(src, g, anbnClassify)
	require.NoError(t, err)

	assert.Equal(t, "S", g.StartSymbol())
	prods := g.Productions()
	require.Len(t, prods, 2)
	assert.False(t, prods[0].IsEpsilon())
	require.Len(t, prods[0].Right, 3)
	assert.True(t, prods[1].IsEpsilon())
}

func Test_ParseGrammar_LineComments(t *testing.T) {
	src := `
		S -> a // inline comment
	`
	g := grammar.New()
	err := ParseGrammar(src, g, anbnClassify)
	require.NoError(t, err)
	require.Len(t, g.Productions(), 1)
	assert.Len(t, g.Productions()[0].Right, 1)
}

func Test_ParseGrammar_MultipleAlternativesOnOneLine(t *testing.T) {
	src := `S -> a | b`
	g := grammar.New()
	err := ParseGrammar(src, g, anbnClassify)
	require.NoError(t, err)
	require.Len(t, g.Productions(), 2)
}

func Test_ParseGrammar_UnrecognizedSymbolErrors(t *testing.T) {
	src := `S -> q`
	g := grammar.New()
	err := ParseGrammar(src, g, func(name string) (int, bool, bool) {
		return 0, false, false
	})
	assert.Error(t, err)
}

func Test_ParseGrammar_MissingArrowErrors(t *testing.T) {
	src := `S a b`
	g := grammar.New()
	err := ParseGrammar(src, g, anbnClassify)
	assert.Error(t, err)
}

func Test_ParseGrammar_NoRulesErrors(t *testing.T) {
	src := "# just a comment\n\n"
	g := grammar.New()
	err := ParseGrammar(src, g, anbnClassify)
	assert.Error(t, err)
}

func Test_ParseGrammar_LeadingPipeContinuesPreviousLHS(t *testing.T) {
	src := `
		X -> a
		   | b
		   | ε
	`
	g := grammar.New()
	err := ParseGrammar(src, g, anbnClassify)
	require.NoError(t, err)
	require.Len(t, g.Productions(), 3)
	for _, p := range g.Productions() {
		assert.Equal(t, "X", p.Left)
	}
}
