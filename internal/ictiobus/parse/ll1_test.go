package parse

import (
	"testing"

	"github.com/dekarrin/ictiobus/internal/ictiobus/grammar"
	"github.com/dekarrin/ictiobus/internal/ictiobus/ll1"
	"github.com/dekarrin/ictiobus/internal/ictiobus/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	tokA = 1
	tokB = 2
)

// anbnGrammar builds S -> a S b | epsilon.
func anbnGrammar(t *testing.T) (*grammar.Grammar, *ll1.Table) {
	t.Helper()
	g := grammar.New()
	g.AddNonTerminal("S")
	g.AddTerminal("a", tokA)
	g.AddTerminal("b", tokB)
	g.AddProduction("S", []grammar.Symbol{grammar.Term("a"), grammar.NonTerm("S"), grammar.Term("b")})
	g.AddProduction("S", nil)

	table, conflicts, err := ll1.Build(g)
	require.NoError(t, err)
	require.Empty(t, conflicts)
	return g, table
}

// sliceStream is a TokenStream over a fixed, pre-built slice of tokens.
type sliceStream struct {
	toks []types.Token
	pos  int
}

func newSliceStream(toks ...types.Token) *sliceStream {
	return &sliceStream{toks: toks}
}

func (s *sliceStream) Peek() types.Token {
	if s.pos >= len(s.toks) {
		return types.Token{Type: types.EOF}
	}
	return s.toks[s.pos]
}

func (s *sliceStream) Next() types.Token {
	tok := s.Peek()
	if s.pos < len(s.toks) {
		s.pos++
	}
	return tok
}

func tok(tokType int, lexeme string) types.Token {
	return types.Token{Type: tokType, Lexeme: []byte(lexeme)}
}

func Test_Predictive_Parse_AnBn_Accepts(t *testing.T) {
	g, table := anbnGrammar(t)
	p := NewPredictive(g, table)

	stream := newSliceStream(tok(tokA, "a"), tok(tokA, "a"), tok(tokB, "b"), tok(tokB, "b"))
	tree, errs := p.Parse(stream)

	assert.Empty(t, errs)
	require.NotNil(t, tree)
	assert.Equal(t, "S", tree.Symbol)
	require.Len(t, tree.Children, 3)
}

func Test_Predictive_Parse_AnBn_MissingCloserReportsExpectedTerminal(t *testing.T) {
	g, table := anbnGrammar(t)
	p := NewPredictive(g, table)

	// "aab" -- missing the final b: the inner S takes its epsilon production
	// on the first b, and the outer S -> aSb's closing b then meets EOF, so
	// the parser reports an "expected b" terminal mismatch.
	stream := newSliceStream(tok(tokA, "a"), tok(tokA, "a"), tok(tokB, "b"))
	_, errs := p.Parse(stream)

	require.NotEmpty(t, errs)
}

func Test_Predictive_Parse_EmptyInput_AcceptsEpsilon(t *testing.T) {
	g, table := anbnGrammar(t)
	p := NewPredictive(g, table)

	stream := newSliceStream()
	tree, errs := p.Parse(stream)

	assert.Empty(t, errs)
	require.Len(t, tree.Children, 1)
	assert.True(t, tree.Children[0].Terminal)
	assert.Equal(t, "", tree.Children[0].Symbol)
}

func Test_Predictive_Parse_NoStartSymbol_FailsImmediately(t *testing.T) {
	g := grammar.New()
	table, _, err := ll1.Build(g)
	assert.Error(t, err)
	assert.Nil(t, table)

	p := NewPredictive(g, table)
	tree, errs := p.Parse(newSliceStream(tok(tokA, "a")))
	assert.Nil(t, tree)
	assert.NotEmpty(t, errs)
}

func Test_Predictive_Parse_MismatchedTerminal_RecoversLocally(t *testing.T) {
	g, table := anbnGrammar(t)
	p := NewPredictive(g, table)

	// "aaabb": three openers but only two closers, so the outermost S->aSb's
	// closing b meets EOF instead; that terminal frame is reported and popped.
	stream := newSliceStream(tok(tokA, "a"), tok(tokA, "a"), tok(tokA, "a"), tok(tokB, "b"), tok(tokB, "b"))
	_, errs := p.Parse(stream)

	require.NotEmpty(t, errs)
}

func Test_Predictive_Parse_MaxErrorsAborts(t *testing.T) {
	g, table := anbnGrammar(t)
	p := NewPredictive(g, table)
	p.MaxErrors = 2

	// A long run of tokens that belong to no FIRST/FOLLOW set of S at all
	// (unregistered token id), each producing an "unrecognized" error until
	// the bound trips.
	toks := make([]types.Token, 10)
	for i := range toks {
		toks[i] = tok(99, "?")
	}
	_, errs := p.Parse(newSliceStream(toks...))

	assert.LessOrEqual(t, len(errs), p.MaxErrors+1)
	assert.NotEmpty(t, errs)
}
