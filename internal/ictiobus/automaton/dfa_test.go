package automaton

import (
	"strings"
	"testing"

	"github.com/dekarrin/ictiobus/internal/ictiobus/lexspec"
	"github.com/dekarrin/ictiobus/internal/ictiobus/regexast"
	"github.com/dekarrin/ictiobus/internal/ictiobus/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildSingle(t *testing.T, pattern string) (*DFA, map[int]int) {
	t.Helper()
	counter := regexast.NewPositionCounter()
	result, err := lexspec.Combine(counter, []lexspec.TokenDef{
		{ID: 1, Name: "tok", Pattern: pattern},
	})
	require.NoError(t, err)

	dfa, err := Build(result.Root, result.PosToToken, nil)
	require.NoError(t, err)
	return dfa, result.PosToToken
}

func Test_Build_ABCStarD_ThreeStates(t *testing.T) {
	dfa, _ := buildSingle(t, "a(b|c)*d")
	// a, then the (b|c)* loop, then the accept state after d.
	assert.Len(t, dfa.States, 3)
}

func Test_Build_NoDuplicateStates(t *testing.T) {
	dfa, _ := buildSingle(t, "a(b|c)*d")
	for i := 0; i < len(dfa.States); i++ {
		for j := i + 1; j < len(dfa.States); j++ {
			assert.NotEqual(t, dfa.States[i].Positions, dfa.States[j].Positions,
				"states %d and %d have equal PositionSets", i, j)
		}
	}
}

func Test_Build_AcceptLabelling(t *testing.T) {
	dfa, _ := buildSingle(t, "a(b|c)*d")

	var sawAccept bool
	for _, s := range dfa.States {
		if s.Accepting {
			sawAccept = true
			assert.Equal(t, 1, s.TokenID)
		}
	}
	assert.True(t, sawAccept)
}

func Test_Tokenize_MaximalMunch_ABCStarD(t *testing.T) {
	dfa, _ := buildSingle(t, "a(b|c)*d")

	tz := dfa.Tokenize([]byte("abbcd"), nil)
	tok := tz.Next()
	assert.Equal(t, 1, tok.Type)
	assert.Equal(t, "abbcd", string(tok.Lexeme))

	eof := tz.Next()
	assert.Equal(t, types.EOF, eof.Type)
}

func Test_Tokenize_MaximalMunchOverPriority(t *testing.T) {
	counter := regexast.NewPositionCounter()
	result, err := lexspec.Combine(counter, []lexspec.TokenDef{
		{ID: 1, Name: "kw_if", Pattern: "if"},
		{ID: 2, Name: "id", Pattern: "[a-z]+"},
	})
	require.NoError(t, err)

	dfa, err := Build(result.Root, result.PosToToken, nil)
	require.NoError(t, err)

	tz := dfa.Tokenize([]byte("if"), nil)
	tok := tz.Next()
	assert.Equal(t, 1, tok.Type)
	assert.Equal(t, "if", string(tok.Lexeme))

	tz2 := dfa.Tokenize([]byte("ifx"), nil)
	tok2 := tz2.Next()
	assert.Equal(t, 2, tok2.Type)
	assert.Equal(t, "ifx", string(tok2.Lexeme))
}

func Test_Tokenize_WhitespaceFiltered(t *testing.T) {
	counter := regexast.NewPositionCounter()
	result, err := lexspec.Combine(counter, []lexspec.TokenDef{
		{ID: 1, Name: "kw_if", Pattern: "if"},
		{ID: 2, Name: "id", Pattern: "[a-z]+"},
		{ID: 3, Name: "ws", Pattern: "[ \t]+"},
	})
	require.NoError(t, err)

	dfa, err := Build(result.Root, result.PosToToken, nil)
	require.NoError(t, err)

	tz := dfa.Tokenize([]byte("if foo"), map[int]bool{3: true})

	tok1 := tz.Next()
	assert.Equal(t, 1, tok1.Type)
	assert.Equal(t, "if", string(tok1.Lexeme))

	tok2 := tz.Next()
	assert.Equal(t, 2, tok2.Type)
	assert.Equal(t, "foo", string(tok2.Lexeme))

	eof := tz.Next()
	assert.Equal(t, types.EOF, eof.Type)
}

func Test_Tokenize_ErrorTokenOnNoValidPrefix(t *testing.T) {
	dfa, _ := buildSingle(t, "a")

	tz := dfa.Tokenize([]byte("z"), nil)
	tok := tz.Next()
	assert.Equal(t, types.ErrorType, tok.Type)
	assert.Equal(t, "z", string(tok.Lexeme))

	eof := tz.Next()
	assert.Equal(t, types.EOF, eof.Type)
}

func Test_Tokenize_LineColumnTracking(t *testing.T) {
	dfa, _ := buildSingle(t, "[a-z\n]+")

	tz := dfa.Tokenize([]byte("ab\ncd"), nil)
	tok := tz.Next()
	assert.Equal(t, "ab\ncd", string(tok.Lexeme))
	assert.Equal(t, 1, tok.Line)
	assert.Equal(t, 1, tok.Column)

	eof := tz.Next()
	assert.Equal(t, 2, eof.Line)
	assert.Equal(t, 3, eof.Column)
}

func Test_Tokenize_PeekDoesNotAdvance(t *testing.T) {
	dfa, _ := buildSingle(t, "[a-z]+")

	tz := dfa.Tokenize([]byte("abc"), nil)
	peeked := tz.Peek()
	next := tz.Next()
	assert.Equal(t, peeked, next)
	assert.Equal(t, types.EOF, tz.Peek().Type)
}

func Test_Dump_ListsStatesAndTransitions(t *testing.T) {
	dfa, _ := buildSingle(t, "ab")
	var sb strings.Builder
	dfa.Dump(&sb)
	out := sb.String()
	assert.Contains(t, out, "state 0")
	assert.Contains(t, out, "(start)")
}

func Test_Build_NilRootErrors(t *testing.T) {
	_, err := Build(nil, nil, nil)
	assert.Error(t, err)
}
