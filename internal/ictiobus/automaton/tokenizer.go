package automaton

import (
	"github.com/dekarrin/ictiobus/internal/ictiobus/types"
)

// Tokenizer is a stateful maximal-munch scanner over one DFA and one
// immutable input buffer: it walks the dense table until a transition
// fails, remembers the last accepting checkpoint reached, and rewinds to
// it. It implements types.TokenStream, so it can be handed directly to a
// predictive parser.
type Tokenizer struct {
	dfa  *DFA
	src  []byte
	pos  int
	line int
	col  int

	// skip holds the token types that should be silently discarded rather
	// than returned to the caller (whitespace, comments); configured by
	// whoever built this Tokenizer, not by the DFA itself.
	skip map[int]bool

	peeked  types.Token
	hasPeek bool
}

// Tokenize returns a Tokenizer over src. skip names the token types to
// filter out of the returned stream; pass nil to return every token.
func (d *DFA) Tokenize(src []byte, skip map[int]bool) *Tokenizer {
	return &Tokenizer{dfa: d, src: src, pos: 0, line: 1, col: 1, skip: skip}
}

// Peek returns the next token in the stream without advancing past it.
func (t *Tokenizer) Peek() types.Token {
	if !t.hasPeek {
		t.peeked = t.scan()
		t.hasPeek = true
	}
	return t.peeked
}

// Next returns the next token in the stream, advancing past it. Once the
// input is exhausted it returns an EOF token forever.
func (t *Tokenizer) Next() types.Token {
	if t.hasPeek {
		t.hasPeek = false
		return t.peeked
	}
	return t.scan()
}

func (t *Tokenizer) scan() types.Token {
	for {
		if t.pos >= len(t.src) {
			return types.Token{Type: types.EOF, Line: t.line, Column: t.col}
		}

		startLine, startCol := t.line, t.col
		state := t.dfa.Start
		cursor := t.pos
		curLine, curCol := t.line, t.col

		checkpointCursor := -1
		checkpointTokenID := 0
		checkpointLine, checkpointCol := 0, 0

		for cursor < len(t.src) {
			b := t.src[cursor]
			if int(b) >= alphabetSize {
				break
			}
			next := t.dfa.States[state].Transitions[b]
			if next == Dead {
				break
			}
			state = next
			cursor++
			if b == '\n' {
				curLine++
				curCol = 1
			} else {
				curCol++
			}
			if t.dfa.States[state].Accepting {
				checkpointCursor = cursor
				checkpointTokenID = t.dfa.States[state].TokenID
				checkpointLine, checkpointCol = curLine, curCol
			}
		}

		if checkpointCursor == -1 {
			lexeme := t.src[t.pos : t.pos+1]
			tok := types.Token{Type: types.ErrorType, Lexeme: lexeme, Line: startLine, Column: startCol}
			if t.src[t.pos] == '\n' {
				t.line++
				t.col = 1
			} else {
				t.col++
			}
			t.pos++
			return tok
		}

		lexeme := t.src[t.pos:checkpointCursor]
		tok := types.Token{Type: checkpointTokenID, Lexeme: lexeme, Line: startLine, Column: startCol}
		t.pos = checkpointCursor
		t.line = checkpointLine
		t.col = checkpointCol

		if t.skip != nil && t.skip[tok.Type] {
			continue
		}
		return tok
	}
}
