// Package types holds the data shared across every stage of the generator
// and the artifacts it produces: the tokens a DFA emits, the parse trees a
// predictive parser builds from them, and the stream contract that lets a
// parser pull tokens from a lexer without caring how they were produced.
package types

// Sentinel token types. Ordinary terminals are assigned small non-negative
// ids by a Grammar; these two live outside that range so they can never
// collide with one.
const (
	// EOF marks the end of input. It is never produced by a DFA; the
	// tokeniser synthesizes it once the cursor passes the end of the source.
	EOF = -1

	// ErrorType marks a lexical error: a byte the DFA could not match any
	// token prefix from. The tokeniser still emits a Token of this type so
	// callers get a location to report against.
	ErrorType = -2
)

// Token is a lexeme read from source text together with the terminal it was
// recognized as and the position it started at. A Token owns its Lexeme;
// once emitted by a tokeniser it is the consumer's to keep or discard.
type Token struct {
	// Type is the terminal id the token was recognized as, or EOF/ErrorType.
	Type int

	// Lexeme is the exact source bytes the token spans. Nil for EOF.
	Lexeme []byte

	// Line is the 1-indexed line the token starts on.
	Line int

	// Column is the 1-indexed column the token starts on.
	Column int
}

// Length returns the number of bytes in the token's lexeme.
func (t Token) Length() int {
	return len(t.Lexeme)
}

// String gives a short human-readable rendering of the token, suitable for
// inclusion in diagnostics.
func (t Token) String() string {
	switch t.Type {
	case EOF:
		return "<EOF>"
	case ErrorType:
		return "<ERROR " + string(t.Lexeme) + ">"
	default:
		return "<" + string(t.Lexeme) + ">"
	}
}
