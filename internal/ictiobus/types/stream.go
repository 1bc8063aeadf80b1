package types

// TokenStream is a pull-based source of tokens. A predictive parser never
// sees how tokens are produced; it only calls Next/Peek until EOF comes
// back. Implementations may tokenise the whole input up front or lazily,
// one call at a time.
type TokenStream interface {
	// Next returns the next token in the stream and advances the stream by
	// one token.
	Next() Token

	// Peek returns the next token in the stream without advancing it.
	Peek() Token
}
