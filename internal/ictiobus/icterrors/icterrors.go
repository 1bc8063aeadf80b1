// Package icterrors collects the diagnostic types the generator and its
// runtime (tokeniser, predictive parser) raise. Every error here carries
// enough of the offending location to let a caller print a line/column
// reference without re-deriving it.
package icterrors

import (
	"fmt"

	"github.com/dekarrin/ictiobus/internal/ictiobus/types"
	"github.com/dekarrin/rosed"
)

// diagWrapWidth is the column at which FullMessage wraps long diagnostic
// text. Chosen to match a conventional 80-column terminal minus a margin for
// the "line:col: " prefix.
const diagWrapWidth = 72

// SyntaxError is raised by the predictive parser. It always has a message;
// Line and Column are zero when the error has no associated source position
// (e.g. a grammar with no start symbol, rejected before any token is read).
type SyntaxError struct {
	msg    string
	Line   int
	Column int
	wrap   error
}

func (e *SyntaxError) Error() string {
	if e.Line == 0 && e.Column == 0 {
		return e.msg
	}
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Column, e.msg)
}

// Unwrap gives the error that this SyntaxError wraps, if any.
func (e *SyntaxError) Unwrap() error {
	return e.wrap
}

// FullMessage renders the error word-wrapped to a terminal-friendly width,
// for display to an end user rather than in a test assertion.
func (e *SyntaxError) FullMessage() string {
	return rosed.Edit(e.Error()).Wrap(diagWrapWidth).String()
}

// NewSyntaxError returns a SyntaxError with no associated token position.
func NewSyntaxError(msg string) error {
	return &SyntaxError{msg: msg}
}

// NewSyntaxErrorf is NewSyntaxError with fmt.Sprintf-style formatting.
func NewSyntaxErrorf(format string, a ...interface{}) error {
	return &SyntaxError{msg: fmt.Sprintf(format, a...)}
}

// NewSyntaxErrorFromToken returns a SyntaxError positioned at the given
// token's line and column.
func NewSyntaxErrorFromToken(msg string, tok types.Token) error {
	return &SyntaxError{msg: msg, Line: tok.Line, Column: tok.Column}
}

// NewSyntaxErrorFromTokenf is NewSyntaxErrorFromToken with fmt.Sprintf-style
// formatting.
func NewSyntaxErrorFromTokenf(tok types.Token, format string, a ...interface{}) error {
	return &SyntaxError{msg: fmt.Sprintf(format, a...), Line: tok.Line, Column: tok.Column}
}

// Conflict describes one LL(1) table cell that two productions both claim.
// It is not an error in the Go sense -- grammars with
// conflicts still produce a best-effort table -- so it is collected into a
// slice rather than returned as an error.
type Conflict struct {
	NonTerminal string
	Terminal    string
	Kept        int
	Rejected    int
}

func (c Conflict) String() string {
	return fmt.Sprintf("conflict on M[%s, %s]: production %d kept over %d", c.NonTerminal, c.Terminal, c.Kept, c.Rejected)
}

// Fatal marks non-recoverable errors: position or state-count exhaustion
// during DFA construction, or a predictive-parser stack overflow. Callers
// should abort the current build/parse rather than attempt any recovery.
type Fatal struct {
	msg string
}

func (e *Fatal) Error() string {
	return e.msg
}

// NewFatal returns a new Fatal error.
func NewFatal(msg string) error {
	return &Fatal{msg: msg}
}

// NewFatalf is NewFatal with fmt.Sprintf-style formatting.
func NewFatalf(format string, a ...interface{}) error {
	return &Fatal{msg: fmt.Sprintf(format, a...)}
}
