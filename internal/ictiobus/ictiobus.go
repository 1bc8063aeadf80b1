// Package ictiobus ties the regex-to-DFA pipeline and the grammar-to-LL(1)
// pipeline together into one per-invocation session, and is the root of the
// tree the rest of this module's packages live under.
//
// It's named for the buffalo fish, on account of the buffalo's relation to
// the bison -- the other well-known parser-generator namesake. It builds
// only a lexer and an LL(1) parser: no LALR/SLR/CLR tables, no
// syntax-directed translation.
package ictiobus

import (
	"fmt"

	"github.com/dekarrin/ictiobus/internal/ictiobus/automaton"
	"github.com/dekarrin/ictiobus/internal/ictiobus/grammar"
	"github.com/dekarrin/ictiobus/internal/ictiobus/icterrors"
	"github.com/dekarrin/ictiobus/internal/ictiobus/lexspec"
	"github.com/dekarrin/ictiobus/internal/ictiobus/ll1"
	"github.com/dekarrin/ictiobus/internal/ictiobus/parse"
	"github.com/dekarrin/ictiobus/internal/ictiobus/regexast"
	"github.com/google/uuid"
)

// Session owns the mutable tables that must start fresh for each generator
// invocation: the position counter a regex parser assigns leaf positions
// from, and (indirectly, via lexspec.Combine) the pos-to-token map and
// followpos table a DFA build consumes. A single Session is not safe for
// concurrent use, but two distinct Sessions never share state, so
// concurrent builds simply each get their own. Every Session carries a
// UUID, which is stored in the cache artifacts built from it so those from
// concurrent or historical runs can be told apart; the collected warnings
// and conflicts do not carry it.
type Session struct {
	ID uuid.UUID

	counter *regexast.PositionCounter
	log     buildLog
}

// buildLog collects the non-fatal diagnostics a build can raise: regex
// warnings (an unsupported negated character class) and LL(1) conflicts.
// Collecting them here, rather than writing directly to stderr, lets a
// caller (a test, or the CLI) inspect or suppress them as it sees fit.
type buildLog struct {
	warnings  []string
	conflicts []icterrors.Conflict
}

// NewSession returns a Session with a fresh position counter, ready to
// build exactly one lexer and any number of LL(1) parsers.
func NewSession() *Session {
	return &Session{ID: uuid.New(), counter: regexast.NewPositionCounter()}
}

// Warnings returns every warning collected by BuildLexer calls on this
// Session so far (in the order they were raised).
func (s *Session) Warnings() []string {
	return append([]string(nil), s.log.warnings...)
}

// Conflicts returns every LL(1) conflict collected by BuildTable calls
// (including those BuildParser makes) on this Session so far.
func (s *Session) Conflicts() []icterrors.Conflict {
	return append([]icterrors.Conflict(nil), s.log.conflicts...)
}

// BuildLexer runs the regex->AST->DFA pipeline
// over defs, an ordered token-definition list (lower index = higher
// maximal-munch priority), and returns the resulting DFA. If alphabet is
// nil the alphabet is derived automatically from the bytes the patterns
// actually reference. Any regexparse warnings (e.g. an unsupported negated
// character class) are appended to the Session's build log rather than
// failing the build.
//
// defs must not be empty; every pattern must parse. A Session's position
// counter is shared across every call to BuildLexer made on it, so building
// two unrelated lexers from the same Session would let their leaf positions
// collide -- use a fresh Session per lexer.
func (s *Session) BuildLexer(defs []lexspec.TokenDef, alphabet []byte) (*automaton.DFA, error) {
	result, err := lexspec.Combine(s.counter, defs)
	if err != nil {
		return nil, fmt.Errorf("ictiobus: build lexer: %w", err)
	}
	s.log.warnings = append(s.log.warnings, result.Warnings...)

	dfa, err := automaton.Build(result.Root, result.PosToToken, alphabet)
	if err != nil {
		return nil, fmt.Errorf("ictiobus: build lexer: %w", err)
	}
	return dfa, nil
}

// BuildTable builds the FIRST/FOLLOW sets and LL(1) table for g. A
// non-LL(1) grammar still produces a best-effort table: conflicts are
// advisory, so they are appended to the Session's build log rather than
// returned as an error; ok is false when any were found.
func (s *Session) BuildTable(g *grammar.Grammar) (t *ll1.Table, ok bool, err error) {
	table, conflicts, err := ll1.Build(g)
	if err != nil {
		return nil, false, fmt.Errorf("ictiobus: build table: %w", err)
	}
	s.log.conflicts = append(s.log.conflicts, conflicts...)
	return table, len(conflicts) == 0, nil
}

// BuildParser is BuildTable plus wrapping the result in a ready-to-use
// predictive parser. Check Conflicts() (or the ok return) to find out
// whether g was actually LL(1).
func (s *Session) BuildParser(g *grammar.Grammar) (p *parse.Predictive, ok bool, err error) {
	table, ok, err := s.BuildTable(g)
	if err != nil {
		return nil, false, err
	}
	return parse.NewPredictive(g, table), ok, nil
}
