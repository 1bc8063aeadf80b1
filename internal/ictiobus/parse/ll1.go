// Package parse implements the stack-driven predictive parser that walks an
// LL(1) table: a symbol stack paired one-for-one with parse-tree nodes,
// table-driven expansion, and panic-mode recovery via FOLLOW sets when a
// lookahead has no table entry.
package parse

import (
	"github.com/dekarrin/ictiobus/internal/ictiobus/grammar"
	"github.com/dekarrin/ictiobus/internal/ictiobus/icterrors"
	"github.com/dekarrin/ictiobus/internal/ictiobus/ll1"
	"github.com/dekarrin/ictiobus/internal/ictiobus/types"
)

// DefaultMaxErrors bounds how many syntax errors a Predictive parse
// accumulates before giving up.
const DefaultMaxErrors = 50

// DefaultMaxStackDepth bounds the parser stack. Pushing a production's
// right-hand side past this aborts the parse as a fatal error.
const DefaultMaxStackDepth = 100000

type frameKind int

const (
	frameTerminal frameKind = iota
	frameNonTerminal
	frameEnd
)

// stackFrame is one entry of the parser stack: a terminal, a nonterminal,
// or the end sentinel that sits at the very bottom.
// name is the terminal or nonterminal name; node is the parse-tree node this
// frame will fill in once matched or expanded.
type stackFrame struct {
	kind frameKind
	name string
	node *types.ParseTree
}

// Predictive is a stack-driven LL(1) parser bound to one grammar and table.
// A Predictive may be reused across many Parse calls; it holds no
// per-parse state itself.
type Predictive struct {
	g     *grammar.Grammar
	table *ll1.Table

	// follow is FOLLOW(A) for every nonterminal A, used for panic-mode
	// recovery. It is always populated here, computed once at construction
	// time.
	follow map[string]grammar.SymbolSet

	// MaxErrors aborts the parse once this many syntax errors have
	// accumulated. MaxStackDepth aborts (fatally) if expanding a production
	// would push the stack past this depth.
	MaxErrors     int
	MaxStackDepth int
}

// NewPredictive builds a Predictive parser over g and its already-built
// LL(1) table t, computing FOLLOW sets once up front for recovery.
func NewPredictive(g *grammar.Grammar, t *ll1.Table) *Predictive {
	first := g.FirstSets()
	return &Predictive{
		g:             g,
		table:         t,
		follow:        g.FollowSets(first),
		MaxErrors:     DefaultMaxErrors,
		MaxStackDepth: DefaultMaxStackDepth,
	}
}

// Parse drives lex through the table-predicted productions, building a
// parse tree rooted at the grammar's start symbol. It always returns the
// (possibly partial) tree it managed to build, alongside every diagnostic
// raised along the way; a nil error slice means a clean parse.
//
// A grammar with no start symbol fails immediately rather than attempting
// to parse anything; the returned tree is nil in that case.
func (p *Predictive) Parse(lex types.TokenStream) (*types.ParseTree, []error) {
	if p.g.StartSymbol() == "" {
		return nil, []error{icterrors.NewSyntaxError("parse: grammar has no start symbol")}
	}

	root := &types.ParseTree{Symbol: p.g.StartSymbol()}
	stack := []stackFrame{
		{kind: frameEnd},
		{kind: frameNonTerminal, name: p.g.StartSymbol(), node: root},
	}

	lookahead := lex.Next()
	var errs []error

	for {
		if len(errs) >= p.MaxErrors {
			errs = append(errs, icterrors.NewSyntaxError("parse: too many errors, aborting"))
			return root, errs
		}

		top := stack[len(stack)-1]

		switch top.kind {
		case frameEnd:
			if lookahead.Type == types.EOF && len(errs) == 0 {
				return root, nil
			}
			if lookahead.Type != types.EOF {
				errs = append(errs, icterrors.NewSyntaxErrorFromTokenf(lookahead,
					"unexpected %q after what should have been the end of input", lookahead.Lexeme))
			}
			return root, errs

		case frameTerminal:
			tid, _ := p.g.TokenID(top.name)
			if lookahead.Type == tid {
				top.node.Terminal = true
				top.node.Source = lookahead
				stack = stack[:len(stack)-1]
				lookahead = lex.Next()
			} else {
				errs = append(errs, icterrors.NewSyntaxErrorFromTokenf(lookahead,
					"expected %s, found %q", top.name, lookahead.Lexeme))
				// Local recovery: pop the offending terminal and pretend it
				// matched.
				stack = stack[:len(stack)-1]
			}
			continue

		case frameNonTerminal:
			A := top.name
			column, ok := p.columnFor(lookahead)
			if !ok {
				errs = append(errs, icterrors.NewSyntaxErrorFromTokenf(lookahead,
					"%q doesn't match any known token", lookahead.Lexeme))
				lookahead = lex.Next()
				continue
			}

			prod := p.table.Get(A, column)
			switch prod {
			case ll1.NoEntry:
				errs = append(errs, icterrors.NewSyntaxErrorFromTokenf(lookahead,
					"a %s can't start with %q", A, lookahead.Lexeme))
				lookahead = p.panicRecover(A, lex, lookahead)
				stack = stack[:len(stack)-1]

			case ll1.SyncMarker:
				stack = stack[:len(stack)-1]

			default:
				prodRule := p.g.Productions()[prod]
				if len(stack)-1+len(prodRule.Right) > p.MaxStackDepth {
					return root, append(errs, icterrors.NewFatal("parse: stack overflow expanding "+A))
				}
				stack = stack[:len(stack)-1]
				stack = append(stack, expand(top.node, prodRule.Right)...)
			}
		}
	}
}

// columnFor returns the LL(1) table column lookahead should be read under:
// its terminal name, or grammar.EndMarker at EOF. false means lookahead
// matches no terminal the grammar ever registered.
func (p *Predictive) columnFor(lookahead types.Token) (string, bool) {
	if lookahead.Type == types.EOF {
		return grammar.EndMarker, true
	}
	return p.g.TerminalForTokenID(lookahead.Type)
}

// panicRecover implements panic-mode recovery: skip tokens until the
// lookahead is in FOLLOW(A) or input ends. The caller pops A
// unconditionally afterward -- including at EOF when $ is not in FOLLOW(A),
// since leaving A on the stack with no more input to skip past would never
// terminate.
func (p *Predictive) panicRecover(A string, lex types.TokenStream, lookahead types.Token) types.Token {
	fo := p.follow[A]
	for lookahead.Type != types.EOF {
		if name, ok := p.g.TerminalForTokenID(lookahead.Type); ok && fo.Has(name) {
			break
		}
		lookahead = lex.Next()
	}
	return lookahead
}

// expand builds the stack frames and parse-tree children for pushing a
// production's right-hand side, reversed so the leftmost symbol ends up
// topmost. An epsilon production (empty right) pushes nothing and instead
// appends a single terminal leaf with an empty symbol, which is how the
// parse tree renders epsilon.
func expand(parent *types.ParseTree, right []grammar.Symbol) []stackFrame {
	if len(right) == 0 {
		parent.Children = []*types.ParseTree{{Terminal: true}}
		return nil
	}

	children := make([]*types.ParseTree, len(right))
	for i, sym := range right {
		children[i] = &types.ParseTree{Symbol: sym.Name}
	}
	parent.Children = children

	frames := make([]stackFrame, len(right))
	for i, sym := range right {
		kind := frameNonTerminal
		if sym.Terminal {
			kind = frameTerminal
		}
		// Reversed: right[len-1] must end up at frames[0] so it is pushed
		// first and therefore ends up deepest in the stack.
		frames[len(right)-1-i] = stackFrame{kind: kind, name: sym.Name, node: children[i]}
	}
	return frames
}
