// Package grammar models a context-free grammar as named symbols and
// ordered productions, and computes FIRST/FOLLOW sets over it by fixed-point
// iteration. Registration is idempotent on name, and the first nonterminal
// added becomes the start symbol unless explicitly overridden.
package grammar

// Symbol is one grammar symbol referenced by name: either a terminal (its
// name must have been registered with AddTerminal) or a nonterminal (with
// AddNonTerminal). An empty Production.Right denotes epsilon, so Symbol
// itself never needs an epsilon variant.
type Symbol struct {
	Terminal bool
	Name     string
}

// Term builds a terminal-symbol reference.
func Term(name string) Symbol { return Symbol{Terminal: true, Name: name} }

// NonTerm builds a nonterminal-symbol reference.
func NonTerm(name string) Symbol { return Symbol{Terminal: false, Name: name} }

// Production is one alternative for a nonterminal. An empty Right is an
// epsilon production.
type Production struct {
	Left  string
	Right []Symbol
}

// IsEpsilon reports whether p has no right-hand-side symbols.
func (p Production) IsEpsilon() bool { return len(p.Right) == 0 }

// Grammar holds a grammar's symbols and productions in insertion order.
// Productions are numbered by that order; the number is the identity the
// LL(1) table and the predictive parser both use.
type Grammar struct {
	nonterminals []string
	nontermIndex map[string]int

	terminals     []string
	terminalIndex map[string]int
	tokenID       map[string]int
	termForToken  map[int]string

	productions []Production
	start       string
}

// New returns an empty Grammar.
func New() *Grammar {
	return &Grammar{
		nontermIndex:  make(map[string]int),
		terminalIndex: make(map[string]int),
		tokenID:       make(map[string]int),
		termForToken:  make(map[int]string),
	}
}

// AddNonTerminal registers name as a nonterminal, idempotently, and returns
// its index. The first nonterminal ever added becomes the start symbol
// unless SetStart overrides it later.
func (g *Grammar) AddNonTerminal(name string) int {
	if idx, ok := g.nontermIndex[name]; ok {
		return idx
	}
	idx := len(g.nonterminals)
	g.nonterminals = append(g.nonterminals, name)
	g.nontermIndex[name] = idx
	if idx == 0 {
		g.start = name
	}
	return idx
}

// AddTerminal registers name as a terminal carrying the given token id,
// idempotently, and returns tokenID.
func (g *Grammar) AddTerminal(name string, tokenID int) int {
	if _, ok := g.terminalIndex[name]; ok {
		return g.tokenID[name]
	}
	idx := len(g.terminals)
	g.terminals = append(g.terminals, name)
	g.terminalIndex[name] = idx
	g.tokenID[name] = tokenID
	g.termForToken[tokenID] = name
	return tokenID
}

// TerminalForTokenID returns the terminal name registered against tokenID,
// the reverse of TokenID. Used by the predictive parser to turn a
// lookahead's numeric Token.Type into the column name the LL(1) table is
// indexed by.
func (g *Grammar) TerminalForTokenID(tokenID int) (string, bool) {
	name, ok := g.termForToken[tokenID]
	return name, ok
}

// SetStart overrides the start symbol. name must already be a registered
// nonterminal.
func (g *Grammar) SetStart(name string) {
	g.start = name
}

// StartSymbol returns the grammar's start symbol, or "" if none has been
// registered yet.
func (g *Grammar) StartSymbol() string {
	return g.start
}

// AddProduction appends a new production and returns its index.
func (g *Grammar) AddProduction(left string, right []Symbol) int {
	idx := len(g.productions)
	g.productions = append(g.productions, Production{Left: left, Right: right})
	return idx
}

// ReplaceProductions discards every production g currently holds and
// replaces them wholesale with prods, in order. Used when reloading a
// serialised LL(1) table: the wire format carries its own production list
// rather than assuming the grammar that built it is still in memory
// unchanged, so the reload overwrites g's productions with the decoded
// ones.
func (g *Grammar) ReplaceProductions(prods []Production) {
	g.productions = append([]Production(nil), prods...)
}

// NonTerminals returns the nonterminal names in insertion order.
func (g *Grammar) NonTerminals() []string {
	out := make([]string, len(g.nonterminals))
	copy(out, g.nonterminals)
	return out
}

// Terminals returns the terminal names in insertion order.
func (g *Grammar) Terminals() []string {
	out := make([]string, len(g.terminals))
	copy(out, g.terminals)
	return out
}

// Productions returns every production in insertion order; a production's
// position in this slice is its id.
func (g *Grammar) Productions() []Production {
	out := make([]Production, len(g.productions))
	copy(out, g.productions)
	return out
}

// TokenID returns the token id registered for terminal name, if any.
func (g *Grammar) TokenID(name string) (int, bool) {
	id, ok := g.tokenID[name]
	return id, ok
}

// IsNonTerminal reports whether name was registered with AddNonTerminal.
func (g *Grammar) IsNonTerminal(name string) bool {
	_, ok := g.nontermIndex[name]
	return ok
}

// IsTerminal reports whether name was registered with AddTerminal.
func (g *Grammar) IsTerminal(name string) bool {
	_, ok := g.terminalIndex[name]
	return ok
}

// NonTerminalIndex returns the index name was assigned by AddNonTerminal.
func (g *Grammar) NonTerminalIndex(name string) (int, bool) {
	idx, ok := g.nontermIndex[name]
	return idx, ok
}

// TerminalIndex returns the column index name was assigned by AddTerminal.
func (g *Grammar) TerminalIndex(name string) (int, bool) {
	idx, ok := g.terminalIndex[name]
	return idx, ok
}
