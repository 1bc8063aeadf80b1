// Package automaton builds a DFA directly from a regex AST's followpos
// functions (no intermediate NFA, no minimisation afterward) and drives a
// maximal-munch tokeniser over the resulting dense transition table.
// States are identified by their PositionSet and discovered by a worklist
// in the order subset construction finds them; the final table is a dense
// (state, byte) -> state-or-dead array.
package automaton

import (
	"fmt"
	"io"
	"sort"

	"github.com/dekarrin/ictiobus/internal/ictiobus/icterrors"
	"github.com/dekarrin/ictiobus/internal/ictiobus/position"
	"github.com/dekarrin/ictiobus/internal/ictiobus/regexast"
)

// Dead marks a transition with no destination state, and is also the value
// every unused byte column holds in the dense table.
const Dead = -1

// MaxStates bounds how many states one DFA construction may discover
// before it is aborted as a fatal resource-exhaustion error.
const MaxStates = 4096

// alphabetSize is the number of distinct byte values a State's dense
// transition row covers: the full 0-127 ASCII range, with dead entries for
// every byte outside the DFA's actual alphabet.
const alphabetSize = 128

// State is one DFA state. Its identity is its Positions set: two states
// with equal PositionSets are the same state, never constructed twice.
type State struct {
	Positions   position.Set
	Transitions [alphabetSize]int
	Accepting   bool

	// TokenID is meaningful only when Accepting is true: the smallest token
	// id among the end-marker positions the state's PositionSet contains.
	TokenID int
}

// DFA is a built automaton together with the alphabet it was built over.
// State 0 is always the start state.
type DFA struct {
	States   []State
	Alphabet []byte
	Start    int
}

// endMarkerSymbol marks the end-marker leaves lexspec appends to each token
// pattern. It is never present in an input alphabet, so it is always
// excluded when an alphabet is derived automatically.
const endMarkerSymbol = '#'

// Build constructs a DFA from root's followpos functions. posToToken maps
// every end-marker leaf position to the token id it terminates (as produced
// by lexspec.Combine). If alphabet is nil, it is derived by scanning every
// non-end-marker leaf symbol in root and sorting them ascending.
func Build(root *regexast.Node, posToToken map[int]int, alphabet []byte) (*DFA, error) {
	if root == nil {
		return nil, fmt.Errorf("automaton: cannot build a DFA from a nil AST")
	}

	regexast.ComputeFunctions(root)
	followpos := make([]position.Set, position.MaxPositions+1)
	regexast.ComputeFollowpos(root, followpos)

	posSymbol := make(map[int]byte)
	collectLeafSymbols(root, posSymbol)

	if alphabet == nil {
		alphabet = deriveAlphabet(posSymbol)
	}

	b := &builder{
		followpos: followpos,
		posSymbol: posSymbol,
		posToken:  posToToken,
		alphabet:  alphabet,
	}

	start := root.First
	startIdx := b.stateIndex(start)
	if startIdx != 0 {
		return nil, fmt.Errorf("automaton: internal error: start state did not get index 0")
	}

	for b.cursor < len(b.posSets) {
		b.processState(b.cursor)
		b.cursor++
		if len(b.posSets) > MaxStates {
			return nil, icterrors.NewFatalf("automaton: construction exceeded %d states", MaxStates)
		}
	}

	return &DFA{States: b.states, Alphabet: alphabet, Start: 0}, nil
}

// builder holds the worklist state for one DFA construction. States are
// discovered and processed in the same order (a slice doubling as both the
// state table and the discovery queue), which is what gives DFA state ids
// their deterministic, discovery-order meaning.
type builder struct {
	followpos []position.Set
	posSymbol map[int]byte
	posToken  map[int]int
	alphabet  []byte

	posSets []position.Set
	states  []State
	cursor  int
}

// stateIndex returns the index of the state whose PositionSet equals ps,
// creating and enqueueing a new one if none exists yet.
func (b *builder) stateIndex(ps position.Set) int {
	for i := range b.posSets {
		if position.Equal(&b.posSets[i], &ps) {
			return i
		}
	}
	b.posSets = append(b.posSets, ps)
	s := State{Positions: ps}
	for i := range s.Transitions {
		s.Transitions[i] = Dead
	}
	b.states = append(b.states, s)
	return len(b.states) - 1
}

func (b *builder) processState(idx int) {
	ps := b.posSets[idx]
	elems := ps.Elements()

	accepting := false
	tokenID := 0
	for _, p := range elems {
		if tid, ok := b.posToken[p]; ok {
			if !accepting || tid < tokenID {
				tokenID = tid
			}
			accepting = true
		}
	}
	b.states[idx].Accepting = accepting
	b.states[idx].TokenID = tokenID

	for _, a := range b.alphabet {
		var u position.Set
		any := false
		for _, p := range elems {
			if sym, ok := b.posSymbol[p]; ok && sym == a {
				position.UnionInto(&u, &u, &b.followpos[p])
				any = true
			}
		}
		if !any || u.IsEmpty() {
			continue
		}
		dest := b.stateIndex(u)
		b.states[idx].Transitions[a] = dest
	}
}

// collectLeafSymbols walks root collecting every leaf's position and
// symbol, including end markers (callers that need to exclude them filter
// on the symbol value separately).
func collectLeafSymbols(root *regexast.Node, out map[int]byte) {
	if root == nil {
		return
	}
	if root.Kind == regexast.Leaf {
		out[root.Position] = root.Symbol
		return
	}
	collectLeafSymbols(root.Left, out)
	collectLeafSymbols(root.Right, out)
}

func deriveAlphabet(posSymbol map[int]byte) []byte {
	seen := make(map[byte]bool)
	for _, sym := range posSymbol {
		if sym == endMarkerSymbol {
			continue
		}
		seen[sym] = true
	}
	alphabet := make([]byte, 0, len(seen))
	for b := range seen {
		alphabet = append(alphabet, b)
	}
	sort.Slice(alphabet, func(i, j int) bool { return alphabet[i] < alphabet[j] })
	return alphabet
}

// Dump writes a human-readable listing of every state and its non-dead
// transitions, for debugging a generated lexer.
func (d *DFA) Dump(w io.Writer) {
	for i, s := range d.States {
		accept := ""
		if s.Accepting {
			accept = fmt.Sprintf(" accept(token=%d)", s.TokenID)
		}
		start := ""
		if i == d.Start {
			start = " (start)"
		}
		fmt.Fprintf(w, "state %d%s%s:\n", i, start, accept)
		for _, b := range d.Alphabet {
			dest := s.Transitions[b]
			if dest == Dead {
				continue
			}
			fmt.Fprintf(w, "  %q -> %d\n", rune(b), dest)
		}
	}
}
