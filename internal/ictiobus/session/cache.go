// Package session persists a full generator session -- a built grammar, its
// LL(1) table, and a built DFA -- as a single cache artifact between CLI
// invocations, so a later `ictgen --cache FILE` run can skip rebuilding
// everything from source. The cache records nothing about the token or
// grammar sources it was built from, so loading it does not detect that
// those sources have changed.
//
// This is deliberately a different concern from the LL(1) wire format in
// package ll1: that format is a bespoke byte layout specified down to the
// field order (magic, dimensions, dense rows, productions) and is what a
// *table* serialises to on its own. Cache, by contrast, bundles an entire
// session -- grammar, table, and DFA together -- tagged with the Session's
// UUID, and goes through rezi's binary envelope rather than hand-rolling
// its own outer framing.
package session

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/dekarrin/ictiobus/internal/ictiobus/automaton"
	"github.com/dekarrin/ictiobus/internal/ictiobus/grammar"
	"github.com/dekarrin/ictiobus/internal/ictiobus/ll1"
	"github.com/dekarrin/ictiobus/internal/ictiobus/position"
	"github.com/dekarrin/rezi"
	"github.com/google/uuid"
)

// Cache is everything needed to resume a generator session without
// re-parsing any regex or grammar source: the grammar itself (symbols and
// productions), its built LL(1) table, and a built DFA, all tagged with the
// Session that produced them.
type Cache struct {
	SessionID uuid.UUID
	Grammar   *grammar.Grammar
	Table     *ll1.Table
	DFA       *automaton.DFA
}

// entry is the plain-data shape Cache flattens to before handing it to
// rezi.EncBinary; encode and decode write and read each of its fields
// (the session UUID, strings, ints, byte slices, productions, and DFA
// states) explicitly, so MarshalBinary/UnmarshalBinary need no reflection.
type entry struct {
	sessionID uuid.UUID

	nonterminals []string
	terminals    []string
	tokenIDs     []int
	startSymbol  string
	productions  []grammar.Production

	tableBytes []byte

	dfaAlphabet []byte
	dfaStart    int
	dfaStates   []automaton.State
}

// MarshalBinary implements encoding.BinaryMarshaler so that
// rezi.EncBinary(c) can wrap it with rezi's own envelope.
func (c *Cache) MarshalBinary() ([]byte, error) {
	tableBytes, err := c.Table.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("session: marshal cache: %w", err)
	}

	e := entry{
		sessionID:    c.SessionID,
		nonterminals: c.Grammar.NonTerminals(),
		terminals:    c.Grammar.Terminals(),
		startSymbol:  c.Grammar.StartSymbol(),
		productions:  c.Grammar.Productions(),
		tableBytes:   tableBytes,
		dfaAlphabet:  c.DFA.Alphabet,
		dfaStart:     c.DFA.Start,
		dfaStates:    c.DFA.States,
	}
	e.tokenIDs = make([]int, len(e.terminals))
	for i, term := range e.terminals {
		id, _ := c.Grammar.TokenID(term)
		e.tokenIDs[i] = id
	}

	return e.encode()
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler, rebuilding the
// Grammar, Table, and DFA this Cache holds from bytes produced by
// MarshalBinary.
func (c *Cache) UnmarshalBinary(data []byte) error {
	var e entry
	if err := e.decode(data); err != nil {
		return fmt.Errorf("session: unmarshal cache: %w", err)
	}

	g := grammar.New()
	for _, nt := range e.nonterminals {
		g.AddNonTerminal(nt)
	}
	g.SetStart(e.startSymbol)
	for i, term := range e.terminals {
		g.AddTerminal(term, e.tokenIDs[i])
	}
	g.ReplaceProductions(e.productions)

	table, err := ll1.UnmarshalBinaryInto(e.tableBytes, g)
	if err != nil {
		return fmt.Errorf("session: unmarshal cache: rebuild LL(1) table: %w", err)
	}

	dfa := &automaton.DFA{
		States:   e.dfaStates,
		Alphabet: e.dfaAlphabet,
		Start:    e.dfaStart,
	}

	c.SessionID = e.sessionID
	c.Grammar = g
	c.Table = table
	c.DFA = dfa
	return nil
}

// Save encodes a Cache through rezi's binary envelope.
func Save(c *Cache) []byte {
	return rezi.EncBinary(c)
}

// Load decodes bytes produced by Save back into a Cache.
func Load(data []byte) (*Cache, error) {
	c := &Cache{}
	n, err := rezi.DecBinary(data, c)
	if err != nil {
		return nil, fmt.Errorf("session: load cache: %w", err)
	}
	if n != len(data) {
		return nil, fmt.Errorf("session: load cache: decoded %d/%d bytes", n, len(data))
	}
	return c, nil
}

// --- entry's own wire format: length-prefixed strings/slices over
// encoding/binary, in the same spirit as ll1.Table's bespoke layout. ---

func (e *entry) encode() ([]byte, error) {
	var buf bytes.Buffer
	var werr error
	putInt := func(v int64) {
		if werr == nil {
			werr = binary.Write(&buf, binary.BigEndian, v)
		}
	}
	putBytes := func(b []byte) {
		putInt(int64(len(b)))
		if werr == nil {
			_, werr = buf.Write(b)
		}
	}
	putString := func(s string) { putBytes([]byte(s)) }
	putStrings := func(ss []string) {
		putInt(int64(len(ss)))
		for _, s := range ss {
			putString(s)
		}
	}

	idBytes, err := e.sessionID.MarshalBinary()
	if err != nil {
		return nil, err
	}
	putBytes(idBytes)

	putStrings(e.nonterminals)
	putStrings(e.terminals)
	putInt(int64(len(e.tokenIDs)))
	for _, id := range e.tokenIDs {
		putInt(int64(id))
	}
	putString(e.startSymbol)

	putInt(int64(len(e.productions)))
	for _, p := range e.productions {
		putString(p.Left)
		putInt(int64(len(p.Right)))
		for _, sym := range p.Right {
			if sym.Terminal {
				putInt(0)
			} else {
				putInt(1)
			}
			putString(sym.Name)
		}
	}

	putBytes(e.tableBytes)
	putBytes(e.dfaAlphabet)
	putInt(int64(e.dfaStart))

	putInt(int64(len(e.dfaStates)))
	for _, s := range e.dfaStates {
		positions := s.Positions.Elements()
		putInt(int64(len(positions)))
		for _, p := range positions {
			putInt(int64(p))
		}
		for _, t := range s.Transitions {
			putInt(int64(t))
		}
		if s.Accepting {
			putInt(1)
		} else {
			putInt(0)
		}
		putInt(int64(s.TokenID))
	}

	if werr != nil {
		return nil, werr
	}
	return buf.Bytes(), nil
}

func (e *entry) decode(data []byte) error {
	r := bytes.NewReader(data)
	var rerr error
	getInt := func() int64 {
		if rerr != nil {
			return 0
		}
		var v int64
		rerr = binary.Read(r, binary.BigEndian, &v)
		return v
	}
	getBytes := func() []byte {
		n := int(getInt())
		if rerr != nil || n < 0 {
			return nil
		}
		b := make([]byte, n)
		_, rerr = io.ReadFull(r, b)
		return b
	}
	getString := func() string { return string(getBytes()) }
	getStrings := func() []string {
		n := int(getInt())
		out := make([]string, n)
		for i := range out {
			out[i] = getString()
		}
		return out
	}

	idBytes := getBytes()
	if rerr != nil {
		return rerr
	}
	if err := e.sessionID.UnmarshalBinary(idBytes); err != nil {
		return err
	}

	e.nonterminals = getStrings()
	e.terminals = getStrings()

	tokCount := int(getInt())
	e.tokenIDs = make([]int, tokCount)
	for i := range e.tokenIDs {
		e.tokenIDs[i] = int(getInt())
	}
	e.startSymbol = getString()

	prodCount := int(getInt())
	e.productions = make([]grammar.Production, prodCount)
	for i := range e.productions {
		left := getString()
		rightCount := int(getInt())
		right := make([]grammar.Symbol, rightCount)
		for j := range right {
			kind := getInt()
			name := getString()
			right[j] = grammar.Symbol{Terminal: kind == 0, Name: name}
		}
		e.productions[i] = grammar.Production{Left: left, Right: right}
	}

	e.tableBytes = getBytes()
	e.dfaAlphabet = getBytes()
	e.dfaStart = int(getInt())

	stateCount := int(getInt())
	e.dfaStates = make([]automaton.State, stateCount)
	for i := range e.dfaStates {
		posCount := int(getInt())
		positions := make([]int, posCount)
		for j := range positions {
			positions[j] = int(getInt())
		}
		e.dfaStates[i].Positions = position.FromElements(positions)
		for j := range e.dfaStates[i].Transitions {
			e.dfaStates[i].Transitions[j] = int(getInt())
		}
		e.dfaStates[i].Accepting = getInt() != 0
		e.dfaStates[i].TokenID = int(getInt())
	}

	if rerr != nil {
		return rerr
	}
	return nil
}
