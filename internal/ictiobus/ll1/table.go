// Package ll1 assembles a predictive parse table from a grammar's FIRST and
// FOLLOW sets, detects conflicts, and (de)serialises the table to a fixed
// binary layout so a generated table can be shipped separately from the
// generator that built it.
package ll1

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"sort"

	"github.com/dekarrin/ictiobus/internal/ictiobus/grammar"
	"github.com/dekarrin/ictiobus/internal/ictiobus/icterrors"
)

// Reserved table-cell sentinels.
const (
	NoEntry    = -1
	SyncMarker = -2
)

// Magic is the four-byte value every serialised table starts with:
// "LL1" followed by format version 1.
const Magic uint32 = 0x4C4C3101

const (
	symTerminal    = int32(0)
	symNonTerminal = int32(1)
)

// Table is a predictive parse table: rows are nonterminals, columns are
// terminals plus one trailing "$" column.
type Table struct {
	nonterminals []string
	ntIndex      map[string]int

	// terminals holds every real terminal in column order, NOT including
	// "$"; the $ column is always the last one.
	terminals []string
	termIndex map[string]int
	tokenID   map[string]int

	// tokenIDToColumn is the reverse of tokenID, letting a caller holding
	// only a token id (as a parser does) find its column.
	tokenIDToColumn map[int]int

	cells [][]int

	// productions is kept alongside the table purely so MarshalBinary can
	// emit them; Table itself never consults production contents.
	productions []grammar.Production
}

func newTable(nonterminals, terminals []string, tokenID map[string]int) *Table {
	t := &Table{
		nonterminals: append([]string(nil), nonterminals...),
		ntIndex:      make(map[string]int, len(nonterminals)),
		terminals:    append([]string(nil), terminals...),
		termIndex:    make(map[string]int, len(terminals)),
		tokenID:      tokenID,
	}
	for i, nt := range nonterminals {
		t.ntIndex[nt] = i
	}
	t.tokenIDToColumn = make(map[int]int, len(terminals))
	for i, term := range terminals {
		t.termIndex[term] = i
		if id, ok := tokenID[term]; ok {
			t.tokenIDToColumn[id] = i
		}
	}
	t.cells = make([][]int, len(nonterminals))
	cols := len(terminals) + 1
	for i := range t.cells {
		row := make([]int, cols)
		for j := range row {
			row[j] = NoEntry
		}
		t.cells[i] = row
	}
	return t
}

// columnOf returns the dense-table column for terminal, where terminal may
// be grammar.EndMarker for the trailing $ column.
func (t *Table) columnOf(terminal string) (int, bool) {
	if terminal == grammar.EndMarker {
		return len(t.terminals), true
	}
	idx, ok := t.termIndex[terminal]
	return idx, ok
}

// Get returns the production index stored at [nonterminal, terminal], or
// NoEntry if unmapped, or SyncMarker if that cell is a recovery sync point.
func (t *Table) Get(nonterminal, terminal string) int {
	row, ok := t.ntIndex[nonterminal]
	if !ok {
		return NoEntry
	}
	col, ok := t.columnOf(terminal)
	if !ok {
		return NoEntry
	}
	return t.cells[row][col]
}

// Set stores value at [nonterminal, terminal]. Both must already be part of
// the table's row/column sets.
func (t *Table) Set(nonterminal, terminal string, value int) {
	row, ok := t.ntIndex[nonterminal]
	if !ok {
		return
	}
	col, ok := t.columnOf(terminal)
	if !ok {
		return
	}
	t.cells[row][col] = value
}

// NonTerminals returns the table's row labels in order.
func (t *Table) NonTerminals() []string {
	return append([]string(nil), t.nonterminals...)
}

// Terminals returns the table's real terminal column labels in order (not
// including the trailing $ column).
func (t *Table) Terminals() []string {
	return append([]string(nil), t.terminals...)
}

// Build constructs a predictive parse table from g's FIRST and FOLLOW
// sets. It always returns a usable table; conflicts are reported
// alongside rather than as an error, since a non-LL(1) grammar still gets a
// best-effort table. The tie-break rule when two productions claim the same
// cell: a non-epsilon alternative is always kept over an epsilon one; when
// neither or both are epsilon, the first one assigned wins.
func Build(g *grammar.Grammar) (*Table, []icterrors.Conflict, error) {
	if g.StartSymbol() == "" {
		return nil, nil, fmt.Errorf("ll1: grammar has no start symbol")
	}

	first := g.FirstSets()
	follow := g.FollowSets(first)

	tokenID := make(map[string]int)
	for _, term := range g.Terminals() {
		if id, ok := g.TokenID(term); ok {
			tokenID[term] = id
		}
	}

	table := newTable(g.NonTerminals(), g.Terminals(), tokenID)
	productions := g.Productions()
	table.productions = productions

	var conflicts []icterrors.Conflict

	assign := func(nonterminal, terminal string, idx int) {
		existing := table.Get(nonterminal, terminal)
		if existing == NoEntry {
			table.Set(nonterminal, terminal, idx)
			return
		}
		if existing == idx {
			return
		}

		existingEpsilon := productions[existing].IsEpsilon()
		candidateEpsilon := productions[idx].IsEpsilon()

		switch {
		case existingEpsilon && !candidateEpsilon:
			table.Set(nonterminal, terminal, idx)
			conflicts = append(conflicts, icterrors.Conflict{
				NonTerminal: nonterminal, Terminal: terminal, Kept: idx, Rejected: existing,
			})
		default:
			// candidate is epsilon, or both/neither are: first assignment
			// wins.
			conflicts = append(conflicts, icterrors.Conflict{
				NonTerminal: nonterminal, Terminal: terminal, Kept: existing, Rejected: idx,
			})
		}
	}

	for idx, p := range productions {
		seqFirst := grammar.FirstOfSequence(p.Right, first)

		for t := range seqFirst.Terminals {
			assign(p.Left, t, idx)
		}

		if seqFirst.Epsilon {
			for t := range follow[p.Left].Terminals {
				assign(p.Left, t, idx)
			}
		}
	}

	return table, conflicts, nil
}

// MarshalBinary encodes t in the table wire layout:
// a four-byte magic, three four-byte dimension ints (nonterminal count,
// terminal-column count, terminal-map size), the terminal-id->column map,
// the dense table rows, then the production list. Every integer is written
// big-endian int32.
//
// The map and production list are written in sorted/insertion order so that
// marshalling the same Table twice always produces identical bytes.
func (t *Table) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer
	var werr error
	put := func(v int32) {
		if werr != nil {
			return
		}
		werr = binary.Write(&buf, binary.BigEndian, v)
	}

	put(int32(Magic))
	put(int32(len(t.nonterminals)))
	put(int32(len(t.terminals)))
	put(int32(len(t.tokenIDToColumn)))

	ids := make([]int, 0, len(t.tokenIDToColumn))
	for id := range t.tokenIDToColumn {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for _, id := range ids {
		put(int32(id))
		put(int32(t.tokenIDToColumn[id]))
	}

	for _, row := range t.cells {
		for _, cell := range row {
			put(int32(cell))
		}
	}

	put(int32(len(t.productions)))
	for _, p := range t.productions {
		put(int32(t.ntIndex[p.Left]))
		put(int32(len(p.Right)))
		for _, sym := range p.Right {
			if sym.Terminal {
				put(symTerminal)
				put(int32(t.termIndex[sym.Name]))
			} else {
				put(symNonTerminal)
				put(int32(t.ntIndex[sym.Name]))
			}
		}
	}

	if werr != nil {
		return nil, fmt.Errorf("ll1: marshal table: %w", werr)
	}
	return buf.Bytes(), nil
}

// UnmarshalBinaryInto decodes data (as produced by MarshalBinary) into a new
// Table, resolving terminal and nonterminal indices back to names via g
// (which must already hold the same nonterminals, in the same order, that
// built the serialised table -- the wire format itself carries no names,
// only indices and token ids). On success it also overwrites g's production
// vector with the decoded productions.
func UnmarshalBinaryInto(data []byte, g *grammar.Grammar) (*Table, error) {
	r := bytes.NewReader(data)
	var rerr error
	get := func() int32 {
		if rerr != nil {
			return 0
		}
		var v int32
		rerr = binary.Read(r, binary.BigEndian, &v)
		return v
	}

	magic := get()
	if rerr != nil {
		return nil, fmt.Errorf("ll1: unmarshal table: %w", rerr)
	}
	if uint32(magic) != Magic {
		return nil, fmt.Errorf("ll1: unmarshal table: bad magic %#x", uint32(magic))
	}

	ntCount := int(get())
	termCount := int(get())
	mapSize := int(get())

	nonterminals := g.NonTerminals()
	terminals := g.Terminals()
	if len(nonterminals) != ntCount || len(terminals) != termCount {
		return nil, fmt.Errorf("ll1: unmarshal table: grammar has %d nonterminals/%d terminals, table expects %d/%d",
			len(nonterminals), len(terminals), ntCount, termCount)
	}

	columnByTokenID := make(map[int]int, mapSize)
	for i := 0; i < mapSize; i++ {
		id := int(get())
		col := int(get())
		columnByTokenID[id] = col
	}

	tokenID := make(map[string]int)
	for i, term := range terminals {
		id, ok := g.TokenID(term)
		if !ok {
			continue
		}
		if col, ok := columnByTokenID[id]; !ok || col != i {
			return nil, fmt.Errorf("ll1: unmarshal table: terminal %q column mismatch with serialised map", term)
		}
		tokenID[term] = id
	}

	table := newTable(nonterminals, terminals, tokenID)
	cols := termCount + 1
	for row := 0; row < ntCount; row++ {
		for col := 0; col < cols; col++ {
			table.cells[row][col] = int(get())
		}
	}

	prodCount := int(get())
	productions := make([]grammar.Production, prodCount)
	for i := 0; i < prodCount; i++ {
		leftIdx := int(get())
		rightLen := int(get())
		// An epsilon production keeps a nil Right, the same shape the
		// grammar's own producers give it.
		var right []grammar.Symbol
		if rightLen > 0 {
			right = make([]grammar.Symbol, rightLen)
		}
		for j := 0; j < rightLen; j++ {
			kind := get()
			id := int(get())
			if rerr != nil {
				break
			}
			if kind == symTerminal {
				right[j] = grammar.Term(terminals[id])
			} else {
				right[j] = grammar.NonTerm(nonterminals[id])
			}
		}
		if leftIdx < 0 || leftIdx >= len(nonterminals) {
			return nil, fmt.Errorf("ll1: unmarshal table: production %d has out-of-range left index %d", i, leftIdx)
		}
		productions[i] = grammar.Production{Left: nonterminals[leftIdx], Right: right}
	}

	if rerr != nil {
		return nil, fmt.Errorf("ll1: unmarshal table: %w", rerr)
	}

	table.productions = productions
	g.ReplaceProductions(productions)
	return table, nil
}
