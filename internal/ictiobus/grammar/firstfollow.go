package grammar

// EndMarker is the distinguished end-of-input symbol "$", tracked as a
// pseudo-terminal in FOLLOW sets only -- it never appears in a FIRST set or
// in g.Terminals().
const EndMarker = "$"

// SymbolSet is FIRST or FOLLOW of one symbol: a set of terminal names
// (EndMarker included where relevant) plus a separate epsilon flag. Epsilon
// is never stored as an element of Terminals.
type SymbolSet struct {
	Terminals map[string]bool
	Epsilon   bool
}

func newSymbolSet() SymbolSet {
	return SymbolSet{Terminals: make(map[string]bool)}
}

// Has reports whether t is a member of s.
func (s SymbolSet) Has(t string) bool {
	return s.Terminals[t]
}

// FirstSets computes FIRST for every terminal and nonterminal in g by
// fixed-point iteration. Terminals start at their own singleton;
// nonterminals start empty and grow until a full pass changes nothing.
func (g *Grammar) FirstSets() map[string]SymbolSet {
	first := make(map[string]SymbolSet)
	for _, t := range g.terminals {
		s := newSymbolSet()
		s.Terminals[t] = true
		first[t] = s
	}
	for _, nt := range g.nonterminals {
		first[nt] = newSymbolSet()
	}

	changed := true
	for changed {
		changed = false
		for _, p := range g.productions {
			seq := FirstOfSequence(p.Right, first)
			dst := first[p.Left]
			if unionInto(&dst, seq) {
				first[p.Left] = dst
				changed = true
			}
		}
	}
	return first
}

// FirstOfSequence computes FIRST(X1 X2 ... Xn) given the FIRST sets of every
// individual symbol. An empty sequence has FIRST = {ε}.
func FirstOfSequence(seq []Symbol, first map[string]SymbolSet) SymbolSet {
	result := newSymbolSet()
	if len(seq) == 0 {
		result.Epsilon = true
		return result
	}

	for _, sym := range seq {
		fi := first[sym.Name]
		for t := range fi.Terminals {
			result.Terminals[t] = true
		}
		if !fi.Epsilon {
			return result
		}
	}
	result.Epsilon = true
	return result
}

// FollowSets computes FOLLOW for every nonterminal in g by fixed-point
// iteration, given first as computed by FirstSets. $ is always in
// FOLLOW(start symbol).
func (g *Grammar) FollowSets(first map[string]SymbolSet) map[string]SymbolSet {
	follow := make(map[string]SymbolSet)
	for _, nt := range g.nonterminals {
		follow[nt] = newSymbolSet()
	}
	if g.start != "" {
		s := follow[g.start]
		s.Terminals[EndMarker] = true
		follow[g.start] = s
	}

	changed := true
	for changed {
		changed = false
		for _, p := range g.productions {
			for i, sym := range p.Right {
				if sym.Terminal {
					continue
				}
				beta := p.Right[i+1:]
				betaFirst := FirstOfSequence(beta, first)

				dst := follow[sym.Name]
				added := false
				for t := range betaFirst.Terminals {
					if !dst.Terminals[t] {
						dst.Terminals[t] = true
						added = true
					}
				}
				if len(beta) == 0 || betaFirst.Epsilon {
					for t := range follow[p.Left].Terminals {
						if !dst.Terminals[t] {
							dst.Terminals[t] = true
							added = true
						}
					}
				}
				if added {
					follow[sym.Name] = dst
					changed = true
				}
			}
		}
	}
	return follow
}

func unionInto(dst *SymbolSet, src SymbolSet) bool {
	changed := false
	for t := range src.Terminals {
		if !dst.Terminals[t] {
			dst.Terminals[t] = true
			changed = true
		}
	}
	if src.Epsilon && !dst.Epsilon {
		dst.Epsilon = true
		changed = true
	}
	return changed
}
