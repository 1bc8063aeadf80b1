// Package loader implements the two line-oriented source formats the CLI
// reads: a grammar-source loader and a matching token-list loader. Neither
// performs any conflict analysis; they are purely syntactic, handing a
// Grammar or a token-definition list to the real generator packages.
package loader

import (
	"fmt"
	"strings"

	"github.com/dekarrin/ictiobus/internal/ictiobus/grammar"
)

// epsilonSymbol is the token a grammar source line uses to spell an empty
// production.
const epsilonSymbol = "ε"

// Classify maps a bare symbol name appearing on the right-hand side of a
// grammar rule to how it should be registered. When name is a terminal,
// tokenID is the id to register it under; isTerminal is false for
// nonterminals, in which case tokenID is ignored. ok is false if name is
// not a symbol the caller's language recognizes at all.
type Classify func(name string) (tokenID int, isTerminal bool, ok bool)

// ParseGrammar parses src, a line-oriented grammar source, adding every
// production it finds to g. The format:
//
//	LHS -> RHS | RHS | ...
//	    | RHS continues the previous LHS across lines
//	# or // starts a comment; blank lines are ignored
//
// Every symbol on a RHS is resolved via classify; an LHS nonterminal name is
// registered with g.AddNonTerminal on first sight. The first LHS parsed
// becomes g's start symbol (grammar.Grammar's own "first nonterminal added"
// rule), unless g already has a nonterminal registered before this call.
func ParseGrammar(src string, g *grammar.Grammar, classify Classify) error {
	var currentLHS string
	haveLHS := false

	for lineNo, raw := range strings.Split(src, "\n") {
		line := stripComment(raw)
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		var lhs, rest string
		if strings.HasPrefix(line, "|") {
			if !haveLHS {
				return fmt.Errorf("loader: line %d: leading '|' continuation with no preceding rule", lineNo+1)
			}
			lhs = currentLHS
			rest = strings.TrimSpace(line[1:])
		} else {
			arrow := strings.Index(line, "->")
			if arrow < 0 {
				return fmt.Errorf("loader: line %d: expected '->' in rule %q", lineNo+1, line)
			}
			lhs = strings.TrimSpace(line[:arrow])
			if lhs == "" {
				return fmt.Errorf("loader: line %d: rule has no left-hand side", lineNo+1)
			}
			rest = strings.TrimSpace(line[arrow+2:])
			currentLHS = lhs
			haveLHS = true
		}

		g.AddNonTerminal(lhs)

		for _, alt := range strings.Split(rest, "|") {
			alt = strings.TrimSpace(alt)
			right, err := parseRHS(alt, g, classify)
			if err != nil {
				return fmt.Errorf("loader: line %d: %w", lineNo+1, err)
			}
			g.AddProduction(lhs, right)
		}
	}

	if !haveLHS {
		return fmt.Errorf("loader: no rules found in grammar source")
	}
	return nil
}

func parseRHS(alt string, g *grammar.Grammar, classify Classify) ([]grammar.Symbol, error) {
	if alt == "" || alt == epsilonSymbol {
		return nil, nil
	}

	fields := strings.Fields(alt)
	right := make([]grammar.Symbol, 0, len(fields))
	for _, name := range fields {
		tokenID, isTerminal, ok := classify(name)
		if !ok {
			return nil, fmt.Errorf("unrecognized symbol %q", name)
		}
		if isTerminal {
			g.AddTerminal(name, tokenID)
			right = append(right, grammar.Term(name))
		} else {
			g.AddNonTerminal(name)
			right = append(right, grammar.NonTerm(name))
		}
	}
	return right, nil
}

// stripComment removes a trailing "# ..." or "// ..." comment from line,
// respecting neither strings nor escapes: it cuts at the first comment
// marker. The grammar source format has no quoting; ParseTokenList uses the
// same scan, so a '#' or "//" inside a quoted token pattern also starts a
// comment.
func stripComment(line string) string {
	if idx := strings.Index(line, "//"); idx >= 0 {
		line = line[:idx]
	}
	if idx := strings.Index(line, "#"); idx >= 0 {
		line = line[:idx]
	}
	return line
}
