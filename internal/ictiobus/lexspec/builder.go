// Package lexspec combines an ordered list of token definitions into the
// single regex AST a DFA is built from. Each token's pattern R becomes
// Concat(R, Leaf('#', endPos)), and the combined tree is the left-to-right
// Or of all of them, so the same Aho-Sethi-Ullman machinery in regexast
// treats the whole lexicon as one regex.
package lexspec

import (
	"fmt"

	"github.com/dekarrin/ictiobus/internal/ictiobus/icterrors"
	"github.com/dekarrin/ictiobus/internal/ictiobus/position"
	"github.com/dekarrin/ictiobus/internal/ictiobus/regexast"
	"github.com/dekarrin/ictiobus/internal/ictiobus/regexparse"
)

// endMarker is the symbol every token pattern is suffixed with before being
// combined. It never appears in actual source text being tokenized, and
// automaton.Build leaves this byte out of any alphabet it derives.
const endMarker = '#'

// TokenDef is one entry in the ordered list of token definitions a tokenizer
// recognizes. ID is the terminal id reported for a match; priority is the
// entry's position in the list -- earlier entries win maximal-munch ties.
type TokenDef struct {
	ID      int
	Name    string
	Pattern string
}

// Result is the outcome of combining a token list into one AST.
type Result struct {
	Root *regexast.Node

	// PosToToken maps every end-marker leaf's position to the token id whose
	// pattern it terminates. Used by automaton.Build to label accept states.
	PosToToken map[int]int

	// Warnings collects every regexparse warning across all patterns, each
	// prefixed with the offending token's name.
	Warnings []string
}

// Combine parses every pattern in defs and joins them into one tree, in list
// order, under left-to-right Or. counter assigns every leaf position --
// including the end markers -- so it must not be reused across an unrelated
// build.
func Combine(counter *regexast.PositionCounter, defs []TokenDef) (Result, error) {
	if len(defs) == 0 {
		return Result{}, fmt.Errorf("lexspec: no token definitions given")
	}

	result := Result{PosToToken: make(map[int]int, len(defs))}

	for _, def := range defs {
		parsed, err := regexparse.Parse(def.Pattern, counter)
		if err != nil {
			return Result{}, fmt.Errorf("token %q: %w", def.Name, err)
		}
		for _, w := range parsed.Warnings {
			result.Warnings = append(result.Warnings, fmt.Sprintf("token %q: %s", def.Name, w))
		}

		endPos := counter.Next()
		if endPos > position.MaxPositions {
			return Result{}, icterrors.NewFatalf("lexspec: token %q pushes the position count past %d", def.Name, position.MaxPositions)
		}
		result.PosToToken[endPos] = def.ID

		end := regexast.NewLeaf(endMarker, endPos)
		tokenTree := regexast.NewConcat(parsed.Root, end)

		if result.Root == nil {
			result.Root = tokenTree
		} else {
			result.Root = regexast.NewOr(result.Root, tokenTree)
		}
	}

	return result, nil
}
