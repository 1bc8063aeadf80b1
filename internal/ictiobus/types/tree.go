package types

import (
	"fmt"
	"strings"
)

const (
	treeLevelEmpty     = "        "
	treeLevelOngoing   = "  |     "
	treeLevelPrefix    = "  |%s: "
	treeLevelPrefixEnd = `  \%s: `
)

// ParseTree is the output of a predictive parse: a derivation tree whose
// interior nodes are nonterminals and whose leaves are the terminals (or
// epsilon productions) actually matched against the token stream.
type ParseTree struct {
	// Terminal is whether this node stands for a terminal symbol (including
	// an epsilon leaf) rather than a nonterminal.
	Terminal bool

	// Symbol names the grammar symbol at this node: a nonterminal name, a
	// terminal name, or the empty string for an epsilon leaf.
	Symbol string

	// Source is the token this node was matched against. Only meaningful
	// when Terminal is true and Symbol is not an epsilon leaf.
	Source Token

	// Children holds this node's children left to right. Empty for terminal
	// nodes.
	Children []*ParseTree
}

// String returns a prettified, line-by-line representation of the tree
// suitable for use in golden-file comparisons.
func (pt ParseTree) String() string {
	return pt.leveledStr("", "")
}

func (pt ParseTree) leveledStr(firstPrefix, contPrefix string) string {
	var sb strings.Builder

	sb.WriteString(firstPrefix)
	if pt.Terminal {
		sb.WriteString(fmt.Sprintf("(TERM %q)", pt.Symbol))
	} else {
		sb.WriteString(fmt.Sprintf("( %s )", pt.Symbol))
	}

	for i, child := range pt.Children {
		sb.WriteRune('\n')
		var nextFirst, nextCont string
		if i+1 < len(pt.Children) {
			nextFirst = contPrefix + fmt.Sprintf(treeLevelPrefix, "")
			nextCont = contPrefix + treeLevelOngoing
		} else {
			nextFirst = contPrefix + fmt.Sprintf(treeLevelPrefixEnd, "")
			nextCont = contPrefix + treeLevelEmpty
		}
		sb.WriteString(child.leveledStr(nextFirst, nextCont))
	}

	return sb.String()
}

// Equal reports whether two parse trees have identical structure: same
// Terminal flag, same Symbol, and recursively equal Children in the same
// order. Source tokens are not compared.
func (pt *ParseTree) Equal(other *ParseTree) bool {
	if pt == nil || other == nil {
		return pt == other
	}
	if pt.Terminal != other.Terminal || pt.Symbol != other.Symbol {
		return false
	}
	if len(pt.Children) != len(other.Children) {
		return false
	}
	for i := range pt.Children {
		if !pt.Children[i].Equal(other.Children[i]) {
			return false
		}
	}
	return true
}
