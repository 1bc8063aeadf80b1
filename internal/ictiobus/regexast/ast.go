// Package regexast implements the regex abstract syntax tree and the
// Aho-Sethi-Ullman attribute computations (nullable, firstpos, lastpos,
// followpos) that the direct DFA construction in automaton is built on.
// Nodes are a single Kind-tagged struct with left/right children rather
// than an interface hierarchy; attributes are filled in post-order.
package regexast

import "github.com/dekarrin/ictiobus/internal/ictiobus/position"

// Kind discriminates the variant a Node holds.
type Kind int

const (
	Leaf Kind = iota
	Concat
	Or
	Star
	Plus
	Question
)

func (k Kind) String() string {
	switch k {
	case Leaf:
		return "Leaf"
	case Concat:
		return "Concat"
	case Or:
		return "Or"
	case Star:
		return "Star"
	case Plus:
		return "Plus"
	case Question:
		return "Question"
	default:
		return "Unknown"
	}
}

// Node is one node of a regex AST. Leaves carry Symbol and Position; Concat
// and Or carry both Left and Right; Star, Plus, and Question carry only
// Left. Every node carries the three attributes computed by ComputeFunctions
// once the tree rooted at it is complete: Nullable, First, Last.
//
// Interior nodes exclusively own their children; the root is owned by
// whichever caller built it (regexparse for one token's tree, lexspec for
// the combined tree).
type Node struct {
	Kind Kind

	Left  *Node
	Right *Node

	// Symbol is set only on Leaf nodes: the byte this leaf matches, or '#'
	// for an end-marker leaf (lexspec).
	Symbol byte

	// Position is set only on Leaf nodes: its unique position, assigned by
	// whichever Session built it. Never 0.
	Position int

	// Nullable, First, and Last are filled in post-order by
	// ComputeFunctions. They are meaningless before that call.
	Nullable bool
	First    position.Set
	Last     position.Set
}

// NewLeaf returns a Leaf node for the given symbol at the given position.
func NewLeaf(symbol byte, pos int) *Node {
	return &Node{Kind: Leaf, Symbol: symbol, Position: pos}
}

// NewConcat returns a Concat node joining left then right.
func NewConcat(left, right *Node) *Node {
	return &Node{Kind: Concat, Left: left, Right: right}
}

// NewOr returns an Or (alternation) node between left and right.
func NewOr(left, right *Node) *Node {
	return &Node{Kind: Or, Left: left, Right: right}
}

// NewStar returns a Star (Kleene closure) node over child.
func NewStar(child *Node) *Node {
	return &Node{Kind: Star, Left: child}
}

// NewPlus returns a Plus (positive closure) node over child.
func NewPlus(child *Node) *Node {
	return &Node{Kind: Plus, Left: child}
}

// NewQuestion returns a Question (optional) node over child.
func NewQuestion(child *Node) *Node {
	return &Node{Kind: Question, Left: child}
}

// ComputeFunctions performs a post-order traversal filling in Nullable,
// First, and Last for every node in the tree rooted at
// root. It is idempotent: calling it a second time on the same tree
// recomputes the same values, since each node's attributes are pure
// functions of its children.
func ComputeFunctions(root *Node) {
	if root == nil {
		return
	}

	switch root.Kind {
	case Leaf:
		root.Nullable = false
		root.First = position.Set{}
		root.First.Add(root.Position)
		root.Last = position.Set{}
		root.Last.Add(root.Position)

	case Or:
		ComputeFunctions(root.Left)
		ComputeFunctions(root.Right)
		root.Nullable = root.Left.Nullable || root.Right.Nullable
		root.First = position.Union(root.Left.First, root.Right.First)
		root.Last = position.Union(root.Left.Last, root.Right.Last)

	case Concat:
		ComputeFunctions(root.Left)
		ComputeFunctions(root.Right)
		root.Nullable = root.Left.Nullable && root.Right.Nullable
		if root.Left.Nullable {
			root.First = position.Union(root.Left.First, root.Right.First)
		} else {
			root.First = root.Left.First
		}
		if root.Right.Nullable {
			root.Last = position.Union(root.Left.Last, root.Right.Last)
		} else {
			root.Last = root.Right.Last
		}

	case Star:
		ComputeFunctions(root.Left)
		root.Nullable = true
		root.First = root.Left.First
		root.Last = root.Left.Last

	case Plus:
		ComputeFunctions(root.Left)
		// a+ over an already-nullable subexpression is itself nullable, so
		// this is the child's nullability, not unconditionally false.
		root.Nullable = root.Left.Nullable
		root.First = root.Left.First
		root.Last = root.Left.Last

	case Question:
		ComputeFunctions(root.Left)
		root.Nullable = true
		root.First = root.Left.First
		root.Last = root.Left.Last
	}
}

// ComputeFollowpos performs a second post-order traversal over a tree whose
// First/Last attributes have already been computed,
// adding to followpos[i] (for every position i) the positions that may
// immediately follow i in some string the tree can generate. followpos must
// be sized to at least position.MaxPositions+1 and indexed directly by
// position (index 0 is unused).
func ComputeFollowpos(root *Node, followpos []position.Set) {
	if root == nil {
		return
	}

	switch root.Kind {
	case Concat:
		ComputeFollowpos(root.Left, followpos)
		ComputeFollowpos(root.Right, followpos)
		for _, i := range root.Left.Last.Elements() {
			position.UnionInto(&followpos[i], &followpos[i], &root.Right.First)
		}

	case Star:
		ComputeFollowpos(root.Left, followpos)
		for _, i := range root.Left.Last.Elements() {
			position.UnionInto(&followpos[i], &followpos[i], &root.Left.First)
		}

	case Plus:
		ComputeFollowpos(root.Left, followpos)
		for _, i := range root.Left.Last.Elements() {
			position.UnionInto(&followpos[i], &followpos[i], &root.Left.First)
		}

	case Or:
		ComputeFollowpos(root.Left, followpos)
		ComputeFollowpos(root.Right, followpos)

	case Question:
		ComputeFollowpos(root.Left, followpos)

	case Leaf:
		// leaves contribute nothing of their own; their followpos entries
		// are populated by their ancestors above.
	}
}

// FindLeafByPosition does a depth-first search of the tree rooted at root
// for the unique leaf whose Position equals p, returning (leaf, true) if
// found or (nil, false) otherwise.
func FindLeafByPosition(root *Node, p int) (*Node, bool) {
	if root == nil {
		return nil, false
	}
	if root.Kind == Leaf {
		if root.Position == p {
			return root, true
		}
		return nil, false
	}
	if leaf, ok := FindLeafByPosition(root.Left, p); ok {
		return leaf, true
	}
	return FindLeafByPosition(root.Right, p)
}
