// Package regexparse turns one regex source string into a regexast tree
// with a hand-written recursive-descent parser following the grammar
//
//	Regex      -> Concat ConcatTail
//	ConcatTail -> '|' Concat ConcatTail | epsilon
//	Concat     -> Repeat Concat | epsilon
//	Repeat     -> Atom Postfix
//	Postfix    -> '*' | '+' | '?' | epsilon
//	Atom       -> CHAR | ESCAPE | '(' Regex ')' | '[' CharClass ']' | '.'
//	CharClass  -> '^'? CCItems
//	CCItems    -> CCItem CCItems | epsilon
//	CCItem     -> CHAR RangeOpt | ESCAPE
//	RangeOpt   -> '-' CHAR | epsilon
//
// which is LL(1) by construction, so the parser never backtracks. The
// epsilon alternative of Concat is not accepted: an empty pattern, an empty
// alternative such as "a|", or an empty group "()" is a syntax error.
package regexparse

import (
	"fmt"

	"github.com/dekarrin/ictiobus/internal/ictiobus/regexast"
)

// firstPrintable and lastPrintable bound the alternation '.' desugars to:
// printable ASCII, newline excluded (32..126 already excludes 10).
const (
	firstPrintable = 32
	lastPrintable  = 126
)

// metacharacters that end an atom or a concat/alternation run. Everything
// else not explicitly a metacharacter in this set is an ordinary CHAR.
const (
	metaAlt      = '|'
	metaStar     = '*'
	metaPlus     = '+'
	metaQuestion = '?'
	metaLParen   = '('
	metaRParen   = ')'
	metaLBracket = '['
	metaRBracket = ']'
	metaDot      = '.'
	metaEscape   = '\\'
	metaCaret    = '^'
	metaDash     = '-'
)

// Result holds the parsed tree along with any non-fatal warnings collected
// along the way (a negated character class is recognized but not
// implemented, and reported as a warning rather than a hard error).
type Result struct {
	Root     *regexast.Node
	Warnings []string
}

// Parse parses one regex source string into an AST, assigning leaf positions
// from counter. counter should be shared across every pattern combined into
// one tokenizer so that positions stay unique and monotonic.
func Parse(src string, counter *regexast.PositionCounter) (Result, error) {
	p := &parser{src: []byte(src), counter: counter}

	root, err := p.parseRegex()
	if err != nil {
		return Result{}, err
	}
	if p.pos != len(p.src) {
		return Result{}, fmt.Errorf("regex syntax error at byte %d: unexpected %q", p.pos, p.src[p.pos])
	}

	return Result{Root: root, Warnings: p.warnings}, nil
}

type parser struct {
	src      []byte
	pos      int
	counter  *regexast.PositionCounter
	warnings []string
}

func (p *parser) atEnd() bool {
	return p.pos >= len(p.src)
}

func (p *parser) peek() byte {
	if p.atEnd() {
		return 0
	}
	return p.src[p.pos]
}

func (p *parser) advance() byte {
	b := p.src[p.pos]
	p.pos++
	return b
}

// endsConcat reports whether the current position begins something that
// cannot start another Repeat: end of input, '|', or ')'. Used as the FOLLOW
// set a hand-rolled LL(1) parser checks instead of consulting a table.
func (p *parser) endsConcat() bool {
	if p.atEnd() {
		return true
	}
	switch p.peek() {
	case metaAlt, metaRParen:
		return true
	}
	return false
}

func (p *parser) parseRegex() (*regexast.Node, error) {
	left, err := p.parseConcat()
	if err != nil {
		return nil, err
	}
	return p.parseConcatTail(left)
}

func (p *parser) parseConcatTail(left *regexast.Node) (*regexast.Node, error) {
	if p.atEnd() || p.peek() != metaAlt {
		return left, nil
	}
	p.advance() // consume '|'

	right, err := p.parseConcat()
	if err != nil {
		return nil, err
	}
	combined := regexast.NewOr(left, right)
	return p.parseConcatTail(combined)
}

func (p *parser) parseConcat() (*regexast.Node, error) {
	if p.endsConcat() {
		return nil, fmt.Errorf("regex syntax error at byte %d: empty alternative", p.pos)
	}

	left, err := p.parseRepeat()
	if err != nil {
		return nil, err
	}

	for !p.endsConcat() {
		right, err := p.parseRepeat()
		if err != nil {
			return nil, err
		}
		left = regexast.NewConcat(left, right)
	}

	return left, nil
}

func (p *parser) parseRepeat() (*regexast.Node, error) {
	atom, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	return p.parsePostfix(atom)
}

func (p *parser) parsePostfix(atom *regexast.Node) (*regexast.Node, error) {
	if p.atEnd() {
		return atom, nil
	}
	switch p.peek() {
	case metaStar:
		p.advance()
		return regexast.NewStar(atom), nil
	case metaPlus:
		p.advance()
		return regexast.NewPlus(atom), nil
	case metaQuestion:
		p.advance()
		return regexast.NewQuestion(atom), nil
	default:
		return atom, nil
	}
}

func (p *parser) parseAtom() (*regexast.Node, error) {
	if p.atEnd() {
		return nil, fmt.Errorf("regex syntax error: unexpected end of pattern")
	}

	switch p.peek() {
	case metaLParen:
		p.advance()
		inner, err := p.parseRegex()
		if err != nil {
			return nil, err
		}
		if p.atEnd() || p.peek() != metaRParen {
			return nil, fmt.Errorf("regex syntax error at byte %d: expected ')'", p.pos)
		}
		p.advance()
		return inner, nil

	case metaLBracket:
		p.advance()
		node, err := p.parseCharClass()
		if err != nil {
			return nil, err
		}
		if p.atEnd() || p.peek() != metaRBracket {
			return nil, fmt.Errorf("regex syntax error at byte %d: expected ']'", p.pos)
		}
		p.advance()
		return node, nil

	case metaDot:
		p.advance()
		return p.dotNode(), nil

	case metaEscape:
		p.advance()
		if p.atEnd() {
			return nil, fmt.Errorf("regex syntax error: dangling escape at end of pattern")
		}
		b := p.advance()
		return regexast.NewLeaf(b, p.counter.Next()), nil

	case metaRParen, metaRBracket, metaStar, metaPlus, metaQuestion:
		return nil, fmt.Errorf("regex syntax error at byte %d: unexpected %q", p.pos, p.peek())

	default:
		b := p.advance()
		return regexast.NewLeaf(b, p.counter.Next()), nil
	}
}

// dotNode builds the alternation over printable ASCII that '.' desugars to.
func (p *parser) dotNode() *regexast.Node {
	var root *regexast.Node
	for b := firstPrintable; b <= lastPrintable; b++ {
		leaf := regexast.NewLeaf(byte(b), p.counter.Next())
		if root == nil {
			root = leaf
		} else {
			root = regexast.NewOr(root, leaf)
		}
	}
	return root
}

// parseCharClass parses CharClass -> '^'? CCItems and desugars it to an
// alternation of single-byte leaves. A leading '^' is recognized but
// negation is not implemented: it is recorded as a warning and the class is
// otherwise treated as its positive form.
func (p *parser) parseCharClass() (*regexast.Node, error) {
	if !p.atEnd() && p.peek() == metaCaret {
		p.advance()
		p.warnings = append(p.warnings, "negated character class '[^...]' is not supported; treating as non-negated")
	}

	var root *regexast.Node
	for !p.atEnd() && p.peek() != metaRBracket {
		item, err := p.parseCCItem()
		if err != nil {
			return nil, err
		}
		if root == nil {
			root = item
		} else {
			root = regexast.NewOr(root, item)
		}
	}

	if root == nil {
		return nil, fmt.Errorf("regex syntax error at byte %d: empty character class", p.pos)
	}

	return root, nil
}

// parseCCItem parses CCItem -> CHAR RangeOpt | ESCAPE.
func (p *parser) parseCCItem() (*regexast.Node, error) {
	var lo byte
	if p.peek() == metaEscape {
		p.advance()
		if p.atEnd() {
			return nil, fmt.Errorf("regex syntax error: dangling escape in character class")
		}
		lo = p.advance()
		return regexast.NewLeaf(lo, p.counter.Next()), nil
	}

	lo = p.advance()

	if p.atEnd() || p.peek() != metaDash {
		return regexast.NewLeaf(lo, p.counter.Next()), nil
	}

	// Lookahead for RangeOpt -> '-' CHAR, but a trailing '-' right before ']'
	// is just a literal dash, not the start of a range.
	if p.pos+1 < len(p.src) && p.src[p.pos+1] == metaRBracket {
		return regexast.NewLeaf(lo, p.counter.Next()), nil
	}

	p.advance() // consume '-'
	if p.atEnd() {
		return nil, fmt.Errorf("regex syntax error: dangling range in character class")
	}
	hi := p.advance()

	if hi < lo {
		return nil, fmt.Errorf("regex syntax error: invalid range %q-%q", lo, hi)
	}

	var root *regexast.Node
	for b := int(lo); b <= int(hi); b++ {
		leaf := regexast.NewLeaf(byte(b), p.counter.Next())
		if root == nil {
			root = leaf
		} else {
			root = regexast.NewOr(root, leaf)
		}
	}
	return root, nil
}
