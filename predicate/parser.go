package predicate

import (
	"strings"

	"github.com/wardenkit/warden/schema"
)

// Compile parses the textual filter/sort form into a predicate tree,
// resolving identifiers against the given schema. Compilation is
// deterministic: the same text always yields a structurally equal tree.
//
// A top-level comma produces a List, so "name, -age" compiles to an
// ordered list of sort keys.
func Compile(text string, sc *schema.Schema) (Expr, error) {
	tokens, err := lexAll(text)
	if err != nil {
		return nil, err
	}
	p := &parser{sc: sc, tokens: tokens}
	e, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if p.match(tokComma) {
		elems := []Expr{e}
		for p.match(tokComma) {
			p.advance()
			next, err := p.parseOr()
			if err != nil {
				return nil, err
			}
			elems = append(elems, next)
		}
		e = &List{Elems: elems}
	}
	if !p.match(tokEOF) {
		return nil, &UnsupportedError{Fragment: p.current().fragment()}
	}
	return e, nil
}

type parser struct {
	sc     *schema.Schema
	tokens []token
	pos    int
}

func (p *parser) parseOr() (Expr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	children := []Expr{left}
	for p.keyword("or") {
		p.advance()
		next, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		children = append(children, next)
	}
	if len(children) == 1 {
		return left, nil
	}
	return &Logic{Op: LogicOr, Children: children}, nil
}

func (p *parser) parseAnd() (Expr, error) {
	left, err := p.parseCompare()
	if err != nil {
		return nil, err
	}
	children := []Expr{left}
	for p.keyword("and") {
		p.advance()
		next, err := p.parseCompare()
		if err != nil {
			return nil, err
		}
		children = append(children, next)
	}
	if len(children) == 1 {
		return left, nil
	}
	return &Logic{Op: LogicAnd, Children: children}, nil
}

func (p *parser) parseCompare() (Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	op, ok := p.compareOp()
	if !ok {
		return left, nil
	}
	p.advance()
	right, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	// Chained comparisons (a < b < c) are outside the grammar.
	if _, chained := p.compareOp(); chained {
		return nil, &UnsupportedError{Fragment: left.String() + " " + op.String() + " " + right.String() + " " + p.current().fragment()}
	}
	return &Compare{Op: op, Left: left, Right: right}, nil
}

func (p *parser) parseUnary() (Expr, error) {
	switch p.current().kind {
	case tokMinus, tokPlus:
		desc := p.current().kind == tokMinus
		sign := p.current().text
		p.advance()
		tok := p.current()
		switch tok.kind {
		case tokInt:
			p.advance()
			if desc {
				return &Constant{Value: -tok.i}, nil
			}
			return &Constant{Value: tok.i}, nil
		case tokFloat:
			p.advance()
			if desc {
				return &Constant{Value: -tok.num}, nil
			}
			return &Constant{Value: tok.num}, nil
		case tokIdent:
			if isKeyword(tok.text) {
				return nil, &UnsupportedError{Fragment: sign + tok.text}
			}
			if _, err := p.sc.Field(tok.text); err != nil {
				return nil, err
			}
			p.advance()
			return &Order{Field: tok.text, Desc: desc}, nil
		default:
			return nil, &UnsupportedError{Fragment: sign + tok.fragment()}
		}
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (Expr, error) {
	tok := p.current()
	switch tok.kind {
	case tokInt:
		p.advance()
		return &Constant{Value: tok.i}, nil
	case tokFloat:
		p.advance()
		return &Constant{Value: tok.num}, nil
	case tokString:
		p.advance()
		return &Constant{Value: tok.str}, nil
	case tokIdent:
		switch strings.ToLower(tok.text) {
		case "true":
			p.advance()
			return &Constant{Value: true}, nil
		case "false":
			p.advance()
			return &Constant{Value: false}, nil
		case "nil":
			p.advance()
			return &Constant{Value: nil}, nil
		case "not", "and", "or", "in":
			return nil, &UnsupportedError{Fragment: tok.text}
		}
		if _, err := p.sc.Field(tok.text); err != nil {
			return nil, err
		}
		p.advance()
		// Calls are outside the grammar.
		if p.match(tokLParen) {
			return nil, &UnsupportedError{Fragment: tok.text + "("}
		}
		return &FieldRef{Name: tok.text}, nil
	case tokLBracket:
		p.advance()
		return p.parseList(tokRBracket)
	case tokLParen:
		p.advance()
		e, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if p.match(tokComma) {
			elems := []Expr{e}
			for p.match(tokComma) {
				p.advance()
				if p.match(tokRParen) { // trailing comma
					break
				}
				next, err := p.parseOr()
				if err != nil {
					return nil, err
				}
				elems = append(elems, next)
			}
			e = &List{Elems: elems}
		}
		if !p.match(tokRParen) {
			return nil, &UnsupportedError{Fragment: p.current().fragment()}
		}
		p.advance()
		return e, nil
	default:
		return nil, &UnsupportedError{Fragment: tok.fragment()}
	}
}

func (p *parser) parseList(closing tokenKind) (Expr, error) {
	var elems []Expr
	for !p.match(closing) {
		e, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		elems = append(elems, e)
		if p.match(tokComma) {
			p.advance()
			continue
		}
		break
	}
	if !p.match(closing) {
		return nil, &UnsupportedError{Fragment: p.current().fragment()}
	}
	p.advance()
	return &List{Elems: elems}, nil
}

func (p *parser) compareOp() (Op, bool) {
	switch p.current().kind {
	case tokEQ:
		return OpEQ, true
	case tokNEQ:
		return OpNEQ, true
	case tokLT:
		return OpLT, true
	case tokLTE:
		return OpLTE, true
	case tokGT:
		return OpGT, true
	case tokGTE:
		return OpGTE, true
	case tokIdent:
		if strings.ToLower(p.current().text) == "in" {
			return OpIn, true
		}
	}
	return 0, false
}

func (p *parser) keyword(kw string) bool {
	tok := p.current()
	return tok.kind == tokIdent && strings.ToLower(tok.text) == kw
}

func isKeyword(text string) bool {
	switch strings.ToLower(text) {
	case "and", "or", "in", "not", "true", "false", "nil":
		return true
	}
	return false
}

func (p *parser) current() token {
	if p.pos < len(p.tokens) {
		return p.tokens[p.pos]
	}
	return token{kind: tokEOF}
}

func (p *parser) advance() {
	if p.pos < len(p.tokens) {
		p.pos++
	}
}

func (p *parser) match(kind tokenKind) bool {
	return p.current().kind == kind
}
