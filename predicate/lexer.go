package predicate

import (
	"strconv"
	"strings"
	"unicode"
)

type tokenKind int

const (
	tokIdent tokenKind = iota
	tokInt
	tokFloat
	tokString
	tokEQ
	tokNEQ
	tokLT
	tokLTE
	tokGT
	tokGTE
	tokLParen
	tokRParen
	tokLBracket
	tokRBracket
	tokComma
	tokMinus
	tokPlus
	tokEOF
)

type token struct {
	kind tokenKind
	text string // raw source fragment
	num  float64
	i    int64
	str  string
}

func (t token) fragment() string {
	if t.kind == tokEOF {
		return "end of expression"
	}
	return t.text
}

type lexer struct {
	input []rune
	pos   int
}

func lexAll(input string) ([]token, error) {
	l := &lexer{input: []rune(input)}
	var tokens []token
	for {
		tok, err := l.next()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		if tok.kind == tokEOF {
			return tokens, nil
		}
	}
}

func (l *lexer) next() (token, error) {
	for l.pos < len(l.input) && unicode.IsSpace(l.input[l.pos]) {
		l.pos++
	}
	if l.pos >= len(l.input) {
		return token{kind: tokEOF}, nil
	}

	ch := l.input[l.pos]
	switch ch {
	case '(':
		l.pos++
		return token{kind: tokLParen, text: "("}, nil
	case ')':
		l.pos++
		return token{kind: tokRParen, text: ")"}, nil
	case '[':
		l.pos++
		return token{kind: tokLBracket, text: "["}, nil
	case ']':
		l.pos++
		return token{kind: tokRBracket, text: "]"}, nil
	case ',':
		l.pos++
		return token{kind: tokComma, text: ","}, nil
	case '-':
		l.pos++
		return token{kind: tokMinus, text: "-"}, nil
	case '+':
		l.pos++
		return token{kind: tokPlus, text: "+"}, nil
	case '=':
		l.pos++
		if l.peek() == '=' {
			l.pos++
			return token{kind: tokEQ, text: "=="}, nil
		}
		return token{kind: tokEQ, text: "="}, nil
	case '!':
		l.pos++
		if l.peek() == '=' {
			l.pos++
			return token{kind: tokNEQ, text: "!="}, nil
		}
		return token{}, &UnsupportedError{Fragment: "!"}
	case '&':
		l.pos++
		if l.peek() == '&' {
			l.pos++
			return token{kind: tokIdent, text: "and"}, nil
		}
		return token{}, &UnsupportedError{Fragment: "&"}
	case '|':
		l.pos++
		if l.peek() == '|' {
			l.pos++
			return token{kind: tokIdent, text: "or"}, nil
		}
		return token{}, &UnsupportedError{Fragment: "|"}
	case '<':
		l.pos++
		if l.peek() == '=' {
			l.pos++
			return token{kind: tokLTE, text: "<="}, nil
		}
		return token{kind: tokLT, text: "<"}, nil
	case '>':
		l.pos++
		if l.peek() == '=' {
			l.pos++
			return token{kind: tokGTE, text: ">="}, nil
		}
		return token{kind: tokGT, text: ">"}, nil
	case '\'', '"':
		return l.scanString(ch)
	}

	if unicode.IsDigit(ch) {
		return l.scanNumber()
	}
	if unicode.IsLetter(ch) || ch == '_' {
		return l.scanIdent()
	}
	return token{}, &UnsupportedError{Fragment: string(ch)}
}

func (l *lexer) peek() rune {
	if l.pos < len(l.input) {
		return l.input[l.pos]
	}
	return 0
}

func (l *lexer) scanString(quote rune) (token, error) {
	start := l.pos
	l.pos++ // opening quote
	var sb strings.Builder
	for l.pos < len(l.input) {
		ch := l.input[l.pos]
		if ch == quote {
			l.pos++
			return token{kind: tokString, text: string(l.input[start:l.pos]), str: sb.String()}, nil
		}
		if ch == '\\' && l.pos+1 < len(l.input) {
			l.pos++
			switch l.input[l.pos] {
			case 'n':
				sb.WriteRune('\n')
			case 't':
				sb.WriteRune('\t')
			case 'r':
				sb.WriteRune('\r')
			default:
				sb.WriteRune(l.input[l.pos])
			}
			l.pos++
			continue
		}
		sb.WriteRune(ch)
		l.pos++
	}
	return token{}, &UnsupportedError{Fragment: "unterminated string"}
}

func (l *lexer) scanNumber() (token, error) {
	start := l.pos
	for l.pos < len(l.input) && unicode.IsDigit(l.input[l.pos]) {
		l.pos++
	}
	isFloat := false
	if l.pos < len(l.input) && l.input[l.pos] == '.' {
		isFloat = true
		l.pos++
		for l.pos < len(l.input) && unicode.IsDigit(l.input[l.pos]) {
			l.pos++
		}
	}
	text := string(l.input[start:l.pos])
	if isFloat {
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return token{}, &UnsupportedError{Fragment: text}
		}
		return token{kind: tokFloat, text: text, num: f}, nil
	}
	n, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return token{}, &UnsupportedError{Fragment: text}
	}
	return token{kind: tokInt, text: text, i: n}, nil
}

func (l *lexer) scanIdent() (token, error) {
	start := l.pos
	for l.pos < len(l.input) {
		ch := l.input[l.pos]
		if unicode.IsLetter(ch) || unicode.IsDigit(ch) || ch == '_' {
			l.pos++
			continue
		}
		break
	}
	text := string(l.input[start:l.pos])
	return token{kind: tokIdent, text: text}, nil
}
