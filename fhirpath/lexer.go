package fhirpath

import (
	"strings"

	"github.com/gofhir/sqlonfhir/issue"
)

// lexer turns a FHIRPath expression string into a flat token stream.
// Hand-rolled rather than generated: the dialect is small (spec.md
// §4.2 enumerates the entire grammar surface) and there is no ANTLR
// grammar for it available in the retrieval pack to ground a generated
// parser on.
type lexer struct {
	src string
	pos int
}

func newLexer(src string) *lexer {
	return &lexer{src: src}
}

func (l *lexer) tokenize() ([]token, error) {
	var toks []token
	for {
		tok, err := l.next()
		if err != nil {
			return nil, err
		}
		toks = append(toks, tok)
		if tok.kind == tokEOF {
			return toks, nil
		}
	}
}

func (l *lexer) next() (token, error) {
	l.skipSpace()
	if l.pos >= len(l.src) {
		return token{kind: tokEOF, pos: l.pos}, nil
	}

	start := l.pos
	c := l.src[l.pos]

	switch {
	case c == '.':
		l.pos++
		return token{kind: tokDot, text: ".", pos: start}, nil
	case c == '(':
		l.pos++
		return token{kind: tokLParen, text: "(", pos: start}, nil
	case c == ')':
		l.pos++
		return token{kind: tokRParen, text: ")", pos: start}, nil
	case c == '[':
		l.pos++
		return token{kind: tokLBracket, text: "[", pos: start}, nil
	case c == ']':
		l.pos++
		return token{kind: tokRBracket, text: "]", pos: start}, nil
	case c == ',':
		l.pos++
		return token{kind: tokComma, text: ",", pos: start}, nil
	case c == '=':
		l.pos++
		return token{kind: tokEq, text: "=", pos: start}, nil
	case c == '!' && l.pos+1 < len(l.src) && l.src[l.pos+1] == '=':
		l.pos += 2
		return token{kind: tokNeq, text: "!=", pos: start}, nil
	case c == '\'' || c == '"':
		return l.lexString(c)
	case c == '@':
		return l.lexDate()
	case c == '$':
		return l.lexThis()
	case isDigit(c):
		return l.lexNumber()
	case isIdentStart(c):
		return l.lexIdentOrKeyword()
	default:
		return token{}, issue.At(issue.ParseError, "", "unexpected character %q at position %d", c, l.pos)
	}
}

func (l *lexer) skipSpace() {
	for l.pos < len(l.src) && (l.src[l.pos] == ' ' || l.src[l.pos] == '\t' || l.src[l.pos] == '\n' || l.src[l.pos] == '\r') {
		l.pos++
	}
}

func (l *lexer) lexString(quote byte) (token, error) {
	start := l.pos
	l.pos++ // skip opening quote
	var sb strings.Builder
	for {
		if l.pos >= len(l.src) {
			return token{}, issue.At(issue.ParseError, "", "unterminated string literal starting at position %d", start)
		}
		c := l.src[l.pos]
		if c == quote {
			l.pos++
			return token{kind: tokString, text: sb.String(), pos: start}, nil
		}
		if c == '\\' && l.pos+1 < len(l.src) {
			l.pos++
			sb.WriteByte(l.src[l.pos])
			l.pos++
			continue
		}
		sb.WriteByte(c)
		l.pos++
	}
}

func (l *lexer) lexDate() (token, error) {
	start := l.pos
	l.pos++ // skip '@'
	for l.pos < len(l.src) && (isDigit(l.src[l.pos]) || l.src[l.pos] == '-' || l.src[l.pos] == ':' || l.src[l.pos] == 'T' || l.src[l.pos] == '.' || l.src[l.pos] == 'Z' || l.src[l.pos] == '+') {
		l.pos++
	}
	if l.pos == start+1 {
		return token{}, issue.At(issue.ParseError, "", "empty date literal at position %d", start)
	}
	return token{kind: tokDate, text: l.src[start+1 : l.pos], pos: start}, nil
}

func (l *lexer) lexThis() (token, error) {
	start := l.pos
	const want = "$this"
	if strings.HasPrefix(l.src[l.pos:], want) {
		l.pos += len(want)
		return token{kind: tokThis, text: want, pos: start}, nil
	}
	return token{}, issue.At(issue.ParseError, "", "unrecognised token at position %d", start)
}

func (l *lexer) lexNumber() (token, error) {
	start := l.pos
	for l.pos < len(l.src) && isDigit(l.src[l.pos]) {
		l.pos++
	}
	if l.pos < len(l.src) && l.src[l.pos] == '.' && l.pos+1 < len(l.src) && isDigit(l.src[l.pos+1]) {
		l.pos++
		for l.pos < len(l.src) && isDigit(l.src[l.pos]) {
			l.pos++
		}
	}
	return token{kind: tokNumber, text: l.src[start:l.pos], pos: start}, nil
}

func (l *lexer) lexIdentOrKeyword() (token, error) {
	start := l.pos
	for l.pos < len(l.src) && isIdentPart(l.src[l.pos]) {
		l.pos++
	}
	text := l.src[start:l.pos]
	switch text {
	case "true":
		return token{kind: tokTrue, text: text, pos: start}, nil
	case "false":
		return token{kind: tokFalse, text: text, pos: start}, nil
	case "and":
		return token{kind: tokAnd, text: text, pos: start}, nil
	case "or":
		return token{kind: tokOr, text: text, pos: start}, nil
	case "not":
		return token{kind: tokNot, text: text, pos: start}, nil
	default:
		return token{kind: tokIdent, text: text, pos: start}, nil
	}
}

func isDigit(c byte) bool      { return c >= '0' && c <= '9' }
func isIdentStart(c byte) bool { return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') }
func isIdentPart(c byte) bool  { return isIdentStart(c) || isDigit(c) }
