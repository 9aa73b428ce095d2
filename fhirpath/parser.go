package fhirpath

import (
	"strconv"

	"github.com/cockroachdb/apd/v3"
	"github.com/gofhir/sqlonfhir/fhirvalue"
	"github.com/gofhir/sqlonfhir/issue"
)

// parser is a recursive-descent parser over the restricted dialect's
// token stream. Precedence, low to high: or, and, equality, unary,
// postfix (navigation/indexing/invocation), primary.
type parser struct {
	toks []token
	pos  int
}

// Parse compiles a FHIRPath expression string into an Expr tree.
func Parse(src string) (Expr, error) {
	toks, err := newLexer(src).tokenize()
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if p.cur().kind != tokEOF {
		return nil, issue.At(issue.ParseError, "", "unexpected trailing token %s at position %d", p.cur().kind, p.cur().pos)
	}
	return expr, nil
}

func (p *parser) cur() token  { return p.toks[p.pos] }
func (p *parser) advance()    { if p.pos < len(p.toks)-1 { p.pos++ } }

func (p *parser) expect(k tokenKind) (token, error) {
	if p.cur().kind != k {
		return token{}, issue.At(issue.ParseError, "", "expected %s, found %s at position %d", k, p.cur().kind, p.cur().pos)
	}
	t := p.cur()
	p.advance()
	return t, nil
}

func (p *parser) parseExpression() (Expr, error) {
	return p.parseOr()
}

func (p *parser) parseOr() (Expr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.cur().kind == tokOr {
		p.advance()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = BinaryExpr{Op: "or", Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parseAnd() (Expr, error) {
	left, err := p.parseEquality()
	if err != nil {
		return nil, err
	}
	for p.cur().kind == tokAnd {
		p.advance()
		right, err := p.parseEquality()
		if err != nil {
			return nil, err
		}
		left = BinaryExpr{Op: "and", Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parseEquality() (Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.cur().kind == tokEq || p.cur().kind == tokNeq {
		op := "="
		if p.cur().kind == tokNeq {
			op = "!="
		}
		p.advance()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = BinaryExpr{Op: op, Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parseUnary() (Expr, error) {
	if p.cur().kind == tokNot {
		p.advance()
		if _, err := p.expect(tokLParen); err != nil {
			return nil, err
		}
		inner, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokRParen); err != nil {
			return nil, err
		}
		return NotExpr{Arg: inner}, nil
	}
	return p.parsePostfix()
}

func (p *parser) parsePostfix() (Expr, error) {
	expr, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		switch p.cur().kind {
		case tokDot:
			p.advance()
			expr, err = p.parseInvocation(expr)
			if err != nil {
				return nil, err
			}
		case tokLBracket:
			p.advance()
			idx, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(tokRBracket); err != nil {
				return nil, err
			}
			expr = IndexExpr{Base: expr, Index: idx}
		default:
			return expr, nil
		}
	}
}

// parseInvocation parses the segment following a '.', which is either a
// bare field name or a function call, and attaches it to base.
func (p *parser) parseInvocation(base Expr) (Expr, error) {
	name, err := p.expect(tokIdent)
	if err != nil {
		return nil, err
	}
	if p.cur().kind != tokLParen {
		return PathExpr{Base: base, Name: name.text}, nil
	}
	args, err := p.parseArgList()
	if err != nil {
		return nil, err
	}
	return CallExpr{Base: base, Name: name.text, Args: args}, nil
}

func (p *parser) parseArgList() ([]Expr, error) {
	if _, err := p.expect(tokLParen); err != nil {
		return nil, err
	}
	var args []Expr
	if p.cur().kind == tokRParen {
		p.advance()
		return args, nil
	}
	for {
		arg, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if p.cur().kind == tokComma {
			p.advance()
			continue
		}
		break
	}
	if _, err := p.expect(tokRParen); err != nil {
		return nil, err
	}
	return args, nil
}

func (p *parser) parsePrimary() (Expr, error) {
	t := p.cur()
	switch t.kind {
	case tokThis:
		p.advance()
		return ThisExpr{}, nil
	case tokString:
		p.advance()
		return LiteralExpr{Value: fhirvalue.New(t.text, "string")}, nil
	case tokTrue:
		p.advance()
		return LiteralExpr{Value: fhirvalue.New(true, "boolean")}, nil
	case tokFalse:
		p.advance()
		return LiteralExpr{Value: fhirvalue.New(false, "boolean")}, nil
	case tokNumber:
		p.advance()
		return parseNumberLiteral(t.text)
	case tokDate:
		p.advance()
		fhirType := "date"
		if containsTime(t.text) {
			fhirType = "dateTime"
		}
		return LiteralExpr{Value: fhirvalue.New(t.text, fhirType)}, nil
	case tokLParen:
		p.advance()
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokRParen); err != nil {
			return nil, err
		}
		return expr, nil
	case tokIdent:
		p.advance()
		if p.cur().kind == tokLParen {
			args, err := p.parseArgList()
			if err != nil {
				return nil, err
			}
			return CallExpr{Name: t.text, Args: args}, nil
		}
		return PathExpr{Name: t.text}, nil
	default:
		return nil, issue.At(issue.ParseError, "", "unexpected token %s at position %d", t.kind, t.pos)
	}
}

func parseNumberLiteral(text string) (Expr, error) {
	var d apd.Decimal
	if _, _, err := d.SetString(text); err != nil {
		return nil, issue.At(issue.ParseError, "", "invalid numeric literal %q", text)
	}
	fhirType := "decimal"
	if _, err := strconv.ParseInt(text, 10, 64); err == nil {
		fhirType = "integer"
	}
	return LiteralExpr{Value: fhirvalue.New(text, fhirType)}, nil
}

func containsTime(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] == 'T' {
			return true
		}
	}
	return false
}
