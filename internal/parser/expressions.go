package parser

import (
	"strconv"

	"github.com/orus-lang/orus/internal/ast"
	"github.com/orus-lang/orus/internal/lexer"
	"github.com/orus-lang/orus/internal/token"
)

func (p *Parser) parseIntegerLiteral() ast.Expression {
	tok := p.advance()
	digits, suffix := lexer.SplitIntLiteral(tok.Lexeme)
	v, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		p.errorf("P010", tok, "invalid integer literal %q", tok.Lexeme)
	}
	return &ast.IntegerLiteral{Token: tok, Value: v, Suffix: suffix}
}

func (p *Parser) parseFloatLiteral() ast.Expression {
	tok := p.advance()
	return &ast.FloatLiteral{Token: tok, Value: lexer.MustParseFloat(tok.Lexeme)}
}

func (p *Parser) parseStringLiteral() ast.Expression {
	tok := p.advance()
	return &ast.StringLiteral{Token: tok, Value: tok.Lexeme}
}

func (p *Parser) parseBoolLiteral() ast.Expression {
	tok := p.advance()
	return &ast.BoolLiteral{Token: tok, Value: tok.Type == token.TRUE}
}

func (p *Parser) parseNilLiteral() ast.Expression {
	tok := p.advance()
	return &ast.NilLiteral{Token: tok}
}

// parseIdentifierOrStruct disambiguates `Name` from `Name{...}` (a
// struct literal), unless noStructLiteral suppresses the latter (see
// Parser.noStructLiteral).
func (p *Parser) parseIdentifierOrStruct() ast.Expression {
	tok := p.advance()
	if !p.noStructLiteral && p.curIs(token.LBRACE) {
		return p.parseStructLiteralBody(tok)
	}
	if p.curIs(token.LT) && p.looksLikeGenericArgs() {
		// Generic call or struct literal: StructName<T>{...} or fn<T>(...)
		generics := p.parseGenericArgList()
		if p.curIs(token.LBRACE) {
			sl := p.parseStructLiteralBody(tok).(*ast.StructLiteral)
			sl.GenericArgs = generics
			return sl
		}
		id := &ast.Identifier{Token: tok, Name: tok.Lexeme}
		call := p.finishCall(id)
		call.GenericArgs = generics
		return call
	}
	return &ast.Identifier{Token: tok, Name: tok.Lexeme}
}

// looksLikeGenericArgs peeks ahead from a `<` to see whether it closes
// with `>` followed by `(` or `{`, the same lookahead trick spec §9
// attributes to the teacher's parser ("peeks ahead... by scanning for
// a matching `>` followed by `{` or `(`").
func (p *Parser) looksLikeGenericArgs() bool {
	depth := 0
	for i := p.pos; i < len(p.tokens); i++ {
		switch p.tokens[i].Type {
		case token.LT:
			depth++
		case token.GT:
			depth--
			if depth == 0 {
				if i+1 < len(p.tokens) {
					nt := p.tokens[i+1].Type
					return nt == token.LPAREN || nt == token.LBRACE
				}
				return false
			}
		case token.NEWLINE, token.SEMICOLON, token.RBRACE:
			return false
		}
	}
	return false
}

func (p *Parser) parseGenericArgList() []ast.TypeExpr {
	p.expect(token.LT)
	var args []ast.TypeExpr
	for !p.curIs(token.GT) {
		args = append(args, p.parseTypeExpr())
		if p.curIs(token.COMMA) {
			p.advance()
		}
	}
	p.expect(token.GT)
	return args
}

func (p *Parser) parseStructLiteralBody(nameTok token.Token) ast.Expression {
	lit := &ast.StructLiteral{Token: nameTok, StructName: nameTok.Lexeme}
	p.expect(token.LBRACE)
	p.skipNewlines()
	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		fieldTok := p.expect(token.IDENT)
		p.expect(token.COLON)
		val := p.parseExpression(LOWEST)
		lit.Fields = append(lit.Fields, ast.StructLiteralField{Name: fieldTok.Lexeme, Value: val})
		p.skipNewlines()
		if p.curIs(token.COMMA) {
			p.advance()
			p.skipNewlines()
		}
	}
	p.expect(token.RBRACE)
	return lit
}

func (p *Parser) parseGroupedExpression() ast.Expression {
	p.advance() // (
	expr := p.parseExpression(LOWEST)
	p.expect(token.RPAREN)
	return expr
}

func (p *Parser) parseArrayLiteral() ast.Expression {
	tok := p.advance() // [
	lit := &ast.ArrayLiteral{Token: tok}
	for !p.curIs(token.RBRACKET) && !p.curIs(token.EOF) {
		lit.Elements = append(lit.Elements, p.parseExpression(LOWEST))
		if p.curIs(token.COMMA) {
			p.advance()
		}
	}
	p.expect(token.RBRACKET)
	return lit
}

func (p *Parser) parseUnaryExpression() ast.Expression {
	tok := p.advance()
	operand := p.parseExpression(UNARY)
	return &ast.UnaryExpression{Token: tok, Operator: tok.Type, Operand: operand}
}

func (p *Parser) parseBinaryExpression(left ast.Expression) ast.Expression {
	tok := p.advance()
	prec := p.precedenceOf(tok.Type)
	right := p.parseExpression(prec)
	return &ast.BinaryExpression{Token: tok, Operator: tok.Type, Left: left, Right: right}
}

func (p *Parser) precedenceOf(t token.Type) int {
	if pr, ok := precedences[t]; ok {
		return pr
	}
	return LOWEST
}

func (p *Parser) parseLogicalExpression(left ast.Expression) ast.Expression {
	tok := p.advance()
	prec := p.precedenceOf(tok.Type)
	right := p.parseExpression(prec)
	return &ast.LogicalExpression{Token: tok, Operator: tok.Type, Left: left, Right: right}
}

func (p *Parser) parseCastExpression(left ast.Expression) ast.Expression {
	tok := p.advance() // as
	target := p.parseTypeExpr()
	return &ast.CastExpression{Token: tok, Operand: left, TargetType: target}
}

func (p *Parser) parseCallExpression(left ast.Expression) ast.Expression {
	return p.finishCall(left)
}

func (p *Parser) finishCall(callee ast.Expression) *ast.CallExpression {
	tok := p.expect(token.LPAREN)
	call := &ast.CallExpression{Token: tok, Callee: callee}
	for !p.curIs(token.RPAREN) && !p.curIs(token.EOF) {
		call.Args = append(call.Args, p.parseExpression(LOWEST))
		if p.curIs(token.COMMA) {
			p.advance()
		}
	}
	p.expect(token.RPAREN)
	return call
}

func (p *Parser) parseIndexOrSliceExpression(left ast.Expression) ast.Expression {
	tok := p.advance() // [
	if p.curIs(token.COLON) {
		p.advance()
		end := p.parseExpression(LOWEST)
		p.expect(token.RBRACKET)
		return &ast.SliceExpression{Token: tok, Array: left, End: end}
	}
	first := p.parseExpression(LOWEST)
	if p.curIs(token.COLON) {
		p.advance()
		var end ast.Expression
		if !p.curIs(token.RBRACKET) {
			end = p.parseExpression(LOWEST)
		}
		p.expect(token.RBRACKET)
		return &ast.SliceExpression{Token: tok, Array: left, Start: first, End: end}
	}
	p.expect(token.RBRACKET)
	return &ast.IndexExpression{Token: tok, Array: left, Index: first}
}

func (p *Parser) parseFieldAccessExpression(left ast.Expression) ast.Expression {
	tok := p.advance() // .
	name := p.expect(token.IDENT)
	if p.curIs(token.LPAREN) {
		// Type.method(...) or instance.method(...) call: keep the
		// receiver shape so the checker can disambiguate (§4.1 "Call").
		fa := &ast.FieldAccessExpression{Token: tok, Receiver: left, FieldName: name.Lexeme}
		return p.finishCall(fa)
	}
	return &ast.FieldAccessExpression{Token: tok, Receiver: left, FieldName: name.Lexeme}
}
