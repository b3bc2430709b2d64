package parser

import (
	"github.com/orus-lang/orus/internal/ast"
	"github.com/orus-lang/orus/internal/token"
)

// parseTypeExpr parses a syntactic type annotation: a named type
// (optionally generic), an array type `[T]`, or a function type
// `fn(T, U) -> R`.
func (p *Parser) parseTypeExpr() ast.TypeExpr {
	switch p.cur().Type {
	case token.LBRACKET:
		tok := p.advance()
		elem := p.parseTypeExpr()
		p.expect(token.RBRACKET)
		return &ast.ArrayTypeExpr{Token: tok, Element: elem}
	case token.FN:
		tok := p.advance()
		p.expect(token.LPAREN)
		ft := &ast.FunctionTypeExpr{Token: tok}
		for !p.curIs(token.RPAREN) && !p.curIs(token.EOF) {
			ft.Params = append(ft.Params, p.parseTypeExpr())
			if p.curIs(token.COMMA) {
				p.advance()
			}
		}
		p.expect(token.RPAREN)
		if p.curIs(token.ARROW) {
			p.advance()
			ft.ReturnType = p.parseTypeExpr()
		}
		return ft
	default:
		tok := p.expect(token.IDENT)
		nt := &ast.NamedType{Token: tok, Name: tok.Lexeme}
		// Unlike expression position, a type name is never followed by
		// `<` as a comparison operator, so `<` here is unambiguously a
		// generic argument list.
		if p.curIs(token.LT) {
			nt.GenericArgs = p.parseGenericArgList()
		}
		return nt
	}
}
