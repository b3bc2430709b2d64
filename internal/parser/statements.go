package parser

import (
	"github.com/orus-lang/orus/internal/ast"
	"github.com/orus-lang/orus/internal/token"
)

// parseStatement dispatches on the current token to the matching
// statement parser, falling back to assignment/expression parsing.
func (p *Parser) parseStatement() ast.Statement {
	switch p.cur().Type {
	case token.FN:
		return p.parseFunctionDeclaration(false)
	case token.PUB:
		return p.parsePublicDeclaration()
	case token.LET, token.STATIC, token.CONST:
		return p.parseVarDeclaration(false)
	case token.STRUCT:
		return p.parseStructDeclaration(false)
	case token.ENUM:
		return p.parseEnumDeclaration(false)
	case token.USE:
		return p.parseUseStatement()
	case token.IF:
		return p.parseIfStatement()
	case token.WHILE:
		return p.parseWhileStatement()
	case token.FOR:
		return p.parseForStatement()
	case token.RETURN:
		return p.parseReturnStatement()
	case token.BREAK:
		tok := p.advance()
		return &ast.BreakStatement{Token: tok}
	case token.CONTINUE:
		tok := p.advance()
		return &ast.ContinueStatement{Token: tok}
	case token.TRY:
		return p.parseTryCatchStatement()
	case token.LBRACE:
		return p.parseBlockStatement(true)
	default:
		return p.parseAssignmentOrExpressionStatement()
	}
}

// parsePublicDeclaration handles the `pub` modifier in front of a
// declaration it can legally prefix (§3 "public slots"; fn/let/
// static/const/struct/enum may all be exported).
func (p *Parser) parsePublicDeclaration() ast.Statement {
	p.advance() // pub
	switch p.cur().Type {
	case token.FN:
		return p.parseFunctionDeclaration(true)
	case token.LET, token.STATIC, token.CONST:
		return p.parseVarDeclaration(true)
	case token.STRUCT:
		return p.parseStructDeclaration(true)
	case token.ENUM:
		return p.parseEnumDeclaration(true)
	default:
		p.errorf("P020", p.cur(), "'pub' cannot modify %s", p.cur().Type)
		return p.parseAssignmentOrExpressionStatement()
	}
}

func (p *Parser) parseGenericParamList() []string {
	if !p.curIs(token.LT) {
		return nil
	}
	p.advance()
	var names []string
	for !p.curIs(token.GT) {
		names = append(names, p.expect(token.IDENT).Lexeme)
		if p.curIs(token.COMMA) {
			p.advance()
		}
	}
	p.expect(token.GT)
	return names
}

func (p *Parser) parseFunctionDeclaration(public bool) *ast.FunctionDeclaration {
	tok := p.advance() // fn
	name := p.expect(token.IDENT)
	decl := &ast.FunctionDeclaration{Token: tok, Name: name.Lexeme, IsPublic: public}
	decl.GenericParams = p.parseGenericParamList()

	p.expect(token.LPAREN)
	for !p.curIs(token.RPAREN) && !p.curIs(token.EOF) {
		pname := p.expect(token.IDENT)
		p.expect(token.COLON)
		ptype := p.parseTypeExpr()
		decl.Params = append(decl.Params, ast.Param{Name: pname.Lexeme, TypeAnnotation: ptype})
		if p.curIs(token.COMMA) {
			p.advance()
		}
	}
	p.expect(token.RPAREN)

	if p.curIs(token.ARROW) {
		p.advance()
		decl.ReturnType = p.parseTypeExpr()
	}

	decl.Body = p.parseBlockStatement(false)
	return decl
}

func (p *Parser) parseVarDeclaration(public bool) *ast.VarDeclaration {
	tok := p.advance() // let/static/const
	kind := ast.DeclLet
	switch tok.Type {
	case token.STATIC:
		kind = ast.DeclStatic
	case token.CONST:
		kind = ast.DeclConst
	}

	mutable := kind == ast.DeclLet
	if p.curIs(token.MUT) {
		p.advance()
		mutable = true
	}

	nameTok := p.expect(token.IDENT)
	decl := &ast.VarDeclaration{
		Token:     tok,
		Kind:      kind,
		Name:      &ast.Identifier{Token: nameTok, Name: nameTok.Lexeme},
		IsMutable: mutable,
		IsPublic:  public,
	}

	if p.curIs(token.COLON) {
		p.advance()
		decl.TypeAnnotation = p.parseTypeExpr()
	}
	if p.curIs(token.ASSIGN) {
		p.advance()
		decl.Value = p.parseExpression(LOWEST)
	}
	return decl
}

func (p *Parser) parseStructDeclaration(public bool) *ast.StructDeclaration {
	tok := p.advance() // struct
	name := p.expect(token.IDENT)
	decl := &ast.StructDeclaration{Token: tok, Name: name.Lexeme, IsPublic: public}
	decl.GenericParams = p.parseGenericParamList()

	p.expect(token.LBRACE)
	p.skipNewlines()
	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		fname := p.expect(token.IDENT)
		p.expect(token.COLON)
		ftype := p.parseTypeExpr()
		decl.Fields = append(decl.Fields, ast.StructFieldDecl{Name: fname.Lexeme, TypeAnnotation: ftype})
		p.skipNewlines()
		if p.curIs(token.COMMA) {
			p.advance()
			p.skipNewlines()
		}
	}
	p.expect(token.RBRACE)
	return decl
}

func (p *Parser) parseEnumDeclaration(public bool) *ast.EnumDeclaration {
	tok := p.advance() // enum
	name := p.expect(token.IDENT)
	decl := &ast.EnumDeclaration{Token: tok, Name: name.Lexeme, IsPublic: public}
	decl.GenericParams = p.parseGenericParamList()

	p.expect(token.LBRACE)
	p.skipNewlines()
	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		vname := p.expect(token.IDENT)
		variant := ast.EnumVariantDecl{Name: vname.Lexeme}
		if p.curIs(token.LPAREN) {
			p.advance()
			for !p.curIs(token.RPAREN) && !p.curIs(token.EOF) {
				variant.FieldTypes = append(variant.FieldTypes, p.parseTypeExpr())
				if p.curIs(token.COMMA) {
					p.advance()
				}
			}
			p.expect(token.RPAREN)
		}
		decl.Variants = append(decl.Variants, variant)
		p.skipNewlines()
		if p.curIs(token.COMMA) {
			p.advance()
			p.skipNewlines()
		}
	}
	p.expect(token.RBRACE)
	return decl
}

func (p *Parser) parseUseStatement() *ast.UseStatement {
	tok := p.advance() // use
	pathTok := p.expect(token.STRING)
	use := &ast.UseStatement{Token: tok, Path: pathTok.Lexeme}
	if p.curIs(token.AS) {
		p.advance()
		use.Alias = p.expect(token.IDENT).Lexeme
	}
	return use
}

// parseConditionExpression disables bare-identifier struct-literal
// parsing while the condition is being read, so `if x { ... }` parses
// the braces as a block rather than struct-literal fields.
func (p *Parser) parseConditionExpression() ast.Expression {
	prev := p.noStructLiteral
	p.noStructLiteral = true
	expr := p.parseExpression(LOWEST)
	p.noStructLiteral = prev
	return expr
}

func (p *Parser) parseIfStatement() *ast.IfStatement {
	tok := p.advance() // if
	stmt := &ast.IfStatement{Token: tok}

	cond := p.parseConditionExpression()
	body := p.parseBlockStatement(true)
	stmt.Branches = append(stmt.Branches, ast.IfBranch{Condition: cond, Body: body})

	for p.curIs(token.ELIF) {
		p.advance()
		cond := p.parseConditionExpression()
		body := p.parseBlockStatement(true)
		stmt.Branches = append(stmt.Branches, ast.IfBranch{Condition: cond, Body: body})
	}
	if p.curIs(token.ELSE) {
		p.advance()
		body := p.parseBlockStatement(true)
		stmt.Branches = append(stmt.Branches, ast.IfBranch{Condition: nil, Body: body})
	}
	return stmt
}

func (p *Parser) parseWhileStatement() *ast.WhileStatement {
	tok := p.advance() // while
	cond := p.parseConditionExpression()
	body := p.parseBlockStatement(true)
	return &ast.WhileStatement{Token: tok, Condition: cond, Body: body}
}

func (p *Parser) parseForStatement() *ast.ForStatement {
	tok := p.advance() // for
	iterName := p.expect(token.IDENT)
	p.expect(token.IN)

	prev := p.noStructLiteral
	p.noStructLiteral = true
	start := p.parseExpression(LOWEST)
	p.expect(token.DOTDOT)
	end := p.parseExpression(LOWEST)
	p.noStructLiteral = prev

	body := p.parseBlockStatement(true)
	return &ast.ForStatement{
		Token:    tok,
		Iterator: &ast.Identifier{Token: iterName, Name: iterName.Lexeme},
		Start:    start,
		End:      end,
		Body:     body,
	}
}

func (p *Parser) parseReturnStatement() *ast.ReturnStatement {
	tok := p.advance() // return
	stmt := &ast.ReturnStatement{Token: tok}
	if !p.curIs(token.NEWLINE) && !p.curIs(token.SEMICOLON) && !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		stmt.Value = p.parseExpression(LOWEST)
	}
	return stmt
}

func (p *Parser) parseTryCatchStatement() *ast.TryCatchStatement {
	tok := p.advance() // try
	tryBlock := p.parseBlockStatement(true)
	stmt := &ast.TryCatchStatement{Token: tok, TryBlock: tryBlock}
	p.expect(token.CATCH)
	if p.curIs(token.IDENT) {
		stmt.ErrorName = p.advance().Lexeme
	}
	stmt.Catch = p.parseBlockStatement(true)
	return stmt
}

func (p *Parser) parseBlockStatement(scoped bool) *ast.BlockStatement {
	tok := p.expect(token.LBRACE)
	block := &ast.BlockStatement{Token: tok, Scoped: scoped}
	p.skipNewlines()
	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		stmt := p.parseStatement()
		if stmt != nil {
			block.Statements = append(block.Statements, stmt)
		}
		p.skipNewlines()
	}
	p.expect(token.RBRACE)
	return block
}

// parseAssignmentOrExpressionStatement parses an expression, then
// decides whether it's followed by `=` (assignment) or stands alone
// as an expression statement; and recognizes the two builtin `print`
// call shapes as a dedicated PrintStatement (§4.2 "Print"), since
// `print`/`println` are ordinary identifiers, not keywords.
func (p *Parser) parseAssignmentOrExpressionStatement() ast.Statement {
	tok := p.cur()
	expr := p.parseExpression(LOWEST)

	if p.curIs(token.ASSIGN) {
		p.advance()
		value := p.parseExpression(LOWEST)
		return &ast.AssignmentStatement{Token: tok, Target: expr, Value: value}
	}

	if print, ok := asPrintStatement(tok, expr); ok {
		return print
	}

	return &ast.ExpressionStatement{Token: tok, Value: expr}
}

func asPrintStatement(tok token.Token, expr ast.Expression) (*ast.PrintStatement, bool) {
	call, ok := expr.(*ast.CallExpression)
	if !ok {
		return nil, false
	}
	ident, ok := call.Callee.(*ast.Identifier)
	if !ok {
		return nil, false
	}
	if ident.Name != "print" && ident.Name != "println" {
		return nil, false
	}

	// Simple print (one bare value, no format string) defaults to no
	// trailing newline for `print`, one for `println`. Format print
	// (a constant format string with `{}` placeholders) always
	// terminates with a newline; there is no bare-value newline flag
	// to read once a format string is in play.
	if len(call.Args) == 0 {
		return &ast.PrintStatement{Token: tok, NoNewline: ident.Name == "print"}, true
	}
	if format, ok := call.Args[0].(*ast.StringLiteral); ok && len(call.Args) > 1 {
		return &ast.PrintStatement{Token: tok, Format: format.Value, Args: call.Args[1:]}, true
	}
	return &ast.PrintStatement{Token: tok, Args: call.Args, NoNewline: ident.Name == "print"}, true
}
