// Package ast defines the syntax tree produced by internal/parser and
// annotated in place by internal/checker. Node kinds carry both their
// syntactic fields and the slots the later stages write into them
// (resolved type, global slot index, promotion flags, ...); the same
// "annotate in place" shape the teacher's checker uses for literal
// folding and module-alias rewriting.
package ast

import (
	"github.com/orus-lang/orus/internal/token"
	"github.com/orus-lang/orus/internal/typesystem"
)

// Node is the base interface for every syntax tree node.
type Node interface {
	TokenLiteral() string
	GetToken() token.Token
}

// Statement is a Node with no resolved type of its own (§3 invariants:
// "except statement nodes whose type is explicitly absent").
type Statement interface {
	Node
	statementNode()
}

// Expression is a Node annotated with a resolved type once the checker
// has run.
type Expression interface {
	Node
	expressionNode()
	ResolvedType() typesystem.Type
	SetResolvedType(typesystem.Type)
}

// typed is embedded by every Expression implementation.
type typed struct {
	Type typesystem.Type
}

func (t *typed) ResolvedType() typesystem.Type      { return t.Type }
func (t *typed) SetResolvedType(ty typesystem.Type) { t.Type = ty }

// Program is the root of every parsed compilation unit.
type Program struct {
	File       string
	Statements []Statement
}

func (p *Program) TokenLiteral() string {
	if len(p.Statements) > 0 {
		return p.Statements[0].TokenLiteral()
	}
	return ""
}
func (p *Program) GetToken() token.Token {
	if len(p.Statements) > 0 {
		return p.Statements[0].GetToken()
	}
	return token.Token{}
}

// Identifier is both an expression (variable reference) and used as a
// binding name in declarations.
type Identifier struct {
	typed
	Token token.Token
	Name  string

	// GlobalSlot is bound by the checker once the name is resolved.
	GlobalSlot int
	// IsModuleRef marks an identifier rewritten by the checker from a
	// module-alias field access (§4.1 "Field access... on a
	// module-alias receiver is rewritten into a variable node").
	IsModuleRef bool
}

func (i *Identifier) expressionNode()       {}
func (i *Identifier) TokenLiteral() string  { return i.Token.Lexeme }
func (i *Identifier) GetToken() token.Token { return i.Token }
