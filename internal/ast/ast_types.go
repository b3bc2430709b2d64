package ast

import "github.com/orus-lang/orus/internal/token"

// TypeExpr is a syntactic type annotation written by the programmer,
// resolved against internal/typesystem by the checker. Kept distinct
// from typesystem.Type the way the teacher's parser/types.go keeps
// syntactic type expressions distinct from the analyzer's resolved
// typesystem.Type.
type TypeExpr interface {
	Node
	typeExprNode()
}

// NamedType is a primitive, struct, or enum type name, optionally with
// generic arguments (Box<i32>).
type NamedType struct {
	Token        token.Token
	Name         string
	GenericArgs  []TypeExpr
}

func (n *NamedType) typeExprNode()        {}
func (n *NamedType) TokenLiteral() string { return n.Token.Lexeme }
func (n *NamedType) GetToken() token.Token { return n.Token }

// ArrayTypeExpr is `[T]`.
type ArrayTypeExpr struct {
	Token   token.Token
	Element TypeExpr
}

func (a *ArrayTypeExpr) typeExprNode()        {}
func (a *ArrayTypeExpr) TokenLiteral() string { return a.Token.Lexeme }
func (a *ArrayTypeExpr) GetToken() token.Token { return a.Token }

// FunctionTypeExpr is `fn(T, U) -> R` used in function declarations.
type FunctionTypeExpr struct {
	Token      token.Token
	Params     []TypeExpr
	ReturnType TypeExpr // nil means void
}

func (f *FunctionTypeExpr) typeExprNode()        {}
func (f *FunctionTypeExpr) TokenLiteral() string { return f.Token.Lexeme }
func (f *FunctionTypeExpr) GetToken() token.Token { return f.Token }
