package ast

import (
	"github.com/orus-lang/orus/internal/token"
	"github.com/orus-lang/orus/internal/typesystem"
)

// ExpressionStatement wraps an expression used for its side effect;
// the emitter pops its result (§4.2 "Statement-level expressions pop
// their result").
type ExpressionStatement struct {
	Token token.Token
	Value Expression
}

func (s *ExpressionStatement) statementNode()      {}
func (s *ExpressionStatement) TokenLiteral() string { return s.Token.Lexeme }
func (s *ExpressionStatement) GetToken() token.Token { return s.Token }

// DeclKind distinguishes let/static/const bindings (§4.1 "Let / static
// / const").
type DeclKind int

const (
	DeclLet DeclKind = iota
	DeclStatic
	DeclConst
)

type VarDeclaration struct {
	Token          token.Token
	Kind           DeclKind
	Name           *Identifier
	IsMutable      bool
	IsPublic       bool
	TypeAnnotation TypeExpr // nil if inferred from Value
	Value          Expression

	// ResolvedType is the slot's final declared type after any
	// literal-folded widening.
	ResolvedType typesystem.Type

	GlobalSlot int
}

func (s *VarDeclaration) statementNode()       {}
func (s *VarDeclaration) TokenLiteral() string  { return s.Token.Lexeme }
func (s *VarDeclaration) GetToken() token.Token { return s.Token }

// AssignmentStatement covers `x = v`, `a[i] = v`, `s.f = v`; Target's
// concrete type (Identifier / IndexExpression / FieldAccessExpression)
// determines which emit path compiles it.
type AssignmentStatement struct {
	Token  token.Token
	Target Expression
	Value  Expression
}

func (s *AssignmentStatement) statementNode()       {}
func (s *AssignmentStatement) TokenLiteral() string  { return s.Token.Lexeme }
func (s *AssignmentStatement) GetToken() token.Token { return s.Token }

// BlockStatement groups statements; Scoped controls whether the checker
// opens/closes a symbol-table scope for it (§4.1 "Block").
type BlockStatement struct {
	Token      token.Token
	Statements []Statement
	Scoped     bool
}

func (s *BlockStatement) statementNode()       {}
func (s *BlockStatement) TokenLiteral() string  { return s.Token.Lexeme }
func (s *BlockStatement) GetToken() token.Token { return s.Token }

// IfStatement models if/elif/elif.../else as a flat branch list, the
// last of which may have a nil Condition (the else branch).
type IfBranch struct {
	Condition Expression // nil for the trailing else
	Body      *BlockStatement
}

type IfStatement struct {
	Token    token.Token
	Branches []IfBranch
}

func (s *IfStatement) statementNode()       {}
func (s *IfStatement) TokenLiteral() string  { return s.Token.Lexeme }
func (s *IfStatement) GetToken() token.Token { return s.Token }

type WhileStatement struct {
	Token     token.Token
	Condition Expression
	Body      *BlockStatement
}

func (s *WhileStatement) statementNode()       {}
func (s *WhileStatement) TokenLiteral() string  { return s.Token.Lexeme }
func (s *WhileStatement) GetToken() token.Token { return s.Token }

// ForStatement is `for i in start..end { body }`.
type ForStatement struct {
	Token    token.Token
	Iterator *Identifier
	Start    Expression
	End      Expression
	Step     Expression // nil means default +1; the parser never sets it
	Body     *BlockStatement
}

func (s *ForStatement) statementNode()       {}
func (s *ForStatement) TokenLiteral() string  { return s.Token.Lexeme }
func (s *ForStatement) GetToken() token.Token { return s.Token }

type BreakStatement struct {
	Token token.Token
}

func (s *BreakStatement) statementNode()       {}
func (s *BreakStatement) TokenLiteral() string  { return s.Token.Lexeme }
func (s *BreakStatement) GetToken() token.Token { return s.Token }

type ContinueStatement struct {
	Token token.Token
}

func (s *ContinueStatement) statementNode()       {}
func (s *ContinueStatement) TokenLiteral() string  { return s.Token.Lexeme }
func (s *ContinueStatement) GetToken() token.Token { return s.Token }

type Param struct {
	Name           string
	TypeAnnotation TypeExpr
}

// FunctionDeclaration is pre-declared in a prepass (§4.1 "Function
// declaration") so recursive and forward references resolve before
// bodies are checked.
type FunctionDeclaration struct {
	Token          token.Token
	Name           string
	GenericParams  []string
	Params         []Param
	ReturnType     TypeExpr // nil means void
	Body           *BlockStatement
	IsPublic       bool

	// ReceiverType names the struct this is a method of, empty for a
	// free function. Mangled at emission as Type_method (Glossary
	// "Mangled name").
	ReceiverType string

	GlobalSlot int
}

func (s *FunctionDeclaration) statementNode()       {}
func (s *FunctionDeclaration) TokenLiteral() string  { return s.Token.Lexeme }
func (s *FunctionDeclaration) GetToken() token.Token { return s.Token }

// MangledName returns the flat global-namespace name for this
// declaration (Glossary "Mangled name").
func (s *FunctionDeclaration) MangledName() string {
	if s.ReceiverType == "" {
		return s.Name
	}
	return s.ReceiverType + "_" + s.Name
}

type ReturnStatement struct {
	Token token.Token
	Value Expression // nil for a bare `return`
}

func (s *ReturnStatement) statementNode()       {}
func (s *ReturnStatement) TokenLiteral() string  { return s.Token.Lexeme }
func (s *ReturnStatement) GetToken() token.Token { return s.Token }

type StructFieldDecl struct {
	Name           string
	TypeAnnotation TypeExpr
}

type StructDeclaration struct {
	Token         token.Token
	Name          string
	GenericParams []string
	Fields        []StructFieldDecl
	IsPublic      bool
}

func (s *StructDeclaration) statementNode()       {}
func (s *StructDeclaration) TokenLiteral() string  { return s.Token.Lexeme }
func (s *StructDeclaration) GetToken() token.Token { return s.Token }

type EnumVariantDecl struct {
	Name       string
	FieldTypes []TypeExpr
}

type EnumDeclaration struct {
	Token         token.Token
	Name          string
	GenericParams []string
	Variants      []EnumVariantDecl
	IsPublic      bool
}

func (s *EnumDeclaration) statementNode()       {}
func (s *EnumDeclaration) TokenLiteral() string  { return s.Token.Lexeme }
func (s *EnumDeclaration) GetToken() token.Token { return s.Token }

// TryCatchStatement binds the error message to ErrorName as a string
// in the catch block's scope (§4.1 "Try/catch").
type TryCatchStatement struct {
	Token     token.Token
	TryBlock  *BlockStatement
	ErrorName string
	Catch     *BlockStatement
}

func (s *TryCatchStatement) statementNode()       {}
func (s *TryCatchStatement) TokenLiteral() string  { return s.Token.Lexeme }
func (s *TryCatchStatement) GetToken() token.Token { return s.Token }

// UseStatement is `use "path" [as alias]`.
type UseStatement struct {
	Token token.Token
	Path  string
	Alias string // defaults to the module's base name
}

func (s *UseStatement) statementNode()       {}
func (s *UseStatement) TokenLiteral() string  { return s.Token.Lexeme }
func (s *UseStatement) GetToken() token.Token { return s.Token }

// PrintStatement covers both print shapes of §4.2 "Print": a single
// value (Args has length 1, Format == "") or a format string with
// `{}` placeholders.
type PrintStatement struct {
	Token    token.Token
	Format   string // "" for simple print
	Args     []Expression
	NoNewline bool
}

func (s *PrintStatement) statementNode()       {}
func (s *PrintStatement) TokenLiteral() string  { return s.Token.Lexeme }
func (s *PrintStatement) GetToken() token.Token { return s.Token }
