package ast

import "github.com/orus-lang/orus/internal/token"

// ConvertKind tags a numeric promotion or to-string conversion the
// checker decided on, for the emitter to realize as an explicit
// conversion opcode (§4.1 "record a convert-flag on the promoted
// side", §4.2 "Numeric promotion conversions recorded during type
// checking are emitted between the two operands").
type ConvertKind int

const (
	NoConvert ConvertKind = iota
	ConvertI32ToF64
	ConvertU32ToF64
	ConvertI32ToI64
	ConvertU32ToI64
	ConvertToString
)

// --- Literals. Type is pre-assigned by the parser; the checker never
// revisits a literal's type except via folding (§4.1 "Literal").

// IntegerLiteral carries its scanned width suffix (i32 by default, or
// i64/u32/u64) so the checker can assign the right primitive type
// instead of always defaulting to i32.
type IntegerLiteral struct {
	typed
	Token  token.Token
	Value  int64
	Suffix string // "", "i32", "i64", "u32", "u64"
}

func (n *IntegerLiteral) expressionNode()       {}
func (n *IntegerLiteral) TokenLiteral() string  { return n.Token.Lexeme }
func (n *IntegerLiteral) GetToken() token.Token { return n.Token }

type FloatLiteral struct {
	typed
	Token token.Token
	Value float64
}

func (n *FloatLiteral) expressionNode()       {}
func (n *FloatLiteral) TokenLiteral() string  { return n.Token.Lexeme }
func (n *FloatLiteral) GetToken() token.Token { return n.Token }

type BoolLiteral struct {
	typed
	Token token.Token
	Value bool
}

func (n *BoolLiteral) expressionNode()       {}
func (n *BoolLiteral) TokenLiteral() string  { return n.Token.Lexeme }
func (n *BoolLiteral) GetToken() token.Token { return n.Token }

type NilLiteral struct {
	typed
	Token token.Token
}

func (n *NilLiteral) expressionNode()       {}
func (n *NilLiteral) TokenLiteral() string  { return n.Token.Lexeme }
func (n *NilLiteral) GetToken() token.Token { return n.Token }

type StringLiteral struct {
	typed
	Token token.Token
	Value string
}

func (n *StringLiteral) expressionNode()       {}
func (n *StringLiteral) TokenLiteral() string  { return n.Token.Lexeme }
func (n *StringLiteral) GetToken() token.Token { return n.Token }

// --- Operators

type UnaryExpression struct {
	typed
	Token    token.Token
	Operator token.Type // MINUS, NOT, TILDE
	Operand  Expression
}

func (n *UnaryExpression) expressionNode()       {}
func (n *UnaryExpression) TokenLiteral() string  { return n.Token.Lexeme }
func (n *UnaryExpression) GetToken() token.Token { return n.Token }

// BinaryExpression covers arithmetic, bitwise, comparison, and the
// string-concat overload of `+` (§4.1 "Binary arithmetic").
type BinaryExpression struct {
	typed
	Token       token.Token
	Operator    token.Type
	Left, Right Expression
	LeftConvert  ConvertKind
	RightConvert ConvertKind
}

func (n *BinaryExpression) expressionNode()       {}
func (n *BinaryExpression) TokenLiteral() string  { return n.Token.Lexeme }
func (n *BinaryExpression) GetToken() token.Token { return n.Token }

// LogicalExpression is `and`/`or`; short-circuiting is realized by the
// emitter (§4.1 "Short-circuit semantics realized by the emitter, not
// the checker").
type LogicalExpression struct {
	typed
	Token       token.Token
	Operator    token.Type // AND, OR
	Left, Right Expression
}

func (n *LogicalExpression) expressionNode()       {}
func (n *LogicalExpression) TokenLiteral() string  { return n.Token.Lexeme }
func (n *LogicalExpression) GetToken() token.Token { return n.Token }

type IndexExpression struct {
	typed
	Token token.Token
	Array Expression
	Index Expression
}

func (n *IndexExpression) expressionNode()       {}
func (n *IndexExpression) TokenLiteral() string  { return n.Token.Lexeme }
func (n *IndexExpression) GetToken() token.Token { return n.Token }

// SliceExpression is `a[start:end]`; Start/End may be nil (open bound).
type SliceExpression struct {
	typed
	Token      token.Token
	Array      Expression
	Start, End Expression
}

func (n *SliceExpression) expressionNode()       {}
func (n *SliceExpression) TokenLiteral() string  { return n.Token.Lexeme }
func (n *SliceExpression) GetToken() token.Token { return n.Token }

// CastExpression is `expr as T`. When Operand is a literal the checker
// folds the conversion in place (§4.1 "Cast") instead of leaving a
// runtime cast opcode: Folded/FoldedValue then carry the replacement.
type CastExpression struct {
	typed
	Token      token.Token
	Operand    Expression
	TargetType TypeExpr

	Folded      bool
	FoldedValue Expression // the literal node replacing this cast, when Folded
}

func (n *CastExpression) expressionNode()       {}
func (n *CastExpression) TokenLiteral() string  { return n.Token.Lexeme }
func (n *CastExpression) GetToken() token.Token { return n.Token }

// CallKind distinguishes the four call-resolution paths of §4.1 "Call".
type CallKind int

const (
	CallUnknown CallKind = iota
	CallBuiltin
	CallUserFunction
	CallMethod // mangled Type_method, resolved to a CallUserFunction slot
)

type CallExpression struct {
	typed
	Token       token.Token
	Callee      Expression // Identifier or FieldAccessExpression before resolution
	Args        []Expression
	GenericArgs []TypeExpr

	Kind        CallKind
	ResolvedName string // mangled name for methods
	GlobalSlot   int    // user function slot
	NativeIndex  int    // builtin index
}

func (n *CallExpression) expressionNode()       {}
func (n *CallExpression) TokenLiteral() string  { return n.Token.Lexeme }
func (n *CallExpression) GetToken() token.Token { return n.Token }

type ArrayLiteral struct {
	typed
	Token    token.Token
	Elements []Expression
}

func (n *ArrayLiteral) expressionNode()       {}
func (n *ArrayLiteral) TokenLiteral() string  { return n.Token.Lexeme }
func (n *ArrayLiteral) GetToken() token.Token { return n.Token }

type StructLiteralField struct {
	Name  string
	Value Expression
}

type StructLiteral struct {
	typed
	Token       token.Token
	StructName  string
	GenericArgs []TypeExpr
	Fields      []StructLiteralField
}

func (n *StructLiteral) expressionNode()       {}
func (n *StructLiteral) TokenLiteral() string  { return n.Token.Lexeme }
func (n *StructLiteral) GetToken() token.Token { return n.Token }

// FieldAccessExpression is `receiver.field`. When Receiver resolves to
// a module alias, the checker rewrites this node's parent slot to an
// *Identifier instead (§4.1); when Receiver is a struct, FieldIndex is
// bound for the emitter.
type FieldAccessExpression struct {
	typed
	Token      token.Token
	Receiver   Expression
	FieldName  string
	FieldIndex int
}

func (n *FieldAccessExpression) expressionNode()       {}
func (n *FieldAccessExpression) TokenLiteral() string  { return n.Token.Lexeme }
func (n *FieldAccessExpression) GetToken() token.Token { return n.Token }
