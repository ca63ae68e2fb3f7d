package compiler

import (
	"fmt"
	"strings"
)

//  Types and declarations

// Type is a C type specifier such as "const unsigned int **".
//
//	const unsigned int **p;
//	^^^^^^^^^^^^^^ ^^^ ^^
//	Modifiers      |   PointerLevels: 2
//	               BaseName
type Type struct {
	BaseName      string
	Modifiers     []string // in source order; nil when there are none
	ArrayLength   *int     // nil for non-arrays
	PointerLevels int      // 0 for a value type
}

func (t Type) String() string {
	var sb strings.Builder
	for _, m := range t.Modifiers {
		sb.WriteString(m)
		sb.WriteByte(' ')
	}
	sb.WriteString(t.BaseName)
	if t.PointerLevels > 0 {
		sb.WriteByte(' ')
		sb.WriteString(strings.Repeat("*", t.PointerLevels))
	}
	if t.ArrayLength != nil {
		fmt.Fprintf(&sb, "[%d]", *t.ArrayLength)
	}
	return sb.String()
}

// Declaration binds a name to a type: a global, a function argument or a
// local variable.
type Declaration struct {
	Type Type
	Name string
}

// String renders d in C order, e.g. "char *names[8]".
func (d Declaration) String() string {
	var sb strings.Builder
	for _, m := range d.Type.Modifiers {
		sb.WriteString(m)
		sb.WriteByte(' ')
	}
	sb.WriteString(d.Type.BaseName)
	sb.WriteByte(' ')
	sb.WriteString(strings.Repeat("*", d.Type.PointerLevels))
	sb.WriteString(d.Name)
	if d.Type.ArrayLength != nil {
		fmt.Fprintf(&sb, "[%d]", *d.Type.ArrayLength)
	}
	return sb.String()
}

//  Operators

// UnaryOp is a prefix operator.
type UnaryOp int

const (
	Reference   UnaryOp = iota // &x
	Dereference                // *x
	Negate                     // -x
	DontNegate                 // +x, the identity
)

var unaryOpNames = [...]string{
	Reference:   "&",
	Dereference: "*",
	Negate:      "-",
	DontNegate:  "+",
}

func (op UnaryOp) String() string {
	if int(op) >= 0 && int(op) < len(unaryOpNames) {
		return unaryOpNames[op]
	}
	return fmt.Sprintf("UnaryOp(%d)", int(op))
}

// BinaryOp is an infix operator.
type BinaryOp int

const (
	Add BinaryOp = iota
	Subtract
	Multiply
	Divide
	Modulo
	And
	Or
	Assign
)

var binaryOpNames = [...]string{
	Add:      "+",
	Subtract: "-",
	Multiply: "*",
	Divide:   "/",
	Modulo:   "%",
	And:      "&&",
	Or:       "||",
	Assign:   "=",
}

func (op BinaryOp) String() string {
	if int(op) >= 0 && int(op) < len(binaryOpNames) {
		return binaryOpNames[op]
	}
	return fmt.Sprintf("BinaryOp(%d)", int(op))
}

// Precedence returns the tier the operator is parsed at. Higher binds
// tighter.
func (op BinaryOp) Precedence() int {
	switch op {
	case Assign:
		return 1
	case And, Or:
		return 2
	case Add, Subtract:
		return 3
	case Multiply, Divide, Modulo:
		return 4
	}
	return 0
}

//  Expression nodes

// Expr is implemented by every node that produces a value. Every node owns
// its children; trees never share subtrees.
type Expr interface {
	exprNode()
	String() string
}

// UnaryExpr is a prefix operator applied to one operand.
//
//	-10
//	^^^  UnaryExpr{Op: Negate, Operand: &NumberLiteral{10}}
type UnaryExpr struct {
	Op      UnaryOp
	Operand Expr
}

func (*UnaryExpr) exprNode()        {}
func (u *UnaryExpr) String() string { return fmt.Sprintf("(%s%s)", u.Op, u.Operand) }

// BinaryExpr is Left Op Right.
type BinaryExpr struct {
	Left  Expr
	Op    BinaryOp
	Right Expr
}

func (*BinaryExpr) exprNode() {}
func (b *BinaryExpr) String() string {
	return fmt.Sprintf("(%s %s %s)", b.Left, b.Op, b.Right)
}

// MemberAccess is Base.Field
type MemberAccess struct {
	Base  Expr
	Field string
}

func (*MemberAccess) exprNode()        {}
func (m *MemberAccess) String() string { return fmt.Sprintf("%s.%s", m.Base, m.Field) }

// ArrayIndex is Base[Index]
type ArrayIndex struct {
	Base  Expr
	Index Expr
}

func (*ArrayIndex) exprNode()        {}
func (a *ArrayIndex) String() string { return fmt.Sprintf("%s[%s]", a.Base, a.Index) }

// FunctionCall is Name(Args...)
type FunctionCall struct {
	Name string
	Args []Expr
}

func (*FunctionCall) exprNode() {}
func (c *FunctionCall) String() string {
	args := make([]string, len(c.Args))
	for i, a := range c.Args {
		args[i] = a.String()
	}
	return fmt.Sprintf("%s(%s)", c.Name, strings.Join(args, ", "))
}

// Parenthetical is an expression written inside parentheses. It is kept as
// a node so the tree mirrors the source.
type Parenthetical struct {
	Inner Expr
}

func (*Parenthetical) exprNode()        {}
func (p *Parenthetical) String() string { return fmt.Sprintf("(%s)", p.Inner) }

// DeclExpr is a declaration in expression position, the left side of an
// initialised declaration such as "int a = 5;".
type DeclExpr struct {
	Decl Declaration
}

func (*DeclExpr) exprNode()        {}
func (d *DeclExpr) String() string { return fmt.Sprintf("{%s}", d.Decl) }

// Variable is a read of a named variable.
type Variable struct {
	Name string
}

func (*Variable) exprNode()        {}
func (v *Variable) String() string { return v.Name }

type NumberLiteral struct {
	Value Number
}

func (*NumberLiteral) exprNode()        {}
func (n *NumberLiteral) String() string { return n.Value.String() }

type StringLiteral struct {
	Value string
}

func (*StringLiteral) exprNode()        {}
func (s *StringLiteral) String() string { return fmt.Sprintf("%q", s.Value) }

type CharLiteral struct {
	Value rune
}

func (*CharLiteral) exprNode()        {}
func (c *CharLiteral) String() string { return fmt.Sprintf("%q", c.Value) }

//  Statement nodes

// Stmt is implemented by every node that can appear in a function body.
type Stmt interface {
	stmtNode()
	String() string
}

// DeclStmt is a local declaration without an initializer.
type DeclStmt struct {
	Decl Declaration
}

func (*DeclStmt) stmtNode()        {}
func (d *DeclStmt) String() string { return fmt.Sprintf("DeclStmt(%s)", d.Decl) }

// ExprStmt is an expression evaluated for its side effects.
type ExprStmt struct {
	Expr Expr
}

func (*ExprStmt) stmtNode()        {}
func (e *ExprStmt) String() string { return fmt.Sprintf("ExprStmt(%s)", e.Expr) }

// ReturnStmt is "return expr;". Expr is nil for a bare "return;".
type ReturnStmt struct {
	Expr Expr
}

func (*ReturnStmt) stmtNode() {}
func (r *ReturnStmt) String() string {
	if r.Expr == nil {
		return "ReturnStmt"
	}
	return fmt.Sprintf("ReturnStmt(%s)", r.Expr)
}

type ContinueStmt struct{}

func (*ContinueStmt) stmtNode()      {}
func (*ContinueStmt) String() string { return "ContinueStmt" }

type BreakStmt struct{}

func (*BreakStmt) stmtNode()      {}
func (*BreakStmt) String() string { return "BreakStmt" }

//  Top level

// Function is a function definition, or a prototype when it appears in
// Program.Prototypes.
type Function struct {
	Name       string
	Arguments  []Declaration
	ReturnType Type
	Statements []Stmt
}

// Signature renders the function header, e.g. "int main(int argc)".
func (f *Function) Signature() string {
	args := make([]string, len(f.Arguments))
	for i, a := range f.Arguments {
		args[i] = a.String()
	}
	head := Declaration{Type: f.ReturnType, Name: f.Name}
	return fmt.Sprintf("%s(%s)", head, strings.Join(args, ", "))
}

// Program is the root of the tree. The parser fills it in source order and
// hands it back; consumers must treat it as read-only.
type Program struct {
	Globals    []Declaration
	Functions  []Function
	Prototypes []Function
}

// Function returns the defined function called name.
func (p *Program) Function(name string) (*Function, bool) {
	for i := range p.Functions {
		if p.Functions[i].Name == name {
			return &p.Functions[i], true
		}
	}
	return nil, false
}
