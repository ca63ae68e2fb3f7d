package compiler

import (
	"fmt"
	"strings"
)

// TreeNode is a labelled view of the AST used for display. It carries yaml
// tags so the CLI can encode it directly.
type TreeNode struct {
	Label    string     `yaml:"node"`
	Children []TreeNode `yaml:"children,omitempty"`
}

// Tree converts p into a TreeNode hierarchy.
func Tree(p *Program) TreeNode {
	root := TreeNode{Label: "Program"}
	for _, g := range p.Globals {
		root.Children = append(root.Children, TreeNode{Label: "Global " + g.String()})
	}
	for i := range p.Prototypes {
		root.Children = append(root.Children, TreeNode{Label: "Prototype " + p.Prototypes[i].Signature()})
	}
	for i := range p.Functions {
		f := &p.Functions[i]
		fn := TreeNode{Label: "Function " + f.Signature()}
		for _, s := range f.Statements {
			fn.Children = append(fn.Children, NodeTree(s))
		}
		root.Children = append(root.Children, fn)
	}
	return root
}

// NodeTree converts a single statement or expression.
func NodeTree(n Node) TreeNode {
	switch n := n.(type) {
	case *DeclStmt:
		return TreeNode{Label: "DeclStmt " + n.Decl.String()}
	case *ExprStmt:
		return branch("ExprStmt", n.Expr)
	case *ReturnStmt:
		if n.Expr == nil {
			return TreeNode{Label: "ReturnStmt"}
		}
		return branch("ReturnStmt", n.Expr)
	case *BreakStmt:
		return TreeNode{Label: "BreakStmt"}
	case *ContinueStmt:
		return TreeNode{Label: "ContinueStmt"}

	case *UnaryExpr:
		return branch("UnaryExpr "+n.Op.String(), n.Operand)
	case *BinaryExpr:
		return branch("BinaryExpr "+n.Op.String(), n.Left, n.Right)
	case *MemberAccess:
		return branch("MemberAccess ."+n.Field, n.Base)
	case *ArrayIndex:
		return branch("ArrayIndex", n.Base, n.Index)
	case *FunctionCall:
		return branch("FunctionCall "+n.Name, n.Args...)
	case *Parenthetical:
		return branch("Parenthetical", n.Inner)
	case *DeclExpr:
		return TreeNode{Label: "DeclExpr " + n.Decl.String()}
	case *Variable:
		return TreeNode{Label: "Variable " + n.Name}
	case *NumberLiteral:
		return TreeNode{Label: "NumberLiteral " + n.Value.String()}
	case *StringLiteral:
		return TreeNode{Label: fmt.Sprintf("StringLiteral %q", n.Value)}
	case *CharLiteral:
		return TreeNode{Label: fmt.Sprintf("CharLiteral %q", n.Value)}
	}
	return TreeNode{Label: fmt.Sprintf("%T", n)}
}

func branch(label string, children ...Expr) TreeNode {
	t := TreeNode{Label: label}
	for _, c := range children {
		t.Children = append(t.Children, NodeTree(c))
	}
	return t
}

// Dump renders p as an indented tree, two spaces per level.
func Dump(p *Program) string {
	return Tree(p).String()
}

// String renders the tree rooted at t the way Dump does.
func (t TreeNode) String() string {
	var sb strings.Builder
	t.write(&sb, 0)
	return sb.String()
}

func (t TreeNode) write(sb *strings.Builder, depth int) {
	sb.WriteString(strings.Repeat("  ", depth))
	sb.WriteString(t.Label)
	sb.WriteByte('\n')
	for _, c := range t.Children {
		c.write(sb, depth+1)
	}
}
