package compiler

import "sort"

// Node is either an Expr or a Stmt.
type Node interface {
	String() string
}

// Walk visits node and then its children in source order. If visit returns
// false the children of that node are skipped.
func Walk(node Node, visit func(Node) bool) {
	if node == nil || !visit(node) {
		return
	}
	switch n := node.(type) {
	case *UnaryExpr:
		Walk(n.Operand, visit)
	case *BinaryExpr:
		Walk(n.Left, visit)
		Walk(n.Right, visit)
	case *MemberAccess:
		Walk(n.Base, visit)
	case *ArrayIndex:
		Walk(n.Base, visit)
		Walk(n.Index, visit)
	case *FunctionCall:
		for _, arg := range n.Args {
			Walk(arg, visit)
		}
	case *Parenthetical:
		Walk(n.Inner, visit)
	case *ExprStmt:
		Walk(n.Expr, visit)
	case *ReturnStmt:
		if n.Expr != nil {
			Walk(n.Expr, visit)
		}
	case *DeclExpr, *Variable, *NumberLiteral, *StringLiteral, *CharLiteral,
		*DeclStmt, *BreakStmt, *ContinueStmt:
		// leaves
	}
}

// WalkFunction walks every statement of f.
func WalkFunction(f *Function, visit func(Node) bool) {
	for _, s := range f.Statements {
		Walk(s, visit)
	}
}

// Calls returns the names of the functions f calls, sorted, without
// duplicates.
func Calls(f *Function) []string {
	seen := make(map[string]bool)
	WalkFunction(f, func(n Node) bool {
		if call, ok := n.(*FunctionCall); ok {
			seen[call.Name] = true
		}
		return true
	})
	return sortedKeys(seen)
}

// Unreachable returns the defined functions that no root reaches through
// calls, sorted by name. Calls to names with no definition (builtins,
// prototypes) end the search along that path.
func Unreachable(p *Program, roots ...string) []string {
	funcs := make(map[string]*Function, len(p.Functions))
	for i := range p.Functions {
		funcs[p.Functions[i].Name] = &p.Functions[i]
	}

	reachable := make(map[string]bool)
	var worklist []string
	mark := func(name string) {
		if !reachable[name] {
			reachable[name] = true
			worklist = append(worklist, name)
		}
	}
	for _, r := range roots {
		if _, ok := funcs[r]; ok {
			mark(r)
		}
	}

	for len(worklist) > 0 {
		curr := worklist[0]
		worklist = worklist[1:]

		f, ok := funcs[curr]
		if !ok {
			continue
		}
		for _, call := range Calls(f) {
			mark(call)
		}
	}

	dead := make(map[string]bool)
	for name := range funcs {
		if !reachable[name] {
			dead[name] = true
		}
	}
	return sortedKeys(dead)
}

func sortedKeys(m map[string]bool) []string {
	if len(m) == 0 {
		return nil
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
