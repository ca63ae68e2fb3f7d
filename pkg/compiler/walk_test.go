package compiler

import (
	"reflect"
	"testing"
)

func TestWalkOrder(t *testing.T) {
	expr, err := ParseExprString("f(a, -b[1]) + (c.d)")
	if err != nil {
		t.Fatalf("ParseExpr: %v", err)
	}

	var got []string
	Walk(expr, func(n Node) bool {
		switch n := n.(type) {
		case *Variable:
			got = append(got, n.Name)
		case *FunctionCall:
			got = append(got, n.Name+"()")
		case *NumberLiteral:
			got = append(got, n.Value.String())
		}
		return true
	})

	want := []string{"f()", "a", "b", "1", "c"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("visit order = %v, want %v", got, want)
	}
}

func TestWalkSkipsChildren(t *testing.T) {
	expr, err := ParseExprString("g(x) + y")
	if err != nil {
		t.Fatalf("ParseExpr: %v", err)
	}
	var vars []string
	Walk(expr, func(n Node) bool {
		if _, ok := n.(*FunctionCall); ok {
			return false
		}
		if v, ok := n.(*Variable); ok {
			vars = append(vars, v.Name)
		}
		return true
	})
	if !reflect.DeepEqual(vars, []string{"y"}) {
		t.Errorf("variables visited = %v, want only y", vars)
	}
}

func TestCallsAndUnreachable(t *testing.T) {
	prog, err := ParseString(`
		int leaf() { return 1; }
		int mid() { return leaf() + leaf() + builtin(); }
		int unused() { return mid(); }
		int main() { return mid(); }
	`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	mid, _ := prog.Function("mid")
	if got, want := Calls(mid), []string{"builtin", "leaf"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Calls(mid) = %v, want %v", got, want)
	}

	leaf, _ := prog.Function("leaf")
	if got := Calls(leaf); got != nil {
		t.Errorf("Calls(leaf) = %v, want nil", got)
	}

	if got, want := Unreachable(prog, "main"), []string{"unused"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Unreachable(main) = %v, want %v", got, want)
	}
	if got := Unreachable(prog, "main", "unused"); got != nil {
		t.Errorf("Unreachable(main, unused) = %v, want nil", got)
	}
	if got, want := Unreachable(prog), []string{"leaf", "main", "mid", "unused"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Unreachable() = %v, want %v", got, want)
	}
}
