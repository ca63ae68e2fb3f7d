package compiler

import (
	"reflect"
	"strings"
	"testing"
)

func n(v int64) Expr     { return &NumberLiteral{Value: IntNumber(v)} }
func v(name string) Expr { return &Variable{Name: name} }
func bin(l Expr, op BinaryOp, r Expr) Expr {
	return &BinaryExpr{Left: l, Op: op, Right: r}
}

func intPtr(v int) *int { return &v }

// TestParse verifies that Parse produces the correct Program for valid inputs.
func TestParse(t *testing.T) {
	intType := Type{BaseName: "int"}

	tests := []struct {
		name     string
		input    string
		expected *Program
	}{
		{
			name:     "Empty",
			input:    "",
			expected: &Program{},
		},
		{
			name:  "Const Global",
			input: "const int a;",
			expected: &Program{Globals: []Declaration{
				{Type: Type{BaseName: "int", Modifiers: []string{"const"}}, Name: "a"},
			}},
		},
		{
			name:  "Pointer Global",
			input: "unsigned short **pointer;",
			expected: &Program{Globals: []Declaration{
				{Type: Type{BaseName: "short", Modifiers: []string{"unsigned"}, PointerLevels: 2}, Name: "pointer"},
			}},
		},
		{
			name:  "Many Modifiers",
			input: "static const volatile long x;",
			expected: &Program{Globals: []Declaration{
				{Type: Type{BaseName: "long", Modifiers: []string{"static", "const", "volatile"}}, Name: "x"},
			}},
		},
		{
			name:  "Array Global",
			input: "int arr[10]; char **names[4];",
			expected: &Program{Globals: []Declaration{
				{Type: Type{BaseName: "int", ArrayLength: intPtr(10)}, Name: "arr"},
				{Type: Type{BaseName: "char", PointerLevels: 2, ArrayLength: intPtr(4)}, Name: "names"},
			}},
		},
		{
			name:  "Empty Function",
			input: "void hello() {}",
			expected: &Program{Functions: []Function{
				{Name: "hello", ReturnType: Type{BaseName: "void"}},
			}},
		},
		{
			name:  "Void Argument List",
			input: "int f(void) { return; }",
			expected: &Program{Functions: []Function{
				{Name: "f", ReturnType: intType, Statements: []Stmt{&ReturnStmt{}}},
			}},
		},
		{
			name:  "Void Pointer Argument",
			input: "void release(void *p);",
			expected: &Program{Prototypes: []Function{
				{Name: "release", ReturnType: Type{BaseName: "void"}, Arguments: []Declaration{
					{Type: Type{BaseName: "void", PointerLevels: 1}, Name: "p"},
				}},
			}},
		},
		{
			name:  "Prototype",
			input: "int add(int a, int b);",
			expected: &Program{Prototypes: []Function{
				{Name: "add", ReturnType: intType, Arguments: []Declaration{
					{Type: intType, Name: "a"},
					{Type: intType, Name: "b"},
				}},
			}},
		},
		{
			name:  "Main With Argv",
			input: "int main(int argc, char *argv[]) { return 0; }",
			expected: &Program{Functions: []Function{
				{
					Name:       "main",
					ReturnType: intType,
					Arguments: []Declaration{
						{Type: intType, Name: "argc"},
						{Type: Type{BaseName: "char", PointerLevels: 2}, Name: "argv"},
					},
					Statements: []Stmt{&ReturnStmt{Expr: n(0)}},
				},
			}},
		},
		{
			name:  "Pointer Return Type",
			input: "char *name() { return \"x\"; }",
			expected: &Program{Functions: []Function{
				{
					Name:       "name",
					ReturnType: Type{BaseName: "char", PointerLevels: 1},
					Statements: []Stmt{&ReturnStmt{Expr: &StringLiteral{Value: "x"}}},
				},
			}},
		},
		{
			name:  "Single Statement Body",
			input: "int one() return 1;",
			expected: &Program{Functions: []Function{
				{Name: "one", ReturnType: intType, Statements: []Stmt{&ReturnStmt{Expr: n(1)}}},
			}},
		},
		{
			name: "Statements",
			input: `int main() {
				int a;
				int b = 5;
				a = b + 1;
				foo(a, "s");
				break;
				continue;
			}`,
			expected: &Program{Functions: []Function{
				{Name: "main", ReturnType: intType, Statements: []Stmt{
					&DeclStmt{Decl: Declaration{Type: intType, Name: "a"}},
					&ExprStmt{Expr: bin(&DeclExpr{Decl: Declaration{Type: intType, Name: "b"}}, Assign, n(5))},
					&ExprStmt{Expr: bin(v("a"), Assign, bin(v("b"), Add, n(1)))},
					&ExprStmt{Expr: &FunctionCall{Name: "foo", Args: []Expr{v("a"), &StringLiteral{Value: "s"}}}},
					&BreakStmt{},
					&ContinueStmt{},
				}},
			}},
		},
		{
			name:  "Pointer Local And Dereference",
			input: "void f() { int *p = &x; *p = 3; int buf[8]; }",
			expected: &Program{Functions: []Function{
				{Name: "f", ReturnType: Type{BaseName: "void"}, Statements: []Stmt{
					&ExprStmt{Expr: bin(
						&DeclExpr{Decl: Declaration{Type: Type{BaseName: "int", PointerLevels: 1}, Name: "p"}},
						Assign,
						&UnaryExpr{Op: Reference, Operand: v("x")},
					)},
					&ExprStmt{Expr: bin(&UnaryExpr{Op: Dereference, Operand: v("p")}, Assign, n(3))},
					&DeclStmt{Decl: Declaration{Type: Type{BaseName: "int", ArrayLength: intPtr(8)}, Name: "buf"}},
				}},
			}},
		},
		{
			// Without type information "a * b;" reads as a declaration of b.
			name:  "Multiplication Statement Is A Declaration",
			input: "void f() { a * b; }",
			expected: &Program{Functions: []Function{
				{Name: "f", ReturnType: Type{BaseName: "void"}, Statements: []Stmt{
					&DeclStmt{Decl: Declaration{Type: Type{BaseName: "a", PointerLevels: 1}, Name: "b"}},
				}},
			}},
		},
		{
			name:  "Globals Functions And Prototypes",
			input: "int count; void inc(); void inc() { count = count + 1; }",
			expected: &Program{
				Globals:    []Declaration{{Type: intType, Name: "count"}},
				Prototypes: []Function{{Name: "inc", ReturnType: Type{BaseName: "void"}}},
				Functions: []Function{
					{Name: "inc", ReturnType: Type{BaseName: "void"}, Statements: []Stmt{
						&ExprStmt{Expr: bin(v("count"), Assign, bin(v("count"), Add, n(1)))},
					}},
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseString(tt.input)
			if err != nil {
				t.Fatalf("Parse(%q) unexpected error: %v", tt.input, err)
			}
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Parse(%q)\n got: %s\nwant: %s", tt.input, Dump(got), Dump(tt.expected))
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{"Lone Type", "int;", "expected at least two identifiers in declaration"},
		{"Missing Semicolon", "int a", "expected semicolon after global variable declaration, got end of input"},
		{"Global Initializer", "int a = 5;", "expected semicolon after global variable declaration, got operator '='"},
		{"Top Level Number", "5;", "unexpected token number 5 at top level"},
		{"Dangling Asterisk", "int * ;", "expected variable name or asterisk after asterisk"},
		{"Unterminated Block", "int main() { return 0;", "unterminated statement block"},
		{"Unterminated Arguments", "int main(int a", "unexpected end of input in argument list"},
		{"Argument List Cut Off", "int main(", "unexpected end of input in argument list"},
		{"Void Not Closed", "int main(void", "expected at least two identifiers in declaration"},
		{"Bad Argument Separator", "int main(int a; int b) {}", "expected comma or closing parenthesis in argument list"},
		{"Missing Statement Semicolon", "int main() { x = 1 }", "expected SEMICOLON after expression"},
		{"Unclosed Call", "int main() { foo(1, 2; }", "expected comma or closing parenthesis in argument list"},
		{"Empty Array Length", "int a[];", `array length required in declaration of "a"`},
		{"Float Array Length", "int a[1.5];", "must be an integer"},
		{"Bad Initializer", "int main() { int a = ; }", "expected expression"},
		{"Break Without Semicolon", "void f() { break }", "expected SEMICOLON after break"},
		{"Function Name In Error", "void f() { return ) ; }", "in function f"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseString(tt.input)
			if err == nil {
				t.Fatalf("Parse(%q) expected error, got %s", tt.input, Dump(got))
			}
			if got != nil {
				t.Errorf("Parse(%q) returned a partial program alongside the error", tt.input)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Parse(%q) error = %q, want it to contain %q", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestParseExpr(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Expr
	}{
		{
			// Multiplication binds tighter; + and - share a right-recursive tier.
			name:     "Precedence",
			input:    "1 - 2 * 3 + 4",
			expected: bin(n(1), Subtract, bin(bin(n(2), Multiply, n(3)), Add, n(4))),
		},
		{
			name:     "Same Tier Leans Right",
			input:    "a % b / c",
			expected: bin(v("a"), Modulo, bin(v("b"), Divide, v("c"))),
		},
		{
			name:     "Assignment Chains Right",
			input:    "a = b = c",
			expected: bin(v("a"), Assign, bin(v("b"), Assign, v("c"))),
		},
		{
			name:     "Boolean Below Arithmetic",
			input:    "a + b && c || d",
			expected: bin(bin(v("a"), Add, v("b")), And, bin(v("c"), Or, v("d"))),
		},
		{
			name:  "Unary Operators",
			input: "-x * &y + +z",
			expected: bin(
				bin(&UnaryExpr{Op: Negate, Operand: v("x")}, Multiply, &UnaryExpr{Op: Reference, Operand: v("y")}),
				Add,
				&UnaryExpr{Op: DontNegate, Operand: v("z")},
			),
		},
		{
			name:     "Dereference Of Index",
			input:    "*p[1]",
			expected: &UnaryExpr{Op: Dereference, Operand: &ArrayIndex{Base: v("p"), Index: n(1)}},
		},
		{
			name:     "Postfix Chain",
			input:    "s.items[i + 1].name",
			expected: &MemberAccess{Base: &ArrayIndex{Base: &MemberAccess{Base: v("s"), Field: "items"}, Index: bin(v("i"), Add, n(1))}, Field: "name"},
		},
		{
			name:     "Parenthetical",
			input:    "(1 + 2) * 3",
			expected: bin(&Parenthetical{Inner: bin(n(1), Add, n(2))}, Multiply, n(3)),
		},
		{
			name:     "Call Without Arguments",
			input:    "f()",
			expected: &FunctionCall{Name: "f"},
		},
		{
			name:     "Nested Calls",
			input:    "g(1, h(x), 'c')",
			expected: &FunctionCall{Name: "g", Args: []Expr{n(1), &FunctionCall{Name: "h", Args: []Expr{v("x")}}, &CharLiteral{Value: 'c'}}},
		},
		{
			name:     "Float Literal",
			input:    "2.5",
			expected: &NumberLiteral{Value: FloatNumber(2.5)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseExprString(tt.input)
			if err != nil {
				t.Fatalf("ParseExpr(%q) unexpected error: %v", tt.input, err)
			}
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("ParseExpr(%q)\n got: %s\nwant: %s", tt.input, got, tt.expected)
			}
		})
	}
}

func TestParseExprErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{"Empty", "", "expected expression, got end of input"},
		{"Leftover Tokens", "1 2", "tokens remained after parsing expression"},
		{"Unclosed Parenthesis", "(1 + 2", "expected RPAREN to close parenthesis, got end of input"},
		{"Missing Field", "a.", "expected IDENTIFIER after '.'"},
		{"Unclosed Index", "a[1", "expected RBRACKET after array index"},
		{"Unary Does Not Nest", "--x", "unexpected token operator '-', expected expression"},
		{"Trailing Operator", "1 +", "expected expression, got end of input"},
		{"Call Error Names Callee", "f(1,)", "in call to f"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseExprString(tt.input)
			if err == nil {
				t.Fatalf("ParseExpr(%q) expected error, got %s", tt.input, got)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("ParseExpr(%q) error = %q, want it to contain %q", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestParseDoesNotAliasModifiers(t *testing.T) {
	prog, err := ParseString("const unsigned int a; const unsigned int *b;")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	prog.Globals[0].Type.Modifiers[0] = "changed"
	if got := prog.Globals[1].Type.Modifiers[0]; got != "const" {
		t.Errorf("second declaration's modifiers changed to %q through the first", got)
	}
}

func TestProgramFunctionLookup(t *testing.T) {
	prog, err := ParseString("int helper() { return 1; } int main() { return helper(); }")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	main, ok := prog.Function("main")
	if !ok {
		t.Fatal("main not found")
	}
	if got := main.Signature(); got != "int main()" {
		t.Errorf("Signature() = %q", got)
	}
	if _, ok := prog.Function("missing"); ok {
		t.Error("found a function that does not exist")
	}
}
