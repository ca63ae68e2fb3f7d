package compiler

import (
	"reflect"
	"strings"
	"testing"
)

func ident(name string) Token { return Token{Type: IDENTIFIER, Lexeme: name} }
func op(o Operator) Token     { return Token{Type: OPERATOR, Op: o} }
func num(v int64) Token       { return Token{Type: NUMBER, Num: IntNumber(v)} }
func tok(tt TokenType) Token  { return Token{Type: tt} }

func TestLex(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []Token
	}{
		{
			name:     "Empty",
			input:    "",
			expected: nil,
		},
		{
			name:     "Whitespace Only",
			input:    " \t\r\n ",
			expected: nil,
		},
		{
			name:     "Punctuation",
			input:    ", ( {",
			expected: []Token{tok(COMMA), tok(LPAREN), tok(LBRACE)},
		},
		{
			name:  "All Delimiters",
			input: "{}[]();,",
			expected: []Token{
				tok(LBRACE), tok(RBRACE), tok(LBRACKET), tok(RBRACKET),
				tok(LPAREN), tok(RPAREN), tok(SEMICOLON), tok(COMMA),
			},
		},
		{
			name:  "Operators",
			input: "+ - * / % = & && ||",
			expected: []Token{
				op(OpAdd), op(OpSubtract), op(OpAsterisk), op(OpDivide), op(OpModulo),
				op(OpAssign), op(OpReference), op(OpAnd), op(OpOr),
			},
		},
		{
			name:     "Keywords Are Identifiers",
			input:    "int return _tmp x1",
			expected: []Token{ident("int"), ident("return"), ident("_tmp"), ident("x1")},
		},
		{
			name:     "Leading Zeros",
			input:    "012",
			expected: []Token{num(12)},
		},
		{
			name:  "Floats",
			input: "3.25 .5 5.",
			expected: []Token{
				{Type: NUMBER, Num: FloatNumber(3.25)},
				{Type: NUMBER, Num: FloatNumber(0.5)},
				{Type: NUMBER, Num: FloatNumber(5)},
			},
		},
		{
			name:     "Lone Period",
			input:    ".",
			expected: []Token{tok(PERIOD)},
		},
		{
			name:     "Member Access",
			input:    "a.b",
			expected: []Token{ident("a"), tok(PERIOD), ident("b")},
		},
		{
			name:     "Number Ends Identifier Run",
			input:    "x1 1x",
			expected: []Token{ident("x1"), num(1), ident("x")},
		},
		{
			name:     "String With Escapes",
			input:    `"a\"b\n\r\\"`,
			expected: []Token{{Type: STRING_LIT, Lexeme: "a\"b\n\r\\"}},
		},
		{
			name:     "Empty String",
			input:    `""`,
			expected: []Token{{Type: STRING_LIT, Lexeme: ""}},
		},
		{
			name:  "Characters",
			input: `'x' '\n' '\''`,
			expected: []Token{
				{Type: CHAR_LIT, Char: 'x'},
				{Type: CHAR_LIT, Char: '\n'},
				{Type: CHAR_LIT, Char: '\''},
			},
		},
		{
			name:     "Line Comment",
			input:    "x // comment\ny",
			expected: []Token{ident("x"), ident("y")},
		},
		{
			name:     "Line Comment Continued By Backslash",
			input:    "x // one \\\n two\nz",
			expected: []Token{ident("x"), ident("z")},
		},
		{
			name:     "Block Comment",
			input:    "a /* b * / c */ d",
			expected: []Token{ident("a"), ident("d")},
		},
		{
			name:     "Block Comments Do Not Nest",
			input:    "a /* /* */ b",
			expected: []Token{ident("a"), ident("b")},
		},
		{
			name:  "Statement",
			input: "int x = y*2;",
			expected: []Token{
				ident("int"), ident("x"), op(OpAssign), ident("y"), op(OpAsterisk), num(2), tok(SEMICOLON),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Lex(tt.input)
			if err != nil {
				t.Fatalf("Lex(%q) unexpected error: %v", tt.input, err)
			}
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Lex(%q)\n got: %v\nwant: %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestLexErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{"Unexpected Character", "int $x;", "unexpected character '$'"},
		{"Lone Pipe", "a | b", "unexpected character '|'"},
		{"Two Decimals", "1.2.3", `two decimals in numeric literal "1.2."`},
		{"Integer Overflow", "99999999999999999999", "bad integer literal"},
		{"Unterminated String", `"abc`, `unterminated string literal "abc"`},
		{"Unterminated String After Escape", `"abc\`, "unterminated string literal"},
		{"Bad Escape", `"a\qb"`, `unrecognized escape sequence \q`},
		{"Empty Character", "''", "empty character literal"},
		{"Long Character", "'ab'", "unterminated character literal"},
		{"Unterminated Character", "'a", "unterminated character literal"},
		{"Unterminated Block Comment", "a /* b", "unterminated block comment"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Lex(tt.input)
			if err == nil {
				t.Fatalf("Lex(%q) expected error, got tokens %v", tt.input, got)
			}
			if got != nil {
				t.Errorf("Lex(%q) returned partial tokens %v alongside error", tt.input, got)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Lex(%q) error = %q, want it to contain %q", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestLexDigitsOnly(t *testing.T) {
	for _, input := range []string{"0", "7", "00", "0042", "123456789", "9223372036854775807"} {
		got, err := Lex(input)
		if err != nil {
			t.Fatalf("Lex(%q): %v", input, err)
		}
		if len(got) != 1 || got[0].Type != NUMBER || got[0].Num.IsFloat {
			t.Fatalf("Lex(%q) = %v, want one integer", input, got)
		}
		want := int64(0)
		for _, d := range strings.TrimLeft(input, "0") {
			want = want*10 + int64(d-'0')
		}
		if got[0].Num.Int != want {
			t.Errorf("Lex(%q) = %d, want %d", input, got[0].Num.Int, want)
		}
	}
}

func TestLexIsRepeatable(t *testing.T) {
	src := `int main() { char *s = "hi\n"; return s[0] + 'a' * 2.5; }`
	first, err := Lex(src)
	if err != nil {
		t.Fatalf("Lex: %v", err)
	}
	second, err := Lex(src)
	if err != nil {
		t.Fatalf("Lex: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("lexing twice gave different results:\n%v\n%v", first, second)
	}
}

func TestTokenString(t *testing.T) {
	tests := []struct {
		tok  Token
		want string
	}{
		{ident("int"), `identifier "int"`},
		{op(OpAnd), "operator '&&'"},
		{num(42), "number 42"},
		{Token{Type: NUMBER, Num: FloatNumber(1.5)}, "number 1.5"},
		{Token{Type: STRING_LIT, Lexeme: "hi"}, `string "hi"`},
		{Token{Type: CHAR_LIT, Char: 'c'}, "character 'c'"},
		{tok(SEMICOLON), "SEMICOLON"},
	}
	for _, tt := range tests {
		if got := tt.tok.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
