package compiler

import (
	"fmt"
	"strconv"
)

// TokenType identifies the category of a lexed token.
type TokenType int

const (
	INVALID TokenType = iota // zero value, never produced by Lex

	// Literals
	STRING_LIT // "..."
	CHAR_LIT   // 'c'
	NUMBER     // 12, 3.5, .5
	IDENTIFIER // names and keywords alike; the parser tells them apart

	OPERATOR // see Operator

	// Punctuation
	COMMA     // ,
	PERIOD    // .
	SEMICOLON // ;

	// Paired delimiters
	LPAREN   // (
	RPAREN   // )
	LBRACE   // {
	RBRACE   // }
	LBRACKET // [
	RBRACKET // ]
)

var tokenNames = [...]string{
	INVALID:    "INVALID",
	STRING_LIT: "STRING_LIT",
	CHAR_LIT:   "CHAR_LIT",
	NUMBER:     "NUMBER",
	IDENTIFIER: "IDENTIFIER",
	OPERATOR:   "OPERATOR",
	COMMA:      "COMMA",
	PERIOD:     "PERIOD",
	SEMICOLON:  "SEMICOLON",
	LPAREN:     "LPAREN",
	RPAREN:     "RPAREN",
	LBRACE:     "LBRACE",
	RBRACE:     "RBRACE",
	LBRACKET:   "LBRACKET",
	RBRACKET:   "RBRACKET",
}

func (tt TokenType) String() string {
	if int(tt) >= 0 && int(tt) < len(tokenNames) {
		return tokenNames[tt]
	}
	return fmt.Sprintf("TokenType(%d)", int(tt))
}

// Operator is the payload of an OPERATOR token.
type Operator int

const (
	OpAdd       Operator = iota // +
	OpSubtract                  // -
	OpAsterisk                  // * (multiplication or dereference; the parser decides)
	OpDivide                    // /
	OpModulo                    // %
	OpAnd                       // &&
	OpOr                        // ||
	OpAssign                    // =
	OpReference                 // &
)

var operatorSpellings = [...]string{
	OpAdd:       "+",
	OpSubtract:  "-",
	OpAsterisk:  "*",
	OpDivide:    "/",
	OpModulo:    "%",
	OpAnd:       "&&",
	OpOr:        "||",
	OpAssign:    "=",
	OpReference: "&",
}

func (op Operator) String() string {
	if int(op) >= 0 && int(op) < len(operatorSpellings) {
		return operatorSpellings[op]
	}
	return fmt.Sprintf("Operator(%d)", int(op))
}

// BinaryOp maps an operator token onto the binary operation it denotes.
// OpReference has no binary meaning.
func (op Operator) BinaryOp() (BinaryOp, bool) {
	switch op {
	case OpAsterisk:
		return Multiply, true
	case OpAdd:
		return Add, true
	case OpSubtract:
		return Subtract, true
	case OpDivide:
		return Divide, true
	case OpModulo:
		return Modulo, true
	case OpAnd:
		return And, true
	case OpOr:
		return Or, true
	case OpAssign:
		return Assign, true
	}
	return 0, false
}

// Number is a numeric literal: an exact int64, or a float64 when the
// literal contained a decimal point.
type Number struct {
	IsFloat bool
	Int     int64
	Float   float64
}

func IntNumber(v int64) Number     { return Number{Int: v} }
func FloatNumber(v float64) Number { return Number{IsFloat: true, Float: v} }

func (n Number) String() string {
	if n.IsFloat {
		return strconv.FormatFloat(n.Float, 'g', -1, 64)
	}
	return strconv.FormatInt(n.Int, 10)
}

// Token is a single lexical unit produced by Lex. Which payload field is
// meaningful depends on Type:
//
//	STRING_LIT, IDENTIFIER  Lexeme
//	CHAR_LIT                Char
//	NUMBER                  Num
//	OPERATOR                Op
type Token struct {
	Type   TokenType
	Lexeme string
	Char   rune
	Num    Number
	Op     Operator
}

func (t Token) String() string {
	switch t.Type {
	case STRING_LIT:
		return fmt.Sprintf("string %q", t.Lexeme)
	case CHAR_LIT:
		return fmt.Sprintf("character %q", t.Char)
	case NUMBER:
		return "number " + t.Num.String()
	case IDENTIFIER:
		return fmt.Sprintf("identifier %q", t.Lexeme)
	case OPERATOR:
		return fmt.Sprintf("operator '%s'", t.Op)
	}
	return t.Type.String()
}

// Is reports whether t is the operator op.
func (t Token) Is(op Operator) bool { return t.Type == OPERATOR && t.Op == op }

// IsIdent reports whether t is the identifier name.
func (t Token) IsIdent(name string) bool { return t.Type == IDENTIFIER && t.Lexeme == name }
