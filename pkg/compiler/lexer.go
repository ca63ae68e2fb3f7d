package compiler

import (
	"fmt"
	"strconv"
	"strings"
)

// lexer holds the state of one scanning pass. It owns a Cursor over the
// source runes; every scan routine leaves the cursor on the first rune that
// does not belong to the token it produced.
type lexer struct {
	src    *Cursor[rune]
	tokens []Token
}

// Lex tokenises src and returns the token sequence. Keywords are not
// special-cased: "int" and "return" come back as IDENTIFIER tokens.
// Lex fails on the first illegal character or malformed literal and never
// returns a partial result.
func Lex(src string) ([]Token, error) {
	l := &lexer{src: NewCursor([]rune(src))}
	if err := l.run(); err != nil {
		return nil, err
	}
	return l.tokens, nil
}

func (l *lexer) emit(tok Token)        { l.tokens = append(l.tokens, tok) }
func (l *lexer) emitType(tt TokenType) { l.emit(Token{Type: tt}) }
func (l *lexer) emitOp(op Operator)    { l.emit(Token{Type: OPERATOR, Op: op}) }

// peekIs reports whether the next rune is want, without consuming it.
func (l *lexer) peekIs(want rune) bool {
	r, ok := l.src.Peek()
	return ok && r == want
}

func (l *lexer) run() error {
	for {
		ch, ok := l.src.Next()
		if !ok {
			return nil
		}

		switch {
		case isDigit(ch) || ch == '.':
			l.src.StepBack()
			tok, err := l.scanNumber()
			if err != nil {
				return err
			}
			l.emit(tok)

		case isIdentStart(ch):
			l.src.StepBack()
			l.emit(Token{Type: IDENTIFIER, Lexeme: l.scanIdent()})

		case ch == '"':
			s, err := l.scanString()
			if err != nil {
				return err
			}
			l.emit(Token{Type: STRING_LIT, Lexeme: s})

		case ch == '\'':
			c, err := l.scanChar()
			if err != nil {
				return err
			}
			l.emit(Token{Type: CHAR_LIT, Char: c})

		default:
			if err := l.scanPunct(ch); err != nil {
				return err
			}
		}
	}
}

// scanPunct handles whitespace, comments, delimiters and operators. ch has
// already been consumed.
func (l *lexer) scanPunct(ch rune) error {
	switch ch {
	case ' ', '\t', '\n', '\r':
		// skip

	case '{':
		l.emitType(LBRACE)
	case '}':
		l.emitType(RBRACE)
	case '[':
		l.emitType(LBRACKET)
	case ']':
		l.emitType(RBRACKET)
	case '(':
		l.emitType(LPAREN)
	case ')':
		l.emitType(RPAREN)
	case ',':
		l.emitType(COMMA)
	case ';':
		l.emitType(SEMICOLON)

	case '+':
		l.emitOp(OpAdd)
	case '-':
		l.emitOp(OpSubtract)
	case '*':
		l.emitOp(OpAsterisk)
	case '=':
		l.emitOp(OpAssign)
	case '%':
		l.emitOp(OpModulo)
	case '&':
		if l.peekIs('&') {
			l.src.Next()
			l.emitOp(OpAnd)
		} else {
			l.emitOp(OpReference)
		}
	case '|':
		if !l.peekIs('|') {
			return fmt.Errorf("unexpected character '|'")
		}
		l.src.Next()
		l.emitOp(OpOr)

	case '/':
		switch {
		case l.peekIs('*'):
			l.src.Next()
			return l.skipBlockComment()
		case l.peekIs('/'):
			l.src.Next()
			l.skipLineComment()
		default:
			l.emitOp(OpDivide)
		}

	default:
		return fmt.Errorf("unexpected character %q", ch)
	}
	return nil
}

// skipLineComment discards everything up to and including the next newline.
// A backslash swallows the character after it, so "\\\n" continues the
// comment onto the following line. The opening "//" must already have been
// consumed.
func (l *lexer) skipLineComment() {
	for {
		ch, ok := l.src.Next()
		if !ok || ch == '\n' {
			return
		}
		if ch == '\\' {
			l.src.Next()
		}
	}
}

// skipBlockComment discards everything up to and including the first "*/".
// Comments do not nest. The opening "/*" must already have been consumed.
func (l *lexer) skipBlockComment() error {
	for {
		ch, ok := l.src.Next()
		if !ok {
			return fmt.Errorf("unterminated block comment")
		}
		if ch == '*' && l.peekIs('/') {
			l.src.Next()
			return nil
		}
	}
}

// scanNumber collects digits with at most one '.', starting at the current
// position. A lone "." is the member-access period, not a number.
func (l *lexer) scanNumber() (Token, error) {
	var lit strings.Builder
	seenDecimal := false
	for {
		ch, ok := l.src.Next()
		if !ok || (ch != '.' && !isDigit(ch)) {
			l.src.StepBack()
			break
		}
		if ch == '.' {
			if seenDecimal {
				return Token{}, fmt.Errorf("two decimals in numeric literal %q", lit.String()+".")
			}
			seenDecimal = true
		}
		lit.WriteRune(ch)
	}

	text := lit.String()
	if !seenDecimal {
		v, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return Token{}, fmt.Errorf("bad integer literal %q", text)
		}
		return Token{Type: NUMBER, Num: IntNumber(v)}, nil
	}
	if text == "." {
		return Token{Type: PERIOD}, nil
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return Token{}, fmt.Errorf("bad floating point literal %q", text)
	}
	return Token{Type: NUMBER, Num: FloatNumber(f)}, nil
}

// scanIdent collects [A-Za-z0-9_]* starting at the current position.
func (l *lexer) scanIdent() string {
	var b strings.Builder
	for {
		ch, ok := l.src.Next()
		if !ok || !isIdentPart(ch) {
			l.src.StepBack()
			return b.String()
		}
		b.WriteRune(ch)
	}
}

// scanString collects a string literal body. The opening quote must already
// have been consumed; the closing quote is consumed here.
func (l *lexer) scanString() (string, error) {
	var b strings.Builder
	for {
		ch, ok := l.src.Next()
		if !ok {
			return "", fmt.Errorf("unterminated string literal %q", b.String())
		}
		switch ch {
		case '"':
			return b.String(), nil
		case '\\':
			esc, ok := l.src.Next()
			if !ok {
				return "", fmt.Errorf("unterminated string literal %q", b.String())
			}
			r, valid := unescape(esc, '"')
			if !valid {
				return "", fmt.Errorf("unrecognized escape sequence \\%c", esc)
			}
			b.WriteRune(r)
		default:
			b.WriteRune(ch)
		}
	}
}

// scanChar collects a character literal. The opening quote must already
// have been consumed.
func (l *lexer) scanChar() (rune, error) {
	ch, ok := l.src.Next()
	if !ok || ch == '\n' {
		return 0, fmt.Errorf("unterminated character literal")
	}
	switch ch {
	case '\'':
		return 0, fmt.Errorf("empty character literal")
	case '\\':
		esc, ok := l.src.Next()
		if !ok {
			return 0, fmt.Errorf("unterminated character literal")
		}
		r, valid := unescape(esc, '\'')
		if !valid {
			return 0, fmt.Errorf("unrecognized escape sequence \\%c", esc)
		}
		ch = r
	}

	closing, ok := l.src.Next()
	if !ok || closing != '\'' {
		return 0, fmt.Errorf("unterminated character literal")
	}
	return ch, nil
}

// unescape resolves the character after a backslash. quote is the delimiter
// of the enclosing literal, which may also be escaped.
func unescape(esc, quote rune) (rune, bool) {
	switch esc {
	case 'n':
		return '\n', true
	case 'r':
		return '\r', true
	case '\\':
		return '\\', true
	case '"':
		return '"', true
	case quote:
		return quote, true
	}
	return 0, false
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func isIdentStart(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r == '_'
}

func isIdentPart(r rune) bool {
	return isIdentStart(r) || isDigit(r)
}
