package compiler

import (
	"fmt"
	"slices"
)

// Parser consumes the token slice produced by Lex and builds a Program.
//
// Grammar:
//
//	program     = (declaration (";" | "(" arguments ")" (";" | block)))*
//	declaration = IDENT+ ("*"+ IDENT)? ("[" NUMBER? "]")?
//	arguments   = "" | declaration ("," declaration)*
//	block       = "{" statement* "}" | statement
//	statement   = "return" expression? ";" | "break" ";" | "continue" ";"
//	            | declaration ("=" expression)? ";"
//	            | expression ";"
//	expression  = boolean ("=" expression)?
//	boolean     = additive (("&&" | "||") boolean)?
//	additive    = term (("+" | "-") additive)?
//	term        = unary (("*" | "/" | "%") term)?
//	unary       = ("+" | "-" | "&" | "*")? postfix
//	postfix     = atom ("[" expression "]" | "." IDENT)*
//	atom        = STRING | CHAR | NUMBER | IDENT | IDENT "(" args ")" | "(" expression ")"
//
// Every binary tier recurses on itself for its right operand, so operators
// of equal precedence build right-leaning trees: "a - b + c" is a - (b + c).
type Parser struct {
	cur *Cursor[Token]
}

func NewParser(tokens []Token) *Parser {
	return &Parser{cur: NewCursor(tokens)}
}

// Parse builds a Program from tokens. Empty input yields an empty Program.
func Parse(tokens []Token) (*Program, error) {
	return NewParser(tokens).ParseProgram()
}

// ParseExpr parses tokens as exactly one expression.
func ParseExpr(tokens []Token) (Expr, error) {
	return NewParser(tokens).ParseExpression()
}

// ParseString lexes and parses src.
func ParseString(src string) (*Program, error) {
	tokens, err := Lex(src)
	if err != nil {
		return nil, err
	}
	return Parse(tokens)
}

// ParseExprString lexes src and parses it as one expression.
func ParseExprString(src string) (Expr, error) {
	tokens, err := Lex(src)
	if err != nil {
		return nil, err
	}
	return ParseExpr(tokens)
}

// describe names a token for error messages; ok is false past the end.
func describe(tok Token, ok bool) string {
	if !ok {
		return "end of input"
	}
	return tok.String()
}

// peekType reports whether the next token has type tt.
func (p *Parser) peekType(tt TokenType) bool {
	tok, ok := p.cur.Peek()
	return ok && tok.Type == tt
}

// expect consumes the next token and fails unless it has type tt.
func (p *Parser) expect(tt TokenType, context string) (Token, error) {
	tok, ok := p.cur.Next()
	if !ok || tok.Type != tt {
		return tok, fmt.Errorf("expected %s %s, got %s", tt, context, describe(tok, ok))
	}
	return tok, nil
}

// ParseProgram runs the top-level loop until the tokens run out.
func (p *Parser) ParseProgram() (*Program, error) {
	prog := &Program{}
	for {
		tok, ok := p.cur.Peek()
		if !ok {
			return prog, nil
		}
		if tok.Type != IDENTIFIER {
			return nil, fmt.Errorf("unexpected token %s at top level", tok)
		}

		decl, err := p.declaration()
		if err != nil {
			return nil, err
		}

		next, ok := p.cur.Next()
		switch {
		case ok && next.Type == SEMICOLON:
			prog.Globals = append(prog.Globals, decl)

		case ok && next.Type == LBRACKET:
			p.cur.StepBack()
			if err := p.arraySuffix(&decl, false); err != nil {
				return nil, err
			}
			if _, err := p.expect(SEMICOLON, "after global array declaration"); err != nil {
				return nil, err
			}
			prog.Globals = append(prog.Globals, decl)

		case ok && next.Type == LPAREN:
			fn, body, err := p.functionDefinition(decl)
			if err != nil {
				return nil, err
			}
			if body {
				prog.Functions = append(prog.Functions, fn)
			} else {
				prog.Prototypes = append(prog.Prototypes, fn)
			}

		default:
			return nil, fmt.Errorf("expected semicolon after global variable declaration, got %s", describe(next, ok))
		}
	}
}

// ParseExpression parses one expression and requires that nothing follows.
func (p *Parser) ParseExpression() (Expr, error) {
	expr, err := p.expression()
	if err != nil {
		return nil, err
	}
	if !p.cur.IsExhausted() {
		tok, _ := p.cur.Peek()
		return nil, fmt.Errorf("tokens remained after parsing expression, starting with %s", tok)
	}
	return expr, nil
}

//  Declarations

// declaration recognises ident+ ("*"+ ident)?. The role of each identifier
// is only known once the run ends: with an asterisk the last identifier
// before it is the base type, otherwise the last two are type and name.
// The token that ended the run is left unconsumed.
func (p *Parser) declaration() (Declaration, error) {
	first, ok := p.cur.Next()
	if !ok || first.Type != IDENTIFIER {
		return Declaration{}, fmt.Errorf("expected identifier at start of declaration, got %s", describe(first, ok))
	}
	idents := []string{first.Lexeme}

	for {
		tok, ok := p.cur.Next()
		switch {
		case ok && tok.Type == IDENTIFIER:
			idents = append(idents, tok.Lexeme)

		case ok && tok.Is(OpAsterisk):
			typ := Type{
				BaseName:      idents[len(idents)-1],
				Modifiers:     modifiers(idents[:len(idents)-1]),
				PointerLevels: 1,
			}
			for {
				tok, ok := p.cur.Next()
				switch {
				case ok && tok.Is(OpAsterisk):
					typ.PointerLevels++
				case ok && tok.Type == IDENTIFIER:
					return Declaration{Type: typ, Name: tok.Lexeme}, nil
				default:
					return Declaration{}, fmt.Errorf("expected variable name or asterisk after asterisk, got %s", describe(tok, ok))
				}
			}

		default:
			p.cur.StepBack()
			if len(idents) < 2 {
				return Declaration{}, fmt.Errorf("expected at least two identifiers in declaration, got %q", idents[0])
			}
			n := len(idents)
			return Declaration{
				Type: Type{
					BaseName:  idents[n-2],
					Modifiers: modifiers(idents[:n-2]),
				},
				Name: idents[n-1],
			}, nil
		}
	}
}

// modifiers copies the leading identifiers of a declaration. A Type never
// shares its backing array with the parser's scratch slice.
func modifiers(idents []string) []string {
	if len(idents) == 0 {
		return nil
	}
	return slices.Clone(idents)
}

// arraySuffix consumes an optional "[N]" after a declared name. An empty
// "[]" is only accepted where decay is true, in argument lists, and counts
// as one more level of pointer.
func (p *Parser) arraySuffix(decl *Declaration, decay bool) error {
	if !p.peekType(LBRACKET) {
		return nil
	}
	p.cur.Next()

	tok, ok := p.cur.Next()
	switch {
	case ok && tok.Type == RBRACKET:
		if !decay {
			return fmt.Errorf("array length required in declaration of %q", decl.Name)
		}
		decl.Type.PointerLevels++
		return nil

	case ok && tok.Type == NUMBER:
		if tok.Num.IsFloat {
			return fmt.Errorf("array length of %q must be an integer, got %s", decl.Name, tok.Num)
		}
		n := int(tok.Num.Int)
		decl.Type.ArrayLength = &n
		_, err := p.expect(RBRACKET, "after array length")
		return err
	}
	return fmt.Errorf("expected array length in declaration of %q, got %s", decl.Name, describe(tok, ok))
}

//  Functions

// functionDefinition parses the argument list and body of sig. The opening
// parenthesis has already been consumed. body is false when the header was
// closed by a semicolon, making it a prototype.
func (p *Parser) functionDefinition(sig Declaration) (fn Function, body bool, err error) {
	fn = Function{Name: sig.Name, ReturnType: sig.Type}

	if fn.Arguments, err = p.arguments(); err != nil {
		return Function{}, false, err
	}

	if p.peekType(SEMICOLON) {
		p.cur.Next()
		return fn, false, nil
	}

	if fn.Statements, err = p.statementBlock(); err != nil {
		return Function{}, false, fmt.Errorf("in function %s: %w", fn.Name, err)
	}
	return fn, true, nil
}

// arguments parses declarations up to and including the closing
// parenthesis. "()" and "(void)" are empty lists.
func (p *Parser) arguments() ([]Declaration, error) {
	return FirstOf(p.cur, p.emptyArguments, p.voidArguments, p.argumentList)
}

func (p *Parser) emptyArguments() ([]Declaration, error) {
	_, err := p.expect(RPAREN, "to close empty argument list")
	return nil, err
}

func (p *Parser) voidArguments() ([]Declaration, error) {
	tok, ok := p.cur.Next()
	if !ok || !tok.IsIdent("void") {
		return nil, fmt.Errorf("expected void, got %s", describe(tok, ok))
	}
	_, err := p.expect(RPAREN, "after void")
	return nil, err
}

func (p *Parser) argumentList() ([]Declaration, error) {
	var args []Declaration
	for {
		if p.cur.IsExhausted() {
			return nil, fmt.Errorf("unexpected end of input in argument list")
		}
		decl, err := p.declaration()
		if err != nil {
			return nil, err
		}
		if err := p.arraySuffix(&decl, true); err != nil {
			return nil, err
		}
		args = append(args, decl)

		tok, ok := p.cur.Next()
		switch {
		case !ok:
			return nil, fmt.Errorf("unexpected end of input in argument list")
		case tok.Type == RPAREN:
			return args, nil
		case tok.Type == COMMA:
			continue
		default:
			return nil, fmt.Errorf("expected comma or closing parenthesis in argument list, got %s", tok)
		}
	}
}

//  Statements

// statementBlock parses "{ statement* }" or a single statement.
func (p *Parser) statementBlock() ([]Stmt, error) {
	if !p.peekType(LBRACE) {
		stmt, err := p.statement()
		if err != nil {
			return nil, err
		}
		return []Stmt{stmt}, nil
	}
	p.cur.Next()

	var stmts []Stmt
	for {
		tok, ok := p.cur.Peek()
		if !ok {
			return nil, fmt.Errorf("unterminated statement block")
		}
		if tok.Type == RBRACE {
			p.cur.Next()
			return stmts, nil
		}
		stmt, err := p.statement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
}

// localDecl is a declaration head recognised inside a function body.
type localDecl struct {
	decl        Declaration
	initialised bool
}

func (p *Parser) statement() (Stmt, error) {
	tok, ok := p.cur.Peek()
	if !ok {
		return nil, fmt.Errorf("expected statement, got end of input")
	}

	switch {
	case tok.IsIdent("return"):
		p.cur.Next()
		if p.peekType(SEMICOLON) {
			p.cur.Next()
			return &ReturnStmt{}, nil
		}
		expr, err := p.expression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(SEMICOLON, "after return value"); err != nil {
			return nil, err
		}
		return &ReturnStmt{Expr: expr}, nil

	case tok.IsIdent("break"):
		p.cur.Next()
		if _, err := p.expect(SEMICOLON, "after break"); err != nil {
			return nil, err
		}
		return &BreakStmt{}, nil

	case tok.IsIdent("continue"):
		p.cur.Next()
		if _, err := p.expect(SEMICOLON, "after continue"); err != nil {
			return nil, err
		}
		return &ContinueStmt{}, nil
	}

	// Only the declaration head is tried speculatively. Once "int a =" has
	// been seen an error in the initializer is reported as is.
	if local, err := Attempt(p.cur, p.localDeclaration); err == nil {
		if !local.initialised {
			return &DeclStmt{Decl: local.decl}, nil
		}
		init, err := p.expression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(SEMICOLON, "after initializer"); err != nil {
			return nil, err
		}
		return &ExprStmt{Expr: &BinaryExpr{Left: &DeclExpr{Decl: local.decl}, Op: Assign, Right: init}}, nil
	}

	expr, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(SEMICOLON, "after expression"); err != nil {
		return nil, err
	}
	return &ExprStmt{Expr: expr}, nil
}

// localDeclaration recognises a declaration followed by ";" or "=", and
// consumes the terminator.
func (p *Parser) localDeclaration() (localDecl, error) {
	decl, err := p.declaration()
	if err != nil {
		return localDecl{}, err
	}
	if err := p.arraySuffix(&decl, false); err != nil {
		return localDecl{}, err
	}
	tok, ok := p.cur.Next()
	switch {
	case ok && tok.Type == SEMICOLON:
		return localDecl{decl: decl}, nil
	case ok && tok.Is(OpAssign):
		return localDecl{decl: decl, initialised: true}, nil
	}
	return localDecl{}, fmt.Errorf("expected semicolon or initializer after declaration, got %s", describe(tok, ok))
}

//  Expressions

var (
	assignmentOps     = []BinaryOp{Assign}
	booleanOps        = []BinaryOp{And, Or}
	additionOps       = []BinaryOp{Add, Subtract}
	multiplicationOps = []BinaryOp{Multiply, Divide, Modulo}
)

func (p *Parser) expression() (Expr, error) { return p.assignment() }

func (p *Parser) assignment() (Expr, error) {
	return p.binaryTier(assignmentOps, p.boolean)
}

func (p *Parser) boolean() (Expr, error) {
	return p.binaryTier(booleanOps, p.addition)
}

func (p *Parser) addition() (Expr, error) {
	return p.binaryTier(additionOps, p.multiplication)
}

func (p *Parser) multiplication() (Expr, error) {
	return p.binaryTier(multiplicationOps, p.unary)
}

// binaryTier parses operand, and if an operator from ops follows, parses the
// rest of the tier recursively as the right-hand side.
func (p *Parser) binaryTier(ops []BinaryOp, operand func() (Expr, error)) (Expr, error) {
	lhs, err := operand()
	if err != nil {
		return nil, err
	}

	tok, ok := p.cur.Peek()
	if !ok || tok.Type != OPERATOR {
		return lhs, nil
	}
	op, isBinary := tok.Op.BinaryOp()
	if !isBinary || !slices.Contains(ops, op) {
		return lhs, nil
	}
	p.cur.Next()

	rhs, err := p.binaryTier(ops, operand)
	if err != nil {
		return nil, err
	}
	return &BinaryExpr{Left: lhs, Op: op, Right: rhs}, nil
}

var unaryOps = map[Operator]UnaryOp{
	OpAdd:       DontNegate,
	OpSubtract:  Negate,
	OpReference: Reference,
	OpAsterisk:  Dereference,
}

// unary applies at most one prefix operator to a postfix expression.
func (p *Parser) unary() (Expr, error) {
	tok, ok := p.cur.Peek()
	if ok && tok.Type == OPERATOR {
		if op, found := unaryOps[tok.Op]; found {
			p.cur.Next()
			operand, err := p.postfix()
			if err != nil {
				return nil, err
			}
			return &UnaryExpr{Op: op, Operand: operand}, nil
		}
	}
	return p.postfix()
}

func (p *Parser) postfix() (Expr, error) {
	expr, err := p.atom()
	if err != nil {
		return nil, err
	}

	for {
		switch {
		case p.peekType(LBRACKET):
			p.cur.Next()
			index, err := p.expression()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(RBRACKET, "after array index"); err != nil {
				return nil, err
			}
			expr = &ArrayIndex{Base: expr, Index: index}

		case p.peekType(PERIOD):
			p.cur.Next()
			field, err := p.expect(IDENTIFIER, "after '.'")
			if err != nil {
				return nil, err
			}
			expr = &MemberAccess{Base: expr, Field: field.Lexeme}

		default:
			return expr, nil
		}
	}
}

func (p *Parser) atom() (Expr, error) {
	tok, ok := p.cur.Next()
	if !ok {
		return nil, fmt.Errorf("expected expression, got end of input")
	}

	switch tok.Type {
	case STRING_LIT:
		return &StringLiteral{Value: tok.Lexeme}, nil
	case CHAR_LIT:
		return &CharLiteral{Value: tok.Char}, nil
	case NUMBER:
		return &NumberLiteral{Value: tok.Num}, nil

	case IDENTIFIER:
		if p.peekType(LPAREN) {
			p.cur.Next()
			args, err := p.callArgs()
			if err != nil {
				return nil, fmt.Errorf("in call to %s: %w", tok.Lexeme, err)
			}
			return &FunctionCall{Name: tok.Lexeme, Args: args}, nil
		}
		return &Variable{Name: tok.Lexeme}, nil

	case LPAREN:
		inner, err := p.expression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(RPAREN, "to close parenthesis"); err != nil {
			return nil, err
		}
		return &Parenthetical{Inner: inner}, nil
	}
	return nil, fmt.Errorf("unexpected token %s, expected expression", tok)
}

// callArgs parses a comma separated expression list up to and including the
// closing parenthesis. The opening one has already been consumed.
func (p *Parser) callArgs() ([]Expr, error) {
	if p.peekType(RPAREN) {
		p.cur.Next()
		return nil, nil
	}

	var args []Expr
	for {
		arg, err := p.expression()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)

		tok, ok := p.cur.Next()
		switch {
		case !ok:
			return nil, fmt.Errorf("unexpected end of input in argument list")
		case tok.Type == RPAREN:
			return args, nil
		case tok.Type != COMMA:
			return nil, fmt.Errorf("expected comma or closing parenthesis in argument list, got %s", tok)
		}
	}
}
