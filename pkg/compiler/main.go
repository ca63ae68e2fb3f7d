// Package compiler provides the front end of a small C-subset compiler: a
// lexer, a parser that builds an AST, a preprocessor and a name checker.
//
// Pipeline: C source → Preprocess → Lex → Parse → Check → *Program
package compiler
