package compiler

import "fmt"

// TokenType identifies the category of a lexed token.
type TokenType int

const (
	EOF TokenType = iota // sentinel: end of input

	// Literals
	IDENTIFIER // variable name
	INTEGER    // decimal integer literal

	// Keywords
	VAR   // "var" ("let" lexes to the same type)
	PRINT // "print"
	WHILE // "while"
	IF    // "if"
	ELSE  // "else"

	// Paired delimiters
	LBRACE // {
	RBRACE // }
	LPAREN // (
	RPAREN // )

	// Punctuation
	SEMICOLON // ;

	// Arithmetic operators
	PLUS  // +
	MINUS // -
	STAR  // *
	SLASH // /

	// Assignment / comparison  (order matters: ASSIGN before EQUALS)
	ASSIGN // =

	EQUALS     // ==
	NOT_EQ     // !=
	LESS       // <
	GREATER    // >
	LESS_EQ    // <=
	GREATER_EQ // >=
)

// tokenNames is indexed by TokenType; the length check in init() below keeps
// the table in sync with the constant block.
var tokenNames = [...]string{
	EOF:        "EOF",
	IDENTIFIER: "IDENTIFIER",
	INTEGER:    "INTEGER",
	VAR:        "VAR",
	PRINT:      "PRINT",
	WHILE:      "WHILE",
	IF:         "IF",
	ELSE:       "ELSE",
	LBRACE:     "LBRACE",
	RBRACE:     "RBRACE",
	LPAREN:     "LPAREN",
	RPAREN:     "RPAREN",
	SEMICOLON:  "SEMICOLON",
	PLUS:       "PLUS",
	MINUS:      "MINUS",
	STAR:       "STAR",
	SLASH:      "SLASH",
	ASSIGN:     "ASSIGN",
	EQUALS:     "EQUALS",
	NOT_EQ:     "NOT_EQ",
	LESS:       "LESS",
	GREATER:    "GREATER",
	LESS_EQ:    "LESS_EQ",
	GREATER_EQ: "GREATER_EQ",
}

func init() {
	if len(tokenNames) != int(GREATER_EQ)+1 {
		panic("tokenNames out of sync with TokenType constants")
	}
}

// String returns the symbolic name of the token type, e.g. "IDENTIFIER".
func (tt TokenType) String() string {
	if int(tt) < 0 || int(tt) >= len(tokenNames) {
		return fmt.Sprintf("TokenType(%d)", int(tt))
	}
	return tokenNames[tt]
}

// Token is one lexical unit of a J-- source file. Line and Col are 1-based.
type Token struct {
	Type   TokenType
	Lexeme string
	Line   int
	Col    int
}

func (t Token) String() string {
	return fmt.Sprintf("%s %q @%d:%d", t.Type, t.Lexeme, t.Line, t.Col)
}
