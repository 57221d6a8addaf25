package compiler

import (
	"fmt"
	"strconv"
	"strings"
)

// Parser consumes the flat token slice produced by the Lexer and builds an
// AST via recursive descent, one method per nonterminal.
//
// Grammar (the precedence/associativity table below is the authoritative
// contract; every binary level is left-associative):
//
//	program    = statement* EOF
//	statement  = varDecl | assignment | printStmt | whileStmt | ifStmt | block
//	varDecl    = ("var" | "let") IDENTIFIER "=" expression ";"
//	assignment = IDENTIFIER "=" expression ";"
//	printStmt  = "print" expression ";"
//	whileStmt  = "while" "(" expression ")" block
//	ifStmt     = "if" "(" expression ")" block ("else" (ifStmt | block))?
//	block      = "{" statement* "}"
//	expression = equality
//	equality   = relational (("==" | "!=") relational)*
//	relational = additive (("<" | ">" | "<=" | ">=") additive)*
//	additive   = term (("+" | "-") term)*
//	term       = unary (("*" | "/") unary)*
//	unary      = "-" unary | primary
//	primary    = INTEGER | IDENTIFIER | "(" expression ")"
//
// Parsing stops at the first error; there is no recovery.
type Parser struct {
	tokens      []Token
	pos         int
	sourceLines []string
}

func NewParser(tokens []Token, rawSource string) *Parser {
	return &Parser{tokens: tokens, sourceLines: strings.Split(rawSource, "\n")}
}

// Parse runs the parser on tokens and returns the Program root, or the
// first *SyntaxError encountered.
func Parse(tokens []Token, rawSource string) (*Program, error) {
	return NewParser(tokens, rawSource).parseProgram()
}

// fmtError builds a *SyntaxError carrying the source line the token sits on.
func (p *Parser) fmtError(tok Token, format string, args ...any) error {
	snippet := ""
	if lineIdx := tok.Line - 1; lineIdx >= 0 && lineIdx < len(p.sourceLines) {
		snippet = strings.TrimSpace(p.sourceLines[lineIdx])
	}
	return &SyntaxError{
		Line:    tok.Line,
		Col:     tok.Col,
		Msg:     fmt.Sprintf(format, args...),
		Snippet: snippet,
	}
}

// peek returns the current token without consuming it.
func (p *Parser) peek() Token {
	if p.pos >= len(p.tokens) {
		return Token{Type: EOF}
	}
	return p.tokens[p.pos]
}

// peekNext returns the token immediately after the current one.
func (p *Parser) peekNext() Token {
	if p.pos+1 >= len(p.tokens) {
		return Token{Type: EOF}
	}
	return p.tokens[p.pos+1]
}

// advance consumes and returns the current token.
func (p *Parser) advance() Token {
	tok := p.peek()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}

// expect consumes the current token if it matches tt, otherwise errors.
func (p *Parser) expect(tt TokenType) (Token, error) {
	tok := p.advance()
	if tok.Type != tt {
		return tok, p.fmtError(tok, "expected %s, got %s (%q)", tt, tok.Type, tok.Lexeme)
	}
	return tok, nil
}

func (p *Parser) parseProgram() (*Program, error) {
	prog := &Program{}
	for p.peek().Type != EOF {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		prog.Stmts = append(prog.Stmts, stmt)
	}
	return prog, nil
}

func (p *Parser) parseStatement() (Stmt, error) {
	switch p.peek().Type {
	case VAR:
		return p.parseVarDecl()
	case PRINT:
		return p.parsePrint()
	case WHILE:
		return p.parseWhile()
	case IF:
		return p.parseIf()
	case LBRACE:
		return p.parseBlock()
	case IDENTIFIER:
		if p.peekNext().Type == ASSIGN {
			return p.parseAssignment()
		}
		tok := p.peek()
		return nil, p.fmtError(tok, "expected '=' after identifier %q, got %s", tok.Lexeme, p.peekNext().Type)
	default:
		tok := p.peek()
		return nil, p.fmtError(tok, "expected statement, got %s (%q)", tok.Type, tok.Lexeme)
	}
}

func (p *Parser) parseVarDecl() (Stmt, error) {
	kw := p.advance() // var
	nameTok, err := p.expect(IDENTIFIER)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(ASSIGN); err != nil {
		return nil, err
	}
	init, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(SEMICOLON); err != nil {
		return nil, err
	}
	return &VarDecl{Name: nameTok.Lexeme, Init: init, Line: kw.Line, Col: kw.Col}, nil
}

func (p *Parser) parseAssignment() (Stmt, error) {
	nameTok := p.advance() // IDENTIFIER
	p.advance()            // =
	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(SEMICOLON); err != nil {
		return nil, err
	}
	return &Assign{Name: nameTok.Lexeme, Value: value, Line: nameTok.Line, Col: nameTok.Col}, nil
}

func (p *Parser) parsePrint() (Stmt, error) {
	kw := p.advance() // print
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(SEMICOLON); err != nil {
		return nil, err
	}
	return &Print{Expr: expr, Line: kw.Line, Col: kw.Col}, nil
}

func (p *Parser) parseWhile() (Stmt, error) {
	kw := p.advance() // while
	if _, err := p.expect(LPAREN); err != nil {
		return nil, err
	}
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(RPAREN); err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &While{Cond: cond, Body: body, Line: kw.Line, Col: kw.Col}, nil
}

// parseIf parses an if statement. An "else if" chain becomes nested If
// nodes hanging off Else.
func (p *Parser) parseIf() (Stmt, error) {
	kw := p.advance() // if
	if _, err := p.expect(LPAREN); err != nil {
		return nil, err
	}
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(RPAREN); err != nil {
		return nil, err
	}
	then, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	stmt := &If{Cond: cond, Then: then, Line: kw.Line, Col: kw.Col}
	if p.peek().Type != ELSE {
		return stmt, nil
	}
	p.advance() // else

	if p.peek().Type == IF {
		elseIf, err := p.parseIf()
		if err != nil {
			return nil, err
		}
		stmt.Else = elseIf
		return stmt, nil
	}
	elseBlock, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	stmt.Else = elseBlock
	return stmt, nil
}

func (p *Parser) parseBlock() (*Block, error) {
	open, err := p.expect(LBRACE)
	if err != nil {
		return nil, err
	}
	block := &Block{Line: open.Line, Col: open.Col}
	for p.peek().Type != RBRACE {
		if p.peek().Type == EOF {
			return nil, p.fmtError(open, "unclosed block: missing '}'")
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		block.Stmts = append(block.Stmts, stmt)
	}
	p.advance() // }
	return block, nil
}

// parseExpression is the entry point for expression parsing.
func (p *Parser) parseExpression() (Expr, error) {
	return p.parseEquality()
}

// parseEquality handles == and !=
func (p *Parser) parseEquality() (Expr, error) {
	expr, err := p.parseRelational()
	if err != nil {
		return nil, err
	}
	for p.peek().Type == EQUALS || p.peek().Type == NOT_EQ {
		op := p.advance()
		right, err := p.parseRelational()
		if err != nil {
			return nil, err
		}
		expr = &Binary{Op: op.Type, Left: expr, Right: right, Line: op.Line, Col: op.Col}
	}
	return expr, nil
}

// parseRelational handles < > <= >=
func (p *Parser) parseRelational() (Expr, error) {
	expr, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	for {
		tt := p.peek().Type
		if tt != LESS && tt != GREATER && tt != LESS_EQ && tt != GREATER_EQ {
			return expr, nil
		}
		op := p.advance()
		right, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		expr = &Binary{Op: op.Type, Left: expr, Right: right, Line: op.Line, Col: op.Col}
	}
}

// parseAdditive handles + and -
func (p *Parser) parseAdditive() (Expr, error) {
	expr, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for p.peek().Type == PLUS || p.peek().Type == MINUS {
		op := p.advance()
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		expr = &Binary{Op: op.Type, Left: expr, Right: right, Line: op.Line, Col: op.Col}
	}
	return expr, nil
}

// parseTerm handles * and /
func (p *Parser) parseTerm() (Expr, error) {
	expr, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.peek().Type == STAR || p.peek().Type == SLASH {
		op := p.advance()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		expr = &Binary{Op: op.Type, Left: expr, Right: right, Line: op.Line, Col: op.Col}
	}
	return expr, nil
}

// parseUnary handles negation.
func (p *Parser) parseUnary() (Expr, error) {
	if p.peek().Type == MINUS {
		op := p.advance()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &Unary{Op: op.Type, Right: right, Line: op.Line, Col: op.Col}, nil
	}
	return p.parsePrimary()
}

func (p *Parser) parsePrimary() (Expr, error) {
	tok := p.advance()
	switch tok.Type {
	case INTEGER:
		v, err := strconv.Atoi(tok.Lexeme)
		if err != nil {
			return nil, p.fmtError(tok, "integer %q out of range", tok.Lexeme)
		}
		return &IntLit{Value: v, Line: tok.Line, Col: tok.Col}, nil
	case IDENTIFIER:
		return &VarRef{Name: tok.Lexeme, Line: tok.Line, Col: tok.Col}, nil
	case LPAREN:
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(RPAREN); err != nil {
			return nil, err
		}
		return expr, nil
	default:
		return nil, p.fmtError(tok, "expected expression, got %s (%q)", tok.Type, tok.Lexeme)
	}
}
