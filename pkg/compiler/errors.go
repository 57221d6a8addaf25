package compiler

import "fmt"

// The compiler fails fast: each phase returns the first error it finds and
// the whole compilation aborts. User-facing errors carry a 1-based source
// position. InternalError marks a compiler bug (an invariant the resolver
// should have enforced was violated), so callers can tell "your program is
// invalid" apart from "the compiler is broken".

// LexError reports an unrecognised character or a malformed literal.
type LexError struct {
	Line, Col int
	Msg       string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("line %d:%d: lex error: %s", e.Line, e.Col, e.Msg)
}

// SyntaxError reports an unexpected token, naming the construct the parser
// expected and what it actually found. Snippet holds the offending source
// line, trimmed.
type SyntaxError struct {
	Line, Col int
	Msg       string
	Snippet   string
}

func (e *SyntaxError) Error() string {
	if e.Snippet == "" {
		return fmt.Sprintf("line %d:%d: syntax error: %s", e.Line, e.Col, e.Msg)
	}
	return fmt.Sprintf("line %d:%d: syntax error: %s\n  |> %s", e.Line, e.Col, e.Msg, e.Snippet)
}

// SemanticError reports an undeclared identifier or a same-scope
// redeclaration found by the resolver.
type SemanticError struct {
	Line, Col int
	Msg       string
}

func (e *SemanticError) Error() string {
	return fmt.Sprintf("line %d:%d: semantic error: %s", e.Line, e.Col, e.Msg)
}

// InternalError indicates a bug in the compiler itself, not in the program
// being compiled.
type InternalError struct {
	Msg string
}

func (e *InternalError) Error() string {
	return "internal compiler error: " + e.Msg
}

func internalf(format string, args ...any) *InternalError {
	return &InternalError{Msg: fmt.Sprintf(format, args...)}
}
