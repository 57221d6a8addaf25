package compiler

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/Baky9912/J-----compiler/pkg/jasm"
)

// Result holds everything one compilation produced.
type Result struct {
	Program  *Program    // resolved AST
	Class    *jasm.Class // compiled class with computed stack/locals limits
	Assembly string      // Jasmin text
}

// Compile runs the whole pipeline on src: lex, parse, resolve, generate,
// emit. className names the emitted class. It fails fast with the first
// *LexError, *SyntaxError or *SemanticError; an *InternalError or an
// emitter error means a compiler bug.
func Compile(src string, className string) (*Result, error) {
	tokens, err := Lex(src)
	if err != nil {
		return nil, err
	}

	prog, err := Parse(tokens, src)
	if err != nil {
		return nil, err
	}

	maxLocals, err := Resolve(prog)
	if err != nil {
		return nil, err
	}

	class, err := Generate(prog, className, maxLocals)
	if err != nil {
		return nil, err
	}

	assembly, err := jasm.Emit(class)
	if err != nil {
		return nil, err
	}

	return &Result{Program: prog, Class: class, Assembly: assembly}, nil
}

// CompileToFile compiles src and writes <outDir>/<className>.j, creating
// outDir if needed. Nothing is written when compilation fails.
func CompileToFile(src string, className string, outDir string) (*Result, string, error) {
	res, err := Compile(src, className)
	if err != nil {
		return nil, "", err
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, "", fmt.Errorf("create output directory: %w", err)
	}
	outPath := filepath.Join(outDir, className+".j")
	if err := os.WriteFile(outPath, []byte(res.Assembly), 0o644); err != nil {
		return nil, "", fmt.Errorf("write assembly: %w", err)
	}
	return res, outPath, nil
}

// ClassNameFromPath derives the emitted class name from a source file
// path: the base name with its extension removed.
func ClassNameFromPath(path string) string {
	base := filepath.Base(path)
	if ext := filepath.Ext(base); ext != "" {
		base = base[:len(base)-len(ext)]
	}
	return base
}
