// Command jdump prints every compilation phase of a J-- source file:
// tokens, AST (source and tree form), locals count, and the generated
// assembly. It is a debugging aid; the real compiler entry point is the
// jmm command at the repository root.
package main

import (
	"fmt"
	"os"

	"github.com/Baky9912/J-----compiler/pkg/compiler"
	"github.com/Baky9912/J-----compiler/pkg/jasm"
)

const testSource = `var x = 0;
while (x < 3) {
	x = x + 1;
	print x;
}
`

func main() {
	src := testSource
	className := "Demo"
	if len(os.Args) > 1 {
		data, err := os.ReadFile(os.Args[1])
		if err != nil {
			fmt.Fprintln(os.Stderr, "read error:", err)
			os.Exit(1)
		}
		src = string(data)
		className = compiler.ClassNameFromPath(os.Args[1])
	}

	fmt.Printf("Source:\n%s\n", src)

	tokens, err := compiler.Lex(src)
	if err != nil {
		fmt.Fprintln(os.Stderr, "lex error:", err)
		os.Exit(1)
	}
	fmt.Printf("Tokens (%d)\n", len(tokens))
	for _, tok := range tokens {
		fmt.Println(" ", tok)
	}
	fmt.Println()

	prog, err := compiler.Parse(tokens, src)
	if err != nil {
		fmt.Fprintln(os.Stderr, "parse error:", err)
		os.Exit(1)
	}
	fmt.Println("AST (source form)")
	fmt.Print(prog)
	fmt.Println()

	maxLocals, err := compiler.Resolve(prog)
	if err != nil {
		fmt.Fprintln(os.Stderr, "resolve error:", err)
		os.Exit(1)
	}
	fmt.Println("AST (tree form, resolved)")
	fmt.Print(compiler.DumpTree(prog))
	fmt.Printf("locals: %d\n\n", maxLocals)

	class, err := compiler.Generate(prog, className, maxLocals)
	if err != nil {
		fmt.Fprintln(os.Stderr, "codegen error:", err)
		os.Exit(1)
	}
	fmt.Printf("Instructions (max stack %d)\n", class.Main.MaxStack)
	for _, in := range class.Main.Code {
		fmt.Println(" ", in)
	}
	fmt.Println()

	asm, err := jasm.Emit(class)
	if err != nil {
		fmt.Fprintln(os.Stderr, "emit error:", err)
		os.Exit(1)
	}
	fmt.Println("Generated Assembly")
	fmt.Print(asm)
}
