// Command jmm compiles a J-- source file to Jasmin assembly text.
//
// Usage:
//
//	jmm [flags] <file.jmm>
//
// The emitted class is named after the source file's base name and written
// to <out>/<name>.j. The external Jasmin assembler turns that text into a
// loadable .class file; pass -jasmin to invoke it directly.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"os/exec"

	"github.com/sanity-io/litter"
	"golang.org/x/term"

	"github.com/Baky9912/J-----compiler/pkg/compiler"
	"github.com/Baky9912/J-----compiler/pkg/jasm"
)

func main() {
	outDir := flag.String("out", "j", "output directory for the emitted .j file")
	showAST := flag.Bool("ast", false, "print the AST as a tree before compiling")
	dumpAST := flag.Bool("dump", false, "dump the resolved AST structure (litter)")
	run := flag.Bool("run", false, "execute the compiled method on the abstract stack interpreter")
	jasminJar := flag.String("jasmin", "", "path to jasmin.jar; if set, assemble the emitted .j file")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: jmm [flags] <file.jmm>")
		flag.PrintDefaults()
		os.Exit(2)
	}
	inPath := flag.Arg(0)

	src, err := os.ReadFile(inPath)
	if err != nil {
		fail("read error: %v", err)
	}
	className := compiler.ClassNameFromPath(inPath)

	res, outPath, err := compiler.CompileToFile(string(src), className, *outDir)
	if err != nil {
		var internal *compiler.InternalError
		if errors.As(err, &internal) {
			fail("%v (this is a compiler bug, please report it)", err)
		}
		fail("%v", err)
	}

	if *showAST {
		fmt.Print(compiler.DumpTree(res.Program))
	}
	if *dumpAST {
		litter.Dump(res.Program)
	}

	fmt.Printf("Wrote %s\n", outPath)

	if *jasminJar != "" {
		cmd := exec.Command("java", "-jar", *jasminJar, "-d", *outDir, outPath)
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
		if err := cmd.Run(); err != nil {
			fail("jasmin failed: %v", err)
		}
		fmt.Printf("Wrote %s/%s.class\n", *outDir, className)
	}

	if *run {
		trace, err := jasm.Exec(res.Class.Main)
		if err != nil {
			fail("abstract execution failed: %v", err)
		}
		for _, v := range trace.Output {
			fmt.Println(v)
		}
	}
}

// fail prints a diagnostic to stderr, in red when stderr is a terminal,
// and exits non-zero.
func fail(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if term.IsTerminal(int(os.Stderr.Fd())) {
		msg = "\x1b[31m" + msg + "\x1b[0m"
	}
	fmt.Fprintln(os.Stderr, msg)
	os.Exit(1)
}
