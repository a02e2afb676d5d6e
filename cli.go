package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
)

func showUsage() {
	fmt.Fprintf(os.Stderr, `Lark - A small language that compiles to LLVM IR

Usage:
    lark <command> [arguments]

Commands:
    build <file>    Compile a .lark file to a .ll file
    emit <file>     Compile a .lark file and write the IR to stdout
    eval <code>     Compile inline Lark code and print the IR
    check <file>    Parse and type-check a .lark file
    repl            Start an interactive session
    help            Show this help message

Examples:
    lark build -o program.ll hello.lark
    lark emit hello.lark | llc -o hello.s
    lark eval 'func main(): Int { return 1 + 2 }'
    lark check myfile.lark

Environment:
    LARK_COLOR      auto, always or never (NO_COLOR also disables color)
    LARK_HISTORY    REPL history file (default ~/.lark_history)
    LARK_VERBOSE    behave as if -v was given

Use "lark <command> -h" for more information about a command.
`)
}

// newFlagSet builds the flag set shared by the compiling commands.
func newFlagSet(name, usage, summary string, cfg Config) (*flag.FlagSet, *bool) {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	verbose := fs.Bool("v", cfg.Verbose, "Show verbose compilation details")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: lark %s\n", usage)
		fmt.Fprintf(os.Stderr, "%s\n\n", summary)
		fmt.Fprintf(os.Stderr, "Flags:\n")
		fs.PrintDefaults()
	}
	return fs, verbose
}

func parseArgs(fs *flag.FlagSet, args []string, what string) string {
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if fs.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "Error: expected exactly one %s argument\n", what)
		fs.Usage()
		os.Exit(1)
	}
	return fs.Arg(0)
}

func readSource(filename string) string {
	src, err := os.ReadFile(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading file %s: %v\n", filename, err)
		os.Exit(1)
	}
	return string(src)
}

// reportError prints a compile error as a diagnostic with a caret, and any
// other error as a plain message.
func reportError(w io.Writer, err error, color bool) {
	var ce *CompileError
	if errors.As(err, &ce) {
		fmt.Fprint(w, ce.Diagnostic(color))
		return
	}
	fmt.Fprintf(w, "Error: %v\n", err)
}

func buildCommand(args []string, cfg Config) {
	fs, verbose := newFlagSet("build", "build [-o output] [-v] <file>", "Compile a .lark file to LLVM IR", cfg)
	output := fs.String("o", "", "Output file path (default: <filename>.ll)")
	filename := parseArgs(fs, args, "file")

	outputFile := *output
	if outputFile == "" {
		outputFile = strings.TrimSuffix(filename, ".lark") + ".ll"
	}
	if *verbose {
		fmt.Printf("Compiling %s to %s...\n", filename, outputFile)
	}

	ir, err := compileProgram(readSource(filename), *verbose, os.Stdout)
	if err != nil {
		reportError(os.Stderr, err, cfg.UseColor(os.Stderr))
		os.Exit(1)
	}

	if err := os.WriteFile(outputFile, []byte(ir), 0644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing IR file %s: %v\n", outputFile, err)
		os.Exit(1)
	}
	fmt.Printf("Generated %s (%d bytes)\n", outputFile, len(ir))
}

func emitCommand(args []string, cfg Config) {
	fs, verbose := newFlagSet("emit", "emit [-v] <file>", "Compile a .lark file and write the IR to stdout", cfg)
	filename := parseArgs(fs, args, "file")

	// Progress goes to stderr so stdout stays valid IR.
	ir, err := compileProgram(readSource(filename), *verbose, os.Stderr)
	if err != nil {
		reportError(os.Stderr, err, cfg.UseColor(os.Stderr))
		os.Exit(1)
	}
	fmt.Print(ir)
}

func evalCommand(args []string, cfg Config) {
	fs, verbose := newFlagSet("eval", "eval [-v] <code>", "Compile inline Lark code and print the IR", cfg)
	code := parseArgs(fs, args, "code")

	if *verbose {
		fmt.Printf("Evaluating: %s\n", code)
	}
	ir, err := compileProgram(code, *verbose, os.Stdout)
	if err != nil {
		reportError(os.Stderr, err, cfg.UseColor(os.Stderr))
		os.Exit(1)
	}
	fmt.Print(ir)
}

func checkCommand(args []string, cfg Config) {
	fs, verbose := newFlagSet("check", "check [-v] <file>", "Parse and type-check a .lark file", cfg)
	filename := parseArgs(fs, args, "file")

	if *verbose {
		fmt.Printf("Checking %s...\n", filename)
	}
	prog, err := Parse(readSource(filename))
	if err != nil {
		reportError(os.Stderr, err, cfg.UseColor(os.Stderr))
		os.Exit(1)
	}

	fmt.Printf("%s: no errors found\n", filename)
	if *verbose {
		fmt.Printf("AST: %s\n", ToSExpr(prog))
	}
}

// compileProgram runs the whole pipeline, writing progress to log when
// verbose is set.
func compileProgram(src string, verbose bool, log io.Writer) (string, error) {
	prog, err := Parse(src)
	if err != nil {
		return "", err
	}
	if verbose {
		fmt.Fprintf(log, "AST: %s\n", ToSExpr(prog))
	}
	ir := Generate(prog).String()
	if verbose {
		fmt.Fprintf(log, "Generated %d bytes of IR\n", len(ir))
	}
	return ir, nil
}

func main() {
	if len(os.Args) < 2 {
		showUsage()
		os.Exit(1)
	}

	cfg, err := LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "build":
		buildCommand(args, cfg)
	case "emit":
		emitCommand(args, cfg)
	case "eval":
		evalCommand(args, cfg)
	case "check":
		checkCommand(args, cfg)
	case "repl":
		replCommand(args, cfg)
	case "help", "-h", "--help":
		showUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		showUsage()
		os.Exit(1)
	}
}
