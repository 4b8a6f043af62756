// Command jsonget walks a dot-separated key path through a JSON
// document and prints the value found there.
//
// Stable ABI:
//
//	jsonget <path> [file|-]
//	jsonget --help
//
// A missing key anywhere along the path yields `null`, the same
// result jval.Dig returns for an absent field — jsonget cannot
// distinguish "found an explicit null" from "path does not exist";
// callers needing that distinction should use the jval package
// directly.
//
// Exit codes: 0 (success), 2 (syntax/usage), 10 (I/O).
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/lattice-substrate/gojson/jenc"
	"github.com/lattice-substrate/gojson/jerr"
	"github.com/lattice-substrate/gojson/jfile"
	"github.com/lattice-substrate/gojson/jval"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) == 1 && (args[0] == "--help" || args[0] == "-h") {
		_ = writeHelp(stdout)
		return 0
	}
	if len(args) == 0 {
		_ = writeHelp(stderr)
		return jerr.ContractViolation.ExitCode()
	}

	path := args[0]
	positional := args[1:]
	if len(positional) > 1 {
		_ = writeLine(stderr, "error: multiple input files specified")
		return jerr.ContractViolation.ExitCode()
	}

	data, err := readInput(positional, stdin)
	if err != nil {
		return writeErrorAndReturn(stderr, jerr.IO.ExitCode(), "error: %v\n", err)
	}

	v, decErr := jfile.DecodeReader(strings.NewReader(string(data)), 0)
	if decErr != nil {
		_ = writef(stderr, "error: %v\n", decErr)
		return decErr.Class.ExitCode()
	}

	result := jval.Dig(v, splitPath(path))

	out := append(jenc.Compact(result), '\n')
	if _, err := stdout.Write(out); err != nil {
		return writeErrorAndReturn(stderr, jerr.IO.ExitCode(), "error: writing output: %v\n", err)
	}
	return 0
}

// splitPath turns "a.b.c" into ["a", "b", "c"]; an empty path selects
// the document root.
func splitPath(path string) []string {
	if path == "" {
		return nil
	}
	return strings.Split(path, ".")
}

func readInput(positional []string, stdin io.Reader) ([]byte, error) {
	if len(positional) == 0 || positional[0] == "-" {
		return io.ReadAll(stdin)
	}
	data, err := os.ReadFile(positional[0])
	if err != nil {
		return nil, fmt.Errorf("read file %q: %w", positional[0], err)
	}
	return data, nil
}

func writeErrorAndReturn(w io.Writer, code int, format string, args ...any) int {
	_ = writef(w, format, args...)
	return code
}

func writeHelp(w io.Writer) error {
	if err := writeLine(w, "usage: jsonget <path> [file|-]"); err != nil {
		return err
	}
	return writeLine(w, "  Walks a dot-separated key path through a JSON document and prints the value.")
}

func writeLine(w io.Writer, msg string) error {
	return writef(w, "%s\n", msg)
}

func writef(w io.Writer, format string, args ...any) error {
	if _, err := fmt.Fprintf(w, format, args...); err != nil {
		return fmt.Errorf("write stream: %w", err)
	}
	return nil
}
