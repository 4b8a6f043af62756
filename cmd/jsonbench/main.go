// Command jsonbench replays an adaptive-index-overlay workload against
// a jval container and prints the resulting evidence bundle as JSON.
//
// Stable ABI:
//
//	jsonbench [--kind array|object] [--size N] [--lanes N] [--accesses mode[:arg]]
//	jsonbench --help
//
// --accesses selects the access pattern: "sequential" visits every
// element once in order; "repeated:N" issues N accesses all at index 0,
// the fastest way to force overlay promotion on a large container.
//
// Exit codes: 0 (success), 2 (usage/replay failure).
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/lattice-substrate/gojson/jbench"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

type flags struct {
	kind     string
	size     int
	lanes    int
	accesses string
	help     bool
}

func run(args []string, stdout, stderr io.Writer) int {
	fl, err := parseFlags(args)
	if err != nil {
		return writeErrorAndReturn(stderr, 2, "error: %v\n", err)
	}
	if fl.help {
		_ = writeHelp(stdout)
		return 0
	}

	accesses, err := buildAccesses(fl.accesses, fl.size)
	if err != nil {
		return writeErrorAndReturn(stderr, 2, "error: %v\n", err)
	}

	var kind jbench.ContainerKind
	switch fl.kind {
	case "array":
		kind = jbench.ArrayContainer
	case "object":
		kind = jbench.ObjectContainer
	default:
		return writeErrorAndReturn(stderr, 2, "error: unknown --kind %q (want array or object)\n", fl.kind)
	}

	w := &jbench.Workload{
		Name:     fmt.Sprintf("%s-%d-%s", fl.kind, fl.size, fl.accesses),
		Kind:     kind,
		Size:     fl.size,
		Accesses: accesses,
	}

	ev, err := jbench.Replay(w, fl.lanes)
	if err != nil {
		return writeErrorAndReturn(stderr, 2, "error: %v\n", err)
	}

	out, err := json.MarshalIndent(ev, "", "  ")
	if err != nil {
		return writeErrorAndReturn(stderr, 2, "error: marshal evidence: %v\n", err)
	}
	out = append(out, '\n')
	if _, err := stdout.Write(out); err != nil {
		return writeErrorAndReturn(stderr, 2, "error: writing output: %v\n", err)
	}
	return 0
}

func buildAccesses(spec string, size int) ([]int, error) {
	switch {
	case spec == "" || spec == "sequential":
		return jbench.SequentialAccesses(size), nil
	case strings.HasPrefix(spec, "repeated:"):
		n, err := strconv.Atoi(strings.TrimPrefix(spec, "repeated:"))
		if err != nil {
			return nil, fmt.Errorf("--accesses repeated:N: %w", err)
		}
		return jbench.RepeatedAccesses(0, n), nil
	default:
		return nil, fmt.Errorf("unknown --accesses mode %q", spec)
	}
}

func parseFlags(args []string) (flags, error) {
	f := flags{kind: "array", size: 40, lanes: 3, accesses: "sequential"}
	for i := 0; i < len(args); i++ {
		arg := args[i]
		next := func() (string, error) {
			i++
			if i >= len(args) {
				return "", fmt.Errorf("%s requires a value", arg)
			}
			return args[i], nil
		}
		switch arg {
		case "--help", "-h":
			f.help = true
		case "--kind":
			v, err := next()
			if err != nil {
				return flags{}, err
			}
			f.kind = v
		case "--size":
			v, err := next()
			if err != nil {
				return flags{}, err
			}
			n, err := strconv.Atoi(v)
			if err != nil {
				return flags{}, fmt.Errorf("--size: %w", err)
			}
			f.size = n
		case "--lanes":
			v, err := next()
			if err != nil {
				return flags{}, err
			}
			n, err := strconv.Atoi(v)
			if err != nil {
				return flags{}, fmt.Errorf("--lanes: %w", err)
			}
			f.lanes = n
		case "--accesses":
			v, err := next()
			if err != nil {
				return flags{}, err
			}
			f.accesses = v
		default:
			return flags{}, fmt.Errorf("unknown option: %s", arg)
		}
	}
	return f, nil
}

func writeErrorAndReturn(w io.Writer, code int, format string, args ...any) int {
	_, _ = fmt.Fprintf(w, format, args...)
	return code
}

func writeHelp(w io.Writer) error {
	lines := []string{
		"usage: jsonbench [--kind array|object] [--size N] [--lanes N] [--accesses mode[:arg]]",
		"  Replays an access workload against a jval container and prints an evidence bundle.",
		"  --accesses sequential    visit every element once, in order (default)",
		"  --accesses repeated:N    issue N accesses at index/key 0",
	}
	for _, l := range lines {
		if _, err := fmt.Fprintln(w, l); err != nil {
			return err
		}
	}
	return nil
}
