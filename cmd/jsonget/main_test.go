package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/lattice-substrate/gojson/jerr"
)

func TestRunDigsNestedPath(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run([]string{"a.b"}, strings.NewReader(`{"a":{"b":42}}`), &stdout, &stderr)
	if code != 0 {
		t.Fatalf("expected exit 0, got %d (%s)", code, stderr.String())
	}
	if stdout.String() != "42\n" {
		t.Fatalf("got %q", stdout.String())
	}
}

func TestRunMissingPathYieldsNull(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run([]string{"a.missing"}, strings.NewReader(`{"a":{"b":1}}`), &stdout, &stderr)
	if code != 0 {
		t.Fatalf("expected exit 0, got %d (%s)", code, stderr.String())
	}
	if stdout.String() != "null\n" {
		t.Fatalf("got %q", stdout.String())
	}
}

func TestRunEmptyPathSelectsRoot(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run([]string{""}, strings.NewReader(`{"a":1}`), &stdout, &stderr)
	if code != 0 {
		t.Fatalf("expected exit 0, got %d (%s)", code, stderr.String())
	}
	if stdout.String() != "{\"a\":1}\n" {
		t.Fatalf("got %q", stdout.String())
	}
}

func TestRunSyntaxErrorExitCode(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run([]string{"a"}, strings.NewReader(`{bad`), &stdout, &stderr)
	if code != jerr.Syntax.ExitCode() {
		t.Fatalf("expected exit %d, got %d", jerr.Syntax.ExitCode(), code)
	}
}

func TestRunNoArgsExitsUsage(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run(nil, strings.NewReader(""), &stdout, &stderr)
	if code != jerr.ContractViolation.ExitCode() {
		t.Fatalf("expected exit %d, got %d", jerr.ContractViolation.ExitCode(), code)
	}
}

func TestRunHelpExitZero(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run([]string{"--help"}, strings.NewReader(""), &stdout, &stderr)
	if code != 0 {
		t.Fatalf("expected exit 0, got %d", code)
	}
	if !strings.Contains(stdout.String(), "usage: jsonget") {
		t.Fatalf("expected usage output, got %q", stdout.String())
	}
}
