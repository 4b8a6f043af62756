package jenc

import (
	"strings"
	"testing"

	"github.com/lattice-substrate/gojson/jval"
)

func TestPrettyEmptyContainers(t *testing.T) {
	if got := string(Pretty(jval.NewArray(), 0, 2)); got != "[]" {
		t.Fatalf("empty array: got %q", got)
	}
	if got := string(Pretty(jval.NewObject(), 0, 2)); got != "{}" {
		t.Fatalf("empty object: got %q", got)
	}
}

func TestPrettyArrayIndentation(t *testing.T) {
	v := arr(jval.Integer(1), jval.Integer(2))
	got := string(Pretty(v, 0, 2))
	want := "[\n  1,\n  2\n]"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestPrettyObjectIndentationAndColonSpace(t *testing.T) {
	v := obj("a", jval.Integer(1), "b", jval.Integer(2))
	got := string(Pretty(v, 0, 2))
	want := "{\n  \"a\": 1,\n  \"b\": 2\n}"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestPrettyLeftMargin(t *testing.T) {
	v := obj("a", jval.Integer(1))
	got := string(Pretty(v, 4, 2))
	want := "{\n      \"a\": 1\n    }"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestPrettyNestedDepth(t *testing.T) {
	inner := obj("b", jval.Integer(2))
	v := obj("a", inner)
	got := string(Pretty(v, 0, 2))
	want := "{\n  \"a\": {\n    \"b\": 2\n  }\n}"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestPrettyFirstLineNotIndentedNoTrailingNewline(t *testing.T) {
	v := obj("a", jval.Integer(1))
	got := string(Pretty(v, 2, 2))
	if strings.HasPrefix(got, " ") {
		t.Fatalf("first line must not be pre-indented: %q", got)
	}
	if strings.HasSuffix(got, "\n") {
		t.Fatalf("output must not end with a newline: %q", got)
	}
}

func TestPrettyIsSupersetOfCompact(t *testing.T) {
	v := obj(
		"name", str("alice"),
		"tags", arr(str("x"), str("y")),
		"active", jval.Boolean(true),
	)
	pretty := string(Pretty(v, 0, 2))
	compact := string(Compact(v))

	stripped := stripIndentationOutsideStrings(pretty)
	if stripped != compact {
		t.Fatalf("stripped pretty output must equal compact output:\nstripped=%q\ncompact =%q", stripped, compact)
	}
}

// stripIndentationOutsideStrings removes every newline and run of
// spaces that jenc's pretty-printer inserts between tokens, without
// touching bytes inside string literals.
func stripIndentationOutsideStrings(s string) string {
	var out []byte
	inString := false
	escaped := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			out = append(out, c)
			if escaped {
				escaped = false
			} else if c == '\\' {
				escaped = true
			} else if c == '"' {
				inString = false
			}
			continue
		}
		if c == '"' {
			inString = true
			out = append(out, c)
			continue
		}
		if c == '\n' || c == ' ' {
			continue
		}
		out = append(out, c)
	}
	return string(out)
}

func TestPrettyIntoSizeProbe(t *testing.T) {
	v := arr(jval.Integer(1), jval.Integer(2))
	full := Pretty(v, 0, 2)
	if n := PrettyInto(nil, v, 0, 2); n != len(full) {
		t.Fatalf("PrettyInto(nil, ...) = %d, want %d", n, len(full))
	}
}
