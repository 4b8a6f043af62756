package conformance_test

import (
	"strings"
	"testing"

	"github.com/lattice-substrate/gojson/jdecode"
	"github.com/lattice-substrate/gojson/jenc"
	"github.com/lattice-substrate/gojson/jval"
)

// TestIntegerRoundTripIsExact covers invariant 1: decode(encode(v)) == v
// under zero-tolerance equality, for a tree with no Float or Raw.
func TestIntegerRoundTripIsExact(t *testing.T) {
	v := jval.NewObject()
	o := v.Object()
	o.AppendField("a", jval.Integer(-7))
	o.AppendField("b", jval.Unsigned(18446744073709551615))
	o.AppendField("c", jval.Boolean(true))
	o.AppendField("d", jval.Null())
	arr := jval.NewArray()
	arr.Array().Append(jval.Integer(1))
	arr.Array().Append(jval.Integer(2))
	o.AppendField("e", arr)

	encoded := jenc.Compact(v)
	decoded, err := jdecode.Decode(encoded)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !jval.Equal(v, decoded, 0) {
		t.Fatalf("round trip failed: %s -> %s", encoded, jenc.Compact(decoded))
	}
}

// TestFloatRoundTripWithinTolerance covers invariant 2.
func TestFloatRoundTripWithinTolerance(t *testing.T) {
	v := jval.Float(3.14159265)
	encoded := jenc.Compact(v)
	decoded, err := jdecode.Decode(encoded)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !jval.Equal(v, decoded, 1e-12) {
		t.Fatalf("float round trip outside tolerance: %s -> %s", encoded, jenc.Compact(decoded))
	}
}

// TestEncodeDecodeProducesValidJSON covers invariant 3: the re-encoding
// of any decoded value is itself decodable.
func TestEncodeDecodeProducesValidJSON(t *testing.T) {
	inputs := []string{
		`{"a":1,"b":[true,false,null],"c":"x\ny"}`,
		`[1,2,3.5,-4,"five",null,true,false]`,
		`"plain string"`,
		`42`,
	}
	for _, in := range inputs {
		v, err := jdecode.Decode([]byte(in))
		if err != nil {
			t.Fatalf("decode(%q): %v", in, err)
		}
		re := jenc.Compact(v)
		if _, err := jdecode.Decode(re); err != nil {
			t.Fatalf("re-encoded output %q of %q failed to decode: %v", re, in, err)
		}
	}
}

// TestSizeProbeLaw covers invariant 4.
func TestSizeProbeLaw(t *testing.T) {
	v := jval.NewObject()
	v.Object().AppendField("name", mustString(t, "alice"))
	v.Object().AppendField("age", jval.Integer(30))

	exact := jenc.EncodeInto(nil, v)
	full := jenc.Compact(v)
	if exact != len(full) {
		t.Fatalf("EncodeInto(nil, v) = %d, want %d", exact, len(full))
	}

	buf := make([]byte, len(full)+16)
	n := jenc.EncodeInto(buf, v)
	if n != len(full) {
		t.Fatalf("EncodeInto(large buf, v) = %d, want %d", n, len(full))
	}
}

// TestPrettyStripsToCompact covers invariant 5 at the end-to-end level
// (jenc's own package tests cover it at finer grain).
func TestPrettyStripsToCompact(t *testing.T) {
	v, err := jdecode.Decode([]byte(`{"a":1,"b":[2,3],"c":{"d":4}}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	pretty := jenc.Pretty(v, 0, 2)
	compact := jenc.Compact(v)
	if stripWhitespaceOutsideStrings(string(pretty)) != string(compact) {
		t.Fatalf("pretty does not strip down to compact:\npretty =%q\ncompact=%q", pretty, compact)
	}
}

// TestOverlayTransparency covers invariant 6: Get results are the same
// whether or not the overlay has been built yet.
func TestOverlayTransparency(t *testing.T) {
	v := jval.NewArray()
	a := v.Array()
	for i := 0; i < jval.JITSizeLimit+5; i++ {
		a.Append(jval.Integer(int64(i)))
	}

	before := make([]*jval.Value, a.Len())
	for i := range before {
		val, ok := a.Get(i)
		if !ok {
			t.Fatalf("unexpected miss at %d", i)
		}
		before[i] = val
	}
	if a.Promoted() {
		t.Fatalf("test setup: overlay promoted too early")
	}

	for i := 0; i < jval.JITAccessLimit+1; i++ {
		a.Get(0)
	}
	if !a.Promoted() {
		t.Fatalf("expected overlay promotion after crossing JITAccessLimit")
	}

	for i := range before {
		val, ok := a.Get(i)
		if !ok || !jval.Equal(val, before[i], 0) {
			t.Fatalf("overlay-backed Get(%d) disagrees with pre-promotion result", i)
		}
	}
}

// TestClassicDocumentEndToEnd covers the §8 end-to-end scenario.
func TestClassicDocumentEndToEnd(t *testing.T) {
	v := jval.NewObject()
	o := v.Object()
	o.AppendField("string", mustString(t, "\t\"¿xyzzy? \U00024b62"))
	o.AppendField("truth", jval.Boolean(true))
	o.AppendField("lie", jval.Boolean(false))
	o.AppendField("nothing", jval.Null())
	o.AppendField("year", jval.Integer(2017))

	months := jval.NewArray()
	for _, m := range []int64{1, 3, 5, 7, 8, 10, 12} {
		months.Array().Append(jval.Integer(m))
	}
	o.AppendField("months", months)
	o.AppendField("π", jval.Float(3.14159265))

	got := string(jenc.Compact(v))
	const wantPrefix = `{"string":"\t\"¿xyzzy? 𤭢","truth":true,"lie":false,"nothing":null,"year":2017,"months":[1,3,5,7,8,10,12],"π":`
	if !strings.HasPrefix(got, wantPrefix) || !strings.HasSuffix(got, "}") {
		t.Fatalf("got %q, want prefix %q", got, wantPrefix)
	}
}

func mustString(t *testing.T, s string) *jval.Value {
	t.Helper()
	v, err := jval.NewString([]byte(s))
	if err != nil {
		t.Fatalf("NewString: %v", err)
	}
	return v
}

func stripWhitespaceOutsideStrings(s string) string {
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
