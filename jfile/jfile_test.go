package jfile

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lattice-substrate/gojson/jerr"
	"github.com/lattice-substrate/gojson/jval"
)

func TestDecodeFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.json")
	if err := os.WriteFile(path, []byte(`{"a":1,"b":[true,null]}`), 0o644); err != nil {
		t.Fatal(err)
	}
	v, decErr := DecodeFile(path, 0)
	if decErr != nil {
		t.Fatalf("DecodeFile: %v", decErr)
	}
	o, ok := v.GetObject()
	if !ok {
		t.Fatalf("expected object")
	}
	if n, ok := o.Get("a"); !ok || mustInt(t, n) != 1 {
		t.Fatalf("field a wrong")
	}
}

func TestDecodeFileMissing(t *testing.T) {
	_, err := DecodeFile(filepath.Join(t.TempDir(), "nope.json"), 0)
	if err == nil || err.Class != jerr.IO {
		t.Fatalf("expected IO error, got %v", err)
	}
}

func TestDecodeFileEmptyIsSyntaxError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.json")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := DecodeFile(path, 0)
	if err == nil || err.Class != jerr.Syntax {
		t.Fatalf("expected Syntax error for empty file, got %v", err)
	}
}

func TestDecodeFileExceedsCap(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "big.json")
	body := "[" + strings.Repeat("1,", 100) + "1]"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := DecodeFile(path, 8)
	if err == nil || err.Class != jerr.Capacity {
		t.Fatalf("expected Capacity error, got %v", err)
	}
}

func TestDecodeReaderMalformedIsSyntax(t *testing.T) {
	_, err := DecodeReader(strings.NewReader("{not json"), 0)
	if err == nil || err.Class != jerr.Syntax {
		t.Fatalf("expected Syntax error, got %v", err)
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("boom")
}

func TestDecodeReaderIOFailure(t *testing.T) {
	_, err := DecodeReader(failingReader{}, 0)
	if err == nil || err.Class != jerr.IO {
		t.Fatalf("expected IO error, got %v", err)
	}
}

func TestDecodeCStringStopsAtNUL(t *testing.T) {
	data := append([]byte(`{"a":1}`), 0, 'g', 'a', 'r', 'b', 'a', 'g', 'e')
	v, err := DecodeCString(data)
	if err != nil {
		t.Fatalf("DecodeCString: %v", err)
	}
	o, _ := v.GetObject()
	if n, ok := o.Get("a"); !ok || mustInt(t, n) != 1 {
		t.Fatalf("wrong value")
	}
}

func TestDumpFileWritesPrettyWithTrailingNewline(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.json")
	v := jval.NewObject()
	v.Object().AppendField("k", jval.Integer(1))

	if err := DumpFile(path, v, 0, 2); err != nil {
		t.Fatalf("DumpFile: %v", err)
	}
	got, readErr := os.ReadFile(path)
	if readErr != nil {
		t.Fatal(readErr)
	}
	want := "{\n  \"k\": 1\n}\n"
	if string(got) != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestDumpFileLeavesNoTempFileBehind(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.json")
	v := jval.Integer(7)
	if err := DumpFile(path, v, 0, 2); err != nil {
		t.Fatalf("DumpFile: %v", err)
	}
	entries, readErr := os.ReadDir(dir)
	if readErr != nil {
		t.Fatal(readErr)
	}
	if len(entries) != 1 || entries[0].Name() != "out.json" {
		t.Fatalf("unexpected directory contents: %v", entries)
	}
}

func TestDumpFileOverwritesExisting(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.json")
	if err := os.WriteFile(path, []byte("stale"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := DumpFile(path, jval.Integer(1), 0, 2); err != nil {
		t.Fatalf("DumpFile: %v", err)
	}
	got, readErr := os.ReadFile(path)
	if readErr != nil {
		t.Fatal(readErr)
	}
	if bytes.Equal(got, []byte("stale")) {
		t.Fatalf("file was not overwritten")
	}
}

func mustInt(t *testing.T, v *jval.Value) int64 {
	t.Helper()
	i, ok := v.GetInteger()
	if !ok {
		t.Fatalf("expected integer, got %v", v.Kind())
	}
	return i
}
