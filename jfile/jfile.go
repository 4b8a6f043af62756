// Package jfile provides the blocking, byte-slurping file convenience
// layer around jdecode/jenc: read-and-decode with a size cap, and an
// atomic pretty-print-and-write helper. This is the one place in the
// module that performs I/O; everything else operates on in-memory
// byte slices and value trees.
package jfile

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/lattice-substrate/gojson/jdecode"
	"github.com/lattice-substrate/gojson/jenc"
	"github.com/lattice-substrate/gojson/jerr"
	"github.com/lattice-substrate/gojson/jval"
)

// DefaultMaxBytes bounds DecodeFile's read size when the caller passes
// maxBytes <= 0.
const DefaultMaxBytes = 64 * 1024 * 1024

// DecodeFile opens path, reads at most maxBytes (DefaultMaxBytes if
// maxBytes <= 0), and decodes the result as JSON.
//
// Failure is one of jerr's four classes (spec §6): IO for an open/read
// error, Capacity if the file exceeds maxBytes, or Syntax for a
// malformed or empty file — the empty file is specifically a Syntax
// failure, not a degenerate success.
func DecodeFile(path string, maxBytes int64) (*jval.Value, *jerr.Error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, jerr.Wrap(jerr.IO, 0, "jfile: open "+path, err)
	}
	defer f.Close()
	return DecodeReader(f, maxBytes)
}

// DecodeReader reads at most maxBytes (DefaultMaxBytes if maxBytes <=
// 0) from r and decodes it as JSON.
func DecodeReader(r io.Reader, maxBytes int64) (*jval.Value, *jerr.Error) {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	data, err := io.ReadAll(io.LimitReader(r, maxBytes+1))
	if err != nil {
		return nil, jerr.Wrap(jerr.IO, 0, "jfile: read", err)
	}
	if int64(len(data)) > maxBytes {
		return nil, jerr.New(jerr.Capacity, int(maxBytes), fmt.Sprintf("input exceeds %d byte cap", maxBytes))
	}
	if len(data) == 0 {
		return nil, jerr.New(jerr.Syntax, 0, "empty input")
	}
	return jdecode.Decode(data)
}

// DecodeCString decodes data as JSON, treating it as NUL-terminated:
// only the bytes before the first 0x00 are considered (spec §6,
// "decoding ... from a NUL-terminated string").
func DecodeCString(data []byte) (*jval.Value, *jerr.Error) {
	if i := bytes.IndexByte(data, 0); i >= 0 {
		data = data[:i]
	}
	return jdecode.Decode(data)
}

// DumpFile pretty-prints v with a trailing newline and writes it to
// path atomically via a temp file + rename in the same directory,
// mirroring the teacher library's GJCS1 write path.
func DumpFile(path string, v *jval.Value, leftMargin, indentation int) *jerr.Error {
	body := jenc.Pretty(v, leftMargin, indentation)
	body = append(body, '\n')
	if err := writeAtomic(path, body); err != nil {
		return jerr.Wrap(jerr.IO, 0, "jfile: write "+path, err)
	}
	return nil
}

func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)

	tmp, err := os.CreateTemp(dir, ".jfile-*.tmp")
	if err != nil {
		return fmt.Errorf("jfile: create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	success := false
	defer func() {
		if !success {
			tmp.Close()
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("jfile: write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("jfile: sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("jfile: close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("jfile: rename temp to final: %w", err)
	}
	success = true

	syncDir(dir)
	return nil
}

// syncDir best-effort fsyncs the directory for crash-consistent
// durability of the preceding rename. Errors are ignored — this is a
// SHOULD, not a MUST.
func syncDir(dir string) {
	d, err := os.Open(dir)
	if err != nil {
		return
	}
	defer d.Close()
	_ = d.Sync()
}
