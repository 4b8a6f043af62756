package jdecode

import (
	"strconv"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/lattice-substrate/gojson/jerr"
	"github.com/lattice-substrate/gojson/jval"
)

// parseString parses a JSON string and decodes all escapes. Unescaped
// control bytes (0x00-0x1F, 0x7F) are accepted verbatim, per §4.2 — the
// encoder, not the decoder, is responsible for re-escaping them.
func (p *parser) parseString() (*jval.Value, *jerr.Error) {
	if err := p.expect('"'); err != nil {
		return nil, err
	}

	var buf []byte
	for {
		done, err := p.consumeStringChunk(&buf)
		if err != nil {
			return nil, err
		}
		if done {
			return jval.AdoptString(buf), nil
		}
	}
}

func (p *parser) consumeStringChunk(buf *[]byte) (bool, *jerr.Error) {
	if p.pos >= len(p.data) {
		return false, p.errorf("unterminated string")
	}
	b := p.data[p.pos]
	if b == '"' {
		p.pos++
		return true, nil
	}
	if b == '\\' {
		return false, p.consumeEscapedRune(buf)
	}
	return false, p.consumeUTF8Chunk(buf)
}

func (p *parser) consumeEscapedRune(buf *[]byte) *jerr.Error {
	p.pos++
	r, err := p.parseEscape()
	if err != nil {
		return err
	}
	var tmp [4]byte
	n := utf8.EncodeRune(tmp[:], r)
	*buf = append(*buf, tmp[:n]...)
	return nil
}

func (p *parser) consumeUTF8Chunk(buf *[]byte) *jerr.Error {
	b := p.data[p.pos]
	r, size := utf8.DecodeRune(p.data[p.pos:])
	if r == utf8.RuneError && size <= 1 {
		return p.errorf("invalid UTF-8 byte 0x%02X in string", b)
	}
	*buf = append(*buf, p.data[p.pos:p.pos+size]...)
	p.pos += size
	return nil
}

// parseEscape handles the character after '\'. Returns the decoded rune.
func (p *parser) parseEscape() (rune, *jerr.Error) {
	if p.pos >= len(p.data) {
		return 0, p.errorf("unterminated escape sequence")
	}
	b := p.data[p.pos]
	p.pos++

	if b == 'u' {
		return p.parseUnicodeEscape()
	}
	r, ok := escapedRune(b)
	if !ok {
		return 0, p.errorf("invalid escape character %q", string(b))
	}
	return r, nil
}

func escapedRune(b byte) (rune, bool) {
	switch b {
	case '"':
		return '"', true
	case '\\':
		return '\\', true
	case '/':
		return '/', true
	case 'b':
		return '\b', true
	case 'f':
		return '\f', true
	case 'n':
		return '\n', true
	case 'r':
		return '\r', true
	case 't':
		return '\t', true
	default:
		return 0, false
	}
}

// parseUnicodeEscape parses \uXXXX, combining a valid surrogate pair
// into its supplementary-plane scalar. A lone surrogate of either kind
// fails.
func (p *parser) parseUnicodeEscape() (rune, *jerr.Error) {
	r1, err := p.readHex4()
	if err != nil {
		return 0, err
	}

	if !utf16.IsSurrogate(r1) {
		return r1, nil
	}
	if r1 >= 0xDC00 {
		return 0, p.errorf("lone low surrogate U+%04X", r1)
	}

	r2, err := p.readFollowingLowSurrogate(r1)
	if err != nil {
		return 0, err
	}

	decoded := utf16.DecodeRune(r1, r2)
	if decoded == utf8.RuneError {
		return 0, p.errorf("invalid surrogate pair U+%04X U+%04X", r1, r2)
	}
	return decoded, nil
}

func (p *parser) readFollowingLowSurrogate(high rune) (rune, *jerr.Error) {
	if p.pos+1 >= len(p.data) || p.data[p.pos] != '\\' || p.data[p.pos+1] != 'u' {
		return 0, p.errorf("lone high surrogate U+%04X (no following \\u)", high)
	}
	p.pos += 2

	r2, err := p.readHex4()
	if err != nil {
		return 0, err
	}
	if r2 < 0xDC00 || r2 > 0xDFFF {
		return 0, p.errorf("high surrogate U+%04X followed by non-low-surrogate U+%04X", high, r2)
	}
	return r2, nil
}

// readHex4 reads exactly 4 hex digits and returns the rune value.
func (p *parser) readHex4() (rune, *jerr.Error) {
	if p.pos+4 > len(p.data) {
		return 0, p.errorf("incomplete \\u escape")
	}
	hex := string(p.data[p.pos : p.pos+4])
	p.pos += 4
	val, err := strconv.ParseUint(hex, 16, 16)
	if err != nil {
		return 0, p.errorf("invalid hex in \\u escape: %q", hex)
	}
	return rune(val), nil
}
