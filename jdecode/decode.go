// Package jdecode implements an RFC 8259 JSON decoder that builds a
// jval value tree directly, with a bounded nesting depth and strict
// UTF-8/UTF-16 string rules.
package jdecode

import (
	"fmt"

	"github.com/lattice-substrate/gojson/jerr"
	"github.com/lattice-substrate/gojson/jval"
)

// MaxNestingDepth bounds how deeply arrays and objects may nest before
// decoding fails.
const MaxNestingDepth = 200

func init() {
	jval.RawDecoder = func(data []byte) (*jval.Value, error) {
		v, err := Decode(data)
		if err != nil {
			return nil, err
		}
		return v, nil
	}
}

// Decode parses a complete JSON text from data, returning the value
// tree or a syntax failure. Decoding never returns a partial value: on
// error, the first return is nil.
func Decode(data []byte) (*jval.Value, *jerr.Error) {
	p := &parser{data: data}
	p.skipWhitespace()
	v, err := p.parseValue()
	if err != nil {
		return nil, err
	}
	p.skipWhitespace()
	if p.pos != len(p.data) {
		return nil, p.errorf("trailing content after JSON value")
	}
	return v, nil
}

// parser holds byte-slice decoding state.
type parser struct {
	data  []byte
	pos   int
	depth int
}

func (p *parser) errorf(format string, args ...any) *jerr.Error {
	return jerr.New(jerr.Syntax, p.pos, fmt.Sprintf(format, args...))
}

func (p *parser) peek() (byte, bool) {
	if p.pos >= len(p.data) {
		return 0, false
	}
	return p.data[p.pos], true
}

func (p *parser) next() (byte, bool) {
	if p.pos >= len(p.data) {
		return 0, false
	}
	b := p.data[p.pos]
	p.pos++
	return b, true
}

func (p *parser) expect(b byte) *jerr.Error {
	c, ok := p.next()
	if !ok {
		return p.errorf("unexpected end of input, expected %q", string(b))
	}
	if c != b {
		return p.errorf("expected %q, got %q", string(b), string(c))
	}
	return nil
}

func (p *parser) skipWhitespace() {
	for p.pos < len(p.data) {
		switch p.data[p.pos] {
		case ' ', '\t', '\n', '\r':
			p.pos++
		default:
			return
		}
	}
}

func (p *parser) pushDepth() *jerr.Error {
	p.depth++
	if p.depth > MaxNestingDepth {
		return p.errorf("nesting depth %d exceeds maximum %d", p.depth, MaxNestingDepth)
	}
	return nil
}

func (p *parser) popDepth() { p.depth-- }

func (p *parser) parseValue() (*jval.Value, *jerr.Error) {
	c, ok := p.peek()
	if !ok {
		return nil, p.errorf("unexpected end of input")
	}
	switch c {
	case '{':
		return p.parseObject()
	case '[':
		return p.parseArray()
	case '"':
		return p.parseString()
	case 't', 'f':
		return p.parseBool()
	case 'n':
		return p.parseNull()
	default:
		return p.parseNumber()
	}
}

func (p *parser) parseObject() (*jval.Value, *jerr.Error) {
	if err := p.pushDepth(); err != nil {
		return nil, err
	}
	defer p.popDepth()

	if err := p.expect('{'); err != nil {
		return nil, err
	}
	p.skipWhitespace()

	v := jval.NewObject()
	o := v.Object()

	empty, ok := p.peek()
	if !ok {
		return nil, p.errorf("unexpected end of input in object")
	}
	if empty == '}' {
		p.pos++
		return v, nil
	}

	for {
		p.skipWhitespace()
		keyVal, err := p.parseString()
		if err != nil {
			return nil, err
		}
		keyBytes, _ := keyVal.GetString()

		p.skipWhitespace()
		if err := p.expect(':'); err != nil {
			return nil, err
		}
		p.skipWhitespace()

		val, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		// The decoder never deduplicates member names; duplicates are
		// appended in sequence and resolved only if the object's index
		// overlay is later built (jval.Object.Get).
		o.AppendField(string(keyBytes), val)

		p.skipWhitespace()
		c, ok := p.peek()
		if !ok {
			return nil, p.errorf("unexpected end of input in object")
		}
		if c == '}' {
			p.pos++
			return v, nil
		}
		if c == ',' {
			p.pos++
			continue
		}
		return nil, p.errorf("expected ',' or '}' in object, got %q", string(c))
	}
}

func (p *parser) parseArray() (*jval.Value, *jerr.Error) {
	if err := p.pushDepth(); err != nil {
		return nil, err
	}
	defer p.popDepth()

	if err := p.expect('['); err != nil {
		return nil, err
	}
	p.skipWhitespace()

	v := jval.NewArray()
	a := v.Array()

	c, ok := p.peek()
	if !ok {
		return nil, p.errorf("unexpected end of input in array")
	}
	if c == ']' {
		p.pos++
		return v, nil
	}

	for {
		p.skipWhitespace()
		elem, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		a.Append(elem)

		p.skipWhitespace()
		c, ok := p.peek()
		if !ok {
			return nil, p.errorf("unexpected end of input in array")
		}
		if c == ']' {
			p.pos++
			return v, nil
		}
		if c == ',' {
			p.pos++
			continue
		}
		return nil, p.errorf("expected ',' or ']' in array, got %q", string(c))
	}
}

func (p *parser) parseBool() (*jval.Value, *jerr.Error) {
	if p.pos+4 <= len(p.data) && string(p.data[p.pos:p.pos+4]) == "true" {
		p.pos += 4
		return jval.Boolean(true), nil
	}
	if p.pos+5 <= len(p.data) && string(p.data[p.pos:p.pos+5]) == "false" {
		p.pos += 5
		return jval.Boolean(false), nil
	}
	return nil, p.errorf("invalid literal")
}

func (p *parser) parseNull() (*jval.Value, *jerr.Error) {
	if p.pos+4 <= len(p.data) && string(p.data[p.pos:p.pos+4]) == "null" {
		p.pos += 4
		return jval.Null(), nil
	}
	return nil, p.errorf("invalid literal")
}
