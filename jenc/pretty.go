package jenc

import "github.com/lattice-substrate/gojson/jval"

// Pretty returns v's pretty-printed encoding using the given left
// margin and indentation step (spec §4.5).
func Pretty(v *jval.Value, leftMargin, indentation int) []byte {
	return AppendPretty(nil, v, leftMargin, indentation)
}

// AppendPretty appends v's pretty-printed encoding to dst. Stripping
// every inserted indentation byte outside of strings reproduces the
// compact encoding (spec §8 invariant 5).
func AppendPretty(dst []byte, v *jval.Value, leftMargin, indentation int) []byte {
	p := &prettyPrinter{leftMargin: leftMargin, indentation: indentation}
	dst, _ = p.appendValue(dst, v, 0)
	return dst
}

// PrettyInto implements the §4.4 size-probing contract for the
// pretty-printed encoding; see EncodeInto for the exact semantics.
func PrettyInto(buf []byte, v *jval.Value, leftMargin, indentation int) int {
	full := AppendPretty(nil, v, leftMargin, indentation)
	if len(buf) > 0 {
		n := copy(buf, full)
		if n < len(buf) {
			buf[n] = 0
		} else {
			buf[len(buf)-1] = 0
		}
	}
	return len(full)
}

type prettyPrinter struct {
	leftMargin  int
	indentation int
}

func (p *prettyPrinter) indentAt(depth int) int {
	return p.leftMargin + depth*p.indentation
}

func (p *prettyPrinter) appendIndent(dst []byte, n int) []byte {
	dst = append(dst, '\n')
	for i := 0; i < n; i++ {
		dst = append(dst, ' ')
	}
	return dst
}

func (p *prettyPrinter) appendValue(dst []byte, v *jval.Value, depth int) ([]byte, error) {
	switch v.Kind() {
	case jval.KindArray:
		return p.appendArray(dst, v, depth)
	case jval.KindObject:
		return p.appendObject(dst, v, depth)
	default:
		return appendValue(dst, v)
	}
}

func (p *prettyPrinter) appendArray(dst []byte, v *jval.Value, depth int) ([]byte, error) {
	a, _ := v.GetArray()
	items := a.Items()
	if len(items) == 0 {
		return append(dst, '[', ']'), nil
	}
	dst = append(dst, '[')
	for i, child := range items {
		if i > 0 {
			dst = append(dst, ',')
		}
		dst = p.appendIndent(dst, p.indentAt(depth+1))
		var err error
		dst, err = p.appendValue(dst, child, depth+1)
		if err != nil {
			return dst, err
		}
	}
	dst = p.appendIndent(dst, p.indentAt(depth))
	dst = append(dst, ']')
	return dst, nil
}

func (p *prettyPrinter) appendObject(dst []byte, v *jval.Value, depth int) ([]byte, error) {
	o, _ := v.GetObject()
	if o.Len() == 0 {
		return append(dst, '{', '}'), nil
	}
	dst = append(dst, '{')
	first := true
	var err error
	o.Fields(func(key string, child *jval.Value) {
		if err != nil {
			return
		}
		if !first {
			dst = append(dst, ',')
		}
		first = false
		dst = p.appendIndent(dst, p.indentAt(depth+1))
		dst = appendEscapedString(dst, []byte(key))
		dst = append(dst, ':', ' ')
		dst, err = p.appendValue(dst, child, depth+1)
	})
	if err != nil {
		return dst, err
	}
	dst = p.appendIndent(dst, p.indentAt(depth))
	dst = append(dst, '}')
	return dst, nil
}
