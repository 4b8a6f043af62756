// Package jenc renders jval value trees as UTF-8 JSON bytes, in both a
// compact and a pretty-printed form, with a size-probing contract
// modeled on the teacher library's append-based serializer.
package jenc

import (
	"strconv"

	"github.com/lattice-substrate/gojson/jfloat"
	"github.com/lattice-substrate/gojson/jval"
)

// Compact returns v's compact encoding.
func Compact(v *jval.Value) []byte {
	return AppendCompact(nil, v)
}

// AppendCompact appends v's compact encoding to dst and returns the
// extended buffer. Insertion order is preserved for object fields: this
// encoder never sorts keys.
func AppendCompact(dst []byte, v *jval.Value) []byte {
	dst, _ = appendValue(dst, v)
	return dst
}

// Size returns the exact byte length of v's compact encoding, without
// building the bytes twice — equivalent to calling EncodeInto with a
// zero-length buffer.
func Size(v *jval.Value) int {
	return len(AppendCompact(nil, v))
}

// EncodeInto implements the size-probing contract of §4.4: it writes as
// much of v's NUL-terminated compact encoding as fits in buf (always
// NUL-terminating when len(buf) > 0) and returns the total encoding
// length, excluding the terminator. A returned length >= len(buf)
// indicates truncation. Calling with a zero-length buf computes the
// exact required size without writing anything.
func EncodeInto(buf []byte, v *jval.Value) int {
	full := AppendCompact(nil, v)
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

func appendValue(dst []byte, v *jval.Value) ([]byte, error) {
	switch v.Kind() {
	case jval.KindNull:
		return append(dst, "null"...), nil
	case jval.KindBoolean:
		b, _ := v.GetBoolean()
		if b {
			return append(dst, "true"...), nil
		}
		return append(dst, "false"...), nil
	case jval.KindInteger:
		i, _ := v.GetInteger()
		return strconv.AppendInt(dst, i, 10), nil
	case jval.KindUnsigned:
		u, _ := v.GetUnsigned()
		return strconv.AppendUint(dst, u, 10), nil
	case jval.KindFloat:
		f, _ := v.GetDouble()
		s, err := jfloat.FormatDouble(f)
		if err != nil {
			return dst, err
		}
		return append(dst, s...), nil
	case jval.KindString:
		s, _ := v.GetString()
		return appendEscapedString(dst, s), nil
	case jval.KindRaw:
		raw, _ := v.RawBytes()
		return append(dst, raw...), nil
	case jval.KindArray:
		return appendArray(dst, v)
	case jval.KindObject:
		return appendObject(dst, v)
	default:
		return dst, nil
	}
}

func appendArray(dst []byte, v *jval.Value) ([]byte, error) {
	a, _ := v.GetArray()
	dst = append(dst, '[')
	for i, child := range a.Items() {
		if i > 0 {
			dst = append(dst, ',')
		}
		var err error
		dst, err = appendValue(dst, child)
		if err != nil {
			return dst, err
		}
	}
	dst = append(dst, ']')
	return dst, nil
}

func appendObject(dst []byte, v *jval.Value) ([]byte, error) {
	o, _ := v.GetObject()
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
		dst = appendEscapedString(dst, []byte(key))
		dst = append(dst, ':')
		dst, err = appendValue(dst, child)
	})
	if err != nil {
		return dst, err
	}
	dst = append(dst, '}')
	return dst, nil
}

// appendEscapedString writes s as a quoted JSON string, escaping the
// ASCII control characters with their named forms, any other byte in
// 0x00..0x1F or the DEL byte 0x7F as \u00XX, and the two-byte UTF-8
// encoding of the C1 control range U+0080..U+009F (bytes 0xC2 0x80
// through 0xC2 0x9F) as \u00XX. All other valid UTF-8 passes through
// unchanged.
func appendEscapedString(dst []byte, s []byte) []byte {
	dst = append(dst, '"')
	for i := 0; i < len(s); {
		b := s[i]

		if b == 0xC2 && i+1 < len(s) && s[i+1] >= 0x80 && s[i+1] <= 0x9F {
			dst = appendUnicodeEscape(dst, s[i+1])
			i += 2
			continue
		}

		if next, consumed := appendEscapedByte(dst, b); consumed {
			dst = next
			i++
			continue
		}

		size := utf8SeqLen(b)
		if i+size > len(s) {
			size = len(s) - i
		}
		dst = append(dst, s[i:i+size]...)
		i += size
	}
	dst = append(dst, '"')
	return dst
}

func appendEscapedByte(dst []byte, b byte) ([]byte, bool) {
	switch b {
	case '"':
		return append(dst, '\\', '"'), true
	case '\\':
		return append(dst, '\\', '\\'), true
	case '\b':
		return append(dst, '\\', 'b'), true
	case '\f':
		return append(dst, '\\', 'f'), true
	case '\n':
		return append(dst, '\\', 'n'), true
	case '\r':
		return append(dst, '\\', 'r'), true
	case '\t':
		return append(dst, '\\', 't'), true
	default:
		if b < 0x20 || b == 0x7F {
			return appendUnicodeEscape(dst, b), true
		}
		return dst, false
	}
}

func appendUnicodeEscape(dst []byte, b byte) []byte {
	const hexDigits = "0123456789abcdef"
	return append(dst, '\\', 'u', '0', '0', hexDigits[b>>4], hexDigits[b&0x0F])
}

func utf8SeqLen(b byte) int {
	switch {
	case b < 0x80:
		return 1
	case b < 0xE0:
		return 2
	case b < 0xF0:
		return 3
	default:
		return 4
	}
}
