package jval

import "math"

// GetBoolean returns v's boolean value and whether v is a KindBoolean.
func (v *Value) GetBoolean() (bool, bool) {
	if v == nil || v.kind != KindBoolean {
		return false, false
	}
	return v.b, true
}

// GetString returns v's string bytes and whether v is a KindString.
// The returned slice must not be mutated.
func (v *Value) GetString() ([]byte, bool) {
	if v == nil || v.kind != KindString {
		return nil, false
	}
	return v.str, true
}

// RawBytes returns the pre-encoded fragment backing v and whether v is
// a KindRaw value.
func (v *Value) RawBytes() ([]byte, bool) {
	if v == nil || v.kind != KindRaw {
		return nil, false
	}
	return v.str, true
}

// GetArray returns v's array container and whether v is a KindArray.
func (v *Value) GetArray() (*Array, bool) {
	a := v.Array()
	return a, a != nil
}

// GetObject returns v's object container and whether v is a KindObject.
func (v *Value) GetObject() (*Object, bool) {
	o := v.Object()
	return o, o != nil
}

// GetInteger returns v coerced to a signed 64-bit integer, per spec §4.7:
// always succeeds for Integer; succeeds for Unsigned when it fits in
// int64; succeeds for Float only when the value is exactly representable
// as a signed 64-bit integer, with no information loss.
func (v *Value) GetInteger() (int64, bool) {
	if v == nil {
		return 0, false
	}
	switch v.kind {
	case KindInteger:
		return v.i64, true
	case KindUnsigned:
		if v.u64 <= math.MaxInt64 {
			return int64(v.u64), true
		}
		return 0, false
	case KindFloat:
		return floatToInt64Exact(v.f64)
	default:
		return 0, false
	}
}

// GetUnsigned returns v coerced to an unsigned 64-bit integer, per spec
// §4.7: always succeeds for Unsigned; succeeds for Integer when
// non-negative; succeeds for Float only when exactly representable.
func (v *Value) GetUnsigned() (uint64, bool) {
	if v == nil {
		return 0, false
	}
	switch v.kind {
	case KindUnsigned:
		return v.u64, true
	case KindInteger:
		if v.i64 >= 0 {
			return uint64(v.i64), true
		}
		return 0, false
	case KindFloat:
		return floatToUint64Exact(v.f64)
	default:
		return 0, false
	}
}

// GetDouble returns v coerced to a float64. Succeeds for any numeric
// kind; magnitude/precision loss converting Integer/Unsigned is
// accepted, per spec §4.7.
func (v *Value) GetDouble() (float64, bool) {
	if v == nil {
		return 0, false
	}
	switch v.kind {
	case KindFloat:
		return v.f64, true
	case KindInteger:
		return float64(v.i64), true
	case KindUnsigned:
		return float64(v.u64), true
	default:
		return 0, false
	}
}

// floatToInt64Exact reports whether f is exactly representable as a
// signed 64-bit integer: f must have no fractional part (math.Trunc(f)
// == f) and lie in [-2^63, 2^63), in which case the conversion loses
// no information.
func floatToInt64Exact(f float64) (int64, bool) {
	if math.Trunc(f) != f {
		return 0, false
	}
	if f >= -9223372036854775808.0 && f < 9223372036854775808.0 {
		return int64(f), true
	}
	return 0, false
}

// floatToUint64Exact reports whether f is exactly representable as an
// unsigned 64-bit integer.
func floatToUint64Exact(f float64) (uint64, bool) {
	if math.Trunc(f) != f {
		return 0, false
	}
	if f >= 0 && f < 18446744073709551616.0 {
		return uint64(f), true
	}
	return 0, false
}

// Dig descends through nested objects along path, returning Null the
// first time a key is missing or a non-object is encountered (spec
// §4.7).
func Dig(obj *Value, path []string) *Value {
	cur := obj
	for _, key := range path {
		o, ok := cur.GetObject()
		if !ok {
			return Null()
		}
		v, ok := o.Get(key)
		if !ok {
			return Null()
		}
		cur = v
	}
	if cur == nil {
		return Null()
	}
	return cur
}

// Fetch is the variadic form of Dig.
func Fetch(obj *Value, keys ...string) *Value {
	return Dig(obj, keys)
}
