package jval

import "math"

// RawDecoder parses a pre-encoded JSON fragment back into a Value tree.
// It is nil until the jdecode package is imported (blank or otherwise),
// at which point jdecode's init registers itself here — the same
// function-variable plugin pattern used by the tracing hooks in
// trace.go, so that jval never has to import its own decoder.
//
// Equal treats a Raw operand whose bytes fail to parse (or when no
// decoder is registered) as unequal, per spec §4.6/§7.
var RawDecoder func(data []byte) (*Value, error)

// Equal reports whether a and b are structurally equal under the
// numeric-tolerance rule of spec §4.6.
//
// tolerance must be non-negative; 0 recovers strict equality. Equal
// never fails: an ill-formed Raw value simply compares unequal.
func Equal(a, b *Value, tolerance float64) bool {
	ak, bk := a.Kind(), b.Kind()

	if ak == KindRaw || bk == KindRaw {
		return equalWithRaw(a, b, tolerance)
	}

	if isNumericKind(ak) && isNumericKind(bk) {
		return equalNumeric(a, b, tolerance)
	}

	if ak != bk {
		return false
	}

	switch ak {
	case KindNull:
		return true
	case KindBoolean:
		return a.b == b.b
	case KindString:
		return bytesEqual(a.str, b.str)
	case KindArray:
		return equalArray(a.arr, b.arr, tolerance)
	case KindObject:
		return equalObject(a.obj, b.obj, tolerance)
	default:
		return false
	}
}

func equalWithRaw(a, b *Value, tolerance float64) bool {
	av, aok := resolveRaw(a)
	bv, bok := resolveRaw(b)
	if !aok || !bok {
		return false
	}
	return Equal(av, bv, tolerance)
}

func resolveRaw(v *Value) (*Value, bool) {
	if v.Kind() != KindRaw {
		return v, true
	}
	if RawDecoder == nil {
		return nil, false
	}
	parsed, err := RawDecoder(v.str)
	if err != nil {
		return nil, false
	}
	return parsed, true
}

func isNumericKind(k Kind) bool {
	return k == KindInteger || k == KindUnsigned || k == KindFloat
}

// equalNumeric compares two numeric Values across the three
// representations (spec §4.6):
//   - two exact integers (Integer/Unsigned) compare for exact
//     mathematical equality; a negative Integer never equals any Unsigned.
//   - any pair involving a Float uses the relative-tolerance rule,
//     promoting the other operand to double first.
func equalNumeric(a, b *Value, tolerance float64) bool {
	if a.Kind() != KindFloat && b.Kind() != KindFloat {
		return equalExactInt(a, b)
	}
	af, _ := a.GetDouble()
	bf, _ := b.GetDouble()
	return floatsWithinTolerance(af, bf, tolerance)
}

func equalExactInt(a, b *Value) bool {
	switch {
	case a.Kind() == KindInteger && b.Kind() == KindInteger:
		return a.i64 == b.i64
	case a.Kind() == KindUnsigned && b.Kind() == KindUnsigned:
		return a.u64 == b.u64
	case a.Kind() == KindInteger && b.Kind() == KindUnsigned:
		return a.i64 >= 0 && uint64(a.i64) == b.u64
	case a.Kind() == KindUnsigned && b.Kind() == KindInteger:
		return b.i64 >= 0 && uint64(b.i64) == a.u64
	default:
		return false
	}
}

func floatsWithinTolerance(x, y, tolerance float64) bool {
	if x == y {
		return true
	}
	maxAbs := math.Max(math.Abs(x), math.Abs(y))
	if maxAbs == 0 {
		return true
	}
	return math.Abs(x-y)/maxAbs < tolerance
}

func equalArray(a, b *Array, tolerance float64) bool {
	if a.Len() != b.Len() {
		return false
	}
	for i, av := range a.items {
		if !Equal(av, b.items[i], tolerance) {
			return false
		}
	}
	return true
}

// equalObject implements spec §4.6: same cardinality and, for every
// field in a, a field in b with the same key whose value is equal.
// Looking values up on b may build b's overlay, per spec's suggestion
// that implementations make the inner lookup O(1).
func equalObject(a, b *Object, tolerance float64) bool {
	if a.Len() != b.Len() {
		return false
	}
	for _, f := range a.fields {
		bv, ok := b.Get(string(f.key))
		if !ok {
			return false
		}
		if !Equal(f.val, bv, tolerance) {
			return false
		}
	}
	return true
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
