package jdecode

import (
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/lattice-substrate/gojson/jerr"
	"github.com/lattice-substrate/gojson/jval"
)

// maxExactDigits bounds how many decimal digits the exact-integer
// reclassification path (classifyNumber) will materialize as a big.Int
// before giving up and falling back to the float path. 20 digits cover
// the full uint64 range (up to 2^64-1); anything longer than a handful
// more than that can never fit in 64 bits, so there is no need to build
// an arbitrarily large big.Int for a number like "1" followed by a
// million zeros.
const maxExactDigits = 64

func (p *parser) parseNumber() (*jval.Value, *jerr.Error) {
	start := p.pos

	negative := p.consumeNumberSign()
	intStart := p.pos
	if err := p.scanIntegerPart(); err != nil {
		return nil, err
	}
	intPart := p.data[intStart:p.pos]

	fracStart := p.pos
	if err := p.scanFractionPart(); err != nil {
		return nil, err
	}
	var fracPart []byte
	if p.pos > fracStart {
		fracPart = p.data[fracStart+1 : p.pos] // skip the '.'
	}

	exp, err := p.scanExponentPart()
	if err != nil {
		return nil, err
	}

	raw := p.data[start:p.pos]
	return classifyNumber(raw, start, negative, intPart, fracPart, exp)
}

func (p *parser) consumeNumberSign() bool {
	if p.pos < len(p.data) && p.data[p.pos] == '-' {
		p.pos++
		return true
	}
	return false
}

func (p *parser) scanIntegerPart() *jerr.Error {
	if p.pos >= len(p.data) {
		return p.errorf("unexpected end of input in number")
	}
	if p.data[p.pos] == '0' {
		p.pos++
		if p.pos < len(p.data) && isDigit(p.data[p.pos]) {
			return p.errorf("leading zero in number")
		}
		return nil
	}
	if !isDigit(p.data[p.pos]) {
		return p.errorf("invalid number character %q", string(p.data[p.pos]))
	}
	for p.pos < len(p.data) && isDigit(p.data[p.pos]) {
		p.pos++
	}
	return nil
}

func (p *parser) scanFractionPart() *jerr.Error {
	if p.pos >= len(p.data) || p.data[p.pos] != '.' {
		return nil
	}
	p.pos++
	if p.pos >= len(p.data) || !isDigit(p.data[p.pos]) {
		return p.errorf("expected digit after decimal point")
	}
	for p.pos < len(p.data) && isDigit(p.data[p.pos]) {
		p.pos++
	}
	return nil
}

// scanExponentPart scans an optional [eE][+-]?digits suffix, returning
// its value. Overlong exponent digit runs are clamped rather than
// parsed exactly: they can never change whether the final float is
// finite/zero, which is all classifyNumber needs from them.
func (p *parser) scanExponentPart() (int, *jerr.Error) {
	if p.pos >= len(p.data) || (p.data[p.pos] != 'e' && p.data[p.pos] != 'E') {
		return 0, nil
	}
	p.pos++

	expNegative := false
	if p.pos < len(p.data) && (p.data[p.pos] == '+' || p.data[p.pos] == '-') {
		expNegative = p.data[p.pos] == '-'
		p.pos++
	}
	if p.pos >= len(p.data) || !isDigit(p.data[p.pos]) {
		return 0, p.errorf("expected digit in exponent")
	}
	digitsStart := p.pos
	for p.pos < len(p.data) && isDigit(p.data[p.pos]) {
		p.pos++
	}
	digits := p.data[digitsStart:p.pos]

	const clamp = 1_000_000
	var magnitude int
	if len(digits) > 7 {
		magnitude = clamp
	} else {
		v, err := strconv.Atoi(string(digits))
		if err != nil || v > clamp {
			magnitude = clamp
		} else {
			magnitude = v
		}
	}
	if expNegative {
		return -magnitude, nil
	}
	return magnitude, nil
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

// classifyNumber implements the three-way number classification of
// §4.2: an exact-decimal pass that prefers Integer/Unsigned whenever
// the textual value denotes a mathematical integer in 64-bit range
// (regardless of whether the lexical form used a fraction or exponent),
// falling back to a locale-independent double parse otherwise.
func classifyNumber(raw []byte, offset int, negative bool, intPart, fracPart []byte, exp int) (*jval.Value, *jerr.Error) {
	trimmedFrac := strings.TrimRight(string(fracPart), "0")
	effExp := exp - len(trimmedFrac)

	if effExp >= 0 {
		digits := string(intPart) + trimmedFrac
		if v, ok := tryExactInteger(digits, effExp, negative); ok {
			return v, nil
		}
	}

	return classifyFloat(raw, offset)
}

// tryExactInteger attempts to build digits*10^effExp as a big.Int and
// fit it into the signed/unsigned 64-bit range, applying the negation
// rules of §4.2 step 3. ok is false when the exact value overflows
// 64 bits (including when the digit count alone rules it out) or when
// digits is degenerate; the caller then falls back to the float path.
func tryExactInteger(digits string, effExp int, negative bool) (*jval.Value, bool) {
	digits = strings.TrimLeft(digits, "0")
	if digits == "" {
		// The value is exactly zero.
		return jval.Integer(0), true
	}
	if len(digits)+effExp > maxExactDigits {
		return nil, false
	}

	mag := new(big.Int)
	if _, ok := mag.SetString(digits, 10); !ok {
		return nil, false
	}
	if effExp > 0 {
		mag.Mul(mag, new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(effExp)), nil))
	}

	maxUint64 := new(big.Int).SetUint64(math.MaxUint64)
	if mag.Cmp(maxUint64) > 0 {
		return nil, false
	}
	u := mag.Uint64()

	if !negative {
		if u <= math.MaxInt64 {
			return jval.Integer(int64(u)), true
		}
		return jval.Unsigned(u), true
	}

	const twoPow63 = uint64(1) << 63
	if u <= twoPow63 {
		if u == twoPow63 {
			return jval.Integer(math.MinInt64), true
		}
		return jval.Integer(-int64(u)), true
	}
	return jval.Float(-float64(u)), true
}

// classifyFloat parses raw as a double using Go's locale-independent
// strconv (the decimal point is always '.', regardless of process
// locale). NaN and infinity are decode failures; zero and subnormal
// results collapse to Float(0.0) via jval.Float's own construction
// rule.
func classifyFloat(raw []byte, offset int) (*jval.Value, *jerr.Error) {
	f, err := strconv.ParseFloat(string(raw), 64)
	if err != nil {
		// strconv still sets f = +-Inf on ErrRange (the literal parsed
		// fine but overflows); any other error means our own scanner
		// let through something strconv doesn't accept, which should
		// not happen given the grammar already validated above.
		if numErr, ok := err.(*strconv.NumError); !ok || numErr.Err != strconv.ErrRange {
			return nil, jerr.New(jerr.Syntax, offset, "invalid number literal: "+string(raw))
		}
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, jerr.New(jerr.Syntax, offset, "number overflows IEEE 754 double: "+string(raw))
	}
	return jval.Float(f), nil
}
