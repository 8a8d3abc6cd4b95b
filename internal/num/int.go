// Package num implements the 128-bit signed integer used by zac literals,
// arithmetic and loop counters.
package num

import (
	"errors"
	"math/big"
	"strings"

	"lukechampine.com/uint128"
)

// ErrRange is returned when a decimal literal does not fit in 128 signed bits.
var ErrRange = errors.New("integer out of 128-bit signed range")

// Int is a two's complement 128-bit signed integer. Arithmetic wraps.
type Int struct {
	u uint128.Uint128
}

var (
	// Zero is the integer 0.
	Zero = Int{}
	// One is the integer 1.
	One = FromInt64(1)
	// Max is 2^127-1.
	Max = Int{uint128.New(^uint64(0), ^uint64(0)>>1)}
	// Min is -2^127.
	Min = Int{uint128.New(0, 1<<63)}
)

// FromInt64 converts v to an Int, sign-extending.
func FromInt64(v int64) Int {
	hi := uint64(0)
	if v < 0 {
		hi = ^uint64(0)
	}
	return Int{uint128.New(uint64(v), hi)}
}

// Parse parses an optionally '-'-prefixed decimal string.
func Parse(s string) (Int, error) {
	neg := strings.HasPrefix(s, "-")
	digits := strings.TrimPrefix(s, "-")
	u, err := uint128.FromString(digits)
	if err != nil {
		if strings.Contains(err.Error(), "overflow") {
			return Zero, ErrRange
		}
		return Zero, err
	}
	v := Int{u}
	if neg {
		if u.Cmp(Min.u) > 0 {
			return Zero, ErrRange
		}
		return v.Neg(), nil
	}
	if u.Cmp(Max.u) > 0 {
		return Zero, ErrRange
	}
	return v, nil
}

// IsNeg reports whether the value is negative.
func (x Int) IsNeg() bool {
	return x.u.Hi>>63 == 1
}

// Neg returns -x, wrapping for Min.
func (x Int) Neg() Int {
	return Int{x.u.Xor(uint128.Max).AddWrap64(1)}
}

// Add returns x+y with wrapping on overflow.
func (x Int) Add(y Int) Int {
	return Int{x.u.AddWrap(y.u)}
}

// Inc returns x+1 with wrapping on overflow.
func (x Int) Inc() Int {
	return Int{x.u.AddWrap64(1)}
}

// Cmp compares x and y as signed values and returns -1, 0 or +1.
func (x Int) Cmp(y Int) int {
	xn, yn := x.IsNeg(), y.IsNeg()
	switch {
	case xn && !yn:
		return -1
	case !xn && yn:
		return 1
	}
	return x.u.Cmp(y.u)
}

// Equal reports whether x == y.
func (x Int) Equal(y Int) bool {
	return x.u.Equals(y.u)
}

// Int returns x as an int when it fits.
func (x Int) Int() (int, bool) {
	b := x.Big()
	if !b.IsInt64() {
		return 0, false
	}
	v := b.Int64()
	if int64(int(v)) != v {
		return 0, false
	}
	return int(v), true
}

// LowByte returns the least significant byte (little-endian truncation).
func (x Int) LowByte() byte {
	return byte(x.u.Lo)
}

// Big returns x as a signed *big.Int.
func (x Int) Big() *big.Int {
	if !x.IsNeg() {
		return x.u.Big()
	}
	b := x.Neg().u.Big()
	return b.Neg(b)
}

// String returns the base-10 representation of x.
func (x Int) String() string {
	if x.IsNeg() {
		return "-" + x.Neg().u.String()
	}
	return x.u.String()
}
