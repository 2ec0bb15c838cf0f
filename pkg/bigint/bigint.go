// Copyright (c) 2025 Jeremy Hahn
// Copyright (c) 2025 Automate The Things, LLC
//
// This file is part of go-quorum.
//
// go-quorum is dual-licensed:
//
// 1. GNU Affero General Public License v3.0 (AGPL-3.0)
//    See LICENSE file or visit https://www.gnu.org/licenses/agpl-3.0.html
//
// 2. Commercial License
//    Contact licensing@automatethethings.com for commercial licensing options.

// Package bigint implements an immutable arbitrary-precision signed integer
// with exact decimal semantics.
//
// Every operation returns a new Int and never modifies its operands, so an
// Int can be copied and shared freely between goroutines. The zero value is
// a valid zero.
//
// Example:
//
//	a := bigint.MustParse("170141183460469231731687303715884105727")
//	b := bigint.FromInt64(-42)
//	q, err := a.Quo(b)
package bigint

import (
	"fmt"
	"strconv"
	"strings"
)

// Int is an arbitrary-precision signed integer.
type Int struct {
	neg bool
	mag nat
}

func newInt(neg bool, mag nat) Int {
	mag = mag.norm()
	if len(mag) == 0 {
		return Int{}
	}
	return Int{neg: neg, mag: mag}
}

// Zero returns the integer 0.
func Zero() Int {
	return Int{}
}

// One returns the integer 1.
func One() Int {
	return Int{mag: nat{1}}
}

// FromInt64 returns the Int holding v.
func FromInt64(v int64) Int {
	u := uint64(v)
	if v < 0 {
		u = -u
	}
	return newInt(v < 0, natFromUint64(u))
}

// Parse converts a decimal string with an optional leading '+' or '-' into
// an Int. An empty or sign-only string yields zero. Any other non-digit
// character returns ErrParse.
func Parse(s string) (Int, error) {
	body := s
	neg := false
	if body != "" {
		switch body[0] {
		case '-':
			neg = true
			body = body[1:]
		case '+':
			body = body[1:]
		}
	}
	if body == "" {
		return Int{}, nil
	}
	for i := 0; i < len(body); i++ {
		if c := body[i]; c < '0' || c > '9' {
			return Int{}, fmt.Errorf("%w: invalid character %q in %q", ErrParse, c, s)
		}
	}

	mag := make(nat, 0, (len(body)+limbDigits-1)/limbDigits)
	for end := len(body); end > 0; end -= limbDigits {
		start := end - limbDigits
		if start < 0 {
			start = 0
		}
		var limb uint32
		for i := start; i < end; i++ {
			limb = limb*10 + uint32(body[i]-'0')
		}
		mag = append(mag, limb)
	}
	return newInt(neg, mag), nil
}

// MustParse is like Parse but panics on malformed input. It is intended for
// package-level constants and tests.
func MustParse(s string) Int {
	v, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return v
}

// String returns the canonical decimal representation. Zero is always "0".
func (x Int) String() string {
	if len(x.mag) == 0 {
		return "0"
	}
	var sb strings.Builder
	sb.Grow(len(x.mag)*limbDigits + 1)
	if x.neg {
		sb.WriteByte('-')
	}
	top := len(x.mag) - 1
	sb.WriteString(strconv.FormatUint(uint64(x.mag[top]), 10))
	for i := top - 1; i >= 0; i-- {
		limb := strconv.FormatUint(uint64(x.mag[i]), 10)
		sb.WriteString(strings.Repeat("0", limbDigits-len(limb)))
		sb.WriteString(limb)
	}
	return sb.String()
}

// Sign returns -1, 0 or +1.
func (x Int) Sign() int {
	switch {
	case len(x.mag) == 0:
		return 0
	case x.neg:
		return -1
	default:
		return 1
	}
}

// IsZero reports whether x == 0.
func (x Int) IsZero() bool {
	return len(x.mag) == 0
}

// IsEven reports whether x is divisible by two.
func (x Int) IsEven() bool {
	return !x.mag.isOdd()
}

// Neg returns -x.
func (x Int) Neg() Int {
	return newInt(!x.neg, x.mag)
}

// Abs returns |x|.
func (x Int) Abs() Int {
	return newInt(false, x.mag)
}

// Int64 returns x as an int64 and whether it fits.
func (x Int) Int64() (int64, bool) {
	// Three limbs with a top limb above 9 exceed 10^19 > 2^63.
	if len(x.mag) > 3 || (len(x.mag) == 3 && x.mag[2] > 9) {
		return 0, false
	}
	var u uint64
	for i := len(x.mag) - 1; i >= 0; i-- {
		u = u*limbBase + uint64(x.mag[i])
	}
	if x.neg {
		if u > 1<<63 {
			return 0, false
		}
		return int64(-u), true
	}
	if u > 1<<63-1 {
		return 0, false
	}
	return int64(u), true
}

// Cmp compares x and y and returns -1, 0 or +1. The sign dominates; values
// of equal sign compare by magnitude.
func (x Int) Cmp(y Int) int {
	xs, ys := x.Sign(), y.Sign()
	if xs != ys {
		if xs < ys {
			return -1
		}
		return 1
	}
	c := x.mag.cmp(y.mag)
	if x.neg {
		return -c
	}
	return c
}

// Equal reports whether x == y.
func (x Int) Equal(y Int) bool {
	return x.Cmp(y) == 0
}

// Less reports whether x < y.
func (x Int) Less(y Int) bool {
	return x.Cmp(y) < 0
}

// Greater reports whether x > y.
func (x Int) Greater(y Int) bool {
	return x.Cmp(y) > 0
}

// MarshalText implements encoding.TextMarshaler using the decimal form.
func (x Int) MarshalText() ([]byte, error) {
	return []byte(x.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (x *Int) UnmarshalText(text []byte) error {
	v, err := Parse(string(text))
	if err != nil {
		return err
	}
	*x = v
	return nil
}
