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

package bigint

// Add returns x + y.
func (x Int) Add(y Int) Int {
	if x.neg == y.neg {
		return newInt(x.neg, x.mag.add(y.mag))
	}
	// Opposite signs: subtract the smaller magnitude from the larger and keep
	// the sign of the larger.
	if x.mag.cmp(y.mag) >= 0 {
		return newInt(x.neg, x.mag.sub(y.mag))
	}
	return newInt(y.neg, y.mag.sub(x.mag))
}

// Sub returns x - y.
func (x Int) Sub(y Int) Int {
	return x.Add(y.Neg())
}

// Mul returns x * y.
func (x Int) Mul(y Int) Int {
	return newInt(x.neg != y.neg, x.mag.mul(y.mag))
}

// QuoRem returns the quotient truncated toward zero and the remainder
// x - q*y, whose sign follows x. It returns ErrDivisionByZero if y is zero.
func (x Int) QuoRem(y Int) (q, r Int, err error) {
	if y.IsZero() {
		return Int{}, Int{}, ErrDivisionByZero
	}
	qm, rm := x.mag.divMod(y.mag)
	return newInt(x.neg != y.neg, qm), newInt(x.neg, rm), nil
}

// Quo returns x / y truncated toward zero.
func (x Int) Quo(y Int) (Int, error) {
	q, _, err := x.QuoRem(y)
	return q, err
}

// Rem returns x - (x/y)*y, matching the truncation of Quo.
func (x Int) Rem(y Int) (Int, error) {
	_, r, err := x.QuoRem(y)
	return r, err
}

// Half returns x / 2 truncated toward zero.
func (x Int) Half() Int {
	q, _ := x.mag.divLimb(2)
	return newInt(x.neg, q)
}
