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

// GCD returns the greatest common divisor of |a| and |b|. GCD(0, 0) is 0.
func GCD(a, b Int) Int {
	a, b = a.Abs(), b.Abs()
	for !b.IsZero() {
		_, r := a.mag.divMod(b.mag)
		a, b = b, newInt(false, r)
	}
	return a
}

// LCM returns |a*b| / GCD(a, b). It returns ErrDivisionByZero when both
// operands are zero.
func LCM(a, b Int) (Int, error) {
	g := GCD(a, b)
	if g.IsZero() {
		return Int{}, ErrDivisionByZero
	}
	return a.Mul(b).Abs().Quo(g)
}

// Pow returns base**exp by square and multiply. exp must not be negative.
func Pow(base, exp Int) (Int, error) {
	if exp.Sign() < 0 {
		return Int{}, ErrNegativeExponent
	}
	result := One()
	for !exp.IsZero() {
		if !exp.IsEven() {
			result = result.Mul(base)
		}
		exp = exp.Half()
		if !exp.IsZero() {
			base = base.Mul(base)
		}
	}
	return result, nil
}
