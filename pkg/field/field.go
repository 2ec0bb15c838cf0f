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

// Package field implements prime-field arithmetic and Lagrange interpolation
// at the origin, which recovers the constant term (the secret) of a Shamir
// polynomial from k of its points.
package field

import (
	"errors"
	"fmt"

	"github.com/jeremyhahn/go-quorum/pkg/bigint"
)

var (
	// ErrNegativeExponent indicates ModPow was called with exponent < 0
	ErrNegativeExponent = errors.New("field: negative exponent")

	// ErrNotInvertible indicates the value is congruent to zero modulo the prime
	ErrNotInvertible = errors.New("field: value has no inverse")

	// ErrNoPoints indicates interpolation was attempted with no points
	ErrNoPoints = errors.New("field: no points to interpolate")

	// ErrDegenerate indicates two points share an x-coordinate modulo the prime
	ErrDegenerate = errors.New("field: degenerate point set")
)

// Prime is the Mersenne prime 2^127 - 1 that defines the share field.
var Prime = bigint.MustParse("170141183460469231731687303715884105727")

var two = bigint.FromInt64(2)

// Point is an (x, y) coordinate of a share polynomial.
type Point struct {
	X bigint.Int
	Y bigint.Int
}

// String returns the point as "(x, y)".
func (p Point) String() string {
	return fmt.Sprintf("(%s, %s)", p.X, p.Y)
}

// Mod returns a mod m normalized into [0, m) for a positive modulus.
func Mod(a, m bigint.Int) (bigint.Int, error) {
	r, err := a.Rem(m)
	if err != nil {
		return bigint.Int{}, err
	}
	if r.Sign() < 0 {
		r = r.Add(m)
	}
	return r, nil
}

// ModPow returns base**exp mod m by square and multiply. The result lies in
// [0, m).
func ModPow(base, exp, m bigint.Int) (bigint.Int, error) {
	if exp.Sign() < 0 {
		return bigint.Int{}, ErrNegativeExponent
	}
	base, err := Mod(base, m)
	if err != nil {
		return bigint.Int{}, err
	}
	result, err := Mod(bigint.One(), m)
	if err != nil {
		return bigint.Int{}, err
	}
	for !exp.IsZero() {
		if !exp.IsEven() {
			if result, err = result.Mul(base).Rem(m); err != nil {
				return bigint.Int{}, err
			}
		}
		exp = exp.Half()
		if base, err = base.Mul(base).Rem(m); err != nil {
			return bigint.Int{}, err
		}
	}
	return result, nil
}

// ModInverse returns a^-1 mod p as a^(p-2) mod p (Fermat's little theorem).
// p must be prime. ErrNotInvertible is returned when a ≡ 0 (mod p).
func ModInverse(a, p bigint.Int) (bigint.Int, error) {
	r, err := Mod(a, p)
	if err != nil {
		return bigint.Int{}, err
	}
	if r.IsZero() {
		return bigint.Int{}, fmt.Errorf("%w: %s mod %s", ErrNotInvertible, a, p)
	}
	return ModPow(r, p.Sub(two), p)
}

// InterpolateAtZero returns f(0) mod Prime for the unique polynomial of
// degree len(points)-1 passing through points.
func InterpolateAtZero(points []Point) (bigint.Int, error) {
	return InterpolateAtZeroMod(points, Prime)
}

// InterpolateAtZeroMod is InterpolateAtZero over an arbitrary prime p.
//
// For each i the Lagrange basis at zero is
//
//	num_i = Π_{j≠i} (0 - x_j) mod p
//	den_i = Π_{j≠i} (x_i - x_j) mod p
//
// and the secret is Σ y_i · num_i · den_i^-1 mod p. Negative residues are
// lifted into [0, p) by adding p once, which is sufficient because a
// truncated remainder has magnitude below p.
func InterpolateAtZeroMod(points []Point, p bigint.Int) (bigint.Int, error) {
	if len(points) == 0 {
		return bigint.Int{}, ErrNoPoints
	}

	result := bigint.Zero()
	for i, pi := range points {
		num, den := bigint.One(), bigint.One()
		var err error
		for j, pj := range points {
			if i == j {
				continue
			}
			if num, err = num.Mul(pj.X.Neg()).Rem(p); err != nil {
				return bigint.Int{}, err
			}
			if den, err = den.Mul(pi.X.Sub(pj.X)).Rem(p); err != nil {
				return bigint.Int{}, err
			}
		}
		if num.Sign() < 0 {
			num = num.Add(p)
		}
		if den.Sign() < 0 {
			den = den.Add(p)
		}

		inv, err := ModInverse(den, p)
		if err != nil {
			if errors.Is(err, ErrNotInvertible) {
				return bigint.Int{}, fmt.Errorf("%w: duplicate x-coordinate at point %d %s", ErrDegenerate, i, pi)
			}
			return bigint.Int{}, err
		}

		term, err := pi.Y.Mul(num).Rem(p)
		if err != nil {
			return bigint.Int{}, err
		}
		if term, err = term.Mul(inv).Rem(p); err != nil {
			return bigint.Int{}, err
		}
		if result, err = result.Add(term).Rem(p); err != nil {
			return bigint.Int{}, err
		}
	}

	// y values outside the field may leave a negative residue.
	if result.Sign() < 0 {
		result = result.Add(p)
	}
	return result, nil
}

// Evaluate returns the polynomial with the given coefficients (constant term
// first) evaluated at x, mod p, using Horner's rule.
func Evaluate(coeffs []bigint.Int, x, p bigint.Int) (bigint.Int, error) {
	acc := bigint.Zero()
	for i := len(coeffs) - 1; i >= 0; i-- {
		var err error
		if acc, err = acc.Mul(x).Add(coeffs[i]).Rem(p); err != nil {
			return bigint.Int{}, err
		}
	}
	return Mod(acc, p)
}
