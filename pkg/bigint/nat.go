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

import "math/bits"

// nat is an unsigned magnitude stored little-endian in base 10^9 limbs.
// A normalized nat has no most-significant zero limbs; zero is the empty nat.
type nat []uint32

const (
	limbBase   = 1_000_000_000
	limbDigits = 9
)

// norm trims most-significant zero limbs in place.
func (z nat) norm() nat {
	i := len(z)
	for i > 0 && z[i-1] == 0 {
		i--
	}
	return z[:i]
}

func natFromUint64(v uint64) nat {
	var z nat
	for v > 0 {
		z = append(z, uint32(v%limbBase))
		v /= limbBase
	}
	return z
}

func (x nat) cmp(y nat) int {
	if len(x) != len(y) {
		if len(x) < len(y) {
			return -1
		}
		return 1
	}
	for i := len(x) - 1; i >= 0; i-- {
		if x[i] != y[i] {
			if x[i] < y[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}

func (x nat) add(y nat) nat {
	if len(x) < len(y) {
		x, y = y, x
	}
	z := make(nat, len(x)+1)
	var carry uint32
	for i := range x {
		s := x[i] + carry
		if i < len(y) {
			s += y[i]
		}
		if s >= limbBase {
			s -= limbBase
			carry = 1
		} else {
			carry = 0
		}
		z[i] = s
	}
	z[len(x)] = carry
	return z.norm()
}

// sub returns x - y and requires x >= y.
func (x nat) sub(y nat) nat {
	z := make(nat, len(x))
	var borrow int64
	for i := range x {
		d := int64(x[i]) - borrow
		if i < len(y) {
			d -= int64(y[i])
		}
		if d < 0 {
			d += limbBase
			borrow = 1
		} else {
			borrow = 0
		}
		z[i] = uint32(d)
	}
	return z.norm()
}

func (x nat) mul(y nat) nat {
	if len(x) == 0 || len(y) == 0 {
		return nil
	}
	z := make(nat, len(x)+len(y))
	for i, xi := range x {
		if xi == 0 {
			continue
		}
		var carry uint64
		for j, yj := range y {
			t := uint64(xi)*uint64(yj) + uint64(z[i+j]) + carry
			z[i+j] = uint32(t % limbBase)
			carry = t / limbBase
		}
		for k := i + len(y); carry > 0; k++ {
			t := uint64(z[k]) + carry
			z[k] = uint32(t % limbBase)
			carry = t / limbBase
		}
	}
	return z.norm()
}

// mulLimb returns x * m for a single limb m < limbBase.
func (x nat) mulLimb(m uint32) nat {
	if m == 0 || len(x) == 0 {
		return nil
	}
	z := make(nat, len(x)+1)
	var carry uint64
	for i, xi := range x {
		t := uint64(xi)*uint64(m) + carry
		z[i] = uint32(t % limbBase)
		carry = t / limbBase
	}
	z[len(x)] = uint32(carry)
	return z.norm()
}

// divLimb returns x / d and x % d for a single nonzero limb d.
func (x nat) divLimb(d uint32) (nat, uint32) {
	q := make(nat, len(x))
	var r uint64
	for i := len(x) - 1; i >= 0; i-- {
		cur := r*limbBase + uint64(x[i])
		q[i] = uint32(cur / uint64(d))
		r = cur % uint64(d)
	}
	return q.norm(), uint32(r)
}

// divMod performs long division from the most-significant limb. Each
// quotient limb is estimated from the top three limbs of the running
// remainder and the top two limbs of y, which overshoots by at most two.
// y must be nonzero.
func (x nat) divMod(y nat) (q, r nat) {
	if x.cmp(y) < 0 {
		return nil, append(nat(nil), x...)
	}
	if len(y) == 1 {
		qq, rr := x.divLimb(y[0])
		if rr == 0 {
			return qq, nil
		}
		return qq, nat{rr}
	}

	m := len(y)
	yTop := uint64(y[m-1])*limbBase + uint64(y[m-2])
	q = make(nat, len(x))
	for i := len(x) - 1; i >= 0; i-- {
		// r = r*base + x[i]
		shifted := make(nat, len(r)+1)
		shifted[0] = x[i]
		copy(shifted[1:], r)
		r = shifted.norm()

		if r.cmp(y) < 0 {
			continue
		}
		qhat := estimateLimb(r.limb(m), r.limb(m-1), r.limb(m-2), yTop)
		prod := y.mulLimb(qhat)
		for prod.cmp(r) > 0 {
			qhat--
			prod = prod.sub(y)
		}
		q[i] = qhat
		r = r.sub(prod)
	}
	return q.norm(), r
}

// limb returns x[i], or zero past the most-significant limb.
func (x nat) limb(i int) uint32 {
	if i < len(x) {
		return x[i]
	}
	return 0
}

// estimateLimb returns min((r2*base^2 + r1*base + r0) / yTop, base-1).
// The remainder is below y*base, so the 128-bit quotient fits in 64 bits.
func estimateLimb(r2, r1, r0 uint32, yTop uint64) uint32 {
	hi, lo := bits.Mul64(uint64(r2), limbBase*limbBase)
	var carry uint64
	lo, carry = bits.Add64(lo, uint64(r1)*limbBase+uint64(r0), 0)
	hi += carry
	qhat, _ := bits.Div64(hi, lo, yTop)
	if qhat >= limbBase {
		return limbBase - 1
	}
	return uint32(qhat)
}

func (x nat) isOdd() bool {
	return len(x) > 0 && x[0]&1 == 1
}
