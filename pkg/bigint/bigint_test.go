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

import (
	"encoding/json"
	"math"
	"math/big"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// randomDecimal returns a canonical decimal string with up to maxDigits digits.
func randomDecimal(r *rand.Rand, maxDigits int) string {
	n := 1 + r.IntN(maxDigits)
	var sb strings.Builder
	if r.IntN(2) == 0 {
		sb.WriteByte('-')
	}
	sb.WriteByte(byte('1' + r.IntN(9)))
	for i := 1; i < n; i++ {
		sb.WriteByte(byte('0' + r.IntN(10)))
	}
	if r.IntN(10) == 0 {
		return "0"
	}
	return sb.String()
}

func oracle(t *testing.T, s string) *big.Int {
	t.Helper()
	v, ok := new(big.Int).SetString(s, 10)
	require.True(t, ok, "oracle failed to parse %q", s)
	return v
}

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"zero", "0", "0"},
		{"empty", "", "0"},
		{"sign only minus", "-", "0"},
		{"sign only plus", "+", "0"},
		{"negative zero", "-0", "0"},
		{"leading zeros", "000123", "123"},
		{"negative leading zeros", "-000123", "-123"},
		{"explicit plus", "+42", "42"},
		{"limb boundary", "1000000000", "1000000000"},
		{"limb boundary minus one", "999999999", "999999999"},
		{"interior zero limb", "1000000000000000001", "1000000000000000001"},
		{"mersenne 127", "170141183460469231731687303715884105727", "170141183460469231731687303715884105727"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := Parse(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, v.String())
		})
	}
}

func TestParse_Invalid(t *testing.T) {
	for _, input := range []string{"12a", "1 2", "--1", "0x10", "1.5", "+-3", "abc"} {
		t.Run(input, func(t *testing.T) {
			_, err := Parse(input)
			assert.ErrorIs(t, err, ErrParse)
		})
	}
}

func TestMustParse_Panics(t *testing.T) {
	assert.Panics(t, func() { MustParse("nope") })
}

func TestRoundTrip(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	for i := 0; i < 500; i++ {
		s := randomDecimal(r, 300)
		assert.Equal(t, s, MustParse(s).String())
	}
}

func TestFromInt64(t *testing.T) {
	for _, v := range []int64{0, 1, -1, 9, 10, 999999999, 1000000000, -1000000000, math.MaxInt64, math.MinInt64} {
		x := FromInt64(v)
		assert.Equal(t, big.NewInt(v).String(), x.String())

		back, ok := x.Int64()
		assert.True(t, ok)
		assert.Equal(t, v, back)
	}
}

func TestInt64_Overflow(t *testing.T) {
	_, ok := MustParse("9223372036854775808").Int64()
	assert.False(t, ok)

	_, ok = MustParse("-9223372036854775809").Int64()
	assert.False(t, ok)

	_, ok = MustParse("10000000000000000000000").Int64()
	assert.False(t, ok)
}

func TestZeroValue(t *testing.T) {
	var z Int
	assert.True(t, z.IsZero())
	assert.Equal(t, "0", z.String())
	assert.Equal(t, 0, z.Sign())
	assert.True(t, z.Equal(Zero()))
	assert.Equal(t, "0", z.Neg().String())
}

func TestCmp(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"0", "0", 0},
		{"1", "0", 1},
		{"-1", "0", -1},
		{"-1", "1", -1},
		{"-5", "-3", -1},
		{"-3", "-5", 1},
		{"100", "99", 1},
		{"1000000000", "999999999", 1},
		{"-1000000000", "-999999999", -1},
		{"123456789123456789", "123456789123456789", 0},
	}

	for _, tt := range tests {
		t.Run(tt.a+" vs "+tt.b, func(t *testing.T) {
			a, b := MustParse(tt.a), MustParse(tt.b)
			assert.Equal(t, tt.want, a.Cmp(b))
			assert.Equal(t, tt.want < 0, a.Less(b))
			assert.Equal(t, tt.want > 0, a.Greater(b))
			assert.Equal(t, tt.want == 0, a.Equal(b))
		})
	}
}

func TestArithmetic_AgainstOracle(t *testing.T) {
	r := rand.New(rand.NewPCG(7, 11))
	for i := 0; i < 300; i++ {
		as, bs := randomDecimal(r, 280), randomDecimal(r, 140)
		a, b := MustParse(as), MustParse(bs)
		ba, bb := oracle(t, as), oracle(t, bs)

		assert.Equal(t, new(big.Int).Add(ba, bb).String(), a.Add(b).String(), "%s + %s", as, bs)
		assert.Equal(t, new(big.Int).Sub(ba, bb).String(), a.Sub(b).String(), "%s - %s", as, bs)
		assert.Equal(t, new(big.Int).Mul(ba, bb).String(), a.Mul(b).String(), "%s * %s", as, bs)
		assert.Equal(t, ba.Cmp(bb), a.Cmp(b))

		if bb.Sign() == 0 {
			continue
		}
		q, rem, err := a.QuoRem(b)
		require.NoError(t, err)
		wq, wr := new(big.Int).QuoRem(ba, bb, new(big.Int))
		assert.Equal(t, wq.String(), q.String(), "%s / %s", as, bs)
		assert.Equal(t, wr.String(), rem.String(), "%s %% %s", as, bs)
	}
}

func TestArithmeticLaws(t *testing.T) {
	r := rand.New(rand.NewPCG(3, 5))
	for i := 0; i < 200; i++ {
		a := MustParse(randomDecimal(r, 260))
		b := MustParse(randomDecimal(r, 260))
		c := MustParse(randomDecimal(r, 260))

		assert.True(t, a.Add(b).Equal(b.Add(a)), "add commutes")
		assert.True(t, a.Add(b).Add(c).Equal(a.Add(b.Add(c))), "add associates")
		assert.True(t, a.Mul(b).Equal(b.Mul(a)), "mul commutes")
		assert.True(t, a.Sub(a).IsZero(), "a - a == 0")

		if b.IsZero() {
			continue
		}
		q, err := a.Quo(b)
		require.NoError(t, err)
		m, err := a.Rem(b)
		require.NoError(t, err)
		assert.True(t, q.Mul(b).Add(m).Equal(a), "(a/b)*b + a%%b == a")
	}
}

func TestOperandsNotMutated(t *testing.T) {
	a := MustParse("999999999999999999999999999")
	b := MustParse("-1")
	_ = a.Add(b)
	_ = a.Sub(b)
	_ = a.Mul(b)
	_, _, _ = a.QuoRem(MustParse("7"))
	assert.Equal(t, "999999999999999999999999999", a.String())
	assert.Equal(t, "-1", b.String())
}

func TestDivisionTruncatesTowardZero(t *testing.T) {
	tests := []struct {
		a, b, q, r string
	}{
		{"7", "2", "3", "1"},
		{"-7", "2", "-3", "-1"},
		{"7", "-2", "-3", "1"},
		{"-7", "-2", "3", "-1"},
		{"1", "5", "0", "1"},
		{"-1", "5", "0", "-1"},
		{"0", "-5", "0", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.a+"/"+tt.b, func(t *testing.T) {
			q, r, err := MustParse(tt.a).QuoRem(MustParse(tt.b))
			require.NoError(t, err)
			assert.Equal(t, tt.q, q.String())
			assert.Equal(t, tt.r, r.String())
		})
	}
}

func TestQuoRem_MultiLimbDivisors(t *testing.T) {
	nines := strings.Repeat("9", 200)
	divisors := []string{
		"1000000000",
		"1000000001",
		"1000000000000000000",
		"1000000000000000001",
		"999999999999999999",
		"999999999999999999999999999",
		"170141183460469231731687303715884105727",
		"1" + strings.Repeat("0", 80) + "1",
		strings.Repeat("9", 90),
	}
	dividends := []string{
		nines,
		"1" + strings.Repeat("0", 200),
		"28948022309329048855892746252171976963209391069768726095651290785379540373584",
		"999999999999999999000000000",
	}

	for _, ds := range dividends {
		for _, vs := range divisors {
			q, r, err := MustParse(ds).QuoRem(MustParse(vs))
			require.NoError(t, err)
			wq, wr := new(big.Int).QuoRem(oracle(t, ds), oracle(t, vs), new(big.Int))
			assert.Equal(t, wq.String(), q.String(), "%s / %s", ds, vs)
			assert.Equal(t, wr.String(), r.String(), "%s %% %s", ds, vs)
		}
	}
}

func TestDivisionByZero(t *testing.T) {
	_, err := One().Quo(Zero())
	assert.ErrorIs(t, err, ErrDivisionByZero)

	_, err = MustParse("-12").Rem(MustParse("-0"))
	assert.ErrorIs(t, err, ErrDivisionByZero)
}

func TestGCDAndLCM(t *testing.T) {
	assert.Equal(t, "6", GCD(FromInt64(54), FromInt64(24)).String())
	assert.Equal(t, "6", GCD(FromInt64(-54), FromInt64(24)).String())
	assert.Equal(t, "5", GCD(FromInt64(0), FromInt64(5)).String())
	assert.Equal(t, "0", GCD(Zero(), Zero()).String())

	l, err := LCM(FromInt64(4), FromInt64(6))
	require.NoError(t, err)
	assert.Equal(t, "12", l.String())

	_, err = LCM(Zero(), Zero())
	assert.ErrorIs(t, err, ErrDivisionByZero)
}

func TestPow(t *testing.T) {
	p, err := Pow(FromInt64(2), FromInt64(127))
	require.NoError(t, err)
	assert.Equal(t, "170141183460469231731687303715884105728", p.String())

	p, err = Pow(FromInt64(-3), FromInt64(3))
	require.NoError(t, err)
	assert.Equal(t, "-27", p.String())

	p, err = Pow(FromInt64(12345), Zero())
	require.NoError(t, err)
	assert.Equal(t, "1", p.String())

	_, err = Pow(FromInt64(2), FromInt64(-1))
	assert.ErrorIs(t, err, ErrNegativeExponent)
}

func TestTextMarshaling(t *testing.T) {
	type wrapper struct {
		Secret Int `json:"secret"`
	}

	out, err := json.Marshal(wrapper{Secret: MustParse("-123456789012345678901234567890")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"secret":"-123456789012345678901234567890"}`, string(out))

	var w wrapper
	require.NoError(t, json.Unmarshal([]byte(`{"secret":"42"}`), &w))
	assert.Equal(t, "42", w.Secret.String())

	assert.Error(t, json.Unmarshal([]byte(`{"secret":"4x2"}`), &w))
}

func BenchmarkMul256Digits(b *testing.B) {
	r := rand.New(rand.NewPCG(9, 9))
	x := MustParse(strings.TrimPrefix(randomDecimal(r, 256), "-"))
	y := MustParse(strings.TrimPrefix(randomDecimal(r, 256), "-"))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = x.Mul(y)
	}
}
