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

package share

import (
	"fmt"
	"strconv"

	"github.com/jeremyhahn/go-quorum/pkg/bigint"
)

const (
	MinBase = 2
	MaxBase = 36
)

// DecodeBase converts digits written in base (2-36) into an integer.
// Digits 0-9 have values 0-9 and letters a-z (either case) 10-35.
func DecodeBase(digits string, base int) (bigint.Int, error) {
	if base < MinBase || base > MaxBase {
		return bigint.Int{}, fmt.Errorf("%w: %d", ErrInvalidBase, base)
	}
	if digits == "" {
		return bigint.Int{}, fmt.Errorf("%w: empty value", ErrParse)
	}

	radix := bigint.FromInt64(int64(base))
	result := bigint.Zero()
	for i := 0; i < len(digits); i++ {
		c := digits[i]
		d := digitValue(c)
		if d < 0 || d >= base {
			return bigint.Int{}, fmt.Errorf("%w %q for base %d", ErrInvalidDigit, c, base)
		}
		result = result.Mul(radix).Add(bigint.FromInt64(int64(d)))
	}
	return result, nil
}

// ParseBase parses a decimal base string such as "16".
func ParseBase(s string) (int, error) {
	base, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidBase, s)
	}
	if base < MinBase || base > MaxBase {
		return 0, fmt.Errorf("%w: %d", ErrInvalidBase, base)
	}
	return base, nil
}

// digitValue returns the value of c or -1 when c is not alphanumeric.
func digitValue(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'z':
		return int(c-'a') + 10
	case c >= 'A' && c <= 'Z':
		return int(c-'A') + 10
	default:
		return -1
	}
}
