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
	"regexp"
	"strings"

	"github.com/jeremyhahn/go-quorum/pkg/bigint"
)

// binaryOp applies a two-operand function to parsed operands.
type binaryOp func(a, b bigint.Int) (bigint.Int, error)

type exprForm struct {
	pattern *regexp.Regexp
	apply   binaryOp
}

var (
	intPattern = regexp.MustCompile(`^\d+$`)

	// Forms are tried in order; each pattern matches the whole expression.
	exprForms = []exprForm{
		{regexp.MustCompile(`^sum\((\d+),(\d+)\)$`), func(a, b bigint.Int) (bigint.Int, error) {
			return a.Add(b), nil
		}},
		{regexp.MustCompile(`^multiply\((\d+),(\d+)\)$`), func(a, b bigint.Int) (bigint.Int, error) {
			return a.Mul(b), nil
		}},
		{regexp.MustCompile(`^divide\((\d+),(\d+)\)$`), func(a, b bigint.Int) (bigint.Int, error) {
			return a.Quo(b)
		}},
		{regexp.MustCompile(`^lcm\((\d+),(\d+)\)$`), bigint.LCM},
		{regexp.MustCompile(`^(?:hcf|gcd)\((\d+),(\d+)\)$`), func(a, b bigint.Int) (bigint.Int, error) {
			return bigint.GCD(a, b), nil
		}},
		{regexp.MustCompile(`^power\((\d+),(\d+)\)$`), bigint.Pow},
	}
)

// Evaluate computes the value of a share expression. Whitespace is ignored.
// Supported forms are sum, multiply, divide, lcm, hcf/gcd and power, each
// taking two non-negative decimal operands, or a bare non-negative integer.
//
//	v, err := share.Evaluate("power(2, 127)")
func Evaluate(expr string) (bigint.Int, error) {
	clean := strings.Join(strings.Fields(expr), "")

	for _, form := range exprForms {
		m := form.pattern.FindStringSubmatch(clean)
		if m == nil {
			continue
		}
		a, err := bigint.Parse(m[1])
		if err != nil {
			return bigint.Int{}, err
		}
		b, err := bigint.Parse(m[2])
		if err != nil {
			return bigint.Int{}, err
		}
		v, err := form.apply(a, b)
		if err != nil {
			return bigint.Int{}, fmt.Errorf("share: evaluating %q: %w", clean, err)
		}
		return v, nil
	}

	if intPattern.MatchString(clean) {
		return bigint.Parse(clean)
	}
	return bigint.Int{}, fmt.Errorf("%w: %q", ErrUnknownExpression, expr)
}
