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

// Package share decodes share values from their written forms: digit
// strings in an arbitrary base and small arithmetic expressions.
package share

// Source records how a share value was written.
type Source string

const (
	// SourceExpression is a value given as an expression such as sum(1,2)
	SourceExpression Source = "expression"

	// SourceBase is a value given as digits in a base
	SourceBase Source = "base"
)

// String returns the source name.
func (s Source) String() string {
	return string(s)
}
