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

import "errors"

var (
	// ErrParse indicates a string is not a valid decimal integer
	ErrParse = errors.New("bigint: invalid decimal number")

	// ErrDivisionByZero indicates a division or remainder by the zero value
	ErrDivisionByZero = errors.New("bigint: division by zero")

	// ErrNegativeExponent indicates an exponentiation with an exponent below zero
	ErrNegativeExponent = errors.New("bigint: negative exponent")
)
