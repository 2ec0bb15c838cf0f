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
	"errors"
	"fmt"
)

var (
	// ErrInvalidBase indicates a radix outside [2, 36] or a digit that the
	// radix cannot represent
	ErrInvalidBase = errors.New("share: invalid base")

	// ErrInvalidDigit indicates a digit not valid for the requested base. It
	// matches ErrInvalidBase under errors.Is.
	ErrInvalidDigit = fmt.Errorf("%w: invalid digit", ErrInvalidBase)

	// ErrParse indicates an empty or malformed share value
	ErrParse = errors.New("share: parse error")

	// ErrUnknownExpression indicates an expression matching none of the
	// supported forms
	ErrUnknownExpression = errors.New("share: unknown expression format")
)
