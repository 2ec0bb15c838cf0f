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

package document

import "errors"

var (
	// ErrParse indicates a malformed document or a share count that does not
	// match the declared n
	ErrParse = errors.New("document: parse error")

	// ErrUnknownFormat indicates a file extension that is neither JSON nor YAML
	ErrUnknownFormat = errors.New("document: unknown format")
)
