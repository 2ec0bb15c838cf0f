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

package cli

import (
	"github.com/spf13/cobra"

	"github.com/jeremyhahn/go-quorum/pkg/share"
)

// evalCmd evaluates a single share expression
var evalCmd = &cobra.Command{
	Use:   "eval <expression>",
	Short: "Evaluate a share expression such as power(2,127)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		v, err := share.Evaluate(args[0])
		if err != nil {
			return err
		}
		return NewPrinter(getSettings().Output.Format, cmd.OutOrStdout()).PrintValue(args[0], v)
	},
}
