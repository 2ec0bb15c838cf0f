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

	"github.com/jeremyhahn/go-quorum/internal/document"
)

// decodeCmd prints the decoded share values of a document
var decodeCmd = &cobra.Command{
	Use:   "decode <file>",
	Short: "Decode share values without reconstructing",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := document.Load(args[0])
		if err != nil {
			return err
		}
		printVerbose("loaded %d shares from %s", len(doc.Shares), args[0])
		return NewPrinter(getSettings().Output.Format, cmd.OutOrStdout()).PrintDocument(doc)
	},
}
