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
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/pterm/pterm"

	"github.com/jeremyhahn/go-quorum/internal/document"
	"github.com/jeremyhahn/go-quorum/pkg/bigint"
	"github.com/jeremyhahn/go-quorum/pkg/consensus"
)

// OutputFormat defines the output format type
type OutputFormat string

const (
	OutputFormatText  OutputFormat = "text"
	OutputFormatJSON  OutputFormat = "json"
	OutputFormatTable OutputFormat = "table"
)

// Printer handles formatted output
type Printer struct {
	format OutputFormat
	writer io.Writer
}

// NewPrinter creates a new Printer
func NewPrinter(format string, writer io.Writer) *Printer {
	return &Printer{
		format: OutputFormat(strings.ToLower(format)),
		writer: writer,
	}
}

// shareStatus labels a share in a report
func shareStatus(id int, res *consensus.Result) string {
	if res == nil {
		return ""
	}
	if slices.Contains(res.WrongShares, id) {
		return "wrong"
	}
	return "valid"
}

func shareJSON(s document.DecodedShare, res *consensus.Result) map[string]interface{} {
	m := map[string]interface{}{
		"id":     s.ID,
		"source": s.Source,
		"raw":    s.Raw,
		"value":  s.Value,
	}
	if s.Base != 0 {
		m["base"] = s.Base
	}
	if res != nil {
		m["status"] = shareStatus(s.ID, res)
	}
	return m
}

func describeShare(s document.DecodedShare) string {
	if s.Base != 0 {
		return fmt.Sprintf("base %d %q", s.Base, s.Raw)
	}
	return fmt.Sprintf("%s %q", s.Source, s.Raw)
}

// PrintDocument prints the decoded shares of a document
func (p *Printer) PrintDocument(doc *document.Document) error {
	switch p.format {
	case OutputFormatJSON:
		shares := make([]map[string]interface{}, len(doc.Shares))
		for i, s := range doc.Shares {
			shares[i] = shareJSON(s, nil)
		}
		return p.printJSON(map[string]interface{}{
			"n":      doc.N,
			"k":      doc.K,
			"degree": doc.Degree(),
			"shape":  doc.Shape,
			"shares": shares,
		})
	case OutputFormatTable:
		rows := [][]string{{"ID", "SOURCE", "RAW", "VALUE"}}
		for _, s := range doc.Shares {
			rows = append(rows, []string{strconv.Itoa(s.ID), describeSource(s), s.Raw, s.Value.String()})
		}
		return p.printTable(rows)
	case OutputFormatText:
		p.printHeader(doc)
		return nil
	default:
		return fmt.Errorf("unknown output format: %s", p.format)
	}
}

// PrintReport prints the outcome of a reconstruction
func (p *Printer) PrintReport(doc *document.Document, res *consensus.Result) error {
	switch p.format {
	case OutputFormatJSON:
		shares := make([]map[string]interface{}, len(doc.Shares))
		for i, s := range doc.Shares {
			shares[i] = shareJSON(s, res)
		}
		return p.printJSON(map[string]interface{}{
			"n":            doc.N,
			"k":            doc.K,
			"degree":       doc.Degree(),
			"shape":        doc.Shape,
			"shares":       shares,
			"secret":       res.Secret,
			"agreeing":     res.Agreeing,
			"total":        res.Total,
			"percent":      res.Percent(),
			"skipped":      res.Skipped,
			"wrong_shares": nonNil(res.WrongShares),
			"candidates":   res.Candidates,
			"tie_break":    res.TieBreak,
			"workers":      res.Workers,
			"run_id":       res.RunID,
			"elapsed":      res.Elapsed.String(),
		})
	case OutputFormatTable:
		rows := [][]string{{"ID", "SOURCE", "RAW", "VALUE", "STATUS"}}
		for _, s := range doc.Shares {
			rows = append(rows, []string{
				strconv.Itoa(s.ID), describeSource(s), s.Raw, s.Value.String(), shareStatus(s.ID, res),
			})
		}
		if err := p.printTable(rows); err != nil {
			return err
		}
		return p.printTable([][]string{
			{"FIELD", "VALUE"},
			{"n / k / degree", fmt.Sprintf("%d / %d / %d", doc.N, doc.K, doc.Degree())},
			{"subsets", strconv.Itoa(res.Total)},
			{"secret", res.Secret.String()},
			{"agreement", agreement(res)},
			{"wrong shares", wrongShares(res)},
		})
	case OutputFormatText:
		p.printHeader(doc)
		fmt.Fprintln(p.writer)
		fmt.Fprintf(p.writer, "Subsets tried:  %d (C(%d,%d))\n", res.Total, doc.N, doc.K)
		if res.Skipped > 0 {
			fmt.Fprintf(p.writer, "Skipped:        %d degenerate\n", res.Skipped)
		}
		fmt.Fprintf(p.writer, "Secret:         %s\n", res.Secret)
		fmt.Fprintf(p.writer, "Agreement:      %s\n", agreement(res))
		fmt.Fprintf(p.writer, "Wrong shares:   %s\n", wrongShares(res))
		return nil
	default:
		return fmt.Errorf("unknown output format: %s", p.format)
	}
}

// PrintValue prints an evaluated expression
func (p *Printer) PrintValue(expr string, value bigint.Int) error {
	switch p.format {
	case OutputFormatJSON:
		return p.printJSON(map[string]interface{}{
			"expression": expr,
			"value":      value,
		})
	case OutputFormatTable:
		return p.printTable([][]string{{"EXPRESSION", "VALUE"}, {expr, value.String()}})
	case OutputFormatText:
		fmt.Fprintln(p.writer, value.String())
		return nil
	default:
		return fmt.Errorf("unknown output format: %s", p.format)
	}
}

// PrintError prints an error message
func (p *Printer) PrintError(err error) error {
	switch p.format {
	case OutputFormatJSON:
		return p.printJSON(map[string]interface{}{
			"status": "error",
			"error":  err.Error(),
		})
	default:
		fmt.Fprintf(p.writer, "Error: %v\n", err)
		return nil
	}
}

func (p *Printer) printHeader(doc *document.Document) {
	fmt.Fprintf(p.writer, "Shares (n): %d\n", doc.N)
	fmt.Fprintf(p.writer, "Threshold (k): %d\n", doc.K)
	fmt.Fprintf(p.writer, "Polynomial degree: %d\n", doc.Degree())
	fmt.Fprintln(p.writer, "Decoded shares:")
	for _, s := range doc.Shares {
		fmt.Fprintf(p.writer, "  %d: %s -> %s\n", s.ID, describeShare(s), s.Value)
	}
}

func (p *Printer) printJSON(data interface{}) error {
	encoder := json.NewEncoder(p.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// printTable renders rows with the first row as header
func (p *Printer) printTable(rows [][]string) error {
	out, err := pterm.DefaultTable.WithHasHeader().WithData(pterm.TableData(rows)).Srender()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(p.writer, out)
	return err
}

func describeSource(s document.DecodedShare) string {
	if s.Base != 0 {
		return "base " + strconv.Itoa(s.Base)
	}
	return s.Source.String()
}

func agreement(res *consensus.Result) string {
	return fmt.Sprintf("appears in %d out of %d combinations (%.2f%%)", res.Agreeing, res.Total, res.Percent())
}

func wrongShares(res *consensus.Result) string {
	if len(res.WrongShares) == 0 {
		return "none"
	}
	ids := make([]string, len(res.WrongShares))
	for i, id := range res.WrongShares {
		ids[i] = strconv.Itoa(id)
	}
	return strings.Join(ids, ", ")
}

func nonNil(ids []int) []int {
	if ids == nil {
		return []int{}
	}
	return ids
}
