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
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeremyhahn/go-quorum/pkg/bigint"
	"github.com/jeremyhahn/go-quorum/pkg/consensus"
	"github.com/jeremyhahn/go-quorum/pkg/share"
)

// f(x) = x^2 + 3
const keyedDoc = `{
  "keys": {"n": 4, "k": 3},
  "1": {"base": "10", "value": "4"},
  "2": {"base": "2", "value": "111"},
  "3": {"base": "10", "value": "12"},
  "6": {"base": "4", "value": "213"}
}`

// f(x) = 2x + 5 with share 3 corrupted
const corruptedDoc = `{
  "n": 4,
  "k": 2,
  "shares": [
    {"id": 1, "value": "sum(3,4)"},
    {"id": 2, "value": "multiply(3,3)"},
    {"id": 3, "value": "12"},
    {"id": 4, "value": "divide(26,2)"}
  ]
}`

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.PersistentFlags().VisitAll(reset)
	cmd.Flags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// execute runs the root command with args and returns stdout and stderr.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("QUORUM_CONFIG", "")
	resetFlags(rootCmd)

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := Execute(context.Background())
	return stdout.String(), stderr.String(), err
}

func writeDoc(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestRecover_Text(t *testing.T) {
	path := writeDoc(t, "shares.json", keyedDoc)

	out, _, err := execute(t, "recover", path)
	require.NoError(t, err)

	assert.Contains(t, out, "Threshold (k): 3")
	assert.Contains(t, out, "Polynomial degree: 2")
	assert.Contains(t, out, `2: base 2 "111" -> 7`)
	assert.Contains(t, out, "Secret:         3")
	assert.Contains(t, out, "appears in 4 out of 4 combinations (100.00%)")
	assert.Contains(t, out, "Wrong shares:   none")
}

func TestRecover_JSONReportsWrongShare(t *testing.T) {
	path := writeDoc(t, "shares.json", corruptedDoc)

	out, _, err := execute(t, "recover", "-o", "json", path)
	require.NoError(t, err)

	var report map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, "5", report["secret"])
	assert.Equal(t, []interface{}{float64(3)}, report["wrong_shares"])
	assert.Equal(t, float64(3), report["agreeing"])
	assert.Equal(t, float64(6), report["total"])
	assert.NotEmpty(t, report["run_id"])

	shares := report["shares"].([]interface{})
	require.Len(t, shares, 4)
	third := shares[2].(map[string]interface{})
	assert.Equal(t, "wrong", third["status"])
	assert.Equal(t, "12", third["value"])
}

func TestRecover_TableParallel(t *testing.T) {
	path := writeDoc(t, "shares.json", corruptedDoc)

	out, _, err := execute(t, "recover", "-o", "table", "--workers", "3", path)
	require.NoError(t, err)

	assert.Contains(t, out, "wrong")
	assert.Contains(t, out, "multiply(3,3)")
	assert.Contains(t, out, "appears in 3 out of 6 combinations (50.00%)")
}

func TestRecover_YAMLDocument(t *testing.T) {
	path := writeDoc(t, "shares.yaml", "n: 2\nk: 2\nshares:\n  - id: 1\n    value: 7\n  - id: 2\n    value: 9\n")

	out, _, err := execute(t, "recover", "-o", "json", path)
	require.NoError(t, err)
	assert.Contains(t, out, `"secret": "5"`)
}

func TestRecover_VerboseLogsRunID(t *testing.T) {
	path := writeDoc(t, "shares.json", keyedDoc)

	_, stderr, err := execute(t, "recover", "-v", path)
	require.NoError(t, err)
	assert.Contains(t, stderr, "majority secret selected")
	assert.Contains(t, stderr, "run_id=")
}

func TestRecover_MetricsFile(t *testing.T) {
	path := writeDoc(t, "shares.json", keyedDoc)
	prom := filepath.Join(t.TempDir(), "quorum.prom")

	_, _, err := execute(t, "recover", "--metrics-file", prom, path)
	require.NoError(t, err)

	data, err := os.ReadFile(prom)
	require.NoError(t, err)
	assert.Contains(t, string(data), "quorum_runs_total")
	assert.Contains(t, string(data), "quorum_run_peak_goroutines")
}

func TestRecover_Errors(t *testing.T) {
	_, _, err := execute(t, "recover", filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	path := writeDoc(t, "shares.json", `{"keys":{"n":2,"k":3},"1":{"base":"10","value":"1"},"2":{"base":"10","value":"2"}}`)
	_, _, err = execute(t, "recover", path)
	assert.ErrorIs(t, err, consensus.ErrInsufficientPoints)

	bad := writeDoc(t, "shares.json", `{"keys":{"n":1,"k":1},"1":{"base":"37","value":"1"}}`)
	_, _, err = execute(t, "recover", bad)
	assert.ErrorIs(t, err, share.ErrInvalidBase)

	_, _, err = execute(t, "recover")
	assert.Error(t, err)
}

func TestRecover_ConfigFile(t *testing.T) {
	cfgPath := writeDoc(t, "quorum.yaml", "output:\n  format: json\nconsensus:\n  workers: 2\n")
	path := writeDoc(t, "shares.json", keyedDoc)

	out, _, err := execute(t, "recover", "--config", cfgPath, path)
	require.NoError(t, err)

	var report map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, float64(2), report["workers"])
	assert.Equal(t, "smallest-secret", report["tie_break"])
}

func TestDecode(t *testing.T) {
	path := writeDoc(t, "shares.json", keyedDoc)

	out, _, err := execute(t, "decode", path)
	require.NoError(t, err)
	assert.Contains(t, out, `6: base 4 "213" -> 39`)

	out, _, err = execute(t, "decode", "-o", "json", path)
	require.NoError(t, err)
	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, "keyed", doc["shape"])
	assert.Len(t, doc["shares"], 4)
}

func TestEval(t *testing.T) {
	out, _, err := execute(t, "eval", "power(2,10)")
	require.NoError(t, err)
	assert.Equal(t, "1024\n", out)

	out, _, err = execute(t, "eval", "-o", "json", "gcd(84, 126)")
	require.NoError(t, err)
	assert.JSONEq(t, `{"expression":"gcd(84, 126)","value":"42"}`, out)

	_, _, err = execute(t, "eval", "add(1,2)")
	assert.ErrorIs(t, err, share.ErrUnknownExpression)
}

func TestVersion(t *testing.T) {
	out, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "quorum version "+Version)

	out, _, err = execute(t, "version", "-o", "json")
	require.NoError(t, err)
	var info map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	assert.Equal(t, Version, info["version"])
}

func TestPrinter_UnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter("xml", &buf)
	assert.Error(t, p.PrintValue("1", bigint.One()))
	assert.NoError(t, p.PrintError(assert.AnError))
	assert.Contains(t, buf.String(), "Error:")
}
