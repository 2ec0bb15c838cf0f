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

// Package document loads share documents from JSON or YAML.
//
// Two shapes are accepted and detected automatically. The expression form
// lists shares whose values are arithmetic expressions:
//
//	{"n": 4, "k": 3, "shares": [{"id": 1, "value": "sum(1,2)"}, ...]}
//
// The keyed form maps each share ID to a value written in some base:
//
//	{"keys": {"n": 4, "k": 3}, "1": {"base": "10", "value": "4"}, ...}
package document

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jeremyhahn/go-quorum/pkg/bigint"
	"github.com/jeremyhahn/go-quorum/pkg/consensus"
	"github.com/jeremyhahn/go-quorum/pkg/share"
)

// maxValueLength bounds a single share value before any pattern matching.
const maxValueLength = 1 << 16

// Format is the encoding of a document file.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath selects a format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, filepath.Ext(path))
	}
}

// Shape identifies which document layout was parsed.
type Shape string

const (
	ShapeExpression Shape = "expression"
	ShapeKeyed      Shape = "keyed"
)

// DecodedShare is one share with its written form and decoded value.
type DecodedShare struct {
	ID     int          `json:"id"`
	Raw    string       `json:"raw"`
	Base   int          `json:"base,omitempty"`
	Source share.Source `json:"source"`
	Value  bigint.Int   `json:"value"`
}

// Document is a parsed share document. Shares are sorted by ID.
type Document struct {
	N      int            `json:"n"`
	K      int            `json:"k"`
	Shape  Shape          `json:"shape"`
	Shares []DecodedShare `json:"shares"`
}

// Degree returns the polynomial degree k-1.
func (d *Document) Degree() int {
	return d.K - 1
}

// ConsensusShares returns the shares as reconstruction inputs.
func (d *Document) ConsensusShares() []consensus.Share {
	out := make([]consensus.Share, len(d.Shares))
	for i, s := range d.Shares {
		out[i] = consensus.Share{ID: s.ID, Value: s.Value}
	}
	return out
}

// Load reads and parses the document at path. The format follows the file
// extension.
func Load(path string) (*Document, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	// #nosec G304 - Document path is provided by the user
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("document: failed to read %s: %w", path, err)
	}
	return Parse(data, format)
}

// Parse decodes a document. Any share that fails to decode fails the whole
// document.
func Parse(data []byte, format Format) (*Document, error) {
	root, err := decodeTree(data, format)
	if err != nil {
		return nil, err
	}

	var doc *Document
	switch {
	case root["shares"] != nil:
		doc, err = parseExpressionForm(root)
	case root["keys"] != nil:
		doc, err = parseKeyedForm(root)
	default:
		return nil, fmt.Errorf("%w: expected a \"shares\" list or a \"keys\" object", ErrParse)
	}
	if err != nil {
		return nil, err
	}

	slices.SortStableFunc(doc.Shares, func(a, b DecodedShare) int {
		return a.ID - b.ID
	})
	return doc, nil
}

func parseExpressionForm(root map[string]any) (*Document, error) {
	n, err := intField(root, "n")
	if err != nil {
		return nil, err
	}
	k, err := intField(root, "k")
	if err != nil {
		return nil, err
	}
	list, ok := root["shares"].([]any)
	if !ok {
		return nil, fmt.Errorf("%w: \"shares\" must be a list", ErrParse)
	}
	if len(list) != n {
		return nil, fmt.Errorf("%w: n is %d but %d shares are listed", ErrParse, n, len(list))
	}

	doc := &Document{N: n, K: k, Shape: ShapeExpression, Shares: make([]DecodedShare, 0, len(list))}
	for i, item := range list {
		obj, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: share %d is not an object", ErrParse, i)
		}
		id, err := intField(obj, "id")
		if err != nil {
			return nil, fmt.Errorf("share %d: %w", i, err)
		}
		raw, err := valueField(obj, "value")
		if err != nil {
			return nil, fmt.Errorf("share %d: %w", id, err)
		}
		value, err := share.Evaluate(raw)
		if err != nil {
			return nil, fmt.Errorf("share %d: %w", id, err)
		}
		doc.Shares = append(doc.Shares, DecodedShare{
			ID:     id,
			Raw:    raw,
			Source: share.SourceExpression,
			Value:  value,
		})
	}
	return doc, nil
}

func parseKeyedForm(root map[string]any) (*Document, error) {
	keys, ok := root["keys"].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: \"keys\" must be an object", ErrParse)
	}
	n, err := intField(keys, "n")
	if err != nil {
		return nil, err
	}
	k, err := intField(keys, "k")
	if err != nil {
		return nil, err
	}

	doc := &Document{N: n, K: k, Shape: ShapeKeyed, Shares: make([]DecodedShare, 0, len(root)-1)}
	for key, item := range root {
		if key == "keys" {
			continue
		}
		id, err := strconv.Atoi(strings.TrimSpace(key))
		if err != nil {
			return nil, fmt.Errorf("%w: share key %q is not an integer", ErrParse, key)
		}
		obj, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: share %d is not an object", ErrParse, id)
		}
		baseText, err := valueField(obj, "base")
		if err != nil {
			return nil, fmt.Errorf("share %d: %w", id, err)
		}
		base, err := share.ParseBase(baseText)
		if err != nil {
			return nil, fmt.Errorf("share %d: %w", id, err)
		}
		raw, err := valueField(obj, "value")
		if err != nil {
			return nil, fmt.Errorf("share %d: %w", id, err)
		}
		value, err := share.DecodeBase(raw, base)
		if err != nil {
			return nil, fmt.Errorf("share %d: %w", id, err)
		}
		doc.Shares = append(doc.Shares, DecodedShare{
			ID:     id,
			Raw:    raw,
			Base:   base,
			Source: share.SourceBase,
			Value:  value,
		})
	}
	return doc, nil
}

// decodeTree decodes data into nested maps and lists whose scalars keep
// their source text, so large integers are never rounded through float64.
func decodeTree(data []byte, format Format) (map[string]any, error) {
	var tree any
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		if err := dec.Decode(&tree); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrParse, err)
		}
	case FormatYAML:
		var node yaml.Node
		if err := yaml.Unmarshal(data, &node); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrParse, err)
		}
		if len(node.Content) == 0 {
			return nil, fmt.Errorf("%w: empty document", ErrParse)
		}
		tree = nodeTree(node.Content[0])
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}

	root, ok := tree.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: document root must be an object", ErrParse)
	}
	return root, nil
}

func nodeTree(n *yaml.Node) any {
	switch n.Kind {
	case yaml.MappingNode:
		m := make(map[string]any, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			m[n.Content[i].Value] = nodeTree(n.Content[i+1])
		}
		return m
	case yaml.SequenceNode:
		list := make([]any, len(n.Content))
		for i, c := range n.Content {
			list[i] = nodeTree(c)
		}
		return list
	case yaml.AliasNode:
		return nodeTree(n.Alias)
	case yaml.DocumentNode:
		if len(n.Content) > 0 {
			return nodeTree(n.Content[0])
		}
		return nil
	default:
		return n.Value
	}
}

// valueField returns a scalar field as text. Strings and numbers are both
// accepted.
func valueField(obj map[string]any, name string) (string, error) {
	v, ok := obj[name]
	if !ok {
		return "", fmt.Errorf("%w: missing %q", ErrParse, name)
	}
	var s string
	switch t := v.(type) {
	case string:
		s = t
	case json.Number:
		s = t.String()
	default:
		return "", fmt.Errorf("%w: %q must be a string or number", ErrParse, name)
	}
	if len(s) > maxValueLength {
		return "", fmt.Errorf("%w: %q too long (max %d characters)", ErrParse, name, maxValueLength)
	}
	return s, nil
}

func intField(obj map[string]any, name string) (int, error) {
	s, err := valueField(obj, name)
	if err != nil {
		return 0, err
	}
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: %q must be an integer, got %q", ErrParse, name, s)
	}
	return v, nil
}
