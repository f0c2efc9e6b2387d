// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package snapshot

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"

	"github.com/shaansubbaiah/mongo-spreadsheet-aat/internal/log"
	"github.com/shaansubbaiah/mongo-spreadsheet-aat/internal/tablediff"
)

// ErrNotATable is returned when a document is not a list of objects.
var ErrNotATable = errors.New("document is not a list of objects")

// FromJSON parses a JSON array of objects into a Snapshot. Column order is
// the order in which keys are first seen. A wrapper object of the form
// {"columns": [...], "rows": [...]} supplies an explicit column order.
func FromJSON(data []byte) (tablediff.Snapshot, error) {
	if !gjson.ValidBytes(data) {
		return tablediff.Snapshot{}, fmt.Errorf("invalid JSON")
	}

	doc := gjson.ParseBytes(data)
	var explicit []string
	if doc.IsObject() {
		for _, c := range doc.Get("columns").Array() {
			explicit = append(explicit, c.String())
		}
		doc = doc.Get("rows")
	}
	if !doc.IsArray() {
		return tablediff.Snapshot{}, ErrNotATable
	}

	var s tablediff.Snapshot
	seen := map[string]bool{}
	var order []string
	var rowErr error

	doc.ForEach(func(idx, value gjson.Result) bool {
		if !value.IsObject() {
			rowErr = fmt.Errorf("row %d: %w", idx.Int(), ErrNotATable)
			return false
		}
		row := tablediff.Row{}
		value.ForEach(func(key, v gjson.Result) bool {
			k := key.String()
			row[k] = v.Value()
			if !seen[k] {
				seen[k] = true
				order = append(order, k)
			}
			return true
		})
		s.Rows = append(s.Rows, row)
		return true
	})
	if rowErr != nil {
		return tablediff.Snapshot{}, rowErr
	}

	s.Cols = order
	if len(explicit) > 0 {
		s.Cols = explicit
	}
	log.Debugf("snapshot from json: rows=%d cols=%v", s.Len(), s.Cols)
	return s, nil
}

// FromYAML parses a YAML sequence of mappings into a Snapshot, keeping the
// mapping key order as column order.
func FromYAML(data []byte) (tablediff.Snapshot, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return tablediff.Snapshot{}, fmt.Errorf("invalid YAML: %w", err)
	}
	if len(doc.Content) == 0 {
		return tablediff.Snapshot{}, nil
	}

	seq := doc.Content[0]
	if seq.Kind != yaml.SequenceNode {
		return tablediff.Snapshot{}, ErrNotATable
	}

	var s tablediff.Snapshot
	seen := map[string]bool{}
	for i, item := range seq.Content {
		if item.Kind != yaml.MappingNode {
			return tablediff.Snapshot{}, fmt.Errorf("row %d: %w", i, ErrNotATable)
		}
		row := tablediff.Row{}
		for j := 0; j+1 < len(item.Content); j += 2 {
			k := item.Content[j].Value
			var v any
			if err := item.Content[j+1].Decode(&v); err != nil {
				return tablediff.Snapshot{}, fmt.Errorf("row %d field %q: %w", i, k, err)
			}
			row[k] = v
			if !seen[k] {
				seen[k] = true
				s.Cols = append(s.Cols, k)
			}
		}
		s.Rows = append(s.Rows, row)
	}

	return s, nil
}

// Read parses r as YAML when yamlInput is set and as JSON otherwise.
func Read(r io.Reader, yamlInput bool) (tablediff.Snapshot, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return tablediff.Snapshot{}, fmt.Errorf("failed to read snapshot: %w", err)
	}
	if yamlInput {
		return FromYAML(data)
	}
	return FromJSON(data)
}

// Load reads a snapshot file, choosing the decoder by extension. A path of
// "-" reads JSON from stdin.
func Load(path string) (tablediff.Snapshot, error) {
	if path == "-" {
		return Read(os.Stdin, false)
	}

	f, err := os.Open(path)
	if err != nil {
		return tablediff.Snapshot{}, fmt.Errorf("failed to open snapshot: %w", err)
	}
	defer f.Close()

	s, err := Read(f, IsYAML(path))
	if err != nil {
		return tablediff.Snapshot{}, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// IsYAML reports whether path has a YAML extension.
func IsYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// ToJSON renders the snapshot as a JSON array, writing each row's keys in
// column order. Keys missing from the column list follow in sorted order.
func ToJSON(s tablediff.Snapshot) ([]byte, error) {
	cols := s.Columns()

	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, row := range s.Rows {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeRow(&buf, row, cols); err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

func writeRow(buf *bytes.Buffer, row tablediff.Row, cols []string) error {
	known := make(map[string]bool, len(cols))
	keys := make([]string, 0, len(row))
	for _, c := range cols {
		known[c] = true
		if _, ok := row[c]; ok {
			keys = append(keys, c)
		}
	}
	var extra []string
	for k := range row {
		if !known[k] {
			extra = append(extra, k)
		}
	}
	sort.Strings(extra)
	keys = append(keys, extra...)

	buf.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return err
		}
		vb, err := json.Marshal(row[k])
		if err != nil {
			return fmt.Errorf("field %q: %w", k, err)
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return nil
}
