// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/apex/log"
	"github.com/tidwall/gjson"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v2"

	"github.com/shaansubbaiah/mongo-spreadsheet-aat/internal/attrs"
	"github.com/shaansubbaiah/mongo-spreadsheet-aat/internal/filters"
	"github.com/shaansubbaiah/mongo-spreadsheet-aat/internal/snapshot"
	"github.com/shaansubbaiah/mongo-spreadsheet-aat/internal/tablediff"
)

// Options control how a result set is shaped and rendered.
type Options struct {
	Output  string
	Filter  string
	Sort    string
	Local   bool
	Color   bool
	Titles  bool
	Padding int
	Header  string
	Footer  string
}

// OptionsFrom reads Options from the command's output flags. Header and
// footer come from cmd.Metadata.
func OptionsFrom(cmd *cli.Command) Options {
	opts := Options{
		Output:  cmd.String("output"),
		Filter:  cmd.String("filter"),
		Sort:    cmd.String("sort"),
		Local:   cmd.Bool("local"),
		Color:   cmd.Bool("color"),
		Titles:  cmd.Bool("titles"),
		Padding: cmd.Int("padding"),
	}
	opts.Header, _ = cmd.Metadata["header"].(string)
	opts.Footer, _ = cmd.Metadata["footer"].(string)
	return opts
}

// SliceDiceSpit filters, transforms, sorts and renders raw per the command's
// flags. parent names the member holding the rows ("data" for jsonapi
// payloads), or "" when raw is the array itself. postProcess, when given,
// sees the rows just before a text table is drawn.
func SliceDiceSpit(raw bytes.Buffer,
	attrs attrs.AttrList,
	cmd *cli.Command,
	parent string,
	w io.Writer,
	postProcess func([]map[string]interface{}) error) {

	if w == nil {
		w = os.Stdout
	}
	if err := Spit(w, raw.Bytes(), attrs, parent, OptionsFrom(cmd), postProcess); err != nil {
		log.Errorf("SliceDiceSpit: %v", err)
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
	}
}

// Spit is SliceDiceSpit with explicit Options.
func Spit(w io.Writer, raw []byte, attrList attrs.AttrList, parent string, opts Options,
	postProcess func([]map[string]interface{}) error) error {

	if opts.Output == "raw" {
		_, err := w.Write(raw)
		return err
	}

	rows, err := Shape(raw, attrList, parent, opts)
	if err != nil {
		return err
	}

	switch opts.Output {
	case "json":
		body, err := snapshot.ToJSON(orderedDataset(rows, attrList))
		if err != nil {
			return fmt.Errorf("json: %w", err)
		}
		_, err = fmt.Fprintf(w, "%s\n", body)
		return err
	case "yaml":
		body, err := yaml.Marshal(yamlDataset(rows, attrList))
		if err != nil {
			return fmt.Errorf("yaml: %w", err)
		}
		_, err = w.Write(body)
		return err
	}

	if postProcess != nil {
		if err := postProcess(rows); err != nil {
			return fmt.Errorf("post process: %w", err)
		}
	}
	WriteTable(w, rows, attrList, opts)
	return nil
}

// Shape selects the rows of raw, filters them, projects them onto attrList,
// applies each attr's transform and sorts the result.
func Shape(raw []byte, attrList attrs.AttrList, parent string, opts Options) ([]map[string]interface{}, error) {
	dataset := gjson.ParseBytes(raw)
	if parent != "" {
		dataset = dataset.Get(parent)
	}

	rows, err := filters.Apply(dataset, attrList, opts.Filter)
	if err != nil {
		return nil, err
	}

	// --local asks for every value that looks like a time to be shown in the
	// local zone. The transform leaves other values alone.
	if opts.Local {
		for i := range attrList {
			attrList[i].TransformSpec += "t"
		}
	}

	for _, row := range rows {
		for _, a := range attrList {
			if a.TransformSpec != "" {
				row[a.OutputKey] = a.Transform(row[a.OutputKey])
			}
		}
	}

	SortDataset(rows, opts.Sort)
	return rows, nil
}

// included lists the output keys of the attrs that are shown.
func included(attrList attrs.AttrList) []string {
	var keys []string
	for _, a := range attrList {
		if a.Include {
			keys = append(keys, a.OutputKey)
		}
	}
	return keys
}

// orderedDataset converts rows into a Snapshot whose column order follows
// the shown attrs.
func orderedDataset(rows []map[string]interface{}, attrList attrs.AttrList) tablediff.Snapshot {
	cols := included(attrList)
	out := make([]tablediff.Row, 0, len(rows))
	for _, r := range rows {
		row := make(tablediff.Row, len(cols))
		for _, c := range cols {
			row[c] = r[c]
		}
		out = append(out, row)
	}
	return tablediff.New(cols, out...)
}

// yamlDataset builds yaml.v2 ordered maps so keys keep --attrs order.
func yamlDataset(rows []map[string]interface{}, attrList attrs.AttrList) []yaml.MapSlice {
	cols := included(attrList)
	out := make([]yaml.MapSlice, 0, len(rows))
	for _, r := range rows {
		item := make(yaml.MapSlice, 0, len(cols))
		for _, c := range cols {
			item = append(item, yaml.MapItem{Key: c, Value: r[c]})
		}
		out = append(out, item)
	}
	return out
}
