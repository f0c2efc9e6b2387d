// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package filters

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/apex/log"
	"github.com/tidwall/gjson"

	"github.com/shaansubbaiah/mongo-spreadsheet-aat/internal/attrs"
	"github.com/shaansubbaiah/mongo-spreadsheet-aat/internal/driller"
)

// DelimEnv names the environment variable overriding the "," delimiter.
const DelimEnv = "RSHEET_FILTER_DELIM"

// Operators understood after a key. An empty Op tests for presence.
const (
	OpEqual    = "="
	OpFold     = "~"
	OpPrefix   = "^"
	OpLess     = "<"
	OpGreater  = ">"
	OpContains = "@"
	OpRegex    = "/"
)

// ErrInvalid wraps every parse failure.
var ErrInvalid = errors.New("invalid filter")

// exprRe splits "_key!op value" into its parts. The leading _ marks a filter
// meant for the store's query.
var exprRe = regexp.MustCompile(`^(_)?([^!=^~<>@/]*)(!?)([=^~<>@/]?)(.*)$`)

// Filter is one parsed --filter expression.
type Filter struct {
	Key    string `yaml:"key"`
	Op     string `yaml:"op"`
	Negate bool   `yaml:"negate"`
	Store  bool   `yaml:"store"`
	Value  string `yaml:"value"`

	re *regexp.Regexp
}

// List is a parsed --filter flag.
type List []Filter

// Parse reads a delimited filter spec. Empty entries are ignored.
func Parse(spec string) (List, error) {
	delim := ","
	if d, ok := os.LookupEnv(DelimEnv); ok && d != "" {
		delim = d
	}

	var list List
	for _, part := range strings.Split(spec, delim) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		f, err := parseOne(part)
		if err != nil {
			return nil, err
		}
		list = append(list, f)
	}
	return list, nil
}

func parseOne(s string) (Filter, error) {
	m := exprRe.FindStringSubmatch(s)
	if m == nil {
		return Filter{}, fmt.Errorf("%w: %q", ErrInvalid, s)
	}
	f := Filter{
		Store:  m[1] == "_",
		Key:    strings.TrimSpace(m[2]),
		Negate: m[3] == "!",
		Op:     m[4],
		Value:  m[5],
	}
	switch {
	case f.Key == "":
		return Filter{}, fmt.Errorf("%w: %q has no key", ErrInvalid, s)
	case f.Op == "" && f.Value != "":
		return Filter{}, fmt.Errorf("%w: %q has no operator", ErrInvalid, s)
	case f.Op == OpRegex:
		re, err := regexp.Compile(f.Value)
		if err != nil {
			return Filter{}, fmt.Errorf("%w: %q: %v", ErrInvalid, s, err)
		}
		f.re = re
	}
	return f, nil
}

// String formats f the way it would be written on the command line.
func (f Filter) String() string {
	var b strings.Builder
	if f.Store {
		b.WriteByte('_')
	}
	b.WriteString(f.Key)
	if f.Negate {
		b.WriteByte('!')
	}
	b.WriteString(f.Op)
	b.WriteString(f.Value)
	return b.String()
}

// Match reports whether a decoded JSON value passes f. Null and missing values
// fail every positive test, so the negated form of any operator passes them.
func (f Filter) Match(v any) bool {
	if f.Op == "" {
		return (v != nil) != f.Negate
	}
	if v == nil {
		return f.Negate
	}
	return f.test(v) != f.Negate
}

func (f Filter) test(v any) bool {
	switch val := v.(type) {
	case float64:
		if target, err := strconv.ParseFloat(strings.TrimSpace(f.Value), 64); err == nil {
			switch f.Op {
			case OpEqual, OpFold:
				return val == target
			case OpLess:
				return val < target
			case OpGreater:
				return val > target
			}
		}
		return f.text(strconv.FormatFloat(val, 'f', -1, 64))
	case bool:
		return f.text(strconv.FormatBool(val))
	case string:
		return f.text(val)
	case []any:
		if f.Op != OpContains {
			return false
		}
		for _, item := range val {
			if fmt.Sprint(item) == f.Value {
				return true
			}
		}
		return false
	case map[string]any:
		_, ok := val[f.Value]
		return f.Op == OpContains && ok
	}
	log.Debugf("filter %s: unsupported value type %T", f, v)
	return false
}

func (f Filter) text(s string) bool {
	switch f.Op {
	case OpEqual:
		return s == f.Value
	case OpFold:
		return strings.EqualFold(s, f.Value)
	case OpPrefix:
		return strings.HasPrefix(s, f.Value)
	case OpLess:
		return s < f.Value
	case OpGreater:
		return s > f.Value
	case OpContains:
		return strings.Contains(s, f.Value)
	case OpRegex:
		return f.re != nil && f.re.MatchString(s)
	}
	return false
}

// Local drops the filters meant for the store's query.
func (l List) Local() List {
	var out List
	for _, f := range l {
		if !f.Store {
			out = append(out, f)
		}
	}
	return out
}

// Keep reports whether doc passes every local filter. A filter key names an
// attr by its OutputKey, or failing that a path inside the document.
func (l List) Keep(doc gjson.Result, attrList attrs.AttrList) bool {
	for _, f := range l {
		if f.Store {
			continue
		}
		path := f.Key
		for _, a := range attrList {
			if a.OutputKey == f.Key {
				path = a.Key
				break
			}
		}
		if !f.Match(driller.Drill(doc, path).Value()) {
			return false
		}
	}
	return true
}

// Apply filters docs, a JSON array, and projects each survivor onto attrList
// keyed by OutputKey. Transforms are left to the caller.
func Apply(docs gjson.Result, attrList attrs.AttrList, spec string) ([]map[string]any, error) {
	list, err := Parse(spec)
	if err != nil {
		return nil, err
	}

	var rows []map[string]any
	for _, doc := range docs.Array() {
		if !list.Keep(doc, attrList) {
			continue
		}
		row := make(map[string]any, len(attrList))
		for _, a := range attrList {
			row[a.OutputKey] = driller.Drill(doc, a.Key).Value()
		}
		rows = append(rows, row)
	}
	return rows, nil
}
