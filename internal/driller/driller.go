// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package driller

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// ErrBadPath is returned by Parse for a segment it cannot read.
var ErrBadPath = errors.New("invalid field path")

// Segment is one step of a field path. Index is only meaningful when
// Indexed is set; negative values count back from the end of the list.
type Segment struct {
	Key     string
	Index   int
	Indexed bool
}

var segmentRe = regexp.MustCompile(`^([A-Za-z0-9_$-]+)(?:\[(-?\d+|\*)?\])?$`)

// Parse splits a dotted field path such as "ingredients[0].item".
func Parse(path string) ([]Segment, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: empty", ErrBadPath)
	}

	var segs []Segment
	for _, part := range strings.Split(path, ".") {
		m := segmentRe.FindStringSubmatch(part)
		if m == nil {
			return nil, fmt.Errorf("%w: %q in %q", ErrBadPath, part, path)
		}
		seg := Segment{Key: m[1]}
		if m[2] != "" && m[2] != "*" {
			// The pattern only admits an optional sign and digits.
			seg.Index, _ = strconv.Atoi(m[2])
			seg.Indexed = true
		}
		segs = append(segs, seg)
	}
	return segs, nil
}

// Drill resolves path inside doc. A list reached without an index collapses
// to its only element when it has exactly one, and is returned whole
// otherwise. Bad paths and out of range indexes give an empty Result.
func Drill(doc gjson.Result, path string) gjson.Result {
	segs, err := Parse(path)
	if err != nil {
		return gjson.Result{}
	}

	current := doc
	for _, seg := range segs {
		current = current.Get(seg.Key)
		if !current.IsArray() {
			if seg.Indexed {
				return gjson.Result{}
			}
			continue
		}

		items := current.Array()
		switch {
		case seg.Indexed:
			i := seg.Index
			if i < 0 {
				i += len(items)
			}
			if i < 0 || i >= len(items) {
				return gjson.Result{}
			}
			current = items[i]
		case len(items) == 1:
			current = items[0]
		}
	}
	return current
}

// DrillJSON parses a JSON document and resolves path inside it.
func DrillJSON(doc string, path string) gjson.Result {
	return Drill(gjson.Parse(doc), path)
}
