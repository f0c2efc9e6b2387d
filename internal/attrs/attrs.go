// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package attrs

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/shaansubbaiah/mongo-spreadsheet-aat/internal/log"
)

// localTimeLayout renders times converted by the "t" transform.
const localTimeLayout = "2006-01-02T15:04:05MST"

// Attr is one column of output. For documents the key is a dotted path from
// the document root. For typed payloads it lives under "attributes", thus the
// name.
type Attr struct {
	// Key is the path of the value inside each result object.
	Key string `yaml:"key" json:"Key"`
	// Include is false for attrs kept only for filtering and sorting.
	Include bool `yaml:"include" json:"Include"`
	// OutputKey names the value in output and titles the text column.
	OutputKey string `yaml:"outputKey" json:"OutputKey"`
	// TransformSpec holds transform letters and lengths, see Transform.
	TransformSpec string `yaml:"transformSpec" json:"TransformSpec"`
}

// lengthRe finds signed lengths inside a transform spec.
var lengthRe = regexp.MustCompile(`-?\d+`)

// transform is a parsed TransformSpec. When a spec carries several case
// letters or lengths, as it does after a global spec was prepended, the last
// one wins.
type transform struct {
	localTime bool
	timeAgo   bool
	upper     bool
	lower     bool
	length    int
	bold      bool
}

func parseTransform(spec string) transform {
	var t transform
	for _, r := range spec {
		switch r {
		case 't':
			t.localTime = true
		case 'T':
			t.localTime, t.timeAgo = true, true
		case 'u', 'U':
			t.upper, t.lower = true, false
		case 'l', 'L':
			t.lower, t.upper = true, false
		case 'b':
			t.bold = true
		}
	}
	if m := lengthRe.FindAllString(spec, -1); len(m) > 0 {
		t.length, _ = strconv.Atoi(m[len(m)-1])
	}
	return t
}

// Transform applies the attr's TransformSpec to a value. Only strings are
// changed:
//
//   - t renders an RFC 3339 time in the local zone, T as time ago
//   - u/U upper cases and l/L lower cases
//   - N keeps the first N characters, -N keeps both ends around ".."
//   - b marks the column bold and leaves the value alone
func (a *Attr) Transform(value interface{}) interface{} {
	s, ok := value.(string)
	if !ok || a.TransformSpec == "" {
		return value
	}
	t := parseTransform(a.TransformSpec)

	if t.localTime {
		if at, err := time.Parse(time.RFC3339Nano, s); err == nil {
			if t.timeAgo {
				s = humanize.Time(at)
			} else {
				s = at.Local().Format(localTimeLayout)
			}
			log.Tracef("time transform: %s -> %s", value, s)
		}
	}

	switch {
	case t.upper:
		s = strings.ToUpper(s)
	case t.lower:
		s = strings.ToLower(s)
	}

	return truncate(s, t.length)
}

// truncate shortens s to n runes. A negative n keeps the head and tail of s
// joined by "..".
func truncate(s string, n int) string {
	runes := []rune(s)
	limit := n
	if limit < 0 {
		limit = -limit
	}
	if limit == 0 || len(runes) <= limit {
		return s
	}
	if n > 0 || limit <= 2 {
		return string(runes[:limit])
	}
	side := (limit - 2) / 2
	return string(runes[:side]) + ".." + string(runes[len(runes)-side:])
}

// Bold reports whether the text writer should render this column bold.
func (a *Attr) Bold() bool {
	return parseTransform(a.TransformSpec).bold
}

// AttrList is the --attrs flag value.
type AttrList []Attr

// Set parses --attrs specs with keys relative to the document root.
func (a *AttrList) Set(value string) error {
	return a.SetUnder("", value)
}

// SetUnder parses a comma separated list of "key:output:transform" specs.
// Keys not starting with '.' are placed under root, when root is given. A
// leading ! on the key hides the attr. A spec naming an attr already in the
// list, by key or output key, updates it in place, so users can override a
// command's defaults.
func (a *AttrList) SetUnder(root string, value string) error {
	if value == "" || value == "*" {
		return nil
	}

	for _, spec := range strings.Split(value, ",") {
		attr := parseSpec(spec)
		if existing := a.find(attr.Key); existing != nil {
			existing.Include = attr.Include
			existing.OutputKey = attr.OutputKey
			existing.TransformSpec = attr.TransformSpec
			continue
		}

		switch {
		case strings.HasPrefix(attr.Key, "."):
			attr.Key = attr.Key[1:]
		case attr.Key != "*" && root != "":
			attr.Key = root + "." + attr.Key
		}
		*a = append(*a, attr)
	}
	log.Debugf("attrs set: %s", a)
	return nil
}

// parseSpec reads one "key:output:transform" spec. A missing output key is
// the last segment of the key. An empty one is the whole key.
func parseSpec(spec string) Attr {
	fields := strings.SplitN(spec, ":", 3)
	attr := Attr{Key: strings.TrimSpace(fields[0]), Include: true}

	if rest, ok := strings.CutPrefix(attr.Key, "!"); ok {
		attr.Key, attr.Include = rest, false
	}
	if attr.Key == "*" {
		attr.Include = false
	}

	switch {
	case len(fields) == 1:
		attr.OutputKey = attr.Key[strings.LastIndex(attr.Key, ".")+1:]
	case strings.TrimSpace(fields[1]) == "":
		attr.OutputKey = attr.Key
	default:
		attr.OutputKey = strings.TrimSpace(fields[1])
	}
	if len(fields) == 3 {
		attr.TransformSpec = strings.TrimSpace(fields[2])
	}
	return attr
}

func (a *AttrList) find(key string) *Attr {
	for i := range *a {
		if (*a)[i].Key == key || (*a)[i].OutputKey == key {
			return &(*a)[i]
		}
	}
	return nil
}

// SetGlobalTransformSpec prepends the transform of the first "*" attr to
// every attr in the list.
func (a *AttrList) SetGlobalTransformSpec() error {
	global := ""
	for _, attr := range *a {
		if attr.Key == "*" {
			global = attr.TransformSpec
			break
		}
	}
	if global == "" {
		return nil
	}

	for i := range *a {
		(*a)[i].TransformSpec = global + "," + (*a)[i].TransformSpec
	}
	return nil
}

// String formats the list the way --attrs takes it.
func (a *AttrList) String() string {
	specs := make([]string, len(*a))
	for i, attr := range *a {
		specs[i] = fmt.Sprintf("%s:%s:%s", attr.Key, attr.OutputKey, attr.TransformSpec)
	}
	return strings.Join(specs, ",")
}

// Type returns the flag type for use with the flag.Value interface.
func (a *AttrList) Type() string { return "list" }
