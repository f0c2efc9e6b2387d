// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package differ

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/apex/log"
	"github.com/yudai/gojsondiff"
	"github.com/yudai/gojsondiff/formatter"

	"github.com/shaansubbaiah/mongo-spreadsheet-aat/internal/snapshot"
	"github.com/shaansubbaiah/mongo-spreadsheet-aat/internal/tablediff"
)

// Deep writes a structural diff of two snapshots to w, previous on the left.
// Unlike tablediff it descends into nested values and copes with rows being
// added or removed. It reports whether anything differs.
func Deep(w io.Writer, current, previous tablediff.Snapshot, color bool) (bool, error) {
	left, err := toArray(previous)
	if err != nil {
		return false, fmt.Errorf("failed to encode previous: %w", err)
	}
	right, err := toArray(current)
	if err != nil {
		return false, fmt.Errorf("failed to encode current: %w", err)
	}
	log.Debugf("deep diff: previous=%d current=%d", len(left), len(right))

	delta := gojsondiff.New().CompareArrays(left, right)
	if !delta.Modified() {
		fmt.Fprintln(w, "The snapshots are identical.")
		return false, nil
	}

	config := formatter.AsciiFormatterConfig{
		ShowArrayIndex: true,
		Coloring:       color,
	}
	out, err := formatter.NewAsciiFormatter(left, config).Format(delta)
	if err != nil {
		return true, err
	}

	fmt.Fprintln(w, out)
	return true, nil
}

func toArray(s tablediff.Snapshot) ([]interface{}, error) {
	body, err := snapshot.ToJSON(s)
	if err != nil {
		return nil, err
	}
	var arr []interface{}
	if err := json.Unmarshal(body, &arr); err != nil {
		return nil, err
	}
	return arr, nil
}

// PickArg asks for the interactive version picker.
const PickArg = "+"

// Specs turns diff arguments into the current and previous version specs.
// With no arguments the latest change is shown (~0 against ~1); a single
// argument is compared against the current documents. pick is set when the
// only argument is PickArg.
func Specs(args []string) (specs []string, pick bool) {
	specs = []string{"~0", "~1"}

	switch len(args) {
	case 0:
	case 1:
		if args[0] == PickArg {
			return nil, true
		}
		specs = []string{args[0], "~0"}
	default:
		specs = []string{args[0], args[1]}
		if len(args) > 2 {
			log.Warnf("extra diff arguments ignored: %v", args[2:])
		}
	}

	for i, s := range specs {
		specs[i] = normalize(s)
	}
	return specs, false
}

// normalize accepts "HEAD~N" as a synonym for "~N".
func normalize(spec string) string {
	upper := strings.ToUpper(spec)
	if rest, ok := strings.CutPrefix(upper, "HEAD~"); ok {
		if _, err := strconv.Atoi(rest); err == nil {
			return "~" + rest
		}
	}
	if upper == "HEAD" {
		return "~0"
	}
	return spec
}
