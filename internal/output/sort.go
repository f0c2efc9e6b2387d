// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"cmp"
	"slices"
	"strings"
)

// sortKey is one entry of a --sort spec.
type sortKey struct {
	field         string
	descending    bool
	caseSensitive bool
}

// parseSortSpec reads a comma separated list of keys. A leading "-" sorts
// descending and a leading "!" compares strings case sensitively. The two
// prefixes combine in either order.
func parseSortSpec(spec string) []sortKey {
	var keys []sortKey
	for _, f := range strings.Split(spec, ",") {
		k := sortKey{}
		for len(f) > 0 && (f[0] == '-' || f[0] == '!') {
			if f[0] == '-' {
				k.descending = true
			} else {
				k.caseSensitive = true
			}
			f = f[1:]
		}
		if k.field = strings.TrimSpace(f); k.field != "" {
			keys = append(keys, k)
		}
	}
	return keys
}

// SortDataset sorts the result set in place per a --sort spec. Numbers
// compare numerically and everything else as text. Null values go last in
// either direction.
func SortDataset(resultSet []map[string]interface{}, spec string) {
	keys := parseSortSpec(spec)
	if len(keys) == 0 {
		return
	}

	slices.SortStableFunc(resultSet, func(a, b map[string]interface{}) int {
		for _, k := range keys {
			if c := compareCells(a[k.field], b[k.field], k); c != 0 {
				return c
			}
		}
		return 0
	})
}

func compareCells(a, b any, k sortKey) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	}

	var c int
	an, aok := a.(float64)
	bn, bok := b.(float64)
	if aok && bok {
		c = cmp.Compare(an, bn)
	} else {
		as, bs := InterfaceToString(a), InterfaceToString(b)
		if !k.caseSensitive {
			as, bs = strings.ToLower(as), strings.ToLower(bs)
		}
		c = strings.Compare(as, bs)
	}

	if k.descending {
		return -c
	}
	return c
}
