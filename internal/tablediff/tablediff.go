// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package tablediff

import (
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"
)

// Row is one record, keyed by field name. A missing key and a nil value are
// both treated as absent.
type Row map[string]any

// Clone returns a shallow copy of the row.
func (r Row) Clone() Row {
	c := make(Row, len(r))
	for k, v := range r {
		c[k] = v
	}
	return c
}

// Snapshot is one capture of a table: rows in display order plus the column
// order. When Cols is empty the column order is derived from the rows.
type Snapshot struct {
	Cols []string
	Rows []Row
}

// New builds a Snapshot with an explicit column order.
func New(columns []string, rows ...Row) Snapshot {
	return Snapshot{Cols: columns, Rows: rows}
}

// Columns returns the snapshot's column order. With no explicit order, the
// columns are collected row by row, each row contributing its unseen keys in
// sorted order, so the result is deterministic.
func (s Snapshot) Columns() []string {
	if len(s.Cols) > 0 {
		return s.Cols
	}

	seen := map[string]bool{}
	var cols []string
	for _, row := range s.Rows {
		keys := make([]string, 0, len(row))
		for k := range row {
			if !seen[k] {
				keys = append(keys, k)
			}
		}
		sort.Strings(keys)
		for _, k := range keys {
			seen[k] = true
			cols = append(cols, k)
		}
	}
	return cols
}

// Clone returns a copy of the snapshot whose rows can be modified without
// touching the original.
func (s Snapshot) Clone() Snapshot {
	c := Snapshot{
		Cols: append([]string(nil), s.Cols...),
		Rows: make([]Row, len(s.Rows)),
	}
	for i, row := range s.Rows {
		c.Rows[i] = row.Clone()
	}
	return c
}

// Len returns the number of rows.
func (s Snapshot) Len() int { return len(s.Rows) }

// ChangeRecord is a single (row, column) difference between two snapshots.
// RowID holds the identifier field's value when one was designated.
type ChangeRecord struct {
	Row      int    `json:"row_id" yaml:"row_id"`
	RowID    any    `json:"id_field_value,omitempty" yaml:"id_field_value,omitempty"`
	Column   string `json:"column_name" yaml:"column_name"`
	Current  any    `json:"current_value" yaml:"current_value"`
	Previous any    `json:"previous_value" yaml:"previous_value"`
}

// String renders the record as "row[id].column: previous -> current".
func (c ChangeRecord) String() string {
	where := strconv.Itoa(c.Row)
	if c.RowID != nil {
		where = fmt.Sprintf("%d[%v]", c.Row, c.RowID)
	}
	return fmt.Sprintf("%s.%s: %v -> %v", where, c.Column, c.Previous, c.Current)
}

// Equal reports whether two cell values are the same. Absent values (nil)
// are equal to each other only when absentEqualsAbsent is set, and are never
// equal to a present value, including 0 and "". Numbers compare by value
// regardless of their Go type: two integers compare exactly, a float against
// anything compares as float64. NaN is a present value equal only to NaN.
func Equal(a, b any, absentEqualsAbsent bool) bool {
	aAbsent, bAbsent := IsAbsent(a), IsAbsent(b)
	if aAbsent || bAbsent {
		return aAbsent && bAbsent && absentEqualsAbsent
	}

	if an, ok := toNumber(a); ok {
		bn, ok := toNumber(b)
		return ok && an.equal(bn)
	}

	switch av := a.(type) {
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	}

	return reflect.DeepEqual(a, b)
}

// IsAbsent reports whether v stands for a missing cell.
func IsAbsent(v any) bool {
	return v == nil
}

// CountRows returns the number of distinct rows touched by records.
func CountRows(records []ChangeRecord) int {
	seen := map[int]bool{}
	for _, r := range records {
		seen[r.Row] = true
	}
	return len(seen)
}

// Invert swaps current and previous values in each record.
func Invert(records []ChangeRecord) []ChangeRecord {
	out := make([]ChangeRecord, len(records))
	for i, r := range records {
		r.Current, r.Previous = r.Previous, r.Current
		out[i] = r
	}
	return out
}

// idKey normalizes an identifier value so that 1, int32(1) and 1.0 collide
// while distinct large integers do not.
func idKey(v any) string {
	if n, ok := toNumber(v); ok {
		return "n:" + n.key()
	}
	return fmt.Sprintf("%T:%v", v, v)
}

// number is a numeric cell value in the widest form that holds it exactly.
type number struct {
	kind numKind
	i    int64
	u    uint64
	f    float64
}

type numKind int

const (
	numInt numKind = iota
	numUint
	numFloat
)

// toNumber normalizes the numeric kinds drivers and decoders produce.
func toNumber(v any) (number, bool) {
	switch n := v.(type) {
	case int:
		return number{kind: numInt, i: int64(n)}, true
	case int8:
		return number{kind: numInt, i: int64(n)}, true
	case int16:
		return number{kind: numInt, i: int64(n)}, true
	case int32:
		return number{kind: numInt, i: int64(n)}, true
	case int64:
		return number{kind: numInt, i: n}, true
	case uint:
		return number{kind: numUint, u: uint64(n)}, true
	case uint8:
		return number{kind: numUint, u: uint64(n)}, true
	case uint16:
		return number{kind: numUint, u: uint64(n)}, true
	case uint32:
		return number{kind: numUint, u: uint64(n)}, true
	case uint64:
		return number{kind: numUint, u: n}, true
	case float32:
		return number{kind: numFloat, f: float64(n)}, true
	case float64:
		return number{kind: numFloat, f: n}, true
	default:
		return number{}, false
	}
}

func (n number) float() float64 {
	switch n.kind {
	case numInt:
		return float64(n.i)
	case numUint:
		return float64(n.u)
	}
	return n.f
}

func (n number) equal(o number) bool {
	switch {
	case n.kind == numFloat || o.kind == numFloat:
		nf, of := n.float(), o.float()
		if math.IsNaN(nf) && math.IsNaN(of) {
			return true
		}
		return nf == of
	case n.kind == o.kind:
		return n.i == o.i && n.u == o.u
	case n.kind == numInt:
		return n.i >= 0 && uint64(n.i) == o.u
	default:
		return o.i >= 0 && uint64(o.i) == n.u
	}
}

// key renders n so that equal numbers share a key. Integral floats inside the
// int64 range render as integers.
func (n number) key() string {
	switch n.kind {
	case numInt:
		return strconv.FormatInt(n.i, 10)
	case numUint:
		if n.u <= math.MaxInt64 {
			return strconv.FormatInt(int64(n.u), 10)
		}
		return strconv.FormatUint(n.u, 10)
	}
	if n.f == math.Trunc(n.f) && n.f >= math.MinInt64 && n.f < math.MaxInt64 {
		return strconv.FormatInt(int64(n.f), 10)
	}
	return strconv.FormatFloat(n.f, 'g', -1, 64)
}
