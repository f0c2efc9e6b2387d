// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package expr

import (
	"fmt"
	"strings"

	"github.com/apex/log"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"

	"github.com/shaansubbaiah/mongo-spreadsheet-aat/internal/tablediff"
)

// RowVar names the variable holding the whole row, for fields whose names are
// not valid identifiers: row["prep time"].
const RowVar = "row"

// Expr is a compiled --where expression.
type Expr struct {
	src  string
	expr hclsyntax.Expression
}

// Compile parses src as an HCL expression.
func Compile(src string) (*Expr, error) {
	e, diags := hclsyntax.ParseExpression([]byte(src), "where", hcl.Pos{Line: 1, Column: 1})
	if diags.HasErrors() {
		return nil, fmt.Errorf("invalid expression %q: %s", src, diags.Error())
	}
	return &Expr{src: src, expr: e}, nil
}

func (e *Expr) String() string { return e.src }

// Eval evaluates the expression against row. Every field is a variable and
// fields the row lacks are null.
func (e *Expr) Eval(row tablediff.Row) (cty.Value, error) {
	ctx := &hcl.EvalContext{
		Variables: e.variables(row),
		Functions: functions(),
	}
	v, diags := e.expr.Value(ctx)
	if diags.HasErrors() {
		return cty.NilVal, fmt.Errorf("evaluating %q: %s", e.src, diags.Error())
	}
	return v, nil
}

// Match reports whether the expression is true for row. A null result is
// false; a result of any other type is an error.
func (e *Expr) Match(row tablediff.Row) (bool, error) {
	v, err := e.Eval(row)
	if err != nil {
		return false, err
	}
	if v.IsNull() || !v.IsKnown() {
		return false, nil
	}
	if v.Type() != cty.Bool {
		return false, fmt.Errorf("expression %q is %s, not bool", e.src, v.Type().FriendlyName())
	}
	return v.True(), nil
}

// Filter keeps the rows of s that match. Rows the expression cannot be
// evaluated on, say because a field is null, do not match.
func (e *Expr) Filter(s tablediff.Snapshot) tablediff.Snapshot {
	out := tablediff.Snapshot{Cols: s.Cols}
	for i, row := range s.Rows {
		ok, err := e.Match(row)
		if err != nil {
			log.Debugf("where skipped row %d: %v", i, err)
			continue
		}
		if ok {
			out.Rows = append(out.Rows, row)
		}
	}
	return out
}

func (e *Expr) variables(row tablediff.Row) map[string]cty.Value {
	vars := make(map[string]cty.Value, len(row)+1)
	for k, v := range row {
		if hclsyntax.ValidIdentifier(k) {
			vars[k] = ToCty(v)
		}
	}

	// Referenced fields missing from this row are null rather than unknown
	// variables.
	for _, tr := range e.expr.Variables() {
		name := tr.RootName()
		if _, ok := vars[name]; !ok {
			vars[name] = cty.NullVal(cty.DynamicPseudoType)
		}
	}

	vars[RowVar] = ToCty(map[string]any(row))
	return vars
}

// ToCty converts a decoded JSON value to cty.
func ToCty(val any) cty.Value {
	switch v := val.(type) {
	case nil:
		return cty.NullVal(cty.DynamicPseudoType)
	case bool:
		return cty.BoolVal(v)
	case int:
		return cty.NumberIntVal(int64(v))
	case int32:
		return cty.NumberIntVal(int64(v))
	case int64:
		return cty.NumberIntVal(v)
	case float64:
		return cty.NumberFloatVal(v)
	case string:
		return cty.StringVal(v)
	case []any:
		if len(v) == 0 {
			return cty.EmptyTupleVal
		}
		vals := make([]cty.Value, len(v))
		for i, item := range v {
			vals[i] = ToCty(item)
		}
		return cty.TupleVal(vals)
	case map[string]any:
		if len(v) == 0 {
			return cty.EmptyObjectVal
		}
		vals := make(map[string]cty.Value, len(v))
		for key, item := range v {
			vals[key] = ToCty(item)
		}
		return cty.ObjectVal(vals)
	default:
		return cty.StringVal(fmt.Sprintf("%v", v))
	}
}

// FromCty converts a cty value back to the JSON-shaped Go value.
func FromCty(val cty.Value) any {
	if val.IsNull() || !val.IsKnown() {
		return nil
	}

	ty := val.Type()
	switch {
	case ty == cty.Bool:
		return val.True()
	case ty == cty.Number:
		f, _ := val.AsBigFloat().Float64()
		return f
	case ty == cty.String:
		return val.AsString()
	case ty.IsTupleType() || ty.IsListType() || ty.IsSetType():
		result := []any{}
		for it := val.ElementIterator(); it.Next(); {
			_, elem := it.Element()
			result = append(result, FromCty(elem))
		}
		return result
	case ty.IsObjectType() || ty.IsMapType():
		result := map[string]any{}
		for it := val.ElementIterator(); it.Next(); {
			k, elem := it.Element()
			result[k.AsString()] = FromCty(elem)
		}
		return result
	default:
		return strings.TrimSpace(val.GoString())
	}
}
