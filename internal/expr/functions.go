// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package expr

import (
	"sync"

	"github.com/hashicorp/hcl/v2/ext/tryfunc"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
)

var (
	funcsOnce sync.Once
	funcs     map[string]function.Function
)

// functions returns the cty stdlib functions available to expressions, plus
// try and can.
func functions() map[string]function.Function {
	funcsOnce.Do(func() {
		funcs = map[string]function.Function{
			// Arithmetic
			"abs":   stdlib.AbsoluteFunc,
			"ceil":  stdlib.CeilFunc,
			"floor": stdlib.FloorFunc,
			"max":   stdlib.MaxFunc,
			"min":   stdlib.MinFunc,
			"pow":   stdlib.PowFunc,

			// Strings
			"format":     stdlib.FormatFunc,
			"join":       stdlib.JoinFunc,
			"lower":      stdlib.LowerFunc,
			"replace":    stdlib.ReplaceFunc,
			"split":      stdlib.SplitFunc,
			"strlen":     stdlib.StrlenFunc,
			"substr":     stdlib.SubstrFunc,
			"title":      stdlib.TitleFunc,
			"trimprefix": stdlib.TrimPrefixFunc,
			"trimspace":  stdlib.TrimSpaceFunc,
			"trimsuffix": stdlib.TrimSuffixFunc,
			"upper":      stdlib.UpperFunc,

			// Collections
			"coalesce": stdlib.CoalesceFunc,
			"contains": stdlib.ContainsFunc,
			"keys":     stdlib.KeysFunc,
			"length":   stdlib.LengthFunc,
			"lookup":   stdlib.LookupFunc,

			// Data
			"jsonencode": stdlib.JSONEncodeFunc,
			"parseint":   stdlib.ParseIntFunc,

			// Patterns
			"regex":    stdlib.RegexFunc,
			"regexall": stdlib.RegexAllFunc,

			"try": tryfunc.TryFunc,
			"can": tryfunc.CanFunc,
		}
	})
	return funcs
}
