// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// InterfaceToString renders a cell value. nil, "" and NaN render as the
// optional emptyValue. Zero and false are values and render as such. Lists
// and objects render as compact JSON.
func InterfaceToString(value interface{}, emptyValue ...string) string {
	empty := ""
	if len(emptyValue) > 0 {
		empty = emptyValue[0]
	}

	switch v := value.(type) {
	case nil:
		return empty
	case string:
		if v == "" {
			return empty
		}
		return v
	case float64:
		if math.IsNaN(v) {
			return empty
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", v)
	case bool:
		return strconv.FormatBool(v)
	}

	b, err := json.Marshal(value)
	if err != nil {
		return fmt.Sprintf("%v", value)
	}
	return string(b)
}
