// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package storeutil

import (
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// ParseValue converts user text into a document value. Whole numbers become
// int64 and other numbers float64, "true"/"false" become bools and "" or
// "null" become nil. JSON arrays and objects are decoded. Anything else is a string; wrap it in double quotes to
// force a string that would otherwise parse, e.g. "\"42\"".
func ParseValue(text string) any {
	s := strings.TrimSpace(text)
	switch s {
	case "", "null":
		return nil
	case "true":
		return true
	case "false":
		return false
	}

	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}

	if (strings.HasPrefix(s, "[") || strings.HasPrefix(s, "{") || strings.HasPrefix(s, `"`)) && gjson.Valid(s) {
		return gjson.Parse(s).Value()
	}
	return text
}
