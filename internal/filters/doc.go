// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package filters narrows a set of documents using --filter expressions.
//
// A spec is a list of key-operator-target expressions joined by "," (or
// RSHEET_FILTER_DELIM). The key names an attr by its output key, or any path
// inside the document when no attr has that name.
//
// Operators, each of which can be negated with a leading !:
//
//   - (none) : the field is present and not null
//   - = : equality (numeric when the field is a number)
//   - ~ : case insensitive equality
//   - ^ : prefix
//   - < > : ordering (numeric when the field is a number)
//   - @ : substring, list membership or map key
//   - / : regular expression
//
// Examples: "category=soup", "rating>3", "name!^Beef", "tags@vegan",
// "notes!".
//
// A null or missing field fails every positive test. Keys prefixed with _
// are pushed into the store's query and skipped here.
package filters
