// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"fmt"
	"io"
	"reflect"
	"sort"
	"strings"
)

// schemaPreamble heads the --schema listing.
const schemaPreamble = `Attributes that are directly available to the --attrs flag. Use
--output=raw to see the complete payload.
`

// attrTag is a parsed `jsonapi:"attr,name,encoding"` struct tag.
type attrTag struct {
	Name     string
	Encoding string
}

// parseAttrTag reads a jsonapi tag. Tags that are not attributes report
// false.
func parseAttrTag(tag string) (attrTag, bool) {
	parts := strings.Split(tag, ",")
	if parts[0] != "attr" || len(parts) < 2 || parts[1] == "" {
		return attrTag{}, false
	}
	t := attrTag{Name: parts[1]}
	if len(parts) > 2 {
		t.Encoding = parts[2]
	}
	return t, true
}

// SchemaAttrs lists the jsonapi attribute names of typ in field order. A
// struct valued attribute also contributes its own attributes as
// "outer.inner", one level deep.
func SchemaAttrs(typ reflect.Type) []string {
	return schemaAttrs("", typ, true)
}

func schemaAttrs(prefix string, typ reflect.Type, descend bool) []string {
	for typ.Kind() == reflect.Ptr {
		typ = typ.Elem()
	}
	if typ.Kind() != reflect.Struct {
		return nil
	}

	var names []string
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		tag, ok := parseAttrTag(field.Tag.Get("jsonapi"))
		if !ok {
			continue
		}
		name := tag.Name
		if prefix != "" {
			name = prefix + "." + name
		}
		names = append(names, name)
		if descend {
			names = append(names, schemaAttrs(name, field.Type, false)...)
		}
	}
	return names
}

// DumpSchema writes the sorted attribute names of typ to w.
func DumpSchema(w io.Writer, typ reflect.Type) {
	fmt.Fprintln(w, schemaPreamble)
	names := SchemaAttrs(typ)
	sort.Strings(names)
	for _, n := range names {
		fmt.Fprintln(w, n)
	}
}
