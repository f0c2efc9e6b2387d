// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package attrs

import (
	"embed"
	"testing"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

//go:embed testdata/*.yaml
var testdata embed.FS

// load decodes a testdata YAML file into a slice of cases.
func load[T any](t *testing.T, name string) []T {
	t.Helper()
	data, err := testdata.ReadFile("testdata/" + name)
	require.NoError(t, err)
	var cases []T
	require.NoError(t, yaml.Unmarshal(data, &cases))
	return cases
}

func TestAttrList_Set(t *testing.T) {
	type setCase struct {
		Name      string `yaml:"name"`
		Initial   []Attr `yaml:"initial"`
		Value     string `yaml:"value"`
		WantLen   int    `yaml:"wantLen"`
		WantAttrs []Attr `yaml:"wantAttrs"`
	}

	for _, tc := range load[setCase](t, "set_cases.yaml") {
		t.Run(tc.Name, func(t *testing.T) {
			a := AttrList(tc.Initial)
			require.NoError(t, a.Set(tc.Value))
			require.Len(t, a, tc.WantLen)
			for i, want := range tc.WantAttrs {
				assert.Equal(t, want, a[i], "attr %d", i)
			}
		})
	}
}

func TestAttrList_SetUnder(t *testing.T) {
	var a AttrList
	require.NoError(t, a.SetUnder("attributes", "column,.row,current:now:b"))
	assert.Equal(t, AttrList{
		{Key: "attributes.column", OutputKey: "column", Include: true},
		{Key: "row", OutputKey: "row", Include: true},
		{Key: "attributes.current", OutputKey: "now", Include: true, TransformSpec: "b"},
	}, a)

	// A later spec overrides by output key without re-rooting.
	require.NoError(t, a.SetUnder("attributes", "!column"))
	assert.False(t, a[0].Include)
	assert.Equal(t, "attributes.column", a[0].Key)
}

func TestAttrList_SetGlobalTransformSpec(t *testing.T) {
	type globalCase struct {
		Name      string   `yaml:"name"`
		Initial   []Attr   `yaml:"initial"`
		WantSpecs []string `yaml:"wantSpecs"`
	}

	for _, tc := range load[globalCase](t, "global_transform_cases.yaml") {
		t.Run(tc.Name, func(t *testing.T) {
			a := AttrList(tc.Initial)
			require.NoError(t, a.SetGlobalTransformSpec())
			got := make([]string, len(a))
			for i := range a {
				got[i] = a[i].TransformSpec
			}
			assert.Equal(t, append([]string{}, tc.WantSpecs...), got)
		})
	}
}

func TestAttr_Transform(t *testing.T) {
	type transformCase struct {
		Name          string `yaml:"name"`
		TransformSpec string `yaml:"transformSpec"`
		Input         any    `yaml:"input"`
		Want          any    `yaml:"want"`
	}

	for _, tc := range load[transformCase](t, "transform_cases.yaml") {
		t.Run(tc.Name, func(t *testing.T) {
			attr := Attr{TransformSpec: tc.TransformSpec}
			got := attr.Transform(tc.Input)

			switch tc.Want {
			case "DYNAMIC_LOCAL_TIME":
				at, err := time.Parse(time.RFC3339, tc.Input.(string))
				require.NoError(t, err)
				assert.Equal(t, at.Local().Format(localTimeLayout), got)
			case "DYNAMIC_RELATIVE_TIME":
				at, err := time.Parse(time.RFC3339, tc.Input.(string))
				require.NoError(t, err)
				assert.Equal(t, humanize.Time(at), got)
			default:
				assert.Equal(t, tc.Want, got)
			}
		})
	}
}

func TestParseTransform(t *testing.T) {
	assert.Equal(t, transform{upper: true, length: 20, bold: true}, parseTransform("u,b20"))
	assert.Equal(t, transform{lower: true, length: -8}, parseTransform("U,10,l-8"))
	assert.Equal(t, transform{localTime: true, timeAgo: true}, parseTransform("T"))
	assert.Equal(t, transform{}, parseTransform(""))
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		s    string
		n    int
		want string
	}{
		{"Mushroom Risotto", 0, "Mushroom Risotto"},
		{"Mushroom Risotto", 8, "Mushroom"},
		{"Mushroom Risotto", -8, "Mus..tto"},
		{"Mushroom Risotto", -9, "Mus..tto"},
		{"Mushroom Risotto", -1, "M"},
		{"Soup", -8, "Soup"},
		{"Pâté en croûte", -6, "Pâ..te"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, truncate(tt.s, tt.n), "%q %d", tt.s, tt.n)
	}
}

func TestAttrList_String(t *testing.T) {
	type stringCase struct {
		Name     string `yaml:"name"`
		AttrList []Attr `yaml:"attrList"`
		Want     string `yaml:"want"`
	}

	for _, tc := range load[stringCase](t, "string_cases.yaml") {
		t.Run(tc.Name, func(t *testing.T) {
			a := AttrList(tc.AttrList)
			assert.Equal(t, tc.Want, a.String())
		})
	}
}

func TestAttrList_Type(t *testing.T) {
	assert.Equal(t, "list", (&AttrList{}).Type())
}

func TestAttr_Bold(t *testing.T) {
	assert.True(t, (&Attr{TransformSpec: "b"}).Bold())
	assert.True(t, (&Attr{TransformSpec: "u,b20"}).Bold())
	assert.False(t, (&Attr{TransformSpec: "u20"}).Bold())
	assert.False(t, (&Attr{}).Bold())
}
