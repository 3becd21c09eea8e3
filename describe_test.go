// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package asterix

import "testing"

func TestDescriptionLookupCascade(t *testing.T) {
	value := uint64(0)
	val := uint64(1)
	cat := &Catalog{Categories: map[int]*Category{
		48: {
			ID:   48,
			Name: "Monoradar Target Reports",
			Items: map[string]*DataItemDescription{
				"010": {
					ID:   "010",
					Name: "Data Source Identifier",
					Format: &FixedNode{LengthBytes: 2, Fields: []*BitsField{
						{Name: "SAC", From: 16, To: 9, Encoding: Unsigned,
							ValueMap: map[uint64]string{0: "LOCAL", 1: "REMOTE"}},
					}},
				},
			},
		},
	}}
	d := NewDescriptionLookup(cat)

	t.Run("category name", func(t *testing.T) {
		if got := d.Describe(48, "", "", nil); got != "Monoradar Target Reports" {
			t.Errorf("Describe(category) = %q", got)
		}
	})
	t.Run("item name", func(t *testing.T) {
		if got := d.Describe(48, "010", "", nil); got != "Data Source Identifier" {
			t.Errorf("Describe(item) = %q", got)
		}
	})
	t.Run("field name", func(t *testing.T) {
		if got := d.Describe(48, "010", "SAC", nil); got != "SAC" {
			t.Errorf("Describe(field) = %q", got)
		}
	})
	t.Run("value map hit", func(t *testing.T) {
		if got := d.Describe(48, "010", "SAC", &value); got != "LOCAL" {
			t.Errorf("Describe(value=0) = %q, want LOCAL", got)
		}
		if got := d.Describe(48, "010", "SAC", &val); got != "REMOTE" {
			t.Errorf("Describe(value=1) = %q, want REMOTE", got)
		}
	})
	t.Run("value map miss falls back to raw decimal", func(t *testing.T) {
		other := uint64(42)
		if got := d.Describe(48, "010", "SAC", &other); got != "42" {
			t.Errorf("Describe(value=42) = %q, want \"42\"", got)
		}
	})
	t.Run("unknown category, item, or field return empty", func(t *testing.T) {
		if got := d.Describe(99, "", "", nil); got != "" {
			t.Errorf("Describe(unknown category) = %q, want empty", got)
		}
		if got := d.Describe(48, "999", "", nil); got != "" {
			t.Errorf("Describe(unknown item) = %q, want empty", got)
		}
		if got := d.Describe(48, "010", "UNKNOWN", nil); got != "" {
			t.Errorf("Describe(unknown field) = %q, want empty", got)
		}
	})
}

func TestFindFieldNestedFormats(t *testing.T) {
	leaf := &BitsField{Name: "INNER"}
	n := &ExplicitNode{Element: &RepetitiveNode{Element: &FixedNode{Fields: []*BitsField{leaf}}}}
	if got := findField(n, "INNER"); got != leaf {
		t.Errorf("findField did not locate a field nested through Explicit/Repetitive/Fixed")
	}
	if got := findField(n, "MISSING"); got != nil {
		t.Errorf("findField(missing) = %v, want nil", got)
	}
}
