// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package asterix

// fixedSACSIC is item 010's format across most categories: a 2-byte
// Fixed carrying SAC in the high octet and SIC in the low octet.
func fixedSACSIC() *FixedNode {
	return &FixedNode{
		LengthBytes: 2,
		Fields: []*BitsField{
			{Name: "SAC", From: 16, To: 9, Encoding: Unsigned, Scale: 1.0},
			{Name: "SIC", From: 8, To: 1, Encoding: Unsigned, Scale: 1.0},
		},
	}
}

// fixedOneByte builds a trivial 1-byte Fixed item with a single
// all-bits unsigned field, used for filler items in tests.
func fixedOneByte(name string) *FixedNode {
	return &FixedNode{
		LengthBytes: 1,
		Fields: []*BitsField{
			{Name: name, From: 8, To: 1, Encoding: Unsigned, Scale: 1.0},
		},
	}
}

// buildTestCatalog assembles a minimal, self-consistent catalog covering
// categories 48 and 62 used across the seed E1-E6 scenarios and property
// tests. It is not a faithful rendition of the real EUROCONTROL CAT048 /
// CAT062 UAPs -- those are owned by the external XML loader -- only a
// fixture exercising every FormatNode variant §8's tests require.
func buildTestCatalog() *Catalog {
	cat := NewCatalog()

	// CAT048: item 010 (SAC/SIC) at FRN1, a Repetitive item 130 at FRN2,
	// a Compound item 040 at FRN3, an Explicit item 110 at FRN4.
	compound040 := &CompoundNode{
		Indicator: &VariableNode{Parts: []*FixedNode{{
			LengthBytes: 1,
			Fields: []*BitsField{
				{Name: "present0", From: 8, To: 8, Encoding: Unsigned},
				{Name: "present1", From: 7, To: 7, Encoding: Unsigned},
				{Name: "fx", From: 1, To: 1, Encoding: Unsigned, IsFXBit: true},
			},
		}}},
		Children: []FormatNode{
			fixedOneByte("CHILD0"),
			fixedOneByte("CHILD1"),
		},
	}

	cat48 := &Category{
		ID:      48,
		Name:    "Monoradar Target Reports",
		Version: "1.32",
		Items: map[string]*DataItemDescription{
			"010": {ID: "010", Name: "Data Source Identifier", Rule: Mandatory, Format: fixedSACSIC()},
			"130": {ID: "130", Name: "Radar Plot Characteristics", Rule: Optional, Format: &RepetitiveNode{Element: fixedOneByte("VAL")}},
			"040": {ID: "040", Name: "Measured Position (compound)", Rule: Optional, Format: compound040},
			"110": {ID: "110", Name: "Height (explicit)", Rule: Optional, Format: &ExplicitNode{Element: fixedOneByte("HEIGHT")}},
		},
		UAPs: []*UAP{{
			Selector: Selector{Unconditional: true},
			Entries: []UAPEntry{
				{FRN: 1, ItemID: "010"},
				{FRN: 2, ItemID: "130"},
				{FRN: 3, ItemID: "040"},
				{FRN: 4, ItemID: "110"},
			},
		}},
	}
	cat.Categories[48] = cat48

	cat62 := &Category{
		ID:      62,
		Name:    "System Track Data",
		Version: "1.17",
		Items: map[string]*DataItemDescription{
			"010": {ID: "010", Name: "Data Source Identifier", Rule: Mandatory, Format: fixedSACSIC()},
			"040": {ID: "040", Name: "Track Number", Rule: Mandatory, Format: fixedOneByte("TRK")},
		},
		UAPs: []*UAP{{
			Selector: Selector{Unconditional: true},
			Entries: []UAPEntry{
				{FRN: 1, ItemID: "010"},
				{FRN: 2, ItemID: ""}, // unused placeholder
				{FRN: 3, ItemID: ""},
				{FRN: 4, ItemID: ""},
				{FRN: 5, ItemID: ""},
				{FRN: 6, ItemID: ""},
				{FRN: 7, ItemID: ""}, // FX sentinel-style placeholder
				{FRN: 8, ItemID: "040"},
			},
		}},
	}
	cat.Categories[62] = cat62

	return cat
}
