// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package asterix

import (
	"testing"

	"github.com/dsnet/asterix/internal/asterixerr"
)

func TestSelectUAPFirstDeclaredWins(t *testing.T) {
	// Two selectors that could both match a given FSPEC byte; the first
	// declared in the UAPs slice must win.
	first := &UAP{Selector: Selector{ByteNr: 0, BitNr: 8, Expected: true}, Entries: []UAPEntry{{FRN: 1, ItemID: "A"}}}
	second := &UAP{Selector: Selector{Unconditional: true}, Entries: []UAPEntry{{FRN: 1, ItemID: "B"}}}
	cat := &Category{
		ID:    1,
		Items: map[string]*DataItemDescription{"A": {ID: "A"}, "B": {ID: "B"}},
		UAPs:  []*UAP{first, second},
	}

	uap, err := cat.SelectUAP([]byte{0x80})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	entry, _ := uap.Entry(1)
	if entry.ItemID != "A" {
		t.Errorf("ItemID = %q, want %q (first-declared selector should win)", entry.ItemID, "A")
	}
}

func TestSelectUAPNoMatch(t *testing.T) {
	cat := &Category{
		ID: 1,
		UAPs: []*UAP{
			{Selector: Selector{ByteNr: 0, BitNr: 8, Expected: true}},
		},
	}
	_, err := cat.SelectUAP([]byte{0x00})
	ae, ok := err.(*asterixerr.Error)
	if !ok || ae.Kind != asterixerr.NoMatchingUAP {
		t.Fatalf("err = %v, want NoMatchingUAP", err)
	}
}

func TestSelectorOutOfRangeByte(t *testing.T) {
	s := Selector{ByteNr: 5, BitNr: 1, Expected: true}
	if s.Matches([]byte{0xFF}) {
		t.Error("a selector referencing a byte beyond the fspec should not match")
	}
}

func TestCatalogLookup(t *testing.T) {
	cat := buildTestCatalog()
	if !cat.IsCategoryDefined(48) {
		t.Error("category 48 should be defined")
	}
	if cat.IsCategoryDefined(99) {
		t.Error("category 99 should not be defined")
	}
	c, ok := cat.Category(48)
	if !ok {
		t.Fatal("expected category 48 to be present")
	}
	if _, ok := c.Item("010"); !ok {
		t.Error("expected item 010 to be present in category 48")
	}
	if _, ok := c.Item("999"); ok {
		t.Error("item 999 should not be present")
	}
}

func TestUAPEntryIsFX(t *testing.T) {
	real := UAPEntry{FRN: 1, ItemID: "010"}
	sentinel := UAPEntry{FRN: 7, ItemID: ""}
	if real.IsFX() {
		t.Error("entry with a real ItemID should not report IsFX")
	}
	if !sentinel.IsFX() {
		t.Error("entry with an empty ItemID should report IsFX")
	}
}

func TestUAPEntryOutOfRange(t *testing.T) {
	u := &UAP{Entries: []UAPEntry{{FRN: 1, ItemID: "010"}}}
	if _, ok := u.Entry(5); ok {
		t.Error("FRN beyond the declared entries should not be found")
	}
	if _, ok := u.Entry(0); ok {
		t.Error("FRN 0 is not a valid 1-based index")
	}
}
