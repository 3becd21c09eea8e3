// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package asterix

import (
	"fmt"

	"github.com/dsnet/asterix/internal/asterixerr"
)

// Rule classifies how mandatory a DataItemDescription is within its UAP.
type Rule int

const (
	Unknown Rule = iota
	Mandatory
	Optional
	Conditional
)

// DataItemDescription describes a single ASTERIX data item: its
// identity, documentation, and the FormatNode used to decode its wire
// bytes.
type DataItemDescription struct {
	ID         string // e.g. "010"
	Name       string
	Definition string
	Note       string
	Rule       Rule
	Format     FormatNode
}

// Selector picks which UAP applies to a given record's FSPEC bytes.
type Selector struct {
	Unconditional bool
	ByteNr        int // 0-based byte index into the FSPEC, used when !Unconditional
	BitNr         int // 1-based bit index (1=LSB .. 8=MSB), used when !Unconditional
	Expected      bool
}

// Matches evaluates the selector against FSPEC bytes already read for a
// record. For Unconditional selectors this is always true.
func (s Selector) Matches(fspec []byte) bool {
	if s.Unconditional {
		return true
	}
	if s.ByteNr < 0 || s.ByteNr >= len(fspec) {
		return false
	}
	b := fspec[s.ByteNr]
	bit := (b>>(uint(s.BitNr)-1))&1 == 1
	return bit == s.Expected
}

// UAPEntry maps one Field Reference Number to a data item id. An empty
// ItemID marks the FX sentinel entry, which does not decode an item.
type UAPEntry struct {
	FRN    int
	ItemID string // "" marks the FX sentinel
}

// IsFX reports whether this entry is the FX continuation sentinel.
func (e UAPEntry) IsFX() bool { return e.ItemID == "" }

// UAP is a User Application Profile: an ordered FRN -> item-id mapping,
// gated by a Selector that determines whether this UAP applies to a
// given record.
type UAP struct {
	Selector Selector
	Entries  []UAPEntry
}

// Entry returns the UAPEntry for 1-based frn, or ok=false if frn is out
// of range of the declared entries.
func (u *UAP) Entry(frn int) (UAPEntry, bool) {
	idx := frn - 1
	if idx < 0 || idx >= len(u.Entries) {
		return UAPEntry{}, false
	}
	return u.Entries[idx], true
}

// Category is a single ASTERIX category definition: its identity, the
// data items it may carry, and the UAPs that select among FSPEC layouts.
type Category struct {
	ID      int // 1..255, or 256 for the pseudo-category reserved for BDS
	Name    string
	Version string
	Items   map[string]*DataItemDescription
	UAPs    []*UAP
}

// SelectUAP scans c.UAPs in declaration order and returns the first whose
// Selector matches fspec. Per spec §4.4 step 1 / §9 open question 1, the
// first declared match wins when multiple selectors could apply.
func (c *Category) SelectUAP(fspec []byte) (*UAP, error) {
	for _, u := range c.UAPs {
		if u.Selector.Matches(fspec) {
			return u, nil
		}
	}
	return nil, asterixerr.New(asterixerr.NoMatchingUAP, 0, c.ID, "", "",
		fmt.Sprintf("no UAP selector matches fspec % x", fspec))
}

// Item looks up a data item description by id within this category.
func (c *Category) Item(id string) (*DataItemDescription, bool) {
	d, ok := c.Items[id]
	return d, ok
}

// Catalog is the immutable, read-only-after-construction set of category
// definitions the decoder interprets wire bytes against. It is built once
// by an external loader (e.g. from XML) and is safe to share by pointer
// across any number of concurrent DecodePacket calls.
type Catalog struct {
	Categories map[int]*Category
}

// NewCatalog returns an empty Catalog ready to be populated by a loader.
func NewCatalog() *Catalog {
	return &Catalog{Categories: make(map[int]*Category)}
}

// Category returns the category definition for id, or ok=false if the
// catalog does not define it.
func (c *Catalog) Category(id int) (*Category, bool) {
	cat, ok := c.Categories[id]
	return cat, ok
}

// IsCategoryDefined reports whether the catalog defines category id.
// Exposed per §6's language-neutral public API:
// is_category_defined(catalog, cat) -> bool.
func (c *Catalog) IsCategoryDefined(id int) bool {
	_, ok := c.Categories[id]
	return ok
}

// BDSCategoryID is the pseudo-category id reserved for Mode-S BDS
// register sub-catalogs (§3).
const BDSCategoryID = 256
