// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package asterix

import "strconv"

// DescriptionLookup resolves (category, item, field, value) tuples to
// human-readable labels from a Catalog (§4.7). It never errors: an
// undefined path simply returns "".
type DescriptionLookup struct {
	Catalog *Catalog
}

// NewDescriptionLookup builds a DescriptionLookup over catalog.
func NewDescriptionLookup(catalog *Catalog) *DescriptionLookup {
	return &DescriptionLookup{Catalog: catalog}
}

// Describe returns the most specific available label for the given path:
// category name, item name, field name, or (with value set) the
// value_map entry for value -- falling back to the raw decimal rendering
// of value when no value_map entry exists.
func (d *DescriptionLookup) Describe(cat int, item, field string, value *uint64) string {
	c, ok := d.Catalog.Category(cat)
	if !ok {
		return ""
	}
	if item == "" {
		return c.Name
	}
	desc, ok := c.Item(item)
	if !ok {
		return ""
	}
	if field == "" {
		return desc.Name
	}
	f := findField(desc.Format, field)
	if f == nil {
		return ""
	}
	if value == nil {
		return f.Name
	}
	if f.ValueMap != nil {
		if s, ok := f.ValueMap[*value]; ok {
			return s
		}
	}
	return strconv.FormatUint(*value, 10)
}

// Describe is the package-level form of the describe(catalog, cat, item,
// field, value) -> string entry point named in §6.
func Describe(catalog *Catalog, cat int, item, field string, value *uint64) string {
	return NewDescriptionLookup(catalog).Describe(cat, item, field, value)
}

// findField walks a FormatNode tree looking for a BitsField with the
// given short name. The tree is shallow enough (bounded by
// maxRecursionDepth at decode time) that a plain recursive search is
// adequate for this lookup path, which is off the hot path.
func findField(n FormatNode, name string) *BitsField {
	switch t := n.(type) {
	case *FixedNode:
		for _, f := range t.Fields {
			if f.Name == name {
				return f
			}
		}
	case *VariableNode:
		for _, p := range t.Parts {
			if f := findField(p, name); f != nil {
				return f
			}
		}
	case *RepetitiveNode:
		return findField(t.Element, name)
	case *CompoundNode:
		if f := findField(t.Indicator, name); f != nil {
			return f
		}
		for _, c := range t.Children {
			if f := findField(c, name); f != nil {
				return f
			}
		}
	case *ExplicitNode:
		return findField(t.Element, name)
	case *BDSNode:
		for _, fn := range t.Registers {
			if f := findField(fn, name); f != nil {
				return f
			}
		}
	}
	return nil
}
