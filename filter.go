// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package asterix

// FilterRule is one include/exclude clause of a FilterPredicate. A zero
// Category, empty ItemID, or empty Field acts as a wildcard matching
// anything at that level.
type FilterRule struct {
	Category int
	ItemID   string
	Field    string
	Include  bool
}

func (r FilterRule) matches(cat int, item, field string) bool {
	if r.Category != 0 && r.Category != cat {
		return false
	}
	if r.ItemID != "" && r.ItemID != item {
		return false
	}
	if r.Field != "" && r.Field != field {
		return false
	}
	return true
}

// FilterPredicate is an ordered list of FilterRules evaluated
// last-match-wins, used to whitelist (or blacklist) which
// (category, item, field) triples appear in decoded output (§4.7).
//
// If no rule has Include=true, the predicate behaves as a pure blacklist
// (everything passes unless an exclude rule matches). If at least one
// rule has Include=true, the predicate behaves as a whitelist (nothing
// passes unless an include rule matches, subject to later exclude rules
// overriding it).
type FilterPredicate struct {
	Rules []FilterRule
}

// BuildFilter constructs a FilterPredicate from an ordered rule list.
// This is the public filter_build(rules) -> FilterPredicate entry point
// named in §6.
func BuildFilter(rules []FilterRule) *FilterPredicate {
	return &FilterPredicate{Rules: append([]FilterRule(nil), rules...)}
}

func (p *FilterPredicate) hasIncludeRule() bool {
	for _, r := range p.Rules {
		if r.Include {
			return true
		}
	}
	return false
}

// Matches reports whether the given (category, item, field) triple
// should appear in output.
func (p *FilterPredicate) Matches(cat int, item, field string) bool {
	if p == nil {
		return true
	}
	result := !p.hasIncludeRule()
	for _, r := range p.Rules {
		if r.matches(cat, item, field) {
			result = r.Include
		}
	}
	return result
}

// MatchesItem reports whether any field of the given item could pass
// this predicate, used by RecordDecoder to decide whether decoding the
// item is worth the work at all (§4.4 step 4). It ignores field-level
// specificity.
func (p *FilterPredicate) MatchesItem(cat int, item string) bool {
	if p == nil {
		return true
	}
	result := !p.hasIncludeRule()
	for _, r := range p.Rules {
		// A field-level exclude rule leaves the item's other fields able
		// to pass, so only item-wide rules may exclude here.
		if (r.Category == 0 || r.Category == cat) && (r.ItemID == "" || r.ItemID == item) && (r.Field == "" || r.Include) {
			result = r.Include
		}
	}
	return result
}

// filterItemValue recursively strips fields (and, within nested
// elements, their own fields) that do not pass filter, preserving
// structure and field-emission order guarantees elsewhere in the item.
func filterItemValue(val ItemValue, cat int, item string, filter *FilterPredicate) ItemValue {
	if filter == nil {
		return val
	}
	out := ItemValue{Fields: make(map[string]TypedValue, len(val.Fields))}
	for name, tv := range val.Fields {
		if filter.Matches(cat, item, name) {
			out.Fields[name] = tv
		}
	}
	for _, sub := range val.List {
		out.List = append(out.List, filterItemValue(sub, cat, item, filter))
	}
	return out
}
