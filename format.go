// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package asterix

import (
	"github.com/dsnet/asterix/internal/asterixerr"
)

// ItemValue is the structured output of decoding a single data item (or a
// nested FormatNode within one). Fields holds directly-decoded bit
// fields at this level; List holds ordered sub-values produced by
// Variable (single-part concatenation), Repetitive elements, or an
// Explicit/Compound wrapper's nested decode.
type ItemValue struct {
	Fields map[string]TypedValue
	List   []ItemValue
}

func newItemValue() ItemValue {
	return ItemValue{Fields: make(map[string]TypedValue)}
}

// mergeInto copies src's fields into dst, overwriting on name collision
// (the caller is expected to avoid colliding short names per catalog
// invariants; last-write-wins mirrors how Compound children are merged
// into one object per §4.2).
func mergeInto(dst, src ItemValue) {
	for k, v := range src.Fields {
		dst.Fields[k] = v
	}
	dst.List = append(dst.List, src.List...)
}

// FormatNode is the tagged-variant contract every concrete format
// (Fixed, Variable, Repetitive, Compound, Explicit, BDS) implements.
// Both operations must never read past window and must fail with a
// TruncatedInput/ExtensionLimit/UnknownCompoundBit error rather than
// panic on malformed input reaching this layer. A runtime panic from a
// genuine bug is not converted into an error: asterixerr.Recover at the
// RecordDecoder boundary re-panics runtime errors.
type FormatNode interface {
	// ByteLength returns the number of bytes this node consumes starting
	// at window[0], without decoding field values.
	ByteLength(window []byte, ctx decodeContext, depth int) (int, error)
	// Decode interprets window[0:n] (n = the node's ByteLength) and
	// returns the structured value.
	Decode(window []byte, ctx decodeContext, warnings *[]*asterixerr.Error, depth int) (ItemValue, error)
}

func checkDepth(depth int, ctx decodeContext) error {
	if depth > maxRecursionDepth {
		return asterixerr.New(asterixerr.RecursionLimit, ctx.Offset, ctx.Category, ctx.ItemID, "",
			"format tree recursion exceeds cap")
	}
	return nil
}

// FixedNode is a fixed-length window of contiguous BitsFields.
type FixedNode struct {
	LengthBytes uint16
	Fields      []*BitsField
}

func (n *FixedNode) ByteLength(window []byte, ctx decodeContext, depth int) (int, error) {
	if len(window) < int(n.LengthBytes) {
		return 0, asterixerr.New(asterixerr.TruncatedInput, ctx.Offset, ctx.Category, ctx.ItemID, "",
			"fixed item truncated")
	}
	return int(n.LengthBytes), nil
}

func (n *FixedNode) Decode(window []byte, ctx decodeContext, warnings *[]*asterixerr.Error, depth int) (ItemValue, error) {
	if err := checkDepth(depth, ctx); err != nil {
		return ItemValue{}, err
	}
	nb, err := n.ByteLength(window, ctx, depth)
	if err != nil {
		return ItemValue{}, err
	}
	sub := window[:nb]
	out := newItemValue()
	seen := make(map[string]bool, len(n.Fields))
	for _, f := range n.Fields {
		if seen[f.Name] {
			return ItemValue{}, asterixerr.New(asterixerr.FieldOutOfRange, ctx.Offset, ctx.Category, ctx.ItemID, f.Name,
				"duplicate field short name within Fixed")
		}
		seen[f.Name] = true
		if f.IsFXBit && !ctx.IncludeFX {
			continue
		}
		tv, err := f.Decode(sub, ctx, warnings)
		if err != nil {
			return ItemValue{}, err
		}
		out.Fields[f.Name] = tv
	}
	return out, nil
}

// fxBit returns the single is_fx_bit field of a Fixed part, per the
// invariant that exactly one such field exists (§3).
func (n *FixedNode) fxBit() *BitsField {
	for _, f := range n.Fields {
		if f.IsFXBit {
			return f
		}
	}
	return nil
}

// VariableNode is a chain of Fixed parts, continued while the active
// part's FX bit is set. When len(Parts) == 1 the same Fixed definition is
// reused for every extension octet; otherwise the i-th Fixed governs the
// i-th extension (saturating on the last part once the chain outgrows
// Parts, per §9 open question 2).
type VariableNode struct {
	Parts []*FixedNode
}

func (n *VariableNode) partAt(i int) *FixedNode {
	if i >= len(n.Parts) {
		i = len(n.Parts) - 1
	}
	return n.Parts[i]
}

func (n *VariableNode) ByteLength(window []byte, ctx decodeContext, depth int) (int, error) {
	total := 0
	cursor := window
	for partIdx := 0; ; partIdx++ {
		if partIdx >= maxExtensionOctets {
			return 0, asterixerr.New(asterixerr.ExtensionLimit, ctx.Offset, ctx.Category, ctx.ItemID, "",
				"variable item extension chain exceeds cap")
		}
		part := n.partAt(partIdx)
		pb, err := part.ByteLength(cursor, ctx, depth)
		if err != nil {
			return 0, err
		}
		total += pb
		fx := part.fxBit()
		more := fx != nil && mustFXSet(cursor[:pb], fx, ctx)
		cursor = cursor[pb:]
		if !more {
			break
		}
	}
	return total, nil
}

// mustFXSet extracts an FX-marker field's raw bit, collapsing any error
// into "not set" since an unreadable FX bit at this stage should have
// already surfaced via part.ByteLength's window-size check.
func mustFXSet(window []byte, fx *BitsField, ctx decodeContext) bool {
	raw, err := extractBits(window, fx.From, fx.To)
	if err != nil {
		return false
	}
	return raw != 0
}

func (n *VariableNode) Decode(window []byte, ctx decodeContext, warnings *[]*asterixerr.Error, depth int) (ItemValue, error) {
	if err := checkDepth(depth, ctx); err != nil {
		return ItemValue{}, err
	}
	out := newItemValue()
	cursor := window
	for partIdx := 0; ; partIdx++ {
		if partIdx >= maxExtensionOctets {
			return ItemValue{}, asterixerr.New(asterixerr.ExtensionLimit, ctx.Offset, ctx.Category, ctx.ItemID, "",
				"variable item extension chain exceeds cap")
		}
		part := n.partAt(partIdx)
		pb, err := part.ByteLength(cursor, ctx, depth)
		if err != nil {
			return ItemValue{}, err
		}
		sub, err := part.Decode(cursor, ctx, warnings, depth+1)
		if err != nil {
			return ItemValue{}, err
		}
		if len(n.Parts) == 1 {
			out.List = append(out.List, sub)
		} else {
			mergeInto(out, sub)
		}
		fx := part.fxBit()
		more := fx != nil && mustFXSet(cursor[:pb], fx, ctx)
		cursor = cursor[pb:]
		if !more {
			break
		}
	}
	return out, nil
}

// RepetitiveNode is a 1-byte REP count followed by REP copies of
// Element's encoding.
type RepetitiveNode struct {
	Element FormatNode
}

func (n *RepetitiveNode) ByteLength(window []byte, ctx decodeContext, depth int) (int, error) {
	if len(window) < 1 {
		return 0, asterixerr.New(asterixerr.TruncatedInput, ctx.Offset, ctx.Category, ctx.ItemID, "", "missing REP byte")
	}
	rep := int(window[0])
	total := 1
	cursor := window[1:]
	for i := 0; i < rep; i++ {
		eb, err := n.Element.ByteLength(cursor, ctx, depth+1)
		if err != nil {
			return 0, err
		}
		total += eb
		if total > len(window) {
			return 0, asterixerr.New(asterixerr.TruncatedInput, ctx.Offset, ctx.Category, ctx.ItemID, "",
				"repetitive element exceeds enclosing window")
		}
		cursor = cursor[eb:]
	}
	return total, nil
}

func (n *RepetitiveNode) Decode(window []byte, ctx decodeContext, warnings *[]*asterixerr.Error, depth int) (ItemValue, error) {
	if err := checkDepth(depth, ctx); err != nil {
		return ItemValue{}, err
	}
	if len(window) < 1 {
		return ItemValue{}, asterixerr.New(asterixerr.TruncatedInput, ctx.Offset, ctx.Category, ctx.ItemID, "", "missing REP byte")
	}
	rep := int(window[0])
	out := newItemValue()
	if rep == 0 {
		*warnings = append(*warnings, asterixerr.New(asterixerr.RepetitionCountZero, ctx.Offset, ctx.Category, ctx.ItemID, "", "REP=0"))
		return out, nil
	}
	cursor := window[1:]
	consumed := 1
	for i := 0; i < rep; i++ {
		eb, err := n.Element.ByteLength(cursor, ctx, depth+1)
		if err != nil {
			return ItemValue{}, err
		}
		if consumed+eb > len(window) {
			return ItemValue{}, asterixerr.New(asterixerr.TruncatedInput, ctx.Offset, ctx.Category, ctx.ItemID, "",
				"repetitive element exceeds enclosing window")
		}
		elem, err := n.Element.Decode(cursor[:eb], ctx, warnings, depth+1)
		if err != nil {
			return ItemValue{}, err
		}
		out.List = append(out.List, elem)
		cursor = cursor[eb:]
		consumed += eb
	}
	return out, nil
}

// CompoundNode reads a Variable bitmap indicator, then decodes each
// FormatNode in Children whose corresponding primary bit (in indicator
// bit order, skipping FX bits) is set, inline and in order.
type CompoundNode struct {
	Indicator *VariableNode
	Children  []FormatNode
}

// primaryBits returns, in order, whether each primary (non-FX) bit of
// the decoded indicator window is set, spanning all of its extension
// octets.
func (n *CompoundNode) primaryBits(window []byte, ctx decodeContext, depth int) ([]bool, int, error) {
	indLen, err := n.Indicator.ByteLength(window, ctx, depth)
	if err != nil {
		return nil, 0, err
	}
	var bits []bool
	cursor := window[:indLen]
	for partIdx := 0; partIdx < maxExtensionOctets; partIdx++ {
		part := n.Indicator.partAt(partIdx)
		pb, err := part.ByteLength(cursor, ctx, depth)
		if err != nil {
			return nil, 0, err
		}
		octet := cursor[:pb]
		fx := part.fxBit()
		for _, f := range part.Fields {
			if f.IsFXBit {
				continue
			}
			raw, err := extractBits(octet, f.From, f.To)
			if err != nil {
				return nil, 0, asterixerr.New(asterixerr.FieldOutOfRange, ctx.Offset, ctx.Category, ctx.ItemID, f.Name, err.Error())
			}
			bits = append(bits, raw != 0)
		}
		more := fx != nil && mustFXSet(octet, fx, ctx)
		cursor = cursor[pb:]
		if !more {
			break
		}
	}
	return bits, indLen, nil
}

func (n *CompoundNode) ByteLength(window []byte, ctx decodeContext, depth int) (int, error) {
	bits, indLen, err := n.primaryBits(window, ctx, depth)
	if err != nil {
		return 0, err
	}
	total := indLen
	cursor := window[indLen:]
	for i, present := range bits {
		if !present {
			continue
		}
		if i >= len(n.Children) {
			return 0, asterixerr.New(asterixerr.UnknownCompoundBit, ctx.Offset, ctx.Category, ctx.ItemID, "",
				"indicator bit has no corresponding child")
		}
		cb, err := n.Children[i].ByteLength(cursor, ctx, depth+1)
		if err != nil {
			return 0, err
		}
		total += cb
		cursor = cursor[cb:]
	}
	return total, nil
}

func (n *CompoundNode) Decode(window []byte, ctx decodeContext, warnings *[]*asterixerr.Error, depth int) (ItemValue, error) {
	if err := checkDepth(depth, ctx); err != nil {
		return ItemValue{}, err
	}
	bits, indLen, err := n.primaryBits(window, ctx, depth)
	if err != nil {
		return ItemValue{}, err
	}
	out := newItemValue()
	cursor := window[indLen:]
	for i, present := range bits {
		if !present {
			continue
		}
		if i >= len(n.Children) {
			return ItemValue{}, asterixerr.New(asterixerr.UnknownCompoundBit, ctx.Offset, ctx.Category, ctx.ItemID, "",
				"indicator bit has no corresponding child")
		}
		child := n.Children[i]
		cb, err := child.ByteLength(cursor, ctx, depth+1)
		if err != nil {
			return ItemValue{}, err
		}
		sub, err := child.Decode(cursor[:cb], ctx, warnings, depth+1)
		if err != nil {
			return ItemValue{}, err
		}
		mergeInto(out, sub)
		cursor = cursor[cb:]
	}
	return out, nil
}

// ExplicitNode reads a 1-byte total length LEN (including the LEN byte
// itself) and decodes Element against the LEN-1 bytes that follow.
type ExplicitNode struct {
	Element FormatNode
}

func (n *ExplicitNode) ByteLength(window []byte, ctx decodeContext, depth int) (int, error) {
	if len(window) < 1 {
		return 0, asterixerr.New(asterixerr.TruncatedInput, ctx.Offset, ctx.Category, ctx.ItemID, "", "missing explicit LEN byte")
	}
	length := int(window[0])
	if length < 1 {
		return 0, asterixerr.New(asterixerr.TruncatedInput, ctx.Offset, ctx.Category, ctx.ItemID, "", "explicit LEN must be >= 1")
	}
	if length > len(window) {
		return 0, asterixerr.New(asterixerr.TruncatedInput, ctx.Offset, ctx.Category, ctx.ItemID, "", "explicit item truncated")
	}
	return length, nil
}

func (n *ExplicitNode) Decode(window []byte, ctx decodeContext, warnings *[]*asterixerr.Error, depth int) (ItemValue, error) {
	if err := checkDepth(depth, ctx); err != nil {
		return ItemValue{}, err
	}
	length, err := n.ByteLength(window, ctx, depth)
	if err != nil {
		return ItemValue{}, err
	}
	inner := window[1:length]
	eb, err := n.Element.ByteLength(inner, ctx, depth+1)
	if err != nil {
		return ItemValue{}, err
	}
	if eb > len(inner) {
		return ItemValue{}, asterixerr.New(asterixerr.TruncatedInput, ctx.Offset, ctx.Category, ctx.ItemID, "",
			"explicit element overruns declared LEN")
	}
	out, err := n.Element.Decode(inner[:eb], ctx, warnings, depth+1)
	if err != nil {
		return ItemValue{}, err
	}
	if eb < len(inner) {
		*warnings = append(*warnings, asterixerr.New(asterixerr.RepeatedExplicitPadding, ctx.Offset, ctx.Category, ctx.ItemID, "",
			"explicit item has unconsumed residual bytes"))
	}
	return out, nil
}

// BDSNode decodes a 7-byte Mode-S Comm-B register. If BoundRegister is
// set, Registers[*BoundRegister] is applied directly; otherwise the
// first byte of the window selects the register (and is itself part of
// the 7-byte window passed to the selected Fixed decoder, per gobelix's
// convention of keeping the register id inline with the payload it
// selects).
type BDSNode struct {
	Registers     map[uint8]*FixedNode
	BoundRegister *uint8
}

const bdsRegisterLen = 7

func (n *BDSNode) resolve(window []byte, ctx decodeContext) (*FixedNode, error) {
	var id uint8
	if n.BoundRegister != nil {
		id = *n.BoundRegister
	} else {
		if len(window) < 1 {
			return nil, asterixerr.New(asterixerr.TruncatedInput, ctx.Offset, ctx.Category, ctx.ItemID, "", "missing BDS register id")
		}
		id = window[0]
	}
	fn, ok := n.Registers[id]
	if !ok {
		return nil, asterixerr.New(asterixerr.UnknownDataItem, ctx.Offset, BDSCategoryID, ctx.ItemID, "",
			"unknown BDS register id")
	}
	return fn, nil
}

func (n *BDSNode) ByteLength(window []byte, ctx decodeContext, depth int) (int, error) {
	if len(window) < bdsRegisterLen {
		return 0, asterixerr.New(asterixerr.TruncatedInput, ctx.Offset, ctx.Category, ctx.ItemID, "", "BDS register truncated")
	}
	return bdsRegisterLen, nil
}

func (n *BDSNode) Decode(window []byte, ctx decodeContext, warnings *[]*asterixerr.Error, depth int) (ItemValue, error) {
	if err := checkDepth(depth, ctx); err != nil {
		return ItemValue{}, err
	}
	if _, err := n.ByteLength(window, ctx, depth); err != nil {
		return ItemValue{}, err
	}
	fn, err := n.resolve(window, ctx)
	if err != nil {
		return ItemValue{}, err
	}
	return fn.Decode(window[:bdsRegisterLen], ctx, warnings, depth+1)
}
