// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package asterix

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dsnet/asterix/internal/asterixerr"
	"github.com/dsnet/asterix/internal/bitops"
)

// Encoding selects how a BitsField's extracted bit pattern is
// interpreted once read off the wire.
type Encoding int

const (
	Unsigned Encoding = iota
	Signed
	SixBitAscii
	Octal
	Ascii
	Hex
	RawBytes
)

// sixBitAlphabet is the IA-5 subset used by ASTERIX 6-bit encoded
// strings (callsign-bearing items and similar). Index 0 is left blank
// (unused code point) to keep the table a direct 64-entry lookup.
const sixBitAlphabet = " ABCDEFGHIJKLMNOPQRSTUVWXYZ" + // codes 0..26
	"                     " + // codes 27..47 (32 is the space character)
	"0123456789" + // codes 48..57
	"      " // codes 58..63

// BitsField is a leaf field descriptor within a Fixed FormatNode: a bit
// range, its encoding, and optional scale/unit/range/constant/value-map
// metadata.
type BitsField struct {
	Name     string // short identifier, unique within its enclosing Fixed
	From, To int    // 1-based, inclusive, bit 1 = LSB of the last window byte; To <= From
	Encoding Encoding
	Scale    float64 // default 1.0
	Unit     string
	Min, Max *float64

	IsFXBit    bool
	IsConst    bool
	ConstValue uint64

	ValueMap map[uint64]string
}

// Width returns the bit-width of the field.
func (f *BitsField) Width() uint {
	return uint(f.From - f.To + 1)
}

// TypedValue is the result of decoding a single BitsField.
type TypedValue struct {
	Encoding Encoding
	Raw      uint64 // zero-extended raw bit pattern, always populated
	Int      int64  // meaningful when Encoding == Signed
	Float    float64
	HasFloat bool // true when Scale != 1.0 was applied
	Str      string
	Bytes    []byte
}

// extractBits pulls the w = from-to+1 bit field out of window, where bit 1
// is the LSB of window's last byte (EUROCONTROL convention, §4.1/§9).
// Because window bytes are big-endian wire bytes, this numbering is
// exactly the bit numbering of window read as one big-endian integer, so
// extraction reduces to a multi-precision right-shift-then-mask.
func extractBits(window []byte, from, to int) (uint64, error) {
	total := 8 * len(window)
	if to < 1 || from < to {
		return 0, fmt.Errorf("invalid bit range [%d,%d]", from, to)
	}
	if from > total {
		return 0, fmt.Errorf("bit %d exceeds window of %d bits", from, total)
	}
	w := uint(from - to + 1)
	if w > 64 {
		return 0, fmt.Errorf("bit range width %d exceeds 64", w)
	}

	dropLSB := to - 1
	dropBytes := dropLSB / 8
	bitShift := uint(dropLSB % 8)

	rel := window[:len(window)-dropBytes]
	nbytes := int((bitShift + w + 7) / 8)
	if nbytes > len(rel) {
		nbytes = len(rel)
	}
	seg := rel[len(rel)-nbytes:]

	shifted := seg
	if bitShift > 0 {
		shifted = make([]byte, len(seg))
		var carry byte
		for i := 0; i < len(seg); i++ {
			cur := seg[i]
			shifted[i] = (cur >> bitShift) | (carry << (8 - bitShift))
			carry = cur & (1<<bitShift - 1)
		}
	}

	tail := shifted
	if len(tail) > 8 {
		tail = tail[len(tail)-8:]
	}
	var v uint64
	for _, b := range tail {
		v = v<<8 | uint64(b)
	}
	return v & bitops.Mask64(w), nil
}

// decodeContext carries the offset/category/item context used to
// annotate errors and warnings produced while decoding a single field.
type decodeContext struct {
	Offset    int
	Category  int
	ItemID    string
	IncludeFX bool // verbose mode: surface FX marker bits as decoded fields
}

// Decode extracts and interprets f's bit range out of window. Fatal
// problems (bit range outside the window) are returned as an error;
// non-fatal problems (const mismatch, out-of-range value) are appended to
// *warnings and decoding continues.
func (f *BitsField) Decode(window []byte, ctx decodeContext, warnings *[]*asterixerr.Error) (TypedValue, error) {
	raw, err := extractBits(window, f.From, f.To)
	if err != nil {
		return TypedValue{}, asterixerr.New(asterixerr.FieldOutOfRange, ctx.Offset, ctx.Category, ctx.ItemID, f.Name, err.Error())
	}

	tv := TypedValue{Encoding: f.Encoding, Raw: raw}
	scale := f.Scale
	if scale == 0 {
		scale = 1.0
	}

	switch f.Encoding {
	case Unsigned:
		if scale != 1.0 {
			tv.Float = bitops.Scale(raw, scale)
			tv.HasFloat = true
		}
	case Signed:
		tv.Int = bitops.SignExtend(raw, f.Width())
		if scale != 1.0 {
			tv.Float = bitops.Scale(tv.Int, scale)
			tv.HasFloat = true
		}
	case SixBitAscii:
		w := f.Width()
		if w%6 != 0 {
			return TypedValue{}, asterixerr.New(asterixerr.FieldOutOfRange, ctx.Offset, ctx.Category, ctx.ItemID, f.Name,
				fmt.Sprintf("SixBitAscii width %d not a multiple of 6", w))
		}
		tv.Str = decodeSixBitAscii(raw, w)
	case Ascii:
		w := f.Width()
		if w%8 != 0 {
			return TypedValue{}, asterixerr.New(asterixerr.FieldOutOfRange, ctx.Offset, ctx.Category, ctx.ItemID, f.Name,
				fmt.Sprintf("Ascii width %d not a multiple of 8", w))
		}
		tv.Str = escapeAscii(rawBigEndianBytes(raw, w/8))
	case Octal:
		tv.Str = strconv.FormatUint(raw, 8)
	case Hex:
		digits := bitops.CeilDiv(f.Width(), 4)
		tv.Str = fmt.Sprintf("%0*X", digits, raw)
	case RawBytes:
		w := f.Width()
		if w%8 != 0 {
			return TypedValue{}, asterixerr.New(asterixerr.FieldOutOfRange, ctx.Offset, ctx.Category, ctx.ItemID, f.Name,
				fmt.Sprintf("Raw width %d not byte-aligned", w))
		}
		tv.Bytes = rawBigEndianBytes(raw, w/8)
	}

	if f.IsConst && raw != f.ConstValue {
		*warnings = append(*warnings, asterixerr.New(asterixerr.ConstMismatch, ctx.Offset, ctx.Category, ctx.ItemID, f.Name,
			fmt.Sprintf("expected constant %#x, got %#x", f.ConstValue, raw)))
	}

	if f.Min != nil || f.Max != nil {
		val := tv.Float
		if !tv.HasFloat {
			if f.Encoding == Signed {
				val = float64(tv.Int)
			} else {
				val = float64(tv.Raw)
			}
		}
		if (f.Min != nil && val < *f.Min) || (f.Max != nil && val > *f.Max) {
			*warnings = append(*warnings, asterixerr.New(asterixerr.OutOfRange, ctx.Offset, ctx.Category, ctx.ItemID, f.Name,
				fmt.Sprintf("value %v outside range", val)))
		}
	}

	if f.ValueMap != nil {
		if _, ok := f.ValueMap[raw]; !ok {
			*warnings = append(*warnings, asterixerr.New(asterixerr.UnrecognizedValueCode, ctx.Offset, ctx.Category, ctx.ItemID, f.Name,
				fmt.Sprintf("value %d not present in value map", raw)))
		}
	}

	return tv, nil
}

// decodeSixBitAscii renders a w-bit (multiple of 6) pattern as a string
// of IA-5 subset characters, trimming trailing 0x00 groups per §4.1.
func decodeSixBitAscii(raw uint64, w uint) string {
	n := int(w / 6)
	var sb strings.Builder
	for i := n - 1; i >= 0; i-- {
		code := (raw >> uint(i*6)) & 0x3f
		if code < uint64(len(sixBitAlphabet)) {
			sb.WriteByte(sixBitAlphabet[code])
		} else {
			sb.WriteByte('?')
		}
	}
	return strings.TrimRight(sb.String(), "\x00 ")
}

// escapeAscii renders raw bytes as a string, escaping non-printable bytes
// so the result is always safe to surface to a caller or log line.
func escapeAscii(b []byte) string {
	var sb strings.Builder
	for _, c := range b {
		if c >= 0x20 && c < 0x7f {
			sb.WriteByte(c)
		} else {
			fmt.Fprintf(&sb, "\\x%02x", c)
		}
	}
	return sb.String()
}

// rawBigEndianBytes renders the low nbytes bytes of v as a big-endian
// byte slice.
func rawBigEndianBytes(v uint64, nbytes uint) []byte {
	b := make([]byte, nbytes)
	for i := int(nbytes) - 1; i >= 0; i-- {
		b[i] = byte(v)
		v >>= 8
	}
	return b
}
