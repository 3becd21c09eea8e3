// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package asterix

import (
	"encoding/hex"
	"hash/crc32"

	"github.com/dsnet/asterix/internal/asterixerr"
)

// Record is the structured result of decoding a single ASTERIX record
// (§4.4).
type Record struct {
	Category    int
	Items       map[string]ItemValue
	FSPECHex    string
	RawHex      string // populated only when DecodeOptions.Verbose
	CRC         uint32 // populated only when DecodeOptions.Verbose
	LengthBytes int
}

// decodeRecord decodes one record starting at window[0], selecting the
// UAP whose selector matches the record's FSPEC, then dispatching every
// FRN present in the FSPEC to its catalog item's FormatNode. It returns
// the record, the number of bytes consumed, and any warnings accumulated
// along the way (§4.4).
func decodeRecord(cat *Category, window []byte, baseOffset int, opts DecodeOptions) (rec Record, consumed int, warnings []*asterixerr.Error, err error) {
	defer asterixerr.Recover(&err)

	ctx := decodeContext{Offset: baseOffset, Category: cat.ID, IncludeFX: opts.Verbose}

	// UAP selectors only inspect FSPEC bytes, and FSPEC framing itself
	// does not depend on the UAP, so the FSPEC is read once and the UAP
	// is then selected against those bytes.
	fspecLen, frns, err := readFSPEC(window, ctx)
	if err != nil {
		return Record{}, 0, warnings, err
	}
	fspec := window[:fspecLen]

	uap, err := cat.SelectUAP(fspec)
	if err != nil {
		if e, ok := err.(*asterixerr.Error); ok {
			e.Offset = baseOffset
		}
		return Record{}, 0, warnings, err
	}

	rec = Record{
		Category: cat.ID,
		Items:    make(map[string]ItemValue, len(frns)),
		FSPECHex: hex.EncodeToString(fspec),
	}

	cursor := window[fspecLen:]
	consumed = fspecLen
	for _, frn := range frns {
		entry, ok := uap.Entry(frn)
		if !ok || entry.IsFX() {
			continue
		}
		desc, ok := cat.Item(entry.ItemID)
		if !ok {
			return Record{}, 0, warnings, asterixerr.New(asterixerr.UnknownDataItem, baseOffset+consumed, cat.ID, entry.ItemID, "",
				"UAP references item id absent from catalog")
		}
		itemCtx := decodeContext{Offset: baseOffset + consumed, Category: cat.ID, ItemID: entry.ItemID, IncludeFX: opts.Verbose}
		n, err := desc.Format.ByteLength(cursor, itemCtx, 0)
		if err != nil {
			return Record{}, 0, warnings, err
		}
		if n > len(cursor) {
			return Record{}, 0, warnings, asterixerr.New(asterixerr.TruncatedInput, baseOffset+consumed, cat.ID, entry.ItemID, "",
				"item exceeds remaining record window")
		}
		if opts.Filter == nil || opts.Filter.MatchesItem(cat.ID, entry.ItemID) {
			val, err := desc.Format.Decode(cursor[:n], itemCtx, &warnings, 0)
			if err != nil {
				return Record{}, 0, warnings, err
			}
			if opts.Filter != nil {
				val = filterItemValue(val, cat.ID, entry.ItemID, opts.Filter)
			}
			rec.Items[entry.ItemID] = val
		}
		cursor = cursor[n:]
		consumed += n
	}

	rec.LengthBytes = consumed
	if opts.Verbose {
		raw := window[:consumed]
		rec.RawHex = hex.EncodeToString(raw)
		rec.CRC = crc32.ChecksumIEEE(raw)
	}
	return rec, consumed, warnings, nil
}
