// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package asterix

import (
	"errors"
	"fmt"

	"github.com/dsnet/asterix/internal/asterixerr"
)

// DecodeOptions configures a single DecodePacket call (§4.6). The zero
// value is a usable default: decode every block, no filtering, lenient
// (non-strict), no verbose extras, and the default 64KiB packet cap.
type DecodeOptions struct {
	MaxBlocks      int // 0 means unlimited
	Verbose        bool
	MaxPacketBytes int // 0 means defaultMaxPacketBytes
	Filter         *FilterPredicate
	Strict         bool
}

// DecodeResult is the outcome of a single DecodePacket call (§4.6).
// BytesConsumed reflects the absolute end offset so a streaming caller
// can resume after it; RemainingBlocksEstimate is a rough upper bound
// based on the minimum possible block size, suitable for backpressure
// decisions but not a precise count.
type DecodeResult struct {
	Blocks                  []Block
	BytesConsumed           int
	RemainingBlocksEstimate int
	Warnings                []*asterixerr.Error
}

// DecodePacket is the decoder's entry point (§4.6/§6). It is a pure
// function of (catalog, buf, offset, options): no global state is read
// or mutated, making it safe to call concurrently from any number of
// goroutines sharing the same *Catalog (§5).
func DecodePacket(catalog *Catalog, buf []byte, offset int, opts DecodeOptions) (result DecodeResult, err error) {
	defer asterixerr.Recover(&err)

	if offset < 0 || offset >= len(buf) {
		return result, nil
	}

	maxBytes := opts.MaxPacketBytes
	if maxBytes <= 0 {
		maxBytes = defaultMaxPacketBytes
	}
	remaining := buf[offset:]
	if len(remaining) > maxBytes {
		return result, asterixerr.New(asterixerr.OversizedPacket, offset, 0, "", "",
			fmt.Sprintf("packet of %d bytes exceeds max %d", len(remaining), maxBytes))
	}

	cursor := remaining
	consumed := 0
	var terminal error
loop:
	for len(cursor) > 0 {
		if opts.MaxBlocks > 0 && len(result.Blocks) >= opts.MaxBlocks {
			break
		}

		blk, warnings, err := decodeBlock(catalog, cursor, offset+consumed, opts)
		result.Warnings = append(result.Warnings, warnings...)

		var hdrErr *headerError
		switch {
		case errors.As(err, &hdrErr):
			// The block header itself (CAT/LEN) could not be trusted, so
			// there is no boundary to resynchronize at. Stop entirely.
			terminal = hdrErr.err
			break loop
		case err != nil:
			// A record inside this block failed, but LEN was valid, so
			// we know exactly where the next block begins. Record the
			// failure (never silently dropped) and resynchronize.
			if ae, ok := err.(*asterixerr.Error); ok {
				result.Warnings = append(result.Warnings, ae)
			}
			result.Blocks = append(result.Blocks, blk)
			cursor = cursor[blk.BytesConsumed:]
			consumed += blk.BytesConsumed
		default:
			result.Blocks = append(result.Blocks, blk)
			cursor = cursor[blk.BytesConsumed:]
			consumed += blk.BytesConsumed
		}
	}

	result.BytesConsumed = offset + consumed
	result.RemainingBlocksEstimate = len(cursor) / minBlockLen

	if terminal != nil {
		return result, terminal
	}
	if opts.Strict && len(result.Warnings) > 0 {
		return result, asterixerr.New(asterixerr.StrictWarning, offset+consumed, 0, "", "",
			fmt.Sprintf("%d warning(s) promoted to error under strict mode", len(result.Warnings)))
	}
	return result, nil
}
