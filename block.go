// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package asterix

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"

	"github.com/dsnet/golib/hashutil"

	"github.com/dsnet/asterix/internal/asterixerr"
)

// Block is the structured result of decoding a single DataBlock (§4.5).
type Block struct {
	Category      int
	Records       []Record
	BytesConsumed int
	CRC           uint32 // populated only when DecodeOptions.Verbose
}

// combineBlockCRC folds a record's already-computed CRC-32 into the
// running block-level checksum without re-hashing the record's raw bytes,
// the same incremental-combine trick bzip2 uses to fold per-stripe CRCs
// into one block checksum.
func combineBlockCRC(running uint32, rec Record) uint32 {
	return hashutil.CombineCRC32(crc32.IEEE, running, rec.CRC, int64(rec.LengthBytes))
}

// headerError wraps an error that occurred while reading the DataBlock
// header itself (CAT/LEN), before LEN is known to be trustworthy. The
// PacketDecoder cannot resynchronize past a block whose header it could
// not validate, and must terminate packet decoding entirely (§7).
type headerError struct{ err error }

func (h *headerError) Error() string { return h.err.Error() }
func (h *headerError) Unwrap() error { return h.err }

// decodeBlock reads a DataBlock header (CAT + big-endian LEN) from
// buf[0:], then decodes records until the declared block length is
// exhausted. Once LEN is validated, the returned Block.BytesConsumed
// always equals it -- even if a record-level error aborts decoding
// partway through -- so the caller can resynchronize at the next block
// boundary per §7's propagation policy.
func decodeBlock(catalog *Catalog, buf []byte, baseOffset int, opts DecodeOptions) (blk Block, warnings []*asterixerr.Error, err error) {
	defer asterixerr.Recover(&err)

	if len(buf) < minBlockLen {
		return Block{}, warnings, &headerError{asterixerr.New(asterixerr.TruncatedInput, baseOffset, 0, "", "",
			"block header truncated")}
	}
	catID := int(buf[0])
	length := int(binary.BigEndian.Uint16(buf[1:3]))
	if length < minBlockLen || length > len(buf) {
		return Block{}, warnings, &headerError{asterixerr.New(asterixerr.InvalidBlockLength, baseOffset, catID, "", "",
			fmt.Sprintf("LEN=%d out of range (have %d remaining bytes)", length, len(buf)))}
	}

	blk = Block{Category: catID, BytesConsumed: length}

	cat, ok := catalog.Category(catID)
	if !ok {
		return blk, warnings, asterixerr.New(asterixerr.UnknownCategory, baseOffset, catID, "", "", "category not defined in catalog")
	}

	cursor := buf[minBlockLen:length]
	consumed := minBlockLen
	for len(cursor) > 0 {
		rec, n, w, recErr := decodeRecord(cat, cursor, baseOffset+consumed, opts)
		warnings = append(warnings, w...)
		if recErr != nil {
			return blk, warnings, recErr
		}
		blk.Records = append(blk.Records, rec)
		if opts.Verbose {
			blk.CRC = combineBlockCRC(blk.CRC, rec)
		}
		cursor = cursor[n:]
		consumed += n
	}
	return blk, warnings, nil
}
