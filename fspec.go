// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package asterix

import (
	"github.com/dsnet/asterix/internal/asterixerr"
)

// readFSPEC reads the variable-length, FX-terminated FSPEC bitmap at the
// start of window and returns the number of octets it occupies along
// with the ordered list of present FRNs (§4.3).
//
// FRN numbering: octet 0 carries FRN 1..7 in bits 7..1 (bit 0 is the FX
// continuation bit); octet k carries FRN (7k+1)..(7k+7).
func readFSPEC(window []byte, ctx decodeContext) (fspecLen int, frns []int, err error) {
	for octetIdx := 0; ; octetIdx++ {
		if octetIdx >= maxFSPECOctets {
			return 0, nil, asterixerr.New(asterixerr.ExtensionLimit, ctx.Offset, ctx.Category, "", "",
				"FSPEC exceeds maximum octet count")
		}
		if octetIdx >= len(window) {
			return 0, nil, asterixerr.New(asterixerr.TruncatedInput, ctx.Offset, ctx.Category, "", "",
				"FSPEC truncated")
		}
		b := window[octetIdx]
		for bit := 7; bit >= 1; bit-- {
			if b&(1<<uint(bit)) != 0 {
				frn := 7*octetIdx + (8 - bit)
				frns = append(frns, frn)
			}
		}
		fspecLen = octetIdx + 1
		if b&0x01 == 0 {
			return fspecLen, frns, nil
		}
	}
}
