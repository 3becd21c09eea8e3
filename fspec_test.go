// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package asterix

import (
	"reflect"
	"testing"

	"github.com/dsnet/asterix/internal/asterixerr"
	"github.com/dsnet/asterix/internal/testutil"
)

func TestReadFSPEC(t *testing.T) {
	ctx := decodeContext{Category: 48}

	var vectors = []struct {
		desc         string
		window       []byte
		wantLen      int
		wantFRNs     []int
		wantErrKind  asterixerr.Kind
	}{{
		desc:     "single octet, FRN1 and FRN3 present",
		window:   []byte{0xA0}, // 1010_0000: FRN1 (bit7), FRN3 (bit5)
		wantLen:  1,
		wantFRNs: []int{1, 3},
	}, {
		desc:     "single octet, no bits set, FX clear",
		window:   []byte{0x00},
		wantLen:  1,
		wantFRNs: nil,
	}, {
		desc:     "two octets via FX continuation",
		window:   []byte{0x81, 0x80}, // FRN1, FX -> FRN8
		wantLen:  2,
		wantFRNs: []int{1, 8},
	}, {
		desc:        "FX never clears, hits the octet cap",
		window:      bytesRepeat(0x01, maxFSPECOctets+2),
		wantErrKind: asterixerr.ExtensionLimit,
	}, {
		desc:        "FX set on the last byte of the window",
		window:      []byte{0x01},
		wantErrKind: asterixerr.TruncatedInput,
	}}

	for _, v := range vectors {
		t.Run(v.desc, func(t *testing.T) {
			n, frns, err := readFSPEC(v.window, ctx)
			if v.wantErrKind != 0 {
				ae, ok := err.(*asterixerr.Error)
				if !ok || ae.Kind != v.wantErrKind {
					t.Fatalf("err = %v, want Kind %v", err, v.wantErrKind)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if n != v.wantLen {
				t.Errorf("fspecLen = %d, want %d", n, v.wantLen)
			}
			if !reflect.DeepEqual(frns, v.wantFRNs) {
				t.Errorf("frns = %v, want %v", frns, v.wantFRNs)
			}
		})
	}
}

// TestReadFSPECAgainstOracle cross-checks readFSPEC's FRN derivation
// against testutil's independent re-implementation over many random,
// syntactically valid FSPEC byte sequences.
func TestReadFSPECAgainstOracle(t *testing.T) {
	ctx := decodeContext{Category: 62}
	for seed := 0; seed < 64; seed++ {
		octets := 1 + seed%maxFSPECOctets
		fspec := testutil.RandFSPEC(seed, octets)
		n, frns, err := readFSPEC(fspec, ctx)
		if err != nil {
			t.Fatalf("seed %d: unexpected error: %v", seed, err)
		}
		if n != len(fspec) {
			t.Fatalf("seed %d: fspecLen = %d, want %d", seed, n, len(fspec))
		}
		want := testutil.FRNsFromFSPEC(fspec)
		if !reflect.DeepEqual(frns, want) {
			t.Errorf("seed %d: frns = %v, want %v", seed, frns, want)
		}
	}
}

func bytesRepeat(b byte, n int) []byte {
	out := make([]byte, n)
	for i := range out {
		out[i] = b
	}
	return out
}
