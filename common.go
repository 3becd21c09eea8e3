// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Package asterix implements a data-driven decoder for ASTERIX
// (All Purpose STructured EUROCONTROL SuRveillance Information EXchange)
// surveillance messages. The decoder is schema-driven: a Catalog built
// once from category definitions (loaded elsewhere, e.g. from XML) is
// passed into DecodePacket, which turns a wire-format byte buffer into a
// tree of structured Records.
package asterix

const (
	// maxExtensionOctets bounds the number of extension octets a single
	// Variable FormatNode (including a Compound indicator) may chain
	// through, defeating a malicious or corrupted FX bit chain that never
	// terminates. The FSPEC has its own cap, maxFSPECOctets.
	maxExtensionOctets = 16

	// maxFSPECOctets bounds the length of a record's FSPEC prelude.
	maxFSPECOctets = 8

	// maxRecursionDepth bounds FormatNode tree recursion (Explicit
	// containing Compound containing Repetitive containing Compound...)
	// to defend against a pathological or adversarial catalog.
	maxRecursionDepth = 16

	// defaultMaxPacketBytes is the default cap on input size accepted by
	// DecodePacket.
	defaultMaxPacketBytes = 65536

	// minBlockLen is the smallest legal DataBlock: CAT + LEN header only.
	minBlockLen = 3
)
