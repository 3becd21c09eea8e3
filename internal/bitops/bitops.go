// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Package bitops holds small, allocation-free bit manipulation helpers
// shared by the asterix decoder, in the same spirit as dsnet/compress's
// internal package of LUTs and bit-reversal helpers.
package bitops

import "golang.org/x/exp/constraints"

// SignExtend sign-extends the lower w bits of v (a u64 holding an
// unsigned bit-pattern of width w, 1 <= w <= 64) to a full int64 using
// two's complement.
func SignExtend(v uint64, w uint) int64 {
	shift := 64 - w
	return int64(v<<shift) >> shift
}

// Scale multiplies an integer value by a float64 scale factor. It is
// generic over the integer type so callers extracting either unsigned or
// sign-extended values can reuse one scaling path.
func Scale[T constraints.Integer](v T, scale float64) float64 {
	return float64(v) * scale
}

// CeilDiv returns ceil(a/b) for positive integers.
func CeilDiv(a, b uint) uint {
	return (a + b - 1) / b
}

// Mask64 returns a mask of the lowest n bits set (n in [0,64]).
func Mask64(n uint) uint64 {
	if n >= 64 {
		return ^uint64(0)
	}
	return (uint64(1) << n) - 1
}
