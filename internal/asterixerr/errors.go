// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Package asterixerr provides the structured error type used throughout
// the asterix decoder. It follows the same panic/recover discipline used
// by the compression codecs this package is modeled on: a bounded decode
// step panics with an *Error, and a deferred Recover converts that panic
// back into a normal error return without letting unrelated runtime
// errors (out-of-bounds, nil dereference, etc.) escape silently.
package asterixerr

import (
	"fmt"
	"runtime"
)

// Kind identifies the category of a decode failure or warning.
type Kind int

const (
	_ Kind = iota

	// Fatal kinds: decoding cannot continue for the containing block.
	TruncatedInput
	OversizedPacket
	UnknownCategory
	NoMatchingUAP
	UnknownDataItem
	UnknownCompoundBit
	ExtensionLimit
	InvalidBlockLength
	FieldOutOfRange
	RecursionLimit
	StrictWarning

	// Warning kinds: collected, never abort decoding on their own.
	ConstMismatch
	OutOfRange
	RepetitionCountZero
	RepeatedExplicitPadding
	UnrecognizedValueCode
)

var kindNames = map[Kind]string{
	TruncatedInput:          "TruncatedInput",
	OversizedPacket:         "OversizedPacket",
	UnknownCategory:         "UnknownCategory",
	NoMatchingUAP:           "NoMatchingUAP",
	UnknownDataItem:         "UnknownDataItem",
	UnknownCompoundBit:      "UnknownCompoundBit",
	ExtensionLimit:          "ExtensionLimit",
	InvalidBlockLength:      "InvalidBlockLength",
	FieldOutOfRange:         "FieldOutOfRange",
	RecursionLimit:          "RecursionLimit",
	StrictWarning:           "StrictWarning",
	ConstMismatch:           "ConstMismatch",
	OutOfRange:              "OutOfRange",
	RepetitionCountZero:     "RepetitionCountZero",
	RepeatedExplicitPadding: "RepeatedExplicitPadding",
	UnrecognizedValueCode:   "UnrecognizedValueCode",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "Unknown"
}

// IsWarning reports whether k is a non-fatal warning kind rather than a
// fatal error kind.
func (k Kind) IsWarning() bool {
	switch k {
	case ConstMismatch, OutOfRange, RepetitionCountZero, RepeatedExplicitPadding, UnrecognizedValueCode:
		return true
	}
	return false
}

// Error is the structured error/warning type returned by this module.
// It carries enough context (offset, category, item, field) for a caller
// to localize a decode failure without re-parsing.
type Error struct {
	Kind     Kind
	Offset   int    // byte offset into the packet where the issue occurred
	Category int    // ASTERIX category, 0 if not applicable
	ItemID   string // data item id, "" if not applicable
	Field    string // field short name, "" if not applicable
	Message  string // human-readable detail
}

func (e *Error) Error() string {
	s := "asterix: " + e.Kind.String()
	if e.Category != 0 {
		s += fmt.Sprintf(" cat=%d", e.Category)
	}
	if e.ItemID != "" {
		s += fmt.Sprintf(" item=%s", e.ItemID)
	}
	if e.Field != "" {
		s += fmt.Sprintf(" field=%s", e.Field)
	}
	s += fmt.Sprintf(" offset=%d", e.Offset)
	if e.Message != "" {
		s += ": " + e.Message
	}
	return s
}

// New constructs an *Error for the given kind and context.
func New(kind Kind, offset int, category int, itemID, field, msg string) *Error {
	return &Error{Kind: kind, Offset: offset, Category: category, ItemID: itemID, Field: field, Message: msg}
}

// Panic panics with a newly constructed *Error; the nearest Recover
// converts it back into a normal error. The asterix decoder's FormatNode
// tree returns errors explicitly and does not call Panic.
func Panic(kind Kind, offset int, category int, itemID, field, msg string) {
	panic(New(kind, offset, category, itemID, field, msg))
}

// Panicf is like Panic but formats msg with args.
func Panicf(kind Kind, offset int, category int, itemID, field, format string, args ...interface{}) {
	panic(New(kind, offset, category, itemID, field, fmt.Sprintf(format, args...)))
}

// Recover recovers a panic started by Panic/Panicf (or a raw *Error panic)
// and stores it into *err. Runtime errors (nil pointer dereference, index
// out of range, etc.) are re-panicked rather than swallowed, since those
// indicate a bug in this package rather than malformed input.
func Recover(err *error) {
	switch ex := recover().(type) {
	case nil:
		// Do nothing.
	case runtime.Error:
		panic(ex)
	case *Error:
		*err = ex
	case error:
		*err = ex
	default:
		panic(ex)
	}
}
