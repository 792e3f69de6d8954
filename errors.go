// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package classfile

import (
	"errors"
	"fmt"
)

// Errors returned for malformed input that carries no useful position or
// value information beyond a fixed message.
var (
	// ErrInvalidMagic is returned when the leading 4 bytes are not 0xCAFEBABE.
	ErrInvalidMagic = errors.New("classfile: invalid magic number, expected 0xCAFEBABE")

	// ErrTooShort is returned when the input is too small to hold even the
	// fixed-size header.
	ErrTooShort = errors.New("classfile: input too short to be a classfile")

	// ErrTooManyConstantPoolEntries is returned when the number of slots the
	// declared constant_pool_count implies (count - 1) exceeds
	// Options.MaxConstantPoolEntries.
	ErrTooManyConstantPoolEntries = errors.New("classfile: constant pool count exceeds configured maximum")
)

// UnexpectedEOFError is returned when a read runs past the end of the
// buffer. Offset is the position the read was attempted at.
type UnexpectedEOFError struct {
	Offset  int
	Wanted  int
	Remains int
}

func (e *UnexpectedEOFError) Error() string {
	return fmt.Sprintf("classfile: unexpected EOF at offset %d: wanted %d bytes, %d remain",
		e.Offset, e.Wanted, e.Remains)
}

// InvalidTagError is returned when a constant pool entry carries an unknown
// or unsupported tag byte.
type InvalidTagError struct {
	Tag    uint8
	Offset int
}

func (e *InvalidTagError) Error() string {
	return fmt.Sprintf("classfile: invalid constant pool tag %d at offset %d", e.Tag, e.Offset)
}

// DanglingIndexError is returned when a constant pool index is zero where
// not permitted, out of range, or addresses a Gap entry.
type DanglingIndexError struct {
	Index        uint16
	Offset       int
	ExpectedKind string
}

func (e *DanglingIndexError) Error() string {
	return fmt.Sprintf("classfile: dangling constant pool index %d at offset %d, expected %s",
		e.Index, e.Offset, e.ExpectedKind)
}

// WrongKindError is returned when a resolved constant pool entry does not
// have the shape the caller expected.
type WrongKindError struct {
	Offset   int
	Expected string
	Actual   string
}

func (e *WrongKindError) Error() string {
	return fmt.Sprintf("classfile: wrong constant pool entry kind at offset %d: expected %s, got %s",
		e.Offset, e.Expected, e.Actual)
}

// InvalidElementValueTagError is returned when an annotation element value
// carries an unrecognised single-character tag.
type InvalidElementValueTagError struct {
	Tag    byte
	Offset int
}

func (e *InvalidElementValueTagError) Error() string {
	return fmt.Sprintf("classfile: invalid element value tag %q at offset %d", rune(e.Tag), e.Offset)
}

// AttributeLengthMismatchError is returned when a recognised attribute body
// consumes a different number of bytes than its declared length.
type AttributeLengthMismatchError struct {
	Name     string
	Declared uint32
	Consumed uint32
	Offset   int
}

func (e *AttributeLengthMismatchError) Error() string {
	return fmt.Sprintf("classfile: attribute %q declared length %d but consumed %d bytes (offset %d)",
		e.Name, e.Declared, e.Consumed, e.Offset)
}

// ElementValueDepthExceededError is returned when a nested annotation /
// element value tree exceeds Options.MaxElementValueDepth.
type ElementValueDepthExceededError struct {
	Offset int
	Max    int
}

func (e *ElementValueDepthExceededError) Error() string {
	return fmt.Sprintf("classfile: element value nesting exceeded depth %d at offset %d", e.Max, e.Offset)
}
