// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package classfile

// ExceptionHandler is one entry of a Code attribute's exception table.
// CatchType is nil when the raw catch_type index is 0 (a catch-all /
// finally handler).
type ExceptionHandler struct {
	StartPC   uint16
	EndPC     uint16
	HandlerPC uint16
	CatchType *ClassRef
}

func parseExceptionTable(c *cursor, pool ConstantPool) ([]ExceptionHandler, error) {
	count, err := c.readU2()
	if err != nil {
		return nil, err
	}

	handlers := make([]ExceptionHandler, 0, count)
	for i := uint16(0); i < count; i++ {
		startPC, err := c.readU2()
		if err != nil {
			return nil, err
		}
		endPC, err := c.readU2()
		if err != nil {
			return nil, err
		}
		handlerPC, err := c.readU2()
		if err != nil {
			return nil, err
		}
		catchTypeOffset := c.position()
		catchTypeIndex, err := c.readU2()
		if err != nil {
			return nil, err
		}

		var catchType *ClassRef
		if catchTypeIndex != 0 {
			ref, err := pool.resolveClass(catchTypeIndex, catchTypeOffset)
			if err != nil {
				return nil, err
			}
			catchType = &ref
		}

		handlers = append(handlers, ExceptionHandler{
			StartPC:   startPC,
			EndPC:     endPC,
			HandlerPC: handlerPC,
			CatchType: catchType,
		})
	}

	return handlers, nil
}

// LineNumber maps a bytecode offset to a source line, as recorded by a
// LineNumberTable attribute.
type LineNumber struct {
	StartPC    uint16
	LineNumber uint16
}

func parseLineNumberTable(c *cursor) ([]LineNumber, error) {
	count, err := c.readU2()
	if err != nil {
		return nil, err
	}
	lines := make([]LineNumber, 0, count)
	for i := uint16(0); i < count; i++ {
		startPC, err := c.readU2()
		if err != nil {
			return nil, err
		}
		lineNumber, err := c.readU2()
		if err != nil {
			return nil, err
		}
		lines = append(lines, LineNumber{StartPC: startPC, LineNumber: lineNumber})
	}
	return lines, nil
}

// Code is the body of a Code attribute: the raw instruction bytes
// (preserved verbatim — disassembly is out of scope), the exception table,
// and any nested attributes (e.g. LineNumberTable).
type Code struct {
	MaxStack          uint16
	MaxLocals         uint16
	Instructions      []byte
	ExceptionHandlers []ExceptionHandler
	Attributes        []Attribute
}

func parseCode(c *cursor, pool ConstantPool, opts *Options, depth int) (*Code, error) {
	maxStack, err := c.readU2()
	if err != nil {
		return nil, err
	}
	maxLocals, err := c.readU2()
	if err != nil {
		return nil, err
	}
	codeLength, err := c.readU4()
	if err != nil {
		return nil, err
	}
	instructions, err := c.readBytes(int(codeLength))
	if err != nil {
		return nil, err
	}
	// Copy out of the borrowed slice: instructions live in the returned
	// value past the lifetime the spec guarantees for the input buffer.
	instrCopy := make([]byte, len(instructions))
	copy(instrCopy, instructions)

	handlers, err := parseExceptionTable(c, pool)
	if err != nil {
		return nil, err
	}

	attrs, err := parseAttributes(c, pool, opts, depth)
	if err != nil {
		return nil, err
	}

	return &Code{
		MaxStack:          maxStack,
		MaxLocals:         maxLocals,
		Instructions:      instrCopy,
		ExceptionHandlers: handlers,
		Attributes:        attrs,
	}, nil
}
