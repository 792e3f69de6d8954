// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package classfile

// defaultMaxElementValueDepth bounds the recursion of nested annotations
// and array element values so adversarially deep input fails with a
// structured error instead of risking a stack overflow.
const defaultMaxElementValueDepth = 64

// Annotation is a single runtime-visible or -invisible annotation: a type
// descriptor plus its (name, value) pairs.
type Annotation struct {
	TypeDescriptor string
	Pairs          []ElementValuePair
}

// ElementValuePair is one (element name, value) pair inside an Annotation.
type ElementValuePair struct {
	Name  string
	Value ElementValue
}

// ElementValueKind tags the variant stored in an ElementValue.
type ElementValueKind int

const (
	// ElementValueConst covers the primitive and string ('s') tags: the
	// value lives in the constant pool, at ConstIndex.
	ElementValueConst ElementValueKind = iota
	ElementValueEnum
	ElementValueClass
	ElementValueAnnotation
	ElementValueArray
)

// ElementValue is the typed leaf of an annotation-parameter value tree,
// tagged by a single ASCII character on the wire (see ElementValueKind for
// the decoded form).
type ElementValue struct {
	Tag  byte
	Kind ElementValueKind

	// ElementValueConst
	ConstIndex uint16

	// ElementValueEnum
	EnumTypeName  string
	EnumConstName string

	// ElementValueClass
	ClassDescriptor string

	// ElementValueAnnotation
	NestedAnnotation *Annotation

	// ElementValueArray
	Values []ElementValue
}

func parseAnnotation(c *cursor, pool ConstantPool, depth, maxDepth int) (*Annotation, error) {
	if depth > maxDepth {
		return nil, &ElementValueDepthExceededError{Offset: c.position(), Max: maxDepth}
	}

	typeIndex, err := c.readU2()
	if err != nil {
		return nil, err
	}
	typeDescOffset := c.position()
	typeDescriptor, err := pool.resolveUtf8(typeIndex, typeDescOffset)
	if err != nil {
		return nil, err
	}

	pairCount, err := c.readU2()
	if err != nil {
		return nil, err
	}

	pairs := make([]ElementValuePair, 0, pairCount)
	for i := uint16(0); i < pairCount; i++ {
		nameIndex, err := c.readU2()
		if err != nil {
			return nil, err
		}
		nameOffset := c.position()
		name, err := pool.resolveUtf8(nameIndex, nameOffset)
		if err != nil {
			return nil, err
		}
		value, err := parseElementValue(c, pool, depth+1, maxDepth)
		if err != nil {
			return nil, err
		}
		pairs = append(pairs, ElementValuePair{Name: name, Value: *value})
	}

	return &Annotation{TypeDescriptor: typeDescriptor, Pairs: pairs}, nil
}

func parseElementValue(c *cursor, pool ConstantPool, depth, maxDepth int) (*ElementValue, error) {
	if depth > maxDepth {
		return nil, &ElementValueDepthExceededError{Offset: c.position(), Max: maxDepth}
	}

	tagOffset := c.position()
	tag, err := c.readU1()
	if err != nil {
		return nil, err
	}

	switch tag {
	case 'B', 'C', 'D', 'F', 'I', 'J', 'S', 'Z', 's':
		idx, err := c.readU2()
		if err != nil {
			return nil, err
		}
		return &ElementValue{Tag: tag, Kind: ElementValueConst, ConstIndex: idx}, nil

	case 'e':
		typeIndex, err := c.readU2()
		if err != nil {
			return nil, err
		}
		typeName, err := pool.resolveUtf8(typeIndex, tagOffset)
		if err != nil {
			return nil, err
		}
		constIndex, err := c.readU2()
		if err != nil {
			return nil, err
		}
		constName, err := pool.resolveUtf8(constIndex, tagOffset)
		if err != nil {
			return nil, err
		}
		return &ElementValue{Tag: tag, Kind: ElementValueEnum, EnumTypeName: typeName, EnumConstName: constName}, nil

	case 'c':
		classIndex, err := c.readU2()
		if err != nil {
			return nil, err
		}
		classDescriptor, err := pool.resolveUtf8(classIndex, tagOffset)
		if err != nil {
			return nil, err
		}
		return &ElementValue{Tag: tag, Kind: ElementValueClass, ClassDescriptor: classDescriptor}, nil

	case '@':
		nested, err := parseAnnotation(c, pool, depth+1, maxDepth)
		if err != nil {
			return nil, err
		}
		return &ElementValue{Tag: tag, Kind: ElementValueAnnotation, NestedAnnotation: nested}, nil

	case '[':
		count, err := c.readU2()
		if err != nil {
			return nil, err
		}
		values := make([]ElementValue, 0, count)
		for i := uint16(0); i < count; i++ {
			v, err := parseElementValue(c, pool, depth+1, maxDepth)
			if err != nil {
				return nil, err
			}
			values = append(values, *v)
		}
		return &ElementValue{Tag: tag, Kind: ElementValueArray, Values: values}, nil

	default:
		return nil, &InvalidElementValueTagError{Tag: tag, Offset: tagOffset}
	}
}
