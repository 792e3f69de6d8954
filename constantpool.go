// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package classfile

// Constant pool tags, per the JVM classfile format.
const (
	TagUtf8               = 1
	TagInteger            = 3
	TagFloat              = 4
	TagLong               = 5
	TagDouble             = 6
	TagClass              = 7
	TagString             = 8
	TagFieldref           = 9
	TagMethodref          = 10
	TagInterfaceMethodref = 11
	TagNameAndType        = 12
	TagMethodHandle       = 15
	TagMethodType         = 16
	TagInvokeDynamic      = 18
)

// ConstantPoolEntry is the tagged-variant interface implemented by every
// kind of constant pool slot, including the synthetic Gap placeholder.
type ConstantPoolEntry interface {
	constantPoolEntry()
	// Tag returns the wire-format tag byte for this entry, or 0 for Gap
	// (which has no tag of its own — it never appears on the wire).
	Tag() uint8
}

// ClassConstant is CONSTANT_Class_info: a symbolic reference to a class or
// interface, naming it indirectly via a Utf8 entry.
type ClassConstant struct {
	NameIndex uint16
}

func (ClassConstant) constantPoolEntry() {}
func (ClassConstant) Tag() uint8         { return TagClass }

// FieldrefConstant is CONSTANT_Fieldref_info.
type FieldrefConstant struct {
	ClassIndex       uint16
	NameAndTypeIndex uint16
}

func (FieldrefConstant) constantPoolEntry() {}
func (FieldrefConstant) Tag() uint8         { return TagFieldref }

// MethodrefConstant is CONSTANT_Methodref_info.
type MethodrefConstant struct {
	ClassIndex       uint16
	NameAndTypeIndex uint16
}

func (MethodrefConstant) constantPoolEntry() {}
func (MethodrefConstant) Tag() uint8         { return TagMethodref }

// InterfaceMethodrefConstant is CONSTANT_InterfaceMethodref_info.
type InterfaceMethodrefConstant struct {
	ClassIndex       uint16
	NameAndTypeIndex uint16
}

func (InterfaceMethodrefConstant) constantPoolEntry() {}
func (InterfaceMethodrefConstant) Tag() uint8         { return TagInterfaceMethodref }

// StringConstant is CONSTANT_String_info.
type StringConstant struct {
	StringIndex uint16
}

func (StringConstant) constantPoolEntry() {}
func (StringConstant) Tag() uint8         { return TagString }

// IntegerConstant is CONSTANT_Integer_info. The value is kept as the raw
// unsigned bit pattern, per the data model — interpretation as a signed
// int32 is left to callers.
type IntegerConstant struct {
	Value uint32
}

func (IntegerConstant) constantPoolEntry() {}
func (IntegerConstant) Tag() uint8         { return TagInteger }

// FloatConstant is CONSTANT_Float_info.
type FloatConstant struct {
	Value float32
}

func (FloatConstant) constantPoolEntry() {}
func (FloatConstant) Tag() uint8         { return TagFloat }

// LongConstant is CONSTANT_Long_info. It consumes two logical pool slots;
// the slot following it is a Gap. The value is the raw unsigned bit pattern.
type LongConstant struct {
	Value uint64
}

func (LongConstant) constantPoolEntry() {}
func (LongConstant) Tag() uint8         { return TagLong }

// DoubleConstant is CONSTANT_Double_info. Like Long, it consumes two
// logical pool slots.
type DoubleConstant struct {
	Value float64
}

func (DoubleConstant) constantPoolEntry() {}
func (DoubleConstant) Tag() uint8         { return TagDouble }

// NameAndTypeConstant is CONSTANT_NameAndType_info.
type NameAndTypeConstant struct {
	NameIndex       uint16
	DescriptorIndex uint16
}

func (NameAndTypeConstant) constantPoolEntry() {}
func (NameAndTypeConstant) Tag() uint8         { return TagNameAndType }

// Utf8Constant is CONSTANT_Utf8_info, already decoded from modified UTF-8.
type Utf8Constant struct {
	Value string
}

func (Utf8Constant) constantPoolEntry() {}
func (Utf8Constant) Tag() uint8         { return TagUtf8 }

// MethodHandleConstant is CONSTANT_MethodHandle_info.
type MethodHandleConstant struct {
	ReferenceKind  uint8
	ReferenceIndex uint16
}

func (MethodHandleConstant) constantPoolEntry() {}
func (MethodHandleConstant) Tag() uint8         { return TagMethodHandle }

// MethodTypeConstant is CONSTANT_MethodType_info.
type MethodTypeConstant struct {
	DescriptorIndex uint16
}

func (MethodTypeConstant) constantPoolEntry() {}
func (MethodTypeConstant) Tag() uint8         { return TagMethodType }

// InvokeDynamicConstant is CONSTANT_InvokeDynamic_info.
type InvokeDynamicConstant struct {
	BootstrapMethodAttrIndex uint16
	NameAndTypeIndex         uint16
}

func (InvokeDynamicConstant) constantPoolEntry() {}
func (InvokeDynamicConstant) Tag() uint8         { return TagInvokeDynamic }

// GapConstant is the synthetic placeholder occupying the slot immediately
// after a Long or Double entry. It never appears on the wire; any attempt
// to resolve it as a typed entry fails with DanglingIndexError (see
// entryAt).
type GapConstant struct{}

func (GapConstant) constantPoolEntry() {}
func (GapConstant) Tag() uint8         { return 0 }

// ConstantPool is the decoded, 1-indexed constant pool. Logical index i
// (1-based) is stored at ConstantPool[i-1].
type ConstantPool []ConstantPoolEntry

// parseConstantPool reads constant_pool_count (already consumed by the
// caller) worth of entries: exactly poolCount-1 logical slots, inserting a
// Gap wherever a preceding Long/Double claimed the following slot.
func parseConstantPool(c *cursor, poolCount uint16, maxEntries uint32) (ConstantPool, error) {
	n := int(poolCount) - 1
	if n < 0 {
		n = 0
	}
	if uint32(n) > maxEntries {
		return nil, ErrTooManyConstantPoolEntries
	}

	pool := make(ConstantPool, 0, n)
	gapPending := false

	for i := 0; i < n; i++ {
		if gapPending {
			pool = append(pool, GapConstant{})
			gapPending = false
			continue
		}

		entry, err := parseConstantPoolEntry(c)
		if err != nil {
			return nil, err
		}
		pool = append(pool, entry)

		switch entry.(type) {
		case LongConstant, DoubleConstant:
			gapPending = true
		}
	}

	return pool, nil
}

func parseConstantPoolEntry(c *cursor) (ConstantPoolEntry, error) {
	tagOffset := c.position()
	tag, err := c.readU1()
	if err != nil {
		return nil, err
	}

	switch tag {
	case TagUtf8:
		s, err := c.readUTF8WithLength()
		if err != nil {
			return nil, err
		}
		return Utf8Constant{Value: s}, nil

	case TagInteger:
		v, err := c.readU4()
		if err != nil {
			return nil, err
		}
		return IntegerConstant{Value: v}, nil

	case TagFloat:
		v, err := c.readF4()
		if err != nil {
			return nil, err
		}
		return FloatConstant{Value: v}, nil

	case TagLong:
		v, err := c.readU8()
		if err != nil {
			return nil, err
		}
		return LongConstant{Value: v}, nil

	case TagDouble:
		v, err := c.readF8()
		if err != nil {
			return nil, err
		}
		return DoubleConstant{Value: v}, nil

	case TagClass:
		nameIndex, err := c.readU2()
		if err != nil {
			return nil, err
		}
		return ClassConstant{NameIndex: nameIndex}, nil

	case TagString:
		stringIndex, err := c.readU2()
		if err != nil {
			return nil, err
		}
		return StringConstant{StringIndex: stringIndex}, nil

	case TagFieldref:
		classIndex, natIndex, err := readClassAndNameAndType(c)
		if err != nil {
			return nil, err
		}
		return FieldrefConstant{ClassIndex: classIndex, NameAndTypeIndex: natIndex}, nil

	case TagMethodref:
		classIndex, natIndex, err := readClassAndNameAndType(c)
		if err != nil {
			return nil, err
		}
		return MethodrefConstant{ClassIndex: classIndex, NameAndTypeIndex: natIndex}, nil

	case TagInterfaceMethodref:
		classIndex, natIndex, err := readClassAndNameAndType(c)
		if err != nil {
			return nil, err
		}
		return InterfaceMethodrefConstant{ClassIndex: classIndex, NameAndTypeIndex: natIndex}, nil

	case TagNameAndType:
		nameIndex, err := c.readU2()
		if err != nil {
			return nil, err
		}
		descIndex, err := c.readU2()
		if err != nil {
			return nil, err
		}
		return NameAndTypeConstant{NameIndex: nameIndex, DescriptorIndex: descIndex}, nil

	case TagMethodHandle:
		refKind, err := c.readU1()
		if err != nil {
			return nil, err
		}
		refIndex, err := c.readU2()
		if err != nil {
			return nil, err
		}
		return MethodHandleConstant{ReferenceKind: refKind, ReferenceIndex: refIndex}, nil

	case TagMethodType:
		descIndex, err := c.readU2()
		if err != nil {
			return nil, err
		}
		return MethodTypeConstant{DescriptorIndex: descIndex}, nil

	case TagInvokeDynamic:
		bootstrapIndex, err := c.readU2()
		if err != nil {
			return nil, err
		}
		natIndex, err := c.readU2()
		if err != nil {
			return nil, err
		}
		return InvokeDynamicConstant{BootstrapMethodAttrIndex: bootstrapIndex, NameAndTypeIndex: natIndex}, nil

	default:
		return nil, &InvalidTagError{Tag: tag, Offset: tagOffset}
	}
}

func readClassAndNameAndType(c *cursor) (classIndex, natIndex uint16, err error) {
	classIndex, err = c.readU2()
	if err != nil {
		return 0, 0, err
	}
	natIndex, err = c.readU2()
	if err != nil {
		return 0, 0, err
	}
	return classIndex, natIndex, nil
}
