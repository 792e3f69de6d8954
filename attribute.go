// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package classfile

// AttributeKind tags the variant stored in an Attribute.
type AttributeKind int

const (
	AttrUnknown AttributeKind = iota
	AttrConstantValue
	AttrSynthetic
	AttrDeprecated
	AttrSignature
	AttrRuntimeVisibleAnnotations
	AttrRuntimeInvisibleAnnotations
	AttrCode
	AttrExceptions
	AttrRuntimeVisibleParameterAnnotations
	AttrRuntimeInvisibleParameterAnnotations
	AttrAnnotationDefault
	AttrLineNumberTable
	AttrSourceFile
	AttrNestMembers
	AttrBootstrapMethods
	AttrInnerClasses
	AttrEnclosingMethod
	AttrNestHost
	AttrStackMapTable
)

// BootstrapMethod is one entry of a BootstrapMethods attribute, anchoring
// the InvokeDynamic constant pool entries that reference it by index.
type BootstrapMethod struct {
	MethodRef          uint16
	BootstrapArguments []uint16
}

// InnerClassEntry is one entry of an InnerClasses attribute. OuterClass and
// InnerName are nil/empty when the corresponding index is 0 (an anonymous
// class, or a class with no enclosing member).
type InnerClassEntry struct {
	InnerClass ClassRef
	OuterClass *ClassRef
	InnerName  string
	InnerFlags AccessFlags
}

// Attribute is the tagged-variant type for every recognised attribute body,
// plus Unknown for anything outside the enumerated set (its body is
// skipped using the declared length, but the raw bytes are preserved in
// RawData).
type Attribute struct {
	Name string
	Kind AttributeKind

	// AttrUnknown
	RawData []byte

	// AttrConstantValue
	ConstantValue ConstantPoolEntry

	// AttrSignature
	Signature string

	// AttrRuntimeVisible/InvisibleAnnotations
	Annotations []Annotation

	// AttrCode
	Code *Code

	// AttrExceptions
	ExceptionClasses []ClassRef

	// AttrRuntimeVisible/InvisibleParameterAnnotations
	ParameterAnnotations [][]Annotation

	// AttrAnnotationDefault
	DefaultValue *ElementValue

	// AttrLineNumberTable
	LineNumbers []LineNumber

	// AttrSourceFile
	SourceFile string

	// AttrNestMembers
	NestMembers []ClassRef

	// AttrBootstrapMethods
	BootstrapMethods []BootstrapMethod

	// AttrInnerClasses
	InnerClasses []InnerClassEntry

	// AttrEnclosingMethod
	EnclosingClass *ClassRef

	// AttrEnclosingMethod; nil when method_index is 0 (the class is enclosed
	// by the class itself rather than by one of its methods).
	EnclosingMethod *NameAndTypeRef

	// AttrNestHost
	NestHost *ClassRef
}

func parseAttributes(c *cursor, pool ConstantPool, opts *Options, depth int) ([]Attribute, error) {
	count, err := c.readU2()
	if err != nil {
		return nil, err
	}

	attrs := make([]Attribute, 0, count)
	for i := uint16(0); i < count; i++ {
		attr, err := parseAttribute(c, pool, opts, depth)
		if err != nil {
			return nil, err
		}
		attrs = append(attrs, *attr)
	}
	return attrs, nil
}

func parseAttribute(c *cursor, pool ConstantPool, opts *Options, depth int) (*Attribute, error) {
	nameIndex, err := c.readU2()
	if err != nil {
		return nil, err
	}
	nameOffset := c.position()
	name, err := pool.resolveUtf8(nameIndex, nameOffset)
	if err != nil {
		return nil, err
	}
	declaredLength, err := c.readU4()
	if err != nil {
		return nil, err
	}

	bodyStart := c.position()
	attr, err := decodeAttributeBody(c, pool, opts, depth, name, declaredLength)
	if err != nil {
		return nil, err
	}
	consumed := uint32(c.position() - bodyStart)

	if attr.Kind != AttrUnknown && consumed != declaredLength {
		return nil, &AttributeLengthMismatchError{
			Name:     name,
			Declared: declaredLength,
			Consumed: consumed,
			Offset:   bodyStart,
		}
	}

	return attr, nil
}

func decodeAttributeBody(c *cursor, pool ConstantPool, opts *Options, depth int, name string, declaredLength uint32) (*Attribute, error) {
	switch name {
	case "ConstantValue":
		idx, err := c.readU2()
		if err != nil {
			return nil, err
		}
		value, err := pool.resolveConstantValue(idx, c.position())
		if err != nil {
			return nil, err
		}
		// A String constant_value points indirectly at its text through a
		// Utf8 entry; resolve it fully so callers never need pool access
		// to render a ConstantValue attribute.
		if str, ok := value.(StringConstant); ok {
			text, err := pool.resolveUtf8(str.StringIndex, c.position())
			if err != nil {
				return nil, err
			}
			value = Utf8Constant{Value: text}
		}
		return &Attribute{Name: name, Kind: AttrConstantValue, ConstantValue: value}, nil

	case "Synthetic":
		return &Attribute{Name: name, Kind: AttrSynthetic}, nil

	case "Deprecated":
		return &Attribute{Name: name, Kind: AttrDeprecated}, nil

	case "Signature":
		idx, err := c.readU2()
		if err != nil {
			return nil, err
		}
		sig, err := pool.resolveUtf8(idx, c.position())
		if err != nil {
			return nil, err
		}
		return &Attribute{Name: name, Kind: AttrSignature, Signature: sig}, nil

	case "RuntimeVisibleAnnotations", "RuntimeInvisibleAnnotations":
		anns, err := parseAnnotationList(c, pool, opts, depth)
		if err != nil {
			return nil, err
		}
		kind := AttrRuntimeVisibleAnnotations
		if name == "RuntimeInvisibleAnnotations" {
			kind = AttrRuntimeInvisibleAnnotations
		}
		return &Attribute{Name: name, Kind: kind, Annotations: anns}, nil

	case "Code":
		if opts.SkipCodeAttributes {
			data, err := c.readBytes(int(declaredLength))
			if err != nil {
				return nil, err
			}
			raw := make([]byte, len(data))
			copy(raw, data)
			return &Attribute{Name: name, Kind: AttrUnknown, RawData: raw}, nil
		}
		code, err := parseCode(c, pool, opts, depth+1)
		if err != nil {
			return nil, err
		}
		return &Attribute{Name: name, Kind: AttrCode, Code: code}, nil

	case "Exceptions":
		count, err := c.readU2()
		if err != nil {
			return nil, err
		}
		classes := make([]ClassRef, 0, count)
		for i := uint16(0); i < count; i++ {
			idx, err := c.readU2()
			if err != nil {
				return nil, err
			}
			ref, err := pool.resolveClass(idx, c.position())
			if err != nil {
				return nil, err
			}
			classes = append(classes, ref)
		}
		return &Attribute{Name: name, Kind: AttrExceptions, ExceptionClasses: classes}, nil

	case "RuntimeVisibleParameterAnnotations", "RuntimeInvisibleParameterAnnotations":
		numParams, err := c.readU1()
		if err != nil {
			return nil, err
		}
		perParam := make([][]Annotation, 0, numParams)
		for i := uint8(0); i < numParams; i++ {
			anns, err := parseAnnotationList(c, pool, opts, depth)
			if err != nil {
				return nil, err
			}
			perParam = append(perParam, anns)
		}
		kind := AttrRuntimeVisibleParameterAnnotations
		if name == "RuntimeInvisibleParameterAnnotations" {
			kind = AttrRuntimeInvisibleParameterAnnotations
		}
		return &Attribute{Name: name, Kind: kind, ParameterAnnotations: perParam}, nil

	case "AnnotationDefault":
		value, err := parseElementValue(c, pool, depth+1, opts.MaxElementValueDepth)
		if err != nil {
			return nil, err
		}
		return &Attribute{Name: name, Kind: AttrAnnotationDefault, DefaultValue: value}, nil

	case "LineNumberTable":
		lines, err := parseLineNumberTable(c)
		if err != nil {
			return nil, err
		}
		return &Attribute{Name: name, Kind: AttrLineNumberTable, LineNumbers: lines}, nil

	case "SourceFile":
		idx, err := c.readU2()
		if err != nil {
			return nil, err
		}
		sourceFile, err := pool.resolveUtf8(idx, c.position())
		if err != nil {
			return nil, err
		}
		return &Attribute{Name: name, Kind: AttrSourceFile, SourceFile: sourceFile}, nil

	case "NestMembers":
		classes, err := parseClassRefList(c, pool)
		if err != nil {
			return nil, err
		}
		return &Attribute{Name: name, Kind: AttrNestMembers, NestMembers: classes}, nil

	case "BootstrapMethods":
		methods, err := parseBootstrapMethods(c)
		if err != nil {
			return nil, err
		}
		return &Attribute{Name: name, Kind: AttrBootstrapMethods, BootstrapMethods: methods}, nil

	case "InnerClasses":
		entries, err := parseInnerClasses(c, pool)
		if err != nil {
			return nil, err
		}
		return &Attribute{Name: name, Kind: AttrInnerClasses, InnerClasses: entries}, nil

	case "EnclosingMethod":
		classIndex, err := c.readU2()
		if err != nil {
			return nil, err
		}
		class, err := pool.resolveClass(classIndex, c.position())
		if err != nil {
			return nil, err
		}
		methodOffset := c.position()
		methodIndex, err := c.readU2()
		if err != nil {
			return nil, err
		}
		var method *NameAndTypeRef
		if methodIndex != 0 {
			nat, err := pool.resolveNameAndType(methodIndex, methodOffset)
			if err != nil {
				return nil, err
			}
			method = &nat
		}
		return &Attribute{Name: name, Kind: AttrEnclosingMethod, EnclosingClass: &class, EnclosingMethod: method}, nil

	case "NestHost":
		idx, err := c.readU2()
		if err != nil {
			return nil, err
		}
		host, err := pool.resolveClass(idx, c.position())
		if err != nil {
			return nil, err
		}
		return &Attribute{Name: name, Kind: AttrNestHost, NestHost: &host}, nil

	case "StackMapTable":
		data, err := c.readBytes(int(declaredLength))
		if err != nil {
			return nil, err
		}
		raw := make([]byte, len(data))
		copy(raw, data)
		opts.helper.Debugf("classfile: skipped opaque StackMapTable attribute (%d bytes)", len(raw))
		return &Attribute{Name: name, Kind: AttrStackMapTable, RawData: raw}, nil

	default:
		data, err := c.readBytes(int(declaredLength))
		if err != nil {
			return nil, err
		}
		raw := make([]byte, len(data))
		copy(raw, data)
		opts.helper.Debugf("classfile: skipped unknown attribute %q (%d bytes)", name, len(raw))
		return &Attribute{Name: name, Kind: AttrUnknown, RawData: raw}, nil
	}
}

func parseAnnotationList(c *cursor, pool ConstantPool, opts *Options, depth int) ([]Annotation, error) {
	count, err := c.readU2()
	if err != nil {
		return nil, err
	}
	anns := make([]Annotation, 0, count)
	for i := uint16(0); i < count; i++ {
		ann, err := parseAnnotation(c, pool, depth+1, opts.MaxElementValueDepth)
		if err != nil {
			return nil, err
		}
		anns = append(anns, *ann)
	}
	return anns, nil
}

func parseClassRefList(c *cursor, pool ConstantPool) ([]ClassRef, error) {
	count, err := c.readU2()
	if err != nil {
		return nil, err
	}
	refs := make([]ClassRef, 0, count)
	for i := uint16(0); i < count; i++ {
		idx, err := c.readU2()
		if err != nil {
			return nil, err
		}
		ref, err := pool.resolveClass(idx, c.position())
		if err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}
	return refs, nil
}

func parseBootstrapMethods(c *cursor) ([]BootstrapMethod, error) {
	count, err := c.readU2()
	if err != nil {
		return nil, err
	}
	methods := make([]BootstrapMethod, 0, count)
	for i := uint16(0); i < count; i++ {
		methodRef, err := c.readU2()
		if err != nil {
			return nil, err
		}
		numArgs, err := c.readU2()
		if err != nil {
			return nil, err
		}
		args := make([]uint16, 0, numArgs)
		for j := uint16(0); j < numArgs; j++ {
			arg, err := c.readU2()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
		}
		methods = append(methods, BootstrapMethod{MethodRef: methodRef, BootstrapArguments: args})
	}
	return methods, nil
}

func parseInnerClasses(c *cursor, pool ConstantPool) ([]InnerClassEntry, error) {
	count, err := c.readU2()
	if err != nil {
		return nil, err
	}
	entries := make([]InnerClassEntry, 0, count)
	for i := uint16(0); i < count; i++ {
		innerIndex, err := c.readU2()
		if err != nil {
			return nil, err
		}
		inner, err := pool.resolveClass(innerIndex, c.position())
		if err != nil {
			return nil, err
		}

		outerOffset := c.position()
		outerIndex, err := c.readU2()
		if err != nil {
			return nil, err
		}
		var outer *ClassRef
		if outerIndex != 0 {
			ref, err := pool.resolveClass(outerIndex, outerOffset)
			if err != nil {
				return nil, err
			}
			outer = &ref
		}

		innerNameIndex, err := c.readU2()
		if err != nil {
			return nil, err
		}
		var innerName string
		if innerNameIndex != 0 {
			innerName, err = pool.resolveUtf8(innerNameIndex, c.position())
			if err != nil {
				return nil, err
			}
		}

		innerFlags, err := c.readU2()
		if err != nil {
			return nil, err
		}

		entries = append(entries, InnerClassEntry{
			InnerClass: inner,
			OuterClass: outer,
			InnerName:  innerName,
			InnerFlags: AccessFlags(innerFlags),
		})
	}
	return entries, nil
}
