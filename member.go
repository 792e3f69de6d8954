// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package classfile

// Field is one entry of the class's field table.
type Field struct {
	Flags       FieldFlags
	Name        string
	Descriptor  string
	Attributes  []Attribute
}

// Method is one entry of the class's method table. Code is nil for
// abstract and native methods, which carry no Code attribute.
type Method struct {
	Flags      MethodFlags
	Name       string
	Descriptor string
	Attributes []Attribute
	Code       *Code
}

func parseFields(c *cursor, pool ConstantPool, opts *Options) ([]Field, error) {
	count, err := c.readU2()
	if err != nil {
		return nil, err
	}

	fields := make([]Field, 0, count)
	for i := uint16(0); i < count; i++ {
		field, err := parseField(c, pool, opts)
		if err != nil {
			return nil, err
		}
		fields = append(fields, *field)
	}
	return fields, nil
}

func parseField(c *cursor, pool ConstantPool, opts *Options) (*Field, error) {
	flags, err := c.readU2()
	if err != nil {
		return nil, err
	}
	nameIndex, err := c.readU2()
	if err != nil {
		return nil, err
	}
	name, err := pool.resolveUtf8(nameIndex, c.position())
	if err != nil {
		return nil, err
	}
	descIndex, err := c.readU2()
	if err != nil {
		return nil, err
	}
	descriptor, err := pool.resolveUtf8(descIndex, c.position())
	if err != nil {
		return nil, err
	}
	attrs, err := parseAttributes(c, pool, opts, 0)
	if err != nil {
		return nil, err
	}

	return &Field{
		Flags:      FieldFlags(flags),
		Name:       name,
		Descriptor: descriptor,
		Attributes: attrs,
	}, nil
}

func parseMethods(c *cursor, pool ConstantPool, opts *Options) ([]Method, error) {
	count, err := c.readU2()
	if err != nil {
		return nil, err
	}

	methods := make([]Method, 0, count)
	for i := uint16(0); i < count; i++ {
		method, err := parseMethod(c, pool, opts)
		if err != nil {
			return nil, err
		}
		methods = append(methods, *method)
	}
	return methods, nil
}

func parseMethod(c *cursor, pool ConstantPool, opts *Options) (*Method, error) {
	flags, err := c.readU2()
	if err != nil {
		return nil, err
	}
	nameIndex, err := c.readU2()
	if err != nil {
		return nil, err
	}
	name, err := pool.resolveUtf8(nameIndex, c.position())
	if err != nil {
		return nil, err
	}
	descIndex, err := c.readU2()
	if err != nil {
		return nil, err
	}
	descriptor, err := pool.resolveUtf8(descIndex, c.position())
	if err != nil {
		return nil, err
	}
	attrs, err := parseAttributes(c, pool, opts, 0)
	if err != nil {
		return nil, err
	}

	method := &Method{
		Flags:      MethodFlags(flags),
		Name:       name,
		Descriptor: descriptor,
		Attributes: attrs,
	}
	for i := range attrs {
		if attrs[i].Kind == AttrCode {
			method.Code = attrs[i].Code
			break
		}
	}
	return method, nil
}
