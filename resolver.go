// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package classfile

// entryAt resolves a 1-based constant pool index to its entry. idx == 0 is
// always rejected here; callers that treat 0 as "absent" (exception table
// catch_type, super_class, EnclosingMethod method_index) must check for it
// before calling entryAt.
func (p ConstantPool) entryAt(idx uint16, offset int, expectedKind string) (ConstantPoolEntry, error) {
	if idx == 0 || int(idx) > len(p) {
		return nil, &DanglingIndexError{Index: idx, Offset: offset, ExpectedKind: expectedKind}
	}
	entry := p[idx-1]
	if _, isGap := entry.(GapConstant); isGap {
		return nil, &DanglingIndexError{Index: idx, Offset: offset, ExpectedKind: expectedKind}
	}
	return entry, nil
}

// resolveUtf8 resolves idx to a Utf8Constant and returns its decoded string.
func (p ConstantPool) resolveUtf8(idx uint16, offset int) (string, error) {
	entry, err := p.entryAt(idx, offset, "Utf8")
	if err != nil {
		return "", err
	}
	utf8, ok := entry.(Utf8Constant)
	if !ok {
		return "", &WrongKindError{Offset: offset, Expected: "Utf8", Actual: kindName(entry)}
	}
	return utf8.Value, nil
}

// ClassRef is a resolved class or interface reference: the binary name
// exactly as stored (slashes preserved; dotted rendering is a renderer
// concern).
type ClassRef struct {
	Name string
}

// resolveClass resolves idx to a ClassConstant, then resolves its name
// through a Utf8 entry.
func (p ConstantPool) resolveClass(idx uint16, offset int) (ClassRef, error) {
	entry, err := p.entryAt(idx, offset, "Class")
	if err != nil {
		return ClassRef{}, err
	}
	class, ok := entry.(ClassConstant)
	if !ok {
		return ClassRef{}, &WrongKindError{Offset: offset, Expected: "Class", Actual: kindName(entry)}
	}
	name, err := p.resolveUtf8(class.NameIndex, offset)
	if err != nil {
		return ClassRef{}, err
	}
	return ClassRef{Name: name}, nil
}

// resolveConstantValue returns the raw constant-pool entry a ConstantValue
// attribute (or an 's'/primitive element value) points at. Callers
// interpret the concrete type; only Integer/Long/Float/Double/String/Utf8
// are accepted.
func (p ConstantPool) resolveConstantValue(idx uint16, offset int) (ConstantPoolEntry, error) {
	entry, err := p.entryAt(idx, offset, "ConstantValue")
	if err != nil {
		return nil, err
	}
	switch entry.(type) {
	case IntegerConstant, LongConstant, FloatConstant, DoubleConstant, StringConstant, Utf8Constant:
		return entry, nil
	default:
		return nil, &WrongKindError{Offset: offset, Expected: "ConstantValue", Actual: kindName(entry)}
	}
}

// NameAndTypeRef is a resolved name-and-type pair, e.g. the name and
// descriptor of the method an EnclosingMethod attribute points at.
type NameAndTypeRef struct {
	Name       string
	Descriptor string
}

// resolveNameAndType resolves idx to a NameAndTypeConstant, then resolves
// its name and descriptor through their Utf8 entries.
func (p ConstantPool) resolveNameAndType(idx uint16, offset int) (NameAndTypeRef, error) {
	entry, err := p.entryAt(idx, offset, "NameAndType")
	if err != nil {
		return NameAndTypeRef{}, err
	}
	nat, ok := entry.(NameAndTypeConstant)
	if !ok {
		return NameAndTypeRef{}, &WrongKindError{Offset: offset, Expected: "NameAndType", Actual: kindName(entry)}
	}
	name, err := p.resolveUtf8(nat.NameIndex, offset)
	if err != nil {
		return NameAndTypeRef{}, err
	}
	descriptor, err := p.resolveUtf8(nat.DescriptorIndex, offset)
	if err != nil {
		return NameAndTypeRef{}, err
	}
	return NameAndTypeRef{Name: name, Descriptor: descriptor}, nil
}

func kindName(entry ConstantPoolEntry) string {
	switch entry.(type) {
	case ClassConstant:
		return "Class"
	case FieldrefConstant:
		return "Fieldref"
	case MethodrefConstant:
		return "Methodref"
	case InterfaceMethodrefConstant:
		return "InterfaceMethodref"
	case StringConstant:
		return "String"
	case IntegerConstant:
		return "Integer"
	case FloatConstant:
		return "Float"
	case LongConstant:
		return "Long"
	case DoubleConstant:
		return "Double"
	case NameAndTypeConstant:
		return "NameAndType"
	case Utf8Constant:
		return "Utf8"
	case MethodHandleConstant:
		return "MethodHandle"
	case MethodTypeConstant:
		return "MethodType"
	case InvokeDynamicConstant:
		return "InvokeDynamic"
	case GapConstant:
		return "Gap"
	default:
		return "unknown"
	}
}
