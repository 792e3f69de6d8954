// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

// Package render pretty-prints a decoded classfile as an approximation of
// its source-level class declaration. It is an external collaborator of
// the decoder: nothing here feeds back into parsing.
package render

import (
	"fmt"
	"strconv"
	"strings"

	classfile "github.com/Duckulus/bytecode-parser"
)

// Class renders cf as a single source-level class declaration
// approximation, e.g.:
//
//	public final class com.example.Greeter extends java.lang.Object {
//	    private final java.lang.String greeting;
//	    public java.lang.String greet(java.lang.String);
//	}
func Class(cf *classfile.ClassFile) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s", declLine(cf))
	b.WriteString(" {\n")
	for _, f := range cf.Fields {
		fmt.Fprintf(&b, "    %s\n", fieldLine(f))
	}
	for _, m := range cf.Methods {
		fmt.Fprintf(&b, "    %s\n", methodLine(m))
	}
	b.WriteString("}\n")
	return b.String()
}

func declLine(cf *classfile.ClassFile) string {
	var parts []string
	parts = append(parts, cf.AccessFlags.Names()...)

	kind := "class"
	if cf.AccessFlags.Has(classfile.AccInterface) {
		kind = "interface"
	}
	if cf.AccessFlags.Has(classfile.AccAnnotation) {
		kind = "@interface"
	}
	if cf.AccessFlags.Has(classfile.AccEnum) {
		kind = "enum"
	}

	var b strings.Builder
	if len(parts) > 0 {
		b.WriteString(strings.Join(parts, " "))
		b.WriteString(" ")
	}
	b.WriteString(kind)
	b.WriteString(" ")
	b.WriteString(dottedName(cf.ThisClass.Name))

	if cf.SuperClass != nil && kind == "class" {
		fmt.Fprintf(&b, " extends %s", dottedName(cf.SuperClass.Name))
	}
	if len(cf.Interfaces) > 0 {
		verb := "implements"
		if kind == "interface" {
			verb = "extends"
		}
		names := make([]string, len(cf.Interfaces))
		for i, ref := range cf.Interfaces {
			names[i] = dottedName(ref.Name)
		}
		fmt.Fprintf(&b, " %s %s", verb, strings.Join(names, ", "))
	}
	return b.String()
}

func fieldLine(f classfile.Field) string {
	var parts []string
	parts = append(parts, f.Flags.Names()...)
	parts = append(parts, classfile.DescriptorTypeName(f.Descriptor), f.Name)
	line := strings.Join(parts, " ")

	for _, attr := range f.Attributes {
		if attr.Kind == classfile.AttrConstantValue {
			line += " = " + renderConstantValue(attr.ConstantValue, f.Descriptor)
			break
		}
	}
	return line + ";"
}

func methodLine(m classfile.Method) string {
	var parts []string
	parts = append(parts, m.Flags.Names()...)

	retType, paramTypes := splitMethodDescriptor(m.Descriptor)
	name := m.Name
	if name == "<init>" {
		name = "<init>"
		retType = ""
	}

	sig := fmt.Sprintf("%s(%s)", name, strings.Join(paramTypes, ", "))
	if retType != "" {
		parts = append(parts, retType)
	}
	parts = append(parts, sig)
	return strings.Join(parts, " ") + ";"
}

// dottedName converts a binary class name (slash-separated) into its
// source-level dotted form.
func dottedName(binaryName string) string {
	return strings.ReplaceAll(binaryName, "/", ".")
}

// splitMethodDescriptor decodes a method descriptor "(paramdescs)retdesc"
// into printable parameter type names and a return type name ("void" for
// "V").
func splitMethodDescriptor(descriptor string) (string, []string) {
	if len(descriptor) < 2 || descriptor[0] != '(' {
		return "", nil
	}
	closeIdx := strings.IndexByte(descriptor, ')')
	if closeIdx < 0 {
		return "", nil
	}
	paramsSection := descriptor[1:closeIdx]
	returnSection := descriptor[closeIdx+1:]

	var params []string
	i := 0
	for i < len(paramsSection) {
		start := i
		for paramsSection[i] == '[' {
			i++
		}
		if paramsSection[i] == 'L' {
			end := strings.IndexByte(paramsSection[i:], ';')
			i += end + 1
		} else {
			i++
		}
		params = append(params, classfile.DescriptorTypeName(paramsSection[start:i]))
	}

	if returnSection == "V" {
		return "void", params
	}
	return classfile.DescriptorTypeName(returnSection), params
}

// renderConstantValue formats a ConstantValue attribute's pointed-to entry.
// A "Z" (boolean) descriptor renders the underlying integer 0/1 as
// true/false, since the classfile format itself has no boolean constant
// tag.
func renderConstantValue(entry classfile.ConstantPoolEntry, descriptor string) string {
	switch v := entry.(type) {
	case classfile.IntegerConstant:
		if descriptor == "Z" {
			if v.Value == 0 {
				return "false"
			}
			return "true"
		}
		return strconv.FormatInt(int64(int32(v.Value)), 10)
	case classfile.LongConstant:
		return strconv.FormatInt(int64(v.Value), 10)
	case classfile.FloatConstant:
		return strconv.FormatFloat(float64(v.Value), 'g', -1, 32)
	case classfile.DoubleConstant:
		return strconv.FormatFloat(v.Value, 'g', -1, 64)
	case classfile.Utf8Constant:
		if descriptor == "Ljava/lang/String;" {
			return strconv.Quote(v.Value)
		}
		return v.Value
	default:
		return "<unknown constant>"
	}
}
