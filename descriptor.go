// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package classfile

import "strings"

var primitiveDescriptors = map[byte]string{
	'B': "byte",
	'C': "char",
	'D': "double",
	'F': "float",
	'I': "int",
	'J': "long",
	'Z': "boolean",
	'S': "short",
}

// DescriptorTypeName converts a field descriptor string (e.g. "I",
// "[Ljava/lang/String;", "[[[I") into a printable source-level type name
// (e.g. "int", "java.lang.String[]", "int[][][]"). The canonical descriptor
// itself is preserved alongside by callers for round-tripping; this mapping
// is one-way and exists only to give the renderer a printable surface form.
// Anything it doesn't recognise yields the empty string.
func DescriptorTypeName(descriptor string) string {
	if descriptor == "" {
		return ""
	}

	arrayDepth := 0
	i := 0
	for i < len(descriptor) && descriptor[i] == '[' {
		arrayDepth++
		i++
	}
	if i >= len(descriptor) {
		return ""
	}

	var base string
	switch descriptor[i] {
	case 'L':
		end := strings.IndexByte(descriptor[i:], ';')
		if end < 0 {
			return ""
		}
		binaryName := descriptor[i+1 : i+end]
		base = strings.ReplaceAll(binaryName, "/", ".")
	default:
		name, ok := primitiveDescriptors[descriptor[i]]
		if !ok {
			return ""
		}
		base = name
	}

	return base + strings.Repeat("[]", arrayDepth)
}
