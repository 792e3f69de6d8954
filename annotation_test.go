// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package classfile

import (
	"errors"
	"testing"
)

func TestParseElementValuePrimitive(t *testing.T) {
	pool := ConstantPool{IntegerConstant{Value: 7}}
	buf := []byte{'I', 0, 1}
	c := newCursor(buf)

	v, err := parseElementValue(c, pool, 0, defaultMaxElementValueDepth)
	if err != nil {
		t.Fatalf("parseElementValue() error = %v", err)
	}
	if v.Kind != ElementValueConst || v.ConstIndex != 1 {
		t.Fatalf("parseElementValue() = %+v, want const index 1", v)
	}
}

func TestParseElementValueInvalidTag(t *testing.T) {
	c := newCursor([]byte{'?'})
	_, err := parseElementValue(c, nil, 0, defaultMaxElementValueDepth)

	var tagErr *InvalidElementValueTagError
	if !errors.As(err, &tagErr) {
		t.Fatalf("parseElementValue() err = %v, want *InvalidElementValueTagError", err)
	}
	if tagErr.Tag != '?' {
		t.Fatalf("InvalidElementValueTagError.Tag = %q, want '?'", tagErr.Tag)
	}
}

// TestParseElementValueDepthExceeded builds a deeply nested array of arrays
// ('[' tags) past the configured maximum and checks it fails with a
// structured depth error instead of recursing unboundedly.
func TestParseElementValueDepthExceeded(t *testing.T) {
	const maxDepth = 4
	var buf []byte
	for i := 0; i < maxDepth+2; i++ {
		buf = append(buf, '[', 0, 1)
	}
	buf = append(buf, 'I', 0, 1)

	c := newCursor(buf)
	_, err := parseElementValue(c, ConstantPool{IntegerConstant{Value: 1}}, 0, maxDepth)

	var depthErr *ElementValueDepthExceededError
	if !errors.As(err, &depthErr) {
		t.Fatalf("parseElementValue() err = %v, want *ElementValueDepthExceededError", err)
	}
}

func TestParseAnnotationSinglePair(t *testing.T) {
	pool := ConstantPool{
		Utf8Constant{Value: "Ljava/lang/Override;"}, // 1: annotation type
		Utf8Constant{Value: "value"},                 // 2: element name
	}
	var buf []byte
	buf = append(buf, 0, 1) // type_index = 1
	buf = append(buf, 0, 1) // num_element_value_pairs = 1
	buf = append(buf, 0, 2) // element_name_index = 2
	buf = append(buf, 'Z', 0, 1)

	c := newCursor(buf)
	ann, err := parseAnnotation(c, pool, 0, defaultMaxElementValueDepth)
	if err != nil {
		t.Fatalf("parseAnnotation() error = %v", err)
	}
	if ann.TypeDescriptor != "Ljava/lang/Override;" {
		t.Fatalf("TypeDescriptor = %q, want Ljava/lang/Override;", ann.TypeDescriptor)
	}
	if len(ann.Pairs) != 1 || ann.Pairs[0].Name != "value" {
		t.Fatalf("Pairs = %+v", ann.Pairs)
	}
}
