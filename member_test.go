// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package classfile

import "testing"

func TestParseMethodCapturesCode(t *testing.T) {
	pool := ConstantPool{
		Utf8Constant{Value: "run"},   // 1
		Utf8Constant{Value: "()V"},   // 2
		Utf8Constant{Value: "Code"},  // 3
	}

	var code []byte
	code = append(code, 0, 1) // max_stack
	code = append(code, 0, 1) // max_locals
	code = append(code, 0, 0, 0, 1, 0xB1) // code_length=1, RETURN opcode
	code = append(code, 0, 0) // exception_table_length
	code = append(code, 0, 0) // attributes_count

	var buf []byte
	buf = append(buf, 0, 0x01) // access_flags: public
	buf = append(buf, 0, 1)    // name_index -> "run"
	buf = append(buf, 0, 2)    // descriptor_index -> "()V"
	buf = append(buf, 0, 1)    // attributes_count = 1
	buf = append(buf, 0, 3)    // attribute_name_index -> "Code"
	length := len(code)
	buf = append(buf, byte(length>>24), byte(length>>16), byte(length>>8), byte(length))
	buf = append(buf, code...)

	c := newCursor(buf)
	opts := (*Options)(nil).withDefaults()
	method, err := parseMethod(c, pool, opts)
	if err != nil {
		t.Fatalf("parseMethod() error = %v", err)
	}
	if method.Name != "run" || method.Descriptor != "()V" {
		t.Fatalf("method = %+v", method)
	}
	if method.Code == nil {
		t.Fatal("method.Code = nil, want populated Code")
	}
	if len(method.Code.Instructions) != 1 || method.Code.Instructions[0] != 0xB1 {
		t.Fatalf("Code.Instructions = %v", method.Code.Instructions)
	}
}

func TestParseFieldsEmpty(t *testing.T) {
	c := newCursor([]byte{0, 0})
	fields, err := parseFields(c, ConstantPool{}, (*Options)(nil).withDefaults())
	if err != nil {
		t.Fatalf("parseFields() error = %v", err)
	}
	if len(fields) != 0 {
		t.Fatalf("fields = %+v, want empty", fields)
	}
}
