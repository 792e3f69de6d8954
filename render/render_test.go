// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package render_test

import (
	"strings"
	"testing"

	classfile "github.com/Duckulus/bytecode-parser"
	"github.com/Duckulus/bytecode-parser/render"
)

// buildMinimalClassfile mirrors the fixture in classfile_test.go: a public
// final class Foo extends java.lang.Object with one boolean field carrying
// a ConstantValue of 1 (scenario S6: renders as "true").
func buildMinimalClassfile() []byte {
	var buf []byte
	buf = append(buf, 0xCA, 0xFE, 0xBA, 0xBE)
	buf = append(buf, 0, 0)
	buf = append(buf, 0, 52)

	buf = append(buf, 0, 9)
	buf = append(buf, classfile.TagUtf8, 0, 3, 'F', 'o', 'o')
	buf = append(buf, classfile.TagClass, 0, 1)
	buf = append(buf, classfile.TagUtf8, 0, 16)
	buf = append(buf, []byte("java/lang/Object")...)
	buf = append(buf, classfile.TagClass, 0, 3)
	buf = append(buf, classfile.TagUtf8, 0, 4, 'f', 'l', 'a', 'g')
	buf = append(buf, classfile.TagUtf8, 0, 1, 'Z')
	buf = append(buf, classfile.TagUtf8, 0, 13)
	buf = append(buf, []byte("ConstantValue")...)
	buf = append(buf, classfile.TagInteger, 0, 0, 0, 1)

	buf = append(buf, 0, 0x11)
	buf = append(buf, 0, 2)
	buf = append(buf, 0, 4)
	buf = append(buf, 0, 0)

	buf = append(buf, 0, 1)
	buf = append(buf, 0, 0x19)
	buf = append(buf, 0, 5)
	buf = append(buf, 0, 6)
	buf = append(buf, 0, 1)
	buf = append(buf, 0, 7)
	buf = append(buf, 0, 0, 0, 2)
	buf = append(buf, 0, 8)

	buf = append(buf, 0, 0)
	buf = append(buf, 0, 0)

	return buf
}

func TestClassRendersConstantValueAsBoolean(t *testing.T) {
	cf, err := classfile.ParseBytes(buildMinimalClassfile(), nil)
	if err != nil {
		t.Fatalf("ParseBytes() error = %v", err)
	}

	out := render.Class(cf)
	if !strings.Contains(out, "public final class Foo extends java.lang.Object") {
		t.Errorf("render.Class() = %q, missing expected declaration line", out)
	}
	if !strings.Contains(out, "= true") {
		t.Errorf("render.Class() = %q, want ConstantValue rendered as true", out)
	}
}
