// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package classfile

import "testing"

func TestDecodeModifiedUTF8(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
		want string
	}{
		{"ascii", []byte("hello"), "hello"},
		{"embedded nul", []byte{'a', 0xC0, 0x80, 'b'}, "a\x00b"},
		{"bmp three byte", []byte{0xE4, 0xB8, 0xAD}, "中"},
		{
			"supplementary surrogate pair",
			[]byte{0xED, 0xA0, 0xBD, 0xED, 0xB8, 0x80},
			"😀",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := decodeModifiedUTF8(tt.in)
			if got != tt.want {
				t.Errorf("decodeModifiedUTF8(%v) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
