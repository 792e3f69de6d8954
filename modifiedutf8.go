// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package classfile

import "strings"

// decodeModifiedUTF8 decodes the "modified UTF-8" variant used to encode
// Utf8 constant pool entries: embedded NUL is encoded as the two bytes
// 0xC0 0x80 instead of a single zero byte, and characters outside the Basic
// Multilingual Plane are encoded as a surrogate pair, each half written out
// as its own 3-byte sequence (six bytes total) rather than the standard
// 4-byte UTF-8 sequence.
//
// Any byte sequence that doesn't match one of the recognised shapes is
// passed through unchanged, so well-formed standard UTF-8 (which the format
// also tolerates in practice) still round-trips.
func decodeModifiedUTF8(b []byte) string {
	var sb strings.Builder
	sb.Grow(len(b))

	for i := 0; i < len(b); {
		c := b[i]
		switch {
		case c&0x80 == 0:
			// 1-byte form, ASCII.
			sb.WriteByte(c)
			i++

		case c&0xE0 == 0xC0 && i+1 < len(b):
			// 2-byte form: 110xxxxx 10xxxxxx.
			c2 := b[i+1]
			r := rune(c&0x1F)<<6 | rune(c2&0x3F)
			sb.WriteRune(r)
			i += 2

		case c == 0xED && i+5 < len(b) && b[i+1]&0xF0 == 0xA0 && b[i+3] == 0xED && b[i+4]&0xF0 == 0xB0:
			// 6-byte surrogate-pair encoding of a supplementary character:
			// 11101101 1010xxxx 10xxxxxx 11101101 1011yyyy 10yyyyyy
			hi := rune(b[i+1]&0x0F)<<6 | rune(b[i+2]&0x3F)
			lo := rune(b[i+4]&0x0F)<<6 | rune(b[i+5]&0x3F)
			r := 0x10000 + (hi << 10) + lo
			sb.WriteRune(r)
			i += 6

		case c&0xF0 == 0xE0 && i+2 < len(b):
			// 3-byte form: 1110xxxx 10xxxxxx 10xxxxxx.
			c2, c3 := b[i+1], b[i+2]
			r := rune(c&0x0F)<<12 | rune(c2&0x3F)<<6 | rune(c3&0x3F)
			sb.WriteRune(r)
			i += 3

		case c&0xF8 == 0xF0 && i+3 < len(b):
			// Standard 4-byte UTF-8, accepted for compatibility with tools
			// that emit plain UTF-8 instead of the modified variant.
			c2, c3, c4 := b[i+1], b[i+2], b[i+3]
			r := rune(c&0x07)<<18 | rune(c2&0x3F)<<12 | rune(c3&0x3F)<<6 | rune(c4&0x3F)
			sb.WriteRune(r)
			i += 4

		default:
			sb.WriteByte(c)
			i++
		}
	}

	return sb.String()
}
