// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package classfile

// Access flag bits shared across the class, field and method tables. Not
// every bit is meaningful in every context — see classAccessFlagNames,
// fieldAccessFlagNames and methodAccessFlagNames for which bits apply
// where.
const (
	AccPublic       = 0x0001
	AccPrivate      = 0x0002
	AccProtected    = 0x0004
	AccStatic       = 0x0008
	AccFinal        = 0x0010
	AccSuper        = 0x0020 // class
	AccSynchronized = 0x0020 // method
	AccVolatile     = 0x0040 // field
	AccBridge       = 0x0040 // method
	AccTransient    = 0x0080 // field
	AccVarargs      = 0x0080 // method
	AccNative       = 0x0100
	AccInterface    = 0x0200
	AccAbstract     = 0x0400
	AccStrict       = 0x0800
	AccSynthetic    = 0x1000
	AccAnnotation   = 0x2000
	AccEnum         = 0x4000
)

// AccessFlags is the class-level access_flags mask.
type AccessFlags uint16

// FieldFlags is a field_info access_flags mask.
type FieldFlags uint16

// MethodFlags is a method_info access_flags mask.
type MethodFlags uint16

type flagName struct {
	bit  uint16
	name string
}

// classAccessFlagNames is ordered bit-ascending, matching §6 of the
// specification exactly: the emitted set must be stable and in this order.
var classAccessFlagNames = []flagName{
	{AccPublic, "public"},
	{AccFinal, "final"},
	{AccSuper, "super"},
	{AccInterface, "interface"},
	{AccAbstract, "abstract"},
	{AccSynthetic, "synthetic"},
	{AccAnnotation, "annotation"},
	{AccEnum, "enum"},
}

var fieldAccessFlagNames = []flagName{
	{AccPublic, "public"},
	{AccPrivate, "private"},
	{AccProtected, "protected"},
	{AccStatic, "static"},
	{AccFinal, "final"},
	{AccVolatile, "volatile"},
	{AccTransient, "transient"},
	{AccSynthetic, "synthetic"},
	{AccEnum, "enum"},
}

var methodAccessFlagNames = []flagName{
	{AccPublic, "public"},
	{AccPrivate, "private"},
	{AccProtected, "protected"},
	{AccStatic, "static"},
	{AccFinal, "final"},
	{AccSynchronized, "synchronized"},
	{AccBridge, "bridge"},
	{AccVarargs, "varargs"},
	{AccNative, "native"},
	{AccAbstract, "abstract"},
	{AccStrict, "strict"},
	{AccSynthetic, "synthetic"},
}

// Names returns the set of named bits present in the mask, in
// bit-ascending order. Unknown bits are silently ignored.
func (f AccessFlags) Names() []string {
	return namesFor(uint16(f), classAccessFlagNames)
}

// Has reports whether every bit in mask is set.
func (f AccessFlags) Has(mask int) bool {
	return uint16(f)&uint16(mask) == uint16(mask)
}

// Names returns the set of named bits present in the mask, in
// bit-ascending order. Unknown bits are silently ignored.
func (f FieldFlags) Names() []string {
	return namesFor(uint16(f), fieldAccessFlagNames)
}

// Has reports whether every bit in mask is set.
func (f FieldFlags) Has(mask int) bool {
	return uint16(f)&uint16(mask) == uint16(mask)
}

// Names returns the set of named bits present in the mask, in
// bit-ascending order. Unknown bits are silently ignored.
func (f MethodFlags) Names() []string {
	return namesFor(uint16(f), methodAccessFlagNames)
}

// Has reports whether every bit in mask is set.
func (f MethodFlags) Has(mask int) bool {
	return uint16(f)&uint16(mask) == uint16(mask)
}

func namesFor(mask uint16, table []flagName) []string {
	var names []string
	for _, fn := range table {
		if mask&fn.bit != 0 {
			names = append(names, fn.name)
		}
	}
	return names
}
