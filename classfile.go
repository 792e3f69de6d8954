// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

// Package classfile parses the JVM classfile binary format (JVMS §4) into
// an in-memory, fully resolved representation, in the manner of a
// disassembler front end: every byte is decoded eagerly, every constant
// pool reference the decoder resolves (names, descriptors, class and
// name-and-type references) is validated, and malformed input fails with a
// typed, positioned error rather than a panic. Indices kept as raw numbers
// (element-value constants, bootstrap method references and arguments, and
// the references between pool entries) are not checked.
package classfile

import (
	"io"
	"os"

	mmap "github.com/edsrzf/mmap-go"

	"github.com/Duckulus/bytecode-parser/internal/log"
)

// ClassMagic is the fixed 4-byte magic number every classfile begins with.
const ClassMagic = 0xCAFEBABE

// defaultMaxConstantPoolEntries bounds constant_pool_count so a corrupt or
// adversarial length field can't force an enormous allocation before a
// single byte of the pool has been validated.
const defaultMaxConstantPoolEntries = 1 << 20

// ClassFile is the fully decoded representation of a single .class file.
type ClassFile struct {
	MinorVersion uint16 `json:"minor_version"`
	MajorVersion uint16 `json:"major_version"`

	ConstantPool ConstantPool `json:"-"`

	AccessFlags AccessFlags `json:"access_flags"`
	ThisClass   ClassRef    `json:"this_class"`
	SuperClass  *ClassRef   `json:"super_class,omitempty"`
	Interfaces  []ClassRef  `json:"interfaces,omitempty"`

	Fields     []Field     `json:"fields,omitempty"`
	Methods    []Method    `json:"methods,omitempty"`
	Attributes []Attribute `json:"attributes,omitempty"`

	// BytesConsumed is the offset one past the last byte belonging to this
	// classfile. Trailing bytes beyond it are not an error (see ParseBytes).
	BytesConsumed int `json:"bytes_consumed"`
}

// Options configures a parse.
type Options struct {
	// MaxConstantPoolEntries bounds the number of constant pool slots
	// (constant_pool_count - 1), by default
	// (defaultMaxConstantPoolEntries).
	MaxConstantPoolEntries uint32

	// MaxElementValueDepth bounds nested annotation / element-value trees,
	// by default (defaultMaxElementValueDepth).
	MaxElementValueDepth int

	// SkipCodeAttributes parses every attribute except Code, storing the
	// raw attribute bytes instead. Useful for metadata-only scans of large
	// archives, by default (false).
	SkipCodeAttributes bool

	// A custom logger.
	Logger log.Logger

	// helper is a *log.Helper built once from Logger, reused by every
	// attribute decoded under this Options instead of being rebuilt (and
	// its messages reformatted) per attribute.
	helper *log.Helper
}

func (o *Options) withDefaults() *Options {
	out := Options{}
	if o != nil {
		out = *o
	}
	if out.MaxConstantPoolEntries == 0 {
		out.MaxConstantPoolEntries = defaultMaxConstantPoolEntries
	}
	if out.MaxElementValueDepth == 0 {
		out.MaxElementValueDepth = defaultMaxElementValueDepth
	}
	out.helper = newHelper(&out)
	return &out
}

// File represents an open classfile, optionally backed by a memory-mapped
// file on disk.
type File struct {
	*ClassFile

	data   []byte
	mm     mmap.MMap
	f      *os.File
	opts   *Options
	logger *log.Helper
}

// New instantiates a File given a path, memory-mapping its contents rather
// than reading them into a fresh buffer.
func New(name string, opts *Options) (*File, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}

	data, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		f.Close()
		return nil, err
	}

	file := &File{
		data: data,
		mm:   data,
		f:    f,
		opts: opts.withDefaults(),
	}
	file.logger = file.opts.helper
	return file, nil
}

// NewBytes instantiates a File from an in-memory buffer.
func NewBytes(data []byte, opts *Options) (*File, error) {
	file := &File{
		data: data,
		opts: opts.withDefaults(),
	}
	file.logger = file.opts.helper
	return file, nil
}

func newHelper(opts *Options) *log.Helper {
	if opts.Logger != nil {
		return log.NewHelper(opts.Logger)
	}
	return log.NewHelper(log.DefaultLogger())
}

// Close releases any resources held by the File, unmapping the backing
// file if one was mapped.
func (f *File) Close() error {
	if f.mm != nil {
		_ = f.mm.Unmap()
	}
	if f.f != nil {
		return f.f.Close()
	}
	return nil
}

// Parse decodes the File's backing buffer in place, populating its
// embedded *ClassFile.
func (f *File) Parse() error {
	cf, err := ParseBytes(f.data, f.opts)
	if err != nil {
		f.logger.Errorf("classfile parsing failed: %v", err)
		return err
	}
	f.ClassFile = cf
	return nil
}

// Parse decodes a classfile from r, buffering it fully before parsing: the
// format's fixed field layout and embedded length prefixes require random
// access within a single classfile's span.
func Parse(r io.Reader, opts *Options) (*ClassFile, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return ParseBytes(data, opts)
}

// ParseBytes decodes a single classfile from data. Trailing bytes past the
// last attribute are ignored; ClassFile.BytesConsumed reports exactly how
// much of data belongs to this classfile.
func ParseBytes(data []byte, opts *Options) (*ClassFile, error) {
	o := opts.withDefaults()

	if len(data) < 10 {
		return nil, ErrTooShort
	}

	c := newCursor(data)

	magic, err := c.readU4()
	if err != nil {
		return nil, err
	}
	if magic != ClassMagic {
		return nil, ErrInvalidMagic
	}

	minorVersion, err := c.readU2()
	if err != nil {
		return nil, err
	}
	majorVersion, err := c.readU2()
	if err != nil {
		return nil, err
	}

	poolCount, err := c.readU2()
	if err != nil {
		return nil, err
	}
	pool, err := parseConstantPool(c, poolCount, o.MaxConstantPoolEntries)
	if err != nil {
		return nil, err
	}

	accessFlags, err := c.readU2()
	if err != nil {
		return nil, err
	}

	thisClassIndex, err := c.readU2()
	if err != nil {
		return nil, err
	}
	thisClass, err := pool.resolveClass(thisClassIndex, c.position())
	if err != nil {
		return nil, err
	}

	superClassOffset := c.position()
	superClassIndex, err := c.readU2()
	if err != nil {
		return nil, err
	}
	var superClass *ClassRef
	if superClassIndex != 0 {
		ref, err := pool.resolveClass(superClassIndex, superClassOffset)
		if err != nil {
			return nil, err
		}
		superClass = &ref
	}

	interfaces, err := parseClassRefList(c, pool)
	if err != nil {
		return nil, err
	}

	fields, err := parseFields(c, pool, o)
	if err != nil {
		return nil, err
	}

	methods, err := parseMethods(c, pool, o)
	if err != nil {
		return nil, err
	}

	attrs, err := parseAttributes(c, pool, o, 0)
	if err != nil {
		return nil, err
	}

	return &ClassFile{
		MinorVersion:  minorVersion,
		MajorVersion:  majorVersion,
		ConstantPool:  pool,
		AccessFlags:   AccessFlags(accessFlags),
		ThisClass:     thisClass,
		SuperClass:    superClass,
		Interfaces:    interfaces,
		Fields:        fields,
		Methods:       methods,
		Attributes:    attrs,
		BytesConsumed: c.position(),
	}, nil
}
