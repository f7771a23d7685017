// Copyright (c) 2026 dataenc
// SPDX-License-Identifier: Apache-2.0
// This file is part of the dataenc library.

// Package dataenc provides typed binary encoding combinators: descriptors
// built by composition that drive exact size computation, serialization,
// one-shot deserialization and incremental (streaming) deserialization of a
// compact, tagless wire format.
package dataenc

import (
	"fmt"
	"sync"

	"github.com/dataenc/dataenc/encutils"
)

// encType tags the variant of a descriptor node.
type encType uint8

const (
	encNull encType = iota
	encEmpty
	encIgnore
	encConstant
	encBool
	encInt8
	encUint8
	encInt16
	encUint16
	encInt31
	encInt32
	encInt64
	encRangedInt
	encFloat
	encRangedFloat
	encZ
	encN
	encString
	encBytes
	encStringEnum
	encArray
	encList
	encObj
	encObjs
	encTup
	encTups
	encUnion
	encMu
	encConv
	encDescribe
	encDef
	encSplitted
	encDynamicSize
	encCheckSize
	encPadded
	encDelayed
)

// KindType discriminates the three self-delimitation classes of a binary form.
type KindType uint8

const (
	// KindFixed descriptors serialize to the same byte length for every value.
	KindFixed KindType = iota
	// KindDynamic descriptors vary in length but are self-delimiting.
	KindDynamic
	// KindVariable descriptors vary in length and need an outer context bound
	// to know where they stop.
	KindVariable
)

// Kind classifies the binary shape of a descriptor.
type Kind struct {
	typ  KindType
	size int
}

// FixedKind builds the kind of a descriptor whose binary form is always n bytes.
func FixedKind(n int) Kind {
	return Kind{typ: KindFixed, size: n}
}

var (
	DynamicKind  = Kind{typ: KindDynamic}
	VariableKind = Kind{typ: KindVariable}
)

func (k Kind) Type() KindType   { return k.typ }
func (k Kind) IsFixed() bool    { return k.typ == KindFixed }
func (k Kind) IsDynamic() bool  { return k.typ == KindDynamic }
func (k Kind) IsVariable() bool { return k.typ == KindVariable }

// FixedSize returns the byte length of a fixed kind.
func (k Kind) FixedSize() (int, bool) {
	if k.typ == KindFixed {
		return k.size, true
	}
	return 0, false
}

func (k Kind) String() string {
	switch k.typ {
	case KindFixed:
		return fmt.Sprintf("fixed(%d)", k.size)
	case KindDynamic:
		return "dynamic"
	default:
		return "variable"
	}
}

// TagSize is the byte width of a union tag.
type TagSize uint8

const (
	TagUint8  TagSize = 1
	TagUint16 TagSize = 2
)

func (t TagSize) maxTag() int {
	return 1<<(8*int(t)) - 1
}

// SizeWidth is the byte width of a dynamic length prefix.
type SizeWidth uint8

const (
	SizeUint8 SizeWidth = iota
	SizeUint16
	// SizeUint30 is serialized as a 4-byte signed big-endian integer whose
	// negative values are invalid on the wire.
	SizeUint30
)

func (w SizeWidth) bytes() int {
	switch w {
	case SizeUint8:
		return 1
	case SizeUint16:
		return 2
	default:
		return 4
	}
}

func (w SizeWidth) maxSize() int {
	switch w {
	case SizeUint8:
		return 0xff
	case SizeUint16:
		return 0xffff
	default:
		return 1<<30 - 1
	}
}

// intWidth identifies the serialized representation chosen for a ranged integer.
type intWidth uint8

const (
	widthInt8 intWidth = iota
	widthUint8
	widthInt16
	widthUint16
	widthInt31
)

func (w intWidth) size() int {
	switch w {
	case widthInt8, widthUint8:
		return 1
	case widthInt16, widthUint16:
		return 2
	default:
		return 4
	}
}

// fieldKind discriminates object field flavors.
type fieldKind uint8

const (
	fieldReq fieldKind = iota
	fieldOpt
	fieldDft
)

// Field describes a single named component of an object-shaped descriptor.
// Object values are map[string]any keyed by field name; optional fields are
// absent from the map when missing.
type Field struct {
	kind fieldKind
	name string
	enc  *Encoding
	dflt any
}

// Name returns the field's name in the structured-text rendering.
func (f *Field) Name() string { return f.name }

// UnionCase associates a numeric tag with a payload descriptor and the
// projection/injection pair bridging the host value and the payload value.
type UnionCase struct {
	name     string
	tag      int
	textOnly bool
	enc      *Encoding
	project  func(any) (any, bool)
	inject   func(any) any
}

// Name returns the case name.
func (c *UnionCase) Name() string { return c.name }

// EnumCase pairs a textual label with the host value it stands for.
type EnumCase struct {
	Label string
	Value any
}

// Encoding is a descriptor for values of some host type. Descriptors are
// immutable after construction and freely shareable between goroutines; the
// smart constructors reject ill-formed compositions by panicking with a
// *encutils.ConstructionError.
type Encoding struct {
	typ  encType
	kind Kind

	// ranged integers / floats
	intMin, intMax int64
	width          intWidth
	fltMin, fltMax float64

	// constant / documentation / recursion name
	str         string
	title       string
	description string

	// fixed-length strings and bytes
	fixedLen int

	// enum
	enumCases []EnumCase

	// sequences
	elem   *Encoding
	maxLen int // -1 when unbounded

	// pair composition
	left, right *Encoding

	// single object field
	field *Field

	// union
	tagSize TagSize
	cases   []*UnionCase

	// conversion
	project func(any) (any, error)
	inject  func(any) (any, error)

	// recursion and laziness
	body     *Encoding // resolved Mu body
	delayed  func() *Encoding
	once     *sync.Once
	resolved *Encoding

	// size framing
	sizeWidth SizeWidth
	limit     int
	specExpr  string // non-empty: limit resolved from codec spec values

	// padding
	padding int

	// splitted
	binary, text *Encoding

	// cached shape information
	objShaped bool
	tupShaped bool
	arity     int // tuple arity; -1 when not tuple-shaped
}

// Kind returns the descriptor's classification. Delayed descriptors are
// forced on first use.
func (e *Encoding) Kind() Kind {
	if e.typ == encDelayed {
		return e.force().Kind()
	}
	return e.kind
}

// Classify returns Fixed(n), Dynamic or Variable for the descriptor's binary
// form. The classification is computed once, at construction.
func Classify(e *Encoding) Kind {
	return e.Kind()
}

// FixedLength returns the exact serialized length of the descriptor when its
// kind is fixed.
func FixedLength(e *Encoding) (int, bool) {
	return e.Kind().FixedSize()
}

func (e *Encoding) force() *Encoding {
	e.once.Do(func() {
		e.resolved = e.delayed()
	})
	return e.resolved
}

func badf(format string, args ...any) {
	panic(&encutils.ConstructionError{Msg: fmt.Sprintf(format, args...)})
}
