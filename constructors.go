// Copyright (c) 2026 dataenc
// SPDX-License-Identifier: Apache-2.0
// This file is part of the dataenc library.

package dataenc

import (
	"sync"
)

const (
	// Int31 and ranged integer bounds.
	minInt31 = -(1 << 30)
	maxInt31 = 1<<30 - 1
)

func newEncoding(typ encType, kind Kind) *Encoding {
	return &Encoding{typ: typ, kind: kind, maxLen: -1, arity: -1}
}

// Null describes the unit value; its binary form is empty.
func Null() *Encoding {
	return newEncoding(encNull, FixedKind(0))
}

// Empty describes the unit value and is object- and tuple-shaped, so it can
// take part in merges without contributing bytes or fields.
func Empty() *Encoding {
	e := newEncoding(encEmpty, FixedKind(0))
	e.arity = 0
	return e
}

// Ignore writes nothing and consumes the remainder of its context on read.
func Ignore() *Encoding {
	e := newEncoding(encIgnore, VariableKind)
	e.arity = 0
	return e
}

// Constant carries a fixed string for the structured-text rendering; its
// binary form is empty.
func Constant(s string) *Encoding {
	e := newEncoding(encConstant, FixedKind(0))
	e.str = s
	return e
}

// Bool describes a boolean serialized as one byte; zero is false, any
// non-zero byte reads as true, the writer emits 0x01.
func Bool() *Encoding {
	return newEncoding(encBool, FixedKind(1))
}

// Int8 describes a signed 8-bit integer. Values are int64 on the host side,
// as for every integer descriptor.
func Int8() *Encoding {
	return newEncoding(encInt8, FixedKind(1))
}

// Uint8 describes an unsigned 8-bit integer.
func Uint8() *Encoding {
	return newEncoding(encUint8, FixedKind(1))
}

// Int16 describes a signed big-endian 16-bit integer.
func Int16() *Encoding {
	return newEncoding(encInt16, FixedKind(2))
}

// Uint16 describes an unsigned big-endian 16-bit integer.
func Uint16() *Encoding {
	return newEncoding(encUint16, FixedKind(2))
}

// Int31 describes a signed integer in [-2^30, 2^30-1], serialized as a
// 32-bit big-endian signed integer.
func Int31() *Encoding {
	return newEncoding(encInt31, FixedKind(4))
}

// Int32 describes a signed big-endian 32-bit integer.
func Int32() *Encoding {
	return newEncoding(encInt32, FixedKind(4))
}

// Int64 describes a signed big-endian 64-bit integer.
func Int64() *Encoding {
	return newEncoding(encInt64, FixedKind(8))
}

// RangedInt describes an integer in [min, max], serialized in the smallest
// width that holds the range. Ranges lying entirely above zero use an
// unsigned offset encoding: the writer subtracts min, the reader adds it
// back. Bounds are swapped when given in the wrong order and must fit
// [-2^30, 2^30-1].
func RangedInt(min, max int64) *Encoding {
	if min > max {
		min, max = max, min
	}
	if min < minInt31 || max > maxInt31 {
		badf("ranged int bounds [%d, %d] exceed [-2^30, 2^30-1]", min, max)
	}
	w := rangedWidth(min, max)
	e := newEncoding(encRangedInt, FixedKind(w.size()))
	e.intMin, e.intMax = min, max
	e.width = w
	return e
}

func rangedWidth(min, max int64) intWidth {
	lo, hi := min, max
	if min > 0 {
		lo, hi = 0, max-min
	}
	switch {
	case lo >= 0 && hi <= 0xff:
		return widthUint8
	case lo >= -0x80 && hi <= 0x7f:
		return widthInt8
	case lo >= 0 && hi <= 0xffff:
		return widthUint16
	case lo >= -0x8000 && hi <= 0x7fff:
		return widthInt16
	}
	return widthInt31
}

// Float describes an IEEE-754 binary64 in network byte order.
func Float() *Encoding {
	return newEncoding(encFloat, FixedKind(8))
}

// RangedFloat describes a binary64 with a range check applied after reading
// and before writing.
func RangedFloat(min, max float64) *Encoding {
	if min > max {
		min, max = max, min
	}
	e := newEncoding(encRangedFloat, FixedKind(8))
	e.fltMin, e.fltMax = min, max
	return e
}

// Z describes an arbitrary-precision signed integer (host type *big.Int).
func Z() *Encoding {
	return newEncoding(encZ, DynamicKind)
}

// N describes an arbitrary-precision non-negative integer (host type *big.Int).
func N() *Encoding {
	return newEncoding(encN, DynamicKind)
}

// FixedString describes a string of exactly n bytes.
func FixedString(n int) *Encoding {
	if n < 0 {
		badf("fixed string length %d is negative", n)
	}
	e := newEncoding(encString, FixedKind(n))
	e.fixedLen = n
	return e
}

// VariableString describes a string spanning the remainder of its context.
func VariableString() *Encoding {
	e := newEncoding(encString, VariableKind)
	e.fixedLen = -1
	return e
}

// FixedBytes describes a byte sequence of exactly n bytes.
func FixedBytes(n int) *Encoding {
	if n < 0 {
		badf("fixed bytes length %d is negative", n)
	}
	e := newEncoding(encBytes, FixedKind(n))
	e.fixedLen = n
	return e
}

// VariableBytes describes a byte sequence spanning the remainder of its context.
func VariableBytes() *Encoding {
	e := newEncoding(encBytes, VariableKind)
	e.fixedLen = -1
	return e
}

// String describes a string carrying its own length: a uint30 prefix followed
// by the raw bytes. This is the common object-field form.
func String() *Encoding {
	return DynamicSize(SizeUint30, VariableString())
}

// Bytes describes a byte sequence carrying its own length in a uint30 prefix.
func Bytes() *Encoding {
	return DynamicSize(SizeUint30, VariableBytes())
}

// StringEnum describes a value from a closed set, serialized as an unsigned
// index of the minimum width addressing the set. At least two cases are
// required and labels must be distinct.
func StringEnum(cases ...EnumCase) *Encoding {
	if len(cases) < 2 {
		badf("string enum needs at least 2 cases, got %d", len(cases))
	}
	seen := make(map[string]struct{}, len(cases))
	for _, c := range cases {
		if _, dup := seen[c.Label]; dup {
			badf("string enum label %q is duplicated", c.Label)
		}
		seen[c.Label] = struct{}{}
	}
	e := newEncoding(encStringEnum, FixedKind(enumIndexSize(len(cases))))
	e.enumCases = cases
	return e
}

func enumIndexSize(n int) int {
	switch {
	case n <= 1<<8:
		return 1
	case n <= 1<<16:
		return 2
	}
	return 4
}

// Array describes a homogeneous sequence ([]any on the host side) with no
// framing; it spans the remainder of its context. Elements must be fixed or
// dynamic kind and non-empty, or the parser could not make progress.
func Array(elem *Encoding) *Encoding {
	return sequence(encArray, elem, -1)
}

// ArrayMax is Array with an element count bound, enforced on write and read.
func ArrayMax(elem *Encoding, maxLen int) *Encoding {
	if maxLen < 0 {
		badf("array max length %d is negative", maxLen)
	}
	return sequence(encArray, elem, maxLen)
}

// List describes a homogeneous sequence with no framing, like Array. The two
// differ only in their structured-text rendering.
func List(elem *Encoding) *Encoding {
	return sequence(encList, elem, -1)
}

// ListMax is List with an element count bound, enforced on write and read.
func ListMax(elem *Encoding, maxLen int) *Encoding {
	if maxLen < 0 {
		badf("list max length %d is negative", maxLen)
	}
	return sequence(encList, elem, maxLen)
}

func sequence(typ encType, elem *Encoding, maxLen int) *Encoding {
	k := elem.Kind()
	if k.IsVariable() {
		badf("sequence elements cannot be variable-kind; wrap the element in DynamicSize")
	}
	if n, ok := k.FixedSize(); ok && n == 0 {
		badf("sequence elements cannot be zero-size")
	}
	e := newEncoding(typ, VariableKind)
	e.elem = elem
	e.maxLen = maxLen
	return e
}

// Conv wraps a descriptor with an isomorphism to another host type: project
// maps the outer host value to the inner one before writing, inject maps the
// inner value back after reading.
func Conv(project func(any) (any, error), inject func(any) (any, error), inner *Encoding) *Encoding {
	if project == nil || inject == nil {
		badf("conv projection and injection must both be set")
	}
	e := newEncoding(encConv, inner.Kind())
	e.project = project
	e.inject = inject
	e.elem = inner
	return e.inheritShape(inner)
}

// Describe attaches a title and description for documentation purposes.
func Describe(title, description string, inner *Encoding) *Encoding {
	e := newEncoding(encDescribe, inner.Kind())
	e.title = title
	e.description = description
	e.elem = inner
	return e.inheritShape(inner)
}

// Def names a descriptor for schema references.
func Def(name string, inner *Encoding) *Encoding {
	if name == "" {
		badf("def name must not be empty")
	}
	e := newEncoding(encDef, inner.Kind())
	e.str = name
	e.elem = inner
	return e.inheritShape(inner)
}

// Splitted uses different descriptors for the binary and structured-text
// backends. The binary interpreters only ever consult the binary side.
func Splitted(binary, text *Encoding) *Encoding {
	e := newEncoding(encSplitted, binary.Kind())
	e.binary = binary
	e.text = text
	e.elem = binary
	return e.inheritShape(binary)
}

// DynamicSize prefixes the inner descriptor with its byte length, making any
// descriptor self-delimiting.
func DynamicSize(width SizeWidth, inner *Encoding) *Encoding {
	e := newEncoding(encDynamicSize, DynamicKind)
	e.sizeWidth = width
	e.elem = inner
	return e.inheritShape(inner)
}

// DynamicSizeSpec is DynamicSize with an additional upper bound resolved from
// the codec's spec values by evaluating expr, e.g. "MAX_OPERATION_SIZE * 2".
func DynamicSizeSpec(width SizeWidth, expr string, inner *Encoding) *Encoding {
	if expr == "" {
		badf("dynamic size spec expression must not be empty")
	}
	e := DynamicSize(width, CheckSizeSpec(expr, inner))
	return e
}

// CheckSize refuses to write, and fails to read, payloads of the inner
// descriptor larger than limit bytes.
func CheckSize(limit int, inner *Encoding) *Encoding {
	if limit < 0 {
		badf("check size limit %d is negative", limit)
	}
	e := newEncoding(encCheckSize, inner.Kind())
	e.limit = limit
	e.elem = inner
	return e.inheritShape(inner)
}

// CheckSizeSpec is CheckSize with the limit resolved from the codec's spec
// values by evaluating expr at first use.
func CheckSizeSpec(expr string, inner *Encoding) *Encoding {
	if expr == "" {
		badf("check size spec expression must not be empty")
	}
	e := newEncoding(encCheckSize, inner.Kind())
	e.specExpr = expr
	e.elem = inner
	return e.inheritShape(inner)
}

// Padded appends n zero bytes after the inner descriptor. The inner
// descriptor must be self-delimiting, or the padding could not be found.
func Padded(inner *Encoding, n int) *Encoding {
	if n < 0 {
		badf("padding %d is negative", n)
	}
	k := inner.Kind()
	if k.IsVariable() {
		badf("cannot pad a variable-kind descriptor")
	}
	var kind Kind
	if sz, ok := k.FixedSize(); ok {
		kind = FixedKind(sz + n)
	} else {
		kind = DynamicKind
	}
	e := newEncoding(encPadded, kind)
	e.elem = inner
	e.padding = n
	return e
}

// Delayed defers construction of the inner descriptor until first use. The
// thunk runs at most once, even under concurrent first touch.
func Delayed(f func() *Encoding) *Encoding {
	if f == nil {
		badf("delayed thunk must not be nil")
	}
	e := newEncoding(encDelayed, Kind{})
	e.delayed = f
	e.once = new(sync.Once)
	return e
}
