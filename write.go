// Copyright (c) 2026 dataenc
// SPDX-License-Identifier: Apache-2.0
// This file is part of the dataenc library.

package dataenc

import (
	"math"

	"github.com/dataenc/dataenc/encutils"
)

// Write serializes v under e into buf starting at offset and returns the
// offset past the last byte written. Callers pre-size buf using Size; a
// failed write leaves the buffer contents unspecified.
func (c *Codec) Write(e *Encoding, v any, buf []byte, offset int) (int, error) {
	if offset < 0 || offset > len(buf) {
		return 0, encutils.ErrInvalidArgument
	}
	w := encutils.NewWriter(buf, offset)
	if err := c.write(e, v, w); err != nil {
		return 0, err
	}
	return w.Pos(), nil
}

func (c *Codec) write(e *Encoding, v any, w *encutils.Writer) error {
	switch e.typ {
	case encNull, encEmpty, encConstant, encIgnore:
		return nil

	case encBool:
		b, err := boolValue(v)
		if err != nil {
			return err
		}
		if b {
			return w.WriteByte(1)
		}
		return w.WriteByte(0)

	case encInt8:
		return c.writeInt(v, w, widthInt8, math.MinInt8, math.MaxInt8)
	case encUint8:
		return c.writeInt(v, w, widthUint8, 0, math.MaxUint8)
	case encInt16:
		return c.writeInt(v, w, widthInt16, math.MinInt16, math.MaxInt16)
	case encUint16:
		return c.writeInt(v, w, widthUint16, 0, math.MaxUint16)
	case encInt31:
		return c.writeInt(v, w, widthInt31, minInt31, maxInt31)
	case encInt32:
		i, err := intValue(v)
		if err != nil {
			return err
		}
		if i < math.MinInt32 || i > math.MaxInt32 {
			return &encutils.InvalidIntError{Min: math.MinInt32, Value: i, Max: math.MaxInt32}
		}
		return w.WriteUint32(uint32(int32(i)))
	case encInt64:
		i, err := intValue(v)
		if err != nil {
			return err
		}
		return w.WriteUint64(uint64(i))

	case encRangedInt:
		i, err := intValue(v)
		if err != nil {
			return err
		}
		if i < e.intMin || i > e.intMax {
			return &encutils.InvalidIntError{Min: e.intMin, Value: i, Max: e.intMax}
		}
		if e.intMin > 0 {
			i -= e.intMin
		}
		return writeIntWidth(w, e.width, i)

	case encFloat:
		f, err := floatValue(v)
		if err != nil {
			return err
		}
		return w.WriteUint64(math.Float64bits(f))

	case encRangedFloat:
		f, err := floatValue(v)
		if err != nil {
			return err
		}
		if f < e.fltMin || f > e.fltMax {
			return &encutils.InvalidFloatError{Min: e.fltMin, Value: f, Max: e.fltMax}
		}
		return w.WriteUint64(math.Float64bits(f))

	case encZ:
		z, err := bigValue(v)
		if err != nil {
			return err
		}
		return encutils.WriteZ(w, z)

	case encN:
		z, err := bigValue(v)
		if err != nil {
			return err
		}
		return encutils.WriteN(w, z)

	case encString:
		s, err := stringValue(v)
		if err != nil {
			return err
		}
		if e.fixedLen >= 0 && len(s) != e.fixedLen {
			return &encutils.InvalidStringLengthError{Expected: e.fixedLen, Found: len(s)}
		}
		return w.WriteBytes([]byte(s))

	case encBytes:
		b, err := bytesValue(v)
		if err != nil {
			return err
		}
		if e.fixedLen >= 0 && len(b) != e.fixedLen {
			return &encutils.InvalidBytesLengthError{Expected: e.fixedLen, Found: len(b)}
		}
		return w.WriteBytes(b)

	case encStringEnum:
		idx, ok := enumIndex(e, v)
		if !ok {
			return encutils.ErrNoCaseMatched
		}
		switch enumIndexSize(len(e.enumCases)) {
		case 1:
			return w.WriteByte(byte(idx))
		case 2:
			return w.WriteUint16(uint16(idx))
		default:
			return w.WriteUint32(uint32(idx))
		}

	case encArray, encList:
		items, err := sliceValue(v)
		if err != nil {
			return err
		}
		if err := e.checkSeqLen(len(items)); err != nil {
			return err
		}
		for _, item := range items {
			if err := c.write(e.elem, item, w); err != nil {
				return err
			}
		}
		return nil

	case encObj:
		return c.writeField(e.field, v, w)

	case encObjs:
		if err := c.write(e.left, v, w); err != nil {
			return err
		}
		return c.write(e.right, v, w)

	case encTup:
		item, err := tupItem(v, 0)
		if err != nil {
			return err
		}
		return c.write(e.elem, item, w)

	case encTups:
		lv, rv, err := splitTupValue(e, v)
		if err != nil {
			return err
		}
		if err := c.write(e.left, lv, w); err != nil {
			return err
		}
		return c.write(e.right, rv, w)

	case encUnion:
		uc, pv := e.matchCase(v)
		if uc == nil {
			return encutils.ErrNoCaseMatched
		}
		if e.tagSize == TagUint8 {
			if err := w.WriteByte(byte(uc.tag)); err != nil {
				return err
			}
		} else if err := w.WriteUint16(uint16(uc.tag)); err != nil {
			return err
		}
		return c.write(uc.enc, pv, w)

	case encConv:
		pv, err := e.project(v)
		if err != nil {
			return err
		}
		return c.write(e.elem, pv, w)

	case encDescribe, encDef, encSplitted:
		return c.write(e.elem, v, w)

	case encDynamicSize:
		width := e.sizeWidth.bytes()
		at, err := w.Reserve(width)
		if err != nil {
			return err
		}
		if err := c.write(e.elem, v, w); err != nil {
			return err
		}
		n := w.Pos() - at - width
		if n > e.sizeWidth.maxSize() {
			return &encutils.InvalidSizeError{Size: n}
		}
		switch e.sizeWidth {
		case SizeUint8:
			w.PatchByte(at, byte(n))
		case SizeUint16:
			w.PatchUint16(at, uint16(n))
		default:
			w.PatchUint32(at, uint32(n))
		}
		return nil

	case encCheckSize:
		limit, err := c.resolveLimit(e)
		if err != nil {
			return err
		}
		start := w.Pos()
		if err := c.write(e.elem, v, w); err != nil {
			return err
		}
		if w.Pos()-start > limit {
			return encutils.ErrSizeLimitExceeded
		}
		return nil

	case encPadded:
		if err := c.write(e.elem, v, w); err != nil {
			return err
		}
		return w.WriteZeros(e.padding)

	case encMu:
		return c.write(e.body, v, w)

	case encDelayed:
		return c.write(e.force(), v, w)
	}
	return encutils.ErrInvalidArgument
}

func (c *Codec) writeInt(v any, w *encutils.Writer, width intWidth, min, max int64) error {
	i, err := intValue(v)
	if err != nil {
		return err
	}
	if i < min || i > max {
		return &encutils.InvalidIntError{Min: min, Value: i, Max: max}
	}
	return writeIntWidth(w, width, i)
}

func writeIntWidth(w *encutils.Writer, width intWidth, i int64) error {
	switch width {
	case widthInt8:
		return w.WriteByte(byte(int8(i)))
	case widthUint8:
		return w.WriteByte(byte(i))
	case widthInt16:
		return w.WriteUint16(uint16(int16(i)))
	case widthUint16:
		return w.WriteUint16(uint16(i))
	default:
		return w.WriteUint32(uint32(int32(i)))
	}
}

func (c *Codec) writeField(f *Field, v any, w *encutils.Writer) error {
	fv, present, err := fieldValue(f, v)
	if err != nil {
		return err
	}
	switch f.kind {
	case fieldOpt:
		if f.enc.Kind().IsVariable() {
			if !present {
				return nil
			}
			return c.write(f.enc, fv, w)
		}
		if !present {
			return w.WriteByte(0)
		}
		if err := w.WriteByte(1); err != nil {
			return err
		}
		return c.write(f.enc, fv, w)
	default:
		return c.write(f.enc, fv, w)
	}
}
