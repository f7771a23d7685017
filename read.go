// Copyright (c) 2026 dataenc
// SPDX-License-Identifier: Apache-2.0
// This file is part of the dataenc library.

package dataenc

import (
	"github.com/dataenc/dataenc/encutils"
)

// Read parses one value of e out of buf[offset : offset+length] and returns
// the number of bytes consumed alongside the value. The length argument is
// the byte budget of the outermost context; variable-kind descriptors consume
// it entirely.
func (c *Codec) Read(e *Encoding, buf []byte, offset, length int) (int, any, error) {
	if offset < 0 || length < 0 || offset+length > len(buf) {
		return 0, nil, encutils.ErrInvalidArgument
	}
	r := encutils.NewReader(buf[offset : offset+length])
	v, err := c.read(e, r)
	if err != nil {
		return 0, nil, err
	}
	return r.Pos(), v, nil
}

func (c *Codec) read(e *Encoding, r *encutils.Reader) (any, error) {
	switch e.typ {
	case encNull, encEmpty, encConstant:
		return nil, nil

	case encIgnore:
		r.ReadAll()
		return nil, nil

	case encBool, encInt8, encUint8, encInt16, encUint16, encInt31, encInt32,
		encInt64, encRangedInt, encFloat, encRangedFloat, encStringEnum:
		raw, err := r.ReadBytes(primitiveSize(e))
		if err != nil {
			return nil, err
		}
		return decodePrimitive(e, raw)

	case encZ:
		return encutils.ReadZ(r)

	case encN:
		return encutils.ReadN(r)

	case encString:
		b, err := c.readRaw(e, r)
		if err != nil {
			return nil, err
		}
		return string(b), nil

	case encBytes:
		b, err := c.readRaw(e, r)
		if err != nil {
			return nil, err
		}
		out := make([]byte, len(b))
		copy(out, b)
		return out, nil

	case encArray, encList:
		items := []any{}
		for r.Remaining() > 0 {
			if err := e.checkSeqLen(len(items) + 1); err != nil {
				return nil, err
			}
			item, err := c.read(e.elem, r)
			if err != nil {
				return nil, err
			}
			items = append(items, item)
		}
		return items, nil

	case encObj:
		return c.readField(e.field, r)

	case encObjs:
		lv, rv, err := c.readPair(e, r)
		if err != nil {
			return nil, err
		}
		return mergeObjValues(lv, rv), nil

	case encTup:
		v, err := c.read(e.elem, r)
		if err != nil {
			return nil, err
		}
		return []any{v}, nil

	case encTups:
		lv, rv, err := c.readPair(e, r)
		if err != nil {
			return nil, err
		}
		return mergeTupValues(lv, rv), nil

	case encUnion:
		var tag int
		if e.tagSize == TagUint8 {
			b, err := r.ReadByte()
			if err != nil {
				return nil, err
			}
			tag = int(b)
		} else {
			u, err := r.ReadUint16()
			if err != nil {
				return nil, err
			}
			tag = int(u)
		}
		uc := e.findCaseByTag(tag)
		if uc == nil {
			return nil, &encutils.UnexpectedTagError{Tag: tag}
		}
		pv, err := c.read(uc.enc, r)
		if err != nil {
			return nil, err
		}
		return uc.inject(pv), nil

	case encConv:
		pv, err := c.read(e.elem, r)
		if err != nil {
			return nil, err
		}
		return e.inject(pv)

	case encDescribe, encDef, encSplitted:
		return c.read(e.elem, r)

	case encDynamicSize:
		n, err := readSizePrefix(r, e.sizeWidth)
		if err != nil {
			return nil, err
		}
		if n > r.Remaining() {
			return nil, encutils.ErrNotEnoughData
		}
		r.PushLimit(n)
		v, err := c.read(e.elem, r)
		if err != nil {
			return nil, err
		}
		if r.PopLimit() != 0 {
			return nil, encutils.ErrExtraBytes
		}
		return v, nil

	case encCheckSize:
		limit, err := c.resolveLimit(e)
		if err != nil {
			return nil, err
		}
		r.PushCheckLimit(limit)
		v, err := c.read(e.elem, r)
		r.PopLimit()
		return v, err

	case encPadded:
		v, err := c.read(e.elem, r)
		if err != nil {
			return nil, err
		}
		if err := r.Skip(e.padding); err != nil {
			return nil, err
		}
		return v, nil

	case encMu:
		return c.read(e.body, r)

	case encDelayed:
		return c.read(e.force(), r)
	}
	return nil, encutils.ErrInvalidArgument
}

func (c *Codec) readRaw(e *Encoding, r *encutils.Reader) ([]byte, error) {
	if e.fixedLen >= 0 {
		return r.ReadBytes(e.fixedLen)
	}
	return r.ReadAll(), nil
}

// readPair decodes the two halves of an Objs/Tups composition. Fixed pairs
// establish an exact context; variable pairs are split so that either the
// right half consumes the trailing context, or a fixed-size right half is
// carved off the end before the variable left half runs.
func (c *Codec) readPair(e *Encoding, r *encutils.Reader) (any, any, error) {
	if n, ok := e.Kind().FixedSize(); ok {
		if n > r.Remaining() {
			return nil, nil, encutils.ErrNotEnoughData
		}
		r.PushLimit(n)
		lv, rv, err := c.readPairPlain(e, r)
		if err != nil {
			return nil, nil, err
		}
		if r.PopLimit() != 0 {
			return nil, nil, encutils.ErrExtraBytes
		}
		return lv, rv, nil
	}

	if e.Kind().IsVariable() && !e.right.Kind().IsVariable() {
		// variable left half, fixed right half
		tail, _ := e.right.Kind().FixedSize()
		if tail > r.Remaining() {
			return nil, nil, encutils.ErrNotEnoughData
		}
		r.PushLimit(r.Remaining() - tail)
		lv, err := c.read(e.left, r)
		if err != nil {
			return nil, nil, err
		}
		if r.PopLimit() != 0 {
			return nil, nil, encutils.ErrExtraBytes
		}
		rv, err := c.read(e.right, r)
		if err != nil {
			return nil, nil, err
		}
		return lv, rv, nil
	}

	return c.readPairPlain(e, r)
}

func (c *Codec) readPairPlain(e *Encoding, r *encutils.Reader) (any, any, error) {
	lv, err := c.read(e.left, r)
	if err != nil {
		return nil, nil, err
	}
	rv, err := c.read(e.right, r)
	if err != nil {
		return nil, nil, err
	}
	return lv, rv, nil
}

func (c *Codec) readField(f *Field, r *encutils.Reader) (any, error) {
	switch f.kind {
	case fieldOpt:
		if f.enc.Kind().IsVariable() {
			if r.Remaining() == 0 {
				return map[string]any{}, nil
			}
			v, err := c.read(f.enc, r)
			if err != nil {
				return nil, err
			}
			return map[string]any{f.name: v}, nil
		}
		flag, err := r.ReadByte()
		if err != nil {
			return nil, err
		}
		if flag == 0 {
			return map[string]any{}, nil
		}
		v, err := c.read(f.enc, r)
		if err != nil {
			return nil, err
		}
		return map[string]any{f.name: v}, nil
	default:
		v, err := c.read(f.enc, r)
		if err != nil {
			return nil, err
		}
		return map[string]any{f.name: v}, nil
	}
}

// readSizePrefix reads a dynamic length prefix. The uint30 width travels as a
// 4-byte signed integer whose negative values are invalid on the wire.
func readSizePrefix(r *encutils.Reader, w SizeWidth) (int, error) {
	switch w {
	case SizeUint8:
		b, err := r.ReadByte()
		if err != nil {
			return 0, err
		}
		return int(b), nil
	case SizeUint16:
		u, err := r.ReadUint16()
		if err != nil {
			return 0, err
		}
		return int(u), nil
	default:
		u, err := r.ReadUint32()
		if err != nil {
			return 0, err
		}
		n := int(int32(u))
		if n < 0 {
			return 0, &encutils.InvalidSizeError{Size: n}
		}
		return n, nil
	}
}
