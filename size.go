// Copyright (c) 2026 dataenc
// SPDX-License-Identifier: Apache-2.0
// This file is part of the dataenc library.

package dataenc

import (
	"math/big"

	"github.com/dataenc/dataenc/encutils"
)

// Size returns the exact number of bytes Write produces for v under e.
//
// Fixed-kind leaf descriptors (integers, floats, fixed-length strings and
// bytes) answer without inspecting the value, so their range and length
// violations are reported by Write only. Everything else walks the descriptor
// and the value in lockstep and reports the value errors Write would for
// those nodes (no matching union or enum case, negative naturals, size
// limits, ...), which makes it the pre-flight check for buffer allocation.
func (c *Codec) Size(e *Encoding, v any) (int, error) {
	return c.size(e, v)
}

func (c *Codec) size(e *Encoding, v any) (int, error) {
	if n, ok := e.Kind().FixedSize(); ok && !needsValueSize(e) {
		return n, nil
	}

	switch e.typ {
	case encNull, encEmpty, encConstant, encIgnore:
		return 0, nil

	case encZ:
		z, err := bigValue(v)
		if err != nil {
			return 0, err
		}
		return encutils.ZSize(z), nil

	case encN:
		z, err := bigValue(v)
		if err != nil {
			return 0, err
		}
		if z.Sign() < 0 {
			return 0, encutils.ErrInvalidNatural
		}
		return encutils.NSize(z), nil

	case encString:
		s, err := stringValue(v)
		if err != nil {
			return 0, err
		}
		if e.fixedLen >= 0 && len(s) != e.fixedLen {
			return 0, &encutils.InvalidStringLengthError{Expected: e.fixedLen, Found: len(s)}
		}
		return len(s), nil

	case encBytes:
		b, err := bytesValue(v)
		if err != nil {
			return 0, err
		}
		if e.fixedLen >= 0 && len(b) != e.fixedLen {
			return 0, &encutils.InvalidBytesLengthError{Expected: e.fixedLen, Found: len(b)}
		}
		return len(b), nil

	case encStringEnum:
		if _, ok := enumIndex(e, v); !ok {
			return 0, encutils.ErrNoCaseMatched
		}
		return enumIndexSize(len(e.enumCases)), nil

	case encArray, encList:
		items, err := sliceValue(v)
		if err != nil {
			return 0, err
		}
		if err := e.checkSeqLen(len(items)); err != nil {
			return 0, err
		}
		total := 0
		for _, item := range items {
			n, err := c.size(e.elem, item)
			if err != nil {
				return 0, err
			}
			total += n
		}
		return total, nil

	case encObj:
		return c.sizeField(e.field, v)

	case encObjs:
		ln, err := c.size(e.left, v)
		if err != nil {
			return 0, err
		}
		rn, err := c.size(e.right, v)
		if err != nil {
			return 0, err
		}
		return ln + rn, nil

	case encTup:
		item, err := tupItem(v, 0)
		if err != nil {
			return 0, err
		}
		return c.size(e.elem, item)

	case encTups:
		lv, rv, err := splitTupValue(e, v)
		if err != nil {
			return 0, err
		}
		ln, err := c.size(e.left, lv)
		if err != nil {
			return 0, err
		}
		rn, err := c.size(e.right, rv)
		if err != nil {
			return 0, err
		}
		return ln + rn, nil

	case encUnion:
		uc, pv := e.matchCase(v)
		if uc == nil {
			return 0, encutils.ErrNoCaseMatched
		}
		n, err := c.size(uc.enc, pv)
		if err != nil {
			return 0, err
		}
		return int(e.tagSize) + n, nil

	case encConv:
		pv, err := e.project(v)
		if err != nil {
			return 0, err
		}
		return c.size(e.elem, pv)

	case encDescribe, encDef, encSplitted:
		return c.size(e.elem, v)

	case encDynamicSize:
		n, err := c.size(e.elem, v)
		if err != nil {
			return 0, err
		}
		return e.sizeWidth.bytes() + n, nil

	case encCheckSize:
		limit, err := c.resolveLimit(e)
		if err != nil {
			return 0, err
		}
		n, err := c.size(e.elem, v)
		if err != nil {
			return 0, err
		}
		if n > limit {
			return 0, encutils.ErrSizeLimitExceeded
		}
		return n, nil

	case encPadded:
		n, err := c.size(e.elem, v)
		if err != nil {
			return 0, err
		}
		return n + e.padding, nil

	case encMu:
		return c.size(e.body, v)

	case encDelayed:
		return c.size(e.force(), v)
	}

	// fixed-kind primitives fall through to the fast path above
	n, _ := e.Kind().FixedSize()
	return n, nil
}

// needsValueSize reports whether a fixed-kind node still has to inspect the
// value (a fixed-size conv still projects, a check still checks).
func needsValueSize(e *Encoding) bool {
	switch e.typ {
	case encConv, encCheckSize, encObj, encObjs, encTup, encTups,
		encDescribe, encDef, encSplitted, encMu, encDelayed, encPadded,
		encUnion, encStringEnum:
		return true
	}
	return false
}

func (c *Codec) sizeField(f *Field, v any) (int, error) {
	fv, present, err := fieldValue(f, v)
	if err != nil {
		return 0, err
	}
	switch f.kind {
	case fieldOpt:
		if f.enc.Kind().IsVariable() {
			if !present {
				return 0, nil
			}
			return c.size(f.enc, fv)
		}
		if !present {
			return 1, nil
		}
		n, err := c.size(f.enc, fv)
		if err != nil {
			return 0, err
		}
		return 1 + n, nil
	default:
		return c.size(f.enc, fv)
	}
}

func (e *Encoding) checkSeqLen(n int) error {
	if e.maxLen >= 0 && n > e.maxLen {
		if e.typ == encArray {
			return encutils.ErrArrayTooLong
		}
		return encutils.ErrListTooLong
	}
	return nil
}

// matchCase finds the first binary case whose projection applies.
func (e *Encoding) matchCase(v any) (*UnionCase, any) {
	for _, uc := range e.cases {
		if uc.textOnly {
			continue
		}
		if pv, ok := uc.project(v); ok {
			return uc, pv
		}
	}
	return nil, nil
}

func bigValue(v any) (*big.Int, error) {
	switch x := v.(type) {
	case *big.Int:
		return x, nil
	case int64:
		return big.NewInt(x), nil
	case int:
		return big.NewInt(int64(x)), nil
	}
	return nil, typeError("*big.Int", v)
}
