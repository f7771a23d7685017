// Copyright (c) 2026 dataenc
// SPDX-License-Identifier: Apache-2.0
// This file is part of the dataenc library.

package dataenc

import (
	"errors"

	"github.com/dataenc/dataenc/encutils"
)

// The error taxonomy is itself describable: the unions below serialize the
// errors produced by the interpreters, so failures can travel over the same
// wire as the payloads that caused them.

func sentinelCase(tag int, name string, sentinel error) *UnionCase {
	return Case(tag, name, Null(),
		func(v any) (any, bool) {
			err, ok := v.(error)
			return nil, ok && errors.Is(err, sentinel)
		},
		func(any) any { return sentinel })
}

func invalidIntPayload() *Encoding {
	return Obj3(
		Req("min", Int64()),
		Req("value", Int64()),
		Req("max", Int64()),
	)
}

func invalidIntCase(tag int) *UnionCase {
	return Case(tag, "invalid_int", invalidIntPayload(),
		func(v any) (any, bool) {
			err, ok := v.(*encutils.InvalidIntError)
			if !ok {
				return nil, false
			}
			return map[string]any{"min": err.Min, "value": err.Value, "max": err.Max}, true
		},
		func(v any) any {
			m := v.(map[string]any)
			return &encutils.InvalidIntError{
				Min:   m["min"].(int64),
				Value: m["value"].(int64),
				Max:   m["max"].(int64),
			}
		})
}

func invalidFloatCase(tag int) *UnionCase {
	payload := Obj3(
		Req("min", Float()),
		Req("value", Float()),
		Req("max", Float()),
	)
	return Case(tag, "invalid_float", payload,
		func(v any) (any, bool) {
			err, ok := v.(*encutils.InvalidFloatError)
			if !ok {
				return nil, false
			}
			return map[string]any{"min": err.Min, "value": err.Value, "max": err.Max}, true
		},
		func(v any) any {
			m := v.(map[string]any)
			return &encutils.InvalidFloatError{
				Min:   m["min"].(float64),
				Value: m["value"].(float64),
				Max:   m["max"].(float64),
			}
		})
}

// ReadErrorEncoding describes the errors the readers produce.
func ReadErrorEncoding() *Encoding {
	return Def("read_error", Union(TagUint8,
		sentinelCase(0, "not_enough_data", encutils.ErrNotEnoughData),
		sentinelCase(1, "extra_bytes", encutils.ErrExtraBytes),
		sentinelCase(2, "no_case_matched", encutils.ErrNoCaseMatched),
		Case(3, "unexpected_tag", Obj1(Req("tag", Int31())),
			func(v any) (any, bool) {
				err, ok := v.(*encutils.UnexpectedTagError)
				if !ok {
					return nil, false
				}
				return map[string]any{"tag": int64(err.Tag)}, true
			},
			func(v any) any {
				m := v.(map[string]any)
				return &encutils.UnexpectedTagError{Tag: int(m["tag"].(int64))}
			}),
		Case(4, "invalid_size", Obj1(Req("size", Int64())),
			func(v any) (any, bool) {
				err, ok := v.(*encutils.InvalidSizeError)
				if !ok {
					return nil, false
				}
				return map[string]any{"size": int64(err.Size)}, true
			},
			func(v any) any {
				m := v.(map[string]any)
				return &encutils.InvalidSizeError{Size: int(m["size"].(int64))}
			}),
		invalidIntCase(5),
		invalidFloatCase(6),
		sentinelCase(7, "trailing_zero", encutils.ErrTrailingZero),
		sentinelCase(8, "size_limit_exceeded", encutils.ErrSizeLimitExceeded),
		sentinelCase(9, "list_too_long", encutils.ErrListTooLong),
		sentinelCase(10, "array_too_long", encutils.ErrArrayTooLong),
	))
}

// WriteErrorEncoding describes the errors the writer produces. The
// string-length and bytes-length cases use distinct injectors.
func WriteErrorEncoding() *Encoding {
	lengthPayload := func() *Encoding {
		return Obj2(
			Req("expected", Int31()),
			Req("found", Int31()),
		)
	}
	return Def("write_error", Union(TagUint8,
		sentinelCase(0, "size_limit_exceeded", encutils.ErrSizeLimitExceeded),
		sentinelCase(1, "no_case_matched", encutils.ErrNoCaseMatched),
		invalidIntCase(2),
		invalidFloatCase(3),
		Case(4, "invalid_bytes_length", lengthPayload(),
			func(v any) (any, bool) {
				err, ok := v.(*encutils.InvalidBytesLengthError)
				if !ok {
					return nil, false
				}
				return map[string]any{"expected": int64(err.Expected), "found": int64(err.Found)}, true
			},
			func(v any) any {
				m := v.(map[string]any)
				return &encutils.InvalidBytesLengthError{
					Expected: int(m["expected"].(int64)),
					Found:    int(m["found"].(int64)),
				}
			}),
		Case(5, "invalid_string_length", lengthPayload(),
			func(v any) (any, bool) {
				err, ok := v.(*encutils.InvalidStringLengthError)
				if !ok {
					return nil, false
				}
				return map[string]any{"expected": int64(err.Expected), "found": int64(err.Found)}, true
			},
			func(v any) any {
				m := v.(map[string]any)
				return &encutils.InvalidStringLengthError{
					Expected: int(m["expected"].(int64)),
					Found:    int(m["found"].(int64)),
				}
			}),
		sentinelCase(6, "invalid_natural", encutils.ErrInvalidNatural),
		sentinelCase(7, "list_too_long", encutils.ErrListTooLong),
		sentinelCase(8, "array_too_long", encutils.ErrArrayTooLong),
	))
}
