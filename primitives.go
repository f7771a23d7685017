// Copyright (c) 2026 dataenc
// SPDX-License-Identifier: Apache-2.0
// This file is part of the dataenc library.

package dataenc

import (
	"encoding/binary"
	"math"

	"github.com/dataenc/dataenc/encutils"
)

// isFixedPrimitive reports whether the node decodes from a fixed number of
// raw bytes with no sub-structure, which is what the streaming reader treats
// as one suspension point.
func isFixedPrimitive(e *Encoding) bool {
	switch e.typ {
	case encBool, encInt8, encUint8, encInt16, encUint16, encInt31, encInt32,
		encInt64, encRangedInt, encFloat, encRangedFloat, encStringEnum:
		return true
	}
	return false
}

func primitiveSize(e *Encoding) int {
	n, _ := e.kind.FixedSize()
	return n
}

// decodePrimitive interprets raw (exactly primitiveSize bytes) as a value of
// the node, applying the node's range checks.
func decodePrimitive(e *Encoding, raw []byte) (any, error) {
	switch e.typ {
	case encBool:
		return raw[0] != 0, nil
	case encInt8:
		return int64(int8(raw[0])), nil
	case encUint8:
		return int64(raw[0]), nil
	case encInt16:
		return int64(int16(binary.BigEndian.Uint16(raw))), nil
	case encUint16:
		return int64(binary.BigEndian.Uint16(raw)), nil
	case encInt31:
		i := int64(int32(binary.BigEndian.Uint32(raw)))
		if i < minInt31 || i > maxInt31 {
			return nil, &encutils.InvalidIntError{Min: minInt31, Value: i, Max: maxInt31}
		}
		return i, nil
	case encInt32:
		return int64(int32(binary.BigEndian.Uint32(raw))), nil
	case encInt64:
		return int64(binary.BigEndian.Uint64(raw)), nil
	case encRangedInt:
		i := decodeIntWidth(e.width, raw)
		if e.intMin > 0 {
			i += e.intMin
		}
		if i < e.intMin || i > e.intMax {
			return nil, &encutils.InvalidIntError{Min: e.intMin, Value: i, Max: e.intMax}
		}
		return i, nil
	case encFloat:
		return math.Float64frombits(binary.BigEndian.Uint64(raw)), nil
	case encRangedFloat:
		f := math.Float64frombits(binary.BigEndian.Uint64(raw))
		if f < e.fltMin || f > e.fltMax {
			return nil, &encutils.InvalidFloatError{Min: e.fltMin, Value: f, Max: e.fltMax}
		}
		return f, nil
	case encStringEnum:
		idx := decodeUnsigned(raw)
		if idx >= len(e.enumCases) {
			return nil, &encutils.UnexpectedTagError{Tag: idx}
		}
		return e.enumCases[idx].Value, nil
	}
	return nil, encutils.ErrInvalidArgument
}

func decodeIntWidth(width intWidth, raw []byte) int64 {
	switch width {
	case widthInt8:
		return int64(int8(raw[0]))
	case widthUint8:
		return int64(raw[0])
	case widthInt16:
		return int64(int16(binary.BigEndian.Uint16(raw)))
	case widthUint16:
		return int64(binary.BigEndian.Uint16(raw))
	default:
		return int64(int32(binary.BigEndian.Uint32(raw)))
	}
}

func decodeUnsigned(raw []byte) int {
	switch len(raw) {
	case 1:
		return int(raw[0])
	case 2:
		return int(binary.BigEndian.Uint16(raw))
	default:
		return int(binary.BigEndian.Uint32(raw))
	}
}
