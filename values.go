// Copyright (c) 2026 dataenc
// SPDX-License-Identifier: Apache-2.0
// This file is part of the dataenc library.

package dataenc

import (
	"fmt"
	"reflect"
)

// Host value conventions: bool, int64 for every integer descriptor, float64,
// *big.Int for Z/N, string, []byte, []any for sequences and tuples,
// map[string]any for objects. Conv bridges to anything else.

func typeError(expected string, v any) error {
	return fmt.Errorf("dataenc: expected %s value, got %T", expected, v)
}

func intValue(v any) (int64, error) {
	switch x := v.(type) {
	case int64:
		return x, nil
	case int:
		return int64(x), nil
	case int32:
		return int64(x), nil
	case uint16:
		return int64(x), nil
	case uint8:
		return int64(x), nil
	}
	return 0, typeError("integer", v)
}

func floatValue(v any) (float64, error) {
	if f, ok := v.(float64); ok {
		return f, nil
	}
	return 0, typeError("float64", v)
}

func boolValue(v any) (bool, error) {
	if b, ok := v.(bool); ok {
		return b, nil
	}
	return false, typeError("bool", v)
}

func stringValue(v any) (string, error) {
	if s, ok := v.(string); ok {
		return s, nil
	}
	return "", typeError("string", v)
}

func bytesValue(v any) ([]byte, error) {
	if b, ok := v.([]byte); ok {
		return b, nil
	}
	return nil, typeError("[]byte", v)
}

func sliceValue(v any) ([]any, error) {
	if v == nil {
		return nil, nil
	}
	if s, ok := v.([]any); ok {
		return s, nil
	}
	return nil, typeError("[]any", v)
}

func objValue(v any) (map[string]any, error) {
	if v == nil {
		return nil, nil
	}
	if m, ok := v.(map[string]any); ok {
		return m, nil
	}
	return nil, typeError("map[string]any", v)
}

// fieldValue extracts a field's value from an object map. Required and
// default fields must be present.
func fieldValue(f *Field, v any) (any, bool, error) {
	m, err := objValue(v)
	if err != nil {
		return nil, false, err
	}
	fv, present := m[f.name]
	if !present && f.kind != fieldOpt {
		return nil, false, fmt.Errorf("dataenc: object is missing required field %q", f.name)
	}
	return fv, present, nil
}

// tupItem extracts slot i of a tuple slice.
func tupItem(v any, i int) (any, error) {
	s, err := sliceValue(v)
	if err != nil {
		return nil, err
	}
	if i >= len(s) {
		return nil, fmt.Errorf("dataenc: tuple has %d slots, need at least %d", len(s), i+1)
	}
	return s[i], nil
}

// splitTupValue cuts a tuple slice at the left part's arity.
func splitTupValue(e *Encoding, v any) (any, any, error) {
	s, err := sliceValue(v)
	if err != nil {
		return nil, nil, err
	}
	la := tupArity(e.left)
	if la < 0 || la > len(s) {
		return nil, nil, fmt.Errorf("dataenc: tuple has %d slots, left part spans %d", len(s), la)
	}
	return s[:la], s[la:], nil
}

// enumIndex finds the index of an enum value, comparing structurally so enum
// values are not limited to comparable types.
func enumIndex(e *Encoding, v any) (int, bool) {
	for i, c := range e.enumCases {
		if reflect.DeepEqual(c.Value, v) {
			return i, true
		}
	}
	return 0, false
}
