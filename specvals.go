// Copyright (c) 2026 dataenc
// SPDX-License-Identifier: Apache-2.0
// This file is part of the dataenc library.

package dataenc

import (
	"fmt"

	"github.com/casbin/govaluate"
)

type cachedSpecValue struct {
	resolved bool
	value    int
}

// ResolveSpecValue evaluates a limit expression against the codec's spec
// values. Expressions can be plain names ("MAX_OPERATION_SIZE") or
// arithmetic over them ("MAX_OPERATION_SIZE * 2 + 4"). Results are cached
// per codec.
func (c *Codec) ResolveSpecValue(name string) (bool, int, error) {
	c.specMu.Lock()
	defer c.specMu.Unlock()

	if cachedValue := c.specValueCache[name]; cachedValue != nil {
		return cachedValue.resolved, cachedValue.value, nil
	}

	cachedValue := &cachedSpecValue{}
	expression, err := govaluate.NewEvaluableExpression(name)
	if err != nil {
		return false, 0, fmt.Errorf("error parsing spec expression: %w", err)
	}

	result, err := expression.Evaluate(c.normalizedSpecValues())
	if err == nil {
		switch value := result.(type) {
		case float64:
			cachedValue.resolved = true
			cachedValue.value = int(value)
			if float64(cachedValue.value) < value {
				// round up to full bytes, partial bytes cannot be serialized
				cachedValue.value++
			}
		case int:
			cachedValue.resolved = true
			cachedValue.value = value
		case int64:
			cachedValue.resolved = true
			cachedValue.value = int(value)
		case uint64:
			cachedValue.resolved = true
			cachedValue.value = int(value)
		}
	}

	c.specValueCache[name] = cachedValue
	return cachedValue.resolved, cachedValue.value, nil
}

// normalizedSpecValues widens numeric spec values to float64 so arithmetic
// expressions evaluate uniformly.
func (c *Codec) normalizedSpecValues() map[string]any {
	out := make(map[string]any, len(c.specValues))
	for k, v := range c.specValues {
		switch x := v.(type) {
		case int:
			out[k] = float64(x)
		case int64:
			out[k] = float64(x)
		case uint64:
			out[k] = float64(x)
		case uint32:
			out[k] = float64(x)
		case float64:
			out[k] = x
		default:
			out[k] = v
		}
	}
	return out
}

// resolveLimit returns the byte limit of a CheckSize node, evaluating the
// spec expression when the node carries one.
func (c *Codec) resolveLimit(e *Encoding) (int, error) {
	if e.specExpr == "" {
		return e.limit, nil
	}
	resolved, value, err := c.ResolveSpecValue(e.specExpr)
	if err != nil {
		return 0, err
	}
	if !resolved || value < 0 {
		return 0, fmt.Errorf("dataenc: spec expression %q did not resolve to a usable size limit", e.specExpr)
	}
	return value, nil
}
