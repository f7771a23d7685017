// Copyright (c) 2026 dataenc
// SPDX-License-Identifier: Apache-2.0
// This file is part of the dataenc library.

package dataenc

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// LoadSpecValuesYAML parses a YAML document of name/value pairs into a
// spec-value map for New. Nested documents are rejected; spec values are
// scalars by construction.
func LoadSpecValuesYAML(data []byte) (map[string]any, error) {
	raw := map[string]any{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("error parsing spec values: %w", err)
	}
	out := make(map[string]any, len(raw))
	for k, v := range raw {
		switch v.(type) {
		case map[string]any, []any:
			return nil, fmt.Errorf("spec value %q is not a scalar", k)
		}
		out[k] = v
	}
	return out, nil
}
