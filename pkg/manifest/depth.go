// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

package manifest

import (
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

// MarshalYAML renders full depth as the string "full" and a shallow
// depth as a plain integer, matching the schema in spec.md §3.
func (d Depth) MarshalYAML() (interface{}, error) {
	if d.Full {
		return "full", nil
	}
	return d.Value, nil
}

// UnmarshalYAML accepts either the string "full" or a positive
// integer scalar.
func (d *Depth) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err == nil {
		if raw == "full" {
			*d = FullDepth()
			return nil
		}
		if n, convErr := strconv.Atoi(raw); convErr == nil {
			if n <= 0 {
				return fmt.Errorf("depth must be positive, got %d", n)
			}
			*d = ShallowDepth(n)
			return nil
		}
		return fmt.Errorf("invalid depth value %q", raw)
	}

	var n int
	if err := value.Decode(&n); err != nil {
		return fmt.Errorf("invalid depth: %w", err)
	}
	if n <= 0 {
		return fmt.Errorf("depth must be positive, got %d", n)
	}
	*d = ShallowDepth(n)
	return nil
}

// String renders the depth for display and logging.
func (d Depth) String() string {
	if d.Full {
		return "full"
	}
	return strconv.Itoa(d.Value)
}
