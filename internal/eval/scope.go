// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2026 The zac Authors

// Package eval implements the zac evaluator.
package eval

import (
	"maps"
	"slices"
)

// Scope is the single global namespace of an evaluation. It is owned by one
// Evaluator and is not safe for concurrent use.
type Scope struct {
	vars map[string]Value
}

// NewScope creates a new empty scope.
func NewScope() *Scope {
	return &Scope{
		vars: make(map[string]Value),
	}
}

// Get retrieves a value by name.
func (s *Scope) Get(name string) (Value, bool) {
	v, ok := s.vars[name]
	return v, ok
}

// Set binds name to v, replacing any previous binding.
func (s *Scope) Set(name string, v Value) {
	s.vars[name] = v
}

// Names returns the bound names in sorted order.
func (s *Scope) Names() []string {
	return slices.Sorted(maps.Keys(s.vars))
}
