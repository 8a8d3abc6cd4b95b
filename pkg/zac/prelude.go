// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2026 The zac Authors

package zac

import (
	"fmt"
	"os"

	"zaclang.dev/zac/internal/eval"
	"zaclang.dev/zac/internal/parser"
)

// WithPrelude sets source evaluated before every run and session, typically
// to bind shared variables. Comments in the prelude are read-only literals.
func WithPrelude(source string) Option {
	return func(r *Runtime) {
		p, err := parser.Parse(source)
		if err != nil {
			r.err = fmt.Errorf("prelude: %w", err)
			return
		}
		r.prelude = p
	}
}

// WithPreludeFile loads the prelude from a file.
func WithPreludeFile(path string) Option {
	return func(r *Runtime) {
		data, err := os.ReadFile(path)
		if err != nil {
			r.err = fmt.Errorf("prelude: %w", err)
			return
		}
		WithPrelude(string(data))(r)
	}
}

// loadPrelude evaluates the prelude, if any, into ev.
func (r *Runtime) loadPrelude(ev *eval.Evaluator) error {
	if r.prelude == nil || len(r.prelude.Block.Exprs) == 0 {
		return nil
	}
	if _, err := ev.Eval(r.prelude.Block); err != nil {
		return fmt.Errorf("prelude: %w", err)
	}
	return nil
}

