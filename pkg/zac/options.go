// Package zac provides the public API for the zac interpreter.
package zac

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"zaclang.dev/zac/internal/eval"
	"zaclang.dev/zac/internal/store"
)

// Option configures a Runtime.
type Option func(*Runtime)

// Store is the comment persistence interface.
type Store = store.Store

// VersionEntry is one recorded version of a comment body.
type VersionEntry = store.VersionEntry

// Value is a runtime value produced by evaluation.
type Value = eval.Value

// CommentEntry is the current body of one named comment.
type CommentEntry = eval.CommentEntry

// Callable is the implementation of a builtin function.
type Callable = eval.Callable

// WithStore sets a custom comment store.
func WithStore(s Store) Option {
	return func(r *Runtime) {
		r.store = s
	}
}

// WithSQLiteStore configures SQLite persistence at the given path, creating
// its directory if needed.
func WithSQLiteStore(path string) Option {
	return func(r *Runtime) {
		if dir := filepath.Dir(path); dir != "." && dir != "" && path != ":memory:" {
			if err := os.MkdirAll(dir, 0o750); err != nil {
				r.err = fmt.Errorf("failed to create store directory: %w", err)
				return
			}
		}
		s, err := store.NewSQLite(path)
		if err != nil {
			r.err = fmt.Errorf("open store %s: %w", path, err)
			return
		}
		r.store = s
	}
}

// WithMemoryStore configures an in-memory store (for testing).
func WithMemoryStore() Option {
	return func(r *Runtime) {
		r.store = store.NewMemory()
	}
}

// WithOutput sets the io.Writer print writes to.
func WithOutput(w io.Writer) Option {
	return func(r *Runtime) {
		r.output = w
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Runtime) {
		r.logger = l
	}
}

// WithWriteBack controls whether RunFile rewrites the source file.
func WithWriteBack(enabled bool) Option {
	return func(r *Runtime) {
		r.writeBack = enabled
	}
}

// WithTimeout bounds each run. Zero means no limit.
func WithTimeout(timeout time.Duration) Option {
	return func(r *Runtime) {
		r.timeout = timeout
	}
}

// WithBuiltin adds a builtin function to every evaluation.
func WithBuiltin(name string, fn Callable) Option {
	return func(r *Runtime) {
		r.builtins[name] = fn
	}
}
