package zac

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"zaclang.dev/zac/internal/eval"
	"zaclang.dev/zac/internal/expr"
	"zaclang.dev/zac/internal/logging"
	"zaclang.dev/zac/internal/parser"
	"zaclang.dev/zac/internal/reassemble"
	"zaclang.dev/zac/internal/store"
)

// ErrNoHistory is returned by History when the store keeps no versions.
var ErrNoHistory = errors.New("store does not keep history")

// Runtime parses, evaluates and reassembles zac programs, and records the
// comment bodies each run leaves behind.
type Runtime struct {
	store     store.Store
	output    io.Writer
	logger    *slog.Logger
	writeBack bool
	timeout   time.Duration
	builtins  map[string]eval.Callable
	prelude   *expr.Program
	err       error
}

// Result describes one completed run.
type Result struct {
	// Value is the value of the last top-level expression.
	Value Value
	// Comments holds every named comment with its final body, in source order.
	Comments []CommentEntry
	// Source is the reassembled program with the final comment bodies.
	Source string
	// Changed names the comments whose bodies the run modified.
	Changed []string
	// RunID identifies the run in logs.
	RunID string
}

// New creates a new zac runtime with the given options.
func New(opts ...Option) (*Runtime, error) {
	r := &Runtime{
		output:    os.Stdout,
		logger:    logging.Discard(),
		writeBack: true,
		builtins:  make(map[string]eval.Callable),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.err != nil {
		if r.store != nil {
			r.store.Close()
		}
		return nil, r.err
	}
	return r, nil
}

func (r *Runtime) evaluator(ctx context.Context, logger *slog.Logger) (*eval.Evaluator, error) {
	opts := []eval.Option{
		eval.WithOutput(r.output),
		eval.WithLogger(logger),
		eval.WithContext(ctx),
	}
	for name, fn := range r.builtins {
		opts = append(opts, eval.WithBuiltin(name, fn))
	}
	ev := eval.New(opts...)
	if err := r.loadPrelude(ev); err != nil {
		return nil, err
	}
	return ev, nil
}

// Run evaluates source as the document doc. On success the changed comment
// bodies are recorded in the store; on failure nothing is recorded.
func (r *Runtime) Run(ctx context.Context, doc, source string) (*Result, error) {
	runID := uuid.NewString()
	logger := r.logger.With("run_id", runID, "doc", doc)

	p, err := parser.Parse(source)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", doc, err)
	}

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	ev, err := r.evaluator(ctx, logger)
	if err != nil {
		return nil, err
	}
	if err := ev.SeedComments(p); err != nil {
		return nil, fmt.Errorf("%s: %w", doc, err)
	}
	before := ev.Comments()

	start := time.Now()
	v, err := ev.EvalProgram(p)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", doc, err)
	}

	res := &Result{
		Value:    v,
		Comments: ev.Comments(),
		Source:   reassemble.Program(p, ev),
		RunID:    runID,
	}
	for i, c := range res.Comments {
		if c.Body != before[i].Body {
			res.Changed = append(res.Changed, c.Name)
		}
	}
	logger.Info("run finished",
		"duration", time.Since(start),
		"comments", len(res.Comments),
		"changed", len(res.Changed))

	if err := r.record(doc, res.Comments); err != nil {
		return nil, err
	}
	return res, nil
}

func (r *Runtime) record(doc string, comments []CommentEntry) error {
	if r.store == nil {
		return nil
	}
	for _, c := range comments {
		if err := r.store.Put(doc, c.Name, c.Body); err != nil {
			return fmt.Errorf("record #%s: %w", c.Name, err)
		}
	}
	return nil
}

// RunFile runs the program at path and, when write-back is enabled and the
// reassembled text differs, atomically replaces the file with it.
func (r *Runtime) RunFile(ctx context.Context, path string) (*Result, error) {
	doc, err := Doc(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	res, err := r.Run(ctx, doc, string(data))
	if err != nil {
		return nil, err
	}
	if r.writeBack && res.Source != string(data) {
		if err := WriteFileAtomic(path, []byte(res.Source)); err != nil {
			return nil, fmt.Errorf("write back %s: %w", path, err)
		}
		r.logger.Debug("source rewritten", "path", path, "run_id", res.RunID)
	}
	return res, nil
}

// Format parses source and returns its canonical text without evaluating it.
func (r *Runtime) Format(source string) (string, error) {
	p, err := parser.Parse(source)
	if err != nil {
		return "", err
	}
	return reassemble.Program(p, nil), nil
}

// Check parses source and seeds its comments, reporting syntax errors and
// duplicate comment names.
func (r *Runtime) Check(source string) error {
	p, err := parser.Parse(source)
	if err != nil {
		return err
	}
	return eval.New(eval.WithOutput(io.Discard)).SeedComments(p)
}

// History returns recorded versions of a comment, newest first.
func (r *Runtime) History(doc, name string, limit int) ([]VersionEntry, error) {
	hs, ok := r.store.(store.HistoryStore)
	if !ok {
		return nil, ErrNoHistory
	}
	return hs.GetHistory(doc, name, limit)
}

// Close releases resources.
func (r *Runtime) Close() error {
	if r.store != nil {
		return r.store.Close()
	}
	return nil
}

// Doc returns the document key used for a source file path.
func Doc(path string) (string, error) {
	return filepath.Abs(path)
}

// WriteFileAtomic writes data to a temporary file next to path and renames it
// over path, keeping the original permissions.
func WriteFileAtomic(path string, data []byte) error {
	mode := os.FileMode(0o644)
	if fi, err := os.Stat(path); err == nil {
		mode = fi.Mode().Perm()
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), mode); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// Session evaluates a sequence of snippets against one evaluator, the way an
// interactive prompt does. Comments declared by earlier snippets stay
// visible to later ones.
type Session struct {
	ev *eval.Evaluator
}

// NewSession creates a session using the runtime's output, logger, builtins
// and prelude.
func (r *Runtime) NewSession() (*Session, error) {
	ev, err := r.evaluator(context.Background(), r.logger)
	if err != nil {
		return nil, err
	}
	return &Session{ev: ev}, nil
}

// Eval parses and evaluates one snippet. ctx interrupts running loops.
func (s *Session) Eval(ctx context.Context, source string) (Value, error) {
	p, err := parser.Parse(source)
	if err != nil {
		return nil, err
	}
	if err := s.ev.SeedComments(p); err != nil {
		return nil, err
	}
	s.ev.SetContext(ctx)
	return s.ev.EvalProgram(p)
}

// Help returns the synthesized help text.
func (s *Session) Help() string {
	v, err := s.ev.Eval(&expr.Ref{Kind: expr.CommentRef, Name: "help"})
	if err != nil {
		return ""
	}
	return eval.Show(v)
}

// Comments returns the session's named comments.
func (s *Session) Comments() []CommentEntry {
	return s.ev.Comments()
}

// Vars returns every bound name with its value, sorted by name.
func (s *Session) Vars() []Var {
	names := s.ev.Names()
	vars := make([]Var, 0, len(names))
	for _, name := range names {
		v, _ := s.ev.Lookup(name)
		vars = append(vars, Var{Name: name, Value: v})
	}
	return vars
}

// Var is one scope binding.
type Var struct {
	Name  string
	Value Value
}

// Debug renders a value with its tag, as print does.
func Debug(v Value) string { return eval.Debug(v) }
