package eval

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"zaclang.dev/zac/internal/expr"
	"zaclang.dev/zac/internal/num"
)

// Evaluator walks a program tree. It owns the global scope and the comment
// table; one Evaluator runs one program at a time.
type Evaluator struct {
	scope    *Scope
	comments *commentTable
	output   io.Writer
	logger   *slog.Logger
	ctx      context.Context

	// helpSeen is set once a program declares `// #help`; the body is never
	// stored but the name stays unique.
	helpSeen bool
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithOutput sets the writer print writes to.
func WithOutput(w io.Writer) Option {
	return func(e *Evaluator) { e.output = w }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Evaluator) { e.logger = l }
}

// WithBuiltin binds an additional builtin function, or replaces an existing one.
func WithBuiltin(name string, fn Callable) Option {
	return func(e *Evaluator) { e.scope.Set(name, Function{Name: name, Fn: fn}) }
}

// WithContext makes loops stop with an InterruptedError once ctx is done.
func WithContext(ctx context.Context) Option {
	return func(e *Evaluator) { e.ctx = ctx }
}

// New creates a new Evaluator with builtins and constants bound and an empty
// comment table.
func New(opts ...Option) *Evaluator {
	e := &Evaluator{
		scope:    NewScope(),
		comments: newCommentTable(),
		output:   os.Stdout,
		logger:   slog.New(slog.DiscardHandler),
	}
	for name, fn := range builtins {
		e.scope.Set(name, Function{Name: name, Fn: fn})
	}
	e.scope.Set("true", Bool(true))
	e.scope.Set("false", Bool(false))

	for _, opt := range opts {
		opt(e)
	}
	return e
}

// AddComment seeds one comment into the comment table. Anonymous comments are
// ignored and the reserved help comment is only checked for uniqueness.
func (e *Evaluator) AddComment(c *expr.Comment) error {
	if !c.Named() {
		return nil
	}
	if c.Name == helpName {
		if e.helpSeen {
			return &DuplicateCommentError{Name: c.Name, Pos: c.At}
		}
		e.helpSeen = true
		return nil
	}
	if e.comments.has(c.Name) {
		return &DuplicateCommentError{Name: c.Name, Pos: c.At}
	}
	e.comments.add(c.Name, c.Body)
	e.logger.Debug("seeded comment", "name", c.Name, "pos", c.At.String())
	return nil
}

// SeedComments seeds every named comment of the program, failing on the
// first duplicate name.
func (e *Evaluator) SeedComments(p *expr.Program) error {
	for _, c := range expr.NamedComments(p) {
		if err := e.AddComment(c); err != nil {
			return err
		}
	}
	return nil
}

// Comments returns the current body of every named comment in seed order.
func (e *Evaluator) Comments() []CommentEntry {
	return e.comments.entries()
}

// CommentBody returns the live body of a named comment.
func (e *Evaluator) CommentBody(name string) (string, bool) {
	return e.comments.get(name)
}

// Names returns every name bound in scope, sorted.
func (e *Evaluator) Names() []string {
	return e.scope.Names()
}

// Lookup returns the value bound to name.
func (e *Evaluator) Lookup(name string) (Value, bool) {
	return e.scope.Get(name)
}

// EvalProgram evaluates the top-level block of p.
func (e *Evaluator) EvalProgram(p *expr.Program) (Value, error) {
	return e.Eval(p.Block)
}

// Eval evaluates one expression.
func (e *Evaluator) Eval(x expr.Expr) (Value, error) {
	switch x := x.(type) {
	case *expr.Block:
		return e.evalBlock(x)
	case *expr.Comment:
		if body, ok := e.comments.get(x.Name); x.Named() && ok {
			return String(body), nil
		}
		return String(x.Body), nil
	case *expr.Assignment:
		return e.evalAssignment(x)
	case *expr.IntLiteral:
		return NewInt(x.Value), nil
	case *expr.Ref:
		return e.lookupRef(x)
	case *expr.FunctionCall:
		return e.evalCall(x)
	case *expr.While:
		return e.evalWhile(x)
	case *expr.If:
		return e.evalIf(x)
	}
	return nil, fmt.Errorf("unknown expression type %T", x)
}

func (e *Evaluator) evalBlock(b *expr.Block) (Value, error) {
	if len(b.Exprs) == 0 {
		return nil, &EmptyBlockError{Pos: b.At}
	}
	var result Value
	for _, sub := range b.Exprs {
		v, err := e.Eval(sub)
		if err != nil {
			return nil, err
		}
		result = v
	}
	return result, nil
}

func (e *Evaluator) evalAssignment(a *expr.Assignment) (Value, error) {
	v, err := e.Eval(a.Value)
	if err != nil {
		return nil, err
	}
	switch a.Target.Kind {
	case expr.CommentRef:
		s, ok := v.(String)
		if !ok {
			return nil, &TypeMismatchError{Want: KindString, Got: v, Context: "assignment to " + a.Target.String()}
		}
		if !e.comments.set(a.Target.Name, string(s)) {
			return nil, &UndefinedReferenceError{Kind: expr.CommentRef, Name: a.Target.Name, Pos: a.Target.At}
		}
		e.logger.Debug("comment updated", "name", a.Target.Name, "len", len(s))
	default:
		e.scope.Set(a.Target.Name, v)
	}
	return v, nil
}

func (e *Evaluator) lookupRef(r *expr.Ref) (Value, error) {
	if r.Kind == expr.CommentRef {
		if r.Name == helpName {
			return String(e.helpText()), nil
		}
		if body, ok := e.comments.get(r.Name); ok {
			return String(body), nil
		}
		return nil, &UndefinedReferenceError{Kind: expr.CommentRef, Name: r.Name, Pos: r.At}
	}
	if v, ok := e.scope.Get(r.Name); ok {
		return v, nil
	}
	return nil, &UndefinedReferenceError{Kind: expr.VarRef, Name: r.Name, Pos: r.At}
}

func (e *Evaluator) evalCall(c *expr.FunctionCall) (Value, error) {
	target, err := e.lookupRef(c.Target)
	if err != nil {
		return nil, err
	}
	args := make([]Value, 0, len(c.Args))
	for _, a := range c.Args {
		v, err := e.Eval(a)
		if err != nil {
			return nil, err
		}
		args = append(args, v)
	}

	switch t := target.(type) {
	case Function:
		return t.Fn(e, args)
	case String:
		return index(t, args)
	}
	return nil, &NotCallableError{Target: target, Pos: c.At}
}

func (e *Evaluator) evalCond(x expr.Expr, what string) (bool, error) {
	v, err := e.Eval(x)
	if err != nil {
		return false, err
	}
	b, ok := v.(Bool)
	if !ok {
		return false, &TypeMismatchError{Want: KindBool, Got: v, Context: what}
	}
	return bool(b), nil
}

func (e *Evaluator) evalWhile(w *expr.While) (Value, error) {
	count := num.Zero
	for {
		if e.ctx != nil {
			if err := e.ctx.Err(); err != nil {
				return nil, &InterruptedError{Pos: w.At, Err: err}
			}
		}
		ok, err := e.evalCond(w.Cond, "while condition")
		if err != nil {
			return nil, err
		}
		if !ok {
			return NewInt(count), nil
		}
		if _, err := e.evalBlock(w.Body); err != nil {
			return nil, err
		}
		count = count.Inc()
	}
}

func (e *Evaluator) evalIf(i *expr.If) (Value, error) {
	ok, err := e.evalCond(i.Cond, "if condition")
	if err != nil {
		return nil, err
	}
	if ok {
		if _, err := e.evalBlock(i.Body); err != nil {
			return nil, err
		}
	}
	return Bool(ok), nil
}

// SetContext replaces the context checked by loops.
func (e *Evaluator) SetContext(ctx context.Context) {
	e.ctx = ctx
}
