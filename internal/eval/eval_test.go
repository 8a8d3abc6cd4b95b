package eval

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zaclang.dev/zac/internal/expr"
	"zaclang.dev/zac/internal/num"
	"zaclang.dev/zac/internal/parser"
	"zaclang.dev/zac/internal/token"
)

func run(t *testing.T, src string, opts ...Option) (Value, *Evaluator, error) {
	t.Helper()
	p, err := parser.Parse(src)
	require.NoError(t, err)
	e := New(append([]Option{WithOutput(&bytes.Buffer{})}, opts...)...)
	if err := e.SeedComments(p); err != nil {
		return nil, e, err
	}
	v, err := e.EvalProgram(p)
	return v, e, err
}

func mustRun(t *testing.T, src string, opts ...Option) Value {
	t.Helper()
	v, _, err := run(t, src, opts...)
	require.NoError(t, err)
	return v
}

func TestBuiltins(t *testing.T) {
	tests := []struct {
		input string
		want  Value
	}{
		{"add(2, 3)", IntOf(5)},
		{"add(170141183460469231731687303715884105727, 1)", mustParseInt(t, "-170141183460469231731687303715884105728")},
		{"eq(1, 1)", Bool(true)},
		{"eq(1, 2)", Bool(false)},
		{"eq(add, add)", Bool(true)},
		{"eq(add, eq)", Bool(false)},
		{"eq(true, 1)", Bool(false)},
		{"not(true)", Bool(false)},
		{"show(true)", String("true")},
		{"show(false)", String("false")},
		{"show(5)", String("5")},
		{"show(add)", String("<function>")},
		{"cat(show(1), show(2), show(true))", String("12true")},
		{"cat()", String("")},
		{"chr(65)", String("A")},
		{"chr(321)", String("A")},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := mustRun(t, tt.input)
			assert.True(t, Equal(tt.want, got), "want %s, got %s", Debug(tt.want), Debug(got))
		})
	}
}

func mustParseInt(t *testing.T, s string) Int {
	t.Helper()
	v, err := num.Parse(s)
	require.NoError(t, err)
	return NewInt(v)
}

func TestCat(t *testing.T) {
	got := mustRun(t, "// #a a\n\n// #b b\n\ncat(#a, #b)")
	assert.Equal(t, String("ab"), got)
}

func TestBuiltinErrors(t *testing.T) {
	tests := []struct {
		input string
		check func(t *testing.T, err error)
	}{
		{"add(1)", func(t *testing.T, err error) {
			var arity *ArityError
			require.True(t, errors.As(err, &arity))
			assert.Equal(t, "add", arity.Callee)
			assert.Equal(t, 1, arity.Index)
			assert.Equal(t, 1, arity.Got)
		}},
		{"not(1)", func(t *testing.T, err error) {
			var tm *TypeMismatchError
			require.True(t, errors.As(err, &tm))
			assert.Equal(t, KindBool, tm.Want)
		}},
		{"cat(show(1), 2)", func(t *testing.T, err error) {
			var tm *TypeMismatchError
			require.True(t, errors.As(err, &tm))
			assert.Equal(t, KindString, tm.Want)
			assert.Equal(t, IntOf(2), tm.Got)
		}},
		{"chr(200)", func(t *testing.T, err error) {
			var enc *EncodingError
			require.True(t, errors.As(err, &enc))
			assert.Equal(t, byte(200), enc.Byte)
		}},
		{"print()", func(t *testing.T, err error) {
			var arity *ArityError
			require.True(t, errors.As(err, &arity))
			assert.Equal(t, 0, arity.Index)
		}},
		{"missing(1)", func(t *testing.T, err error) {
			var undef *UndefinedReferenceError
			require.True(t, errors.As(err, &undef))
			assert.Equal(t, "missing", undef.Name)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, _, err := run(t, tt.input)
			require.Error(t, err)
			tt.check(t, err)
		})
	}
}

func TestNotCallable(t *testing.T) {
	for _, src := range []string{"let x = 1 x(0)", "true(0)"} {
		_, _, err := run(t, src)
		var nc *NotCallableError
		require.True(t, errors.As(err, &nc), "%s: %v", src, err)
	}
}

func TestStringIndex(t *testing.T) {
	assert.Equal(t, String("h"), mustRun(t, "// #s hi\n\nlet s = #s s(0)"))
	assert.Equal(t, String("i"), mustRun(t, "// #s hi\n\nlet s = #s s(1)"))
	assert.Equal(t, Bool(false), mustRun(t, "// #s hi\n\nlet s = #s s(5)"))

	v, err := index(String("héllo"), []Value{IntOf(1)})
	require.NoError(t, err)
	assert.Equal(t, String("é"), v)

	v, err = index(String("hi"), []Value{IntOf(-1)})
	require.NoError(t, err)
	assert.Equal(t, Bool(false), v)

	_, err = index(String("hi"), nil)
	var arity *ArityError
	require.True(t, errors.As(err, &arity))
}

func TestPrintWritesDebugRendering(t *testing.T) {
	var out bytes.Buffer
	v := mustRun(t, "print(5) print(// #a hi\n) print(eq) print(true)", WithOutput(&out))
	assert.Equal(t, Bool(true), v)
	assert.Equal(t, "Int(5)\nString(\"hi\")\nFunction(eq)\nBool(true)\n", out.String())
}

func TestVariableAssignment(t *testing.T) {
	v, e, err := run(t, "let x = 5 let y = x y")
	require.NoError(t, err)
	assert.Equal(t, IntOf(5), v)
	got, ok := e.Lookup("y")
	require.True(t, ok)
	assert.Equal(t, IntOf(5), got)
	assert.Contains(t, e.Names(), "x")
}

func TestCommentAssignment(t *testing.T) {
	v, e, err := run(t, "// #greeting hello\n\nlet #greeting = cat(#greeting, show(1))")
	require.NoError(t, err)
	assert.Equal(t, String("hello1"), v)
	assert.Equal(t, []CommentEntry{{Name: "greeting", Body: "hello1"}}, e.Comments())

	body, ok := e.CommentBody("greeting")
	require.True(t, ok)
	assert.Equal(t, "hello1", body)
}

func TestCommentNodeReadsLiveBody(t *testing.T) {
	src := "let n = 0\nwhile (eq(n, 0)) {\n  // #c first\n  let #c = show(7)\n  let n = 1\n}\n"
	v, e, err := run(t, src)
	require.NoError(t, err)
	assert.Equal(t, IntOf(1), v)
	body, _ := e.CommentBody("c")
	assert.Equal(t, "7", body)

	c := &expr.Comment{Name: "c", Body: "first"}
	got, err := e.Eval(c)
	require.NoError(t, err)
	assert.Equal(t, String("7"), got)
}

func TestCommentAssignmentErrors(t *testing.T) {
	_, _, err := run(t, "// #c text\n\nlet #c = 5")
	var tm *TypeMismatchError
	require.True(t, errors.As(err, &tm))
	assert.Equal(t, KindString, tm.Want)

	_, _, err = run(t, "let #nope = show(1)")
	var undef *UndefinedReferenceError
	require.True(t, errors.As(err, &undef))
	assert.Equal(t, expr.CommentRef, undef.Kind)
	assert.Equal(t, "nope", undef.Name)

	_, _, err = run(t, "let #help = show(1)")
	require.True(t, errors.As(err, &undef))
}

func TestDuplicateComments(t *testing.T) {
	var out bytes.Buffer
	_, _, err := run(t, "// #a one\n\nprint(1)\nwhile (false) {\n  // #a two\n}", WithOutput(&out))
	var dup *DuplicateCommentError
	require.True(t, errors.As(err, &dup))
	assert.Equal(t, "a", dup.Name)
	assert.Empty(t, out.String())
}

func TestDuplicateHelpComments(t *testing.T) {
	_, e, err := run(t, "// #help one\n\n// #help two\n\nshow(1)")
	var dup *DuplicateCommentError
	require.True(t, errors.As(err, &dup))
	assert.Equal(t, "help", dup.Name)
	assert.Equal(t, 3, dup.Pos.Line)
	assert.Empty(t, e.Comments())
}

func TestErrorPositions(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"located", &UndefinedReferenceError{Name: "x", Pos: token.Position{Line: 2, Column: 7}}, "2:7: undefined name x"},
		{"synthetic node", &UndefinedReferenceError{Kind: expr.CommentRef, Name: "x"}, "undefined comment #x"},
		{"duplicate", &DuplicateCommentError{Name: "a", Pos: token.Position{Line: 3, Column: 1}}, "3:1: duplicate comment #a"},
		{"interrupted", &InterruptedError{Err: context.Canceled}, "interrupted: context canceled"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestUndefinedReferences(t *testing.T) {
	_, _, err := run(t, "nothing")
	var undef *UndefinedReferenceError
	require.True(t, errors.As(err, &undef))
	assert.Equal(t, expr.VarRef, undef.Kind)

	_, _, err = run(t, "#nothing")
	require.True(t, errors.As(err, &undef))
	assert.Equal(t, expr.CommentRef, undef.Kind)
}

func TestEmptyProgram(t *testing.T) {
	_, _, err := run(t, "")
	var empty *EmptyBlockError
	require.True(t, errors.As(err, &empty))
}

func TestWhile(t *testing.T) {
	assert.Equal(t, IntOf(0), mustRun(t, "while(false){}"))

	src := "let go = true\nlet n = 0\nwhile (go) {\n  let n = add(n, 1)\n  let go = not(eq(n, 3))\n}\n"
	assert.Equal(t, IntOf(3), mustRun(t, src))

	_, _, err := run(t, "while (1) { 1 }")
	var tm *TypeMismatchError
	require.True(t, errors.As(err, &tm))
	assert.Equal(t, KindBool, tm.Want)
}

func TestWhileInterrupted(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	stop := func(_ *Evaluator, _ []Value) (Value, error) {
		calls++
		if calls == 100 {
			cancel()
		}
		return Bool(true), nil
	}
	_, _, err := run(t, "while (true) { stop() }", WithContext(ctx), WithBuiltin("stop", stop))
	var intr *InterruptedError
	require.True(t, errors.As(err, &intr))
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, 100, calls)
}

func TestIf(t *testing.T) {
	var out bytes.Buffer
	v := mustRun(t, "if (eq(1, 1)) { print(1) }", WithOutput(&out))
	assert.Equal(t, Bool(true), v)
	assert.Equal(t, "Int(1)\n", out.String())

	out.Reset()
	v = mustRun(t, "if (false) { print(1) }", WithOutput(&out))
	assert.Equal(t, Bool(false), v)
	assert.Empty(t, out.String())
}

func TestHelp(t *testing.T) {
	v := mustRun(t, "let answer = 42 #help")
	s, ok := v.(String)
	require.True(t, ok)
	text := string(s)
	assert.True(t, strings.HasPrefix(text, "Help for the Zac programming language"))
	assert.Contains(t, text, "Builtin functions:")
	assert.Contains(t, text, "Available variables")

	functions, variables, found := strings.Cut(text, "Available variables")
	require.True(t, found)
	for _, name := range []string{"add", "eq", "not", "print", "show", "chr", "cat"} {
		assert.Contains(t, functions, name)
	}
	for _, name := range []string{"answer", "false", "true"} {
		assert.Contains(t, variables, name)
	}
	assert.Equal(t, strings.TrimRight(text, " \n"), text)
}

func TestHelpCommentIsNeverStored(t *testing.T) {
	v, e, err := run(t, "// #help mine\n\n#help")
	require.NoError(t, err)
	assert.Contains(t, string(v.(String)), "Builtin functions:")
	assert.Empty(t, e.Comments())
}

func TestTableize(t *testing.T) {
	names := make([]string, 23)
	for i := range names {
		names[i] = "n" + strings.Repeat("x", i)
	}
	rows := strings.Split(strings.TrimRight(tableize(names), "\n"), "\n")
	assert.Len(t, rows, 3)
	assert.Empty(t, tableize(nil))
}

func TestWithBuiltin(t *testing.T) {
	double := func(e *Evaluator, args []Value) (Value, error) {
		n, err := intArg("double", args, 0)
		if err != nil {
			return nil, err
		}
		return NewInt(n.Add(n.Int)), nil
	}
	assert.Equal(t, IntOf(42), mustRun(t, "double(21)", WithBuiltin("double", double)))
}

func TestEqProperties(t *testing.T) {
	values := []Value{
		String(""), String("a"), IntOf(0), IntOf(-3), Bool(true), Bool(false),
		Function{Name: "add"}, NewMap(), NewMap(MapEntry{Key: String("a"), Value: IntOf(1)}),
	}
	for _, a := range values {
		assert.True(t, Equal(a, a), Debug(a))
		for _, b := range values {
			assert.Equal(t, Equal(a, b), Equal(b, a))
			assert.Equal(t, Compare(a, b), -Compare(b, a))
		}
	}
}
