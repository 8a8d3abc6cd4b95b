package parser

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zaclang.dev/zac/internal/expr"
	"zaclang.dev/zac/internal/token"
)

func parseOne(t *testing.T, src string) expr.Expr {
	t.Helper()
	p, err := Parse(src)
	require.NoError(t, err)
	require.Len(t, p.Block.Exprs, 1)
	return p.Block.Exprs[0]
}

func TestParseEmptyProgram(t *testing.T) {
	for _, src := range []string{"", "   ", "\n\n\t"} {
		p, err := Parse(src)
		require.NoError(t, err)
		assert.Empty(t, p.Block.Exprs)
	}
}

func TestParseComments(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantName string
		wantBody string
	}{
		{"anonymous", "// hello world", "", "hello world"},
		{"named", "// #greeting hello", "greeting", "hello"},
		{"named without blank after marker", "//#greeting hello", "greeting", "hello"},
		{"named empty body", "// #greeting", "greeting", ""},
		{"name must be followed by blank", "// #greeting: hello", "", "#greeting: hello"},
		{"crlf", "// #a text\r\n", "a", "text"},
		{"continuation", "// #a one\n// two\n  // three", "a", "one two three"},
		{"paragraph", "// #a one\n// // two\n// three", "a", "one\n\ntwo three"},
		{"empty continuation", "// #a one\n//\n// two", "a", "one two"},
		{"continuation of empty first line", "// #a\n// two", "a", "two"},
		{"empty paragraph", "// #a one\n// //", "a", "one\n\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, ok := parseOne(t, tt.input).(*expr.Comment)
			require.True(t, ok, "expected a comment")
			assert.Equal(t, tt.wantName, c.Name)
			assert.Equal(t, tt.wantBody, c.Body)
		})
	}
}

func TestParseBlankLineEndsComment(t *testing.T) {
	p, err := Parse("// #a one\n\n// #b two")
	require.NoError(t, err)
	comments := expr.NamedComments(p)
	require.Len(t, comments, 2)
	assert.Equal(t, "one", comments[0].Body)
	assert.Equal(t, "two", comments[1].Body)
}

func TestParseAssignment(t *testing.T) {
	tests := []struct {
		input    string
		wantKind expr.RefKind
		wantName string
	}{
		{"let x = 1", expr.VarRef, "x"},
		{"let x=1", expr.VarRef, "x"},
		{"let\n#c = 1", expr.CommentRef, "c"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			a, ok := parseOne(t, tt.input).(*expr.Assignment)
			require.True(t, ok, "expected an assignment")
			assert.Equal(t, tt.wantKind, a.Target.Kind)
			assert.Equal(t, tt.wantName, a.Target.Name)
			lit, ok := a.Value.(*expr.IntLiteral)
			require.True(t, ok)
			assert.Equal(t, "1", lit.Value.String())
		})
	}
}

func TestParseLetNeedsWhitespace(t *testing.T) {
	ref, ok := parseOne(t, "letx").(*expr.Ref)
	require.True(t, ok)
	assert.Equal(t, "letx", ref.Name)
}

func TestParseIntegers(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr string
	}{
		{"0", "0", ""},
		{"7", "7", ""},
		{"170141183460469231731687303715884105727", "170141183460469231731687303715884105727", ""},
		{"170141183460469231731687303715884105728", "", "does not fit in 128 bits"},
		{"01", "", "leading zero"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			p, err := Parse(tt.input)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			lit, ok := p.Block.Exprs[0].(*expr.IntLiteral)
			require.True(t, ok)
			assert.Equal(t, tt.want, lit.Value.String())
		})
	}
}

func TestParseCalls(t *testing.T) {
	tests := []struct {
		input    string
		wantName string
		wantArgs int
	}{
		{"f()", "f", 0},
		{"add(1, 2)", "add", 2},
		{"add( 1 ,2 )", "add", 2},
		{"cat(\n  #a,\n  #b\n)", "cat", 2},
		{"print(add(1, 2))", "print", 1},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			call, ok := parseOne(t, tt.input).(*expr.FunctionCall)
			require.True(t, ok, "expected a call")
			assert.Equal(t, tt.wantName, call.Target.Name)
			assert.Len(t, call.Args, tt.wantArgs)
		})
	}
}

func TestParseCallNeedsAdjacentParen(t *testing.T) {
	_, err := Parse("f (1)")
	require.Error(t, err)
}

func TestParseCommentArgument(t *testing.T) {
	call, ok := parseOne(t, "print(// #a hi\n)").(*expr.FunctionCall)
	require.True(t, ok)
	require.Len(t, call.Args, 1)
	c, ok := call.Args[0].(*expr.Comment)
	require.True(t, ok)
	assert.Equal(t, "a", c.Name)
	assert.Equal(t, "hi", c.Body)
}

func TestParseWhile(t *testing.T) {
	for _, src := range []string{
		"while(false){}",
		"while (false) { }",
		"while(x) {\n  let x = false\n}",
	} {
		t.Run(src, func(t *testing.T) {
			w, ok := parseOne(t, src).(*expr.While)
			require.True(t, ok, "expected a while loop")
			_, ok = w.Cond.(*expr.Ref)
			assert.True(t, ok)
		})
	}
}

func TestParseIf(t *testing.T) {
	i, ok := parseOne(t, "if (eq(1, 1)) { print(1) print(2) }").(*expr.If)
	require.True(t, ok)
	assert.Len(t, i.Body.Exprs, 2)
	_, ok = i.Cond.(*expr.FunctionCall)
	assert.True(t, ok)
}

func TestParseKeywordsAsNames(t *testing.T) {
	call, ok := parseOne(t, "whilex(1)").(*expr.FunctionCall)
	require.True(t, ok)
	assert.Equal(t, "whilex", call.Target.Name)

	ref, ok := parseOne(t, "iffy").(*expr.Ref)
	require.True(t, ok)
	assert.Equal(t, "iffy", ref.Name)
}

func TestParseReferences(t *testing.T) {
	ref, ok := parseOne(t, "#help").(*expr.Ref)
	require.True(t, ok)
	assert.Equal(t, expr.CommentRef, ref.Kind)
	assert.Equal(t, "#help", ref.String())

	ref, ok = parseOne(t, "value_1").(*expr.Ref)
	require.True(t, ok)
	assert.Equal(t, expr.VarRef, ref.Kind)
}

func TestParseSequenceNeedsWhitespace(t *testing.T) {
	p, err := Parse("1 2\n3")
	require.NoError(t, err)
	assert.Len(t, p.Block.Exprs, 3)

	_, err = Parse("12abc")
	require.Error(t, err)
	var perr *Error
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, 3, perr.Pos.Column)
	assert.Contains(t, perr.Expected, token.WHITESPACE)
	assert.Equal(t, "abc", perr.Found)
}

func TestParseErrorPositions(t *testing.T) {
	tests := []struct {
		input    string
		line     int
		column   int
		expected token.Construct
		message  string
	}{
		{"add(1, 2", 1, 9, token.RPAREN, "parse error at line 1, column 9: expected ',' or ')', found end of input"},
		{"let x = ", 1, 9, token.EXPR, "parse error at line 1, column 9: expected expression, found end of input"},
		{"while (true) {\n  print(1)\n", 3, 1, token.RBRACE, ""},
		{"#", 1, 2, token.IDENT, ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := Parse(tt.input)
			require.Error(t, err)
			var perr *Error
			require.True(t, errors.As(err, &perr))
			assert.Equal(t, tt.line, perr.Pos.Line)
			assert.Equal(t, tt.column, perr.Pos.Column)
			assert.Contains(t, perr.Expected, tt.expected)
			if tt.message != "" {
				assert.Equal(t, tt.message, err.Error())
			}
		})
	}
}

func TestParsePositions(t *testing.T) {
	p, err := Parse("// #a x\nlet y = 1")
	require.NoError(t, err)
	require.Len(t, p.Block.Exprs, 2)
	assert.Equal(t, token.Position{Line: 1, Column: 1, Offset: 0}, p.Block.Exprs[0].Pos())
	assert.Equal(t, token.Position{Line: 2, Column: 1, Offset: 8}, p.Block.Exprs[1].Pos())
}
