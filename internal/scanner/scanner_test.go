package scanner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zaclang.dev/zac/internal/token"
)

func TestScannerTracksLinesAndColumns(t *testing.T) {
	s := New("ab\ncé\n")

	assert.Equal(t, 'a', s.Next())
	assert.Equal(t, 'b', s.Next())
	assert.Equal(t, token.Position{Line: 1, Column: 3, Offset: 2}, s.Pos())

	assert.Equal(t, '\n', s.Next())
	assert.Equal(t, token.Position{Line: 2, Column: 1, Offset: 3}, s.Pos())

	s.Next()
	assert.Equal(t, 'é', s.Next())
	assert.Equal(t, token.Position{Line: 2, Column: 3, Offset: 6}, s.Pos())
}

func TestScannerResetBacktracks(t *testing.T) {
	s := New("let x")
	mark := s.Pos()

	require.True(t, s.Consume("let"))
	assert.Equal(t, 1, s.SkipBlank())

	s.Reset(mark)
	ident, ok := s.ScanIdent()
	require.True(t, ok)
	assert.Equal(t, "let", ident)
}

func TestScanIdent(t *testing.T) {
	tests := []struct {
		input string
		want  string
		ok    bool
	}{
		{"foo bar", "foo", true},
		{"_x1(", "_x1", true},
		{"1abc", "", false},
		{"#name", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := New(tt.input).ScanIdent()
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRestOfLineDropsCarriageReturn(t *testing.T) {
	s := New("hello world\r\nnext")
	assert.Equal(t, "hello world", s.RestOfLine())
	assert.True(t, s.AtLineEnd())
	assert.True(t, s.ConsumeNewline())
	assert.Equal(t, "next", s.RestOfLine())
	assert.True(t, s.EOF())
}

func TestSkipSpaceCrossesNewlines(t *testing.T) {
	s := New(" \t\n\r\n  x")
	assert.Equal(t, 7, s.SkipSpace())
	assert.Equal(t, 'x', s.Peek())
	assert.Equal(t, 3, s.Pos().Line)
}

func TestExcerpt(t *testing.T) {
	s := New("abcdefgh\nsecond")
	assert.Equal(t, "abc...", s.Excerpt(3))
	assert.Equal(t, "abcdefgh", s.Excerpt(20))
}
