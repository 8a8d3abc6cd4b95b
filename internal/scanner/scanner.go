// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2026 The zac Authors

// Package scanner provides a backtracking, Unicode-aware rune cursor for zac source.
package scanner

import (
	"strings"
	"unicode/utf8"

	"zaclang.dev/zac/internal/token"
)

// Scanner walks zac source rune-by-rune. The parser saves and restores its
// position to try grammar alternatives in order.
type Scanner struct {
	src string
	pos token.Position
}

// New creates a new Scanner over src.
func New(src string) *Scanner {
	return &Scanner{
		src: src,
		pos: token.Position{Line: 1, Column: 1},
	}
}

// Pos returns the current position.
func (s *Scanner) Pos() token.Position {
	return s.pos
}

// Reset moves the scanner back to a position previously returned by Pos.
func (s *Scanner) Reset(p token.Position) {
	s.pos = p
}

// EOF reports whether all input has been consumed.
func (s *Scanner) EOF() bool {
	return s.pos.Offset >= len(s.src)
}

// Peek returns the next rune without consuming it. Returns 0 at EOF.
func (s *Scanner) Peek() rune {
	if s.EOF() {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(s.src[s.pos.Offset:])
	return r
}

// Next consumes and returns the next rune. Returns 0 at EOF.
func (s *Scanner) Next() rune {
	if s.EOF() {
		return 0
	}
	r, size := utf8.DecodeRuneInString(s.src[s.pos.Offset:])
	s.pos.Offset += size
	if r == '\n' {
		s.pos.Line++
		s.pos.Column = 1
	} else {
		s.pos.Column++
	}
	return r
}

// HasPrefix reports whether the unread input starts with prefix.
func (s *Scanner) HasPrefix(prefix string) bool {
	return strings.HasPrefix(s.src[s.pos.Offset:], prefix)
}

// Consume advances past prefix if the unread input starts with it.
func (s *Scanner) Consume(prefix string) bool {
	if !s.HasPrefix(prefix) {
		return false
	}
	for range prefix {
		s.Next()
	}
	return true
}

// SkipBlank consumes spaces and tabs and returns how many runes were skipped.
func (s *Scanner) SkipBlank() int {
	n := 0
	for !s.EOF() && token.IsBlank(s.Peek()) {
		s.Next()
		n++
	}
	return n
}

// SkipSpace consumes all whitespace, newlines included, and returns how many
// runes were skipped.
func (s *Scanner) SkipSpace() int {
	n := 0
	for !s.EOF() && token.IsSpace(s.Peek()) {
		s.Next()
		n++
	}
	return n
}

// ConsumeNewline consumes a single "\n" or "\r\n".
func (s *Scanner) ConsumeNewline() bool {
	if s.Consume("\r\n") {
		return true
	}
	return s.Consume("\n")
}

// ScanIdent scans an identifier ([A-Za-z_][A-Za-z0-9_]*). The scanner does
// not move when no identifier starts here.
func (s *Scanner) ScanIdent() (string, bool) {
	if s.EOF() || !token.IsIdentStart(s.Peek()) {
		return "", false
	}
	start := s.pos.Offset
	for !s.EOF() && token.IsIdentChar(s.Peek()) {
		s.Next()
	}
	return s.src[start:s.pos.Offset], true
}

// ScanDigits scans a run of ASCII digits.
func (s *Scanner) ScanDigits() string {
	start := s.pos.Offset
	for !s.EOF() {
		r := s.Peek()
		if r < '0' || r > '9' {
			break
		}
		s.Next()
	}
	return s.src[start:s.pos.Offset]
}

// RestOfLine consumes everything up to, but not including, the next newline.
// A trailing carriage return is dropped from the result.
func (s *Scanner) RestOfLine() string {
	start := s.pos.Offset
	for !s.EOF() && s.Peek() != '\n' {
		s.Next()
	}
	return strings.TrimSuffix(s.src[start:s.pos.Offset], "\r")
}

// AtLineEnd reports whether the scanner sits at a newline or at EOF.
func (s *Scanner) AtLineEnd() bool {
	return s.EOF() || s.HasPrefix("\n") || s.HasPrefix("\r\n")
}

// Excerpt returns a short printable view of the unread input for diagnostics.
func (s *Scanner) Excerpt(max int) string {
	if s.EOF() {
		return ""
	}
	rest := s.src[s.pos.Offset:]
	if i := strings.IndexByte(rest, '\n'); i >= 0 {
		rest = rest[:i]
	}
	if utf8.RuneCountInString(rest) > max {
		rest = string([]rune(rest)[:max]) + "..."
	}
	return rest
}
