// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2026 The zac Authors

// Package token defines zac lexical markers, keywords and source positions.
package token

import "fmt"

// Construct names a grammar construct. Parse errors report the construct
// that was expected at the failing position.
type Construct int

const (
	EOF Construct = iota
	EXPR
	COMMENT
	ASSIGNMENT
	INTEGER
	WHILE
	IF
	CALL
	REF
	IDENT
	WHITESPACE

	// Punctuation
	ASSIGN  // =
	COMMA   // ,
	LPAREN  // (
	RPAREN  // )
	LBRACE  // {
	RBRACE  // }
	NEWLINE // \n
)

// Markers and keywords.
const (
	CommentMarker   = "//"
	RuneCommentName = '#'

	KeywordLet   = "let"
	KeywordWhile = "while"
	KeywordIf    = "if"
)

// String returns a human readable name for the construct.
func (c Construct) String() string {
	switch c {
	case EOF:
		return "end of input"
	case EXPR:
		return "expression"
	case COMMENT:
		return "comment"
	case ASSIGNMENT:
		return "assignment"
	case INTEGER:
		return "integer literal"
	case WHILE:
		return "while loop"
	case IF:
		return "if"
	case CALL:
		return "function call"
	case REF:
		return "reference"
	case IDENT:
		return "identifier"
	case WHITESPACE:
		return "whitespace"
	case ASSIGN:
		return "'='"
	case COMMA:
		return "','"
	case LPAREN:
		return "'('"
	case RPAREN:
		return "')'"
	case LBRACE:
		return "'{'"
	case RBRACE:
		return "'}'"
	case NEWLINE:
		return "newline"
	}
	return "UNKNOWN"
}

// IsIdentStart returns true if r can begin an identifier.
func IsIdentStart(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

// IsIdentChar returns true if r can continue an identifier.
func IsIdentChar(r rune) bool {
	return IsIdentStart(r) || (r >= '0' && r <= '9')
}

// IsBlank returns true for horizontal whitespace.
func IsBlank(r rune) bool {
	return r == ' ' || r == '\t'
}

// IsSpace returns true for any whitespace the grammar accepts between expressions.
func IsSpace(r rune) bool {
	return IsBlank(r) || r == '\n' || r == '\r'
}

// Position represents a location in the source code.
type Position struct {
	Line   int // 1-based line number
	Column int // 1-based column number, counted in runes
	Offset int // 0-based byte offset
}

// IsValid returns true if the position is valid (line > 0).
func (p Position) IsValid() bool {
	return p.Line > 0
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}
