// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2026 The zac Authors

// Package expr defines the zac program tree.
package expr

import (
	"zaclang.dev/zac/internal/num"
	"zaclang.dev/zac/internal/token"
)

// Expr is the interface all expression nodes implement. The set of node
// types is closed.
type Expr interface {
	// Pos returns where the expression starts in the source.
	Pos() token.Position
	exprNode()
}

// Program is the root of a parsed source file.
type Program struct {
	Block *Block
}

// Block is an ordered sequence of expressions.
type Block struct {
	Exprs []Expr
	At    token.Position
}

// Comment is a comment literal. Name is empty for anonymous comments.
type Comment struct {
	Name string
	Body string
	At   token.Position
}

// Named reports whether the comment carries a name.
func (c *Comment) Named() bool { return c.Name != "" }

// RefKind distinguishes comment references from variable references.
type RefKind int

const (
	VarRef RefKind = iota
	CommentRef
)

func (k RefKind) String() string {
	if k == CommentRef {
		return "comment"
	}
	return "variable"
}

// Ref names either a comment (#name) or a scope variable (name).
type Ref struct {
	Kind RefKind
	Name string
	At   token.Position
}

// String returns the reference as written in source.
func (r *Ref) String() string {
	if r.Kind == CommentRef {
		return string(token.RuneCommentName) + r.Name
	}
	return r.Name
}

// Assignment is `let target = value`.
type Assignment struct {
	Target *Ref
	Value  Expr
	At     token.Position
}

// IntLiteral is a decimal integer literal.
type IntLiteral struct {
	Value num.Int
	At    token.Position
}

// FunctionCall is `target(args...)`.
type FunctionCall struct {
	Target *Ref
	Args   []Expr
	At     token.Position
}

// While is `while (cond) { body }`.
type While struct {
	Cond Expr
	Body *Block
	At   token.Position
}

// If is `if (cond) { body }`.
type If struct {
	Cond Expr
	Body *Block
	At   token.Position
}

func (b *Block) Pos() token.Position        { return b.At }
func (c *Comment) Pos() token.Position      { return c.At }
func (r *Ref) Pos() token.Position          { return r.At }
func (a *Assignment) Pos() token.Position   { return a.At }
func (i *IntLiteral) Pos() token.Position   { return i.At }
func (f *FunctionCall) Pos() token.Position { return f.At }
func (w *While) Pos() token.Position        { return w.At }
func (i *If) Pos() token.Position           { return i.At }

func (*Block) exprNode()        {}
func (*Comment) exprNode()      {}
func (*Ref) exprNode()          {}
func (*Assignment) exprNode()   {}
func (*IntLiteral) exprNode()   {}
func (*FunctionCall) exprNode() {}
func (*While) exprNode()        {}
func (*If) exprNode()           {}
