package eval

import (
	"fmt"

	"zaclang.dev/zac/internal/expr"
	"zaclang.dev/zac/internal/token"
)

// locate prefixes msg with pos when the error points into source text.
func locate(pos token.Position, msg string) string {
	if !pos.IsValid() {
		return msg
	}
	return pos.String() + ": " + msg
}

// UndefinedReferenceError is returned when a variable or comment name is
// not bound at read time, or when a comment that was never declared is
// assigned.
type UndefinedReferenceError struct {
	Kind expr.RefKind
	Name string
	Pos  token.Position
}

func (e *UndefinedReferenceError) Error() string {
	if e.Kind == expr.CommentRef {
		return locate(e.Pos, "undefined comment #"+e.Name)
	}
	return locate(e.Pos, "undefined name "+e.Name)
}

// TypeMismatchError is returned when a value's tag does not match the tag an
// operation requires.
type TypeMismatchError struct {
	Want    Kind
	Got     Value
	Context string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("%s: %s is not a %s", e.Context, Debug(e.Got), e.Want)
}

// DuplicateCommentError is returned when two named comments share a name.
type DuplicateCommentError struct {
	Name string
	Pos  token.Position
}

func (e *DuplicateCommentError) Error() string {
	return locate(e.Pos, "duplicate comment #"+e.Name)
}

// ArityError is returned when a call is missing an argument. Index is the
// 0-based position that was looked for.
type ArityError struct {
	Callee string
	Index  int
	Got    int
}

func (e *ArityError) Error() string {
	return fmt.Sprintf("%s: not enough arguments, was looking for %d but only %d were provided",
		e.Callee, e.Index, e.Got)
}

// NotCallableError is returned when a call target is a Bool, Map or Int.
type NotCallableError struct {
	Target Value
	Pos    token.Position
}

func (e *NotCallableError) Error() string {
	return locate(e.Pos, "tried to call a "+Debug(e.Target))
}

// EncodingError is returned by chr when the selected byte is not valid
// UTF-8 on its own.
type EncodingError struct {
	Byte byte
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("chr: byte 0x%02x is not valid utf-8", e.Byte)
}

// EmptyBlockError is returned when an empty block is evaluated.
type EmptyBlockError struct {
	Pos token.Position
}

func (e *EmptyBlockError) Error() string {
	return locate(e.Pos, "a block can't be empty")
}

// InterruptedError is returned when the host cancels a running loop.
type InterruptedError struct {
	Pos token.Position
	Err error
}

func (e *InterruptedError) Error() string {
	return locate(e.Pos, fmt.Sprintf("interrupted: %v", e.Err))
}

func (e *InterruptedError) Unwrap() error { return e.Err }
