package parser

import (
	"fmt"
	"strings"

	"zaclang.dev/zac/internal/token"
)

// Error is the single failure a parse can produce. It points at the furthest
// position the grammar reached and names what was expected there.
type Error struct {
	Pos      token.Position
	Expected []token.Construct
	Found    string
	Message  string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("parse error at line %d, column %d: %s", e.Pos.Line, e.Pos.Column, e.Message)
	}
	found := "end of input"
	if e.Found != "" {
		found = fmt.Sprintf("%q", e.Found)
	}
	return fmt.Sprintf("parse error at line %d, column %d: expected %s, found %s",
		e.Pos.Line, e.Pos.Column, joinExpected(e.Expected), found)
}

func joinExpected(cs []token.Construct) string {
	names := make([]string, len(cs))
	for i, c := range cs {
		names[i] = c.String()
	}
	switch len(names) {
	case 0:
		return "nothing"
	case 1:
		return names[0]
	}
	return strings.Join(names[:len(names)-1], ", ") + " or " + names[len(names)-1]
}

// Common error messages
const (
	ErrIntegerRange = "integer literal %s does not fit in 128 bits"
	ErrLeadingZero  = "integer literal %s has a leading zero"
)
