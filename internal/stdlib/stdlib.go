// Package stdlib holds reference text embedded into the zac binary.
package stdlib

import (
	_ "embed"
	"strings"
)

//go:embed welcome.txt
var welcome string

// Welcome is the text that opens the synthesized #help comment.
var Welcome = strings.TrimSpace(welcome)
