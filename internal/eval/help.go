package eval

import (
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"zaclang.dev/zac/internal/stdlib"
)

// helpName is the reserved comment that is synthesized on read and never stored.
const helpName = "help"

// helpRowSize is the number of names per table row.
const helpRowSize = 10

// helpText renders the welcome text followed by the function and variable
// names currently bound in scope.
func (e *Evaluator) helpText() string {
	var functions, variables []string
	for _, name := range e.scope.Names() {
		v, _ := e.scope.Get(name)
		if _, ok := v.(Function); ok {
			functions = append(functions, name)
		} else {
			variables = append(variables, name)
		}
	}

	var sb strings.Builder
	sb.WriteString(stdlib.Welcome)
	sb.WriteString("\n\nBuiltin functions:\n")
	sb.WriteString(tableize(functions))
	sb.WriteString("\nAvailable variables\n")
	sb.WriteString(tableize(variables))
	return strings.TrimRight(sb.String(), " \t\n")
}

func tableize(names []string) string {
	if len(names) == 0 {
		return ""
	}
	t := table.NewWriter()
	t.Style().Options = table.OptionsNoBordersAndSeparators
	for start := 0; start < len(names); start += helpRowSize {
		end := min(start+helpRowSize, len(names))
		row := make(table.Row, 0, end-start)
		for _, name := range names[start:end] {
			row = append(row, name)
		}
		t.AppendRow(row)
	}
	return t.Render() + "\n"
}
