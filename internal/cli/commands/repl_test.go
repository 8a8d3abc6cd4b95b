package commands

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/chzyer/readline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zaclang.dev/zac/pkg/zac"
)

type readResult struct {
	line string
	err  error
}

// scriptedReader replays fixed Readline results and records prompts.
type scriptedReader struct {
	results []readResult
	calls   int
	prompts []string
}

func (s *scriptedReader) Readline() (string, error) {
	s.calls++
	if len(s.results) == 0 {
		return "", io.EOF
	}
	next := s.results[0]
	s.results = s.results[1:]
	return next.line, next.err
}

func (s *scriptedReader) SetPrompt(prompt string) {
	s.prompts = append(s.prompts, prompt)
}

func newTestREPL(t *testing.T) (*repl, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	var out, errOut bytes.Buffer
	rt, err := zac.New(zac.WithOutput(&out))
	require.NoError(t, err)
	t.Cleanup(func() { _ = rt.Close() })
	session, err := rt.NewSession()
	require.NoError(t, err)
	return &repl{ctx: context.Background(), session: session, out: &out, errOut: &errOut}, &out, &errOut
}

func TestREPLLoop(t *testing.T) {
	r, out, _ := newTestREPL(t)
	rl := &scriptedReader{results: []readResult{
		{line: "let x = 1"},
		{line: `add(x, \`},
		{err: readline.ErrInterrupt},
		{line: `add(x, \`},
		{line: "2)"},
	}}

	require.NoError(t, r.loop(rl))
	assert.Equal(t, "Int(1)\nInt(3)\n", out.String())
	assert.Equal(t, []string{replPrompt, replContinuePrompt, replPrompt, replContinuePrompt, replPrompt}, rl.prompts)
}

func TestREPLLoopReadError(t *testing.T) {
	r, _, _ := newTestREPL(t)
	broken := errors.New("terminal gone")
	rl := &scriptedReader{results: []readResult{
		{line: "let x = 1"},
		{err: broken},
		{line: "let y = 2"},
	}}

	err := r.loop(rl)
	require.ErrorIs(t, err, broken)
	assert.Equal(t, 2, rl.calls)
}

func TestREPLLoopQuit(t *testing.T) {
	r, out, _ := newTestREPL(t)
	rl := &scriptedReader{results: []readResult{{line: ".quit"}, {line: "print(1)"}}}

	require.NoError(t, r.loop(rl))
	assert.Empty(t, out.String())
	assert.Equal(t, 1, rl.calls)
}
