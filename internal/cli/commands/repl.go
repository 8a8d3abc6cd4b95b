package commands

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/chzyer/readline"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"zaclang.dev/zac/internal/config"
	"zaclang.dev/zac/pkg/zac"
)

const (
	replPrompt         = "zac> "
	replContinuePrompt = " ...> "
)

// NewReplCommand creates the repl command.
func NewReplCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Start an interactive session",
		Long: `Repl evaluates snippets one at a time against a single session, so
variables and named comments declared earlier stay visible.

End a line with \ to continue it on the next one. Type .help for commands.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := *config.FromContext(cmd.Context())
			historyFile := ""
			if cfg.History {
				historyFile = filepath.Join(filepath.Dir(cfg.DB), "repl_history")
			}
			cfg.History = false
			cfg.WriteBack = false

			rt, err := newRuntime(cmd, &cfg)
			if err != nil {
				return err
			}
			defer func() { _ = rt.Close() }()

			session, err := rt.NewSession()
			if err != nil {
				return err
			}
			r := &repl{
				ctx:     cmd.Context(),
				session: session,
				out:     cmd.OutOrStdout(),
				errOut:  cmd.ErrOrStderr(),
				timeout: cfg.Timeout,
			}

			_, _ = fmt.Fprintln(r.out, "zac REPL (Ctrl+D to exit)")
			_, _ = fmt.Fprintln(r.out, "Type .help for commands, .quit to exit")
			_, _ = fmt.Fprintln(r.out)

			if isTerminal(cmd.InOrStdin()) {
				return r.runReadline(historyFile)
			}
			return r.runBasic(cmd.InOrStdin())
		},
	}
}

type repl struct {
	ctx     context.Context
	session *zac.Session
	out     io.Writer
	errOut  io.Writer
	timeout time.Duration

	multiline strings.Builder
}

// runReadline handles terminal input with line editing and history.
func (r *repl) runReadline(historyFile string) error {
	if historyFile != "" {
		if err := os.MkdirAll(filepath.Dir(historyFile), 0o750); err != nil {
			historyFile = ""
		}
	}
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          replPrompt,
		HistoryFile:     historyFile,
		AutoComplete:    r.completer(),
		InterruptPrompt: "^C",
		EOFPrompt:       ".quit",
	})
	if err != nil {
		return fmt.Errorf("failed to initialize REPL: %w", err)
	}
	defer func() { _ = rl.Close() }()

	return r.loop(rl)
}

// lineReader is the part of *readline.Instance the loop uses.
type lineReader interface {
	Readline() (string, error)
	SetPrompt(prompt string)
}

func (r *repl) loop(rl lineReader) error {
	for {
		line, err := rl.Readline()
		switch {
		case errors.Is(err, readline.ErrInterrupt):
			r.multiline.Reset()
			rl.SetPrompt(replPrompt)
			continue
		case errors.Is(err, io.EOF):
			return nil
		case err != nil:
			return fmt.Errorf("read input: %w", err)
		}
		quit, more := r.feed(line)
		if quit {
			return nil
		}
		if more {
			rl.SetPrompt(replContinuePrompt)
		} else {
			rl.SetPrompt(replPrompt)
		}
	}
}

// runBasic handles piped input.
func (r *repl) runBasic(in io.Reader) error {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		if quit, _ := r.feed(scanner.Text()); quit {
			return nil
		}
	}
	return scanner.Err()
}

// feed consumes one input line. It reports whether the session should end
// and whether the line was continued.
func (r *repl) feed(line string) (quit, more bool) {
	line = strings.TrimRight(line, "\r\n")
	if rest, ok := strings.CutSuffix(line, "\\"); ok {
		r.multiline.WriteString(rest)
		r.multiline.WriteString("\n")
		return false, true
	}

	input := line
	if r.multiline.Len() > 0 {
		r.multiline.WriteString(line)
		input = r.multiline.String()
		r.multiline.Reset()
	}

	trimmed := strings.TrimSpace(input)
	switch {
	case trimmed == "":
		return false, false
	case strings.HasPrefix(trimmed, "."):
		return r.dotCommand(trimmed), false
	}

	ctx := r.ctx
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}
	v, err := r.session.Eval(ctx, input)
	if err != nil {
		_, _ = fmt.Fprintln(r.errOut, ErrorText(r.errOut, err))
		return false, false
	}
	_, _ = fmt.Fprintln(r.out, zac.Debug(v))
	return false, false
}

func (r *repl) dotCommand(line string) bool {
	command := strings.ToLower(strings.Fields(line)[0])
	switch command {
	case ".quit", ".exit":
		return true

	case ".help":
		printREPLHelp(r.out)
		_, _ = fmt.Fprintln(r.out, r.session.Help())

	case ".comments":
		t := table.NewWriter()
		t.AppendHeader(table.Row{"Name", "Body"})
		for _, c := range r.session.Comments() {
			t.AppendRow(table.Row{"#" + c.Name, c.Body})
		}
		_, _ = fmt.Fprintln(r.out, t.Render())

	case ".vars":
		t := table.NewWriter()
		t.AppendHeader(table.Row{"Name", "Value"})
		for _, v := range r.session.Vars() {
			t.AppendRow(table.Row{v.Name, zac.Debug(v.Value)})
		}
		_, _ = fmt.Fprintln(r.out, t.Render())

	default:
		_, _ = fmt.Fprintf(r.errOut, "Unknown command: %s (type .help for commands)\n", command)
	}
	return false
}

func printREPLHelp(w io.Writer) {
	help := `Commands:
  .help           Show this help and the language help
  .comments       List named comments and their bodies
  .vars           List bound names and their values
  .quit / .exit   Exit the REPL
`
	_, _ = fmt.Fprintln(w, help)
}

func (r *repl) completer() *readline.PrefixCompleter {
	items := []readline.PrefixCompleterInterface{
		readline.PcItem(".help"),
		readline.PcItem(".comments"),
		readline.PcItem(".vars"),
		readline.PcItem(".quit"),
	}
	for _, v := range r.session.Vars() {
		items = append(items, readline.PcItem(v.Name))
	}
	return readline.NewPrefixCompleter(items...)
}
