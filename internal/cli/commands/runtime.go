package commands

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"zaclang.dev/zac/internal/config"
	"zaclang.dev/zac/internal/logging"
	"zaclang.dev/zac/pkg/zac"
)

var (
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	dimStyle   = lipgloss.NewStyle().Faint(true)
)

// newRuntime builds a runtime from cfg, printing to the command's output.
func newRuntime(cmd *cobra.Command, cfg *config.Config) (*zac.Runtime, error) {
	opts := []zac.Option{
		zac.WithOutput(cmd.OutOrStdout()),
		zac.WithLogger(logging.FromContext(cmd.Context())),
		zac.WithTimeout(cfg.Timeout),
		zac.WithWriteBack(cfg.WriteBack),
	}
	if cfg.History {
		opts = append(opts, zac.WithSQLiteStore(cfg.DB))
	}
	if cfg.Prelude != "" {
		opts = append(opts, zac.WithPreludeFile(cfg.Prelude))
	}
	return zac.New(opts...)
}

// ErrorText formats err for w, styled when w is a terminal.
func ErrorText(w io.Writer, err error) string {
	return styled(w, errorStyle, "Error: "+err.Error())
}

func styled(w io.Writer, style lipgloss.Style, s string) string {
	if !isTerminal(w) {
		return s
	}
	return style.Render(s)
}

func isTerminal(v any) bool {
	f, ok := v.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
