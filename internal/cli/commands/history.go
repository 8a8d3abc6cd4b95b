package commands

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"zaclang.dev/zac/internal/config"
	"zaclang.dev/zac/pkg/zac"
)

// bodyPreviewWidth bounds the body column of the history table.
const bodyPreviewWidth = 60

// HistoryOptions holds options for the history command.
type HistoryOptions struct {
	Limit int
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand() *cobra.Command {
	opts := &HistoryOptions{}

	cmd := &cobra.Command{
		Use:   "history <file> <comment>",
		Short: "Show recorded versions of a named comment",
		Example: `  zac history counter.zac counter
  zac history --limit 0 counter.zac '#counter'`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(cmd, args[0], strings.TrimPrefix(args[1], "#"), opts)
		},
	}

	cmd.Flags().IntVarP(&opts.Limit, "limit", "n", 10, "Number of versions to show (0 for all)")

	return cmd
}

func runHistory(cmd *cobra.Command, path, name string, opts *HistoryOptions) error {
	cfg := *config.FromContext(cmd.Context())
	if !cfg.History {
		return errors.New("history is disabled")
	}
	if opts.Limit < 0 {
		return fmt.Errorf("limit must not be negative, got %d", opts.Limit)
	}

	rt, err := newRuntime(cmd, &cfg)
	if err != nil {
		return err
	}
	defer func() { _ = rt.Close() }()

	doc, err := zac.Doc(path)
	if err != nil {
		return err
	}
	versions, err := rt.History(doc, name, opts.Limit)
	if err != nil {
		return err
	}
	if len(versions) == 0 {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "no history for #%s in %s\n", name, path)
		return nil
	}

	t := table.NewWriter()
	t.AppendHeader(table.Row{"Version", "Recorded", "Body"})
	for _, v := range versions {
		t.AppendRow(table.Row{v.Version, v.Ts, preview(v.Body)})
	}
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), t.Render())
	return nil
}

// preview flattens body onto one line and shortens it to bodyPreviewWidth runes.
func preview(body string) string {
	flat := strings.ReplaceAll(body, "\n", `\n`)
	runes := []rune(flat)
	if len(runes) <= bodyPreviewWidth {
		return flat
	}
	return string(runes[:bodyPreviewWidth-3]) + "..."
}
