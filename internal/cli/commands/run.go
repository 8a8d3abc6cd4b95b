package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"zaclang.dev/zac/internal/config"
	"zaclang.dev/zac/internal/logging"
)

// RunOptions holds options for the run command.
type RunOptions struct {
	DryRun      bool
	PrintSource bool
}

// NewRunCommand creates the run command.
func NewRunCommand() *cobra.Command {
	opts := &RunOptions{}

	cmd := &cobra.Command{
		Use:   "run <file>",
		Short: "Run a program and write its comments back",
		Long: `Run evaluates a zac program. When it succeeds the program is reassembled
with the final bodies of its named comments, the file is rewritten if the
text changed, and every comment body is recorded in the history database.

A failed run leaves the file and the history untouched.`,
		Example: `  # Run a program in place
  zac run counter.zac

  # See what the program would become without touching it
  zac run --dry-run --print-source counter.zac

  # Stop runaway loops
  zac run --timeout 2s loop.zac`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRun(cmd, args[0], opts)
		},
	}

	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "Evaluate without rewriting the file or recording history")
	cmd.Flags().BoolVar(&opts.PrintSource, "print-source", false, "Print the reassembled program")
	cmd.Flags().Duration("timeout", 0, "Interrupt the program after this long (0 means no limit)")

	return cmd
}

func runRun(cmd *cobra.Command, path string, opts *RunOptions) error {
	ctx := cmd.Context()
	cfg := *config.FromContext(ctx)
	logger := logging.FromContext(ctx)
	if opts.DryRun {
		cfg.WriteBack = false
		cfg.History = false
	}

	rt, err := newRuntime(cmd, &cfg)
	if err != nil {
		return err
	}
	defer func() { _ = rt.Close() }()

	res, err := rt.RunFile(ctx, path)
	if err != nil {
		return err
	}
	logger.Info("run complete",
		"file", path,
		"run_id", res.RunID,
		"changed", strings.Join(res.Changed, ","))

	if opts.PrintSource {
		_, _ = fmt.Fprint(cmd.OutOrStdout(), res.Source)
	}
	return nil
}
