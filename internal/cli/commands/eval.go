package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"zaclang.dev/zac/internal/config"
	"zaclang.dev/zac/pkg/zac"
)

// NewEvalCommand creates the eval command.
func NewEvalCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "eval <source>",
		Short: "Evaluate a snippet and print its value",
		Long: `Eval runs a snippet of zac given on the command line and prints the value
of its last expression. Nothing is written back or recorded.`,
		Example: `  zac eval 'add(1, 2)'
  zac eval 'cat(#help, chr(10))'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := *config.FromContext(cmd.Context())
			cfg.History = false
			cfg.WriteBack = false

			rt, err := newRuntime(cmd, &cfg)
			if err != nil {
				return err
			}
			defer func() { _ = rt.Close() }()

			res, err := rt.Run(cmd.Context(), "<eval>", args[0])
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), zac.Debug(res.Value))
			return nil
		},
	}
}
