package commands

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"zaclang.dev/zac/internal/logging"
	"zaclang.dev/zac/pkg/zac"
)

// FmtOptions holds options for the fmt command.
type FmtOptions struct {
	Write bool
}

// NewFmtCommand creates the fmt command.
func NewFmtCommand() *cobra.Command {
	opts := &FmtOptions{}

	cmd := &cobra.Command{
		Use:   "fmt <files...>",
		Short: "Print programs in canonical form",
		Long: `Fmt parses each file and prints it the way run would write it back,
without evaluating anything. With --write the files are rewritten in place.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFmt(cmd, args, opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.Write, "write", "w", false, "Rewrite files instead of printing them")

	return cmd
}

func runFmt(cmd *cobra.Command, files []string, opts *FmtOptions) error {
	logger := logging.FromContext(cmd.Context())
	rt, err := zac.New(zac.WithLogger(logger))
	if err != nil {
		return err
	}
	defer func() { _ = rt.Close() }()

	formatted := make([]string, len(files))
	g, _ := errgroup.WithContext(cmd.Context())
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, path := range files {
		g.Go(func() error {
			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			out, err := rt.Format(string(data))
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			formatted[i] = out
			if !opts.Write || out == string(data) {
				return nil
			}
			if err := zac.WriteFileAtomic(path, []byte(out)); err != nil {
				return fmt.Errorf("write %s: %w", path, err)
			}
			logger.Info("formatted", "file", path)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if !opts.Write {
		for _, out := range formatted {
			_, _ = fmt.Fprint(cmd.OutOrStdout(), out)
		}
	}
	return nil
}
