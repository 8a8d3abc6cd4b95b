package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"zaclang.dev/zac/internal/logging"
	"zaclang.dev/zac/pkg/zac"
)

// checkDebounce collapses the bursts of events editors produce on save.
const checkDebounce = 100 * time.Millisecond

// CheckOptions holds options for the check command.
type CheckOptions struct {
	Watch bool
}

// NewCheckCommand creates the check command.
func NewCheckCommand() *cobra.Command {
	opts := &CheckOptions{}

	cmd := &cobra.Command{
		Use:   "check <files...>",
		Short: "Report syntax errors and duplicate comment names",
		Long: `Check parses each file and seeds its named comments without evaluating
anything, reporting parse errors and duplicate comment names.

With --watch the files are checked again every time they change, until
interrupted.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := zac.New(zac.WithLogger(logging.FromContext(cmd.Context())))
			if err != nil {
				return err
			}
			defer func() { _ = rt.Close() }()

			failed := checkFiles(cmd, rt, args)
			if opts.Watch {
				return watchFiles(cmd, rt, args)
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d files failed", failed, len(args))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&opts.Watch, "watch", false, "Check again whenever a file changes")

	return cmd
}

// checkFiles checks every file and returns the number that failed.
func checkFiles(cmd *cobra.Command, rt *zac.Runtime, files []string) int {
	failed := 0
	for _, path := range files {
		if !checkFile(cmd.OutOrStdout(), cmd.ErrOrStderr(), rt, path) {
			failed++
		}
	}
	return failed
}

func checkFile(out, errOut io.Writer, rt *zac.Runtime, path string) bool {
	data, err := os.ReadFile(path)
	if err == nil {
		err = rt.Check(string(data))
	}
	if err != nil {
		_, _ = fmt.Fprintln(errOut, ErrorText(errOut, fmt.Errorf("%s: %w", path, err)))
		return false
	}
	_, _ = fmt.Fprintln(out, styled(out, okStyle, "ok")+" "+path)
	return true
}

func watchFiles(cmd *cobra.Command, rt *zac.Runtime, files []string) error {
	ctx := cmd.Context()
	logger := logging.FromContext(ctx)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	// Editors often replace files on save, so watch the directories.
	watched := make(map[string]string, len(files))
	for _, path := range files {
		abs, err := filepath.Abs(path)
		if err != nil {
			return err
		}
		watched[abs] = path
		if err := watcher.Add(filepath.Dir(abs)); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
	}
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), styled(cmd.OutOrStdout(), dimStyle, "watching for changes"))

	return watchLoop(ctx, watcher, watched, func(path string) {
		logger.Debug("file changed", "file", path)
		checkFile(cmd.OutOrStdout(), cmd.ErrOrStderr(), rt, path)
	})
}

func watchLoop(ctx context.Context, watcher *fsnotify.Watcher, watched map[string]string, recheck func(string)) error {
	logger := logging.FromContext(ctx)
	changed := make(chan string)
	timers := make(map[string]*time.Timer)
	defer func() {
		for _, t := range timers {
			t.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			path, ok := watched[filepath.Clean(event.Name)]
			if !ok {
				continue
			}
			if t, ok := timers[path]; ok {
				t.Stop()
			}
			timers[path] = time.AfterFunc(checkDebounce, func() {
				select {
				case changed <- path:
				case <-ctx.Done():
				}
			})

		case path := <-changed:
			recheck(path)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher error", "error", err)
		}
	}
}
