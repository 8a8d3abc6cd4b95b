// Command zac is the zac interpreter CLI.
package main

import (
	"context"
	"os"
	"os/signal"

	"zaclang.dev/zac/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := cli.Execute(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
