// Package main is the entry point for cardctl.
// cardctl files a card on a board, creating the board, column and labels it
// names when they do not exist yet.
package main

import (
	"context"
	"os"
	"os/signal"

	"cardctl/cmd/cli/cmd"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := cmd.Execute(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
