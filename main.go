// Copyright (c) 2025 Arc Engineering
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/mtreilly/arc-shelf/internal/cmd"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// Config, logging and the storage backend (csv, sqlite or memory) are
	// resolved by the root command once flags are parsed. A store that
	// cannot be read degrades to an in-memory catalog with a warning.
	root := cmd.NewRootCmd()
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "arc-shelf: %v\n", err)
		stop()
		os.Exit(cmd.ExitCode(err))
	}
}
