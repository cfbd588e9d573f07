package main

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"

	rootCmd = &cobra.Command{
		Use:   "gserve",
		Short: "Bootstrap a TCP server with a serial or select-based accept loop",
		Long: `gserve drives a listening socket through init, bind, listen and accept,
then hands every connection to a line-echo handler.

Examples:
  gserve serve --port 9000 --strategy select --timeout 2s
  gserve serve --port 9000 --strategy serial --reuse-address
  gserve probe --addr 127.0.0.1:9000 --message hello --count 3`,
		SilenceUsage: true,
	}
)

func versionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s)", Version, Commit)
}

func newLogger() *log.Logger {
	return log.NewWithOptions(os.Stderr, log.Options{
		Prefix:          "gserve",
		ReportTimestamp: true,
	})
}

// Execute runs the root command; called once by main.
func Execute() {
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(versionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		os.Exit(1)
	}
}
