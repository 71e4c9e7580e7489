package main

import (
	"fmt"
	"log/slog"
	"os"
	"runtime"

	"github.com/spf13/cobra"
)

var (
	version  = "dev"
	revision = "none"
	date     = "unknown"
)

func main() {
	var verbose bool

	c := &cobra.Command{
		Use:           "pxlpeep",
		Short:         "Inspect photographic and scientific images",
		Version:       fmt.Sprintf("%s - build %.7s @ %s - %s", version, revision, date, runtime.Version()),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		},
	}
	c.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Debug logs")

	c.AddCommand(renderCommand())
	c.AddCommand(infoCommand())
	c.AddCommand(whiteBalanceCommand())
	c.AddCommand(lsCommand())
	c.AddCommand(trashCommand())
	c.AddCommand(bucketCommand())

	if err := c.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
