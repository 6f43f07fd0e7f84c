// Package main implements the fortasrc CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"fortasr/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "fortasrc",
	Short: "Fortran ASR compiler toolchain",
	Long:  `fortasrc parses, lowers, verifies, and rewrites Fortran source through an ASR-shaped pipeline.`,
}

var (
	timeoutCancel   context.CancelFunc
	timeoutDuration time.Duration
)

func main() {
	rootCmd.Version = version.Version
	rootCmd.PersistentPreRunE = applyTimeout
	rootCmd.PersistentPostRun = cleanupTimeout

	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(dumpASRCmd)
	rootCmd.AddCommand(replCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().String("color", "auto", "colorize diagnostics (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().Bool("timings", false, "show phase timing information")
	rootCmd.PersistentFlags().Int("max-diagnostics", 100, "maximum number of diagnostics to show")
	rootCmd.PersistentFlags().Int("timeout", 30, "command timeout in seconds")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

func applyTimeout(cmd *cobra.Command, _ []string) error {
	secs, err := cmd.Root().PersistentFlags().GetInt("timeout")
	if err != nil {
		return fmt.Errorf("failed to read timeout flag: %w", err)
	}
	if secs <= 0 {
		return fmt.Errorf("timeout must be greater than zero")
	}

	timeoutDuration = time.Duration(secs) * time.Second
	ctx, cancel := context.WithTimeout(cmd.Context(), timeoutDuration)
	timeoutCancel = cancel

	cmd.SetContext(ctx)
	cmd.Root().SetContext(ctx)

	go func() {
		<-ctx.Done()
		if ctx.Err() == context.DeadlineExceeded {
			fmt.Fprintf(os.Stderr, "fortasrc: command timed out after %s\n", timeoutDuration)
			os.Exit(1)
		}
	}()

	return nil
}

func cleanupTimeout(*cobra.Command, []string) {
	if timeoutCancel != nil {
		timeoutCancel()
		timeoutCancel = nil
	}
}
