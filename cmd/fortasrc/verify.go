package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"fortasr/internal/driver"
	"fortasr/internal/source"
)

var verifyCmd = &cobra.Command{
	Use:   "verify [flags] [path]",
	Short: "Run the full pipeline and report diagnostics without caching",
	Args:  cobra.MaximumNArgs(1),
	RunE:  verifyExecution,
}

func verifyExecution(cmd *cobra.Command, args []string) error {
	manifest, err := resolveManifest(args)
	if err != nil {
		return err
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return err
	}

	fs := source.NewFileSet()
	results, compileErr := driver.CompileProject(cmd.Context(), fs, manifest, driver.Options{MaxDiagnostics: maxDiagnostics})

	quiet, _ := cmd.Root().PersistentFlags().GetBool("quiet")
	if reportErr := reportResults(cmd, fs, manifest.Sources, results, quiet, false); reportErr != nil {
		return reportErr
	}
	if compileErr != nil {
		return fmt.Errorf("verify failed: %w", compileErr)
	}
	return nil
}
