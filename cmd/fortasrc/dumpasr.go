package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"fortasr/internal/diagfmt"
	"fortasr/internal/driver"
	"fortasr/internal/source"
)

var dumpASRCmd = &cobra.Command{
	Use:   "dump-asr <path>",
	Short: "Compile a single file and print its ASR symbol tables",
	Args:  cobra.ExactArgs(1),
	RunE:  dumpASRExecution,
}

func dumpASRExecution(cmd *cobra.Command, args []string) error {
	fs := source.NewFileSet()
	fid, err := fs.Load(args[0])
	if err != nil {
		return fmt.Errorf("dump-asr: %w", err)
	}

	colorMode, err := readColorMode(cmd)
	if err != nil {
		return err
	}

	result, compileErr := driver.CompileFile(cmd.Context(), fs, fid, driver.Options{})
	if result.Diagnostics != nil && result.Diagnostics.Len() > 0 {
		diagfmt.Pretty(cmd.ErrOrStderr(), result.Diagnostics, fs, diagfmt.PrettyOpts{Color: colorMode, Context: 2, PathMode: diagfmt.PathModeRelative})
	}
	if result.Unit != nil {
		diagfmt.DumpASR(cmd.OutOrStdout(), result.Unit)
	}
	if compileErr != nil {
		return fmt.Errorf("dump-asr: %w", compileErr)
	}
	return nil
}
