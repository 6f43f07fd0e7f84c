package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"fortasr/internal/diagfmt"
	"fortasr/internal/driver"
	"fortasr/internal/project"
	"fortasr/internal/serialize"
	"fortasr/internal/source"
)

var buildCmd = &cobra.Command{
	Use:   "build [flags] [path]",
	Short: "Compile a Fortran project through the full ASR pipeline",
	Long:  "Build runs every project source file through parse, lower, verify, the standard pass order, and verify again, using fortasr.toml as the entrypoint definition when present.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  buildExecution,
}

func init() {
	buildCmd.Flags().String("ui", "auto", "user interface (auto|on|off)")
	buildCmd.Flags().Bool("no-cache", false, "disable the on-disk module cache")
}

func buildExecution(cmd *cobra.Command, args []string) error {
	uiValue, err := cmd.Flags().GetString("ui")
	if err != nil {
		return err
	}
	noCache, err := cmd.Flags().GetBool("no-cache")
	if err != nil {
		return err
	}
	uiModeValue, err := readUIMode(uiValue)
	if err != nil {
		return err
	}

	manifest, err := resolveManifest(args)
	if err != nil {
		return err
	}

	opts, err := buildOptions(cmd, noCache)
	if err != nil {
		return err
	}

	fs := source.NewFileSet()

	var results map[string]driver.Result
	if shouldUseTUI(uiModeValue) && len(manifest.Sources) > 0 {
		results, err = runBuildWithUI(cmd.Context(), "fortasrc build", fs, manifest, opts)
	} else {
		results, err = driver.CompileProject(cmd.Context(), fs, manifest, opts)
	}

	quiet, _ := cmd.Root().PersistentFlags().GetBool("quiet")
	showTimings, _ := cmd.Root().PersistentFlags().GetBool("timings")
	if reportErr := reportResults(cmd, fs, manifest.Sources, results, quiet, showTimings); reportErr != nil {
		return reportErr
	}
	if err != nil {
		return fmt.Errorf("build failed: %w", err)
	}
	return nil
}

func resolveManifest(args []string) (*project.Manifest, error) {
	if len(args) == 1 {
		return &project.Manifest{Name: filepath.Base(args[0]), Sources: []string{args[0]}}, nil
	}
	manifestPath, found, err := project.FindManifest(".")
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, errors.New("no fortasr.toml found and no source path given")
	}
	manifest, err := project.LoadManifest(manifestPath)
	if err != nil {
		return nil, err
	}
	root := filepath.Dir(manifestPath)
	for i, src := range manifest.Sources {
		if !filepath.IsAbs(src) {
			manifest.Sources[i] = filepath.Join(root, src)
		}
	}
	return manifest, nil
}

func buildOptions(cmd *cobra.Command, noCache bool) (driver.Options, error) {
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return driver.Options{}, err
	}
	opts := driver.Options{MaxDiagnostics: maxDiagnostics}
	if noCache {
		return opts, nil
	}
	cache, err := serialize.OpenDiskCache("fortasr")
	if err != nil {
		fmt.Fprintf(os.Stderr, "fortasrc: module cache unavailable: %v\n", err)
		return opts, nil
	}
	opts.Cache = cache
	return opts, nil
}

func reportResults(cmd *cobra.Command, fs *source.FileSet, sources []string, results map[string]driver.Result, quiet, showTimings bool) error {
	colorMode, err := readColorMode(cmd)
	if err != nil {
		return err
	}
	failed := 0
	for _, src := range sources {
		res, ok := results[src]
		if !ok {
			continue
		}
		if res.Diagnostics != nil && res.Diagnostics.Len() > 0 {
			diagfmt.Pretty(cmd.ErrOrStderr(), res.Diagnostics, fs, diagfmt.PrettyOpts{Color: colorMode, Context: 2, PathMode: diagfmt.PathModeRelative})
		}
		if res.Diagnostics != nil && res.Diagnostics.HasErrors() {
			failed++
		}
		if showTimings {
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %.2fms\n", src, res.Timings.TotalMS)
		}
	}
	if !quiet && failed == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "built %d file(s)\n", len(sources))
	}
	return nil
}

func readColorMode(cmd *cobra.Command) (diagfmt.ColorMode, error) {
	value, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return diagfmt.ColorAuto, err
	}
	switch value {
	case "on":
		return diagfmt.ColorOn, nil
	case "off":
		return diagfmt.ColorOff, nil
	default:
		return diagfmt.ColorAuto, nil
	}
}
