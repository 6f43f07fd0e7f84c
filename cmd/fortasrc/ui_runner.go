package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"fortasr/internal/driver"
	"fortasr/internal/project"
	"fortasr/internal/source"
	"fortasr/internal/ui"
)

type buildOutcome struct {
	results map[string]driver.Result
	err     error
}

// runBuildWithUI compiles manifest's sources one at a time (rather than
// through driver.CompileProject's DAG-batched concurrency) so each file's
// phase events can be attributed to a single progress row; non-interactive
// builds use CompileProject directly and keep the concurrency.
func runBuildWithUI(ctx context.Context, title string, fs *source.FileSet, manifest *project.Manifest, baseOpts driver.Options) (map[string]driver.Result, error) {
	events := make(chan ui.Event, 256)
	outcomeCh := make(chan buildOutcome, 1)

	go func() {
		results := make(map[string]driver.Result, len(manifest.Sources))
		var firstErr error
		for _, src := range manifest.Sources {
			fid, err := resolveSource(fs, src)
			if err != nil {
				if firstErr == nil {
					firstErr = err
				}
				events <- ui.Event{File: src, Phase: "error"}
				continue
			}

			opts := baseOpts
			opts.Observer = func(e driver.PhaseEvent) {
				events <- ui.Event{File: src, Phase: e.Name, Status: e.Status}
			}
			res, compileErr := driver.CompileFile(ctx, fs, fid, opts)
			results[src] = res
			if compileErr != nil {
				if firstErr == nil {
					firstErr = compileErr
				}
				events <- ui.Event{File: src, Phase: "error"}
			}
		}
		outcomeCh <- buildOutcome{results: results, err: firstErr}
		close(events)
	}()

	model := ui.NewProgressModel(title, manifest.Sources, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.results, uiErr
	}
	return outcome.results, outcome.err
}

func resolveSource(fs *source.FileSet, path string) (source.FileID, error) {
	if fid, ok := fs.GetLatest(path); ok {
		return fid, nil
	}
	return fs.Load(path)
}
