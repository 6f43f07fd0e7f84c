package diagfmt

import (
	"encoding/json"
	"io"

	"fortasr/internal/diag"
	"fortasr/internal/source"
)

// LabelOutput is a Label's JSON shape.
type LabelOutput struct {
	Primary bool     `json:"primary"`
	Message string   `json:"message"`
	Paths   []string `json:"paths,omitempty"`
	Lines   []uint32 `json:"lines,omitempty"`
	Cols    []uint32 `json:"cols,omitempty"`
}

// DiagnosticOutput is a Diagnostic's JSON shape.
type DiagnosticOutput struct {
	Level   string        `json:"level"`
	Stage   string        `json:"stage"`
	Kind    string        `json:"kind"`
	Message string        `json:"message"`
	Path    string        `json:"path,omitempty"`
	Line    uint32        `json:"line,omitempty"`
	Col     uint32        `json:"col,omitempty"`
	Labels  []LabelOutput `json:"labels,omitempty"`
}

func hasPrimary(d diag.Diagnostic) bool {
	for _, l := range d.Labels {
		if l.Primary && len(l.Spans) > 0 {
			return true
		}
	}
	return false
}

func diagnosticOutput(d diag.Diagnostic, fs *source.FileSet, opts JSONOpts) DiagnosticOutput {
	out := DiagnosticOutput{
		Level:   d.Level.String(),
		Stage:   d.Stage.String(),
		Kind:    d.Kind.String(),
		Message: d.Message,
	}
	if hasPrimary(d) {
		primary := d.Primary()
		f := fs.Get(primary.File)
		out.Path = formatPath(f, fs, opts.PathMode)
		if opts.IncludePositions {
			start, _ := fs.Resolve(primary)
			out.Line, out.Col = start.Line, start.Col
		}
	}
	for _, l := range d.Labels {
		lo := LabelOutput{Primary: l.Primary, Message: l.Message}
		for _, sp := range l.Spans {
			f := fs.Get(sp.File)
			lo.Paths = append(lo.Paths, formatPath(f, fs, opts.PathMode))
			if opts.IncludePositions {
				start, _ := fs.Resolve(sp)
				lo.Lines = append(lo.Lines, start.Line)
				lo.Cols = append(lo.Cols, start.Col)
			}
		}
		out.Labels = append(out.Labels, lo)
	}
	return out
}

// JSON writes bag's diagnostics as a JSON array to w.
func JSON(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts JSONOpts) error {
	items := bag.Items()
	max := opts.Max
	if max > 0 && max < len(items) {
		items = items[:max]
	}
	out := make([]DiagnosticOutput, 0, len(items))
	for _, d := range items {
		out = append(out, diagnosticOutput(d, fs, opts))
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
