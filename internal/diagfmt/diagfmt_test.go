package diagfmt_test

import (
	"bytes"
	"strings"
	"testing"

	"fortasr/internal/diag"
	"fortasr/internal/diagfmt"
	"fortasr/internal/source"
)

func newFileSetWithError() (*source.FileSet, diag.Diagnostic) {
	fs := source.NewFileSet()
	fid := fs.AddVirtual("bad.f90", []byte("program p\n  x = 1\nend program\n"))
	sp := source.Span{File: fid, Start: 2, End: 3}
	d := diag.Diagnostic{
		Level:   diag.LevelError,
		Stage:   diag.StageSemantic,
		Kind:    diag.KindSemantic,
		Message: "undeclared variable x",
		Labels:  []diag.Label{diag.PrimaryLabel(sp, "used here")},
	}
	return fs, d
}

func TestPrettyIncludesPathAndMessage(t *testing.T) {
	fs, d := newFileSetWithError()
	bag := diag.NewBag(10)
	bag.Add(d)

	var buf bytes.Buffer
	diagfmt.Pretty(&buf, bag, fs, diagfmt.PrettyOpts{Color: diagfmt.ColorOff, Context: 1, PathMode: diagfmt.PathModeBasename})

	out := buf.String()
	if !strings.Contains(out, "bad.f90") {
		t.Errorf("Pretty() output missing file name:\n%s", out)
	}
	if !strings.Contains(out, "undeclared variable x") {
		t.Errorf("Pretty() output missing message:\n%s", out)
	}
	if !strings.Contains(out, "error") {
		t.Errorf("Pretty() output missing level:\n%s", out)
	}
}

func TestJSONRoundTripsFields(t *testing.T) {
	fs, d := newFileSetWithError()
	bag := diag.NewBag(10)
	bag.Add(d)

	var buf bytes.Buffer
	if err := diagfmt.JSON(&buf, bag, fs, diagfmt.JSONOpts{IncludePositions: true, PathMode: diagfmt.PathModeBasename}); err != nil {
		t.Fatalf("JSON() error = %v", err)
	}
	out := buf.String()
	for _, want := range []string{`"level": "error"`, `"message": "undeclared variable x"`, `"path": "bad.f90"`} {
		if !strings.Contains(out, want) {
			t.Errorf("JSON() output missing %q:\n%s", want, out)
		}
	}
}

func TestResolveColorOffAlwaysFalse(t *testing.T) {
	if diagfmt.ResolveColor(diagfmt.ColorOff, nil) {
		t.Fatalf("ResolveColor(ColorOff, _) = true, want false")
	}
}
