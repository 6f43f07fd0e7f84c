package driver_test

import (
	"context"
	"testing"

	"fortasr/internal/driver"
	"fortasr/internal/project"
	"fortasr/internal/source"
)

func TestCompileProjectCompilesEveryIndependentFile(t *testing.T) {
	fs := source.NewFileSet()
	fs.AddVirtual("a.f90", []byte("program a\n  integer :: x\n  x = 1\nend program\n"))
	fs.AddVirtual("b.f90", []byte("program b\n  integer :: y\n  y = 2\nend program\n"))

	manifest := &project.Manifest{Name: "demo", Sources: []string{"a.f90", "b.f90"}}

	results, err := driver.CompileProject(context.Background(), fs, manifest, driver.Options{})
	if err != nil {
		t.Fatalf("CompileProject() error = %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("CompileProject() returned %d results, want 2", len(results))
	}
	for _, src := range manifest.Sources {
		res, ok := results[src]
		if !ok {
			t.Fatalf("CompileProject() missing result for %q", src)
		}
		if res.Unit == nil {
			t.Errorf("CompileProject()[%q].Unit = nil, want a translation unit", src)
		}
	}
}

func TestCompileProjectStopsOnFailingFile(t *testing.T) {
	fs := source.NewFileSet()
	fs.AddVirtual("good.f90", []byte("program good\nend program\n"))
	fs.AddVirtual("bad.f90", []byte("program bad\n  integer :: x\n  x = 'x'\nend program\n"))

	manifest := &project.Manifest{Name: "demo", Sources: []string{"good.f90", "bad.f90"}}

	_, err := driver.CompileProject(context.Background(), fs, manifest, driver.Options{})
	if err == nil {
		t.Fatalf("CompileProject() error = nil, want a failure from bad.f90")
	}
}
