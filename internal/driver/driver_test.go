package driver_test

import (
	"context"
	"testing"

	"fortasr/internal/driver"
	"fortasr/internal/source"
)

func TestCompileFileSucceedsOnLoopSumProgram(t *testing.T) {
	src := "program p\n" +
		"  integer :: i, s\n" +
		"  s = 0\n" +
		"  do i = 1, 5\n" +
		"    s = s + i\n" +
		"  end do\n" +
		"end program\n"
	fs := source.NewFileSet()
	fid := fs.AddVirtual("loopsum.f90", []byte(src))

	var events []driver.PhaseEvent
	opts := driver.Options{Observer: func(e driver.PhaseEvent) { events = append(events, e) }}

	result, err := driver.CompileFile(context.Background(), fs, fid, opts)
	if err != nil {
		t.Fatalf("CompileFile() error = %v", err)
	}
	if result.Unit == nil {
		t.Fatalf("CompileFile() returned a nil unit on success")
	}
	if result.Diagnostics.HasErrors() {
		t.Fatalf("CompileFile() reported errors: %v", result.Diagnostics.Items())
	}

	wantPhases := []string{"parse", "lower", "verify", "passes", "verify-post-pass"}
	seen := map[string]int{}
	for _, e := range events {
		seen[e.Name]++
	}
	for _, name := range wantPhases {
		if seen[name] != 2 {
			t.Errorf("phase %q fired %d start/end events, want 2", name, seen[name])
		}
	}
}

func TestCompileFileFailsOnTypeMismatch(t *testing.T) {
	src := "program p\n  integer :: x\n  x = 'x'\nend program\n"
	fs := source.NewFileSet()
	fid := fs.AddVirtual("badtype.f90", []byte(src))

	_, err := driver.CompileFile(context.Background(), fs, fid, driver.Options{})
	if err == nil {
		t.Fatalf("CompileFile() error = nil, want a lowering error for the type mismatch")
	}
}

func TestCompileFileRespectsCanceledContext(t *testing.T) {
	fs := source.NewFileSet()
	fid := fs.AddVirtual("p.f90", []byte("program p\nend program\n"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := driver.CompileFile(ctx, fs, fid, driver.Options{})
	if err == nil {
		t.Fatalf("CompileFile() error = nil, want context.Canceled")
	}
}
