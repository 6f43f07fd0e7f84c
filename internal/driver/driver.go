// Package driver orchestrates one compilation: load source, lower to
// ASR, verify, run the standard pass order, verify again, and optionally
// persist the result to the on-disk module cache. §5's fixed pipeline
// order (AST→ASR → verify → array-op → select-case → do-loop → FMA →
// unused-functions → verify → emit) is realized by CompileFile; emission
// itself is out of scope (§1) so CompileFile stops after the second
// verify.
package driver

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"fortasr/internal/asr"
	"fortasr/internal/ast"
	"fortasr/internal/diag"
	"fortasr/internal/lower"
	"fortasr/internal/observ"
	"fortasr/internal/parser"
	"fortasr/internal/pass"
	"fortasr/internal/project"
	"fortasr/internal/serialize"
	"fortasr/internal/source"
	"fortasr/internal/verify"
)

// Options configures a CompileFile/CompileProject run.
type Options struct {
	Observer       PhaseObserver
	Cache          *serialize.DiskCache // nil disables caching
	MaxDiagnostics int                  // parser diagnostic bag capacity; 0 means 100
}

// Result is one translation unit's compiled output.
type Result struct {
	Unit        *asr.TranslationUnit
	Diagnostics *diag.Bag
	Timings     observ.Report
}

func (o Options) maxDiagnostics() int {
	if o.MaxDiagnostics > 0 {
		return o.MaxDiagnostics
	}
	return 100
}

func emit(o Options, name string, status PhaseStatus, elapsed time.Duration) {
	if o.Observer != nil {
		o.Observer(PhaseEvent{Name: name, Status: status, Elapsed: elapsed})
	}
}

func timed(timer *observ.Timer, o Options, name string, fn func()) {
	idx := timer.Begin(name)
	emit(o, name, PhaseStart, 0)
	fn()
	timer.End(idx, "")
	emit(o, name, PhaseEnd, 0)
}

// CompileFile runs one already-loaded source file through the full
// front-end pipeline: parse, lower, verify, the standard pass order,
// verify again.
func CompileFile(ctx context.Context, fs *source.FileSet, fid source.FileID, opts Options) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	timer := observ.NewTimer()
	bag := diag.NewBag(opts.maxDiagnostics())

	var file *ast.File
	b := ast.NewBuilder(nil)
	timed(timer, opts, "parse", func() {
		file = parser.Parse(fs.Get(fid), b, parser.Options{Reporter: diag.BagReporter{Bag: bag}})
	})
	if bag.HasErrors() {
		return Result{Diagnostics: bag, Timings: timer.Report()}, fmt.Errorf("driver: %d diagnostics, parsing failed", bag.Len())
	}

	var unit *asr.TranslationUnit
	var lowerErr error
	timed(timer, opts, "lower", func() {
		unit, lowerErr = lower.Lower(b, file)
	})
	if lowerErr != nil {
		return Result{Diagnostics: bag, Timings: timer.Report()}, fmt.Errorf("driver: lower: %w", lowerErr)
	}

	var verifyErr error
	timed(timer, opts, "verify", func() { verifyErr = verify.Unit(unit) })
	if verifyErr != nil {
		return Result{Unit: unit, Diagnostics: bag, Timings: timer.Report()}, fmt.Errorf("driver: verify: %w", verifyErr)
	}

	var passErr error
	timed(timer, opts, "passes", func() { passErr = pass.Run(unit, pass.DefaultOrder()) })
	if passErr != nil {
		return Result{Unit: unit, Diagnostics: bag, Timings: timer.Report()}, fmt.Errorf("driver: passes: %w", passErr)
	}

	var postErr error
	timed(timer, opts, "verify-post-pass", func() { postErr = verify.Unit(unit) })
	if postErr != nil {
		return Result{Unit: unit, Diagnostics: bag, Timings: timer.Report()}, fmt.Errorf("driver: post-pass verify: %w", postErr)
	}

	result := Result{Unit: unit, Diagnostics: bag, Timings: timer.Report()}
	if opts.Cache != nil {
		_ = cacheFile(opts.Cache, fs.Get(fid), unit)
	}
	return result, nil
}

// cacheFile encodes unit with serialize.WriteUnit and stores it keyed on
// the file's own content hash. CompileFile only writes cache entries: it
// does not look the cache up before compiling, so every call re-runs the
// front end. A write or encode failure only disables caching for this
// file; it is not a compilation error.
func cacheFile(cache *serialize.DiskCache, f *source.File, unit *asr.TranslationUnit) error {
	var buf bytes.Buffer
	if err := serialize.WriteUnit(&buf, serialize.Binary, unit); err != nil {
		return fmt.Errorf("driver: encode %s for cache: %w", f.Path, err)
	}
	key := project.Combine(project.Digest(f.Hash))
	return cache.Put(key, &serialize.DiskPayload{
		Name:        f.Path,
		ContentHash: project.Digest(f.Hash),
		ModuleHash:  key,
		ASR:         buf.Bytes(),
	})
}
