package driver

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"fortasr/internal/diag"
	"fortasr/internal/project"
	"fortasr/internal/project/dag"
	"fortasr/internal/source"
)

// CompileProject compiles every source file named by manifest, ordering
// work by the module dependency DAG (§C.1) and running each wave's files
// concurrently via errgroup, mirroring §5's "independent translation
// units may be processed in parallel." Every source file is its own
// module node; cross-file `use` edges are not extracted from the AST in
// this driver (see DESIGN.md), so in practice every file lands in the
// DAG's first and only batch — the topological machinery is still
// exercised so that wiring in real `use` edges later is a pure data
// change, not a structural one.
func CompileProject(ctx context.Context, fs *source.FileSet, manifest *project.Manifest, opts Options) (map[string]Result, error) {
	metas := make([]project.ModuleMeta, 0, len(manifest.Sources))
	fids := make(map[string]source.FileID, len(manifest.Sources))
	for _, src := range manifest.Sources {
		fid, err := loadSource(fs, src)
		if err != nil {
			return nil, fmt.Errorf("driver: load %s: %w", src, err)
		}
		fids[src] = fid
		f := fs.Get(fid)
		metas = append(metas, project.ModuleMeta{
			Name:        project.Canonical(moduleNameFor(src)),
			ContentHash: project.Digest(f.Hash),
		})
	}

	idx := dag.BuildIndex(metas)
	nodes := make([]dag.ModuleNode, len(metas))
	for i, m := range metas {
		nodes[i] = dag.ModuleNode{Meta: m, Reporter: diag.NopReporter{}}
	}
	graph, slots := dag.BuildGraph(idx, nodes)
	topo := dag.ToposortKahn(graph)
	if topo.Cyclic {
		return nil, fmt.Errorf("driver: use-cycle detected among %d modules", len(topo.Cycles))
	}
	dag.ComputeModuleHashes(graph, slots, topo)

	results := make(map[string]Result, len(manifest.Sources))
	var mu sync.Mutex
	for _, batch := range topo.Batches {
		g, gctx := errgroup.WithContext(ctx)
		for _, id := range batch {
			name := idx.IDToName[id]
			src := sourceForModule(manifest.Sources, name)
			if src == "" {
				continue
			}
			fid := fids[src]
			g.Go(func() error {
				res, err := CompileFile(gctx, fs, fid, opts)
				if err != nil {
					return fmt.Errorf("%s: %w", src, err)
				}
				mu.Lock()
				results[src] = res
				mu.Unlock()
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return results, err
		}
	}
	return results, nil
}

func loadSource(fs *source.FileSet, path string) (source.FileID, error) {
	if fid, ok := fs.GetLatest(path); ok {
		return fid, nil
	}
	return fs.Load(path)
}

func moduleNameFor(path string) string {
	base := path
	for i := len(base) - 1; i >= 0; i-- {
		if base[i] == '/' || base[i] == '\\' {
			base = base[i+1:]
			break
		}
	}
	for i := len(base) - 1; i >= 0; i-- {
		if base[i] == '.' {
			return base[:i]
		}
	}
	return base
}

func sourceForModule(sources []string, canonicalName string) string {
	for _, s := range sources {
		if project.Canonical(moduleNameFor(s)) == canonicalName {
			return s
		}
	}
	return ""
}
