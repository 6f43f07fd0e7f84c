package dag

import (
	"strings"
	"testing"

	"fortasr/internal/diag"
	"fortasr/internal/project"
	"fortasr/internal/source"
)

func idsToNames(idx ModuleIndex, ids []ModuleID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = idx.IDToName[int(id)]
	}
	return out
}

func TestBuildIndexIncludesUses(t *testing.T) {
	metas := []project.ModuleMeta{
		{
			Name: "main",
			Uses: []project.UseMeta{
				{ModuleName: "math"},
				{ModuleName: "util"},
			},
		},
		{Name: "util"},
	}

	idx := BuildIndex(metas)

	if len(idx.IDToName) != 3 {
		t.Fatalf("unexpected module count: %d", len(idx.IDToName))
	}

	wantNames := []string{"MAIN", "MATH", "UTIL"}
	for i, want := range wantNames {
		if got := idx.IDToName[i]; got != want {
			t.Fatalf("idx.IDToName[%d] = %q, want %q", i, got, want)
		}
		if id, ok := idx.NameToID[want]; !ok || int(id) != i {
			t.Fatalf("idx.NameToID[%q] = %v, want %d", want, id, i)
		}
	}
}

func TestBuildIndexIsCaseInsensitive(t *testing.T) {
	metas := []project.ModuleMeta{
		{Name: "Main", Uses: []project.UseMeta{{ModuleName: "MATH"}}},
		{Name: "math"},
	}
	idx := BuildIndex(metas)
	if len(idx.IDToName) != 2 {
		t.Fatalf("expected MAIN and MATH to collapse to 2 entries, got %d: %v", len(idx.IDToName), idx.IDToName)
	}
}

func TestBuildGraphReportsMissingModules(t *testing.T) {
	appSpan := source.Span{File: 1, Start: 0, End: 10}
	coreSpan := source.Span{File: 2, Start: 0, End: 8}

	appMeta := project.ModuleMeta{
		Name: "app",
		Span: appSpan,
		Uses: []project.UseMeta{
			{ModuleName: "core", Span: source.Span{File: 1, Start: 1, End: 4}},
			{ModuleName: "util", Span: source.Span{File: 1, Start: 5, End: 8}},
		},
	}
	coreMeta := project.ModuleMeta{
		Name: "core",
		Span: coreSpan,
		Uses: []project.UseMeta{
			{ModuleName: "util", Span: source.Span{File: 2, Start: 2, End: 5}},
		},
	}

	bagApp := diag.NewBag(10)
	bagCore := diag.NewBag(10)

	nodes := []ModuleNode{
		{Meta: appMeta, Reporter: &diag.BagReporter{Bag: bagApp}},
		{Meta: coreMeta, Reporter: &diag.BagReporter{Bag: bagCore}},
	}
	idx := BuildIndex([]project.ModuleMeta{appMeta, coreMeta})
	graph, _ := BuildGraph(idx, nodes)

	appID := idx.NameToID["APP"]
	coreID := idx.NameToID["CORE"]
	utilID := idx.NameToID["UTIL"]

	appDeps := graph.Edges[int(appID)]
	if len(appDeps) != 2 || appDeps[0] != coreID || appDeps[1] != utilID {
		t.Fatalf("app deps = %v, want [%v %v]", appDeps, coreID, utilID)
	}

	coreDeps := graph.Edges[int(coreID)]
	if len(coreDeps) != 1 || coreDeps[0] != utilID {
		t.Fatalf("core deps = %v, want [%v]", coreDeps, utilID)
	}

	if !graph.Present[int(appID)] || !graph.Present[int(coreID)] || graph.Present[int(utilID)] {
		t.Fatalf("unexpected Present flags: %v", graph.Present)
	}

	if bagApp.Len() != 1 {
		t.Fatalf("app diagnostics = %d, want 1", bagApp.Len())
	}
	if !strings.Contains(bagApp.Items()[0].Message, "missing module") {
		t.Fatalf("app diag message = %q, want mention of missing module", bagApp.Items()[0].Message)
	}

	if bagCore.Len() != 1 {
		t.Fatalf("core diagnostics = %d, want 1", bagCore.Len())
	}
	if !strings.Contains(bagCore.Items()[0].Message, "missing module") {
		t.Fatalf("core diag message = %q, want mention of missing module", bagCore.Items()[0].Message)
	}
}

func TestBuildGraphDuplicateModules(t *testing.T) {
	spanA := source.Span{File: 1, Start: 0, End: 5}
	spanB := source.Span{File: 2, Start: 0, End: 5}

	metaA := project.ModuleMeta{Name: "dup", Span: spanA}
	metaB := project.ModuleMeta{Name: "dup", Span: spanB}

	bagA := diag.NewBag(10)
	bagB := diag.NewBag(10)

	nodes := []ModuleNode{
		{Meta: metaA, Reporter: &diag.BagReporter{Bag: bagA}},
		{Meta: metaB, Reporter: &diag.BagReporter{Bag: bagB}},
	}

	idx := BuildIndex([]project.ModuleMeta{metaA, metaB})
	graph, slots := BuildGraph(idx, nodes)

	if !graph.Present[idx.NameToID["DUP"]] {
		t.Fatalf("expected module to be present")
	}
	if !slots[idx.NameToID["DUP"]].Present {
		t.Fatalf("expected slot to be marked present")
	}

	if bagA.Len() != 0 {
		t.Fatalf("unexpected diagnostics for first module: %v", bagA.Items())
	}
	if bagB.Len() != 1 {
		t.Fatalf("expected one diagnostic for duplicate, got %d", bagB.Len())
	}
	if !strings.Contains(bagB.Items()[0].Message, "already defined") {
		t.Fatalf("duplicate message = %q", bagB.Items()[0].Message)
	}
}

func TestBuildGraphSelfUseReported(t *testing.T) {
	meta := project.ModuleMeta{
		Name: "selfy",
		Uses: []project.UseMeta{{ModuleName: "selfy", Span: source.Span{File: 1, Start: 0, End: 1}}},
	}
	bag := diag.NewBag(10)
	idx := BuildIndex([]project.ModuleMeta{meta})
	_, _ = BuildGraph(idx, []ModuleNode{{Meta: meta, Reporter: &diag.BagReporter{Bag: bag}}})

	if bag.Len() != 1 || !strings.Contains(bag.Items()[0].Message, "uses itself") {
		t.Fatalf("expected a self-use diagnostic, got %v", bag.Items())
	}
}

func TestToposortKahnOrdersDependenciesFirst(t *testing.T) {
	appMeta := project.ModuleMeta{Name: "app", Uses: []project.UseMeta{{ModuleName: "core"}, {ModuleName: "util"}}}
	coreMeta := project.ModuleMeta{Name: "core", Uses: []project.UseMeta{{ModuleName: "util"}}}
	utilMeta := project.ModuleMeta{Name: "util"}

	idx := BuildIndex([]project.ModuleMeta{appMeta, coreMeta, utilMeta})
	nodes := []ModuleNode{
		{Meta: appMeta, Reporter: diag.NopReporter{}},
		{Meta: coreMeta, Reporter: diag.NopReporter{}},
		{Meta: utilMeta, Reporter: diag.NopReporter{}},
	}
	g, _ := BuildGraph(idx, nodes)

	topo := ToposortKahn(g)
	if topo.Cyclic {
		t.Fatalf("expected acyclic graph")
	}

	pos := make(map[string]int, len(topo.Order))
	for i, id := range topo.Order {
		pos[idx.IDToName[id]] = i
	}
	if pos["UTIL"] >= pos["CORE"] || pos["CORE"] >= pos["APP"] {
		t.Fatalf("unexpected order: %v", idsToNames(idx, topo.Order))
	}
	if len(topo.Batches) != 3 {
		t.Fatalf("expected 3 independent batches (chain), got %d: %v", len(topo.Batches), topo.Batches)
	}
}

func TestToposortKahnDetectsCycle(t *testing.T) {
	aMeta := project.ModuleMeta{Name: "a", Uses: []project.UseMeta{{ModuleName: "b"}}}
	bMeta := project.ModuleMeta{Name: "b", Uses: []project.UseMeta{{ModuleName: "a"}}}

	idx := BuildIndex([]project.ModuleMeta{aMeta, bMeta})
	nodes := []ModuleNode{
		{Meta: aMeta, Reporter: diag.NopReporter{}},
		{Meta: bMeta, Reporter: diag.NopReporter{}},
	}
	g, slots := BuildGraph(idx, nodes)

	topo := ToposortKahn(g)
	if !topo.Cyclic {
		t.Fatalf("expected cyclic graph")
	}
	if len(topo.Cycles) != 2 {
		t.Fatalf("expected both modules in the cycle, got %v", idsToNames(idx, topo.Cycles))
	}

	bagA := diag.NewBag(10)
	slots[idx.NameToID["A"]].Reporter = &diag.BagReporter{Bag: bagA}
	ReportCycles(idx, slots, *topo)
	if bagA.Len() != 1 {
		t.Fatalf("expected a cycle diagnostic for module a")
	}
}

func TestComputeModuleHashesCombinesDependencies(t *testing.T) {
	appMeta := project.ModuleMeta{Name: "app", Uses: []project.UseMeta{{ModuleName: "util"}}, ContentHash: project.Digest{1}}
	utilMeta := project.ModuleMeta{Name: "util", ContentHash: project.Digest{2}}

	idx := BuildIndex([]project.ModuleMeta{appMeta, utilMeta})
	nodes := []ModuleNode{
		{Meta: appMeta, Reporter: diag.NopReporter{}},
		{Meta: utilMeta, Reporter: diag.NopReporter{}},
	}
	g, slots := BuildGraph(idx, nodes)
	topo := ToposortKahn(g)

	ComputeModuleHashes(g, slots, topo)

	wantUtil := project.Combine(project.Digest{2})
	if slots[idx.NameToID["UTIL"]].Meta.ModuleHash != wantUtil {
		t.Fatalf("util module hash mismatch")
	}
	wantApp := project.Combine(project.Digest{1}, wantUtil)
	if slots[idx.NameToID["APP"]].Meta.ModuleHash != wantApp {
		t.Fatalf("app module hash mismatch")
	}
}
