// Copyright 2015 Google Inc. All rights reserved
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package hbuild

import (
	"fmt"
	"os"
	"path/filepath"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
)

// Plan runs the staleness oracle (spec.md §4.E) over every discovered
// TU and decides whether the final link is needed. opts carries the
// profile and extra compiler flags that would be used if a TU were
// recompiled right now, so condition 6 (command-line fingerprint) can
// compare against what would actually run.
func Plan(cfg *ProjectConfig, tus []TranslationUnit, opts BuildOptions) BuildPlan {
	plan := BuildPlan{
		All:     tus,
		Reasons: make(map[string]string),
	}

	rg := newReasonGraph(tus)

	for _, tu := range tus {
		reason, stale := staleness(cfg, tu, opts)
		if stale {
			plan.Stale = append(plan.Stale, tu)
			plan.NeedsLink = true
			plan.Reasons[tu.SourcePath] = reason
			logStale(tu.SourcePath, reason)
			rg.explain(tu, plan.Reasons)
		}
	}

	// A project with zero discovered TUs has nothing to link, regardless
	// of whether the output binary happens to exist yet (spec.md §4.G,
	// §8: "Empty source_dir produces up-to-date and no binary").
	if !plan.NeedsLink && len(tus) > 0 {
		binPath := outputBinaryPath(cfg)
		if _, err := os.Stat(binPath); err != nil {
			plan.NeedsLink = true
		} else if ldFlagsChanged(cfg) {
			plan.NeedsLink = true
		}
	}

	return plan
}

// staleness implements spec.md §4.E's six conditions in order, stopping
// at the first that applies (fastest check first: a forced rebuild
// never needs to touch the filesystem at all).
func staleness(cfg *ProjectConfig, tu TranslationUnit, opts BuildOptions) (reason string, stale bool) {
	if !cfg.Incremental {
		return "incremental disabled", true
	}

	objInfo, err := os.Stat(tu.ObjectPath)
	if err != nil {
		return "object file missing", true
	}

	rec := parseDepFile(tu.DepPath)
	if rec.Unknown {
		return "dependency file missing or unreadable", true
	}

	for _, prereq := range rec.Prereqs {
		// Prerequisite paths in the .d file are exactly as gcc saw
		// them on the command line and via #include resolution, i.e.
		// already relative to the project root (the process's
		// working directory), the same root tu.ObjectPath is relative
		// to. No further joining against cfg.SourceDir is needed or
		// correct here.
		info, err := os.Stat(prereq)
		if err != nil {
			return fmt.Sprintf("prerequisite %s no longer exists", prereq), true
		}
		if info.ModTime().After(objInfo.ModTime()) {
			return fmt.Sprintf("%s changed", prereq), true
		}
	}

	wantArgv := CompileArgv(cfg, tu, opts)
	gotArgv, err := readCmdFile(tu.CmdPath)
	if err != nil || !argvEqual(wantArgv, gotArgv) {
		return "compiler command line changed since last build", true
	}

	return "", false
}

// ldFlagsChanged reports whether ld_flags differs from the fingerprint
// recorded at <temp_dir>/.link.cmd on the previous link.
func ldFlagsChanged(cfg *ProjectConfig) bool {
	fp := linkFingerprintPath(cfg)
	got, err := readCmdFile(fp)
	if err != nil {
		return true
	}
	return !argvEqual(cfg.LDFlags, got)
}

func linkFingerprintPath(cfg *ProjectConfig) string {
	return filepath.Join(cfg.TempDir, ".link.cmd")
}

func argvEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// reasonGraph is a diagnostic projection: one node per TU, one node per
// prerequisite path seen in the .d file of a stale TU, an edge
// prerequisite -> TU.
// Grounded in distr1-distri's internal/batch package-dependency DAG
// (simple.NewDirectedGraph), minus topological sort, since TUs here
// have no inter-TU build-order dependency to sort.
type reasonGraph struct {
	g      *simple.DirectedGraph
	idOf   map[string]int64
	nextID int64
}

func newReasonGraph(tus []TranslationUnit) *reasonGraph {
	rg := &reasonGraph{
		g:    simple.NewDirectedGraph(),
		idOf: make(map[string]int64),
	}
	for _, tu := range tus {
		rg.nodeFor(tu.SourcePath)
	}
	return rg
}

func (rg *reasonGraph) nodeFor(key string) int64 {
	if id, ok := rg.idOf[key]; ok {
		return id
	}
	id := rg.nextID
	rg.nextID++
	rg.idOf[key] = id
	rg.g.AddNode(simple.Node(id))
	return id
}

// explain appends to tu's reason every prerequisite listed in its .d
// file, found by walking the graph's incoming edges. The list is not
// narrowed to the prerequisites that changed; the changed one named by
// staleness is already in the reason itself.
func (rg *reasonGraph) explain(tu TranslationUnit, reasons map[string]string) {
	rec := parseDepFile(tu.DepPath)
	if rec.Unknown {
		return
	}
	tuID := rg.nodeFor(tu.SourcePath)
	for _, prereq := range rec.Prereqs {
		prereqID := rg.nodeFor(prereq)
		rg.g.SetEdge(rg.g.NewEdge(simple.Node(prereqID), simple.Node(tuID)))
	}
	var touched []string
	it := rg.g.To(tuID)
	for it.Next() {
		n := it.Node()
		touched = append(touched, rg.keyOf(n.ID()))
	}
	if len(touched) > 0 {
		reasons[tu.SourcePath] = fmt.Sprintf("%s (prerequisites: %v)", reasons[tu.SourcePath], touched)
	}
}

func (rg *reasonGraph) keyOf(id int64) string {
	for k, v := range rg.idOf {
		if v == id {
			return k
		}
	}
	return ""
}

var _ graph.Directed = (*simple.DirectedGraph)(nil)
