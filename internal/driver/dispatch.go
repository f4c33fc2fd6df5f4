package driver

import (
	"sync"

	"github.com/wharflab/solidguard/internal/ast"
	"github.com/wharflab/solidguard/internal/ruleapi"
	"github.com/wharflab/solidguard/internal/ruleconfig"
)

// dispatchTable inverts the registry into kind -> visitor rules, so the
// driver's single traversal calls exactly the rules interested in each
// node kind instead of every visitor rule checking the kind itself. A
// rule whose Kinds()
// returns nil is stored under allKinds and is asked about every node.
type dispatchTable struct {
	byKind   map[ast.Kind][]ruleapi.VisitorRule
	allKinds []ruleapi.VisitorRule
	// wholePre holds whole-tree-only rules, run before the traversal;
	// wholePost holds rules that also registered visitors, whose
	// Analyze runs after the traversal as a finalize pass.
	wholePre  []ruleapi.WholeTreeRule
	wholePost []ruleapi.WholeTreeRule
}

// tableCache memoizes the dispatch table per *ruleconfig.Resolved
// pointer: a single solidguard run typically resolves configuration
// once and reuses it across every file, so rebuilding the table per
// file would repeat identical work. A keyed cache rather than a
// singleton, since there can be more than one Resolved per process in
// tests or a long-lived host.
var tableCache sync.Map // map[*ruleconfig.Resolved]*dispatchTable

func dispatchTableFor(resolved *ruleconfig.Resolved, registry *ruleapi.Registry) *dispatchTable {
	if cached, ok := tableCache.Load(resolved); ok {
		return cached.(*dispatchTable)
	}

	effective := make(map[string]bool)
	for _, id := range resolved.EffectiveRules() {
		effective[id] = true
	}

	dt := &dispatchTable{byKind: make(map[ast.Kind][]ruleapi.VisitorRule)}
	for _, r := range registry.All() {
		if !effective[r.Metadata().ID] {
			continue
		}
		if wt, ok := r.(ruleapi.WholeTreeRule); ok {
			if _, alsoVisits := r.(ruleapi.VisitorRule); alsoVisits {
				dt.wholePost = append(dt.wholePost, wt)
			} else {
				dt.wholePre = append(dt.wholePre, wt)
			}
		}
		if vr, ok := r.(ruleapi.VisitorRule); ok {
			kinds := vr.Kinds()
			if len(kinds) == 0 {
				dt.allKinds = append(dt.allKinds, vr)
				continue
			}
			for _, k := range kinds {
				dt.byKind[k] = append(dt.byKind[k], vr)
			}
		}
	}

	tableCache.Store(resolved, dt)
	return dt
}

func (dt *dispatchTable) visitorsFor(kind ast.Kind) []ruleapi.VisitorRule {
	if len(dt.allKinds) == 0 {
		return dt.byKind[kind]
	}
	out := make([]ruleapi.VisitorRule, 0, len(dt.byKind[kind])+len(dt.allKinds))
	out = append(out, dt.byKind[kind]...)
	out = append(out, dt.allKinds...)
	return out
}
