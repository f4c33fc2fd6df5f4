package report

import (
	"sort"

	"github.com/wharflab/solidguard/internal/diag"
)

// Sorting orders issues by (file, range.start.offset, rule_id),
// delegating to SortIssues.
type Sorting struct{}

// NewSort builds the standard ordering processor.
func NewSort() *Sorting { return &Sorting{} }

func (p *Sorting) Name() string { return "sort" }

func (p *Sorting) Process(issues []diag.Issue) []diag.Issue {
	return SortIssues(issues)
}

// SortIssues returns a new slice of issues ordered by
// (file, range.start.offset, rule_id). The sort is stable so two issues
// that tie on all three keys keep their relative report order, keeping
// repeat runs byte-identical.
func SortIssues(issues []diag.Issue) []diag.Issue {
	out := make([]diag.Issue, len(issues))
	copy(out, issues)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.File != b.File {
			return a.File < b.File
		}
		if a.Range.Start.Offset != b.Range.Start.Offset {
			return a.Range.Start.Offset < b.Range.Start.Offset
		}
		return a.RuleID < b.RuleID
	})
	return out
}
