package directive

import "github.com/wharflab/solidguard/internal/diag"

// FilterResult contains the results of filtering issues through directives.
type FilterResult struct {
	// Issues that were not suppressed.
	Issues []diag.Issue

	// Suppressed issues that were filtered out.
	Suppressed []diag.Issue

	// UnusedDirectives that did not suppress any issue.
	UnusedDirectives []Directive
}

// Filter applies directives to filter issues. An issue is suppressed if a
// directive matches both:
//   - The issue's rule id (or "all")
//   - The issue's start line
//
// Line number conversion: Issues use 1-based lines; directives use 0-based.
// We convert issue lines to 0-based for comparison.
//
// Matching precedence: first-match-wins. When multiple directives could
// suppress the same issue (e.g. a global and a next-line directive), only
// the first matching directive is marked Used. This keeps suppression
// deterministic but may cause a subsequent matching directive to appear
// unused.
func Filter(issues []diag.Issue, directives []Directive) *FilterResult {
	result := &FilterResult{
		Issues:     make([]diag.Issue, 0, len(issues)),
		Suppressed: make([]diag.Issue, 0),
	}

	// Mutable copy of directives to track usage.
	directiveCopies := make([]Directive, len(directives))
	copy(directiveCopies, directives)

	for _, iss := range issues {
		suppressed := false
		line0 := iss.Range.Start.Line - 1

		for i := range directiveCopies {
			d := &directiveCopies[i]
			if d.SuppressesLine(line0) && d.SuppressesRule(iss.RuleID) {
				suppressed = true
				d.Used = true
				break
			}
		}

		if suppressed {
			result.Suppressed = append(result.Suppressed, iss)
		} else {
			result.Issues = append(result.Issues, iss)
		}
	}

	for _, d := range directiveCopies {
		if !d.Used {
			result.UnusedDirectives = append(result.UnusedDirectives, d)
		}
	}

	return result
}
