package report

import "github.com/wharflab/solidguard/internal/diag"

// ThresholdOptions configures Threshold. Both fields are optional; the
// zero value applies no filtering (MaxWarnings is ignored until a cap is
// set through WithMaxWarnings, so a bare zero value is unbounded, while
// WithMaxWarnings(0) allows no warnings at all).
type ThresholdOptions struct {
	// MinFailSeverity is the lowest severity that counts toward
	// FailingIssues/Exceeded; diag.SeverityOff (the zero value) disables
	// the fail-on-severity check entirely, keeping the zero value of
	// ThresholdOptions a no-op. Pass diag.SeverityInfo to fail on every
	// reportable severity.
	MinFailSeverity diag.Severity
	// MaxWarnings caps the number of issues at exactly
	// diag.SeverityWarning: once set via WithMaxWarnings, Result.Exceeded
	// is set when the count is above it, so 0 means "no warnings allowed."
	MaxWarnings int
	// maxWarningsSet distinguishes "0, meaning unbounded" from an
	// explicit cap: an unconfigured Threshold must be a no-op, not an
	// implicit zero-tolerance policy.
	maxWarningsSet bool
}

// WithMaxWarnings returns opts with an explicit warning cap set (n
// warnings are tolerated, so 0 tolerates none; a negative n makes every
// issue list exceed the cap).
func (opts ThresholdOptions) WithMaxWarnings(n int) ThresholdOptions {
	opts.MaxWarnings = n
	opts.maxWarningsSet = true
	return opts
}

// Result is Threshold's verdict over one issue list.
type Result struct {
	// Exceeded is true if the issue list violates MinFailSeverity or
	// MaxWarnings; callers typically map this straight to a non-zero
	// process exit code.
	Exceeded bool
	// WarningCount is the number of diag.SeverityWarning issues found,
	// regardless of whether MaxWarnings was configured.
	WarningCount int
	// FailingIssues lists every issue at or above MinFailSeverity, in
	// the order they appear in the input.
	FailingIssues []diag.Issue
}

// Threshold applies caller-supplied fail-on-severity/max-warnings
// cutoffs over issues, as a pure function; the core never decides an
// exit code itself. Both cutoffs are independent: a Warning issue at or
// above MinFailSeverity is both a failing issue and counted in
// WarningCount, and an unconfigured
// MaxWarnings (opts.maxWarningsSet == false) never sets Exceeded on its
// own.
func Threshold(issues []diag.Issue, opts ThresholdOptions) Result {
	var res Result
	for _, iss := range issues {
		if iss.Severity == diag.SeverityWarning {
			res.WarningCount++
		}
		if opts.MinFailSeverity != diag.SeverityOff && iss.Severity >= opts.MinFailSeverity {
			res.FailingIssues = append(res.FailingIssues, iss)
		}
	}
	if len(res.FailingIssues) > 0 {
		res.Exceeded = true
	}
	if opts.maxWarningsSet && res.WarningCount > opts.MaxWarnings {
		res.Exceeded = true
	}
	return res
}
