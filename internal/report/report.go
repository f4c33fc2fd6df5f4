// Package report is report assembly: merging parser diagnostics into
// the rule-issue stream, ordering the result deterministically, and
// applying caller-supplied thresholds. It is a composable processor
// pipeline operating on diag.Issue directly; there is no separate
// report-local issue type.
package report

import "github.com/wharflab/solidguard/internal/diag"

// Processor transforms a slice of issues. Implementations should be
// stateless; anything a processor needs across calls belongs on the
// processor value itself, set up once by its constructor.
type Processor interface {
	// Name identifies the processor for logging.
	Name() string
	// Process returns the transformed slice; it must not modify issues
	// in place, since a caller may reuse the input slice after the call.
	Process(issues []diag.Issue) []diag.Issue
}

// Chain runs a fixed sequence of Processors.
type Chain struct {
	processors []Processor
}

// NewChain builds a Chain that runs processors in order.
func NewChain(processors ...Processor) *Chain {
	return &Chain{processors: processors}
}

// Process runs every processor in sequence, feeding each one's output
// to the next.
func (c *Chain) Process(issues []diag.Issue) []diag.Issue {
	for _, p := range c.processors {
		issues = p.Process(issues)
	}
	return issues
}

// DefaultChain is the standard pipeline order: merge parser diagnostics
// and unknown-rule-id notices in, then sort. Threshold is not a
// pipeline stage; it is a separate pure function, since the core never
// decides exit codes — the caller does.
func DefaultChain(parseDiagnostics []ParseDiagnostic, unknownRuleIDs []string) *Chain {
	return NewChain(
		NewMergeParseDiagnostics(parseDiagnostics),
		NewMergeUnknownRules(unknownRuleIDs),
		NewSort(),
	)
}
