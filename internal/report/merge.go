package report

import (
	"fmt"

	"github.com/wharflab/solidguard/internal/diag"
	"github.com/wharflab/solidguard/internal/solidity"
)

// ParseDiagnostic is a file-attributed parser problem, ready to merge
// into the issue stream. solidity.ParseError carries no file name of
// its own (the parser operates on raw source, not a path), so this
// pairs each one with the file it came from.
type ParseDiagnostic struct {
	File    string
	Message string
	Range   diag.Range
}

// ParseDiagnosticsFor pairs file with every parse error the parser
// reported for it, e.g. driver.RunOutput.ParseDiagnostics.
func ParseDiagnosticsFor(file string, errs []solidity.ParseError) []ParseDiagnostic {
	out := make([]ParseDiagnostic, 0, len(errs))
	for _, e := range errs {
		out = append(out, ParseDiagnostic{File: file, Message: e.Message, Range: e.Range})
	}
	return out
}

// MergeParseDiagnostics folds parser-level problems into the issue
// stream as issues under parser/* rule ids, so a syntax error shows up
// in the same report as rule findings.
type MergeParseDiagnostics struct {
	diagnostics []ParseDiagnostic
}

// NewMergeParseDiagnostics builds a processor that appends diagnostics
// as parser/syntax-error issues at diag.SeverityError — a parse problem
// is never something a rule's configured severity can downgrade, since
// no rule produced it.
func NewMergeParseDiagnostics(diagnostics []ParseDiagnostic) *MergeParseDiagnostics {
	return &MergeParseDiagnostics{diagnostics: diagnostics}
}

func (p *MergeParseDiagnostics) Name() string { return "merge-parse-diagnostics" }

func (p *MergeParseDiagnostics) Process(issues []diag.Issue) []diag.Issue {
	if len(p.diagnostics) == 0 {
		return issues
	}
	out := make([]diag.Issue, 0, len(issues)+len(p.diagnostics))
	out = append(out, issues...)
	for _, d := range p.diagnostics {
		out = append(out, diag.Issue{
			RuleID:   diag.ParserPrefix + "/syntax-error",
			Category: diag.Category(diag.ParserPrefix),
			Severity: diag.SeverityError,
			Message:  d.Message,
			File:     d.File,
			Range:    d.Range,
		})
	}
	return out
}

// MergeUnknownRules surfaces ruleconfig.Resolved.UnknownRuleIDs (rule
// ids the user's configuration named that no registered rule matches,
// in tolerant mode) as a single engine/unknown-rule issue per id, so a
// tolerant resolve is still visible to the caller rather than silently
// dropping the user's typo.
type MergeUnknownRules struct {
	ruleIDs []string
}

// NewMergeUnknownRules builds a processor over the given unknown rule
// ids; file and range are empty since an unknown rule id is a
// configuration-level problem, not tied to any particular source
// location.
func NewMergeUnknownRules(ruleIDs []string) *MergeUnknownRules {
	return &MergeUnknownRules{ruleIDs: ruleIDs}
}

func (p *MergeUnknownRules) Name() string { return "merge-unknown-rules" }

func (p *MergeUnknownRules) Process(issues []diag.Issue) []diag.Issue {
	if len(p.ruleIDs) == 0 {
		return issues
	}
	out := make([]diag.Issue, 0, len(issues)+len(p.ruleIDs))
	out = append(out, issues...)
	for _, id := range p.ruleIDs {
		out = append(out, diag.Issue{
			RuleID:   diag.EnginePrefix + "/unknown-rule",
			Category: diag.Category(diag.EnginePrefix),
			Severity: diag.SeverityWarning,
			Message:  fmt.Sprintf("configuration references unknown rule %q", id),
			Data:     map[string]any{"rule_id": id},
		})
	}
	return out
}
