package reporter

import (
	"io"
	"path/filepath"
	"sort"

	"github.com/owenrumney/go-sarif/v3/pkg/report/v210/sarif"

	"github.com/wharflab/solidguard/internal/diag"
	"github.com/wharflab/solidguard/internal/ruleapi"
)

// Default SARIF tool information.
const (
	defaultToolName = "solidguard"
	defaultToolURI  = "https://github.com/wharflab/solidguard"
)

// SARIFReporter formats issues as SARIF (Static Analysis Results Interchange Format).
// SARIF is a standard format for static analysis tools, widely supported by CI/CD systems
// including GitHub Code Scanning and Azure DevOps.
//
// See: https://docs.oasis-open.org/sarif/sarif/v2.1.0/
type SARIFReporter struct {
	writer      io.Writer
	toolName    string
	toolVersion string
	toolURI     string
	registry    *ruleapi.Registry
}

// NewSARIFReporter creates a new SARIF reporter.
func NewSARIFReporter(w io.Writer, toolName, toolVersion, toolURI string, reg *ruleapi.Registry) *SARIFReporter {
	if toolName == "" {
		toolName = defaultToolName
	}
	if toolURI == "" {
		toolURI = defaultToolURI
	}
	return &SARIFReporter{
		writer:      w,
		toolName:    toolName,
		toolVersion: toolVersion,
		toolURI:     toolURI,
		registry:    reg,
	}
}

// Report implements Reporter.
func (r *SARIFReporter) Report(issues []diag.Issue, _ map[string][]byte, _ ReportMetadata) error {
	// Create a new SARIF report (v2.1.0 for maximum compatibility)
	report := sarif.NewReport()

	// Create a run with tool information
	run := sarif.NewRunWithInformationURI(r.toolName, r.toolURI)
	if r.toolVersion != "" {
		run.Tool.Driver.WithVersion(r.toolVersion)
	}

	// Collect unique rule ids and files
	ruleSet := make(map[string]diag.Issue)
	fileSet := make(map[string]struct{})

	for _, iss := range issues {
		if _, exists := ruleSet[iss.RuleID]; !exists {
			ruleSet[iss.RuleID] = iss
		}
		// Normalize path for SARIF URIs (cross-platform consistency)
		filePath := filepath.ToSlash(iss.File)
		fileSet[filePath] = struct{}{}
	}

	// Add rule definitions
	ruleIDs := make([]string, 0, len(ruleSet))
	for id := range ruleSet {
		ruleIDs = append(ruleIDs, id)
	}
	sort.Strings(ruleIDs)

	for _, id := range ruleIDs {
		iss := ruleSet[id]
		rule := run.AddRule(id)
		rule.WithShortDescription(sarif.NewMultiformatMessageString().WithText(iss.Message))
		if url := docURL(r.registry, id); url != "" {
			rule.WithHelpURI(url)
		}
	}

	// Add artifacts (files)
	files := make([]string, 0, len(fileSet))
	for file := range fileSet {
		files = append(files, file)
	}
	sort.Strings(files)

	for _, file := range files {
		run.AddDistinctArtifact(file)
	}

	// Add results
	for _, iss := range issues {
		// Normalize file path (must do in each loop since range copies values)
		filePath := filepath.ToSlash(iss.File)

		result := sarif.NewRuleResult(iss.RuleID).
			WithMessage(sarif.NewTextMessage(iss.Message)).
			WithLevel(severityToSARIFLevel(iss.Severity))

		if !isFileLevel(iss.Range) {
			region := sarif.NewRegion().
				WithStartLine(iss.Range.Start.Line)

			if iss.Range.Start.Column > 0 {
				region.WithStartColumn(iss.Range.Start.Column)
			}

			if !isPointLocation(iss.Range) {
				region.WithEndLine(iss.Range.End.Line)
				if iss.Range.End.Column > 0 {
					region.WithEndColumn(iss.Range.End.Column)
				}
			}

			physicalLocation := sarif.NewPhysicalLocation().
				WithArtifactLocation(sarif.NewSimpleArtifactLocation(filePath)).
				WithRegion(region)

			result.WithLocations([]*sarif.Location{
				sarif.NewLocationWithPhysicalLocation(physicalLocation),
			})
		} else {
			// File-level issue - just include the file
			physicalLocation := sarif.NewPhysicalLocation().
				WithArtifactLocation(sarif.NewSimpleArtifactLocation(filePath))

			result.WithLocations([]*sarif.Location{
				sarif.NewLocationWithPhysicalLocation(physicalLocation),
			})
		}

		run.AddResult(result)
	}

	report.AddRun(run)

	// Write with pretty formatting for readability
	return report.PrettyWrite(r.writer)
}

// SARIF severity levels.
const (
	sarifLevelError   = "error"
	sarifLevelWarning = "warning"
	sarifLevelNote    = "note"
)

// severityToSARIFLevel maps our Severity to SARIF levels.
// SARIF uses: "error", "warning", "note", "none"
func severityToSARIFLevel(s diag.Severity) string {
	switch s {
	case diag.SeverityError:
		return sarifLevelError
	case diag.SeverityWarning:
		return sarifLevelWarning
	case diag.SeverityInfo:
		return sarifLevelNote
	case diag.SeverityOff:
		// Never reaches here: Off is never an Issue's effective severity.
		return sarifLevelNote
	default:
		return sarifLevelWarning
	}
}
