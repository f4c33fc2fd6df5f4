package reporter

import (
	"encoding/json"
	"io"
	"path/filepath"

	"github.com/wharflab/solidguard/internal/diag"
)

// JSONOutput is the top-level structure for JSON output.
type JSONOutput struct {
	// Files contains results grouped by file.
	Files []FileResult `json:"files"`
	// Summary contains aggregate statistics.
	Summary Summary `json:"summary"`
	// FilesScanned is the total number of files scanned.
	FilesScanned int `json:"files_scanned"`
	// RulesEnabled is the total number of rules that were active.
	RulesEnabled int `json:"rules_enabled"`
}

// FileResult contains the linting results for a single file.
type FileResult struct {
	File   string       `json:"file"`
	Issues []diag.Issue `json:"issues"`
}

// Summary contains aggregate statistics about issues.
type Summary struct {
	Total    int `json:"total"`
	Errors   int `json:"errors"`
	Warnings int `json:"warnings"`
	Info     int `json:"info"`
	Files    int `json:"files"`
}

// JSONReporter formats issues as JSON output.
type JSONReporter struct {
	writer io.Writer
}

// NewJSONReporter creates a new JSON reporter.
func NewJSONReporter(w io.Writer) *JSONReporter {
	return &JSONReporter{writer: w}
}

// Report implements Reporter.
func (r *JSONReporter) Report(issues []diag.Issue, _ map[string][]byte, metadata ReportMetadata) error {
	// Group issues by file (deterministic order).
	// Normalize paths to forward slashes for cross-platform consistency.
	byFile := make(map[string][]diag.Issue)
	filesOrder := make([]string, 0)

	for _, iss := range SortIssues(issues) {
		iss.File = filepath.ToSlash(iss.File)
		file := iss.File
		if _, exists := byFile[file]; !exists {
			filesOrder = append(filesOrder, file)
		}
		byFile[file] = append(byFile[file], iss)
	}

	output := JSONOutput{
		Files:        make([]FileResult, 0, len(filesOrder)),
		Summary:      calculateSummary(issues, len(filesOrder)),
		FilesScanned: metadata.FilesScanned,
		RulesEnabled: metadata.RulesEnabled,
	}

	for _, file := range filesOrder {
		output.Files = append(output.Files, FileResult{
			File:   file,
			Issues: byFile[file],
		})
	}

	enc := json.NewEncoder(r.writer)
	enc.SetIndent("", "  ")
	return enc.Encode(output)
}

// calculateSummary computes aggregate statistics from issues.
func calculateSummary(issues []diag.Issue, fileCount int) Summary {
	summary := Summary{
		Total: len(issues),
		Files: fileCount,
	}

	for _, iss := range issues {
		switch iss.Severity {
		case diag.SeverityError:
			summary.Errors++
		case diag.SeverityWarning:
			summary.Warnings++
		case diag.SeverityInfo:
			summary.Info++
		case diag.SeverityOff:
			// Never reaches here: Off is never an Issue's effective severity.
		}
	}

	return summary
}
