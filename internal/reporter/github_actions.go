package reporter

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/wharflab/solidguard/internal/diag"
)

// GitHubActionsReporter formats issues as GitHub Actions workflow commands.
// These commands appear as annotations in the GitHub Actions UI.
//
// Format: ::{level} file={file},line={line},col={col}::{message}
//
// See: https://docs.github.com/actions/using-workflows/workflow-commands-for-github-actions#setting-an-error-message
type GitHubActionsReporter struct {
	writer io.Writer
}

// NewGitHubActionsReporter creates a new GitHub Actions reporter.
func NewGitHubActionsReporter(w io.Writer) *GitHubActionsReporter {
	return &GitHubActionsReporter{writer: w}
}

// Report implements Reporter.
func (r *GitHubActionsReporter) Report(issues []diag.Issue, _ map[string][]byte, _ ReportMetadata) error {
	sorted := SortIssues(issues)

	for _, iss := range sorted {
		level := severityToGitHubLevel(iss.Severity)

		// Normalize file path to forward slashes for consistent output
		filePath := filepath.ToSlash(iss.File)

		// Build the annotation
		// Format: ::{level} file={file},line={line},col={col},title={title}::{message}
		var parts []string
		parts = append(parts, "file="+escapeGitHubProperty(filePath))

		if !isFileLevel(iss.Range) {
			parts = append(parts, fmt.Sprintf("line=%d", iss.Range.Start.Line))
			if iss.Range.Start.Column > 0 {
				parts = append(parts, fmt.Sprintf("col=%d", iss.Range.Start.Column))
			}
			if !isPointLocation(iss.Range) {
				parts = append(parts, fmt.Sprintf("endLine=%d", iss.Range.End.Line))
			}
		}

		// Add rule id as title
		parts = append(parts, "title="+escapeGitHubProperty(iss.RuleID))

		// Escape message (newlines not allowed in workflow commands)
		message := escapeGitHubMessage(iss.Message)

		if _, err := fmt.Fprintf(r.writer, "::%s %s::%s\n",
			level,
			strings.Join(parts, ","),
			message,
		); err != nil {
			return err
		}
	}

	return nil
}

// GitHub Actions annotation levels.
const (
	ghLevelError   = "error"
	ghLevelWarning = "warning"
	ghLevelNotice  = "notice"
)

// severityToGitHubLevel maps our Severity to GitHub Actions levels.
// GitHub supports: "error", "warning", "notice", "debug"
func severityToGitHubLevel(s diag.Severity) string {
	switch s {
	case diag.SeverityError:
		return ghLevelError
	case diag.SeverityWarning:
		return ghLevelWarning
	case diag.SeverityInfo:
		return ghLevelNotice
	case diag.SeverityOff:
		// Never reaches here: Off is never an Issue's effective severity.
		return ghLevelWarning
	default:
		return ghLevelWarning
	}
}

// escapeGitHubMessage escapes special characters in GitHub Actions workflow command messages.
// Messages use escapeData() rules which escape "%", "\r", "\n" but NOT ":" or ",".
// See: https://github.com/actions/toolkit/blob/main/packages/core/src/command.ts
func escapeGitHubMessage(s string) string {
	s = strings.ReplaceAll(s, "%", "%25")
	s = strings.ReplaceAll(s, "\r", "%0D")
	s = strings.ReplaceAll(s, "\n", "%0A")
	return s
}

// escapeGitHubProperty escapes special characters in GitHub Actions workflow command properties.
// Properties (file, title, etc.) use escapeProperty() rules which escape "%", "\r", "\n", ":", and ",".
// See: https://github.com/actions/toolkit/blob/main/packages/core/src/command.ts
func escapeGitHubProperty(s string) string {
	s = strings.ReplaceAll(s, "%", "%25")
	s = strings.ReplaceAll(s, "\r", "%0D")
	s = strings.ReplaceAll(s, "\n", "%0A")
	s = strings.ReplaceAll(s, ":", "%3A")
	s = strings.ReplaceAll(s, ",", "%2C")
	return s
}
