package reporter

import (
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/wharflab/solidguard/internal/diag"
)

// MarkdownReporter formats issues as concise markdown tables.
// Designed for AI agents working on Solidity contracts - token-efficient
// and actionable.
type MarkdownReporter struct {
	writer io.Writer
}

// NewMarkdownReporter creates a new Markdown reporter.
func NewMarkdownReporter(w io.Writer) *MarkdownReporter {
	return &MarkdownReporter{writer: w}
}

// Report implements Reporter.
func (r *MarkdownReporter) Report(issues []diag.Issue, _ map[string][]byte, _ ReportMetadata) error {
	if len(issues) == 0 {
		_, err := fmt.Fprintln(r.writer, "**No issues found**")
		return err
	}

	sorted := SortIssuesBySeverity(issues)

	// Normalize file paths for consistent output
	for i := range sorted {
		sorted[i].File = filepath.ToSlash(sorted[i].File)
	}

	// Count files and issues
	fileSet := make(map[string]struct{})
	for _, iss := range sorted {
		fileSet[iss.File] = struct{}{}
	}
	fileCount := len(fileSet)

	// Write summary and table
	if fileCount == 1 {
		var filename string
		for f := range fileSet {
			filename = f
		}
		return r.writeSingleFileTable(sorted, filename)
	}

	return r.writeMultiFileTable(sorted, fileCount)
}

// writeSingleFileTable writes a markdown table for issues in a single file.
func (r *MarkdownReporter) writeSingleFileTable(sorted []diag.Issue, filename string) error {
	if _, err := fmt.Fprintf(r.writer, "**%d %s** in `%s`\n\n",
		len(sorted), pluralize(len(sorted), "issue", "issues"), filename); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(r.writer, "| Line | Issue |"); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(r.writer, "|------|-------|"); err != nil {
		return err
	}

	for _, iss := range sorted {
		if _, err := fmt.Fprintf(r.writer, "| %s | %s %s |\n",
			formatLineNumber(iss), severityEmoji(iss.Severity), escapeMarkdown(iss.Message)); err != nil {
			return err
		}
	}

	return nil
}

// writeMultiFileTable writes a markdown table for issues across multiple files.
func (r *MarkdownReporter) writeMultiFileTable(sorted []diag.Issue, fileCount int) error {
	if _, err := fmt.Fprintf(r.writer, "**%d %s** across %d files\n\n",
		len(sorted), pluralize(len(sorted), "issue", "issues"), fileCount); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(r.writer, "| File | Line | Issue |"); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(r.writer, "|------|------|-------|"); err != nil {
		return err
	}

	for _, iss := range sorted {
		if _, err := fmt.Fprintf(r.writer, "| %s | %s | %s %s |\n",
			iss.File, formatLineNumber(iss), severityEmoji(iss.Severity), escapeMarkdown(iss.Message)); err != nil {
			return err
		}
	}

	return nil
}

// formatLineNumber returns the display string for an issue's line number.
func formatLineNumber(iss diag.Issue) string {
	line := iss.Range.Start.Line
	if isFileLevel(iss.Range) {
		line = 0
	}
	if line > 0 {
		return strconv.Itoa(line)
	}
	return "-"
}

// SortIssuesBySeverity sorts issues by severity (errors first), then by file and line.
// Uses stable sort to preserve original order for equal-priority items.
func SortIssuesBySeverity(issues []diag.Issue) []diag.Issue {
	sorted := make([]diag.Issue, len(issues))
	copy(sorted, issues)

	sort.SliceStable(sorted, func(i, j int) bool {
		// shouldSwap returns true if i should come AFTER j,
		// so we invert arguments to get "less than" semantics
		return shouldSwap(sorted[j], sorted[i])
	})

	return sorted
}

// shouldSwap returns true if a should come after b in the sorted output.
func shouldSwap(a, b diag.Issue) bool {
	// Sort by severity first (error < warning < info)
	aPriority := severityPriority(a.Severity)
	bPriority := severityPriority(b.Severity)
	if aPriority != bPriority {
		return aPriority > bPriority
	}

	// Then by file
	if a.File != b.File {
		return a.File > b.File
	}

	// Then by line
	return a.Range.Start.Line > b.Range.Start.Line
}

// severityPriority returns a numeric priority for sorting (lower = more severe).
func severityPriority(s diag.Severity) int {
	switch s {
	case diag.SeverityError:
		return 0
	case diag.SeverityWarning:
		return 1
	case diag.SeverityInfo:
		return 2
	case diag.SeverityOff:
		return 4 // Never reaches here: Off is never an Issue's effective severity.
	default:
		return 3
	}
}

// severityEmoji returns an emoji indicator for the severity level.
func severityEmoji(s diag.Severity) string {
	switch s {
	case diag.SeverityError:
		return "❌"
	case diag.SeverityWarning:
		return "⚠️"
	case diag.SeverityInfo:
		return "ℹ️"
	case diag.SeverityOff:
		return "⭕" // Never reaches here: Off is never an Issue's effective severity.
	default:
		return "⚠️"
	}
}

// escapeMarkdown escapes special markdown characters in table cells.
func escapeMarkdown(s string) string {
	// Escape pipe characters which break table formatting
	s = strings.ReplaceAll(s, "|", "\\|")
	// Replace newlines with spaces
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "\r", "")
	return s
}

// pluralize returns singular or plural form based on count.
func pluralize(count int, singular, plural string) string {
	if count == 1 {
		return singular
	}
	return plural
}
