package customlint

import (
	"testing"
)

// TestAnalyzerNames verifies that all analyzers have meaningful names.
func TestAnalyzerNames(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		analyzer string
		wantName string
	}{
		{"ruleStructAnalyzer", ruleStructAnalyzer.Name, "rulestruct"},
		{"docURLAnalyzer", docURLAnalyzer.Name, "docurl"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.analyzer != tt.wantName {
				t.Errorf("%s.Name = %q, want %q", tt.name, tt.analyzer, tt.wantName)
			}
		})
	}
}

// TestAnalyzerDocs verifies that all analyzers have documentation.
func TestAnalyzerDocs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		analyzer string
	}{
		{"ruleStructAnalyzer", ruleStructAnalyzer.Doc},
		{"docURLAnalyzer", docURLAnalyzer.Doc},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.analyzer == "" {
				t.Errorf("%s has empty documentation", tt.name)
			}
			if len(tt.analyzer) < 10 {
				t.Errorf("%s documentation is too short: %q", tt.name, tt.analyzer)
			}
		})
	}
}
