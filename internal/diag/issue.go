package diag

// Issue is a single diagnostic emission. Severity is always the
// *effective* severity for the rule on this file, never the rule's
// metadata default — rulectx.Context.Report emits at the effective
// severity, and ReportDowngraded caps a hint against it (see
// [CapSeverity]).
type Issue struct {
	RuleID     string         `json:"rule_id"`
	Category   Category       `json:"category"`
	Severity   Severity       `json:"severity"`
	Message    string         `json:"message"`
	File       string         `json:"file"`
	Range      Range          `json:"range"`
	Suggestion string         `json:"suggestion,omitempty"`
	Data       map[string]any `json:"data,omitempty"`
}

// EnginePrefix namespaces synthetic diagnostics the driver itself emits
// (rule-crashed, file-timeout, unknown-rule) rather than any registered rule.
const EnginePrefix = "engine"

// ParserPrefix namespaces diagnostics converted from parser-level
// errors when report assembly merges them into the issue stream.
const ParserPrefix = "parser"
