// Package ruleconfig is the configuration resolver: the
// user-facing Config shape, preset expansion, and the layering algorithm
// that turns a Config plus a rule registry into a Resolved set of
// per-rule severities and options the driver hands to each file's
// rulectx.Context.
package ruleconfig

// Config is the decoded shape of a `.solidguard.toml` file (or an
// equivalent koanf-loadable source), and also what a built-in preset
// is expressed as. Rules holds pre-decode values (koanf
// hands back generic maps/slices/scalars); Resolve normalizes them via
// decodeRuleSetting before anything touches a RuleMetadata.
type Config struct {
	// Extends lists preset names to layer underneath this Config's own
	// settings, in order; later names override earlier ones, and this
	// Config's own Rules entries override all of them.
	Extends []string `koanf:"extends"`

	// Rules maps a rule id to a RuleSetting in one of its accepted
	// shapes: a bare severity string, a two-element array
	// [severity, options], or an object {severity, options}. A key that
	// is a bare category name (e.g. "security") bulk-sets a severity for
	// every registered rule in that category; within the same layer a
	// per-rule key always wins over a category bulk-set.
	Rules map[string]any `koanf:"rules"`

	Parser ParserOptions `koanf:"parser"`

	// Files/ExcludeFiles are doublestar glob patterns. An empty Files
	// matches every file; ExcludeFiles is applied after Files and always
	// wins.
	Files        []string `koanf:"files"`
	ExcludeFiles []string `koanf:"exclude_files"`
}

// ParserOptions configures the internal/solidity adapter.
type ParserOptions struct {
	Tolerant bool `koanf:"tolerant"`
	// SourceType is "module" or "script"; empty means "module". "script"
	// makes the parser also accept bare statements at the top level; any
	// other value parses the source as a whole file.
	SourceType string `koanf:"source_type"`
}

// RuleSetting is a single rule's decoded, canonical configuration.
type RuleSetting struct {
	Severity string // "off" | "info" | "warning" | "error"; empty means "not set"
	Options  map[string]any
}
