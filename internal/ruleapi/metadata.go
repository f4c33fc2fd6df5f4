// Package ruleapi is the rule contract and registry: the interfaces a
// rule implements, the metadata it publishes about itself, and the
// process-wide catalog rules self-register into.
package ruleapi

import "github.com/wharflab/solidguard/internal/diag"

// RuleMetadata is the static description a rule publishes about itself.
// ID must be "<category>/<kebab-name>" with the prefix agreeing with
// Category; the registry rejects a mismatch at Register time.
type RuleMetadata struct {
	ID               string
	Name             string
	Description      string
	DocURL           string
	Category         diag.Category
	DefaultSeverity  diag.Severity
	EnabledByDefault bool
	Tags             []string // free-form, e.g. "gas", "correctness"; not validated
	// OptionSchema is a JSON Schema (as a decoded map, matching the shape
	// google/jsonschema-go accepts) describing the rule's Options; nil
	// means the rule takes no configurable options.
	OptionSchema map[string]any
}
