// Package presets holds the built-in configuration bundles a user can
// select via a config file's "extends" list. Each preset is an
// ordinary ruleconfig.Config value, so there is nothing special about a
// built-in preset versus one a project defines itself — Catalog just
// happens to be pre-populated with these two.
package presets

import "github.com/wharflab/solidguard/internal/ruleconfig"

// Recommended enables every rule at its own registered DefaultSeverity
// and disables nothing — the "just turn everything reasonable on"
// baseline. It has no Rules entries of its own: Resolve
// already seeds every rule's effective severity from
// RuleMetadata.DefaultSeverity before any layer is applied, so an empty
// Config *is* "recommended" after the registry is populated; it exists
// as a named preset so a project can write `extends = ["recommended"]`
// instead of relying on Resolve's implicit defaults, and so a later
// preset revision can add real overrides without every existing config
// file changing shape.
const RecommendedName = "recommended"

// SecurityName is the preset that enables only the security category,
// at Error severity, and turns everything else off — a stricter,
// audit-oriented baseline for CI gates that only want to fail on
// security-relevant findings.
const SecurityName = "security"

// Recommended is the Config backing the "recommended" preset name.
var Recommended = ruleconfig.Config{}

// Security is the Config backing the "security" preset name: every
// category set to Off except security, which is set to error. A bare
// category name in Rules bulk-sets the whole category, and Resolve
// applies category keys before per-rule keys, so a project extending
// "security" can still re-enable an individual lint/* rule on top of
// this preset without editing it.
var Security = ruleconfig.Config{
	Rules: map[string]any{
		"security":         "error",
		"lint":             "off",
		"best-practices":   "off",
		"code-quality":     "off",
		"naming":           "off",
		"gas-optimization": "off",
	},
}

// Catalog is the ruleconfig.PresetCatalog containing every built-in
// preset, ready to pass directly to ruleconfig.Resolve. Callers that
// also support project-defined presets should wrap this in their own
// ruleconfig.PresetCatalog implementation that falls back to Catalog
// for the two names here.
var Catalog = ruleconfig.MapCatalog{
	RecommendedName: Recommended,
	SecurityName:    Security,
}
