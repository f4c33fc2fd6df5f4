//go:build ignore

// This program generates the JSON schema for a .solidguard.toml (or
// equivalent JSON/YAML) configuration file.
// Run with: go run gen/jsonschema.go > solidguard-config.schema.json
package main

import (
	"encoding/json/jsontext"
	"encoding/json/v2"
	"fmt"
	"os"
	"time"

	"github.com/invopop/jsonschema"

	"github.com/wharflab/solidguard/internal/ruleapi"
	"github.com/wharflab/solidguard/internal/ruleconfig"

	// Import all rules to register them
	_ "github.com/wharflab/solidguard/internal/rules/all"
)

func main() {
	r := &jsonschema.Reflector{
		ExpandedStruct: true,
	}

	// Generate base config schema
	schema := r.Reflect(&ruleconfig.Config{})
	schema.ID = "https://raw.githubusercontent.com/wharflab/solidguard/main/solidguard-config.schema.json"
	schema.Title = "solidguard configuration"
	schema.Description = "Configuration schema for the solidguard Solidity linter"

	// Add rule-specific option schemas, keyed by rule id
	addRuleOptionSchemas(schema)

	// Fix required fields - all config fields should be optional
	fixRequiredFields(schema)

	// Add generation timestamp as comment
	schema.Comments = fmt.Sprintf("Auto-generated on %s. Do not edit manually.",
		time.Now().Format("2006-01-02"))

	// Output as pretty-printed JSON
	data, err := json.Marshal(
		schema,
		jsontext.EscapeForHTML(true),
		jsontext.WithIndentPrefix(""),
		jsontext.WithIndent("  "),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error marshaling schema: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(data))
}

// addRuleOptionSchemas adds each registered rule's RuleMetadata.OptionSchema
// (already a decoded JSON Schema map, the same shape ruleconfig validates
// options against) as a schema definition named after the rule's id
// (see ruleDefName).
// Rules declare their option schema directly as a map literal (see
// internal/ruleconfig/schema.go), so there is nothing to reflect here -
// only to copy into the generated document.
func addRuleOptionSchemas(schema *jsonschema.Schema) {
	if schema.Definitions == nil {
		schema.Definitions = make(jsonschema.Definitions)
	}

	for _, rule := range ruleapi.All() {
		meta := rule.Metadata()
		if meta.OptionSchema == nil {
			continue
		}

		defName := ruleDefName(meta.ID)
		schema.Definitions[defName] = rawMapToSchema(meta.OptionSchema, meta.ID)
	}
}

// rawMapToSchema wraps a rule's raw option-schema map as a *jsonschema.Schema
// definition so it composes with the rest of the reflected document.
func rawMapToSchema(raw map[string]any, ruleID string) *jsonschema.Schema {
	data, err := json.Marshal(raw)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error marshaling option schema for %s: %v\n", ruleID, err)
		os.Exit(1)
	}

	var s jsonschema.Schema
	if err := json.Unmarshal(data, &s); err != nil {
		fmt.Fprintf(os.Stderr, "Error decoding option schema for %s: %v\n", ruleID, err)
		os.Exit(1)
	}
	s.Description = fmt.Sprintf("Options for the %s rule", ruleID)
	return &s
}

// ruleDefName turns "security/integer-overflow" into "SecurityIntegerOverflowOptions".
func ruleDefName(ruleID string) string {
	out := make([]byte, 0, len(ruleID)+8)
	upperNext := true
	for i := 0; i < len(ruleID); i++ {
		c := ruleID[i]
		switch {
		case c == '/' || c == '-' || c == '_':
			upperNext = true
		case upperNext:
			out = append(out, upper(c))
			upperNext = false
		default:
			out = append(out, c)
		}
	}
	return string(out) + "Options"
}

func upper(c byte) byte {
	if c >= 'a' && c <= 'z' {
		return c - ('a' - 'A')
	}
	return c
}

// fixRequiredFields removes the required array from schemas where all fields
// should be optional - every field of ruleconfig.Config is user-optional
// (a bare-minimum .solidguard.toml is a valid, empty file).
func fixRequiredFields(schema *jsonschema.Schema) {
	schema.Required = nil

	if parserDef, ok := schema.Definitions["ParserOptions"]; ok {
		parserDef.Required = nil
	}
	if settingDef, ok := schema.Definitions["RuleSetting"]; ok {
		settingDef.Required = nil
	}
}
