package ruleconfig

import (
	"encoding/json"
	"fmt"
	"sync"

	gjsonschema "github.com/google/jsonschema-go/jsonschema"

	"github.com/wharflab/solidguard/internal/ruleapi"
)

// schemaCache memoizes the gjsonschema.Resolved built from a rule's
// RuleMetadata.OptionSchema, keyed by rule id. Resolve runs once per
// invocation but a long-lived host (the reference CLI watching files,
// an LSP-style integration) may call it often; re-parsing and
// re-resolving the same schema on every call would be wasted work for
// no benefit.
var schemaCache sync.Map // map[string]*gjsonschema.Resolved

// validateOptionSchema validates options against meta.OptionSchema, a
// JSON Schema expressed as a Go map. A rule with no OptionSchema
// accepts any options shape.
func validateOptionSchema(meta ruleapi.RuleMetadata, options map[string]any) error {
	if meta.OptionSchema == nil {
		return nil
	}
	resolved, err := resolvedSchemaFor(meta)
	if err != nil {
		return err
	}
	jsonValue, err := toJSONValue(options)
	if err != nil {
		return fmt.Errorf("convert options for %s to JSON value: %w", meta.ID, err)
	}
	if err := resolved.Validate(jsonValue); err != nil {
		return fmt.Errorf("options for %s failed schema validation: %w", meta.ID, err)
	}
	return nil
}

func resolvedSchemaFor(meta ruleapi.RuleMetadata) (*gjsonschema.Resolved, error) {
	if cached, ok := schemaCache.Load(meta.ID); ok {
		return cached.(*gjsonschema.Resolved), nil
	}

	data, err := json.Marshal(meta.OptionSchema)
	if err != nil {
		return nil, fmt.Errorf("marshal option schema for %s: %w", meta.ID, err)
	}
	var schema gjsonschema.Schema
	if err := json.Unmarshal(data, &schema); err != nil {
		return nil, fmt.Errorf("parse option schema for %s: %w", meta.ID, err)
	}
	resolved, err := schema.Resolve(nil)
	if err != nil {
		return nil, fmt.Errorf("resolve option schema for %s: %w", meta.ID, err)
	}
	schemaCache.Store(meta.ID, resolved)
	return resolved, nil
}

func toJSONValue(value any) (any, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}
