package ruleconfig

import (
	"encoding/json"
	"strconv"
	"strings"
)

// coerceOptions fixes up option values that arrived as plain strings,
// which happens when a rule's options are set through SOLIDGUARD_ env
// vars rather than TOML (koanf's env provider has no concept of a
// schema, so every value lands as a string). A rule with no
// OptionSchema, or an option with no matching property schema, passes
// through unchanged.
func coerceOptions(schema map[string]any, options map[string]any) map[string]any {
	if schema == nil || options == nil {
		return options
	}
	properties, _ := schema["properties"].(map[string]any)
	if properties == nil {
		return options
	}
	for key, value := range options {
		propSchema, ok := properties[key].(map[string]any)
		if !ok {
			continue
		}
		options[key] = coerceValue(propSchema, value)
	}
	return options
}

func coerceValue(schema map[string]any, value any) any {
	s, ok := value.(string)
	if !ok {
		return value
	}
	switch schemaType(schema) {
	case "boolean":
		if b, err := strconv.ParseBool(s); err == nil {
			return b
		}
	case "integer":
		if i, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64); err == nil {
			return i
		}
	case "number":
		if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			return f
		}
	case "array":
		trimmed := strings.TrimSpace(s)
		if strings.HasPrefix(trimmed, "[") {
			var arr []any
			if err := json.Unmarshal([]byte(trimmed), &arr); err == nil {
				return arr
			}
		}
		return splitList(s)
	case "object":
		trimmed := strings.TrimSpace(s)
		if strings.HasPrefix(trimmed, "{") {
			var obj map[string]any
			if err := json.Unmarshal([]byte(trimmed), &obj); err == nil {
				return obj
			}
		}
	}
	return value
}

func schemaType(schema map[string]any) string {
	t, ok := schema["type"].(string)
	if !ok {
		return ""
	}
	return t
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}
