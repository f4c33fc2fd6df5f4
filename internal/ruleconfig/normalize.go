package ruleconfig

import "fmt"

// decodeRuleSetting normalizes the shapes a rules.<id> entry may take
// in a config file into a RuleSetting. Every rule accepts the same
// three shapes, so the normalization is
// generic rather than a per-rule-id lookup table.
//
// Accepted shapes:
//   - bare string: severity only, e.g. rules."security/reentrancy" = "warning"
//   - two-element array: [severity, options], e.g. ["warning", {max: 3}]
//   - object: {severity: "warning", options: {max: 3}}
func decodeRuleSetting(raw any) (RuleSetting, error) {
	switch v := raw.(type) {
	case string:
		return RuleSetting{Severity: v}, nil

	case []any:
		switch len(v) {
		case 1:
			sev, ok := v[0].(string)
			if !ok {
				return RuleSetting{}, fmt.Errorf("ruleconfig: severity entry must be a string, got %T", v[0])
			}
			return RuleSetting{Severity: sev}, nil
		case 2:
			sev, ok := v[0].(string)
			if !ok {
				return RuleSetting{}, fmt.Errorf("ruleconfig: severity entry must be a string, got %T", v[0])
			}
			opts, ok := v[1].(map[string]any)
			if !ok {
				return RuleSetting{}, fmt.Errorf("ruleconfig: options entry must be an object, got %T", v[1])
			}
			return RuleSetting{Severity: sev, Options: opts}, nil
		default:
			return RuleSetting{}, fmt.Errorf("ruleconfig: rule entry array must have 1 or 2 elements, got %d", len(v))
		}

	case map[string]any:
		setting := RuleSetting{}
		if sev, ok := v["severity"]; ok {
			str, ok := sev.(string)
			if !ok {
				return RuleSetting{}, fmt.Errorf("ruleconfig: severity field must be a string, got %T", sev)
			}
			setting.Severity = str
		}
		if opts, ok := v["options"]; ok {
			m, ok := opts.(map[string]any)
			if !ok {
				return RuleSetting{}, fmt.Errorf("ruleconfig: options field must be an object, got %T", opts)
			}
			setting.Options = m
		}
		return setting, nil

	default:
		return RuleSetting{}, fmt.Errorf("ruleconfig: unsupported rule entry shape %T", raw)
	}
}
