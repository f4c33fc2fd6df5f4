package ruleconfig

import (
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/v2"
)

// ResolveOptions merges a rule's configured options over defaults and
// returns the typed result. Fields absent from opts keep their default
// value; a malformed opts map (which validation should have rejected
// long before a rule runs) falls back to defaults rather than
// half-applied settings.
func ResolveOptions[T any](opts map[string]any, defaults T) T {
	if len(opts) == 0 {
		return defaults
	}

	k := koanf.New(".")
	if err := k.Load(confmap.Provider(opts, "."), nil); err != nil {
		return defaults
	}

	result := defaults
	if err := k.Unmarshal("", &result); err != nil {
		return defaults
	}
	return result
}
