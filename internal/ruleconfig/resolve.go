package ruleconfig

import (
	"fmt"
	"sort"

	"github.com/wharflab/solidguard/internal/diag"
	"github.com/wharflab/solidguard/internal/ruleapi"
)

// ResolveMode controls how Resolve reacts to a rule id with no
// matching registered rule.
type ResolveMode int

const (
	// ResolveModeStrict rejects the whole configuration with a
	// ConfigError{Kind: ConfigErrorUnknownRule} the first time an unknown
	// rule id is found.
	ResolveModeStrict ResolveMode = iota
	// ResolveModeTolerant drops the offending entry and records it in
	// Resolved.UnknownRuleIDs instead of failing the resolve.
	ResolveModeTolerant
)

// Resolved is the fully-merged, fully-validated outcome of Resolve: the
// effective severity and options for every rule the registry knows
// about, ready to hand to internal/driver.
type Resolved struct {
	Severities map[string]diag.Severity
	Options    map[string]map[string]any
	Parser     ParserOptions
	Files      []string
	Exclude    []string

	// UnknownRuleIDs lists rule ids referenced in the configuration that
	// no registered rule matches. Only ever populated in
	// ResolveModeTolerant; Strict mode fails Resolve instead.
	UnknownRuleIDs []string
}

// EffectiveRules returns the sorted ids of every rule whose resolved
// severity is not diag.SeverityOff — the set the driver actually runs.
func (r *Resolved) EffectiveRules() []string {
	out := make([]string, 0, len(r.Severities))
	for id, sev := range r.Severities {
		if sev != diag.SeverityOff {
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}

// Resolve expands cfg's Extends chain against presets (depth-first,
// cycle-checked), then applies each layer's Rules map: bare category
// keys bulk-set first, per-rule entries in the same layer win over
// them, and later layers override earlier ones with cfg itself applied
// last. Every rule in registry that ends up with no explicit setting
// keeps its RuleMetadata.DefaultSeverity and
// RuleMetadata.EnabledByDefault-derived severity.
func Resolve(cfg Config, presets PresetCatalog, registry *ruleapi.Registry, mode ResolveMode) (*Resolved, error) {
	layers, err := expandExtends(cfg, presets, nil)
	if err != nil {
		return nil, err
	}

	all := registry.All()
	severities := make(map[string]diag.Severity, len(all))
	options := make(map[string]map[string]any, len(all))
	for _, r := range all {
		meta := r.Metadata()
		sev := diag.SeverityOff
		if meta.EnabledByDefault {
			sev = meta.DefaultSeverity
		}
		severities[meta.ID] = sev
	}

	var unknown []string
	seenUnknown := make(map[string]bool)

	for _, layer := range layers {
		// A bare category name in the Rules map bulk-sets every rule of
		// that category; per-rule keys in the same layer are applied
		// afterward so they win over the bulk-set.
		var catKeys, ruleIDs []string
		for id := range layer.Rules {
			if diag.Category(id).IsValid() {
				catKeys = append(catKeys, id)
			} else {
				ruleIDs = append(ruleIDs, id)
			}
		}
		sort.Strings(catKeys) // deterministic application order within a layer
		sort.Strings(ruleIDs)

		for _, catName := range catKeys {
			setting, err := decodeRuleSetting(layer.Rules[catName])
			if err != nil {
				return nil, &ConfigError{Kind: ConfigErrorBadSeverity, Detail: fmt.Sprintf("category %q: %v", catName, err)}
			}
			if len(setting.Options) > 0 {
				return nil, &ConfigError{Kind: ConfigErrorBadOptions, Detail: fmt.Sprintf("category %q: a category setting takes a severity only, not options", catName)}
			}
			sev, err := diag.ParseSeverity(setting.Severity)
			if err != nil {
				return nil, &ConfigError{Kind: ConfigErrorBadSeverity, Detail: fmt.Sprintf("category %q: %v", catName, err)}
			}
			for _, r := range registry.ByCategory(catName) {
				severities[r.Metadata().ID] = sev
			}
		}

		for _, id := range ruleIDs {
			raw := layer.Rules[id]
			setting, err := decodeRuleSetting(raw)
			if err != nil {
				return nil, &ConfigError{Kind: ConfigErrorBadSeverity, Detail: fmt.Sprintf("%s: %v", id, err)}
			}

			rule, getErr := registry.Get(id)
			if getErr != nil {
				if mode == ResolveModeStrict {
					return nil, &ConfigError{Kind: ConfigErrorUnknownRule, Detail: id}
				}
				if !seenUnknown[id] {
					seenUnknown[id] = true
					unknown = append(unknown, id)
				}
				continue
			}

			if setting.Severity != "" {
				sev, err := diag.ParseSeverity(setting.Severity)
				if err != nil {
					return nil, &ConfigError{Kind: ConfigErrorBadSeverity, Detail: fmt.Sprintf("%s: %v", id, err)}
				}
				severities[id] = sev
			}
			if setting.Options != nil {
				setting.Options = coerceOptions(rule.Metadata().OptionSchema, setting.Options)
				if err := validateOptions(rule, setting.Options); err != nil {
					return nil, &ConfigError{Kind: ConfigErrorBadOptions, Detail: fmt.Sprintf("%s: %v", id, err)}
				}
				merged := options[id]
				if merged == nil {
					merged = make(map[string]any)
				}
				for k, v := range setting.Options {
					merged[k] = v
				}
				options[id] = merged
			}
		}

		if layer.Parser.Tolerant {
			cfg.Parser.Tolerant = true // last explicit true in the chain wins; false never downgrades a preset's true
		}
		if layer.Parser.SourceType != "" {
			cfg.Parser.SourceType = layer.Parser.SourceType
		}
		if len(layer.Files) > 0 {
			cfg.Files = layer.Files
		}
		if len(layer.ExcludeFiles) > 0 {
			cfg.ExcludeFiles = layer.ExcludeFiles
		}
	}

	sort.Strings(unknown)
	return &Resolved{
		Severities:     severities,
		Options:        options,
		Parser:         cfg.Parser,
		Files:          cfg.Files,
		Exclude:        cfg.ExcludeFiles,
		UnknownRuleIDs: unknown,
	}, nil
}

func validateOptions(rule ruleapi.Rule, options map[string]any) error {
	if err := validateOptionSchema(rule.Metadata(), options); err != nil {
		return err
	}
	cr, ok := rule.(ruleapi.ConfigurableRule)
	if !ok {
		return nil
	}
	return cr.ValidateConfig(options)
}

// expandExtends depth-first-expands cfg.Extends into a flat layer list,
// presets before cfg itself, outermost-first. visiting tracks the
// current expansion stack so a preset that (directly or transitively)
// extends itself is rejected as ConfigErrorCyclicExtends rather than
// recursing forever.
func expandExtends(cfg Config, presets PresetCatalog, visiting []string) ([]Config, error) {
	var layers []Config
	for _, name := range cfg.Extends {
		for _, v := range visiting {
			if v == name {
				return nil, &ConfigError{Kind: ConfigErrorCyclicExtends, Detail: fmt.Sprintf("%s -> %s", joinChain(visiting), name)}
			}
		}
		preset, ok := presetOf(presets, name)
		if !ok {
			return nil, &ConfigError{Kind: ConfigErrorUnknownPreset, Detail: name}
		}
		nested, err := expandExtends(preset, presets, append(visiting, name))
		if err != nil {
			return nil, err
		}
		layers = append(layers, nested...)
	}
	layers = append(layers, cfg)
	return layers, nil
}

func presetOf(presets PresetCatalog, name string) (Config, bool) {
	if presets == nil {
		return Config{}, false
	}
	return presets.Preset(name)
}

func joinChain(chain []string) string {
	s := ""
	for i, c := range chain {
		if i > 0 {
			s += " -> "
		}
		s += c
	}
	return s
}
