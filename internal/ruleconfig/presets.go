package ruleconfig

// PresetCatalog looks up a named preset's Config by name. internal/
// presets builds the concrete catalog (recommended, security, ...); this
// package only needs the lookup contract so it has no dependency on the
// concrete preset set.
type PresetCatalog interface {
	Preset(name string) (Config, bool)
}

// MapCatalog is the simplest PresetCatalog: a plain map.
type MapCatalog map[string]Config

func (m MapCatalog) Preset(name string) (Config, bool) {
	c, ok := m[name]
	return c, ok
}
