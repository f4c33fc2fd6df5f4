package ruleconfig

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// ConfigFileNames are searched for, in priority order, by Discover.
var ConfigFileNames = []string{".solidguard.toml", "solidguard.toml"}

// EnvPrefix is the environment-variable prefix LoadFromFile layers on
// top of the file and defaults, e.g. SOLIDGUARD_PARSER_TOLERANT=true.
const EnvPrefix = "SOLIDGUARD_"

// Discover walks up from the directory containing targetPath looking
// for a file named in ConfigFileNames, returning the first match or ""
// if none is found before the filesystem root.
func Discover(targetPath string) string {
	absPath, err := filepath.Abs(targetPath)
	if err != nil {
		return ""
	}
	dir := filepath.Dir(absPath)
	for {
		for _, name := range ConfigFileNames {
			candidate := filepath.Join(dir, name)
			if fileExists(candidate) {
				return candidate
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// LoadFromFile decodes a Config from configPath (TOML), layered over
// Config's zero value and then over environment variables prefixed
// EnvPrefix. An empty configPath loads only defaults and environment.
func LoadFromFile(configPath string) (Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Config{Rules: map[string]any{}}, "koanf"), nil); err != nil {
		return Config{}, err
	}

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), toml.Parser()); err != nil {
			return Config{}, &ConfigError{Kind: ConfigErrorBadOptions, Detail: err.Error()}
		}
	}

	if err := k.Load(env.Provider(".", env.Opt{Prefix: EnvPrefix, TransformFunc: envKeyTransform}), nil); err != nil {
		return Config{}, err
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Load discovers the nearest config file for targetPath and loads it;
// with none found it returns defaults layered with environment only.
func Load(targetPath string) (Config, error) {
	return LoadFromFile(Discover(targetPath))
}

func envKeyTransform(key, value string) (string, any) {
	key = strings.TrimPrefix(key, EnvPrefix)
	key = strings.ToLower(key)
	key = strings.ReplaceAll(key, "_", ".")
	return key, value
}
