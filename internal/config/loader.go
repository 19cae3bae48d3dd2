package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LoadMatch3 loads match-3 configuration.
// Search order: customPath -> ~/.arcade/configs/match3.yaml -> ./configs/match3.yaml -> embedded default
//
// Files are decoded over the defaults, so a partial file only overrides
// the keys it names.
func LoadMatch3(customPath string) (Match3Config, error) {
	cfg := DefaultMatch3Config()

	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		if err := cfg.Validate(); err != nil {
			return cfg, fmt.Errorf("config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory, then local configs directory
	for _, path := range []string{userConfigPath("match3.yaml"), filepath.Join("configs", "match3.yaml")} {
		if path == "" {
			continue
		}
		if c, ok := tryLoad(path); ok {
			return c, nil
		}
	}

	// Use embedded default YAML
	if err := yaml.Unmarshal(defaultMatch3YAML, &cfg); err != nil {
		return DefaultMatch3Config(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// tryLoad reads an optional config file. Missing, malformed and invalid
// files are skipped.
func tryLoad(path string) (Match3Config, bool) {
	cfg := DefaultMatch3Config()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, false
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, false
	}
	if err := cfg.Validate(); err != nil {
		return cfg, false
	}
	return cfg, true
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".arcade", "configs", filename)
}
