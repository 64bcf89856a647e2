package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ConfigFile is the file name searched for in the config directories.
const ConfigFile = "skyhop.yaml"

// LoadSkyhop loads the skyhop configuration.
// Search order: customPath -> ~/.skyhop/configs/skyhop.yaml -> ./configs/skyhop.yaml -> embedded default
// Every source is layered over the hardcoded defaults, so partial files are fine.
func LoadSkyhop(customPath string) (SkyhopConfig, error) {
	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return SkyhopConfig{}, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		cfg, err := Parse(data)
		if err != nil {
			return SkyhopConfig{}, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory
	if userCfgPath := userConfigPath(ConfigFile); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if cfg, err := Parse(data); err == nil {
				return cfg, nil
			}
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile(filepath.Join("configs", ConfigFile)); err == nil {
		if cfg, err := Parse(data); err == nil {
			return cfg, nil
		}
	}

	// Use embedded default YAML
	cfg, err := Parse(defaultSkyhopYAML)
	if err != nil {
		return DefaultSkyhopConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// Parse decodes YAML over the hardcoded defaults and validates the result.
func Parse(data []byte) (SkyhopConfig, error) {
	cfg := DefaultSkyhopConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return SkyhopConfig{}, err
	}
	if err := cfg.Validate(); err != nil {
		return SkyhopConfig{}, err
	}
	return cfg, nil
}

// Marshal encodes a configuration as YAML.
func Marshal(cfg SkyhopConfig) ([]byte, error) {
	return yaml.Marshal(cfg)
}

// HomeDir returns ~/.skyhop, or empty if home is unavailable.
func HomeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".skyhop")
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	dir := HomeDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "configs", filename)
}
