package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"driftwood/pkg/logging"
)

// LoadConfig loads the configuration from path. A directory is searched for
// driftwood.yaml; a missing file yields the defaults so that running in an
// unconfigured project is a no-op rather than an error.
func LoadConfig(path string) (Config, error) {
	filePath, err := resolveConfigFile(path)
	if err != nil {
		return Config{}, err
	}

	var cfg Config
	data, err := os.ReadFile(filePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logging.Info("ConfigLoader", "No %s found at %s, using defaults", ConfigFileName, path)
			applyDefaults(&cfg)
			return cfg, nil
		}
		return Config{}, fmt.Errorf("failed to read config from %s: %w", filePath, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config from %s: %w", filePath, err)
	}

	applyDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config %s: %w", filePath, err)
	}

	logging.Info("ConfigLoader", "Loaded configuration from %s (%d components, %d entities)",
		filePath, len(cfg.Components), len(cfg.Entities))
	return cfg, nil
}

func resolveConfigFile(path string) (string, error) {
	if path == "" {
		path = "."
	}

	info, err := os.Stat(path)
	if err == nil && info.IsDir() {
		return filepath.Join(path, ConfigFileName), nil
	}
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("failed to stat config path %s: %w", path, err)
	}
	return path, nil
}
