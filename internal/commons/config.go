package commons

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"

	"carrental/internal/config"
)

// LoadConfigFile reads a YAML config file on top of the given base config.
// Used when CONFIG_FILE is set; env-derived values act as the base.
func LoadConfigFile(path string, base *config.Config) (*config.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := *base
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	return &cfg, nil
}
