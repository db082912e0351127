package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/MindsetIO/log-stream/internal/types"
)

// LoadConfig reads the configuration from the given path
func LoadConfig(path string) (*types.Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	var cfg types.Config
	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// validateConfig applies defaults and hard rules
func validateConfig(cfg *types.Config) error {
	if len(cfg.Sources) == 0 {
		return fmt.Errorf("no sources configured")
	}
	for i, src := range cfg.Sources {
		if src.Type == "" {
			return fmt.Errorf("source %d: missing type", i)
		}
		if src.Path == "" {
			return fmt.Errorf("source %q: missing logfile", src.Type)
		}
		if len(src.Patterns) == 0 {
			return fmt.Errorf("source %q: no regex patterns", src.Type)
		}
	}

	if cfg.Rate.WindowHours <= 0 {
		cfg.Rate.WindowHours = 1
	}
	if cfg.Dashboard.TableLen <= 0 {
		cfg.Dashboard.TableLen = 10
	}
	if cfg.Dashboard.Port == "" {
		cfg.Dashboard.Port = ":8080"
	}
	if cfg.Metrics.Port == "" {
		cfg.Metrics.Port = ":9090"
	}
	return nil
}
