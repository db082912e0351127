package types

import "time"

// SourceConfig describes one monitored (file, record type) pair. Values are
// built once by the config loader and never mutated afterwards; each running
// pipeline owns exactly one of them.
type SourceConfig struct {
	Type     string   `yaml:"type"`
	Path     string   `yaml:"logfile"`
	Patterns []string `yaml:"regex"`
}

// Config represents the application configuration
type Config struct {
	Sources []SourceConfig `yaml:"sources"`

	Geo struct {
		DBPath    string `yaml:"db_path"`    // GeoLite2-City mmdb
		HTTPURL   string `yaml:"http_url"`   // remote lookup, used when db_path is empty
		CachePath string `yaml:"cache_path"` // sqlite lookup cache, empty disables caching
	} `yaml:"geo"`

	API struct {
		URL    string `yaml:"url"`
		APIKey string `yaml:"api_key"` // appended as ?api_key=...
	} `yaml:"api"`

	Rate struct {
		WindowHours int `yaml:"window_hours"`
	} `yaml:"rate"`

	Dashboard struct {
		Enabled  bool   `yaml:"enabled"`
		Port     string `yaml:"port"`
		TableLen int    `yaml:"table_len"`
	} `yaml:"dashboard"`

	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Port    string `yaml:"port"`
	} `yaml:"metrics"`

	Output struct {
		FailureLogPath string `yaml:"failure_log_path"`
	} `yaml:"output"`
}

// Window returns the configured trailing window for rate estimation.
func (c *Config) Window() time.Duration {
	return time.Duration(c.Rate.WindowHours) * time.Hour
}
