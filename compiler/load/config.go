package load

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the engine configuration. The plugin directory list is ordered
// and the order is significant: later directories are the override side of
// fragment merges, so it must come from configuration, never from
// platform-dependent directory listing.
type Config struct {
	// Name is the project name, used in logs only.
	Name string `yaml:"name"`
	// Plugins is the ordered list of contributor directories.
	Plugins []string `yaml:"plugins"`
	// Package is the package name of the emitted source unit.
	Package string `yaml:"package"`
	// Target is the path the emitted unit is written to.
	Target string `yaml:"target"`
	// Append is raw source text appended verbatim to the emitted unit.
	Append string `yaml:"append"`
	// DB configures the optional database bootstrap.
	DB DBConfig `yaml:"db"`
}

// DBConfig names the dialect and DSN used by the migrate command.
type DBConfig struct {
	Dialect string `yaml:"dialect"`
	DSN     string `yaml:"dsn"`
}

// LoadConfig reads the engine configuration from a YAML file and applies
// defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load: read config: %w", err)
	}
	cfg := &Config{
		Name:    "mosaic",
		Plugins: []string{"plugins"},
		Package: "model",
		Target:  "model/model.go",
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("load: parse config %s: %w", path, err)
	}
	if len(cfg.Plugins) == 0 {
		return nil, fmt.Errorf("load: config %s declares no plugin directories", path)
	}
	return cfg, nil
}
