package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/citypulse/trafficast/core/metrics"
)

// Config is the full service configuration.
type Config struct {
	Data    DataConfig     `json:"data"`
	Logging LoggingConfig  `json:"logging"`
	Metrics metrics.Config `json:"metrics"`
}

// DataConfig locates the raw source files and the canonical store.
type DataConfig struct {
	// Dir is the directory scanned for Readings*.csv and
	// TMC*Identification*.csv files.
	Dir string `json:"dir"`
	// StorePath is the canonical store database file.
	StorePath string `json:"store_path"`
}

// SetDefaults applies sane defaults.
func (c *DataConfig) SetDefaults() {
	if c.Dir == "" {
		c.Dir = "traffic_data"
	}
	if c.StorePath == "" {
		c.StorePath = "traffic.db"
	}
}

// Load reads the configuration file at path, yaml or json by extension,
// with TC_-prefixed environment overrides.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	// Optional environment overrides
	if err := k.Load(env.Provider("TC_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "tc_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.Data.SetDefaults()
	cfg.Logging.SetDefaults()
	if err := cfg.Logging.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
