package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds per-format extraction defaults loaded from an optional YAML
// file. Command-line flags override anything set here.
type Config struct {
	JSON struct {
		Strict bool `yaml:"strict"`
	} `yaml:"json"`
	XML struct {
		Validate *bool `yaml:"validate"`
		Recover  *bool `yaml:"recover"`
	} `yaml:"xml"`
	HTML struct {
		Clean    bool `yaml:"clean"`
		Validate bool `yaml:"validate"`
	} `yaml:"html"`
	Code struct {
		Language string `yaml:"language"`
		Strict   bool   `yaml:"strict"`
	} `yaml:"code"`
}

// DefaultConfig mirrors the extractor defaults: XML validates and recovers,
// everything else is off.
func DefaultConfig() Config {
	var cfg Config
	on := true
	cfg.XML.Validate = &on
	cfg.XML.Recover = &on
	return cfg
}

// LoadConfig reads a YAML config file. A missing path returns the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if cfg.XML.Validate == nil {
		on := true
		cfg.XML.Validate = &on
	}
	if cfg.XML.Recover == nil {
		on := true
		cfg.XML.Recover = &on
	}
	return cfg, nil
}
