package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	DefaultCipher string   `yaml:"default_cipher"`
	SaveMode      string   `yaml:"save_mode"`
	History       string   `yaml:"history"`
	Plugins       []string `yaml:"plugins"`
}

func Default() *Config {
	return &Config{SaveMode: "a"}
}

// Load reads a YAML config file. Keys absent from the file keep their
// defaults; an empty path returns Default().
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}
