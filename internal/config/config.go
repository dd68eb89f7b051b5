package config

import (
	"fmt"
	"os"
	"runtime"

	"gopkg.in/yaml.v3"
)

// Config controls enumeration and hashing. Every field is optional; a
// missing config file means all defaults.
type Config struct {
	Exclude []string `yaml:"exclude"`
	Workers int      `yaml:"workers"`
	Digest  string   `yaml:"digest"`
	Region  string   `yaml:"region"`
}

func Default() *Config {
	return &Config{
		Exclude: []string{
			".git/",
			".DS_Store",
			"Thumbs.db",
			"*.tmp",
			"*.swp",
		},
		Workers: runtime.NumCPU() * 2,
		Digest:  "md5",
		Region:  "us-east-1",
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config YAML: %w", err)
	}

	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU() * 2
	}
	return cfg, nil
}
