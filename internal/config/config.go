package config

import (
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Project struct {
		Name       string   `yaml:"name"`
		Sources    []string `yaml:"sources"`
		SearchDirs []string `yaml:"gir_search_dirs"`
	} `yaml:"project"`
	Output struct {
		Dir      string `yaml:"dir"`
		Database string `yaml:"database"`
	} `yaml:"output"`
	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
}

func LoadConfig(path string) (*Config, error) {
	// 1. Load .env if exists
	_ = godotenv.Load()

	// 2. Load YAML config
	file, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(file, &cfg); err != nil {
		return nil, err
	}

	// 3. Override with environment variables if present
	if db := os.Getenv("GIRDOC_DATABASE"); db != "" {
		cfg.Output.Database = db
	}
	if level := os.Getenv("GIRDOC_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}

	applyDefaults(&cfg)
	return &cfg, nil
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Project.Name == "" {
		cfg.Project.Name = "project"
	}
	if len(cfg.Project.Sources) == 0 {
		cfg.Project.Sources = []string{"."}
	}
	if cfg.Output.Dir == "" {
		cfg.Output.Dir = "out"
	}
	if cfg.Output.Database == "" {
		cfg.Output.Database = "girdoc.db"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
}
