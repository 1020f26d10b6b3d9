package models

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	openAIKeyEnv    = "OPENAI_API_KEY"
	searchKeyEnv    = "SEARCH_API_KEY"
	databasePathEnv = "LINKSTASH_DB"

	defaultWorkers = 4
	defaultDBPath  = "linkstash.db"
	defaultOwner   = "local"
	defaultModel   = "gpt-4o-mini"
)

// Config holds runtime settings loaded from config.yaml with env overrides.
type Config struct {
	Owner   string       `yaml:"owner"`
	DBPath  string       `yaml:"db_path"`
	Workers int          `yaml:"workers"`
	Search  SearchConfig `yaml:"search"`
	LLM     LLMConfig    `yaml:"llm"`
}

// SearchConfig wires the external search/crawl provider. When Endpoint is
// empty, web search is unavailable and site discovery falls back to crawling
// the seed page locally.
type SearchConfig struct {
	Endpoint string `yaml:"endpoint"`
	APIKey   string `yaml:"api_key"`
}

// LLMConfig describes how to contact the model provider.
type LLMConfig struct {
	Model  string `yaml:"model"`
	APIKey string `yaml:"api_key"`
}

// LoadConfig reads the YAML file at path (a missing file is not an error) and
// applies environment overrides on top of defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{
		Owner:   defaultOwner,
		DBPath:  defaultDBPath,
		Workers: defaultWorkers,
		LLM:     LLMConfig{Model: defaultModel},
	}

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
		if err == nil {
			if err := yaml.Unmarshal(raw, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
			}
		}
	}

	cfg.applyEnvOverrides()

	if cfg.Workers <= 0 {
		cfg.Workers = defaultWorkers
	}
	if cfg.Owner == "" {
		cfg.Owner = defaultOwner
	}
	if cfg.DBPath == "" {
		cfg.DBPath = defaultDBPath
	}
	if cfg.LLM.Model == "" {
		cfg.LLM.Model = defaultModel
	}

	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(openAIKeyEnv); v != "" {
		c.LLM.APIKey = v
	}
	if v := os.Getenv(searchKeyEnv); v != "" {
		c.Search.APIKey = v
	}
	if v := os.Getenv(databasePathEnv); v != "" {
		c.DBPath = v
	}
}
