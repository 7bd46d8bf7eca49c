package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

type ProviderConfig struct {
	APIKey string `yaml:"api_key"`
}

// SinkConfig locates the document store and names its indices.
type SinkConfig struct {
	URL                 string `yaml:"url"`
	DashboardURL        string `yaml:"dashboard_url"`
	IndexPrefix         string `yaml:"index_prefix"`
	AIIndexPrefix       string `yaml:"ai_index_prefix"`
	InsightsIndexPrefix string `yaml:"insights_index_prefix"`
}

type Config struct {
	SelectedProvider string                    `yaml:"selected_provider"`
	SelectedModel    string                    `yaml:"selected_model"`
	Providers        map[string]ProviderConfig `yaml:"providers"`

	Sink SinkConfig `yaml:"sink"`

	// ScoringPolicy is "ordinal" or "tool-weighted". The flat ingestion path
	// defaults to ordinal when empty; the AI path to tool-weighted.
	ScoringPolicy string `yaml:"scoring_policy"`
	// Fallback is "skip" or "placeholder": what an unknown tool with zero
	// findings produces.
	Fallback string `yaml:"fallback"`
}

func defaultConfig() *Config {
	return &Config{
		SelectedProvider: "gemini",
		SelectedModel:    "gemini-pro",
		Providers:        make(map[string]ProviderConfig),
		Sink: SinkConfig{
			URL:                 "http://localhost:9200",
			DashboardURL:        "http://localhost:5601",
			IndexPrefix:         "pentest-results",
			AIIndexPrefix:       "ai-pentest-results",
			InsightsIndexPrefix: "ai-insights",
		},
		Fallback: "skip",
	}
}

func GetConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	configDir := filepath.Join(home, ".scanpipe")
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.yaml"), nil
}

func LoadConfig() (*Config, error) {
	path, err := GetConfigPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return defaultConfig(), nil
	}
	if err != nil {
		return nil, err
	}

	cfg := defaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if cfg.Providers == nil {
		cfg.Providers = make(map[string]ProviderConfig)
	}
	return cfg, nil
}

func SaveConfig(cfg *Config) error {
	path, err := GetConfigPath()
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	// 0600 permissions for security (api keys)
	return os.WriteFile(path, data, 0600)
}

func (c *Config) SetAPIKey(provider, key string) {
	p := c.Providers[provider]
	p.APIKey = key
	c.Providers[provider] = p
}

func (c *Config) GetAPIKey(provider string) string {
	return c.Providers[provider].APIKey
}
