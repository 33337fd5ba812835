package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config is the process-wide configuration. Secrets come from the
// environment; personas and content limits may be overridden by an optional
// YAML file (CONFIG_PATH).
type Config struct {
	OpenAI   OpenAIConfig   `yaml:"openai"`
	HubSpot  HubSpotConfig  `yaml:"hubspot"`
	Content  ContentConfig  `yaml:"content"`
	Sender   SenderConfig   `yaml:"sender"`
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`

	Personas map[string]Persona `yaml:"personas"`
}

type OpenAIConfig struct {
	APIKey  string `yaml:"-"`
	Model   string `yaml:"model"`
	BaseURL string `yaml:"base_url"`
}

type HubSpotConfig struct {
	APIKey    string `yaml:"-"`
	AccountID string `yaml:"account_id"`
	BaseURL   string `yaml:"base_url"`
}

type ContentConfig struct {
	BlogMinWords       int `yaml:"blog_min_words"`
	BlogMaxWords       int `yaml:"blog_max_words"`
	NewsletterMaxWords int `yaml:"newsletter_max_words"`
}

type SenderConfig struct {
	Email string `yaml:"email"`
	Name  string `yaml:"name"`
}

type ServerConfig struct {
	Port int `yaml:"port"`
}

type DatabaseConfig struct {
	URL string `yaml:"-"`
}

// Persona describes one audience segment and how content should address it.
type Persona struct {
	Name  string `yaml:"name" json:"name"`
	Focus string `yaml:"focus" json:"focus"`
	Tone  string `yaml:"tone" json:"tone"`
}

// DefaultPersonas is the closed segment set the pipeline targets.
func DefaultPersonas() map[string]Persona {
	return map[string]Persona{
		"founders": {
			Name:  "Founders / Decision-Makers",
			Focus: "ROI, growth, efficiency",
			Tone:  "strategic and results-oriented",
		},
		"creatives": {
			Name:  "Creative Professionals",
			Focus: "inspiration, time-saving tools",
			Tone:  "inspiring and innovative",
		},
		"operations": {
			Name:  "Operations Managers",
			Focus: "workflows, integrations, reliability",
			Tone:  "practical and detail-oriented",
		},
	}
}

// Load builds configuration from the environment plus an optional YAML file.
func Load() (*Config, error) {
	cfg := &Config{
		OpenAI: OpenAIConfig{
			APIKey:  os.Getenv("OPENAI_API_KEY"),
			Model:   envOr("OPENAI_MODEL", "gpt-4"),
			BaseURL: envOr("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		},
		HubSpot: HubSpotConfig{
			APIKey:    os.Getenv("HUBSPOT_API_KEY"),
			AccountID: os.Getenv("HUBSPOT_ACCOUNT_ID"),
			BaseURL:   envOr("HUBSPOT_BASE_URL", "https://api.hubapi.com"),
		},
		Content: ContentConfig{
			BlogMinWords:       envOrInt("BLOG_MIN_WORDS", 400),
			BlogMaxWords:       envOrInt("BLOG_MAX_WORDS", 600),
			NewsletterMaxWords: envOrInt("NEWSLETTER_MAX_WORDS", 250),
		},
		Sender: SenderConfig{
			Email: envOr("SENDER_EMAIL", "marketing@novamind.ai"),
			Name:  envOr("SENDER_NAME", "NovaMind Team"),
		},
		Server: ServerConfig{
			Port: envOrInt("PORT", 8080),
		},
		Database: DatabaseConfig{
			URL: envOr("DATABASE_URL", "postgres://localhost/pipeline?sslmode=disable"),
		},
		Personas: DefaultPersonas(),
	}

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
		if len(cfg.Personas) == 0 {
			cfg.Personas = DefaultPersonas()
		}
	}

	return cfg, nil
}

// Validate checks that required configuration is present.
func (c *Config) Validate() error {
	if c.OpenAI.APIKey == "" {
		return fmt.Errorf("missing required configuration: OPENAI_API_KEY")
	}
	return nil
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func envOrInt(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
