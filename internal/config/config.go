package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Default generative backend settings (OpenAI-compatible).
const (
	DefaultGenAIEndpoint = "https://api.openai.com/v1"
	DefaultGenAIModel    = "gpt-4o-mini"
)

// Config holds connection settings for the task sink, the generative
// backend and the HTTP surface.
type Config struct {
	TodoistToken  string      `yaml:"todoist_token"         mapstructure:"todoist_token"`
	TodoistURL    string      `yaml:"todoist_url,omitempty" mapstructure:"todoist_url"` // override for tests
	APIKey        string      `yaml:"api_key"               mapstructure:"api_key"` // X-API-Key for the serve surface
	TicketBaseURL string      `yaml:"ticket_base_url"       mapstructure:"ticket_base_url"`
	GenAI         GenAIConfig `yaml:"genai"                 mapstructure:"genai"`
}

// GenAIConfig holds generative backend settings.
type GenAIConfig struct {
	Endpoint string `yaml:"endpoint" mapstructure:"endpoint"`
	APIKey   string `yaml:"api_key"  mapstructure:"api_key"`
	Model    string `yaml:"model"    mapstructure:"model"`
}

// DefaultPath returns the default config file path (~/.ticket2task.yaml).
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".ticket2task.yaml"
	}
	return filepath.Join(home, ".ticket2task.yaml")
}

// Load reads config from the YAML file and applies env var overrides.
// configPath may be empty to use the default path.
func Load(configPath string) (Config, error) {
	v := viper.New()

	if configPath == "" {
		configPath = DefaultPath()
	}

	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	v.SetDefault("ticket_base_url", "https://tracker.example.com")
	v.SetDefault("genai.endpoint", DefaultGenAIEndpoint)
	v.SetDefault("genai.model", DefaultGenAIModel)

	// Env var overrides
	v.BindEnv("todoist_token", "TODOIST_API_TOKEN")
	v.BindEnv("api_key", "MY_PRIVATE_API_KEY")
	v.BindEnv("ticket_base_url", "TICKET_BASE_URL")
	v.BindEnv("genai.endpoint", "GENAI_ENDPOINT")
	v.BindEnv("genai.api_key", "GENAI_API_KEY")
	v.BindEnv("genai.model", "GENAI_MODEL")

	// Read the config file (ignore "not found" errors so env vars still work)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// Only ignore file-not-found; other errors (e.g. parse) are real
			if !os.IsNotExist(err) {
				return Config{}, fmt.Errorf("reading config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

// ValidateSink checks that the task sink can be reached.
func (c Config) ValidateSink() error {
	if c.TodoistToken == "" {
		return fmt.Errorf("Todoist token is required (set in config file or TODOIST_API_TOKEN env var)")
	}
	return nil
}

// ValidateGenAI checks that the generative backend is configured. This
// runs before any network call is attempted.
func (c Config) ValidateGenAI() error {
	if c.GenAI.APIKey == "" {
		return fmt.Errorf("generative backend API key is required (set in config file or GENAI_API_KEY env var)")
	}
	if c.GenAI.Endpoint == "" {
		return fmt.Errorf("generative backend endpoint is required (set in config file or GENAI_ENDPOINT env var)")
	}
	if c.GenAI.Model == "" {
		return fmt.Errorf("generative backend model is required (set in config file or GENAI_MODEL env var)")
	}
	return nil
}

// ValidateServer checks the settings the HTTP surface needs.
func (c Config) ValidateServer() error {
	if c.APIKey == "" {
		return fmt.Errorf("server API key is required (set in config file or MY_PRIVATE_API_KEY env var)")
	}
	return c.ValidateSink()
}

// Save writes the config to the given path (or default path if empty).
func Save(cfg Config, configPath string) error {
	if configPath == "" {
		configPath = DefaultPath()
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
