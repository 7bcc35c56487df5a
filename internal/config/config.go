package config

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/sant0-9/coldpitch/internal/paths"
	"gopkg.in/yaml.v3"
)

// PlaceholderToken is sent when no credential is configured, so a
// misconfigured install fails with a predictable 401 instead of crashing.
const PlaceholderToken = "YOUR_GITHUB_TOKEN_HERE"

type Config struct {
	APIKey   string        `yaml:"api_key,omitempty"`
	Primary  Endpoint      `yaml:"primary"`
	Fallback Endpoint      `yaml:"fallback"`
	Timeout  time.Duration `yaml:"timeout"`
	LogLevel string        `yaml:"log_level"`

	Storage StorageConfig `yaml:"storage"`
}

// Endpoint is one OpenAI-compatible chat completions target
type Endpoint struct {
	Preset      string  `yaml:"preset,omitempty"`
	BaseURL     string  `yaml:"base_url,omitempty"`
	Model       string  `yaml:"model"`
	Temperature float64 `yaml:"temperature"`
	TopP        float64 `yaml:"top_p"`
	MaxTokens   int     `yaml:"max_tokens,omitempty"` // 0 sends no limit
}

type StorageConfig struct {
	Backend string `yaml:"backend"`
	Dir     string `yaml:"dir,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Primary: Endpoint{
			Preset:      "github-models",
			Model:       "openai/gpt-4.1",
			Temperature: 0.85,
			TopP:        0.95,
		},
		Fallback: Endpoint{
			Preset:      "openai",
			Model:       "gpt-4-turbo",
			Temperature: 0.85,
			TopP:        0.95,
			MaxTokens:   600,
		},
		Timeout:  60 * time.Second,
		LogLevel: "info",
		Storage: StorageConfig{
			Backend: "file",
		},
	}
}

// Name returns the preset id, or the base URL for custom endpoints
func (e *Endpoint) Name() string {
	if e.Preset != "" {
		return e.Preset
	}
	return e.BaseURL
}

// URL returns the base URL, falling back to the preset's
func (e *Endpoint) URL() (string, error) {
	if e.BaseURL != "" {
		return e.BaseURL, nil
	}
	p := GetPreset(e.Preset)
	if p == nil {
		return "", goerr.New("endpoint has neither base_url nor a known preset", goerr.V("preset", e.Preset))
	}
	return p.BaseURL, nil
}

// Token returns the configured credential, or the placeholder and false
func (c *Config) Token() (string, bool) {
	if c.APIKey == "" {
		return PlaceholderToken, false
	}
	return c.APIKey, true
}

// StorageDir returns the configured data directory or the XDG default
func (c *Config) StorageDir() (string, error) {
	if c.Storage.Dir != "" {
		return c.Storage.Dir, nil
	}
	return paths.DataDir()
}

func ConfigPath() (string, error) {
	dir, err := paths.ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

func Exists() bool {
	path, err := ConfigPath()
	if err != nil {
		return false
	}
	_, err = os.Stat(path)
	return err == nil
}

// Load reads the config file at the default path. A missing file yields nil, nil.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom reads a config file over the defaults. A missing file yields nil, nil.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, goerr.Wrap(err, "failed to read config", goerr.V("path", path))
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, goerr.Wrap(err, "failed to parse config", goerr.V("path", path))
	}

	return cfg, nil
}

func (c *Config) Save() error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return c.SaveTo(path)
}

func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return goerr.Wrap(err, "failed to create config dir", goerr.V("path", path))
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return goerr.Wrap(err, "failed to marshal config")
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return goerr.Wrap(err, "failed to write config", goerr.V("path", path))
	}
	return nil
}

// MaskToken hides all but the ends of a credential
func MaskToken(token string) string {
	switch {
	case token == "":
		return "Not set"
	case len(token) > 8:
		return token[:4] + "****" + token[len(token)-4:]
	default:
		return "****"
	}
}
