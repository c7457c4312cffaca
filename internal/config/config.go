// Package config implements TOML configuration loading, environment
// overrides, and validation for the GLPI MCP server. The override chain is
// defaults -> config file -> environment; CLI flags act on the logger only.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"golang.org/x/oauth2"
)

// ErrConfiguration marks a fatal configuration error detected at startup.
var ErrConfiguration = errors.New("config: invalid configuration")

// AuthMode selects how the client obtains its session token.
type AuthMode string

const (
	// AuthModeUserToken authenticates with a static GLPI user token.
	AuthModeUserToken AuthMode = "user_token"
	// AuthModeOAuth authenticates with an OAuth 2.1 bearer token.
	AuthModeOAuth AuthMode = "oauth"
)

// Config is the top-level configuration parsed from a TOML file.
type Config struct {
	GLPI    GLPIConfig    `toml:"glpi"`
	OAuth   OAuthConfig   `toml:"oauth"`
	LLM     LLMConfig     `toml:"llm"`
	Folders FoldersConfig `toml:"folders"`
	Logging LoggingConfig `toml:"logging"`
}

// GLPIConfig holds the backend connection settings.
type GLPIConfig struct {
	APIURL         string `toml:"api_url"`
	AppToken       string `toml:"app_token"`
	UserToken      string `toml:"user_token"`
	RequestTimeout string `toml:"request_timeout"`
}

// OAuthConfig holds the OAuth 2.1 client settings. All fields except
// RedirectURI and TokenPath are required when OAuth mode is in use.
type OAuthConfig struct {
	ClientID         string `toml:"client_id"`
	ClientSecret     string `toml:"client_secret"`
	AuthorizationURL string `toml:"authorization_url"`
	TokenURL         string `toml:"token_url"`
	RedirectURI      string `toml:"redirect_uri"`
	TokenPath        string `toml:"token_path"`
}

// LLMConfig selects the extraction backend. BaseURL makes any
// OpenAI-compatible endpoint usable (e.g. a local Ollama).
type LLMConfig struct {
	Provider string `toml:"provider"` // openai, ollama, mock
	Model    string `toml:"model"`
	APIKey   string `toml:"api_key"`
	BaseURL  string `toml:"base_url"`
}

// FoldersConfig holds the local file access policy.
type FoldersConfig struct {
	AllowedRoots      []string `toml:"allowed_roots"`
	AllowedExtensions []string `toml:"allowed_extensions"`
}

// LoggingConfig controls log verbosity.
type LoggingConfig struct {
	Level string `toml:"level"` // debug, info, warn, error
}

// defaults returns the baseline configuration before file and env layers.
func defaults() Config {
	home, _ := os.UserHomeDir()

	return Config{
		GLPI: GLPIConfig{
			RequestTimeout: "30s",
		},
		OAuth: OAuthConfig{
			RedirectURI: "http://localhost:8080/callback",
			TokenPath:   filepath.Join(home, ".glpi-mcp", "tokens.json"),
		},
		LLM: LLMConfig{
			Provider: "openai",
			Model:    "gpt-4o",
		},
		Folders: FoldersConfig{
			AllowedExtensions: []string{"pdf", "txt", "doc", "docx"},
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".glpi-mcp", "config.toml")
}

// Load reads the config file at path (DefaultPath when empty), applies
// environment overrides, and validates. A missing file is not an error —
// everything can come from the environment.
func Load(path string) (*Config, error) {
	cfg := defaults()

	if path == "" {
		path = DefaultPath()
	}

	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return nil, fmt.Errorf("%w: parsing %s: %v", ErrConfiguration, path, err)
		}
	}

	applyEnv(&cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// validate enforces the startup invariants: backend coordinates must be
// present, and exactly one authentication mode must be configured.
func (c *Config) validate() error {
	if c.GLPI.APIURL == "" {
		return fmt.Errorf("%w: glpi.api_url is required", ErrConfiguration)
	}

	if c.GLPI.AppToken == "" {
		return fmt.Errorf("%w: glpi.app_token is required", ErrConfiguration)
	}

	hasUserToken := c.GLPI.UserToken != ""
	hasOAuth := c.OAuth.ClientID != ""

	switch {
	case !hasUserToken && !hasOAuth:
		return fmt.Errorf("%w: either glpi.user_token or an oauth client must be configured", ErrConfiguration)
	case hasUserToken && hasOAuth:
		return fmt.Errorf("%w: glpi.user_token and oauth configuration are mutually exclusive", ErrConfiguration)
	}

	if hasOAuth {
		if c.OAuth.ClientSecret == "" || c.OAuth.AuthorizationURL == "" || c.OAuth.TokenURL == "" {
			return fmt.Errorf("%w: oauth mode requires client_id, client_secret, authorization_url, and token_url", ErrConfiguration)
		}
	}

	if _, err := time.ParseDuration(c.GLPI.RequestTimeout); err != nil {
		return fmt.Errorf("%w: glpi.request_timeout %q: %v", ErrConfiguration, c.GLPI.RequestTimeout, err)
	}

	switch c.LLM.Provider {
	case "openai", "ollama", "mock":
	default:
		return fmt.Errorf("%w: llm.provider %q (want openai, ollama, or mock)", ErrConfiguration, c.LLM.Provider)
	}

	if c.LLM.Provider == "openai" && c.LLM.APIKey == "" {
		return fmt.Errorf("%w: llm.api_key is required for the openai provider", ErrConfiguration)
	}

	return nil
}

// AuthMode reports the configured authentication mode. Valid only after a
// successful Load — validation guarantees exactly one mode is present.
func (c *Config) AuthMode() AuthMode {
	if c.GLPI.UserToken != "" {
		return AuthModeUserToken
	}

	return AuthModeOAuth
}

// Timeout returns the per-request timeout. Validation guarantees the value
// parses.
func (c *Config) Timeout() time.Duration {
	d, _ := time.ParseDuration(c.GLPI.RequestTimeout)
	return d
}

// OAuth2Config builds the x/oauth2 configuration for OAuth mode.
func (c *Config) OAuth2Config() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     c.OAuth.ClientID,
		ClientSecret: c.OAuth.ClientSecret,
		RedirectURL:  c.OAuth.RedirectURI,
		Endpoint: oauth2.Endpoint{
			AuthURL:  c.OAuth.AuthorizationURL,
			TokenURL: c.OAuth.TokenURL,
		},
	}
}
