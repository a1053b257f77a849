package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

const (
	defaultAPIHost     = "http://127.0.0.1"
	defaultPort        = 3000
	defaultLogLevel    = "info"
	defaultLogFormat   = "console"
	defaultHTTPTimeout = 30 * time.Second
)

// Config holds goosectl settings. Values come from, in increasing priority:
// the goose CLI config.yaml, ~/.config/goosectl/config.json, the environment.
type Config struct {
	APIHost   string `json:"api_host,omitempty" env:"GOOSE_API_HOST"`
	Port      int    `json:"port,omitempty" env:"GOOSE_PORT"`
	SecretKey string `json:"secret_key,omitempty" env:"GOOSE_SECRET_KEY"`

	Provider string `json:"provider,omitempty" env:"GOOSE_PROVIDER"`
	Model    string `json:"model,omitempty" env:"GOOSE_MODEL"`

	// DeepLink is handed over by whoever launched us; it is never persisted.
	DeepLink string `json:"-" env:"GOOSE_DEEP_LINK"`

	LogLevel       string `json:"log_level,omitempty" env:"GOOSECTL_LOG_LEVEL"`
	LogFormat      string `json:"log_format,omitempty" env:"GOOSECTL_LOG_FORMAT"`
	HTTPTimeoutSec int    `json:"http_timeout_sec,omitempty" env:"GOOSECTL_HTTP_TIMEOUT"`
}

var (
	configDir      string
	configPath     string
	settingsPath   string
	extensionsPath string
	gooseYAMLPath  string
)

func init() {
	homeDir := os.Getenv("HOME")
	if runtime.GOOS == "windows" {
		homeDir = os.Getenv("USERPROFILE")
	}
	setConfigDir(filepath.Join(homeDir, ".config", "goosectl"))
	gooseYAMLPath = filepath.Join(homeDir, ".config", "goose", "config.yaml")
}

func setConfigDir(dir string) {
	configDir = dir
	configPath = filepath.Join(configDir, "config.json")
	settingsPath = filepath.Join(configDir, "settings.env")
	extensionsPath = filepath.Join(configDir, "extensions.json")
}

// ensureConfigDir creates the config directory if it doesn't exist
func ensureConfigDir() error {
	return os.MkdirAll(configDir, 0700)
}

// LoadConfig merges every configuration source into one Config.
func LoadConfig() (*Config, error) {
	cfg := &Config{}

	if err := loadGooseYAML(gooseYAMLPath, cfg); err != nil {
		return nil, err
	}

	fileCfg, err := LoadFileConfig()
	if err != nil {
		return nil, err
	}
	cfg.merge(fileCfg)

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("invalid environment configuration: %w", err)
	}

	return cfg, nil
}

// LoadFileConfig reads only config.json. A missing file yields an empty Config.
func LoadFileConfig() (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("invalid config file: %w", err)
	}

	return &cfg, nil
}

// SaveConfig saves the configuration to file
func SaveConfig(cfg *Config) error {
	if err := ensureConfigDir(); err != nil {
		return err
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0600)
}

// merge copies every non-zero field of other onto c.
func (c *Config) merge(other *Config) {
	if other.APIHost != "" {
		c.APIHost = other.APIHost
	}
	if other.Port != 0 {
		c.Port = other.Port
	}
	if other.SecretKey != "" {
		c.SecretKey = other.SecretKey
	}
	if other.Provider != "" {
		c.Provider = other.Provider
	}
	if other.Model != "" {
		c.Model = other.Model
	}
	if other.LogLevel != "" {
		c.LogLevel = other.LogLevel
	}
	if other.LogFormat != "" {
		c.LogFormat = other.LogFormat
	}
	if other.HTTPTimeoutSec != 0 {
		c.HTTPTimeoutSec = other.HTTPTimeoutSec
	}
}

// loadGooseYAML picks GOOSE_PROVIDER and GOOSE_MODEL out of the goose CLI's
// own config file, if there is one.
func loadGooseYAML(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	var values map[string]any
	if err := yaml.Unmarshal(data, &values); err != nil {
		return fmt.Errorf("invalid goose config %s: %w", path, err)
	}

	if v, ok := values["GOOSE_PROVIDER"].(string); ok {
		cfg.Provider = v
	}
	if v, ok := values["GOOSE_MODEL"].(string); ok {
		cfg.Model = v
	}
	return nil
}

// GetBaseURL returns the backend address, e.g. http://127.0.0.1:3000.
func (c *Config) GetBaseURL() string {
	host := strings.TrimRight(c.APIHost, "/")
	if host == "" {
		host = defaultAPIHost
	}
	if c.Port != 0 {
		return fmt.Sprintf("%s:%d", host, c.Port)
	}
	if u, err := url.Parse(host); err == nil && u.Port() != "" {
		return host
	}
	return fmt.Sprintf("%s:%d", host, defaultPort)
}

// GetLogLevel returns the log level (defaults to "info")
func (c *Config) GetLogLevel() string {
	if c.LogLevel == "" {
		return defaultLogLevel
	}
	return c.LogLevel
}

// GetLogFormat returns "console" or "json" (defaults to "console")
func (c *Config) GetLogFormat() string {
	if c.LogFormat == "" {
		return defaultLogFormat
	}
	return c.LogFormat
}

// GetHTTPTimeout returns the per-request timeout for backend calls.
func (c *Config) GetHTTPTimeout() time.Duration {
	if c.HTTPTimeoutSec <= 0 {
		return defaultHTTPTimeout
	}
	return time.Duration(c.HTTPTimeoutSec) * time.Second
}

// GetConfigPath returns the config file path
func GetConfigPath() string {
	return configPath
}

// GetSettingsPath returns the local key-value store holding the last used
// provider and model.
func GetSettingsPath() string {
	return settingsPath
}

// GetExtensionsPath returns the extension settings file path
func GetExtensionsPath() string {
	return extensionsPath
}
