// Package config provides CLI configuration management for the recall
// command-line tool. It supports loading configuration from YAML files,
// environment variables, and command-line flags.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/recallhq/recall-cli/pkg/db"
)

// OutputFormat defines the supported output formats for CLI results.
type OutputFormat string

const (
	// OutputFormatText is human-readable plain text output.
	OutputFormatText OutputFormat = "text"
	// OutputFormatJSON is JSON-formatted output for machine processing.
	OutputFormatJSON OutputFormat = "json"
	// OutputFormatYAML is YAML-formatted output for machine processing.
	OutputFormatYAML OutputFormat = "yaml"
)

// Default configuration values.
const (
	DefaultServerAddress = "https://api.recallhq.io"
	DefaultTimeout       = 30 * time.Second
	DefaultOutputFormat  = OutputFormatText
	DefaultListLimit     = 100
	DefaultConfigDir     = ".recall"
	DefaultConfigFile    = "config.yaml"
)

// DatabaseConfig holds local cache database settings from the config file.
// Empty fields fall back to RECALL_DB_* environment variables and defaults.
type DatabaseConfig struct {
	Host     string `yaml:"host,omitempty"`
	Port     int    `yaml:"port,omitempty"`
	Name     string `yaml:"name,omitempty"`
	User     string `yaml:"user,omitempty"`
	Password string `yaml:"password,omitempty"`
	SSLMode  string `yaml:"sslmode,omitempty"`
}

// RedisConfig holds optional response-cache settings. The cache is disabled
// when Addr is empty.
type RedisConfig struct {
	Addr     string        `yaml:"addr,omitempty"`
	CacheTTL time.Duration `yaml:"cache_ttl,omitempty"`
}

// CLIConfig holds the CLI configuration settings.
type CLIConfig struct {
	// ServerAddress is the base URL of the recording service API.
	ServerAddress string `yaml:"server_address"`

	// Timeout is the default timeout for API requests.
	Timeout time.Duration `yaml:"timeout"`

	// OutputFormat specifies the default output format for commands.
	OutputFormat OutputFormat `yaml:"output_format"`

	// ListLimit is the number of meetings requested per category collection.
	ListLimit int `yaml:"list_limit,omitempty"`

	// Debug enables verbose debug logging.
	Debug bool `yaml:"debug,omitempty"`

	// Database holds local cache database settings.
	Database DatabaseConfig `yaml:"database,omitempty"`

	// Redis holds optional response-cache settings.
	Redis *RedisConfig `yaml:"redis,omitempty"`
}

// DefaultConfig returns a CLIConfig with default values.
func DefaultConfig() *CLIConfig {
	return &CLIConfig{
		ServerAddress: DefaultServerAddress,
		Timeout:       DefaultTimeout,
		OutputFormat:  DefaultOutputFormat,
		ListLimit:     DefaultListLimit,
	}
}

// ConfigDir returns the configuration directory path.
// Uses $RECALL_CONFIG_DIR if set, otherwise ~/.recall
func ConfigDir() (string, error) {
	if dir := os.Getenv("RECALL_CONFIG_DIR"); dir != "" {
		return dir, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}

	return filepath.Join(home, DefaultConfigDir), nil
}

// ConfigPath returns the full path to the configuration file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, DefaultConfigFile), nil
}

// LoadConfig loads the CLI configuration from file and environment variables.
// Configuration is loaded in this order (later sources override earlier):
// 1. Default values
// 2. Config file (~/.recall/config.yaml or $RECALL_CONFIG_DIR/config.yaml)
// 3. Environment variables (RECALL_SERVER_ADDRESS, RECALL_TIMEOUT, ...)
func LoadConfig() (*CLIConfig, error) {
	cfg := DefaultConfig()

	configPath, err := ConfigPath()
	if err != nil {
		return nil, fmt.Errorf("getting config path: %w", err)
	}

	if _, err := os.Stat(configPath); err == nil {
		if err := loadFromFile(cfg, configPath); err != nil {
			return nil, fmt.Errorf("loading config file: %w", err)
		}
	}

	loadFromEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// loadFromFile loads configuration from a YAML file.
func loadFromFile(cfg *CLIConfig, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}

	// Temp structs are needed to unmarshal durations given as strings.
	type redisFile struct {
		Addr     string `yaml:"addr"`
		CacheTTL string `yaml:"cache_ttl"`
	}
	type configFile struct {
		ServerAddress string         `yaml:"server_address"`
		Timeout       string         `yaml:"timeout"`
		OutputFormat  OutputFormat   `yaml:"output_format"`
		ListLimit     int            `yaml:"list_limit"`
		Debug         bool           `yaml:"debug"`
		Database      DatabaseConfig `yaml:"database"`
		Redis         *redisFile     `yaml:"redis"`
	}

	var fileCfg configFile
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}

	if fileCfg.ServerAddress != "" {
		cfg.ServerAddress = fileCfg.ServerAddress
	}
	if fileCfg.Timeout != "" {
		timeout, err := time.ParseDuration(fileCfg.Timeout)
		if err != nil {
			return fmt.Errorf("parsing timeout: %w", err)
		}
		cfg.Timeout = timeout
	}
	if fileCfg.OutputFormat != "" {
		cfg.OutputFormat = fileCfg.OutputFormat
	}
	if fileCfg.ListLimit > 0 {
		cfg.ListLimit = fileCfg.ListLimit
	}
	if fileCfg.Redis != nil {
		cfg.Redis = &RedisConfig{Addr: fileCfg.Redis.Addr}
		if fileCfg.Redis.CacheTTL != "" {
			ttl, err := time.ParseDuration(fileCfg.Redis.CacheTTL)
			if err != nil {
				return fmt.Errorf("parsing redis cache_ttl: %w", err)
			}
			cfg.Redis.CacheTTL = ttl
		}
	}
	cfg.Debug = fileCfg.Debug
	cfg.Database = fileCfg.Database

	return nil
}

// loadFromEnv overlays environment variables onto the configuration.
func loadFromEnv(cfg *CLIConfig) {
	if v := os.Getenv("RECALL_SERVER_ADDRESS"); v != "" {
		cfg.ServerAddress = v
	}

	if v := os.Getenv("RECALL_TIMEOUT"); v != "" {
		if timeout, err := time.ParseDuration(v); err == nil {
			cfg.Timeout = timeout
		}
	}

	if v := os.Getenv("RECALL_OUTPUT_FORMAT"); v != "" {
		cfg.OutputFormat = OutputFormat(v)
	}

	if v := os.Getenv("RECALL_DEBUG"); v == "true" || v == "1" {
		cfg.Debug = true
	}

	if v := os.Getenv("RECALL_REDIS_ADDR"); v != "" {
		if cfg.Redis == nil {
			cfg.Redis = &RedisConfig{}
		}
		cfg.Redis.Addr = v
	}
}

// Validate checks that the configuration is valid.
func (c *CLIConfig) Validate() error {
	if c.ServerAddress == "" {
		return fmt.Errorf("server_address is required")
	}

	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}

	if c.ListLimit <= 0 {
		return fmt.Errorf("list_limit must be positive")
	}

	if !c.OutputFormat.IsValid() {
		return fmt.Errorf("invalid output_format: %q (must be text, json, or yaml)", c.OutputFormat)
	}

	return nil
}

// IsValid checks if the output format is valid.
func (f OutputFormat) IsValid() bool {
	switch f {
	case OutputFormatText, OutputFormatJSON, OutputFormatYAML:
		return true
	default:
		return false
	}
}

// String returns the string representation of the output format.
func (f OutputFormat) String() string {
	return string(f)
}

// DBConfig resolves the local cache database configuration: defaults, then
// config-file fields, then RECALL_DB_* environment variables.
func (c *CLIConfig) DBConfig() *db.Config {
	cfg := db.DefaultConfig()

	if c.Database.Host != "" {
		cfg.Host = c.Database.Host
	}
	if c.Database.Port > 0 {
		cfg.Port = c.Database.Port
	}
	if c.Database.Name != "" {
		cfg.Database = c.Database.Name
	}
	if c.Database.User != "" {
		cfg.User = c.Database.User
	}
	if c.Database.Password != "" {
		cfg.Password = c.Database.Password
	}
	if c.Database.SSLMode != "" {
		cfg.SSLMode = c.Database.SSLMode
	}

	db.ApplyEnv(cfg)
	return cfg
}

// SaveConfig saves the configuration to the config file.
func SaveConfig(cfg *CLIConfig) error {
	configDir, err := ConfigDir()
	if err != nil {
		return fmt.Errorf("getting config directory: %w", err)
	}

	if err := os.MkdirAll(configDir, 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	configPath := filepath.Join(configDir, DefaultConfigFile)

	// Durations are written as strings for readability.
	type redisFile struct {
		Addr     string `yaml:"addr"`
		CacheTTL string `yaml:"cache_ttl,omitempty"`
	}
	type configFile struct {
		ServerAddress string         `yaml:"server_address"`
		Timeout       string         `yaml:"timeout"`
		OutputFormat  OutputFormat   `yaml:"output_format"`
		ListLimit     int            `yaml:"list_limit,omitempty"`
		Debug         bool           `yaml:"debug,omitempty"`
		Database      DatabaseConfig `yaml:"database,omitempty"`
		Redis         *redisFile     `yaml:"redis,omitempty"`
	}

	fileCfg := configFile{
		ServerAddress: cfg.ServerAddress,
		Timeout:       cfg.Timeout.String(),
		OutputFormat:  cfg.OutputFormat,
		ListLimit:     cfg.ListLimit,
		Debug:         cfg.Debug,
		Database:      cfg.Database,
	}
	if cfg.Redis != nil {
		fileCfg.Redis = &redisFile{Addr: cfg.Redis.Addr}
		if cfg.Redis.CacheTTL > 0 {
			fileCfg.Redis.CacheTTL = cfg.Redis.CacheTTL.String()
		}
	}

	data, err := yaml.Marshal(&fileCfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
