package config

import (
	"fmt"
	"os"
	"time"
)

// Config holds runtime settings for the storefront CLI.
type Config struct {
	// ServerURL is the API root, e.g. http://127.0.0.1:3000/api/v1.
	ServerURL string
	// DatabasePath is the local SQLite file holding the session.
	DatabasePath string

	SyncInterval        time.Duration
	MinSyncInterval     time.Duration
	RequestTimeout      time.Duration
	RegisterLoginDelay  time.Duration
	OnlineCheckInterval time.Duration

	// TokenPassphrase, when set, encrypts the stored token.
	TokenPassphrase string

	LogLevel  string
	LogFormat string

	// StartPath is the page the CLI opens on.
	StartPath string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:3000/api/v1"
	c.DatabasePath = "storefront.db"
	c.SyncInterval = 5 * time.Minute
	c.MinSyncInterval = 30 * time.Second
	c.RequestTimeout = 10 * time.Second
	c.RegisterLoginDelay = 2 * time.Second
	c.OnlineCheckInterval = 3 * time.Second
	c.TokenPassphrase = ""
	c.LogLevel = "info"
	c.LogFormat = "text"
	c.StartPath = "/"
}

// Load builds a Config from defaults, then the config file named by -c or
// -config in args (if any), then the flags in args. Later sources win.
func Load(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseFile(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadConfig is Load over os.Args. It panics on invalid configuration.
func LoadConfig() *Config {
	cfg, err := Load(os.Args[1:])
	if err != nil {
		panic(err)
	}
	return cfg
}

// Validate rejects settings the client cannot run with.
func (c *Config) Validate() error {
	if c.ServerURL == "" {
		return fmt.Errorf("config: server url is empty")
	}
	if c.DatabasePath == "" {
		return fmt.Errorf("config: database path is empty")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("config: request timeout must be positive, got %s", c.RequestTimeout)
	}
	if c.SyncInterval < 0 || c.MinSyncInterval < 0 || c.OnlineCheckInterval < 0 || c.RegisterLoginDelay < 0 {
		return fmt.Errorf("config: intervals must not be negative")
	}
	return nil
}
