package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dmitrijs2005/storefront/internal/flagx"
	"github.com/dmitrijs2005/storefront/internal/timex"
	"gopkg.in/yaml.v3"
)

// FileConfig is the on-disk shape of the configuration, used only for
// decoding. Intervals are timex.Duration, so "30s" and integer nanoseconds
// are both accepted. Absent fields keep their previous value.
type FileConfig struct {
	ServerURL           string         `json:"server_url" yaml:"server_url"`
	DatabasePath        string         `json:"database_path" yaml:"database_path"`
	SyncInterval        timex.Duration `json:"sync_interval" yaml:"sync_interval"`
	MinSyncInterval     timex.Duration `json:"min_sync_interval" yaml:"min_sync_interval"`
	RequestTimeout      timex.Duration `json:"request_timeout" yaml:"request_timeout"`
	RegisterLoginDelay  timex.Duration `json:"register_login_delay" yaml:"register_login_delay"`
	OnlineCheckInterval timex.Duration `json:"online_check_interval" yaml:"online_check_interval"`
	TokenPassphrase     string         `json:"token_passphrase" yaml:"token_passphrase"`
	LogLevel            string         `json:"log_level" yaml:"log_level"`
	LogFormat           string         `json:"log_format" yaml:"log_format"`
	StartPath           string         `json:"start_path" yaml:"start_path"`
}

// parseFile overlays cfg with the config file named in args. Files ending in
// .yaml or .yml are YAML, anything else JSON.
func parseFile(cfg *Config, args []string) error {
	path := flagx.ConfigPath(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	var fc FileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &fc)
	default:
		err = json.Unmarshal(data, &fc)
	}
	if err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	fc.apply(cfg)
	return nil
}

func (fc *FileConfig) apply(cfg *Config) {
	setString(&cfg.ServerURL, fc.ServerURL)
	setString(&cfg.DatabasePath, fc.DatabasePath)
	setString(&cfg.TokenPassphrase, fc.TokenPassphrase)
	setString(&cfg.LogLevel, fc.LogLevel)
	setString(&cfg.LogFormat, fc.LogFormat)
	setString(&cfg.StartPath, fc.StartPath)

	setDuration(&cfg.SyncInterval, fc.SyncInterval)
	setDuration(&cfg.MinSyncInterval, fc.MinSyncInterval)
	setDuration(&cfg.RequestTimeout, fc.RequestTimeout)
	setDuration(&cfg.RegisterLoginDelay, fc.RegisterLoginDelay)
	setDuration(&cfg.OnlineCheckInterval, fc.OnlineCheckInterval)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, v timex.Duration) {
	if v.Duration != 0 {
		*dst = v.Duration
	}
}
