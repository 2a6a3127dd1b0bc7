// Package config loads runtime configuration for the storefront CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional config file selected with -c or -config. Files ending in
//     .yaml or .yml are read as YAML, anything else as JSON.
//  3. Command-line flags, which override earlier values.
//
// Supported flags
//
//	-a string   API root URL
//	-d string   local database file
//	-i int      online status check interval (seconds)
//	-s int      background sync interval (seconds)
//	-l string   log level
//
// # File schema
//
// Intervals use timex.Duration, so they may be strings like "30s" or integer
// nanoseconds:
//
//	{
//	  "server_url": "http://127.0.0.1:3000/api/v1",
//	  "database_path": "storefront.db",
//	  "sync_interval": "5m",
//	  "min_sync_interval": "30s",
//	  "request_timeout": "10s",
//	  "register_login_delay": "2s",
//	  "online_check_interval": "3s",
//	  "token_passphrase": "",
//	  "log_level": "info",
//	  "log_format": "text",
//	  "start_path": "/"
//	}
//
// The package does not read environment variables.
package config
