// Package config loads runtime configuration for the Drift Desk CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via -c or -config.
//  3. Environment: DRIFTDESK_API_BASE_URL.
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   API base URL
//	-i int      unread count poll interval (seconds)
//	-t int      request timeout (seconds)
//	-d string   local data file
//	-l string   log level
//
// # JSON schema
//
// Intervals use timex.Duration, so values can be strings like "30s" or
// integer nanoseconds:
//
//	{
//	  "api_base_url": "https://desk.example.com",
//	  "poll_interval": "30s",
//	  "request_timeout": "15s",
//	  "data_file": "/var/lib/driftdesk/desk.db",
//	  "log_level": "info"
//	}
package config
