// Package config loads runtime configuration for the kitchen CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Environment variables, after loading a .env file if present.
//  3. Optional JSON file selected via -c / -config or GMK_CLIENT_CONFIG.
//  4. Command-line flags, which override earlier values.
//
// Supported flags
//
//	-a string    address:port of the notebook server
//	-i int       online status check interval (seconds)
//	-k string    local store kind: sqlite, bolt or memory
//	-f string    local store file
//	-l string    log level
//	-b int       consecutive outages before sync pauses
//	-w duration  how long sync stays paused
//	-t duration  per-call timeout
//
// # JSON schema
//
// Durations are strings like "3s" or integer nanoseconds:
//
//	{
//	  "server_endpoint_addr": "127.0.0.1:50051",
//	  "online_check_interval": "3s",
//	  "store_kind": "bolt",
//	  "store_path": "/home/gran/.gmkitchen.bolt",
//	  "breaker_reset_timeout": "1m"
//	}
package config
