// Package config loads runtime configuration for the CampusHire CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional config file selected via -c or -config. Files ending in .yaml
//     or .yml are read as YAML, everything else as JSON.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   address:port of the backend gRPC endpoint
//	-i int      online status check interval (seconds)
//	-db string  path of the local SQLite database
//	-j int      concurrent lookups when resolving saved jobs
//	-l string   log level
//
// # File schema
//
// Intervals use timex.Duration, so values can be either strings like "3s" or
// integer nanoseconds:
//
//	{
//	  "server_endpoint_addr": "127.0.0.1:50051",
//	  "online_check_interval": "3s",
//	  "database_path": "data/campushire.db",
//	  "join_limit": 20,
//	  "log_level": "warn"
//	}
package config
