package config

import (
	"fmt"
	"os"
	"time"
)

// Config holds runtime settings for the CampusHire CLI.
//
// Fields:
//   - ServerEndpointAddr: host:port of the backend gRPC endpoint.
//   - OnlineCheckInterval: how often the client checks server reachability.
//   - DatabasePath: local SQLite file holding the persisted session.
//   - JoinLimit: concurrent lookups when resolving saved jobs.
//   - LogLevel: debug, info, warn or error; logs go to stderr.
type Config struct {
	ServerEndpointAddr  string
	OnlineCheckInterval time.Duration
	DatabasePath        string
	JoinLimit           int
	LogLevel            string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "127.0.0.1:50051"
	c.OnlineCheckInterval = 3 * time.Second
	c.DatabasePath = "data/campushire.db"
	c.JoinLimit = 20
	c.LogLevel = "warn"
}

// Load builds a Config from defaults, the optional config file and the
// flags in args. Later sources take precedence over earlier ones.
func Load(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseFile(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}
	return cfg, nil
}

// LoadConfig is Load over os.Args and panics on error.
func LoadConfig() *Config {
	cfg, err := Load(os.Args[1:])
	if err != nil {
		panic(err)
	}
	return cfg
}
