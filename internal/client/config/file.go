package config

import (
	"github.com/dmitrijs2005/campushire/internal/configx"
	"github.com/dmitrijs2005/campushire/internal/flagx"
	"github.com/dmitrijs2005/campushire/internal/timex"
)

// FileConfig is the on-disk shape of the CLI configuration. Keys left out of
// the file keep their current value.
type FileConfig struct {
	ServerEndpointAddr  *string         `json:"server_endpoint_addr" yaml:"server_endpoint_addr"`
	OnlineCheckInterval *timex.Duration `json:"online_check_interval" yaml:"online_check_interval"`
	DatabasePath        *string         `json:"database_path" yaml:"database_path"`
	JoinLimit           *int            `json:"join_limit" yaml:"join_limit"`
	LogLevel            *string         `json:"log_level" yaml:"log_level"`
}

func parseFile(cfg *Config, args []string) error {
	path := flagx.ConfigPath(args)
	if path == "" {
		return nil
	}

	var c FileConfig
	if err := configx.ReadFile(path, &c); err != nil {
		return err
	}

	if c.ServerEndpointAddr != nil {
		cfg.ServerEndpointAddr = *c.ServerEndpointAddr
	}
	if c.OnlineCheckInterval != nil {
		cfg.OnlineCheckInterval = c.OnlineCheckInterval.Duration
	}
	if c.DatabasePath != nil {
		cfg.DatabasePath = *c.DatabasePath
	}
	if c.JoinLimit != nil {
		cfg.JoinLimit = *c.JoinLimit
	}
	if c.LogLevel != nil {
		cfg.LogLevel = *c.LogLevel
	}
	return nil
}
