package config

import (
	"time"

	"github.com/dmitrijs2005/campushire/internal/configx"
	"github.com/dmitrijs2005/campushire/internal/flagx"
	"github.com/dmitrijs2005/campushire/internal/timex"
)

// FileConfig is the on-disk shape of the server configuration. Keys left
// out of the file keep their current value.
type FileConfig struct {
	EndpointAddrGRPC             *string         `json:"endpoint_addr_grpc" yaml:"endpoint_addr_grpc"`
	EndpointAddrAdmin            *string         `json:"endpoint_addr_admin" yaml:"endpoint_addr_admin"`
	AdminToken                   *string         `json:"admin_token" yaml:"admin_token"`
	DatabaseDSN                  *string         `json:"database_dsn" yaml:"database_dsn"`
	SecretKey                    *string         `json:"secret_key" yaml:"secret_key"`
	AccessTokenValidityDuration  *timex.Duration `json:"access_token_validity_duration" yaml:"access_token_validity_duration"`
	RefreshTokenValidityDuration *timex.Duration `json:"refresh_token_validity_duration" yaml:"refresh_token_validity_duration"`
	ResetTokenValidityDuration   *timex.Duration `json:"reset_token_validity_duration" yaml:"reset_token_validity_duration"`
	S3RootUser                   *string         `json:"s3_root_user" yaml:"s3_root_user"`
	S3RootPassword               *string         `json:"s3_root_password" yaml:"s3_root_password"`
	S3Bucket                     *string         `json:"s3_bucket" yaml:"s3_bucket"`
	S3Region                     *string         `json:"s3_region" yaml:"s3_region"`
	S3BaseEndpoint               *string         `json:"s3_base_endpoint" yaml:"s3_base_endpoint"`
	SMTPAddr                     *string         `json:"smtp_addr" yaml:"smtp_addr"`
	MailFrom                     *string         `json:"mail_from" yaml:"mail_from"`
	LogLevel                     *string         `json:"log_level" yaml:"log_level"`
}

func parseFile(config *Config, args []string) error {
	path := flagx.ConfigPath(args)
	if path == "" {
		return nil
	}

	var c FileConfig
	if err := configx.ReadFile(path, &c); err != nil {
		return err
	}

	setString(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	setString(&config.EndpointAddrAdmin, c.EndpointAddrAdmin)
	setString(&config.AdminToken, c.AdminToken)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	setDuration(&config.AccessTokenValidityDuration, c.AccessTokenValidityDuration)
	setDuration(&config.RefreshTokenValidityDuration, c.RefreshTokenValidityDuration)
	setDuration(&config.ResetTokenValidityDuration, c.ResetTokenValidityDuration)
	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	setString(&config.SMTPAddr, c.SMTPAddr)
	setString(&config.MailFrom, c.MailFrom)
	setString(&config.LogLevel, c.LogLevel)
	return nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setDuration(dst *time.Duration, v *timex.Duration) {
	if v != nil {
		*dst = v.Duration
	}
}
