package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/krishirakshak/krishirakshak/internal/flagx"
	"github.com/krishirakshak/krishirakshak/internal/timex"
)

// JsonConfig is the on-disk shape of the configuration file. Absent fields
// leave the current value untouched.
type JsonConfig struct {
	EndpointAddrHTTP            *string         `json:"endpoint_addr_http"`
	DatabaseDriver              *string         `json:"database_driver"`
	DatabaseDSN                 *string         `json:"database_dsn"`
	SecretKey                   *string         `json:"secret_key"`
	Issuer                      *string         `json:"issuer"`
	AccessTokenValidityDuration *timex.Duration `json:"access_token_validity_duration"`
	PasswordIterations          *int            `json:"password_iterations"`
	Environment                 *string         `json:"environment"`
	ReportBucket                *string         `json:"report_bucket"`
	S3Region                    *string         `json:"s3_region"`
	S3BaseEndpoint              *string         `json:"s3_base_endpoint"`
	S3RootUser                  *string         `json:"s3_root_user"`
	S3RootPassword              *string         `json:"s3_root_password"`
	LogLevel                    *string         `json:"log_level"`
}

// parseJSON overlays values from the file named by -c/-config, if any.
func parseJSON(config *Config, args []string) error {
	path := flagx.ConfigFileFlag(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	setString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setString(&config.DatabaseDriver, c.DatabaseDriver)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	setString(&config.Issuer, c.Issuer)
	if c.AccessTokenValidityDuration != nil {
		config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	}
	if c.PasswordIterations != nil {
		config.PasswordIterations = *c.PasswordIterations
	}
	setString(&config.Environment, c.Environment)
	setString(&config.ReportBucket, c.ReportBucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	setString(&config.LogLevel, c.LogLevel)

	return nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
