package config

import "strings"

// Environment variables read by the server.
const (
	EnvJWTSecret = "KRISHIRAKSHAK_JWT_SECRET"
	EnvDBPath    = "KRISHIRAKSHAK_DB_PATH"
	EnvMode      = "KRISHIRAKSHAK_ENV"
	EnvHTTPAddr  = "KRISHIRAKSHAK_HTTP_ADDR"
)

// parseEnv overlays non-blank environment variables onto config.
func parseEnv(config *Config, lookupEnv func(string) (string, bool)) {
	if lookupEnv == nil {
		return
	}

	vars := []struct {
		name string
		dst  *string
	}{
		{EnvJWTSecret, &config.SecretKey},
		{EnvDBPath, &config.DatabaseDSN},
		{EnvMode, &config.Environment},
		{EnvHTTPAddr, &config.EndpointAddrHTTP},
	}

	for _, v := range vars {
		if val, ok := lookupEnv(v.name); ok && strings.TrimSpace(val) != "" {
			*v.dst = strings.TrimSpace(val)
		}
	}
}
