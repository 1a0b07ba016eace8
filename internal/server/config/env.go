package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

// envConfig mirrors Config with env tags. Only variables that are actually
// set override the current values.
type envConfig struct {
	EndpointAddr                string         `env:"ADDRESS"`
	DatabaseDSN                 string         `env:"DATABASE_DSN"`
	SecretKey                   string         `env:"SECRET_KEY"`
	AccessTokenValidityDuration *time.Duration `env:"ACCESS_TOKEN_VALIDITY"`
	S3RootUser                  string         `env:"S3_ROOT_USER"`
	S3RootPassword              string         `env:"S3_ROOT_PASSWORD"`
	S3Bucket                    string         `env:"S3_BUCKET"`
	S3Region                    string         `env:"S3_REGION"`
	S3BaseEndpoint              string         `env:"S3_BASE_ENDPOINT"`
}

// parseEnv overlays environment variables onto config.
func parseEnv(config *Config) {
	e := &envConfig{}
	if err := env.Parse(e); err != nil {
		panic(err)
	}

	if e.EndpointAddr != "" {
		config.EndpointAddr = e.EndpointAddr
	}
	if e.DatabaseDSN != "" {
		config.DatabaseDSN = e.DatabaseDSN
	}
	if e.SecretKey != "" {
		config.SecretKey = e.SecretKey
	}
	if e.AccessTokenValidityDuration != nil {
		config.AccessTokenValidityDuration = *e.AccessTokenValidityDuration
	}
	if e.S3RootUser != "" {
		config.S3RootUser = e.S3RootUser
	}
	if e.S3RootPassword != "" {
		config.S3RootPassword = e.S3RootPassword
	}
	if e.S3Bucket != "" {
		config.S3Bucket = e.S3Bucket
	}
	if e.S3Region != "" {
		config.S3Region = e.S3Region
	}
	if e.S3BaseEndpoint != "" {
		config.S3BaseEndpoint = e.S3BaseEndpoint
	}
}
