package config

import (
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// envConfig is an intermediate DTO for cleanenv. Token lifetimes are
// expressed the way operators configure them: access in minutes, refresh in
// days.
type envConfig struct {
	EndpointAddrGRPC string `env:"ADDRESS"`
	DatabaseDSN      string `env:"DATABASE_DSN"`
	SecretKey        string `env:"JWT_SECRET"`
	AccessMinutes    int    `env:"ACCESS_MINUTES"`
	RefreshDays      int    `env:"REFRESH_DAYS"`
}

// parseEnv overlays environment variables onto the provided Config. Unset
// variables leave the corresponding field untouched.
func parseEnv(config *Config) {
	e := &envConfig{}
	if err := cleanenv.ReadEnv(e); err != nil {
		panic(err)
	}

	if e.EndpointAddrGRPC != "" {
		config.EndpointAddrGRPC = e.EndpointAddrGRPC
	}
	if e.DatabaseDSN != "" {
		config.DatabaseDSN = e.DatabaseDSN
	}
	if e.SecretKey != "" {
		config.SecretKey = e.SecretKey
	}
	if e.AccessMinutes > 0 {
		config.AccessTokenValidityDuration = time.Duration(e.AccessMinutes) * time.Minute
	}
	if e.RefreshDays > 0 {
		config.RefreshTokenValidityDuration = time.Duration(e.RefreshDays) * 24 * time.Hour
	}
}
