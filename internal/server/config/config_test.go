package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.LoadDefaults()

	assert.Equal(t, ":50051", cfg.EndpointAddrGRPC)
	assert.Equal(t, 15*time.Minute, cfg.AccessTokenValidityDuration)
	assert.Equal(t, 7*24*time.Hour, cfg.RefreshTokenValidityDuration)
	assert.NotEmpty(t, cfg.DatabaseDSN)
	assert.NotEmpty(t, cfg.SecretKey)
}

func TestParseEnv_Overlay(t *testing.T) {
	t.Setenv("ADDRESS", ":6000")
	t.Setenv("DATABASE_DSN", "postgres://u:p@db:5432/auth")
	t.Setenv("JWT_SECRET", "env-secret")
	t.Setenv("ACCESS_MINUTES", "30")
	t.Setenv("REFRESH_DAYS", "14")

	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)

	assert.Equal(t, ":6000", cfg.EndpointAddrGRPC)
	assert.Equal(t, "postgres://u:p@db:5432/auth", cfg.DatabaseDSN)
	assert.Equal(t, "env-secret", cfg.SecretKey)
	assert.Equal(t, 30*time.Minute, cfg.AccessTokenValidityDuration)
	assert.Equal(t, 14*24*time.Hour, cfg.RefreshTokenValidityDuration)
}

func TestParseEnv_UnsetKeepsDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.LoadDefaults()
	want := *cfg

	parseEnv(cfg)

	assert.Equal(t, want, *cfg)
}

func TestLoadConfig_FlagsOverrideEnv(t *testing.T) {
	t.Setenv("ADDRESS", ":6000")

	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()
	os.Args = []string{"server", "-a", ":7000", "-t", "5"}

	cfg := LoadConfig()

	assert.Equal(t, ":7000", cfg.EndpointAddrGRPC)
	assert.Equal(t, 5*time.Minute, cfg.AccessTokenValidityDuration)
}
