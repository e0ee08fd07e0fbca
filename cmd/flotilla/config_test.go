package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, 10*time.Second, cfg.Docker.ConnectTimeout)
	assert.Empty(t, cfg.Docker.SSHIdentity)
	assert.Equal(t, 30*time.Second, cfg.Start.ReadyTimeout)
	assert.Equal(t, 2*time.Second, cfg.Start.ProbeTimeout)
	assert.Equal(t, 10*time.Second, cfg.Stop.Timeout)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("FLOTILLA_LOG_LEVEL", "debug")
	t.Setenv("FLOTILLA_STOP_TIMEOUT", "45s")

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 45*time.Second, cfg.Stop.Timeout)
}

func TestSetupLogger_Levels(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "warning", "error", "bogus"} {
		cfg := &Config{Log: LogConfig{Level: level, Format: "text"}}
		assert.NotNil(t, SetupLogger(cfg), level)
	}
}

func TestSetupLogger_JSONFormat(t *testing.T) {
	cfg := &Config{Log: LogConfig{Level: "info", Format: "json"}}
	assert.NotNil(t, SetupLogger(cfg))
}
