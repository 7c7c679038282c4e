package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vivekjain488/Butterfly/chaos"
)

func TestResolveConfigDefaults(t *testing.T) {
	cfg, err := resolveConfig(&CLIConfig{})
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, chaos.DefaultBurnIn, cfg.BurnIn)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
}

func TestResolveConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "addr: \":9090\"\nburn_in: 128\nlog_format: json\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := resolveConfig(&CLIConfig{configFile: path})
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, 128, cfg.BurnIn)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestResolveConfigPrecedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("addr: \":9090\"\nlog_level: debug\n"), 0o600))

	t.Setenv("BUTTERFLY_ADDR", ":7070")
	t.Setenv("BUTTERFLY_LOG_LEVEL", "warn")

	// Flags beat env, env beats file.
	cfg, err := resolveConfig(&CLIConfig{configFile: path, addr: ":6060"})
	require.NoError(t, err)

	assert.Equal(t, ":6060", cfg.Addr)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestResolveConfigBadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("addr: [broken"), 0o600))

	_, err := resolveConfig(&CLIConfig{configFile: path})
	assert.Error(t, err)
}

func TestResolveConfigMissingFile(t *testing.T) {
	_, err := resolveConfig(&CLIConfig{configFile: "/nonexistent/config.yaml"})
	assert.Error(t, err)
}

func TestResolveConfigNegativeBurnIn(t *testing.T) {
	_, err := resolveConfig(&CLIConfig{burnIn: -1})
	assert.Error(t, err)
}

func TestSetupLogging(t *testing.T) {
	require.NoError(t, setupLogging(&FileConfig{LogLevel: "debug", LogFormat: "json"}))
	require.NoError(t, setupLogging(&FileConfig{LogLevel: "info", LogFormat: "text"}))

	assert.Error(t, setupLogging(&FileConfig{LogLevel: "loud", LogFormat: "text"}))
	assert.Error(t, setupLogging(&FileConfig{LogLevel: "info", LogFormat: "xml"}))
}
