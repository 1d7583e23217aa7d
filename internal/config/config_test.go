package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultValidates(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestValidateRejectsNoTransports(t *testing.T) {
	cfg := Default()
	cfg.Transports = TransportConfig{}
	require.Error(t, cfg.Validate())
}

func TestValidateRejectsBadHTTPPort(t *testing.T) {
	cfg := Default()
	cfg.Transports.HTTP = true
	cfg.Transports.HTTPPort = 0
	require.Error(t, cfg.Validate())
}

func TestLoadMergesYAMLOverDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
default_provider: fitbit
transports:
  stdio: true
  http: true
  http_port: 9090
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "fitbit", cfg.DefaultProvider)
	require.True(t, cfg.Transports.HTTP)
	require.Equal(t, 9090, cfg.Transports.HTTPPort)
	require.Equal(t, 10_000, cfg.Cache.MaxEntries, "unset fields retain Default()'s values")
}

func TestLoadAppliesEnvOverride(t *testing.T) {
	t.Setenv("FITNESSMCP_DEFAULT_PROVIDER", "fitbit")
	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "fitbit", cfg.DefaultProvider)
}

func TestLoadMissingFileErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
