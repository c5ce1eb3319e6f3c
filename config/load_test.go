package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `env: test
session:
  url: ws://localhost:9000/session
quoting:
  marginBasis: 7
  maxOrderDepth: 5
  positionLimit: 100
  tickSize: 100
logging:
  level: debug
  format: console
metrics:
  addr: ":9102"
recorder:
  enabled: true
  path: journal.db
`

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, "test", cfg.Env)
	assert.Equal(t, "ws://localhost:9000/session", cfg.Session.URL)
	assert.Equal(t, int64(7), cfg.Quoting.MarginBasis)
	assert.Equal(t, 5, cfg.Quoting.MaxOrderDepth)
	assert.Equal(t, int64(100), cfg.Quoting.PositionLimit)
	assert.Equal(t, int64(100), cfg.Quoting.TickSize)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, ":9102", cfg.Metrics.Addr)
	assert.True(t, cfg.Recorder.Enabled)
	assert.Equal(t, "journal.db", cfg.Recorder.Path)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("MM_SESSION_URL", "ws://prod:9000/session")
	cfg, err := LoadWithEnvOverrides(writeConfig(t, sampleYAML))
	require.NoError(t, err)
	assert.Equal(t, "ws://prod:9000/session", cfg.Session.URL)
}

func TestValidate(t *testing.T) {
	base := func() AppConfig {
		cfg, err := Load(writeConfig(t, sampleYAML))
		require.NoError(t, err)
		return cfg
	}

	cases := []struct {
		name   string
		mutate func(*AppConfig)
	}{
		{"missing env", func(c *AppConfig) { c.Env = "" }},
		{"missing session url", func(c *AppConfig) { c.Session.URL = "" }},
		{"negative margin", func(c *AppConfig) { c.Quoting.MarginBasis = -1 }},
		{"margin at 100%", func(c *AppConfig) { c.Quoting.MarginBasis = 10000 }},
		{"zero depth", func(c *AppConfig) { c.Quoting.MaxOrderDepth = 0 }},
		{"zero position limit", func(c *AppConfig) { c.Quoting.PositionLimit = 0 }},
		{"zero tick", func(c *AppConfig) { c.Quoting.TickSize = 0 }},
		{"recorder without path", func(c *AppConfig) { c.Recorder.Path = "" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := base()
			tc.mutate(&cfg)
			assert.Error(t, Validate(cfg))
		})
	}
}
