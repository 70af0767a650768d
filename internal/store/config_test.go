package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spx-gex/internal/types"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("GFLOW_URL", "")
	t.Setenv("GEX_DATA_DIR", "")
	t.Setenv("GEX_ENGINE", "")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, DefaultSourceURL, cfg.SourceURL)
	assert.Equal(t, "SPX", cfg.Symbol)
	assert.Equal(t, filepath.Join("data", "spx_gex.csv"), cfg.LogPath())
	assert.Equal(t, EngineChromedp, cfg.Engine)
	assert.True(t, cfg.Browser.Headless)
	assert.Equal(t, 120*time.Second, cfg.Browser.LoadTimeout)
	assert.Equal(t, 8*time.Second, cfg.Extract.WaitTimeout)
	assert.Equal(t, time.Second, cfg.Extract.GracePause)
	assert.Equal(t, 10*time.Second, cfg.Extract.HarvestTimeout)
	require.Len(t, cfg.Navigation, 3)
	assert.Equal(t, "dismiss_overlay", cfg.Navigation[0].Name)
	assert.Equal(t, "select_instrument", cfg.Navigation[1].Name)
	assert.Equal(t, "select_view", cfg.Navigation[2].Name)
}

func TestLoadConfigFromYAML(t *testing.T) {
	t.Setenv("GFLOW_URL", "")
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yml := `
symbol: NDX
engine: static
extract:
  wait_timeout: 2s
navigation:
  - name: open_menu
    timeout: 500ms
    candidates:
      - strategy: role
        role: tab
        value: Gamma
`
	require.NoError(t, os.WriteFile(path, []byte(yml), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "NDX", cfg.Symbol)
	assert.Equal(t, EngineStatic, cfg.Engine)
	assert.Equal(t, 2*time.Second, cfg.Extract.WaitTimeout)
	// unset keys keep their defaults
	assert.Equal(t, time.Second, cfg.Extract.GracePause)
	require.Len(t, cfg.Navigation, 1)
	assert.Equal(t, 500*time.Millisecond, cfg.Navigation[0].Timeout)
	assert.Equal(t, types.Locator{Strategy: types.StrategyRole, Role: "tab", Value: "Gamma"}, cfg.Navigation[0].Candidates[0])
}

func TestLoadConfigEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("source_url: https://file.example\n"), 0o644))

	t.Setenv("GFLOW_URL", "https://env.example")
	t.Setenv("GEX_DATA_DIR", "/tmp/gex")
	t.Setenv("GEX_SQLITE_PATH", "/tmp/gex/gex.db")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "https://env.example", cfg.SourceURL)
	assert.Equal(t, "/tmp/gex", cfg.DataDir)
	assert.Equal(t, "/tmp/gex/gex.db", cfg.Store.SQLitePath)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"empty url", func(c *Config) { c.SourceURL = "" }},
		{"bad engine", func(c *Config) { c.Engine = "firefox" }},
		{"zero harvest timeout", func(c *Config) { c.Extract.HarvestTimeout = 0 }},
		{"bad pattern", func(c *Config) { c.Extract.WaitPattern = "Total(" }},
		{"zero step timeout", func(c *Config) { c.Navigation[0].Timeout = 0 }},
		{"unknown strategy", func(c *Config) { c.Navigation[1].Candidates[0].Strategy = "label" }},
		{"role without role", func(c *Config) { c.Navigation[2].Candidates[1].Role = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}

	assert.NoError(t, Default().Validate())
}
