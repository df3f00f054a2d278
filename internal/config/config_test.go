package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "yahoo", cfg.DataSource.Provider)
	assert.Equal(t, 2.0, cfg.Analysis.Prominence)
	assert.Equal(t, 0.5, cfg.Analysis.ClusterFactor)
	assert.Equal(t, 0.5, cfg.Analysis.Tolerance)
	assert.Equal(t, 50, cfg.Analysis.ShortWindow)
	assert.Equal(t, 200, cfg.Analysis.LongWindow)
	assert.Equal(t, "1m", cfg.Analysis.BaseInterval)
	assert.Equal(t, []string{"5m", "15m", "1h"}, cfg.Analysis.ConfirmIntervals)
	assert.Equal(t, ":8000", cfg.Server.Addr)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "data/watch_state.json", cfg.Watch.StateFile)
	assert.False(t, cfg.Watch.OnlyChanges)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_FileAndEnv(t *testing.T) {
	t.Chdir(t.TempDir())

	path := filepath.Join(t.TempDir(), "config.yaml")
	yml := `
data_source:
  provider: csv
  csv_dir: /tmp/bars
analysis:
  prominence: 1.5
  confirm_intervals: [15m]
watch:
  symbols: [spy, " qqq "]
`
	require.NoError(t, os.WriteFile(path, []byte(yml), 0o644))

	t.Setenv("SERVER_ADDR", ":9090")
	t.Setenv("ANALYSIS_TOLERANCE", "0.25")
	t.Setenv("TELEGRAM_BOT_TOKEN", "token")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "csv", cfg.DataSource.Provider)
	assert.Equal(t, "/tmp/bars", cfg.DataSource.CSVDir)
	assert.Equal(t, 1.5, cfg.Analysis.Prominence)
	assert.Equal(t, 0.25, cfg.Analysis.Tolerance)
	assert.Equal(t, []string{"15m"}, cfg.Analysis.ConfirmIntervals)
	assert.Equal(t, []string{"SPY", "QQQ"}, cfg.Watch.Symbols)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, "token", cfg.Telegram.BotToken)

	assert.ErrorContains(t, cfg.ValidateWatch(), "chat_id")
	t.Setenv("TELEGRAM_CHAT_ID", "42")
	cfg, err = Load(path)
	require.NoError(t, err)
	assert.NoError(t, cfg.ValidateWatch())
}

func TestLoad_ZeroProminenceAndFactor(t *testing.T) {
	t.Chdir(t.TempDir())

	path := filepath.Join(t.TempDir(), "config.yaml")
	yml := `
analysis:
  prominence: 0
  cluster_factor: 0
`
	require.NoError(t, os.WriteFile(path, []byte(yml), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 0.0, cfg.Analysis.Prominence)
	assert.Equal(t, 0.0, cfg.Analysis.ClusterFactor)
	assert.Equal(t, 0.5, cfg.Analysis.Tolerance, "unrelated defaults still apply")
	assert.NoError(t, cfg.Validate())

	t.Setenv("ANALYSIS_PROMINENCE", "0.75")
	cfg, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, 0.75, cfg.Analysis.Prominence)
}

func TestLoad_EnvList(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("WATCH_SYMBOLS", "nvda, aapl,,")

	cfg, err := Load("does-not-exist.yaml")
	require.NoError(t, err)
	assert.Equal(t, []string{"NVDA", "AAPL"}, cfg.Watch.Symbols)
}

func TestLoad_BadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("analysis: [unclosed"), 0o644))

	_, err := Load(path)
	assert.ErrorContains(t, err, "parse config")
}

func TestValidate(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("none.yaml")
	require.NoError(t, err)

	cfg.DataSource.Provider = "polygon"
	assert.ErrorContains(t, cfg.Validate(), "api_key")
	cfg.DataSource.APIKey = "key"
	assert.NoError(t, cfg.Validate())

	cfg.DataSource.Provider = "bloomberg"
	assert.Error(t, cfg.Validate())

	cfg.DataSource.Provider = "mock"
	cfg.Analysis.ShortWindow = 300
	assert.ErrorContains(t, cfg.Validate(), "short_window")
}
