package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"librahub/internal/domain"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := NewLoader(zap.NewNop()).Load(context.Background(), Options{})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(os.Getenv("XDG_CONFIG_HOME"), "librahub", "hub.db"), cfg.StorePath)
	assert.Equal(t, domain.DefaultWidgetIntervalSeconds, cfg.Widget.IntervalSeconds)
	assert.Equal(t, 15*time.Minute, cfg.Widget.Interval())
	assert.Equal(t, filepath.Join(filepath.Dir(cfg.StorePath), "widgets.json"), cfg.Widget.OutputPath)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Empty(t, cfg.Inbox.Dir)
	assert.Empty(t, cfg.Observability.ListenAddress)
}

func TestLoadFileEnvAndOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hub.yaml")
	content := `storePath: ` + filepath.Join(dir, "data", "hub.db") + `
widget:
  intervalSeconds: 60
  outputPath: ""
inbox:
  dir: ` + filepath.Join(dir, "inbox") + `
log:
  level: DEBUG
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Setenv("LIBRAHUB_OBSERVABILITY_LISTENADDRESS", "127.0.0.1:9191")

	cfg, err := NewLoader(nil).Load(context.Background(), Options{
		Path:      path,
		Overrides: map[string]any{KeyWidgetIntervalSeconds: 30},
	})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "data", "hub.db"), cfg.StorePath)
	assert.Equal(t, 30, cfg.Widget.IntervalSeconds)
	assert.Empty(t, cfg.Widget.OutputPath)
	assert.Equal(t, filepath.Join(dir, "inbox"), cfg.Inbox.Dir)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "127.0.0.1:9191", cfg.Observability.ListenAddress)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	_, err := NewLoader(nil).Load(context.Background(), Options{Overrides: map[string]any{
		KeyWidgetIntervalSeconds: 0,
		KeyLogLevel:              "loud",
	}})
	require.Error(t, err)
	code, ok := domain.CodeFrom(err)
	require.True(t, ok)
	assert.Equal(t, domain.CodeInvalidArgument, code)
	assert.Contains(t, err.Error(), "widget.intervalSeconds")
	assert.Contains(t, err.Error(), "loud")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := NewLoader(nil).Load(context.Background(), Options{Path: filepath.Join(t.TempDir(), "missing.yaml")})
	require.Error(t, err)
}
