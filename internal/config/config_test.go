package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{
		"TIMETRACE_CONFIG_PATH", "TIMETRACE_TRANSPORT", "TIMETRACE_DB_PATH",
		"TIMETRACE_LOG_LEVEL", "TIMETRACE_CACHE_TTL",
	} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "stdio", cfg.Server.Transport)
	require.Equal(t, "timetrace.db", cfg.DB.Path)
	require.Equal(t, 300*time.Millisecond, cfg.Search.DebounceDelay.Std())
	require.Equal(t, 128, cfg.Search.CacheCapacity)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("TIMETRACE_TRANSPORT", "http")
	t.Setenv("TIMETRACE_SERVER_PORT", "9090")
	t.Setenv("TIMETRACE_DB_PATH", ":memory:")
	t.Setenv("TIMETRACE_CACHE_TTL", "90s")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "http", cfg.Server.Transport)
	require.Equal(t, 9090, cfg.Server.Port)
	require.Equal(t, ":memory:", cfg.DB.Path)
	require.Equal(t, 90*time.Second, cfg.Search.CacheTTL.Std())
}

func TestLoad_YAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  transport: http
  port: 7070
log:
  level: debug
search:
  debounce_delay: 150ms
  max_history: 50
`), 0o644))
	t.Setenv("TIMETRACE_CONFIG_PATH", path)

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "http", cfg.Server.Transport)
	require.Equal(t, 7070, cfg.Server.Port)
	require.Equal(t, "debug", cfg.Log.Level)
	require.Equal(t, 150*time.Millisecond, cfg.Search.DebounceDelay.Std())
	require.Equal(t, 50, cfg.Search.MaxHistory)
}

func TestLoad_RejectsBadValues(t *testing.T) {
	t.Setenv("TIMETRACE_SERVER_PORT", "not-a-port")
	_, err := Load()
	require.Error(t, err)
}

func TestLoad_RejectsUnknownTransport(t *testing.T) {
	t.Setenv("TIMETRACE_TRANSPORT", "carrier-pigeon")
	_, err := Load()
	require.Error(t, err)
}
