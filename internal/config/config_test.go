package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "does-not-exist.yaml")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_OverridesMergeOverDefaults(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "config.yaml")

	content := []byte(`
tool_paths:
  httpx: /opt/bin/httpx
stage_concurrency:
  discovery: 10
confidence_threshold: 0.8
`)
	require.NoError(t, os.WriteFile(path, content, 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/opt/bin/httpx", cfg.ToolPath("httpx"))
	assert.Equal(t, "subfinder", cfg.ToolPath("subfinder"), "unset tools keep their default name")
	assert.Equal(t, 10, cfg.StageConcurrency.Discovery)
	assert.InDelta(t, 0.8, cfg.ConfidenceThreshold, 0.0001)
}

func TestLoad_MalformedYAMLErrors(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("tool_paths: [this is not a map"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestToolPath_FallsBackToName(t *testing.T) {
	cfg := Config{}
	assert.Equal(t, "ffuf", cfg.ToolPath("ffuf"))
}

func TestBatchSize_DefaultsWhenUnset(t *testing.T) {
	cfg := Default()
	assert.Equal(t, DefaultBatchSize, cfg.BatchSize("httpx"))

	cfg.BatchSizes["httpx"] = 200
	assert.Equal(t, 200, cfg.BatchSize("httpx"))

	cfg.BatchSizes["naabu"] = 0
	assert.Equal(t, DefaultBatchSize, cfg.BatchSize("naabu"), "a configured zero is treated as unset")
}

func TestClampTimeout(t *testing.T) {
	assert.Equal(t, DefaultScanTimeout, ClampTimeout(0))
	assert.Equal(t, MinScanTimeout, ClampTimeout(-5*time.Second))
	assert.Equal(t, MaxScanTimeout, ClampTimeout(10*time.Hour))
	assert.Equal(t, 90*time.Second, ClampTimeout(90*time.Second))
}

func TestWatcher_ReloadsOnWrite(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("confidence_threshold: 0.5\n"), 0o644))

	w, err := NewWatcher(path)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, w.Current().ConfidenceThreshold, 0.0001)

	require.NoError(t, os.WriteFile(path, []byte("confidence_threshold: 0.9\n"), 0o644))

	require.Eventually(t, func() bool {
		return w.Current().ConfidenceThreshold > 0.8
	}, 2*time.Second, 10*time.Millisecond, "watcher should pick up the rewritten file")
}
