package logging

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevelFlag(t *testing.T) {
	var f LevelFlag
	require.NoError(t, f.Set("debug"))
	assert.Equal(t, slog.LevelDebug, f.Value)
	assert.Equal(t, "DEBUG", f.String())

	require.NoError(t, f.Set("WARN"))
	assert.Equal(t, slog.LevelWarn, f.Value)

	assert.Error(t, f.Set("loud"))
	assert.Equal(t, slog.LevelWarn, f.Value)
	assert.Equal(t, "level", f.Type())
}

func TestNew_FiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	log, _, err := New(&buf, Options{Level: slog.LevelWarn})
	require.NoError(t, err)

	log.Info("hidden")
	log.Warn("shown", "k", "v")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "level=WARN msg=shown k=v")
	assert.NotContains(t, buf.String(), "source=")
}

func TestNew_DebugAddsSource(t *testing.T) {
	var buf bytes.Buffer
	log, _, err := New(&buf, Options{Level: slog.LevelDebug})
	require.NoError(t, err)

	log.Debug("trace")
	assert.Contains(t, buf.String(), "source=")
	assert.Contains(t, buf.String(), "logging_test.go")
}

func TestNew_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "paimon.log")
	log, closeLog, err := New(nil, Options{Level: slog.LevelInfo, File: path})
	require.NoError(t, err)

	log.Info("to file")
	require.NoError(t, closeLog())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "msg=\"to file\"")
}

func TestNew_CloseWithoutFile(t *testing.T) {
	_, closeLog, err := New(&bytes.Buffer{}, Options{})
	require.NoError(t, err)
	assert.NoError(t, closeLog())
}
