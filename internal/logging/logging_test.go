package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&buf, "warn", "text")
	require.NoError(t, err)

	logger.Info("hidden")
	logger.Warn("shown", "application_id", "app-1")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "application_id=app-1")
}

func TestNewJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&buf, "DEBUG", "json")
	require.NoError(t, err)
	logger.Debug("step", "status", "completed")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "step", record["msg"])
	assert.Equal(t, "completed", record["status"])
}

func TestNewRejectsUnknownValues(t *testing.T) {
	_, err := New(&bytes.Buffer{}, "trace", "text")
	require.Error(t, err)
	_, err = New(&bytes.Buffer{}, "info", "xml")
	require.Error(t, err)
}

func TestConfigureSetsDefault(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	logger, err := Configure("", "")
	require.NoError(t, err)
	assert.Same(t, logger, slog.Default())
}

func TestDiscard(t *testing.T) {
	assert.False(t, Discard().Enabled(context.Background(), slog.LevelError))
}
