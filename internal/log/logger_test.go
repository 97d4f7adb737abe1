package log

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func firstLine(data []byte) []byte {
	for i, b := range data {
		if b == '\n' {
			return data[:i]
		}
	}
	return data
}

func TestNew_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "animus.log")

	logger, err := New(Config{Level: "debug", File: path})
	require.NoError(t, err)

	logger.Info("collection started", zap.String("log", "System"))
	require.NoError(t, logger.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(firstLine(data), &entry))
	assert.Equal(t, "INFO", entry["level"])
	assert.Equal(t, "collection started", entry["msg"])
	assert.Equal(t, "System", entry["log"])
}

func TestNew_InvalidLevelFallsBackToInfo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "animus.log")

	logger, err := New(Config{Level: "chatty", File: path})
	require.NoError(t, err)

	logger.Debug("should be filtered")
	logger.Info("should appear")
	logger.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "should be filtered")
	assert.Contains(t, string(data), "should appear")
}

func TestNew_StderrWhenNoFile(t *testing.T) {
	logger, err := New(Config{Level: "info"})
	require.NoError(t, err)
	assert.NotNil(t, logger)
}
