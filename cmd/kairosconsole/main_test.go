package main

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"kairosconsole/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetLogging(t *testing.T) {
	t.Helper()
	previousDefault := slog.Default()
	previousDelay := logFileCloseDelay
	t.Cleanup(func() {
		slog.SetDefault(previousDefault)
		logFileCloseDelay = previousDelay
		if logFile != nil {
			logFile.Close()
			logFile = nil
		}
	})
}

func TestSetupLogging_ReloadKeepsSameFileOpen(t *testing.T) {
	resetLogging(t)
	path := filepath.Join(t.TempDir(), "console.log")
	logConfig := config.LoggingConfig{Level: "info", Format: "json", File: path}

	setupLogging(io.Discard, logConfig, false)
	first := logFile
	require.NotNil(t, first)
	before := slog.Default()

	setupLogging(io.Discard, logConfig, false)
	assert.Same(t, first, logFile)

	// a logger captured before the reload still reaches the file
	before.Info("before reload")
	slog.Info("after reload")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "before reload")
	assert.Contains(t, string(data), "after reload")
}

func TestSetupLogging_ChangedFileClosesOldOneLater(t *testing.T) {
	resetLogging(t)
	logFileCloseDelay = 50 * time.Millisecond
	dir := t.TempDir()
	oldPath := filepath.Join(dir, "old.log")
	newPath := filepath.Join(dir, "new.log")

	setupLogging(io.Discard, config.LoggingConfig{Level: "info", File: oldPath}, false)
	old := logFile
	before := slog.Default()

	setupLogging(io.Discard, config.LoggingConfig{Level: "info", File: newPath}, false)
	require.NotNil(t, logFile)
	assert.NotSame(t, old, logFile)

	before.Info("in flight")
	data, err := os.ReadFile(oldPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "in flight")

	assert.Eventually(t, func() bool {
		_, err := old.Write([]byte("x"))
		return err != nil
	}, time.Second, 10*time.Millisecond)
}

func TestSetupLogging_DroppingFileStopsWritingToIt(t *testing.T) {
	resetLogging(t)
	logFileCloseDelay = time.Millisecond
	path := filepath.Join(t.TempDir(), "console.log")

	setupLogging(io.Discard, config.LoggingConfig{Level: "info", File: path}, false)
	require.NotNil(t, logFile)

	setupLogging(io.Discard, config.LoggingConfig{Level: "info"}, false)
	assert.Nil(t, logFile)

	slog.Info("console only")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "console only")
}
