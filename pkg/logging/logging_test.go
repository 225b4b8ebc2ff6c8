package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/adrg/xdg"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/rebackup/pkg/errors"
)

func useStateHome(t *testing.T) string {
	t.Helper()
	tempDir := t.TempDir()
	// Registered first so it runs after the environment is restored
	t.Cleanup(xdg.Reload)
	t.Setenv("XDG_STATE_HOME", tempDir)
	xdg.Reload()
	return tempDir
}

func TestSetupLogger(t *testing.T) {
	tests := []struct {
		name      string
		verbosity int
		wantLevel zerolog.Level
	}{
		{"default warn level", 0, zerolog.WarnLevel},
		{"info level", 1, zerolog.InfoLevel},
		{"debug level", 2, zerolog.DebugLevel},
		{"trace level", 3, zerolog.TraceLevel},
		{"high verbosity defaults to trace", 5, zerolog.TraceLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stateDir := useStateHome(t)
			var console bytes.Buffer

			setupLogger(&console, tt.verbosity)
			defer zerolog.SetGlobalLevel(zerolog.TraceLevel)

			assert.Equal(t, tt.wantLevel, zerolog.GlobalLevel())

			logPath := filepath.Join(stateDir, "rebackup", "rebackup.log")
			_, err := os.Stat(logPath)
			assert.NoError(t, err, "log file should be created at %s", logPath)
		})
	}
}

func TestSetupLoggerWritesToConsoleAndFile(t *testing.T) {
	stateDir := useStateHome(t)
	var console bytes.Buffer

	setupLogger(&console, 0)
	defer zerolog.SetGlobalLevel(zerolog.TraceLevel)

	log.Warn().Msg("symlink cycle detected")
	log.Info().Msg("hidden at warn level")

	assert.Contains(t, console.String(), "symlink cycle detected")
	assert.NotContains(t, console.String(), "hidden at warn level")

	content, err := os.ReadFile(filepath.Join(stateDir, "rebackup", "rebackup.log"))
	require.NoError(t, err)
	assert.Contains(t, string(content), "symlink cycle detected")
}

func TestGetLogFilePath(t *testing.T) {
	stateDir := useStateHome(t)

	got := getLogFilePath()
	assert.Equal(t, filepath.Join(stateDir, "rebackup", "rebackup.log"), got)
}

func TestGetLogger(t *testing.T) {
	var buf bytes.Buffer
	original := log.Logger
	log.Logger = zerolog.New(&buf)
	defer func() { log.Logger = original }()

	logger := GetLogger("walker")
	logger.Warn().Msg("test message")

	assert.Contains(t, buf.String(), `"component":"walker"`)
	assert.Contains(t, buf.String(), "test message")
}

func TestLogError(t *testing.T) {
	t.Run("rebackup_error_fields", func(t *testing.T) {
		var buf bytes.Buffer
		logger := zerolog.New(&buf)

		err := errors.New(errors.ErrRuleFailed, "rule failed").
			WithDetail(errors.DetailRuleName, "exclude-pattern")
		LogError(logger, err, "walk failed")

		out := buf.String()
		assert.Contains(t, out, `"code":"RULE_FAILED_TO_RUN"`)
		assert.Contains(t, out, `"rule_name":"exclude-pattern"`)
		assert.Contains(t, out, "walk failed")
	})

	t.Run("plain_error_has_no_code", func(t *testing.T) {
		var buf bytes.Buffer
		logger := zerolog.New(&buf)

		LogError(logger, os.ErrPermission, "walk failed")

		assert.NotContains(t, buf.String(), `"code"`)
		assert.Contains(t, buf.String(), "permission denied")
	})
}

func TestLogOperationStart(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.DebugLevel)

	done := LogOperationStart(logger, "walk")
	assert.Contains(t, buf.String(), "Operation started")

	done()
	assert.Contains(t, buf.String(), "Operation completed")
	assert.Contains(t, buf.String(), `"operation":"walk"`)
}
