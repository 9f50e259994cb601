package logger

import (
	"path/filepath"
	"testing"

	"github.com/aleister1102/satwatch/internal/config"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	level, err := ParseLevel("debug")
	require.NoError(t, err)
	assert.Equal(t, zerolog.DebugLevel, level)

	level, err = ParseLevel("WARN")
	require.NoError(t, err)
	assert.Equal(t, zerolog.WarnLevel, level)

	_, err = ParseLevel("chatty")
	assert.Error(t, err)
}

func TestParseFormat(t *testing.T) {
	assert.Equal(t, FormatJSON, ParseFormat("json"))
	assert.Equal(t, FormatConsole, ParseFormat("console"))
	assert.Equal(t, FormatText, ParseFormat("text"))
	assert.Equal(t, FormatConsole, ParseFormat("unknown"))
}

func TestNew_FileLogging(t *testing.T) {
	dir := t.TempDir()
	cfg := config.NewDefaultLogConfig()
	cfg.LogFile = filepath.Join(dir, "sat_monitor.log")
	cfg.LogLevel = "debug"

	log, err := New(cfg)
	require.NoError(t, err)

	log.Info().Str("component", "test").Msg("hello")
	// lumberjack creates the file lazily on first write
	assert.FileExists(t, cfg.LogFile)
}

func TestNew_InvalidMaxSizeRejected(t *testing.T) {
	lb := NewLoggerBuilder()
	lb.config.MaxSizeMB = 0
	_, err := lb.Build()
	assert.Error(t, err)
}
