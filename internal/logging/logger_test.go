package logging

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewWriterRenamesErrorKey(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWriter(&buf, slog.LevelInfo)

	logger.Info("failed", "error", errors.New("boom"))

	assert.Contains(t, buf.String(), "err=boom")
	assert.NotContains(t, buf.String(), "error=")
}

func TestNewWriterFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWriter(&buf, slog.LevelWarn)

	logger.Info("quiet")
	logger.Warn("loud")

	assert.NotContains(t, buf.String(), "quiet")
	assert.Contains(t, buf.String(), "loud")
}

func TestParseLevel(t *testing.T) {
	cases := map[string]struct {
		level slog.Level
		ok    bool
	}{
		"debug":   {slog.LevelDebug, true},
		" INFO ":  {slog.LevelInfo, true},
		"":        {slog.LevelInfo, true},
		"warning": {slog.LevelWarn, true},
		"error":   {slog.LevelError, true},
		"chatty":  {slog.LevelInfo, false},
	}

	for raw, want := range cases {
		level, ok := ParseLevel(raw)
		assert.Equal(t, want.level, level, raw)
		assert.Equal(t, want.ok, ok, raw)
	}
}
