package logger

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultLoggerIsSilent(t *testing.T) {
	l := Logger()
	assert.NotNil(t, l)
	for _, level := range []slog.Level{slog.LevelDebug, slog.LevelInfo, slog.LevelWarn, slog.LevelError} {
		assert.False(t, l.Enabled(context.Background(), level), "level %v", level)
	}
}

func TestSetLogger(t *testing.T) {
	orig := Logger()
	t.Cleanup(func() { SetLogger(orig) })

	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, nil)))
	With("agent").Info("surface configured", "width", 800)

	out := buf.String()
	assert.True(t, strings.Contains(out, "component=agent"), out)
	assert.True(t, strings.Contains(out, "width=800"), out)

	SetLogger(nil)
	assert.False(t, Logger().Enabled(context.Background(), slog.LevelError))
}
