package logview

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-shaderbox/engine/router"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type syncBuffer struct {
	mu sync.Mutex
	b  bytes.Buffer
}

func (s *syncBuffer) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.Write(p)
}

func (s *syncBuffer) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.String()
}

func TestFormat(t *testing.T) {
	var buf bytes.Buffer
	out := termenv.NewOutput(&buf, termenv.WithProfile(termenv.Ascii))
	ts := time.Date(2024, 1, 1, 12, 30, 45, 123_000_000, time.UTC)

	text := Format(out, []router.LogEntry{
		{Timestamp: ts, Level: router.LevelInfo, Message: "Shader compiled successfully"},
		{Timestamp: ts, Level: router.LevelError, Message: "line 3: unknown identifier"},
	})

	lines := strings.Split(strings.TrimSuffix(text, "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "12:30:45.123 INFO  Shader compiled successfully", lines[0])
	assert.Equal(t, "12:30:45.123 ERROR line 3: unknown identifier", lines[1])
}

func TestViewRedrawsOnPush(t *testing.T) {
	book := router.NewLogBook(20)
	var buf syncBuffer
	v := NewView(book, &buf, WithProfile(termenv.Ascii))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- v.Run(ctx) }()

	// the subscription is taken inside Run; push until it is observed
	require.Eventually(t, func() bool {
		book.Push(router.LevelInfo, "FPS: 60")
		return strings.Contains(buf.String(), "FPS: 60")
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	assert.NoError(t, <-done)
}

func TestRenderSkipsStaleSnapshots(t *testing.T) {
	var buf syncBuffer
	v := NewView(router.NewLogBook(20), &buf, WithProfile(termenv.Ascii)).(*view)

	v.render(2, []router.LogEntry{{Message: "new"}})
	v.render(1, []router.LogEntry{{Message: "old"}})

	assert.Contains(t, buf.String(), "new")
	assert.NotContains(t, buf.String(), "old")
}
