package engine

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-shaderbox/common"
	"github.com/Carmen-Shannon/oxy-shaderbox/engine/protocol"
	"github.com/Carmen-Shannon/oxy-shaderbox/engine/renderer"
	"github.com/Carmen-Shannon/oxy-shaderbox/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-shaderbox/engine/router"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type noAdapterBackend struct{}

func (noAdapterBackend) Init(protocol.Surface) error { return renderer.ErrNoAdapter }
func (noAdapterBackend) Configure(int, int) error    { return renderer.ErrNotInitialized }
func (noAdapterBackend) Compile(string) (renderer.Pipeline, error) {
	return nil, renderer.ErrNotInitialized
}
func (noAdapterBackend) Draw(renderer.Pipeline, common.UniformData) error {
	return renderer.ErrNotInitialized
}
func (noAdapterBackend) Size() common.Resolution { return common.Resolution{} }
func (noAdapterBackend) Release()                {}

func hasEntry(book *router.LogBook, level router.Level, contains string) bool {
	for _, e := range book.Entries() {
		if e.Level == level && strings.Contains(e.Message, contains) {
			return true
		}
	}
	return false
}

func TestHeadlessPlaygroundCompilesAndRecompilesOnEdit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shader.wgsl")
	e := NewEngine(
		WithShaderPath(path),
		WithDebounce(20*time.Millisecond),
		WithSize(64, 32),
		WithLogFeed(io.Discard, 0, false),
	)

	done := make(chan error, 1)
	go func() { done <- e.Run(context.Background()) }()

	require.Eventually(t, func() bool {
		return hasEntry(e.LogBook(), router.LevelInfo, "Shader compiled successfully")
	}, 5*time.Second, 10*time.Millisecond)

	written, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, shader.DefaultFragmentSource, string(written))

	require.NoError(t, os.WriteFile(path, []byte("@fragment fn fs( {"), 0o644))
	require.Eventually(t, func() bool {
		return hasEntry(e.LogBook(), router.LevelError, "")
	}, 5*time.Second, 10*time.Millisecond)

	e.Quit()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("engine did not stop")
	}
}

func TestRunReturnsAgentFatalError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shader.wgsl")
	e := NewEngine(
		WithShaderPath(path),
		WithBackend(noAdapterBackend{}),
		WithLogFeed(io.Discard, 0, false),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := e.Run(ctx)
	require.ErrorIs(t, err, renderer.ErrNoAdapter)
}

func TestRunStopsOnContextCancel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shader.wgsl")
	require.NoError(t, os.WriteFile(path, []byte(shader.DefaultFragmentSource), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	e := NewEngine(WithShaderPath(path), WithLogFeed(io.Discard, 5, false))
	assert.Equal(t, 5, e.LogBook().Capacity())

	done := make(chan error, 1)
	go func() { done <- e.Run(ctx) }()
	require.Eventually(t, func() bool { return e.LogBook().Len() > 0 }, 5*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("engine did not stop")
	}
}
