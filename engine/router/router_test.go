package router

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-shaderbox/common"
	"github.com/Carmen-Shannon/oxy-shaderbox/engine/protocol"
	"github.com/Carmen-Shannon/oxy-shaderbox/engine/signal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTarget struct {
	mu       sync.Mutex
	requests []protocol.Request
	posted   chan protocol.Request
	replies  *signal.Stream[protocol.Reply]
}

func newFakeTarget() *fakeTarget {
	return &fakeTarget{
		posted:  make(chan protocol.Request, 64),
		replies: signal.NewStream[protocol.Reply](),
	}
}

func (f *fakeTarget) Post(req protocol.Request) bool {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()
	f.posted <- req
	return true
}

func (f *fakeTarget) Replies() *signal.Stream[protocol.Reply] { return f.replies }

func next(t *testing.T, f *fakeTarget) protocol.Request {
	t.Helper()
	select {
	case r := <-f.posted:
		return r
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for request")
		return nil
	}
}

func startRouter(t *testing.T, ticks chan time.Time, clk *signal.ManualClock) (signal.Bus, *fakeTarget, Router, <-chan error, context.CancelFunc) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	bus := signal.NewBus(ctx, common.Resolution{Width: 800, Height: 600}, ticks,
		signal.WithClock(clk), signal.WithStart(clk.Now()))
	target := newFakeTarget()
	r := NewRouter(bus, target)
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		bus.Close()
	})
	return bus, target, r, done, cancel
}

func TestRouterForwardsInitialViewportAsResize(t *testing.T) {
	_, target, _, _, _ := startRouter(t, make(chan time.Time), signal.NewManualClock(time.Unix(0, 0)))
	assert.Equal(t, protocol.Resize{Width: 800, Height: 600}, next(t, target))
}

func TestRouterClockTickCarriesLatestMouseAndResolution(t *testing.T) {
	clk := signal.NewManualClock(time.Unix(0, 0))
	ticks := make(chan time.Time)
	bus, target, _, _, _ := startRouter(t, ticks, clk)
	require.Equal(t, protocol.Resize{Width: 800, Height: 600}, next(t, target))

	bus.Resized(1024, 768)
	require.Equal(t, protocol.Resize{Width: 1024, Height: 768}, next(t, target))

	bus.PointerMoved(12, 34)
	// the pointer only updates the mirror; tick until a uniform observes it
	var u protocol.Uniform
	for i := 0; i < 100; i++ {
		ticks <- clk.Now().Add(2 * time.Second)
		u = next(t, target).(protocol.Uniform)
		if u.Mouse == (common.Vec2{X: 12, Y: 34}) {
			break
		}
		time.Sleep(time.Millisecond)
	}
	assert.Equal(t, common.Vec2{X: 12, Y: 34}, u.Mouse)

	ticks <- clk.Now().Add(2 * time.Second)
	u = next(t, target).(protocol.Uniform)
	assert.InDelta(t, 2.0, u.Time, 1e-6)
	assert.Equal(t, common.Resolution{Width: 1024, Height: 768}, u.Resolution)
}

func TestRouterDebouncedEditBecomesShader(t *testing.T) {
	clk := signal.NewManualClock(time.Unix(0, 0))
	bus, target, _, _, _ := startRouter(t, make(chan time.Time), clk)
	require.Equal(t, protocol.Resize{Width: 800, Height: 600}, next(t, target))

	bus.Edited("fn fs")
	bus.Edited("fn fs()")
	clk.Advance(signal.DefaultDebounce)

	assert.Equal(t, protocol.Shader{Code: "fn fs()"}, next(t, target))
	select {
	case r := <-target.posted:
		t.Fatalf("unexpected extra request %v", r)
	case <-time.After(20 * time.Millisecond):
	}
}

func TestRouterRepliesBecomeLogEntries(t *testing.T) {
	_, target, r, _, _ := startRouter(t, make(chan time.Time), signal.NewManualClock(time.Unix(0, 0)))

	target.replies.Emit(protocol.CompileSuccess{})
	target.replies.Emit(protocol.CompileError{Error: "line 1: unexpected token"})
	target.replies.Emit(protocol.Fps{Value: 59})

	require.Eventually(t, func() bool { return r.LogBook().Len() == 3 }, time.Second, time.Millisecond)
	entries := r.LogBook().Entries()
	assert.Equal(t, LevelInfo, entries[0].Level)
	assert.Equal(t, "Shader compiled successfully", entries[0].Message)
	assert.Equal(t, LevelError, entries[1].Level)
	assert.Equal(t, "line 1: unexpected token", entries[1].Message)
	assert.Equal(t, "FPS: 59", entries[2].Message)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	res, err := r.Results().Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, CompilationResult{Success: true}, res)
	res, err = r.Results().Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, CompilationResult{Error: "line 1: unexpected token"}, res)
}

func TestRouterFatalStops(t *testing.T) {
	_, target, r, done, _ := startRouter(t, make(chan time.Time), signal.NewManualClock(time.Unix(0, 0)))

	target.replies.Emit(protocol.Fatal{Error: "no compatible GPU adapter"})

	select {
	case err := <-done:
		assert.ErrorIs(t, err, ErrAgentFatal)
		assert.Contains(t, err.Error(), "no compatible GPU adapter")
	case <-time.After(time.Second):
		t.Fatal("router did not stop")
	}

	entries := r.LogBook().Entries()
	require.NotEmpty(t, entries)
	last := entries[len(entries)-1]
	assert.Equal(t, LevelError, last.Level)
}

func TestRouterRunEndsCleanlyOnCancel(t *testing.T) {
	_, _, _, done, cancel := startRouter(t, make(chan time.Time), signal.NewManualClock(time.Unix(0, 0)))
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("router did not stop")
	}
}
