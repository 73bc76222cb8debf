// Package engine wires the playground together: the window and editor feed the signal bus, the
// router turns bus traffic into requests for the rendering agent and the agent's replies into the
// log feed, which the log view draws to the terminal.
package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-shaderbox/common"
	"github.com/Carmen-Shannon/oxy-shaderbox/engine/agent"
	"github.com/Carmen-Shannon/oxy-shaderbox/engine/editor"
	"github.com/Carmen-Shannon/oxy-shaderbox/engine/logger"
	"github.com/Carmen-Shannon/oxy-shaderbox/engine/logview"
	"github.com/Carmen-Shannon/oxy-shaderbox/engine/profiler"
	"github.com/Carmen-Shannon/oxy-shaderbox/engine/protocol"
	"github.com/Carmen-Shannon/oxy-shaderbox/engine/renderer"
	"github.com/Carmen-Shannon/oxy-shaderbox/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-shaderbox/engine/router"
	"github.com/Carmen-Shannon/oxy-shaderbox/engine/signal"
	"golang.org/x/sync/errgroup"
)

// engine implements the Engine interface.
type engine struct {
	quitChannel chan struct{}
	quitOnce    sync.Once // Ensures quitChannel is only closed once

	window  display
	backend renderer.Backend

	title      string
	size       common.Resolution
	shaderPath string
	debounce   time.Duration

	refreshRate      int
	profilingEnabled bool

	logBook     *router.LogBook
	logCapacity int
	logOutput   io.Writer
	clearScreen bool
}

// display is the part of window.Window the engine drives.
type display interface {
	protocol.Surface
	SetResizeCallback(callback func(width, height int))
	SetPointerMoveCallback(callback func(x, y float32))
	SetUpdateCallback(callback func())
	SetTitle(title string)
	RequestClose()
	ProcessMessages()
	Close() error
}

// Engine is the main entry point of the playground.
type Engine interface {
	// Run starts the playground and blocks until the window closes, ctx is done, Quit is called or
	// the rendering agent fails. With a window, Run must be called from the main goroutine.
	//
	// Parameters:
	//   - ctx: stops the playground
	//
	// Returns:
	//   - error: nil on orderly shutdown, otherwise the agent's fatal error or a startup error
	Run(ctx context.Context) error

	// LogBook returns the log feed.
	//
	// Returns:
	//   - *router.LogBook: the feed written by the router
	LogBook() *router.LogBook

	// Quit signals the playground to stop.
	// Safe to call multiple times; subsequent calls are no-ops.
	Quit()
}

var _ Engine = &engine{}

// NewEngine creates a new Engine instance with the provided options.
// Without WithWindow the engine runs headless; without WithBackend it picks the backend that
// matches the presence of a window.
//
// Parameters:
//   - options: functional options for engine configuration
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{
		quitChannel: make(chan struct{}),
		title:       "shaderbox",
		size:        common.Resolution{Width: 960, Height: 540},
		shaderPath:  "shader.wgsl",
		debounce:    signal.DefaultDebounce,
		refreshRate: signal.DefaultRefreshRate,
		logCapacity: router.DefaultLogCapacity,
		logOutput:   os.Stdout,
	}
	for _, opt := range options {
		opt(e)
	}
	e.logBook = router.NewLogBook(e.logCapacity)
	return e
}

func (e *engine) LogBook() *router.LogBook {
	return e.logBook
}

// Quit signals all engine goroutines to stop.
// Safe to call multiple times; subsequent calls are no-ops due to sync.Once.
func (e *engine) Quit() {
	e.quitOnce.Do(func() {
		close(e.quitChannel)
	})
}

func (e *engine) Run(ctx context.Context) error {
	log := logger.With("engine")

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		select {
		case <-e.quitChannel:
			cancel()
		case <-ctx.Done():
		}
	}()

	backend, err := e.resolveBackend()
	if err != nil {
		return err
	}

	size := e.size
	var surface protocol.Surface = renderer.OffscreenSurface{Width: size.Width, Height: size.Height}
	if e.window != nil {
		surface = e.window
		size.Width, size.Height = e.window.Size()
	}

	bus := signal.NewBus(ctx, size, signal.Ticker(ctx, signal.RefreshInterval(e.refreshRate)),
		signal.WithDebounce(e.debounce))
	defer bus.Close()

	watcher, err := editor.NewWatcher(e.shaderPath, bus)
	if err != nil {
		return err
	}
	source, err := e.loadSource(watcher)
	if err != nil {
		return err
	}

	agentOptions := []agent.AgentBuilderOption{agent.WithRefreshRate(e.refreshRate)}
	if e.profilingEnabled {
		agentOptions = append(agentOptions, agent.WithProfiler(profiler.NewProfiler()))
	}
	ag := agent.NewAgent(backend, agentOptions...)

	// the surface is handed over before anything else reaches the agent
	ag.Post(protocol.Init{Surface: surface})
	ag.Post(protocol.Resize{Width: size.Width, Height: size.Height})
	ag.Post(protocol.Shader{Code: source})

	rt := router.NewRouter(bus, ag, router.WithLogBook(e.logBook))
	view := logview.NewView(e.logBook, e.logOutput, logview.WithClearScreen(e.clearScreen))

	var agentErr error
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		agentErr = ag.Run(gctx)
		return agentErr
	})
	g.Go(func() error { return rt.Run(gctx) })
	g.Go(func() error { return watcher.Run(gctx) })
	g.Go(func() error { return view.Run(gctx) })
	g.Go(func() error {
		return quiet(rt.Results().Each(gctx, e.showResult))
	})

	log.Info("playground started", "shader", watcher.Path(), "size", size.String())

	if e.window != nil {
		e.runWindow(gctx, bus)
		cancel()
	}

	err = g.Wait()
	e.logBook.Close()
	if e.window != nil {
		if cerr := e.window.Close(); cerr != nil {
			log.Warn("close window", "error", cerr)
		}
	}

	if agentErr != nil {
		return agentErr
	}
	return quiet(err)
}

// runWindow pumps window messages on the calling goroutine until the window closes or ctx is done.
func (e *engine) runWindow(ctx context.Context, bus signal.Bus) {
	e.window.SetResizeCallback(bus.Resized)
	e.window.SetPointerMoveCallback(bus.PointerMoved)
	e.window.SetUpdateCallback(func() {
		if ctx.Err() != nil {
			e.window.RequestClose()
		}
	})
	e.window.ProcessMessages()
}

// showResult reflects a compilation outcome in the window title.
func (e *engine) showResult(r router.CompilationResult) {
	status := "ok"
	if !r.Success {
		status = "error"
	}
	logger.With("engine").Debug("compilation result", "success", r.Success)
	if e.window != nil {
		e.window.SetTitle(fmt.Sprintf("%s [%s]", e.title, status))
	}
}

// resolveBackend returns the configured backend or the default for the current mode.
func (e *engine) resolveBackend() (renderer.Backend, error) {
	if e.backend != nil {
		return e.backend, nil
	}
	bt := renderer.BackendTypeHeadless
	if e.window != nil {
		bt = renderer.BackendTypeWGPU
	}
	b, err := renderer.NewBackend(bt)
	if err != nil {
		return nil, fmt.Errorf("create %s backend: %w", bt, err)
	}
	return b, nil
}

// loadSource reads the initial shader, writing the default program first if the file is missing.
func (e *engine) loadSource(w editor.Watcher) (string, error) {
	source, err := w.Load()
	if err == nil {
		return source, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("read shader: %w", err)
	}
	if err := editor.Create(w.Path(), shader.DefaultFragmentSource, false); err != nil {
		return "", fmt.Errorf("create shader: %w", err)
	}
	logger.With("engine").Info("created default shader", "path", w.Path())
	return w.Load()
}

// quiet maps the errors that mark an orderly shutdown to nil.
func quiet(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
