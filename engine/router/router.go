// Package router connects the control side's signal bus to the rendering agent. Inputs become
// protocol requests; replies become log entries and compilation results.
package router

import (
	"context"
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-shaderbox/common"
	"github.com/Carmen-Shannon/oxy-shaderbox/engine/logger"
	"github.com/Carmen-Shannon/oxy-shaderbox/engine/protocol"
	"github.com/Carmen-Shannon/oxy-shaderbox/engine/signal"
	"golang.org/x/sync/errgroup"
)

// ErrAgentFatal is returned by Run when the agent reported a Fatal reply.
var ErrAgentFatal = errors.New("rendering agent failed")

// Target is the agent side of the router: somewhere to post requests and a stream of replies.
type Target interface {
	Post(req protocol.Request) bool
	Replies() *signal.Stream[protocol.Reply]
}

// CompilationResult is the outcome of one shader compile as seen by the control side.
type CompilationResult struct {
	Success bool
	// Error is the compiler diagnostic, empty on success.
	Error string
}

// router is the implementation of the Router interface.
type router struct {
	bus    signal.Bus
	target Target

	logBook    *LogBook
	results    *signal.Stream[CompilationResult]
	mouse      *signal.Cell[common.Vec2]
	resolution *signal.Cell[common.Resolution]
}

// Router forwards bus inputs to a Target and turns the Target's replies into log entries.
type Router interface {
	// Run forwards until ctx is done or the bus and reply streams end.
	//
	// Parameters:
	//   - ctx: stops the router
	//
	// Returns:
	//   - error: ErrAgentFatal (wrapping the agent's message) if the agent failed, otherwise nil
	Run(ctx context.Context) error

	// Results returns the stream of compilation outcomes.
	//
	// Returns:
	//   - *signal.Stream[CompilationResult]: the results stream, closed when Run returns
	Results() *signal.Stream[CompilationResult]

	// LogBook returns the log feed the router writes to.
	//
	// Returns:
	//   - *LogBook: the log feed
	LogBook() *LogBook
}

var _ Router = &router{}

// NewRouter creates a Router between bus and target.
//
// Parameters:
//   - bus: the input sources
//   - target: the agent receiving requests
//   - options: variadic list of RouterBuilderOption functions to configure the router
//
// Returns:
//   - Router: the newly created router
func NewRouter(bus signal.Bus, target Target, options ...RouterBuilderOption) Router {
	r := &router{
		bus:        bus,
		target:     target,
		results:    signal.NewStream[CompilationResult](),
		mouse:      signal.NewCell(common.Vec2{}),
		resolution: signal.NewCell(common.Resolution{Width: 1, Height: 1}),
	}
	for _, opt := range options {
		opt(r)
	}
	if r.logBook == nil {
		r.logBook = NewLogBook(DefaultLogCapacity)
	}
	return r
}

func (r *router) Results() *signal.Stream[CompilationResult] {
	return r.results
}

func (r *router) LogBook() *LogBook {
	return r.logBook
}

func (r *router) Run(ctx context.Context) error {
	defer r.results.Close()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return quiet(r.bus.Pointer().Each(gctx, r.mouse.Store))
	})
	g.Go(func() error {
		return quiet(r.bus.Viewport().Each(gctx, func(res common.Resolution) {
			r.resolution.Store(res)
			r.target.Post(protocol.Resize{Width: res.Width, Height: res.Height})
		}))
	})
	g.Go(func() error {
		return quiet(r.bus.Clock().Each(gctx, func(elapsed float64) {
			r.target.Post(protocol.Uniform{
				Time:       float32(elapsed),
				Resolution: r.resolution.Load(),
				Mouse:      r.mouse.Load(),
			})
		}))
	})
	g.Go(func() error {
		return quiet(r.bus.Edits().Each(gctx, func(code string) {
			r.target.Post(protocol.Shader{Code: code})
		}))
	})
	g.Go(func() error {
		return r.consumeReplies(gctx)
	})
	return g.Wait()
}

// consumeReplies handles replies until the stream ends, ctx is done or the agent reports Fatal.
func (r *router) consumeReplies(ctx context.Context) error {
	h := &replyLogger{router: r}
	for {
		reply, err := r.target.Replies().Next(ctx)
		if err != nil {
			return quiet(err)
		}
		reply.Accept(h)
		if h.fatal != nil {
			return h.fatal
		}
	}
}

// replyLogger maps each reply to its log entry and compilation result.
type replyLogger struct {
	router *router
	fatal  error
}

var _ protocol.ReplyHandler = &replyLogger{}

func (h *replyLogger) HandleCompileSuccess(protocol.CompileSuccess) {
	h.router.logBook.Push(LevelInfo, "Shader compiled successfully")
	h.router.results.Emit(CompilationResult{Success: true})
}

func (h *replyLogger) HandleCompileError(m protocol.CompileError) {
	h.router.logBook.Push(LevelError, m.Error)
	h.router.results.Emit(CompilationResult{Error: m.Error})
}

func (h *replyLogger) HandleFps(m protocol.Fps) {
	h.router.logBook.Push(LevelInfo, fmt.Sprintf("FPS: %d", m.Value))
}

func (h *replyLogger) HandleFatal(m protocol.Fatal) {
	h.router.logBook.Push(LevelError, m.Error)
	logger.With("router").Error("agent reported fatal error", "error", m.Error)
	h.fatal = fmt.Errorf("%w: %s", ErrAgentFatal, m.Error)
}

// quiet maps the errors that mark an orderly end of a stream to nil.
func quiet(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, signal.ErrClosed) {
		return nil
	}
	return err
}
