// Package agent implements the rendering agent: a single goroutine that owns the GPU context,
// consumes protocol requests from the control side and renders one frame per display refresh.
package agent

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/Carmen-Shannon/oxy-shaderbox/engine/logger"
	"github.com/Carmen-Shannon/oxy-shaderbox/engine/profiler"
	"github.com/Carmen-Shannon/oxy-shaderbox/engine/protocol"
	"github.com/Carmen-Shannon/oxy-shaderbox/engine/renderer"
	"github.com/Carmen-Shannon/oxy-shaderbox/engine/signal"
)

// agent is the implementation of the Agent interface.
type agent struct {
	requests *signal.Queue[protocol.Request]
	replies  *signal.Stream[protocol.Reply]

	backend     renderer.Backend
	clock       signal.Clock
	refresh     <-chan time.Time
	refreshRate int
	profiler    *profiler.Profiler
	lockThread  bool

	state state

	// fatal is set when a request leaves the agent unable to continue. Run returns it.
	fatal error
}

// Agent is the rendering side of the playground. It is driven entirely by requests posted from the
// control side and reports back through its reply stream. Message handling and rendering happen
// on the goroutine running Run, so agent state needs no locking.
type Agent interface {
	// Post enqueues a request for the agent. It never blocks and may be called from any goroutine.
	//
	// Parameters:
	//   - req: the request to deliver
	//
	// Returns:
	//   - bool: false if the agent has stopped and the request was dropped
	Post(req protocol.Request) bool

	// Replies returns the stream of replies produced by the agent. The stream is closed when Run returns.
	//
	// Returns:
	//   - *signal.Stream[protocol.Reply]: the reply stream
	Replies() *signal.Stream[protocol.Reply]

	// Run processes requests and refresh ticks until ctx is done, the request queue is closed, or a
	// fatal error occurs. The goroutine is locked to its OS thread while running.
	//
	// Parameters:
	//   - ctx: stops the agent
	//
	// Returns:
	//   - error: nil on orderly shutdown, otherwise the fatal error (e.g. renderer.ErrNoAdapter)
	Run(ctx context.Context) error

	// Close stops accepting requests. Requests already posted are still handled before Run returns.
	Close()
}

var _ Agent = &agent{}
var _ protocol.RequestHandler = &agent{}

// NewAgent creates a new Agent rendering through backend.
//
// Parameters:
//   - backend: the GPU backend the agent will initialize on Init
//   - options: variadic list of AgentBuilderOption functions to configure the agent
//
// Returns:
//   - Agent: the newly created agent
func NewAgent(backend renderer.Backend, options ...AgentBuilderOption) Agent {
	if backend == nil {
		panic("agent: nil backend")
	}

	a := &agent{
		requests:    signal.NewQueue[protocol.Request](),
		replies:     signal.NewStream[protocol.Reply](),
		backend:     backend,
		clock:       signal.SystemClock(),
		refreshRate: signal.DefaultRefreshRate,
		lockThread:  true,
		state:       newState(),
	}

	for _, opt := range options {
		opt(a)
	}
	return a
}

func (a *agent) Post(req protocol.Request) bool {
	return a.requests.Push(req)
}

func (a *agent) Replies() *signal.Stream[protocol.Reply] {
	return a.replies
}

func (a *agent) Close() {
	a.requests.Close()
}

func (a *agent) Run(ctx context.Context) (err error) {
	if a.lockThread {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
	}

	log := logger.With("agent")
	defer a.shutdown()
	defer func() {
		if r := recover(); r != nil {
			log.Error("agent goroutine recovered from panic", "panic", r)
			err = fmt.Errorf("agent panicked: %v", r)
		}
	}()

	refresh := a.refresh
	if refresh == nil {
		refresh = signal.Ticker(ctx, signal.RefreshInterval(a.refreshRate))
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-a.requests.Ready():
			if err := a.process(); err != nil {
				return err
			}
		case <-a.requests.Done():
			// closed: handle the backlog, then stop
			return a.process()
		case now, ok := <-refresh:
			if !ok {
				refresh = nil
				continue
			}
			a.frame(now)
		}
	}
}

// process handles every queued request in FIFO order, stopping at the first fatal one.
func (a *agent) process() error {
	for _, req := range a.requests.Drain() {
		req.Accept(a)
		if a.fatal != nil {
			return a.fatal
		}
	}
	return nil
}

// shutdown releases the GPU context and ends the reply stream.
func (a *agent) shutdown() {
	a.requests.Close()
	if a.state.pipeline != nil {
		a.state.pipeline.Release()
		a.state.pipeline = nil
	}
	if a.state.gpu != nil {
		a.state.gpu.Release()
		a.state.gpu = nil
	}
	a.state.running = false
	a.replies.Close()
}

func (a *agent) reply(r protocol.Reply) {
	a.replies.Emit(r)
}
