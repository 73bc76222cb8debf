package agent

import (
	"github.com/Carmen-Shannon/oxy-shaderbox/common"
	"github.com/Carmen-Shannon/oxy-shaderbox/engine/logger"
	"github.com/Carmen-Shannon/oxy-shaderbox/engine/profiler"
	"github.com/Carmen-Shannon/oxy-shaderbox/engine/protocol"
	"github.com/Carmen-Shannon/oxy-shaderbox/engine/renderer"
)

// state is owned by the goroutine running the agent.
type state struct {
	// gpu is set once Init succeeds and never replaced.
	gpu renderer.Backend

	// pipeline is nil until the first successful compile. It is only ever replaced wholesale by a
	// newer successful compile.
	pipeline renderer.Pipeline

	uniforms common.UniformData
	fps      *profiler.FrameCounter
	running  bool

	// initialized is set by the first Init, successful or not.
	initialized bool

	// suspended is set while the viewport has no area (a minimized window). No frame can be
	// presented then, so drawing pauses until a usable size arrives.
	suspended bool

	// drawFailures counts consecutive failed draws; only the first of a run is reported as a warning.
	drawFailures int

	// pending holds the latest source received before Init.
	pending    string
	hasPending bool
}

func newState() state {
	return state{uniforms: common.DefaultUniformData()}
}

func (a *agent) HandleInit(m protocol.Init) {
	log := logger.With("agent")
	if a.state.initialized {
		log.Warn("ignoring repeated Init")
		return
	}
	a.state.initialized = true

	if err := a.backend.Init(m.Surface); err != nil {
		log.Error("gpu initialization failed", "error", err)
		a.fatal = err
		a.reply(protocol.Fatal{Error: err.Error()})
		return
	}

	a.state.gpu = a.backend
	a.state.running = true
	a.state.fps = profiler.NewFrameCounter(a.clock.Now())
	log.Info("agent running", "size", a.state.gpu.Size().String())

	if a.state.hasPending {
		code := a.state.pending
		a.state.pending, a.state.hasPending = "", false
		a.compile(code)
	}
}

func (a *agent) HandleShader(m protocol.Shader) {
	if !a.state.running {
		logger.With("agent").Debug("holding shader until Init", "bytes", len(m.Code))
		a.state.pending, a.state.hasPending = m.Code, true
		return
	}
	a.compile(m.Code)
}

func (a *agent) HandleUniform(m protocol.Uniform) {
	a.state.uniforms = m.Data()
}

func (a *agent) HandleResize(m protocol.Resize) {
	if !a.state.running {
		return
	}
	if m.Width <= 0 || m.Height <= 0 {
		if !a.state.suspended {
			logger.With("agent").Debug("viewport empty, pausing draws", "width", m.Width, "height", m.Height)
		}
		a.state.suspended = true
		return
	}
	a.state.suspended = false
	if err := a.state.gpu.Configure(m.Width, m.Height); err != nil {
		logger.With("agent").Warn("surface reconfigure failed", "error", err)
	}
}

// compile builds a pipeline for code. On success the previous pipeline is released and replaced;
// on failure it is left installed.
func (a *agent) compile(code string) {
	p, err := a.state.gpu.Compile(code)
	if err != nil {
		logger.With("agent").Debug("shader compile failed", "error", err)
		a.reply(protocol.CompileError{Error: err.Error()})
		return
	}

	old := a.state.pipeline
	a.state.pipeline = p
	if old != nil {
		old.Release()
	}
	a.reply(protocol.CompileSuccess{})
}
