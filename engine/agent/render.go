package agent

import (
	"time"

	"github.com/Carmen-Shannon/oxy-shaderbox/engine/logger"
	"github.com/Carmen-Shannon/oxy-shaderbox/engine/protocol"
)

// frame runs one iteration of the render loop for the refresh at now. Nothing happens before Init.
// The frame is drawn only when a pipeline is installed and the viewport has an area; frame-rate
// accounting runs either way.
func (a *agent) frame(now time.Time) {
	if !a.state.running {
		return
	}

	if a.state.pipeline != nil && !a.state.suspended {
		a.draw()
	}

	fps, ok := a.state.fps.Tick(now)
	if !ok {
		return
	}
	a.reply(protocol.Fps{Value: fps})
	if a.profiler != nil {
		a.profiler.Report(fps, now)
	}
}

// draw renders one frame. A run of failures is warned about once and its length reported when
// drawing recovers.
func (a *agent) draw() {
	log := logger.With("agent")
	if err := a.state.gpu.Draw(a.state.pipeline, a.state.uniforms); err != nil {
		a.state.drawFailures++
		if a.state.drawFailures == 1 {
			log.Warn("frame skipped", "error", err)
		} else {
			log.Debug("frame skipped", "error", err, "consecutive", a.state.drawFailures)
		}
		return
	}
	if a.state.drawFailures > 0 {
		log.Info("drawing resumed", "skipped", a.state.drawFailures)
		a.state.drawFailures = 0
	}
}
