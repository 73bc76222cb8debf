// Package protocol defines the closed set of messages exchanged between the control side and the
// rendering agent. Messages are plain immutable values with no behavior beyond dispatch.
//
// Both directions are sealed: Request and Reply carry an unexported marker method so no other
// package can add variants, and consumers dispatch through RequestHandler / ReplyHandler. Adding a
// new message kind means adding a method to the handler interface, which breaks compilation at
// every consumption point until it is handled.
package protocol

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-shaderbox/common"
)

// Surface is a drawable target handed to the rendering agent with Init.
// Ownership is transferred: after sending Init the control side must not use the surface again.
// Backends type-assert the surface to the richer interface they need (e.g. a wgpu surface descriptor).
type Surface interface {
	// Size returns the current drawable size in device pixels.
	//
	// Returns:
	//   - int: width in pixels
	//   - int: height in pixels
	Size() (width, height int)
}

// Request is a message sent from the control side to the rendering agent.
type Request interface {
	// Accept dispatches the request to the matching method of h.
	//
	// Parameters:
	//   - h: the handler receiving the concrete request value
	Accept(h RequestHandler)

	// Kind returns the message tag, used for logging.
	//
	// Returns:
	//   - string: the variant name (e.g. "Shader")
	Kind() string

	isRequest()
}

// RequestHandler must be implemented by every consumer of Request values.
type RequestHandler interface {
	HandleInit(m Init)
	HandleShader(m Shader)
	HandleUniform(m Uniform)
	HandleResize(m Resize)
}

// Init hands the agent exclusive ownership of a rendering surface.
type Init struct {
	Surface Surface
}

// Shader asks the agent to (re)compile the fragment program from Code.
type Shader struct {
	Code string
}

// Uniform is the latest per-frame input snapshot.
type Uniform struct {
	Time       float32
	Resolution common.Resolution
	Mouse      common.Vec2
}

// Resize reports that the viewport dimensions changed and the drawable surface must be reconfigured.
type Resize struct {
	Width  int
	Height int
}

// NewUniform builds a Uniform message from a uniform snapshot.
//
// Parameters:
//   - d: the snapshot to copy
//
// Returns:
//   - Uniform: the message carrying d's values
func NewUniform(d common.UniformData) Uniform {
	return Uniform{Time: d.Time, Resolution: d.Resolution, Mouse: d.Mouse}
}

// Data returns the snapshot carried by the message.
//
// Returns:
//   - common.UniformData: time, resolution and mouse of this message
func (m Uniform) Data() common.UniformData {
	return common.UniformData{Time: m.Time, Resolution: m.Resolution, Mouse: m.Mouse}
}

func (m Init) Accept(h RequestHandler)    { h.HandleInit(m) }
func (m Shader) Accept(h RequestHandler)  { h.HandleShader(m) }
func (m Uniform) Accept(h RequestHandler) { h.HandleUniform(m) }
func (m Resize) Accept(h RequestHandler)  { h.HandleResize(m) }

func (Init) Kind() string    { return "Init" }
func (Shader) Kind() string  { return "Shader" }
func (Uniform) Kind() string { return "Uniform" }
func (Resize) Kind() string  { return "Resize" }

func (Init) isRequest()    {}
func (Shader) isRequest()  {}
func (Uniform) isRequest() {}
func (Resize) isRequest()  {}

// Reply is a message sent from the rendering agent back to the control side.
type Reply interface {
	// Accept dispatches the reply to the matching method of h.
	//
	// Parameters:
	//   - h: the handler receiving the concrete reply value
	Accept(h ReplyHandler)

	// Kind returns the message tag, used for logging.
	//
	// Returns:
	//   - string: the variant name (e.g. "Fps")
	Kind() string

	isReply()
}

// ReplyHandler must be implemented by every consumer of Reply values.
type ReplyHandler interface {
	HandleCompileSuccess(m CompileSuccess)
	HandleCompileError(m CompileError)
	HandleFps(m Fps)
	HandleFatal(m Fatal)
}

// CompileSuccess reports that the last Shader request produced a usable pipeline.
type CompileSuccess struct{}

// CompileError reports a failed compilation. The previous pipeline, if any, stays active.
type CompileError struct {
	Error string
}

// Fps reports the frames per second measured over the last ~1 second window.
type Fps struct {
	Value int
}

// Fatal reports an unrecoverable agent failure. It is the last reply the agent sends.
type Fatal struct {
	Error string
}

func (m CompileSuccess) Accept(h ReplyHandler) { h.HandleCompileSuccess(m) }
func (m CompileError) Accept(h ReplyHandler)   { h.HandleCompileError(m) }
func (m Fps) Accept(h ReplyHandler)            { h.HandleFps(m) }
func (m Fatal) Accept(h ReplyHandler)          { h.HandleFatal(m) }

func (CompileSuccess) Kind() string { return "CompileSuccess" }
func (CompileError) Kind() string   { return "CompileError" }
func (Fps) Kind() string            { return "Fps" }
func (Fatal) Kind() string          { return "Fatal" }

func (CompileSuccess) isReply() {}
func (CompileError) isReply()   {}
func (Fps) isReply()            {}
func (Fatal) isReply()          {}

func (m Shader) String() string {
	return fmt.Sprintf("Shader{%d bytes}", len(m.Code))
}

func (m Resize) String() string {
	return fmt.Sprintf("Resize{%dx%d}", m.Width, m.Height)
}

func (m Fps) String() string {
	return fmt.Sprintf("Fps{%d}", m.Value)
}
