package window

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/cogentcore/webgpu/wgpu"
)

// Window provides the preview surface and its pointer and resize events.
// All methods except Size, SetTitle and RequestClose must be called from the main thread.
type Window interface {
	// SetUpdateCallback sets the function called each message loop iteration.
	//
	// Parameters:
	//   - callback: function to call (or nil to disable)
	SetUpdateCallback(callback func())

	// SetResizeCallback sets the function called when the framebuffer is resized.
	//
	// Parameters:
	//   - callback: function receiving new width and height in device pixels
	SetResizeCallback(callback func(width, height int))

	// SetPointerMoveCallback sets the callback for pointer movement.
	//
	// Parameters:
	//   - callback: function receiving the pointer position in device pixels
	SetPointerMoveCallback(callback func(x, y float32))

	// SetTitle changes the window title. Safe to call from any goroutine; the title is applied on the
	// next message loop iteration.
	//
	// Parameters:
	//   - title: the new title
	SetTitle(title string)

	// SurfaceDescriptor returns a wgpu.SurfaceDescriptor suitable for creating a WebGPU surface.
	// The descriptor is platform-appropriate (Windows HWND, X11 Xlib, Wayland, macOS Metal, etc.)
	// and is created by the wgpuglfw bridge from the underlying GLFW window.
	//
	// Returns:
	//   - *wgpu.SurfaceDescriptor: the platform-specific surface descriptor, or nil if window is not initialized
	SurfaceDescriptor() *wgpu.SurfaceDescriptor

	// Size returns the current framebuffer size. Safe to call from any goroutine.
	//
	// Returns:
	//   - int: width in device pixels
	//   - int: height in device pixels
	Size() (width, height int)

	// IsRunning returns true if the window is still active.
	//
	// Returns:
	//   - bool: true if window is running, false if closed
	IsRunning() bool

	// RequestClose asks the message loop to stop. Safe to call from any goroutine.
	RequestClose()

	// Close closes the window and releases platform resources.
	//
	// Returns:
	//   - error: error if close operation fails
	Close() error

	// ProcessMessages runs the window message loop.
	// Blocks until the window is closed. Calls OnUpdate callback each iteration.
	ProcessMessages()
}

// engineWindow is the implementation of the Window interface.
// Holds window configuration, GLFW state, and event callbacks.
type engineWindow struct {
	// title is the window title displayed in the title bar.
	title string

	// minWidth is the minimum allowed window width during resize.
	minWidth int

	// minHeight is the minimum allowed window height during resize.
	minHeight int

	// mu guards width, height, pendingTitle and closeRequested, which are touched off the main thread.
	mu sync.Mutex

	// width is the current framebuffer width in device pixels.
	width int

	// height is the current framebuffer height in device pixels.
	height int

	pendingTitle   *string
	closeRequested bool

	// internalWindow holds the platform-specific window data (glfwWindow).
	internalWindow any

	// onUpdate is called each iteration of the message loop (if set).
	onUpdate func()

	// onResize is called when the framebuffer is resized.
	onResize func(width, height int)

	// onPointerMove is called when the pointer moves within the window.
	onPointerMove func(x, y float32)
}

var _ Window = &engineWindow{}

// NewWindow creates a new Window with the specified options.
// Applies default values first, then each option in order.
//
// Parameters:
//   - options: functional options to configure the window
//
// Returns:
//   - Window: the configured window, already shown
//   - error: error if the platform window cannot be created
func NewWindow(options ...WindowBuilderOption) (Window, error) {
	w := &engineWindow{
		title:     "shaderbox",
		minWidth:  160,
		minHeight: 90,
		width:     960,
		height:    540,
	}
	for _, opt := range options {
		opt(w)
	}
	if err := newPlatformWindow(w); err != nil {
		return nil, fmt.Errorf("failed to create platform window: %w", err)
	}
	return w, nil
}

func (w *engineWindow) SetUpdateCallback(callback func()) {
	w.onUpdate = callback
}

func (w *engineWindow) SetResizeCallback(callback func(width, height int)) {
	w.onResize = callback
}

func (w *engineWindow) SetPointerMoveCallback(callback func(x, y float32)) {
	w.onPointerMove = callback
}

func (w *engineWindow) SetTitle(title string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.pendingTitle = &title
}

func (w *engineWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	return platformGetSurfaceDescriptor(w)
}

func (w *engineWindow) Size() (int, int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.width, w.height
}

func (w *engineWindow) setSize(width, height int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.width, w.height = width, height
}

func (w *engineWindow) IsRunning() bool {
	w.mu.Lock()
	requested := w.closeRequested
	w.mu.Unlock()
	return !requested && platformIsRunningCheck(w)
}

func (w *engineWindow) RequestClose() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closeRequested = true
}

func (w *engineWindow) Close() error {
	return platformCloseWindow(w)
}

func (w *engineWindow) ProcessMessages() {
	for w.IsRunning() {
		if succ := platformProcessMessages(w); !succ {
			break
		}

		w.mu.Lock()
		title := w.pendingTitle
		w.pendingTitle = nil
		w.mu.Unlock()
		if title != nil {
			platformSetTitle(w, *title)
		}

		if w.onUpdate != nil {
			w.onUpdate()
		}

		runtime.Gosched()
	}
}
