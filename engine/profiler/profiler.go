package profiler

import (
	"math"
	"runtime"
	"time"

	"github.com/Carmen-Shannon/oxy-shaderbox/engine/logger"
)

// DefaultWindow is the frame-rate measurement window.
const DefaultWindow = time.Second

// FrameCounter measures frames per second over a sliding one-window accumulator.
// It is not safe for concurrent use; the render loop owns it.
type FrameCounter struct {
	frames      int
	windowStart time.Time
	window      time.Duration
}

// NewFrameCounter creates a counter whose first window starts at start.
//
// Parameters:
//   - start: the beginning of the first measurement window
//
// Returns:
//   - *FrameCounter: the counter
func NewFrameCounter(start time.Time) *FrameCounter {
	return &FrameCounter{windowStart: start, window: DefaultWindow}
}

// Reset empties the accumulator and starts a new window at now.
//
// Parameters:
//   - now: the new window start
func (f *FrameCounter) Reset(now time.Time) {
	f.frames = 0
	f.windowStart = now
}

// Tick records one frame at now. Once at least one window has elapsed since the window start, it
// returns round(frames / elapsedSeconds) and resets the accumulator.
//
// Parameters:
//   - now: the time of the frame
//
// Returns:
//   - int: the measured frames per second, valid only when ok is true
//   - bool: true if a window completed on this frame
func (f *FrameCounter) Tick(now time.Time) (int, bool) {
	f.frames++
	elapsed := now.Sub(f.windowStart)
	if elapsed < f.window {
		return 0, false
	}

	fps := int(math.Round(float64(f.frames) / elapsed.Seconds()))
	f.Reset(now)
	return fps, true
}

// Frames returns the number of frames counted in the current window.
//
// Returns:
//   - int: frames since the last reset
func (f *FrameCounter) Frames() int {
	return f.frames
}

// WindowStart returns the start of the current window.
//
// Returns:
//   - time.Time: the time of the last reset
func (f *FrameCounter) WindowStart() time.Time {
	return f.windowStart
}

// Profiler logs memory and GC statistics alongside each frame-rate sample.
type Profiler struct {
	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64
	lastSample     time.Time
}

// NewProfiler creates a Profiler.
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler() *Profiler {
	return &Profiler{lastSample: time.Now()}
}

// Report logs fps together with heap usage, allocation rate, GC count/pause times and total memory.
//
// Parameters:
//   - fps: the frame rate measured for the window ending at now
//   - now: the end of the measured window
func (p *Profiler) Report(fps int, now time.Time) {
	elapsed := now.Sub(p.lastSample)
	if elapsed <= 0 {
		elapsed = DefaultWindow
	}

	runtime.ReadMemStats(&p.memStats)
	// Alloc: live heap bytes. TotalAlloc: cumulative heap bytes (tracks churn). Sys: process footprint.
	allocMB := float64(p.memStats.Alloc) / 1024 / 1024
	sysMB := float64(p.memStats.Sys) / 1024 / 1024
	allocDelta := p.memStats.TotalAlloc - p.lastTotalAlloc
	allocRateMB := float64(allocDelta) / 1024 / 1024 / elapsed.Seconds()

	gcCount := p.memStats.NumGC
	var lastPauseUs, maxPauseUs uint64
	if gcCount > 0 {
		// PauseNs is a circular buffer of the last 256 GC pauses
		lastPauseUs = p.memStats.PauseNs[(gcCount-1)%256] / 1000

		startIdx := p.lastGCCount
		if gcCount-startIdx > 256 {
			startIdx = gcCount - 256
		}
		for i := startIdx; i < gcCount; i++ {
			pause := p.memStats.PauseNs[i%256] / 1000
			if pause > maxPauseUs {
				maxPauseUs = pause
			}
		}
	}

	logger.With("profiler").Debug("frame stats",
		"fps", fps,
		"heap_mb", allocMB,
		"alloc_rate_mb_s", allocRateMB,
		"gc", gcCount,
		"gc_last_pause_us", lastPauseUs,
		"gc_max_pause_us", maxPauseUs,
		"sys_mb", sysMB,
	)

	p.lastSample = now
	p.lastGCCount = gcCount
	p.lastTotalAlloc = p.memStats.TotalAlloc
}
