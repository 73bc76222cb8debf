package profiler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFrameCounterNoSampleBeforeWindow(t *testing.T) {
	start := time.Unix(0, 0)
	f := NewFrameCounter(start)

	for i := 1; i < 60; i++ {
		_, ok := f.Tick(start.Add(time.Duration(i) * time.Second / 60))
		assert.False(t, ok, "frame %d", i)
	}
	assert.Equal(t, 59, f.Frames())
}

func TestFrameCounterSampleAndReset(t *testing.T) {
	start := time.Unix(0, 0)
	f := NewFrameCounter(start)

	var fps int
	var ok bool
	for i := 1; i <= 60; i++ {
		fps, ok = f.Tick(start.Add(time.Duration(i) * time.Second / 60))
	}
	assert.True(t, ok)
	assert.Equal(t, 60, fps)
	assert.Equal(t, 0, f.Frames(), "counter resets right after a sample")
	assert.Equal(t, start.Add(time.Second), f.WindowStart())
}

func TestFrameCounterRoundsOverLongWindow(t *testing.T) {
	start := time.Unix(0, 0)
	f := NewFrameCounter(start)
	f.Tick(start.Add(500 * time.Millisecond))
	f.Tick(start.Add(time.Second))
	fps, ok := f.Tick(start.Add(1500 * time.Millisecond))
	assert.True(t, ok)
	assert.Equal(t, 2, fps) // 3 frames / 1.5s
}

func TestProfilerReport(t *testing.T) {
	p := NewProfiler()
	p.Report(60, time.Now().Add(time.Second))
	assert.False(t, p.lastSample.IsZero())
}
