package router

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogBookCapEvictsOldest(t *testing.T) {
	b := NewLogBook(0)
	assert.Equal(t, DefaultLogCapacity, b.Capacity())

	for i := 0; i < 25; i++ {
		b.Push(LevelInfo, fmt.Sprintf("entry %d", i))
	}

	entries := b.Entries()
	require.Len(t, entries, 20)
	assert.Equal(t, "entry 5", entries[0].Message)
	assert.Equal(t, "entry 24", entries[19].Message)
}

func TestLogBookTimestampsNeverDecrease(t *testing.T) {
	b := NewLogBook(5)
	base := time.Unix(100, 0)
	times := []time.Time{base, base.Add(-time.Second), base.Add(time.Second)}
	i := 0
	b.now = func() time.Time { v := times[i]; i++; return v }

	b.Push(LevelInfo, "a")
	b.Push(LevelWarn, "b")
	b.Push(LevelError, "c")

	entries := b.Entries()
	for i := 1; i < len(entries); i++ {
		assert.False(t, entries[i].Timestamp.Before(entries[i-1].Timestamp))
	}
	assert.Equal(t, LevelWarn, entries[1].Level)
}

func TestLogBookSubscribe(t *testing.T) {
	b := NewLogBook(2)
	s := b.Subscribe()

	b.Push(LevelInfo, "one")
	b.Push(LevelInfo, "two")
	b.Push(LevelInfo, "three")
	b.Close()

	var last []LogEntry
	require.NoError(t, s.Each(context.Background(), func(e []LogEntry) { last = e }))
	require.Len(t, last, 2)
	assert.Equal(t, "two", last[0].Message)
	assert.Equal(t, "three", last[1].Message)
}

func TestLevelString(t *testing.T) {
	assert.Equal(t, "info", LevelInfo.String())
	assert.Equal(t, "warn", LevelWarn.String())
	assert.Equal(t, "error", LevelError.String())
}
