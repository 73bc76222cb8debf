package router

import (
	"fmt"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-shaderbox/engine/signal"
)

// DefaultLogCapacity is the number of entries kept by a LogBook unless configured otherwise.
const DefaultLogCapacity = 20

// Level is the severity of a log entry.
type Level int

const (
	LevelInfo Level = iota
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return fmt.Sprintf("Level(%d)", int(l))
	}
}

// LogEntry is one line of the user-facing log feed.
type LogEntry struct {
	Timestamp time.Time
	Level     Level
	Message   string
}

// LogBook is an append-only log feed holding at most its capacity of entries. When full, the oldest
// entry is evicted first. Entries are kept in timestamp order, highest last.
type LogBook struct {
	mu          sync.Mutex
	entries     []LogEntry
	capacity    int
	now         func() time.Time
	subscribers []*signal.Stream[[]LogEntry]
}

// NewLogBook creates an empty LogBook.
//
// Parameters:
//   - capacity: the maximum number of entries kept (DefaultLogCapacity if <= 0)
//
// Returns:
//   - *LogBook: the new log book
func NewLogBook(capacity int) *LogBook {
	if capacity <= 0 {
		capacity = DefaultLogCapacity
	}
	return &LogBook{
		entries:  make([]LogEntry, 0, capacity),
		capacity: capacity,
		now:      time.Now,
	}
}

// Push appends an entry stamped with the current time and notifies subscribers.
//
// Parameters:
//   - level: the entry severity
//   - message: the entry text
//
// Returns:
//   - LogEntry: the entry as stored
func (b *LogBook) Push(level Level, message string) LogEntry {
	b.mu.Lock()
	defer b.mu.Unlock()

	e := LogEntry{Timestamp: b.now(), Level: level, Message: message}
	if n := len(b.entries); n > 0 && e.Timestamp.Before(b.entries[n-1].Timestamp) {
		e.Timestamp = b.entries[n-1].Timestamp
	}

	if len(b.entries) == b.capacity {
		copy(b.entries, b.entries[1:])
		b.entries = b.entries[:len(b.entries)-1]
	}
	b.entries = append(b.entries, e)

	snapshot := b.snapshotLocked()
	for _, s := range b.subscribers {
		s.Emit(snapshot)
	}
	return e
}

// Entries returns a copy of the current entries, oldest first.
//
// Returns:
//   - []LogEntry: the entries
func (b *LogBook) Entries() []LogEntry {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.snapshotLocked()
}

// Len returns the number of entries held.
//
// Returns:
//   - int: the entry count
func (b *LogBook) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.entries)
}

// Capacity returns the maximum number of entries held.
//
// Returns:
//   - int: the capacity
func (b *LogBook) Capacity() int {
	return b.capacity
}

// Subscribe returns a stream that receives a snapshot of all entries after every Push.
//
// Returns:
//   - *signal.Stream[[]LogEntry]: the snapshot stream, closed by Close
func (b *LogBook) Subscribe() *signal.Stream[[]LogEntry] {
	b.mu.Lock()
	defer b.mu.Unlock()
	s := signal.NewStream[[]LogEntry]()
	b.subscribers = append(b.subscribers, s)
	return s
}

// Close ends every subscription.
func (b *LogBook) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, s := range b.subscribers {
		s.Close()
	}
	b.subscribers = nil
}

func (b *LogBook) snapshotLocked() []LogEntry {
	out := make([]LogEntry, len(b.entries))
	copy(out, b.entries)
	return out
}
