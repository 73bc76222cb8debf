// Package logview renders the playground's log feed to a terminal.
package logview

import (
	"context"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-shaderbox/engine/router"
	"github.com/muesli/termenv"
)

const timeLayout = "15:04:05.000"

var levelColors = map[router.Level]string{
	router.LevelInfo:  "#7FD1AE",
	router.LevelWarn:  "#E5C07B",
	router.LevelError: "#E06C75",
}

// view is the implementation of the View interface.
type view struct {
	book *router.LogBook
	w    io.Writer
	out  *termenv.Output

	// pool runs redraws off the subscriber goroutine. render drops any snapshot older than the last
	// one drawn, so the terminal never goes back to an earlier state.
	pool worker.DynamicWorkerPool

	clearScreen bool

	mu    sync.Mutex
	drawn int
}

// View redraws the log feed each time an entry is added.
type View interface {
	// Run redraws until ctx is done or the log book is closed.
	//
	// Parameters:
	//   - ctx: stops the view
	//
	// Returns:
	//   - error: nil on orderly shutdown
	Run(ctx context.Context) error
}

var _ View = &view{}

// NewView creates a View of book writing to w.
//
// Parameters:
//   - book: the log feed to render
//   - w: the terminal to write to
//   - options: variadic list of ViewBuilderOption functions to configure the view
//
// Returns:
//   - View: the new view
func NewView(book *router.LogBook, w io.Writer, options ...ViewBuilderOption) View {
	v := &view{
		book: book,
		w:    w,
		pool: worker.NewDynamicWorkerPool(1, 64, time.Second),
	}
	for _, opt := range options {
		opt(v)
	}
	if v.out == nil {
		v.out = termenv.NewOutput(w)
	}
	return v
}

func (v *view) Run(ctx context.Context) error {
	snapshots := v.book.Subscribe()
	id := 0
	err := snapshots.Each(ctx, func(entries []router.LogEntry) {
		id++
		seq := id
		v.pool.SubmitTask(worker.Task{
			ID: seq,
			Do: func() (any, error) {
				v.render(seq, entries)
				return nil, nil
			},
		})
	})
	if ctx.Err() != nil {
		return nil
	}
	return err
}

// render draws snapshot seq unless a newer one has been drawn already.
func (v *view) render(seq int, entries []router.LogEntry) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if seq <= v.drawn {
		return
	}
	v.drawn = seq

	if v.clearScreen {
		v.out.ClearScreen()
	}
	_, _ = io.WriteString(v.w, Format(v.out, entries))
}

// Format renders entries one per line, oldest first, each prefixed with its time and level.
//
// Parameters:
//   - out: the terminal output used to pick colors
//   - entries: the entries to render
//
// Returns:
//   - string: the rendered text, newline terminated
func Format(out *termenv.Output, entries []router.LogEntry) string {
	var b strings.Builder
	for _, e := range entries {
		b.WriteString(out.String(e.Timestamp.Format(timeLayout)).Faint().String())
		b.WriteByte(' ')
		b.WriteString(out.String(levelTag(e.Level)).Foreground(out.Color(levelColors[e.Level])).Bold().String())
		b.WriteByte(' ')
		b.WriteString(e.Message)
		b.WriteByte('\n')
	}
	return b.String()
}

func levelTag(l router.Level) string {
	tag := strings.ToUpper(l.String())
	return tag + strings.Repeat(" ", max(0, 5-len(tag)))
}
