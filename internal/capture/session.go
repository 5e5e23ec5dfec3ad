// Package capture intercepts figure display and close operations and makes
// them durable.
//
// A Session wraps the plot backend: every figure reaching Display or Close
// is serialized to the plots directory before the underlying operation runs.
// Failures to render or write a single figure are journaled and logged but
// never propagate, so one bad figure cannot cost the capture of the rest.
package capture

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	telem "github.com/timvw/plotkeep/internal/otel"
	"github.com/timvw/plotkeep/plot"
)

// Session owns the monotonic capture sequence and the interception of the
// plot backend for one wrapper run. It is not safe for concurrent use; the
// execution model is single-threaded by design.
type Session struct {
	plots   string
	base    plot.Backend
	log     *zap.Logger
	metrics *telem.Metrics
	journal *Journal

	// seq counts capture events (not figures), never resets.
	seq int
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the logger used for per-capture lines.
func WithLogger(log *zap.Logger) Option {
	return func(s *Session) { s.log = log }
}

// WithMetrics wires capture counters. Nil metrics are a no-op.
func WithMetrics(m *telem.Metrics) Option {
	return func(s *Session) { s.metrics = m }
}

// WithBackend overrides the delegate backend. Defaults to whatever backend
// is current at Install time.
func WithBackend(b plot.Backend) Option {
	return func(s *Session) { s.base = b }
}

// NewSession creates a capture session writing into plotsDir.
func NewSession(plotsDir string, opts ...Option) *Session {
	s := &Session{
		plots:   plotsDir,
		base:    plot.DefaultBackend(),
		log:     zap.NewNop(),
		journal: NewJournal(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Install makes the session the process-wide plot backend and returns a
// restore func. The previously installed backend becomes the delegate, so
// display stays inert and close still releases figures.
func (s *Session) Install() (restore func()) {
	prev := plot.SetBackend(s)
	s.base = prev
	return func() { plot.SetBackend(prev) }
}

// Journal returns the session's capture journal.
func (s *Session) Journal() *Journal { return s.journal }

// Captures returns the current value of the capture sequence counter.
func (s *Session) Captures() int { return s.seq }

// Display captures the figure as figure_<idx>.png and then delegates to the
// underlying display, which is inert under the headless backend.
func (s *Session) Display(f *plot.Figure) error {
	if f == nil {
		return s.base.Display(f)
	}
	s.seq++
	idx := s.figureIndex(f)
	s.capture(f, idx, TriggerDisplay, fmt.Sprintf("figure_%03d.png", idx))
	return s.base.Display(f)
}

// Close captures the figure (or, for a nil figure, every open figure) with a
// _closing suffix and then delegates to the underlying close so the library
// still releases its figure state.
func (s *Session) Close(f *plot.Figure) error {
	if f == nil {
		for _, open := range plot.Figures() {
			s.seq++
			// Counter-based filename, but the log line names the figure.
			s.capture(open, open.Number(), TriggerCloseAll, fmt.Sprintf("figure_%03d_closing.png", s.seq))
		}
		return s.base.Close(nil)
	}
	s.seq++
	idx := s.figureIndex(f)
	s.capture(f, idx, TriggerClose, fmt.Sprintf("figure_%03d_closing.png", idx))
	return s.base.Close(f)
}

// Finalize captures every figure still open with a _final suffix. It is the
// backstop for figures that never reached display or close, and runs whether
// or not the script failed. Figures stay open; the process is about to exit.
func (s *Session) Finalize() []Event {
	var events []Event
	for _, open := range plot.Figures() {
		s.seq++
		e := s.capture(open, s.seq, TriggerFinal, fmt.Sprintf("figure_%03d_final.png", s.seq))
		events = append(events, e)
	}
	return events
}

// figureIndex returns the figure's library-assigned number, falling back to
// the capture sequence when the figure has none.
func (s *Session) figureIndex(f *plot.Figure) int {
	if f != nil && f.Number() > 0 {
		return f.Number()
	}
	return s.seq
}

// capture renders the figure to plots/<name>, journals the attempt, and
// emits one log line. Errors are contained here; callers never see them.
func (s *Session) capture(f *plot.Figure, idx int, trigger Trigger, name string) Event {
	path := filepath.Join(s.plots, name)
	err := writeFigure(f, path)

	e := Event{
		Seq:     s.seq,
		Figure:  f.Number(),
		Trigger: trigger,
		Path:    path,
		Err:     err,
		At:      time.Now().UTC(),
	}
	s.journal.Append(e)

	ctx := context.Background()
	if err != nil {
		s.log.Warn("failed to save figure",
			zap.Int("figure", idx),
			zap.String("trigger", string(trigger)),
			zap.Error(err))
		s.metrics.RecordCaptureFailure(ctx, string(trigger))
		return e
	}
	s.log.Info("saved figure",
		zap.Int("figure", idx),
		zap.String("trigger", string(trigger)),
		zap.String("path", path))
	s.metrics.RecordCapture(ctx, string(trigger))
	return e
}

// writeFigure renders to memory first so a render failure never leaves a
// partial file in the plots directory.
func writeFigure(f *plot.Figure, path string) error {
	var buf bytes.Buffer
	if err := f.Render(&buf); err != nil {
		return fmt.Errorf("render: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}
