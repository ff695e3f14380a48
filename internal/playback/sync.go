// Package playback keeps the active subtitle text in step with a playback clock.
//
// A Synchronizer holds the current entry sequence and the most recently
// resolved text. Each Tick reads a TimeSource once and scans the entries for
// the first one whose closed interval contains that time. The entry sequence
// is only ever swapped as a whole, so a tick never observes a partial
// replacement.
package playback

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/aschmelyun/tvocab/internal/subtitle"
)

// DefaultInterval is the sampling cadence used when none is configured.
const DefaultInterval = 300 * time.Millisecond

// TimeSource reports the current playback position in seconds.
type TimeSource interface {
	Position() (float64, error)
}

// TimeSourceFunc adapts a plain function to TimeSource.
type TimeSourceFunc func() (float64, error)

func (f TimeSourceFunc) Position() (float64, error) { return f() }

type Synchronizer struct {
	source  TimeSource
	entries atomic.Pointer[[]subtitle.Entry]
	active  atomic.Pointer[string]
	logger  zerolog.Logger
}

func NewSynchronizer(source TimeSource, logger zerolog.Logger) *Synchronizer {
	s := &Synchronizer{source: source, logger: logger}
	empty := ""
	s.active.Store(&empty)
	return s
}

// Replace swaps in a new entry sequence. The previous active text is kept
// until the next tick resolves against the new entries.
func (s *Synchronizer) Replace(entries []subtitle.Entry) {
	snapshot := append([]subtitle.Entry(nil), entries...)
	s.entries.Store(&snapshot)
}

// Entries returns the current sequence. Callers must not modify it.
func (s *Synchronizer) Entries() []subtitle.Entry {
	if p := s.entries.Load(); p != nil {
		return *p
	}
	return nil
}

// Active returns the text resolved by the last tick.
func (s *Synchronizer) Active() string {
	return *s.active.Load()
}

// Tick samples the time source once and updates the active text. A failed
// read leaves the previous text in place.
func (s *Synchronizer) Tick() string {
	entries := s.Entries()
	if len(entries) == 0 {
		empty := ""
		s.active.Store(&empty)
		return empty
	}

	t, err := s.source.Position()
	if err != nil {
		s.logger.Debug().Err(err).Msg("playback position unavailable")
		return s.Active()
	}

	text := Resolve(entries, t)
	s.active.Store(&text)
	return text
}

// Run ticks every interval until ctx is done.
func (s *Synchronizer) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Tick()
		}
	}
}

// Resolve returns the text of the first entry active at t, or "" when none is.
func Resolve(entries []subtitle.Entry, t float64) string {
	for _, e := range entries {
		if e.Active(t) {
			return e.Text
		}
	}
	return ""
}
