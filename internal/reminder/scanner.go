// Package reminder polls the task store and raises one overdue
// notification per task.
package reminder

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/dori/zenith/internal/notify"
	"github.com/dori/zenith/internal/store"
)

// DefaultInterval is how often the scanner checks due dates.
const DefaultInterval = 60 * time.Second

// Scanner periodically compares due dates against the clock and emits a
// single notification per task once its due instant passes on its due day.
// The already-notified set lives in the store and is persisted, so a task
// never re-fires, not even across restarts.
type Scanner struct {
	store      *store.Store
	capability notify.Capability
	logger     *log.Logger
	interval   time.Duration
	now        func() time.Time
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithInterval overrides the polling interval.
func WithInterval(d time.Duration) Option {
	return func(s *Scanner) { s.interval = d }
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Scanner) { s.now = now }
}

// New creates a scanner over the given store and notification capability.
func New(st *store.Store, capability notify.Capability, logger *log.Logger, opts ...Option) *Scanner {
	s := &Scanner{
		store:      st,
		capability: capability,
		logger:     logger,
		interval:   DefaultInterval,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run polls until ctx is cancelled. Ticks run on this goroutine, so one
// tick always finishes before the next starts.
func (s *Scanner) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Check()
		}
	}
}

// Check performs a single scan and returns the number of notifications
// emitted. Without granted permission it emits nothing but keeps the
// tasks eligible, so they fire on the first tick after permission is
// granted mid-session.
func (s *Scanner) Check() int {
	if s.capability.Permission() != notify.PermissionGranted {
		return 0
	}

	now := s.now()
	fired := 0
	for _, t := range s.store.Tasks() {
		if t.IsCompleted {
			continue
		}
		if !t.IsDueToday(now) || !t.DueDate.Before(now) {
			continue
		}
		if s.store.IsNotified(t.ID) {
			continue
		}
		body := fmt.Sprintf("Your task %q is overdue.", t.Title)
		if err := s.capability.Display("Task Overdue!", body); err != nil {
			s.logger.Warn("displaying overdue notification", "task", t.ID, "err", err)
		}
		s.store.MarkNotified(t.ID)
		fired++
	}
	return fired
}
