package theme

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/halvarsson/hemma/internal/model"
)

// Resolver tracks the current month and an optional event-category
// override, and answers "which theme is active right now". The month is
// refreshed on a polling interval rather than a precise month-boundary
// timer; a theme change lands within one poll of midnight.
type Resolver struct {
	now    func() time.Time
	logger *slog.Logger

	mu       sync.RWMutex
	month    int
	override *model.EventCategory

	stop chan struct{}
	done chan struct{}
}

func NewResolver(logger *slog.Logger) *Resolver {
	return newResolver(time.Now, logger)
}

func newResolver(now func() time.Time, logger *slog.Logger) *Resolver {
	r := &Resolver{
		now:    now,
		logger: logger.With("component", "theme"),
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
	r.month = int(now().Month()) - 1
	return r
}

// Resolve returns the active theme identifier: the override's category
// theme if one is set, otherwise the current month's theme.
func (r *Resolver) Resolve() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.override != nil {
		return ForCategory(*r.override)
	}
	return ForMonth(r.month)
}

// Name returns the active theme's display name. An override shows the
// default name since category themes have no seasonal calendar name.
func (r *Resolver) Name() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.override != nil {
		return DefaultName
	}
	return SeasonName(r.month)
}

// SetEventTheme sets the category override. Invalid categories are ignored.
func (r *Resolver) SetEventTheme(category model.EventCategory) {
	if !category.Valid() {
		return
	}
	r.mu.Lock()
	r.override = &category
	r.mu.Unlock()
}

// ClearEventTheme removes the override, reverting to the month theme on
// the next Resolve.
func (r *Resolver) ClearEventTheme() {
	r.mu.Lock()
	r.override = nil
	r.mu.Unlock()
}

// Refresh re-reads the current month from the clock.
func (r *Resolver) Refresh() {
	month := int(r.now().Month()) - 1
	r.mu.Lock()
	changed := month != r.month
	r.month = month
	r.mu.Unlock()
	if changed {
		r.logger.Info("month theme changed", "theme", ForMonth(month), "name", SeasonName(month))
	}
}

// Start begins polling for month changes until ctx is cancelled or Stop is
// called.
func (r *Resolver) Start(ctx context.Context, interval time.Duration) {
	go func() {
		defer close(r.done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-r.stop:
				return
			case <-ticker.C:
				r.Refresh()
			}
		}
	}()
}

// Stop halts the polling goroutine and waits for it to exit.
func (r *Resolver) Stop() {
	close(r.stop)
	<-r.done
}
