// Package notify runs the periodic notification sweep: due, unsent
// notification rows are promoted to sent in one batch, then delivered to
// the household's push subscriptions best-effort.
package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/halvarsson/hemma/internal/metrics"
	"github.com/halvarsson/hemma/internal/model"
	"github.com/halvarsson/hemma/internal/push"
	"github.com/halvarsson/hemma/internal/store"
)

const defaultInterval = 60 * time.Second

// Sweeper promotes and delivers scheduled notifications on a ticker.
type Sweeper struct {
	notifications *store.NotificationStore
	subscriptions *store.PushStore
	service       *push.Service
	logger        *slog.Logger
	interval      time.Duration
	now           func() time.Time

	mu     sync.RWMutex
	cancel context.CancelFunc
	done   chan struct{}
}

func NewSweeper(notifications *store.NotificationStore, subscriptions *store.PushStore, service *push.Service, logger *slog.Logger) *Sweeper {
	return &Sweeper{
		notifications: notifications,
		subscriptions: subscriptions,
		service:       service,
		logger:        logger.With("component", "sweeper"),
		interval:      defaultInterval,
		now:           time.Now,
	}
}

// Start begins the sweep loop.
func (s *Sweeper) Start(ctx context.Context) {
	s.mu.Lock()
	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})
	s.mu.Unlock()

	go func() {
		defer close(s.done)
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if _, err := s.SweepOnce(); err != nil {
					s.logger.Error("sweep failed", "error", err)
				}
			}
		}
	}()
}

// Stop gracefully stops the sweep loop.
func (s *Sweeper) Stop() {
	s.mu.RLock()
	cancel := s.cancel
	done := s.done
	s.mu.RUnlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}
}

// SweepOnce promotes every due notification and pushes it out, returning
// the number of rows promoted. Promotion is a conditional batch update, so
// running the sweep again immediately promotes nothing and sends nothing.
func (s *Sweeper) SweepOnce() (int, error) {
	metrics.SweepRuns.Inc()

	promoted, err := s.notifications.PromoteDue(s.now())
	if err != nil {
		return 0, fmt.Errorf("promote due notifications: %w", err)
	}
	if len(promoted) == 0 {
		return 0, nil
	}
	metrics.NotificationsPromoted.Add(float64(len(promoted)))

	for _, n := range promoted {
		s.deliver(&n)
	}

	s.logger.Info("notifications promoted", "count", len(promoted))
	return len(promoted), nil
}

// deliver pushes one notification to every subscription in its household.
// Failures are logged, expired endpoints dropped; delivery never blocks
// promotion.
func (s *Sweeper) deliver(n *model.Notification) {
	subs, err := s.subscriptions.ListByHousehold(n.HouseholdID)
	if err != nil {
		s.logger.Error("list subscriptions", "household_id", n.HouseholdID, "error", err)
		return
	}

	payload := push.Payload{
		Title: n.Title,
		Body:  n.Body,
		URL:   targetURL(n),
		Tag:   fmt.Sprintf("notification-%d", n.ID),
	}

	for _, sub := range subs {
		err := s.service.Send(&sub, payload)
		switch {
		case err == nil:
			metrics.PushSends.WithLabelValues("ok").Inc()
		case errors.Is(err, push.ErrExpired):
			metrics.PushSends.WithLabelValues("expired").Inc()
			if err := s.subscriptions.DeleteByEndpoint(sub.Endpoint); err != nil {
				s.logger.Error("delete expired subscription", "error", err)
			}
		default:
			metrics.PushSends.WithLabelValues("error").Inc()
			s.logger.Warn("push delivery failed", "endpoint", sub.Endpoint, "error", err)
		}
	}
}

func targetURL(n *model.Notification) string {
	switch n.Kind {
	case model.KindEventReminder:
		if n.EventID != nil {
			return fmt.Sprintf("/calendar/events/%d", *n.EventID)
		}
		return "/calendar"
	case model.KindTodoDue:
		return "/todos"
	case model.KindSystem:
		return "/"
	}
	return "/"
}
