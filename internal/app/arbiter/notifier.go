package arbiter

import (
	"context"

	"stayfinder/internal/domain/shared/events"
)

// Notifier receives booking lifecycle events after a state transition has
// committed. Delivery is best-effort: a failed publish is logged and
// swallowed, never surfaced as a transition failure.
type Notifier interface {
	Publish(ctx context.Context, event events.DomainEvent) error
}

type NopNotifier struct{}

func (NopNotifier) Publish(ctx context.Context, event events.DomainEvent) error { return nil }

// publish drains the aggregate's pending events into the notifier. Runs
// outside the property lock.
func (s *Service) publish(ctx context.Context, rec interface {
	PendingEvents() []events.DomainEvent
	ClearEvents()
}) {
	pending := rec.PendingEvents()
	rec.ClearEvents()
	for _, ev := range pending {
		if err := s.notifier.Publish(ctx, ev); err != nil {
			s.log.Warn("event publish failed", "event", ev.EventName(), "aggregate", ev.AggregateID(), "error", err)
		}
	}
}
