package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"stayfinder/internal/domain/booking"
	"stayfinder/internal/domain/shared/events"
)

const (
	TopicOwnerNotifications   = "owner-notifications"
	TopicBookingStatusUpdates = "booking-status-updates"
)

// Notifier fans booking lifecycle events out to Kafka. Created events go
// to the owner-notifications topic; status changes go to the
// booking-status-updates topic. Callers treat publish failures as
// best-effort and never roll back a transition on them.
type Notifier struct {
	producer    *Producer
	topicPrefix string
}

func NewNotifier(producer *Producer, topicPrefix string) *Notifier {
	return &Notifier{producer: producer, topicPrefix: topicPrefix}
}

type envelope struct {
	ID         string          `json:"id"`
	EventType  string          `json:"eventType"`
	BookingID  string          `json:"bookingId"`
	PropertyID string          `json:"propertyId,omitempty"`
	Status     string          `json:"status,omitempty"`
	UpdatedBy  string          `json:"updatedBy,omitempty"`
	Reason     string          `json:"reason,omitempty"`
	Timestamp  time.Time       `json:"timestamp"`
	Details    json.RawMessage `json:"details,omitempty"`
}

func (n *Notifier) Publish(ctx context.Context, event events.DomainEvent) error {
	topic, env, err := n.envelope(event)
	if err != nil {
		return err
	}
	payload, err := json.Marshal(env)
	if err != nil {
		return err
	}
	headers := map[string]string{"event": event.EventName()}
	return n.producer.Publish(ctx, n.topicPrefix+topic, env.BookingID, payload, headers)
}

func (n *Notifier) envelope(event events.DomainEvent) (string, envelope, error) {
	switch e := event.(type) {
	case booking.Created:
		details, err := json.Marshal(map[string]any{
			"checkInDate":     e.Range.CheckIn,
			"checkOutDate":    e.Range.CheckOut,
			"guests":          e.Guests,
			"totalPriceCents": e.TotalPriceCents,
		})
		if err != nil {
			return "", envelope{}, err
		}
		return TopicOwnerNotifications, envelope{
			ID:         fmt.Sprintf("notification-%s", e.BookingID),
			EventType:  "BOOKING_CREATED",
			BookingID:  string(e.BookingID),
			PropertyID: string(e.PropertyID),
			Timestamp:  e.At,
			Details:    details,
		}, nil
	case booking.Accepted:
		return TopicBookingStatusUpdates, envelope{
			ID:         fmt.Sprintf("status-%s-%d", e.BookingID, e.At.UnixMilli()),
			EventType:  "BOOKING_ACCEPTED",
			BookingID:  string(e.BookingID),
			PropertyID: string(e.PropertyID),
			Status:     string(booking.StatusAccepted),
			UpdatedBy:  string(booking.RoleOwner),
			Timestamp:  e.At,
		}, nil
	case booking.Cancelled:
		return TopicBookingStatusUpdates, envelope{
			ID:         fmt.Sprintf("status-%s-%d", e.BookingID, e.At.UnixMilli()),
			EventType:  "BOOKING_CANCELLED",
			BookingID:  string(e.BookingID),
			PropertyID: string(e.PropertyID),
			Status:     string(booking.StatusCancelled),
			UpdatedBy:  string(e.By),
			Reason:     e.Reason,
			Timestamp:  e.At,
		}, nil
	default:
		return "", envelope{}, fmt.Errorf("kafka: unknown event %q", event.EventName())
	}
}
