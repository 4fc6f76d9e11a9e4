package booking

import (
	"context"
	"errors"
	"time"

	"stayfinder/internal/domain/property"
	"stayfinder/internal/domain/shared/daterange"
	"stayfinder/internal/domain/shared/events"
)

var (
	ErrNotFound         = errors.New("booking: not found")
	ErrInvalidGuests    = errors.New("booking: guests count must be positive")
	ErrNegativePrice    = errors.New("booking: total price cannot be negative")
	ErrInvalidState     = errors.New("booking: invalid state transition")
	ErrForbidden        = errors.New("booking: acting user may not perform this operation")
	ErrConflict         = errors.New("booking: dates no longer available")
	ErrConcurrentUpdate = errors.New("booking: concurrent update detected")
)

type BookingID string

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusAccepted  Status = "ACCEPTED"
	StatusCancelled Status = "CANCELLED"
	// StatusCompleted is derived at read time for accepted stays whose
	// checkout has passed. It is never persisted.
	StatusCompleted Status = "COMPLETED"
)

// Role identifies which side of the booking is acting.
type Role string

const (
	RoleTraveler Role = "traveler"
	RoleOwner    Role = "owner"
	RoleNone     Role = "none"
)

// Booking is a reservation request/commitment for one property, one
// traveler and one half-open date range.
type Booking struct {
	ID                 BookingID
	PropertyID         property.PropertyID
	TravelerID         string
	Range              daterange.DateRange
	Guests             int
	TotalPriceCents    int64
	SpecialRequests    string
	Status             Status
	CancelledBy        Role
	CancellationReason string
	CancelledAt        time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
	Version            int64
	events.EventRecorder
}

// Repository persists bookings. Updates must apply the optimistic version
// filter and return ErrConcurrentUpdate on a lost race.
type Repository interface {
	ByID(ctx context.Context, id BookingID) (*Booking, error)
	Insert(ctx context.Context, b *Booking) error
	Update(ctx context.Context, b *Booking) error
	// Blocking returns the property's bookings whose status blocks the
	// given range. Implementations may pre-filter by range; callers apply
	// the authoritative overlap predicate regardless.
	Blocking(ctx context.Context, id property.PropertyID, r daterange.DateRange) ([]*Booking, error)
	ListByTraveler(ctx context.Context, travelerID string) ([]*Booking, error)
	ListByProperties(ctx context.Context, ids []property.PropertyID) ([]*Booking, error)
}

type CreateParams struct {
	ID              BookingID
	PropertyID      property.PropertyID
	TravelerID      string
	Range           daterange.DateRange
	Guests          int
	TotalPriceCents int64
	SpecialRequests string
	CreatedAt       time.Time
}

func New(params CreateParams) (*Booking, error) {
	if err := params.Range.Validate(); err != nil {
		return nil, err
	}
	if params.Guests <= 0 {
		return nil, ErrInvalidGuests
	}
	if params.TotalPriceCents < 0 {
		return nil, ErrNegativePrice
	}
	if params.TravelerID == "" {
		return nil, errors.New("booking: traveler id required")
	}
	now := params.CreatedAt.UTC()
	b := &Booking{
		ID:              params.ID,
		PropertyID:      params.PropertyID,
		TravelerID:      params.TravelerID,
		Range:           params.Range,
		Guests:          params.Guests,
		TotalPriceCents: params.TotalPriceCents,
		SpecialRequests: params.SpecialRequests,
		Status:          StatusPending,
		CancelledBy:     RoleNone,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	b.Record(Created{BookingID: b.ID, PropertyID: b.PropertyID, TravelerID: b.TravelerID, Range: b.Range, Guests: b.Guests, TotalPriceCents: b.TotalPriceCents, At: now})
	return b, nil
}

// Accept moves a pending booking to ACCEPTED. The availability re-check
// belongs to the arbiter; this only enforces the state machine.
func (b *Booking) Accept(now time.Time) error {
	if b.Status != StatusPending {
		return ErrInvalidState
	}
	b.Status = StatusAccepted
	b.UpdatedAt = now.UTC()
	b.Record(Accepted{BookingID: b.ID, PropertyID: b.PropertyID, At: b.UpdatedAt})
	return nil
}

// Cancel moves a pending or accepted booking to CANCELLED. Cancellation is
// unconditional: freeing a slot can never create a conflict.
func (b *Booking) Cancel(by Role, reason string, now time.Time) error {
	switch b.Status {
	case StatusPending, StatusAccepted:
	default:
		return ErrInvalidState
	}
	b.Status = StatusCancelled
	b.CancelledBy = by
	b.CancellationReason = reason
	b.CancelledAt = now.UTC()
	b.UpdatedAt = b.CancelledAt
	b.Record(Cancelled{BookingID: b.ID, PropertyID: b.PropertyID, By: by, Reason: reason, At: b.UpdatedAt})
	return nil
}

// EffectiveStatus classifies accepted stays whose checkout has passed as
// COMPLETED. The stored status is not touched.
func (b *Booking) EffectiveStatus(now time.Time) Status {
	if b.Status == StatusAccepted && !daterange.Day(now).Before(b.Range.CheckOut) {
		return StatusCompleted
	}
	return b.Status
}
