// Package arbiter decides whether a property is free for a date range and
// guards every booking transition into PENDING or ACCEPTED with that
// decision. It is the only writer of booking status.
package arbiter

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"stayfinder/internal/domain/booking"
	"stayfinder/internal/domain/property"
	"stayfinder/internal/domain/shared/daterange"
)

type Service struct {
	bookings   booking.Repository
	properties property.Repository
	locks      *propertyLocks
	notifier   Notifier
	clock      func() time.Time
	backoff    []time.Duration
	log        *slog.Logger
}

type Deps struct {
	Bookings   booking.Repository
	Properties property.Repository
	Notifier   Notifier
	Clock      func() time.Time
	// RetryBackoff bounds retries of the check+write critical section on
	// transient storage faults. Logical errors are never retried.
	RetryBackoff []time.Duration
	Logger       *slog.Logger
}

func New(deps Deps) *Service {
	s := &Service{
		bookings:   deps.Bookings,
		properties: deps.Properties,
		locks:      newPropertyLocks(),
		notifier:   deps.Notifier,
		clock:      deps.Clock,
		backoff:    deps.RetryBackoff,
		log:        deps.Logger,
	}
	if s.notifier == nil {
		s.notifier = NopNotifier{}
	}
	if s.clock == nil {
		s.clock = time.Now
	}
	if s.log == nil {
		s.log = slog.Default()
	}
	return s
}

// CheckAvailability reports whether the property is free for [checkIn,
// checkOut). PENDING and ACCEPTED bookings both block; excludeID skips the
// booking under re-validation on the accept path. Read-only: a storage
// fault propagates as an error, never as an availability answer.
func (s *Service) CheckAvailability(ctx context.Context, id property.PropertyID, r daterange.DateRange, excludeID booking.BookingID) (bool, error) {
	if err := r.Validate(); err != nil {
		return false, err
	}
	existing, err := s.bookings.Blocking(ctx, id, r)
	if err != nil {
		return false, fmt.Errorf("arbiter: fetch blocking bookings: %w", err)
	}
	return booking.FirstConflict(existing, r, excludeID) == nil, nil
}

type CreateParams struct {
	PropertyID      property.PropertyID
	TravelerID      string
	CheckIn         time.Time
	CheckOut        time.Time
	Guests          int
	TotalPriceCents int64
	SpecialRequests string
}

// CreateBooking persists a new PENDING booking if the range is free. The
// availability check and the insert run under the property's lock so that
// two concurrent requests for overlapping ranges cannot both pass.
func (s *Service) CreateBooking(ctx context.Context, params CreateParams) (*booking.Booking, error) {
	r, err := daterange.New(params.CheckIn, params.CheckOut)
	if err != nil {
		return nil, err
	}
	if err := booking.ValidateDateRange(r, s.clock()); err != nil {
		return nil, err
	}
	if _, err := s.properties.ByID(ctx, params.PropertyID); err != nil {
		return nil, err
	}

	var b *booking.Booking
	err = s.withRetry(ctx, func() error {
		unlock := s.locks.acquire(params.PropertyID)
		defer unlock()

		existing, err := s.bookings.Blocking(ctx, params.PropertyID, r)
		if err != nil {
			return fmt.Errorf("arbiter: fetch blocking bookings: %w", err)
		}
		if conflict := booking.FirstConflict(existing, r, ""); conflict != nil {
			return booking.ErrConflict
		}
		b, err = booking.New(booking.CreateParams{
			ID:              booking.BookingID(uuid.NewString()),
			PropertyID:      params.PropertyID,
			TravelerID:      params.TravelerID,
			Range:           r,
			Guests:          params.Guests,
			TotalPriceCents: params.TotalPriceCents,
			SpecialRequests: params.SpecialRequests,
			CreatedAt:       s.clock(),
		})
		if err != nil {
			return err
		}
		return s.bookings.Insert(ctx, b)
	})
	if err != nil {
		return nil, err
	}
	s.publish(ctx, b)
	return b, nil
}

// AcceptBooking flips a PENDING booking to ACCEPTED after re-checking
// availability with the booking itself excluded. Time passes between a
// request and its acceptance; an overlapping request may have been
// accepted in the interim. Only ACCEPTED bookings block here: overlapping
// PENDING requests compete for the slot, and the first acceptance wins.
func (s *Service) AcceptBooking(ctx context.Context, id booking.BookingID, actingOwnerID string) (*booking.Booking, error) {
	head, err := s.bookings.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	prop, err := s.properties.ByID(ctx, head.PropertyID)
	if err != nil {
		return nil, err
	}
	if prop.OwnerID != actingOwnerID {
		return nil, booking.ErrForbidden
	}

	var b *booking.Booking
	err = s.withRetry(ctx, func() error {
		unlock := s.locks.acquire(head.PropertyID)
		defer unlock()

		b, err = s.bookings.ByID(ctx, id)
		if err != nil {
			return err
		}
		if b.Status != booking.StatusPending {
			return booking.ErrInvalidState
		}
		existing, err := s.bookings.Blocking(ctx, b.PropertyID, b.Range)
		if err != nil {
			return fmt.Errorf("arbiter: fetch blocking bookings: %w", err)
		}
		if conflict := booking.FirstAcceptedConflict(existing, b.Range, b.ID); conflict != nil {
			return booking.ErrConflict
		}
		if err := b.Accept(s.clock()); err != nil {
			return err
		}
		return s.bookings.Update(ctx, b)
	})
	if err != nil {
		return nil, err
	}
	s.publish(ctx, b)
	return b, nil
}

// CancelBooking moves a non-terminal booking to CANCELLED. No availability
// re-check: freeing a slot never creates a conflict.
func (s *Service) CancelBooking(ctx context.Context, id booking.BookingID, actingUserID string, role booking.Role, reason string) (*booking.Booking, error) {
	head, err := s.bookings.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeCancel(ctx, head, actingUserID, role); err != nil {
		return nil, err
	}

	var b *booking.Booking
	err = s.withRetry(ctx, func() error {
		b, err = s.bookings.ByID(ctx, id)
		if err != nil {
			return err
		}
		if err := b.Cancel(role, reason, s.clock()); err != nil {
			return err
		}
		return s.bookings.Update(ctx, b)
	})
	if err != nil {
		return nil, err
	}
	s.publish(ctx, b)
	return b, nil
}

func (s *Service) authorizeCancel(ctx context.Context, b *booking.Booking, userID string, role booking.Role) error {
	switch role {
	case booking.RoleTraveler:
		if b.TravelerID != userID {
			return booking.ErrForbidden
		}
	case booking.RoleOwner:
		prop, err := s.properties.ByID(ctx, b.PropertyID)
		if err != nil {
			return err
		}
		if prop.OwnerID != userID {
			return booking.ErrForbidden
		}
	default:
		return booking.ErrForbidden
	}
	return nil
}

// FilterAvailable keeps the candidate properties that are free for the
// range. Search reads are point-in-time; a stale answer merely risks a
// doomed create attempt that the arbiter will reject.
func (s *Service) FilterAvailable(ctx context.Context, candidates []property.PropertyID, r daterange.DateRange) ([]property.PropertyID, error) {
	available := make([]property.PropertyID, 0, len(candidates))
	for _, id := range candidates {
		free, err := s.CheckAvailability(ctx, id, r, "")
		if err != nil {
			return nil, err
		}
		if free {
			available = append(available, id)
		}
	}
	return available, nil
}

func (s *Service) GetBooking(ctx context.Context, id booking.BookingID) (*booking.Booking, error) {
	return s.bookings.ByID(ctx, id)
}

func (s *Service) ListTravelerBookings(ctx context.Context, travelerID string) ([]*booking.Booking, error) {
	return s.bookings.ListByTraveler(ctx, travelerID)
}

// ListOwnerBookings returns bookings across every property the owner
// manages.
func (s *Service) ListOwnerBookings(ctx context.Context, ownerID string) ([]*booking.Booking, error) {
	ids, err := s.properties.IDsByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}
	return s.bookings.ListByProperties(ctx, ids)
}
