package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"stayfinder/internal/domain/booking"
	"stayfinder/internal/domain/shared/daterange"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newBooking(t *testing.T, id booking.BookingID, status booking.Status, in, out time.Time) *booking.Booking {
	t.Helper()
	dr, err := daterange.New(in, out)
	if err != nil {
		t.Fatalf("daterange.New: %v", err)
	}
	b, err := booking.New(booking.CreateParams{
		ID:              id,
		PropertyID:      "p-1",
		TravelerID:      "t-1",
		Range:           dr,
		Guests:          2,
		TotalPriceCents: 10000,
		CreatedAt:       date(2025, 12, 1),
	})
	if err != nil {
		t.Fatalf("booking.New: %v", err)
	}
	b.Status = status
	return b
}

func TestBookingRepositoryRoundTrip(t *testing.T) {
	repo := NewBookingRepository()
	ctx := context.Background()

	b := newBooking(t, "b-1", booking.StatusPending, date(2026, 1, 10), date(2026, 1, 15))
	if err := repo.Insert(ctx, b); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if b.Version != 1 {
		t.Errorf("Version after insert = %d, want 1", b.Version)
	}

	got, err := repo.ByID(ctx, "b-1")
	if err != nil {
		t.Fatalf("ByID: %v", err)
	}
	if got.Status != booking.StatusPending || !got.Range.CheckIn.Equal(date(2026, 1, 10)) {
		t.Errorf("round-tripped booking = %+v", got)
	}

	if _, err := repo.ByID(ctx, "missing"); !errors.Is(err, booking.ErrNotFound) {
		t.Errorf("ByID(missing) error = %v, want ErrNotFound", err)
	}
}

func TestBookingRepositoryOptimisticConcurrency(t *testing.T) {
	repo := NewBookingRepository()
	ctx := context.Background()

	b := newBooking(t, "b-1", booking.StatusPending, date(2026, 1, 10), date(2026, 1, 15))
	if err := repo.Insert(ctx, b); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	// Two readers load the same version; the slower writer loses.
	first, _ := repo.ByID(ctx, "b-1")
	second, _ := repo.ByID(ctx, "b-1")

	if err := first.Accept(date(2025, 12, 2)); err != nil {
		t.Fatalf("Accept: %v", err)
	}
	if err := repo.Update(ctx, first); err != nil {
		t.Fatalf("first Update: %v", err)
	}

	if err := second.Cancel(booking.RoleTraveler, "", date(2025, 12, 2)); err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if err := repo.Update(ctx, second); !errors.Is(err, booking.ErrConcurrentUpdate) {
		t.Errorf("stale Update error = %v, want ErrConcurrentUpdate", err)
	}

	stored, _ := repo.ByID(ctx, "b-1")
	if stored.Status != booking.StatusAccepted {
		t.Errorf("stored status = %q, want ACCEPTED (stale write must not apply)", stored.Status)
	}
}

func TestBookingRepositoryDuplicateInsert(t *testing.T) {
	repo := NewBookingRepository()
	ctx := context.Background()

	b := newBooking(t, "b-1", booking.StatusPending, date(2026, 1, 10), date(2026, 1, 15))
	if err := repo.Insert(ctx, b); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	dup := newBooking(t, "b-1", booking.StatusPending, date(2026, 2, 10), date(2026, 2, 15))
	if err := repo.Insert(ctx, dup); !errors.Is(err, booking.ErrConcurrentUpdate) {
		t.Errorf("duplicate Insert error = %v, want ErrConcurrentUpdate", err)
	}
}

func TestBlockingFiltersStatusAndProperty(t *testing.T) {
	repo := NewBookingRepository()
	ctx := context.Background()

	seed := []*booking.Booking{
		newBooking(t, "b-1", booking.StatusPending, date(2026, 1, 10), date(2026, 1, 15)),
		newBooking(t, "b-2", booking.StatusAccepted, date(2026, 1, 20), date(2026, 1, 25)),
		newBooking(t, "b-3", booking.StatusCancelled, date(2026, 1, 10), date(2026, 1, 15)),
	}
	other := newBooking(t, "b-4", booking.StatusAccepted, date(2026, 1, 10), date(2026, 1, 15))
	other.PropertyID = "p-2"
	seed = append(seed, other)
	for _, b := range seed {
		if err := repo.Insert(ctx, b); err != nil {
			t.Fatalf("Insert %s: %v", b.ID, err)
		}
	}

	dr, _ := daterange.New(date(2026, 1, 1), date(2026, 2, 1))
	got, err := repo.Blocking(ctx, "p-1", dr)
	if err != nil {
		t.Fatalf("Blocking: %v", err)
	}
	ids := map[booking.BookingID]bool{}
	for _, b := range got {
		ids[b.ID] = true
	}
	if len(got) != 2 || !ids["b-1"] || !ids["b-2"] {
		t.Errorf("Blocking returned %v, want b-1 and b-2", ids)
	}
}

func TestListByTravelerSortsNewestFirst(t *testing.T) {
	repo := NewBookingRepository()
	ctx := context.Background()

	older := newBooking(t, "b-1", booking.StatusPending, date(2026, 1, 10), date(2026, 1, 15))
	older.CreatedAt = date(2025, 11, 1)
	newer := newBooking(t, "b-2", booking.StatusPending, date(2026, 2, 10), date(2026, 2, 15))
	newer.CreatedAt = date(2025, 12, 1)
	for _, b := range []*booking.Booking{older, newer} {
		if err := repo.Insert(ctx, b); err != nil {
			t.Fatalf("Insert: %v", err)
		}
	}

	got, err := repo.ListByTraveler(ctx, "t-1")
	if err != nil {
		t.Fatalf("ListByTraveler: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("ListByTraveler returned %d bookings, want 2", len(got))
	}
	if got[0].ID != "b-2" || got[1].ID != "b-1" {
		t.Errorf("ListByTraveler order = [%s %s], want [b-2 b-1]", got[0].ID, got[1].ID)
	}
}
