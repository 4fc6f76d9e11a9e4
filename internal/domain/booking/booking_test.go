package booking

import (
	"errors"
	"testing"
	"time"

	"stayfinder/internal/domain/shared/daterange"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func mustRange(t *testing.T, in, out time.Time) daterange.DateRange {
	t.Helper()
	dr, err := daterange.New(in, out)
	if err != nil {
		t.Fatalf("daterange.New: %v", err)
	}
	return dr
}

func validParams(t *testing.T) CreateParams {
	return CreateParams{
		ID:              "b-1",
		PropertyID:      "p-1",
		TravelerID:      "t-1",
		Range:           mustRange(t, date(2026, 1, 10), date(2026, 1, 15)),
		Guests:          2,
		TotalPriceCents: 50000,
		CreatedAt:       date(2026, 1, 1),
	}
}

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*CreateParams)
		wantErr error
	}{
		{"zero guests", func(p *CreateParams) { p.Guests = 0 }, ErrInvalidGuests},
		{"negative guests", func(p *CreateParams) { p.Guests = -1 }, ErrInvalidGuests},
		{"negative price", func(p *CreateParams) { p.TotalPriceCents = -1 }, ErrNegativePrice},
		{"empty range", func(p *CreateParams) { p.Range = daterange.DateRange{} }, daterange.ErrInvalidRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := validParams(t)
			tt.mutate(&params)
			if _, err := New(params); !errors.Is(err, tt.wantErr) {
				t.Errorf("New() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewStartsPending(t *testing.T) {
	b, err := New(validParams(t))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if b.Status != StatusPending {
		t.Errorf("Status = %q, want %q", b.Status, StatusPending)
	}
	if b.CancelledBy != RoleNone {
		t.Errorf("CancelledBy = %q, want %q", b.CancelledBy, RoleNone)
	}
	pending := b.PendingEvents()
	if len(pending) != 1 {
		t.Fatalf("PendingEvents() = %d events, want 1", len(pending))
	}
	if pending[0].EventName() != "booking.created" {
		t.Errorf("event = %q, want booking.created", pending[0].EventName())
	}
}

func TestStateMachine(t *testing.T) {
	now := date(2026, 1, 2)

	t.Run("pending accepts", func(t *testing.T) {
		b, _ := New(validParams(t))
		if err := b.Accept(now); err != nil {
			t.Fatalf("Accept: %v", err)
		}
		if b.Status != StatusAccepted {
			t.Errorf("Status = %q, want %q", b.Status, StatusAccepted)
		}
	})

	t.Run("accepted cannot accept again", func(t *testing.T) {
		b, _ := New(validParams(t))
		_ = b.Accept(now)
		if err := b.Accept(now); !errors.Is(err, ErrInvalidState) {
			t.Errorf("second Accept error = %v, want ErrInvalidState", err)
		}
		if b.Status != StatusAccepted {
			t.Errorf("failed accept mutated status to %q", b.Status)
		}
	})

	t.Run("pending cancels", func(t *testing.T) {
		b, _ := New(validParams(t))
		if err := b.Cancel(RoleTraveler, "changed plans", now); err != nil {
			t.Fatalf("Cancel: %v", err)
		}
		if b.Status != StatusCancelled {
			t.Errorf("Status = %q, want %q", b.Status, StatusCancelled)
		}
		if b.CancelledBy != RoleTraveler {
			t.Errorf("CancelledBy = %q, want %q", b.CancelledBy, RoleTraveler)
		}
		if b.CancellationReason != "changed plans" {
			t.Errorf("CancellationReason = %q", b.CancellationReason)
		}
		if !b.CancelledAt.Equal(now) {
			t.Errorf("CancelledAt = %v, want %v", b.CancelledAt, now)
		}
	})

	t.Run("accepted cancels", func(t *testing.T) {
		b, _ := New(validParams(t))
		_ = b.Accept(now)
		if err := b.Cancel(RoleOwner, "", now); err != nil {
			t.Fatalf("Cancel after accept: %v", err)
		}
	})

	t.Run("cancelled is terminal", func(t *testing.T) {
		b, _ := New(validParams(t))
		_ = b.Cancel(RoleTraveler, "", now)
		if err := b.Cancel(RoleTraveler, "", now); !errors.Is(err, ErrInvalidState) {
			t.Errorf("re-cancel error = %v, want ErrInvalidState", err)
		}
		if err := b.Accept(now); !errors.Is(err, ErrInvalidState) {
			t.Errorf("accept after cancel error = %v, want ErrInvalidState", err)
		}
	})
}

func TestEffectiveStatus(t *testing.T) {
	b, _ := New(validParams(t))
	_ = b.Accept(date(2026, 1, 2))

	tests := []struct {
		name string
		now  time.Time
		want Status
	}{
		{"before stay", date(2026, 1, 5), StatusAccepted},
		{"during stay", date(2026, 1, 12), StatusAccepted},
		{"checkout day", date(2026, 1, 15), StatusCompleted},
		{"after stay", date(2026, 2, 1), StatusCompleted},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := b.EffectiveStatus(tt.now); got != tt.want {
				t.Errorf("EffectiveStatus(%v) = %q, want %q", tt.now, got, tt.want)
			}
		})
	}

	t.Run("pending never completes", func(t *testing.T) {
		p, _ := New(validParams(t))
		if got := p.EffectiveStatus(date(2026, 2, 1)); got != StatusPending {
			t.Errorf("EffectiveStatus = %q, want %q", got, StatusPending)
		}
	})
}

func TestValidateDateRange(t *testing.T) {
	now := time.Date(2026, 1, 10, 14, 0, 0, 0, time.UTC)
	tests := []struct {
		name    string
		checkIn time.Time
		wantErr error
	}{
		{"future check-in", date(2026, 1, 12), nil},
		{"same-day check-in", date(2026, 1, 10), nil},
		{"past check-in", date(2026, 1, 9), ErrCheckInInPast},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dr := daterange.DateRange{CheckIn: tt.checkIn, CheckOut: tt.checkIn.AddDate(0, 0, 5)}
			if err := ValidateDateRange(dr, now); !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateDateRange error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
