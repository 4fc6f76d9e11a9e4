package booking

import (
	"testing"
	"time"

	"stayfinder/internal/domain/shared/daterange"
)

func stub(t *testing.T, id BookingID, status Status, in, out time.Time) *Booking {
	t.Helper()
	return &Booking{
		ID:         id,
		PropertyID: "p-1",
		TravelerID: "t-1",
		Range:      mustRange(t, in, out),
		Status:     status,
	}
}

func TestFirstConflict(t *testing.T) {
	request := func(t *testing.T) daterange.DateRange {
		return mustRange(t, date(2026, 1, 10), date(2026, 1, 15))
	}

	tests := []struct {
		name     string
		existing []*Booking
		exclude  BookingID
		wantID   BookingID
	}{
		{
			name:     "no bookings",
			existing: nil,
		},
		{
			name: "accepted overlap blocks",
			existing: []*Booking{
				stub(t, "b-1", StatusAccepted, date(2026, 1, 12), date(2026, 1, 20)),
			},
			wantID: "b-1",
		},
		{
			name: "pending overlap blocks too",
			existing: []*Booking{
				stub(t, "b-1", StatusPending, date(2026, 1, 8), date(2026, 1, 11)),
			},
			wantID: "b-1",
		},
		{
			name: "cancelled never blocks",
			existing: []*Booking{
				stub(t, "b-1", StatusCancelled, date(2026, 1, 10), date(2026, 1, 15)),
			},
		},
		{
			name: "turnover day is allowed",
			existing: []*Booking{
				stub(t, "b-1", StatusAccepted, date(2026, 1, 5), date(2026, 1, 10)),
				stub(t, "b-2", StatusAccepted, date(2026, 1, 15), date(2026, 1, 20)),
			},
		},
		{
			name: "exclusion skips the booking under review",
			existing: []*Booking{
				stub(t, "b-1", StatusPending, date(2026, 1, 10), date(2026, 1, 15)),
			},
			exclude: "b-1",
		},
		{
			name: "exclusion does not skip other conflicts",
			existing: []*Booking{
				stub(t, "b-1", StatusPending, date(2026, 1, 10), date(2026, 1, 15)),
				stub(t, "b-2", StatusAccepted, date(2026, 1, 14), date(2026, 1, 18)),
			},
			exclude: "b-1",
			wantID:  "b-2",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FirstConflict(tt.existing, request(t), tt.exclude)
			if tt.wantID == "" {
				if got != nil {
					t.Errorf("FirstConflict() = %v, want nil", got.ID)
				}
				return
			}
			if got == nil {
				t.Fatalf("FirstConflict() = nil, want %v", tt.wantID)
			}
			if got.ID != tt.wantID {
				t.Errorf("FirstConflict() = %v, want %v", got.ID, tt.wantID)
			}
		})
	}
}

func TestFirstAcceptedConflict(t *testing.T) {
	request := mustRange(t, date(2026, 1, 10), date(2026, 1, 15))

	t.Run("pending overlap does not block acceptance", func(t *testing.T) {
		existing := []*Booking{
			stub(t, "b-1", StatusPending, date(2026, 1, 10), date(2026, 1, 15)),
			stub(t, "b-2", StatusPending, date(2026, 1, 12), date(2026, 1, 18)),
		}
		if got := FirstAcceptedConflict(existing, request, "b-1"); got != nil {
			t.Errorf("FirstAcceptedConflict() = %v, want nil", got.ID)
		}
	})

	t.Run("accepted overlap blocks", func(t *testing.T) {
		existing := []*Booking{
			stub(t, "b-1", StatusPending, date(2026, 1, 10), date(2026, 1, 15)),
			stub(t, "b-2", StatusAccepted, date(2026, 1, 12), date(2026, 1, 18)),
		}
		got := FirstAcceptedConflict(existing, request, "b-1")
		if got == nil || got.ID != "b-2" {
			t.Errorf("FirstAcceptedConflict() = %v, want b-2", got)
		}
	})
}

func TestStatusBlocks(t *testing.T) {
	tests := []struct {
		status Status
		want   bool
	}{
		{StatusPending, true},
		{StatusAccepted, true},
		{StatusCancelled, false},
		{StatusCompleted, false},
	}
	for _, tt := range tests {
		if got := StatusBlocks(tt.status); got != tt.want {
			t.Errorf("StatusBlocks(%q) = %v, want %v", tt.status, got, tt.want)
		}
	}
}
