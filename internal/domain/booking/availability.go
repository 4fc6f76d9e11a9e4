package booking

import (
	"stayfinder/internal/domain/shared/daterange"
)

// StatusBlocks reports whether a booking in the given status blocks other
// requests. Both PENDING and ACCEPTED block: double bookings are rejected
// at request time, not just at acceptance time.
func StatusBlocks(s Status) bool {
	return s == StatusPending || s == StatusAccepted
}

// FirstConflict returns the first booking among existing that blocks the
// requested range, skipping excludeID. The overlap predicate is the single
// source of truth for availability; no storage backend reimplements it.
func FirstConflict(existing []*Booking, r daterange.DateRange, excludeID BookingID) *Booking {
	return firstConflict(existing, r, excludeID, StatusBlocks)
}

// FirstAcceptedConflict is the accept-time arbitration predicate: only an
// ACCEPTED booking stands in the way of accepting a pending request.
// Overlapping PENDING requests compete for the same slot; the first one
// accepted wins and the rest fail on this check. excludeID skips the
// booking under review, which is itself part of the existing set.
func FirstAcceptedConflict(existing []*Booking, r daterange.DateRange, excludeID BookingID) *Booking {
	return firstConflict(existing, r, excludeID, func(s Status) bool { return s == StatusAccepted })
}

func firstConflict(existing []*Booking, r daterange.DateRange, excludeID BookingID, blocks func(Status) bool) *Booking {
	for _, b := range existing {
		if b == nil || b.ID == excludeID {
			continue
		}
		if !blocks(b.Status) {
			continue
		}
		if b.Range.Overlaps(r) {
			return b
		}
	}
	return nil
}
