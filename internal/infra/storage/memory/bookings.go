package memory

import (
	"context"
	"sort"
	"sync"

	"stayfinder/internal/domain/booking"
	"stayfinder/internal/domain/property"
	"stayfinder/internal/domain/shared/daterange"
)

// BookingRepository is an in-memory implementation for tests and local
// runs. Updates honor the optimistic version filter the same way the mongo
// repository does.
type BookingRepository struct {
	mu    sync.RWMutex
	items map[booking.BookingID]booking.Booking
}

func NewBookingRepository() *BookingRepository {
	return &BookingRepository{items: make(map[booking.BookingID]booking.Booking)}
}

func (r *BookingRepository) ByID(ctx context.Context, id booking.BookingID) (*booking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.items[id]
	if !ok {
		return nil, booking.ErrNotFound
	}
	item := b
	return &item, nil
}

func (r *BookingRepository) Insert(ctx context.Context, b *booking.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.items[b.ID]; exists {
		return booking.ErrConcurrentUpdate
	}
	b.Version = 1
	stored := *b
	stored.ClearEvents()
	r.items[b.ID] = stored
	return nil
}

func (r *BookingRepository) Update(ctx context.Context, b *booking.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	current, ok := r.items[b.ID]
	if !ok {
		return booking.ErrNotFound
	}
	if current.Version != b.Version {
		return booking.ErrConcurrentUpdate
	}
	b.Version++
	stored := *b
	stored.ClearEvents()
	r.items[b.ID] = stored
	return nil
}

func (r *BookingRepository) Blocking(ctx context.Context, id property.PropertyID, dr daterange.DateRange) ([]*booking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*booking.Booking
	for _, b := range r.items {
		if b.PropertyID != id || !booking.StatusBlocks(b.Status) {
			continue
		}
		item := b
		out = append(out, &item)
	}
	return out, nil
}

func (r *BookingRepository) ListByTraveler(ctx context.Context, travelerID string) ([]*booking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*booking.Booking
	for _, b := range r.items {
		if b.TravelerID != travelerID {
			continue
		}
		item := b
		out = append(out, &item)
	}
	sortNewestFirst(out)
	return out, nil
}

func (r *BookingRepository) ListByProperties(ctx context.Context, ids []property.PropertyID) ([]*booking.Booking, error) {
	wanted := make(map[property.PropertyID]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*booking.Booking
	for _, b := range r.items {
		if _, ok := wanted[b.PropertyID]; !ok {
			continue
		}
		item := b
		out = append(out, &item)
	}
	sortNewestFirst(out)
	return out, nil
}

func sortNewestFirst(bs []*booking.Booking) {
	sort.Slice(bs, func(i, j int) bool {
		if bs[i].CreatedAt.Equal(bs[j].CreatedAt) {
			return bs[i].ID < bs[j].ID
		}
		return bs[i].CreatedAt.After(bs[j].CreatedAt)
	})
}
