package memory

import (
	"context"
	"sync"

	"stayfinder/internal/domain/property"
)

type PropertyRepository struct {
	mu    sync.RWMutex
	items map[property.PropertyID]property.Property
}

func NewPropertyRepository() *PropertyRepository {
	return &PropertyRepository{items: make(map[property.PropertyID]property.Property)}
}

func (r *PropertyRepository) ByID(ctx context.Context, id property.PropertyID) (*property.Property, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.items[id]
	if !ok {
		return nil, property.ErrNotFound
	}
	item := p
	return &item, nil
}

func (r *PropertyRepository) IDsByOwner(ctx context.Context, ownerID string) ([]property.PropertyID, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []property.PropertyID
	for id, p := range r.items {
		if p.OwnerID == ownerID {
			out = append(out, id)
		}
	}
	return out, nil
}

// Save seeds or updates a property entry. Listing management proper lives
// outside this service; this exists for fixtures and tests.
func (r *PropertyRepository) Save(ctx context.Context, p *property.Property) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[p.ID] = *p
	return nil
}
