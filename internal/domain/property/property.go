package property

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("property: not found")

type PropertyID string

// Property is an external reference the booking core consumes. Listing
// content, photos and pricing live elsewhere; the arbiter only needs the
// identity, the owner and the guest capacity.
type Property struct {
	ID        PropertyID
	OwnerID   string
	Name      string
	Location  string
	MaxGuests int
}

type Repository interface {
	ByID(ctx context.Context, id PropertyID) (*Property, error)
	// IDsByOwner returns the ids of every property the owner manages.
	IDsByOwner(ctx context.Context, ownerID string) ([]PropertyID, error)
}
