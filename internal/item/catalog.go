package item

import (
	"context"

	"github.com/gearshare/item-lending-backend/internal/booking"
)

// Catalog adapts the item repository to the booking module's ItemCatalog
// collaborator contract.
type Catalog struct {
	repo Repository
}

func NewCatalog(repo Repository) *Catalog {
	return &Catalog{repo: repo}
}

func (c *Catalog) GetItem(ctx context.Context, id string) (*booking.ItemRef, error) {
	i, err := c.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &booking.ItemRef{
		ID:        i.ID,
		OwnerID:   i.OwnerID,
		Available: i.Available,
	}, nil
}

func (c *Catalog) OwnedItemIDs(ctx context.Context, ownerID string) ([]string, error) {
	items, err := c.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(items))
	for idx, i := range items {
		ids[idx] = i.ID
	}
	return ids, nil
}
