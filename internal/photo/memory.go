package photo

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// memoryRepository is an in-memory Repository for tests and small deployments.
type memoryRepository struct {
	mu     sync.RWMutex
	photos map[string]*Photo
}

func NewMemoryRepository() Repository {
	return &memoryRepository{
		photos: make(map[string]*Photo),
	}
}

func (r *memoryRepository) Create(ctx context.Context, p *Photo) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// The service assigns IDs up front so the storage path can embed them.
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	clone := *p
	r.photos[p.ID] = &clone
	return nil
}

func (r *memoryRepository) GetByID(ctx context.Context, id string) (*Photo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.photos[id]
	if !ok {
		return nil, ErrNotFound
	}
	clone := *p
	return &clone, nil
}

func (r *memoryRepository) ListByItemID(ctx context.Context, itemID string) ([]*Photo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var photos []*Photo
	for _, p := range r.photos {
		if p.ItemID == itemID {
			clone := *p
			photos = append(photos, &clone)
		}
	}
	sort.Slice(photos, func(a, b int) bool {
		return photos[a].CreatedAt.Before(photos[b].CreatedAt)
	})
	return photos, nil
}

func (r *memoryRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.photos[id]; !ok {
		return ErrNotFound
	}
	delete(r.photos, id)
	return nil
}
