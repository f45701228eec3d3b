package item

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// memoryRepository is an in-memory Repository for tests and small deployments.
type memoryRepository struct {
	mu    sync.RWMutex
	items map[string]*Item
}

func NewMemoryRepository() Repository {
	return &memoryRepository{
		items: make(map[string]*Item),
	}
}

func (r *memoryRepository) Create(ctx context.Context, i *Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i.ID = uuid.New().String()
	i.CreatedAt = time.Now().UTC()

	clone := *i
	r.items[i.ID] = &clone
	return nil
}

func (r *memoryRepository) GetByID(ctx context.Context, id string) (*Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i, ok := r.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	clone := *i
	return &clone, nil
}

func (r *memoryRepository) Update(ctx context.Context, i *Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.items[i.ID]
	if !ok {
		return ErrNotFound
	}
	stored.Name = i.Name
	stored.Description = i.Description
	stored.Available = i.Available
	return nil
}

func (r *memoryRepository) ListByOwner(ctx context.Context, ownerID string) ([]*Item, error) {
	return r.collect(func(i *Item) bool {
		return i.OwnerID == ownerID
	}), nil
}

func (r *memoryRepository) ListByRequestIDs(ctx context.Context, requestIDs []string) ([]*Item, error) {
	ids := make(map[string]struct{}, len(requestIDs))
	for _, id := range requestIDs {
		ids[id] = struct{}{}
	}
	return r.collect(func(i *Item) bool {
		if i.RequestID == nil {
			return false
		}
		_, ok := ids[*i.RequestID]
		return ok
	}), nil
}

func (r *memoryRepository) Search(ctx context.Context, text string) ([]*Item, error) {
	return r.collect(func(i *Item) bool {
		return i.Available &&
			(strings.Contains(strings.ToLower(i.Name), text) ||
				strings.Contains(strings.ToLower(i.Description), text))
	}), nil
}

func (r *memoryRepository) collect(keep func(*Item) bool) []*Item {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var items []*Item
	for _, i := range r.items {
		if keep(i) {
			clone := *i
			items = append(items, &clone)
		}
	}
	sort.Slice(items, func(a, b int) bool {
		return items[a].CreatedAt.Before(items[b].CreatedAt)
	})
	return items
}

// memoryCommentRepository is the in-memory CommentRepository counterpart.
type memoryCommentRepository struct {
	mu       sync.RWMutex
	comments []*Comment
}

func NewMemoryCommentRepository() CommentRepository {
	return &memoryCommentRepository{}
}

func (r *memoryCommentRepository) Create(ctx context.Context, c *Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c.ID = uuid.New().String()
	clone := *c
	r.comments = append(r.comments, &clone)
	return nil
}

func (r *memoryCommentRepository) ListByItemID(ctx context.Context, itemID string) ([]*Comment, error) {
	return r.ListByItemIDs(ctx, []string{itemID})
}

func (r *memoryCommentRepository) ListByItemIDs(ctx context.Context, itemIDs []string) ([]*Comment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make(map[string]struct{}, len(itemIDs))
	for _, id := range itemIDs {
		ids[id] = struct{}{}
	}

	var comments []*Comment
	for _, c := range r.comments {
		if _, ok := ids[c.ItemID]; ok {
			clone := *c
			comments = append(comments, &clone)
		}
	}
	return comments, nil
}
