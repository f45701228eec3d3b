package itemrequest

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// memoryRepository is an in-memory Repository for tests and small deployments.
type memoryRepository struct {
	mu       sync.RWMutex
	requests map[string]*ItemRequest
}

func NewMemoryRepository() Repository {
	return &memoryRepository{
		requests: make(map[string]*ItemRequest),
	}
}

func (r *memoryRepository) Create(ctx context.Context, req *ItemRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	req.ID = uuid.New().String()
	clone := *req
	r.requests[req.ID] = &clone
	return nil
}

func (r *memoryRepository) GetByID(ctx context.Context, id string) (*ItemRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	req, ok := r.requests[id]
	if !ok {
		return nil, ErrNotFound
	}
	clone := *req
	return &clone, nil
}

func (r *memoryRepository) ListByRequestor(ctx context.Context, requestorID string) ([]*ItemRequest, error) {
	return r.collect(func(req *ItemRequest) bool {
		return req.RequestorID == requestorID
	}), nil
}

func (r *memoryRepository) ListOthers(ctx context.Context, excludeUserID string, page, size int) ([]*ItemRequest, error) {
	matched := r.collect(func(req *ItemRequest) bool {
		return req.RequestorID != excludeUserID
	})

	if size <= 0 {
		return matched, nil
	}
	offset := page * size
	if offset >= len(matched) {
		return nil, nil
	}
	end := offset + size
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], nil
}

func (r *memoryRepository) collect(keep func(*ItemRequest) bool) []*ItemRequest {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var requests []*ItemRequest
	for _, req := range r.requests {
		if keep(req) {
			clone := *req
			requests = append(requests, &clone)
		}
	}
	sort.Slice(requests, func(a, b int) bool {
		return requests[a].CreatedAt.After(requests[b].CreatedAt)
	})
	return requests
}
