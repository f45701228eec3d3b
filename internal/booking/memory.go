package booking

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// memoryRepository is an in-memory Repository used by small deployments and
// unit tests. It replaces the process-wide maps of the legacy storage variant
// with an injected, mutex-guarded store.
type memoryRepository struct {
	mu       sync.RWMutex
	bookings map[string]*Booking
}

func NewMemoryRepository() Repository {
	return &memoryRepository{
		bookings: make(map[string]*Booking),
	}
}

func (r *memoryRepository) Create(ctx context.Context, b *Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	b.ID = uuid.New().String()
	b.CreatedAt = now
	b.UpdatedAt = now

	clone := *b
	r.bookings[b.ID] = &clone
	return nil
}

func (r *memoryRepository) GetByID(ctx context.Context, id string) (*Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.bookings[id]
	if !ok {
		return nil, ErrNotFound
	}
	clone := *b
	return &clone, nil
}

func (r *memoryRepository) UpdateStatus(ctx context.Context, id string, from, to Status) (*Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.bookings[id]
	if !ok {
		return nil, ErrNotFound
	}
	if b.Status != from {
		return nil, ErrStatusConflict
	}

	b.Status = to
	b.UpdatedAt = time.Now().UTC()

	clone := *b
	return &clone, nil
}

func (r *memoryRepository) List(ctx context.Context, q Query) ([]*Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []*Booking
	for _, b := range r.bookings {
		if !matches(b, q) {
			continue
		}
		clone := *b
		matched = append(matched, &clone)
	}

	sortByStartDesc(matched)

	if q.Size <= 0 {
		return matched, nil
	}

	offset := q.Page * q.Size
	if offset >= len(matched) {
		return nil, nil
	}
	end := offset + q.Size
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], nil
}

func (r *memoryRepository) ListAllByItemIDs(ctx context.Context, itemIDs []string) ([]*Booking, error) {
	return r.List(ctx, Query{ItemIDs: itemIDs})
}

func (r *memoryRepository) FindLastFinished(ctx context.Context, bookerID, itemID string, before time.Time) (*Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var found *Booking
	for _, b := range r.bookings {
		if b.BookerID != bookerID || b.ItemID != itemID || b.Status != StatusApproved {
			continue
		}
		if !b.End.Before(before) {
			continue
		}
		if found == nil || b.End.After(found.End) {
			found = b
		}
	}
	if found == nil {
		return nil, ErrNotFound
	}
	clone := *found
	return &clone, nil
}

func matches(b *Booking, q Query) bool {
	if q.BookerID != "" && b.BookerID != q.BookerID {
		return false
	}
	if len(q.ItemIDs) > 0 && !containsString(q.ItemIDs, b.ItemID) {
		return false
	}
	if q.Status != "" && b.Status != q.Status {
		return false
	}
	if q.ActiveAt != nil && (b.Start.After(*q.ActiveAt) || b.End.Before(*q.ActiveAt)) {
		return false
	}
	if q.EndBefore != nil && !b.End.Before(*q.EndBefore) {
		return false
	}
	if q.StartAfter != nil && !b.Start.After(*q.StartAfter) {
		return false
	}
	return true
}

func sortByStartDesc(bookings []*Booking) {
	sort.SliceStable(bookings, func(i, j int) bool {
		return bookings[i].Start.After(bookings[j].Start)
	})
}

func containsString(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}
