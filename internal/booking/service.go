package booking

import (
	"context"
	"errors"
	"time"

	"github.com/gearshare/item-lending-backend/internal/user"
)

// ItemRef is the slice of an item the booking lifecycle needs to know about.
type ItemRef struct {
	ID        string
	OwnerID   string
	Available bool
}

// ItemCatalog resolves items owned elsewhere. Implemented by the item module.
type ItemCatalog interface {
	GetItem(ctx context.Context, id string) (*ItemRef, error)
	OwnedItemIDs(ctx context.Context, ownerID string) ([]string, error)
}

type CreateRequest struct {
	BookerID string
	ItemID   string
	Start    time.Time
	End      time.Time
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Booking, error)
	Approve(ctx context.Context, ownerID, bookingID string, approve bool) (*Booking, error)
	GetByID(ctx context.Context, viewerID, bookingID string) (*Booking, error)
	ListForBooker(ctx context.Context, userID string, state State, from, size int) ([]*Booking, error)
	ListForOwner(ctx context.Context, ownerID string, state State, from, size int) ([]*Booking, error)
}

type service struct {
	repo  Repository
	users user.Service
	items ItemCatalog
}

func NewService(repo Repository, users user.Service, items ItemCatalog) Service {
	return &service{
		repo:  repo,
		users: users,
		items: items,
	}
}

// Create registers a new WAITING booking. Checks run in a fixed order and the
// first failure wins. Overlapping bookings on the same item and window are not
// rejected; time conflicts are left for the owner to resolve on approval.
func (s *service) Create(ctx context.Context, req CreateRequest) (*Booking, error) {
	// 1. Booker must exist
	if _, err := s.users.GetByID(ctx, req.BookerID); err != nil {
		return nil, err
	}

	// 2. Item must exist
	item, err := s.items.GetItem(ctx, req.ItemID)
	if err != nil {
		return nil, err
	}

	// 3. Item must be available
	if !item.Available {
		return nil, ErrUnavailable
	}

	// 4. Valid time range
	if !req.Start.Before(req.End) {
		return nil, IncorrectDateTimeError(req.Start, req.End)
	}

	// 5. Owners cannot book their own items
	if item.OwnerID == req.BookerID {
		return nil, ErrOwnItem
	}

	b := &Booking{
		ItemID:   req.ItemID,
		BookerID: req.BookerID,
		Start:    req.Start,
		End:      req.End,
		Status:   StatusWaiting,
	}

	if err := s.repo.Create(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// Approve sets the booking status to APPROVED or REJECTED. Only the item's
// owner may act; anyone else gets not-found so the booking stays hidden.
// Repeating the same transition fails, but flipping an already-decided booking
// to the opposite status is allowed (historical behavior, kept as is).
func (s *service) Approve(ctx context.Context, ownerID, bookingID string, approve bool) (*Booking, error) {
	if _, err := s.users.GetByID(ctx, ownerID); err != nil {
		return nil, err
	}

	b, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	item, err := s.items.GetItem(ctx, b.ItemID)
	if err != nil {
		return nil, err
	}
	if item.OwnerID != ownerID {
		return nil, ErrNotFound
	}

	if approve && b.Status == StatusApproved || !approve && b.Status == StatusRejected {
		return nil, StatusAlreadySetError(b.Status)
	}

	target := StatusRejected
	if approve {
		target = StatusApproved
	}

	updated, err := s.repo.UpdateStatus(ctx, b.ID, b.Status, target)
	if err != nil {
		if errors.Is(err, ErrStatusConflict) {
			// A concurrent caller decided the booking between our read and
			// write. Report the status it holds now instead of overwriting.
			current, getErr := s.repo.GetByID(ctx, b.ID)
			if getErr != nil {
				return nil, getErr
			}
			return nil, StatusAlreadySetError(current.Status)
		}
		return nil, err
	}
	return updated, nil
}

// GetByID returns the booking to its booker or the item's owner. Any other
// viewer gets not-found, even if the booking exists.
func (s *service) GetByID(ctx context.Context, viewerID, bookingID string) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if _, err := s.users.GetByID(ctx, viewerID); err != nil {
		return nil, err
	}

	item, err := s.items.GetItem(ctx, b.ItemID)
	if err != nil {
		return nil, err
	}

	if viewerID == b.BookerID || viewerID == item.OwnerID {
		return b, nil
	}
	return nil, ErrNotFound
}

// ListForBooker lists the user's own bookings filtered by query state,
// ordered by start descending.
func (s *service) ListForBooker(ctx context.Context, userID string, state State, from, size int) ([]*Booking, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	q := stateQuery(state, time.Now())
	q.BookerID = userID
	q.Page = from / size
	q.Size = size

	return s.repo.List(ctx, q)
}

// ListForOwner lists bookings of the owner's items filtered by query state.
// An owner with no items gets an empty result without touching the store.
func (s *service) ListForOwner(ctx context.Context, ownerID string, state State, from, size int) ([]*Booking, error) {
	if _, err := s.users.GetByID(ctx, ownerID); err != nil {
		return nil, err
	}

	itemIDs, err := s.items.OwnedItemIDs(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if len(itemIDs) == 0 {
		return []*Booking{}, nil
	}

	q := stateQuery(state, time.Now())
	q.ItemIDs = itemIDs
	q.Page = from / size
	q.Size = size

	return s.repo.List(ctx, q)
}

// stateQuery translates a query state into store predicates. The moment of
// evaluation is captured once and reused for every comparison of the call so
// the classification stays consistent within one request.
func stateQuery(state State, now time.Time) Query {
	var q Query
	switch state {
	case StateCurrent:
		t := now
		q.ActiveAt = &t
	case StatePast:
		t := now
		q.EndBefore = &t
	case StateFuture:
		t := now
		q.StartAfter = &t
	case StateWaiting:
		q.Status = StatusWaiting
	case StateRejected:
		q.Status = StatusRejected
	default:
		// ALL: no filter
	}
	return q
}
