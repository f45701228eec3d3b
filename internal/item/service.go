package item

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gearshare/item-lending-backend/internal/booking"
	"github.com/gearshare/item-lending-backend/internal/user"
)

type CreateRequest struct {
	Name        string
	Description string
	Available   bool
	RequestID   *string
}

type UpdateRequest struct {
	Name        *string
	Description *string
	Available   *bool
}

type Service interface {
	Create(ctx context.Context, ownerID string, req CreateRequest) (*Item, error)
	Update(ctx context.Context, itemID, ownerID string, req UpdateRequest) (*Item, error)
	GetByID(ctx context.Context, viewerID, itemID string) (*Details, error)
	ListOwnerItems(ctx context.Context, ownerID string) ([]*Details, error)
	Search(ctx context.Context, text string) ([]*Item, error)
	AddComment(ctx context.Context, authorID, itemID, text string) (*Comment, error)
}

type service struct {
	repo     Repository
	comments CommentRepository
	users    user.Service
	bookings booking.Repository
}

func NewService(repo Repository, comments CommentRepository, users user.Service, bookings booking.Repository) Service {
	return &service{
		repo:     repo,
		comments: comments,
		users:    users,
		bookings: bookings,
	}
}

func (s *service) Create(ctx context.Context, ownerID string, req CreateRequest) (*Item, error) {
	if _, err := s.users.GetByID(ctx, ownerID); err != nil {
		return nil, err
	}

	i := &Item{
		OwnerID:     ownerID,
		Name:        req.Name,
		Description: req.Description,
		Available:   req.Available,
		RequestID:   req.RequestID,
	}

	if err := s.repo.Create(ctx, i); err != nil {
		return nil, err
	}
	return i, nil
}

func (s *service) Update(ctx context.Context, itemID, ownerID string, req UpdateRequest) (*Item, error) {
	if _, err := s.users.GetByID(ctx, ownerID); err != nil {
		return nil, err
	}

	i, err := s.repo.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}

	if i.OwnerID != ownerID {
		return nil, ErrAccessDenied
	}

	if req.Name != nil && *req.Name != "" {
		i.Name = *req.Name
	}
	if req.Description != nil && *req.Description != "" {
		i.Description = *req.Description
	}
	if req.Available != nil {
		i.Available = *req.Available
	}

	if err := s.repo.Update(ctx, i); err != nil {
		return nil, err
	}
	return i, nil
}

// GetByID returns the item with its comments. The last/next booking summary
// is computed only for the owner; other viewers get nil for both.
func (s *service) GetByID(ctx context.Context, viewerID, itemID string) (*Details, error) {
	i, err := s.repo.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}

	comments, err := s.comments.ListByItemID(ctx, itemID)
	if err != nil {
		return nil, err
	}

	details := &Details{Item: *i, Comments: comments}

	if i.OwnerID != viewerID {
		return details, nil
	}

	bookings, err := s.bookings.ListAllByItemIDs(ctx, []string{itemID})
	if err != nil {
		return nil, err
	}

	now := time.Now()
	details.LastBooking = lastBooking(now, bookings)
	details.NextBooking = nextBooking(now, bookings)

	return details, nil
}

// ListOwnerItems returns all of the owner's items with comments and the
// last/next booking summary, computed against one pre-fetched booking set.
func (s *service) ListOwnerItems(ctx context.Context, ownerID string) ([]*Details, error) {
	if _, err := s.users.GetByID(ctx, ownerID); err != nil {
		return nil, err
	}

	items, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	itemIDs := make([]string, len(items))
	for idx, i := range items {
		itemIDs[idx] = i.ID
	}

	bookings, err := s.bookings.ListAllByItemIDs(ctx, itemIDs)
	if err != nil {
		return nil, err
	}
	comments, err := s.comments.ListByItemIDs(ctx, itemIDs)
	if err != nil {
		return nil, err
	}

	bookingsByItem := make(map[string][]*booking.Booking)
	for _, b := range bookings {
		bookingsByItem[b.ItemID] = append(bookingsByItem[b.ItemID], b)
	}
	commentsByItem := make(map[string][]*Comment)
	for _, c := range comments {
		commentsByItem[c.ItemID] = append(commentsByItem[c.ItemID], c)
	}

	now := time.Now()
	details := make([]*Details, len(items))
	for idx, i := range items {
		itemBookings := bookingsByItem[i.ID]
		details[idx] = &Details{
			Item:        *i,
			LastBooking: lastBooking(now, itemBookings),
			NextBooking: nextBooking(now, itemBookings),
			Comments:    commentsByItem[i.ID],
		}
	}
	return details, nil
}

func (s *service) Search(ctx context.Context, text string) ([]*Item, error) {
	cleaned := strings.ToLower(strings.TrimSpace(text))
	if cleaned == "" {
		return []*Item{}, nil
	}
	return s.repo.Search(ctx, cleaned)
}

// AddComment creates a comment if the author has at least one APPROVED
// booking of the item that ended before now. Nothing stops an eligible user
// from commenting more than once; every call re-runs the same check.
func (s *service) AddComment(ctx context.Context, authorID, itemID, text string) (*Comment, error) {
	author, err := s.users.GetByID(ctx, authorID)
	if err != nil {
		return nil, err
	}

	if _, err := s.repo.GetByID(ctx, itemID); err != nil {
		return nil, err
	}

	now := time.Now()
	if _, err := s.bookings.FindLastFinished(ctx, authorID, itemID, now); err != nil {
		if errors.Is(err, booking.ErrNotFound) {
			return nil, ErrCommentNotAllowed
		}
		return nil, err
	}

	c := &Comment{
		ItemID:     itemID,
		AuthorID:   author.ID,
		AuthorName: author.DisplayName(),
		Text:       text,
		CreatedAt:  now,
	}

	if err := s.comments.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// lastBooking returns the first booking in the start-descending list whose
// start is before now.
func lastBooking(now time.Time, bookings []*booking.Booking) *booking.Booking {
	for _, b := range bookings {
		if b.Start.Before(now) {
			return b
		}
	}
	return nil
}

// nextBooking returns the first booking in the same start-descending list
// whose end is after now. With several current or future bookings this is the
// one with the largest start, not the soonest upcoming one. Long-standing
// list-view behavior; keep in sync with what the clients expect.
func nextBooking(now time.Time, bookings []*booking.Booking) *booking.Booking {
	for _, b := range bookings {
		if b.End.After(now) {
			return b
		}
	}
	return nil
}
