package itemrequest

import (
	"context"
	"time"

	"github.com/gearshare/item-lending-backend/internal/item"
	"github.com/gearshare/item-lending-backend/internal/user"
)

type Service interface {
	Create(ctx context.Context, requestorID, description string) (*ItemRequest, error)
	GetByID(ctx context.Context, userID, requestID string) (*Info, error)
	ListOwn(ctx context.Context, requestorID string) ([]*Info, error)
	ListOthers(ctx context.Context, userID string, from, size int) ([]*Info, error)
}

type service struct {
	repo  Repository
	users user.Service
	items item.Repository
}

func NewService(repo Repository, users user.Service, items item.Repository) Service {
	return &service{
		repo:  repo,
		users: users,
		items: items,
	}
}

func (s *service) Create(ctx context.Context, requestorID, description string) (*ItemRequest, error) {
	if _, err := s.users.GetByID(ctx, requestorID); err != nil {
		return nil, err
	}

	req := &ItemRequest{
		RequestorID: requestorID,
		Description: description,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, req); err != nil {
		return nil, err
	}
	return req, nil
}

func (s *service) GetByID(ctx context.Context, userID, requestID string) (*Info, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	req, err := s.repo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}

	items, err := s.items.ListByRequestIDs(ctx, []string{req.ID})
	if err != nil {
		return nil, err
	}

	return &Info{ItemRequest: *req, Items: items}, nil
}

// ListOwn returns the user's own requests, newest first, each with the items
// posted in answer.
func (s *service) ListOwn(ctx context.Context, requestorID string) ([]*Info, error) {
	if _, err := s.users.GetByID(ctx, requestorID); err != nil {
		return nil, err
	}

	requests, err := s.repo.ListByRequestor(ctx, requestorID)
	if err != nil {
		return nil, err
	}

	return s.withItems(ctx, requests)
}

// ListOthers returns other users' requests, newest first. The window follows
// the same from/size floor-division convention as the booking listings.
func (s *service) ListOthers(ctx context.Context, userID string, from, size int) ([]*Info, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	requests, err := s.repo.ListOthers(ctx, userID, from/size, size)
	if err != nil {
		return nil, err
	}

	return s.withItems(ctx, requests)
}

func (s *service) withItems(ctx context.Context, requests []*ItemRequest) ([]*Info, error) {
	requestIDs := make([]string, len(requests))
	for idx, req := range requests {
		requestIDs[idx] = req.ID
	}

	items, err := s.items.ListByRequestIDs(ctx, requestIDs)
	if err != nil {
		return nil, err
	}

	itemsByRequest := make(map[string][]*item.Item)
	for _, i := range items {
		if i.RequestID != nil {
			itemsByRequest[*i.RequestID] = append(itemsByRequest[*i.RequestID], i)
		}
	}

	infos := make([]*Info, len(requests))
	for idx, req := range requests {
		infos[idx] = &Info{ItemRequest: *req, Items: itemsByRequest[req.ID]}
	}
	return infos, nil
}
