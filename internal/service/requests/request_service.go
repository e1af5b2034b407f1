package requests

import (
	"context"
	"fmt"
	"time"

	"github.com/zvrva/shareit/internal/domain"
	"github.com/zvrva/shareit/internal/repository"
)

type RequestUseCase interface {
	CreateRequest(ctx context.Context, userID int64, description string) (*domain.ItemRequest, error)
	GetRequestByID(ctx context.Context, userID, requestID int64) (*domain.ItemRequest, error)
	GetOwnRequests(ctx context.Context, userID int64) ([]domain.ItemRequest, error)
	GetOtherRequests(ctx context.Context, userID int64) ([]domain.ItemRequest, error)
}

type RequestService struct {
	requests repository.RequestRepository
	users    repository.UserRepository
	items    repository.ItemRepository
	now      func() time.Time
}

type RequestServiceOption func(*RequestService)

func WithClock(now func() time.Time) RequestServiceOption {
	return func(s *RequestService) {
		s.now = now
	}
}

func NewRequestService(
	requests repository.RequestRepository,
	users repository.UserRepository,
	items repository.ItemRepository,
	opts ...RequestServiceOption,
) *RequestService {
	service := &RequestService{
		requests: requests,
		users:    users,
		items:    items,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

func (s *RequestService) CreateRequest(ctx context.Context, userID int64, description string) (*domain.ItemRequest, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	if description == "" {
		return nil, fmt.Errorf("request description is required: %w", domain.ErrValidation)
	}

	request := &domain.ItemRequest{
		Description: description,
		RequesterID: userID,
		Created:     s.now(),
		Items:       []domain.Item{},
	}
	if err := s.requests.Create(ctx, request); err != nil {
		return nil, err
	}
	return request, nil
}

func (s *RequestService) GetRequestByID(ctx context.Context, userID, requestID int64) (*domain.ItemRequest, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}

	request, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if err := s.attachItems(ctx, request); err != nil {
		return nil, err
	}
	return request, nil
}

func (s *RequestService) GetOwnRequests(ctx context.Context, userID int64) ([]domain.ItemRequest, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}

	requests, err := s.requests.ListByRequester(ctx, userID)
	if err != nil {
		return nil, err
	}
	for i := range requests {
		if err := s.attachItems(ctx, &requests[i]); err != nil {
			return nil, err
		}
	}
	return requests, nil
}

func (s *RequestService) GetOtherRequests(ctx context.Context, userID int64) ([]domain.ItemRequest, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	return s.requests.ListOthers(ctx, userID)
}

func (s *RequestService) attachItems(ctx context.Context, request *domain.ItemRequest) error {
	items, err := s.items.ListByRequest(ctx, request.ID)
	if err != nil {
		return err
	}
	request.Items = items
	return nil
}

func (s *RequestService) requireUser(ctx context.Context, userID int64) error {
	exists, err := s.users.Exists(ctx, userID)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("user %d: %w", userID, domain.ErrNotFound)
	}
	return nil
}

var _ RequestUseCase = (*RequestService)(nil)
