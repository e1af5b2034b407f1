package items

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/zvrva/shareit/internal/domain"
	"github.com/zvrva/shareit/internal/repository"
)

type ItemUseCase interface {
	CreateItem(ctx context.Context, userID int64, input CreateItemInput) (*domain.Item, error)
	UpdateItem(ctx context.Context, userID, itemID int64, input UpdateItemInput) (*domain.Item, error)
	GetItemByID(ctx context.Context, userID, itemID int64) (*ItemDetails, error)
	GetItemsByOwner(ctx context.Context, userID int64) ([]ItemDetails, error)
	SearchItems(ctx context.Context, text string) ([]domain.Item, error)
	AddComment(ctx context.Context, userID, itemID int64, text string) (*domain.Comment, error)
}

// BookingReader is the slice of the booking engine the item views need:
// the last/next projection and the comment eligibility predicate.
type BookingReader interface {
	ItemBookings(ctx context.Context, itemID int64) (last, next *domain.BookingInfo, err error)
	HasFinishedBooking(ctx context.Context, userID, itemID int64) (bool, error)
}

type SearchCache interface {
	GetSearch(ctx context.Context, text string) ([]domain.Item, error)
	SetSearch(ctx context.Context, text string, items []domain.Item) error
}

type ItemService struct {
	items    repository.ItemRepository
	users    repository.UserRepository
	comments repository.CommentRepository
	bookings BookingReader
	cache    SearchCache
	now      func() time.Time
}

type CreateItemInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Available   *bool  `json:"available"`
	RequestID   *int64 `json:"requestId"`
}

type UpdateItemInput struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Available   *bool   `json:"available"`
}

// ItemDetails is the item view: the item itself plus the booking projection
// (owner views only) and its comments.
type ItemDetails struct {
	domain.Item
	LastBooking *domain.BookingInfo
	NextBooking *domain.BookingInfo
	Comments    []domain.Comment
}

type ItemServiceOption func(*ItemService)

func WithClock(now func() time.Time) ItemServiceOption {
	return func(s *ItemService) {
		s.now = now
	}
}

func NewItemService(
	items repository.ItemRepository,
	users repository.UserRepository,
	comments repository.CommentRepository,
	bookings BookingReader,
	cache SearchCache,
	opts ...ItemServiceOption,
) *ItemService {
	service := &ItemService{
		items:    items,
		users:    users,
		comments: comments,
		bookings: bookings,
		cache:    cache,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

func (s *ItemService) CreateItem(ctx context.Context, userID int64, input CreateItemInput) (*domain.Item, error) {
	owner, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.Available == nil {
		return nil, fmt.Errorf("available flag is required: %w", domain.ErrValidation)
	}

	item := &domain.Item{
		Name:        input.Name,
		Description: input.Description,
		Available:   *input.Available,
		OwnerID:     owner.ID,
		RequestID:   input.RequestID,
	}
	if err := s.items.Create(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *ItemService) UpdateItem(ctx context.Context, userID, itemID int64, input UpdateItemInput) (*domain.Item, error) {
	item, err := s.items.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}

	if item.OwnerID != userID {
		return nil, fmt.Errorf("only the owner may edit item %d: %w", itemID, domain.ErrValidation)
	}

	if input.Name != nil {
		item.Name = *input.Name
	}
	if input.Description != nil {
		item.Description = *input.Description
	}
	if input.Available != nil {
		item.Available = *input.Available
	}

	if err := s.items.Update(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *ItemService) GetItemByID(ctx context.Context, userID, itemID int64) (*ItemDetails, error) {
	item, err := s.items.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}

	details := &ItemDetails{Item: *item}

	if item.OwnerID == userID {
		last, next, err := s.bookings.ItemBookings(ctx, itemID)
		if err != nil {
			return nil, err
		}
		details.LastBooking = last
		details.NextBooking = next
	}

	comments, err := s.comments.ListByItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	details.Comments = comments
	return details, nil
}

func (s *ItemService) GetItemsByOwner(ctx context.Context, userID int64) ([]ItemDetails, error) {
	owner, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	items, err := s.items.ListByOwner(ctx, owner.ID)
	if err != nil {
		return nil, err
	}

	result := make([]ItemDetails, 0, len(items))
	for _, item := range items {
		last, next, err := s.bookings.ItemBookings(ctx, item.ID)
		if err != nil {
			return nil, err
		}
		comments, err := s.comments.ListByItem(ctx, item.ID)
		if err != nil {
			return nil, err
		}
		result = append(result, ItemDetails{
			Item:        item,
			LastBooking: last,
			NextBooking: next,
			Comments:    comments,
		})
	}
	return result, nil
}

func (s *ItemService) SearchItems(ctx context.Context, text string) ([]domain.Item, error) {
	if strings.TrimSpace(text) == "" {
		return []domain.Item{}, nil
	}

	if s.cache != nil {
		if cached, err := s.cache.GetSearch(ctx, text); err == nil && cached != nil {
			return cached, nil
		}
	}

	items, err := s.items.SearchAvailable(ctx, text)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetSearch(ctx, text, items); err != nil {
			log.Printf("WARNING: cache search %q: %v", text, err)
		}
	}
	return items, nil
}

// AddComment is gated: only a user whose approved booking of the item already
// ended may comment.
func (s *ItemService) AddComment(ctx context.Context, userID, itemID int64, text string) (*domain.Comment, error) {
	author, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	item, err := s.items.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}

	allowed, err := s.bookings.HasFinishedBooking(ctx, author.ID, item.ID)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, fmt.Errorf("commenting is allowed only after a finished booking: %w", domain.ErrValidation)
	}

	comment := &domain.Comment{
		Text:       text,
		ItemID:     item.ID,
		AuthorID:   author.ID,
		AuthorName: author.Name,
		Created:    s.now(),
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

var _ ItemUseCase = (*ItemService)(nil)
