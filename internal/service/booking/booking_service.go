package booking

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/zvrva/shareit/internal/domain"
	"github.com/zvrva/shareit/internal/kafka"
	"github.com/zvrva/shareit/internal/repository"
)

type BookingUseCase interface {
	CreateBooking(ctx context.Context, userID int64, input CreateBookingInput) (*domain.Booking, error)
	ApproveBooking(ctx context.Context, ownerID, bookingID int64, approved bool) (*domain.Booking, error)
	GetBookingByID(ctx context.Context, userID, bookingID int64) (*domain.Booking, error)
	GetBookingsByBooker(ctx context.Context, userID int64, state domain.BookingState) ([]domain.Booking, error)
	GetBookingsForOwner(ctx context.Context, userID int64, state domain.BookingState) ([]domain.Booking, error)
	ItemBookings(ctx context.Context, itemID int64) (last, next *domain.BookingInfo, err error)
	HasFinishedBooking(ctx context.Context, userID, itemID int64) (bool, error)
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type BookingService struct {
	bookings           repository.BookingRepository
	users              repository.UserRepository
	items              repository.ItemRepository
	producer           Producer
	bookingTopic       string
	notificationsTopic string
	now                func() time.Time
}

type CreateBookingInput struct {
	ItemID int64     `json:"itemId"`
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
}

type BookingServiceOption func(*BookingService)

func WithNotificationsTopic(topic string) BookingServiceOption {
	return func(s *BookingService) {
		s.notificationsTopic = topic
	}
}

// WithClock pins "now" for tests. Each operation reads the clock once so a
// single listing or projection call is internally consistent.
func WithClock(now func() time.Time) BookingServiceOption {
	return func(s *BookingService) {
		s.now = now
	}
}

func NewBookingService(
	bookings repository.BookingRepository,
	users repository.UserRepository,
	items repository.ItemRepository,
	producer Producer,
	bookingTopic string,
	opts ...BookingServiceOption,
) *BookingService {
	service := &BookingService{
		bookings:     bookings,
		users:        users,
		items:        items,
		producer:     producer,
		bookingTopic: bookingTopic,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// CreateBooking validates in a fixed order, first failure wins. Overlap with
// already approved bookings of the same item is not checked.
func (s *BookingService) CreateBooking(ctx context.Context, userID int64, input CreateBookingInput) (*domain.Booking, error) {
	booker, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	item, err := s.items.GetByID(ctx, input.ItemID)
	if err != nil {
		return nil, err
	}

	if !item.Available {
		return nil, fmt.Errorf("item %d is not available: %w", item.ID, domain.ErrValidation)
	}

	if input.Start.IsZero() || input.End.IsZero() || !input.End.After(input.Start) {
		return nil, fmt.Errorf("invalid booking date range: %w", domain.ErrValidation)
	}

	if item.OwnerID == userID {
		return nil, fmt.Errorf("owner cannot book own item: %w", domain.ErrValidation)
	}

	booking := &domain.Booking{
		Start:    input.Start,
		End:      input.End,
		ItemID:   item.ID,
		BookerID: booker.ID,
		Status:   domain.BookingStatusWaiting,
		Item:     item,
		Booker:   booker,
	}

	if err := s.bookings.Create(ctx, booking); err != nil {
		return nil, err
	}

	s.publish(ctx, "booking_created", booking)
	return booking, nil
}

// ApproveBooking lets the item owner confirm or reject a booking. Approving
// an already approved booking is an error; rejecting one is allowed, so the
// owner can still revoke an approval.
func (s *BookingService) ApproveBooking(ctx context.Context, ownerID, bookingID int64, approved bool) (*domain.Booking, error) {
	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if booking.Item.OwnerID != ownerID {
		return nil, fmt.Errorf("only the item owner may approve booking %d: %w", bookingID, domain.ErrValidation)
	}

	if booking.Status == domain.BookingStatusApproved && approved {
		return nil, fmt.Errorf("booking %d is already approved: %w", bookingID, domain.ErrValidation)
	}

	status := domain.BookingStatusRejected
	eventType := "booking_rejected"
	if approved {
		status = domain.BookingStatusApproved
		eventType = "booking_approved"
	}

	updated, err := s.bookings.UpdateStatus(ctx, bookingID, status)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, eventType, updated)
	return updated, nil
}

func (s *BookingService) GetBookingByID(ctx context.Context, userID, bookingID int64) (*domain.Booking, error) {
	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if booking.BookerID != userID && booking.Item.OwnerID != userID {
		return nil, fmt.Errorf("access denied to booking %d: %w", bookingID, domain.ErrValidation)
	}
	return booking, nil
}

func (s *BookingService) GetBookingsByBooker(ctx context.Context, userID int64, state domain.BookingState) ([]domain.Booking, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}

	bookings, err := s.bookings.ListByBooker(ctx, userID)
	if err != nil {
		return nil, err
	}
	return filterByState(bookings, state, s.now()), nil
}

func (s *BookingService) GetBookingsForOwner(ctx context.Context, userID int64, state domain.BookingState) ([]domain.Booking, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}

	bookings, err := s.bookings.ListByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}
	return filterByState(bookings, state, s.now()), nil
}

// ItemBookings derives the last finished and next upcoming booking of an
// item. Neither side filters by status, so a waiting or rejected booking can
// show up as "next". Missing sides come back nil, never as an error.
func (s *BookingService) ItemBookings(ctx context.Context, itemID int64) (*domain.BookingInfo, *domain.BookingInfo, error) {
	now := s.now()

	last, err := s.bookings.LastForItem(ctx, itemID, now)
	if err != nil {
		return nil, nil, err
	}
	next, err := s.bookings.NextForItem(ctx, itemID, now)
	if err != nil {
		return nil, nil, err
	}
	return toBookingInfo(last), toBookingInfo(next), nil
}

// HasFinishedBooking reports whether the user has an approved booking of the
// item that already ended. False is a normal answer, not an error.
func (s *BookingService) HasFinishedBooking(ctx context.Context, userID, itemID int64) (bool, error) {
	return s.bookings.HasFinishedBooking(ctx, itemID, userID, s.now())
}

func (s *BookingService) requireUser(ctx context.Context, userID int64) error {
	exists, err := s.users.Exists(ctx, userID)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("user %d: %w", userID, domain.ErrNotFound)
	}
	return nil
}

func toBookingInfo(b *domain.Booking) *domain.BookingInfo {
	if b == nil {
		return nil
	}
	return &domain.BookingInfo{ID: b.ID, BookerID: b.BookerID}
}

// publish is best effort: a dead broker must not fail the booking request.
func (s *BookingService) publish(ctx context.Context, eventType string, booking *domain.Booking) {
	if s.producer == nil || s.bookingTopic == "" {
		return
	}
	event := kafka.BookingEvent{
		EventID:   uuid.NewString(),
		Type:      eventType,
		BookingID: booking.ID,
		ItemID:    booking.ItemID,
		Status:    string(booking.Status),
		Start:     booking.Start,
		End:       booking.End,
	}
	if booking.Booker != nil {
		event.BookerEmail = booking.Booker.Email
	}

	key := fmt.Sprintf("booking-%d", booking.ID)
	if err := s.producer.Publish(ctx, s.bookingTopic, key, event); err != nil {
		log.Printf("WARNING: publish %s for booking %d: %v", eventType, booking.ID, err)
		return
	}
	if s.notificationsTopic != "" {
		if err := s.producer.Publish(ctx, s.notificationsTopic, key, event); err != nil {
			log.Printf("WARNING: publish %s notification for booking %d: %v", eventType, booking.ID, err)
		}
	}
}

var _ BookingUseCase = (*BookingService)(nil)
