package booking

import (
	"context"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zvrva/shareit/internal/domain"
	"github.com/zvrva/shareit/internal/repository"
)

// fakeBookingRepository is an in-memory stand-in with the same query
// semantics as the postgres repository, so lifecycle scenarios can run
// end to end without a database.
type fakeBookingRepository struct {
	nextID   int64
	bookings map[int64]*domain.Booking
	items    map[int64]*domain.Item
}

func newFakeBookingRepository(items ...*domain.Item) *fakeBookingRepository {
	byID := make(map[int64]*domain.Item, len(items))
	for _, item := range items {
		byID[item.ID] = item
	}
	return &fakeBookingRepository{nextID: 1, bookings: map[int64]*domain.Booking{}, items: byID}
}

func (f *fakeBookingRepository) Create(_ context.Context, booking *domain.Booking) error {
	booking.ID = f.nextID
	f.nextID++
	stored := *booking
	f.bookings[stored.ID] = &stored
	return nil
}

func (f *fakeBookingRepository) GetByID(_ context.Context, id int64) (*domain.Booking, error) {
	b, ok := f.bookings[id]
	if !ok {
		return nil, fmt.Errorf("booking %d: %w", id, domain.ErrNotFound)
	}
	copied := *b
	copied.Item = f.items[b.ItemID]
	return &copied, nil
}

func (f *fakeBookingRepository) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) (*domain.Booking, error) {
	b, ok := f.bookings[id]
	if !ok {
		return nil, fmt.Errorf("booking %d: %w", id, domain.ErrNotFound)
	}
	b.Status = status
	return f.GetByID(ctx, id)
}

func (f *fakeBookingRepository) ListByBooker(_ context.Context, bookerID int64) ([]domain.Booking, error) {
	return f.list(func(b *domain.Booking) bool { return b.BookerID == bookerID }), nil
}

func (f *fakeBookingRepository) ListByOwner(_ context.Context, ownerID int64) ([]domain.Booking, error) {
	return f.list(func(b *domain.Booking) bool {
		item, ok := f.items[b.ItemID]
		return ok && item.OwnerID == ownerID
	}), nil
}

func (f *fakeBookingRepository) list(match func(*domain.Booking) bool) []domain.Booking {
	out := make([]domain.Booking, 0)
	for _, b := range f.bookings {
		if match(b) {
			copied := *b
			copied.Item = f.items[b.ItemID]
			out = append(out, copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start.After(out[j].Start) })
	return out
}

func (f *fakeBookingRepository) LastForItem(_ context.Context, itemID int64, now time.Time) (*domain.Booking, error) {
	var last *domain.Booking
	for _, b := range f.bookings {
		if b.ItemID != itemID || !b.End.Before(now) {
			continue
		}
		if last == nil || b.Start.After(last.Start) {
			last = b
		}
	}
	if last == nil {
		return nil, nil
	}
	copied := *last
	return &copied, nil
}

func (f *fakeBookingRepository) NextForItem(_ context.Context, itemID int64, now time.Time) (*domain.Booking, error) {
	var next *domain.Booking
	for _, b := range f.bookings {
		if b.ItemID != itemID || !b.Start.After(now) {
			continue
		}
		if next == nil || b.Start.Before(next.Start) {
			next = b
		}
	}
	if next == nil {
		return nil, nil
	}
	copied := *next
	return &copied, nil
}

func (f *fakeBookingRepository) HasFinishedBooking(_ context.Context, itemID, bookerID int64, now time.Time) (bool, error) {
	for _, b := range f.bookings {
		if b.ItemID == itemID && b.BookerID == bookerID &&
			b.Status == domain.BookingStatusApproved && b.End.Before(now) {
			return true, nil
		}
	}
	return false, nil
}

var _ repository.BookingRepository = (*fakeBookingRepository)(nil)

func TestBookingLifecycle_EndToEnd(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	owner := &domain.User{ID: 1, Name: "owner", Email: "owner@example.com"}
	booker := &domain.User{ID: 2, Name: "booker", Email: "booker@example.com"}
	item := &domain.Item{ID: 5, Name: "drill", Available: true, OwnerID: owner.ID}

	repo := newFakeBookingRepository(item)
	mockUsers := &MockUserRepository{}
	mockItems := &MockItemRepository{}

	service := NewBookingService(repo, mockUsers, mockItems, nil, "",
		WithClock(func() time.Time { return now }))

	ctx := context.Background()
	mockUsers.On("GetByID", ctx, booker.ID).Return(booker, nil)
	mockUsers.On("Exists", ctx, booker.ID).Return(true, nil)
	mockItems.On("GetByID", ctx, item.ID).Return(item, nil)

	created, err := service.CreateBooking(ctx, booker.ID, CreateBookingInput{
		ItemID: item.ID,
		Start:  now.Add(time.Hour),
		End:    now.Add(24 * time.Hour),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.BookingStatusWaiting, created.Status)

	approved, err := service.ApproveBooking(ctx, owner.ID, created.ID, true)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingStatusApproved, approved.Status)

	future, err := service.GetBookingsByBooker(ctx, booker.ID, domain.BookingStateFuture)
	require.NoError(t, err)
	require.Len(t, future, 1)
	assert.Equal(t, created.ID, future[0].ID)

	waiting, err := service.GetBookingsByBooker(ctx, booker.ID, domain.BookingStateWaiting)
	require.NoError(t, err)
	assert.Empty(t, waiting)
}

// The projection does not filter by status: a rejected booking can win the
// "last booking" slot if it is the most recent one that ended.
func TestItemBookings_StatusIsNotAFilter(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	day := 24 * time.Hour
	item := &domain.Item{ID: 5, OwnerID: 1}

	repo := newFakeBookingRepository(item)
	ctx := context.Background()

	older := &domain.Booking{ItemID: 5, BookerID: 2, Start: now.Add(-6 * day), End: now.Add(-5 * day), Status: domain.BookingStatusApproved}
	newer := &domain.Booking{ItemID: 5, BookerID: 3, Start: now.Add(-3 * day), End: now.Add(-2 * day), Status: domain.BookingStatusRejected}
	require.NoError(t, repo.Create(ctx, older))
	require.NoError(t, repo.Create(ctx, newer))

	service := NewBookingService(repo, &MockUserRepository{}, &MockItemRepository{}, nil, "",
		WithClock(func() time.Time { return now }))

	last, next, err := service.ItemBookings(ctx, 5)

	require.NoError(t, err)
	require.NotNil(t, last)
	assert.Equal(t, newer.ID, last.ID)
	assert.Equal(t, int64(3), last.BookerID)
	assert.Nil(t, next)
}
