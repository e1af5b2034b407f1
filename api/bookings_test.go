package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/zvrva/shareit/internal/domain"
	"github.com/zvrva/shareit/internal/service/booking"
)

type MockBookingUseCase struct {
	mock.Mock
}

func (m *MockBookingUseCase) CreateBooking(ctx context.Context, userID int64, input booking.CreateBookingInput) (*domain.Booking, error) {
	args := m.Called(ctx, userID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) ApproveBooking(ctx context.Context, ownerID, bookingID int64, approved bool) (*domain.Booking, error) {
	args := m.Called(ctx, ownerID, bookingID, approved)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) GetBookingByID(ctx context.Context, userID, bookingID int64) (*domain.Booking, error) {
	args := m.Called(ctx, userID, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) GetBookingsByBooker(ctx context.Context, userID int64, state domain.BookingState) ([]domain.Booking, error) {
	args := m.Called(ctx, userID, state)
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) GetBookingsForOwner(ctx context.Context, userID int64, state domain.BookingState) ([]domain.Booking, error) {
	args := m.Called(ctx, userID, state)
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) ItemBookings(ctx context.Context, itemID int64) (*domain.BookingInfo, *domain.BookingInfo, error) {
	args := m.Called(ctx, itemID)
	var last, next *domain.BookingInfo
	if args.Get(0) != nil {
		last = args.Get(0).(*domain.BookingInfo)
	}
	if args.Get(1) != nil {
		next = args.Get(1).(*domain.BookingInfo)
	}
	return last, next, args.Error(2)
}

func (m *MockBookingUseCase) HasFinishedBooking(ctx context.Context, userID, itemID int64) (bool, error) {
	args := m.Called(ctx, userID, itemID)
	return args.Bool(0), args.Error(1)
}

func TestBookingHandler_create(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	start := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)
	end := start.Add(24 * time.Hour)
	body, _ := json.Marshal(createBookingRequest{ItemID: 5, Start: start, End: end})
	c.Request = httptest.NewRequest("POST", "/bookings", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Request.Header.Set(userHeader, "2")

	created := &domain.Booking{
		ID:       7,
		Start:    start,
		End:      end,
		ItemID:   5,
		BookerID: 2,
		Status:   domain.BookingStatusWaiting,
		Item:     &domain.Item{ID: 5, Name: "drill", Available: true, OwnerID: 1},
		Booker:   &domain.User{ID: 2, Name: "booker", Email: "booker@example.com"},
	}
	mockService.On("CreateBooking", c.Request.Context(), int64(2),
		booking.CreateBookingInput{ItemID: 5, Start: start, End: end}).Return(created, nil)

	handler.create(c)

	assert.Equal(t, http.StatusCreated, w.Code)

	var response bookingResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, int64(7), response.ID)
	assert.Equal(t, string(domain.BookingStatusWaiting), response.Status)
	assert.NotNil(t, response.Item)
	assert.Equal(t, "drill", response.Item.Name)
	assert.NotNil(t, response.Booker)
	assert.Equal(t, int64(2), response.Booker.ID)

	mockService.AssertExpectations(t)
}

func TestBookingHandler_create_MissingUserHeader(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Request = httptest.NewRequest("POST", "/bookings", bytes.NewReader([]byte(`{}`)))

	handler.create(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "CreateBooking")
}

func TestBookingHandler_create_ValidationError(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	body, _ := json.Marshal(createBookingRequest{ItemID: 5})
	c.Request = httptest.NewRequest("POST", "/bookings", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Request.Header.Set(userHeader, "2")

	mockService.On("CreateBooking", c.Request.Context(), int64(2), mock.Anything).
		Return(nil, fmt.Errorf("invalid booking date range: %w", domain.ErrValidation))

	handler.create(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBookingHandler_approve(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Params = gin.Params{{Key: "bookingId", Value: "7"}}
	c.Request = httptest.NewRequest("PATCH", "/bookings/7?approved=true", nil)
	c.Request.Header.Set(userHeader, "1")

	approved := &domain.Booking{ID: 7, Status: domain.BookingStatusApproved}
	mockService.On("ApproveBooking", c.Request.Context(), int64(1), int64(7), true).Return(approved, nil)

	handler.approve(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response bookingResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, string(domain.BookingStatusApproved), response.Status)

	mockService.AssertExpectations(t)
}

func TestBookingHandler_get_NotFound(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Params = gin.Params{{Key: "bookingId", Value: "404"}}
	c.Request = httptest.NewRequest("GET", "/bookings/404", nil)
	c.Request.Header.Set(userHeader, "2")

	mockService.On("GetBookingByID", c.Request.Context(), int64(2), int64(404)).
		Return(nil, fmt.Errorf("booking 404: %w", domain.ErrNotFound))

	handler.get(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

// Unknown state text is forwarded as ALL, not rejected.
func TestBookingHandler_listByBooker_BogusState(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Request = httptest.NewRequest("GET", "/bookings?state=bogus", nil)
	c.Request.Header.Set(userHeader, "2")

	mockService.On("GetBookingsByBooker", c.Request.Context(), int64(2), domain.BookingStateAll).
		Return([]domain.Booking{}, nil)

	handler.listByBooker(c)

	assert.Equal(t, http.StatusOK, w.Code)
	mockService.AssertExpectations(t)
}

func TestBookingHandler_listForOwner(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Request = httptest.NewRequest("GET", "/bookings/owner?state=FUTURE", nil)
	c.Request.Header.Set(userHeader, "1")

	bookings := []domain.Booking{{ID: 7, Status: domain.BookingStatusWaiting}}
	mockService.On("GetBookingsForOwner", c.Request.Context(), int64(1), domain.BookingStateFuture).
		Return(bookings, nil)

	handler.listForOwner(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response []bookingResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Len(t, response, 1)
}
