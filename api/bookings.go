package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/zvrva/shareit/internal/domain"
	"github.com/zvrva/shareit/internal/service/booking"
)

type BookingHandler struct {
	service booking.BookingUseCase
}

type createBookingRequest struct {
	ItemID int64     `json:"itemId"`
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
}

type bookingResponse struct {
	ID     int64         `json:"id"`
	Start  string        `json:"start"`
	End    string        `json:"end"`
	Status string        `json:"status"`
	Item   *itemResponse `json:"item,omitempty"`
	Booker *userResponse `json:"booker,omitempty"`
}

func NewBookingHandler(service booking.BookingUseCase) *BookingHandler {
	return &BookingHandler{service: service}
}

func (h *BookingHandler) Register(router *gin.RouterGroup) {
	router.POST("/", h.create)
	router.PATCH("/:bookingId", h.approve)
	router.GET("/owner", h.listForOwner)
	router.GET("/:bookingId", h.get)
	router.GET("/", h.listByBooker)
}

func (h *BookingHandler) create(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, err := h.service.CreateBooking(c.Request.Context(), userID, booking.CreateBookingInput{
		ItemID: req.ItemID,
		Start:  req.Start,
		End:    req.End,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toBookingResponse(created))
}

func (h *BookingHandler) approve(c *gin.Context) {
	ownerID, ok := callerID(c)
	if !ok {
		return
	}

	bookingID, err := strconv.ParseInt(c.Param("bookingId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid booking id"})
		return
	}
	approved, err := strconv.ParseBool(c.Query("approved"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid approved flag"})
		return
	}

	updated, err := h.service.ApproveBooking(c.Request.Context(), ownerID, bookingID, approved)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, toBookingResponse(updated))
}

func (h *BookingHandler) get(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	bookingID, err := strconv.ParseInt(c.Param("bookingId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid booking id"})
		return
	}

	found, err := h.service.GetBookingByID(c.Request.Context(), userID, bookingID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, toBookingResponse(found))
}

func (h *BookingHandler) listByBooker(c *gin.Context) {
	h.list(c, h.service.GetBookingsByBooker)
}

func (h *BookingHandler) listForOwner(c *gin.Context) {
	h.list(c, h.service.GetBookingsForOwner)
}

func (h *BookingHandler) list(c *gin.Context, query func(ctx context.Context, userID int64, state domain.BookingState) ([]domain.Booking, error)) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	state := domain.ParseBookingState(c.DefaultQuery("state", "ALL"))
	bookings, err := query(c.Request.Context(), userID, state)
	if err != nil {
		writeError(c, err)
		return
	}

	responses := make([]bookingResponse, 0, len(bookings))
	for i := range bookings {
		responses = append(responses, toBookingResponse(&bookings[i]))
	}
	c.JSON(http.StatusOK, responses)
}

func toBookingResponse(b *domain.Booking) bookingResponse {
	resp := bookingResponse{
		ID:     b.ID,
		Start:  b.Start.Format(time.RFC3339),
		End:    b.End.Format(time.RFC3339),
		Status: string(b.Status),
	}
	if b.Item != nil {
		item := toItemResponse(*b.Item)
		resp.Item = &item
	}
	if b.Booker != nil {
		booker := toUserResponse(*b.Booker)
		resp.Booker = &booker
	}
	return resp
}
