package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/zvrva/shareit/internal/domain"
	"github.com/zvrva/shareit/internal/service/requests"
)

type RequestHandler struct {
	service requests.RequestUseCase
}

type createRequestRequest struct {
	Description string `json:"description"`
}

type requestResponse struct {
	ID          int64          `json:"id"`
	Description string         `json:"description"`
	Created     string         `json:"created"`
	Items       []itemResponse `json:"items"`
}

func NewRequestHandler(service requests.RequestUseCase) *RequestHandler {
	return &RequestHandler{service: service}
}

func (h *RequestHandler) Register(router *gin.RouterGroup) {
	router.POST("/", h.create)
	router.GET("/all", h.listOthers)
	router.GET("/:requestId", h.get)
	router.GET("/", h.listOwn)
}

func (h *RequestHandler) create(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	var req createRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, err := h.service.CreateRequest(c.Request.Context(), userID, req.Description)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toRequestResponse(*created))
}

func (h *RequestHandler) get(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	requestID, err := strconv.ParseInt(c.Param("requestId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request id"})
		return
	}

	found, err := h.service.GetRequestByID(c.Request.Context(), userID, requestID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toRequestResponse(*found))
}

func (h *RequestHandler) listOwn(c *gin.Context) {
	h.list(c, h.service.GetOwnRequests)
}

func (h *RequestHandler) listOthers(c *gin.Context) {
	h.list(c, h.service.GetOtherRequests)
}

func (h *RequestHandler) list(c *gin.Context, query func(ctx context.Context, userID int64) ([]domain.ItemRequest, error)) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	list, err := query(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}

	responses := make([]requestResponse, 0, len(list))
	for _, request := range list {
		responses = append(responses, toRequestResponse(request))
	}
	c.JSON(http.StatusOK, responses)
}

func toRequestResponse(r domain.ItemRequest) requestResponse {
	items := make([]itemResponse, 0, len(r.Items))
	for _, item := range r.Items {
		items = append(items, toItemResponse(item))
	}
	return requestResponse{
		ID:          r.ID,
		Description: r.Description,
		Created:     r.Created.Format(time.RFC3339),
		Items:       items,
	}
}
