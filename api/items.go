package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/zvrva/shareit/internal/domain"
	"github.com/zvrva/shareit/internal/service/items"
)

type ItemHandler struct {
	service items.ItemUseCase
}

type itemResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Available   bool   `json:"available"`
	OwnerID     int64  `json:"ownerId"`
	RequestID   *int64 `json:"requestId,omitempty"`
}

type itemDetailsResponse struct {
	itemResponse
	LastBooking *domain.BookingInfo `json:"lastBooking"`
	NextBooking *domain.BookingInfo `json:"nextBooking"`
	Comments    []commentResponse   `json:"comments"`
}

type commentRequest struct {
	Text string `json:"text"`
}

type commentResponse struct {
	ID         int64  `json:"id"`
	Text       string `json:"text"`
	AuthorName string `json:"authorName"`
	Created    string `json:"created"`
}

func NewItemHandler(service items.ItemUseCase) *ItemHandler {
	return &ItemHandler{service: service}
}

func (h *ItemHandler) Register(router *gin.RouterGroup) {
	router.POST("/", h.create)
	router.PATCH("/:itemId", h.update)
	router.GET("/search", h.search)
	router.GET("/:itemId", h.get)
	router.GET("/", h.listByOwner)
	router.POST("/:itemId/comment", h.addComment)
}

func (h *ItemHandler) create(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	var req items.CreateItemInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, err := h.service.CreateItem(c.Request.Context(), userID, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toItemResponse(*created))
}

func (h *ItemHandler) update(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	itemID, err := strconv.ParseInt(c.Param("itemId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid item id"})
		return
	}

	var req items.UpdateItemInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := h.service.UpdateItem(c.Request.Context(), userID, itemID, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toItemResponse(*updated))
}

func (h *ItemHandler) get(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	itemID, err := strconv.ParseInt(c.Param("itemId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid item id"})
		return
	}

	details, err := h.service.GetItemByID(c.Request.Context(), userID, itemID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toItemDetailsResponse(*details))
}

func (h *ItemHandler) listByOwner(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	list, err := h.service.GetItemsByOwner(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}

	responses := make([]itemDetailsResponse, 0, len(list))
	for _, details := range list {
		responses = append(responses, toItemDetailsResponse(details))
	}
	c.JSON(http.StatusOK, responses)
}

func (h *ItemHandler) search(c *gin.Context) {
	found, err := h.service.SearchItems(c.Request.Context(), c.Query("text"))
	if err != nil {
		writeError(c, err)
		return
	}

	responses := make([]itemResponse, 0, len(found))
	for _, item := range found {
		responses = append(responses, toItemResponse(item))
	}
	c.JSON(http.StatusOK, responses)
}

func (h *ItemHandler) addComment(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	itemID, err := strconv.ParseInt(c.Param("itemId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid item id"})
		return
	}

	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	comment, err := h.service.AddComment(c.Request.Context(), userID, itemID, req.Text)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toCommentResponse(*comment))
}

func toItemResponse(i domain.Item) itemResponse {
	return itemResponse{
		ID:          i.ID,
		Name:        i.Name,
		Description: i.Description,
		Available:   i.Available,
		OwnerID:     i.OwnerID,
		RequestID:   i.RequestID,
	}
}

func toItemDetailsResponse(d items.ItemDetails) itemDetailsResponse {
	comments := make([]commentResponse, 0, len(d.Comments))
	for _, comment := range d.Comments {
		comments = append(comments, toCommentResponse(comment))
	}
	return itemDetailsResponse{
		itemResponse: toItemResponse(d.Item),
		LastBooking:  d.LastBooking,
		NextBooking:  d.NextBooking,
		Comments:     comments,
	}
}

func toCommentResponse(c domain.Comment) commentResponse {
	return commentResponse{
		ID:         c.ID,
		Text:       c.Text,
		AuthorName: c.AuthorName,
		Created:    c.Created.Format(time.RFC3339),
	}
}
