package admin

import (
	"strconv"

	handlershared "github.com/belleza-studio/belleza-api/internal/http/handlers/shared"
	"github.com/belleza-studio/belleza-api/internal/http/response"
	"github.com/belleza-studio/belleza-api/internal/repository"
	"github.com/belleza-studio/belleza-api/internal/service"

	"github.com/gin-gonic/gin"
)

type broadcastRequest struct {
	Title   string `json:"title" binding:"required"`
	Message string `json:"message" binding:"required"`
}

// CreateBroadcast pushes a message to every active card's wallet pass.
func (h *Handler) CreateBroadcast(c *gin.Context) {
	var req broadcastRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "title and message required", err)
		return
	}

	notification, err := h.BroadcastService.Create(c.Request.Context(), service.BroadcastInput{
		Title:   req.Title,
		Message: req.Message,
	})
	if err != nil {
		respondWithMappedError(c, err, broadcastErrorRules, response.CodeInternal, "broadcast failed")
		return
	}
	response.Created(c, notification)
}

// ListNotifications returns the notification history.
func (h *Handler) ListNotifications(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = handlershared.NormalizePagination(page, pageSize)

	notifications, total, err := h.BroadcastService.List(repository.NotificationListFilter{
		Kind:     c.Query("kind"),
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "notification list failed", err)
		return
	}

	totalPage := (total + int64(pageSize) - 1) / int64(pageSize)
	response.SuccessWithPage(c, notifications, response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: totalPage,
	})
}
