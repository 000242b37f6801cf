package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/wyfcoding/honeyshop/internal/notification/application"
	"github.com/wyfcoding/honeyshop/internal/notification/domain"
	"github.com/wyfcoding/honeyshop/internal/session"
	"github.com/wyfcoding/honeyshop/pkg/logger"
	"github.com/wyfcoding/honeyshop/pkg/response"
)

// NotificationHandler 通知 HTTP 处理器
type NotificationHandler struct {
	service *application.NotificationService
}

// NewNotificationHandler 创建通知 HTTP 处理器
func NewNotificationHandler(service *application.NotificationService) *NotificationHandler {
	return &NotificationHandler{service: service}
}

// RegisterRoutes 注册路由，全部需要登录
func (h *NotificationHandler) RegisterRoutes(router *gin.RouterGroup) {
	api := router.Group("/notifications", session.RequireLogin())
	{
		api.GET("", h.Recent)
		api.GET("/unread-count", h.UnreadCount)
		api.POST("/:id/read", h.MarkRead)
		api.POST("/read-all", h.MarkAllRead)
	}
}

func (h *NotificationHandler) currentUser(c *gin.Context) (uint, bool) {
	identity, ok := session.FromContext(c).Identity(c.Request.Context())
	if !ok {
		response.Error(c, http.StatusUnauthorized, "login required")
		return 0, false
	}
	return identity.UserID, true
}

// UnreadCount 未读数，供页头轮询
func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}

	count, err := h.service.UnreadCount(c.Request.Context(), userID)
	if err != nil {
		logger.Error(c.Request.Context(), "Failed to count unread notifications", "user_id", userID, "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, "failed to load notifications", nil)
		return
	}
	response.Success(c, gin.H{"count": count})
}

// Recent 最近通知
func (h *NotificationHandler) Recent(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}

	list, err := h.service.Recent(c.Request.Context(), userID)
	if err != nil {
		logger.Error(c.Request.Context(), "Failed to load notifications", "user_id", userID, "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, "failed to load notifications", nil)
		return
	}
	response.Success(c, list)
}

// MarkRead 单条已读
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid notification id", nil)
		return
	}

	if err := h.service.MarkRead(c.Request.Context(), userID, uint(id)); err != nil {
		switch {
		case errors.Is(err, domain.ErrNotificationNotFound):
			response.Error(c, http.StatusNotFound, "notification not found")
		case errors.Is(err, domain.ErrNotOwner):
			response.Error(c, http.StatusForbidden, "notification not found")
		default:
			logger.Error(c.Request.Context(), "Failed to mark notification read", "id", id, "error", err)
			response.ErrorWithStatus(c, http.StatusInternalServerError, "failed to update notification", nil)
		}
		return
	}
	response.Success(c, gin.H{"read": true})
}

// MarkAllRead 全部已读
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}

	count, err := h.service.MarkAllRead(c.Request.Context(), userID)
	if err != nil {
		logger.Error(c.Request.Context(), "Failed to mark notifications read", "user_id", userID, "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, "failed to update notifications", nil)
		return
	}
	response.Success(c, gin.H{"read": count})
}
