package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wyfcoding/honeyshop/internal/admin/application"
	"github.com/wyfcoding/honeyshop/internal/session"
	"github.com/wyfcoding/honeyshop/pkg/logger"
	"github.com/wyfcoding/honeyshop/pkg/response"
)

// DashboardHandler 后台看板 HTTP 处理器
type DashboardHandler struct {
	service *application.DashboardService
}

// NewDashboardHandler 创建看板 HTTP 处理器
func NewDashboardHandler(service *application.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: service}
}

// RegisterRoutes 注册路由，需管理员身份
func (h *DashboardHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/admin/dashboard", session.RequireAdmin(), h.Dashboard)
}

// Dashboard 看板统计
func (h *DashboardHandler) Dashboard(c *gin.Context) {
	dash, err := h.service.Dashboard(c.Request.Context())
	if err != nil {
		logger.Error(c.Request.Context(), "Failed to build dashboard", "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, "failed to load dashboard", nil)
		return
	}
	response.Success(c, dash)
}
