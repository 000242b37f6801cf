package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	cartdomain "github.com/wyfcoding/honeyshop/internal/cart/domain"
	"github.com/wyfcoding/honeyshop/internal/order/application"
	"github.com/wyfcoding/honeyshop/internal/order/domain"
	"github.com/wyfcoding/honeyshop/internal/session"
	"github.com/wyfcoding/honeyshop/pkg/logger"
	"github.com/wyfcoding/honeyshop/pkg/response"
)

// OrderHandler 订单 HTTP 处理器
type OrderHandler struct {
	checkout *application.CheckoutService
	status   *application.StatusService
	query    *application.QueryService
}

// NewOrderHandler 创建订单 HTTP 处理器
func NewOrderHandler(checkout *application.CheckoutService, status *application.StatusService, query *application.QueryService) *OrderHandler {
	return &OrderHandler{checkout: checkout, status: status, query: query}
}

// RegisterRoutes 注册路由。后台路由需管理员身份。
func (h *OrderHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/checkout", session.RequireLogin(), h.Checkout)
	router.GET("/orders", session.RequireLogin(), h.History)

	admin := router.Group("/admin/orders", session.RequireAdmin())
	{
		admin.GET("", h.AdminList)
		admin.GET("/:id", h.AdminDetail)
		admin.POST("/:id/status", h.UpdateStatus)
	}
}

// CheckoutRequest 结算请求体
type CheckoutRequest struct {
	FullName        string `json:"full_name" binding:"required"`
	Phone           string `json:"phone" binding:"required"`
	ShippingAddress string `json:"shipping_address" binding:"required"`
}

// Checkout 结算当前会话购物车
func (h *OrderHandler) Checkout(c *gin.Context) {
	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), nil)
		return
	}

	ctx := c.Request.Context()
	sess := session.FromContext(c)

	order, err := h.checkout.Checkout(ctx, sess, application.CheckoutRequest{
		FullName:        req.FullName,
		Phone:           req.Phone,
		ShippingAddress: req.ShippingAddress,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrLoginRequired):
			response.Error(c, http.StatusUnauthorized, "login required")
		case errors.Is(err, domain.ErrEmptyCart):
			response.Error(c, http.StatusBadRequest, "your cart is empty")
		case errors.Is(err, application.ErrInvalidShipping):
			response.Error(c, http.StatusBadRequest, "shipping information is incomplete")
		case errors.Is(err, cartdomain.ErrStockExceeded):
			response.Error(c, http.StatusConflict, err.Error())
		default:
			logger.Error(ctx, "Checkout failed", "error", err)
			response.ErrorWithStatus(c, http.StatusInternalServerError, "failed to place order", nil)
		}
		return
	}

	response.Success(c, gin.H{
		"order_id": order.ID,
		"total":    order.TotalAmount.StringFixed(2),
		"status":   order.Status,
	})
}

// History 当前用户订单历史
func (h *OrderHandler) History(c *gin.Context) {
	identity, ok := session.FromContext(c).Identity(c.Request.Context())
	if !ok {
		response.Error(c, http.StatusUnauthorized, "login required")
		return
	}

	orders, err := h.query.History(c.Request.Context(), identity.UserID)
	if err != nil {
		logger.Error(c.Request.Context(), "Failed to load order history", "user_id", identity.UserID, "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, "failed to load orders", nil)
		return
	}
	response.Success(c, orders)
}

// AdminList 后台订单列表
func (h *OrderHandler) AdminList(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))

	result, err := h.query.AdminList(c.Request.Context(), c.Query("status"), c.Query("search"), page)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidStatus) {
			response.ErrorWithStatus(c, http.StatusBadRequest, "unknown order status", nil)
			return
		}
		logger.Error(c.Request.Context(), "Failed to list orders", "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, "failed to list orders", nil)
		return
	}
	response.Success(c, result)
}

// AdminDetail 后台订单详情
func (h *OrderHandler) AdminDetail(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid order id", nil)
		return
	}

	order, err := h.query.Detail(c.Request.Context(), uint(id))
	if errors.Is(err, domain.ErrOrderNotFound) {
		response.Error(c, http.StatusNotFound, "order not found")
		return
	}
	if err != nil {
		logger.Error(c.Request.Context(), "Failed to load order", "order_id", id, "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, "failed to load order", nil)
		return
	}
	response.Success(c, order)
}

// UpdateStatusRequest 状态更新请求体
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
	Reason string `json:"reason"`
}

// UpdateStatus 后台更新订单状态
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid order id", nil)
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), nil)
		return
	}

	ctx := c.Request.Context()
	order, err := h.status.UpdateStatus(ctx, uint(id), domain.Status(req.Status), req.Reason)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrOrderNotFound):
			response.Error(c, http.StatusNotFound, "order not found")
		case errors.Is(err, domain.ErrInvalidStatus):
			response.Error(c, http.StatusBadRequest, "unknown order status")
		case errors.Is(err, domain.ErrInvalidTransition):
			response.Error(c, http.StatusConflict, err.Error())
		default:
			logger.Error(ctx, "Failed to update order status", "order_id", id, "error", err)
			response.ErrorWithStatus(c, http.StatusInternalServerError, "failed to update order status", nil)
		}
		return
	}

	response.Success(c, gin.H{
		"order_id": order.ID,
		"status":   order.Status,
	})
}
