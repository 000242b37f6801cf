package http

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	cartapp "github.com/wyfcoding/honeyshop/internal/cart/application"
	cartdomain "github.com/wyfcoding/honeyshop/internal/cart/domain"
	catalogapp "github.com/wyfcoding/honeyshop/internal/catalog/application"
	catalogdomain "github.com/wyfcoding/honeyshop/internal/catalog/domain"
	"github.com/wyfcoding/honeyshop/internal/session"
	"github.com/wyfcoding/honeyshop/pkg/logger"
	"github.com/wyfcoding/honeyshop/pkg/response"
)

// CartHandler 购物车 HTTP 处理器
type CartHandler struct {
	cart    *cartapp.CartService
	catalog *catalogapp.CatalogService
}

// NewCartHandler 创建购物车 HTTP 处理器
func NewCartHandler(cart *cartapp.CartService, catalog *catalogapp.CatalogService) *CartHandler {
	return &CartHandler{cart: cart, catalog: catalog}
}

// RegisterRoutes 注册路由
func (h *CartHandler) RegisterRoutes(router *gin.RouterGroup) {
	api := router.Group("/cart")
	{
		api.GET("", h.Get)
		api.GET("/count", h.Count)
		api.POST("/items", h.Add)
		api.PUT("/items/:productId", h.Update)
		api.DELETE("/items/:productId", h.Remove)
		api.POST("/clear", h.Clear)
	}
}

// cartView 购物车响应
type cartView struct {
	Lines []*cartdomain.Line `json:"lines"`
	Total string             `json:"total"`
	Count int                `json:"count"`
}

func (h *CartHandler) view(cart *cartdomain.Cart) cartView {
	lines := make([]*cartdomain.Line, 0, len(cart.Lines))
	for _, line := range cart.Lines {
		lines = append(lines, line)
	}
	return cartView{
		Lines: lines,
		Total: cart.Total().StringFixed(2),
		Count: cart.Count(),
	}
}

// Get 查看购物车
func (h *CartHandler) Get(c *gin.Context) {
	sess := session.FromContext(c)
	cart := h.cart.Get(c.Request.Context(), sess)
	response.Success(c, h.view(cart))
}

// Count 购物车数量（供页面轮询）
func (h *CartHandler) Count(c *gin.Context) {
	sess := session.FromContext(c)
	response.Success(c, gin.H{"count": h.cart.Count(c.Request.Context(), sess)})
}

// AddRequest 加入购物车请求
type AddRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required"`
}

// Add 加入购物车。前置校验：商品上架、有库存、
// 数量为正、累计数量不超过实时库存。
func (h *CartHandler) Add(c *gin.Context) {
	var req AddRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), nil)
		return
	}

	ctx := c.Request.Context()
	sess := session.FromContext(c)

	product, err := h.catalog.FindActiveProduct(ctx, req.ProductID)
	if errors.Is(err, catalogdomain.ErrProductNotFound) {
		response.Error(c, http.StatusNotFound, "product does not exist")
		return
	}
	if err != nil {
		logger.Error(ctx, "Failed to load product for cart add", "product_id", req.ProductID, "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, "failed to add product to cart", nil)
		return
	}

	if product.Stock <= 0 {
		response.Error(c, http.StatusConflict, "product is out of stock")
		return
	}
	if req.Quantity <= 0 {
		response.Error(c, http.StatusBadRequest, "invalid quantity")
		return
	}

	current := h.cart.Get(ctx, sess)
	currentQty := 0
	if line := current.Get(req.ProductID); line != nil {
		currentQty = line.Quantity
	}
	if currentQty+req.Quantity > product.Stock {
		response.Error(c, http.StatusConflict,
			fmt.Sprintf("only %d left in stock, you already have %d in your cart", product.Stock, currentQty))
		return
	}

	if err := h.cart.Add(ctx, sess, product, req.Quantity); err != nil {
		if errors.Is(err, cartdomain.ErrStockExceeded) {
			response.Error(c, http.StatusConflict, "requested quantity exceeds stock")
			return
		}
		logger.Error(ctx, "Failed to add product to cart", "product_id", req.ProductID, "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, "failed to add product to cart", nil)
		return
	}

	response.Success(c, gin.H{"cart_count": h.cart.Count(ctx, sess)})
}

// UpdateRequest 更新数量请求
type UpdateRequest struct {
	Quantity int `json:"quantity"`
}

// Update 更新数量；数量 <= 0 等价于移除
func (h *CartHandler) Update(c *gin.Context) {
	productID, err := strconv.ParseUint(c.Param("productId"), 10, 64)
	if err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid product id", nil)
		return
	}

	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), nil)
		return
	}

	ctx := c.Request.Context()
	sess := session.FromContext(c)

	if err := h.cart.UpdateQuantity(ctx, sess, uint(productID), req.Quantity); err != nil {
		if errors.Is(err, cartdomain.ErrStockExceeded) {
			response.Error(c, http.StatusConflict, "requested quantity exceeds stock")
			return
		}
		logger.Error(ctx, "Failed to update cart", "product_id", productID, "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, "failed to update cart", nil)
		return
	}

	cart := h.cart.Get(ctx, sess)
	itemTotal := "0.00"
	if line := cart.Get(uint(productID)); line != nil {
		itemTotal = line.Total().StringFixed(2)
	}

	response.Success(c, gin.H{
		"cart_total": cart.Total().StringFixed(2),
		"cart_count": cart.Count(),
		"item_total": itemTotal,
	})
}

// Remove 移除商品行
func (h *CartHandler) Remove(c *gin.Context) {
	productID, err := strconv.ParseUint(c.Param("productId"), 10, 64)
	if err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid product id", nil)
		return
	}

	ctx := c.Request.Context()
	sess := session.FromContext(c)

	if err := h.cart.Remove(ctx, sess, uint(productID)); err != nil {
		logger.Error(ctx, "Failed to remove from cart", "product_id", productID, "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, "failed to remove product from cart", nil)
		return
	}

	cart := h.cart.Get(ctx, sess)
	response.Success(c, gin.H{
		"cart_total": cart.Total().StringFixed(2),
		"cart_count": cart.Count(),
	})
}

// Clear 清空购物车
func (h *CartHandler) Clear(c *gin.Context) {
	sess := session.FromContext(c)
	if err := h.cart.Clear(c.Request.Context(), sess); err != nil {
		logger.Error(c.Request.Context(), "Failed to clear cart", "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, "failed to clear cart", nil)
		return
	}
	response.Success(c, gin.H{"cleared": true})
}
