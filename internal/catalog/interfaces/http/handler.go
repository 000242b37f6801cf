package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/wyfcoding/honeyshop/internal/catalog/application"
	"github.com/wyfcoding/honeyshop/internal/catalog/domain"
	"github.com/wyfcoding/honeyshop/pkg/response"
)

// CatalogHandler 商品目录 HTTP 处理器
type CatalogHandler struct {
	catalog *application.CatalogService
}

// NewCatalogHandler 创建商品目录 HTTP 处理器
func NewCatalogHandler(catalog *application.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// RegisterRoutes 注册路由
func (h *CatalogHandler) RegisterRoutes(router *gin.RouterGroup) {
	shop := router.Group("/shop")
	{
		shop.GET("", h.Browse)
		shop.GET("/:id", h.Detail)
	}
}

// Browse 商品列表
func (h *CatalogHandler) Browse(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "9"))
	categoryID, _ := strconv.ParseUint(c.DefaultQuery("category_id", "0"), 10, 64)

	q := domain.SearchQuery{
		Keyword:    c.Query("search"),
		CategoryID: uint(categoryID),
		SortBy:     c.Query("sort_by"),
		Page:       page,
		PageSize:   pageSize,
	}

	result, err := h.catalog.Browse(c.Request.Context(), q)
	if err != nil {
		response.ErrorWithStatus(c, http.StatusInternalServerError, "failed to load products", nil)
		return
	}

	response.Success(c, result)
}

// Detail 商品详情
func (h *CatalogHandler) Detail(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid product id", nil)
		return
	}

	detail, err := h.catalog.Detail(c.Request.Context(), uint(id))
	if errors.Is(err, domain.ErrProductNotFound) {
		response.ErrorWithStatus(c, http.StatusNotFound, "product not found", nil)
		return
	}
	if err != nil {
		response.ErrorWithStatus(c, http.StatusInternalServerError, "failed to load product", nil)
		return
	}

	response.Success(c, detail)
}
