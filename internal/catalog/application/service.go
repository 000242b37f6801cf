// Package application 商品目录查询服务
package application

import (
	"context"

	"github.com/wyfcoding/honeyshop/internal/catalog/domain"
)

// ShopPage 商品列表页结果
type ShopPage struct {
	Products   []*domain.Product  `json:"products"`
	Categories []*domain.Category `json:"categories"`
	TotalItems int64              `json:"total_items"`
	Page       int                `json:"page"`
	PageSize   int                `json:"page_size"`
}

// ProductDetail 商品详情结果
type ProductDetail struct {
	Product *domain.Product   `json:"product"`
	Related []*domain.Product `json:"related"`
}

// CatalogService 商品目录查询服务
type CatalogService struct {
	products   domain.ProductRepository
	categories domain.CategoryRepository
}

// NewCatalogService 创建商品目录查询服务实例
func NewCatalogService(products domain.ProductRepository, categories domain.CategoryRepository) *CatalogService {
	return &CatalogService{products: products, categories: categories}
}

// Browse 商品列表：检索 + 分类过滤 + 排序 + 分页
func (s *CatalogService) Browse(ctx context.Context, q domain.SearchQuery) (*ShopPage, error) {
	if q.PageSize <= 0 {
		q.PageSize = 9
	}
	if q.Page < 1 {
		q.Page = 1
	}

	products, total, err := s.products.Search(ctx, q)
	if err != nil {
		return nil, err
	}

	categories, err := s.categories.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	return &ShopPage{
		Products:   products,
		Categories: categories,
		TotalItems: total,
		Page:       q.Page,
		PageSize:   q.PageSize,
	}, nil
}

// Detail 商品详情与关联商品
func (s *CatalogService) Detail(ctx context.Context, id uint) (*ProductDetail, error) {
	product, err := s.products.FindActive(ctx, id)
	if err != nil {
		return nil, err
	}

	related, err := s.products.Related(ctx, product, 4)
	if err != nil {
		return nil, err
	}

	return &ProductDetail{Product: product, Related: related}, nil
}

// FindActiveProduct 购物车等协作方使用的上架商品查询
func (s *CatalogService) FindActiveProduct(ctx context.Context, id uint) (*domain.Product, error) {
	return s.products.FindActive(ctx, id)
}
