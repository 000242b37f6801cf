// Package domain 商品目录的领域模型
package domain

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ErrProductNotFound 商品不存在或已下架
var ErrProductNotFound = errors.New("product not found")

// Category 商品分类
type Category struct {
	gorm.Model
	Name     string `gorm:"column:name;type:varchar(100);not null"`
	Slug     string `gorm:"column:slug;type:varchar(120);uniqueIndex"`
	IsActive bool   `gorm:"column:is_active;not null;default:true"`
}

func (Category) TableName() string { return "categories" }

// Product 商品实体
type Product struct {
	gorm.Model
	CategoryID  uint            `gorm:"column:category_id;index;not null"`
	Name        string          `gorm:"column:name;type:varchar(150);not null"`
	Slug        string          `gorm:"column:slug;type:varchar(180);uniqueIndex"`
	ShortDesc   string          `gorm:"column:short_desc;type:varchar(255)"`
	Description string          `gorm:"column:description;type:text"`
	Origin      string          `gorm:"column:origin;type:varchar(150)"`
	Price       decimal.Decimal `gorm:"column:price;type:decimal(15,2);not null"`
	ImageURL    string          `gorm:"column:image_url;type:varchar(255)"`
	Stock       int             `gorm:"column:stock_quantity;not null;default:0"`
	IsActive    bool            `gorm:"column:is_active;not null;default:true"`

	Category *Category `gorm:"foreignKey:CategoryID"`
}

func (Product) TableName() string { return "products" }

// InStock 是否有库存
func (p *Product) InStock() bool {
	return p.Stock > 0
}

// SearchQuery 商品列表查询条件
type SearchQuery struct {
	// 关键字，匹配名称与描述
	Keyword string
	// 分类过滤，0 表示不过滤
	CategoryID uint
	// 排序：price_asc, price_desc, name_asc, name_desc, newest
	SortBy string
	// 页码，从 1 开始
	Page int
	// 每页数量
	PageSize int
}

// ProductRepository 商品仓储接口
type ProductRepository interface {
	// FindActive 获取上架商品，不存在或已下架时返回 ErrProductNotFound
	FindActive(ctx context.Context, id uint) (*Product, error)
	// Search 按条件分页检索上架且有库存的商品
	Search(ctx context.Context, q SearchQuery) ([]*Product, int64, error)
	// Related 获取同分类的关联商品
	Related(ctx context.Context, p *Product, limit int) ([]*Product, error)
}

// CategoryRepository 分类仓储接口
type CategoryRepository interface {
	// ListActive 获取启用的分类，按名称排序
	ListActive(ctx context.Context) ([]*Category, error)
}
