// Package domain 购物车的领域模型：会话级商品行快照与数量策略
package domain

import (
	"errors"

	"github.com/shopspring/decimal"
)

// ErrStockExceeded 请求数量超过库存（仅 PolicyReject 下返回）
var ErrStockExceeded = errors.New("requested quantity exceeds stock")

// QuantityPolicy 超出库存时的数量策略
type QuantityPolicy string

const (
	// PolicyClamp 截断到库存上限（默认）
	PolicyClamp QuantityPolicy = "clamp"
	// PolicyReject 拒绝写入并返回 ErrStockExceeded
	PolicyReject QuantityPolicy = "reject"
)

// Line 购物车商品行，加入时的名称/价格/库存快照
type Line struct {
	ProductID   uint            `json:"product_id"`
	ProductName string          `json:"product_name"`
	ImageURL    string          `json:"image_url,omitempty"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int             `json:"quantity"`
	// Stock 最近一次写入时已知的库存，用于后续数量截断
	Stock int `json:"stock"`
}

// Total 行小计
func (l *Line) Total() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart 会话购物车：商品 ID 到商品行的映射
type Cart struct {
	Lines map[uint]*Line `json:"lines"`
}

// NewCart 创建空购物车
func NewCart() *Cart {
	return &Cart{Lines: make(map[uint]*Line)}
}

// IsEmpty 购物车是否为空
func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// Get 获取商品行，不存在时返回 nil
func (c *Cart) Get(productID uint) *Line {
	return c.Lines[productID]
}

// Add 加入商品。已存在时累加数量；数量按 snapshot.Stock 执行策略。
// snapshot.Quantity 字段被忽略，数量由 qty 决定。
func (c *Cart) Add(snapshot Line, qty int, policy QuantityPolicy) error {
	if c.Lines == nil {
		c.Lines = make(map[uint]*Line)
	}

	if line, ok := c.Lines[snapshot.ProductID]; ok {
		next := line.Quantity + qty
		if next > snapshot.Stock {
			if policy == PolicyReject {
				return ErrStockExceeded
			}
			next = snapshot.Stock
		}
		line.Quantity = next
		// 刷新快照为最近一次写入时已知的值
		line.Stock = snapshot.Stock
		return nil
	}

	if qty > snapshot.Stock {
		if policy == PolicyReject {
			return ErrStockExceeded
		}
		qty = snapshot.Stock
	}
	snapshot.Quantity = qty
	c.Lines[snapshot.ProductID] = &snapshot
	return nil
}

// UpdateQuantity 设置数量。qty <= 0 等价于移除；
// 超过行内库存快照时执行策略（不重新查询实时库存）。
func (c *Cart) UpdateQuantity(productID uint, qty int, policy QuantityPolicy) error {
	line, ok := c.Lines[productID]
	if !ok {
		return nil
	}

	if qty <= 0 {
		delete(c.Lines, productID)
		return nil
	}

	if qty > line.Stock {
		if policy == PolicyReject {
			return ErrStockExceeded
		}
		qty = line.Stock
	}
	line.Quantity = qty
	return nil
}

// Remove 移除商品行，不存在时为 no-op
func (c *Cart) Remove(productID uint) {
	delete(c.Lines, productID)
}

// Total 全部行小计之和
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, line := range c.Lines {
		total = total.Add(line.Total())
	}
	return total
}

// Count 全部行数量之和
func (c *Cart) Count() int {
	count := 0
	for _, line := range c.Lines {
		count += line.Quantity
	}
	return count
}
