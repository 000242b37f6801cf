package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// EventPublisher 购物车事件发布接口
type EventPublisher interface {
	Publish(ctx context.Context, eventType, key string, event any) error
}

// ItemAddedEvent 商品加入购物车事件
type ItemAddedEvent struct {
	SessionID string          `json:"session_id"`
	ProductID uint            `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Timestamp time.Time       `json:"timestamp"`
}

// ItemRemovedEvent 商品移出购物车事件
type ItemRemovedEvent struct {
	SessionID string    `json:"session_id"`
	ProductID uint      `json:"product_id"`
	Timestamp time.Time `json:"timestamp"`
}

// ClearedEvent 购物车清空事件
type ClearedEvent struct {
	SessionID string    `json:"session_id"`
	Timestamp time.Time `json:"timestamp"`
}
