// Package domain 后台看板统计模型
package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

// TopProduct 销量排行条目（按已完成订单聚合）
type TopProduct struct {
	ProductID   uint            `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int64           `json:"quantity"`
	Revenue     decimal.Decimal `json:"revenue"`
}

// Dashboard 看板统计快照
type Dashboard struct {
	TodayRevenue    decimal.Decimal `json:"today_revenue"`
	TodayOrders     int64           `json:"today_orders"`
	MonthlyRevenue  decimal.Decimal `json:"monthly_revenue"`
	PendingOrders   int64           `json:"pending_orders"`
	ShippingOrders  int64           `json:"shipping_orders"`
	CompletedOrders int64           `json:"completed_orders"`
	CanceledOrders  int64           `json:"canceled_orders"`
	TopProducts     []TopProduct    `json:"top_products"`
}

// ReportingRepository 看板统计仓储接口
type ReportingRepository interface {
	Dashboard(ctx context.Context) (*Dashboard, error)
}
