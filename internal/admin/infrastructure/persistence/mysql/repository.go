// Package mysql 后台看板统计的 MySQL 实现
package mysql

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/wyfcoding/honeyshop/internal/admin/domain"
	orderdomain "github.com/wyfcoding/honeyshop/internal/order/domain"
)

// TopProductLimit 销量排行条数
const TopProductLimit = 5

type reportingRepository struct{ db *gorm.DB }

// NewReportingRepository 创建看板统计仓储实例
func NewReportingRepository(db *gorm.DB) domain.ReportingRepository {
	return &reportingRepository{db: db}
}

// Dashboard 聚合看板统计。营收只计 COMPLETED 订单。
func (r *reportingRepository) Dashboard(ctx context.Context) (*domain.Dashboard, error) {
	now := time.Now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	dash := &domain.Dashboard{
		TodayRevenue:   decimal.Zero,
		MonthlyRevenue: decimal.Zero,
	}

	revenue := func(since time.Time) (decimal.Decimal, error) {
		var total decimal.NullDecimal
		err := r.db.WithContext(ctx).
			Model(&orderdomain.Order{}).
			Select("SUM(total_amount)").
			Where("status = ? AND created_at >= ?", orderdomain.StatusCompleted, since).
			Scan(&total).Error
		if err != nil || !total.Valid {
			return decimal.Zero, err
		}
		return total.Decimal, nil
	}

	var err error
	if dash.TodayRevenue, err = revenue(dayStart); err != nil {
		return nil, err
	}
	if dash.MonthlyRevenue, err = revenue(monthStart); err != nil {
		return nil, err
	}

	if err = r.db.WithContext(ctx).
		Model(&orderdomain.Order{}).
		Where("created_at >= ?", dayStart).
		Count(&dash.TodayOrders).Error; err != nil {
		return nil, err
	}

	count := func(statuses ...orderdomain.Status) (int64, error) {
		var n int64
		err := r.db.WithContext(ctx).
			Model(&orderdomain.Order{}).
			Where("status IN ?", statuses).
			Count(&n).Error
		return n, err
	}

	if dash.PendingOrders, err = count(orderdomain.StatusPending, orderdomain.StatusProcessing); err != nil {
		return nil, err
	}
	if dash.ShippingOrders, err = count(orderdomain.StatusShipping); err != nil {
		return nil, err
	}
	if dash.CompletedOrders, err = count(orderdomain.StatusCompleted); err != nil {
		return nil, err
	}
	if dash.CanceledOrders, err = count(orderdomain.StatusCanceled); err != nil {
		return nil, err
	}

	rows := []struct {
		ProductID   uint
		ProductName string
		Quantity    int64
		Revenue     decimal.Decimal
	}{}
	err = r.db.WithContext(ctx).
		Model(&orderdomain.OrderDetail{}).
		Select("order_details.product_id, order_details.product_name, SUM(order_details.quantity) AS quantity, SUM(order_details.line_total) AS revenue").
		Joins("JOIN orders ON orders.id = order_details.order_id").
		Where("orders.status = ?", orderdomain.StatusCompleted).
		Group("order_details.product_id, order_details.product_name").
		Order("quantity DESC").
		Limit(TopProductLimit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	dash.TopProducts = make([]domain.TopProduct, 0, len(rows))
	for _, row := range rows {
		dash.TopProducts = append(dash.TopProducts, domain.TopProduct{
			ProductID:   row.ProductID,
			ProductName: row.ProductName,
			Quantity:    row.Quantity,
			Revenue:     row.Revenue,
		})
	}
	return dash, nil
}
