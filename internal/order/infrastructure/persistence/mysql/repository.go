// Package mysql 订单上下文的 MySQL 仓储实现
package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	notificationdomain "github.com/wyfcoding/honeyshop/internal/notification/domain"
	"github.com/wyfcoding/honeyshop/internal/order/domain"
)

type orderRepository struct{ db *gorm.DB }

// NewOrderRepository 创建订单仓储实例
func NewOrderRepository(db *gorm.DB) domain.OrderRepository {
	return &orderRepository{db: db}
}

// Checkout 单事务：按手机号 upsert 客户、创建订单与明细
func (r *orderRepository) Checkout(ctx context.Context, customer *domain.Customer, order *domain.Order, details []domain.OrderDetail) (*domain.Order, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 同手机号重复下单：后写覆盖姓名与地址
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "phone"}},
			DoUpdates: clause.AssignmentColumns([]string{"full_name", "address", "user_id", "updated_at"}),
		}).Create(customer).Error; err != nil {
			return err
		}
		if customer.ID == 0 {
			// MySQL 的 upsert 命中更新分支时不回填主键，需再查一次
			var existing domain.Customer
			if err := tx.Where("phone = ?", customer.Phone).First(&existing).Error; err != nil {
				return err
			}
			customer.ID = existing.ID
		}

		order.CustomerID = customer.ID
		if err := tx.Omit("Customer", "Details").Create(order).Error; err != nil {
			return err
		}

		for i := range details {
			details[i].OrderID = order.ID
		}
		if err := tx.Create(&details).Error; err != nil {
			return err
		}
		order.Details = details
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (r *orderRepository) FindByID(ctx context.Context, id uint) (*domain.Order, error) {
	var order domain.Order
	err := r.db.WithContext(ctx).
		Preload("Details").
		Preload("Customer").
		First(&order, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) List(ctx context.Context, q domain.ListQuery) ([]*domain.Order, int64, error) {
	query := r.db.WithContext(ctx).Model(&domain.Order{}).
		Joins("JOIN customers ON customers.id = orders.customer_id")

	if q.Status != "" {
		query = query.Where("orders.status = ?", q.Status)
	}
	if q.Keyword != "" {
		like := "%" + q.Keyword + "%"
		query = query.Where(
			"orders.shipping_address LIKE ? OR customers.phone LIKE ? OR customers.full_name LIKE ?",
			like, like, like,
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var orders []*domain.Order
	err := query.
		Preload("Customer").
		Preload("Details").
		Order("orders.created_at DESC").
		Offset((q.Page - 1) * q.PageSize).
		Limit(q.PageSize).
		Find(&orders).Error
	return orders, total, err
}

func (r *orderRepository) ListByUser(ctx context.Context, userID uint) ([]*domain.Order, error) {
	var orders []*domain.Order
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Preload("Details").
		Order("created_at DESC").
		Find(&orders).Error
	return orders, err
}

// UpdateStatus 单事务：更新状态与取消原因，并插入状态通知
func (r *orderRepository) UpdateStatus(ctx context.Context, order *domain.Order, notification *domain.StatusNotification) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := map[string]any{
			"status":           order.Status,
			"rejection_reason": order.RejectionReason,
		}
		if err := tx.Model(&domain.Order{}).Where("id = ?", order.ID).Updates(updates).Error; err != nil {
			return err
		}

		if notification == nil {
			return nil
		}
		orderID := order.ID
		record := &notificationdomain.Notification{
			UserID:      order.UserID,
			Title:       notification.Title,
			Message:     notification.Message,
			Type:        notification.Type,
			RelatedID:   &orderID,
			RelatedType: "ORDER",
		}
		return tx.Create(record).Error
	})
}
