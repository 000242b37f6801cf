package application

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/wyfcoding/honeyshop/internal/order/domain"
	"github.com/wyfcoding/honeyshop/pkg/logger"
	"github.com/wyfcoding/honeyshop/pkg/metrics"
)

// StatusService 订单状态流转应用服务
type StatusService struct {
	orders            domain.OrderRepository
	publisher         domain.EventPublisher
	metrics           *metrics.Metrics
	strictTransitions bool
}

// NewStatusService 创建状态流转服务。
// strict 开启时按迁移图校验，否则只校验目标状态合法。
func NewStatusService(orders domain.OrderRepository, publisher domain.EventPublisher, m *metrics.Metrics, strict bool) *StatusService {
	if publisher == nil {
		publisher = NoopPublisher{}
	}
	return &StatusService{orders: orders, publisher: publisher, metrics: m, strictTransitions: strict}
}

// UpdateStatus 更新订单状态。取消原因仅对 CANCELED 生效，其余状态下忽略。
// 状态更新与对应通知在同一事务内落库。
func (s *StatusService) UpdateStatus(ctx context.Context, orderID uint, next domain.Status, reason string) (*domain.Order, error) {
	next = domain.Status(strings.ToUpper(string(next)))
	if !next.Valid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidStatus, next)
	}

	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	from := order.Status
	if s.strictTransitions && !from.CanTransitionTo(next) {
		return nil, fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, from, next)
	}

	order.Status = next
	if next == domain.StatusCanceled {
		order.RejectionReason = reason
	} else {
		order.RejectionReason = ""
	}

	// 仅对有归属用户的订单落通知
	var notification *domain.StatusNotification
	if order.UserID != nil {
		n := domain.NotificationForStatus(order.ID, next, order.RejectionReason)
		notification = &n
	}

	if err := s.orders.UpdateStatus(ctx, order, notification); err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.OrderStatusTransitions.WithLabelValues(string(next)).Inc()
	}
	s.publisher.Publish(ctx, "order.status.changed", fmt.Sprintf("%d", order.ID), domain.StatusChangedEvent{
		OrderID:   order.ID,
		From:      from,
		To:        next,
		Reason:    order.RejectionReason,
		Timestamp: time.Now(),
	})

	logger.Info(ctx, "Order status updated", "order_id", order.ID, "from", from, "to", next)
	return order, nil
}
