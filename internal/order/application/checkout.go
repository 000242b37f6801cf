// Package application 订单应用服务：结算、状态流转、查询
package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	cartapp "github.com/wyfcoding/honeyshop/internal/cart/application"
	cartdomain "github.com/wyfcoding/honeyshop/internal/cart/domain"
	"github.com/wyfcoding/honeyshop/internal/order/domain"
	"github.com/wyfcoding/honeyshop/internal/session"
	"github.com/wyfcoding/honeyshop/pkg/logger"
	"github.com/wyfcoding/honeyshop/pkg/metrics"
)

// ErrInvalidShipping 收货信息不完整
var ErrInvalidShipping = errors.New("shipping information is incomplete")

// NoopPublisher 订单事件发布的空实现
type NoopPublisher struct{}

// Publish 丢弃事件
func (NoopPublisher) Publish(ctx context.Context, eventType, key string, event any) error {
	return nil
}

// CheckoutRequest 结算请求
type CheckoutRequest struct {
	FullName        string
	Phone           string
	ShippingAddress string
}

// CheckoutService 结算应用服务
type CheckoutService struct {
	orders    domain.OrderRepository
	cart      *cartapp.CartService
	policy    cartdomain.QuantityPolicy
	publisher domain.EventPublisher
	metrics   *metrics.Metrics
}

// NewCheckoutService 创建结算服务
func NewCheckoutService(
	orders domain.OrderRepository,
	cart *cartapp.CartService,
	policy cartdomain.QuantityPolicy,
	publisher domain.EventPublisher,
	m *metrics.Metrics,
) *CheckoutService {
	if publisher == nil {
		publisher = NoopPublisher{}
	}
	return &CheckoutService{orders: orders, cart: cart, policy: policy, publisher: publisher, metrics: m}
}

// Checkout 将当前会话购物车转为订单。要求已登录且购物车非空。
// 每行只按行内库存快照校验，不重新查询实时库存；
// 随后单事务内 upsert 客户、写入订单与明细，提交后清空购物车。
func (s *CheckoutService) Checkout(ctx context.Context, sess *session.Session, req CheckoutRequest) (*domain.Order, error) {
	identity, ok := sess.Identity(ctx)
	if !ok {
		return nil, domain.ErrLoginRequired
	}

	if strings.TrimSpace(req.FullName) == "" ||
		strings.TrimSpace(req.Phone) == "" ||
		strings.TrimSpace(req.ShippingAddress) == "" {
		return nil, ErrInvalidShipping
	}

	cart := s.cart.Get(ctx, sess)
	if cart.IsEmpty() {
		return nil, domain.ErrEmptyCart
	}

	// 订单总额取明细行小计之和，截断后的行不按原数量计价
	total := decimal.Zero
	details := make([]domain.OrderDetail, 0, len(cart.Lines))
	for _, line := range cart.Lines {
		if line.Quantity > line.Stock && s.policy == cartdomain.PolicyReject {
			s.countFailure("stock")
			return nil, fmt.Errorf("%w: %s", cartdomain.ErrStockExceeded, line.ProductName)
		}
		qty := line.Quantity
		if qty > line.Stock {
			qty = line.Stock
		}
		lineTotal := line.UnitPrice.Mul(decimal.NewFromInt(int64(qty)))
		total = total.Add(lineTotal)
		details = append(details, domain.OrderDetail{
			ProductID:   line.ProductID,
			ProductName: line.ProductName,
			UnitPrice:   line.UnitPrice,
			Quantity:    qty,
			LineTotal:   lineTotal,
		})
	}

	userID := identity.UserID
	customer := &domain.Customer{
		UserID:   &userID,
		FullName: strings.TrimSpace(req.FullName),
		Address:  strings.TrimSpace(req.ShippingAddress),
		Phone:    strings.TrimSpace(req.Phone),
		IsActive: true,
	}
	order := &domain.Order{
		UserID:          &userID,
		FullName:        customer.FullName,
		Phone:           customer.Phone,
		TotalAmount:     total,
		ShippingAddress: customer.Address,
		Status:          domain.StatusPending,
	}

	placed, err := s.orders.Checkout(ctx, customer, order, details)
	if err != nil {
		s.countFailure("persistence")
		return nil, err
	}

	if err := s.cart.Clear(ctx, sess); err != nil {
		// 订单已落库，购物车残留只影响体验，记日志不回滚
		logger.Warn(ctx, "Failed to clear cart after checkout", "order_id", placed.ID, "error", err)
	}

	if s.metrics != nil {
		s.metrics.OrdersTotal.Inc()
	}
	s.publisher.Publish(ctx, "order.created", fmt.Sprintf("%d", placed.ID), domain.CreatedEvent{
		OrderID:     placed.ID,
		CustomerID:  placed.CustomerID,
		TotalAmount: placed.TotalAmount,
		ItemCount:   len(details),
		Timestamp:   time.Now(),
	})

	logger.Info(ctx, "Order placed",
		"order_id", placed.ID,
		"customer_id", placed.CustomerID,
		"user_id", userID,
		"total", placed.TotalAmount.StringFixed(2))
	return placed, nil
}

func (s *CheckoutService) countFailure(reason string) {
	if s.metrics != nil {
		s.metrics.CheckoutFailuresTotal.WithLabelValues(reason).Inc()
	}
}
