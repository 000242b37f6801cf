// Package application 购物车应用服务：基于会话存储的读改写
package application

import (
	"context"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	cartdomain "github.com/wyfcoding/honeyshop/internal/cart/domain"
	catalogdomain "github.com/wyfcoding/honeyshop/internal/catalog/domain"
	"github.com/wyfcoding/honeyshop/internal/session"
	"github.com/wyfcoding/honeyshop/pkg/logger"
	"github.com/wyfcoding/honeyshop/pkg/metrics"
)

// CartKey 会话中保存购物车的 key
const CartKey = "cart"

// NoopPublisher 事件发布的空实现（Kafka 未启用或测试时使用）
type NoopPublisher struct{}

// Publish 丢弃事件
func (NoopPublisher) Publish(ctx context.Context, eventType, key string, event any) error {
	return nil
}

// CartService 购物车应用服务。
// 每次变更都整体重新序列化写回会话，调用方不得假设原地可见。
type CartService struct {
	policy    cartdomain.QuantityPolicy
	publisher cartdomain.EventPublisher
	metrics   *metrics.Metrics
}

// NewCartService 创建购物车应用服务实例
func NewCartService(policy cartdomain.QuantityPolicy, publisher cartdomain.EventPublisher, m *metrics.Metrics) *CartService {
	if publisher == nil {
		publisher = NoopPublisher{}
	}
	return &CartService{policy: policy, publisher: publisher, metrics: m}
}

func (s *CartService) countOp(op string) {
	if s.metrics != nil {
		s.metrics.CartOperationsTotal.WithLabelValues(op).Inc()
	}
}

// Get 从会话读取购物车。不存在或载荷损坏时返回空购物车，不上抛。
func (s *CartService) Get(ctx context.Context, sess *session.Session) *cartdomain.Cart {
	data, err := sess.Bytes(ctx, CartKey)
	if err != nil {
		logger.Warn(ctx, "Failed to read cart from session", "session_id", sess.ID(), "error", err)
		return cartdomain.NewCart()
	}
	if len(data) == 0 {
		return cartdomain.NewCart()
	}

	var cart cartdomain.Cart
	if err := json.Unmarshal(data, &cart); err != nil {
		logger.Debug(ctx, "Discarding corrupt cart payload", "session_id", sess.ID(), "error", err)
		return cartdomain.NewCart()
	}
	if cart.Lines == nil {
		cart.Lines = make(map[uint]*cartdomain.Line)
	}
	return &cart
}

// Add 将商品加入购物车。前置校验（上架、有库存、数量为正、累计不超库存）
// 由调用方完成；本方法只执行数量策略并落盘。
func (s *CartService) Add(ctx context.Context, sess *session.Session, product *catalogdomain.Product, qty int) error {
	cart := s.Get(ctx, sess)

	snapshot := cartdomain.Line{
		ProductID:   product.ID,
		ProductName: product.Name,
		ImageURL:    product.ImageURL,
		UnitPrice:   product.Price,
		Stock:       product.Stock,
	}
	if err := cart.Add(snapshot, qty, s.policy); err != nil {
		return err
	}

	if err := s.save(ctx, sess, cart); err != nil {
		return err
	}

	s.countOp("add")
	s.publisher.Publish(ctx, "cart.item.added", sess.ID(), cartdomain.ItemAddedEvent{
		SessionID: sess.ID(),
		ProductID: product.ID,
		Quantity:  qty,
		UnitPrice: product.Price,
		Timestamp: time.Now(),
	})
	return nil
}

// UpdateQuantity 更新数量。qty <= 0 等价于移除；
// 数量按行内库存快照执行策略，不重新查询实时库存。
func (s *CartService) UpdateQuantity(ctx context.Context, sess *session.Session, productID uint, qty int) error {
	cart := s.Get(ctx, sess)
	if err := cart.UpdateQuantity(productID, qty, s.policy); err != nil {
		return err
	}
	if err := s.save(ctx, sess, cart); err != nil {
		return err
	}
	s.countOp("update")
	return nil
}

// Remove 移除商品行，不存在时为 no-op
func (s *CartService) Remove(ctx context.Context, sess *session.Session, productID uint) error {
	cart := s.Get(ctx, sess)
	cart.Remove(productID)
	if err := s.save(ctx, sess, cart); err != nil {
		return err
	}

	s.countOp("remove")
	s.publisher.Publish(ctx, "cart.item.removed", sess.ID(), cartdomain.ItemRemovedEvent{
		SessionID: sess.ID(),
		ProductID: productID,
		Timestamp: time.Now(),
	})
	return nil
}

// Clear 整体删除会话中的购物车 key
func (s *CartService) Clear(ctx context.Context, sess *session.Session) error {
	if err := sess.Delete(ctx, CartKey); err != nil {
		return err
	}

	s.countOp("clear")
	s.publisher.Publish(ctx, "cart.cleared", sess.ID(), cartdomain.ClearedEvent{
		SessionID: sess.ID(),
		Timestamp: time.Now(),
	})
	return nil
}

// Count 购物车全部数量之和
func (s *CartService) Count(ctx context.Context, sess *session.Session) int {
	return s.Get(ctx, sess).Count()
}

// Total 购物车总金额
func (s *CartService) Total(ctx context.Context, sess *session.Session) decimal.Decimal {
	return s.Get(ctx, sess).Total()
}

// Replace 以给定购物车整体覆盖会话内容（登录恢复使用）
func (s *CartService) Replace(ctx context.Context, sess *session.Session, cart *cartdomain.Cart) error {
	return s.save(ctx, sess, cart)
}

func (s *CartService) save(ctx context.Context, sess *session.Session, cart *cartdomain.Cart) error {
	data, err := json.Marshal(cart)
	if err != nil {
		return err
	}
	return sess.SetBytes(ctx, CartKey, data)
}
