// Package domain 订单限界上下文的领域模型
package domain

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	// ErrOrderNotFound 订单不存在
	ErrOrderNotFound = errors.New("order not found")
	// ErrEmptyCart 购物车为空，无法结算
	ErrEmptyCart = errors.New("cart is empty")
	// ErrLoginRequired 结算要求登录会话
	ErrLoginRequired = errors.New("login required for checkout")
	// ErrInvalidStatus 未知订单状态
	ErrInvalidStatus = errors.New("invalid order status")
	// ErrInvalidTransition 状态迁移不被允许
	ErrInvalidTransition = errors.New("order status transition not allowed")
)

// Status 订单状态
type Status string

const (
	StatusPending    Status = "PENDING"
	StatusProcessing Status = "PROCESSING"
	StatusShipping   Status = "SHIPPING"
	StatusCompleted  Status = "COMPLETED"
	StatusCanceled   Status = "CANCELED"
)

// Valid 是否为已知状态
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusShipping, StatusCompleted, StatusCanceled:
		return true
	}
	return false
}

// transitions 允许的状态迁移图。终态（COMPLETED/CANCELED）无出边。
var transitions = map[Status][]Status{
	StatusPending:    {StatusProcessing, StatusCanceled},
	StatusProcessing: {StatusShipping, StatusCanceled},
	StatusShipping:   {StatusCompleted, StatusCanceled},
}

// CanTransitionTo 当前状态是否允许迁移到 next
func (s Status) CanTransitionTo(next Status) bool {
	for _, t := range transitions[s] {
		if t == next {
			return true
		}
	}
	return false
}

// Customer 收货客户，手机号唯一。同号重复下单覆盖姓名与地址。
type Customer struct {
	gorm.Model
	UserID   *uint  `gorm:"column:user_id;index"`
	FullName string `gorm:"column:full_name;type:varchar(128);not null"`
	Email    string `gorm:"column:email;type:varchar(256)"`
	Address  string `gorm:"column:address;type:varchar(512);not null"`
	Phone    string `gorm:"column:phone;type:varchar(32);uniqueIndex;not null"`
	IsActive bool   `gorm:"column:is_active;not null;default:true"`
}

func (Customer) TableName() string { return "customers" }

// Order 订单聚合根。姓名与电话为下单时刻快照。
type Order struct {
	gorm.Model
	CustomerID      uint            `gorm:"column:customer_id;index;not null"`
	UserID          *uint           `gorm:"column:user_id;index"`
	FullName        string          `gorm:"column:full_name;type:varchar(128);not null"`
	Phone           string          `gorm:"column:phone;type:varchar(32);not null"`
	TotalAmount     decimal.Decimal `gorm:"column:total_amount;type:decimal(15,2);not null"`
	ShippingAddress string          `gorm:"column:shipping_address;type:varchar(512);not null"`
	Status          Status          `gorm:"column:status;type:varchar(16);index;not null;default:'PENDING'"`
	RejectionReason string          `gorm:"column:rejection_reason;type:varchar(512)"`
	Customer        Customer        `gorm:"foreignKey:CustomerID"`
	Details         []OrderDetail   `gorm:"foreignKey:OrderID"`
}

func (Order) TableName() string { return "orders" }

// OrderDetail 订单明细行。名称、单价与行小计为下单时刻快照，
// 后续商品变化不得追溯修改历史订单。
type OrderDetail struct {
	gorm.Model
	OrderID     uint            `gorm:"column:order_id;index;not null"`
	ProductID   uint            `gorm:"column:product_id;not null"`
	ProductName string          `gorm:"column:product_name;type:varchar(256);not null"`
	UnitPrice   decimal.Decimal `gorm:"column:unit_price;type:decimal(15,2);not null"`
	Quantity    int             `gorm:"column:quantity;not null"`
	LineTotal   decimal.Decimal `gorm:"column:line_total;type:decimal(15,2);not null"`
}

func (OrderDetail) TableName() string { return "order_details" }

// StatusNotification 状态变更产生的通知内容
type StatusNotification struct {
	Title   string
	Message string
	Type    string
}

// NotificationForStatus 状态到通知内容的固定映射。全映射：
// 未单列的状态走默认分支，产生一条通用的状态更新通知。
func NotificationForStatus(orderID uint, status Status, reason string) StatusNotification {
	switch status {
	case StatusProcessing:
		return StatusNotification{
			Title:   "Order Confirmed",
			Message: fmt.Sprintf("Your order #%d has been confirmed and is being prepared.", orderID),
			Type:    "SUCCESS",
		}
	case StatusShipping:
		return StatusNotification{
			Title:   "Order Shipped",
			Message: fmt.Sprintf("Your order #%d is on its way.", orderID),
			Type:    "INFO",
		}
	case StatusCompleted:
		return StatusNotification{
			Title:   "Order Delivered",
			Message: fmt.Sprintf("Your order #%d has been delivered. Thank you for shopping with us!", orderID),
			Type:    "SUCCESS",
		}
	case StatusCanceled:
		msg := fmt.Sprintf("Your order #%d has been canceled.", orderID)
		if reason != "" {
			msg = fmt.Sprintf("Your order #%d has been canceled. Reason: %s", orderID, reason)
		}
		return StatusNotification{
			Title:   "Order Canceled",
			Message: msg,
			Type:    "ERROR",
		}
	default:
		return StatusNotification{
			Title:   "Order Updated",
			Message: fmt.Sprintf("Your order #%d status has been updated to %s.", orderID, status),
			Type:    "INFO",
		}
	}
}

// ListQuery 后台订单列表查询
type ListQuery struct {
	Status   Status
	Keyword  string
	Page     int
	PageSize int
}

// OrderRepository 订单仓储接口
type OrderRepository interface {
	// Checkout 单事务内完成：按手机号 upsert 客户、创建订单与明细。
	// 返回持久化后的订单（含 ID）。
	Checkout(ctx context.Context, customer *Customer, order *Order, details []OrderDetail) (*Order, error)
	// FindByID 加载订单及其明细与客户
	FindByID(ctx context.Context, id uint) (*Order, error)
	// List 后台分页列表，支持状态过滤与关键词检索
	List(ctx context.Context, q ListQuery) ([]*Order, int64, error)
	// ListByUser 用户订单历史，按创建时间倒序
	ListByUser(ctx context.Context, userID uint) ([]*Order, error)
	// UpdateStatus 单事务内更新订单状态（及取消原因）并插入给定通知。
	// notification 为 nil 时只更新状态。
	UpdateStatus(ctx context.Context, order *Order, notification *StatusNotification) error
}

// CreatedEvent 下单完成事件
type CreatedEvent struct {
	OrderID     uint            `json:"order_id"`
	CustomerID  uint            `json:"customer_id"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	ItemCount   int             `json:"item_count"`
	Timestamp   time.Time       `json:"timestamp"`
}

// StatusChangedEvent 状态变更事件
type StatusChangedEvent struct {
	OrderID   uint      `json:"order_id"`
	From      Status    `json:"from"`
	To        Status    `json:"to"`
	Reason    string    `json:"reason,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// EventPublisher 订单事件发布接口
type EventPublisher interface {
	Publish(ctx context.Context, eventType, key string, event any) error
}
