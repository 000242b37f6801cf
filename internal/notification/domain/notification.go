// Package domain 站内通知领域模型
package domain

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

var (
	// ErrNotificationNotFound 通知不存在
	ErrNotificationNotFound = errors.New("notification not found")
	// ErrNotOwner 通知不属于当前用户
	ErrNotOwner = errors.New("notification does not belong to user")
)

// 通知级别
const (
	TypeInfo    = "INFO"
	TypeSuccess = "SUCCESS"
	TypeWarning = "WARNING"
	TypeError   = "ERROR"
)

// Notification 站内通知。UserID 为空的通知不投递给任何用户。
type Notification struct {
	gorm.Model
	UserID      *uint      `gorm:"column:user_id;index"`
	Title       string     `gorm:"column:title;type:varchar(256);not null"`
	Message     string     `gorm:"column:message;type:varchar(1024);not null"`
	Type        string     `gorm:"column:type;type:varchar(16);not null;default:'INFO'"`
	RelatedID   *uint      `gorm:"column:related_id"`
	RelatedType string     `gorm:"column:related_type;type:varchar(32)"`
	IsRead      bool       `gorm:"column:is_read;not null;default:false"`
	ReadAt      *time.Time `gorm:"column:read_at"`
}

func (Notification) TableName() string { return "notifications" }

// MarkRead 置为已读，幂等
func (n *Notification) MarkRead(now time.Time) {
	if n.IsRead {
		return
	}
	n.IsRead = true
	n.ReadAt = &now
}

// Repository 通知仓储接口
type Repository interface {
	Create(ctx context.Context, n *Notification) error
	FindByID(ctx context.Context, id uint) (*Notification, error)
	// Recent 用户最近通知，按创建时间倒序
	Recent(ctx context.Context, userID uint, limit int) ([]*Notification, error)
	UnreadCount(ctx context.Context, userID uint) (int64, error)
	Save(ctx context.Context, n *Notification) error
	// MarkAllRead 返回受影响的条数
	MarkAllRead(ctx context.Context, userID uint, at time.Time) (int64, error)
}
