// Package application 站内通知应用服务
package application

import (
	"context"
	"time"

	"github.com/wyfcoding/honeyshop/internal/notification/domain"
	"github.com/wyfcoding/honeyshop/pkg/metrics"
)

// RecentLimit 最近通知条数上限
const RecentLimit = 10

// NotificationService 通知应用服务
type NotificationService struct {
	repo    domain.Repository
	metrics *metrics.Metrics
}

// NewNotificationService 创建通知应用服务
func NewNotificationService(repo domain.Repository, m *metrics.Metrics) *NotificationService {
	return &NotificationService{repo: repo, metrics: m}
}

// Notify 创建一条用户通知
func (s *NotificationService) Notify(ctx context.Context, userID *uint, title, message, typ string, relatedID *uint, relatedType string) error {
	if typ == "" {
		typ = domain.TypeInfo
	}
	n := &domain.Notification{
		UserID:      userID,
		Title:       title,
		Message:     message,
		Type:        typ,
		RelatedID:   relatedID,
		RelatedType: relatedType,
	}
	if err := s.repo.Create(ctx, n); err != nil {
		return err
	}
	if s.metrics != nil {
		s.metrics.NotificationsTotal.Inc()
	}
	return nil
}

// UnreadCount 用户未读数
func (s *NotificationService) UnreadCount(ctx context.Context, userID uint) (int64, error) {
	return s.repo.UnreadCount(ctx, userID)
}

// Recent 用户最近通知
func (s *NotificationService) Recent(ctx context.Context, userID uint) ([]*domain.Notification, error) {
	return s.repo.Recent(ctx, userID, RecentLimit)
}

// MarkRead 将单条通知置为已读，校验归属
func (s *NotificationService) MarkRead(ctx context.Context, userID, notificationID uint) error {
	n, err := s.repo.FindByID(ctx, notificationID)
	if err != nil {
		return err
	}
	if n.UserID == nil || *n.UserID != userID {
		return domain.ErrNotOwner
	}
	n.MarkRead(time.Now())
	return s.repo.Save(ctx, n)
}

// MarkAllRead 将用户全部未读通知置为已读，返回置为已读的条数
func (s *NotificationService) MarkAllRead(ctx context.Context, userID uint) (int64, error) {
	return s.repo.MarkAllRead(ctx, userID, time.Now())
}
