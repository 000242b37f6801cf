package mysql

import (
	"context"

	"gorm.io/gorm"

	"github.com/wyfcoding/honeyshop/internal/cart/domain"
)

type userCartRepository struct{ db *gorm.DB }

// NewUserCartRepository 创建登录用户购物车镜像仓储
func NewUserCartRepository(db *gorm.DB) domain.UserCartRepository {
	return &userCartRepository{db: db}
}

func (r *userCartRepository) ReplaceForUser(ctx context.Context, userID uint, items []domain.UserCartItem) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&domain.UserCartItem{}).Error; err != nil {
			return err
		}
		if len(items) == 0 {
			return nil
		}
		for i := range items {
			items[i].UserID = userID
		}
		return tx.Create(&items).Error
	})
}

func (r *userCartRepository) ListByUser(ctx context.Context, userID uint) ([]*domain.UserCartItem, error) {
	var items []*domain.UserCartItem
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Find(&items).Error
	return items, err
}
