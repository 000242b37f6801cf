package domain

import (
	"context"

	"gorm.io/gorm"
)

// UserCartItem 登录用户的购物车持久化镜像，登录/登出边界同步
type UserCartItem struct {
	gorm.Model
	UserID    uint `gorm:"column:user_id;index;not null"`
	ProductID uint `gorm:"column:product_id;not null"`
	Quantity  int  `gorm:"column:quantity;not null"`
}

func (UserCartItem) TableName() string { return "user_cart_items" }

// UserCartRepository 持久化镜像仓储接口
type UserCartRepository interface {
	// ReplaceForUser 以给定条目整体替换用户的镜像（单事务内删旧插新）
	ReplaceForUser(ctx context.Context, userID uint, items []UserCartItem) error
	// ListByUser 获取用户的镜像条目
	ListByUser(ctx context.Context, userID uint) ([]*UserCartItem, error)
}
