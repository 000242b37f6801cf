// Package application 账号应用服务：注册、登录、登出
package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/wyfcoding/honeyshop/internal/auth/domain"
	cartapp "github.com/wyfcoding/honeyshop/internal/cart/application"
	cartdomain "github.com/wyfcoding/honeyshop/internal/cart/domain"
	catalogdomain "github.com/wyfcoding/honeyshop/internal/catalog/domain"
	"github.com/wyfcoding/honeyshop/internal/session"
	"github.com/wyfcoding/honeyshop/pkg/logger"
)

// RegisterRequest 注册请求
type RegisterRequest struct {
	Username string
	Email    string
	Password string
	FullName string
	Phone    string
}

// AuthService 账号应用服务。登录恢复、登出固化用户购物车镜像。
type AuthService struct {
	users    domain.UserRepository
	userCart cartdomain.UserCartRepository
	products catalogdomain.ProductRepository
	cart     *cartapp.CartService
}

// NewAuthService 创建账号应用服务
func NewAuthService(
	users domain.UserRepository,
	userCart cartdomain.UserCartRepository,
	products catalogdomain.ProductRepository,
	cart *cartapp.CartService,
) *AuthService {
	return &AuthService{users: users, userCart: userCart, products: products, cart: cart}
}

// Register 注册新客户账号
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*domain.User, error) {
	username := strings.TrimSpace(req.Username)
	email := strings.TrimSpace(req.Email)

	taken, err := s.users.ExistsByUsernameOrEmail(ctx, username, email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, domain.ErrUserExists
	}

	user := &domain.User{
		Username: username,
		Email:    email,
		FullName: strings.TrimSpace(req.FullName),
		Phone:    strings.TrimSpace(req.Phone),
		Role:     domain.RoleCustomer,
		IsActive: true,
	}
	if err := user.SetPassword(req.Password); err != nil {
		return nil, err
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	logger.Info(ctx, "User registered", "user_id", user.ID, "username", user.Username)
	return user, nil
}

// Login 登录。验证口令与账号状态，写入会话身份，
// 并以持久化镜像重建会话购物车（逐行按实时库存重校验）。
func (s *AuthService) Login(ctx context.Context, sess *session.Session, login, password string) (*domain.User, error) {
	user, err := s.users.FindByLogin(ctx, strings.TrimSpace(login))
	if errors.Is(err, domain.ErrUserNotFound) {
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !user.CheckPassword(password) {
		return nil, domain.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, domain.ErrUserDisabled
	}

	now := time.Now()
	user.LastLoginAt = &now
	if err := s.users.Save(ctx, user); err != nil {
		logger.Warn(ctx, "Failed to stamp last login", "user_id", user.ID, "error", err)
	}

	if err := sess.SetIdentity(ctx, session.Identity{
		UserID:   user.ID,
		Username: user.Username,
		FullName: user.FullName,
		Role:     user.Role,
	}); err != nil {
		return nil, err
	}

	if err := s.restoreCart(ctx, sess, user.ID); err != nil {
		logger.Warn(ctx, "Failed to restore cart on login", "user_id", user.ID, "error", err)
	}

	logger.Info(ctx, "User logged in", "user_id", user.ID, "username", user.Username)
	return user, nil
}

// restoreCart 以持久化镜像覆盖会话购物车。
// 已下架或无库存的商品丢弃，数量超库存的裁剪。
func (s *AuthService) restoreCart(ctx context.Context, sess *session.Session, userID uint) error {
	items, err := s.userCart.ListByUser(ctx, userID)
	if err != nil {
		return err
	}

	cart := cartdomain.NewCart()
	for _, item := range items {
		product, err := s.products.FindActive(ctx, item.ProductID)
		if errors.Is(err, catalogdomain.ErrProductNotFound) {
			continue
		}
		if err != nil {
			return err
		}
		if product.Stock <= 0 {
			continue
		}
		qty := item.Quantity
		if qty > product.Stock {
			qty = product.Stock
		}
		cart.Lines[product.ID] = &cartdomain.Line{
			ProductID:   product.ID,
			ProductName: product.Name,
			ImageURL:    product.ImageURL,
			UnitPrice:   product.Price,
			Quantity:    qty,
			Stock:       product.Stock,
		}
	}
	return s.cart.Replace(ctx, sess, cart)
}

// Logout 登出。把会话购物车固化到用户镜像，再清除身份与购物车。
func (s *AuthService) Logout(ctx context.Context, sess *session.Session) error {
	if identity, ok := sess.Identity(ctx); ok {
		cart := s.cart.Get(ctx, sess)
		items := make([]cartdomain.UserCartItem, 0, len(cart.Lines))
		for _, line := range cart.Lines {
			items = append(items, cartdomain.UserCartItem{
				ProductID: line.ProductID,
				Quantity:  line.Quantity,
			})
		}
		if err := s.userCart.ReplaceForUser(ctx, identity.UserID, items); err != nil {
			logger.Warn(ctx, "Failed to persist cart on logout", "user_id", identity.UserID, "error", err)
		}
	}

	if err := sess.ClearIdentity(ctx); err != nil {
		return err
	}
	return s.cart.Clear(ctx, sess)
}

// CurrentUser 按会话身份加载用户
func (s *AuthService) CurrentUser(ctx context.Context, sess *session.Session) (*domain.User, error) {
	identity, ok := sess.Identity(ctx)
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return s.users.FindByID(ctx, identity.UserID)
}
