// Package domain 账号与身份领域模型
package domain

import (
	"context"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	// ErrUserNotFound 用户不存在
	ErrUserNotFound = errors.New("user not found")
	// ErrUserExists 用户名或邮箱已被占用
	ErrUserExists = errors.New("username or email already taken")
	// ErrInvalidCredentials 用户名或密码错误
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrUserDisabled 账号已停用
	ErrUserDisabled = errors.New("account is disabled")
)

// 用户角色
const (
	RoleAdmin    = "ADMIN"
	RoleCustomer = "CUSTOMER"
)

// User 账号实体
type User struct {
	gorm.Model
	Username     string     `gorm:"column:username;type:varchar(64);uniqueIndex;not null"`
	Email        string     `gorm:"column:email;type:varchar(256);uniqueIndex;not null"`
	PasswordHash string     `gorm:"column:password_hash;type:varchar(128);not null" json:"-"`
	FullName     string     `gorm:"column:full_name;type:varchar(128);not null"`
	Phone        string     `gorm:"column:phone;type:varchar(32)"`
	Role         string     `gorm:"column:role;type:varchar(16);not null;default:'CUSTOMER'"`
	IsActive     bool       `gorm:"column:is_active;not null;default:true"`
	LastLoginAt  *time.Time `gorm:"column:last_login_at"`
}

func (User) TableName() string { return "users" }

// SetPassword 以 bcrypt 存储口令
func (u *User) SetPassword(plain string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	return nil
}

// CheckPassword 校验口令
func (u *User) CheckPassword(plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(plain)) == nil
}

// IsAdmin 是否管理员
func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }

// UserRepository 用户仓储接口
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	// FindByLogin 按用户名或邮箱查找，大小写不敏感
	FindByLogin(ctx context.Context, login string) (*User, error)
	FindByID(ctx context.Context, id uint) (*User, error)
	Save(ctx context.Context, user *User) error
	ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error)
}
