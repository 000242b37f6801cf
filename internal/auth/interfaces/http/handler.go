package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wyfcoding/honeyshop/internal/auth/application"
	"github.com/wyfcoding/honeyshop/internal/auth/domain"
	"github.com/wyfcoding/honeyshop/internal/session"
	"github.com/wyfcoding/honeyshop/pkg/logger"
	"github.com/wyfcoding/honeyshop/pkg/response"
)

// AuthHandler 账号 HTTP 处理器
type AuthHandler struct {
	service *application.AuthService
}

// NewAuthHandler 创建账号 HTTP 处理器
func NewAuthHandler(service *application.AuthService) *AuthHandler {
	return &AuthHandler{service: service}
}

// RegisterRoutes 注册路由
func (h *AuthHandler) RegisterRoutes(router *gin.RouterGroup) {
	api := router.Group("/auth")
	{
		api.POST("/register", h.Register)
		api.POST("/login", h.Login)
		api.POST("/logout", h.Logout)
		api.GET("/me", session.RequireLogin(), h.Me)
	}
}

// RegisterRequest 注册请求体
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=64"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	FullName string `json:"full_name" binding:"required"`
	Phone    string `json:"phone"`
}

// Register 注册
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), nil)
		return
	}

	ctx := c.Request.Context()
	user, err := h.service.Register(ctx, application.RegisterRequest{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
		Phone:    req.Phone,
	})
	if err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			response.Error(c, http.StatusConflict, "username or email already taken")
			return
		}
		logger.Error(ctx, "Registration failed", "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, "registration failed", nil)
		return
	}

	response.Success(c, gin.H{"user_id": user.ID, "username": user.Username})
}

// LoginRequest 登录请求体，login 为用户名或邮箱
type LoginRequest struct {
	Login    string `json:"login" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login 登录
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), nil)
		return
	}

	ctx := c.Request.Context()
	sess := session.FromContext(c)

	user, err := h.service.Login(ctx, sess, req.Login, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidCredentials):
			response.Error(c, http.StatusUnauthorized, "invalid username or password")
		case errors.Is(err, domain.ErrUserDisabled):
			response.Error(c, http.StatusForbidden, "account is disabled")
		default:
			logger.Error(ctx, "Login failed", "error", err)
			response.ErrorWithStatus(c, http.StatusInternalServerError, "login failed", nil)
		}
		return
	}

	response.Success(c, gin.H{
		"user_id":   user.ID,
		"username":  user.Username,
		"full_name": user.FullName,
		"role":      user.Role,
	})
}

// Logout 登出
func (h *AuthHandler) Logout(c *gin.Context) {
	sess := session.FromContext(c)
	if err := h.service.Logout(c.Request.Context(), sess); err != nil {
		logger.Error(c.Request.Context(), "Logout failed", "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, "logout failed", nil)
		return
	}
	response.Success(c, gin.H{"logged_out": true})
}

// Me 当前登录用户
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.service.CurrentUser(c.Request.Context(), session.FromContext(c))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			response.Error(c, http.StatusUnauthorized, "login required")
			return
		}
		logger.Error(c.Request.Context(), "Failed to load current user", "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, "failed to load profile", nil)
		return
	}

	response.Success(c, gin.H{
		"user_id":   user.ID,
		"username":  user.Username,
		"email":     user.Email,
		"full_name": user.FullName,
		"phone":     user.Phone,
		"role":      user.Role,
	})
}
