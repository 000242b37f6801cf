package session

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/wyfcoding/honeyshop/pkg/logger"
)

const ginContextKey = "shop_session"

// Middleware 会话中间件：读取或签发会话 Cookie，并将 *Session 注入请求上下文
func Middleware(store Store, cookieName string, secure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		sid, err := c.Cookie(cookieName)
		if err != nil || sid == "" {
			sid = uuid.New().String()
			http.SetCookie(c.Writer, &http.Cookie{
				Name:     cookieName,
				Value:    sid,
				Path:     "/",
				HttpOnly: true,
				Secure:   secure,
				SameSite: http.SameSiteLaxMode,
			})
		}

		// 每个请求滑动一次过期时间
		if err := store.Touch(c.Request.Context(), sid); err != nil {
			logger.Warn(c.Request.Context(), "Failed to refresh session TTL", "session_id", sid, "error", err)
		}

		c.Set(ginContextKey, New(sid, store))
		c.Next()
	}
}

// FromContext 取出当前请求的会话句柄
func FromContext(c *gin.Context) *Session {
	v, ok := c.Get(ginContextKey)
	if !ok {
		return nil
	}
	sess, _ := v.(*Session)
	return sess
}

// RequireLogin 登录门卫：未登录时返回 401
func RequireLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := FromContext(c)
		if sess == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"code": 401, "message": "login required"})
			return
		}
		if _, ok := sess.Identity(c.Request.Context()); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"code": 401, "message": "login required"})
			return
		}
		c.Next()
	}
}

// RequireAdmin 管理员门卫：非管理员返回 403
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := FromContext(c)
		if sess == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"code": 401, "message": "login required"})
			return
		}
		id, ok := sess.Identity(c.Request.Context())
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"code": 401, "message": "login required"})
			return
		}
		if !id.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"code": 403, "message": "admin only"})
			return
		}
		c.Next()
	}
}
