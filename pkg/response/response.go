// Package response 提供统一的 HTTP JSON 响应封装
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Body 统一响应结构
type Body struct {
	// 业务码：0 表示成功
	Code int `json:"code"`
	// 提示信息
	Message string `json:"message"`
	// 响应数据
	Data interface{} `json:"data,omitempty"`
}

// Success 返回成功响应
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Body{Code: 0, Message: "ok", Data: data})
}

// Error 返回业务错误响应（HTTP 200，业务码非 0）
func Error(c *gin.Context, code int, message string) {
	c.JSON(http.StatusOK, Body{Code: code, Message: message})
}

// ErrorWithStatus 返回带 HTTP 状态码的错误响应
func ErrorWithStatus(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, Body{Code: status, Message: message, Data: data})
}
