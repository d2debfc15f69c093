package common

import (
	"strings"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// GenerateUUID 生成 UUID
func GenerateUUID() string {
	return uuid.New().String()
}

// RequestID 取得請求 ID，缺少時生成新的並寫回響應頭
func RequestID(c *gin.Context) string {
	if id := requestid.Get(c); id != "" {
		return id
	}
	id := c.GetHeader("X-Request-ID")
	if id == "" {
		id = GenerateUUID()
		c.Header("X-Request-ID", id)
	}
	return id
}

// BearerToken 取得 Authorization 標頭中的 bearer token
func BearerToken(c *gin.Context) string {
	auth := strings.TrimSpace(c.GetHeader("Authorization"))
	if len(auth) > 7 && strings.EqualFold(auth[:7], "bearer ") {
		return strings.TrimSpace(auth[7:])
	}
	return ""
}

// WriteError 寫入錯誤響應
func WriteError(c *gin.Context, e *CustomError, details string) {
	resp := ErrorResponse{
		Code:    e.Code,
		Message: e.Message,
		Details: details,
	}
	c.AbortWithStatusJSON(e.Status, resp)
}
