package handlers

import (
	"smartpantry/internal/pkg/common"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequestID 取得請求 ID
func RequestID(c *gin.Context) string {
	return requestid.Get(c)
}

// ErrorBody 記錄錯誤並建立對應的狀態碼與錯誤響應；debug 模式附帶原始錯誤
func ErrorBody(c *gin.Context, err error, message string) (int, common.ErrorResponse) {
	status := common.StatusOf(err)
	fields := []zap.Field{
		zap.Error(err),
		zap.Int("status", status),
		zap.String("request_id", RequestID(c)),
		zap.String("path", c.Request.URL.Path),
	}
	if status >= 500 {
		common.LogError(message, fields...)
	} else {
		common.LogWarn(message, fields...)
	}

	_ = c.Error(err)
	return status, common.NewErrorResponse(err, message, gin.IsDebugging())
}

// RespondError 依錯誤類型回傳對應的 HTTP 狀態與錯誤代碼
func RespondError(c *gin.Context, err error, message string) {
	status, body := ErrorBody(c, err, message)
	c.AbortWithStatusJSON(status, body)
}

// RespondInvalidRequest 回傳 400 請求格式錯誤
func RespondInvalidRequest(c *gin.Context, err error) {
	RespondError(c, common.ErrInvalidRequest.Wrap(err), "Invalid request format")
}
