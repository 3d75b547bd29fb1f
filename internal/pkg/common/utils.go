package common

import (
	"github.com/google/uuid"
)

// GenerateUUID 生成 UUID
func GenerateUUID() string {
	return uuid.New().String()
}

// NewErrorResponse 由錯誤建立 API 錯誤響應，debug 模式下附帶原始錯誤
func NewErrorResponse(err error, message string, debug bool) ErrorResponse {
	resp := ErrorResponse{
		Code:    CodeOf(err),
		Message: message,
	}
	if debug && err != nil {
		resp.Details = err.Error()
	}
	return resp
}
