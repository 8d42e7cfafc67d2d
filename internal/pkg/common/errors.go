package common

import (
	"errors"
	"net/http"
)

// CustomError 定義自定義錯誤類型
type CustomError struct {
	Code    string // 錯誤代碼
	Message string // 錯誤信息
	Err     error  // 原始錯誤
	Status  int    // HTTP 狀態碼
}

func (e *CustomError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

// NewError 創建新的自定義錯誤
func NewError(code string, message string, status int, err error) *CustomError {
	return &CustomError{
		Code:    code,
		Message: message,
		Status:  status,
		Err:     err,
	}
}

// 預定義錯誤代碼
const (
	ErrCodeConflict       = "CONFLICT"        // 409
	ErrCodeInternalError  = "INTERNAL_ERROR"  // 500
	ErrCodeGatewayTimeout = "GATEWAY_TIMEOUT" // 504
)

// ErrConflict 資源被並發修改，呼叫端應重試
var ErrConflict = NewError(ErrCodeConflict, "資源衝突", http.StatusConflict, nil)

// 業務哨兵錯誤
var (
	// ErrSessionNotFound 對話不存在
	ErrSessionNotFound = errors.New("session not found")
	// ErrOrderNotFound 訂單不存在
	ErrOrderNotFound = errors.New("order not found")
	// ErrInvalidTransition 訂單狀態轉移不合法
	ErrInvalidTransition = errors.New("invalid order status transition")
)
