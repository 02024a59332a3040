package apperr

import "net/http"

// AppError 应用错误：携带 HTTP 状态码和业务码
// 各领域的 service 层返回 AppError，handler 统一通过 response.HandleError 转换
type AppError struct {
	Status  int    // HTTP 状态码
	Code    int    // 业务码，见 code.go
	Message string // 提示信息
}

func (e *AppError) Error() string {
	return e.Message
}

// New 创建应用错误
func New(status, code int, message string) *AppError {
	return &AppError{Status: status, Code: code, Message: message}
}

// BadRequest 400 参数/校验错误
func BadRequest(code int, message string) *AppError {
	return New(http.StatusBadRequest, code, message)
}

// Unauthorized 401 未认证
func Unauthorized(code int, message string) *AppError {
	return New(http.StatusUnauthorized, code, message)
}

// Forbidden 403 无权限
func Forbidden(code int, message string) *AppError {
	return New(http.StatusForbidden, code, message)
}

// NotFound 404 资源不存在
func NotFound(code int, message string) *AppError {
	return New(http.StatusNotFound, code, message)
}

// Conflict 409 唯一性冲突
func Conflict(code int, message string) *AppError {
	return New(http.StatusConflict, code, message)
}

// Internal 500 未预期错误
func Internal(message string) *AppError {
	return New(http.StatusInternalServerError, CodeServerInternal, message)
}
