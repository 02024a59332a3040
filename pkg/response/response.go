package response

import (
	"errors"
	"net/http"

	"food_order_api/pkg/apperr"
	"food_order_api/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Response 统一响应结构
// 成功：{success: true, message, data?}
// 失败：{success: false, message, status}
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Status  int         `json:"status,omitempty"`
}

// Success 成功响应
func Success(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Created 创建成功响应
func Created(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Error 错误响应
func Error(c *gin.Context, status int, message string) {
	c.JSON(status, Response{
		Success: false,
		Message: message,
		Status:  status,
	})
}

// HandleError 统一错误边界：AppError 按其状态码返回，其余一律 500
func HandleError(c *gin.Context, err error) {
	var appErr *apperr.AppError
	if errors.As(err, &appErr) {
		Error(c, appErr.Status, appErr.Message)
		return
	}

	if logger.Log != nil {
		logger.Log.Error("unexpected error",
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
	}
	Error(c, http.StatusInternalServerError, "Internal server error")
}
