package handler

import (
	"net/http"

	"food_order_api/internal/domain/user/service"
	"food_order_api/internal/pkg/middleware"
	"food_order_api/pkg/response"

	"github.com/gin-gonic/gin"
)

// UserHandler 用户处理器
type UserHandler struct {
	service service.UserService
}

// NewUserHandler 创建处理器
func NewUserHandler(service service.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// SendOTPInput 发送验证码输入
type SendOTPInput struct {
	Phone string `json:"phone" binding:"required"`
}

// RegisterCustomerInput 顾客注册输入
type RegisterCustomerInput struct {
	Name     string `json:"name" binding:"required"`
	Phone    string `json:"phone" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
	Code     string `json:"code" binding:"required"`
}

// LoginCustomerInput 顾客登录输入
type LoginCustomerInput struct {
	Phone    string `json:"phone" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RegisterAdminInput 店家注册输入
type RegisterAdminInput struct {
	Name     string `json:"name" binding:"required"`
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
}

// LoginAdminInput 店家登录输入
type LoginAdminInput struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// SendOTP 发送注册验证码
// @Summary 发送注册验证码
// @Tags Auth
// @Router /auth/user/send-otp [post]
func (h *UserHandler) SendOTP(c *gin.Context) {
	var input SendOTPInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.service.SendOTP(input.Phone); err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, "Verification code sent", nil)
}

// RegisterCustomer 顾客注册
// @Summary 顾客注册
// @Tags Auth
// @Router /auth/user/register [post]
func (h *UserHandler) RegisterCustomer(c *gin.Context) {
	var input RegisterCustomerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	user, token, err := h.service.RegisterCustomer(input.Name, input.Phone, input.Password, input.Code)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Created(c, "Registration successful", gin.H{
		"user":  user,
		"token": token,
	})
}

// LoginCustomer 顾客登录
// @Summary 顾客登录
// @Tags Auth
// @Router /auth/user/login [post]
func (h *UserHandler) LoginCustomer(c *gin.Context) {
	var input LoginCustomerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	user, token, err := h.service.LoginCustomer(input.Phone, input.Password)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, "Login successful", gin.H{
		"user":  user,
		"token": token,
	})
}

// RegisterAdmin 店家注册
// @Summary 店家注册
// @Tags Auth
// @Router /auth/admin/register [post]
func (h *UserHandler) RegisterAdmin(c *gin.Context) {
	var input RegisterAdminInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	user, token, err := h.service.RegisterAdmin(input.Name, input.Username, input.Password)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Created(c, "Registration successful", gin.H{
		"user":  user,
		"token": token,
	})
}

// LoginAdmin 店家登录
// @Summary 店家登录
// @Tags Auth
// @Router /auth/admin/login [post]
func (h *UserHandler) LoginAdmin(c *gin.Context) {
	var input LoginAdminInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	user, token, err := h.service.LoginAdmin(input.Username, input.Password)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, "Login successful", gin.H{
		"user":  user,
		"token": token,
	})
}

// Me 当前用户信息
// @Summary 当前用户信息
// @Tags User
// @Router /user/me [get]
func (h *UserHandler) Me(c *gin.Context) {
	user, err := h.service.GetUser(middleware.GetUserID(c))
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, "Profile fetched successfully", user)
}
