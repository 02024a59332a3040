package service

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"food_order_api/internal/domain/user/model"
	"food_order_api/internal/domain/user/repository"
	"food_order_api/internal/pkg/otp"
	"food_order_api/pkg/apperr"
	"food_order_api/pkg/utils"

	"gorm.io/gorm"
)

// 用户模块错误
var (
	ErrUserExists         = apperr.Conflict(apperr.CodeUserExists, "Account already exists")
	ErrUserNotFound       = apperr.NotFound(apperr.CodeUserNotFound, "User not found")
	ErrInvalidCredentials = apperr.Unauthorized(apperr.CodeAuthFailed, "Invalid credentials")
	ErrInvalidOTP         = apperr.BadRequest(apperr.CodeOTPInvalid, "Invalid verification code")
)

// UserService 用户服务接口
type UserService interface {
	SendOTP(phone string) error
	RegisterCustomer(name, phone, password, code string) (*model.User, string, error)
	LoginCustomer(phone, password string) (*model.User, string, error)
	RegisterAdmin(name, username, password string) (*model.User, string, error)
	LoginAdmin(username, password string) (*model.User, string, error)
	GetUser(id string) (*model.User, error)
}

// userService 实现
type userService struct {
	repo repository.UserRepository
	otp  otp.OTPService
}

// NewUserService 创建用户服务
func NewUserService(repo repository.UserRepository, otp otp.OTPService) UserService {
	return &userService{repo: repo, otp: otp}
}

// defaultAvatar 按姓名首字母生成默认头像
func defaultAvatar(name string) string {
	return fmt.Sprintf("https://api.dicebear.com/7.x/initials/svg?seed=%s", url.QueryEscape(name))
}

// SendOTP 发送注册验证码
func (s *userService) SendOTP(phone string) error {
	_, err := s.otp.Send(phone)
	return err
}

// RegisterCustomer 顾客注册（手机号 + 验证码）
func (s *userService) RegisterCustomer(name, phone, password, code string) (*model.User, string, error) {
	if !s.otp.Verify(phone, code) {
		return nil, "", ErrInvalidOTP
	}

	if _, err := s.repo.GetByPhone(phone); err == nil {
		return nil, "", ErrUserExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", err
	}

	user := &model.User{
		Name:  strings.ToLower(strings.TrimSpace(name)),
		Phone: &phone,
		Role:  model.RoleCustomer,
	}
	user.AvatarURL = defaultAvatar(user.Name)
	if err := user.SetPassword(password); err != nil {
		return nil, "", err
	}

	if err := s.repo.Create(user); err != nil {
		return nil, "", err
	}

	token, _, err := utils.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// LoginCustomer 顾客登录
func (s *userService) LoginCustomer(phone, password string) (*model.User, string, error) {
	user, err := s.repo.GetByPhone(phone)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	if !user.CheckPassword(password) {
		return nil, "", ErrInvalidCredentials
	}

	token, _, err := utils.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// RegisterAdmin 店家注册（用户名 + 密码）
func (s *userService) RegisterAdmin(name, username, password string) (*model.User, string, error) {
	if _, err := s.repo.GetByUsername(username); err == nil {
		return nil, "", ErrUserExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", err
	}

	user := &model.User{
		Name:     strings.ToLower(strings.TrimSpace(name)),
		Username: &username,
		Role:     model.RoleAdmin,
	}
	user.AvatarURL = defaultAvatar(user.Name)
	if err := user.SetPassword(password); err != nil {
		return nil, "", err
	}

	if err := s.repo.Create(user); err != nil {
		return nil, "", err
	}

	token, _, err := utils.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// LoginAdmin 店家登录
func (s *userService) LoginAdmin(username, password string) (*model.User, string, error) {
	user, err := s.repo.GetByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	if !user.IsAdmin() || !user.CheckPassword(password) {
		return nil, "", ErrInvalidCredentials
	}

	token, _, err := utils.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// GetUser 获取单个用户
func (s *userService) GetUser(id string) (*model.User, error) {
	user, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}
