package model

import (
	baseModel "food_order_api/pkg/model"

	"golang.org/x/crypto/bcrypt"
)

// 角色
const (
	RoleCustomer = 1
	RoleAdmin    = 2 // 店家
)

// User 用户模型
// 顾客与店家共用一张表：顾客用手机号登录，店家用用户名登录
// Name 入库时统一转小写，订单按顾客姓名检索依赖这一点
type User struct {
	baseModel.BaseModel
	Name      string  `gorm:"not null" json:"name"`
	Phone     *string `gorm:"uniqueIndex" json:"phone,omitempty"`
	Username  *string `gorm:"uniqueIndex" json:"username,omitempty"`
	Password  string  `gorm:"not null" json:"-"` // 密码不返回给前端
	AvatarURL string  `json:"avatarUrl"`
	Role      int     `gorm:"default:1" json:"role"`
}

// SetPassword bcrypt 加密密码
func (u *User) SetPassword(plain string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hash)
	return nil
}

// CheckPassword 校验密码
func (u *User) CheckPassword(plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(plain)) == nil
}

// IsAdmin 是否店家
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
