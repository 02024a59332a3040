package model

import (
	menuModel "food_order_api/internal/domain/menu/model"
	userModel "food_order_api/internal/domain/user/model"
	baseModel "food_order_api/pkg/model"
)

// 订单状态
const (
	StatusPending   = "PENDING"   // 已下单，等待店家接单
	StatusCooking   = "COOKING"   // 已接单，制作中
	StatusDelivered = "DELIVERED" // 已完成交付
	StatusCancelled = "CANCELLED" // 已取消
)

// 支付方式
const (
	PaymentCash   = "CASH"
	PaymentOnline = "ONLINE"
)

// Order 订单模型
// TotalAmount 在创建时由订单行快照价格求和得出，之后不再变化
type Order struct {
	baseModel.BaseModel
	UserID            string         `gorm:"type:uuid;index;not null" json:"userId"`
	User              userModel.User `gorm:"foreignKey:UserID" json:"user,omitempty"`
	OrderNo           int            `gorm:"not null" json:"orderNo"`
	OrderItems        []OrderItem    `gorm:"foreignKey:OrderID" json:"orderItems"`
	TotalAmount       float64        `gorm:"not null" json:"totalAmount"`
	Status            string         `gorm:"default:'PENDING';index" json:"status"`
	PaymentMethod     string         `gorm:"default:'CASH'" json:"paymentMethod"`
	IsPaid            bool           `gorm:"default:false" json:"isPaid"`
	RazorpayOrderID   *string        `gorm:"uniqueIndex" json:"razorpayOrderId,omitempty"`
	RazorpayPaymentID *string        `json:"razorpayPaymentId,omitempty"`
}

// OrderItem 订单行
// Price 是下单时的快照价，菜单改价不影响已有订单
type OrderItem struct {
	baseModel.BaseModel
	OrderID   string            `gorm:"type:uuid;index;not null" json:"orderId"`
	ProductID string            `gorm:"type:uuid;not null" json:"productId"`
	Product   menuModel.Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Quantity  int               `gorm:"not null" json:"quantity"`
	Price     float64           `gorm:"not null" json:"price"`
}

// transitions 状态机：PENDING→{COOKING,CANCELLED}，COOKING→{DELIVERED,CANCELLED}
// DELIVERED 与 CANCELLED 为终态
var transitions = map[string][]string{
	StatusPending: {StatusCooking, StatusCancelled},
	StatusCooking: {StatusDelivered, StatusCancelled},
}

// CanTransition 目标状态是否可达
func CanTransition(from, to string) bool {
	for _, t := range transitions[from] {
		if t == to {
			return true
		}
	}
	return false
}

// IsTerminal 是否终态
func IsTerminal(status string) bool {
	return status == StatusDelivered || status == StatusCancelled
}
