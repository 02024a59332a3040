package model

import (
	baseModel "food_order_api/pkg/model"
)

// Store 门店模型（单店部署：全库只有一行）
// OrderCounter 只通过原子自增分配，重置后进入新的订单号纪元
type Store struct {
	baseModel.BaseModel
	Name         string `gorm:"uniqueIndex;not null" json:"name"`
	Address      string `gorm:"not null" json:"address"`
	LogoURL      string `json:"logoUrl"`
	IsOpen       bool   `gorm:"default:true" json:"isOpen"`
	OrderCounter int    `gorm:"default:0" json:"orderCounter"`
}
