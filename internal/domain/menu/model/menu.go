package model

import (
	baseModel "food_order_api/pkg/model"
)

// 食物类型
const (
	FoodTypeVeg    = "VEG"
	FoodTypeNonVeg = "NON VEG"
)

// Category 菜品分类
type Category struct {
	baseModel.BaseModel
	Name     string `gorm:"not null" json:"name"`
	ImageURL string `json:"imageUrl"`
}

// Product 菜品
// Price 是当前售价；下单时快照到订单行，之后改价不影响历史订单
type Product struct {
	baseModel.BaseModel
	Name        string   `gorm:"not null" json:"name"`
	Description string   `json:"description"`
	FoodType    string   `gorm:"not null" json:"foodType"` // VEG, NON VEG
	Price       float64  `gorm:"not null" json:"price"`
	CategoryID  string   `gorm:"type:uuid;index" json:"categoryId"`
	Category    Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	ImageURL    string   `json:"imageUrl"`
}
