package repository

import (
	"time"

	"food_order_api/internal/domain/order/model"

	"gorm.io/gorm"
)

// MonthlyStats 月度统计
type MonthlyStats struct {
	TotalOrders int64   `json:"totalOrders"`
	Revenue     float64 `json:"revenue"`
	Delivered   int64   `json:"delivered"`
	Cancelled   int64   `json:"cancelled"`
}

// OrderRepository 订单仓库
type OrderRepository interface {
	Create(order *model.Order) error
	GetByID(id string) (*model.Order, error)
	GetByRazorpayOrderID(razorpayOrderID string) (*model.Order, error)
	Update(order *model.Order) error
	Delete(order *model.Order) error

	ListByStatus(statuses []string, offset, limit int) ([]model.Order, int64, error)
	ListByUser(userID string, offset, limit int) ([]model.Order, int64, error)
	ListPendingByUser(userID string) ([]model.Order, error)
	ListByDateRange(from, to time.Time, offset, limit int) ([]model.Order, int64, error)
	ListByCustomerName(name string, offset, limit int) ([]model.Order, int64, error)
	GetMonthlyStats(from, to time.Time) (*MonthlyStats, error)
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

// withDetails 订单查询统一带上顾客与菜品信息
func (r *orderRepository) withDetails() *gorm.DB {
	return r.db.Preload("User").Preload("OrderItems").Preload("OrderItems.Product")
}

func (r *orderRepository) Create(order *model.Order) error {
	return r.db.Create(order).Error
}

func (r *orderRepository) GetByID(id string) (*model.Order, error) {
	var order model.Order
	if err := r.withDetails().Where("id = ?", id).First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) GetByRazorpayOrderID(razorpayOrderID string) (*model.Order, error) {
	var order model.Order
	if err := r.withDetails().Where("razorpay_order_id = ?", razorpayOrderID).First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) Update(order *model.Order) error {
	return r.db.Save(order).Error
}

func (r *orderRepository) Delete(order *model.Order) error {
	return r.db.Delete(order).Error
}

// paginate 通用分页查询
func (r *orderRepository) paginate(query *gorm.DB, offset, limit int) ([]model.Order, int64, error) {
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var orders []model.Order
	err := query.
		Preload("User").Preload("OrderItems").Preload("OrderItems.Product").
		Order("orders.created_at DESC").
		Offset(offset).Limit(limit).
		Find(&orders).Error
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

func (r *orderRepository) ListByStatus(statuses []string, offset, limit int) ([]model.Order, int64, error) {
	query := r.db.Model(&model.Order{}).Where("status IN ?", statuses)
	return r.paginate(query, offset, limit)
}

func (r *orderRepository) ListByUser(userID string, offset, limit int) ([]model.Order, int64, error) {
	query := r.db.Model(&model.Order{}).Where("user_id = ?", userID)
	return r.paginate(query, offset, limit)
}

func (r *orderRepository) ListPendingByUser(userID string) ([]model.Order, error) {
	var orders []model.Order
	err := r.withDetails().
		Where("user_id = ? AND status = ?", userID, model.StatusPending).
		Order("created_at DESC").
		Find(&orders).Error
	return orders, err
}

func (r *orderRepository) ListByDateRange(from, to time.Time, offset, limit int) ([]model.Order, int64, error) {
	query := r.db.Model(&model.Order{}).Where("orders.created_at >= ? AND orders.created_at < ?", from, to)
	return r.paginate(query, offset, limit)
}

// ListByCustomerName 按顾客姓名检索
// 姓名入库时已归一为小写，这里做大小写不敏感的精确匹配
func (r *orderRepository) ListByCustomerName(name string, offset, limit int) ([]model.Order, int64, error) {
	query := r.db.Model(&model.Order{}).
		Joins("JOIN users ON users.id = orders.user_id").
		Where("LOWER(users.name) = LOWER(?)", name)
	return r.paginate(query, offset, limit)
}

func (r *orderRepository) GetMonthlyStats(from, to time.Time) (*MonthlyStats, error) {
	stats := &MonthlyStats{}
	base := r.db.Model(&model.Order{}).Where("created_at >= ? AND created_at < ?", from, to)

	if err := base.Session(&gorm.Session{}).Count(&stats.TotalOrders).Error; err != nil {
		return nil, err
	}

	var revenue struct{ Total float64 }
	err := base.Session(&gorm.Session{}).
		Select("COALESCE(SUM(total_amount), 0) AS total").
		Where("status = ?", model.StatusDelivered).
		Scan(&revenue).Error
	if err != nil {
		return nil, err
	}
	stats.Revenue = revenue.Total

	if err := base.Session(&gorm.Session{}).Where("status = ?", model.StatusDelivered).Count(&stats.Delivered).Error; err != nil {
		return nil, err
	}
	if err := base.Session(&gorm.Session{}).Where("status = ?", model.StatusCancelled).Count(&stats.Cancelled).Error; err != nil {
		return nil, err
	}
	return stats, nil
}
