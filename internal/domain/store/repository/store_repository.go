package repository

import (
	"errors"

	"food_order_api/internal/domain/store/model"

	"gorm.io/gorm"
)

// ErrStoreMissing 门店行不存在（仓库层哨兵，service 层转为应用错误）
var ErrStoreMissing = errors.New("store not found")

// StoreRepository 门店仓库
type StoreRepository interface {
	Create(store *model.Store) error
	Get() (*model.Store, error)
	GetByName(name string) (*model.Store, error)
	Update(store *model.Store) error
	// AllocateOrderNo 原子自增订单计数器并返回新值
	// 必须是单条 read-modify-write 语句，并发下单时才不会出现重复订单号
	AllocateOrderNo(storeID string) (int, error)
	ResetCounter(storeID string) error
	SetOpen(storeID string, isOpen bool) error
}

type storeRepository struct {
	db *gorm.DB
}

func NewStoreRepository(db *gorm.DB) StoreRepository {
	return &storeRepository{db: db}
}

func (r *storeRepository) Create(store *model.Store) error {
	return r.db.Create(store).Error
}

// Get 获取门店（单店部署，取第一行）
func (r *storeRepository) Get() (*model.Store, error) {
	var store model.Store
	if err := r.db.First(&store).Error; err != nil {
		return nil, err
	}
	return &store, nil
}

func (r *storeRepository) GetByName(name string) (*model.Store, error) {
	var store model.Store
	if err := r.db.Where("name = ?", name).First(&store).Error; err != nil {
		return nil, err
	}
	return &store, nil
}

func (r *storeRepository) Update(store *model.Store) error {
	return r.db.Save(store).Error
}

// AllocateOrderNo 单条 UPDATE ... RETURNING 完成自增和读取
func (r *storeRepository) AllocateOrderNo(storeID string) (int, error) {
	var counter int
	result := r.db.Raw(
		"UPDATE stores SET order_counter = order_counter + 1, updated_at = NOW() WHERE id = ? RETURNING order_counter",
		storeID,
	).Scan(&counter)

	if result.Error != nil {
		return 0, result.Error
	}
	if result.RowsAffected == 0 {
		return 0, ErrStoreMissing
	}
	return counter, nil
}

// ResetCounter 计数器清零，开启新纪元；历史订单号不受影响
func (r *storeRepository) ResetCounter(storeID string) error {
	result := r.db.Model(&model.Store{}).
		Where("id = ?", storeID).
		UpdateColumn("order_counter", 0)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrStoreMissing
	}
	return nil
}

func (r *storeRepository) SetOpen(storeID string, isOpen bool) error {
	result := r.db.Model(&model.Store{}).
		Where("id = ?", storeID).
		UpdateColumn("is_open", isOpen)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrStoreMissing
	}
	return nil
}
