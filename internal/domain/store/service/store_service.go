package service

import (
	"errors"

	"food_order_api/internal/domain/store/model"
	"food_order_api/internal/domain/store/repository"
	"food_order_api/pkg/apperr"

	"gorm.io/gorm"
)

// 门店模块错误
var (
	ErrStoreNotFound = apperr.NotFound(apperr.CodeStoreNotFound, "Store not found")
	ErrStoreExists   = apperr.Conflict(apperr.CodeStoreExists, "Store with this name already exists")
	ErrStoreClosed   = apperr.Forbidden(apperr.CodeStoreClosed, "Store is currently closed. Cannot place order.")
)

// StoreService 门店服务接口
type StoreService interface {
	CreateStore(name, address, logoURL string) (*model.Store, error)
	GetStore() (*model.Store, error)
	UpdateStore(name, address, logoURL string) (*model.Store, error)
	ToggleOpen() (bool, error)
	ResetCounter() error
	Status() (bool, error)
	// AllocateOrderNo 为新订单分配订单号
	AllocateOrderNo(storeID string) (int, error)
}

type storeService struct {
	repo repository.StoreRepository
}

func NewStoreService(repo repository.StoreRepository) StoreService {
	return &storeService{repo: repo}
}

// CreateStore 创建门店（名称唯一）
func (s *storeService) CreateStore(name, address, logoURL string) (*model.Store, error) {
	if _, err := s.repo.GetByName(name); err == nil {
		return nil, ErrStoreExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	store := &model.Store{
		Name:    name,
		Address: address,
		LogoURL: logoURL,
		IsOpen:  true,
	}
	if err := s.repo.Create(store); err != nil {
		return nil, err
	}
	return store, nil
}

// GetStore 获取门店详情
func (s *storeService) GetStore() (*model.Store, error) {
	store, err := s.repo.Get()
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStoreNotFound
		}
		return nil, err
	}
	return store, nil
}

// UpdateStore 更新门店信息，空字段保持不变
func (s *storeService) UpdateStore(name, address, logoURL string) (*model.Store, error) {
	store, err := s.GetStore()
	if err != nil {
		return nil, err
	}

	if name != "" {
		store.Name = name
	}
	if address != "" {
		store.Address = address
	}
	if logoURL != "" {
		store.LogoURL = logoURL
	}

	if err := s.repo.Update(store); err != nil {
		return nil, err
	}
	return store, nil
}

// ToggleOpen 切换营业状态，返回新状态
func (s *storeService) ToggleOpen() (bool, error) {
	store, err := s.GetStore()
	if err != nil {
		return false, err
	}

	next := !store.IsOpen
	if err := s.repo.SetOpen(store.ID, next); err != nil {
		if errors.Is(err, repository.ErrStoreMissing) {
			return false, ErrStoreNotFound
		}
		return false, err
	}
	return next, nil
}

// ResetCounter 订单计数器清零
// 重置后订单号可能与历史订单重复，属既有行为
func (s *storeService) ResetCounter() error {
	store, err := s.GetStore()
	if err != nil {
		return err
	}

	if err := s.repo.ResetCounter(store.ID); err != nil {
		if errors.Is(err, repository.ErrStoreMissing) {
			return ErrStoreNotFound
		}
		return err
	}
	return nil
}

// Status 营业状态
func (s *storeService) Status() (bool, error) {
	store, err := s.GetStore()
	if err != nil {
		return false, err
	}
	return store.IsOpen, nil
}

// AllocateOrderNo 分配下一个订单号
func (s *storeService) AllocateOrderNo(storeID string) (int, error) {
	no, err := s.repo.AllocateOrderNo(storeID)
	if err != nil {
		if errors.Is(err, repository.ErrStoreMissing) {
			return 0, ErrStoreNotFound
		}
		return 0, err
	}
	return no, nil
}
