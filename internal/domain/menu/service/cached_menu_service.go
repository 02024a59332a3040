package service

import (
	"context"
	"time"

	"food_order_api/internal/domain/menu/model"
	"food_order_api/pkg/cache"
	"food_order_api/pkg/logger"

	"go.uber.org/zap"
)

// 缓存键常量
const (
	CategoriesCacheKey = "menu:categories"
	ProductsCacheKey   = "menu:products"
	MenuCacheTTL       = time.Minute * 30
)

// CachedMenuService 带缓存的菜单服务
// 菜单读多写少：列表读取走 Redis，任何写操作失效全部菜单缓存
type CachedMenuService struct {
	inner MenuService
	cache cache.CacheService
}

// NewCachedMenuService 创建带缓存的菜单服务
func NewCachedMenuService(inner MenuService, cache cache.CacheService) MenuService {
	return &CachedMenuService{inner: inner, cache: cache}
}

// invalidate 失效菜单缓存；失败只记日志，不影响写路径
func (s *CachedMenuService) invalidate() {
	ctx := context.Background()
	if err := s.cache.InvalidatePattern(ctx, "menu:*"); err != nil {
		logger.Log.Warn("failed to invalidate menu cache", zap.Error(err))
	}
}

func (s *CachedMenuService) AddCategory(name, imageURL string) (*model.Category, error) {
	category, err := s.inner.AddCategory(name, imageURL)
	if err == nil {
		s.invalidate()
	}
	return category, err
}

func (s *CachedMenuService) GetCategory(id string) (*model.Category, error) {
	return s.inner.GetCategory(id)
}

func (s *CachedMenuService) ListCategories() ([]model.Category, error) {
	ctx := context.Background()

	var categories []model.Category
	if err := s.cache.Get(ctx, CategoriesCacheKey, &categories); err == nil {
		return categories, nil
	}

	categories, err := s.inner.ListCategories()
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, CategoriesCacheKey, categories, MenuCacheTTL); err != nil {
		logger.Log.Warn("failed to cache categories", zap.Error(err))
	}
	return categories, nil
}

func (s *CachedMenuService) DeleteCategory(id string) error {
	if err := s.inner.DeleteCategory(id); err != nil {
		return err
	}
	s.invalidate()
	return nil
}

func (s *CachedMenuService) AddProduct(input ProductInput) (*model.Product, error) {
	product, err := s.inner.AddProduct(input)
	if err == nil {
		s.invalidate()
	}
	return product, err
}

func (s *CachedMenuService) GetProduct(id string) (*model.Product, error) {
	return s.inner.GetProduct(id)
}

func (s *CachedMenuService) ListProducts() ([]model.Product, error) {
	ctx := context.Background()

	var products []model.Product
	if err := s.cache.Get(ctx, ProductsCacheKey, &products); err == nil {
		return products, nil
	}

	products, err := s.inner.ListProducts()
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, ProductsCacheKey, products, MenuCacheTTL); err != nil {
		logger.Log.Warn("failed to cache products", zap.Error(err))
	}
	return products, nil
}

func (s *CachedMenuService) UpdateProduct(id string, input ProductInput) (*model.Product, error) {
	product, err := s.inner.UpdateProduct(id, input)
	if err == nil {
		s.invalidate()
	}
	return product, err
}

func (s *CachedMenuService) DeleteProduct(id string) error {
	if err := s.inner.DeleteProduct(id); err != nil {
		return err
	}
	s.invalidate()
	return nil
}
