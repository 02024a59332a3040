package repository

import (
	"food_order_api/internal/domain/menu/model"

	"gorm.io/gorm"
)

// MenuRepository 菜单仓库：分类与菜品
type MenuRepository interface {
	CreateCategory(category *model.Category) error
	GetCategoryByID(id string) (*model.Category, error)
	ListCategories() ([]model.Category, error)
	DeleteCategory(category *model.Category) error

	CreateProduct(product *model.Product) error
	GetProductByID(id string) (*model.Product, error)
	ListProducts() ([]model.Product, error)
	UpdateProduct(product *model.Product) error
	DeleteProduct(product *model.Product) error
}

type menuRepository struct {
	db *gorm.DB
}

func NewMenuRepository(db *gorm.DB) MenuRepository {
	return &menuRepository{db: db}
}

func (r *menuRepository) CreateCategory(category *model.Category) error {
	return r.db.Create(category).Error
}

func (r *menuRepository) GetCategoryByID(id string) (*model.Category, error) {
	var category model.Category
	if err := r.db.Where("id = ?", id).First(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *menuRepository) ListCategories() ([]model.Category, error) {
	var categories []model.Category
	if err := r.db.Order("created_at").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *menuRepository) DeleteCategory(category *model.Category) error {
	return r.db.Delete(category).Error
}

func (r *menuRepository) CreateProduct(product *model.Product) error {
	if err := r.db.Create(product).Error; err != nil {
		return err
	}
	// 返回时带上分类信息
	return r.db.Preload("Category").First(product, "id = ?", product.ID).Error
}

func (r *menuRepository) GetProductByID(id string) (*model.Product, error) {
	var product model.Product
	if err := r.db.Preload("Category").Where("id = ?", id).First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// ListProducts 菜品列表，最新在前
func (r *menuRepository) ListProducts() ([]model.Product, error) {
	var products []model.Product
	if err := r.db.Preload("Category").Order("created_at DESC").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (r *menuRepository) UpdateProduct(product *model.Product) error {
	return r.db.Save(product).Error
}

func (r *menuRepository) DeleteProduct(product *model.Product) error {
	return r.db.Delete(product).Error
}
