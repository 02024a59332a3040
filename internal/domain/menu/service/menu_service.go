package service

import (
	"errors"

	"food_order_api/internal/domain/menu/model"
	"food_order_api/internal/domain/menu/repository"
	"food_order_api/pkg/apperr"

	"gorm.io/gorm"
)

// 菜单模块错误
var (
	ErrCategoryNotFound = apperr.NotFound(apperr.CodeCategoryNotFound, "Category not found")
	ErrProductNotFound  = apperr.NotFound(apperr.CodeProductNotFound, "Product not found")
)

// ProductInput 菜品输入
type ProductInput struct {
	Name        string
	Description string
	FoodType    string
	Price       float64
	CategoryID  string
	ImageURL    string
}

// MenuService 菜单服务接口
type MenuService interface {
	AddCategory(name, imageURL string) (*model.Category, error)
	GetCategory(id string) (*model.Category, error)
	ListCategories() ([]model.Category, error)
	DeleteCategory(id string) error

	AddProduct(input ProductInput) (*model.Product, error)
	GetProduct(id string) (*model.Product, error)
	ListProducts() ([]model.Product, error)
	UpdateProduct(id string, input ProductInput) (*model.Product, error)
	DeleteProduct(id string) error
}

type menuService struct {
	repo repository.MenuRepository
}

func NewMenuService(repo repository.MenuRepository) MenuService {
	return &menuService{repo: repo}
}

func (s *menuService) AddCategory(name, imageURL string) (*model.Category, error) {
	category := &model.Category{Name: name, ImageURL: imageURL}
	if err := s.repo.CreateCategory(category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *menuService) GetCategory(id string) (*model.Category, error) {
	category, err := s.repo.GetCategoryByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return category, nil
}

func (s *menuService) ListCategories() ([]model.Category, error) {
	return s.repo.ListCategories()
}

func (s *menuService) DeleteCategory(id string) error {
	category, err := s.GetCategory(id)
	if err != nil {
		return err
	}
	return s.repo.DeleteCategory(category)
}

// AddProduct 新增菜品，分类必须存在
func (s *menuService) AddProduct(input ProductInput) (*model.Product, error) {
	if _, err := s.GetCategory(input.CategoryID); err != nil {
		return nil, err
	}

	product := &model.Product{
		Name:        input.Name,
		Description: input.Description,
		FoodType:    input.FoodType,
		Price:       input.Price,
		CategoryID:  input.CategoryID,
		ImageURL:    input.ImageURL,
	}
	if err := s.repo.CreateProduct(product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *menuService) GetProduct(id string) (*model.Product, error) {
	product, err := s.repo.GetProductByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return product, nil
}

func (s *menuService) ListProducts() ([]model.Product, error) {
	return s.repo.ListProducts()
}

func (s *menuService) UpdateProduct(id string, input ProductInput) (*model.Product, error) {
	product, err := s.GetProduct(id)
	if err != nil {
		return nil, err
	}

	if input.Name != "" {
		product.Name = input.Name
	}
	if input.Description != "" {
		product.Description = input.Description
	}
	if input.FoodType != "" {
		product.FoodType = input.FoodType
	}
	if input.Price > 0 {
		product.Price = input.Price
	}
	if input.CategoryID != "" {
		if _, err := s.GetCategory(input.CategoryID); err != nil {
			return nil, err
		}
		product.CategoryID = input.CategoryID
	}
	if input.ImageURL != "" {
		product.ImageURL = input.ImageURL
	}

	if err := s.repo.UpdateProduct(product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *menuService) DeleteProduct(id string) error {
	product, err := s.GetProduct(id)
	if err != nil {
		return err
	}
	return s.repo.DeleteProduct(product)
}
