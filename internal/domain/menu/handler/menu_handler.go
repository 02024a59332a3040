package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"food_order_api/internal/domain/menu/model"
	"food_order_api/internal/domain/menu/service"
	"food_order_api/internal/pkg/uploader"
	"food_order_api/pkg/response"

	"github.com/gin-gonic/gin"
)

// MenuHandler 菜单处理器
type MenuHandler struct {
	service service.MenuService
}

func NewMenuHandler(s service.MenuService) *MenuHandler {
	return &MenuHandler{service: s}
}

// uploadImage 上传表单中的 image 文件
func uploadImage(c *gin.Context, folder string) (string, error) {
	file, err := c.FormFile("image")
	if err != nil {
		return "", err
	}
	if uploader.GlobalUploader == nil {
		return "", fmt.Errorf("uploader not initialized")
	}
	return uploader.GlobalUploader.UploadFile(file, folder)
}

// AddCategory 新增分类
// @Summary 新增分类
// @Tags Menu
// @Accept multipart/form-data
// @Router /menu/category [post]
func (h *MenuHandler) AddCategory(c *gin.Context) {
	name := c.PostForm("name")
	if name == "" {
		response.Error(c, http.StatusBadRequest, "All fields are required")
		return
	}

	imageURL, err := uploadImage(c, "category")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Image is required")
		return
	}

	category, err := h.service.AddCategory(name, imageURL)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Created(c, "Category added successfully", category)
}

// ListCategories 分类列表（公开）
// @Summary 分类列表
// @Tags Menu
// @Router /menu/categories [get]
func (h *MenuHandler) ListCategories(c *gin.Context) {
	categories, err := h.service.ListCategories()
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, "Fetched All Categories Successfully", categories)
}

// GetCategory 分类详情
// @Summary 分类详情
// @Tags Menu
// @Router /menu/category/{id} [get]
func (h *MenuHandler) GetCategory(c *gin.Context) {
	category, err := h.service.GetCategory(c.Param("id"))
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, "Category fetched successfully", category)
}

// DeleteCategory 删除分类
// @Summary 删除分类
// @Tags Menu
// @Router /menu/category/{id} [delete]
func (h *MenuHandler) DeleteCategory(c *gin.Context) {
	if err := h.service.DeleteCategory(c.Param("id")); err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, "Category deleted successfully", nil)
}

// AddProduct 新增菜品
// @Summary 新增菜品
// @Tags Menu
// @Accept multipart/form-data
// @Router /menu/product [post]
func (h *MenuHandler) AddProduct(c *gin.Context) {
	name := c.PostForm("name")
	description := c.PostForm("description")
	categoryID := c.PostForm("categoryId")
	foodType := c.PostForm("foodType")
	priceStr := c.PostForm("price")

	if name == "" || description == "" || categoryID == "" || priceStr == "" || foodType == "" {
		response.Error(c, http.StatusBadRequest, "All fields are required")
		return
	}
	if foodType != model.FoodTypeVeg && foodType != model.FoodTypeNonVeg {
		response.Error(c, http.StatusBadRequest, "Invalid food type")
		return
	}

	price, err := strconv.ParseFloat(priceStr, 64)
	if err != nil || price <= 0 {
		response.Error(c, http.StatusBadRequest, "Invalid price")
		return
	}

	imageURL, err := uploadImage(c, "products")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Image is required")
		return
	}

	product, err := h.service.AddProduct(service.ProductInput{
		Name:        name,
		Description: description,
		FoodType:    foodType,
		Price:       price,
		CategoryID:  categoryID,
		ImageURL:    imageURL,
	})
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Created(c, "Product uploaded successfully", product)
}

// ListProducts 菜品列表（公开）
// @Summary 菜品列表
// @Tags Menu
// @Router /menu/products [get]
func (h *MenuHandler) ListProducts(c *gin.Context) {
	products, err := h.service.ListProducts()
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, "Fetched All Products Successfully", products)
}

// GetProduct 菜品详情
// @Summary 菜品详情
// @Tags Menu
// @Router /menu/product/{id} [get]
func (h *MenuHandler) GetProduct(c *gin.Context) {
	product, err := h.service.GetProduct(c.Param("id"))
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, "Product fetched successfully", product)
}

// UpdateProduct 更新菜品
// @Summary 更新菜品
// @Tags Menu
// @Accept multipart/form-data
// @Router /menu/product/{id} [put]
func (h *MenuHandler) UpdateProduct(c *gin.Context) {
	input := service.ProductInput{
		Name:        c.PostForm("name"),
		Description: c.PostForm("description"),
		FoodType:    c.PostForm("foodType"),
		CategoryID:  c.PostForm("categoryId"),
	}

	if priceStr := c.PostForm("price"); priceStr != "" {
		price, err := strconv.ParseFloat(priceStr, 64)
		if err != nil || price <= 0 {
			response.Error(c, http.StatusBadRequest, "Invalid price")
			return
		}
		input.Price = price
	}

	// 图片可选
	if imageURL, err := uploadImage(c, "products"); err == nil {
		input.ImageURL = imageURL
	}

	product, err := h.service.UpdateProduct(c.Param("id"), input)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, "Product updated successfully", product)
}

// DeleteProduct 删除菜品
// @Summary 删除菜品
// @Tags Menu
// @Router /menu/product/{id} [delete]
func (h *MenuHandler) DeleteProduct(c *gin.Context) {
	if err := h.service.DeleteProduct(c.Param("id")); err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, "Product deleted successfully", nil)
}
