package handler

import (
	"fmt"
	"net/http"

	"food_order_api/internal/domain/store/service"
	"food_order_api/internal/pkg/uploader"
	"food_order_api/pkg/response"

	"github.com/gin-gonic/gin"
)

// StoreHandler 门店处理器
type StoreHandler struct {
	service service.StoreService
}

func NewStoreHandler(s service.StoreService) *StoreHandler {
	return &StoreHandler{service: s}
}

// uploadLogo 上传 logo，未选择文件时返回空串
func uploadLogo(c *gin.Context) (string, error) {
	file, err := c.FormFile("logo")
	if err != nil {
		return "", nil
	}
	if uploader.GlobalUploader == nil {
		return "", fmt.Errorf("uploader not initialized")
	}
	return uploader.GlobalUploader.UploadFile(file, "store")
}

// Create 创建门店
// @Summary 创建门店
// @Tags Store
// @Accept multipart/form-data
// @Router /store/create [post]
func (h *StoreHandler) Create(c *gin.Context) {
	name := c.PostForm("name")
	address := c.PostForm("address")
	if name == "" || address == "" {
		response.Error(c, http.StatusBadRequest, "All fields are required")
		return
	}

	logoURL, err := uploadLogo(c)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Logo upload failed")
		return
	}

	store, err := h.service.CreateStore(name, address, logoURL)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Created(c, "Store created successfully", store)
}

// Get 门店详情
// @Summary 门店详情
// @Tags Store
// @Router /store [get]
func (h *StoreHandler) Get(c *gin.Context) {
	store, err := h.service.GetStore()
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, "Store details fetched successfully", store)
}

// Update 更新门店
// @Summary 更新门店
// @Tags Store
// @Accept multipart/form-data
// @Router /store/update [put]
func (h *StoreHandler) Update(c *gin.Context) {
	logoURL, err := uploadLogo(c)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Logo upload failed")
		return
	}

	store, err := h.service.UpdateStore(c.PostForm("name"), c.PostForm("address"), logoURL)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, "Store details updated successfully", store)
}

// Toggle 切换营业状态
// @Summary 切换营业状态
// @Tags Store
// @Router /store/toggle [post]
func (h *StoreHandler) Toggle(c *gin.Context) {
	isOpen, err := h.service.ToggleOpen()
	if err != nil {
		response.HandleError(c, err)
		return
	}

	state := "closed"
	if isOpen {
		state = "open"
	}
	response.Success(c, fmt.Sprintf("Store is now %s", state), gin.H{"isOpen": isOpen})
}

// ResetCounter 重置订单计数器
// @Summary 重置订单计数器
// @Tags Store
// @Router /store/reset-counter [post]
func (h *StoreHandler) ResetCounter(c *gin.Context) {
	if err := h.service.ResetCounter(); err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, "Order counter reset successfully", nil)
}

// Status 营业状态（公开）
// @Summary 营业状态
// @Tags Store
// @Router /store/status [get]
func (h *StoreHandler) Status(c *gin.Context) {
	isOpen, err := h.service.Status()
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, "Store status fetched successfully", gin.H{"isOpen": isOpen})
}
