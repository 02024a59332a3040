package common

import (
	"net/http"

	"food_order_api/internal/pkg/middleware"
	"food_order_api/internal/pkg/registry"
	"food_order_api/internal/pkg/uploader"
	"food_order_api/pkg/response"

	"github.com/gin-gonic/gin"
)

// CommonModule 通用模块：文件上传等跨领域接口
type CommonModule struct{}

func init() {
	registry.Register(&CommonModule{})
}

func (m *CommonModule) Name() string {
	return "common"
}

func (m *CommonModule) Priority() int {
	return 90
}

func (m *CommonModule) Init(ctx *registry.ModuleContext) error {
	admin := ctx.Router.Group("/upload")
	admin.Use(middleware.AuthMiddleware(), middleware.AdminMiddleware())
	admin.POST("", uploadHandler)
	return nil
}

// uploadHandler 通用文件上传
// folder 参数决定 OSS 目录，缺省放 misc
func uploadHandler(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "File is required")
		return
	}

	folder := c.DefaultPostForm("folder", "misc")

	if uploader.GlobalUploader == nil {
		response.Error(c, http.StatusServiceUnavailable, "Upload service is not available")
		return
	}

	url, err := uploader.GlobalUploader.UploadFile(file, folder)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Upload failed")
		return
	}
	response.Success(c, "File uploaded successfully", gin.H{"url": url})
}
