package store

import (
	"food_order_api/internal/domain/store/handler"
	"food_order_api/internal/domain/store/repository"
	"food_order_api/internal/domain/store/service"
	"food_order_api/internal/pkg/middleware"
	"food_order_api/internal/pkg/registry"

	"github.com/gin-gonic/gin"
)

// StoreModule 门店模块
type StoreModule struct{}

func init() {
	registry.Register(&StoreModule{})
}

func (m *StoreModule) Name() string {
	return "store"
}

func (m *StoreModule) Priority() int {
	return 20
}

func (m *StoreModule) Init(ctx *registry.ModuleContext) error {
	sRepo := repository.NewStoreRepository(ctx.DB)
	sService := service.NewStoreService(sRepo)
	sHandler := handler.NewStoreHandler(sService)

	setupRoutes(ctx.Router, sHandler)
	return nil
}

func setupRoutes(r *gin.Engine, h *handler.StoreHandler) {
	g := r.Group("/store")

	// 公开接口
	g.GET("/status", h.Status)

	// 店家接口
	admin := g.Group("")
	admin.Use(middleware.AuthMiddleware(), middleware.AdminMiddleware())
	{
		admin.POST("/create", h.Create)
		admin.GET("", h.Get)
		admin.PUT("/update", h.Update)
		admin.POST("/toggle", h.Toggle)
		admin.POST("/reset-counter", h.ResetCounter)
	}
}
