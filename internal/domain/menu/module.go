package menu

import (
	"food_order_api/internal/domain/menu/handler"
	"food_order_api/internal/domain/menu/repository"
	"food_order_api/internal/domain/menu/service"
	"food_order_api/internal/pkg/middleware"
	"food_order_api/internal/pkg/registry"
	"food_order_api/pkg/cache"

	"github.com/gin-gonic/gin"
)

// MenuModule 菜单模块
type MenuModule struct{}

func init() {
	registry.Register(&MenuModule{})
}

func (m *MenuModule) Name() string {
	return "menu"
}

func (m *MenuModule) Priority() int {
	return 30
}

func (m *MenuModule) Init(ctx *registry.ModuleContext) error {
	mRepo := repository.NewMenuRepository(ctx.DB)
	mService := service.NewMenuService(mRepo)

	// 列表读取走 Redis 缓存
	cacheService := cache.NewRedisCache(ctx.Redis, "food-order:")
	cached := service.NewCachedMenuService(mService, cacheService)

	mHandler := handler.NewMenuHandler(cached)

	setupRoutes(ctx.Router, mHandler)
	return nil
}

func setupRoutes(r *gin.Engine, h *handler.MenuHandler) {
	g := r.Group("/menu")

	// 公开接口
	g.GET("/categories", h.ListCategories)
	g.GET("/category/:id", h.GetCategory)
	g.GET("/products", h.ListProducts)
	g.GET("/product/:id", h.GetProduct)

	// 店家接口
	admin := g.Group("")
	admin.Use(middleware.AuthMiddleware(), middleware.AdminMiddleware())
	{
		admin.POST("/category", h.AddCategory)
		admin.DELETE("/category/:id", h.DeleteCategory)
		admin.POST("/product", h.AddProduct)
		admin.PUT("/product/:id", h.UpdateProduct)
		admin.DELETE("/product/:id", h.DeleteProduct)
	}
}
