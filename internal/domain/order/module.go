package order

import (
	menuRepo "food_order_api/internal/domain/menu/repository"
	"food_order_api/internal/domain/order/handler"
	"food_order_api/internal/domain/order/repository"
	"food_order_api/internal/domain/order/service"
	"food_order_api/internal/domain/payment/gateway"
	storeRepo "food_order_api/internal/domain/store/repository"
	storeService "food_order_api/internal/domain/store/service"
	"food_order_api/internal/pkg/config"
	"food_order_api/internal/pkg/middleware"
	"food_order_api/internal/pkg/registry"
	"food_order_api/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// OrderModule 订单模块
type OrderModule struct{}

func init() {
	registry.Register(&OrderModule{})
}

func (m *OrderModule) Name() string {
	return "order"
}

func (m *OrderModule) Priority() int {
	return 40
}

func (m *OrderModule) Init(ctx *registry.ModuleContext) error {
	oRepo := repository.NewOrderRepository(ctx.DB)
	mRepo := menuRepo.NewMenuRepository(ctx.DB)
	sService := storeService.NewStoreService(storeRepo.NewStoreRepository(ctx.DB))

	// 网关凭证缺失时仅支持货到付款
	var gw gateway.PaymentGateway
	if g, err := gateway.NewRazorpayGateway(); err != nil {
		logger.Log.Warn("支付网关未启用", zap.Error(err))
	} else {
		gw = g
	}

	oService := service.NewOrderService(
		oRepo, mRepo, sService, gw, ctx.Notifier,
		config.GlobalConfig.Razorpay.Currency,
	)
	oHandler := handler.NewOrderHandler(oService)

	setupRoutes(ctx.Router, oHandler)
	return nil
}

func setupRoutes(r *gin.Engine, h *handler.OrderHandler) {
	g := r.Group("/order")
	g.Use(middleware.AuthMiddleware())

	// 顾客接口
	g.POST("/place/cash", h.PlaceCash)
	g.POST("/place/online", h.PlaceOnline)
	g.GET("/user/all", h.ListMine)
	g.GET("/user/pending", h.ListMinePending)
	// 取消对顾客开放：service 层限定只能取消自己的 PENDING 订单
	g.POST("/reject/:id", h.Reject)

	// 店家接口
	admin := g.Group("")
	admin.Use(middleware.AdminMiddleware())
	{
		admin.GET("/pending", h.ListPending)
		admin.GET("/accepted", h.ListAccepted)
		admin.POST("/accept/:id", h.Accept)
		admin.POST("/delivered/:id", h.Delivered)
		admin.GET("/search/date", h.SearchByDate)
		admin.GET("/search/monthly", h.SearchByMonth)
		admin.GET("/search/name", h.SearchByName)
		admin.GET("/stats/monthly", h.MonthlyStats)
	}
}
