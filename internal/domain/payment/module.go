package payment

import (
	orderRepo "food_order_api/internal/domain/order/repository"
	"food_order_api/internal/domain/payment/handler"
	"food_order_api/internal/domain/payment/service"
	"food_order_api/internal/pkg/config"
	"food_order_api/internal/pkg/middleware"
	"food_order_api/internal/pkg/registry"

	"github.com/gin-gonic/gin"
)

// PaymentModule 支付模块
type PaymentModule struct{}

func init() {
	registry.Register(&PaymentModule{})
}

func (m *PaymentModule) Name() string {
	return "payment"
}

func (m *PaymentModule) Priority() int {
	return 50
}

func (m *PaymentModule) Init(ctx *registry.ModuleContext) error {
	cfg := config.GlobalConfig.Razorpay
	pService := service.NewPaymentService(
		orderRepo.NewOrderRepository(ctx.DB),
		ctx.Notifier,
		cfg.KeySecret,
		cfg.WebhookSecret,
	)
	pHandler := handler.NewPaymentHandler(pService)

	setupRoutes(ctx.Router, pHandler)
	return nil
}

func setupRoutes(r *gin.Engine, h *handler.PaymentHandler) {
	g := r.Group("/payment")

	// 网关回调不走用户认证，靠报文签名鉴别
	g.POST("/webhook", h.Webhook)

	auth := g.Group("")
	auth.Use(middleware.AuthMiddleware())
	{
		auth.POST("/verify", h.Verify)
		auth.POST("/cancel", h.Cancel)
	}
}
