package user

import (
	"food_order_api/internal/domain/user/handler"
	"food_order_api/internal/domain/user/repository"
	"food_order_api/internal/domain/user/service"
	"food_order_api/internal/pkg/middleware"
	"food_order_api/internal/pkg/otp"
	"food_order_api/internal/pkg/registry"

	"github.com/gin-gonic/gin"
)

// UserModule 用户模块
type UserModule struct{}

func init() {
	registry.Register(&UserModule{})
}

func (m *UserModule) Name() string {
	return "user"
}

func (m *UserModule) Priority() int {
	return 10
}

func (m *UserModule) Init(ctx *registry.ModuleContext) error {
	uRepo := repository.NewUserRepository(ctx.DB)
	otpService := otp.NewOTPService(ctx.Redis)
	uService := service.NewUserService(uRepo, otpService)
	uHandler := handler.NewUserHandler(uService)

	setupRoutes(ctx.Router, uHandler)
	return nil
}

func setupRoutes(r *gin.Engine, h *handler.UserHandler) {
	auth := r.Group("/auth")
	{
		auth.POST("/user/send-otp", middleware.RateLimitMiddleware(), h.SendOTP)
		auth.POST("/user/register", h.RegisterCustomer)
		auth.POST("/user/login", h.LoginCustomer)
		auth.POST("/admin/register", h.RegisterAdmin)
		auth.POST("/admin/login", h.LoginAdmin)
	}

	user := r.Group("/user")
	user.Use(middleware.AuthMiddleware())
	{
		user.GET("/me", h.Me)
	}
}
