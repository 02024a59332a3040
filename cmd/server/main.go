package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"food_order_api/internal/pkg/config"
	"food_order_api/internal/pkg/middleware"
	"food_order_api/internal/pkg/notify"
	"food_order_api/internal/pkg/push"
	"food_order_api/internal/pkg/registry"
	"food_order_api/internal/pkg/uploader"
	"food_order_api/pkg/database"
	"food_order_api/pkg/logger"

	// 各领域模块通过 init 自注册
	_ "food_order_api/internal/domain/common"
	_ "food_order_api/internal/domain/menu"
	_ "food_order_api/internal/domain/order"
	_ "food_order_api/internal/domain/payment"
	_ "food_order_api/internal/domain/store"
	_ "food_order_api/internal/domain/user"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

func main() {
	config.LoadConfig()
	logger.Init(config.GlobalConfig.Server.Mode)
	defer logger.Sync()

	db := database.InitDatabase()
	rdb := database.InitRedis()

	// OSS 与推送为可选依赖，配置缺失时仅告警
	if err := uploader.InitUploader(); err != nil {
		logger.Log.Warn("对象存储未启用", zap.Error(err))
	}
	if err := push.InitPushService(); err != nil {
		logger.Log.Warn("移动推送未启用", zap.Error(err))
	}

	hub := notify.NewHub()
	hub.Run()

	gin.SetMode(config.GlobalConfig.Server.Mode)
	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.LoggerMiddleware(),
		middleware.MetricsMiddleware(),
		cors.New(cors.Config{
			AllowOrigins:     []string{"*"},
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Razorpay-Signature"},
			AllowCredentials: false,
			MaxAge:           12 * time.Hour,
		}),
	)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/ws", hub.HandleWS)

	ctx := &registry.ModuleContext{
		DB:       db,
		Redis:    rdb,
		Router:   router,
		Notifier: hub,
	}
	if err := registry.InitModules(ctx); err != nil {
		logger.Log.Fatal("模块初始化失败", zap.Error(err))
	}

	srv := &http.Server{
		Addr:    ":" + config.GlobalConfig.Server.Port,
		Handler: router,
	}

	go func() {
		logger.Log.Info("服务启动", zap.String("port", config.GlobalConfig.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal("服务启动失败", zap.Error(err))
		}
	}()

	// 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Info("收到退出信号，开始关闭")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("服务关闭异常", zap.Error(err))
	}
	logger.Log.Info("服务已退出")
}
