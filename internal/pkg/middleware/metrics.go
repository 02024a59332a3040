package middleware

import (
	"strconv"
	"time"

	"food_order_api/pkg/metrics"

	"github.com/gin-gonic/gin"
)

// MetricsMiddleware prometheus 指标中间件
// endpoint 使用路由模板（如 /order/accept/:id），避免高基数标签
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}
		metrics.Default.RecordHTTPRequest(
			c.Request.Method,
			endpoint,
			strconv.Itoa(c.Writer.Status()),
			time.Since(start).Seconds(),
		)
	}
}
