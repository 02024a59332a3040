package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector 指标收集器
type Collector struct {
	// HTTP 指标
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// 业务指标
	ordersPlacedTotal      *prometheus.CounterVec
	orderTransitionsTotal  *prometheus.CounterVec
	paymentEventsTotal     *prometheus.CounterVec
	notificationsTotal     *prometheus.CounterVec
	notificationsDropped   prometheus.Counter
	websocketClientsActive prometheus.Gauge
}

// NewCollector 创建指标收集器
func NewCollector() *Collector {
	return &Collector{
		httpRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status"},
		),

		httpRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),

		ordersPlacedTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "orders_placed_total",
				Help: "Total number of orders placed",
			},
			[]string{"payment_method"},
		),

		orderTransitionsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "order_transitions_total",
				Help: "Total number of order status transitions",
			},
			[]string{"from", "to"},
		),

		paymentEventsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "payment_events_total",
				Help: "Total number of payment gateway events handled",
			},
			[]string{"event", "result"},
		),

		notificationsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "notifications_total",
				Help: "Total number of realtime notifications dispatched",
			},
			[]string{"event"},
		),

		notificationsDropped: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "notifications_dropped_total",
				Help: "Notifications dropped because the event queue was full",
			},
		),

		websocketClientsActive: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "websocket_clients_active",
				Help: "Number of connected websocket clients",
			},
		),
	}
}

// Default 全局收集器实例
var Default = NewCollector()

// RecordHTTPRequest 记录 HTTP 请求
func (c *Collector) RecordHTTPRequest(method, endpoint, status string, durationSeconds float64) {
	c.httpRequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	c.httpRequestDuration.WithLabelValues(method, endpoint).Observe(durationSeconds)
}

// RecordOrderPlaced 记录下单
func (c *Collector) RecordOrderPlaced(paymentMethod string) {
	c.ordersPlacedTotal.WithLabelValues(paymentMethod).Inc()
}

// RecordOrderTransition 记录订单状态流转
func (c *Collector) RecordOrderTransition(from, to string) {
	c.orderTransitionsTotal.WithLabelValues(from, to).Inc()
}

// RecordPaymentEvent 记录支付回调事件
func (c *Collector) RecordPaymentEvent(event, result string) {
	c.paymentEventsTotal.WithLabelValues(event, result).Inc()
}

// RecordNotification 记录通知投递
func (c *Collector) RecordNotification(event string) {
	c.notificationsTotal.WithLabelValues(event).Inc()
}

// RecordNotificationDropped 记录通知丢弃
func (c *Collector) RecordNotificationDropped() {
	c.notificationsDropped.Inc()
}

// SetWebsocketClients 更新在线客户端数
func (c *Collector) SetWebsocketClients(n int) {
	c.websocketClientsActive.Set(float64(n))
}
