package service

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"time"

	menuRepo "food_order_api/internal/domain/menu/repository"
	"food_order_api/internal/domain/order/model"
	"food_order_api/internal/domain/order/repository"
	"food_order_api/internal/domain/payment/gateway"
	storeService "food_order_api/internal/domain/store/service"
	"food_order_api/internal/pkg/notify"
	"food_order_api/internal/pkg/push"
	"food_order_api/pkg/apperr"
	"food_order_api/pkg/logger"
	"food_order_api/pkg/metrics"
	"food_order_api/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// 订单模块错误
var (
	ErrOrderNotFound     = apperr.NotFound(apperr.CodeOrderNotFound, "Order not found")
	ErrEmptyOrder        = apperr.BadRequest(apperr.CodeEmptyOrder, "Order must contain at least one item")
	ErrInvalidTransition = apperr.BadRequest(apperr.CodeInvalidTransition, "Invalid order status transition")
	ErrNotOrderOwner     = apperr.Forbidden(apperr.CodeNoPermission, "You can only cancel your own order")
	ErrInvalidQuery      = apperr.BadRequest(apperr.CodeInvalidQuery, "Invalid query parameter")
)

func errProductNotFound(productID string) error {
	return apperr.NotFound(apperr.CodeProductNotFound, fmt.Sprintf("Product not found: %s", productID))
}

// OrderItemInput 下单菜品行
type OrderItemInput struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
}

// PlaceOrderResult 下单结果
// 在线支付时附带发起支付所需的网关信息
type PlaceOrderResult struct {
	Order           *model.Order `json:"order"`
	RazorpayOrderID string       `json:"razorpayOrderId,omitempty"`
	RazorpayKeyID   string       `json:"razorpayKeyId,omitempty"`
	AmountMinor     int64        `json:"amount,omitempty"`
	Currency        string       `json:"currency,omitempty"`
}

// OrderService 订单服务接口
type OrderService interface {
	PlaceOrder(userID, paymentMethod string, items []OrderItemInput) (*PlaceOrderResult, error)
	// Transition 推进订单状态
	// admin 为 false 时只允许顾客取消自己的 PENDING 订单
	Transition(orderID, to, actorID string, admin bool) (*model.Order, error)

	GetOrder(orderID string) (*model.Order, error)
	ListPending(p utils.Pagination) (*utils.PageResult, error)
	ListAccepted(p utils.Pagination) (*utils.PageResult, error)
	ListByUser(userID string, p utils.Pagination) (*utils.PageResult, error)
	ListPendingByUser(userID string) ([]model.Order, error)
	SearchByDate(date string, p utils.Pagination) (*utils.PageResult, error)
	SearchByMonth(month string, p utils.Pagination) (*utils.PageResult, error)
	SearchByCustomerName(name string, p utils.Pagination) (*utils.PageResult, error)
	MonthlyStats(month string) (*repository.MonthlyStats, error)
}

type orderService struct {
	repo     repository.OrderRepository
	menuRepo menuRepo.MenuRepository
	stores   storeService.StoreService
	gateway  gateway.PaymentGateway
	notifier notify.Notifier
	currency string
}

func NewOrderService(
	repo repository.OrderRepository,
	menuRepo menuRepo.MenuRepository,
	stores storeService.StoreService,
	gw gateway.PaymentGateway,
	notifier notify.Notifier,
	currency string,
) OrderService {
	return &orderService{
		repo:     repo,
		menuRepo: menuRepo,
		stores:   stores,
		gateway:  gw,
		notifier: notifier,
		currency: currency,
	}
}

// PlaceOrder 下单
// 校验门店营业与菜品存在，按菜单现价快照计算总额，
// 从门店计数器取订单号后落库；在线支付再注册网关订单
func (s *orderService) PlaceOrder(userID, paymentMethod string, items []OrderItemInput) (*PlaceOrderResult, error) {
	store, err := s.stores.GetStore()
	if err != nil {
		return nil, err
	}
	if !store.IsOpen {
		return nil, storeService.ErrStoreClosed
	}

	if len(items) == 0 {
		return nil, ErrEmptyOrder
	}

	var orderItems []model.OrderItem
	var total float64
	for _, item := range items {
		product, err := s.menuRepo.GetProductByID(item.ProductID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, errProductNotFound(item.ProductID)
			}
			return nil, err
		}
		orderItems = append(orderItems, model.OrderItem{
			ProductID: product.ID,
			Quantity:  item.Quantity,
			Price:     product.Price,
		})
		total += product.Price * float64(item.Quantity)
	}

	orderNo, err := s.stores.AllocateOrderNo(store.ID)
	if err != nil {
		return nil, err
	}

	order := &model.Order{
		UserID:        userID,
		OrderNo:       orderNo,
		OrderItems:    orderItems,
		TotalAmount:   total,
		Status:        model.StatusPending,
		PaymentMethod: paymentMethod,
	}
	// 提前生成主键：网关 notes 要带本地订单号，回调靠它定位订单
	order.ID = uuid.New().String()

	result := &PlaceOrderResult{Order: order}

	if paymentMethod == model.PaymentOnline {
		if s.gateway == nil {
			return nil, apperr.New(http.StatusBadGateway, apperr.CodeGatewayError, "Online payment is not available")
		}

		// Razorpay 以最小货币单位计价
		amountMinor := int64(math.Round(total * 100))
		receipt := fmt.Sprintf("order_%d_%d", orderNo, time.Now().Unix())
		gatewayOrderID, err := s.gateway.CreateOrder(amountMinor, receipt, map[string]interface{}{
			"orderId": order.ID,
		})
		if err != nil {
			logger.Log.Error("注册网关订单失败", zap.Error(err))
			return nil, apperr.New(http.StatusBadGateway, apperr.CodeGatewayError, "Failed to initiate online payment")
		}
		order.RazorpayOrderID = &gatewayOrderID

		result.RazorpayOrderID = gatewayOrderID
		result.RazorpayKeyID = s.gateway.KeyID()
		result.AmountMinor = amountMinor
		result.Currency = s.currency
	}

	if err := s.repo.Create(order); err != nil {
		return nil, err
	}

	// 回读带关联的完整订单，失败则退回内存里的订单
	created, err := s.repo.GetByID(order.ID)
	if err != nil {
		logger.Log.Warn("回读新订单失败", zap.String("orderId", order.ID), zap.Error(err))
	} else {
		result.Order = created
	}

	s.notifier.PublishToStore(notify.EventOrderPlaced, "New order received", result.Order)
	metrics.Default.RecordOrderPlaced(paymentMethod)
	return result, nil
}

// Transition 推进订单状态
// 仅允许 PENDING→COOKING/CANCELLED、COOKING→DELIVERED/CANCELLED；
// 接单与交付是店家动作，顾客只能取消自己的 PENDING 订单；
// DELIVERED 视作货到付款完成，置 IsPaid
func (s *orderService) Transition(orderID, to, actorID string, admin bool) (*model.Order, error) {
	order, err := s.GetOrder(orderID)
	if err != nil {
		return nil, err
	}

	from := order.Status
	if !model.CanTransition(from, to) {
		return nil, ErrInvalidTransition
	}

	if !admin {
		if to != model.StatusCancelled || from != model.StatusPending {
			return nil, ErrInvalidTransition
		}
		if order.UserID != actorID {
			return nil, ErrNotOrderOwner
		}
	}

	order.Status = to
	if to == model.StatusDelivered {
		order.IsPaid = true
	}
	if err := s.repo.Update(order); err != nil {
		return nil, err
	}

	metrics.Default.RecordOrderTransition(from, to)
	s.notifier.PublishToUser(order.UserID, notify.EventOrderUpdated, statusMessage(to), order)
	if to == model.StatusDelivered || to == model.StatusCancelled {
		s.pushStatusChange(order, statusMessage(to))
	}
	return order, nil
}

// pushStatusChange 终态离线推送，失败只记日志
func (s *orderService) pushStatusChange(order *model.Order, message string) {
	if push.GlobalPushService == nil {
		return
	}
	go func() {
		err := push.GlobalPushService.PushToAccount(
			order.UserID,
			fmt.Sprintf("Order #%d", order.OrderNo),
			message,
			map[string]string{"orderId": order.ID},
		)
		if err != nil {
			logger.Log.Warn("订单状态推送失败", zap.Error(err))
		}
	}()
}

func statusMessage(status string) string {
	switch status {
	case model.StatusCooking:
		return "Your order has been accepted"
	case model.StatusDelivered:
		return "Your order has been delivered"
	case model.StatusCancelled:
		return "Your order has been cancelled"
	default:
		return "Your order has been updated"
	}
}

// GetOrder 获取订单详情
func (s *orderService) GetOrder(orderID string) (*model.Order, error) {
	order, err := s.repo.GetByID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return order, nil
}

func (s *orderService) pageResult(orders []model.Order, total int64, p utils.Pagination) *utils.PageResult {
	return &utils.PageResult{
		List:  orders,
		Total: total,
		Page:  p.Page,
		Limit: p.Size(),
	}
}

// ListPending 店家视角：待接单列表
func (s *orderService) ListPending(p utils.Pagination) (*utils.PageResult, error) {
	if !p.Valid() {
		return nil, ErrInvalidQuery
	}
	orders, total, err := s.repo.ListByStatus([]string{model.StatusPending}, p.Offset(), p.Size())
	if err != nil {
		return nil, err
	}
	return s.pageResult(orders, total, p), nil
}

// ListAccepted 店家视角：制作中列表
func (s *orderService) ListAccepted(p utils.Pagination) (*utils.PageResult, error) {
	if !p.Valid() {
		return nil, ErrInvalidQuery
	}
	orders, total, err := s.repo.ListByStatus([]string{model.StatusCooking}, p.Offset(), p.Size())
	if err != nil {
		return nil, err
	}
	return s.pageResult(orders, total, p), nil
}

// ListByUser 顾客订单历史
func (s *orderService) ListByUser(userID string, p utils.Pagination) (*utils.PageResult, error) {
	if !p.Valid() {
		return nil, ErrInvalidQuery
	}
	orders, total, err := s.repo.ListByUser(userID, p.Offset(), p.Size())
	if err != nil {
		return nil, err
	}
	return s.pageResult(orders, total, p), nil
}

// ListPendingByUser 顾客进行中订单
func (s *orderService) ListPendingByUser(userID string) ([]model.Order, error) {
	return s.repo.ListPendingByUser(userID)
}

// SearchByDate 按日检索，date 形如 2026-08-29
func (s *orderService) SearchByDate(date string, p utils.Pagination) (*utils.PageResult, error) {
	if !p.Valid() {
		return nil, ErrInvalidQuery
	}
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return nil, ErrInvalidQuery
	}

	orders, total, err := s.repo.ListByDateRange(day, day.AddDate(0, 0, 1), p.Offset(), p.Size())
	if err != nil {
		return nil, err
	}
	return s.pageResult(orders, total, p), nil
}

// SearchByMonth 按月检索，month 形如 2026-08
func (s *orderService) SearchByMonth(month string, p utils.Pagination) (*utils.PageResult, error) {
	if !p.Valid() {
		return nil, ErrInvalidQuery
	}
	from, err := time.Parse("2006-01", month)
	if err != nil {
		return nil, ErrInvalidQuery
	}

	orders, total, err := s.repo.ListByDateRange(from, from.AddDate(0, 1, 0), p.Offset(), p.Size())
	if err != nil {
		return nil, err
	}
	return s.pageResult(orders, total, p), nil
}

// SearchByCustomerName 按顾客姓名检索
func (s *orderService) SearchByCustomerName(name string, p utils.Pagination) (*utils.PageResult, error) {
	if !p.Valid() {
		return nil, ErrInvalidQuery
	}
	if name == "" {
		return nil, ErrInvalidQuery
	}

	orders, total, err := s.repo.ListByCustomerName(name, p.Offset(), p.Size())
	if err != nil {
		return nil, err
	}
	return s.pageResult(orders, total, p), nil
}

// MonthlyStats 月度经营统计
func (s *orderService) MonthlyStats(month string) (*repository.MonthlyStats, error) {
	from, err := time.Parse("2006-01", month)
	if err != nil {
		return nil, ErrInvalidQuery
	}
	return s.repo.GetMonthlyStats(from, from.AddDate(0, 1, 0))
}
