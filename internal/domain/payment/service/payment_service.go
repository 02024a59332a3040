package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"

	orderModel "food_order_api/internal/domain/order/model"
	orderRepo "food_order_api/internal/domain/order/repository"
	"food_order_api/internal/pkg/notify"
	"food_order_api/internal/pkg/push"
	"food_order_api/pkg/apperr"
	"food_order_api/pkg/logger"
	"food_order_api/pkg/metrics"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// 支付模块错误
var (
	ErrSignatureMismatch = apperr.BadRequest(apperr.CodeSignatureMismatch, "Payment signature verification failed")
	ErrAlreadyPaid       = apperr.Conflict(apperr.CodeAlreadyPaid, "Order is already paid and cannot be cancelled")
	ErrOrderNotFound     = apperr.NotFound(apperr.CodeOrderNotFound, "Order not found")
)

// 网关回调事件名
const (
	eventPaymentCaptured = "payment.captured"
	eventPaymentFailed   = "payment.failed"
	eventOrderPaid       = "order.paid"
)

// webhookNotes 下单时写入网关订单的附加信息，回调靠它定位本地订单
type webhookNotes struct {
	OrderID string `json:"orderId"`
}

// webhookPayload Razorpay 回调报文
// 只解出定位本地订单所需的字段
type webhookPayload struct {
	Event   string `json:"event"`
	Payload struct {
		Payment struct {
			Entity struct {
				ID      string       `json:"id"`
				OrderID string       `json:"order_id"`
				Notes   webhookNotes `json:"notes"`
			} `json:"entity"`
		} `json:"payment"`
		Order struct {
			Entity struct {
				ID    string       `json:"id"`
				Notes webhookNotes `json:"notes"`
			} `json:"entity"`
		} `json:"order"`
	} `json:"payload"`
}

// PaymentService 支付服务接口
type PaymentService interface {
	// HandleWebhook 处理网关异步回调，body 为原始报文
	HandleWebhook(body []byte, signature string) error
	// VerifyPayment 客户端支付完成后的同步验签
	VerifyPayment(razorpayOrderID, paymentID, signature string) (*orderModel.Order, error)
	// CancelUnpaidOrder 支付中途放弃时取消未支付订单
	// orderID 与 razorpayOrderID 二选一
	CancelUnpaidOrder(orderID, razorpayOrderID string) error
}

type paymentService struct {
	orders        orderRepo.OrderRepository
	notifier      notify.Notifier
	keySecret     string
	webhookSecret string
}

func NewPaymentService(orders orderRepo.OrderRepository, notifier notify.Notifier, keySecret, webhookSecret string) PaymentService {
	return &paymentService{
		orders:        orders,
		notifier:      notifier,
		keySecret:     keySecret,
		webhookSecret: webhookSecret,
	}
}

// verifySignature HMAC-SHA256 验签，常数时间比较
func verifySignature(message []byte, signature, secret string) bool {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(message)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

// HandleWebhook 处理网关回调
// 验签失败拒绝；重复投递按幂等处理
func (s *paymentService) HandleWebhook(body []byte, signature string) error {
	if !verifySignature(body, signature, s.webhookSecret) {
		metrics.Default.RecordPaymentEvent("webhook", "signature_mismatch")
		return ErrSignatureMismatch
	}

	var payload webhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return apperr.BadRequest(apperr.CodeInvalidParam, "Malformed webhook payload")
	}

	switch payload.Event {
	case eventPaymentCaptured:
		orderID := payload.Payload.Payment.Entity.Notes.OrderID
		if orderID == "" {
			metrics.Default.RecordPaymentEvent(payload.Event, "notes_missing")
			return apperr.BadRequest(apperr.CodeInvalidParam, "Missing orderId in notes")
		}
		return s.markPaid(orderID, payload.Payload.Payment.Entity.ID, payload.Event, true)
	case eventOrderPaid:
		orderID := payload.Payload.Order.Entity.Notes.OrderID
		if orderID == "" {
			orderID = payload.Payload.Payment.Entity.Notes.OrderID
		}
		if orderID == "" {
			metrics.Default.RecordPaymentEvent(payload.Event, "notes_missing")
			return nil
		}
		return s.markPaid(orderID, payload.Payload.Payment.Entity.ID, payload.Event, false)
	case eventPaymentFailed:
		return s.handleFailed(payload.Payload.Payment.Entity.Notes.OrderID)
	default:
		// 未订阅的事件直接确认，避免网关重试
		metrics.Default.RecordPaymentEvent(payload.Event, "ignored")
		return nil
	}
}

// markPaid 将本地订单置为已支付
// strict 为 true 时订单缺失报 404，否则确认掉以免网关反复重试
func (s *paymentService) markPaid(orderID, paymentID, event string, strict bool) error {
	order, err := s.orders.GetByID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Log.Warn("回调找不到本地订单",
				zap.String("orderId", orderID),
				zap.String("event", event),
			)
			metrics.Default.RecordPaymentEvent(event, "order_missing")
			if strict {
				return ErrOrderNotFound
			}
			return nil
		}
		return err
	}

	// 重复投递：已支付则无事发生
	if order.IsPaid {
		metrics.Default.RecordPaymentEvent(event, "duplicate")
		return nil
	}

	order.IsPaid = true
	if paymentID != "" {
		order.RazorpayPaymentID = &paymentID
	}
	if err := s.orders.Update(order); err != nil {
		return err
	}

	metrics.Default.RecordPaymentEvent(event, "success")
	s.notifier.PublishToUser(order.UserID, notify.EventOrderUpdated, "Payment received", order)
	s.pushPaymentSuccess(order)
	return nil
}

// handleFailed 支付失败：未支付的订单直接删除
// 已支付订单绝不因失败事件回滚，失败事件可能晚于成功事件到达
func (s *paymentService) handleFailed(orderID string) error {
	if orderID == "" {
		metrics.Default.RecordPaymentEvent(eventPaymentFailed, "notes_missing")
		return nil
	}

	order, err := s.orders.GetByID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			metrics.Default.RecordPaymentEvent(eventPaymentFailed, "order_missing")
			return nil
		}
		return err
	}

	if order.IsPaid {
		metrics.Default.RecordPaymentEvent(eventPaymentFailed, "ignored_paid")
		return nil
	}

	if err := s.orders.Delete(order); err != nil {
		return err
	}
	metrics.Default.RecordPaymentEvent(eventPaymentFailed, "order_removed")
	return nil
}

// VerifyPayment 客户端验签
// 签名串为 "<网关订单号>|<支付流水号>"，与发起支付的 key secret 配对
func (s *paymentService) VerifyPayment(razorpayOrderID, paymentID, signature string) (*orderModel.Order, error) {
	message := fmt.Sprintf("%s|%s", razorpayOrderID, paymentID)
	if !verifySignature([]byte(message), signature, s.keySecret) {
		metrics.Default.RecordPaymentEvent("verify", "signature_mismatch")
		return nil, ErrSignatureMismatch
	}

	order, err := s.orders.GetByRazorpayOrderID(razorpayOrderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// 验签通过但订单已不在（如回调竞态），不视为错误
			metrics.Default.RecordPaymentEvent("verify", "order_missing")
			return nil, nil
		}
		return nil, err
	}

	if !order.IsPaid {
		order.IsPaid = true
		order.RazorpayPaymentID = &paymentID
		if err := s.orders.Update(order); err != nil {
			return nil, err
		}
		s.notifier.PublishToUser(order.UserID, notify.EventOrderUpdated, "Payment received", order)
		s.pushPaymentSuccess(order)
	}

	metrics.Default.RecordPaymentEvent("verify", "success")
	return order, nil
}

// CancelUnpaidOrder 放弃支付时取消订单
func (s *paymentService) CancelUnpaidOrder(orderID, razorpayOrderID string) error {
	var (
		order *orderModel.Order
		err   error
	)
	if orderID != "" {
		order, err = s.orders.GetByID(orderID)
	} else {
		order, err = s.orders.GetByRazorpayOrderID(razorpayOrderID)
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrOrderNotFound
		}
		return err
	}

	if order.IsPaid {
		return ErrAlreadyPaid
	}

	return s.orders.Delete(order)
}

// pushPaymentSuccess 离线推送，失败只记日志
func (s *paymentService) pushPaymentSuccess(order *orderModel.Order) {
	if push.GlobalPushService == nil {
		return
	}
	go func() {
		err := push.GlobalPushService.PushToAccount(
			order.UserID,
			"Payment received",
			fmt.Sprintf("Your payment for order #%d has been received", order.OrderNo),
			map[string]string{"orderId": order.ID},
		)
		if err != nil {
			logger.Log.Warn("支付成功推送失败", zap.Error(err))
		}
	}()
}
