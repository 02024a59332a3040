package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"os"
	"testing"
	"time"

	orderModel "food_order_api/internal/domain/order/model"
	orderRepo "food_order_api/internal/domain/order/repository"
	"food_order_api/pkg/logger"
	baseModel "food_order_api/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	testKeySecret     = "test_key_secret"
	testWebhookSecret = "test_webhook_secret"
)

func TestMain(m *testing.M) {
	logger.Log = zap.NewNop()
	os.Exit(m.Run())
}

// MockOrderRepository 只桩支付路径用到的方法
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) Create(order *orderModel.Order) error {
	args := m.Called(order)
	return args.Error(0)
}

func (m *MockOrderRepository) GetByID(id string) (*orderModel.Order, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*orderModel.Order), args.Error(1)
}

func (m *MockOrderRepository) GetByRazorpayOrderID(razorpayOrderID string) (*orderModel.Order, error) {
	args := m.Called(razorpayOrderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*orderModel.Order), args.Error(1)
}

func (m *MockOrderRepository) Update(order *orderModel.Order) error {
	args := m.Called(order)
	return args.Error(0)
}

func (m *MockOrderRepository) Delete(order *orderModel.Order) error {
	args := m.Called(order)
	return args.Error(0)
}

func (m *MockOrderRepository) ListByStatus(statuses []string, offset, limit int) ([]orderModel.Order, int64, error) {
	args := m.Called(statuses, offset, limit)
	return args.Get(0).([]orderModel.Order), args.Get(1).(int64), args.Error(2)
}

func (m *MockOrderRepository) ListByUser(userID string, offset, limit int) ([]orderModel.Order, int64, error) {
	args := m.Called(userID, offset, limit)
	return args.Get(0).([]orderModel.Order), args.Get(1).(int64), args.Error(2)
}

func (m *MockOrderRepository) ListPendingByUser(userID string) ([]orderModel.Order, error) {
	args := m.Called(userID)
	return args.Get(0).([]orderModel.Order), args.Error(1)
}

func (m *MockOrderRepository) ListByDateRange(from, to time.Time, offset, limit int) ([]orderModel.Order, int64, error) {
	args := m.Called(from, to, offset, limit)
	return args.Get(0).([]orderModel.Order), args.Get(1).(int64), args.Error(2)
}

func (m *MockOrderRepository) ListByCustomerName(name string, offset, limit int) ([]orderModel.Order, int64, error) {
	args := m.Called(name, offset, limit)
	return args.Get(0).([]orderModel.Order), args.Get(1).(int64), args.Error(2)
}

func (m *MockOrderRepository) GetMonthlyStats(from, to time.Time) (*orderRepo.MonthlyStats, error) {
	args := m.Called(from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*orderRepo.MonthlyStats), args.Error(1)
}

// MockNotifier is a mock of Notifier
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) PublishToStore(event, message string, data interface{}) {
	m.Called(event, message, data)
}

func (m *MockNotifier) PublishToUser(userID, event, message string, data interface{}) {
	m.Called(userID, event, message, data)
}

func sign(message []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(message)
	return hex.EncodeToString(mac.Sum(nil))
}

func unpaidOrder(gatewayOrderID string) *orderModel.Order {
	id := gatewayOrderID
	return &orderModel.Order{
		BaseModel:       baseModel.BaseModel{ID: "order-1"},
		UserID:          "user-1",
		OrderNo:         5,
		PaymentMethod:   orderModel.PaymentOnline,
		Status:          orderModel.StatusPending,
		RazorpayOrderID: &id,
	}
}

func TestHandleWebhook(t *testing.T) {
	capturedBody := []byte(`{
		"event": "payment.captured",
		"payload": {
			"payment": {
				"entity": {"id": "pay_123", "order_id": "rzp_order_1", "notes": {"orderId": "order-1"}}
			}
		}
	}`)

	t.Run("Invalid signature is rejected", func(t *testing.T) {
		repo := new(MockOrderRepository)
		svc := NewPaymentService(repo, new(MockNotifier), testKeySecret, testWebhookSecret)

		err := svc.HandleWebhook(capturedBody, "deadbeef")

		assert.ErrorIs(t, err, ErrSignatureMismatch)
		repo.AssertNotCalled(t, "GetByID", mock.Anything)
	})

	t.Run("Captured event marks order paid", func(t *testing.T) {
		repo := new(MockOrderRepository)
		notifier := new(MockNotifier)
		svc := NewPaymentService(repo, notifier, testKeySecret, testWebhookSecret)

		order := unpaidOrder("rzp_order_1")
		repo.On("GetByID", "order-1").Return(order, nil)
		repo.On("Update", mock.AnythingOfType("*model.Order")).Return(nil)
		notifier.On("PublishToUser", "user-1", "order:updated", mock.Anything, mock.Anything).Return()

		err := svc.HandleWebhook(capturedBody, sign(capturedBody, testWebhookSecret))

		assert.NoError(t, err)
		assert.True(t, order.IsPaid)
		assert.Equal(t, "pay_123", *order.RazorpayPaymentID)
		notifier.AssertExpectations(t)
	})

	t.Run("Duplicate delivery is idempotent", func(t *testing.T) {
		repo := new(MockOrderRepository)
		notifier := new(MockNotifier)
		svc := NewPaymentService(repo, notifier, testKeySecret, testWebhookSecret)

		order := unpaidOrder("rzp_order_1")
		order.IsPaid = true
		repo.On("GetByID", "order-1").Return(order, nil)

		err := svc.HandleWebhook(capturedBody, sign(capturedBody, testWebhookSecret))

		assert.NoError(t, err)
		repo.AssertNotCalled(t, "Update", mock.Anything)
		notifier.AssertNotCalled(t, "PublishToUser", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Captured event without notes is rejected", func(t *testing.T) {
		repo := new(MockOrderRepository)
		svc := NewPaymentService(repo, new(MockNotifier), testKeySecret, testWebhookSecret)

		body := []byte(`{
			"event": "payment.captured",
			"payload": {
				"payment": {
					"entity": {"id": "pay_123", "order_id": "rzp_order_1"}
				}
			}
		}`)

		err := svc.HandleWebhook(body, sign(body, testWebhookSecret))

		assert.Error(t, err)
		repo.AssertNotCalled(t, "GetByID", mock.Anything)
	})

	t.Run("Captured event for unknown order returns not found", func(t *testing.T) {
		repo := new(MockOrderRepository)
		svc := NewPaymentService(repo, new(MockNotifier), testKeySecret, testWebhookSecret)

		repo.On("GetByID", "order-1").Return(nil, gorm.ErrRecordNotFound)

		err := svc.HandleWebhook(capturedBody, sign(capturedBody, testWebhookSecret))

		assert.ErrorIs(t, err, ErrOrderNotFound)
	})

	t.Run("Failed event removes unpaid order", func(t *testing.T) {
		repo := new(MockOrderRepository)
		svc := NewPaymentService(repo, new(MockNotifier), testKeySecret, testWebhookSecret)

		failedBody := []byte(`{
			"event": "payment.failed",
			"payload": {
				"payment": {
					"entity": {"id": "pay_456", "order_id": "rzp_order_2", "notes": {"orderId": "order-1"}}
				}
			}
		}`)

		order := unpaidOrder("rzp_order_2")
		repo.On("GetByID", "order-1").Return(order, nil)
		repo.On("Delete", order).Return(nil)

		err := svc.HandleWebhook(failedBody, sign(failedBody, testWebhookSecret))

		assert.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("Failed event never removes a paid order", func(t *testing.T) {
		repo := new(MockOrderRepository)
		svc := NewPaymentService(repo, new(MockNotifier), testKeySecret, testWebhookSecret)

		failedBody := []byte(`{
			"event": "payment.failed",
			"payload": {
				"payment": {
					"entity": {"id": "pay_456", "order_id": "rzp_order_2", "notes": {"orderId": "order-1"}}
				}
			}
		}`)

		order := unpaidOrder("rzp_order_2")
		order.IsPaid = true
		repo.On("GetByID", "order-1").Return(order, nil)

		err := svc.HandleWebhook(failedBody, sign(failedBody, testWebhookSecret))

		assert.NoError(t, err)
		repo.AssertNotCalled(t, "Delete", mock.Anything)
	})

	t.Run("Failed event for unknown order is acknowledged", func(t *testing.T) {
		repo := new(MockOrderRepository)
		svc := NewPaymentService(repo, new(MockNotifier), testKeySecret, testWebhookSecret)

		failedBody := []byte(`{
			"event": "payment.failed",
			"payload": {
				"payment": {
					"entity": {"id": "pay_456", "order_id": "rzp_order_2", "notes": {"orderId": "ghost"}}
				}
			}
		}`)

		repo.On("GetByID", "ghost").Return(nil, gorm.ErrRecordNotFound)

		err := svc.HandleWebhook(failedBody, sign(failedBody, testWebhookSecret))

		assert.NoError(t, err)
		repo.AssertNotCalled(t, "Delete", mock.Anything)
	})

	t.Run("Order paid event for unknown order is acknowledged", func(t *testing.T) {
		repo := new(MockOrderRepository)
		svc := NewPaymentService(repo, new(MockNotifier), testKeySecret, testWebhookSecret)

		body := []byte(`{
			"event": "order.paid",
			"payload": {
				"order": {
					"entity": {"id": "rzp_order_1", "notes": {"orderId": "ghost"}}
				}
			}
		}`)

		repo.On("GetByID", "ghost").Return(nil, gorm.ErrRecordNotFound)

		err := svc.HandleWebhook(body, sign(body, testWebhookSecret))

		assert.NoError(t, err)
	})

	t.Run("Unsubscribed events are acknowledged", func(t *testing.T) {
		repo := new(MockOrderRepository)
		svc := NewPaymentService(repo, new(MockNotifier), testKeySecret, testWebhookSecret)

		body := []byte(`{"event": "refund.created", "payload": {}}`)
		err := svc.HandleWebhook(body, sign(body, testWebhookSecret))

		assert.NoError(t, err)
		repo.AssertNotCalled(t, "GetByID", mock.Anything)
	})
}

func TestVerifyPayment(t *testing.T) {
	t.Run("Valid signature marks order paid", func(t *testing.T) {
		repo := new(MockOrderRepository)
		notifier := new(MockNotifier)
		svc := NewPaymentService(repo, notifier, testKeySecret, testWebhookSecret)

		order := unpaidOrder("rzp_order_1")
		repo.On("GetByRazorpayOrderID", "rzp_order_1").Return(order, nil)
		repo.On("Update", mock.AnythingOfType("*model.Order")).Return(nil)
		notifier.On("PublishToUser", "user-1", "order:updated", mock.Anything, mock.Anything).Return()

		signature := sign([]byte("rzp_order_1|pay_123"), testKeySecret)
		got, err := svc.VerifyPayment("rzp_order_1", "pay_123", signature)

		assert.NoError(t, err)
		assert.True(t, got.IsPaid)
		assert.Equal(t, "pay_123", *got.RazorpayPaymentID)
	})

	t.Run("Tampered signature is rejected", func(t *testing.T) {
		repo := new(MockOrderRepository)
		svc := NewPaymentService(repo, new(MockNotifier), testKeySecret, testWebhookSecret)

		signature := sign([]byte("rzp_order_1|pay_999"), testKeySecret)
		_, err := svc.VerifyPayment("rzp_order_1", "pay_123", signature)

		assert.ErrorIs(t, err, ErrSignatureMismatch)
		repo.AssertNotCalled(t, "GetByRazorpayOrderID", mock.Anything)
	})

	t.Run("Already paid order passes verification without rewrite", func(t *testing.T) {
		repo := new(MockOrderRepository)
		svc := NewPaymentService(repo, new(MockNotifier), testKeySecret, testWebhookSecret)

		order := unpaidOrder("rzp_order_1")
		order.IsPaid = true
		repo.On("GetByRazorpayOrderID", "rzp_order_1").Return(order, nil)

		signature := sign([]byte("rzp_order_1|pay_123"), testKeySecret)
		got, err := svc.VerifyPayment("rzp_order_1", "pay_123", signature)

		assert.NoError(t, err)
		assert.True(t, got.IsPaid)
		repo.AssertNotCalled(t, "Update", mock.Anything)
	})

	t.Run("Missing order with valid signature is not an error", func(t *testing.T) {
		repo := new(MockOrderRepository)
		svc := NewPaymentService(repo, new(MockNotifier), testKeySecret, testWebhookSecret)

		repo.On("GetByRazorpayOrderID", "rzp_order_9").Return(nil, gorm.ErrRecordNotFound)

		signature := sign([]byte("rzp_order_9|pay_123"), testKeySecret)
		got, err := svc.VerifyPayment("rzp_order_9", "pay_123", signature)

		assert.NoError(t, err)
		assert.Nil(t, got)
	})
}

func TestCancelUnpaidOrder(t *testing.T) {
	t.Run("Unpaid order is removed", func(t *testing.T) {
		repo := new(MockOrderRepository)
		svc := NewPaymentService(repo, new(MockNotifier), testKeySecret, testWebhookSecret)

		order := unpaidOrder("rzp_order_1")
		repo.On("GetByID", "order-1").Return(order, nil)
		repo.On("Delete", order).Return(nil)

		err := svc.CancelUnpaidOrder("order-1", "")

		assert.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("Paid order cannot be cancelled", func(t *testing.T) {
		repo := new(MockOrderRepository)
		svc := NewPaymentService(repo, new(MockNotifier), testKeySecret, testWebhookSecret)

		order := unpaidOrder("rzp_order_1")
		order.IsPaid = true
		repo.On("GetByID", "order-1").Return(order, nil)

		err := svc.CancelUnpaidOrder("order-1", "")

		assert.ErrorIs(t, err, ErrAlreadyPaid)
		repo.AssertNotCalled(t, "Delete", mock.Anything)
	})

	t.Run("Lookup by gateway order id", func(t *testing.T) {
		repo := new(MockOrderRepository)
		svc := NewPaymentService(repo, new(MockNotifier), testKeySecret, testWebhookSecret)

		order := unpaidOrder("rzp_order_1")
		repo.On("GetByRazorpayOrderID", "rzp_order_1").Return(order, nil)
		repo.On("Delete", order).Return(nil)

		err := svc.CancelUnpaidOrder("", "rzp_order_1")

		assert.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("Unknown order returns not found", func(t *testing.T) {
		repo := new(MockOrderRepository)
		svc := NewPaymentService(repo, new(MockNotifier), testKeySecret, testWebhookSecret)

		repo.On("GetByID", "ghost").Return(nil, gorm.ErrRecordNotFound)

		err := svc.CancelUnpaidOrder("ghost", "")

		assert.ErrorIs(t, err, ErrOrderNotFound)
	})
}
