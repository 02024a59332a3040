package service

import (
	"os"
	"testing"
	"time"

	menuModel "food_order_api/internal/domain/menu/model"
	"food_order_api/internal/domain/order/model"
	"food_order_api/internal/domain/order/repository"
	storeModel "food_order_api/internal/domain/store/model"
	storeService "food_order_api/internal/domain/store/service"
	"food_order_api/internal/pkg/push"
	"food_order_api/pkg/logger"
	baseModel "food_order_api/pkg/model"
	"food_order_api/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func TestMain(m *testing.M) {
	logger.Log = zap.NewNop()
	os.Exit(m.Run())
}

// MockOrderRepository is a mock of OrderRepository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) Create(order *model.Order) error {
	args := m.Called(order)
	return args.Error(0)
}

func (m *MockOrderRepository) GetByID(id string) (*model.Order, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderRepository) GetByRazorpayOrderID(razorpayOrderID string) (*model.Order, error) {
	args := m.Called(razorpayOrderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderRepository) Update(order *model.Order) error {
	args := m.Called(order)
	return args.Error(0)
}

func (m *MockOrderRepository) Delete(order *model.Order) error {
	args := m.Called(order)
	return args.Error(0)
}

func (m *MockOrderRepository) ListByStatus(statuses []string, offset, limit int) ([]model.Order, int64, error) {
	args := m.Called(statuses, offset, limit)
	return args.Get(0).([]model.Order), args.Get(1).(int64), args.Error(2)
}

func (m *MockOrderRepository) ListByUser(userID string, offset, limit int) ([]model.Order, int64, error) {
	args := m.Called(userID, offset, limit)
	return args.Get(0).([]model.Order), args.Get(1).(int64), args.Error(2)
}

func (m *MockOrderRepository) ListPendingByUser(userID string) ([]model.Order, error) {
	args := m.Called(userID)
	return args.Get(0).([]model.Order), args.Error(1)
}

func (m *MockOrderRepository) ListByDateRange(from, to time.Time, offset, limit int) ([]model.Order, int64, error) {
	args := m.Called(from, to, offset, limit)
	return args.Get(0).([]model.Order), args.Get(1).(int64), args.Error(2)
}

func (m *MockOrderRepository) ListByCustomerName(name string, offset, limit int) ([]model.Order, int64, error) {
	args := m.Called(name, offset, limit)
	return args.Get(0).([]model.Order), args.Get(1).(int64), args.Error(2)
}

func (m *MockOrderRepository) GetMonthlyStats(from, to time.Time) (*repository.MonthlyStats, error) {
	args := m.Called(from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.MonthlyStats), args.Error(1)
}

// MockMenuRepository is a mock of MenuRepository
type MockMenuRepository struct {
	mock.Mock
}

func (m *MockMenuRepository) CreateCategory(category *menuModel.Category) error {
	args := m.Called(category)
	return args.Error(0)
}

func (m *MockMenuRepository) GetCategoryByID(id string) (*menuModel.Category, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*menuModel.Category), args.Error(1)
}

func (m *MockMenuRepository) ListCategories() ([]menuModel.Category, error) {
	args := m.Called()
	return args.Get(0).([]menuModel.Category), args.Error(1)
}

func (m *MockMenuRepository) DeleteCategory(category *menuModel.Category) error {
	args := m.Called(category)
	return args.Error(0)
}

func (m *MockMenuRepository) CreateProduct(product *menuModel.Product) error {
	args := m.Called(product)
	return args.Error(0)
}

func (m *MockMenuRepository) GetProductByID(id string) (*menuModel.Product, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*menuModel.Product), args.Error(1)
}

func (m *MockMenuRepository) ListProducts() ([]menuModel.Product, error) {
	args := m.Called()
	return args.Get(0).([]menuModel.Product), args.Error(1)
}

func (m *MockMenuRepository) UpdateProduct(product *menuModel.Product) error {
	args := m.Called(product)
	return args.Error(0)
}

func (m *MockMenuRepository) DeleteProduct(product *menuModel.Product) error {
	args := m.Called(product)
	return args.Error(0)
}

// MockStoreService is a mock of StoreService
type MockStoreService struct {
	mock.Mock
}

func (m *MockStoreService) CreateStore(name, address, logoURL string) (*storeModel.Store, error) {
	args := m.Called(name, address, logoURL)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storeModel.Store), args.Error(1)
}

func (m *MockStoreService) GetStore() (*storeModel.Store, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storeModel.Store), args.Error(1)
}

func (m *MockStoreService) UpdateStore(name, address, logoURL string) (*storeModel.Store, error) {
	args := m.Called(name, address, logoURL)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storeModel.Store), args.Error(1)
}

func (m *MockStoreService) ToggleOpen() (bool, error) {
	args := m.Called()
	return args.Bool(0), args.Error(1)
}

func (m *MockStoreService) ResetCounter() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockStoreService) Status() (bool, error) {
	args := m.Called()
	return args.Bool(0), args.Error(1)
}

func (m *MockStoreService) AllocateOrderNo(storeID string) (int, error) {
	args := m.Called(storeID)
	return args.Int(0), args.Error(1)
}

// MockPaymentGateway is a mock of PaymentGateway
type MockPaymentGateway struct {
	mock.Mock
}

func (m *MockPaymentGateway) CreateOrder(amountMinor int64, receipt string, notes map[string]interface{}) (string, error) {
	args := m.Called(amountMinor, receipt, notes)
	return args.String(0), args.Error(1)
}

func (m *MockPaymentGateway) KeyID() string {
	args := m.Called()
	return args.String(0)
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

// fakePushService 把推送正文写进通道，便于等待异步推送
type fakePushService struct {
	calls chan string
}

func (f *fakePushService) PushToAccount(accountID string, title, body string, extParameters map[string]string) error {
	f.calls <- body
	return nil
}

func (f *fakePushService) PushToAll(title, body string, extParameters map[string]string) error {
	return nil
}

func openStore() *storeModel.Store {
	return &storeModel.Store{
		BaseModel: baseModel.BaseModel{ID: "store-1"},
		Name:      "Test Kitchen",
		IsOpen:    true,
	}
}

func testProduct(id string, price float64) *menuModel.Product {
	return &menuModel.Product{
		BaseModel: baseModel.BaseModel{ID: id},
		Name:      "Dish " + id,
		FoodType:  menuModel.FoodTypeVeg,
		Price:     price,
	}
}

type orderServiceMocks struct {
	orders   *MockOrderRepository
	menu     *MockMenuRepository
	stores   *MockStoreService
	gateway  *MockPaymentGateway
	notifier *MockNotifier
}

func newOrderService() (OrderService, *orderServiceMocks) {
	m := &orderServiceMocks{
		orders:   new(MockOrderRepository),
		menu:     new(MockMenuRepository),
		stores:   new(MockStoreService),
		gateway:  new(MockPaymentGateway),
		notifier: new(MockNotifier),
	}
	svc := NewOrderService(m.orders, m.menu, m.stores, m.gateway, m.notifier, "INR")
	return svc, m
}

func TestPlaceOrder(t *testing.T) {
	t.Run("Cash order snapshots prices and sums total", func(t *testing.T) {
		svc, m := newOrderService()

		m.stores.On("GetStore").Return(openStore(), nil)
		m.menu.On("GetProductByID", "p1").Return(testProduct("p1", 120.0), nil)
		m.menu.On("GetProductByID", "p2").Return(testProduct("p2", 45.5), nil)
		m.stores.On("AllocateOrderNo", "store-1").Return(7, nil)

		var created *model.Order
		m.orders.On("Create", mock.AnythingOfType("*model.Order")).Run(func(args mock.Arguments) {
			created = args.Get(0).(*model.Order)
			created.ID = "order-1"
		}).Return(nil)
		m.orders.On("GetByID", "order-1").Return(&model.Order{
			BaseModel: baseModel.BaseModel{ID: "order-1"},
			OrderNo:   7,
		}, nil)
		m.notifier.On("PublishToStore", "order:placed", mock.Anything, mock.Anything).Return()

		result, err := svc.PlaceOrder("user-1", model.PaymentCash, []OrderItemInput{
			{ProductID: "p1", Quantity: 2},
			{ProductID: "p2", Quantity: 1},
		})

		assert.NoError(t, err)
		assert.NotNil(t, result)
		assert.Equal(t, 7, created.OrderNo)
		assert.InDelta(t, 285.5, created.TotalAmount, 0.001)
		assert.Len(t, created.OrderItems, 2)
		assert.Equal(t, 120.0, created.OrderItems[0].Price)
		assert.Equal(t, model.StatusPending, created.Status)
		assert.False(t, created.IsPaid)
		m.notifier.AssertExpectations(t)
	})

	t.Run("Closed store rejects order without allocating a number", func(t *testing.T) {
		svc, m := newOrderService()

		closed := openStore()
		closed.IsOpen = false
		m.stores.On("GetStore").Return(closed, nil)

		_, err := svc.PlaceOrder("user-1", model.PaymentCash, []OrderItemInput{
			{ProductID: "p1", Quantity: 1},
		})

		assert.ErrorIs(t, err, storeService.ErrStoreClosed)
		m.stores.AssertNotCalled(t, "AllocateOrderNo", mock.Anything)
		m.orders.AssertNotCalled(t, "Create", mock.Anything)
	})

	t.Run("Empty item list is rejected", func(t *testing.T) {
		svc, m := newOrderService()
		m.stores.On("GetStore").Return(openStore(), nil)

		_, err := svc.PlaceOrder("user-1", model.PaymentCash, nil)

		assert.ErrorIs(t, err, ErrEmptyOrder)
	})

	t.Run("Unknown product aborts the order", func(t *testing.T) {
		svc, m := newOrderService()

		m.stores.On("GetStore").Return(openStore(), nil)
		m.menu.On("GetProductByID", "ghost").Return(nil, gorm.ErrRecordNotFound)

		_, err := svc.PlaceOrder("user-1", model.PaymentCash, []OrderItemInput{
			{ProductID: "ghost", Quantity: 1},
		})

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "ghost")
		m.orders.AssertNotCalled(t, "Create", mock.Anything)
	})

	t.Run("Online order registers gateway order in minor units", func(t *testing.T) {
		svc, m := newOrderService()

		m.stores.On("GetStore").Return(openStore(), nil)
		m.menu.On("GetProductByID", "p1").Return(testProduct("p1", 99.99), nil)
		m.stores.On("AllocateOrderNo", "store-1").Return(8, nil)
		m.gateway.On("CreateOrder", int64(9999), mock.Anything, mock.Anything).Return("rzp_order_123", nil)
		m.gateway.On("KeyID").Return("rzp_key")

		m.orders.On("Create", mock.AnythingOfType("*model.Order")).Run(func(args mock.Arguments) {
			args.Get(0).(*model.Order).ID = "order-2"
		}).Return(nil)
		m.orders.On("GetByID", "order-2").Return(&model.Order{
			BaseModel: baseModel.BaseModel{ID: "order-2"},
		}, nil)
		m.notifier.On("PublishToStore", "order:placed", mock.Anything, mock.Anything).Return()

		result, err := svc.PlaceOrder("user-1", model.PaymentOnline, []OrderItemInput{
			{ProductID: "p1", Quantity: 1},
		})

		assert.NoError(t, err)
		assert.Equal(t, "rzp_order_123", result.RazorpayOrderID)
		assert.Equal(t, "rzp_key", result.RazorpayKeyID)
		assert.Equal(t, int64(9999), result.AmountMinor)
		assert.Equal(t, "INR", result.Currency)
		m.gateway.AssertExpectations(t)
	})

	t.Run("Failed re-read falls back to the in-memory order", func(t *testing.T) {
		svc, m := newOrderService()

		m.stores.On("GetStore").Return(openStore(), nil)
		m.menu.On("GetProductByID", "p1").Return(testProduct("p1", 30.0), nil)
		m.stores.On("AllocateOrderNo", "store-1").Return(11, nil)
		m.orders.On("Create", mock.AnythingOfType("*model.Order")).Return(nil)
		m.orders.On("GetByID", mock.Anything).Return(nil, assert.AnError)
		m.notifier.On("PublishToStore", "order:placed", mock.Anything, mock.Anything).Return()

		result, err := svc.PlaceOrder("user-1", model.PaymentCash, []OrderItemInput{
			{ProductID: "p1", Quantity: 1},
		})

		assert.NoError(t, err)
		assert.Equal(t, 11, result.Order.OrderNo)
		m.notifier.AssertExpectations(t)
	})

	t.Run("Gateway failure aborts online order before persisting", func(t *testing.T) {
		svc, m := newOrderService()

		m.stores.On("GetStore").Return(openStore(), nil)
		m.menu.On("GetProductByID", "p1").Return(testProduct("p1", 50.0), nil)
		m.stores.On("AllocateOrderNo", "store-1").Return(9, nil)
		m.gateway.On("CreateOrder", mock.Anything, mock.Anything, mock.Anything).Return("", assert.AnError)

		_, err := svc.PlaceOrder("user-1", model.PaymentOnline, []OrderItemInput{
			{ProductID: "p1", Quantity: 1},
		})

		assert.Error(t, err)
		m.orders.AssertNotCalled(t, "Create", mock.Anything)
	})
}

func TestTransition(t *testing.T) {
	pendingOrder := func() *model.Order {
		return &model.Order{
			BaseModel: baseModel.BaseModel{ID: "order-1"},
			UserID:    "user-1",
			Status:    model.StatusPending,
		}
	}

	t.Run("Pending order can be accepted by admin", func(t *testing.T) {
		svc, m := newOrderService()

		m.orders.On("GetByID", "order-1").Return(pendingOrder(), nil)
		m.orders.On("Update", mock.AnythingOfType("*model.Order")).Return(nil)
		m.notifier.On("PublishToUser", "user-1", "order:updated", mock.Anything, mock.Anything).Return()

		order, err := svc.Transition("order-1", model.StatusCooking, "admin-1", true)

		assert.NoError(t, err)
		assert.Equal(t, model.StatusCooking, order.Status)
		assert.False(t, order.IsPaid)
		m.notifier.AssertExpectations(t)
	})

	t.Run("Delivery marks order as paid", func(t *testing.T) {
		svc, m := newOrderService()

		cooking := pendingOrder()
		cooking.Status = model.StatusCooking
		m.orders.On("GetByID", "order-1").Return(cooking, nil)
		m.orders.On("Update", mock.AnythingOfType("*model.Order")).Return(nil)
		m.notifier.On("PublishToUser", "user-1", "order:updated", mock.Anything, mock.Anything).Return()

		order, err := svc.Transition("order-1", model.StatusDelivered, "admin-1", true)

		assert.NoError(t, err)
		assert.Equal(t, model.StatusDelivered, order.Status)
		assert.True(t, order.IsPaid)
	})

	t.Run("Terminal transition sends a mobile push", func(t *testing.T) {
		svc, m := newOrderService()

		fake := &fakePushService{calls: make(chan string, 1)}
		push.GlobalPushService = fake
		defer func() { push.GlobalPushService = nil }()

		cooking := pendingOrder()
		cooking.Status = model.StatusCooking
		m.orders.On("GetByID", "order-1").Return(cooking, nil)
		m.orders.On("Update", mock.AnythingOfType("*model.Order")).Return(nil)
		m.notifier.On("PublishToUser", "user-1", "order:updated", mock.Anything, mock.Anything).Return()

		_, err := svc.Transition("order-1", model.StatusDelivered, "admin-1", true)

		assert.NoError(t, err)
		select {
		case body := <-fake.calls:
			assert.Equal(t, "Your order has been delivered", body)
		case <-time.After(2 * time.Second):
			t.Fatal("expected a push notification")
		}
	})

	t.Run("Customer can cancel own pending order", func(t *testing.T) {
		svc, m := newOrderService()

		m.orders.On("GetByID", "order-1").Return(pendingOrder(), nil)
		m.orders.On("Update", mock.AnythingOfType("*model.Order")).Return(nil)
		m.notifier.On("PublishToUser", "user-1", "order:updated", mock.Anything, mock.Anything).Return()

		order, err := svc.Transition("order-1", model.StatusCancelled, "user-1", false)

		assert.NoError(t, err)
		assert.Equal(t, model.StatusCancelled, order.Status)
	})

	t.Run("Customer cannot cancel someone else's order", func(t *testing.T) {
		svc, m := newOrderService()
		m.orders.On("GetByID", "order-1").Return(pendingOrder(), nil)

		_, err := svc.Transition("order-1", model.StatusCancelled, "user-2", false)

		assert.ErrorIs(t, err, ErrNotOrderOwner)
		m.orders.AssertNotCalled(t, "Update", mock.Anything)
	})

	t.Run("Customer cannot accept an order", func(t *testing.T) {
		svc, m := newOrderService()
		m.orders.On("GetByID", "order-1").Return(pendingOrder(), nil)

		_, err := svc.Transition("order-1", model.StatusCooking, "user-1", false)

		assert.ErrorIs(t, err, ErrInvalidTransition)
		m.orders.AssertNotCalled(t, "Update", mock.Anything)
	})

	t.Run("Pending order cannot jump straight to delivered", func(t *testing.T) {
		svc, m := newOrderService()
		m.orders.On("GetByID", "order-1").Return(pendingOrder(), nil)

		_, err := svc.Transition("order-1", model.StatusDelivered, "admin-1", true)

		assert.ErrorIs(t, err, ErrInvalidTransition)
		m.orders.AssertNotCalled(t, "Update", mock.Anything)
	})

	t.Run("Terminal order rejects further transitions", func(t *testing.T) {
		svc, m := newOrderService()

		delivered := pendingOrder()
		delivered.Status = model.StatusDelivered
		m.orders.On("GetByID", "order-1").Return(delivered, nil)

		_, err := svc.Transition("order-1", model.StatusCancelled, "admin-1", true)

		assert.ErrorIs(t, err, ErrInvalidTransition)
	})

	t.Run("Missing order returns not found", func(t *testing.T) {
		svc, m := newOrderService()
		m.orders.On("GetByID", "ghost").Return(nil, gorm.ErrRecordNotFound)

		_, err := svc.Transition("ghost", model.StatusCooking, "admin-1", true)

		assert.ErrorIs(t, err, ErrOrderNotFound)
	})
}

func TestOrderQueries(t *testing.T) {
	t.Run("Invalid page is rejected", func(t *testing.T) {
		svc, _ := newOrderService()

		_, err := svc.ListPending(utils.Pagination{Page: 0, Limit: 10})

		assert.ErrorIs(t, err, ErrInvalidQuery)
	})

	t.Run("Date search parses the day window", func(t *testing.T) {
		svc, m := newOrderService()

		from := time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC)
		m.orders.On("ListByDateRange", from, from.AddDate(0, 0, 1), 0, 10).
			Return([]model.Order{}, int64(0), nil)

		result, err := svc.SearchByDate("2026-08-29", utils.Pagination{Page: 1, Limit: 10})

		assert.NoError(t, err)
		assert.Equal(t, int64(0), result.Total)
		m.orders.AssertExpectations(t)
	})

	t.Run("Malformed date is rejected", func(t *testing.T) {
		svc, _ := newOrderService()

		_, err := svc.SearchByDate("29-08-2026", utils.Pagination{Page: 1, Limit: 10})

		assert.ErrorIs(t, err, ErrInvalidQuery)
	})

	t.Run("Month search covers the whole month", func(t *testing.T) {
		svc, m := newOrderService()

		from := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
		m.orders.On("ListByDateRange", from, from.AddDate(0, 1, 0), 0, 10).
			Return([]model.Order{{OrderNo: 1}}, int64(1), nil)

		result, err := svc.SearchByMonth("2026-08", utils.Pagination{Page: 1, Limit: 10})

		assert.NoError(t, err)
		assert.Equal(t, int64(1), result.Total)
	})

	t.Run("Name search requires a name", func(t *testing.T) {
		svc, _ := newOrderService()

		_, err := svc.SearchByCustomerName("", utils.Pagination{Page: 1, Limit: 10})

		assert.ErrorIs(t, err, ErrInvalidQuery)
	})

	t.Run("Monthly stats delegates to repository", func(t *testing.T) {
		svc, m := newOrderService()

		from := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
		m.orders.On("GetMonthlyStats", from, from.AddDate(0, 1, 0)).
			Return(&repository.MonthlyStats{TotalOrders: 12, Revenue: 3400.5}, nil)

		stats, err := svc.MonthlyStats("2026-08")

		assert.NoError(t, err)
		assert.Equal(t, int64(12), stats.TotalOrders)
		assert.InDelta(t, 3400.5, stats.Revenue, 0.001)
	})
}
