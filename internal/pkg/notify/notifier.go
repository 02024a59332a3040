package notify

// StoreRoom 门店端频道：接收所有新订单
const StoreRoom = "store:orders"

// UserRoom 顾客频道名
func UserRoom(userID string) string {
	return "user:" + userID
}

// Event 实时通知事件
type Event struct {
	Room    string      `json:"-"`
	Event   string      `json:"event"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

// 事件名
const (
	EventOrderPlaced  = "order:placed"
	EventOrderUpdated = "order:updated"
)

// Notifier 通知发布接口
// 发布是 fire-and-forget：投递失败不影响触发它的请求
type Notifier interface {
	PublishToStore(event, message string, data interface{})
	PublishToUser(userID, event, message string, data interface{})
}
