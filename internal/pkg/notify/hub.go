package notify

import (
	"encoding/json"
	"net/http"
	"sync"

	"food_order_api/pkg/logger"
	"food_order_api/pkg/metrics"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// clientMessage 客户端上行消息，目前只支持加入房间
type clientMessage struct {
	Action string `json:"action"`
	Room   string `json:"room"`
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub 实时通知中心
// 事件先进入缓冲队列，由 dispatcher 协程广播到对应房间；队列满则丢弃
type Hub struct {
	mu      sync.RWMutex
	rooms   map[string]map[*client]struct{}
	clients map[*client]struct{}

	queue       chan Event
	dispatchers int
	upgrader    websocket.Upgrader
}

// NewHub 创建通知中心
func NewHub() *Hub {
	return &Hub{
		rooms:       make(map[string]map[*client]struct{}),
		clients:     make(map[*client]struct{}),
		queue:       make(chan Event, 1024),
		dispatchers: 2,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// Run 启动 dispatcher 协程
func (h *Hub) Run() {
	for i := 0; i < h.dispatchers; i++ {
		go h.dispatcher()
	}
}

func (h *Hub) dispatcher() {
	for ev := range h.queue {
		h.broadcast(ev)
	}
}

func (h *Hub) broadcast(ev Event) {
	payload, err := json.Marshal(ev)
	if err != nil {
		logger.Log.Error("failed to marshal notification", zap.Error(err))
		return
	}

	// send 只在读锁内进行，close 在写锁内，二者互斥；
	// 发送是非阻塞的，持锁时间可控
	h.mu.RLock()
	for c := range h.rooms[ev.Room] {
		select {
		case c.send <- payload:
		default:
			// 客户端写缓冲已满，跳过本条
		}
	}
	h.mu.RUnlock()
	metrics.Default.RecordNotification(ev.Event)
}

func (h *Hub) publish(ev Event) {
	select {
	case h.queue <- ev:
	default:
		metrics.Default.RecordNotificationDropped()
		logger.Log.Warn("notification queue full, event dropped",
			zap.String("event", ev.Event),
			zap.String("room", ev.Room),
		)
	}
}

// PublishToStore 向门店频道发布事件
func (h *Hub) PublishToStore(event, message string, data interface{}) {
	h.publish(Event{Room: StoreRoom, Event: event, Message: message, Data: data})
}

// PublishToUser 向顾客频道发布事件
func (h *Hub) PublishToUser(userID, event, message string, data interface{}) {
	h.publish(Event{Room: UserRoom(userID), Event: event, Message: message, Data: data})
}

var _ Notifier = (*Hub)(nil)

// HandleWS websocket 接入端点
// 客户端连接后通过 {"action":"join","room":"..."} 加入房间
func (h *Hub) HandleWS(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	cl := &client{
		conn: conn,
		send: make(chan []byte, 64),
	}
	h.register(cl)

	go h.writeLoop(cl)
	go h.readLoop(cl)
}

func (h *Hub) register(cl *client) {
	h.mu.Lock()
	h.clients[cl] = struct{}{}
	n := len(h.clients)
	h.mu.Unlock()
	metrics.Default.SetWebsocketClients(n)
}

func (h *Hub) unregister(cl *client) {
	h.mu.Lock()
	if _, ok := h.clients[cl]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.clients, cl)
	for room, members := range h.rooms {
		delete(members, cl)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}
	n := len(h.clients)
	// 持写锁关闭发送通道，保证不和 broadcast 的发送撞上
	close(cl.send)
	h.mu.Unlock()

	_ = cl.conn.Close()
	metrics.Default.SetWebsocketClients(n)
}

func (h *Hub) join(cl *client, room string) {
	if room == "" {
		return
	}
	h.mu.Lock()
	if h.rooms[room] == nil {
		h.rooms[room] = make(map[*client]struct{})
	}
	h.rooms[room][cl] = struct{}{}
	h.mu.Unlock()
}

func (h *Hub) readLoop(cl *client) {
	defer h.unregister(cl)

	for {
		_, data, err := cl.conn.ReadMessage()
		if err != nil {
			return
		}

		var msg clientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			continue
		}
		if msg.Action == "join" {
			h.join(cl, msg.Room)
		}
	}
}

func (h *Hub) writeLoop(cl *client) {
	for payload := range cl.send {
		if err := cl.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			return
		}
	}
}
