package notify

import (
	"encoding/json"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"food_order_api/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	logger.Log = zap.NewNop()
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func newTestServer(t *testing.T) (*Hub, *websocket.Conn) {
	hub := NewHub()
	hub.Run()

	router := gin.New()
	router.GET("/ws", hub.HandleWS)
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return hub, conn
}

func join(t *testing.T, conn *websocket.Conn, room string) {
	err := conn.WriteJSON(map[string]string{"action": "join", "room": room})
	require.NoError(t, err)
	// join 是异步处理的，给 readLoop 一点时间
	time.Sleep(50 * time.Millisecond)
}

func readEvent(t *testing.T, conn *websocket.Conn) Event {
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var ev Event
	require.NoError(t, json.Unmarshal(data, &ev))
	return ev
}

func TestHub(t *testing.T) {
	t.Run("Store room receives order placed events", func(t *testing.T) {
		hub, conn := newTestServer(t)
		join(t, conn, StoreRoom)

		hub.PublishToStore(EventOrderPlaced, "New order received", map[string]int{"orderNo": 3})

		ev := readEvent(t, conn)
		assert.Equal(t, EventOrderPlaced, ev.Event)
		assert.Equal(t, "New order received", ev.Message)
	})

	t.Run("User room only receives its own events", func(t *testing.T) {
		hub, conn := newTestServer(t)
		join(t, conn, UserRoom("user-1"))

		hub.PublishToUser("user-2", EventOrderUpdated, "not yours", nil)
		hub.PublishToUser("user-1", EventOrderUpdated, "Your order has been accepted", nil)

		ev := readEvent(t, conn)
		assert.Equal(t, "Your order has been accepted", ev.Message)
	})

	t.Run("Events to empty rooms are discarded quietly", func(t *testing.T) {
		hub, _ := newTestServer(t)

		assert.NotPanics(t, func() {
			hub.PublishToUser("nobody", EventOrderUpdated, "hello", nil)
		})
	})

	t.Run("Clients disconnecting during a fan-out do not crash the hub", func(t *testing.T) {
		hub := NewHub()

		router := gin.New()
		router.GET("/ws", hub.HandleWS)
		server := httptest.NewServer(router)
		t.Cleanup(server.Close)
		url := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"

		conns := make([]*websocket.Conn, 0, 20)
		for i := 0; i < 20; i++ {
			conn, _, err := websocket.DefaultDialer.Dial(url, nil)
			require.NoError(t, err)
			t.Cleanup(func() { _ = conn.Close() })
			require.NoError(t, conn.WriteJSON(map[string]string{"action": "join", "room": StoreRoom}))
			conns = append(conns, conn)
		}
		time.Sleep(100 * time.Millisecond)

		// 广播的同时断开全部客户端，发送通道关闭不能打挂广播协程
		done := make(chan struct{})
		go func() {
			defer close(done)
			for _, conn := range conns {
				_ = conn.Close()
			}
		}()

		assert.NotPanics(t, func() {
			for i := 0; i < 500; i++ {
				hub.broadcast(Event{Room: StoreRoom, Event: EventOrderPlaced, Message: "order"})
			}
		})
		<-done
	})
}
