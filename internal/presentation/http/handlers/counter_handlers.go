package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/scalerlabs/funnel-engine-go/internal/infrastructure/caching/manager"
	"github.com/scalerlabs/funnel-engine-go/internal/infrastructure/messaging"
	"github.com/scalerlabs/funnel-engine-go/internal/infrastructure/observability/logging"
)

const counterWriteTimeout = 10 * time.Second

// CounterHandlers serves the advisory live participant counter.
type CounterHandlers struct {
	cacheManager *manager.Manager
	broadcaster  *messaging.CounterBroadcaster
	logger       *logging.ChanneledLogger
	upgrader     websocket.Upgrader
}

// NewCounterHandlers creates new counter handlers
func NewCounterHandlers(cacheManager *manager.Manager, broadcaster *messaging.CounterBroadcaster, logger *logging.ChanneledLogger) *CounterHandlers {
	return &CounterHandlers{
		cacheManager: cacheManager,
		broadcaster:  broadcaster,
		logger:       logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The counter is public display data; origin checks add nothing.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// GetCounter handles GET /api/v1/counter
func (h *CounterHandlers) GetCounter(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"value":    h.cacheManager.Counter.Value(),
		"capacity": h.cacheManager.Counter.Capacity(),
	})
}

type counterFrame struct {
	Value    int64 `json:"value"`
	Capacity int64 `json:"capacity"`
}

// StreamCounter handles GET /api/v1/counter/stream, pushing counter updates
// over a websocket until the client disconnects.
func (h *CounterHandlers) StreamCounter(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Counter().Error("Counter stream upgrade failed", "error", err.Error())
		return
	}
	defer conn.Close()

	updates := h.broadcaster.AddClient()
	defer h.broadcaster.RemoveClient(updates)

	capacity := h.cacheManager.Counter.Capacity()

	// Push the current value immediately so the client never shows zero.
	if err := h.writeFrame(conn, h.cacheManager.Counter.Value(), capacity); err != nil {
		return
	}

	// Read pump drains control frames and signals disconnect.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-done:
			return
		case value, ok := <-updates:
			if !ok {
				return
			}
			if err := h.writeFrame(conn, value, capacity); err != nil {
				return
			}
		}
	}
}

func (h *CounterHandlers) writeFrame(conn *websocket.Conn, value, capacity int64) error {
	conn.SetWriteDeadline(time.Now().Add(counterWriteTimeout))
	return conn.WriteJSON(counterFrame{Value: value, Capacity: capacity})
}
