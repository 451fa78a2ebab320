package handler

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/muhammadchandra19/exchange/pkg/auth"
	"github.com/muhammadchandra19/exchange/pkg/logger"
	"github.com/muhammadchandra19/exchange/pkg/util"
	"github.com/muhammadchandra19/exchange/services/event-broadcaster/internal/connection"
	"github.com/muhammadchandra19/exchange/services/event-broadcaster/internal/registry"
)

const (
	// IndexText is served on GET /.
	IndexText = "Event Broadcasting Service - WebSocket endpoint at /prices"

	MessageTypeConnected = "CONNECTED"

	reasonNoToken      = "No token provided"
	reasonInvalidToken = "Invalid token"
)

// ConnectedMessage is the first message of every accepted connection.
type ConnectedMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// Gauge tracks open connections.
type Gauge interface {
	Connected()
	Disconnected()
}

// StreamHandler authenticates WebSocket clients and registers them for events.
type StreamHandler struct {
	verifier auth.Verifier
	registry *registry.Registry
	gauge    Gauge
	config   connection.Config
	logger   logger.Interface
	upgrader websocket.Upgrader

	connected []byte
	wg        sync.WaitGroup
}

// NewStreamHandler creates the /prices handler.
func NewStreamHandler(verifier auth.Verifier, registry *registry.Registry, gauge Gauge, config connection.Config, logger logger.Interface) *StreamHandler {
	connected, _ := json.Marshal(ConnectedMessage{
		Type:    MessageTypeConnected,
		Message: "Connected to event stream",
	})

	return &StreamHandler{
		verifier: verifier,
		registry: registry,
		gauge:    gauge,
		config:   config.WithDefaults(),
		logger:   logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Browser clients connect from the web app's own origin.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		connected: connected,
	}
}

// Register mounts the routes.
func (h *StreamHandler) Register(r gin.IRouter) {
	r.GET("/", h.Index)
	r.GET("/prices", h.Stream)
}

// Index describes the service.
func (h *StreamHandler) Index(c *gin.Context) {
	c.String(http.StatusOK, IndexText)
}

// Stream upgrades the request and holds the connection until it closes.
func (h *StreamHandler) Stream(c *gin.Context) {
	ws, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.WarnContext(c.Request.Context(), "websocket upgrade failed", logger.Field{Key: "error", Value: err.Error()})
		return
	}

	token := c.Query("token")
	if token == "" {
		h.reject(ws, reasonNoToken)
		return
	}

	userID, err := h.verifier.Verify(token)
	if err != nil {
		h.reject(ws, reasonInvalidToken)
		return
	}

	h.wg.Add(1)
	defer h.wg.Done()

	ctx := util.WithUserID(c.Request.Context(), userID)
	conn := connection.New(ws, h.config, h.logger)

	// CONNECTED is queued before the connection becomes visible to broadcasts.
	conn.Send(h.connected)
	h.registry.Add(userID, conn)
	h.gauge.Connected()
	h.logger.InfoContext(ctx, "websocket connected")

	conn.Run()

	h.registry.Remove(userID, conn)
	h.gauge.Disconnected()
	h.logger.InfoContext(ctx, "websocket disconnected")
}

// CloseAll closes every registered connection and waits for their handlers
// to unregister them, or until timeout.
func (h *StreamHandler) CloseAll(timeout time.Duration) {
	for _, userID := range h.registry.Users() {
		h.registry.ForEach(userID, func(conn registry.Conn) {
			conn.Close()
		})
	}

	done := make(chan struct{})
	go func() {
		h.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(timeout):
		h.logger.Warn("timed out closing websocket connections")
	}
}

func (h *StreamHandler) reject(ws *websocket.Conn, reason string) {
	msg := websocket.FormatCloseMessage(websocket.ClosePolicyViolation, reason)
	if err := ws.WriteControl(websocket.CloseMessage, msg, time.Now().Add(h.config.WriteTimeout)); err != nil {
		h.logger.Debug("close frame not sent", logger.Field{Key: "error", Value: err.Error()})
	}
	_ = ws.Close()
}
