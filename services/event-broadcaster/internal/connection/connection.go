package connection

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/muhammadchandra19/exchange/pkg/logger"
)

// Config tunes a client connection.
type Config struct {
	SendBuffer     int
	WriteTimeout   time.Duration
	PongTimeout    time.Duration
	PingInterval   time.Duration
	MaxMessageSize int64
}

// DefaultConfig is used for every zero field of a Config.
var DefaultConfig = Config{
	SendBuffer:     64,
	WriteTimeout:   10 * time.Second,
	PongTimeout:    60 * time.Second,
	PingInterval:   50 * time.Second,
	MaxMessageSize: 4096,
}

// WithDefaults fills zero fields from DefaultConfig.
func (c Config) WithDefaults() Config {
	if c.SendBuffer < 1 {
		c.SendBuffer = DefaultConfig.SendBuffer
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = DefaultConfig.WriteTimeout
	}
	if c.PongTimeout <= 0 {
		c.PongTimeout = DefaultConfig.PongTimeout
	}
	// Pings must go out before the peer's read deadline lapses.
	if c.PingInterval <= 0 || c.PingInterval >= c.PongTimeout {
		c.PingInterval = c.PongTimeout * 9 / 10
	}
	if c.MaxMessageSize <= 0 {
		c.MaxMessageSize = DefaultConfig.MaxMessageSize
	}
	return c
}

// Connection owns one client socket. The write loop is the only writer;
// everyone else hands messages over through Send.
type Connection struct {
	ws     *websocket.Conn
	cfg    Config
	logger logger.Interface

	send      chan []byte
	done      chan struct{}
	closeOnce sync.Once
}

// New wraps an upgraded socket.
func New(ws *websocket.Conn, cfg Config, logger logger.Interface) *Connection {
	cfg = cfg.WithDefaults()
	return &Connection{
		ws:     ws,
		cfg:    cfg,
		logger: logger,
		send:   make(chan []byte, cfg.SendBuffer),
		done:   make(chan struct{}),
	}
}

// Send enqueues msg. It never blocks: a closed connection or a full buffer
// rejects the message.
func (c *Connection) Send(msg []byte) bool {
	select {
	case <-c.done:
		return false
	default:
	}

	select {
	case c.send <- msg:
		return true
	default:
		return false
	}
}

// Close stops both loops. The send channel is left open so concurrent
// Send calls stay safe.
func (c *Connection) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
	})
}

// Done is closed once the connection is closing.
func (c *Connection) Done() <-chan struct{} {
	return c.done
}

// Run starts the write loop and reads until the client goes away.
// It returns after the connection is closed.
func (c *Connection) Run() {
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		c.writeLoop()
	}()

	c.readLoop()
	c.Close()
	<-writerDone
}

func (c *Connection) readLoop() {
	c.ws.SetReadLimit(c.cfg.MaxMessageSize)
	_ = c.ws.SetReadDeadline(time.Now().Add(c.cfg.PongTimeout))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(c.cfg.PongTimeout))
	})

	for {
		// Clients have nothing to say; reading only services control frames.
		if _, _, err := c.ws.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseNoStatusReceived) {
				c.logger.Debug("websocket read failed", logger.Field{Key: "error", Value: err.Error()})
			}
			return
		}
	}
}

func (c *Connection) writeLoop() {
	ticker := time.NewTicker(c.cfg.PingInterval)
	defer func() {
		ticker.Stop()
		_ = c.ws.Close()
	}()

	for {
		select {
		case msg := <-c.send:
			_ = c.ws.SetWriteDeadline(time.Now().Add(c.cfg.WriteTimeout))
			if err := c.ws.WriteMessage(websocket.TextMessage, msg); err != nil {
				c.Close()
				return
			}

		case <-ticker.C:
			_ = c.ws.SetWriteDeadline(time.Now().Add(c.cfg.WriteTimeout))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.Close()
				return
			}

		case <-c.done:
			_ = c.ws.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(c.cfg.WriteTimeout))
			return
		}
	}
}
