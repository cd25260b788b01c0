package realtime

import (
	"time"

	"github.com/gorilla/websocket"

	domainchat "unilodge/internal/domain/chat"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxFrameSize   = 16 * 1024
	eventBufferLen = 64
	sendBufferLen  = 64
)

// Client wraps a single websocket connection. The hub pushes persisted
// messages into Events; the connection handler drains them, runs its own
// merge logic and queues the resulting frames through Queue.
type Client struct {
	UserID string
	Events chan domainchat.Message

	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

func NewClient(hub *Hub, userID string, conn *websocket.Conn) *Client {
	return &Client{
		UserID: userID,
		Events: make(chan domainchat.Message, eventBufferLen),
		hub:    hub,
		conn:   conn,
		send:   make(chan []byte, sendBufferLen),
	}
}

// Queue enqueues an outbound frame without blocking. A false return means
// the send buffer is full and the frame was dropped; the peer is considered
// too slow and will be caught up on its next full load.
func (c *Client) Queue(payload []byte) bool {
	select {
	case c.send <- payload:
		return true
	default:
		return false
	}
}

// ReadPump consumes inbound frames until the connection drops, invoking
// onFrame for each one. It owns teardown: on exit the client is removed
// from the hub and the connection closed, whatever the failure path.
func (c *Client) ReadPump(onFrame func(payload []byte)) {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxFrameSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, payload, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		onFrame(payload)
	}
}

// WritePump flushes queued frames and keeps the connection alive with pings.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case payload := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
