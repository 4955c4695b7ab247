package realtime

import (
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBuffer     = 64
)

type outFrame struct {
	Event   string `json:"event"`
	Payload any    `json:"payload"`
}

// Client wraps one websocket connection. Outgoing events go through a
// buffered channel drained by writePump, so a push never blocks the sender.
type Client struct {
	conn *websocket.Conn
	send chan outFrame

	closeOnce sync.Once
	done      chan struct{}
}

func newClient(conn *websocket.Conn) *Client {
	return &Client{
		conn: conn,
		send: make(chan outFrame, sendBuffer),
		done: make(chan struct{}),
	}
}

// Push queues an event for delivery. It fails without blocking when the
// client is gone or too slow to drain its buffer.
func (c *Client) Push(event string, payload any) error {
	select {
	case <-c.done:
		return fmt.Errorf("connection is closed")
	default:
	}

	select {
	case c.send <- outFrame{Event: event, Payload: payload}:
		return nil
	default:
		return fmt.Errorf("send buffer is full")
	}
}

func (c *Client) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
		c.conn.Close()
	})
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Close()
	}()

	for {
		select {
		case <-c.done:
			return
		case frame := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(frame); err != nil {
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

// readPump decodes incoming frames and hands them to the hub. It returns on
// any read error, normal closure included.
func (c *Client) readPump(handle func(Frame)) {
	defer c.Close()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		var frame Frame
		if err := c.conn.ReadJSON(&frame); err != nil {
			return
		}
		handle(frame)
	}
}
