package ws

import (
	"errors"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/roomwire/roomwire/internal/protocol"
)

var errConnClosed = errors.New("connection closed")

// wsConn is the relay's transport handle for one websocket. A mutex
// serializes writes because fan-out reaches this connection from other
// sessions' goroutines while the ping loop writes control frames.
type wsConn struct {
	mu     sync.Mutex
	conn   *websocket.Conn
	closed bool
}

func newConn(conn *websocket.Conn) *wsConn {
	return &wsConn{conn: conn}
}

// Send writes one outbound frame. Sending on a closed connection is a
// no-op so that fan-outs racing a disconnect never error.
func (c *wsConn) Send(reply protocol.Reply) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	return c.conn.WriteJSON(reply)
}

// Close shuts the websocket down once; later calls are no-ops.
func (c *wsConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	return c.conn.Close()
}

func (c *wsConn) ping() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return errConnClosed
	}
	return c.conn.WriteMessage(websocket.PingMessage, nil)
}
