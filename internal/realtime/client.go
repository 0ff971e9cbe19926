package realtime

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 8192
	sendBufferSize = 64
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The browser client runs on a different origin in development
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Client is one websocket connection attached to the hub. userID is empty
// until the connection announces itself with a join event.
type Client struct {
	hub      *Hub
	conn     *websocket.Conn
	send     chan []byte
	socketID string
	userID   string
	closed   chan struct{}
}

// newClient wraps a websocket connection for the hub
func newClient(hub *Hub, conn *websocket.Conn) *Client {
	return &Client{
		hub:      hub,
		conn:     conn,
		send:     make(chan []byte, sendBufferSize),
		socketID: uuid.NewString(),
		closed:   make(chan struct{}),
	}
}

// SocketID returns the connection's opaque identifier
func (c *Client) SocketID() string { return c.socketID }

// UserID returns the user this connection represents, if joined
func (c *Client) UserID() string { return c.userID }

// enqueue hands a frame to the write pump. A full buffer or a closed
// connection drops the frame; live delivery is best effort by design.
func (c *Client) enqueue(frame []byte) bool {
	select {
	case <-c.closed:
		return false
	default:
	}
	select {
	case c.send <- frame:
		return true
	default:
		c.hub.log.Warn().Str("socket_id", c.socketID).Msg("send buffer full, dropping frame")
		return false
	}
}

// close terminates the connection from the server side
func (c *Client) close() {
	select {
	case <-c.closed:
	default:
		close(c.closed)
		if c.conn != nil {
			c.conn.Close()
		}
	}
}

// readPump reads frames off the connection and feeds them to the dispatcher
// until the connection drops
func (c *Client) readPump(d *Dispatcher) {
	defer func() {
		c.hub.detach(c)
		c.close()
		if c.userID != "" {
			c.hub.log.Info().Str("user_id", c.userID).Str("socket_id", c.socketID).Msg("user disconnected")
		}
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.hub.log.Warn().Err(err).Str("socket_id", c.socketID).Msg("websocket read error")
			}
			return
		}
		d.HandleMessage(c, message)
	}
}

// writePump drains the send channel onto the connection and keeps the
// connection alive with periodic pings
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.close()
	}()

	for {
		select {
		case frame, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.closed:
			return
		}
	}
}

// ServeWS upgrades an HTTP request to a websocket connection and runs its
// read/write pumps. Intended to be mounted as an Echo handler.
func ServeWS(hub *Hub, dispatcher *Dispatcher) echo.HandlerFunc {
	return func(c echo.Context) error {
		conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
		if err != nil {
			return err
		}

		client := newClient(hub, conn)
		hub.attach(client)
		hub.log.Debug().Str("socket_id", client.socketID).Msg("websocket connected")

		go client.writePump()
		go client.readPump(dispatcher)
		return nil
	}
}
