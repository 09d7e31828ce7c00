package websocket

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/gorilla/websocket"
)

const (
	defaultWriteWait = 10 * time.Second
	defaultPongWait  = 60 * time.Second
	maxMessageSize   = 1024
)

// QueryFunc resolves a client's per-day request into a response payload.
// The string is the raw date from the request ("2006-01-02").
type QueryFunc func(ctx context.Context, date string) (interface{}, error)

// clientRequest is what a connected client may send us.
type clientRequest struct {
	Date string `json:"date"`
}

// Client is a middleman between a websocket connection and the hub.
type Client struct {
	hub   *Hub
	conn  *websocket.Conn
	send  chan []byte
	query QueryFunc

	writeWait time.Duration
	pongWait  time.Duration
	logger    *slog.Logger
}

// NewClient wraps an upgraded connection and registers it with the hub.
// writeWait and pongWait fall back to defaults when zero.
func NewClient(hub *Hub, conn *websocket.Conn, query QueryFunc, writeWait, pongWait time.Duration, logger *slog.Logger) *Client {
	if writeWait <= 0 {
		writeWait = defaultWriteWait
	}
	if pongWait <= 0 {
		pongWait = defaultPongWait
	}
	if logger == nil {
		logger = slog.Default()
	}
	c := &Client{
		hub:       hub,
		conn:      conn,
		send:      make(chan []byte, 16),
		query:     query,
		writeWait: writeWait,
		pongWait:  pongWait,
		logger:    logger.With(slog.String("component", "websocket.client")),
	}
	hub.register <- c
	return c
}

// Serve runs both pumps. Blocks until the connection drops.
func (c *Client) Serve() {
	go c.writePump()
	c.readPump()
}

// readPump handles inbound query requests from the client.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(c.pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(c.pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Warn("unexpected close", slog.String("error", err.Error()))
			}
			return
		}

		var req clientRequest
		if err := json.Unmarshal(message, &req); err != nil || req.Date == "" {
			c.reply(Envelope{Type: TypeError, Err: "expected {\"date\":\"2006-01-02\"}"})
			continue
		}

		data, err := c.query(context.Background(), req.Date)
		if err != nil {
			c.reply(Envelope{Type: TypeError, Err: err.Error()})
			continue
		}
		c.reply(Envelope{Type: TypeSnapshot, Data: data})
	}
}

// reply queues a message to this client only.
func (c *Client) reply(env Envelope) {
	payload, err := json.Marshal(env)
	if err != nil {
		return
	}
	select {
	case c.send <- payload:
	default:
	}
}

// writePump flushes queued messages and keeps the connection alive with pings.
func (c *Client) writePump() {
	pingPeriod := (c.pongWait * 9) / 10
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(c.writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(c.writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
