package websocket

import (
	"context"
	"sync"
	"time"

	ws "github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
)

const (
	sendBufferSize = 32
	pingInterval   = 30 * time.Second
	writeTimeout   = 10 * time.Second
)

// Subscription is the only message a connection may send. It narrows the
// change feed to the named entities; an empty list restores everything.
type Subscription struct {
	Entities []string `json:"entities"`
}

// Client is one /ws connection.
type Client struct {
	hub  *Hub
	conn *ws.Conn
	send chan []byte

	mu     sync.RWMutex
	filter map[string]bool
}

func NewClient(hub *Hub, conn *ws.Conn) *Client {
	return &Client{
		hub:  hub,
		conn: conn,
		send: make(chan []byte, sendBufferSize),
	}
}

// Wants reports whether changes to entity should reach this connection.
func (c *Client) Wants(entity string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.filter == nil || c.filter[entity]
}

func (c *Client) subscribe(s Subscription) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(s.Entities) == 0 {
		c.filter = nil
		return
	}
	c.filter = make(map[string]bool, len(s.Entities))
	for _, e := range s.Entities {
		c.filter[e] = true
	}
}

// Run registers the client and serves it until the connection closes or
// ctx is done.
func (c *Client) Run(ctx context.Context) {
	c.hub.Register(c)
	defer c.hub.Unregister(c)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		c.writeLoop(ctx)
		cancel()
	}()
	c.readLoop(ctx)
	c.conn.Close(ws.StatusNormalClosure, "")
}

// readLoop applies subscriptions. Anything that does not decode as one
// ends the connection.
func (c *Client) readLoop(ctx context.Context) {
	for {
		var s Subscription
		if err := wsjson.Read(ctx, c.conn, &s); err != nil {
			return
		}
		c.subscribe(s)
		c.hub.logger.Debug("websocket subscription", "entities", s.Entities)
	}
}

func (c *Client) writeLoop(ctx context.Context) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-c.send:
			if !ok {
				return
			}
			wctx, cancel := context.WithTimeout(ctx, writeTimeout)
			err := c.conn.Write(wctx, ws.MessageText, msg)
			cancel()
			if err != nil {
				return
			}
		case <-ticker.C:
			pctx, cancel := context.WithTimeout(ctx, writeTimeout)
			err := c.conn.Ping(pctx)
			cancel()
			if err != nil {
				return
			}
		}
	}
}
