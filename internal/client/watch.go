package client

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	hub "github.com/dukerupert/smartfood/internal/websocket"
)

// wsURL maps the API base URL onto the change feed endpoint.
func wsURL(base string) string {
	base = strings.TrimRight(base, "/")
	switch {
	case strings.HasPrefix(base, "https://"):
		base = "wss://" + strings.TrimPrefix(base, "https://")
	case strings.HasPrefix(base, "http://"):
		base = "ws://" + strings.TrimPrefix(base, "http://")
	}
	return base + "/ws"
}

// Watch listens to the server's change feed and refetches the collection
// named in each message. It blocks until ctx is done or the connection
// drops. onChange, if non-nil, is called after each refetch.
func (c *Client) Watch(ctx context.Context, onChange func(hub.Message)) error {
	conn, _, err := websocket.Dial(ctx, wsURL(c.api.baseURL), nil)
	if err != nil {
		return fmt.Errorf("%w: dial change feed: %w", ErrTransport, err)
	}
	defer conn.CloseNow()

	targets := c.refetchers()
	for {
		var msg hub.Message
		if err := wsjson.Read(ctx, conn, &msg); err != nil {
			if ctx.Err() != nil || websocket.CloseStatus(err) == websocket.StatusNormalClosure {
				return nil
			}
			return fmt.Errorf("%w: read change feed: %w", ErrTransport, err)
		}

		r, ok := targets[msg.Entity]
		if !ok {
			c.logger.Debug("ignoring change", "entity", msg.Entity)
			continue
		}
		// Refetch errors are already logged and notified.
		if err := r.Refetch(ctx); err != nil && errors.Is(err, context.Canceled) {
			return nil
		}
		if onChange != nil {
			onChange(msg)
		}
	}
}
