package canvas

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/coder/websocket"

	"github.com/10Vaibhav/CollabDraw/internal/protocol"
)

// ReconnectPolicy bounds the dial retry loop. Whether and when to redial a
// dropped session is the caller's decision; these knobs come from
// configuration.
type ReconnectPolicy struct {
	MaxAttempts int
	Delay       time.Duration
}

// DefaultReconnectPolicy matches the relay client defaults.
var DefaultReconnectPolicy = ReconnectPolicy{MaxAttempts: 5, Delay: time.Second}

const connWriteWait = 10 * time.Second

// WSConn wraps a relay websocket as the session's Conn. Reads are pumped
// by ReadLoop on a dedicated goroutine; sends may come from the event
// loop.
type WSConn struct {
	conn *websocket.Conn
	ctx  context.Context
}

// Dial connects to the relay, retrying with linear backoff up to the
// policy's attempt limit.
func Dial(ctx context.Context, url string, policy ReconnectPolicy) (*WSConn, error) {
	if policy.MaxAttempts <= 0 {
		policy = DefaultReconnectPolicy
	}

	var lastErr error
	for attempt := 1; attempt <= policy.MaxAttempts; attempt++ {
		conn, _, err := websocket.Dial(ctx, url, nil)
		if err == nil {
			return &WSConn{conn: conn, ctx: ctx}, nil
		}
		lastErr = err
		slog.Warn("dial relay", "attempt", attempt, "error", err)

		select {
		case <-time.After(policy.Delay * time.Duration(attempt)):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return nil, fmt.Errorf("dial relay after %d attempts: %w", policy.MaxAttempts, lastErr)
}

func (c *WSConn) Send(msg *protocol.Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	writeCtx, cancel := context.WithTimeout(c.ctx, connWriteWait)
	defer cancel()
	return c.conn.Write(writeCtx, websocket.MessageText, data)
}

// ReadLoop reads messages until the connection or context closes,
// dispatching each to the handler. Malformed frames are logged and
// skipped.
func (c *WSConn) ReadLoop(handler func(*protocol.Message)) error {
	for {
		_, data, err := c.conn.Read(c.ctx)
		if err != nil {
			if websocket.CloseStatus(err) == websocket.StatusNormalClosure ||
				websocket.CloseStatus(err) == websocket.StatusGoingAway {
				return nil
			}
			return err
		}

		var msg protocol.Message
		if err := json.Unmarshal(data, &msg); err != nil {
			slog.Warn("invalid relay message", "error", err)
			continue
		}
		handler(&msg)
	}
}

func (c *WSConn) Close() error {
	return c.conn.Close(websocket.StatusNormalClosure, "")
}
