// Package feed maintains the WebSocket connection to the upstream tick
// feed and routes raw messages to a registered handler.
package feed

import (
	"context"
	"fmt"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const defaultReconnectWait = 3 * time.Second

// Client dials the feed, sends an optional auth/subscribe payload verbatim
// after connecting, and pumps messages to the handler. The connection is
// supervised: after a drop the client redials on a fixed wait until the
// context is cancelled.
type Client struct {
	url           string
	authPayload   string
	reconnectWait time.Duration
	handler       func([]byte)
	logger        *zap.Logger

	// Optional hook, called once per reconnection attempt.
	OnReconnect func()
}

func NewClient(url, authPayload string, reconnectWait time.Duration, logger *zap.Logger) *Client {
	if reconnectWait <= 0 {
		reconnectWait = defaultReconnectWait
	}
	return &Client{
		url:           url,
		authPayload:   authPayload,
		reconnectWait: reconnectWait,
		logger:        logger,
	}
}

// SetMessageHandler sets the function to handle incoming messages.
func (c *Client) SetMessageHandler(h func([]byte)) {
	c.handler = h
}

// Run owns the connection lifecycle. It blocks until ctx is cancelled.
// There is no retry cap: the upstream feed being down just means no ticks
// arrive until it comes back.
func (c *Client) Run(ctx context.Context) {
	for attempt := 0; ; attempt++ {
		if attempt > 0 {
			if c.OnReconnect != nil {
				c.OnReconnect()
			}
			select {
			case <-ctx.Done():
				return
			case <-time.After(c.reconnectWait):
			}
		}

		conn, err := c.dial()
		if err != nil {
			c.logger.Warn("feed connect failed", zap.String("url", c.url), zap.Error(err))
			continue
		}
		c.logger.Info("feed connected", zap.String("url", c.url))

		c.pump(ctx, conn)
		if ctx.Err() != nil {
			c.logger.Info("feed listener stopped")
			return
		}
		c.logger.Warn("feed disconnected, reconnecting", zap.Duration("wait", c.reconnectWait))
	}
}

func (c *Client) dial() (*websocket.Conn, error) {
	conn, _, err := websocket.DefaultDialer.Dial(c.url, nil)
	if err != nil {
		return nil, err
	}
	if c.authPayload != "" {
		if err := conn.WriteMessage(websocket.TextMessage, []byte(c.authPayload)); err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("send auth/subscribe payload: %w", err)
		}
		c.logger.Info("sent auth/subscribe payload")
	}
	return conn, nil
}

// pump reads messages until the connection fails or ctx is cancelled.
func (c *Client) pump(ctx context.Context, conn *websocket.Conn) {
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.Close() // unblocks ReadMessage
		case <-done:
		}
	}()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			_ = conn.Close()
			if ctx.Err() == nil {
				c.logger.Error("feed read error", zap.Error(err))
			}
			return
		}
		if c.handler != nil {
			c.handler(msg)
		}
	}
}
