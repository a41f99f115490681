package marketdata

import (
	"fmt"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// WSClient handles the WebSocket connection to the live tick feed and
// message routing.
type WSClient struct {
	url         string
	instruments []string
	conn        *websocket.Conn
	handler     func([]byte)
	logger      *zap.Logger
}

// NewWSClient creates a WebSocket client subscribing to ticks for the
// given instruments.
func NewWSClient(url string, instruments []string, logger *zap.Logger) *WSClient {
	return &WSClient{
		url:         url,
		instruments: instruments,
		logger:      logger,
	}
}

// SetMessageHandler sets the function to handle incoming messages.
func (c *WSClient) SetMessageHandler(h func([]byte)) {
	c.handler = h
}

// Connect establishes the WebSocket connection and subscribes to the tick
// channel of every configured instrument. It does not start the listener.
func (c *WSClient) Connect() error {
	conn, _, err := websocket.DefaultDialer.Dial(c.url, nil)
	if err != nil {
		c.logger.Error("Failed to connect to WebSocket", zap.String("url", c.url), zap.Error(err))
		return err
	}
	c.conn = conn
	c.logger.Info("WebSocket connected", zap.String("url", c.url))

	return c.subscribe()
}

// Listen reads messages until the connection drops, then reconnects and
// resubscribes indefinitely.
func (c *WSClient) Listen() {
	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			c.logger.Error("WebSocket read error", zap.Error(err))

			for {
				time.Sleep(3 * time.Second)
				if err := c.reconnectAndResubscribe(); err != nil {
					c.logger.Warn("Retrying reconnect...")
					continue
				}
				c.logger.Info("Reconnected successfully")
				break
			}
			continue // start listening again on the new connection
		}

		if c.handler != nil {
			c.handler(msg)
		}
	}
}

func (c *WSClient) subscribe() error {
	args := make([]string, 0, len(c.instruments))
	for _, instrument := range c.instruments {
		args = append(args, fmt.Sprintf("tick.%s", instrument))
	}

	subMsg := map[string]interface{}{
		"op":   "subscribe",
		"args": args,
	}
	if err := c.conn.WriteJSON(subMsg); err != nil {
		return fmt.Errorf("websocket subscribe failed: %w", err)
	}
	return nil
}

func (c *WSClient) reconnectAndResubscribe() error {
	newConn, _, err := websocket.DefaultDialer.Dial(c.url, nil)
	if err != nil {
		return err
	}

	if c.conn != nil {
		_ = c.conn.Close()
	}
	c.conn = newConn

	return c.subscribe()
}
