package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"etf-market-maker/exchange"
)

// Client is a websocket session to the exchange gateway. It implements
// exchange.CommandSink. Inbound events are read by exactly one goroutine
// (Run) and handed to the handler one at a time in arrival order, which is
// the delivery contract the trading core depends on.
type Client struct {
	url  string
	log  *zap.Logger
	conn *websocket.Conn

	// writeMu serializes command writes; gorilla allows one concurrent writer.
	writeMu sync.Mutex
}

// Dial connects to the gateway at url.
func Dial(url string, log *zap.Logger) (*Client, error) {
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}
	log.Info("session connected", zap.String("url", url))
	return &Client{url: url, log: log, conn: conn}, nil
}

// Run reads and dispatches events until the connection drops or ctx is
// cancelled. It delivers OnDisconnect exactly once before returning. Must be
// called from a single goroutine.
func (c *Client) Run(ctx context.Context, handler exchange.EventHandler) error {
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = c.conn.Close()
		case <-done:
		}
	}()

	defer handler.OnDisconnect()
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("session read: %w", err)
		}
		if err := dispatch(data, handler); err != nil {
			// A malformed frame is logged and skipped; the stream itself is
			// still intact and ordered.
			c.log.Error("dropping frame", zap.Error(err))
		}
	}
}

// Close tears the connection down.
func (c *Client) Close() error {
	return c.conn.Close()
}

// InsertOrder sends a limit order. Fire-and-forget: failures are logged and
// surface later as the absence of a status for this id.
func (c *Client) InsertOrder(orderID uint64, side exchange.Side, price, volume int64, lifespan exchange.Lifespan) {
	data, err := encodeInsert(orderID, side, price, volume, lifespan)
	if err != nil {
		c.log.Error("encode insert", zap.Uint64("order_id", orderID), zap.Error(err))
		return
	}
	c.write(data)
}

// CancelOrder requests a cancel for orderID.
func (c *Client) CancelOrder(orderID uint64) {
	data, err := encodeCancel(orderID)
	if err != nil {
		c.log.Error("encode cancel", zap.Uint64("order_id", orderID), zap.Error(err))
		return
	}
	c.write(data)
}

// HedgeOrder sends a hedge order on the futures leg.
func (c *Client) HedgeOrder(orderID uint64, side exchange.Side, price, volume int64) {
	data, err := encodeHedge(orderID, side, price, volume)
	if err != nil {
		c.log.Error("encode hedge", zap.Uint64("order_id", orderID), zap.Error(err))
		return
	}
	c.write(data)
}

func (c *Client) write(data []byte) {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		c.log.Error("session write", zap.Error(err))
	}
}
