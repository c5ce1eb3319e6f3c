// Package session is the transport collaborator: a websocket client that
// turns inbound JSON frames into exchange events, delivered serially from a
// single read goroutine, and encodes outbound order commands.
package session

import (
	"encoding/json"
	"fmt"

	"etf-market-maker/exchange"
)

// Frame type tags on the wire.
const (
	frameOrderBook   = "order_book"
	frameTradeTicks  = "trade_ticks"
	frameOrderStatus = "order_status"
	frameOrderError  = "order_error"
	frameHedgeFilled = "hedge_filled"

	frameInsertOrder = "insert_order"
	frameCancelOrder = "cancel_order"
	frameHedgeOrder  = "hedge_order"
)

// frame is the superset of all message shapes. Unused fields stay zero.
type frame struct {
	Type       string  `json:"type"`
	Instrument int     `json:"instrument,omitempty"`
	Sequence   uint64  `json:"sequence,omitempty"`
	AskPrices  []int64 `json:"askPrices,omitempty"`
	AskVolumes []int64 `json:"askVolumes,omitempty"`
	BidPrices  []int64 `json:"bidPrices,omitempty"`
	BidVolumes []int64 `json:"bidVolumes,omitempty"`
	OrderID    uint64  `json:"orderId,omitempty"`
	Filled     int64   `json:"filled,omitempty"`
	Remaining  int64   `json:"remaining,omitempty"`
	Fees       int64   `json:"fees,omitempty"`
	Price      int64   `json:"price,omitempty"`
	Volume     int64   `json:"volume,omitempty"`
	Side       string  `json:"side,omitempty"`
	Lifespan   string  `json:"lifespan,omitempty"`
	Message    string  `json:"message,omitempty"`
}

// dispatch decodes one inbound frame and invokes the matching handler
// callback. Unknown frame types are an error so protocol drift is loud.
func dispatch(data []byte, h exchange.EventHandler) error {
	var f frame
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("decode frame: %w", err)
	}
	switch f.Type {
	case frameOrderBook:
		h.OnOrderBook(exchange.Instrument(f.Instrument), f.Sequence, f.book())
	case frameTradeTicks:
		h.OnTradeTicks(exchange.Instrument(f.Instrument), f.Sequence, f.book())
	case frameOrderStatus:
		h.OnOrderStatus(f.OrderID, f.Filled, f.Remaining, f.Fees)
	case frameOrderError:
		h.OnOrderError(f.OrderID, f.Message)
	case frameHedgeFilled:
		h.OnHedgeFilled(f.OrderID, f.Price, f.Volume)
	default:
		return fmt.Errorf("unknown frame type %q", f.Type)
	}
	return nil
}

func (f *frame) book() exchange.BookUpdate {
	var b exchange.BookUpdate
	copyLevels(b.AskPrices[:], f.AskPrices)
	copyLevels(b.AskVolumes[:], f.AskVolumes)
	copyLevels(b.BidPrices[:], f.BidPrices)
	copyLevels(b.BidVolumes[:], f.BidVolumes)
	return b
}

func copyLevels(dst []int64, src []int64) {
	copy(dst, src)
}

func encodeInsert(orderID uint64, side exchange.Side, price, volume int64, lifespan exchange.Lifespan) ([]byte, error) {
	return json.Marshal(frame{
		Type:     frameInsertOrder,
		OrderID:  orderID,
		Side:     side.String(),
		Price:    price,
		Volume:   volume,
		Lifespan: lifespan.String(),
	})
}

func encodeCancel(orderID uint64) ([]byte, error) {
	return json.Marshal(frame{Type: frameCancelOrder, OrderID: orderID})
}

func encodeHedge(orderID uint64, side exchange.Side, price, volume int64) ([]byte, error) {
	return json.Marshal(frame{
		Type:    frameHedgeOrder,
		OrderID: orderID,
		Side:    side.String(),
		Price:   price,
		Volume:  volume,
	})
}
