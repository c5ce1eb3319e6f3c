package session

import "etf-market-maker/exchange"

// Fanout delivers every event to each handler in order, on the caller's
// goroutine. It preserves the serial delivery contract: handler i+1 sees an
// event only after handler i returned.
type Fanout []exchange.EventHandler

var _ exchange.EventHandler = Fanout{}

func (f Fanout) OnOrderBook(instrument exchange.Instrument, sequence uint64, book exchange.BookUpdate) {
	for _, h := range f {
		h.OnOrderBook(instrument, sequence, book)
	}
}

func (f Fanout) OnTradeTicks(instrument exchange.Instrument, sequence uint64, book exchange.BookUpdate) {
	for _, h := range f {
		h.OnTradeTicks(instrument, sequence, book)
	}
}

func (f Fanout) OnOrderStatus(orderID uint64, filled, remaining, fees int64) {
	for _, h := range f {
		h.OnOrderStatus(orderID, filled, remaining, fees)
	}
}

func (f Fanout) OnOrderError(orderID uint64, message string) {
	for _, h := range f {
		h.OnOrderError(orderID, message)
	}
}

func (f Fanout) OnHedgeFilled(orderID uint64, price, volume int64) {
	for _, h := range f {
		h.OnHedgeFilled(orderID, price, volume)
	}
}

func (f Fanout) OnDisconnect() {
	for _, h := range f {
		h.OnDisconnect()
	}
}
