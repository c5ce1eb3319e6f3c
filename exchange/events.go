package exchange

// BookUpdate carries the top levels of one side-paired book snapshot.
// A zero price marks an absent level.
type BookUpdate struct {
	AskPrices  [TopLevelCount]int64
	AskVolumes [TopLevelCount]int64
	BidPrices  [TopLevelCount]int64
	BidVolumes [TopLevelCount]int64
}

// EventHandler receives the inbound event stream.
//
// The transport must invoke the callbacks one at a time, in the order the
// events occurred, with no reentrancy: a handler returns before the next
// event is delivered. Every invariant in the trading core rests on this
// precondition; implementations that fan events out across goroutines are
// broken by construction.
type EventHandler interface {
	// OnOrderBook delivers a sequence-numbered book snapshot.
	OnOrderBook(instrument Instrument, sequence uint64, book BookUpdate)

	// OnTradeTicks delivers recently traded levels. Informational.
	OnTradeTicks(instrument Instrument, sequence uint64, book BookUpdate)

	// OnOrderStatus reports cumulative filled volume, remaining volume and
	// accrued fees for one of our orders. remaining == 0 is terminal.
	OnOrderStatus(orderID uint64, filled, remaining, fees int64)

	// OnOrderError reports a rejected or failed order. orderID may be zero
	// when the error is not attributable to a specific order.
	OnOrderError(orderID uint64, message string)

	// OnHedgeFilled reports an executed hedge order with its average price.
	OnHedgeFilled(orderID uint64, price, volume int64)

	// OnDisconnect signals the session ended. No further events follow.
	OnDisconnect()
}

// CommandSink accepts outbound order commands. Sends are fire-and-forget:
// the core never waits for acknowledgement, which arrives later as a
// separate OrderStatus/OrderError/HedgeFilled event.
type CommandSink interface {
	InsertOrder(orderID uint64, side Side, price, volume int64, lifespan Lifespan)
	CancelOrder(orderID uint64)
	HedgeOrder(orderID uint64, side Side, price, volume int64)
}
