// Package inventory keeps the session-wide position ledger: filled net
// position, volume reserved by resting orders and per-side order counts.
package inventory

import "etf-market-maker/exchange"

// Ledger is the single source of truth for exposure. The net position must
// stay within [-limit, +limit] as filled, and net position plus/minus the
// reserved side volume must stay within the limit even if every resting
// order fills. Mutated only from the serial event loop.
type Ledger struct {
	limit int64

	net          int64
	reservedSell int64
	reservedBuy  int64
	askCount     int
	bidCount     int
}

// NewLedger creates a flat ledger with the given position limit.
func NewLedger(limit int64) *Ledger {
	return &Ledger{limit: limit}
}

// Net returns the current filled net position.
func (l *Ledger) Net() int64 { return l.net }

// Limit returns the position limit.
func (l *Ledger) Limit() int64 { return l.limit }

// Reserved returns the summed remaining volume of resting orders on side.
func (l *Ledger) Reserved(side exchange.Side) int64 {
	if side == exchange.SideSell {
		return l.reservedSell
	}
	return l.reservedBuy
}

// OrderCount returns the number of resting orders on side. Orders with an
// in-flight cancel still count until their terminal status arrives.
func (l *Ledger) OrderCount(side exchange.Side) int {
	if side == exchange.SideSell {
		return l.askCount
	}
	return l.bidCount
}

// CanPlace reports whether a new order of volume on side keeps the worst-case
// exposure (everything resting fills) within the position limit.
func (l *Ledger) CanPlace(side exchange.Side, volume int64) bool {
	if side == exchange.SideSell {
		return l.net-l.reservedSell-volume >= -l.limit
	}
	return l.net+l.reservedBuy+volume <= l.limit
}

// OpenOrder books a newly inserted order: reserved volume and order count.
func (l *Ledger) OpenOrder(side exchange.Side, volume int64) {
	if side == exchange.SideSell {
		l.reservedSell += volume
		l.askCount++
	} else {
		l.reservedBuy += volume
		l.bidCount++
	}
}

// ApplyFill adjusts the net position by an incremental fill on side.
func (l *Ledger) ApplyFill(side exchange.Side, deltaFilled int64) {
	if side == exchange.SideSell {
		l.net -= deltaFilled
	} else {
		l.net += deltaFilled
	}
}

// ReleaseReserved gives back remaining volume shed by a fill or cancel, so
// the reserved sum always equals the true total of outstanding remaining
// volumes.
func (l *Ledger) ReleaseReserved(side exchange.Side, deltaRemaining int64) {
	if side == exchange.SideSell {
		l.reservedSell -= deltaRemaining
	} else {
		l.reservedBuy -= deltaRemaining
	}
}

// CloseOrder removes a terminated order from the side's count.
func (l *Ledger) CloseOrder(side exchange.Side) {
	if side == exchange.SideSell {
		l.askCount--
	} else {
		l.bidCount--
	}
}
