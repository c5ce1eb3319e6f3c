// Package exchange defines the wire-level vocabulary shared by the trading
// core and its session transport: instruments, sides, integer tick prices
// and the event/command interfaces at the boundary between them.
package exchange

import "math"

// Instrument identifies one of the two tradable products in the session.
type Instrument int

const (
	// InstrumentFuture is the hedge leg.
	InstrumentFuture Instrument = 0
	// InstrumentETF is the quoted leg.
	InstrumentETF Instrument = 1
)

func (i Instrument) String() string {
	switch i {
	case InstrumentFuture:
		return "FUTURE"
	case InstrumentETF:
		return "ETF"
	default:
		return "UNKNOWN"
	}
}

// Side of an order.
type Side int

const (
	SideSell Side = 0
	SideBuy  Side = 1
)

func (s Side) String() string {
	if s == SideBuy {
		return "BUY"
	}
	return "SELL"
}

// Opposite returns the other side.
func (s Side) Opposite() Side {
	if s == SideBuy {
		return SideSell
	}
	return SideBuy
}

// Lifespan of an order.
type Lifespan int

const (
	LifespanFillAndKill Lifespan = 0
	LifespanGoodForDay  Lifespan = 1
)

func (l Lifespan) String() string {
	if l == LifespanFillAndKill {
		return "FAK"
	}
	return "GFD"
}

// Prices are integers in minimum currency units and are clamped to the
// representable range below. MaximumAsk doubles as the "no liquidity"
// sentinel for an absent best ask.
const (
	MinimumBid int64 = 1
	MaximumAsk int64 = math.MaxInt32
)

// TopLevelCount is the fixed number of book levels per side carried in
// order book and trade tick updates.
const TopLevelCount = 5

// RoundUpToTick rounds price up to the next multiple of tick.
func RoundUpToTick(price, tick int64) int64 {
	return (price + tick - 1) / tick * tick
}

// RoundDownToTick rounds price down to the previous multiple of tick.
func RoundDownToTick(price, tick int64) int64 {
	return price / tick * tick
}

// MinBidNearestTick is the lowest valid bid price on the tick grid.
func MinBidNearestTick(tick int64) int64 {
	return RoundUpToTick(MinimumBid, tick)
}

// MaxAskNearestTick is the highest valid ask price on the tick grid.
func MaxAskNearestTick(tick int64) int64 {
	return RoundDownToTick(MaximumAsk, tick)
}
