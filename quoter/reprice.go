package quoter

import (
	"go.uber.org/zap"

	"etf-market-maker/exchange"
	"etf-market-maker/order"
)

// sellTarget computes the ask quote: the observed top ask marked up by the
// margin and rounded up to the tick grid, floored one tick above the hedge
// instrument's bid so the quote can never cross the hedge leg. A zero top
// ask means no liquidity and yields the maximum representable price.
func sellTarget(topAsk int64, hedgeBestBid int64, p Params) int64 {
	if topAsk == 0 {
		return exchange.MaximumAsk
	}
	marked := exchange.RoundUpToTick(ceilDiv(topAsk*(10000+p.MarginBasis), 10000), p.TickSize)
	if floor := hedgeBestBid + p.TickSize; floor > marked {
		return floor
	}
	return marked
}

// buyTarget mirrors sellTarget: markdown rounded down, capped one tick below
// the hedge instrument's ask. A zero top bid yields zero (withdraw).
func buyTarget(topBid int64, hedgeBestAsk int64, p Params) int64 {
	if topBid == 0 {
		return 0
	}
	marked := exchange.RoundDownToTick(topBid*(10000-p.MarginBasis)/10000, p.TickSize)
	if ceiling := hedgeBestAsk - p.TickSize; ceiling < marked {
		return ceiling
	}
	return marked
}

func ceilDiv(n, d int64) int64 {
	return (n + d - 1) / d
}

// repriceSellOrders reconciles resting sell orders against the new target:
// orders priced below the target would execute immediately and are
// cancelled; the worst-priced survivor is evicted when the depth cap leaves
// no room; and a fresh order is placed at the target unless one already
// rests there or a placement guard trips.
func (e *Engine) repriceSellOrders(book exchange.BookUpdate, p Params) {
	topAsk := book.AskPrices[0]
	target := sellTarget(topAsk, e.view.HedgeBestBid(), p)

	existsAtTarget := false
	var worstID uint64
	var worst *order.Order
	e.asks.Range(func(id uint64, o *order.Order) bool {
		if o.Cancelling {
			return true
		}
		if o.Price == target {
			existsAtTarget = true
		}
		if o.Price < target {
			e.cancelOrder(exchange.SideSell, id, o)
		} else if worst == nil || o.Price >= worst.Price {
			worstID, worst = id, o
		}
		return true
	})

	if worst != nil && e.ledger.OrderCount(exchange.SideSell) >= p.MaxOrderDepth-1 {
		e.log.Info("evicting worst sell order to make room",
			zap.Uint64("order_id", worstID),
			zap.Int64("price", worst.Price))
		e.cancelOrder(exchange.SideSell, worstID, worst)
	}

	// Sizing shrinks toward zero as the position approaches the short bound
	// and grows as it approaches the long bound.
	volume := (e.ledger.Net() + p.PositionLimit) / int64(p.MaxOrderDepth)

	if existsAtTarget ||
		volume <= 0 ||
		!e.ledger.CanPlace(exchange.SideSell, volume) ||
		e.ledger.OrderCount(exchange.SideSell) >= p.MaxOrderDepth ||
		topAsk == 0 ||
		target > exchange.MaximumAsk {
		return
	}
	e.placeOrder(exchange.SideSell, target, volume)
}

// repriceBuyOrders is the price-mirrored, sign-flipped analogue of
// repriceSellOrders.
func (e *Engine) repriceBuyOrders(book exchange.BookUpdate, p Params) {
	topBid := book.BidPrices[0]
	target := buyTarget(topBid, e.view.HedgeBestAsk(), p)

	existsAtTarget := false
	var worstID uint64
	var worst *order.Order
	e.bids.Range(func(id uint64, o *order.Order) bool {
		if o.Cancelling {
			return true
		}
		if o.Price == target {
			existsAtTarget = true
		}
		if o.Price > target {
			e.cancelOrder(exchange.SideBuy, id, o)
		} else if worst == nil || o.Price <= worst.Price {
			worstID, worst = id, o
		}
		return true
	})

	if worst != nil && e.ledger.OrderCount(exchange.SideBuy) >= p.MaxOrderDepth-1 {
		e.log.Info("evicting worst buy order to make room",
			zap.Uint64("order_id", worstID),
			zap.Int64("price", worst.Price))
		e.cancelOrder(exchange.SideBuy, worstID, worst)
	}

	volume := (p.PositionLimit - e.ledger.Net()) / int64(p.MaxOrderDepth)

	if existsAtTarget ||
		volume <= 0 ||
		!e.ledger.CanPlace(exchange.SideBuy, volume) ||
		e.ledger.OrderCount(exchange.SideBuy) >= p.MaxOrderDepth ||
		topBid == 0 ||
		target < exchange.MinimumBid {
		return
	}
	e.placeOrder(exchange.SideBuy, target, volume)
}

// cancelOrder sends a cancel once. The order keeps occupying its slot until
// the terminal status arrives; Cancelling suppresses further cancels and
// excludes it from repricing decisions.
func (e *Engine) cancelOrder(side exchange.Side, id uint64, o *order.Order) {
	o.Cancelling = true
	e.sink.CancelOrder(id)
	e.met.OrdersCancelled.WithLabelValues(side.String()).Inc()
	e.log.Debug("cancel sent",
		zap.Uint64("order_id", id),
		zap.Stringer("side", side),
		zap.Int64("price", o.Price))
}

func (e *Engine) placeOrder(side exchange.Side, price, volume int64) {
	id := e.nextID()
	e.sink.InsertOrder(id, side, price, volume, exchange.LifespanGoodForDay)
	e.ledger.OpenOrder(side, volume)
	o := &order.Order{Price: price, RemainingVolume: volume}
	if side == exchange.SideSell {
		e.asks.Put(id, o)
	} else {
		e.bids.Put(id, o)
	}
	e.met.OrdersInserted.WithLabelValues(side.String()).Inc()
	e.log.Info("order placed",
		zap.Uint64("order_id", id),
		zap.Stringer("side", side),
		zap.Int64("price", price),
		zap.Int64("volume", volume))
	e.syncGauges()
}
